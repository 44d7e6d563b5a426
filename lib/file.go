package lib

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/zin-lang/zin/value"
)

// FileSystem is the boundary every file effect goes through. Relative paths
// resolve against Root; an empty Root means the working directory. All
// operations work on whole files and close them before returning.
type FileSystem struct {
	Root string
}

func (f *FileSystem) Resolve(path string) string {
	if f == nil || f.Root == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(f.Root, path)
}

// CreateEmpty creates path, truncating it if it exists.
func (f *FileSystem) CreateEmpty(path string) error {
	full := f.Resolve(path)
	log.Trace().Str("path", full).Msg("create file")
	fh, err := os.Create(full)
	if err != nil {
		return err
	}
	return fh.Close()
}

// WriteText replaces the contents of path.
func (f *FileSystem) WriteText(path, content string) error {
	full := f.Resolve(path)
	log.Trace().Str("path", full).Int("bytes", len(content)).Msg("write file")
	return os.WriteFile(full, []byte(content), 0o644)
}

func (f *FileSystem) ReadText(path string) (string, error) {
	full := f.Resolve(path)
	log.Trace().Str("path", full).Msg("read file")
	data, err := os.ReadFile(full)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (f *FileSystem) Exists(path string) bool {
	_, err := os.Stat(f.Resolve(path))
	return err == nil
}

// FileModule returns zin_file bound to fsys.
func FileModule(fsys *FileSystem) *Module {
	return &Module{
		ModuleName: "zin_file",
		Funcs: map[string]value.Func{
			"ler_arquivo": func(args []value.Value) (value.Value, error) {
				if err := arity("ler_arquivo", args, 1, 1); err != nil {
					return nil, err
				}
				path, err := text("ler_arquivo", args[0])
				if err != nil {
					return nil, err
				}
				content, err := fsys.ReadText(path)
				if errors.Is(err, fs.ErrNotExist) {
					return nil, fmt.Errorf("arquivo '%s' não encontrado", path)
				}
				if err != nil {
					return nil, err
				}
				return value.StrValue(content), nil
			},
			"escrever_arquivo": func(args []value.Value) (value.Value, error) {
				if err := arity("escrever_arquivo", args, 2, 2); err != nil {
					return nil, err
				}
				path, err := text("escrever_arquivo", args[0])
				if err != nil {
					return nil, err
				}
				content, err := text("escrever_arquivo", args[1])
				if err != nil {
					return nil, err
				}
				if err := fsys.WriteText(path, content); err != nil {
					return nil, fmt.Errorf("erro ao escrever no arquivo: %w", err)
				}
				return value.StrValue(fmt.Sprintf("Arquivo '%s' salvo com sucesso.", path)), nil
			},
			"criar_arquivo": func(args []value.Value) (value.Value, error) {
				if err := arity("criar_arquivo", args, 1, 1); err != nil {
					return nil, err
				}
				path, err := text("criar_arquivo", args[0])
				if err != nil {
					return nil, err
				}
				if err := fsys.CreateEmpty(path); err != nil {
					return nil, err
				}
				return value.StrValue(path), nil
			},
			"existe_arquivo": func(args []value.Value) (value.Value, error) {
				if err := arity("existe_arquivo", args, 1, 1); err != nil {
					return nil, err
				}
				path, err := text("existe_arquivo", args[0])
				if err != nil {
					return nil, err
				}
				return value.BoolValue(fsys.Exists(path)), nil
			},
		},
	}
}
