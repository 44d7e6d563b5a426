package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/zin-lang/zin/ast"
)

// PathFor returns the cache file for a source file: the source path with its
// extension replaced by the format's. A non-empty dir moves the file there.
func PathFor(source, dir string, f ast.Format) string {
	base := strings.TrimSuffix(source, filepath.Ext(source)) + f.Ext()
	if dir == "" {
		return base
	}
	return filepath.Join(dir, filepath.Base(base))
}

func ReadFile(path string, f ast.Format) (*ast.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	prog, err := ast.Decode(data, f)
	if err != nil {
		return nil, fmt.Errorf("cache file %s: %w", path, err)
	}
	log.Debug().Str("path", path).Str("format", string(f)).Msg("loaded cached tree")
	return prog, nil
}

func WriteFile(path string, prog *ast.Program, f ast.Format) error {
	data, err := ast.Encode(prog, f)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	log.Debug().Str("path", path).Str("format", string(f)).Int("bytes", len(data)).Msg("wrote cached tree")
	return nil
}
