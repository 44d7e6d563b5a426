package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gookit/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/zin-lang/zin"
	"github.com/zin-lang/zin/config"
	"github.com/zin-lang/zin/interp"
	"github.com/zin-lang/zin/lexer"
	"github.com/zin-lang/zin/lib"
	"github.com/zin-lang/zin/parser"
)

// Flags shared by the commands that load a program.
var (
	rebuildFlag bool
	noCacheFlag bool
	cacheFormat string
	filesRoot   string
)

func addLoadFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&rebuildFlag, "rebuild", false, "Regenerate the cached tree even if a cache file exists")
	cmd.Flags().BoolVar(&noCacheFlag, "no-cache", false, "Neither read nor write cache files")
	cmd.Flags().StringVar(&cacheFormat, "cache-format", "", "Cache file format (json, msgpack, cbor)")
	cmd.Flags().StringVar(&filesRoot, "files-root", "", "Directory that relative file paths resolve against")
}

type project struct {
	config   *config.Config
	loader   *zin.Loader
	files    *lib.FileSystem
	registry *lib.Registry
}

// openProject accepts a .zin source or a zin.toml config. Command line flags
// override the config.
func openProject(cmd *cobra.Command, path string) (*project, error) {
	var c *config.Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		var err error
		c, err = config.LoadConfigFromFile(path)
		if err != nil {
			return nil, err
		}
		if !cmd.Flags().Changed("log-level") {
			setLogLevel(c.Log.Level)
		}
	} else {
		c = config.Default()
		c.Program.File = path
	}
	if cacheFormat != "" {
		c.Cache.Format = cacheFormat
	}
	if rebuildFlag {
		c.Cache.Rebuild = true
	}
	if noCacheFlag {
		c.Cache.Disabled = true
	}
	if filesRoot != "" {
		c.Files.Root = filesRoot
	}

	loader, err := zin.NewLoader(c)
	if err != nil {
		return nil, err
	}
	files := c.FileSystem()
	reg, err := c.Registry(files)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("program", c.Program.File).Strs("modules", reg.Names()).Msg("project loaded")
	return &project{config: c, loader: loader, files: files, registry: reg}, nil
}

func (p *project) options() []interp.Option {
	return []interp.Option{
		interp.WithRegistry(p.registry),
		interp.WithFileSystem(p.files),
		interp.WithMaxCallDepth(p.config.Limits.MaxCallDepth),
	}
}

// describe names the stage an error came from.
func describe(err error) string {
	var lexErr *lexer.LexicalError
	var synErr *parser.SyntaxError
	var runErr *interp.RuntimeError
	switch {
	case errors.As(err, &lexErr):
		return "Lexical error: " + lexErr.Error()
	case errors.As(err, &synErr):
		return "Syntax error: " + synErr.Error()
	case errors.As(err, &runErr):
		return "Runtime error: " + runErr.Error()
	}
	return err.Error()
}

func fail(msg string, err error) {
	log.Error().Err(err).Msg(msg)
	fmt.Fprintln(os.Stderr, color.Red.Sprint("✗ "+describe(err)))
	os.Exit(1)
}
