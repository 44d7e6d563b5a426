// Package zin turns Zin source files into program trees, reusing cached
// trees when it can.
package zin

import (
	"errors"
	"io/fs"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/zin-lang/zin/ast"
	"github.com/zin-lang/zin/cache"
	"github.com/zin-lang/zin/config"
	"github.com/zin-lang/zin/parser"
)

// Compile parses source text into a program tree.
func Compile(src string) (*ast.Program, error) {
	return parser.ParseSource(src)
}

func CompileFile(path string) (*ast.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Compile(string(data))
}

// Loader loads program trees through the tree cache. A cache file sits next
// to the source (or in CacheDir) and is regenerated only when it is missing,
// corrupt, or Rebuild is set.
type Loader struct {
	Format   ast.Format
	CacheDir string
	Rebuild  bool
	// Disabled skips cache files entirely.
	Disabled bool
	// Memory is consulted before cache files. Its entries are keyed by the
	// source hash, so they are never stale.
	Memory cache.Store
}

// NewLoader builds a loader from a project configuration.
func NewLoader(c *config.Config) (*Loader, error) {
	f, err := c.Format()
	if err != nil {
		return nil, err
	}
	return &Loader{
		Format:   f,
		CacheDir: c.Cache.Dir,
		Rebuild:  c.Cache.Rebuild,
		Disabled: c.Cache.Disabled,
	}, nil
}

func (l *Loader) format() ast.Format {
	if l.Format == "" {
		return ast.JSON
	}
	return l.Format
}

// CachePath is where the tree for the source at path is cached.
func (l *Loader) CachePath(path string) string {
	return cache.PathFor(path, l.CacheDir, l.format())
}

func (l *Loader) Load(path string) (*ast.Program, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f := l.format()
	h := cache.HashSource(src)
	logger := log.With().Str("source", path).Str("format", string(f)).Logger()

	if l.Memory != nil {
		e, ok, err := l.Memory.Get(h)
		if err != nil {
			logger.Warn().Err(err).Msg("dropping unreadable memory entry")
		} else if ok {
			if prog, err := e.Program(); err == nil {
				logger.Debug().Msg("tree found in memory")
				return prog, nil
			}
		}
	}

	cachePath := l.CachePath(path)
	if !l.Disabled && !l.Rebuild {
		prog, err := cache.ReadFile(cachePath, f)
		switch {
		case err == nil:
			l.remember(src, prog, f)
			return prog, nil
		case errors.Is(err, fs.ErrNotExist):
			logger.Debug().Str("cache", cachePath).Msg("no cache file")
		default:
			logger.Warn().Err(err).Str("cache", cachePath).Msg("regenerating corrupt cache file")
		}
	}

	prog, err := Compile(string(src))
	if err != nil {
		return nil, err
	}
	if !l.Disabled {
		if err := cache.WriteFile(cachePath, prog, f); err != nil {
			logger.Warn().Err(err).Str("cache", cachePath).Msg("couldn't write cache file")
		}
	}
	l.remember(src, prog, f)
	return prog, nil
}

func (l *Loader) remember(src []byte, prog *ast.Program, f ast.Format) {
	if l.Memory == nil {
		return
	}
	e, err := cache.NewEntry(src, prog, f)
	if err == nil {
		err = l.Memory.Put(e)
	}
	if err != nil {
		log.Warn().Err(err).Msg("couldn't keep tree in memory")
	}
}
