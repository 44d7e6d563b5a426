// Package config loads zin.toml project files.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/zin-lang/zin/ast"
	"github.com/zin-lang/zin/interp"
	"github.com/zin-lang/zin/lib"
)

type Config struct {
	Program ProgramConfig           `toml:"program"`
	Cache   CacheConfig             `toml:"cache"`
	Log     LogConfig               `toml:"log"`
	Files   FilesConfig             `toml:"files"`
	Limits  LimitsConfig            `toml:"limits"`
	Modules map[string]ModuleConfig `toml:"modules,omitempty"`
}

type ProgramConfig struct {
	File string `toml:"file,omitempty"`
}

type CacheConfig struct {
	// Format is json, msgpack or cbor.
	Format   string `toml:"format,omitempty"`
	Dir      string `toml:"dir,omitempty"`
	Rebuild  bool   `toml:"rebuild,omitempty"`
	Disabled bool   `toml:"disabled,omitempty"`
}

type LogConfig struct {
	Level string `toml:"level,omitempty"`
}

type FilesConfig struct {
	Root string `toml:"root,omitempty"`
}

type LimitsConfig struct {
	MaxCallDepth int `toml:"max_call_depth,omitempty"`
}

// ModuleConfig registers a Starlark script as a capability module.
type ModuleConfig struct {
	Script string `toml:"script"`
}

func Default() *Config {
	return &Config{
		Cache:  CacheConfig{Format: string(ast.JSON)},
		Log:    LogConfig{Level: "info"},
		Limits: LimitsConfig{MaxCallDepth: interp.DefaultMaxCallDepth},
	}
}

func parseConfig(r io.Reader) (*Config, error) {
	out := Default()
	if _, err := toml.NewDecoder(r).Decode(out); err != nil {
		return nil, err
	}
	if out.Cache.Format == "" {
		out.Cache.Format = string(ast.JSON)
	}
	if out.Limits.MaxCallDepth <= 0 {
		out.Limits.MaxCallDepth = interp.DefaultMaxCallDepth
	}
	if _, err := out.Format(); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadConfigFromFile reads a config file. The program file defaults to the
// config's name with a .zin extension; every relative path is resolved
// against the directory holding the config.
func LoadConfigFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	c, err := parseConfig(f)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if c.Program.File == "" {
		name := filepath.Base(path)
		c.Program.File = strings.TrimSuffix(name, filepath.Ext(name)) + ".zin"
	}
	dir := filepath.Dir(path)
	c.Program.File = resolve(dir, c.Program.File)
	if c.Cache.Dir != "" {
		c.Cache.Dir = resolve(dir, c.Cache.Dir)
	}
	c.Files.Root = resolve(dir, c.Files.Root)
	for name, m := range c.Modules {
		m.Script = resolve(dir, m.Script)
		c.Modules[name] = m
	}
	return c, nil
}

func resolve(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(dir, p))
}

func (c *Config) Format() (ast.Format, error) {
	f, err := ast.ParseFormat(c.Cache.Format)
	if err != nil {
		return "", err
	}
	if f == ast.YAML {
		return "", fmt.Errorf("cache format %q cannot be read back", c.Cache.Format)
	}
	return f, nil
}

func (c *Config) FileSystem() *lib.FileSystem {
	return &lib.FileSystem{Root: c.Files.Root}
}

// Registry builds the built-in modules plus every configured Starlark
// module, loaded in name order.
func (c *Config) Registry(fs *lib.FileSystem) (*lib.Registry, error) {
	reg := lib.DefaultRegistry(fs)
	names := make([]string, 0, len(c.Modules))
	for name := range c.Modules {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		m, err := lib.LoadStarlark(name, c.Modules[name].Script, nil)
		if err != nil {
			return nil, err
		}
		reg.Register(m)
	}
	return reg, nil
}
