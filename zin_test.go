package zin

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zin-lang/zin/ast"
	"github.com/zin-lang/zin/cache"
	"github.com/zin-lang/zin/config"
	"github.com/zin-lang/zin/interp"
	"github.com/zin-lang/zin/lib"
	"github.com/zin-lang/zin/lint"
)

func TestProgramsInTestdata(t *testing.T) {
	err := filepath.WalkDir("testdata", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".zin") {
			return nil
		}
		t.Run(filepath.Base(path), testProgram(path))
		return nil
	})
	require.NoError(t, err)
}

func testProgram(path string) func(t *testing.T) {
	return func(t *testing.T) {
		prog, err := CompileFile(path)
		require.NoError(t, err)

		reg := lib.DefaultRegistry(&lib.FileSystem{Root: t.TempDir()})
		ds := lint.Check(prog, reg.Names())
		assert.False(t, lint.HasErrors(ds), "lint: %v", ds)

		want, err := os.ReadFile(strings.TrimSuffix(path, ".zin") + ".out")
		require.NoError(t, err)
		var out bytes.Buffer
		require.NoError(t, interp.New(prog, interp.WithStdout(&out), interp.WithRegistry(reg)).Run())
		assert.Equal(t, string(want), out.String())
	}
}

func copySource(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoaderWritesAndReusesCacheFile(t *testing.T) {
	for _, f := range []ast.Format{ast.JSON, ast.Msgpack, ast.CBOR} {
		t.Run(string(f), func(t *testing.T) {
			path := copySource(t, "ola.zin")
			l := &Loader{Format: f}
			want, err := l.Load(path)
			require.NoError(t, err)

			cachePath := strings.TrimSuffix(path, ".zin") + f.Ext()
			assert.Equal(t, cachePath, l.CachePath(path))
			_, err = os.Stat(cachePath)
			require.NoError(t, err)

			got, err := l.Load(path)
			require.NoError(t, err)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("cached tree differs (-compiled +cached):\n%s", diff)
			}
		})
	}
}

const sameNameFunctions = `INICIO PROGAMA ORDEM.
IMPLEMENTACAO PROGAMA ORDEM.
PRINCIPAL.
    r = f().
    escreva("{r}").
FIM PRINCIPAL.
MODULO ZETA.
funcao f()
retorne 1.
FIM MODULO.
MODULO ALFA.
funcao f()
retorne 2.
FIM MODULO.
EXECUCAO PROGAMA ORDEM.
EXECUTAR PRINCIPAL.
`

func runTree(t *testing.T, prog *ast.Program) string {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, interp.New(prog, interp.WithStdout(&out)).Run())
	return out.String()
}

func TestCachedTreeRunsLikeFreshParse(t *testing.T) {
	for _, f := range []ast.Format{ast.JSON, ast.Msgpack, ast.CBOR} {
		t.Run(string(f), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "ordem.zin")
			require.NoError(t, os.WriteFile(path, []byte(sameNameFunctions), 0o644))

			l := &Loader{Format: f}
			fresh, err := l.Load(path)
			require.NoError(t, err)
			cached, err := l.Load(path)
			require.NoError(t, err)
			assert.Equal(t, "1\n", runTree(t, fresh))
			assert.Equal(t, "1\n", runTree(t, cached))

			mem := &Loader{Format: f, Disabled: true, Memory: cache.NewMemoryStore()}
			_, err = mem.Load(path)
			require.NoError(t, err)
			remembered, err := mem.Load(path)
			require.NoError(t, err)
			assert.Equal(t, "1\n", runTree(t, remembered))
		})
	}
}

func TestLoaderRegeneratesOnlyWhenNeeded(t *testing.T) {
	path := copySource(t, "ola.zin")
	l := &Loader{}
	_, err := l.Load(path)
	require.NoError(t, err)

	// An existing cache file wins over an edited source.
	src, err := os.ReadFile(path)
	require.NoError(t, err)
	edited := strings.ReplaceAll(string(src), "PROGAMA OLA", "PROGAMA OUTRO")
	require.NoError(t, os.WriteFile(path, []byte(edited), 0o644))
	prog, err := l.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "OLA", prog.Name)

	l.Rebuild = true
	prog, err = l.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "OUTRO", prog.Name)

	l.Rebuild = false
	require.NoError(t, os.WriteFile(l.CachePath(path), []byte("{ not json"), 0o644))
	prog, err = l.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "OUTRO", prog.Name)
	_, err = cache.ReadFile(l.CachePath(path), ast.JSON)
	assert.NoError(t, err)
}

func TestLoaderCacheDirAndDisabled(t *testing.T) {
	path := copySource(t, "listas.zin")
	dir := filepath.Join(t.TempDir(), "cache")
	l := &Loader{Format: ast.Msgpack, CacheDir: dir}
	_, err := l.Load(path)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "listas.msgpack"))
	assert.NoError(t, err)

	other := copySource(t, "modulos.zin")
	l = &Loader{Disabled: true}
	_, err = l.Load(other)
	require.NoError(t, err)
	_, err = os.Stat(strings.TrimSuffix(other, ".zin") + ".json")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoaderMemory(t *testing.T) {
	path := copySource(t, "matematica.zin")
	lru := cache.NewLRUCache(cache.NewMemoryStore(), 4)
	l := &Loader{Disabled: true, Memory: lru}

	first, err := l.Load(path)
	require.NoError(t, err)
	second, err := l.Load(path)
	require.NoError(t, err)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("memory tree differs (-first +second):\n%s", diff)
	}
	stats := lru.Stats()
	assert.Equal(t, 1, stats.Hits)
	assert.Equal(t, 1, stats.Misses)
	assert.Equal(t, 1, stats.Size)
}

func TestLoaderErrors(t *testing.T) {
	l := &Loader{}
	_, err := l.Load(filepath.Join(t.TempDir(), "nada.zin"))
	assert.ErrorIs(t, err, fs.ErrNotExist)

	bad := filepath.Join(t.TempDir(), "ruim.zin")
	require.NoError(t, os.WriteFile(bad, []byte("INICIO PROGAMA X.\n@"), 0o644))
	_, err = l.Load(bad)
	assert.Error(t, err)
	_, err = os.Stat(l.CachePath(bad))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestNewLoader(t *testing.T) {
	c := config.Default()
	c.Cache.Dir = "cache"
	c.Cache.Format = "cbor"
	c.Cache.Rebuild = true
	l, err := NewLoader(c)
	require.NoError(t, err)
	assert.Equal(t, &Loader{Format: ast.CBOR, CacheDir: "cache", Rebuild: true}, l)

	c.Cache.Format = "yaml"
	_, err = NewLoader(c)
	assert.Error(t, err)
}
