package cache

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zin-lang/zin/ast"
)

func sample(name string) *ast.Program {
	return &ast.Program{
		Name:      name,
		Imports:   []string{"zin_math"},
		Variables: []*ast.VariableDeclaration{{Name: "x", Type: "inteiro", Init: &ast.IntLit{Value: 3}}},
		Main: []ast.Stmt{
			&ast.Assign{Name: "y", Value: &ast.BinaryOp{Left: &ast.VarRef{Name: "x"}, Op: "/", Right: &ast.FloatLit{Value: 2}}},
			&ast.Write{Text: "{y}"},
		},
		Execution: []string{ast.MainBlock},
	}
}

func TestHashSource(t *testing.T) {
	a := HashSource([]byte("INICIO PROGAMA A."))
	assert.Equal(t, a, HashSource([]byte("INICIO PROGAMA A.")))
	assert.NotEqual(t, a, HashSource([]byte("INICIO PROGAMA B.")))
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	for _, f := range []ast.Format{ast.JSON, ast.Msgpack, ast.CBOR} {
		t.Run(string(f), func(t *testing.T) {
			src := []byte("source of " + string(f))
			prog := sample("A")
			e, err := NewEntry(src, prog, f)
			require.NoError(t, err)

			store := NewMemoryStore()
			require.NoError(t, store.Put(e))
			assert.True(t, store.Has(HashSource(src)))
			assert.Equal(t, 1, store.Len())

			got, ok, err := store.Get(HashSource(src))
			require.NoError(t, err)
			require.True(t, ok)
			decoded, err := got.Program()
			require.NoError(t, err)
			if diff := cmp.Diff(prog, decoded); diff != "" {
				t.Fatalf("cached tree differs (-want +got):\n%s", diff)
			}

			_, ok, err = store.Get(Hash(1))
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestLRUCacheNeverExceedsSize(t *testing.T) {
	store := NewMemoryStore()
	lru := NewLRUCache(store, 3)

	var hashes []Hash
	for i := 0; i < 5; i++ {
		src := []byte(fmt.Sprintf("program %d", i))
		e, err := NewEntry(src, sample(fmt.Sprintf("P%d", i)), ast.Msgpack)
		require.NoError(t, err)
		require.NoError(t, lru.Put(e))
		hashes = append(hashes, e.Source)
		assert.LessOrEqual(t, lru.Stats().Size, 3)
	}

	// The two oldest were evicted from the front but remain in the store.
	for _, h := range hashes {
		assert.True(t, lru.Has(h))
	}
	e, ok, err := lru.Get(hashes[0])
	require.NoError(t, err)
	require.True(t, ok)
	prog, err := e.Program()
	require.NoError(t, err)
	assert.Equal(t, "P0", prog.Name)

	_, ok, err = lru.Get(hashes[4])
	require.NoError(t, err)
	require.True(t, ok)

	stats := lru.Stats()
	assert.Equal(t, 3, stats.Size)
	assert.Equal(t, 3, stats.MaxSize)
	assert.Equal(t, 1, stats.Hits)
	assert.Equal(t, 1, stats.Misses)

	_, ok, err = lru.Get(Hash(42))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPathFor(t *testing.T) {
	assert.Equal(t, "prog/ola.json", PathFor("prog/ola.zin", "", ast.JSON))
	assert.Equal(t, "ola.cbor", PathFor("ola.zin", "", ast.CBOR))
	assert.Equal(t, filepath.Join("cache", "ola.msgpack"), PathFor("prog/ola.zin", "cache", ast.Msgpack))
}

func TestCacheFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "a.json")
	prog := sample("A")
	require.NoError(t, WriteFile(path, prog, ast.JSON))

	got, err := ReadFile(path, ast.JSON)
	require.NoError(t, err)
	if diff := cmp.Diff(prog, got); diff != "" {
		t.Fatalf("cache file tree differs (-want +got):\n%s", diff)
	}

	_, err = ReadFile(filepath.Join(dir, "missing.json"), ast.JSON)
	assert.Error(t, err)
}
