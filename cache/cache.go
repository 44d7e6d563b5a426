// Package cache keeps compiled program trees keyed by the hash of their
// source text, in memory and in cache files next to the source.
package cache

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/dgryski/go-farm"
	"github.com/shamaton/msgpack/v2"
	"github.com/zin-lang/zin/ast"
)

type Hash uint64

// HashSource returns the key for a source text.
func HashSource(src []byte) Hash {
	return Hash(farm.Hash64(src))
}

// Entry is one cached tree, encoded in Format.
type Entry struct {
	Source Hash
	Format string
	Tree   []byte
}

// NewEntry encodes prog under the key of its source.
func NewEntry(src []byte, prog *ast.Program, f ast.Format) (*Entry, error) {
	data, err := ast.Encode(prog, f)
	if err != nil {
		return nil, err
	}
	return &Entry{Source: HashSource(src), Format: string(f), Tree: data}, nil
}

// Program decodes the cached tree.
func (e *Entry) Program() (*ast.Program, error) {
	return ast.Decode(e.Tree, ast.Format(e.Format))
}

func (e *Entry) Serialize(w io.Writer) error {
	return msgpack.MarshalWrite(w, e)
}

func (e *Entry) Deserialize(r io.Reader) error {
	return msgpack.UnmarshalRead(r, e)
}

type Store interface {
	Put(e *Entry) error
	Get(h Hash) (*Entry, bool, error)
	Has(h Hash) bool
}

// MemoryStore holds serialized entries in a map. It is safe for concurrent
// use.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[Hash][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[Hash][]byte),
	}
}

func (m *MemoryStore) Put(e *Entry) error {
	var buf bytes.Buffer
	if err := e.Serialize(&buf); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[e.Source] = buf.Bytes()
	return nil
}

func (m *MemoryStore) Get(h Hash) (*Entry, bool, error) {
	m.mu.RLock()
	data, ok := m.data[h]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	e := &Entry{}
	if err := e.Deserialize(bytes.NewReader(data)); err != nil {
		return nil, false, fmt.Errorf("deserializing entry %x: %w", uint64(h), err)
	}
	return e, true, nil
}

func (m *MemoryStore) Has(h Hash) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[h]
	return ok
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
