package cache

import (
	"container/list"
	"sync"
)

// LRUCache fronts a Store with a bounded set of decoded entries.
type LRUCache struct {
	underlying Store

	mu        sync.Mutex
	cache     map[Hash]*list.Element
	evictList *list.List
	maxSize   int
	hits      int
	misses    int
}

type cacheEntry struct {
	hash  Hash
	entry *Entry
}

// NewLRUCache wraps underlying. maxSize <= 0 selects the default of 64.
func NewLRUCache(underlying Store, maxSize int) *LRUCache {
	if maxSize <= 0 {
		maxSize = 64
	}
	return &LRUCache{
		underlying: underlying,
		cache:      make(map[Hash]*list.Element),
		evictList:  list.New(),
		maxSize:    maxSize,
	}
}

func (l *LRUCache) Put(e *Entry) error {
	if err := l.underlying.Put(e); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.addToCache(e.Source, e)
	return nil
}

func (l *LRUCache) Has(h Hash) bool {
	l.mu.Lock()
	_, ok := l.cache[h]
	l.mu.Unlock()
	return ok || l.underlying.Has(h)
}

func (l *LRUCache) Get(h Hash) (*Entry, bool, error) {
	l.mu.Lock()
	if elem, ok := l.cache[h]; ok {
		l.evictList.MoveToFront(elem)
		l.hits++
		e := elem.Value.(*cacheEntry).entry
		l.mu.Unlock()
		return e, true, nil
	}
	l.misses++
	l.mu.Unlock()

	e, ok, err := l.underlying.Get(h)
	if err != nil || !ok {
		return nil, false, err
	}
	l.mu.Lock()
	l.addToCache(h, e)
	l.mu.Unlock()
	return e, true, nil
}

// addToCache must be called with l.mu held.
func (l *LRUCache) addToCache(h Hash, e *Entry) {
	if elem, ok := l.cache[h]; ok {
		l.evictList.MoveToFront(elem)
		elem.Value.(*cacheEntry).entry = e
		return
	}
	elem := l.evictList.PushFront(&cacheEntry{hash: h, entry: e})
	l.cache[h] = elem
	if l.evictList.Len() > l.maxSize {
		l.evictOldest()
	}
}

func (l *LRUCache) evictOldest() {
	elem := l.evictList.Back()
	if elem != nil {
		l.evictList.Remove(elem)
		delete(l.cache, elem.Value.(*cacheEntry).hash)
	}
}

type CacheStats struct {
	Size    int
	MaxSize int
	Hits    int
	Misses  int
}

func (l *LRUCache) Stats() CacheStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return CacheStats{
		Size:    len(l.cache),
		MaxSize: l.maxSize,
		Hits:    l.hits,
		Misses:  l.misses,
	}
}
