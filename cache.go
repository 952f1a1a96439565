// (c) Copyright cmdguard's authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmdguard

import (
	"container/list"
	"regexp"
	"sync"
)

// matchCache holds the results of path pattern matches. The same file
// paths are matched against every exclusion pattern for every issue and
// every scanned directory.
var matchCache = NewLRUCache[matchKey, bool](1 << 14)

type matchKey struct {
	re  *regexp.Regexp
	str string
}

// LRUCache is a thread-safe least recently used cache.
type LRUCache[K comparable, V any] struct {
	capacity  int
	items     map[K]*list.Element
	evictList *list.List
	lock      sync.Mutex
}

type entry[K comparable, V any] struct {
	key   K
	value V
}

// NewLRUCache creates a cache holding at most capacity entries.
func NewLRUCache[K comparable, V any](capacity int) *LRUCache[K, V] {
	return &LRUCache[K, V]{
		capacity:  capacity,
		items:     make(map[K]*list.Element),
		evictList: list.New(),
	}
}

// Get returns the value cached for key and marks it as recently used.
func (c *LRUCache[K, V]) Get(key K) (V, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if ent, ok := c.items[key]; ok {
		c.evictList.MoveToFront(ent)
		return ent.Value.(*entry[K, V]).value, true
	}
	var zero V
	return zero, false
}

// Add caches value for key, evicting the least recently used entry when
// the cache is full.
func (c *LRUCache[K, V]) Add(key K, value V) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if ent, ok := c.items[key]; ok {
		c.evictList.MoveToFront(ent)
		ent.Value.(*entry[K, V]).value = value
		return
	}
	c.items[key] = c.evictList.PushFront(&entry[K, V]{key, value})
	if c.evictList.Len() > c.capacity {
		oldest := c.evictList.Back()
		c.evictList.Remove(oldest)
		delete(c.items, oldest.Value.(*entry[K, V]).key)
	}
}

// Len returns the number of cached entries.
func (c *LRUCache[K, V]) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.evictList.Len()
}

// RegexMatch returns re.MatchString(s), caching the result.
func RegexMatch(re *regexp.Regexp, s string) bool {
	key := matchKey{re: re, str: s}
	if matched, ok := matchCache.Get(key); ok {
		return matched
	}
	matched := re.MatchString(s)
	matchCache.Add(key, matched)
	return matched
}
