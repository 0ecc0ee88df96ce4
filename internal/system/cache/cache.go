/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package cache

import (
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/wso2/plant-data-service/internal/system/log"
)

// Cache is a typed TTL cache. A zero TTL disables caching entirely.
//
// Every Delete bumps the generation of its key. A reader that loaded a value from the backing
// store fills the cache with SetIfGeneration, so a value read before a concurrent invalidation
// is never cached after it.
type Cache[T any] struct {
	items *gocache.Cache
	ttl   time.Duration

	mu          sync.Mutex
	generations map[string]uint64
}

// NewCache creates a new cache with a TTL (time-to-live)
func NewCache[T any](defaultTTL time.Duration) *Cache[T] {
	return &Cache[T]{
		items:       gocache.New(defaultTTL, 2*defaultTTL+time.Second),
		ttl:         defaultTTL,
		generations: map[string]uint64{},
	}
}

// Generation returns the invalidation counter of key.
func (c *Cache[T]) Generation(key string) uint64 {

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[key]
}

// SetIfGeneration caches value only if key was not deleted since generation was read.
func (c *Cache[T]) SetIfGeneration(key string, value T, generation uint64) bool {

	if c.ttl <= 0 {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[key] != generation {
		log.GetLogger().Debug(fmt.Sprint("Skipping stale cache fill for key: ", key))
		return false
	}
	c.items.Set(key, value, c.ttl)
	return true
}

// Set adds an item to the cache
func (c *Cache[T]) Set(key string, value T) {

	if c.ttl <= 0 {
		return
	}
	log.GetLogger().Debug(fmt.Sprint("Setting cache for key: ", key))
	c.items.Set(key, value, c.ttl)
}

// Get retrieves an item from the cache
func (c *Cache[T]) Get(key string) (T, bool) {

	var zero T
	if c.ttl <= 0 {
		return zero, false
	}
	item, found := c.items.Get(key)
	if !found {
		log.GetLogger().Debug(fmt.Sprint("Cache not found for key: ", key))
		return zero, false
	}
	value, ok := item.(T)
	return value, ok
}

// Delete removes an item from the cache and bumps its generation.
func (c *Cache[T]) Delete(key string) {

	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[key]++
	c.items.Delete(key)
}
