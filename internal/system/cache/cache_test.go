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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCache_SetGetDelete(t *testing.T) {

	c := NewCache[string](time.Minute)
	c.Set("user-1", "value")

	got, ok := c.Get("user-1")
	assert.True(t, ok)
	assert.Equal(t, "value", got)

	c.Delete("user-1")
	_, ok = c.Get("user-1")
	assert.False(t, ok)
}

func TestCache_ZeroTTLDisables(t *testing.T) {

	c := NewCache[int](0)
	c.Set("k", 1)
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestCache_Expires(t *testing.T) {

	c := NewCache[int](20 * time.Millisecond)
	c.Set("k", 1)
	time.Sleep(40 * time.Millisecond)
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestCache_StaleFillAfterDeleteIsSkipped(t *testing.T) {

	c := NewCache[string](time.Minute)
	generation := c.Generation("user-1")

	// invalidated while the caller was still reading the old value
	c.Delete("user-1")

	assert.False(t, c.SetIfGeneration("user-1", "old", generation))
	_, ok := c.Get("user-1")
	assert.False(t, ok)

	assert.True(t, c.SetIfGeneration("user-1", "new", c.Generation("user-1")))
	got, ok := c.Get("user-1")
	assert.True(t, ok)
	assert.Equal(t, "new", got)
}
