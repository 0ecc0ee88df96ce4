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

// Package locktest provides an in-process DistributedLock.
package locktest

import (
	"context"
	"sync"

	"github.com/wso2/plant-data-service/internal/system/database/lock"
)

var _ lock.DistributedLock = (*FakeLock)(nil)

type FakeLock struct {
	mu       sync.Mutex
	held     map[string]bool
	Released []string
	// AcquireErr is returned by every Acquire call.
	AcquireErr error
}

func NewFakeLock() *FakeLock {
	return &FakeLock{held: map[string]bool{}}
}

func (l *FakeLock) Acquire(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.AcquireErr != nil {
		return false, l.AcquireErr
	}
	if l.held[key] {
		return false, nil
	}
	l.held[key] = true
	return true, nil
}

func (l *FakeLock) Release(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
	l.Released = append(l.Released, key)
	return nil
}
