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

// Package blobtest provides an in-memory blob store for service tests.
package blobtest

import (
	"context"
	"sync"

	"github.com/wso2/plant-data-service/internal/blob_store"
)

// FakeStore keeps objects in a map keyed by "<bucket>/<key>".
type FakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte

	// PutErr fails puts into the named bucket.
	PutErr    map[string]error
	GetErr    error
	DeleteErr error

	Deleted []string
}

var _ blob_store.BlobStore = (*FakeStore)(nil)

func NewFakeStore() *FakeStore {
	return &FakeStore{objects: map[string][]byte{}, PutErr: map[string]error{}}
}

func (f *FakeStore) Put(ctx context.Context, bucket, key string, data []byte) error {

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.PutErr[bucket]; err != nil {
		return err
	}
	f.objects[bucket+"/"+key] = append([]byte(nil), data...)
	return nil
}

func (f *FakeStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	data, ok := f.objects[bucket+"/"+key]
	if !ok {
		return nil, blob_store.ErrBlobNotFound
	}
	return data, nil
}

func (f *FakeStore) PublicURL(bucket, key string) (string, error) {
	return "https://blobs.test/" + bucket + "/" + key, nil
}

func (f *FakeStore) Delete(ctx context.Context, bucket, key string) error {

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	delete(f.objects, bucket+"/"+key)
	f.Deleted = append(f.Deleted, bucket+"/"+key)
	return nil
}

// Has reports whether the object exists.
func (f *FakeStore) Has(bucket, key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[bucket+"/"+key]
	return ok
}

func (f *FakeStore) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}
