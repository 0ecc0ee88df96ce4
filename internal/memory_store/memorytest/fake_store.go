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

// Package memorytest provides an in-process memory store for service tests.
package memorytest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/wso2/plant-data-service/internal/memory_store"
)

// FakeStore keeps records in a map. Setting one of the *Err fields makes the matching
// operation fail.
type FakeStore struct {
	mu      sync.Mutex
	records map[string]memory_store.Record
	nextID  int

	CreateErr error
	GetErr    error
	UpdateErr error
	DeleteErr error
	SearchErr error
	PingErr   error

	Deleted []string
}

var _ memory_store.MemoryStore = (*FakeStore)(nil)

func NewFakeStore() *FakeStore {
	return &FakeStore{records: map[string]memory_store.Record{}}
}

func (f *FakeStore) Create(ctx context.Context, content, ownerTag string, metadata map[string]any) (string, error) {

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreateErr != nil {
		return "", f.CreateErr
	}
	f.nextID++
	id := fmt.Sprintf("mem-%d", f.nextID)
	meta := map[string]any{}
	for k, v := range metadata {
		meta[k] = v
	}
	now := time.Now().UTC()
	f.records[id] = memory_store.Record{ID: id, Content: content, OwnerTag: ownerTag, Metadata: meta,
		CreatedAt: now, UpdatedAt: now}
	return id, nil
}

func (f *FakeStore) Get(ctx context.Context, id string) (*memory_store.Record, error) {

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	record, ok := f.records[id]
	if !ok {
		return nil, memory_store.ErrRecordNotFound
	}
	return &record, nil
}

func (f *FakeStore) Update(ctx context.Context, id string, partial memory_store.Partial) error {

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	record, ok := f.records[id]
	if !ok {
		return memory_store.ErrRecordNotFound
	}
	if partial.Content != nil {
		record.Content = *partial.Content
	}
	for k, v := range partial.SetMetadata {
		record.Metadata[k] = v
	}
	for k, v := range partial.AppendMetadata {
		existing, _ := record.Metadata[k].([]any)
		record.Metadata[k] = append(existing, v)
	}
	record.UpdatedAt = time.Now().UTC()
	f.records[id] = record
	return nil
}

func (f *FakeStore) Delete(ctx context.Context, id string) error {

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	delete(f.records, id)
	f.Deleted = append(f.Deleted, id)
	return nil
}

// Search matches records whose content contains every query word, case insensitively.
func (f *FakeStore) Search(ctx context.Context, query, ownerTag string, limit int) ([]memory_store.Record, error) {

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SearchErr != nil {
		return nil, f.SearchErr
	}
	words := strings.Fields(strings.ToLower(query))
	var out []memory_store.Record
	for _, record := range f.records {
		if ownerTag != "" && record.OwnerTag != ownerTag {
			continue
		}
		content := strings.ToLower(record.Content)
		hits := 0
		for _, w := range words {
			hits += strings.Count(content, w)
		}
		if hits == 0 {
			continue
		}
		record.Score = float64(hits)
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *FakeStore) Ping(ctx context.Context) error {
	return f.PingErr
}

// Len is the number of stored records.
func (f *FakeStore) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}
