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

// Package memory_store holds the searchable, human readable copies of contributions. It is
// never authoritative: the relational store wins on any disagreement.
package memory_store

import (
	"context"
	"errors"
	"time"
)

// ErrRecordNotFound is returned by Get and Update for an unknown id.
var ErrRecordNotFound = errors.New("memory record not found")

// Record is one memory store entry.
type Record struct {
	ID        string         `json:"id" bson:"-"`
	Content   string         `json:"content" bson:"content"`
	OwnerTag  string         `json:"owner_tag" bson:"owner_tag"`
	Metadata  map[string]any `json:"metadata" bson:"metadata"`
	CreatedAt time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" bson:"updated_at"`
	// Score is the search rank. Only set on Search results.
	Score float64 `json:"score,omitempty" bson:"score,omitempty"`
}

// Partial is a partial update. Nil fields are left as they are.
type Partial struct {
	Content *string
	// SetMetadata overwrites the given metadata keys.
	SetMetadata map[string]any
	// AppendMetadata appends each value to the array stored under its key.
	AppendMetadata map[string]any
}

type MemoryStore interface {
	Create(ctx context.Context, content, ownerTag string, metadata map[string]any) (string, error)
	Get(ctx context.Context, id string) (*Record, error)
	Update(ctx context.Context, id string, partial Partial) error
	// Delete removes the record. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error
	// Search returns records of ownerTag matching query, best match first. An empty ownerTag
	// searches every owner.
	Search(ctx context.Context, query, ownerTag string, limit int) ([]Record, error)
	Ping(ctx context.Context) error
}
