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

// Package blob_store stores contribution images.
package blob_store

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/wso2/plant-data-service/internal/system/config"
)

// ErrBlobNotFound is returned by Get for a missing object.
var ErrBlobNotFound = errors.New("blob not found")

// BlobStore is a bucket/key object store.
type BlobStore interface {
	Put(ctx context.Context, bucket, key string, data []byte) error
	Get(ctx context.Context, bucket, key string) ([]byte, error)
	PublicURL(bucket, key string) (string, error)
	// Delete removes the object. Deleting a missing object is not an error.
	Delete(ctx context.Context, bucket, key string) error
}

// NewBlobStore builds the store selected by the configuration.
func NewBlobStore(cfg config.BlobStoreConfig) (BlobStore, error) {

	switch cfg.Type {
	case "", "local":
		return NewLocalStore(cfg.LocalRoot, cfg.PublicBaseURL)
	case "cloudinary":
		return NewCloudinaryStore(cfg.CloudinaryURL)
	default:
		return nil, fmt.Errorf("unknown blob store type %q", cfg.Type)
	}
}

// validateKey rejects keys that would escape their bucket.
func validateKey(bucket, key string) error {

	if bucket == "" || strings.ContainsAny(bucket, `/\`) || bucket == "." || bucket == ".." {
		return fmt.Errorf("invalid bucket %q", bucket)
	}
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, `\`) {
		return fmt.Errorf("invalid key %q", key)
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." || part == "." || part == "" {
			return fmt.Errorf("invalid key %q", key)
		}
	}
	if path.Clean(key) != key {
		return fmt.Errorf("invalid key %q", key)
	}
	return nil
}
