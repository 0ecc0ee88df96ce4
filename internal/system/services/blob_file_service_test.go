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

package services

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wso2/plant-data-service/internal/system/constants"
)

func TestBlobFileService(t *testing.T) {

	root := t.TempDir()
	for _, bucket := range []string{constants.ProcessedImageBucket, constants.RawImageBucket} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, bucket, "c1"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(root, bucket, "c1", "image.jpg"), []byte("jpeg"), 0o600))
	}
	mux := http.NewServeMux()
	NewBlobFileService(mux, "/blobs", root)

	cases := map[string]int{
		"/blobs/" + constants.ProcessedImageBucket + "/c1/image.jpg": http.StatusOK,
		"/blobs/" + constants.ProcessedImageBucket + "/c1/":          http.StatusNotFound,
		"/blobs/" + constants.RawImageBucket + "/c1/image.jpg":       http.StatusNotFound,
	}
	for path, want := range cases {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, rec.Code, path)
	}
}
