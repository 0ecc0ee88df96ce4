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
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/wso2/plant-data-service/internal/system/constants"
)

// NewBlobFileService serves the processed image bucket of a local blob store under
// <basePath>/<bucket>/. Raw uploads are never exposed.
func NewBlobFileService(mux *http.ServeMux, basePath, root string) {
	prefix := fmt.Sprintf("%s/%s/", basePath, constants.ProcessedImageBucket)
	dir := http.Dir(filepath.Join(root, constants.ProcessedImageBucket))
	mux.Handle("GET "+prefix, http.StripPrefix(prefix, noDirListing(http.FileServer(dir))))
}

func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || r.URL.Path[len(r.URL.Path)-1] == '/' {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
