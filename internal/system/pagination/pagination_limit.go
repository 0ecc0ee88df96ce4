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

package pagination

import (
	"net/http"
	"strconv"

	"github.com/wso2/plant-data-service/internal/system/errors"
)

const (
	DefaultLimit = 20
	MaxLimit     = 200
)

// ParseLimit reads the `limit` query parameter. Absent means DefaultLimit; values above
// MaxLimit are clamped rather than rejected.
func ParseLimit(r *http.Request) (int, error) {

	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return DefaultLimit, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, errors.NewValidationError(errors.BAD_REQUEST,
			"Query parameter 'limit' must be a positive integer, got '"+raw+"'.")
	}
	return Clamp(v), nil
}

// Clamp keeps a caller supplied limit within (0, MaxLimit].
func Clamp(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
