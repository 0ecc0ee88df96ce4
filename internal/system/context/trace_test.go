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

package context

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTraceID_RoundTrip(t *testing.T) {

	ctx := WithTraceID(context.Background(), "trace-1")
	assert.Equal(t, "trace-1", GetTraceID(ctx))
	assert.Empty(t, GetTraceID(context.Background()))
}

func TestSanitizeTraceID(t *testing.T) {

	assert.Equal(t, "req_42.a-b", SanitizeTraceID("req_42.a-b"))

	for _, bad := range []string{"", "line\nbreak", "quote\"d", strings.Repeat("a", 129)} {
		got := SanitizeTraceID(bad)
		assert.NotEqual(t, bad, got)
		assert.Len(t, got, 36)
	}
}
