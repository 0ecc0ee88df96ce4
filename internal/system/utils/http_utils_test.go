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

package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wso2/plant-data-service/internal/system/constants"
	customerrors "github.com/wso2/plant-data-service/internal/system/errors"
)

func TestHandleError_ClientError(t *testing.T) {

	rec := httptest.NewRecorder()
	HandleError(rec, customerrors.NewConsentDeniedError("exif_data requires exif metadata consent"))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, customerrors.CONSENT_DENIED.Code, body["code"])
	assert.Equal(t, "exif_data requires exif metadata consent", body["description"])
}

func TestHandleError_ServerErrorHidesCause(t *testing.T) {

	rec := httptest.NewRecorder()
	HandleError(rec, customerrors.NewStoreError(customerrors.ADD_CONTRIBUTION, "insert failed",
		errors.New(`pq: relation "plant_contributions" does not exist`)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "plant_contributions")
	assert.NotContains(t, rec.Body.String(), "insert failed")
	assert.Contains(t, rec.Body.String(), customerrors.ADD_CONTRIBUTION.Code)

	rec = httptest.NewRecorder()
	HandleError(rec, errors.New("boom"))
	assert.Contains(t, rec.Body.String(), "Internal server error.")
}

func TestHandleError_CopiesTraceID(t *testing.T) {

	rec := httptest.NewRecorder()
	rec.Header().Set(constants.TraceIDHeader, "trace-77")
	HandleError(rec, customerrors.NewNotFoundError(customerrors.CONTRIBUTION_NOT_FOUND, "No such contribution."))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "trace-77", body["trace_id"])
}

func TestDecodeJSON_Descriptions(t *testing.T) {

	var dst struct {
		Size int `json:"batch_size"`
	}
	cases := map[string]string{
		``:                      "is empty",
		`{"batch_size":`:        "truncated",
		`{"batch_size": "ten"}`: "Field 'batch_size' in batch request body must be a number, got string.",
		`[1, 2]`:                "must be a JSON object",
		`{"batch_size": 1,,}`:   "Malformed JSON",
	}
	for body, want := range cases {
		err := DecodeJSON(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)), &dst, "batch")
		var clientError *customerrors.ClientError
		require.True(t, errors.As(err, &clientError), body)
		assert.Contains(t, clientError.Description, want, body)
	}
}

func TestDecodeJSON_TooLarge(t *testing.T) {

	var dst map[string]any
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"notes":"`+strings.Repeat("x", 64)+`"}`))
	r.Body = http.MaxBytesReader(rec, r.Body, 16)

	err := DecodeJSON(r, &dst, "contribution")
	var clientError *customerrors.ClientError
	require.True(t, errors.As(err, &clientError))
	assert.Equal(t, http.StatusRequestEntityTooLarge, clientError.StatusCode)
}

func TestDecodeJSON_RejectsUnknownFields(t *testing.T) {

	var dst struct {
		Name string `json:"name"`
	}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a","extra":1}`))
	err := DecodeJSON(r, &dst, "dataset")
	require.Error(t, err)
	assert.True(t, customerrors.IsValidation(err))
}

func TestClientIP(t *testing.T) {

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.5:5123"
	assert.Equal(t, "10.0.0.5", ClientIP(r))

	r.Header.Set("X-Forwarded-For", " 203.0.113.9 , 10.0.0.1")
	assert.Equal(t, "203.0.113.9", ClientIP(r))
}
