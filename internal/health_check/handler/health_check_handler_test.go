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

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wso2/plant-data-service/internal/health_check/service"
	"github.com/wso2/plant-data-service/internal/memory_store/memorytest"
	"github.com/wso2/plant-data-service/internal/system/database/dbtest"
	"github.com/wso2/plant-data-service/internal/system/log"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	m.Run()
}

type readiness struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func TestHandleReadiness(t *testing.T) {

	h := NewHealthHandler(service.NewHealthCheckService(dbtest.NewFakeDBClient(), memorytest.NewFakeStore()))

	rec := httptest.NewRecorder()
	h.HandleReadiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	var body readiness
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "ready", body.Status)
}

func TestHandleReadiness_MemoryStoreDownIsDegraded(t *testing.T) {

	memory := memorytest.NewFakeStore()
	memory.PingErr = errors.New("no reachable servers")
	h := NewHealthHandler(service.NewHealthCheckService(dbtest.NewFakeDBClient(), memory))

	rec := httptest.NewRecorder()
	h.HandleReadiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil).WithContext(context.Background()))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body readiness
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "down", body.Checks["memory_store"])
	assert.Equal(t, "up", body.Checks["database"])
}

func TestHandleReadiness_DatabaseDownIsNotReady(t *testing.T) {

	db := &failingDB{FakeDBClient: dbtest.NewFakeDBClient()}
	h := NewHealthHandler(service.NewHealthCheckService(db, memorytest.NewFakeStore()))

	rec := httptest.NewRecorder()
	h.HandleReadiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body readiness
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "not ready", body.Status)
	assert.Equal(t, "down", body.Checks["database"])
}

type failingDB struct {
	*dbtest.FakeDBClient
}

func (f *failingDB) ExecuteQuery(ctx context.Context, query string, args ...any) ([]map[string]interface{}, error) {
	return nil, errors.New("connection refused")
}

func TestHandleHealth(t *testing.T) {

	rec := httptest.NewRecorder()
	NewHealthHandler(nil).HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}
