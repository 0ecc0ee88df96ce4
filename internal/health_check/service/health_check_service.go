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

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/wso2/plant-data-service/internal/memory_store"
	"github.com/wso2/plant-data-service/internal/system/database/client"
	"github.com/wso2/plant-data-service/internal/system/log"
)

const readinessTimeout = 3 * time.Second

// HealthCheckServiceInterface defines the service interface.
type HealthCheckServiceInterface interface {
	// CheckReadiness returns the state of every dependency. The error is set only when the
	// relational store is down; the memory store is supplementary and never gates readiness.
	CheckReadiness(ctx context.Context) (map[string]string, error)
}

// HealthCheckService checks the relational and the memory store.
type HealthCheckService struct {
	db     client.DBClientInterface
	memory memory_store.MemoryStore
}

func NewHealthCheckService(db client.DBClientInterface, memory memory_store.MemoryStore) *HealthCheckService {
	return &HealthCheckService{db: db, memory: memory}
}

func (h *HealthCheckService) CheckReadiness(ctx context.Context) (map[string]string, error) {

	ctx, cancel := context.WithTimeout(ctx, readinessTimeout)
	defer cancel()

	status := map[string]string{"database": "up", "memory_store": "up"}
	var failed error

	// Perform a lightweight query to ensure DB connectivity.
	if _, err := h.db.ExecuteQuery(ctx, "SELECT 1"); err != nil {
		status["database"] = "down"
		failed = fmt.Errorf("database connectivity check failed: %w", err)
	}
	if err := h.memory.Ping(ctx); err != nil {
		status["memory_store"] = "down"
		log.GetLogger().Warn("Memory store unreachable; contributions mirror later", log.Error(err))
	}
	if failed != nil {
		log.GetLogger().Warn("Readiness check failed", log.Error(failed))
	}
	return status, failed
}
