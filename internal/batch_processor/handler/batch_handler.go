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
	"net/http"

	"github.com/wso2/plant-data-service/internal/batch_processor/model"
	"github.com/wso2/plant-data-service/internal/batch_processor/service"
	"github.com/wso2/plant-data-service/internal/system/utils"
	"github.com/wso2/plant-data-service/internal/system/workers"
)

type BatchHandler struct {
	batches    service.BatchServiceInterface
	reconciler workers.MemoryReconcilerInterface
}

func NewBatchHandler(batches service.BatchServiceInterface, reconciler workers.MemoryReconcilerInterface) *BatchHandler {
	return &BatchHandler{batches: batches, reconciler: reconciler}
}

// ProcessBatch handles POST /batches. An empty body runs a batch of the configured size.
func (h *BatchHandler) ProcessBatch(w http.ResponseWriter, r *http.Request) {

	var req model.BatchRequest
	if r.ContentLength > 0 {
		if err := utils.DecodeJSON(r, &req, "batch request"); err != nil {
			utils.HandleError(w, err)
			return
		}
	}
	result, err := h.batches.ProcessBatch(r.Context(), req.BatchSize)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

// ReconcileMemory handles POST /admin/reconcile-memory.
func (h *BatchHandler) ReconcileMemory(w http.ResponseWriter, r *http.Request) {

	var req model.BatchRequest
	if r.ContentLength > 0 {
		if err := utils.DecodeJSON(r, &req, "reconcile request"); err != nil {
			utils.HandleError(w, err)
			return
		}
	}
	report, err := h.reconciler.ReconcileMemoryMirrors(r.Context(), req.BatchSize)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, report)
}
