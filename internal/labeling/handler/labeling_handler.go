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

	"github.com/wso2/plant-data-service/internal/labeling/model"
	"github.com/wso2/plant-data-service/internal/labeling/service"
	"github.com/wso2/plant-data-service/internal/system/authn"
	"github.com/wso2/plant-data-service/internal/system/pagination"
	"github.com/wso2/plant-data-service/internal/system/utils"
)

type LabelingHandler struct {
	labeling service.LabelingServiceInterface
}

func NewLabelingHandler(labeling service.LabelingServiceInterface) *LabelingHandler {
	return &LabelingHandler{labeling: labeling}
}

// CreateLabelingTask handles POST /labeling-tasks.
func (h *LabelingHandler) CreateLabelingTask(w http.ResponseWriter, r *http.Request) {

	var req model.CreateLabelingTaskRequest
	if err := utils.DecodeJSON(r, &req, "labeling task"); err != nil {
		utils.HandleError(w, err)
		return
	}
	task, err := h.labeling.CreateLabelingTask(r.Context(), req)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, task)
}

func (h *LabelingHandler) GetPendingLabelingTasks(w http.ResponseWriter, r *http.Request) {

	limit, err := pagination.ParseLimit(r)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	tasks, err := h.labeling.GetPendingLabelingTasks(r.Context(), limit)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, tasks)
}

// StartLabelingTask handles POST /labeling-tasks/{id}/start. Without an explicit assignee the
// caller takes the task.
func (h *LabelingHandler) StartLabelingTask(w http.ResponseWriter, r *http.Request) {

	var req model.StartLabelingTaskRequest
	if r.ContentLength > 0 {
		if err := utils.DecodeJSON(r, &req, "start request"); err != nil {
			utils.HandleError(w, err)
			return
		}
	}
	if req.AssignedTo == "" {
		principal, _ := authn.PrincipalFrom(r.Context())
		req.AssignedTo = principal.UserID
	}
	task, err := h.labeling.StartLabelingTask(r.Context(), r.PathValue("id"), req.AssignedTo)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, task)
}

func (h *LabelingHandler) CompleteLabelingTask(w http.ResponseWriter, r *http.Request) {

	var input model.AnnotationInput
	if err := utils.DecodeJSON(r, &input, "annotation"); err != nil {
		utils.HandleError(w, err)
		return
	}
	result, err := h.labeling.CompleteLabelingTask(r.Context(), r.PathValue("id"), input)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

func (h *LabelingHandler) RejectLabelingTask(w http.ResponseWriter, r *http.Request) {

	task, err := h.labeling.RejectLabelingTask(r.Context(), r.PathValue("id"))
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, task)
}

// GetPendingReviewTasks handles GET /review-tasks/pending. The list covers tasks assigned to the
// caller and unassigned tasks.
func (h *LabelingHandler) GetPendingReviewTasks(w http.ResponseWriter, r *http.Request) {

	principal, _ := authn.PrincipalFrom(r.Context())
	limit, err := pagination.ParseLimit(r)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	tasks, err := h.labeling.GetPendingReviewTasks(r.Context(), principal.UserID, limit)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, tasks)
}

func (h *LabelingHandler) ReviewTask(w http.ResponseWriter, r *http.Request) {

	principal, _ := authn.PrincipalFrom(r.Context())
	var req model.ReviewRequest
	if err := utils.DecodeJSON(r, &req, "review"); err != nil {
		utils.HandleError(w, err)
		return
	}
	task, err := h.labeling.ReviewTask(r.Context(), r.PathValue("id"), principal.UserID, req.Status, req.Feedback)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, task)
}
