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

	"github.com/wso2/plant-data-service/internal/labeling/handler"
	"github.com/wso2/plant-data-service/internal/system/constants"
	"github.com/wso2/plant-data-service/internal/system/security"
)

// LabelingService routes the labeling and review task queues.
type LabelingService struct {
	handler *handler.LabelingHandler
}

func NewLabelingService(mux *http.ServeMux, apiBasePath string, h *handler.LabelingHandler) *LabelingService {
	instance := &LabelingService{
		handler: h,
	}
	instance.RegisterRoutes(mux, apiBasePath)
	return instance
}

func (s *LabelingService) RegisterRoutes(mux *http.ServeMux, apiBasePath string) {
	label := constants.OperationLabel
	mux.HandleFunc(fmt.Sprintf("POST %s/labeling-tasks", apiBasePath),
		security.Protect(label, s.handler.CreateLabelingTask))
	mux.HandleFunc(fmt.Sprintf("GET %s/labeling-tasks/pending", apiBasePath),
		security.Protect(label, s.handler.GetPendingLabelingTasks))
	mux.HandleFunc(fmt.Sprintf("POST %s/labeling-tasks/{id}/start", apiBasePath),
		security.Protect(label, s.handler.StartLabelingTask))
	mux.HandleFunc(fmt.Sprintf("POST %s/labeling-tasks/{id}/complete", apiBasePath),
		security.Protect(label, s.handler.CompleteLabelingTask))
	mux.HandleFunc(fmt.Sprintf("POST %s/labeling-tasks/{id}/reject", apiBasePath),
		security.Protect(label, s.handler.RejectLabelingTask))

	review := constants.OperationReview
	mux.HandleFunc(fmt.Sprintf("GET %s/review-tasks/pending", apiBasePath),
		security.Protect(review, s.handler.GetPendingReviewTasks))
	mux.HandleFunc(fmt.Sprintf("POST %s/review-tasks/{id}/review", apiBasePath),
		security.Protect(review, s.handler.ReviewTask))
}
