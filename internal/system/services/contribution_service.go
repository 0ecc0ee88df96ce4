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

	"github.com/wso2/plant-data-service/internal/ingestion/handler"
	"github.com/wso2/plant-data-service/internal/system/constants"
	"github.com/wso2/plant-data-service/internal/system/security"
)

type ContributionService struct {
	handler *handler.IngestionHandler
}

func NewContributionService(mux *http.ServeMux, apiBasePath string, h *handler.IngestionHandler) *ContributionService {
	instance := &ContributionService{
		handler: h,
	}
	instance.RegisterRoutes(mux, apiBasePath)
	return instance
}

func (s *ContributionService) RegisterRoutes(mux *http.ServeMux, apiBasePath string) {
	mux.HandleFunc(fmt.Sprintf("POST %s/contributions", apiBasePath),
		security.Protect(constants.OperationContribute, s.handler.Contribute))
	mux.HandleFunc(fmt.Sprintf("GET %s/contributions/search", apiBasePath),
		security.Protect(constants.OperationReadContrib, s.handler.SearchContributions))
	mux.HandleFunc(fmt.Sprintf("GET %s/contributions/{id}", apiBasePath),
		security.Protect(constants.OperationReadContrib, s.handler.GetContribution))
}
