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

	"github.com/wso2/plant-data-service/internal/consent/handler"
	"github.com/wso2/plant-data-service/internal/system/constants"
	"github.com/wso2/plant-data-service/internal/system/security"
)

// ConsentService exposes the caller's consent settings, audit trail, usage and erasure.
type ConsentService struct {
	handler *handler.ConsentHandler
}

func NewConsentService(mux *http.ServeMux, apiBasePath string, h *handler.ConsentHandler) *ConsentService {
	instance := &ConsentService{
		handler: h,
	}
	instance.RegisterRoutes(mux, apiBasePath)
	return instance
}

func (s *ConsentService) RegisterRoutes(mux *http.ServeMux, apiBasePath string) {
	op := constants.OperationManageConsent
	mux.HandleFunc(fmt.Sprintf("GET %s/consent", apiBasePath), security.Protect(op, s.handler.GetConsent))
	mux.HandleFunc(fmt.Sprintf("PUT %s/consent", apiBasePath), security.Protect(op, s.handler.UpdateConsent))
	mux.HandleFunc(fmt.Sprintf("GET %s/consent/audit", apiBasePath), security.Protect(op, s.handler.GetAuditLog))
	mux.HandleFunc(fmt.Sprintf("GET %s/consent/usage", apiBasePath), security.Protect(op, s.handler.GetUsageStats))
	mux.HandleFunc(fmt.Sprintf("DELETE %s/consent/data", apiBasePath), security.Protect(op, s.handler.DeleteUserData))
}
