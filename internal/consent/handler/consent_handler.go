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

	"github.com/wso2/plant-data-service/internal/consent/model"
	"github.com/wso2/plant-data-service/internal/consent/service"
	deletionservice "github.com/wso2/plant-data-service/internal/deletion/service"
	"github.com/wso2/plant-data-service/internal/system/authn"
	"github.com/wso2/plant-data-service/internal/system/pagination"
	"github.com/wso2/plant-data-service/internal/system/utils"
	usageservice "github.com/wso2/plant-data-service/internal/usage_stats/service"
)

// ConsentHandler serves the caller's own consent, its audit trail, usage statistics and data
// deletion.
type ConsentHandler struct {
	consents service.ConsentServiceInterface
	usage    usageservice.UsageStatsServiceInterface
	deletion deletionservice.DeletionServiceInterface
}

func NewConsentHandler(consents service.ConsentServiceInterface, usage usageservice.UsageStatsServiceInterface,
	deletion deletionservice.DeletionServiceInterface) *ConsentHandler {

	return &ConsentHandler{consents: consents, usage: usage, deletion: deletion}
}

func (h *ConsentHandler) GetConsent(w http.ResponseWriter, r *http.Request) {

	principal, _ := authn.PrincipalFrom(r.Context())
	consent, err := h.consents.GetConsent(r.Context(), principal.UserID)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, consent)
}

// UpdateConsent handles PUT /consent. The caller address and user agent are recorded with
// every audit entry the update produces.
func (h *ConsentHandler) UpdateConsent(w http.ResponseWriter, r *http.Request) {

	principal, _ := authn.PrincipalFrom(r.Context())
	var req model.ConsentUpdateRequest
	if err := utils.DecodeJSON(r, &req, "consent"); err != nil {
		utils.HandleError(w, err)
		return
	}

	meta := model.RequestMeta{IPAddress: utils.ClientIP(r), UserAgent: r.UserAgent()}
	consent, err := h.consents.UpdateConsent(r.Context(), principal.UserID, req.Settings(), meta)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, consent)
}

func (h *ConsentHandler) GetAuditLog(w http.ResponseWriter, r *http.Request) {

	principal, _ := authn.PrincipalFrom(r.Context())
	limit, err := pagination.ParseLimit(r)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	entries, err := h.consents.GetAuditLog(r.Context(), principal.UserID, limit)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, entries)
}

func (h *ConsentHandler) GetUsageStats(w http.ResponseWriter, r *http.Request) {

	principal, _ := authn.PrincipalFrom(r.Context())
	stats, err := h.usage.GetUsageStats(r.Context(), principal.UserID)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, stats)
}

// DeleteUserData handles DELETE /consent/data.
func (h *ConsentHandler) DeleteUserData(w http.ResponseWriter, r *http.Request) {

	principal, _ := authn.PrincipalFrom(r.Context())
	report, err := h.deletion.DeleteUserData(r.Context(), principal.UserID)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, report)
}
