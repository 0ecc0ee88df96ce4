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
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"

	consentservice "github.com/wso2/plant-data-service/internal/consent/service"
	contribution "github.com/wso2/plant-data-service/internal/contribution/model"
	"github.com/wso2/plant-data-service/internal/ingestion/model"
	"github.com/wso2/plant-data-service/internal/ingestion/service"
	"github.com/wso2/plant-data-service/internal/system/authn"
	"github.com/wso2/plant-data-service/internal/system/authz"
	"github.com/wso2/plant-data-service/internal/system/config"
	"github.com/wso2/plant-data-service/internal/system/constants"
	"github.com/wso2/plant-data-service/internal/system/errors"
	"github.com/wso2/plant-data-service/internal/system/pagination"
	"github.com/wso2/plant-data-service/internal/system/utils"
)

const (
	imagePart    = "image"
	metadataPart = "metadata"
)

type IngestionHandler struct {
	ingestion      service.IngestionServiceInterface
	consents       consentservice.ConsentServiceInterface
	maxUploadBytes int64
}

func NewIngestionHandler(ingestion service.IngestionServiceInterface, consents consentservice.ConsentServiceInterface,
	maxUploadBytes int64) *IngestionHandler {

	return &IngestionHandler{ingestion: ingestion, consents: consents, maxUploadBytes: maxUploadBytes}
}

// Contribute handles POST /contributions. The body is multipart with an image file part and a
// JSON metadata part.
func (h *IngestionHandler) Contribute(w http.ResponseWriter, r *http.Request) {

	principal, _ := authn.PrincipalFrom(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			utils.HandleError(w, errors.NewPayloadTooLargeError(h.maxUploadBytes))
			return
		}
		utils.HandleError(w, errors.NewValidationError(errors.BAD_REQUEST, "Expected a multipart/form-data body."))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, _, err := r.FormFile(imagePart)
	if err != nil {
		utils.HandleError(w, errors.NewValidationError(errors.INVALID_IMAGE, "The image part is required."))
		return
	}
	defer file.Close()
	image, err := io.ReadAll(file)
	if err != nil {
		utils.HandleError(w, errors.NewValidationError(errors.INVALID_IMAGE, "The image part could not be read."))
		return
	}

	var payload contribution.Payload
	if raw := r.FormValue(metadataPart); raw != "" {
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			utils.HandleError(w, errors.NewValidationError(errors.INVALID_CONTRIBUTION,
				utils.DescribeDecodeError(err, "contribution metadata")))
			return
		}
	}
	// The owner always comes from the token.
	payload.UserID = &principal.UserID

	consent, err := h.consents.GetCurrentConsent(r.Context(), principal.UserID)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	result, err := h.ingestion.Ingest(r.Context(), model.IngestRequest{
		Payload: payload,
		Image:   image,
		Consent: *consent,
		Source:  contribution.SourceUser,
	})
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, result)
}

// GetContribution handles GET /contributions/{id}. Callers see their own and external
// contributions; labelers and reviewers see all of them.
func (h *IngestionHandler) GetContribution(w http.ResponseWriter, r *http.Request) {

	principal, _ := authn.PrincipalFrom(r.Context())
	id := r.PathValue("id")

	view, err := h.ingestion.GetContribution(r.Context(), id)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	if view.UserID != nil && *view.UserID != principal.UserID && !canReadAny(principal) {
		utils.HandleError(w, errors.NewNotFoundError(errors.CONTRIBUTION_NOT_FOUND,
			fmt.Sprintf("Contribution %s does not exist.", id)))
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

// SearchContributions handles GET /contributions/search?q=&owner=&limit=. owner is "me"
// (default) or "external".
func (h *IngestionHandler) SearchContributions(w http.ResponseWriter, r *http.Request) {

	principal, _ := authn.PrincipalFrom(r.Context())
	limit, err := pagination.ParseLimit(r)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	ownerTag := contribution.UserOwnerTag(principal.UserID)
	switch owner := r.URL.Query().Get("owner"); owner {
	case "", "me":
	case constants.ExternalOwnerTag:
		ownerTag = constants.ExternalOwnerTag
	default:
		utils.HandleError(w, errors.NewValidationError(errors.INVALID_SEARCH,
			fmt.Sprintf("Unknown owner %q.", owner)))
		return
	}

	views, err := h.ingestion.SearchContributions(r.Context(), r.URL.Query().Get("q"), ownerTag, limit)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, views)
}

func canReadAny(principal *authn.Principal) bool {
	required := config.GetPDSRuntime().Config.AuthServer.RequiredScopes
	return authz.ValidatePermission(principal.Scopes, constants.OperationLabel, required) ||
		authz.ValidatePermission(principal.Scopes, constants.OperationReview, required)
}
