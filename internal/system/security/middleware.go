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

package security

import (
	"net/http"

	"github.com/wso2/plant-data-service/internal/system/authn"
	"github.com/wso2/plant-data-service/internal/system/authz"
	"github.com/wso2/plant-data-service/internal/system/config"
	"github.com/wso2/plant-data-service/internal/system/errors"
	"github.com/wso2/plant-data-service/internal/system/log"
	"github.com/wso2/plant-data-service/internal/system/utils"
)

// AuthnAndAuthz authenticates the request and checks that the caller may run operation.
func AuthnAndAuthz(r *http.Request, operation string) (*authn.Principal, error) {

	token, err := authn.ExtractBearerToken(r)
	if err != nil {
		return nil, err
	}

	runtimeConfig := config.GetPDSRuntime().Config
	principal, err := authn.ValidateToken(token, runtimeConfig.Auth)
	if err != nil {
		log.GetLogger().Audit(log.AuditEvent{
			InitiatorType: log.InitiatorTypeUser,
			TargetType:    operation,
			ActionID:      log.ActionAuthenticationFailure,
		})
		return nil, err
	}

	if !authz.ValidatePermission(principal.Scopes, operation, runtimeConfig.AuthServer.RequiredScopes) {
		return nil, errors.NewClientError(errors.ErrorMessage{
			Code:        errors.FORBIDDEN.Code,
			Message:     errors.FORBIDDEN.Message,
			Description: errors.FORBIDDEN.Description,
		}, http.StatusForbidden)
	}
	return principal, nil
}

// Protect wraps a handler so it only runs for authorized callers; the principal is available
// through authn.PrincipalFrom.
func Protect(operation string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := AuthnAndAuthz(r, operation)
		if err != nil {
			utils.HandleError(w, err)
			return
		}
		next(w, r.WithContext(authn.WithPrincipal(r.Context(), principal)))
	}
}
