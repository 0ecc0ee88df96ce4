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

package authn

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wso2/plant-data-service/internal/system/config"
	"github.com/wso2/plant-data-service/internal/system/constants"
	errors2 "github.com/wso2/plant-data-service/internal/system/errors"
	"github.com/wso2/plant-data-service/internal/system/log"
)

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID string
	Scopes []string
}

// ValidateToken verifies an HS256 signed token against the configured secret and returns
// the caller it identifies.
func ValidateToken(tokenString string, authConfig config.AuthConfig) (*Principal, error) {

	logger := log.GetLogger()
	if authConfig.JWTSecret == "" {
		logger.Error("JWT secret is not configured; rejecting token.")
		return nil, unauthorizedError("Token validation is not configured.")
	}

	var options []jwt.ParserOption
	options = append(options, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if authConfig.Issuer != "" {
		options = append(options, jwt.WithIssuer(authConfig.Issuer))
	}
	if authConfig.Audience != "" {
		options = append(options, jwt.WithAudience(authConfig.Audience))
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(authConfig.JWTSecret), nil
	}, options...)
	if err != nil {
		logger.Debug("Error occurred when validating the JWT token.", log.Error(err))
		return nil, unauthorizedError("Invalid or expired access token.")
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		logger.Debug("Token does not carry a subject claim.")
		return nil, unauthorizedError("Access token does not identify a user.")
	}

	principal := &Principal{UserID: subject}
	if scope, ok := claims["scope"].(string); ok {
		principal.Scopes = strings.Fields(scope)
	}
	return principal, nil
}

// ExtractBearerToken returns the token of an `Authorization: Bearer` header.
func ExtractBearerToken(r *http.Request) (string, error) {

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return "", unauthorizedError("Missing or invalid Authorization header")
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")), nil
}

// WithPrincipal stores the caller in ctx.
func WithPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, constants.PrincipalContextKey, principal)
}

// PrincipalFrom returns the caller stored in ctx.
func PrincipalFrom(ctx context.Context) (*Principal, bool) {
	principal, ok := ctx.Value(constants.PrincipalContextKey).(*Principal)
	return principal, ok && principal != nil
}

func unauthorizedError(description string) error {
	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.UN_AUTHORIZED.Code,
		Message:     errors2.UN_AUTHORIZED.Message,
		Description: description,
	}, http.StatusUnauthorized)
}
