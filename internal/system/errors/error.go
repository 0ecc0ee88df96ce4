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

package errors

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorMessage struct {
	Code        string `json:"error_code"`
	Message     string `json:"error_message"`
	Description string `json:"error_description"`
	TraceID     string `json:"trace_id,omitempty"`
}

type ClientError struct {
	ErrorMessage
	StatusCode int
}

type ServerError struct {
	ErrorMessage
	Err error
}

// Degradation is a non fatal failure. The operation that produced it still succeeded.
type Degradation struct {
	ErrorMessage
	Err error `json:"-"`
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
}

func (e *ServerError) Unwrap() error {
	return e.Err
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Degradation) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
}

func (e *Degradation) Unwrap() error {
	return e.Err
}

func NewServerError(msg ErrorMessage, cause error) *ServerError {
	return &ServerError{
		ErrorMessage: msg,
		Err:          cause,
	}
}

func NewClientError(msg ErrorMessage, code int) *ClientError {
	return &ClientError{
		ErrorMessage: msg,
		StatusCode:   code,
	}
}

func NewDegradation(msg ErrorMessage, cause error) *Degradation {
	return &Degradation{
		ErrorMessage: msg,
		Err:          cause,
	}
}

// NewConsentDeniedError builds the error returned when a gated field is written without consent.
func NewConsentDeniedError(description string) *ClientError {
	return NewClientError(ErrorMessage{
		Code:        CONSENT_DENIED.Code,
		Message:     CONSENT_DENIED.Message,
		Description: description,
	}, http.StatusForbidden)
}

// NewNotFoundError builds a 404 client error from one of the *_NOT_FOUND messages.
func NewNotFoundError(msg ErrorMessage, description string) *ClientError {
	msg.Description = description
	return NewClientError(msg, http.StatusNotFound)
}

// NewValidationError builds a 400 client error.
func NewValidationError(msg ErrorMessage, description string) *ClientError {
	msg.Description = description
	return NewClientError(msg, http.StatusBadRequest)
}

// NewConflictError builds the validation error returned when a request collides with work
// already in progress. It is served as 409.
func NewConflictError(msg ErrorMessage) *ClientError {
	return NewClientError(msg, http.StatusConflict)
}

// NewPayloadTooLargeError builds the 413 returned when a body exceeds limit bytes.
func NewPayloadTooLargeError(limit int64) *ClientError {
	msg := PAYLOAD_TOO_LARGE
	msg.Description = fmt.Sprintf("The request body exceeds the %d byte limit.", limit)
	return NewClientError(msg, http.StatusRequestEntityTooLarge)
}

// NewStoreError builds a server error for a failed backend call.
func NewStoreError(msg ErrorMessage, description string, cause error) *ServerError {
	msg.Description = description
	return NewServerError(msg, cause)
}

func clientStatus(err error) int {
	var clientError *ClientError
	if errors.As(err, &clientError) {
		return clientError.StatusCode
	}
	return 0
}

// IsConsentDenied reports whether err is a consent violation.
func IsConsentDenied(err error) bool {
	var clientError *ClientError
	return errors.As(err, &clientError) && clientError.Code == CONSENT_DENIED.Code
}

// IsNotFound reports whether err refers to an absent entity.
func IsNotFound(err error) bool {
	return clientStatus(err) == http.StatusNotFound
}

// IsValidation reports whether err was caused by malformed input.
func IsValidation(err error) bool {
	return clientStatus(err) == http.StatusBadRequest || clientStatus(err) == http.StatusConflict
}

// IsStoreError reports whether err is a retryable backend failure.
func IsStoreError(err error) bool {
	var serverError *ServerError
	return errors.As(err, &serverError)
}

// IsClientError reports whether err was caused by the caller.
func IsClientError(err error) bool {
	return clientStatus(err) != 0
}
