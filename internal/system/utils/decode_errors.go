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

package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	customerrors "github.com/wso2/plant-data-service/internal/system/errors"
)

// DecodeError converts a JSON body decoding failure into a client error: 413 when the body
// hit its size limit and 400 otherwise.
func DecodeError(err error, resourceName string) error {

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return customerrors.NewPayloadTooLargeError(tooLarge.Limit)
	}
	return customerrors.NewValidationError(customerrors.BAD_REQUEST, DescribeDecodeError(err, resourceName))
}

// DescribeDecodeError returns a caller facing description of a JSON decoding failure.
func DescribeDecodeError(err error, resourceName string) string {

	if errors.Is(err, io.EOF) {
		return fmt.Sprintf("Request body for %s is empty.", resourceName)
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Sprintf("Request body for %s is truncated.", resourceName)
	}
	if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		return fmt.Sprintf("Unknown field %s in %s request body.", field, resourceName)
	}

	var syntaxError *json.SyntaxError
	if errors.As(err, &syntaxError) {
		return fmt.Sprintf("Malformed JSON in %s request body at offset %d.", resourceName, syntaxError.Offset)
	}
	var typeError *json.UnmarshalTypeError
	if errors.As(err, &typeError) {
		if typeError.Field == "" {
			return fmt.Sprintf("Request body for %s must be a JSON %s.", resourceName, jsonKind(typeError.Type.Kind().String()))
		}
		return fmt.Sprintf("Field '%s' in %s request body must be a %s, got %s.", typeError.Field, resourceName,
			jsonKind(typeError.Type.Kind().String()), typeError.Value)
	}
	return fmt.Sprintf("Invalid JSON payload for %s.", resourceName)
}

func jsonKind(goKind string) string {
	switch goKind {
	case "struct", "map":
		return "object"
	case "slice", "array":
		return "array"
	case "bool":
		return "boolean"
	case "string":
		return "string"
	case "ptr", "interface":
		return "value"
	default:
		return "number"
	}
}
