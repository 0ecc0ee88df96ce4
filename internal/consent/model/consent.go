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

package model

import "time"

// ConsentSettings is the per user consent record. BasicIdentification is never persisted as false.
type ConsentSettings struct {
	ID                  string    `json:"id,omitempty"`
	UserID              string    `json:"user_id,omitempty"`
	BasicIdentification bool      `json:"basic_identification"`
	ModelTraining       bool      `json:"model_training"`
	ExifMetadata        bool      `json:"exif_metadata"`
	LocationData        bool      `json:"location_data"`
	AdvancedSensors     bool      `json:"advanced_sensors"`
	CreatedAt           time.Time `json:"created_at,omitempty"`
	UpdatedAt           time.Time `json:"updated_at,omitempty"`
}

// ConsentType names a single consent flag in the audit log.
type ConsentType string

const (
	ConsentTypeBasicIdentification ConsentType = "basic_identification"
	ConsentTypeModelTraining       ConsentType = "model_training"
	ConsentTypeExifMetadata        ConsentType = "exif_metadata"
	ConsentTypeLocationData        ConsentType = "location_data"
	ConsentTypeAdvancedSensors     ConsentType = "advanced_sensors"
)

type AuditAction string

const (
	ActionGranted AuditAction = "granted"
	ActionRevoked AuditAction = "revoked"
)

// AuditEntry records one consent flag transition. Entries are append only.
type AuditEntry struct {
	ID            string      `json:"id"`
	UserID        string      `json:"user_id"`
	ConsentID     string      `json:"consent_id"`
	Action        AuditAction `json:"action"`
	ConsentType   ConsentType `json:"consent_type"`
	PreviousValue *bool       `json:"previous_value"`
	NewValue      bool        `json:"new_value"`
	IPAddress     string      `json:"ip_address,omitempty"`
	UserAgent     string      `json:"user_agent,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}

// RequestMeta is the provenance attached to audit entries.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// ConsentUpdateRequest is the body of PUT /consent.
type ConsentUpdateRequest struct {
	BasicIdentification *bool `json:"basic_identification"`
	ModelTraining       bool  `json:"model_training"`
	ExifMetadata        bool  `json:"exif_metadata"`
	LocationData        bool  `json:"location_data"`
	AdvancedSensors     bool  `json:"advanced_sensors"`
}

// Settings converts the request, treating an omitted basic_identification as true.
func (r ConsentUpdateRequest) Settings() ConsentSettings {
	basic := true
	if r.BasicIdentification != nil {
		basic = *r.BasicIdentification
	}
	return ConsentSettings{
		BasicIdentification: basic,
		ModelTraining:       r.ModelTraining,
		ExifMetadata:        r.ExifMetadata,
		LocationData:        r.LocationData,
		AdvancedSensors:     r.AdvancedSensors,
	}
}
