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

// Package policy decides which contribution fields may be persisted under a user's consent and
// derives audit entries from consent changes. It performs no I/O.
package policy

import (
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"

	"github.com/wso2/plant-data-service/internal/consent/model"
	contribution "github.com/wso2/plant-data-service/internal/contribution/model"
	"github.com/wso2/plant-data-service/internal/system/errors"
)

// DefaultConsent is the consent of a user who never stored one.
func DefaultConsent() model.ConsentSettings {
	return model.ConsentSettings{BasicIdentification: true}
}

// ExternalConsent applies to imported data, which has no owner to ask.
func ExternalConsent() model.ConsentSettings {
	return model.ConsentSettings{BasicIdentification: true, ModelTraining: true}
}

// Sanitize returns a copy of payload without the fields consent does not cover. Identification
// fields are always kept.
func Sanitize(payload contribution.Payload, consent model.ConsentSettings) contribution.Payload {

	out := payload
	out.DiseaseInfo = maps.Clone(payload.DiseaseInfo)
	out.ExifData = nil
	out.LocationData = nil
	out.SensorData = nil
	out.EnvironmentalData = nil

	if consent.ExifMetadata {
		out.ExifData = maps.Clone(payload.ExifData)
	}
	if consent.LocationData {
		out.LocationData = maps.Clone(payload.LocationData)
	}
	if consent.AdvancedSensors {
		out.SensorData = maps.Clone(payload.SensorData)
		out.EnvironmentalData = maps.Clone(payload.EnvironmentalData)
	}
	return out
}

// ValidateWritable rejects a payload that explicitly carries a field its owner has not
// consented to store.
func ValidateWritable(payload contribution.Payload, consent model.ConsentSettings) error {

	gated := []struct {
		field   string
		present bool
		allowed bool
		consent model.ConsentType
	}{
		{"exif_data", payload.ExifData != nil, consent.ExifMetadata, model.ConsentTypeExifMetadata},
		{"location_data", payload.LocationData != nil, consent.LocationData, model.ConsentTypeLocationData},
		{"sensor_data", payload.SensorData != nil, consent.AdvancedSensors, model.ConsentTypeAdvancedSensors},
		{"environmental_data", payload.EnvironmentalData != nil, consent.AdvancedSensors, model.ConsentTypeAdvancedSensors},
	}
	for _, g := range gated {
		if g.present && !g.allowed {
			return errors.NewConsentDeniedError(
				fmt.Sprintf("Field %s requires %s consent, which has not been granted.", g.field, g.consent))
		}
	}
	return nil
}

type consentField struct {
	consentType model.ConsentType
	value       func(model.ConsentSettings) bool
}

var consentFields = []consentField{
	{model.ConsentTypeBasicIdentification, func(c model.ConsentSettings) bool { return c.BasicIdentification }},
	{model.ConsentTypeModelTraining, func(c model.ConsentSettings) bool { return c.ModelTraining }},
	{model.ConsentTypeExifMetadata, func(c model.ConsentSettings) bool { return c.ExifMetadata }},
	{model.ConsentTypeLocationData, func(c model.ConsentSettings) bool { return c.LocationData }},
	{model.ConsentTypeAdvancedSensors, func(c model.ConsentSettings) bool { return c.AdvancedSensors }},
}

// Diff returns one audit entry per consent flag whose value changed between previous and next.
// A nil previous is a first time consent: every flag that is true yields a granted entry.
func Diff(previous *model.ConsentSettings, next model.ConsentSettings, userID, consentID string,
	meta model.RequestMeta) []model.AuditEntry {

	now := time.Now().UTC()
	var entries []model.AuditEntry
	for _, field := range consentFields {
		newValue := field.value(next)
		var previousValue *bool
		if previous == nil {
			if !newValue {
				continue
			}
		} else {
			old := field.value(*previous)
			if old == newValue {
				continue
			}
			previousValue = &old
		}

		action := model.ActionRevoked
		if newValue {
			action = model.ActionGranted
		}
		entries = append(entries, model.AuditEntry{
			ID:            uuid.New().String(),
			UserID:        userID,
			ConsentID:     consentID,
			Action:        action,
			ConsentType:   field.consentType,
			PreviousValue: previousValue,
			NewValue:      newValue,
			IPAddress:     meta.IPAddress,
			UserAgent:     meta.UserAgent,
			CreatedAt:     now,
		})
	}
	return entries
}
