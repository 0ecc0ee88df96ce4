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

package policy

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wso2/plant-data-service/internal/consent/model"
	contribution "github.com/wso2/plant-data-service/internal/contribution/model"
	"github.com/wso2/plant-data-service/internal/system/errors"
)

func fullPayload() contribution.Payload {
	return contribution.Payload{
		ScientificName:    "Monstera deliciosa",
		CommonName:        "Swiss cheese plant",
		HealthStatus:      contribution.HealthUnhealthy,
		DiseaseInfo:       map[string]any{"name": "leaf spot"},
		Notes:             "yellowing edges",
		ExifData:          map[string]any{"make": "Pixel"},
		LocationData:      map[string]any{"latitude": 52.1, "longitude": 4.3},
		EnvironmentalData: map[string]any{"humidity": 0.6},
		SensorData:        map[string]any{"lux": 1200},
	}
}

// allConsents enumerates every combination of the four mutable flags.
func allConsents() []model.ConsentSettings {
	var out []model.ConsentSettings
	for mask := 0; mask < 16; mask++ {
		out = append(out, model.ConsentSettings{
			BasicIdentification: true,
			ModelTraining:       mask&1 != 0,
			ExifMetadata:        mask&2 != 0,
			LocationData:        mask&4 != 0,
			AdvancedSensors:     mask&8 != 0,
		})
	}
	return out
}

func TestSanitize_NeverKeepsUnconsentedFields(t *testing.T) {

	for _, consent := range allConsents() {
		out := Sanitize(fullPayload(), consent)

		assert.Equal(t, consent.ExifMetadata, out.ExifData != nil, "exif with %+v", consent)
		assert.Equal(t, consent.LocationData, out.LocationData != nil, "location with %+v", consent)
		assert.Equal(t, consent.AdvancedSensors, out.SensorData != nil, "sensors with %+v", consent)
		assert.Equal(t, consent.AdvancedSensors, out.EnvironmentalData != nil, "environment with %+v", consent)

		assert.Equal(t, "Monstera deliciosa", out.ScientificName)
		assert.Equal(t, "Swiss cheese plant", out.CommonName)
		assert.Equal(t, contribution.HealthUnhealthy, out.HealthStatus)
		assert.Equal(t, "leaf spot", out.DiseaseInfo["name"])
		assert.Equal(t, "yellowing edges", out.Notes)
	}
}

func TestSanitize_DoesNotAliasInput(t *testing.T) {

	in := fullPayload()
	consent := model.ConsentSettings{BasicIdentification: true, ExifMetadata: true}
	out := Sanitize(in, consent)
	out.ExifData["make"] = "changed"

	assert.Equal(t, "Pixel", in.ExifData["make"])
}

func TestValidateWritable(t *testing.T) {

	t.Run("Exif_without_consent_is_denied", func(t *testing.T) {
		payload := contribution.Payload{ScientificName: "Ficus", ExifData: map[string]any{}}
		err := ValidateWritable(payload, DefaultConsent())
		require.Error(t, err)
		assert.True(t, errors.IsConsentDenied(err))
	})

	t.Run("Location_without_consent_is_denied", func(t *testing.T) {
		payload := contribution.Payload{LocationData: map[string]any{"latitude": 1.0}}
		err := ValidateWritable(payload, model.ConsentSettings{BasicIdentification: true, ExifMetadata: true})
		assert.True(t, errors.IsConsentDenied(err))
	})

	t.Run("Sensors_without_consent_is_denied", func(t *testing.T) {
		payload := contribution.Payload{SensorData: map[string]any{"lux": 10}}
		assert.True(t, errors.IsConsentDenied(ValidateWritable(payload, DefaultConsent())))
	})

	t.Run("Absent_gated_fields_are_fine", func(t *testing.T) {
		payload := contribution.Payload{ScientificName: "Ficus", Notes: "n"}
		assert.NoError(t, ValidateWritable(payload, DefaultConsent()))
	})

	t.Run("Full_consent_accepts_everything", func(t *testing.T) {
		consent := model.ConsentSettings{BasicIdentification: true, ExifMetadata: true, LocationData: true,
			AdvancedSensors: true}
		assert.NoError(t, ValidateWritable(fullPayload(), consent))
	})
}

func changedFields(a, b model.ConsentSettings) map[model.ConsentType]bool {
	changed := map[model.ConsentType]bool{}
	for _, f := range consentFields {
		if f.value(a) != f.value(b) {
			changed[f.consentType] = f.value(b)
		}
	}
	return changed
}

func TestDiff_OneEntryPerChangedField(t *testing.T) {

	consents := allConsents()
	for _, a := range consents {
		for _, b := range consents {
			prev := a
			entries := Diff(&prev, b, "user-1", "consent-1", model.RequestMeta{})
			expected := changedFields(a, b)

			require.Len(t, entries, len(expected))
			for _, entry := range entries {
				newValue, ok := expected[entry.ConsentType]
				require.True(t, ok, "unexpected entry for %s", entry.ConsentType)
				assert.Equal(t, newValue, entry.NewValue)
				require.NotNil(t, entry.PreviousValue)
				assert.Equal(t, !newValue, *entry.PreviousValue)
				if newValue {
					assert.Equal(t, model.ActionGranted, entry.Action)
				} else {
					assert.Equal(t, model.ActionRevoked, entry.Action)
				}
			}
		}
	}
}

func TestDiff_FirstTimeConsentGrantsTrueFields(t *testing.T) {

	next := model.ConsentSettings{BasicIdentification: true, LocationData: true}
	entries := Diff(nil, next, "user-1", "consent-1", model.RequestMeta{IPAddress: "198.51.100.7", UserAgent: "ua"})

	require.Len(t, entries, 2)
	assert.Equal(t, model.ConsentTypeBasicIdentification, entries[0].ConsentType)
	assert.Equal(t, model.ConsentTypeLocationData, entries[1].ConsentType)
	for _, entry := range entries {
		assert.Equal(t, model.ActionGranted, entry.Action)
		assert.Nil(t, entry.PreviousValue)
		assert.Equal(t, "198.51.100.7", entry.IPAddress)
		assert.Equal(t, "consent-1", entry.ConsentID)
	}
}

func TestDiff_ModelTrainingAndLocationScenario(t *testing.T) {

	before := model.ConsentSettings{BasicIdentification: true}
	after := model.ConsentSettings{BasicIdentification: true, ModelTraining: true, LocationData: true}

	entries := Diff(&before, after, "user-1", "consent-1", model.RequestMeta{})

	require.Len(t, entries, 2)
	assert.Equal(t, model.ConsentTypeModelTraining, entries[0].ConsentType)
	assert.Equal(t, model.ActionGranted, entries[0].Action)
	assert.Equal(t, model.ConsentTypeLocationData, entries[1].ConsentType)
	assert.Equal(t, model.ActionGranted, entries[1].Action)
}

func TestDiff_RandomPairsAreSymmetricInCount(t *testing.T) {

	r := rand.New(rand.NewSource(7))
	consents := allConsents()
	for i := 0; i < 200; i++ {
		a := consents[r.Intn(len(consents))]
		b := consents[r.Intn(len(consents))]
		forward := Diff(&a, b, "u", "c", model.RequestMeta{})
		backward := Diff(&b, a, "u", "c", model.RequestMeta{})
		assert.Equal(t, len(forward), len(backward))
	}
}
