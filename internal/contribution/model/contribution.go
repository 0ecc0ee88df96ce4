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

import (
	"encoding/json"
	"time"

	"github.com/wso2/plant-data-service/internal/system/constants"
)

type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthUnhealthy HealthStatus = "unhealthy"
	HealthUnknown   HealthStatus = "unknown"
)

// Valid reports whether h is one of the known health states. Empty is treated as unknown.
func (h HealthStatus) Valid() bool {
	switch h {
	case HealthHealthy, HealthUnhealthy, HealthUnknown, "":
		return true
	}
	return false
}

type Status string

const (
	StatusPendingReview Status = "pending_review"
	StatusProcessed     Status = "processed"
	StatusApproved      Status = "approved"
	StatusRejected      Status = "rejected"
	StatusError         Status = "error"
)

// Source of a contribution. Anything other than SourceUser is external data.
const SourceUser = "user"

// Payload is the metadata a caller submits with an image. The gated fields are maps so an
// explicitly supplied empty object still counts as a write attempt.
type Payload struct {
	UserID            *string        `json:"user_id,omitempty"`
	ScientificName    string         `json:"scientific_name"`
	CommonName        string         `json:"common_name,omitempty"`
	HealthStatus      HealthStatus   `json:"health_status,omitempty"`
	DiseaseInfo       map[string]any `json:"disease_info,omitempty"`
	Notes             string         `json:"notes,omitempty"`
	ExifData          map[string]any `json:"exif_data,omitempty"`
	LocationData      map[string]any `json:"location_data,omitempty"`
	EnvironmentalData map[string]any `json:"environmental_data,omitempty"`
	SensorData        map[string]any `json:"sensor_data,omitempty"`
}

// Contribution is the authoritative relational record of one plant photo.
type Contribution struct {
	ID                string         `json:"id"`
	UserID            *string        `json:"user_id"`
	ImagePath         string         `json:"image_path"`
	ProcessedPath     string         `json:"processed_path"`
	ImageURL          string         `json:"image_url"`
	ScientificName    string         `json:"scientific_name"`
	CommonName        string         `json:"common_name,omitempty"`
	HealthStatus      HealthStatus   `json:"health_status"`
	DiseaseInfo       map[string]any `json:"disease_info,omitempty"`
	Notes             string         `json:"notes,omitempty"`
	ExifData          map[string]any `json:"exif_data,omitempty"`
	LocationData      map[string]any `json:"location_data,omitempty"`
	EnvironmentalData map[string]any `json:"environmental_data,omitempty"`
	SensorData        map[string]any `json:"sensor_data,omitempty"`
	MemoryID          *string        `json:"memory_id"`
	Source            string         `json:"source"`
	Status            Status         `json:"status"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// IsExternal reports whether the contribution was imported rather than submitted by a user.
func (c *Contribution) IsExternal() bool {
	return c.UserID == nil
}

// OwnerTag is the memory store owner of the contribution.
func (c *Contribution) OwnerTag() string {
	if c.UserID == nil {
		return constants.ExternalOwnerTag
	}
	return UserOwnerTag(*c.UserID)
}

// UserOwnerTag is the memory store owner tag of the contributions of userID.
func UserOwnerTag(userID string) string {
	return constants.UserOwnerTagPrefix + userID
}

// Feature is one derived feature row.
type Feature struct {
	ID             string          `json:"id"`
	ContributionID string          `json:"contribution_id"`
	FeatureType    string          `json:"feature_type"`
	FeatureData    json.RawMessage `json:"feature_data"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Feature types.
const (
	FeatureColorHistogram = "color_histogram"
	FeatureTexture        = "texture"
	FeatureDimensions     = "dimensions"
)

// ImageMetadata holds the consented EXIF and environmental data read with an image.
type ImageMetadata struct {
	ID                string         `json:"id"`
	ContributionID    string         `json:"contribution_id"`
	ExifData          map[string]any `json:"exif_data,omitempty"`
	EnvironmentalData map[string]any `json:"environmental_data,omitempty"`
}

// ContributionRef is the slice of a contribution needed to clean up its secondary stores.
type ContributionRef struct {
	ID            string
	ImagePath     string
	ProcessedPath string
	MemoryID      *string
}

// ContributionView is a contribution merged with its memory record and annotations.
type ContributionView struct {
	Contribution
	MemoryContent string         `json:"memory_content,omitempty"`
	MemoryMeta    map[string]any `json:"memory_metadata,omitempty"`
	Annotations   []Annotation   `json:"annotations"`
	// Score is the memory store rank of a search hit.
	Score float64 `json:"score,omitempty"`
}

// Annotation is a label attached to a contribution.
type Annotation struct {
	ID             string         `json:"id"`
	ContributionID string         `json:"contribution_id"`
	Type           AnnotationType `json:"type"`
	Value          string         `json:"value"`
	Confidence     *float64       `json:"confidence,omitempty"`
	Source         string         `json:"source"`
	CreatedAt      time.Time      `json:"created_at"`
}

type AnnotationType string

const (
	AnnotationSpecies     AnnotationType = "species"
	AnnotationHealth      AnnotationType = "health"
	AnnotationGrowthStage AnnotationType = "growth_stage"
	AnnotationCustom      AnnotationType = "custom"
)

// Annotation sources.
const (
	AnnotationSourceUser   = "user"
	AnnotationSourceExpert = "expert"
	AnnotationSourceSystem = "system"
	AnnotationSourceAI     = "ai"
)
