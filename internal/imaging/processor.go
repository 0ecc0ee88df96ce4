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

// Package imaging standardizes contributed photos and derives the features stored with them.
package imaging

import (
	"context"
)

const (
	DefaultMaxEdge     = 1024
	DefaultJPEGQuality = 85
	// FeatureEdge is the side of the square the features are computed on.
	FeatureEdge = 224
)

// StandardizedImage is a re-encoded JPEG whose longer edge is bounded.
type StandardizedImage struct {
	Data   []byte
	Width  int
	Height int
}

// Dimensions of a standardized image.
type Dimensions struct {
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	AspectRatio float64 `json:"aspect_ratio"`
}

// ColorSummary is the per channel mean over the feature resize, each in [0, 1].
type ColorSummary struct {
	MeanRGB [3]float64 `json:"mean_rgb"`
}

// TextureSummary is the mean Sobel gradient magnitude of the grayscale feature resize.
type TextureSummary struct {
	GradientMagnitudeMean float64 `json:"gradient_magnitude_mean"`
}

// Features derived from a standardized image. When extraction failed internally only
// Dimensions is set and Error describes the failure.
type Features struct {
	Color      *ColorSummary   `json:"color_summary,omitempty"`
	Texture    *TextureSummary `json:"texture_summary,omitempty"`
	Dimensions Dimensions      `json:"dimensions"`
	Error      string          `json:"error,omitempty"`
}

// Degraded reports whether extraction fell back to dimensions only.
func (f *Features) Degraded() bool {
	return f.Error != ""
}

// ImageProcessor is the codec facing part of the pipeline.
type ImageProcessor interface {
	Standardize(raw []byte) (*StandardizedImage, error)
	// ExtractFeatures never fails for codec problems; those degrade into Features.Error. A
	// returned error is a hard failure of the calling step.
	ExtractFeatures(ctx context.Context, img *StandardizedImage) (*Features, error)
}

// Processor is the ImageProcessor backed by the standard codecs and golang.org/x/image.
type Processor struct {
	maxEdge int
	quality int
}

var _ ImageProcessor = (*Processor)(nil)

// NewProcessor returns a processor; non positive arguments fall back to the defaults.
func NewProcessor(maxEdge, quality int) *Processor {

	if maxEdge <= 0 {
		maxEdge = DefaultMaxEdge
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	return &Processor{maxEdge: maxEdge, quality: quality}
}
