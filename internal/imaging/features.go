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

package imaging

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"
)

// ExtractFeatures computes the color and texture summaries of img over a FeatureEdge square
// resize. Decoding problems and codec panics degrade to a dimensions only result.
func (p *Processor) ExtractFeatures(ctx context.Context, img *StandardizedImage) (features *Features, err error) {

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dims := dimensionsOf(img)

	defer func() {
		if r := recover(); r != nil {
			features = &Features{Dimensions: dims, Error: fmt.Sprintf("feature extraction panicked: %v", r)}
			err = nil
		}
	}()

	decoded, _, decodeErr := image.Decode(bytes.NewReader(img.Data))
	if decodeErr != nil {
		return &Features{Dimensions: dims, Error: decodeErr.Error()}, nil
	}
	if dims.Width == 0 || dims.Height == 0 {
		b := decoded.Bounds()
		dims = newDimensions(b.Dx(), b.Dy())
	}

	resized := image.NewRGBA(image.Rect(0, 0, FeatureEdge, FeatureEdge))
	draw.BiLinear.Scale(resized, resized.Bounds(), decoded, decoded.Bounds(), draw.Src, nil)

	color, gray := channelMeans(resized)
	return &Features{
		Color:      &color,
		Texture:    &TextureSummary{GradientMagnitudeMean: sobelMagnitudeMean(gray, FeatureEdge, FeatureEdge)},
		Dimensions: dims,
	}, nil
}

func dimensionsOf(img *StandardizedImage) Dimensions {
	if img == nil {
		return Dimensions{}
	}
	if img.Width > 0 && img.Height > 0 {
		return newDimensions(img.Width, img.Height)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(img.Data))
	if err != nil {
		return Dimensions{}
	}
	return newDimensions(cfg.Width, cfg.Height)
}

func newDimensions(w, h int) Dimensions {
	d := Dimensions{Width: w, Height: h}
	if h > 0 {
		d.AspectRatio = math.Round(float64(w)/float64(h)*10000) / 10000
	}
	return d
}

// channelMeans returns the mean of each channel in [0, 1] and the luma plane.
func channelMeans(img *image.RGBA) (ColorSummary, []float64) {

	b := img.Bounds()
	n := b.Dx() * b.Dy()
	gray := make([]float64, n)
	var sum [3]float64
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			off := img.PixOffset(x, y)
			r := float64(img.Pix[off]) / 255
			g := float64(img.Pix[off+1]) / 255
			bl := float64(img.Pix[off+2]) / 255
			sum[0] += r
			sum[1] += g
			sum[2] += bl
			gray[i] = 0.2989*r + 0.587*g + 0.114*bl
			i++
		}
	}

	var summary ColorSummary
	if n > 0 {
		for c := 0; c < 3; c++ {
			summary.MeanRGB[c] = sum[c] / float64(n)
		}
	}
	return summary, gray
}

// sobelMagnitudeMean convolves the plane with the Sobel kernels using zero padding and
// returns the mean gradient magnitude.
func sobelMagnitudeMean(gray []float64, w, h int) float64 {

	at := func(x, y int) float64 {
		if x < 0 || y < 0 || x >= w || y >= h {
			return 0
		}
		return gray[y*w+x]
	}

	var total float64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			gx := -at(x-1, y-1) + at(x+1, y-1) -
				2*at(x-1, y) + 2*at(x+1, y) -
				at(x-1, y+1) + at(x+1, y+1)
			gy := -at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1) +
				at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1)
			total += math.Sqrt(gx*gx + gy*gy)
		}
	}
	if w*h == 0 {
		return 0
	}
	return total / float64(w*h)
}
