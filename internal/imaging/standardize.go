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
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"math"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var ErrEmptyImage = errors.New("empty image")

// Standardize decodes JPEG, PNG or WebP input, applies its EXIF orientation, bounds the longer
// edge and re-encodes it as JPEG. The output only depends on the input bytes.
func (p *Processor) Standardize(raw []byte) (*StandardizedImage, error) {

	if len(raw) == 0 {
		return nil, ErrEmptyImage
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("unsupported or corrupt image: %w", err)
	}

	img = applyOrientation(img, readOrientation(raw))
	img = boundLongerEdge(img, p.maxEdge)

	var out bytes.Buffer
	if err := jpeg.Encode(&out, img, &jpeg.Options{Quality: p.quality}); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	b := img.Bounds()
	return &StandardizedImage{Data: out.Bytes(), Width: b.Dx(), Height: b.Dy()}, nil
}

// boundLongerEdge scales src down so that neither side exceeds maxEdge. Smaller images are
// returned unchanged.
func boundLongerEdge(src image.Image, maxEdge int) image.Image {

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	longer := max(w, h)
	if longer <= maxEdge || w <= 0 || h <= 0 {
		return src
	}

	scale := float64(maxEdge) / float64(longer)
	newW := max(1, int(math.Round(float64(w)*scale)))
	newH := max(1, int(math.Round(float64(h)*scale)))

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
