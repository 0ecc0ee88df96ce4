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
	"image"

	"github.com/rwcarlsen/goexif/exif"
)

func readOrientation(raw []byte) int {
	x, err := exif.Decode(bytes.NewReader(raw))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	ori, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return ori
}

// applyOrientation undoes the EXIF orientation so the pixels are upright.
//
// 1 normal, 2 flip horizontal, 3 rotate 180, 4 flip vertical, 5 transpose,
// 6 rotate 90 CW, 7 transverse, 8 rotate 90 CCW.
func applyOrientation(src image.Image, ori int) image.Image {

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	var mapping func(x, y int) (int, int)
	swap := false
	switch ori {
	case 2:
		mapping = func(x, y int) (int, int) { return w - 1 - x, y }
	case 3:
		mapping = func(x, y int) (int, int) { return w - 1 - x, h - 1 - y }
	case 4:
		mapping = func(x, y int) (int, int) { return x, h - 1 - y }
	case 5:
		mapping, swap = func(x, y int) (int, int) { return y, x }, true
	case 6:
		mapping, swap = func(x, y int) (int, int) { return h - 1 - y, x }, true
	case 7:
		mapping, swap = func(x, y int) (int, int) { return h - 1 - y, w - 1 - x }, true
	case 8:
		mapping, swap = func(x, y int) (int, int) { return y, w - 1 - x }, true
	default:
		return src
	}

	rect := image.Rect(0, 0, w, h)
	if swap {
		rect = image.Rect(0, 0, h, w)
	}
	dst := image.NewRGBA(rect)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := mapping(x, y)
			dst.Set(dx, dy, src.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}
