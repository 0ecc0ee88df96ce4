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
	"strings"

	"github.com/rwcarlsen/goexif/exif"
)

// GPS keys produced by ReadExif. They are location data, not EXIF metadata, for consent.
const (
	ExifGPSLatitude  = "gps_latitude"
	ExifGPSLongitude = "gps_longitude"
)

var exifStringTags = map[string]exif.FieldName{
	"make":          exif.Make,
	"model":         exif.Model,
	"software":      exif.Software,
	"date_time":     exif.DateTimeOriginal,
	"lens_model":    exif.LensModel,
	"image_comment": exif.UserComment,
}

var exifRationalTags = map[string]exif.FieldName{
	"exposure_time": exif.ExposureTime,
	"f_number":      exif.FNumber,
	"focal_length":  exif.FocalLength,
}

var exifIntTags = map[string]exif.FieldName{
	"orientation": exif.Orientation,
	"iso":         exif.ISOSpeedRatings,
	"flash":       exif.Flash,
}

// ReadExif returns the camera metadata embedded in raw. Images without EXIF yield an empty map.
func ReadExif(raw []byte) map[string]any {

	out := map[string]any{}
	x, err := exif.Decode(bytes.NewReader(raw))
	if err != nil {
		return out
	}

	for key, field := range exifStringTags {
		tag, err := x.Get(field)
		if err != nil {
			continue
		}
		if value, err := tag.StringVal(); err == nil {
			if value = strings.TrimSpace(strings.TrimRight(value, "\x00")); value != "" {
				out[key] = value
			}
		}
	}
	for key, field := range exifRationalTags {
		tag, err := x.Get(field)
		if err != nil {
			continue
		}
		if rat, err := tag.Rat(0); err == nil {
			value, _ := rat.Float64()
			out[key] = value
		}
	}
	for key, field := range exifIntTags {
		tag, err := x.Get(field)
		if err != nil {
			continue
		}
		if value, err := tag.Int(0); err == nil {
			out[key] = value
		}
	}
	if lat, long, err := x.LatLong(); err == nil {
		out[ExifGPSLatitude] = lat
		out[ExifGPSLongitude] = long
	}
	return out
}

// SplitGPS separates the GPS keys of an EXIF map from the rest.
func SplitGPS(exifData map[string]any) (rest map[string]any, gps map[string]any) {

	rest = map[string]any{}
	gps = map[string]any{}
	for key, value := range exifData {
		if strings.HasPrefix(key, "gps_") {
			gps[key] = value
		} else {
			rest[key] = value
		}
	}
	return rest, gps
}
