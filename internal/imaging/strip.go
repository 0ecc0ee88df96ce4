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
	"encoding/binary"
)

const (
	markerPrefix = 0xFF
	markerSOI    = 0xD8
	markerSOS    = 0xDA
	markerAPP1   = 0xE1
	markerAPP13  = 0xED
)

var (
	pngSignature = []byte("\x89PNG\r\n\x1a\n")
	pngTextual   = map[string]bool{"eXIf": true, "tEXt": true, "zTXt": true, "iTXt": true}
	webpMetadata = map[string]bool{"EXIF": true, "XMP ": true}
)

// VP8X flag bits announcing EXIF and XMP chunks.
const webpMetadataFlags = 0x08 | 0x04

// StripMetadata removes EXIF, XMP and textual metadata from a JPEG, PNG or WebP file without
// re-encoding its pixels. ok is false when the input is not one of those formats or is not
// well formed; raw is then returned unchanged and the caller must not assume it is clean.
func StripMetadata(raw []byte) (stripped []byte, ok bool) {

	switch {
	case len(raw) >= 4 && raw[0] == markerPrefix && raw[1] == markerSOI:
		return stripJPEG(raw)
	case bytes.HasPrefix(raw, pngSignature):
		return stripPNG(raw)
	case len(raw) >= 12 && string(raw[0:4]) == "RIFF" && string(raw[8:12]) == "WEBP":
		return stripWebP(raw)
	}
	return raw, false
}

func stripJPEG(raw []byte) ([]byte, bool) {

	out := make([]byte, 0, len(raw))
	out = append(out, raw[:2]...)
	pos := 2
	for pos < len(raw) {
		if raw[pos] != markerPrefix {
			return raw, false
		}
		// Fill bytes.
		for pos+1 < len(raw) && raw[pos+1] == markerPrefix {
			pos++
		}
		if pos+1 >= len(raw) {
			return raw, false
		}
		marker := raw[pos+1]
		switch {
		case marker == markerSOS:
			// Entropy coded data follows; everything after the scan header is kept as is.
			return append(out, raw[pos:]...), true
		case marker >= 0xD0 && marker <= 0xD7, marker == 0x01:
			out = append(out, raw[pos:pos+2]...)
			pos += 2
			continue
		}

		if pos+4 > len(raw) {
			return raw, false
		}
		length := int(binary.BigEndian.Uint16(raw[pos+2 : pos+4]))
		end := pos + 2 + length
		if length < 2 || end > len(raw) {
			return raw, false
		}
		if marker != markerAPP1 && marker != markerAPP13 {
			out = append(out, raw[pos:end]...)
		}
		pos = end
	}
	return raw, false
}

// stripPNG drops the eXIf and text chunks. Chunk CRCs cover only their own chunk, so the
// remaining chunks stay valid.
func stripPNG(raw []byte) ([]byte, bool) {

	out := make([]byte, 0, len(raw))
	out = append(out, pngSignature...)
	pos := len(pngSignature)
	for pos+12 <= len(raw) {
		length := int(binary.BigEndian.Uint32(raw[pos : pos+4]))
		end := pos + 12 + length
		if length < 0 || end > len(raw) || end < pos {
			return raw, false
		}
		kind := string(raw[pos+4 : pos+8])
		if !pngTextual[kind] {
			out = append(out, raw[pos:end]...)
		}
		pos = end
		if kind == "IEND" {
			return out, true
		}
	}
	return raw, false
}

// stripWebP drops the EXIF and XMP chunks of an extended WebP, clears their VP8X flags and
// rewrites the RIFF size.
func stripWebP(raw []byte) ([]byte, bool) {

	out := make([]byte, 12, len(raw))
	copy(out, raw[:12])
	pos := 12
	for pos < len(raw) {
		if pos+8 > len(raw) {
			return raw, false
		}
		size := int(binary.LittleEndian.Uint32(raw[pos+4 : pos+8]))
		end := pos + 8 + size + size%2
		if size < 0 || end > len(raw) || end < pos {
			return raw, false
		}
		kind := string(raw[pos : pos+4])
		if !webpMetadata[kind] {
			start := len(out)
			out = append(out, raw[pos:end]...)
			if kind == "VP8X" && size > 0 {
				out[start+8] &^= webpMetadataFlags
			}
		}
		pos = end
	}
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(out)-8))
	return out, true
}
