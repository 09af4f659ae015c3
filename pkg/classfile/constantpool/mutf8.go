// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package constantpool

import (
	"errors"
	"unicode/utf16"
)

// Class files store strings in "modified UTF-8": NUL is encoded as two bytes
// and supplementary characters are encoded as a surrogate pair of three byte
// sequences, rather than a single four byte sequence.

var errBadEncoding = errors.New("malformed modified UTF-8")

// decodeModifiedUtf8 decodes a modified UTF-8 byte sequence into a Go string.
func decodeModifiedUtf8(bytes []byte) (string, error) {
	// Fast path for pure ASCII (without NUL)
	ascii := true
	//
	for _, b := range bytes {
		if b == 0 || b >= 0x80 {
			ascii = false
			break
		}
	}
	//
	if ascii {
		return string(bytes), nil
	}
	// General case via UTF-16 code units
	units := make([]uint16, 0, len(bytes))
	//
	for i := 0; i < len(bytes); {
		b := bytes[i]
		//
		switch {
		case b == 0:
			return "", errBadEncoding
		case b < 0x80:
			units = append(units, uint16(b))
			i++
		case b&0xE0 == 0xC0:
			if i+1 >= len(bytes) || bytes[i+1]&0xC0 != 0x80 {
				return "", errBadEncoding
			}
			//
			units = append(units, uint16(b&0x1F)<<6|uint16(bytes[i+1]&0x3F))
			i += 2
		case b&0xF0 == 0xE0:
			if i+2 >= len(bytes) || bytes[i+1]&0xC0 != 0x80 || bytes[i+2]&0xC0 != 0x80 {
				return "", errBadEncoding
			}
			//
			units = append(units, uint16(b&0x0F)<<12|uint16(bytes[i+1]&0x3F)<<6|uint16(bytes[i+2]&0x3F))
			i += 3
		default:
			return "", errBadEncoding
		}
	}
	//
	return string(utf16.Decode(units)), nil
}

// encodeModifiedUtf8 appends the modified UTF-8 encoding of a Go string.
func encodeModifiedUtf8(dst []byte, s string) []byte {
	for _, u := range utf16.Encode([]rune(s)) {
		switch {
		case u != 0 && u < 0x80:
			dst = append(dst, byte(u))
		case u < 0x800:
			dst = append(dst, byte(0xC0|(u>>6)), byte(0x80|(u&0x3F)))
		default:
			dst = append(dst, byte(0xE0|(u>>12)), byte(0x80|((u>>6)&0x3F)), byte(0x80|(u&0x3F)))
		}
	}
	//
	return dst
}

// modifiedUtf8Length returns the number of bytes in the modified UTF-8
// encoding of a given string.
func modifiedUtf8Length(s string) int {
	n := 0
	//
	for _, u := range utf16.Encode([]rune(s)) {
		switch {
		case u != 0 && u < 0x80:
			n++
		case u < 0x800:
			n += 2
		default:
			n += 3
		}
	}
	//
	return n
}
