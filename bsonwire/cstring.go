// Copyright 2024 CloudWeGo Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bsonwire

import (
	"strings"
	"unicode/utf8"
)

// validateCString enforces one unified NUL policy across the codec:
// embedded NUL is rejected unconditionally in every cstring context (keys,
// regex pattern, regex flags, collection names), and the text must be
// valid UTF-8.
func validateCString(s string, what string) error {
	if !utf8.ValidString(s) {
		return NewCodecError(InvalidStringData, what+" is not valid UTF-8")
	}
	if strings.IndexByte(s, 0) >= 0 {
		return NewCodecError(InvalidDocument, what+" must not contain the NUL byte")
	}
	return nil
}

// validateLengthPrefixedString enforces the companion half of that policy:
// embedded NUL is permitted in length-prefixed String/JsString/Symbol
// payloads (the length prefix, not a terminator, delimits them), but the
// bytes must still be valid UTF-8.
func validateLengthPrefixedString(s string) error {
	if !utf8.ValidString(s) {
		return NewCodecError(InvalidStringData, "string is not valid UTF-8")
	}
	return nil
}

// validateKeyName enforces the optional key-shape rule: when checkKeys is
// on, a key must not start with '$' and must not contain '.'. The
// NUL/UTF-8 checks
// of validateCString apply to every key regardless of checkKeys.
func validateKeyName(key string, checkKeys bool) error {
	if err := validateCString(key, "key"); err != nil {
		return err
	}
	if !checkKeys {
		return nil
	}
	if strings.HasPrefix(key, "$") {
		return NewCodecError(InvalidDocument, "key \""+key+"\" must not start with '$'")
	}
	if strings.IndexByte(key, '.') >= 0 {
		return NewCodecError(InvalidDocument, "key \""+key+"\" must not contain '.'")
	}
	return nil
}
