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

// Package unsafex holds the zero-copy byte/string conversions the decode
// path uses when a caller has opted into span-cache buffering (see
// bsonwire.SetSpanCache): the bytes already live in pooled, stable memory
// at that point, so there is no need to pay for a second copy just to
// change the conversion's static type.
package unsafex

import "unsafe"

// BinaryToString converts b to a string without copying. The caller must
// not mutate b afterwards — the returned string aliases its memory.
func BinaryToString(b []byte) string {
	return unsafe.String(unsafe.SliceData(b), len(b))
}

// StringToBinary converts s to a []byte without copying. The caller must
// not mutate the returned slice.
func StringToBinary(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}
