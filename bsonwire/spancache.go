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
	"github.com/bytedance/gopkg/lang/span"

	"github.com/bsonwire/bsonwire/internal/unsafex"
)

var (
	stringSpanCache       = span.NewSpanCache(1024 * 1024)
	stringSpanCacheEnable bool
)

// SetSpanCache toggles copy-on-read span buffering for decoded
// String/JsString/Symbol/Binary payloads. Off by default: every decoded
// value gets its own allocation, which is simplest and safe to hold onto
// indefinitely. Enabling it amortizes allocation across many small
// payloads at the cost of pinning a shared pooled arena for as long as any
// decoded value from it is still referenced — the same tradeoff the
// teacher's BinaryProtocol.SetSpanCache makes.
func SetSpanCache(enable bool) {
	stringSpanCacheEnable = enable
}

func copySpan(b []byte) []byte {
	if stringSpanCacheEnable {
		return stringSpanCache.Copy(b)
	}
	return append([]byte(nil), b...)
}

func spanString(b []byte) string {
	if stringSpanCacheEnable {
		return unsafex.BinaryToString(stringSpanCache.Copy(b))
	}
	return string(b)
}
