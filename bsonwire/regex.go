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

// Regex flag bits. Order here is definition order, which is also cstring
// assembly order: i, l, m, s, u, x.
const (
	RegexCaseInsensitive uint32 = 1 << 1 // 'i'
	RegexLocale          uint32 = 1 << 2 // 'l'
	RegexMultiline       uint32 = 1 << 3 // 'm'
	RegexDotAll          uint32 = 1 << 4 // 's'
	RegexUnicode         uint32 = 1 << 5 // 'u' (decode only)
	RegexVerbose         uint32 = 1 << 6 // 'x'
)

var regexFlagOrder = []struct {
	bit uint32
	ch  byte
}{
	{RegexCaseInsensitive, 'i'},
	{RegexLocale, 'l'},
	{RegexMultiline, 'm'},
	{RegexDotAll, 's'},
	{RegexUnicode, 'u'},
	{RegexVerbose, 'x'},
}

// FlagsBitmaskToString assembles the sorted flags cstring for a bitmask,
// in definition order.
func FlagsBitmaskToString(mask uint32) string {
	buf := make([]byte, 0, len(regexFlagOrder))
	for _, f := range regexFlagOrder {
		if mask&f.bit != 0 {
			buf = append(buf, f.ch)
		}
	}
	return string(buf)
}

// FlagsStringToBitmask maps a flags cstring back to its bitmask. Unknown
// characters are ignored (the wire format only ever contains characters
// this package itself wrote, or characters a compliant peer wrote using
// the same table).
func FlagsStringToBitmask(flags string) uint32 {
	var mask uint32
	for i := 0; i < len(flags); i++ {
		for _, f := range regexFlagOrder {
			if flags[i] == f.ch {
				mask |= f.bit
				break
			}
		}
	}
	return mask
}
