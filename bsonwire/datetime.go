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

import "time"

// millisSinceEpoch converts t (already normalized to UTC by the caller)
// into milliseconds since the Unix epoch. The sub-millisecond part of the
// (non-negative) nanosecond field is truncated, so the result rounds
// toward negative infinity for times before 1970. time.Time's Unix and
// Nanosecond accessors give a proleptic-Gregorian,
// platform-independent conversion that round-trips correctly for dates
// before 1970 and after 2038 on every host.
func millisSinceEpoch(t time.Time) int64 {
	sec := t.Unix()
	nsec := int64(t.Nanosecond())
	return sec*1000 + nsec/1_000_000
}

// timeFromMillis is the inverse of millisSinceEpoch.
func timeFromMillis(millis int64) time.Time {
	sec := millis / 1000
	rem := millis % 1000
	if rem < 0 {
		rem += 1000
		sec--
	}
	return time.Unix(sec, rem*1_000_000).UTC()
}
