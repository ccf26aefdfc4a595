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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDatetimeValue_PreEpochBoundary(t *testing.T) {
	tm := time.Date(1969, time.December, 31, 23, 59, 59, 500_000_000, time.UTC)
	dv := NewDatetimeValue(tm)
	assert.Equal(t, int64(-500), dv.Millis)
	assert.True(t, tm.Equal(dv.Time()))
}

func TestDatetimeValue_Epoch(t *testing.T) {
	dv := NewDatetimeValue(time.Unix(0, 0).UTC())
	assert.Equal(t, int64(0), dv.Millis)
}

func TestDatetimeValue_TruncatesSubMillisecond(t *testing.T) {
	tm := time.Date(2024, time.March, 1, 12, 0, 0, 1_999_999, time.UTC)
	dv := NewDatetimeValue(tm)
	assert.Equal(t, tm.UnixMilli(), dv.Millis)
}

func TestDatetimeValue_RoundTripsThroughDocument(t *testing.T) {
	tm := time.Date(2030, time.June, 15, 8, 30, 0, 0, time.UTC)
	doc := D("d", NewDatetimeValue(tm))
	b, err := EncodeDocument(doc, true)
	assert.NoError(t, err)

	decoded, _, err := DecodeOne(b, DecodeOptions{TZAware: true})
	assert.NoError(t, err)
	got, ok := decoded.Get("d")
	assert.True(t, ok)
	dv, ok := got.(DatetimeValue)
	assert.True(t, ok)
	assert.True(t, tm.Equal(dv.Time()))
	assert.True(t, dv.UTC)
}
