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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeOne_TooShortForLengthPrefix(t *testing.T) {
	_, _, err := DecodeOne([]byte{0x01, 0x00}, DecodeOptions{})
	require.Error(t, err)
	var ce *CodecError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, InvalidBSON, ce.Kind)
}

func TestDecodeOne_MissingTerminatingNUL(t *testing.T) {
	b := []byte{0x05, 0x00, 0x00, 0x00, 0x01} // declared size 5 but last byte isn't 0
	_, _, err := DecodeOne(b, DecodeOptions{})
	require.Error(t, err)
}

func TestDecodeOne_DeclaredSizeLongerThanBuffer(t *testing.T) {
	b := []byte{0xFF, 0x00, 0x00, 0x00, 0x00}
	_, _, err := DecodeOne(b, DecodeOptions{})
	require.Error(t, err)
}

func TestDecodeOne_MaxDocSizeExceeded(t *testing.T) {
	doc := D("a", StringValue("this is a somewhat long string value"))
	b, err := EncodeDocument(doc, true)
	require.NoError(t, err)

	_, _, err = DecodeOne(b, DecodeOptions{MaxDocSize: 4})
	require.Error(t, err)
	var ce *CodecError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, InvalidBSON, ce.Kind)
}

func TestDecodeOne_ElementRegionOverrun(t *testing.T) {
	// A document declaring size 6 whose one-byte element region holds
	// only a Double tag, with no room for its key or payload, must fail
	// cleanly rather than read out of bounds.
	b := []byte{0x06, 0x00, 0x00, 0x00, 0x01, 0x00}
	_, _, err := DecodeOne(b, DecodeOptions{})
	require.Error(t, err)
}

func TestDecodeOne_UnrecognizedTag(t *testing.T) {
	// tag 0x99 "a\x00" then terminator, framed as an 8-byte document.
	b := []byte{0x08, 0x00, 0x00, 0x00, 0x99, 'a', 0x00, 0x00}
	_, _, err := DecodeOne(b, DecodeOptions{})
	require.Error(t, err)
}

func TestValidateCString_RejectsEmbeddedNUL(t *testing.T) {
	doc := NewDocument()
	doc.Set("a\x00b", Int32Value(1))
	_, err := EncodeDocument(doc, true)
	require.Error(t, err)
	var ce *CodecError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, InvalidDocument, ce.Kind)
}

func TestValidateLengthPrefixedString_PermitsEmbeddedNUL(t *testing.T) {
	doc := D("s", StringValue("a\x00b"))
	b, err := EncodeDocument(doc, true)
	require.NoError(t, err)

	decoded, _, err := DecodeOne(b, DecodeOptions{})
	require.NoError(t, err)
	got, _ := decoded.Get("s")
	assert.Equal(t, StringValue("a\x00b"), got)
}

func TestDecodeOne_CodeWithScopeRoundTrips(t *testing.T) {
	scope := D("x", Int32Value(42))
	doc := D("f", CodeWithScopeValue{Code: "function() { return x; }", Scope: scope})
	b, err := EncodeDocument(doc, true)
	require.NoError(t, err)

	decoded, _, err := DecodeOne(b, DecodeOptions{})
	require.NoError(t, err)
	got, ok := decoded.Get("f")
	require.True(t, ok)
	cws, ok := got.(CodeWithScopeValue)
	require.True(t, ok)
	assert.Equal(t, "function() { return x; }", cws.Code)
	v, _ := cws.Scope.Get("x")
	assert.Equal(t, Int32Value(42), v)
}

func TestDecodeOne_ObjectIDRoundTrips(t *testing.T) {
	var id ObjectIDValue
	for i := range id {
		id[i] = byte(i + 1)
	}
	doc := D("_id", id)
	b, err := EncodeDocument(doc, true)
	require.NoError(t, err)

	decoded, _, err := DecodeOne(b, DecodeOptions{})
	require.NoError(t, err)
	got, _ := decoded.Get("_id")
	assert.Equal(t, id, got)
}

func TestDecodeOne_TimestampRoundTrips(t *testing.T) {
	doc := D("ts", TimestampValue{Seconds: 1000, Increment: 7})
	b, err := EncodeDocument(doc, true)
	require.NoError(t, err)

	decoded, _, err := DecodeOne(b, DecodeOptions{})
	require.NoError(t, err)
	got, _ := decoded.Get("ts")
	assert.Equal(t, TimestampValue{Seconds: 1000, Increment: 7}, got)
}

func TestDecodeOne_MinMaxKeyRoundTrip(t *testing.T) {
	doc := D("lo", MinKeyValue{}, "hi", MaxKeyValue{})
	b, err := EncodeDocument(doc, true)
	require.NoError(t, err)

	decoded, _, err := DecodeOne(b, DecodeOptions{})
	require.NoError(t, err)
	lo, _ := decoded.Get("lo")
	hi, _ := decoded.Get("hi")
	assert.Equal(t, MinKeyValue{}, lo)
	assert.Equal(t, MaxKeyValue{}, hi)
}

func TestDecodeOne_LegacyDBRefTag(t *testing.T) {
	var id [12]byte
	for i := range id {
		id[i] = byte(i)
	}

	// Build by hand: total length (4) + tag (1) + key "r\x00" (2) +
	// ignored int32 (4) + "things\x00" (7) + id (12) + terminator (1) = 31.
	// The leading int32 is decode-ignored (readLegacyDBRef reads the
	// collection name as a plain cstring), so its value here is
	// arbitrary; it is set to 7 only to mirror what a length-prefixed
	// encoder would have written, not because decode uses it.
	const total = 31
	buf := make([]byte, total)
	buf[0] = byte(total)
	buf[4] = 0x0C
	buf[5] = 'r'
	buf[6] = 0x00
	buf[7] = 7 // "things\x00" length, incl NUL
	copy(buf[11:17], "things")
	buf[17] = 0x00
	copy(buf[18:30], id[:])
	buf[30] = 0x00

	decoded, rest, err := DecodeOne(buf, DecodeOptions{})
	require.NoError(t, err)
	assert.Empty(t, rest)
	got, ok := decoded.Get("r")
	require.True(t, ok)
	ref, ok := got.(DBRefValue)
	require.True(t, ok)
	assert.Equal(t, "things", ref.Collection)
	assert.Equal(t, ObjectIDValue(id), ref.ID)
}

func TestDecodeOne_LegacyDBRefTag_IgnoresLengthPrefix(t *testing.T) {
	var id [12]byte
	for i := range id {
		id[i] = byte(i)
	}

	const total = 31
	buf := make([]byte, total)
	buf[0] = byte(total)
	buf[4] = 0x0C
	buf[5] = 'r'
	buf[6] = 0x00
	// A garbage value in the ignored int32: a conforming decoder must
	// still find the collection name via its NUL terminator, not this
	// field.
	buf[7] = 0xFF
	buf[8] = 0xFF
	copy(buf[11:17], "things")
	buf[17] = 0x00
	copy(buf[18:30], id[:])
	buf[30] = 0x00

	decoded, _, err := DecodeOne(buf, DecodeOptions{})
	require.NoError(t, err)
	got, ok := decoded.Get("r")
	require.True(t, ok)
	ref, ok := got.(DBRefValue)
	require.True(t, ok)
	assert.Equal(t, "things", ref.Collection)
	assert.Equal(t, ObjectIDValue(id), ref.ID)
}
