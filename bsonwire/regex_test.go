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

func TestFlagsBitmask_RoundTripsInDefinitionOrder(t *testing.T) {
	mask := RegexVerbose | RegexCaseInsensitive | RegexMultiline
	s := FlagsBitmaskToString(mask)
	assert.Equal(t, "imx", s)
	assert.Equal(t, mask, FlagsStringToBitmask(s))
}

func TestFlagsBitmask_AllFlags(t *testing.T) {
	mask := RegexCaseInsensitive | RegexLocale | RegexMultiline | RegexDotAll | RegexUnicode | RegexVerbose
	s := FlagsBitmaskToString(mask)
	assert.Equal(t, "ilmsux", s)
	assert.Equal(t, mask, FlagsStringToBitmask(s))
}

func TestFlagsBitmask_Empty(t *testing.T) {
	assert.Equal(t, "", FlagsBitmaskToString(0))
	assert.Equal(t, uint32(0), FlagsStringToBitmask(""))
}

func TestRegexValue_RoundTripsPatternAndFlags(t *testing.T) {
	rv := NewRegexValue("^a.*z$", RegexCaseInsensitive|RegexMultiline)
	doc := D("r", rv)
	b, err := EncodeDocument(doc, true)
	require.NoError(t, err)

	decoded, _, err := DecodeOne(b, DecodeOptions{})
	require.NoError(t, err)
	got, ok := decoded.Get("r")
	require.True(t, ok)
	gotRegex, ok := got.(RegexValue)
	require.True(t, ok)
	assert.Equal(t, "^a.*z$", gotRegex.Pattern)
	assert.Equal(t, "im", gotRegex.Flags)
	require.NotNil(t, gotRegex.Compiled)
	assert.True(t, gotRegex.Compiled.MatchString("AxyzZ"))
}

func TestRegexValue_LocaleFlagDroppedFromCompiledButKeptOnWire(t *testing.T) {
	rv := NewRegexValue("abc", RegexLocale|RegexCaseInsensitive)
	doc := D("r", rv)
	b, err := EncodeDocument(doc, true)
	require.NoError(t, err)

	decoded, _, err := DecodeOne(b, DecodeOptions{})
	require.NoError(t, err)
	got, _ := decoded.Get("r")
	gotRegex := got.(RegexValue)
	assert.Equal(t, "il", gotRegex.Flags)
	require.NotNil(t, gotRegex.Compiled)
	assert.True(t, gotRegex.Compiled.MatchString("ABC"))
}
