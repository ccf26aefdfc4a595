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

func TestSpanCache_DecodeStillCorrectWhenEnabled(t *testing.T) {
	SetSpanCache(true)
	defer SetSpanCache(false)

	doc := D("s", StringValue("hello"), "b", BinaryValue{Subtype: BinaryGeneric, Data: []byte("raw")})
	b, err := EncodeDocument(doc, true)
	require.NoError(t, err)

	decoded, _, err := DecodeOne(b, DecodeOptions{})
	require.NoError(t, err)
	s, _ := decoded.Get("s")
	assert.Equal(t, StringValue("hello"), s)
	bv, ok := decoded.Get("b")
	require.True(t, ok)
	assert.Equal(t, []byte("raw"), bv.(BinaryValue).Data)
}
