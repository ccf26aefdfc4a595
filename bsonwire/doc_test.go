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
)

func TestDocument_SetPreservesInsertionOrderAndOverwritesInPlace(t *testing.T) {
	doc := NewDocument()
	doc.Set("b", Int32Value(1))
	doc.Set("a", Int32Value(2))
	doc.Set("b", Int32Value(3))

	assert.Equal(t, []string{"b", "a"}, doc.Keys())
	v, ok := doc.Get("b")
	assert.True(t, ok)
	assert.Equal(t, Int32Value(3), v)
}

func TestDocument_GetMissingKey(t *testing.T) {
	doc := NewDocument()
	_, ok := doc.Get("missing")
	assert.False(t, ok)
	assert.False(t, doc.Has("missing"))
}

func TestDocument_NilReceiverIsSafe(t *testing.T) {
	var doc *Document
	assert.Equal(t, 0, doc.Len())
	assert.Nil(t, doc.Keys())
	_, ok := doc.Get("x")
	assert.False(t, ok)
}

func TestDocument_RangeStopsEarly(t *testing.T) {
	doc := D("a", Int32Value(1), "b", Int32Value(2), "c", Int32Value(3))
	var seen []string
	doc.Range(func(key string, v Value) bool {
		seen = append(seen, key)
		return key != "b"
	})
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestNewArray_AssignsPositionalKeys(t *testing.T) {
	arr := NewArray(StringValue("x"), StringValue("y"))
	assert.Equal(t, []string{"0", "1"}, arr.Doc.Keys())
}

func TestD_PanicsOnOddArgs(t *testing.T) {
	assert.Panics(t, func() {
		D("a", Int32Value(1), "b")
	})
}

func TestDocument_AsMap(t *testing.T) {
	doc := D("a", Int32Value(1), "b", Int32Value(2))
	m := doc.AsMap()
	assert.Equal(t, map[string]Value{"a": Int32Value(1), "b": Int32Value(2)}, m)

	m["a"] = Int32Value(99)
	doc.Set("c", Int32Value(3))
	v, _ := doc.Get("a")
	assert.Equal(t, Int32Value(1), v, "mutating the returned map must not affect doc")
	assert.NotContains(t, m, "c", "later Sets on doc must not affect a previously taken map")
}

func TestDocument_AsMapNilReceiverIsSafe(t *testing.T) {
	var doc *Document
	assert.Equal(t, map[string]Value{}, doc.AsMap())
}
