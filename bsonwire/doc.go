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

import "strconv"

// Document is an ordered string-keyed mapping. Order is insertion order
// except that encode hoists a top-level "_id" key first (see
// EncodeDocument in encode.go); Document itself never reorders on Set.
type Document struct {
	keys  []string
	vals  []Value
	index map[string]int
}

// NewDocument returns an empty, ready-to-use Document.
func NewDocument() *Document {
	return &Document{}
}

// D is a convenience constructor for building a literal document from
// alternating key/value pairs, e.g. bsonwire.D("a", bsonwire.Int32Value(1)).
// It panics if args has an odd length or a non-string key, which is a
// programmer error, not a runtime one.
func D(kv ...interface{}) *Document {
	if len(kv)%2 != 0 {
		panic("bsonwire: D requires an even number of arguments")
	}
	doc := NewDocument()
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic("bsonwire: D keys must be strings")
		}
		val, ok := kv[i+1].(Value)
		if !ok {
			panic("bsonwire: D values must be bsonwire.Value")
		}
		doc.Set(key, val)
	}
	return doc
}

// NewArray builds an ArrayValue from positional values, assigning keys
// "0", "1", … in order.
func NewArray(vals ...Value) ArrayValue {
	doc := NewDocument()
	for i, v := range vals {
		doc.Set(strconv.Itoa(i), v)
	}
	return ArrayValue{Doc: doc}
}

func (d *Document) ensureIndex() {
	if d.index != nil {
		return
	}
	d.index = make(map[string]int, len(d.keys))
	for i, k := range d.keys {
		d.index[k] = i
	}
}

// Set assigns key to v. If key already exists, its value is overwritten in
// place and insertion order is unchanged; otherwise key is appended.
func (d *Document) Set(key string, v Value) *Document {
	d.ensureIndex()
	if i, ok := d.index[key]; ok {
		d.vals[i] = v
		return d
	}
	d.index[key] = len(d.keys)
	d.keys = append(d.keys, key)
	d.vals = append(d.vals, v)
	return d
}

// Get returns the value for key and whether it was present.
func (d *Document) Get(key string) (Value, bool) {
	if d == nil {
		return nil, false
	}
	d.ensureIndex()
	i, ok := d.index[key]
	if !ok {
		return nil, false
	}
	return d.vals[i], true
}

// Has reports whether key is present.
func (d *Document) Has(key string) bool {
	_, ok := d.Get(key)
	return ok
}

// Len returns the number of key/value pairs.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// Keys returns the document's keys in insertion order. The returned slice
// must not be mutated.
func (d *Document) Keys() []string {
	if d == nil {
		return nil
	}
	return d.keys
}

// Pair is one key/value entry, returned by Pairs for ordered iteration.
type Pair struct {
	Key   string
	Value Value
}

// Pairs returns the document's entries in insertion order.
func (d *Document) Pairs() []Pair {
	if d == nil {
		return nil
	}
	out := make([]Pair, len(d.keys))
	for i, k := range d.keys {
		out[i] = Pair{Key: k, Value: d.vals[i]}
	}
	return out
}

// Range calls fn for each entry in insertion order, stopping early if fn
// returns false.
func (d *Document) Range(fn func(key string, v Value) bool) {
	if d == nil {
		return
	}
	for i, k := range d.keys {
		if !fn(k, d.vals[i]) {
			return
		}
	}
}

// AsMap copies the document's entries into a plain map[string]Value for
// callers that need unordered, key-addressed access and don't care about
// insertion order. The returned map shares no state with d: mutating it
// does not affect d, and later Sets on d are not reflected in it.
func (d *Document) AsMap() map[string]Value {
	if d == nil {
		return map[string]Value{}
	}
	out := make(map[string]Value, len(d.keys))
	for i, k := range d.keys {
		out[k] = d.vals[i]
	}
	return out
}
