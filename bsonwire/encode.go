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
	"encoding/binary"
	"math"

	"github.com/bsonwire/bsonwire/growbuf"
)

// DefaultMaxDepth bounds document nesting during both encode and decode.
// It is independent of the host's call-stack limit.
const DefaultMaxDepth = 100

// EncodeDocument encodes doc into a self-describing byte sequence. When
// checkKeys is true, every key is validated against the "$"-prefix and
// "."-containment rules.
func EncodeDocument(doc *Document, checkKeys bool) ([]byte, error) {
	return EncodeDocumentDepth(doc, checkKeys, DefaultMaxDepth)
}

// EncodeDocumentDepth is EncodeDocument with an explicit recursion ceiling.
func EncodeDocumentDepth(doc *Document, checkKeys bool, maxDepth int) ([]byte, error) {
	buf := growbuf.New()
	defer buf.Free()
	if err := writeDocument(buf, doc, checkKeys, true, 0, maxDepth); err != nil {
		return nil, err
	}
	out := make([]byte, buf.Position())
	copy(out, buf.Bytes())
	return out, nil
}

func writeDocument(buf *growbuf.Buffer, doc *Document, checkKeys, topLevel bool, depth, maxDepth int) error {
	if depth > maxDepth {
		return NewCodecError(RecursionError, "document nesting exceeds max depth")
	}
	if doc == nil {
		doc = NewDocument()
	}

	start := buf.Position()
	lenOff, err := buf.Reserve(4)
	if err != nil {
		return NewCodecErrorWithErr(OutOfMemory, "reserve document length", err)
	}

	wroteID := false
	if topLevel {
		if v, ok := doc.Get("_id"); ok {
			if err := writePair(buf, "_id", v, checkKeys, depth, maxDepth); err != nil {
				return err
			}
			wroteID = true
		}
	}
	for _, p := range doc.Pairs() {
		if topLevel && wroteID && p.Key == "_id" {
			continue
		}
		if err := writePair(buf, p.Key, p.Value, checkKeys, depth, maxDepth); err != nil {
			return err
		}
	}

	if err := buf.WriteByte(0); err != nil {
		return NewCodecErrorWithErr(OutOfMemory, "write document terminator", err)
	}

	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(buf.Position()-start))
	buf.Patch(lenOff, lenBuf[:])
	return nil
}

func writePair(buf *growbuf.Buffer, name string, v Value, checkKeys bool, depth, maxDepth int) error {
	if err := validateKeyName(name, checkKeys); err != nil {
		return err
	}
	tagOff, err := buf.Reserve(1)
	if err != nil {
		return NewCodecErrorWithErr(OutOfMemory, "reserve type tag", err)
	}
	if err := writeCString(buf, name, "key"); err != nil {
		return err
	}
	if err := writeValue(buf, v, checkKeys, depth, maxDepth); err != nil {
		return err
	}
	tag := v.Kind()
	if _, ok := v.(DBRefValue); ok {
		tag = KindDocument // written through its document form
	}
	buf.Patch(tagOff, []byte{byte(tag)})
	return nil
}

func writeCString(buf *growbuf.Buffer, s, what string) error {
	if err := validateCString(s, what); err != nil {
		return err
	}
	if err := buf.Write([]byte(s)); err != nil {
		return NewCodecErrorWithErr(OutOfMemory, "write "+what, err)
	}
	return buf.WriteByte(0)
}

func writeLengthPrefixedString(buf *growbuf.Buffer, s string) error {
	if err := validateLengthPrefixedString(s); err != nil {
		return err
	}
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(s)+1))
	if err := buf.Write(lenBuf[:]); err != nil {
		return NewCodecErrorWithErr(OutOfMemory, "write string length", err)
	}
	if err := buf.Write([]byte(s)); err != nil {
		return NewCodecErrorWithErr(OutOfMemory, "write string bytes", err)
	}
	return buf.WriteByte(0)
}

// writeValue dispatches on the value's concrete (already-resolved) kind
// and writes its payload. Go's type switch makes dispatch order
// immaterial to correctness since every case is a distinct type. checkKeys
// threads unchanged into nested Document/Array values so the same
// key-shape policy applies at every nesting level; CodeWithScope's scope
// and DBRef's synthetic document are always written with checkKeys false
// regardless of the caller's setting (see their doc comments).
func writeValue(buf *growbuf.Buffer, v Value, checkKeys bool, depth, maxDepth int) error {
	switch val := v.(type) {
	case BoolValue:
		b := byte(0)
		if val {
			b = 1
		}
		return wrapOOM(buf.WriteByte(b))

	case Int32Value:
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], uint32(val))
		return wrapOOM(buf.Write(b[:]))

	case Int64Value:
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], uint64(val))
		return wrapOOM(buf.Write(b[:]))

	case DoubleValue:
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], math.Float64bits(float64(val)))
		return wrapOOM(buf.Write(b[:]))

	case NullValue:
		return nil

	case DocumentValue:
		return writeDocument(buf, val.Doc, checkKeys, false, depth+1, maxDepth)

	case ArrayValue:
		return writeDocument(buf, val.Doc, checkKeys, false, depth+1, maxDepth)

	case BinaryValue:
		return writeBinary(buf, val.Subtype, val.Data)

	case UUIDValue:
		return writeBinary(buf, BinaryUUID, val[:])

	case CodeWithScopeValue:
		return writeCodeWithScope(buf, val, depth, maxDepth)

	case JSCodeValue:
		return writeLengthPrefixedString(buf, string(val))

	case StringValue:
		return writeLengthPrefixedString(buf, string(val))

	case SymbolValue:
		return writeLengthPrefixedString(buf, string(val))

	case DatetimeValue:
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], uint64(val.Millis))
		return wrapOOM(buf.Write(b[:]))

	case ObjectIDValue:
		return wrapOOM(buf.Write(val[:]))

	case DBRefValue:
		return writeDBRefAsDocument(buf, val, depth, maxDepth)

	case TimestampValue:
		var b [8]byte
		binary.LittleEndian.PutUint32(b[0:4], uint32(val.Increment))
		binary.LittleEndian.PutUint32(b[4:8], uint32(val.Seconds))
		return wrapOOM(buf.Write(b[:]))

	case RegexValue:
		if err := writeCString(buf, val.Pattern, "regex pattern"); err != nil {
			return err
		}
		return writeCString(buf, val.Flags, "regex flags")

	case MinKeyValue:
		return nil

	case MaxKeyValue:
		return nil

	default:
		return NewCodecError(CannotEncode, "unrecognized value type")
	}
}

func writeBinary(buf *growbuf.Buffer, subtype byte, data []byte) error {
	if subtype == BinaryLegacy {
		// Binary subtype 2 quirk: doubled length prefix.
		var outer, inner [4]byte
		binary.LittleEndian.PutUint32(outer[:], uint32(len(data)+4))
		binary.LittleEndian.PutUint32(inner[:], uint32(len(data)))
		if err := buf.Write(outer[:]); err != nil {
			return wrapOOM(err)
		}
		if err := buf.WriteByte(subtype); err != nil {
			return wrapOOM(err)
		}
		if err := buf.Write(inner[:]); err != nil {
			return wrapOOM(err)
		}
		return wrapOOM(buf.Write(data))
	}
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(data)))
	if err := buf.Write(lenBuf[:]); err != nil {
		return wrapOOM(err)
	}
	if err := buf.WriteByte(subtype); err != nil {
		return wrapOOM(err)
	}
	return wrapOOM(buf.Write(data))
}

// writeCodeWithScope always writes its scope document with checkKeys
// false, matching the driver's write_dict(self, buffer, scope, 0, 0): a
// code object's closure scope is never subject to the caller's key-shape
// policy.
func writeCodeWithScope(buf *growbuf.Buffer, v CodeWithScopeValue, depth, maxDepth int) error {
	lenOff, err := buf.Reserve(4)
	if err != nil {
		return wrapOOM(err)
	}
	start := buf.Position()
	if err := writeLengthPrefixedString(buf, v.Code); err != nil {
		return err
	}
	if err := writeDocument(buf, v.Scope, false, false, depth+1, maxDepth); err != nil {
		return err
	}
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(4+buf.Position()-start))
	buf.Patch(lenOff, lenBuf[:])
	return nil
}

// writeDBRefAsDocument delegates a DBRef to its document form and emits it
// as a plain tag-03 Document, always, regardless of how it was
// constructed. The synthetic document is always written with checkKeys
// false, matching the driver's write_dict(self, buffer, as_doc, 0, 0): the
// $-prefixed keys are the format's own, not user-supplied, so the
// caller's key-shape policy never applies to them.
func writeDBRefAsDocument(buf *growbuf.Buffer, ref DBRefValue, depth, maxDepth int) error {
	doc := NewDocument()
	doc.Set("$ref", StringValue(ref.Collection))
	if ref.ID != nil {
		doc.Set("$id", ref.ID)
	}
	if ref.HasDB {
		doc.Set("$db", StringValue(ref.DB))
	}
	if ref.Extra != nil {
		for _, p := range ref.Extra.Pairs() {
			doc.Set(p.Key, p.Value)
		}
	}
	return writeDocument(buf, doc, false, false, depth+1, maxDepth)
}

func wrapOOM(err error) error {
	if err == nil {
		return nil
	}
	return NewCodecErrorWithErr(OutOfMemory, "buffer write failed", err)
}
