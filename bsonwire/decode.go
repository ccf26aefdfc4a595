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
	"bytes"
	"encoding/binary"
	"math"
)

// DecodeOptions configures DecodeOne/DecodeAll.
type DecodeOptions struct {
	// TZAware controls whether decoded Datetime values are tagged UTC
	// (true) or returned naive (false).
	TZAware bool
	// Registry supplies constructors for ObjectID/Timestamp/MinKey/
	// MaxKey/Regex/UUID/other-subtype-Binary. nil means DefaultRegistry().
	Registry Registry
	// MaxDocSize, if non-zero, bounds the declared size of any document
	// (top-level or nested). Exceeding it fails with InvalidBSON
	// ("objsize too large").
	MaxDocSize int
	// MaxDepth bounds nesting; 0 means DefaultMaxDepth.
	MaxDepth int
}

func (o DecodeOptions) maxDepth() int {
	if o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

func (o DecodeOptions) registry() Registry {
	if o.Registry == nil {
		return DefaultRegistry()
	}
	return o.Registry
}

var errShortInt32 = NewCodecError(InvalidBSON, "buffer too short for int32")

// DecodeOne parses a single document from the front of b and returns it
// along with the unconsumed remainder.
func DecodeOne(b []byte, opts DecodeOptions) (*Document, []byte, error) {
	doc, n, err := decodeFramedDocument(b, opts, 0)
	if err != nil {
		return nil, nil, err
	}
	return doc, b[n:], nil
}

// DecodeAll parses every document in b in sequence, returning an error if
// any one of them fails to decode or if trailing bytes do not form a
// complete document.
func DecodeAll(b []byte, opts DecodeOptions) ([]*Document, error) {
	var docs []*Document
	for len(b) > 0 {
		doc, rest, err := DecodeOne(b, opts)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
		b = rest
	}
	return docs, nil
}

// decodeFramedDocument reads the int32 length prefix / element region /
// terminating NUL framing common to top-level documents, nested Document
// and Array values, and CodeWithScope's scope document. It returns the
// parsed document and the number of bytes consumed (== the declared size).
func decodeFramedDocument(b []byte, opts DecodeOptions, depth int) (*Document, int, error) {
	if depth > opts.maxDepth() {
		return nil, 0, NewCodecError(RecursionError, "document nesting exceeds max depth")
	}
	if len(b) < 4 {
		return nil, 0, errShortInt32
	}
	size := int(int32(binary.LittleEndian.Uint32(b)))
	if size < 5 {
		return nil, 0, NewCodecError(InvalidBSON, "declared document size too small")
	}
	if opts.MaxDocSize > 0 && size > opts.MaxDocSize {
		return nil, 0, NewCodecError(InvalidBSON, "objsize too large")
	}
	if size > len(b) {
		return nil, 0, NewCodecError(InvalidBSON, "buffer shorter than declared document size")
	}
	if b[size-1] != 0 {
		return nil, 0, NewCodecError(InvalidBSON, "document missing terminating NUL")
	}
	doc, err := decodeElements(b[4:size-1], opts, depth)
	if err != nil {
		return nil, 0, err
	}
	return doc, size, nil
}

func decodeElements(region []byte, opts DecodeOptions, depth int) (*Document, error) {
	doc := NewDocument()
	off := 0
	for off < len(region) {
		tag := region[off]
		off++
		key, n, err := readCString(region[off:])
		if err != nil {
			return nil, err
		}
		off += n

		val, n, err := readValue(Kind(tag), region[off:], opts, depth)
		if err != nil {
			return nil, err
		}
		off += n
		doc.Set(key, val)
	}
	if off != len(region) {
		return nil, NewCodecError(InvalidBSON, "element region overran its declared length")
	}
	return doc, nil
}

func readCString(b []byte) (string, int, error) {
	idx := bytes.IndexByte(b, 0)
	if idx < 0 {
		return "", 0, NewCodecError(InvalidBSON, "cstring missing NUL terminator")
	}
	return string(b[:idx]), idx + 1, nil
}

func readLengthPrefixedString(b []byte) (string, int, error) {
	if len(b) < 4 {
		return "", 0, errShortInt32
	}
	sz := int(int32(binary.LittleEndian.Uint32(b)))
	if sz < 1 {
		return "", 0, NewCodecError(InvalidBSON, "invalid string length")
	}
	total := 4 + sz
	if total > len(b) {
		return "", 0, NewCodecError(InvalidBSON, "buffer too short for string")
	}
	if b[total-1] != 0 {
		return "", 0, NewCodecError(InvalidBSON, "string missing terminating NUL")
	}
	return spanString(b[4 : total-1]), total, nil
}

func readValue(kind Kind, b []byte, opts DecodeOptions, depth int) (Value, int, error) {
	switch kind {
	case KindDouble:
		if len(b) < 8 {
			return nil, 0, NewCodecError(InvalidBSON, "buffer too short for double")
		}
		return DoubleValue(math.Float64frombits(binary.LittleEndian.Uint64(b))), 8, nil

	case KindString:
		s, n, err := readLengthPrefixedString(b)
		if err != nil {
			return nil, 0, err
		}
		return StringValue(s), n, nil

	case KindJSCode:
		s, n, err := readLengthPrefixedString(b)
		if err != nil {
			return nil, 0, err
		}
		return JSCodeValue(s), n, nil

	case KindSymbol:
		s, n, err := readLengthPrefixedString(b)
		if err != nil {
			return nil, 0, err
		}
		return SymbolValue(s), n, nil

	case KindDocument:
		doc, n, err := decodeFramedDocument(b, opts, depth+1)
		if err != nil {
			return nil, 0, err
		}
		if v, ok, err := dbRefFromDocument(doc, opts); ok {
			if err != nil {
				return nil, 0, err
			}
			return v, n, nil
		}
		return DocumentValue{Doc: doc}, n, nil

	case KindArray:
		doc, n, err := decodeFramedDocument(b, opts, depth+1)
		if err != nil {
			return nil, 0, err
		}
		return ArrayValue{Doc: doc}, n, nil

	case KindBinary:
		return readBinary(b, opts)

	case KindObjectID:
		if len(b) < 12 {
			return nil, 0, NewCodecError(InvalidBSON, "buffer too short for ObjectID")
		}
		var id [12]byte
		copy(id[:], b[:12])
		v, err := opts.registry().ObjectID(id)
		if err != nil {
			return nil, 0, err
		}
		return v, 12, nil

	case KindBool:
		if len(b) < 1 {
			return nil, 0, NewCodecError(InvalidBSON, "buffer too short for bool")
		}
		if b[0] != 0 && b[0] != 1 {
			return nil, 0, NewCodecError(InvalidBSON, "invalid bool byte")
		}
		return BoolValue(b[0] == 1), 1, nil

	case KindDatetime:
		if len(b) < 8 {
			return nil, 0, NewCodecError(InvalidBSON, "buffer too short for datetime")
		}
		millis := int64(binary.LittleEndian.Uint64(b))
		return DatetimeValue{Millis: millis, UTC: opts.TZAware}, 8, nil

	case KindNull:
		return NullValue{}, 0, nil

	case KindRegex:
		pattern, n1, err := readCString(b)
		if err != nil {
			return nil, 0, err
		}
		flags, n2, err := readCString(b[n1:])
		if err != nil {
			return nil, 0, err
		}
		mask := FlagsStringToBitmask(flags)
		compiled, err := opts.registry().RegexCompile(pattern, mask)
		if err != nil {
			return nil, 0, NewCodecErrorWithErr(InvalidBSON, "regex did not compile", err)
		}
		return RegexValue{Pattern: pattern, Flags: flags, Compiled: compiled}, n1 + n2, nil

	case KindDBRef:
		return readLegacyDBRef(b, opts)

	case KindCodeWithScope:
		return readCodeWithScope(b, opts, depth)

	case KindInt32:
		if len(b) < 4 {
			return nil, 0, NewCodecError(InvalidBSON, "buffer too short for int32")
		}
		return Int32Value(int32(binary.LittleEndian.Uint32(b))), 4, nil

	case KindTimestamp:
		if len(b) < 8 {
			return nil, 0, NewCodecError(InvalidBSON, "buffer too short for timestamp")
		}
		inc := int32(binary.LittleEndian.Uint32(b[0:4]))
		sec := int32(binary.LittleEndian.Uint32(b[4:8]))
		v, err := opts.registry().Timestamp(sec, inc)
		if err != nil {
			return nil, 0, err
		}
		return v, 8, nil

	case KindInt64:
		if len(b) < 8 {
			return nil, 0, NewCodecError(InvalidBSON, "buffer too short for int64")
		}
		return Int64Value(int64(binary.LittleEndian.Uint64(b))), 8, nil

	case KindMinKey:
		v, err := opts.registry().MinKey()
		return v, 0, err

	case KindMaxKey:
		v, err := opts.registry().MaxKey()
		return v, 0, err

	default:
		return nil, 0, NewCodecError(InvalidBSON, "no decoder for this type")
	}
}

func readBinary(b []byte, opts DecodeOptions) (Value, int, error) {
	if len(b) < 5 {
		return nil, 0, NewCodecError(InvalidBSON, "buffer too short for binary")
	}
	outerLen := int(int32(binary.LittleEndian.Uint32(b)))
	if outerLen < 0 {
		return nil, 0, NewCodecError(InvalidBSON, "invalid binary length")
	}
	subtype := b[4]
	if subtype == BinaryLegacy {
		// Binary subtype 2 quirk: doubled length.
		if outerLen < 4 || 5+outerLen > len(b) {
			return nil, 0, NewCodecError(InvalidBSON, "buffer too short for legacy binary")
		}
		innerLen := int(int32(binary.LittleEndian.Uint32(b[5:9])))
		if innerLen != outerLen-4 {
			return nil, 0, NewCodecError(InvalidBSON, "legacy binary inner/outer length mismatch")
		}
		payload := copySpan(b[9 : 9+innerLen])
		return BinaryValue{Subtype: subtype, Data: payload}, 5 + outerLen, nil
	}

	if 5+outerLen > len(b) {
		return nil, 0, NewCodecError(InvalidBSON, "buffer too short for binary payload")
	}
	payload := copySpan(b[5 : 5+outerLen])
	n := 5 + outerLen

	if subtype == BinaryUUID && outerLen == 16 {
		var u [16]byte
		copy(u[:], payload)
		v, err := opts.registry().UUID(u)
		if err != nil {
			return nil, 0, err
		}
		return v, n, nil
	}
	if subtype == BinaryGeneric {
		return BinaryValue{Subtype: subtype, Data: payload}, n, nil
	}
	v, err := opts.registry().Binary(subtype, payload)
	if err != nil {
		return nil, 0, err
	}
	return v, n, nil
}

func readCodeWithScope(b []byte, opts DecodeOptions, depth int) (Value, int, error) {
	if len(b) < 4 {
		return nil, 0, errShortInt32
	}
	total := int(int32(binary.LittleEndian.Uint32(b)))
	if total < 4 || total > len(b) {
		return nil, 0, NewCodecError(InvalidBSON, "invalid code-with-scope length")
	}
	body := b[4:total]
	code, n, err := readLengthPrefixedString(body)
	if err != nil {
		return nil, 0, err
	}
	doc, n2, err := decodeFramedDocument(body[n:], opts, depth+1)
	if err != nil {
		return nil, 0, err
	}
	if 4+n+n2 != total {
		return nil, 0, NewCodecError(InvalidBSON, "code-with-scope length mismatch")
	}
	v, err := opts.registry().Code(code, doc)
	if err != nil {
		return nil, 0, err
	}
	return v, total, nil
}

// readLegacyDBRef decodes tag 0x0C. Unlike every length-prefixed string
// elsewhere in this format, the legacy driver ignores the leading int32
// entirely and reads the collection name as a plain NUL-terminated
// cstring; on well-formed data the int32 agrees with the cstring's
// length anyway. This encoder never emits tag 0x0C (DBRef is always written as tag 0x03, see
// writeDBRefAsDocument), so the int32 here exists purely for decoding
// data produced by another implementation.
func readLegacyDBRef(b []byte, opts DecodeOptions) (Value, int, error) {
	if len(b) < 4 {
		return nil, 0, errShortInt32
	}
	collection, n, err := readCString(b[4:])
	if err != nil {
		return nil, 0, err
	}
	n += 4
	if n+12 > len(b) {
		return nil, 0, NewCodecError(InvalidBSON, "buffer too short for DBRef id")
	}
	var id [12]byte
	copy(id[:], b[n:n+12])
	v, err := opts.registry().DBRef(collection, ObjectIDValue(id), "", false, nil)
	if err != nil {
		return nil, 0, err
	}
	return v, n + 12, nil
}

// dbRefFromDocument rewrites a decoded tag-03 Document payload whose first
// key is "$ref" into a DBRefValue (or a host representation via
// Registry.DBRef) built from $ref, $id, optional $db, and the remaining
// keys. The bool result reports whether doc matched the $ref-first shape;
// the error result is only meaningful when it is true.
func dbRefFromDocument(doc *Document, opts DecodeOptions) (Value, bool, error) {
	keys := doc.Keys()
	if len(keys) == 0 || keys[0] != "$ref" {
		return nil, false, nil
	}
	refVal, _ := doc.Get("$ref")
	ref, ok := refVal.(StringValue)
	if !ok {
		return nil, false, nil
	}
	idVal, _ := doc.Get("$id")

	extra := NewDocument()
	dbVal, hasDB := doc.Get("$db")
	var db string
	if hasDB {
		if s, ok := dbVal.(StringValue); ok {
			db = string(s)
		} else {
			hasDB = false
		}
	}
	for _, p := range doc.Pairs() {
		if p.Key == "$ref" || p.Key == "$id" || p.Key == "$db" {
			continue
		}
		extra.Set(p.Key, p.Value)
	}
	if extra.Len() == 0 {
		extra = nil
	}
	v, err := opts.registry().DBRef(string(ref), idVal, db, hasDB, extra)
	if err != nil {
		return nil, true, err
	}
	return v, true, nil
}
