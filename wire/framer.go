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

// Package wire builds request packets for a document-oriented database's
// wire protocol: a length-prefixed envelope wrapping
// insert/update/query/get-more/delete/kill-cursors bodies, with an
// optional safe-mode getlasterror acknowledgement appended as a second
// packet under the same request id.
package wire

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"sync/atomic"

	"github.com/bsonwire/bsonwire/bsonwire"
	"github.com/bsonwire/bsonwire/growbuf"
)

// Framer builds request packets. It holds no shared mutable state besides
// its id source, so a *Framer may be used concurrently across goroutines
// exactly like the codec it wraps.
type Framer struct {
	idSource func() int32
}

// NewFramer returns a Framer. A nil idSource installs the package default:
// an atomic counter seeded from crypto/rand at process start (see
// DESIGN.md's discussion of request id uniqueness). Callers needing
// reproducible ids (e.g. tests) should pass their own.
func NewFramer(idSource func() int32) *Framer {
	if idSource == nil {
		idSource = defaultIDSource
	}
	return &Framer{idSource: idSource}
}

var requestIDCounter int32

func init() {
	var seed [4]byte
	if _, err := cryptorand.Read(seed[:]); err == nil {
		requestIDCounter = int32(binary.LittleEndian.Uint32(seed[:]))
	}
}

func defaultIDSource() int32 {
	return atomic.AddInt32(&requestIDCounter, 1)
}

// Insert builds an insert packet (opcode 2002). An empty docs slice fails
// with InvalidOperation: "cannot do an empty bulk insert".
func (f *Framer) Insert(collection string, docs []*bsonwire.Document, checkKeys, safe bool, lastErrorOpts *bsonwire.Document) (requestID int32, buf []byte, maxDocSize int, err error) {
	if len(docs) == 0 {
		return 0, nil, 0, bsonwire.NewCodecError(bsonwire.InvalidOperation, "cannot do an empty bulk insert")
	}

	gb := growbuf.New()
	defer gb.Free()
	requestID = f.idSource()

	err = writePacket(gb, requestID, opInsert, func(b *growbuf.Buffer) error {
		if err := writeInt32(b, 0); err != nil {
			return err
		}
		if err := writeCString(b, collection); err != nil {
			return err
		}
		for _, doc := range docs {
			encoded, err := bsonwire.EncodeDocument(doc, checkKeys)
			if err != nil {
				return err
			}
			if len(encoded) > maxDocSize {
				maxDocSize = len(encoded)
			}
			if err := b.Write(encoded); err != nil {
				return wrapBufErr(err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, nil, 0, err
	}
	if safe {
		if err = appendGetLastError(gb, requestID, lastErrorOpts); err != nil {
			return 0, nil, 0, err
		}
	}
	return requestID, cloneBytes(gb), maxDocSize, nil
}

// Update builds an update packet (opcode 2001). Neither selector nor
// update is key-checked for this operation.
func (f *Framer) Update(collection string, upsert, multi bool, selector, update *bsonwire.Document, safe bool, lastErrorOpts *bsonwire.Document) (requestID int32, buf []byte, maxDocSize int, err error) {
	gb := growbuf.New()
	defer gb.Free()
	requestID = f.idSource()

	err = writePacket(gb, requestID, opUpdate, func(b *growbuf.Buffer) error {
		if err := writeInt32(b, 0); err != nil { // reserved
			return err
		}
		if err := writeCString(b, collection); err != nil {
			return err
		}
		var flags int32
		if upsert {
			flags |= int32(UpdateUpsert)
		}
		if multi {
			flags |= int32(UpdateMulti)
		}
		if err := writeInt32(b, flags); err != nil {
			return err
		}
		encSelector, err := bsonwire.EncodeDocument(selector, false)
		if err != nil {
			return err
		}
		if len(encSelector) > maxDocSize {
			maxDocSize = len(encSelector)
		}
		if err := b.Write(encSelector); err != nil {
			return wrapBufErr(err)
		}
		encUpdate, err := bsonwire.EncodeDocument(update, false)
		if err != nil {
			return err
		}
		if len(encUpdate) > maxDocSize {
			maxDocSize = len(encUpdate)
		}
		return wrapBufErr(b.Write(encUpdate))
	})
	if err != nil {
		return 0, nil, 0, err
	}
	if safe {
		if err = appendGetLastError(gb, requestID, lastErrorOpts); err != nil {
			return 0, nil, 0, err
		}
	}
	return requestID, cloneBytes(gb), maxDocSize, nil
}

// Query builds a query packet (opcode 2004). fieldSelector may be nil, in
// which case it is omitted entirely, not encoded as an empty document.
func (f *Framer) Query(options QueryFlags, collection string, skip, numToReturn int32, query *bsonwire.Document, fieldSelector *bsonwire.Document) (requestID int32, buf []byte, maxDocSize int, err error) {
	gb := growbuf.New()
	defer gb.Free()
	requestID = f.idSource()

	err = writePacket(gb, requestID, opQuery, func(b *growbuf.Buffer) error {
		if err := writeInt32(b, int32(options)); err != nil {
			return err
		}
		if err := writeCString(b, collection); err != nil {
			return err
		}
		if err := writeInt32(b, skip); err != nil {
			return err
		}
		if err := writeInt32(b, numToReturn); err != nil {
			return err
		}
		encQuery, err := bsonwire.EncodeDocument(query, false)
		if err != nil {
			return err
		}
		maxDocSize = len(encQuery)
		if err := b.Write(encQuery); err != nil {
			return wrapBufErr(err)
		}
		if fieldSelector == nil {
			return nil
		}
		encSel, err := bsonwire.EncodeDocument(fieldSelector, false)
		if err != nil {
			return err
		}
		if len(encSel) > maxDocSize {
			maxDocSize = len(encSel)
		}
		return wrapBufErr(b.Write(encSel))
	})
	if err != nil {
		return 0, nil, 0, err
	}
	return requestID, cloneBytes(gb), maxDocSize, nil
}

// GetMore builds a get_more packet (opcode 2005). There is no safe-mode
// variant of get_more.
func (f *Framer) GetMore(collection string, numToReturn int32, cursorID int64) (requestID int32, buf []byte, err error) {
	gb := growbuf.New()
	defer gb.Free()
	requestID = f.idSource()

	err = writePacket(gb, requestID, opGetMore, func(b *growbuf.Buffer) error {
		if err := writeInt32(b, 0); err != nil {
			return err
		}
		if err := writeCString(b, collection); err != nil {
			return err
		}
		if err := writeInt32(b, numToReturn); err != nil {
			return err
		}
		return writeInt64(b, cursorID)
	})
	if err != nil {
		return 0, nil, err
	}
	return requestID, cloneBytes(gb), nil
}

// Delete builds a delete packet (opcode 2006). Unlike Insert, an empty
// selector is legal: "delete everything in the collection" is a normal
// operation, not an error.
func (f *Framer) Delete(collection string, flags DeleteFlags, selector *bsonwire.Document, safe bool, lastErrorOpts *bsonwire.Document) (requestID int32, buf []byte, maxDocSize int, err error) {
	gb := growbuf.New()
	defer gb.Free()
	requestID = f.idSource()

	err = writePacket(gb, requestID, opDelete, func(b *growbuf.Buffer) error {
		if err := writeInt32(b, 0); err != nil {
			return err
		}
		if err := writeCString(b, collection); err != nil {
			return err
		}
		if err := writeInt32(b, int32(flags)); err != nil {
			return err
		}
		encoded, err := bsonwire.EncodeDocument(selector, false)
		if err != nil {
			return err
		}
		maxDocSize = len(encoded)
		return wrapBufErr(b.Write(encoded))
	})
	if err != nil {
		return 0, nil, 0, err
	}
	if safe {
		if err = appendGetLastError(gb, requestID, lastErrorOpts); err != nil {
			return 0, nil, 0, err
		}
	}
	return requestID, cloneBytes(gb), maxDocSize, nil
}

// KillCursors builds a kill_cursors packet (opcode 2007). It never carries
// a safe-mode acknowledgement; an empty cursorIDs slice is legal.
func (f *Framer) KillCursors(cursorIDs []int64) (requestID int32, buf []byte, err error) {
	gb := growbuf.New()
	defer gb.Free()
	requestID = f.idSource()

	err = writePacket(gb, requestID, opKillCursor, func(b *growbuf.Buffer) error {
		if err := writeInt32(b, 0); err != nil {
			return err
		}
		if err := writeInt32(b, int32(len(cursorIDs))); err != nil {
			return err
		}
		for _, id := range cursorIDs {
			if err := writeInt64(b, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, nil, err
	}
	return requestID, cloneBytes(gb), nil
}

// appendGetLastError appends the safe-mode acknowledgement packet: a query
// against admin.$cmd, limit -1, carrying {"getlasterror": 1, ...opts},
// sharing requestID with the packet already in buf.
func appendGetLastError(gb *growbuf.Buffer, requestID int32, lastErrorOpts *bsonwire.Document) error {
	return writePacket(gb, requestID, opQuery, func(b *growbuf.Buffer) error {
		if err := writeInt32(b, 0); err != nil { // options
			return err
		}
		if err := writeCString(b, "admin.$cmd"); err != nil {
			return err
		}
		if err := writeInt32(b, 0); err != nil { // numToSkip
			return err
		}
		if err := writeInt32(b, -1); err != nil { // numToReturn (limit)
			return err
		}
		doc := bsonwire.NewDocument()
		doc.Set("getlasterror", bsonwire.Int32Value(1))
		if lastErrorOpts != nil {
			for _, p := range lastErrorOpts.Pairs() {
				doc.Set(p.Key, p.Value)
			}
		}
		encoded, err := bsonwire.EncodeDocument(doc, false)
		if err != nil {
			return err
		}
		return wrapBufErr(b.Write(encoded))
	})
}

// writePacket reserves the [totalLength][requestId][responseTo=0][opCode]
// envelope, runs body to fill in the payload, then patches the length
// field once the final size is known — the same reserve-then-patch shape
// growbuf.Buffer exists for.
func writePacket(gb *growbuf.Buffer, requestID int32, code opCode, body func(*growbuf.Buffer) error) error {
	start := gb.Position()
	lenOff, err := gb.Reserve(4)
	if err != nil {
		return wrapBufErr(err)
	}
	if err := writeInt32(gb, requestID); err != nil {
		return err
	}
	if err := writeInt32(gb, 0); err != nil { // responseTo
		return err
	}
	if err := writeInt32(gb, int32(code)); err != nil {
		return err
	}
	if err := body(gb); err != nil {
		return err
	}
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(gb.Position()-start))
	gb.Patch(lenOff, lenBuf[:])
	return nil
}

func writeCString(buf *growbuf.Buffer, s string) error {
	if err := buf.Write([]byte(s)); err != nil {
		return wrapBufErr(err)
	}
	return wrapBufErr(buf.WriteByte(0))
}

func writeInt32(buf *growbuf.Buffer, v int32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	return wrapBufErr(buf.Write(b[:]))
}

func writeInt64(buf *growbuf.Buffer, v int64) error {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	return wrapBufErr(buf.Write(b[:]))
}

func cloneBytes(buf *growbuf.Buffer) []byte {
	out := make([]byte, buf.Position())
	copy(out, buf.Bytes())
	return out
}

func wrapBufErr(err error) error {
	if err == nil {
		return nil
	}
	return bsonwire.NewCodecErrorWithErr(bsonwire.OutOfMemory, "wire buffer write failed", err)
}
