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

// Package growbuf implements an append-only byte buffer that supports
// reserving a slot for a value that is only known once later writes have
// happened, then patching it in place. It is the single primitive the
// document codec uses to emit length-prefixed, self-describing structures
// in one forward pass.
package growbuf

import (
	"errors"
	"math/bits"

	"github.com/bytedance/gopkg/lang/dirtmake"
)

// ErrOutOfMemory is returned when the backing array cannot be grown.
// In practice Go only fails an allocation by panicking (out-of-memory
// kills the process), so this is reserved for the one case growbuf can
// detect cheaply: a caller-requested size that would overflow int.
var ErrOutOfMemory = errors.New("growbuf: out of memory")

// ErrOffsetOutOfRange is the value Patch panics with when offset does not
// lie within the already-written region of the buffer.
var ErrOffsetOutOfRange = errors.New("growbuf: patch offset out of range")

const defaultCap = 256

// Buffer is a contiguous append-only byte buffer. It is exclusively owned
// by a single encode call: create it with New, mutate it with Write and
// Reserve/Patch, consume it with Bytes, and release it with Free.
//
// Unlike bufiox.BytesWriter (which defers copies across grows so that
// slices handed out by Malloc keep pointing at live memory until Flush,
// a scheme built for zero-copy large-payload writes) growbuf copies
// immediately on every grow. That is required here: Reserve hands back an
// absolute offset, not a slice, and Patch must be able to write through
// that offset at any later point, including after the buffer has grown
// several more times. A deferred-copy scheme would leave early offsets
// pointing at a stale backing array.
type Buffer struct {
	b []byte
}

// New allocates an empty buffer.
func New() *Buffer {
	return &Buffer{b: dirtmake.Bytes(0, defaultCap)}
}

func (buf *Buffer) grow(n int) error {
	need := len(buf.b) + n
	if need < 0 { // overflow
		return ErrOutOfMemory
	}
	if need <= cap(buf.b) {
		return nil
	}
	ncap := 1 << bits.Len(uint(need-1))
	if ncap < defaultCap {
		ncap = defaultCap
	}
	nb := dirtmake.Bytes(len(buf.b), ncap)
	copy(nb, buf.b)
	buf.b = nb
	return nil
}

// Write appends p to the buffer.
func (buf *Buffer) Write(p []byte) error {
	if err := buf.grow(len(p)); err != nil {
		return err
	}
	buf.b = append(buf.b, p...)
	return nil
}

// WriteByte appends a single byte.
func (buf *Buffer) WriteByte(c byte) error {
	if err := buf.grow(1); err != nil {
		return err
	}
	buf.b = append(buf.b, c)
	return nil
}

// Reserve appends n zero bytes as a placeholder and returns the absolute
// offset of the first one. The caller is expected to overwrite that region later
// via Patch, once the value it should hold is known (e.g. a length
// prefix that depends on everything written after it).
func (buf *Buffer) Reserve(n int) (offset int, err error) {
	if err := buf.grow(n); err != nil {
		return 0, err
	}
	offset = len(buf.b)
	buf.b = buf.b[:len(buf.b)+n]
	for i := offset; i < len(buf.b); i++ {
		buf.b[i] = 0
	}
	return offset, nil
}

// Patch overwrites len(p) bytes at offset. offset..offset+len(p) must lie
// within the already-written region (callers only ever patch a slot
// returned by an earlier Reserve on the same Buffer).
func (buf *Buffer) Patch(offset int, p []byte) {
	if offset < 0 || offset+len(p) > len(buf.b) {
		panic(ErrOffsetOutOfRange)
	}
	copy(buf.b[offset:], p)
}

// Position returns the current write offset (i.e. len(Bytes())).
func (buf *Buffer) Position() int {
	return len(buf.b)
}

// Bytes returns a view of the contents written so far. The slice aliases
// the buffer's backing array and is only valid until the next Write,
// Reserve, or Free call.
func (buf *Buffer) Bytes() []byte {
	return buf.b
}

// Free releases the buffer's backing array. The Buffer must not be used
// afterwards.
func (buf *Buffer) Free() {
	buf.b = nil
}
