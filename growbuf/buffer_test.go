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

package growbuf

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffer_WriteAndPosition(t *testing.T) {
	buf := New()
	require.NoError(t, buf.Write([]byte("hello")))
	assert.Equal(t, 5, buf.Position())
	assert.Equal(t, []byte("hello"), buf.Bytes())

	require.NoError(t, buf.WriteByte('!'))
	assert.Equal(t, []byte("hello!"), buf.Bytes())
}

func TestBuffer_ReserveAndPatch(t *testing.T) {
	buf := New()

	lenOff, err := buf.Reserve(4)
	require.NoError(t, err)
	require.NoError(t, buf.Write([]byte("payload")))

	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(buf.Position()))
	buf.Patch(lenOff, lenBuf[:])

	got := binary.LittleEndian.Uint32(buf.Bytes()[:4])
	assert.EqualValues(t, buf.Position(), got)
	assert.Equal(t, "payload", string(buf.Bytes()[4:]))
}

func TestBuffer_PatchOutOfRangePanics(t *testing.T) {
	buf := New()
	require.NoError(t, buf.Write([]byte("ab")))
	assert.PanicsWithValue(t, ErrOffsetOutOfRange, func() {
		buf.Patch(1, []byte("xyz"))
	})
}

func TestBuffer_GrowsAcrossManyWrites(t *testing.T) {
	buf := New()
	// force multiple grow() calls past defaultCap
	chunk := make([]byte, 64)
	for i := range chunk {
		chunk[i] = byte(i)
	}
	for i := 0; i < 100; i++ {
		require.NoError(t, buf.Write(chunk))
	}
	assert.Equal(t, 6400, buf.Position())
	// bytes written early in the buffer must survive many subsequent
	// grows intact.
	assert.Equal(t, chunk, buf.Bytes()[:64])
	assert.Equal(t, chunk, buf.Bytes()[6336:6400])
}

func TestBuffer_Free(t *testing.T) {
	buf := New()
	require.NoError(t, buf.Write([]byte("x")))
	buf.Free()
	assert.Nil(t, buf.Bytes())
}
