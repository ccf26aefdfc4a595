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

package wire

// opCode identifies the kind of request packet.
type opCode int32

const (
	opUpdate     opCode = 2001
	opInsert     opCode = 2002
	opQuery      opCode = 2004
	opGetMore    opCode = 2005
	opDelete     opCode = 2006
	opKillCursor opCode = 2007
)

// QueryFlags is the int32 options field of a query packet.
type QueryFlags int32

const (
	FlagTailableCursor QueryFlags = 1 << 1
	FlagSlaveOK        QueryFlags = 1 << 2
	FlagOplogReplay    QueryFlags = 1 << 3
	FlagNoCursorTimout QueryFlags = 1 << 4
	FlagAwaitData      QueryFlags = 1 << 5
	FlagExhaust        QueryFlags = 1 << 6
	FlagPartial        QueryFlags = 1 << 7
)

// UpdateFlags is the int32 options field of an update packet.
type UpdateFlags int32

const (
	UpdateUpsert UpdateFlags = 1 << 0
	UpdateMulti  UpdateFlags = 1 << 1
)

// DeleteFlags is the int32 options field of a delete packet.
type DeleteFlags int32

const (
	DeleteSingleRemove DeleteFlags = 1 << 0
)
