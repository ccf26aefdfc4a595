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

// Kind identifies a Value's wire tag. The numeric values are part of the
// on-wire contract and must never change.
type Kind uint8

const (
	KindDouble        Kind = 0x01
	KindString        Kind = 0x02
	KindDocument      Kind = 0x03
	KindArray         Kind = 0x04
	KindBinary        Kind = 0x05
	KindObjectID      Kind = 0x07
	KindBool          Kind = 0x08
	KindDatetime      Kind = 0x09
	KindNull          Kind = 0x0A
	KindRegex         Kind = 0x0B
	KindDBRef         Kind = 0x0C
	KindJSCode        Kind = 0x0D
	KindSymbol        Kind = 0x0E
	KindCodeWithScope Kind = 0x0F
	KindInt32         Kind = 0x10
	KindTimestamp     Kind = 0x11
	KindInt64         Kind = 0x12
	KindMaxKey        Kind = 0x7F
	KindMinKey        Kind = 0xFF
)

// Binary subtypes.
const (
	BinaryGeneric byte = 0x00
	BinaryLegacy  byte = 0x02
	BinaryUUID    byte = 0x03
)

func (k Kind) String() string {
	switch k {
	case KindDouble:
		return "Double"
	case KindString:
		return "String"
	case KindDocument:
		return "Document"
	case KindArray:
		return "Array"
	case KindBinary:
		return "Binary"
	case KindObjectID:
		return "ObjectID"
	case KindBool:
		return "Bool"
	case KindDatetime:
		return "Datetime"
	case KindNull:
		return "Null"
	case KindRegex:
		return "Regex"
	case KindDBRef:
		return "DBRef"
	case KindJSCode:
		return "JSCode"
	case KindSymbol:
		return "Symbol"
	case KindCodeWithScope:
		return "CodeWithScope"
	case KindInt32:
		return "Int32"
	case KindTimestamp:
		return "Timestamp"
	case KindInt64:
		return "Int64"
	case KindMaxKey:
		return "MaxKey"
	case KindMinKey:
		return "MinKey"
	default:
		return "Unknown"
	}
}
