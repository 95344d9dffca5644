package value

import (
	"github.com/graphwire/boltbind/internal/engine"
)

// Type is the active variant discriminator of a Value.
type Type uint8

const (
	TypeNull Type = iota
	TypeBoolean
	TypeInteger
	TypeFloat
	TypeString
	TypeBytes
	TypeList
	TypeDictionary
	TypeStructure

	// TypeUnknown is the decode fallback for engine tags newer than
	// this binding. It is never a valid input tag.
	TypeUnknown
)

var typeNames = [...]string{
	TypeNull:       "null",
	TypeBoolean:    "boolean",
	TypeInteger:    "integer",
	TypeFloat:      "float",
	TypeString:     "string",
	TypeBytes:      "bytes",
	TypeList:       "list",
	TypeDictionary: "dictionary",
	TypeStructure:  "structure",
	TypeUnknown:    "unknown",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "unknown"
}

func typeFromEngine(tag uint32) Type {
	switch tag {
	case engine.TagNull:
		return TypeNull
	case engine.TagBoolean:
		return TypeBoolean
	case engine.TagInteger:
		return TypeInteger
	case engine.TagFloat:
		return TypeFloat
	case engine.TagString:
		return TypeString
	case engine.TagBytes:
		return TypeBytes
	case engine.TagList:
		return TypeList
	case engine.TagDictionary:
		return TypeDictionary
	case engine.TagStructure:
		return TypeStructure
	default:
		return TypeUnknown
	}
}
