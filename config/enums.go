package config

import (
	"github.com/graphwire/boltbind/errors"
	"github.com/graphwire/boltbind/internal/engine"
)

// Scheme selects how the connector resolves servers.
type Scheme uint8

const (
	SchemeDirect Scheme = iota
	SchemeRouting
	SchemeNeo4j

	// SchemeUnknown is the decode fallback for engine codes newer than
	// this binding. It cannot be used as an input.
	SchemeUnknown
)

var schemeNames = [...]string{
	SchemeDirect:  "direct",
	SchemeRouting: "routing",
	SchemeNeo4j:   "neo4j",
	SchemeUnknown: "unknown",
}

func (s Scheme) String() string {
	if int(s) < len(schemeNames) {
		return schemeNames[s]
	}
	return "unknown"
}

func (s Scheme) engineCode() int32 {
	switch s {
	case SchemeDirect:
		return engine.SchemeDirect
	case SchemeRouting:
		return engine.SchemeRouting
	case SchemeNeo4j:
		return engine.SchemeNeo4j
	default:
		errors.Violate(errors.InvalidEnum("scheme", s.String()))
		return 0
	}
}

func schemeFromEngine(code int32) Scheme {
	switch code {
	case engine.SchemeDirect:
		return SchemeDirect
	case engine.SchemeRouting:
		return SchemeRouting
	case engine.SchemeNeo4j:
		return SchemeNeo4j
	default:
		return SchemeUnknown
	}
}

// Transport selects the socket-level encryption mode.
type Transport uint8

const (
	TransportPlaintext Transport = iota
	TransportEncrypted

	// TransportUnknown is the decode fallback; input use fails fast.
	TransportUnknown
)

var transportNames = [...]string{
	TransportPlaintext: "plaintext",
	TransportEncrypted: "encrypted",
	TransportUnknown:   "unknown",
}

func (t Transport) String() string {
	if int(t) < len(transportNames) {
		return transportNames[t]
	}
	return "unknown"
}

func (t Transport) engineCode() int32 {
	switch t {
	case TransportPlaintext:
		return engine.TransportPlaintext
	case TransportEncrypted:
		return engine.TransportEncrypted
	default:
		errors.Violate(errors.InvalidEnum("transport", t.String()))
		return 0
	}
}

func transportFromEngine(code int32) Transport {
	switch code {
	case engine.TransportPlaintext:
		return TransportPlaintext
	case engine.TransportEncrypted:
		return TransportEncrypted
	default:
		return TransportUnknown
	}
}
