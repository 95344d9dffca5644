// Package engine models the native Bolt protocol engine the binding
// wraps: process lifecycle, opaque handle allocation, the tagged value
// cells the wire protocol marshals, and the config/trust/address/
// connector records.
//
// The package deliberately keeps the shape of the native library's C
// surface: objects live behind numeric handles, values are mutable
// tagged cells re-formatted in place, container slots are reached
// through non-owning interior handles, and strings cross the boundary
// as byte buffers with authoritative lengths. Everything above this
// package (the exported value, config, and root packages) adds the
// ownership discipline; nothing above it touches cells or records
// directly.
//
// Actual networking, TLS, and wire encoding belong to the engine proper
// and are out of scope here; the connector is composition only.
package engine
