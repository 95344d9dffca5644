// Package boltbind is an ownership-checked binding layer over a native
// Bolt graph-database protocol engine.
//
// The engine does all the real work (networking, TLS, wire encoding,
// connection pooling) and is reached only through opaque handles. What
// this module adds is the discipline around those handles: every one
// has exactly one owning variable, release runs exactly once (a second
// Close is a detectable no-op, never a double free), transfers consume
// their source, and borrowed views can never outlive their parent
// undetected.
//
// # Architecture Overview
//
//	boltbind/           Process guard, Address, Auth, Connector
//	├── value/          Tagged wire values and the copy-based bridge to Go
//	├── config/         Config and Trust builders plus the borrowed TrustView
//	├── errors/         Structured errors shared by every layer
//	└── internal/engine Handle tables and records modeling the engine ABI
//
// # Quick Start
//
// Obtain the process guard, build the handles, compose a connector:
//
//	bolt, ok := boltbind.Init()
//	if !ok {
//	    log.Fatal("engine already initialized")
//	}
//	defer bolt.Close()
//
//	addr, err := boltbind.NewAddress("localhost", "7687")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer addr.Close()
//
//	auth, err := boltbind.BasicAuth("neo4j", "secret", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer auth.Close()
//
//	cfg := config.New().
//	    WithScheme(config.SchemeDirect).
//	    WithTransport(config.TransportEncrypted).
//	    WithTrust(config.NewTrust().WithVerifyHostname(false).Finish()).
//	    Finish()
//	defer cfg.Close()
//
//	conn := bolt.CreateConnector(addr, auth, cfg)
//	defer conn.Close()
//
// # Values
//
// Wire data crosses the boundary as tagged Values. Containers copy on
// the way in and on the way out, so every Value is independently owned:
//
//	label, _ := value.FromString("Person")
//	count := value.FromInt(42)
//
//	fields := value.FromList([]*value.Value{label, count})
//	defer fields.Close()
//	defer label.Close() // sources stay valid and stay yours
//	defer count.Close()
//
// Typed accessors fail fast when the tag disagrees; they never coerce.
package boltbind
