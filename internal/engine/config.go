package engine

import "sync"

// Scheme and transport codes, mirroring the engine's C constants. The
// binding keeps its own enums and translates; codes the binding does
// not know decode to its Unknown fallback.
const (
	SchemeDirect int32 = iota
	SchemeRouting
	SchemeNeo4j
)

const (
	TransportPlaintext int32 = iota
	TransportEncrypted
)

// recMu guards field access on config and trust records. Records are
// reached through the handle table but mutated in place, C-style.
var recMu sync.Mutex

type trustRecord struct {
	certs          []byte
	verification   bool
	verifyHostname bool
}

// TrustCreate allocates a trust record with engine defaults:
// certificate verification on, hostname verification on, no custom
// certs.
func TrustCreate() Handle {
	return tab.create(typeTrust, &trustRecord{
		verification:   true,
		verifyHostname: true,
	})
}

// TrustDestroy frees a trust record. A trust moved into a config is
// owned by that config and refuses independent destroy.
func TrustDestroy(h Handle) bool {
	_, ok := tab.destroy(h)
	return ok
}

// TrustSetCerts replaces the PEM certificate payload. Bytes are copied;
// the stored length is authoritative, NULs included.
func TrustSetCerts(h Handle, certs []byte) bool {
	v, ok := tab.get(h, typeTrust)
	if !ok {
		return false
	}
	recMu.Lock()
	v.(*trustRecord).certs = append([]byte(nil), certs...)
	recMu.Unlock()
	return true
}

// TrustCerts copies out the certificate payload. ok is false for a
// stale handle; a valid trust with no certs yields a nil payload.
func TrustCerts(h Handle) ([]byte, bool) {
	v, ok := tab.get(h, typeTrust)
	if !ok {
		return nil, false
	}
	recMu.Lock()
	defer recMu.Unlock()
	r := v.(*trustRecord)
	if r.certs == nil {
		return nil, true
	}
	return append([]byte(nil), r.certs...), true
}

// TrustSetVerification toggles certificate verification.
func TrustSetVerification(h Handle, verify bool) bool {
	v, ok := tab.get(h, typeTrust)
	if !ok {
		return false
	}
	recMu.Lock()
	v.(*trustRecord).verification = verify
	recMu.Unlock()
	return true
}

// TrustVerification reads the certificate verification flag.
func TrustVerification(h Handle) (bool, bool) {
	v, ok := tab.get(h, typeTrust)
	if !ok {
		return false, false
	}
	recMu.Lock()
	defer recMu.Unlock()
	return v.(*trustRecord).verification, true
}

// TrustSetVerifyHostname toggles hostname verification.
func TrustSetVerifyHostname(h Handle, verify bool) bool {
	v, ok := tab.get(h, typeTrust)
	if !ok {
		return false
	}
	recMu.Lock()
	v.(*trustRecord).verifyHostname = verify
	recMu.Unlock()
	return true
}

// TrustVerifyHostname reads the hostname verification flag.
func TrustVerifyHostname(h Handle) (bool, bool) {
	v, ok := tab.get(h, typeTrust)
	if !ok {
		return false, false
	}
	recMu.Lock()
	defer recMu.Unlock()
	return v.(*trustRecord).verifyHostname, true
}

type configRecord struct {
	userAgent []byte
	trust     Handle
	scheme    int32
	transport int32
	hasAgent  bool
}

// ConfigCreate allocates a connection config with engine defaults:
// direct scheme, plaintext transport, no trust, no user agent.
func ConfigCreate() Handle {
	return tab.create(typeConfig, &configRecord{
		scheme:    SchemeDirect,
		transport: TransportPlaintext,
	})
}

// ConfigDestroy frees a config record and the trust it owns, if any.
func ConfigDestroy(h Handle) bool {
	v, ok := tab.destroy(h)
	if !ok {
		return false
	}
	recMu.Lock()
	trust := v.(*configRecord).trust
	recMu.Unlock()
	if trust != 0 {
		tab.destroyOwned(trust, h)
	}
	return true
}

// ConfigSetScheme sets the connection scheme code.
func ConfigSetScheme(h Handle, code int32) bool {
	v, ok := tab.get(h, typeConfig)
	if !ok {
		return false
	}
	recMu.Lock()
	v.(*configRecord).scheme = code
	recMu.Unlock()
	return true
}

// ConfigScheme reads the connection scheme code.
func ConfigScheme(h Handle) (int32, bool) {
	v, ok := tab.get(h, typeConfig)
	if !ok {
		return 0, false
	}
	recMu.Lock()
	defer recMu.Unlock()
	return v.(*configRecord).scheme, true
}

// ConfigSetTransport sets the transport code.
func ConfigSetTransport(h Handle, code int32) bool {
	v, ok := tab.get(h, typeConfig)
	if !ok {
		return false
	}
	recMu.Lock()
	v.(*configRecord).transport = code
	recMu.Unlock()
	return true
}

// ConfigTransport reads the transport code.
func ConfigTransport(h Handle) (int32, bool) {
	v, ok := tab.get(h, typeConfig)
	if !ok {
		return 0, false
	}
	recMu.Lock()
	defer recMu.Unlock()
	return v.(*configRecord).transport, true
}

// ConfigSetTrust transfers ownership of a trust record into the config.
// The trust can no longer be destroyed on its own; replacing an owned
// trust frees the previous one.
func ConfigSetTrust(h, trust Handle) bool {
	v, ok := tab.get(h, typeConfig)
	if !ok {
		return false
	}
	if _, ok := tab.get(trust, typeTrust); !ok {
		return false
	}
	if !tab.adopt(trust, h) {
		return false
	}

	recMu.Lock()
	r := v.(*configRecord)
	prev := r.trust
	r.trust = trust
	recMu.Unlock()

	if prev != 0 && prev != trust {
		tab.destroyOwned(prev, h)
	}
	return true
}

// ConfigTrust returns a non-owning handle to the config's trust record,
// or (0, false) when none was set. The handle dies with the config.
func ConfigTrust(h Handle) (Handle, bool) {
	v, ok := tab.get(h, typeConfig)
	if !ok {
		return 0, false
	}
	recMu.Lock()
	defer recMu.Unlock()
	trust := v.(*configRecord).trust
	if trust == 0 {
		return 0, false
	}
	return trust, true
}

// ConfigSetUserAgent replaces the advertised user agent string.
func ConfigSetUserAgent(h Handle, agent []byte) bool {
	v, ok := tab.get(h, typeConfig)
	if !ok {
		return false
	}
	recMu.Lock()
	r := v.(*configRecord)
	r.userAgent = append([]byte(nil), agent...)
	r.hasAgent = true
	recMu.Unlock()
	return true
}

// ConfigUserAgent copies out the user agent, with ok false when the
// config never set one.
func ConfigUserAgent(h Handle) ([]byte, bool) {
	v, ok := tab.get(h, typeConfig)
	if !ok {
		return nil, false
	}
	recMu.Lock()
	defer recMu.Unlock()
	r := v.(*configRecord)
	if !r.hasAgent {
		return nil, false
	}
	return append([]byte(nil), r.userAgent...), true
}
