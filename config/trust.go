package config

import (
	"github.com/graphwire/boltbind/errors"
	"github.com/graphwire/boltbind/internal/engine"
)

// Trust owns an engine trust record: the TLS certificate material and
// verification policy a config carries. Build one with NewTrust; once
// moved into a Config via WithTrust it belongs to that config and the
// original variable is spent.
type Trust struct {
	h      engine.Handle
	closed bool
	moved  bool
}

// NewTrust allocates a trust record with engine defaults and returns
// its builder. Defaults verify both certificates and hostnames.
func NewTrust() *TrustBuilder {
	return &TrustBuilder{trust: &Trust{h: engine.TrustCreate()}}
}

// TrustBuilder configures a trust record before it is sealed. The
// builder is linear: Finish consumes it, and any call after that fails
// fast.
type TrustBuilder struct {
	trust *Trust
	done  bool
}

func (b *TrustBuilder) use(op string) engine.Handle {
	if b.done {
		errors.Violate(errors.Consumed("trust builder." + op))
	}
	return b.trust.h
}

// WithCerts sets the PEM certificate payload the engine should trust.
func (b *TrustBuilder) WithCerts(certs []byte) *TrustBuilder {
	engine.TrustSetCerts(b.use("with_certs"), certs)
	return b
}

// WithVerification toggles certificate chain verification.
func (b *TrustBuilder) WithVerification(verify bool) *TrustBuilder {
	engine.TrustSetVerification(b.use("with_verification"), verify)
	return b
}

// WithVerifyHostname toggles hostname verification.
func (b *TrustBuilder) WithVerifyHostname(verify bool) *TrustBuilder {
	engine.TrustSetVerifyHostname(b.use("with_verify_hostname"), verify)
	return b
}

// Finish seals the record and hands ownership to the returned Trust.
// The builder is spent.
func (b *TrustBuilder) Finish() *Trust {
	b.use("finish")
	b.done = true
	return b.trust
}

func (t *Trust) live(op string) engine.Handle {
	if t.closed || t.moved {
		errors.Violate(errors.StaleHandle("trust." + op))
	}
	return t.h
}

// Certs returns a copy of the certificate payload, or (nil, false) when
// none was set.
func (t *Trust) Certs() ([]byte, bool) {
	return trustCerts(t.live("certs"))
}

// Verification reports whether certificate verification is on.
func (t *Trust) Verification() bool {
	return trustVerification(t.live("verification"))
}

// VerifyHostname reports whether hostname verification is on.
func (t *Trust) VerifyHostname() bool {
	return trustVerifyHostname(t.live("verify_hostname"))
}

// Close releases the trust record. A trust that was moved into a config
// is no longer this variable's to free; Close then reports ErrClosed
// and the config's Close does the real work. Second calls are
// detectable no-ops.
func (t *Trust) Close() error {
	if t.closed || t.moved {
		return errors.ErrClosed
	}
	t.closed = true
	engine.TrustDestroy(t.h)
	return nil
}

// TrustView is a borrowed, read-only projection of a trust record owned
// by a Config. It has no Close: the underlying record is freed by its
// parent, and the view dies with it. Reading through a view after the
// parent's Close fails fast on the stale handle.
type TrustView struct {
	h engine.Handle
}

// Certs returns a copy of the certificate payload, or (nil, false) when
// none was set.
func (v *TrustView) Certs() ([]byte, bool) {
	return trustCerts(v.h)
}

// Verification reports whether certificate verification is on.
func (v *TrustView) Verification() bool {
	return trustVerification(v.h)
}

// VerifyHostname reports whether hostname verification is on.
func (v *TrustView) VerifyHostname() bool {
	return trustVerifyHostname(v.h)
}

// Shared readers; both the owning Trust and the borrowed view funnel
// through these, with staleness decided by the engine's generations.

func trustCerts(h engine.Handle) ([]byte, bool) {
	certs, ok := engine.TrustCerts(h)
	if !ok {
		errors.Violate(errors.StaleHandle("trust.certs"))
	}
	if certs == nil {
		return nil, false
	}
	return certs, true
}

func trustVerification(h engine.Handle) bool {
	verify, ok := engine.TrustVerification(h)
	if !ok {
		errors.Violate(errors.StaleHandle("trust.verification"))
	}
	return verify
}

func trustVerifyHostname(h engine.Handle) bool {
	verify, ok := engine.TrustVerifyHostname(h)
	if !ok {
		errors.Violate(errors.StaleHandle("trust.verify_hostname"))
	}
	return verify
}
