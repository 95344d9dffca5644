package config

import (
	"strings"

	"github.com/graphwire/boltbind/errors"
	"github.com/graphwire/boltbind/internal/engine"
)

// Config owns an engine connection-config record. Build one with New;
// after Finish the handle is read-only from this layer.
type Config struct {
	h      engine.Handle
	closed bool
}

// New allocates a config record with engine defaults (direct scheme,
// plaintext transport) and returns its builder.
func New() *ConfigBuilder {
	return &ConfigBuilder{config: &Config{h: engine.ConfigCreate()}}
}

// ConfigBuilder configures a connection config before it is sealed.
// Linear, like TrustBuilder: any use after Finish fails fast.
type ConfigBuilder struct {
	config *Config
	done   bool
}

func (b *ConfigBuilder) use(op string) engine.Handle {
	if b.done {
		errors.Violate(errors.Consumed("config builder." + op))
	}
	return b.config.h
}

// WithScheme sets the connection scheme. SchemeUnknown is not
// representable as input and fails fast.
func (b *ConfigBuilder) WithScheme(s Scheme) *ConfigBuilder {
	h := b.use("with_scheme")
	engine.ConfigSetScheme(h, s.engineCode())
	return b
}

// WithTransport sets the transport mode. TransportUnknown fails fast.
func (b *ConfigBuilder) WithTransport(t Transport) *ConfigBuilder {
	h := b.use("with_transport")
	engine.ConfigSetTransport(h, t.engineCode())
	return b
}

// WithTrust moves a trust record into the config. The source Trust is
// consumed: the config now owns and eventually frees the record, and
// the caller's Trust variable is spent. A trust that was already closed
// or moved fails fast.
func (b *ConfigBuilder) WithTrust(t *Trust) *ConfigBuilder {
	h := b.use("with_trust")
	engine.ConfigSetTrust(h, t.live("move into config"))
	t.moved = true
	return b
}

// WithUserAgent sets the advertised user agent. Embedded NUL bytes are
// rejected before the engine boundary.
func (b *ConfigBuilder) WithUserAgent(agent string) (*ConfigBuilder, error) {
	h := b.use("with_user_agent")
	if strings.IndexByte(agent, 0) >= 0 {
		return b, errors.NulByte("user_agent")
	}
	engine.ConfigSetUserAgent(h, []byte(agent))
	return b, nil
}

// Finish seals the config and hands ownership to the returned Config.
func (b *ConfigBuilder) Finish() *Config {
	b.use("finish")
	b.done = true
	return b.config
}

func (c *Config) live(op string) engine.Handle {
	if c.closed {
		errors.Violate(errors.StaleHandle("config." + op))
	}
	return c.h
}

// Handle exposes the engine handle to sibling packages.
func (c *Config) Handle() engine.Handle {
	return c.live("handle")
}

// Scheme reads the connection scheme, decoding engine codes this
// binding does not know to SchemeUnknown.
func (c *Config) Scheme() Scheme {
	code, ok := engine.ConfigScheme(c.live("scheme"))
	if !ok {
		errors.Violate(errors.StaleHandle("config.scheme"))
	}
	return schemeFromEngine(code)
}

// Transport reads the transport mode.
func (c *Config) Transport() Transport {
	code, ok := engine.ConfigTransport(c.live("transport"))
	if !ok {
		errors.Violate(errors.StaleHandle("config.transport"))
	}
	return transportFromEngine(code)
}

// UserAgent reads the advertised user agent, with ok false when the
// config never set one.
func (c *Config) UserAgent() (string, bool) {
	agent, ok := engine.ConfigUserAgent(c.live("user_agent"))
	if !ok {
		return "", false
	}
	return string(agent), true
}

// Trust returns a borrowed view of the config's trust record, or
// (nil, false) when none was moved in. The view reads the record the
// config owns; it cannot be closed and must not be kept past the
// config's Close.
func (c *Config) Trust() (*TrustView, bool) {
	h, ok := engine.ConfigTrust(c.live("trust"))
	if !ok {
		return nil, false
	}
	return &TrustView{h: h}, true
}

// Close releases the config record and the trust it owns, exactly once.
// Later calls are detectable no-ops returning ErrClosed.
func (c *Config) Close() error {
	if c.closed {
		return errors.ErrClosed
	}
	c.closed = true
	engine.ConfigDestroy(c.h)
	return nil
}
