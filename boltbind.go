package boltbind

import (
	"strings"
	"sync"

	"github.com/coreos/go-semver/semver"
	"go.uber.org/zap"

	"github.com/graphwire/boltbind/config"
	"github.com/graphwire/boltbind/errors"
	"github.com/graphwire/boltbind/internal/engine"
	"github.com/graphwire/boltbind/value"
)

// SetEngineLogger installs a logger for engine lifecycle events.
// Logging is off (no-op) by default; nil restores that.
func SetEngineLogger(l *zap.Logger) {
	engine.SetLogger(l)
}

// EngineVersion reports the version of the wrapped engine.
func EngineVersion() semver.Version {
	return engine.Version()
}

// DefaultUserAgent is the agent string advertised when a config does
// not set its own.
func DefaultUserAgent() string {
	return engine.DefaultUserAgent()
}

// Address is a resolved server endpoint. Construction is the only
// fallible step; afterwards the record is read-only.
type Address struct {
	h      engine.Handle
	closed bool
}

// NewAddress builds an address record for host and port. Strings with
// embedded NUL bytes are rejected here as recoverable input errors;
// if the engine itself then refuses the input and returns no handle,
// there is nothing this layer can recover and construction fails fast.
func NewAddress(host, port string) (*Address, error) {
	if strings.IndexByte(host, 0) >= 0 {
		return nil, errors.NulByte("address", "host")
	}
	if strings.IndexByte(port, 0) >= 0 {
		return nil, errors.NulByte("address", "port")
	}

	h := engine.AddressCreate([]byte(host), []byte(port))
	if h == 0 {
		errors.Violate(errors.Construction("address", nil))
	}
	return &Address{h: h}, nil
}

func (a *Address) live(op string) engine.Handle {
	if a.closed {
		errors.Violate(errors.StaleHandle("address." + op))
	}
	return a.h
}

// Host returns the host the address was created with.
func (a *Address) Host() string {
	host, ok := engine.AddressHost(a.live("host"))
	if !ok {
		errors.Violate(errors.StaleHandle("address.host"))
	}
	return string(host)
}

// Port returns the port the address was created with.
func (a *Address) Port() string {
	port, ok := engine.AddressPort(a.live("port"))
	if !ok {
		errors.Violate(errors.StaleHandle("address.port"))
	}
	return string(port)
}

// Close releases the address record exactly once; later calls return
// ErrClosed.
func (a *Address) Close() error {
	if a.closed {
		return errors.ErrClosed
	}
	a.closed = true
	engine.AddressDestroy(a.h)
	return nil
}

// Auth wraps the credential value the engine builds for a connector.
// The token is an ordinary tagged Value underneath; Token exposes it
// for inspection without giving up ownership.
type Auth struct {
	token *value.Value
}

// BasicAuth builds a basic-authentication token. realm is optional and
// passed to the engine as an explicit absent marker when nil.
func BasicAuth(username, password string, realm *string) (*Auth, error) {
	if strings.IndexByte(username, 0) >= 0 {
		return nil, errors.NulByte("auth", "username")
	}
	if strings.IndexByte(password, 0) >= 0 {
		return nil, errors.NulByte("auth", "password")
	}
	var realmBytes []byte
	if realm != nil {
		if strings.IndexByte(*realm, 0) >= 0 {
			return nil, errors.NulByte("auth", "realm")
		}
		realmBytes = []byte(*realm)
	}

	h := engine.AuthBasic([]byte(username), []byte(password), realmBytes)
	if h == 0 {
		errors.Violate(errors.Construction("auth", nil))
	}
	return &Auth{token: value.Wrap(h)}, nil
}

// Token returns the credential dictionary. The Auth keeps ownership;
// callers read, they do not close.
func (a *Auth) Token() *value.Value {
	return a.token
}

// Close releases the credential value exactly once.
func (a *Auth) Close() error {
	return a.token.Close()
}

// Connector combines an address, an auth token, and a config into the
// handle the engine's connection machinery works from. Composition
// only: the inputs were validated at their own construction, stay owned
// by the caller, and must outlive the connector.
type Connector struct {
	h      engine.Handle
	closed bool
}

// Close releases the connector record exactly once.
func (c *Connector) Close() error {
	if c.closed {
		return errors.ErrClosed
	}
	c.closed = true
	engine.ConnectorDestroy(c.h)
	return nil
}

// Bolt is the process-wide guard for the engine's global state.
// Init hands out at most one per process.
type Bolt struct {
	closed bool
}

var (
	guardMu    sync.Mutex
	guardTaken bool
)

// Init obtains the single process guard, running the engine's global
// startup. While a guard is outstanding (or was ever taken), further
// calls report (nil, false): none available, which is not an error.
// Closing the guard runs the engine's global shutdown; startup and
// shutdown each happen at most once per process.
func Init() (*Bolt, bool) {
	guardMu.Lock()
	defer guardMu.Unlock()

	if guardTaken {
		return nil, false
	}
	guardTaken = true
	engine.Startup()
	return &Bolt{}, true
}

// Close releases the guard and shuts the engine down, exactly once.
func (b *Bolt) Close() error {
	if b.closed {
		return errors.ErrClosed
	}
	b.closed = true
	engine.Shutdown()
	return nil
}

// CreateConnector builds a connector from already-validated handles.
// The engine refusing the composition (a stale input slipped through)
// is a construction failure with no recovery at this layer.
func (b *Bolt) CreateConnector(addr *Address, auth *Auth, cfg *config.Config) *Connector {
	if b.closed {
		errors.Violate(errors.StaleHandle("bolt.create_connector"))
	}

	h := engine.ConnectorCreate(addr.live("connector"), auth.token.Handle(), cfg.Handle())
	if h == 0 {
		errors.Violate(errors.Construction("connector", nil))
	}
	return &Connector{h: h}
}
