package engine

import (
	"bytes"
	"sync"

	"github.com/coreos/go-semver/semver"
	"go.uber.org/zap"
)

// tab is the engine's process-wide object store. Allocation works
// before Startup, matching the native library: only connector traffic
// requires the started state.
var tab = newHandleTable()

var (
	lifecycleMu sync.Mutex
	started     bool
)

var engineVersion = semver.Version{Major: 1, Minor: 7, Patch: 4}

// Version reports the engine's own version.
func Version() semver.Version {
	return engineVersion
}

// DefaultUserAgent is the agent string the engine advertises when a
// config does not override it.
func DefaultUserAgent() string {
	return "boltbind/" + engineVersion.String()
}

// Startup runs the engine's global initialization. Paired with
// Shutdown; the binding's process guard guarantees each runs once.
func Startup() {
	lifecycleMu.Lock()
	defer lifecycleMu.Unlock()

	if started {
		return
	}
	started = true
	Logger().Info("engine startup", zap.String("version", engineVersion.String()))
}

// Shutdown runs the engine's global teardown.
func Shutdown() {
	lifecycleMu.Lock()
	defer lifecycleMu.Unlock()

	if !started {
		return
	}
	started = false
	Logger().Info("engine shutdown", zap.Int("leaked_handles", tab.live()))
}

// Started reports whether Startup has run without a matching Shutdown.
func Started() bool {
	lifecycleMu.Lock()
	defer lifecycleMu.Unlock()
	return started
}

// Live reports the number of live engine objects. Test hook.
func Live() int {
	return tab.live()
}

type addressRecord struct {
	host []byte
	port []byte
}

// AddressCreate allocates a resolved-address record. Returns 0 when the
// engine rejects the input; a NUL byte anywhere in host or port is a
// rejection, same as the C boundary would produce.
func AddressCreate(host, port []byte) Handle {
	if bytes.IndexByte(host, 0) >= 0 || bytes.IndexByte(port, 0) >= 0 {
		return 0
	}
	return tab.create(typeAddress, &addressRecord{
		host: append([]byte(nil), host...),
		port: append([]byte(nil), port...),
	})
}

// AddressHost copies out the host an address was created with.
func AddressHost(h Handle) ([]byte, bool) {
	v, ok := tab.get(h, typeAddress)
	if !ok {
		return nil, false
	}
	return append([]byte(nil), v.(*addressRecord).host...), true
}

// AddressPort copies out the port an address was created with.
func AddressPort(h Handle) ([]byte, bool) {
	v, ok := tab.get(h, typeAddress)
	if !ok {
		return nil, false
	}
	return append([]byte(nil), v.(*addressRecord).port...), true
}

// AddressDestroy frees an address record.
func AddressDestroy(h Handle) bool {
	_, ok := tab.destroy(h)
	return ok
}

type connectorRecord struct {
	addr   Handle
	auth   Handle
	config Handle
}

// ConnectorCreate combines an address, an auth token value, and a
// config into a connector. The inputs stay owned by the caller; the
// engine only records them. Returns 0 if any input handle is stale.
func ConnectorCreate(addr, auth, config Handle) Handle {
	if _, ok := tab.get(addr, typeAddress); !ok {
		return 0
	}
	if _, ok := tab.get(auth, typeValue); !ok {
		return 0
	}
	if _, ok := tab.get(config, typeConfig); !ok {
		return 0
	}
	Logger().Debug("connector created")
	return tab.create(typeConnector, &connectorRecord{addr: addr, auth: auth, config: config})
}

// ConnectorDestroy frees a connector record.
func ConnectorDestroy(h Handle) bool {
	_, ok := tab.destroy(h)
	return ok
}

// AuthBasic builds the credential dictionary value for basic
// authentication. A nil realm is the explicit absent marker. Returns 0
// on NUL-tainted input.
func AuthBasic(user, pass, realm []byte) Handle {
	if bytes.IndexByte(user, 0) >= 0 || bytes.IndexByte(pass, 0) >= 0 {
		return 0
	}
	if realm != nil && bytes.IndexByte(realm, 0) >= 0 {
		return 0
	}

	pairs := [][2][]byte{
		{[]byte("scheme"), []byte("basic")},
		{[]byte("principal"), user},
		{[]byte("credentials"), pass},
	}
	if realm != nil {
		pairs = append(pairs, [2][]byte{[]byte("realm"), realm})
	}

	h := ValueCreate()
	FormatAsDictionary(h, int32(len(pairs)))
	for i, kv := range pairs {
		DictionarySetKey(h, int32(i), kv[0])
		slot, _ := DictionaryValue(h, int32(i))
		FormatAsString(slot, kv[1])
	}
	DictionaryNormalize(h)
	return h
}
