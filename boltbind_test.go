package boltbind

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/graphwire/boltbind/config"
	"github.com/graphwire/boltbind/errors"
	"github.com/graphwire/boltbind/value"
)

func requireViolation(t *testing.T, kind errors.Kind, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a contract violation")
		err, ok := r.(*errors.Error)
		require.True(t, ok, "expected *errors.Error, got %v", r)
		require.Equal(t, kind, err.Kind)
	}()
	fn()
}

// TestProcessGuard exercises the whole guard lifecycle in one place:
// the token is take-once per process, so splitting this across test
// functions would make them order-dependent.
func TestProcessGuard(t *testing.T) {
	var winners atomic.Int32
	var guard atomic.Pointer[Bolt]

	// Concurrent racers: exactly one acquisition may succeed.
	var g errgroup.Group
	for i := 0; i < 16; i++ {
		g.Go(func() error {
			if b, ok := Init(); ok {
				winners.Add(1)
				guard.Store(b)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	require.Equal(t, int32(1), winners.Load(), "exactly one Init must succeed")

	bolt := guard.Load()
	require.NotNil(t, bolt)

	// A second acquisition while the guard is outstanding is a no-op
	// read, not an error.
	b2, ok := Init()
	assert.Nil(t, b2)
	assert.False(t, ok)

	// Full composition through the held guard.
	addr, err := NewAddress("graph.internal", "7687")
	require.NoError(t, err)
	defer addr.Close()

	auth, err := BasicAuth("neo4j", "s3cret", nil)
	require.NoError(t, err)
	defer auth.Close()

	cfg := config.New().
		WithScheme(config.SchemeRouting).
		WithTransport(config.TransportEncrypted).
		Finish()
	defer cfg.Close()

	conn := bolt.CreateConnector(addr, auth, cfg)
	require.NoError(t, conn.Close())
	assert.Equal(t, errors.ErrClosed, conn.Close())

	// Guard release is exactly-once and final for the process.
	require.NoError(t, bolt.Close())
	assert.Equal(t, errors.ErrClosed, bolt.Close())

	_, ok = Init()
	assert.False(t, ok, "the process guard is not reissuable")

	requireViolation(t, errors.KindStaleHandle, func() {
		bolt.CreateConnector(addr, auth, cfg)
	})
}

func TestAddressRoundTrip(t *testing.T) {
	addr, err := NewAddress("localhost", "7687")
	require.NoError(t, err)

	assert.Equal(t, "localhost", addr.Host())
	assert.Equal(t, "7687", addr.Port())

	require.NoError(t, addr.Close())
	assert.Equal(t, errors.ErrClosed, addr.Close())
	requireViolation(t, errors.KindStaleHandle, func() { addr.Host() })
}

func TestAddressRejectsNulBytes(t *testing.T) {
	for _, tc := range []struct{ host, port string }{
		{"bad\x00host", "7687"},
		{"localhost", "76\x0087"},
	} {
		_, err := NewAddress(tc.host, tc.port)
		require.Error(t, err)
		var e *errors.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, errors.KindNulByte, e.Kind)
	}
}

func TestBasicAuthToken(t *testing.T) {
	auth, err := BasicAuth("alice", "wonder", nil)
	require.NoError(t, err)
	defer auth.Close()

	token := auth.Token()
	require.Equal(t, value.TypeDictionary, token.Type())

	dict := token.AsDict()
	defer func() {
		for _, v := range dict {
			v.Close()
		}
	}()

	require.Len(t, dict, 3)
	assert.Equal(t, "basic", dict["scheme"].AsString())
	assert.Equal(t, "alice", dict["principal"].AsString())
	assert.Equal(t, "wonder", dict["credentials"].AsString())
}

func TestBasicAuthRealm(t *testing.T) {
	realm := "acme"
	auth, err := BasicAuth("alice", "wonder", &realm)
	require.NoError(t, err)
	defer auth.Close()

	dict := auth.Token().AsDict()
	defer func() {
		for _, v := range dict {
			v.Close()
		}
	}()

	require.Len(t, dict, 4)
	assert.Equal(t, "acme", dict["realm"].AsString())
}

func TestBasicAuthRejectsNulBytes(t *testing.T) {
	_, err := BasicAuth("al\x00ice", "pw", nil)
	require.Error(t, err)

	badRealm := "ac\x00me"
	_, err = BasicAuth("alice", "pw", &badRealm)
	require.Error(t, err)
}

func TestEngineVersionSurface(t *testing.T) {
	v := EngineVersion()
	assert.NotZero(t, v.Major+v.Minor+v.Patch)
	assert.Contains(t, DefaultUserAgent(), v.String())
}
