package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphwire/boltbind/config"
)

func writeProfile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadProfile(t *testing.T) {
	path := writeProfile(t, `
host = "graph.internal"
port = "7688"
username = "svc"
password = "hunter2"
scheme = "routing"
transport = "encrypted"
user_agent = "probe/0.1"

[trust]
verification = false
`)

	prof, err := loadProfile(path)
	require.NoError(t, err)

	assert.Equal(t, "graph.internal", prof.Host)
	assert.Equal(t, "7688", prof.Port)
	assert.Equal(t, "svc", prof.Username)
	assert.Equal(t, "probe/0.1", prof.UserAgent)

	scheme, err := prof.scheme()
	require.NoError(t, err)
	assert.Equal(t, config.SchemeRouting, scheme)

	transport, err := prof.transport()
	require.NoError(t, err)
	assert.Equal(t, config.TransportEncrypted, transport)

	require.NotNil(t, prof.Trust.Verification)
	assert.False(t, *prof.Trust.Verification)
}

func TestLoadProfileDefaults(t *testing.T) {
	path := writeProfile(t, `host = "h"`)

	prof, err := loadProfile(path)
	require.NoError(t, err)

	assert.Equal(t, "7687", prof.Port, "defaults survive partial profiles")
	scheme, err := prof.scheme()
	require.NoError(t, err)
	assert.Equal(t, config.SchemeDirect, scheme)
}

func TestLoadProfileRejectsUnknownKeys(t *testing.T) {
	path := writeProfile(t, `hots = "typo"`)

	_, err := loadProfile(path)
	require.Error(t, err)
}

func TestProfileEnumParsing(t *testing.T) {
	p := profile{Scheme: "warp", Transport: "carrier-pigeon"}

	_, err := p.scheme()
	assert.Error(t, err)
	_, err = p.transport()
	assert.Error(t, err)
}

func TestBuildTrust(t *testing.T) {
	// No trust settings at all: no trust record.
	trust, err := profile{}.buildTrust()
	require.NoError(t, err)
	assert.Nil(t, trust)

	certs := filepath.Join(t.TempDir(), "certs.pem")
	require.NoError(t, os.WriteFile(certs, []byte("PEM"), 0o600))

	off := false
	p := profile{Trust: trustProfile{CertsFile: certs, VerifyHostname: &off}}
	trust, err = p.buildTrust()
	require.NoError(t, err)
	require.NotNil(t, trust)
	defer trust.Close()

	got, ok := trust.Certs()
	require.True(t, ok)
	assert.Equal(t, []byte("PEM"), got)
	assert.False(t, trust.VerifyHostname())
	assert.True(t, trust.Verification())

	p.Trust.CertsFile = filepath.Join(t.TempDir(), "missing.pem")
	_, err = p.buildTrust()
	require.Error(t, err)
}
