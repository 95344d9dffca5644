package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/graphwire/boltbind/config"
)

// profile is the on-disk shape of a connection profile:
//
//	host = "graph.internal"
//	port = "7687"
//	username = "neo4j"
//	password = "secret"
//	scheme = "routing"
//	transport = "encrypted"
//	user_agent = "boltprobe/0.1"
//
//	[trust]
//	certs_file = "/etc/ssl/graph.pem"
//	verification = true
//	verify_hostname = false
type profile struct {
	Host      string       `toml:"host"`
	Port      string       `toml:"port"`
	Username  string       `toml:"username"`
	Password  string       `toml:"password"`
	Realm     string       `toml:"realm"`
	Scheme    string       `toml:"scheme"`
	Transport string       `toml:"transport"`
	UserAgent string       `toml:"user_agent"`
	Trust     trustProfile `toml:"trust"`
}

type trustProfile struct {
	CertsFile      string `toml:"certs_file"`
	Verification   *bool  `toml:"verification"`
	VerifyHostname *bool  `toml:"verify_hostname"`
}

func defaultProfile() profile {
	return profile{
		Host:      "localhost",
		Port:      "7687",
		Username:  "neo4j",
		Scheme:    "direct",
		Transport: "plaintext",
	}
}

func loadProfile(path string) (profile, error) {
	p := defaultProfile()
	meta, err := toml.DecodeFile(path, &p)
	if err != nil {
		return p, fmt.Errorf("decode profile: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return p, fmt.Errorf("unknown profile keys: %v", undecoded)
	}
	return p, nil
}

func (p profile) scheme() (config.Scheme, error) {
	switch p.Scheme {
	case "", "direct":
		return config.SchemeDirect, nil
	case "routing":
		return config.SchemeRouting, nil
	case "neo4j":
		return config.SchemeNeo4j, nil
	default:
		return config.SchemeUnknown, fmt.Errorf("unknown scheme %q", p.Scheme)
	}
}

func (p profile) transport() (config.Transport, error) {
	switch p.Transport {
	case "", "plaintext":
		return config.TransportPlaintext, nil
	case "encrypted":
		return config.TransportEncrypted, nil
	default:
		return config.TransportUnknown, fmt.Errorf("unknown transport %q", p.Transport)
	}
}

// buildTrust reads certs and assembles a Trust, or returns nil when the
// profile carries no trust settings at all.
func (p profile) buildTrust() (*config.Trust, error) {
	t := p.Trust
	if t.CertsFile == "" && t.Verification == nil && t.VerifyHostname == nil {
		return nil, nil
	}

	b := config.NewTrust()
	if t.CertsFile != "" {
		certs, err := os.ReadFile(t.CertsFile)
		if err != nil {
			return nil, fmt.Errorf("read certs: %w", err)
		}
		b = b.WithCerts(certs)
	}
	if t.Verification != nil {
		b = b.WithVerification(*t.Verification)
	}
	if t.VerifyHostname != nil {
		b = b.WithVerifyHostname(*t.VerifyHostname)
	}
	return b.Finish(), nil
}
