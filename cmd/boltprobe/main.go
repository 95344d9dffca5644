package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/graphwire/boltbind"
	"github.com/graphwire/boltbind/config"
	"github.com/graphwire/boltbind/value"
)

func main() {
	var (
		profilePath = flag.String("profile", "", "Path to a TOML connection profile")
		host        = flag.String("host", "", "Server host (overrides profile)")
		port        = flag.String("port", "", "Server port (overrides profile)")
		user        = flag.String("user", "", "Username (overrides profile)")
		pass        = flag.String("pass", "", "Password (overrides profile)")
		verbose     = flag.Bool("v", false, "Log engine lifecycle events")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		boltbind.SetEngineLogger(logger)
	}

	prof := defaultProfile()
	if *profilePath != "" {
		var err error
		prof, err = loadProfile(*profilePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if *host != "" {
		prof.Host = *host
	}
	if *port != "" {
		prof.Port = *port
	}
	if *user != "" {
		prof.Username = *user
	}
	if *pass != "" {
		prof.Password = *pass
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: -i needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(prof); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(prof); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// probe builds the full handle chain from a profile and reports what
// the engine ended up with. Close tears everything down in reverse.
type probe struct {
	bolt      *boltbind.Bolt
	addr      *boltbind.Address
	auth      *boltbind.Auth
	cfg       *config.Config
	conn      *boltbind.Connector
	ownsGuard bool
}

func buildProbe(prof profile) (*probe, error) {
	bolt, ok := boltbind.Init()
	if !ok {
		return nil, fmt.Errorf("engine already initialized in this process")
	}
	p, err := buildHandles(bolt, prof)
	if err != nil {
		bolt.Close()
		return nil, err
	}
	p.ownsGuard = true
	return p, nil
}

// buildHandles assembles everything below the process guard. The guard
// stays the caller's; interactive mode holds one guard across rebuilds.
func buildHandles(bolt *boltbind.Bolt, prof profile) (*probe, error) {
	scheme, err := prof.scheme()
	if err != nil {
		return nil, err
	}
	transport, err := prof.transport()
	if err != nil {
		return nil, err
	}

	p := &probe{bolt: bolt}

	p.addr, err = boltbind.NewAddress(prof.Host, prof.Port)
	if err != nil {
		p.Close()
		return nil, err
	}

	var realm *string
	if prof.Realm != "" {
		realm = &prof.Realm
	}
	p.auth, err = boltbind.BasicAuth(prof.Username, prof.Password, realm)
	if err != nil {
		p.Close()
		return nil, err
	}

	b := config.New().WithScheme(scheme).WithTransport(transport)
	trust, err := prof.buildTrust()
	if err != nil {
		p.Close()
		return nil, err
	}
	if trust != nil {
		b = b.WithTrust(trust)
	}
	if prof.UserAgent != "" {
		if b, err = b.WithUserAgent(prof.UserAgent); err != nil {
			p.Close()
			return nil, err
		}
	}
	p.cfg = b.Finish()

	p.conn = p.bolt.CreateConnector(p.addr, p.auth, p.cfg)
	return p, nil
}

func (p *probe) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
	if p.cfg != nil {
		p.cfg.Close()
	}
	if p.auth != nil {
		p.auth.Close()
	}
	if p.addr != nil {
		p.addr.Close()
	}
	if p.ownsGuard {
		p.bolt.Close()
	}
}

func run(prof profile) error {
	p, err := buildProbe(prof)
	if err != nil {
		return err
	}
	defer p.Close()

	fmt.Print(summarize(p))
	return nil
}

func summarize(p *probe) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Engine: %s\n", boltbind.EngineVersion())
	fmt.Fprintf(&b, "Address: %s:%s\n", p.addr.Host(), p.addr.Port())
	fmt.Fprintf(&b, "Scheme: %s\n", p.cfg.Scheme())
	fmt.Fprintf(&b, "Transport: %s\n", p.cfg.Transport())

	agent, ok := p.cfg.UserAgent()
	if !ok {
		agent = boltbind.DefaultUserAgent() + " (default)"
	}
	fmt.Fprintf(&b, "User agent: %s\n", agent)

	if view, ok := p.cfg.Trust(); ok {
		fmt.Fprintf(&b, "Trust: verification=%t verify_hostname=%t", view.Verification(), view.VerifyHostname())
		if certs, ok := view.Certs(); ok {
			fmt.Fprintf(&b, " certs=%dB", len(certs))
		}
		b.WriteByte('\n')
	} else {
		b.WriteString("Trust: engine defaults\n")
	}

	fmt.Fprintf(&b, "\nAuth token:\n%s", renderValue(p.auth.Token(), 1))
	b.WriteString("\nConnector: ready\n")
	return b.String()
}

// renderValue walks a tagged value and renders one line per node. The
// copies AsDict/AsList hand out are owned here and closed after use.
func renderValue(v *value.Value, depth int) string {
	indent := strings.Repeat("  ", depth)
	switch v.Type() {
	case value.TypeNull:
		return indent + "null\n"
	case value.TypeBoolean:
		return fmt.Sprintf("%s%t\n", indent, v.AsBool())
	case value.TypeInteger:
		return fmt.Sprintf("%s%d\n", indent, v.AsInt())
	case value.TypeFloat:
		return fmt.Sprintf("%s%g\n", indent, v.AsFloat())
	case value.TypeString:
		return fmt.Sprintf("%s%q\n", indent, v.AsString())
	case value.TypeBytes:
		return fmt.Sprintf("%sbytes[%d]\n", indent, len(v.AsBytes()))
	case value.TypeList:
		var b strings.Builder
		fmt.Fprintf(&b, "%slist\n", indent)
		for _, item := range v.AsList() {
			b.WriteString(renderValue(item, depth+1))
			item.Close()
		}
		return b.String()
	case value.TypeDictionary:
		var b strings.Builder
		dict := v.AsDict()
		keys := make([]string, 0, len(dict))
		for k := range dict {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "%s%s:\n", indent, k)
			if k == "credentials" {
				// Never echo secrets.
				fmt.Fprintf(&b, "%s  \"***\"\n", indent)
			} else {
				b.WriteString(renderValue(dict[k], depth+1))
			}
			dict[k].Close()
		}
		return b.String()
	case value.TypeStructure:
		var b strings.Builder
		code, fields := v.AsStructure()
		fmt.Fprintf(&b, "%sstructure(code=%d)\n", indent, code)
		for _, f := range fields {
			b.WriteString(renderValue(f, depth+1))
			f.Close()
		}
		return b.String()
	default:
		return indent + "unknown\n"
	}
}
