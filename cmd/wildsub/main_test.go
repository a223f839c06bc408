package main

import (
	"bytes"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	mdns "github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/wildsub/internal/types"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Version:      "+version)
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wildsub.yaml")

	stdout, _, err := execute(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "threads: 10")

	_, _, err = execute(t, "config", "init", path)
	assert.Error(t, err, "existing file is not overwritten")
}

func TestScanRequiresDomain(t *testing.T) {
	_, _, err := execute(t, "scan", "-w", "words.txt")
	assert.ErrorContains(t, err, "domain is required")
}

func TestScanMissingWordlist(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.txt")

	stdout, stderr, err := execute(t, "scan", "-d", "example.com", "-w", missing)
	assert.ErrorIs(t, err, types.ErrLoad)
	// reported once, by main
	assert.NotContains(t, stderr, missing)
	assert.NotContains(t, stdout, missing)
}

// staticZone answers A queries from records and NXDOMAIN otherwise
type staticZone map[string]string

func (z staticZone) ServeDNS(w mdns.ResponseWriter, req *mdns.Msg) {
	q := req.Question[0]
	m := new(mdns.Msg)
	m.SetReply(req)

	if ip, ok := z[strings.TrimSuffix(q.Name, ".")]; ok && q.Qtype == mdns.TypeA {
		m.Answer = append(m.Answer, &mdns.A{
			Hdr: mdns.RR_Header{Name: q.Name, Rrtype: mdns.TypeA, Class: mdns.ClassINET, Ttl: 60},
			A:   net.ParseIP(ip),
		})
	} else if !ok {
		m.Rcode = mdns.RcodeNameError
	}
	_ = w.WriteMsg(m)
}

func TestScanWritesResults(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	started := make(chan struct{})
	srv := &mdns.Server{
		PacketConn:        pc,
		Handler:           staticZone{"www.example.com": "93.184.216.34", "api.example.com": "10.0.0.1"},
		NotifyStartedFunc: func() { close(started) },
	}
	go func() { _ = srv.ActivateAndServe() }()
	<-started
	defer srv.Shutdown()

	dir := t.TempDir()
	wordlist := filepath.Join(dir, "words.txt")
	require.NoError(t, os.WriteFile(wordlist, []byte("# common\nwww\n\napi\nmissing\n"), 0644))
	out := filepath.Join(dir, "found.txt")

	stdout, _, err := execute(t, "scan",
		"-d", "Example.com.",
		"-w", wordlist,
		"-t", "2",
		"--timeout", "2",
		"--resolver", pc.LocalAddr().String(),
		"-o", out,
	)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Found 2 subdomains")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "api.example.com -> 10.0.0.1\nwww.example.com -> 93.184.216.34\n", string(data))
}
