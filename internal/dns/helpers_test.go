package dns

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"testing"

	mdns "github.com/miekg/dns"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/wildsub/internal/types"
)

// testZone answers A queries from a fixed table
type testZone struct {
	records  map[string][]string
	wildcard []string
	servfail map[string]bool
	silent   map[string]bool
}

func (z *testZone) ServeDNS(w mdns.ResponseWriter, req *mdns.Msg) {
	q := req.Question[0]
	name := strings.TrimSuffix(strings.ToLower(q.Name), ".")

	if z.silent[name] {
		return
	}

	m := new(mdns.Msg)
	m.SetReply(req)
	m.RecursionAvailable = true

	ips, ok := z.records[name]
	if !ok {
		ips = z.wildcard
	}

	switch {
	case z.servfail[name]:
		m.Rcode = mdns.RcodeServerFailure
	case q.Qtype != mdns.TypeA:
	case len(ips) > 0:
		for _, ip := range ips {
			m.Answer = append(m.Answer, &mdns.A{
				Hdr: mdns.RR_Header{Name: q.Name, Rrtype: mdns.TypeA, Class: mdns.ClassINET, Ttl: 60},
				A:   net.ParseIP(ip),
			})
		}
	case ok:
		// name exists without A records
	default:
		m.Rcode = mdns.RcodeNameError
	}

	_ = w.WriteMsg(m)
}

// startServer serves zone on a loopback UDP port and returns its address
func startServer(t *testing.T, zone *testZone) string {
	t.Helper()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	started := make(chan struct{})
	srv := &mdns.Server{
		PacketConn:        pc,
		Handler:           zone,
		NotifyStartedFunc: func() { close(started) },
	}
	go func() { _ = srv.ActivateAndServe() }()
	<-started

	t.Cleanup(func() { _ = srv.Shutdown() })
	return pc.LocalAddr().String()
}

// fakeResolver answers from a map; missing names are not found
type fakeResolver struct {
	mu      sync.Mutex
	answers map[string][]string
	errs    map[string]error
	calls   []string
}

func (f *fakeResolver) ResolveA(_ context.Context, name string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, name)
	if err, ok := f.errs[name]; ok {
		return nil, err
	}
	if ips, ok := f.answers[name]; ok {
		return ips, nil
	}
	return nil, fmt.Errorf("%s: %w", name, types.ErrNotFound)
}

// seqLabels yields probe0, probe1, ...
type seqLabels struct {
	n int
}

func (s *seqLabels) Label(int) string {
	l := fmt.Sprintf("probe%d", s.n)
	s.n++
	return l
}

type fetchResult struct {
	fp  *types.Fingerprint
	err error
}

// fakeFetcher replays results per scheme in order
type fakeFetcher struct {
	mu      sync.Mutex
	results map[types.Scheme][]fetchResult
	calls   map[types.Scheme]int
}

func (f *fakeFetcher) Fetch(_ context.Context, scheme types.Scheme, _ string) (*types.Fingerprint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.calls == nil {
		f.calls = make(map[types.Scheme]int)
	}
	i := f.calls[scheme]
	f.calls[scheme]++

	rs := f.results[scheme]
	if i >= len(rs) {
		return nil, fmt.Errorf("%w: no more results", types.ErrConnection)
	}
	return rs[i].fp, rs[i].err
}
