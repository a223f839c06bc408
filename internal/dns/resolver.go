package dns

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	mdns "github.com/miekg/dns"
	"github.com/yourusername/wildsub/internal/config"
	"github.com/yourusername/wildsub/internal/types"
	"go.uber.org/zap"
)

const (
	defaultResolvConf = "/etc/resolv.conf"
	fallbackResolver  = "8.8.8.8:53"
)

// ARecordResolver resolves a name to its IPv4 addresses. Failures wrap
// types.ErrNotFound, types.ErrTimeout or types.ErrLookup.
type ARecordResolver interface {
	ResolveA(ctx context.Context, name string) ([]string, error)
}

// Resolver sends A queries to a single upstream server
type Resolver struct {
	udp     *mdns.Client
	tcp     *mdns.Client
	server  string
	timeout time.Duration
	logger  *zap.Logger
}

// NewResolver creates a resolver for the upstream named in cfg. An empty
// cfg.Resolver selects the first nameserver of /etc/resolv.conf.
func NewResolver(cfg *config.DNSConfig, timeout time.Duration, logger *zap.Logger) *Resolver {
	server := upstream(cfg.Resolver, defaultResolvConf, logger)

	logger.Debug("DNS resolver configured",
		zap.String("server", server),
		zap.Duration("timeout", timeout),
	)

	return &Resolver{
		udp:     &mdns.Client{Net: "udp", Timeout: timeout},
		tcp:     &mdns.Client{Net: "tcp", Timeout: timeout},
		server:  server,
		timeout: timeout,
		logger:  logger,
	}
}

// ResolveA performs one A-record query for name
func (r *Resolver) ResolveA(ctx context.Context, name string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	msg := new(mdns.Msg)
	msg.SetQuestion(mdns.Fqdn(name), mdns.TypeA)

	in, _, err := r.udp.ExchangeContext(ctx, msg, r.server)
	if err == nil && in.Truncated {
		in, _, err = r.tcp.ExchangeContext(ctx, msg, r.server)
	}
	if err != nil {
		return nil, classifyExchangeError(name, err)
	}

	switch in.Rcode {
	case mdns.RcodeSuccess:
	case mdns.RcodeNameError:
		return nil, fmt.Errorf("%s: %w", name, types.ErrNotFound)
	default:
		return nil, fmt.Errorf("%s: %w: rcode %s", name, types.ErrLookup, mdns.RcodeToString[in.Rcode])
	}

	seen := make(map[string]struct{}, len(in.Answer))
	var ips []string
	for _, rr := range in.Answer {
		a, ok := rr.(*mdns.A)
		if !ok {
			continue
		}
		ip := a.A.String()
		if _, dup := seen[ip]; dup {
			continue
		}
		seen[ip] = struct{}{}
		ips = append(ips, ip)
	}

	if len(ips) == 0 {
		return nil, fmt.Errorf("%s: no A records: %w", name, types.ErrNotFound)
	}

	return ips, nil
}

func classifyExchangeError(name string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%s: %w: %v", name, types.ErrTimeout, err)
	}
	return fmt.Errorf("%s: %w: %v", name, types.ErrLookup, err)
}

// upstream normalizes the configured resolver to host:port
func upstream(configured, resolvConf string, logger *zap.Logger) string {
	if configured != "" {
		return withPort(configured, "53")
	}

	cc, err := mdns.ClientConfigFromFile(resolvConf)
	if err != nil || len(cc.Servers) == 0 {
		logger.Warn("No system nameserver found, using fallback",
			zap.String("resolv_conf", resolvConf),
			zap.String("fallback", fallbackResolver),
			zap.Error(err),
		)
		return fallbackResolver
	}

	return net.JoinHostPort(cc.Servers[0], cc.Port)
}

func withPort(server, port string) string {
	if _, _, err := net.SplitHostPort(server); err == nil {
		return server
	}
	return net.JoinHostPort(server, port)
}
