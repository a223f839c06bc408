package dns

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/yourusername/wildsub/internal/types"
	"go.uber.org/zap"
)

// HostResolver is the independent lookup path used to re-check a name
type HostResolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// SystemResolver resolves through the operating system's stub resolver,
// independently of the upstream used for enumeration
type SystemResolver struct {
	resolver *net.Resolver
	timeout  time.Duration
	logger   *zap.Logger
}

// NewSystemResolver creates a resolver backed by net.DefaultResolver
func NewSystemResolver(timeout time.Duration, logger *zap.Logger) *SystemResolver {
	return &SystemResolver{
		resolver: net.DefaultResolver,
		timeout:  timeout,
		logger:   logger,
	}
}

// LookupHost returns the IPv4 addresses of host
func (s *SystemResolver) LookupHost(ctx context.Context, host string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	addrs, err := s.resolver.LookupIP(ctx, "ip4", host)
	if err != nil {
		var dnsErr *net.DNSError
		switch {
		case errors.As(err, &dnsErr) && dnsErr.IsNotFound:
			return nil, fmt.Errorf("%s: %w", host, types.ErrNotFound)
		case errors.As(err, &dnsErr) && dnsErr.IsTimeout, errors.Is(err, context.DeadlineExceeded):
			return nil, fmt.Errorf("%s: %w", host, types.ErrTimeout)
		}
		return nil, fmt.Errorf("%s: %w: %v", host, types.ErrLookup, err)
	}

	ips := make([]string, 0, len(addrs))
	for _, addr := range addrs {
		ips = append(ips, addr.String())
	}

	s.logger.Debug("System lookup",
		zap.String("host", host),
		zap.Strings("ips", ips),
	)

	return ips, nil
}
