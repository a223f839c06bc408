package verify

import (
	"context"
	"fmt"

	"github.com/yourusername/wildsub/internal/dns"
	"github.com/yourusername/wildsub/internal/types"
	"go.uber.org/zap"
)

// Verifier decides whether a name whose addresses are all wildcard
// addresses is nonetheless a distinct host
type Verifier struct {
	fetcher    dns.Fetcher
	secondary  dns.HostResolver
	httpVerify bool
	logger     *zap.Logger
}

// NewVerifier creates a verifier. With httpVerify the fetcher is used,
// otherwise the secondary resolver.
func NewVerifier(fetcher dns.Fetcher, secondary dns.HostResolver, httpVerify bool, logger *zap.Logger) *Verifier {
	return &Verifier{
		fetcher:    fetcher,
		secondary:  secondary,
		httpVerify: httpVerify,
		logger:     logger,
	}
}

// IsRealSubdomain reports whether fullName is a real host rather than
// wildcard noise. Ambiguous evidence yields false.
func (v *Verifier) IsRealSubdomain(ctx context.Context, fullName string, state *types.WildcardState) (isReal bool) {
	defer func() {
		if r := recover(); r != nil {
			v.logger.Error("Verification panicked",
				zap.String("domain", fullName),
				zap.String("panic", fmt.Sprint(r)),
			)
			isReal = false
		}
	}()

	if !state.HasWildcard() {
		return true
	}

	if v.httpVerify {
		return v.verifyHTTP(ctx, fullName, state)
	}
	return v.verifyDNS(ctx, fullName, state)
}

// verifyDNS re-resolves through an independent path; one address outside
// the wildcard set is enough
func (v *Verifier) verifyDNS(ctx context.Context, fullName string, state *types.WildcardState) bool {
	ips, err := v.secondary.LookupHost(ctx, fullName)
	if err != nil {
		v.logger.Debug("Secondary lookup failed",
			zap.String("domain", fullName),
			zap.Error(err),
		)
		return false
	}

	for _, ip := range ips {
		if !state.IsWildcardIP(ip) {
			return true
		}
	}
	return false
}

// verifyHTTP compares live responses with the wildcard baselines. A
// connection failure or a differing response on any baselined scheme
// proves a different service.
func (v *Verifier) verifyHTTP(ctx context.Context, fullName string, state *types.WildcardState) bool {
	for _, scheme := range types.Schemes {
		if _, ok := state.Fingerprint(scheme); !ok {
			continue
		}

		fp, err := v.fetcher.Fetch(ctx, scheme, fullName)
		if err != nil {
			if ctx.Err() != nil {
				return false
			}
			v.logger.Debug("Fetch failed, treating as distinct service",
				zap.String("domain", fullName),
				zap.String("scheme", string(scheme)),
				zap.Error(err),
			)
			return true
		}

		if !MatchesBaseline(state, scheme, *fp) {
			v.logger.Debug("Fingerprint differs from wildcard",
				zap.String("domain", fullName),
				zap.String("scheme", string(scheme)),
				zap.Int("status_code", fp.StatusCode),
				zap.Int("content_length", fp.ContentLength),
			)
			return true
		}
	}

	return false
}
