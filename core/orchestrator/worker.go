package orchestrator

import (
	"context"
	"errors"

	"github.com/yourusername/wildsub/internal/dns"
	"github.com/yourusername/wildsub/internal/types"
	"go.uber.org/zap"
)

// SubdomainVerifier decides whether a wildcard-only name is a real host
type SubdomainVerifier interface {
	IsRealSubdomain(ctx context.Context, fullName string, state *types.WildcardState) bool
}

// Worker classifies one candidate at a time against a fixed wildcard state
type Worker struct {
	domain   string
	resolver dns.ARecordResolver
	verifier SubdomainVerifier
	state    *types.WildcardState
	logger   *zap.Logger
}

// NewWorker creates a worker for domain. state must not change afterwards.
func NewWorker(domain string, resolver dns.ARecordResolver, verifier SubdomainVerifier, state *types.WildcardState, logger *zap.Logger) *Worker {
	return &Worker{
		domain:   domain,
		resolver: resolver,
		verifier: verifier,
		state:    state,
		logger:   logger,
	}
}

// Resolve looks up candidate.domain and classifies it
func (w *Worker) Resolve(ctx context.Context, candidate string) types.Classification {
	fullName := candidate + "." + w.domain

	ips, err := w.resolver.ResolveA(ctx, fullName)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) || errors.Is(err, types.ErrTimeout) {
			return types.Rejected(fullName, types.ReasonNotFound)
		}
		w.logger.Debug("Lookup failed",
			zap.String("domain", fullName),
			zap.Error(err),
		)
		return types.Rejected(fullName, types.ReasonLookupError)
	}

	return w.classify(ctx, types.ResolvedName{Name: fullName, IPs: ips})
}

// classify decides between a real subdomain and wildcard noise
func (w *Worker) classify(ctx context.Context, resolved types.ResolvedName) types.Classification {
	// One address outside the wildcard set is proof of a distinct record
	if !w.state.AllWildcard(resolved.IPs) {
		return types.Accepted(resolved.Name, resolved.IPs)
	}

	if w.verifier.IsRealSubdomain(ctx, resolved.Name, w.state) {
		return types.Accepted(resolved.Name, resolved.IPs)
	}

	w.logger.Debug("Skipping wildcard subdomain",
		zap.String("domain", resolved.Name),
		zap.Strings("ips", resolved.IPs),
	)
	return types.Rejected(resolved.Name, types.ReasonWildcardMatch)
}
