package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yourusername/wildsub/intelligence/dedup"
	"github.com/yourusername/wildsub/intelligence/verify"
	"github.com/yourusername/wildsub/internal/config"
	"github.com/yourusername/wildsub/internal/dns"
	"github.com/yourusername/wildsub/internal/types"
	"github.com/yourusername/wildsub/modules/web/prober"
	"go.uber.org/zap"
)

// WildcardDetector builds the wildcard snapshot of a domain
type WildcardDetector interface {
	Detect(ctx context.Context, domain string) *types.WildcardState
}

// Dependencies are the collaborators of an enumeration run
type Dependencies struct {
	Resolver dns.ARecordResolver
	Detector WildcardDetector
	Verifier SubdomainVerifier
	Progress ProgressReporter
}

// Orchestrator manages the enumeration workflow for one domain
type Orchestrator struct {
	config *config.Config
	logger *zap.Logger
	deps   Dependencies

	stats   *Statistics
	statsMu sync.Mutex
}

// Statistics tracks the outcome of a run
type Statistics struct {
	StartTime        time.Time
	EndTime          time.Time
	Candidates       int
	Accepted         int
	NotFound         int
	WildcardRejected int
	LookupErrors     int
}

// Result is what a completed run hands back to the caller
type Result struct {
	Domain     string
	Wildcard   *types.WildcardState
	Subdomains []*types.Subdomain
	Stats      Statistics
}

// NewOrchestrator wires the default DNS, HTTP and verification stack
func NewOrchestrator(cfg *config.Config, logger *zap.Logger, progress ProgressReporter) *Orchestrator {
	resolver := dns.NewResolver(&cfg.DNS, cfg.TimeoutDuration(), logger.Named("dns"))
	httpProber := prober.NewHTTPProber(cfg, logger.Named("prober"))

	deps := Dependencies{
		Resolver: resolver,
		Detector: dns.NewWildcardDetector(resolver, httpProber, dns.NewRandomLabels(), cfg, logger.Named("wildcard")),
		Verifier: verify.NewVerifier(
			httpProber,
			dns.NewSystemResolver(cfg.TimeoutDuration(), logger.Named("system")),
			cfg.HTTP.Verify,
			logger.Named("verify"),
		),
		Progress: progress,
	}

	return NewWithDependencies(cfg, logger, deps)
}

// NewWithDependencies creates an orchestrator around explicit collaborators
func NewWithDependencies(cfg *config.Config, logger *zap.Logger, deps Dependencies) *Orchestrator {
	if deps.Progress == nil {
		deps.Progress = NopReporter{}
	}
	return &Orchestrator{
		config: cfg,
		logger: logger,
		deps:   deps,
		stats:  &Statistics{},
	}
}

// Run enumerates candidates under the configured domain. On cancellation
// it returns the context error and no partial results.
func (o *Orchestrator) Run(ctx context.Context, candidates []string) (*Result, error) {
	domain := o.config.Domain

	o.statsMu.Lock()
	o.stats = &Statistics{
		StartTime:  time.Now(),
		Candidates: len(candidates),
	}
	o.statsMu.Unlock()

	o.logger.Info("Starting subdomain enumeration",
		zap.String("domain", domain),
		zap.Int("candidates", len(candidates)),
		zap.Int("threads", o.config.Threads),
		zap.Bool("http_verify", o.config.HTTP.Verify),
	)

	// Phase 1: Wildcard detection, complete before any worker starts
	o.logger.Info("Phase 1: Wildcard detection")
	state := o.deps.Detector.Detect(ctx, domain)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Phase 2: Concurrent resolution
	o.logger.Info("Phase 2: Resolving candidates")
	worker := NewWorker(domain, o.deps.Resolver, o.deps.Verifier, state, o.logger.Named("worker"))
	scheduler := NewScheduler(o.config.Threads, worker, o.deps.Progress, o.logger.Named("scheduler"))

	classifications, err := scheduler.Run(ctx, candidates)
	if err != nil {
		return nil, fmt.Errorf("enumeration of %s failed: %w", domain, err)
	}

	// Phase 3: Aggregation
	aggregator := dedup.NewAggregator(o.logger.Named("dedup"))
	for _, c := range classifications {
		o.record(c)
		aggregator.Add(c)
	}

	subdomains := aggregator.Finalize()

	o.statsMu.Lock()
	o.stats.EndTime = time.Now()
	o.statsMu.Unlock()
	o.logStatistics()

	return &Result{
		Domain:     domain,
		Wildcard:   state,
		Subdomains: subdomains,
		Stats:      o.GetStatistics(),
	}, nil
}

// record counts one classification
func (o *Orchestrator) record(c types.Classification) {
	o.statsMu.Lock()
	defer o.statsMu.Unlock()

	if c.IsAccepted() {
		o.stats.Accepted++
		return
	}

	switch c.Reason {
	case types.ReasonNotFound:
		o.stats.NotFound++
	case types.ReasonWildcardMatch:
		o.stats.WildcardRejected++
	default:
		o.stats.LookupErrors++
	}
}

// logStatistics logs final run statistics
func (o *Orchestrator) logStatistics() {
	stats := o.GetStatistics()

	o.logger.Info("Enumeration complete",
		zap.Duration("duration", stats.EndTime.Sub(stats.StartTime)),
		zap.Int("candidates", stats.Candidates),
		zap.Int("accepted", stats.Accepted),
		zap.Int("not_found", stats.NotFound),
		zap.Int("wildcard_rejected", stats.WildcardRejected),
		zap.Int("lookup_errors", stats.LookupErrors),
	)
}

// GetStatistics returns current statistics
func (o *Orchestrator) GetStatistics() Statistics {
	o.statsMu.Lock()
	defer o.statsMu.Unlock()
	return *o.stats
}
