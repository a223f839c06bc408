package dns

import (
	"context"
	"errors"
	"fmt"

	"github.com/yourusername/wildsub/internal/config"
	"github.com/yourusername/wildsub/internal/types"
	"go.uber.org/zap"
)

// Fetcher captures the HTTP fingerprint of host over scheme
type Fetcher interface {
	Fetch(ctx context.Context, scheme types.Scheme, host string) (*types.Fingerprint, error)
}

// WildcardDetector probes random names under a domain to learn its
// catch-all addresses and, optionally, the catch-all HTTP responses
type WildcardDetector struct {
	resolver    ARecordResolver
	fetcher     Fetcher
	labels      LabelGenerator
	tests       int
	labelLength int
	httpVerify  bool
	logger      *zap.Logger
}

// NewWildcardDetector creates a detector. fetcher may be nil when HTTP
// verification is disabled.
func NewWildcardDetector(resolver ARecordResolver, fetcher Fetcher, labels LabelGenerator, cfg *config.Config, logger *zap.Logger) *WildcardDetector {
	return &WildcardDetector{
		resolver:    resolver,
		fetcher:     fetcher,
		labels:      labels,
		tests:       cfg.DNS.WildcardTests,
		labelLength: cfg.DNS.LabelLength,
		httpVerify:  cfg.HTTP.Verify && fetcher != nil,
		logger:      logger,
	}
}

// Detect builds the wildcard snapshot for domain. Probes that fail to
// resolve are the normal case and are not errors; an empty state means
// the domain has no wildcard record.
func (d *WildcardDetector) Detect(ctx context.Context, domain string) *types.WildcardState {
	var ips []string
	seen := make(map[string]struct{})
	fingerprints := make(map[types.Scheme]types.Fingerprint)

	for _, probe := range d.probeNames(domain) {
		if ctx.Err() != nil {
			break
		}

		answer, err := d.resolver.ResolveA(ctx, probe)
		if err != nil {
			if !errors.Is(err, types.ErrNotFound) && !errors.Is(err, types.ErrTimeout) {
				d.logger.Debug("Wildcard probe failed",
					zap.String("probe", probe),
					zap.Error(err),
				)
			}
			continue
		}

		for _, ip := range answer {
			if _, ok := seen[ip]; !ok {
				seen[ip] = struct{}{}
				ips = append(ips, ip)
			}
		}

		d.logger.Debug("Wildcard probe resolved",
			zap.String("probe", probe),
			zap.Strings("ips", answer),
		)

		if d.httpVerify && len(fingerprints) < len(types.Schemes) {
			d.captureFingerprints(ctx, probe, fingerprints)
		}
	}

	state := types.NewWildcardState(ips, fingerprints)

	if state.HasWildcard() {
		d.logger.Warn("Wildcard DNS detected",
			zap.String("domain", domain),
			zap.Int("test_count", d.tests),
			zap.Strings("ips", state.IPs()),
			zap.Int("fingerprints", len(fingerprints)),
		)
	} else {
		d.logger.Info("No wildcard DNS detected", zap.String("domain", domain))
	}

	return state
}

// captureFingerprints records the first successful response per scheme
func (d *WildcardDetector) captureFingerprints(ctx context.Context, host string, fingerprints map[types.Scheme]types.Fingerprint) {
	for _, scheme := range types.Schemes {
		if _, ok := fingerprints[scheme]; ok {
			continue
		}

		fp, err := d.fetcher.Fetch(ctx, scheme, host)
		if err != nil {
			d.logger.Debug("Wildcard fingerprint unavailable",
				zap.String("host", host),
				zap.String("scheme", string(scheme)),
				zap.Error(err),
			)
			continue
		}

		fingerprints[scheme] = *fp

		d.logger.Debug("Wildcard fingerprint captured",
			zap.String("host", host),
			zap.String("scheme", string(scheme)),
			zap.Int("status_code", fp.StatusCode),
			zap.Int("content_length", fp.ContentLength),
		)
	}
}

// probeNames generates names that should not exist under domain
func (d *WildcardDetector) probeNames(domain string) []string {
	names := make([]string, d.tests)
	for i := range names {
		names[i] = fmt.Sprintf("%s.%s", d.labels.Label(d.labelLength), domain)
	}
	return names
}
