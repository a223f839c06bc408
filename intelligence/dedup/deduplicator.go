package dedup

import (
	"sort"
	"strings"
	"sync"

	"github.com/yourusername/wildsub/internal/types"
	"go.uber.org/zap"
)

// Aggregator collects accepted subdomains, one entry per name
type Aggregator struct {
	mu      sync.Mutex
	entries map[string]*types.Subdomain
	logger  *zap.Logger
}

// NewAggregator creates an empty aggregator
func NewAggregator(logger *zap.Logger) *Aggregator {
	return &Aggregator{
		entries: make(map[string]*types.Subdomain),
		logger:  logger,
	}
}

// Add records an accepted classification. Rejected ones are ignored and
// a name already present merges its IPs into the existing entry.
func (a *Aggregator) Add(c types.Classification) {
	if !c.IsAccepted() {
		return
	}

	normalized := strings.ToLower(strings.TrimSpace(c.Name))

	a.mu.Lock()
	defer a.mu.Unlock()

	existing, exists := a.entries[normalized]
	if !exists {
		a.entries[normalized] = &types.Subdomain{
			Domain: normalized,
			IP:     mergeIPs(nil, c.IPs),
		}
		return
	}

	existing.IP = mergeIPs(existing.IP, c.IPs)
	a.logger.Debug("Duplicate subdomain merged", zap.String("domain", normalized))
}

// Len returns the number of distinct names
func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.entries)
}

// Finalize returns copies of the entries sorted by name, IPs sorted
func (a *Aggregator) Finalize() []*types.Subdomain {
	a.mu.Lock()
	defer a.mu.Unlock()

	result := make([]*types.Subdomain, 0, len(a.entries))
	for _, sub := range a.entries {
		ips := append([]string(nil), sub.IP...)
		types.SortIPs(ips)
		result = append(result, &types.Subdomain{Domain: sub.Domain, IP: ips})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Domain < result[j].Domain
	})

	return result
}

// mergeIPs appends the addresses from src not already in dst
func mergeIPs(dst, src []string) []string {
	seen := make(map[string]bool, len(dst)+len(src))
	for _, ip := range dst {
		seen[ip] = true
	}
	for _, ip := range src {
		if !seen[ip] {
			dst = append(dst, ip)
			seen[ip] = true
		}
	}
	return dst
}
