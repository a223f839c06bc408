package types

import (
	"sort"
)

// WildcardState is the snapshot of a domain's catch-all behavior.
// It is built once before any worker starts and never mutated, so it can
// be shared across goroutines without locking. A nil *WildcardState
// behaves like a domain without wildcard DNS.
type WildcardState struct {
	ips          map[string]struct{}
	fingerprints map[Scheme]Fingerprint
}

// NewWildcardState copies ips and fingerprints into a new snapshot
func NewWildcardState(ips []string, fingerprints map[Scheme]Fingerprint) *WildcardState {
	s := &WildcardState{
		ips:          make(map[string]struct{}, len(ips)),
		fingerprints: make(map[Scheme]Fingerprint, len(fingerprints)),
	}
	for _, ip := range ips {
		s.ips[ip] = struct{}{}
	}
	for scheme, fp := range fingerprints {
		s.fingerprints[scheme] = fp
	}
	return s
}

// HasWildcard reports whether any probe resolved
func (s *WildcardState) HasWildcard() bool {
	return s != nil && len(s.ips) > 0
}

// IsWildcardIP checks membership in the wildcard IP set
func (s *WildcardState) IsWildcardIP(ip string) bool {
	if s == nil {
		return false
	}
	_, ok := s.ips[ip]
	return ok
}

// AllWildcard reports whether every ip is a wildcard IP.
// It is false for an empty slice or when there is no wildcard.
func (s *WildcardState) AllWildcard(ips []string) bool {
	if !s.HasWildcard() || len(ips) == 0 {
		return false
	}
	for _, ip := range ips {
		if !s.IsWildcardIP(ip) {
			return false
		}
	}
	return true
}

// Fingerprint returns the baseline recorded for scheme
func (s *WildcardState) Fingerprint(scheme Scheme) (Fingerprint, bool) {
	if s == nil {
		return Fingerprint{}, false
	}
	fp, ok := s.fingerprints[scheme]
	return fp, ok
}

// IPs returns a sorted copy of the wildcard IP set
func (s *WildcardState) IPs() []string {
	if s == nil {
		return nil
	}
	ips := make([]string, 0, len(s.ips))
	for ip := range s.ips {
		ips = append(ips, ip)
	}
	sort.Strings(ips)
	return ips
}
