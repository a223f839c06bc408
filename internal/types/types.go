package types

import (
	"net/netip"
	"sort"
	"strings"
)

// Subdomain represents an accepted subdomain and the addresses it resolved to
type Subdomain struct {
	Domain string   `json:"domain"`
	IP     []string `json:"ip"`
}

// Display joins the IPs the way result files and the console print them
func (s *Subdomain) Display() string {
	return strings.Join(s.IP, ", ")
}

// ResolvedName is the outcome of a successful A lookup
type ResolvedName struct {
	Name string
	IPs  []string
}

// Scheme is a transport used for HTTP fingerprinting
type Scheme string

const (
	SchemeHTTP  Scheme = "http"
	SchemeHTTPS Scheme = "https"
)

// Schemes lists the transports in probe order
var Schemes = []Scheme{SchemeHTTP, SchemeHTTPS}

// Fingerprint is a compact HTTP response signature
type Fingerprint struct {
	StatusCode    int    `json:"status_code"`
	ContentLength int    `json:"content_length"`
	Title         string `json:"title"`
	Server        string `json:"server"`
}

// ClassificationStatus tags a Classification
type ClassificationStatus string

const (
	StatusAccepted ClassificationStatus = "accepted"
	StatusRejected ClassificationStatus = "rejected"
)

// RejectReason explains why a candidate was rejected
type RejectReason string

const (
	ReasonNone          RejectReason = ""
	ReasonNotFound      RejectReason = "not-found"
	ReasonWildcardMatch RejectReason = "wildcard-match"
	ReasonLookupError   RejectReason = "lookup-error"
)

// Classification is the accept/reject decision for one candidate.
// Accepted results carry Name and IPs; rejected ones carry a Reason.
type Classification struct {
	Status ClassificationStatus
	Name   string
	IPs    []string
	Reason RejectReason
}

// Accepted builds an accepted classification
func Accepted(name string, ips []string) Classification {
	return Classification{
		Status: StatusAccepted,
		Name:   name,
		IPs:    ips,
	}
}

// Rejected builds a rejected classification
func Rejected(name string, reason RejectReason) Classification {
	return Classification{
		Status: StatusRejected,
		Name:   name,
		Reason: reason,
	}
}

// IsAccepted reports whether the candidate was accepted
func (c Classification) IsAccepted() bool {
	return c.Status == StatusAccepted
}

// SortIPs sorts addresses in numeric order. Strings that do not parse as
// addresses sort after those that do, lexicographically.
func SortIPs(ips []string) {
	sort.SliceStable(ips, func(i, j int) bool {
		a, errA := netip.ParseAddr(ips[i])
		b, errB := netip.ParseAddr(ips[j])
		switch {
		case errA == nil && errB == nil:
			return a.Less(b)
		case errA == nil:
			return true
		case errB == nil:
			return false
		}
		return ips[i] < ips[j]
	})
}
