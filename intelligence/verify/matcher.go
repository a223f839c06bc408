package verify

import "github.com/yourusername/wildsub/internal/types"

// maxLengthDriftPercent is the tolerated body-length difference
const maxLengthDriftPercent = 10

// Matches reports whether observed is indistinguishable from baseline:
// same status, same title, same Server header, and a body length within
// 10% of the baseline's. A zero-length baseline only matches an empty body.
func Matches(observed, baseline types.Fingerprint) bool {
	if observed.StatusCode != baseline.StatusCode {
		return false
	}

	diff := observed.ContentLength - baseline.ContentLength
	if diff < 0 {
		diff = -diff
	}
	if baseline.ContentLength == 0 {
		if diff != 0 {
			return false
		}
	} else if diff*100 > baseline.ContentLength*maxLengthDriftPercent {
		return false
	}

	if observed.Title != baseline.Title {
		return false
	}

	return observed.Server == baseline.Server
}

// MatchesBaseline compares observed with the wildcard baseline for scheme.
// Without a baseline nothing can match.
func MatchesBaseline(state *types.WildcardState, scheme types.Scheme, observed types.Fingerprint) bool {
	baseline, ok := state.Fingerprint(scheme)
	if !ok {
		return false
	}
	return Matches(observed, baseline)
}
