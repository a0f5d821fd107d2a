// Copyright (c) 2026 akt authors
// akt - authorized_keys audit tool
// This source code is licensed under the MIT license found in the LICENSE file.

package audit

import (
	"time"

	"github.com/aktool/akt/internal/logging"
	"github.com/aktool/akt/internal/model"
)

// Fingerprinter recomputes the fingerprint of a single authorized_keys
// line. The classifier needs it to map each entry onto the fingerprint
// identity used by the latest-use index.
type Fingerprinter interface {
	OfLine(line string) (model.KeyFingerprint, error)
}

// CandidatesForRemoval walks the authorized keys in list order and returns
// the ones whose latest recorded use lies strictly more than daysThreshold
// whole days before now.
//
// A key without an entry in the index is never a candidate: a key that was
// never seen logging in cannot be told apart from one whose use predates
// the available log window, so absence of evidence is not treated as
// staleness. Keys whose line cannot be re-fingerprinted are skipped with an
// error logged. Structurally equal duplicates are reported once, keeping
// the first occurrence's position.
func CandidatesForRemoval(keys []model.AuthorizedKey, index map[string]model.KeyLoginAttempt,
	daysThreshold int, now time.Time, fp Fingerprinter) []model.AuthorizedKey {
	logging.Infof("get key candidates for removal, days threshold: %d", daysThreshold)
	logging.Debugf("authorized keys: %d, latest-use index: %d", len(keys), len(index))

	candidates := make([]model.AuthorizedKey, 0)
	seen := make(map[string]struct{})

	for _, key := range keys {
		keyFingerprint, err := fp.OfLine(key.String())
		if err != nil {
			logging.Errorf("unable to parse key '%s': %v", key.String(), err)
			continue
		}

		attempt, ok := index[keyFingerprint.Fingerprint]
		if !ok {
			// No successful use on record; see the no-evidence rule above.
			logging.Debugf("no login recorded for fingerprint '%s', not flagging", keyFingerprint.Fingerprint)
			continue
		}

		days := wholeDaysSince(now, attempt.Timestamp)
		if days <= daysThreshold {
			continue
		}

		if _, dup := seen[key.Identity()]; dup {
			continue
		}
		seen[key.Identity()] = struct{}{}
		candidates = append(candidates, key)
		logging.Infof("key with fingerprint '%s' unused for %d day(s), added to candidate list",
			keyFingerprint.Fingerprint, days)
	}

	return candidates
}

// ClassifyStaleKeys is the caller-facing entry point of the engine: it
// builds the latest-use index from the attempts and universe and classifies
// the authorized keys against it using the current local time.
func ClassifyStaleKeys(keys []model.AuthorizedKey, attempts []model.KeyLoginAttempt,
	universe []model.KeyFingerprint, daysThreshold int, fp Fingerprinter) []model.AuthorizedKey {
	index := BuildLatestUseIndex(attempts, universe)
	return CandidatesForRemoval(keys, index, daysThreshold, time.Now(), fp)
}

// wholeDaysSince reports the truncated count of full days between now and
// a past timestamp. A use earlier today yields 0.
func wholeDaysSince(now, since time.Time) int {
	return int(now.Sub(since) / (24 * time.Hour))
}
