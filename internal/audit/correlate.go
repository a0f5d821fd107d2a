// Copyright (c) 2026 akt authors
// akt - authorized_keys audit tool
// This source code is licensed under the MIT license found in the LICENSE file.

// package audit is the correlation and staleness-classification engine.
// It joins two independently sourced datasets - the entries of an
// authorized_keys file and the successful key logins from the auth log -
// and decides which authorized keys have gone unused long enough to be
// candidates for manual revocation.
package audit // import "github.com/aktool/akt/internal/audit"

import (
	"github.com/aktool/akt/internal/logging"
	"github.com/aktool/akt/internal/model"
)

// BuildLatestUseIndex reduces a raw login-attempt sequence to the latest
// attempt per fingerprint. Only fingerprints present in the universe (the
// fingerprints computed from the current authorized_keys file) are kept;
// everything else is noise from keys that are no longer, or never were,
// authorized. The fold is a pure max-by-timestamp reduction, so the result
// does not depend on input order.
//
// Fingerprint algorithm fields are not cross-checked: an attempt whose
// fingerprint was produced with a different hash scheme simply never
// matches the universe and drops out as "not found".
func BuildLatestUseIndex(attempts []model.KeyLoginAttempt, universe []model.KeyFingerprint) map[string]model.KeyLoginAttempt {
	known := make(map[string]struct{}, len(universe))
	for _, fp := range universe {
		known[fp.Fingerprint] = struct{}{}
	}

	index := make(map[string]model.KeyLoginAttempt, len(known))
	for _, attempt := range attempts {
		if _, ok := known[attempt.Fingerprint]; !ok {
			logging.Debugf("fingerprint '%s' from auth log wasn't found in authorized_keys file", attempt.Fingerprint)
			continue
		}

		saved, exists := index[attempt.Fingerprint]
		if !exists || saved.Timestamp.Before(attempt.Timestamp) {
			index[attempt.Fingerprint] = attempt
		}
	}

	logging.Debugf("latest-use index holds %d of %d known fingerprints", len(index), len(known))
	return index
}
