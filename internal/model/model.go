// Copyright (c) 2026 akt authors
// akt - authorized_keys audit tool
// This source code is licensed under the MIT license found in the LICENSE file.

// package model defines the core data structures shared by the akt packages:
// authorized_keys entries, auth-log login attempts and key fingerprints.
package model // import "github.com/aktool/akt/internal/model"

import (
	"fmt"
	"strings"
	"time"
)

// AuthorizedKey is one entry of an authorized_keys file.
type AuthorizedKey struct {
	// Algorithm is the key type token exactly as written in the file,
	// e.g. "ssh-ed25519" or "ssh-rsa".
	Algorithm string
	// KeyData is the base64-encoded key blob. Opaque to akt; only the
	// fingerprint computed from it is used for correlation.
	KeyData string
	// Comment is the optional trailing identifier. Empty if absent.
	Comment string
	// RowIndex is the zero-based line number the entry came from.
	// Kept for traceability only; it takes no part in equality.
	RowIndex int
}

// String renders the canonical authorized_keys line for the entry.
func (k AuthorizedKey) String() string {
	if k.Comment == "" {
		return fmt.Sprintf("%s %s", k.Algorithm, k.KeyData)
	}
	return fmt.Sprintf("%s %s %s", k.Algorithm, k.KeyData, k.Comment)
}

// Identity returns the canonical identity used for structural equality
// and de-duplication: algorithm, key material and comment. RowIndex is
// deliberately excluded so the same key on two lines counts once.
func (k AuthorizedKey) Identity() string {
	return strings.Join([]string{k.Algorithm, k.KeyData, k.Comment}, " ")
}

// KeyLoginAttempt is one successful public-key authentication taken from
// the host's auth log.
type KeyLoginAttempt struct {
	// Timestamp is the moment of the login in the host's local time.
	// Auth logs carry no UTC offset, so this is a naive local time.
	Timestamp time.Time
	// Fingerprint of the key that authenticated, e.g. "SHA256:...".
	Fingerprint string
	// FingerprintAlgorithm is the hash scheme of the fingerprint
	// ("SHA256"). It must match the scheme the fingerprint provider
	// uses for correlation to succeed.
	FingerprintAlgorithm string
	// Username the login was for. Informational only.
	Username string
	// KeyAlgorithm is the key type label sshd logged ("ED25519", "RSA").
	// Informational only.
	KeyAlgorithm string
}

// KeyFingerprint is the fingerprint of one authorized_keys entry as
// computed independently of any login attempt. The set of these forms
// the known-good fingerprint universe the correlation is gated on.
type KeyFingerprint struct {
	// Fingerprint string, e.g. "SHA256:...".
	Fingerprint string
	// Algorithm is the hash scheme of the fingerprint ("SHA256").
	Algorithm string
	// Bits is the key length in bits (0 when unknown for the key type).
	Bits int
	// KeyType is the key algorithm token ("ssh-ed25519", ...).
	KeyType string
	// Comment is the trailing comment of the originating line.
	Comment string
}

// AuditRun is one recorded invocation of the staleness audit.
type AuditRun struct {
	ID            int
	RanAt         time.Time
	DaysThreshold int
	KeysFile      string
	AuthLogPath   string
	// KeyCount is the number of authorized keys examined.
	KeyCount int
	// AttemptCount is the number of successful key logins read.
	AttemptCount int
	// CandidateCount is the number of removal candidates found.
	CandidateCount int
}

// StaleKeyRecord is one removal candidate persisted with its audit run.
type StaleKeyRecord struct {
	ID        int
	RunID     int
	Algorithm string
	KeyData   string
	Comment   string
	// LastUsedAt is the latest login recorded for the key at audit time.
	LastUsedAt time.Time
}

// AuditLogEntry is one row of akt's own action log.
type AuditLogEntry struct {
	ID        int
	Timestamp string
	Username  string
	Action    string
	Details   string
}
