// Copyright (c) 2026 akt authors
// akt - authorized_keys audit tool
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import "github.com/aktool/akt/internal/model"

// Store defines the interface for all database operations in akt.
// This allows for multiple database backends to be implemented.
type Store interface {
	// Audit run history
	SaveAuditRun(run model.AuditRun, candidates []model.StaleKeyRecord) (int, error)
	GetAuditRuns() ([]model.AuditRun, error)
	GetStaleKeysForRun(runID int) ([]model.StaleKeyRecord, error)

	// Trusted host keys for remote audits
	GetKnownHostKey(hostname string) (string, error)
	AddKnownHostKey(hostname, key string) error

	// Action log
	LogAction(action string, details string) error
	GetAllAuditLogEntries() ([]model.AuditLogEntry, error)
}
