// Copyright (c) 2026 akt authors
// akt - authorized_keys audit tool
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"os/user"
	"strings"
	"time"

	"github.com/aktool/akt/internal/model"
	"github.com/uptrace/bun"
)

// AuditRunModel maps the audit_runs table for Bun queries.
type AuditRunModel struct {
	bun.BaseModel  `bun:"table:audit_runs"`
	ID             int       `bun:"id,pk,autoincrement"`
	RanAt          time.Time `bun:"ran_at"`
	DaysThreshold  int       `bun:"days_threshold"`
	KeysFile       string    `bun:"keys_file"`
	AuthLogPath    string    `bun:"auth_log_path"`
	KeyCount       int       `bun:"key_count"`
	AttemptCount   int       `bun:"attempt_count"`
	CandidateCount int       `bun:"candidate_count"`
}

// StaleKeyModel maps the stale_keys table.
type StaleKeyModel struct {
	bun.BaseModel `bun:"table:stale_keys"`
	ID            int       `bun:"id,pk,autoincrement"`
	RunID         int       `bun:"run_id"`
	Algorithm     string    `bun:"algorithm"`
	KeyData       string    `bun:"key_data"`
	Comment       string    `bun:"comment"`
	LastUsedAt    time.Time `bun:"last_used_at"`
}

// KnownHostModel maps the known_hosts table.
type KnownHostModel struct {
	bun.BaseModel `bun:"table:known_hosts"`
	ID            int    `bun:"id,pk,autoincrement"`
	Hostname      string `bun:"hostname"`
	HostKey       string `bun:"host_key"`
}

// AuditLogModel maps the audit_log table.
type AuditLogModel struct {
	bun.BaseModel `bun:"table:audit_log"`
	ID            int    `bun:"id,pk,autoincrement"`
	Timestamp     string `bun:"timestamp"`
	Username      string `bun:"username"`
	Action        string `bun:"action"`
	Details       string `bun:"details"`
}

// bunStore implements Store on top of a *bun.DB. The dialect-specific
// store types embed it; all queries here are portable across the three
// supported backends.
type bunStore struct {
	bun *bun.DB
}

// SqliteStore is the SQLite implementation of the Store interface.
type SqliteStore struct{ bunStore }

// PostgresStore is the PostgreSQL implementation of the Store interface.
type PostgresStore struct{ bunStore }

// MySQLStore is the MySQL implementation of the Store interface.
type MySQLStore struct{ bunStore }

// SaveAuditRun inserts the run and its candidates in one transaction and
// returns the new run ID.
func (s *bunStore) SaveAuditRun(run model.AuditRun, candidates []model.StaleKeyRecord) (int, error) {
	ctx := context.Background()

	tx, err := s.bun.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	row := &AuditRunModel{
		RanAt:          run.RanAt,
		DaysThreshold:  run.DaysThreshold,
		KeysFile:       run.KeysFile,
		AuthLogPath:    run.AuthLogPath,
		KeyCount:       run.KeyCount,
		AttemptCount:   run.AttemptCount,
		CandidateCount: run.CandidateCount,
	}
	// Bun fills row.ID from RETURNING or LastInsertId depending on dialect.
	if _, err := tx.NewInsert().Model(row).Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to insert audit run: %w", err)
	}

	for _, c := range candidates {
		keyRow := &StaleKeyModel{
			RunID:      row.ID,
			Algorithm:  c.Algorithm,
			KeyData:    c.KeyData,
			Comment:    c.Comment,
			LastUsedAt: c.LastUsedAt,
		}
		if _, err := tx.NewInsert().Model(keyRow).Exec(ctx); err != nil {
			return 0, fmt.Errorf("failed to insert stale key: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return row.ID, nil
}

// GetAuditRuns returns all audit runs, newest first.
func (s *bunStore) GetAuditRuns() ([]model.AuditRun, error) {
	ctx := context.Background()

	var rows []AuditRunModel
	if err := s.bun.NewSelect().Model(&rows).Order("id DESC").Scan(ctx); err != nil {
		return nil, err
	}

	runs := make([]model.AuditRun, 0, len(rows))
	for _, r := range rows {
		runs = append(runs, model.AuditRun{
			ID:             r.ID,
			RanAt:          r.RanAt,
			DaysThreshold:  r.DaysThreshold,
			KeysFile:       r.KeysFile,
			AuthLogPath:    r.AuthLogPath,
			KeyCount:       r.KeyCount,
			AttemptCount:   r.AttemptCount,
			CandidateCount: r.CandidateCount,
		})
	}
	return runs, nil
}

// GetStaleKeysForRun returns the removal candidates recorded with a run,
// in insertion order.
func (s *bunStore) GetStaleKeysForRun(runID int) ([]model.StaleKeyRecord, error) {
	ctx := context.Background()

	var rows []StaleKeyModel
	if err := s.bun.NewSelect().Model(&rows).Where("run_id = ?", runID).Order("id ASC").Scan(ctx); err != nil {
		return nil, err
	}

	keys := make([]model.StaleKeyRecord, 0, len(rows))
	for _, r := range rows {
		keys = append(keys, model.StaleKeyRecord{
			ID:         r.ID,
			RunID:      r.RunID,
			Algorithm:  r.Algorithm,
			KeyData:    r.KeyData,
			Comment:    r.Comment,
			LastUsedAt: r.LastUsedAt,
		})
	}
	return keys, nil
}

// GetKnownHostKey returns the trusted key for a hostname, or "" when the
// host has not been trusted yet.
func (s *bunStore) GetKnownHostKey(hostname string) (string, error) {
	ctx := context.Background()

	var row KnownHostModel
	err := s.bun.NewSelect().Model(&row).Where("hostname = ?", hostname).Limit(1).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", err
	}
	return row.HostKey, nil
}

// AddKnownHostKey records (or replaces) the trusted key for a hostname.
func (s *bunStore) AddKnownHostKey(hostname, key string) error {
	ctx := context.Background()

	// Replace any previous key for the host. Bun requires a WHERE clause
	// for deletes, which we have.
	if _, err := s.bun.NewDelete().Model((*KnownHostModel)(nil)).Where("hostname = ?", hostname).Exec(ctx); err != nil {
		return err
	}
	_, err := s.bun.NewInsert().Model(&KnownHostModel{Hostname: hostname, HostKey: key}).Exec(ctx)
	if err == nil {
		_ = s.LogAction("TRUST_HOST", fmt.Sprintf("hostname: %s", hostname))
	}
	return err
}

// LogAction inserts an action log entry attributed to the current OS user.
func (s *bunStore) LogAction(action, details string) error {
	ctx := context.Background()

	username := "unknown"
	if curUser, err := user.Current(); err == nil {
		// Windows usernames come as DOMAIN\user; keep the user part.
		if parts := strings.Split(curUser.Username, `\`); len(parts) > 1 {
			username = parts[1]
		} else {
			username = curUser.Username
		}
	}

	entry := &AuditLogModel{
		Timestamp: time.Now().Format(time.RFC3339),
		Username:  username,
		Action:    action,
		Details:   details,
	}
	_, err := s.bun.NewInsert().Model(entry).Exec(ctx)
	return err
}

// GetAllAuditLogEntries returns the action log, newest first.
func (s *bunStore) GetAllAuditLogEntries() ([]model.AuditLogEntry, error) {
	ctx := context.Background()

	var rows []AuditLogModel
	if err := s.bun.NewSelect().Model(&rows).Order("id DESC").Scan(ctx); err != nil {
		return nil, err
	}

	entries := make([]model.AuditLogEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, model.AuditLogEntry{
			ID:        r.ID,
			Timestamp: r.Timestamp,
			Username:  r.Username,
			Action:    r.Action,
			Details:   r.Details,
		})
	}
	return entries, nil
}
