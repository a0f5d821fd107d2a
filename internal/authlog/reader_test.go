// Copyright (c) 2026 akt authors
// akt - authorized_keys audit tool
// This source code is licensed under the MIT license found in the LICENSE file.

package authlog

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var testNow = time.Date(2026, time.August, 26, 12, 0, 0, 0, time.Local)

func TestParseLineSyslog(t *testing.T) {
	line := "Aug 20 09:15:42 web-01 sshd[4242]: Accepted publickey for deploy from 10.0.0.5 port 50522 ssh2: ED25519 SHA256:NT0bhyintS8haJMroqLNbgYLYRIg6TSvDGaLW3ekPFo"

	attempt, ok := ParseLine(line, testNow)
	if !ok {
		t.Fatal("expected line to parse")
	}
	if attempt.Username != "deploy" {
		t.Errorf("unexpected username: %q", attempt.Username)
	}
	if attempt.KeyAlgorithm != "ED25519" {
		t.Errorf("unexpected key algorithm: %q", attempt.KeyAlgorithm)
	}
	if attempt.FingerprintAlgorithm != "SHA256" {
		t.Errorf("unexpected fingerprint algorithm: %q", attempt.FingerprintAlgorithm)
	}
	if attempt.Fingerprint != "SHA256:NT0bhyintS8haJMroqLNbgYLYRIg6TSvDGaLW3ekPFo" {
		t.Errorf("unexpected fingerprint: %q", attempt.Fingerprint)
	}

	want := time.Date(2026, time.August, 20, 9, 15, 42, 0, time.Local)
	if !attempt.Timestamp.Equal(want) {
		t.Errorf("unexpected timestamp: got %v want %v", attempt.Timestamp, want)
	}
}

func TestParseLineYearRollover(t *testing.T) {
	// A December entry read in August must belong to the previous year.
	line := "Dec 31 23:59:59 web-01 sshd[1]: Accepted publickey for root from 10.0.0.1 port 22 ssh2: RSA SHA256:abcdef"

	attempt, ok := ParseLine(line, testNow)
	if !ok {
		t.Fatal("expected line to parse")
	}
	if got := attempt.Timestamp.Year(); got != 2025 {
		t.Errorf("expected year 2025, got %d", got)
	}
}

func TestParseLineISOTimestamp(t *testing.T) {
	line := "2026-08-01T10:30:00.123456+02:00 web-01 sshd[7]: Accepted publickey for alice from 10.1.1.1 port 41000 ssh2: ED25519 SHA256:zzz"

	attempt, ok := ParseLine(line, testNow)
	if !ok {
		t.Fatal("expected line to parse")
	}
	want := time.Date(2026, time.August, 1, 10, 30, 0, 123456000, time.Local)
	if !attempt.Timestamp.Equal(want) {
		t.Errorf("unexpected timestamp: got %v want %v", attempt.Timestamp, want)
	}
}

func TestParseLineIgnoresOtherEvents(t *testing.T) {
	lines := []string{
		"Aug 20 09:15:42 web-01 sshd[4242]: Accepted password for deploy from 10.0.0.5 port 50522 ssh2",
		"Aug 20 09:15:42 web-01 sshd[4242]: Failed publickey for deploy from 10.0.0.5 port 50522 ssh2: ED25519 SHA256:abc",
		"Aug 20 09:15:42 web-01 sshd[4242]: Connection closed by 10.0.0.5",
		"",
	}
	for _, line := range lines {
		if _, ok := ParseLine(line, testNow); ok {
			t.Errorf("line should not parse as key login: %q", line)
		}
	}
}

func TestSuccessfulKeyLogins(t *testing.T) {
	dir := t.TempDir()

	current := "Aug 20 09:15:42 web-01 sshd[1]: Accepted publickey for a from 10.0.0.1 port 1 ssh2: ED25519 SHA256:one\n" +
		"Aug 20 10:00:00 web-01 sshd[2]: Failed publickey for b from 10.0.0.2 port 2 ssh2: RSA SHA256:two\n"
	rotated := "Jul 01 08:00:00 web-01 sshd[3]: Accepted publickey for c from 10.0.0.3 port 3 ssh2: RSA SHA256:three\n"

	if err := os.WriteFile(filepath.Join(dir, "auth.log"), []byte(current), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "auth.log.1"), []byte(rotated), 0o600); err != nil {
		t.Fatal(err)
	}
	// Compressed rotations and unrelated files must be ignored.
	if err := os.WriteFile(filepath.Join(dir, "auth.log.2.gz"), []byte("binary"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "kern.log"), []byte(current), 0o600); err != nil {
		t.Fatal(err)
	}

	attempts, err := SuccessfulKeyLogins(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(attempts) != 2 {
		t.Fatalf("expected 2 attempts, got %d: %+v", len(attempts), attempts)
	}
}

func TestSuccessfulKeyLoginsNoLogs(t *testing.T) {
	if _, err := SuccessfulKeyLogins(t.TempDir()); err == nil {
		t.Fatal("expected error when no auth log files exist")
	}
	if _, err := SuccessfulKeyLogins(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
