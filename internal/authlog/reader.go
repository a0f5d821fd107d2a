// Copyright (c) 2026 akt authors
// akt - authorized_keys audit tool
// This source code is licensed under the MIT license found in the LICENSE file.

// package authlog extracts successful public-key logins from the host's
// sshd auth logs. Only "Accepted publickey" events are of interest; every
// other line is ignored. Timestamps are naive local times the way syslog
// writes them.
package authlog // import "github.com/aktool/akt/internal/authlog"

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/aktool/akt/internal/logging"
	"github.com/aktool/akt/internal/model"
)

// acceptedKeyPattern matches sshd success lines such as:
//
//	Accepted publickey for deploy from 10.0.0.5 port 50522 ssh2: ED25519 SHA256:Ab3...
var acceptedKeyPattern = regexp.MustCompile(
	`Accepted publickey for (\S+) from \S+ port \d+ ssh2: (\S+) (\S+?):(\S+)`)

// syslogTimeLayout is the classic syslog timestamp (no year, local time).
const syslogTimeLayout = "Jan _2 15:04:05"

// logFilePrefixes are the auth log file names akt looks for under the log
// directory. Rotated plain-text generations (auth.log.1) are included;
// compressed rotations are not.
var logFilePrefixes = []string{"auth.log", "secure"}

// SuccessfulKeyLogins scans the auth log files under dir and returns every
// successful public-key login found. An unreadable directory or the absence
// of any auth log file is fatal; malformed lines are skipped.
func SuccessfulKeyLogins(dir string) ([]model.KeyLoginAttempt, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read auth log directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !IsAuthLogName(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no auth log files found in %s", dir)
	}
	sort.Strings(files)

	now := time.Now()
	var attempts []model.KeyLoginAttempt
	for _, path := range files {
		fileAttempts, err := readLogFile(path, now)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, fileAttempts...)
	}

	logging.Infof("success login attempts received: %d", len(attempts))
	return attempts, nil
}

// IsAuthLogName reports whether a file name looks like a readable auth log,
// including rotated generations but excluding compressed ones.
func IsAuthLogName(name string) bool {
	if strings.HasSuffix(name, ".gz") || strings.HasSuffix(name, ".xz") {
		return false
	}
	for _, prefix := range logFilePrefixes {
		if name == prefix || strings.HasPrefix(name, prefix+".") {
			return true
		}
	}
	return false
}

func readLogFile(path string, now time.Time) ([]model.KeyLoginAttempt, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open auth log %s: %w", path, err)
	}
	defer file.Close()

	var attempts []model.KeyLoginAttempt
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if attempt, ok := ParseLine(scanner.Text(), now); ok {
			attempts = append(attempts, attempt)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read auth log %s: %w", path, err)
	}

	logging.Debugf("%s: %d successful key logins", path, len(attempts))
	return attempts, nil
}

// ParseLine extracts a successful key login from a single auth log line.
// The second return value is false for lines that are not such an event
// or whose timestamp cannot be understood.
func ParseLine(line string, now time.Time) (model.KeyLoginAttempt, bool) {
	m := acceptedKeyPattern.FindStringSubmatch(line)
	if m == nil {
		return model.KeyLoginAttempt{}, false
	}

	ts, ok := parseTimestamp(line, now)
	if !ok {
		logging.Debugf("unparseable timestamp in auth log line: %q", line)
		return model.KeyLoginAttempt{}, false
	}

	return model.KeyLoginAttempt{
		Timestamp:            ts,
		Username:             m[1],
		KeyAlgorithm:         m[2],
		FingerprintAlgorithm: m[3],
		Fingerprint:          m[3] + ":" + m[4],
	}, true
}

// parseTimestamp understands both the classic syslog prefix
// ("Jan  2 15:04:05") and the ISO form newer distributions write
// ("2026-08-01T10:00:00.000000+02:00"). Syslog timestamps carry no year;
// the current year is assumed unless that would place the event in the
// future, in which case the previous year is used.
func parseTimestamp(line string, now time.Time) (time.Time, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return time.Time{}, false
	}

	if first := fields[0]; strings.Contains(first, "T") {
		if ts, err := time.ParseInLocation("2006-01-02T15:04:05.999999999Z07:00", first, time.Local); err == nil {
			// Strip the offset: attempts are naive local times.
			return time.Date(ts.Year(), ts.Month(), ts.Day(),
				ts.Hour(), ts.Minute(), ts.Second(), ts.Nanosecond(), time.Local), true
		}
		return time.Time{}, false
	}

	if len(line) < len("Jan _2 15:04:05") {
		return time.Time{}, false
	}
	ts, err := time.ParseInLocation(syslogTimeLayout, line[:15], time.Local)
	if err != nil {
		return time.Time{}, false
	}

	ts = ts.AddDate(now.Year(), 0, 0)
	if ts.After(now) {
		ts = ts.AddDate(-1, 0, 0)
	}
	return ts, true
}
