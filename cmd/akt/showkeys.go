// Copyright (c) 2026 akt authors
// akt - authorized_keys audit tool
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aktool/akt/internal/audit"
	"github.com/aktool/akt/internal/authkeys"
	"github.com/aktool/akt/internal/authlog"
	"github.com/aktool/akt/internal/db"
	"github.com/aktool/akt/internal/fingerprint"
	"github.com/aktool/akt/internal/i18n"
	"github.com/aktool/akt/internal/logging"
	"github.com/aktool/akt/internal/model"
	"github.com/aktool/akt/internal/remote"
)

var (
	showKeysDays    int
	showKeysFile    string
	showKeysLogDir  string
	showKeysFormat  string
	showKeysHost    string
	showKeysAskPass bool
)

// showKeysCmd is the main audit command: it reports every authorized key
// whose most recent successful login lies more than --older-than-days whole
// days in the past. Keys with no recorded login are never reported.
var showKeysCmd = &cobra.Command{
	Use:   "show-keys",
	Short: "Show authorized keys unused for longer than the threshold",
	Long: `Correlates the authorized_keys file against the successful public-key
logins in the auth logs and prints the keys whose most recent use is older
than the given number of whole days. The default output is one
authorized_keys line per key so it can be diffed or grepped directly.

With --host user@host the authorized_keys file and the auth logs are
fetched from a remote machine over SFTP before the audit runs.`,
	// RunE so the deferred remote temp-dir cleanup runs on failure.
	RunE: func(cmd *cobra.Command, args []string) error {
		keysFile := showKeysFile
		logDir := showKeysLogDir

		if showKeysHost != "" {
			var cleanup func()
			var err error
			keysFile, logDir, cleanup, err = fetchRemoteInputs(showKeysHost, showKeysFile, showKeysAskPass)
			if err != nil {
				return fmt.Errorf("%s", i18n.T("remote.error_connect", err))
			}
			defer cleanup()
		} else if keysFile == "" {
			var err error
			keysFile, err = authkeys.DefaultPath()
			if err != nil {
				return fmt.Errorf("%s", i18n.T("show_keys.error_keys_file", err))
			}
		}

		logging.Infof("%s", i18n.T("show_keys.start", keysFile, showKeysDays))

		keys, err := authkeys.ParseFile(keysFile)
		if err != nil {
			return fmt.Errorf("%s", i18n.T("show_keys.error_keys_file", err))
		}

		attempts, err := authlog.SuccessfulKeyLogins(logDir)
		if err != nil {
			return fmt.Errorf("%s", i18n.T("show_keys.error_auth_logs", err))
		}

		fp := fingerprint.Provider{}
		universe, err := fp.OfFile(keysFile)
		if err != nil {
			return fmt.Errorf("%s", i18n.T("show_keys.error_fingerprints", err))
		}

		now := time.Now()
		index := audit.BuildLatestUseIndex(attempts, universe)
		candidates := audit.CandidatesForRemoval(keys, index, showKeysDays, now, fp)

		if err := printKeys(candidates, showKeysFormat); err != nil {
			return err
		}
		if len(candidates) == 0 && showKeysFormat != formatJSON {
			fmt.Fprintln(os.Stderr, i18n.T("show_keys.none"))
		}

		recordAuditRun(now, keysFile, logDir, keys, attempts, candidates, index, fp)
		return nil
	},
}

func init() {
	showKeysCmd.Flags().IntVar(&showKeysDays, "older-than-days", 31, "flag keys whose latest login is strictly older than this many whole days")
	showKeysCmd.Flags().StringVar(&showKeysFile, "file-path", "", "path to the authorized_keys file (default ~/.ssh/authorized_keys)")
	showKeysCmd.Flags().StringVar(&showKeysLogDir, "auth-log-path", "/var/log", "directory holding the auth.log / secure log files")
	showKeysCmd.Flags().StringVar(&showKeysFormat, "format", formatDefault, `output format ("default", "json")`)
	showKeysCmd.Flags().StringVar(&showKeysHost, "host", "", "audit a remote machine instead, as user@host[:port]")
	showKeysCmd.Flags().BoolVar(&showKeysAskPass, "ask-pass", false, "prompt for an SSH password instead of relying on the agent")
}

// fetchRemoteInputs pulls the authorized_keys file and the auth logs from a
// remote host into a temporary directory and returns the local paths together
// with a cleanup function for the directory. remotePath names the
// authorized_keys file on the remote side; empty means the account default.
func fetchRemoteInputs(target, remotePath string, askPass bool) (keysFile, logDir string, cleanup func(), err error) {
	user, host, ok := strings.Cut(target, "@")
	if !ok || user == "" || host == "" {
		return "", "", nil, fmt.Errorf("expected user@host, got %q", target)
	}

	var password string
	if askPass {
		password, err = promptPassword(user, host)
		if err != nil {
			return "", "", nil, err
		}
	}

	fetcher, err := remote.NewFetcher(host, user, password)
	if err != nil {
		return "", "", nil, err
	}

	tmp, err := os.MkdirTemp("", "akt-remote-")
	if err != nil {
		fetcher.Close()
		return "", "", nil, err
	}
	cleanup = func() {
		fetcher.Close()
		os.RemoveAll(tmp)
	}

	keysFile = filepath.Join(tmp, "authorized_keys")
	if err := fetcher.FetchAuthorizedKeys(remotePath, keysFile); err != nil {
		cleanup()
		return "", "", nil, err
	}

	logDir = filepath.Join(tmp, "log")
	if err := os.MkdirAll(logDir, 0o700); err != nil {
		cleanup()
		return "", "", nil, err
	}
	if _, err := fetcher.FetchAuthLogs(showKeysLogDir, logDir); err != nil {
		cleanup()
		return "", "", nil, err
	}

	return keysFile, logDir, cleanup, nil
}

// promptPassword reads an SSH password from the terminal without echo.
func promptPassword(user, host string) (string, error) {
	fmt.Fprint(os.Stderr, i18n.T("remote.password_prompt", user+"@"+host))
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

// recordAuditRun persists the run and its candidates to the audit history.
// History is best effort: a storage failure is logged but never fails the
// audit itself, since the report has already been printed.
func recordAuditRun(ranAt time.Time, keysFile, logDir string,
	keys []model.AuthorizedKey, attempts []model.KeyLoginAttempt,
	candidates []model.AuthorizedKey, index map[string]model.KeyLoginAttempt,
	fp fingerprint.Provider) {
	if !db.IsInitialized() {
		return
	}

	run := model.AuditRun{
		RanAt:          ranAt,
		DaysThreshold:  showKeysDays,
		KeysFile:       keysFile,
		AuthLogPath:    logDir,
		KeyCount:       len(keys),
		AttemptCount:   len(attempts),
		CandidateCount: len(candidates),
	}

	records := make([]model.StaleKeyRecord, 0, len(candidates))
	for _, key := range candidates {
		rec := model.StaleKeyRecord{
			Algorithm: key.Algorithm,
			KeyData:   key.KeyData,
			Comment:   key.Comment,
		}
		if kfp, err := fp.OfLine(key.String()); err == nil {
			if attempt, ok := index[kfp.Fingerprint]; ok {
				rec.LastUsedAt = attempt.Timestamp
			}
		}
		records = append(records, rec)
	}

	runID, err := db.SaveAuditRun(run, records)
	if err != nil {
		logging.Warnf("could not record audit run: %v", err)
		return
	}
	details := fmt.Sprintf("run %d: %d of %d key(s) flagged, threshold %d day(s)",
		runID, len(candidates), len(keys), showKeysDays)
	if err := db.LogAction("SHOW_KEYS", details); err != nil {
		logging.Warnf("could not write audit log entry: %v", err)
	}
}
