// Copyright (c) 2026 akt authors
// akt - authorized_keys audit tool
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"

	"github.com/aktool/akt/internal/db"
	"github.com/aktool/akt/internal/i18n"
	"github.com/aktool/akt/internal/model"
)

var exportOut string

// exportPayload is the on-disk shape of an audit history export: a
// zstd-compressed JSON document holding every run with its flagged keys
// plus the action log.
type exportPayload struct {
	ExportedAt time.Time             `json:"exported_at"`
	Runs       []exportedRun         `json:"runs"`
	Actions    []model.AuditLogEntry `json:"actions"`
}

type exportedRun struct {
	Run        model.AuditRun         `json:"run"`
	Candidates []model.StaleKeyRecord `json:"candidates"`
}

// exportCmd writes the complete audit history to a compressed archive so it
// can be kept outside the host being audited.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the audit history as zstd-compressed JSON",
	Run: func(cmd *cobra.Command, args []string) {
		runs, err := db.GetAuditRuns()
		if err != nil {
			log.Fatalf("%s", i18n.T("history.error_load", err))
		}

		payload := exportPayload{ExportedAt: time.Now(), Runs: make([]exportedRun, 0, len(runs))}
		for _, run := range runs {
			candidates, err := db.GetStaleKeysForRun(run.ID)
			if err != nil {
				log.Fatalf("%s", i18n.T("history.error_load", err))
			}
			payload.Runs = append(payload.Runs, exportedRun{Run: run, Candidates: candidates})
		}
		if actions, err := db.GetAllAuditLogEntries(); err == nil {
			payload.Actions = actions
		}

		f, err := os.OpenFile(exportOut, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
		if err != nil {
			log.Fatalf("%s", i18n.T("export.error_create", err))
		}
		defer f.Close()

		zw, err := zstd.NewWriter(f)
		if err != nil {
			log.Fatalf("%s", i18n.T("export.error_write", err))
		}
		enc := json.NewEncoder(zw)
		enc.SetIndent("", "  ")
		if err := enc.Encode(payload); err != nil {
			zw.Close()
			log.Fatalf("%s", i18n.T("export.error_write", err))
		}
		if err := zw.Close(); err != nil {
			log.Fatalf("%s", i18n.T("export.error_write", err))
		}

		fmt.Println(i18n.T("export.success", len(payload.Runs), exportOut))
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "akt-history.json.zst", "file to write the export to")
}
