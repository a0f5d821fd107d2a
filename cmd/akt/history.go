// Copyright (c) 2026 akt authors
// akt - authorized_keys audit tool
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"fmt"
	"log"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aktool/akt/internal/db"
	"github.com/aktool/akt/internal/i18n"
	"github.com/aktool/akt/internal/model"
)

// historyCmd lists the recorded audit runs, newest first. With a run ID as
// argument it prints the removal candidates that run flagged instead.
var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "Show past audit runs and their flagged keys",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 1 {
			runID, err := strconv.Atoi(args[0])
			if err != nil {
				log.Fatalf("invalid run id %q: %v", args[0], err)
			}
			printRunCandidates(runID)
			return
		}

		runs, err := db.GetAuditRuns()
		if err != nil {
			log.Fatalf("%s", i18n.T("history.error_load", err))
		}
		if len(runs) == 0 {
			fmt.Println(i18n.T("history.empty"))
			return
		}
		for _, run := range runs {
			fmt.Println(i18n.T("history.run_line",
				run.ID, run.RanAt.Format("2006-01-02 15:04"), run.DaysThreshold,
				run.KeyCount, run.AttemptCount, run.CandidateCount, run.KeysFile))
		}
	},
}

func printRunCandidates(runID int) {
	records, err := db.GetStaleKeysForRun(runID)
	if err != nil {
		log.Fatalf("%s", i18n.T("history.error_load", err))
	}
	for _, rec := range records {
		key := model.AuthorizedKey{Algorithm: rec.Algorithm, KeyData: rec.KeyData, Comment: rec.Comment}
		fmt.Printf("%s  (last used %s)\n", key.String(), rec.LastUsedAt.Format("2006-01-02"))
	}
}
