// Copyright (c) 2026 akt authors
// akt - authorized_keys audit tool
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/aktool/akt/internal/authkeys"
	"github.com/aktool/akt/internal/i18n"
)

var (
	listKeysFile   string
	listKeysFormat string
)

// listKeysCmd prints every valid entry of the authorized_keys file without
// any staleness judgement. Useful to see exactly which lines the audit
// understands.
var listKeysCmd = &cobra.Command{
	Use:   "list-keys",
	Short: "List all parsed entries of the authorized_keys file",
	Run: func(cmd *cobra.Command, args []string) {
		keysFile := listKeysFile
		if keysFile == "" {
			var err error
			keysFile, err = authkeys.DefaultPath()
			if err != nil {
				log.Fatalf("%s", i18n.T("list_keys.error_keys_file", err))
			}
		}

		keys, err := authkeys.ParseFile(keysFile)
		if err != nil {
			log.Fatalf("%s", i18n.T("list_keys.error_keys_file", err))
		}

		if err := printKeys(keys, listKeysFormat); err != nil {
			log.Fatalf("%v", err)
		}
	},
}

func init() {
	listKeysCmd.Flags().StringVar(&listKeysFile, "file-path", "", "path to the authorized_keys file (default ~/.ssh/authorized_keys)")
	listKeysCmd.Flags().StringVar(&listKeysFormat, "format", formatDefault, `output format ("default", "json")`)
}
