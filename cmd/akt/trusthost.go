// Copyright (c) 2026 akt authors
// akt - authorized_keys audit tool
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"bufio"
	"fmt"
	"log"
	"net"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/ssh"

	"github.com/aktool/akt/internal/db"
	"github.com/aktool/akt/internal/i18n"
	"github.com/aktool/akt/internal/remote"
)

// trustHostCmd fetches a remote machine's host key, shows its fingerprint
// and, after confirmation, pins it in the trust store. Remote audits refuse
// to connect to hosts that have not been trusted this way.
var trustHostCmd = &cobra.Command{
	Use:   "trust-host <host[:port]>",
	Short: "Fetch and pin a remote machine's SSH host key",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		hostname := args[0]
		// The trust store is keyed by the bare hostname, without a port.
		storeName := hostname
		if h, _, err := net.SplitHostPort(hostname); err == nil {
			storeName = h
		}

		fmt.Println(i18n.T("trust_host.fetching", hostname))
		key, err := remote.GetRemoteHostKey(hostname)
		if err != nil {
			log.Fatalf("%s", i18n.T("trust_host.error_fetch", err))
		}

		fmt.Println(i18n.T("trust_host.fingerprint", ssh.FingerprintSHA256(key)))
		fmt.Print(i18n.T("trust_host.confirm"))

		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if !isAffirmative(answer) {
			fmt.Println(i18n.T("trust_host.aborted"))
			os.Exit(1)
		}

		encoded := strings.TrimSpace(string(ssh.MarshalAuthorizedKey(key)))
		if err := db.AddKnownHostKey(storeName, encoded); err != nil {
			log.Fatalf("%s", i18n.T("trust_host.error_save", err))
		}

		fmt.Println(i18n.T("trust_host.added", hostname))
	},
}

// isAffirmative reports whether a confirmation answer means yes. The
// localized short form advertised by the prompt (e.g. "j" for German) is
// accepted alongside the plain "y".
func isAffirmative(answer string) bool {
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == i18n.T("trust_host.confirm_yes")
}
