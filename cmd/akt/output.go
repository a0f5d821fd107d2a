// Copyright (c) 2026 akt authors
// akt - authorized_keys audit tool
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aktool/akt/internal/model"
)

// Output formats accepted by the --format flag.
const (
	formatDefault = "default"
	formatJSON    = "json"
)

// printKeys writes the given keys to stdout in the requested format.
// The default format emits one authorized_keys line per key so the output
// can be pasted back into an authorized_keys file or diffed against one.
func printKeys(keys []model.AuthorizedKey, format string) error {
	switch format {
	case formatDefault, "":
		for _, key := range keys {
			fmt.Println(key.String())
		}
		return nil
	case formatJSON:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(keys)
	default:
		return fmt.Errorf("unknown output format: %q", format)
	}
}
