// Copyright (c) 2026 akt authors
// akt - authorized_keys audit tool
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

// A failing audit must surface as an error from Execute, not kill the
// process: the remote fetch path relies on deferred cleanup running.
func TestShowKeys_MissingKeysFileReturnsError(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	missing := filepath.Join(t.TempDir(), "authorized_keys")

	cmd := newRootCmd()
	var stderr bytes.Buffer
	cmd.SetOut(&stderr)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{
		"show-keys",
		"--file-path", missing,
		"--db-type", "sqlite",
		"--db-dsn", ":memory:",
	})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected an error for a missing authorized_keys file")
	}
	if !strings.Contains(err.Error(), "authorized_keys") {
		t.Errorf("error does not mention the keys file: %v", err)
	}
}
