// Copyright (c) 2026 akt authors
// akt - authorized_keys audit tool
// This source code is licensed under the MIT license found in the LICENSE file.

package authkeys

import (
	"os"
	"path/filepath"
	"testing"
)

func writeKeysFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "authorized_keys")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return path
}

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		algorithm string
		keyData   string
		comment   string
		wantErr   bool
	}{
		{
			name:      "plain key with comment",
			line:      "ssh-ed25519 AAAAC3NzaC1lZDI1NTE5AAAAIJRA rick@morty.com",
			algorithm: "ssh-ed25519",
			keyData:   "AAAAC3NzaC1lZDI1NTE5AAAAIJRA",
			comment:   "rick@morty.com",
		},
		{
			name:      "no comment",
			line:      "ssh-rsa AAAAB3NzaC1yc2E",
			algorithm: "ssh-rsa",
			keyData:   "AAAAB3NzaC1yc2E",
		},
		{
			name:      "leading options",
			line:      `command="/usr/bin/true",no-pty ssh-ed25519 AAAAC3NzaC1lZDI1 backup`,
			algorithm: "ssh-ed25519",
			keyData:   "AAAAC3NzaC1lZDI1",
			comment:   "backup",
		},
		{
			name:      "multi word comment",
			line:      "ecdsa-sha2-nistp256 AAAAE2VjZHNh laptop of rick",
			algorithm: "ecdsa-sha2-nistp256",
			keyData:   "AAAAE2VjZHNh",
			comment:   "laptop of rick",
		},
		{name: "empty", line: "", wantErr: true},
		{name: "no key type", line: "not a key line", wantErr: true},
		{name: "missing key data", line: "ssh-rsa", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			algorithm, keyData, comment, err := Parse(tt.line)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.line)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if algorithm != tt.algorithm || keyData != tt.keyData || comment != tt.comment {
				t.Errorf("got (%q, %q, %q), want (%q, %q, %q)",
					algorithm, keyData, comment, tt.algorithm, tt.keyData, tt.comment)
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	content := "ssh-rsa AAAAB3NzaC1yc2E w.thornton@company.de\n" +
		"# a comment line\n" +
		"\n" +
		"ssh-ed25519   AAAAC3NzaC1lZDI1\tb.robertson@gmail.com\n" +
		"garbage that is not a key\n" +
		"ssh-ed25519 AAAAC3NzaC2lZDI1\n"

	keys, err := ParseFile(writeKeysFile(t, content))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(keys) != 3 {
		t.Fatalf("expected 3 keys, got %d", len(keys))
	}

	if keys[0].Algorithm != "ssh-rsa" || keys[0].Comment != "w.thornton@company.de" || keys[0].RowIndex != 0 {
		t.Errorf("unexpected first key: %+v", keys[0])
	}
	// tabs and repeated spaces are not part of the parsed fields
	if keys[1].KeyData != "AAAAC3NzaC1lZDI1" || keys[1].Comment != "b.robertson@gmail.com" {
		t.Errorf("unexpected second key: %+v", keys[1])
	}
	if keys[1].RowIndex != 3 {
		t.Errorf("expected row index 3 for second key, got %d", keys[1].RowIndex)
	}
	if keys[2].Comment != "" {
		t.Errorf("expected empty comment for third key, got %q", keys[2].Comment)
	}
}

func TestParseFileMissing(t *testing.T) {
	if _, err := ParseFile(filepath.Join(t.TempDir(), "unknown-file")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
