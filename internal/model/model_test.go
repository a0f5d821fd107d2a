// Copyright (c) 2026 akt authors
// akt - authorized_keys audit tool
// This source code is licensed under the MIT license found in the LICENSE file.

package model

import "testing"

func TestAuthorizedKeyString(t *testing.T) {
	k := AuthorizedKey{Algorithm: "ssh-ed25519", KeyData: "AAAAC3NzaC1lZDI1NTE5", Comment: "me@example.com"}
	want := "ssh-ed25519 AAAAC3NzaC1lZDI1NTE5 me@example.com"
	if got := k.String(); got != want {
		t.Errorf("unexpected AuthorizedKey.String(): got %q want %q", got, want)
	}

	k.Comment = ""
	want = "ssh-ed25519 AAAAC3NzaC1lZDI1NTE5"
	if got := k.String(); got != want {
		t.Errorf("unexpected AuthorizedKey.String() without comment: got %q want %q", got, want)
	}
}

func TestAuthorizedKeyIdentityIgnoresRowIndex(t *testing.T) {
	a := AuthorizedKey{Algorithm: "ssh-rsa", KeyData: "AAAAB3", Comment: "x", RowIndex: 0}
	b := AuthorizedKey{Algorithm: "ssh-rsa", KeyData: "AAAAB3", Comment: "x", RowIndex: 7}
	if a.Identity() != b.Identity() {
		t.Errorf("identity should not depend on RowIndex: %q vs %q", a.Identity(), b.Identity())
	}

	c := AuthorizedKey{Algorithm: "ssh-rsa", KeyData: "AAAAB3", Comment: "y"}
	if a.Identity() == c.Identity() {
		t.Error("identity should include the comment")
	}
}
