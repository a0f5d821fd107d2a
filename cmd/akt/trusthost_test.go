// Copyright (c) 2026 akt authors
// akt - authorized_keys audit tool
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"testing"

	"github.com/aktool/akt/internal/i18n"
)

func TestIsAffirmative(t *testing.T) {
	tests := []struct {
		lang   string
		answer string
		want   bool
	}{
		{"en", "y", true},
		{"en", "Y\n", true},
		{"en", "j", false},
		{"en", "", false},
		{"en", "n", false},
		{"en", "yes", false},
		// The German prompt advertises (j/N), so "j" must confirm.
		{"de", "j", true},
		{"de", "J\n", true},
		{"de", "y", true},
		{"de", "n", false},
		{"de", "", false},
	}

	defer i18n.SetLang("en")
	for _, tt := range tests {
		i18n.SetLang(tt.lang)
		if got := isAffirmative(tt.answer); got != tt.want {
			t.Errorf("isAffirmative(%q) in %q = %v, want %v", tt.answer, tt.lang, got, tt.want)
		}
	}
}
