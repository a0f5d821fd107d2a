// Copyright (c) 2026 akt authors
// akt - authorized_keys audit tool
// This source code is licensed under the MIT license found in the LICENSE file.
package i18n

import "testing"

func TestT_BasicAndFormatting(t *testing.T) {
	Init("en")
	if GetLang() != "en" {
		t.Fatalf("expected lang 'en', got %q", GetLang())
	}

	if got := T("show_keys.none"); got != "No stale keys found." {
		t.Fatalf("unexpected translation: %q", got)
	}

	// fmt-style formatting via trailing args
	got := T("show_keys.start", "/home/rick/.ssh/authorized_keys", 31)
	want := "Auditing '/home/rick/.ssh/authorized_keys' for keys unused for more than 31 day(s)"
	if got != want {
		t.Fatalf("unexpected formatted translation: %q", got)
	}

	// switch language to German
	SetLang("de")
	if GetLang() != "de" {
		t.Fatalf("expected lang 'de', got %q", GetLang())
	}
	if got := T("show_keys.none"); got != "Keine veralteten Schlüssel gefunden." {
		t.Fatalf("expected German translation, got %q", got)
	}
}

func TestT_UnknownIDFallsBack(t *testing.T) {
	Init("en")
	if got := T("no.such.message"); got != "no.such.message" {
		t.Fatalf("expected fallback to message ID, got %q", got)
	}
}
