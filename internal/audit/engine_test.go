// Copyright (c) 2026 akt authors
// akt - authorized_keys audit tool
// This source code is licensed under the MIT license found in the LICENSE file.

package audit

import (
	"crypto/ed25519"
	"crypto/rand"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/aktool/akt/internal/fingerprint"
	"github.com/aktool/akt/internal/model"
)

// newAuthorizedKey generates a real ed25519 key and returns the model entry
// plus its SHA256 fingerprint, exercising the engine end to end with the
// production fingerprint provider.
func newAuthorizedKey(t *testing.T, comment string) (model.AuthorizedKey, string) {
	t.Helper()
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	sshPub, err := ssh.NewPublicKey(pub)
	if err != nil {
		t.Fatalf("failed to convert key: %v", err)
	}

	line := strings.Fields(strings.TrimSpace(string(ssh.MarshalAuthorizedKey(sshPub))))
	key := model.AuthorizedKey{Algorithm: line[0], KeyData: line[1], Comment: comment}
	return key, ssh.FingerprintSHA256(sshPub)
}

func TestClassifyStaleKeysWithRealFingerprints(t *testing.T) {
	key1, fp1 := newAuthorizedKey(t, "w.thornton@company.de")
	key2, fp2 := newAuthorizedKey(t, "b.robertson@gmail.com")
	key3, fp3 := newAuthorizedKey(t, "god@zilla.de")

	now := time.Now()
	attempts := []model.KeyLoginAttempt{
		{Timestamp: now.AddDate(0, 0, -10), Fingerprint: fp1},
		{Timestamp: now.AddDate(0, 0, -1), Fingerprint: fp1},
		{Timestamp: now.AddDate(0, 0, -8), Fingerprint: fp2},
		{Timestamp: now.AddDate(0, 0, -11), Fingerprint: fp3},
	}
	universe := []model.KeyFingerprint{
		{Fingerprint: fp1, Algorithm: fingerprint.AlgorithmSHA256},
		{Fingerprint: fp2, Algorithm: fingerprint.AlgorithmSHA256},
		{Fingerprint: fp3, Algorithm: fingerprint.AlgorithmSHA256},
	}
	keys := []model.AuthorizedKey{key1, key2, key3}

	got := ClassifyStaleKeys(keys, attempts, universe, 2, fingerprint.Provider{})

	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d: %v", len(got), got)
	}
	if got[0].Comment != key2.Comment || got[1].Comment != key3.Comment {
		t.Errorf("expected keys 2 and 3 as candidates in list order, got %v", got)
	}
}
