// Copyright (c) 2026 akt authors
// akt - authorized_keys audit tool
// This source code is licensed under the MIT license found in the LICENSE file.

// package fingerprint computes SSH public key fingerprints. It is the
// fingerprint provider the audit engine correlates against: the same
// OpenSSH SHA256 fingerprint format that sshd writes into the auth log.
package fingerprint // import "github.com/aktool/akt/internal/fingerprint"

import (
	"bufio"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/ssh"

	"github.com/aktool/akt/internal/logging"
	"github.com/aktool/akt/internal/model"
)

// AlgorithmSHA256 is the fingerprint hash scheme this provider produces.
// It matches what modern sshd logs ("SHA256:..." fingerprints).
const AlgorithmSHA256 = "SHA256"

// Provider computes OpenSSH SHA256 fingerprints via golang.org/x/crypto/ssh.
type Provider struct{}

// OfLine parses a single authorized_keys line and returns its fingerprint.
func (Provider) OfLine(line string) (model.KeyFingerprint, error) {
	pub, comment, _, _, err := ssh.ParseAuthorizedKey([]byte(line))
	if err != nil {
		return model.KeyFingerprint{}, fmt.Errorf("unable to parse public key: %w", err)
	}

	return model.KeyFingerprint{
		Fingerprint: ssh.FingerprintSHA256(pub),
		Algorithm:   AlgorithmSHA256,
		Bits:        keyBits(pub),
		KeyType:     pub.Type(),
		Comment:     comment,
	}, nil
}

// OfFile returns the fingerprint of every parseable entry in an
// authorized_keys file. Unparseable lines are logged and skipped; a
// missing or unreadable file is fatal.
func (p Provider) OfFile(path string) ([]model.KeyFingerprint, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open authorized_keys file %s: %w", path, err)
	}
	defer file.Close()

	var fingerprints []model.KeyFingerprint
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fp, err := p.OfLine(line)
		if err != nil {
			logging.Infof("skipping unparseable key line: %v", err)
			continue
		}
		fingerprints = append(fingerprints, fp)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read authorized_keys file %s: %w", path, err)
	}

	return fingerprints, nil
}

// keyBits reports the bit length of the underlying key material, or 0 for
// key types it does not know how to measure.
func keyBits(pub ssh.PublicKey) int {
	crypto, ok := pub.(ssh.CryptoPublicKey)
	if !ok {
		return 0
	}
	switch key := crypto.CryptoPublicKey().(type) {
	case *rsa.PublicKey:
		return key.N.BitLen()
	case *ecdsa.PublicKey:
		return key.Curve.Params().BitSize
	case ed25519.PublicKey:
		return 256
	default:
		return 0
	}
}
