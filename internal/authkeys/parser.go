// Copyright (c) 2026 akt authors
// akt - authorized_keys audit tool
// This source code is licensed under the MIT license found in the LICENSE file.

// package authkeys reads authorized_keys files into model.AuthorizedKey
// entries. It understands the usual line shape (options, algorithm, key
// blob, comment) and tolerates noise: blank lines, comments and rows it
// cannot make sense of are skipped, never fatal.
package authkeys // import "github.com/aktool/akt/internal/authkeys"

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aktool/akt/internal/logging"
	"github.com/aktool/akt/internal/model"
)

// Parse splits a raw public key string (like one from an authorized_keys file)
// into its three core components: algorithm, key data, and comment.
// It correctly handles leading options in the line (e.g., from="...",command="...").
func Parse(rawKey string) (algorithm, keyData, comment string, err error) {
	fields := strings.Fields(rawKey)
	if len(fields) == 0 {
		err = fmt.Errorf("empty line")
		return
	}

	keyStartIndex := -1
	for i, field := range fields {
		if strings.HasPrefix(field, "ssh-") || strings.HasPrefix(field, "ecdsa-") {
			keyStartIndex = i
			break
		}
	}

	if keyStartIndex == -1 {
		err = fmt.Errorf("no valid SSH key type found in line")
		return
	}

	if len(fields) < keyStartIndex+2 {
		err = fmt.Errorf("invalid public key format: missing key data after algorithm")
		return
	}

	algorithm = fields[keyStartIndex]
	keyData = fields[keyStartIndex+1]
	if len(fields) > keyStartIndex+2 {
		comment = strings.Join(fields[keyStartIndex+2:], " ")
	}

	return
}

// ParseFile reads an authorized_keys file and returns its entries in file
// order. A missing or unreadable file is a fatal error; individual lines
// that do not parse are logged and skipped.
func ParseFile(path string) ([]model.AuthorizedKey, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open authorized_keys file %s: %w", path, err)
	}
	defer file.Close()

	var keys []model.AuthorizedKey
	scanner := bufio.NewScanner(file)
	row := -1
	for scanner.Scan() {
		row++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		algorithm, keyData, comment, err := Parse(line)
		if err != nil {
			logging.Infof("skipping unsupported row %d: %v", row, err)
			continue
		}

		keys = append(keys, model.AuthorizedKey{
			Algorithm: algorithm,
			KeyData:   keyData,
			Comment:   comment,
			RowIndex:  row,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read authorized_keys file %s: %w", path, err)
	}

	logging.Debugf("parsed %d authorized keys from %s", len(keys), path)
	return keys, nil
}

// DefaultPath returns the conventional per-user authorized_keys location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".ssh", "authorized_keys"), nil
}
