// Copyright (c) 2026 akt authors
// akt - authorized_keys audit tool
// This source code is licensed under the MIT license found in the LICENSE file.

// package remote fetches authorized_keys files and auth logs from remote
// hosts over SSH/SFTP so they can be audited off-host. Connections are
// read-only: nothing is ever written to the remote machine.
package remote // import "github.com/aktool/akt/internal/remote"

import (
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/aktool/akt/internal/authlog"
	"github.com/aktool/akt/internal/db"
	"github.com/aktool/akt/internal/logging"
)

// Fetcher holds the connection to a remote host.
type Fetcher struct {
	client *ssh.Client
	sftp   *sftp.Client
}

// NewFetcher opens an SSH connection to host as user. Authentication tries
// the local SSH agent first and falls back to the given password when one
// is provided. The remote host key must match the one recorded via
// 'akt trust-host'.
func NewFetcher(host, user, password string) (*Fetcher, error) {
	hostKeyCallback := func(hostname string, remote net.Addr, key ssh.PublicKey) error {
		// The hostname passed to the callback can include the port; strip
		// it so the trust-store lookup uses the bare host.
		h, _, err := net.SplitHostPort(hostname)
		if err != nil {
			h = hostname
		}

		presentedKey := strings.TrimSpace(string(ssh.MarshalAuthorizedKey(key)))

		knownKey, err := db.GetKnownHostKey(h)
		if err != nil {
			return fmt.Errorf("failed to query trusted host keys: %w", err)
		}
		if knownKey == "" {
			return fmt.Errorf("unknown host key for %s. run 'akt trust-host %s' to add it", h, h)
		}
		if strings.TrimSpace(knownKey) != presentedKey {
			return fmt.Errorf("!!! HOST KEY MISMATCH FOR %s !!!\nRemote key presented: %s\nThis could be a man-in-the-middle attack", h, presentedKey)
		}
		return nil
	}

	var auths []ssh.AuthMethod
	if agentClient := getSSHAgent(); agentClient != nil {
		auths = append(auths, ssh.PublicKeysCallback(agentClient.Signers))
	}
	if password != "" {
		auths = append(auths, ssh.Password(password))
	}
	if len(auths) == 0 {
		return nil, fmt.Errorf("no authentication method available (no ssh agent found and no password given)")
	}

	addr := host
	if _, _, err := net.SplitHostPort(host); err != nil {
		addr = net.JoinHostPort(host, "22")
	}

	config := &ssh.ClientConfig{
		User:            user,
		Auth:            auths,
		HostKeyCallback: hostKeyCallback,
		Timeout:         10 * time.Second,
	}

	client, err := ssh.Dial("tcp", addr, config)
	if err != nil {
		return nil, fmt.Errorf("connection to %s failed: %w", addr, err)
	}

	sftpClient, err := sftp.NewClient(client)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to create sftp client: %w", err)
	}

	return &Fetcher{client: client, sftp: sftpClient}, nil
}

// Close closes the underlying SSH and SFTP clients.
func (f *Fetcher) Close() {
	if f.sftp != nil {
		f.sftp.Close()
	}
	if f.client != nil {
		f.client.Close()
	}
}

// FetchAuthorizedKeys downloads the remote authorized_keys file (the
// user's ~/.ssh/authorized_keys when remotePath is empty) to localPath.
func (f *Fetcher) FetchAuthorizedKeys(remotePath, localPath string) error {
	if remotePath == "" {
		remotePath = ".ssh/authorized_keys"
	}
	return f.fetchFile(remotePath, localPath)
}

// FetchAuthLogs downloads every readable auth log file from remoteDir into
// localDir and returns how many files were fetched.
func (f *Fetcher) FetchAuthLogs(remoteDir, localDir string) (int, error) {
	entries, err := f.sftp.ReadDir(remoteDir)
	if err != nil {
		return 0, fmt.Errorf("failed to read remote log directory %s: %w", remoteDir, err)
	}

	fetched := 0
	for _, e := range entries {
		if e.IsDir() || !authlog.IsAuthLogName(e.Name()) {
			continue
		}
		remotePath := path.Join(remoteDir, e.Name())
		if err := f.fetchFile(remotePath, filepath.Join(localDir, e.Name())); err != nil {
			return fetched, err
		}
		fetched++
	}
	if fetched == 0 {
		return 0, fmt.Errorf("no auth log files found in %s on remote host", remoteDir)
	}

	logging.Debugf("fetched %d auth log file(s) from %s", fetched, remoteDir)
	return fetched, nil
}

func (f *Fetcher) fetchFile(remotePath, localPath string) error {
	src, err := f.sftp.Open(remotePath)
	if err != nil {
		return fmt.Errorf("failed to open remote file %s: %w", remotePath, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(localPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create local file %s: %w", localPath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to copy %s: %w", remotePath, err)
	}
	return nil
}

// GetRemoteHostKey connects to a host just to retrieve its public key.
func GetRemoteHostKey(host string) (ssh.PublicKey, error) {
	keyChan := make(chan ssh.PublicKey, 1)

	config := &ssh.ClientConfig{
		// No authentication needed; the handshake presents the host key.
		User: "akt-probe",
		HostKeyCallback: func(hostname string, remote net.Addr, key ssh.PublicKey) error {
			keyChan <- key
			// Return a specific error to gracefully stop the handshake.
			return fmt.Errorf("akt: successfully retrieved host key")
		},
		Timeout: 5 * time.Second,
	}

	addr := host
	if _, _, err := net.SplitHostPort(host); err != nil {
		addr = net.JoinHostPort(host, "22")
	}

	// ssh.Dial is expected to fail with our sentinel error.
	_, err := ssh.Dial("tcp", addr, config)
	if err != nil {
		if strings.Contains(err.Error(), "akt: successfully retrieved host key") {
			return <-keyChan, nil
		}
		return nil, fmt.Errorf("failed to connect to %s: %w", host, err)
	}

	return nil, fmt.Errorf("ssh.Dial succeeded unexpectedly, could not retrieve key")
}
