// Package auth handles Earthdata credential capture and persistence.
package auth

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Credentials for one remote machine.
type Credentials struct {
	Host     string
	Username string
	Password string
}

// CredentialStore loads and persists credentials.
type CredentialStore interface {
	Load() (Credentials, error)
	Save(Credentials) error
}

// NetrcStore persists credentials for a single machine to a netrc file.
// The password is stored in plaintext: Earthdata download tooling reads the
// ~/.netrc directly and offers no alternative. The file is written 0600 and
// overwritten on each save.
type NetrcStore struct {
	Path string
	Host string
}

// DefaultNetrcStore stores credentials for host in the user's ~/.netrc.
func DefaultNetrcStore(host string) (*NetrcStore, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("DefaultNetrcStore: %w", err)
	}
	return &NetrcStore{Path: filepath.Join(home, ".netrc"), Host: host}, nil
}

// Save implements CredentialStore
func (s *NetrcStore) Save(c Credentials) error {
	line := fmt.Sprintf("machine %s login %s password %s\n", s.Host, c.Username, c.Password)
	if err := os.WriteFile(s.Path, []byte(line), 0600); err != nil {
		return fmt.Errorf("NetrcStore.Save: %w", err)
	}
	return nil
}

// Load implements CredentialStore. It returns the entry for the store's
// machine, or os.ErrNotExist if the file or the entry is missing.
func (s *NetrcStore) Load() (Credentials, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return Credentials{}, fmt.Errorf("NetrcStore.Load: %w", err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		c := Credentials{}
		for i := 0; i+1 < len(fields); i += 2 {
			switch fields[i] {
			case "machine":
				c.Host = fields[i+1]
			case "login":
				c.Username = fields[i+1]
			case "password":
				c.Password = fields[i+1]
			}
		}
		if c.Host == s.Host {
			return c, nil
		}
	}
	return Credentials{}, fmt.Errorf("NetrcStore.Load: no entry for %s: %w", s.Host, os.ErrNotExist)
}
