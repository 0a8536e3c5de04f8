package localstate

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "homely"
	keyringUser    = "credentials"
)

// Credentials stores the token pair for the signed-in user.
type Credentials struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Username     string `json:"username,omitempty"`
}

// CredentialsPath returns the path to the fallback credentials.json.
func CredentialsPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "credentials.json"), nil
}

// LoadCredentials reads credentials from the system keyring, falling back
// to credentials.json. Returns empty credentials if neither exists.
func LoadCredentials() (*Credentials, error) {
	if secret, err := keyring.Get(keyringService, keyringUser); err == nil {
		var creds Credentials
		if err := json.Unmarshal([]byte(secret), &creds); err != nil {
			return nil, fmt.Errorf("parsing keyring credentials: %w", err)
		}
		return &creds, nil
	}
	return loadCredentialsFile()
}

func loadCredentialsFile() (*Credentials, error) {
	path, err := CredentialsPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Credentials{}, nil
		}
		return nil, fmt.Errorf("reading credentials: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("parsing credentials: %w", err)
	}
	return &creds, nil
}

// SaveCredentials writes credentials to the system keyring, falling back
// to a 0600 credentials.json when no keyring is available.
func SaveCredentials(creds *Credentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("marshaling credentials: %w", err)
	}

	if err := keyring.Set(keyringService, keyringUser, string(data)); err == nil {
		return nil
	}
	return saveCredentialsFile(creds)
}

func saveCredentialsFile(creds *Credentials) error {
	path, err := CredentialsPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling credentials: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}
	return nil
}

// ClearCredentials removes stored credentials from the keyring and disk.
func ClearCredentials() error {
	// Keyring may be absent entirely; the file copy is still removed below.
	_ = keyring.Delete(keyringService, keyringUser)

	path, err := CredentialsPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing credentials: %w", err)
	}
	return nil
}
