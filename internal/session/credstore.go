package session

import "github.com/homely-dev/homely/internal/localstate"

// FileCredentials stores credentials through the localstate package,
// keyring first with a file fallback.
type FileCredentials struct{}

func (FileCredentials) Load() (*localstate.Credentials, error) {
	return localstate.LoadCredentials()
}

func (FileCredentials) Save(creds *localstate.Credentials) error {
	return localstate.SaveCredentials(creds)
}

func (FileCredentials) Clear() error {
	return localstate.ClearCredentials()
}
