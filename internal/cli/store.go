package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/keyring"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/utils"
)

// OpenStore resolves the --config value into a storage provider. The literal
// "keyring" reads a PostgreSQL connection string from the OS keyring.
func OpenStore(config string) (storage.Provider, error) {
	if config == constants.KeyringConfigValue {
		connStr, err := keyring.GetConnectionString()
		if err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				return nil, fmt.Errorf("%w, store one with 'habitual keyring set'", err)
			}
			return nil, err
		}
		return storage.OpenPostgres(connStr)
	}

	path, err := utils.ExpandPath(config)
	if err != nil {
		return nil, err
	}
	return storage.Open(path)
}

// LogDir is where the log file for the given --config value lives: next to
// a file store, or under the default config directory otherwise.
func LogDir(config string) (string, error) {
	if config == constants.KeyringConfigValue || storage.IsPostgresConfig(config) {
		config = constants.DefaultConfigPath
	}
	path, err := utils.ExpandPath(config)
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(path), "logs"), nil
}
