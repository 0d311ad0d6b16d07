package secrets

import (
	"errors"
	"os"
	"strings"

	"github.com/zalando/go-keyring"

	"jobharvest/internal/config"
)

const (
	// Service groups the app's secrets in the OS keychain.
	KeyringService = "jobharvest"
)

var ErrNotFound = errors.New("geocoding username not found (set geocode.username, GEONAMES_USERNAME, or the keychain)")

func GetGeocodeUsername(keyringAccount string) (string, error) {
	if strings.TrimSpace(keyringAccount) != "" {
		u, err := keyring.Get(KeyringService, keyringAccount)
		if err == nil && strings.TrimSpace(u) != "" {
			return strings.TrimSpace(u), nil
		}
	}
	return "", ErrNotFound
}

func SetGeocodeUsername(keyringAccount string, username string) error {
	if strings.TrimSpace(keyringAccount) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(username) == "" {
		return errors.New("username is empty")
	}
	return keyring.Set(KeyringService, keyringAccount, strings.TrimSpace(username))
}

func DeleteGeocodeUsername(keyringAccount string) error {
	if strings.TrimSpace(keyringAccount) == "" {
		return errors.New("keyring account name is empty")
	}
	return keyring.Delete(KeyringService, keyringAccount)
}

// EnvUsername is consulted when the config leaves geocode.username empty.
const EnvUsername = "GEONAMES_USERNAME"

// ResolveGeocodeUsername tries the config value, then $GEONAMES_USERNAME,
// then the keychain. source is "config", "env", "keyring" or "".
func ResolveGeocodeUsername(cfg config.Config) (username, source string) {
	if u := strings.TrimSpace(cfg.Geocode.Username); u != "" {
		return u, "config"
	}
	if u := strings.TrimSpace(os.Getenv(EnvUsername)); u != "" {
		return u, "env"
	}
	if u, err := GetGeocodeUsername(cfg.Geocode.KeyringAccount); err == nil {
		return u, "keyring"
	}
	return "", ""
}
