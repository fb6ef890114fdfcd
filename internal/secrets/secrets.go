package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// KeyringService groups the app's secrets in the OS keychain.
	KeyringService = "jobscout"

	AccountSearchAPI = "searchapi"
	AccountAnthropic = "anthropic"
)

// GetAPIKey looks up an API key: keyring first, environment fallback. An
// empty string with nil error is never returned.
func GetAPIKey(account, envVar string) (string, error) {
	if strings.TrimSpace(account) != "" {
		key, err := keyring.Get(KeyringService, account)
		if err == nil && strings.TrimSpace(key) != "" {
			return key, nil
		}
	}
	if envVar != "" {
		if key := strings.TrimSpace(os.Getenv(envVar)); key != "" {
			return key, nil
		}
	}
	return "", fmt.Errorf("API key for %q not found (set it in the keychain or via %s)", account, envVar)
}

func SetAPIKey(account, key string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("key is empty")
	}
	return keyring.Set(KeyringService, account, key)
}

func DeleteAPIKey(account string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	return keyring.Delete(KeyringService, account)
}
