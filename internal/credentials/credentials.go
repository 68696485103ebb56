package credentials

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvVar names the API key both in the environment and in the secrets file.
const EnvVar = "OPENAI_API_KEY"

var ErrMissingCredential = errors.New("missing credential")

// MissingError tells the operator where the key can be supplied.
type MissingError struct {
	SecretsPath string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("%s not found: set %s in the environment (or a .env file), or add %s: <key> to the secrets file %s",
		EnvVar, EnvVar, EnvVar, e.SecretsPath)
}

func (e *MissingError) Is(target error) bool { return target == ErrMissingCredential }

// Resolve returns the API key. The environment value wins over the secrets file.
func Resolve(envValue, secretsPath string) (string, error) {
	if key := strings.TrimSpace(envValue); key != "" {
		return key, nil
	}
	secrets, err := LoadSecrets(secretsPath)
	if err != nil {
		return "", err
	}
	if key := strings.TrimSpace(secrets[EnvVar]); key != "" {
		return key, nil
	}
	return "", &MissingError{SecretsPath: secretsPath}
}

// LoadSecrets reads a flat YAML map of secret names to values.
// A missing file yields an empty map.
func LoadSecrets(path string) (map[string]string, error) {
	if path == "" {
		return map[string]string{}, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read secrets file %s: %w", path, err)
	}
	secrets := map[string]string{}
	if err := yaml.Unmarshal(data, &secrets); err != nil {
		return nil, fmt.Errorf("parse secrets file %s: %w", path, err)
	}
	return secrets, nil
}
