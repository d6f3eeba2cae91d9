package reservasheet

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Configuration names looked up in the environment and the secret store.
const (
	EnvUseGoogleSheets    = "USE_GOOGLE_SHEETS"
	EnvSpreadsheetID      = "GOOGLE_SHEETS_SPREADSHEET_ID"
	EnvServiceAccountJSON = "GOOGLE_SERVICE_ACCOUNT_JSON"

	// SecretServiceAccount is the structured secret-store entry holding a
	// service account key as a mapping rather than an inline JSON string.
	SecretServiceAccount = "gcp_service_account"
)

// Config holds the resolved settings for remote persistence.
type Config struct {
	Enabled        bool
	SpreadsheetID  string
	ServiceAccount []byte // raw service account key JSON, empty when unresolved
}

// Secrets is a secret store loaded from a YAML file. A nil store is valid
// and resolves nothing.
type Secrets map[string]any

// LoadSecrets reads a YAML secret file. A missing file is not an error and
// yields an empty store.
func LoadSecrets(path string) (Secrets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("failed to read secrets file: %w", err)
	}
	var s Secrets
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse secrets file: %w", err)
	}
	return s, nil
}

// get looks up name in the environment first, then in the secret store,
// with a lowercase fallback for store entries.
func (s Secrets) get(getenv func(string) string, name string) (string, bool) {
	if v := getenv(name); v != "" {
		return v, true
	}
	for _, key := range []string{name, strings.ToLower(name)} {
		if raw, ok := s[key]; ok {
			return fmt.Sprintf("%v", raw), true
		}
	}
	return "", false
}

// Resolve merges environment variables and the secret store into a Config.
// getenv is injected so callers and tests control the environment; pass
// os.Getenv in production code.
func Resolve(getenv func(string) string, secrets Secrets) Config {
	cfg := Config{}

	if v, ok := secrets.get(getenv, EnvUseGoogleSheets); ok {
		cfg.Enabled = parseBool(v)
	}
	if v, ok := secrets.get(getenv, EnvSpreadsheetID); ok {
		cfg.SpreadsheetID = strings.TrimSpace(v)
	}
	cfg.ServiceAccount = resolveServiceAccount(getenv, secrets)

	return cfg
}

// resolveServiceAccount prefers the structured secret entry, then the
// inline JSON value. Unparseable inline JSON resolves to no credentials
// rather than an error, so a bad value degrades to "unavailable".
func resolveServiceAccount(getenv func(string) string, secrets Secrets) []byte {
	if entry, ok := secrets[SecretServiceAccount].(map[string]any); ok && len(entry) > 0 {
		if data, err := json.Marshal(entry); err == nil {
			return data
		}
	}
	raw, ok := secrets.get(getenv, EnvServiceAccountJSON)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}
	if !json.Valid([]byte(raw)) {
		return nil
	}
	return []byte(raw)
}

// parseBool reports whether v is an affirmative boolean-like string.
func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}
