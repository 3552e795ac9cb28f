package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// APIKeyEnv is the environment variable holding the Bright Data key.
const APIKeyEnv = "BRIGHTDATA_SERP_API_KEY"

// ErrMissingAPIKey is returned when no credential source holds a key.
var ErrMissingAPIKey = eris.New("config: missing api key")

// CredentialPath returns the per-user credential file,
// ~/.claude/lead-enricher/config.json.
func CredentialPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", eris.Wrap(err, "config: resolve home dir")
	}
	return filepath.Join(home, ".claude", "lead-enricher", "config.json"), nil
}

// ResolveAPIKey returns the Bright Data key. The environment variable wins,
// then a key from config.yaml or LEADS_BRIGHTDATA_API_KEY, then the
// credential file at path. An unreadable file counts as missing.
func ResolveAPIKey(cfg BrightDataConfig, path string) (string, error) {
	if key := strings.TrimSpace(os.Getenv(APIKeyEnv)); key != "" {
		return key, nil
	}
	if key := strings.TrimSpace(cfg.APIKey); key != "" {
		return key, nil
	}

	if path != "" {
		v := viper.New()
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err == nil {
			if key := strings.TrimSpace(v.GetString("api_key")); key != "" {
				return key, nil
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			zap.L().Warn("config: unreadable credential file", zap.String("path", path), zap.Error(err))
		}
	}

	return "", eris.Wrapf(ErrMissingAPIKey, "set %s or add api_key to %s", APIKeyEnv, path)
}

type credentialTemplate struct {
	APIKey string `json:"api_key"`
	Note   string `json:"note"`
}

// WriteTemplate creates the credential file with an empty key. An existing
// file is left untouched; created reports whether a file was written.
func WriteTemplate(path string) (created bool, err error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, eris.Wrapf(err, "config: stat %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return false, eris.Wrap(err, "config: create credential dir")
	}

	data, err := json.MarshalIndent(credentialTemplate{
		Note: "Add your Bright Data SERP API key above or set " + APIKeyEnv + ".",
	}, "", "  ")
	if err != nil {
		return false, eris.Wrap(err, "config: encode template")
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return false, eris.Wrapf(err, "config: write %s", path)
	}
	return true, nil
}
