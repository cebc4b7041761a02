// Package env loads suite configuration from the process
// environment and .env files, with helpers to redact secrets
// before they reach logs.
package env

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"
)

// Setting names resolvable through GetSetting.
const (
	SettingVectors     = "vectors"
	SettingReport      = "report"
	SettingRemoteURL   = "remote_url"
	SettingRemoteToken = "remote_token"
	SettingMonitorAddr = "monitor_addr"
	SettingLogsDir     = "logs_dir"
)

// Loader defines the interface for environment variable
// management.
type Loader interface {
	// Load reads environment variables from a .env file.
	Load(filepath string) error
	// Get retrieves an environment variable value.
	Get(key string) string
	// GetRequired retrieves a required environment variable or
	// returns an error.
	GetRequired(key string) (string, error)
	// GetWithDefault retrieves an environment variable with a
	// default fallback.
	GetWithDefault(key, defaultValue string) string
	// GetSetting retrieves a named suite setting through its
	// environment variable mapping.
	GetSetting(name string) string
	// Set sets an environment variable.
	Set(key, value string) error
	// All returns all loaded environment variables.
	All() map[string]string
}

// DefaultLoader implements Loader with .env file support and
// suite setting mappings.
type DefaultLoader struct {
	mu       sync.RWMutex
	vars     map[string]string
	loaded   bool
	mappings map[string]string // setting name -> env var name
}

// NewLoader creates a new DefaultLoader with the standard suite
// setting mappings.
func NewLoader() *DefaultLoader {
	return &DefaultLoader{
		vars: make(map[string]string),
		mappings: map[string]string{
			SettingVectors:     "AIFEELS_VECTORS",
			SettingReport:      "AIFEELS_REPORT",
			SettingRemoteURL:   "AIFEELS_REMOTE_URL",
			SettingRemoteToken: "AIFEELS_REMOTE_TOKEN",
			SettingMonitorAddr: "AIFEELS_MONITOR_ADDR",
			SettingLogsDir:     "AIFEELS_LOGS_DIR",
		},
	}
}

// NewLoaderWithMappings creates a loader with additional custom
// setting-to-env-var mappings.
func NewLoaderWithMappings(mappings map[string]string) *DefaultLoader {
	l := NewLoader()
	for k, v := range mappings {
		l.mappings[strings.ToLower(k)] = v
	}
	return l
}

func (l *DefaultLoader) Load(filepath string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	file, err := os.Open(filepath)
	if err != nil {
		return fmt.Errorf("open env file %s: %w", filepath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		// Remove surrounding quotes
		value = strings.Trim(value, `"'`)
		l.vars[key] = value
	}

	l.loaded = true
	return scanner.Err()
}

func (l *DefaultLoader) Get(key string) string {
	// OS env takes precedence
	if v := os.Getenv(key); v != "" {
		return v
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.vars[key]
}

func (l *DefaultLoader) GetRequired(key string) (string, error) {
	v := l.Get(key)
	if v == "" {
		return "", fmt.Errorf("required environment variable %s is not set", key)
	}
	return v, nil
}

func (l *DefaultLoader) GetWithDefault(key, defaultValue string) string {
	if v := l.Get(key); v != "" {
		return v
	}
	return defaultValue
}

// GetSetting resolves a suite setting through the mapping table.
// Unmapped names fall back to AIFEELS_<NAME>.
func (l *DefaultLoader) GetSetting(name string) string {
	l.mu.RLock()
	envVar, ok := l.mappings[strings.ToLower(name)]
	l.mu.RUnlock()
	if !ok {
		envVar = "AIFEELS_" + strings.ToUpper(name)
	}
	return l.Get(envVar)
}

func (l *DefaultLoader) Set(key, value string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.vars[key] = value
	return os.Setenv(key, value)
}

func (l *DefaultLoader) All() map[string]string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	result := make(map[string]string, len(l.vars))
	for k, v := range l.vars {
		result[k] = v
	}
	return result
}
