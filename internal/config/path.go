package config

import (
	"os"
	"path/filepath"
)

const (
	DefaultConfigDir  = "/etc/coastcam"
	DefaultConfigName = "config.yaml"
)

const (
	EnvConfigPath = "COASTCAM_CONFIG"
	EnvPrefix     = "COASTCAM"
)

var pathOverride string

// SetPathOverride makes ResolveConfigPath return p (the --config flag).
func SetPathOverride(p string) {
	pathOverride = p
}

func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir, DefaultConfigName)
}

func ResolveConfigPath() string {
	if pathOverride != "" {
		return pathOverride
	}
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return DefaultConfigPath()
}
