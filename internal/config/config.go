// Package config resolves runtime settings from environment variables and
// command-line flags. Flags win over the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/abhisek/synapse/internal/store"
	"github.com/spf13/pflag"
)

// Environment variables.
const (
	EnvDB       = "SYNAPSE_DB"
	EnvDebug    = "SYNAPSE_DEBUG"
	EnvLogFile  = "SYNAPSE_LOG_FILE"
	EnvLogLevel = "SYNAPSE_LOG_LEVEL"
)

// Flag names.
const (
	FlagDB      = "db"
	FlagDebug   = "debug"
	FlagLogFile = "log-file"
)

const defaultLogLevel = "info"

type Config struct {
	DBPath   string
	LogFile  string
	LogLevel string
	// Debug enables developer shortcuts such as forcing a challenge pass.
	Debug bool
}

// BindFlags registers the persistent flags Load reads.
func BindFlags(fs *pflag.FlagSet) {
	fs.String(FlagDB, "", "Path to SQLite database file (overrides "+EnvDB+")")
	fs.Bool(FlagDebug, false, "Enable developer shortcuts (overrides "+EnvDebug+")")
	fs.String(FlagLogFile, "", "Path to the log file (overrides "+EnvLogFile+")")
}

// Load resolves the configuration. fs may be nil, in which case only the
// environment and defaults apply. The parent directories of the database
// and log file are created.
func Load(fs *pflag.FlagSet) (Config, error) {
	cfg := Config{LogLevel: defaultLogLevel}

	if lvl := strings.TrimSpace(os.Getenv(EnvLogLevel)); lvl != "" {
		cfg.LogLevel = strings.ToLower(lvl)
	}

	if v := os.Getenv(EnvDebug); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvDebug, err)
		}
		cfg.Debug = debug
	}
	if fs != nil && fs.Changed(FlagDebug) {
		debug, err := fs.GetBool(FlagDebug)
		if err != nil {
			return Config{}, err
		}
		cfg.Debug = debug
	}

	dbPath, err := resolveDBPath(fs)
	if err != nil {
		return Config{}, fmt.Errorf("resolve DB path: %w", err)
	}
	cfg.DBPath = dbPath

	logFile, err := resolveLogFile(fs)
	if err != nil {
		return Config{}, fmt.Errorf("resolve log file: %w", err)
	}
	cfg.LogFile = logFile

	return cfg, nil
}

func resolveDBPath(fs *pflag.FlagSet) (string, error) {
	if p := flagString(fs, FlagDB); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

func resolveLogFile(fs *pflag.FlagSet) (string, error) {
	p := flagString(fs, FlagLogFile)
	if p == "" {
		p = os.Getenv(EnvLogFile)
	}
	if p == "" {
		dir, err := store.DataDir()
		if err != nil {
			return "", err
		}
		p = filepath.Join(dir, "synapse.log")
	}
	return p, store.EnsureDir(p)
}

func flagString(fs *pflag.FlagSet, name string) string {
	if fs == nil || fs.Lookup(name) == nil {
		return ""
	}
	v, _ := fs.GetString(name)
	return v
}
