// Package config exposes the runtime settings of the leadmap server.
// Values come from LEADMAP_* environment variables, then from an optional
// TOML file named by LEADMAP_CONFIG, then from built-in defaults.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

//go:embed version
var version string

//go:embed name
var name string

const envPrefix = "LEADMAP_"

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

var (
	fileMu     sync.RWMutex
	fileValues = map[string]any{}
)

// LoadFile reads a flat TOML document whose keys mirror the environment
// variables without their prefix (port, db_type, session_secret, ...).
// An empty path clears previously loaded values.
func LoadFile(path string) error {
	values := map[string]any{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := toml.Unmarshal(data, &values); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}

	normalized := make(map[string]any, len(values))
	for k, v := range values {
		normalized[strings.ToLower(k)] = v
	}

	fileMu.Lock()
	fileValues = normalized
	fileMu.Unlock()
	return nil
}

// GetConfigFile returns the TOML file path requested through the environment.
func GetConfigFile() string {
	return os.Getenv(envPrefix + "CONFIG")
}

func lookup(key string) string {
	if v, ok := os.LookupEnv(envPrefix + strings.ToUpper(key)); ok {
		return v
	}
	fileMu.RLock()
	defer fileMu.RUnlock()
	if v, ok := fileValues[key]; ok {
		return fmt.Sprint(v)
	}
	return ""
}

func lookupInt(key string, def int) int {
	v := lookup(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := lookup("log_level")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return lookup("debug") == "true"
}

func GetLogFolder() string {
	logFolderPath := lookup("log_folder")
	if logFolderPath == "" {
		logFolderPath = "log"
	}
	return logFolderPath
}

func GetDBFolderPath() string {
	dbFolderPath := lookup("db_folder")
	if dbFolderPath == "" {
		dbFolderPath = "db"
	}
	return dbFolderPath
}

func GetDBPath() string {
	return filepath.Join(GetDBFolderPath(), GetName()+".db")
}

func GetListen() string {
	return lookup("listen")
}

func GetPort() int {
	return lookupInt("port", 5000)
}

// GetCertFile and GetKeyFile name the TLS key pair. When both are set the
// server speaks HTTPS and redirects plain HTTP on the same port.
func GetCertFile() string {
	return lookup("cert_file")
}

func GetKeyFile() string {
	return lookup("key_file")
}

// GetSessionSecret returns the configured cookie signing secret. An empty
// result means the server generates a fresh one per process.
func GetSessionSecret() string {
	return lookup("session_secret")
}

// GetSessionMaxAge returns the session lifetime in minutes; 0 keeps the
// cookie for the browser session only.
func GetSessionMaxAge() int {
	return lookupInt("session_max_age", 0)
}

func GetRedisAddr() string {
	return lookup("redis_addr")
}

func GetRedisPassword() string {
	return lookup("redis_password")
}

func GetRedisDB() int {
	return lookupInt("redis_db", 0)
}

// GetLoginRateLimit returns the number of auth attempts allowed per client
// IP per minute. Zero disables throttling.
func GetLoginRateLimit() int {
	return lookupInt("login_rate_limit", 20)
}
