package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/viper"
)

// Environment variable names recognized by the resolver. They predate this
// tool and are kept verbatim; note that SSH_PUBLIC_KEY carries PRIVATE key
// material despite the historical name.
const (
	EnvUser           = "SSH_USER"
	EnvHost           = "SSH_HOST"
	EnvPath           = "SSH_PATH"
	EnvKey            = "SSH_PUBLIC_KEY"
	EnvIncludeFolders = "WP_BACKUP_INCLUDE_ONLY_FOLDERS"
	EnvDest           = "BACKUP_DEST"
	EnvTag            = "BACKUP_TAG"
)

// Defaults for the optional settings.
const (
	DefaultIncludeFolders = "uploads,languages"
	DefaultDest           = "~"
)

// Config is the resolved, immutable run configuration. Later stages receive
// it by value and never touch the process environment themselves.
type Config struct {
	SSHUser string
	SSHHost string
	SSHPath string

	// Key holds private key material verbatim, or "" for agent/password
	// authentication. It must never appear in logs or error messages.
	Key string

	// IncludeFolders keeps the comma-split entries exactly as configured.
	// Trimming and blank filtering happen in the folder selector, so a
	// value of only separators is caught there rather than silently
	// replaced by the default here.
	IncludeFolders []string

	Dest string
	Tag  string
}

// MissingVarsError names every required variable that is absent, not just
// the first one found, so the operator fixes the environment in one pass.
type MissingVarsError struct {
	Vars []string
}

func (e *MissingVarsError) Error() string {
	return "missing required environment variables: " + strings.Join(e.Vars, ", ")
}

var bindings = map[string]string{
	"ssh-user":        EnvUser,
	"ssh-host":        EnvHost,
	"ssh-path":        EnvPath,
	"ssh-key":         EnvKey,
	"include-folders": EnvIncludeFolders,
	"backup-dest":     EnvDest,
	"backup-tag":      EnvTag,
}

// Load resolves the configuration from the process environment. One
// informational line per defaulted value goes to logw. An empty variable
// counts as absent, matching the shell tool this replaces.
func Load(logw io.Writer) (Config, error) {
	v := viper.New()
	for key, env := range bindings {
		// Exact, unprefixed names.
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", env, err)
		}
	}
	return loadFrom(v, logw)
}

func loadFrom(v *viper.Viper, logw io.Writer) (Config, error) {
	cfg := Config{
		SSHUser: strings.TrimSpace(v.GetString("ssh-user")),
		SSHHost: strings.TrimSpace(v.GetString("ssh-host")),
		SSHPath: strings.TrimSpace(v.GetString("ssh-path")),
		Key:     v.GetString("ssh-key"),
	}

	var missing []string
	if cfg.SSHUser == "" {
		missing = append(missing, EnvUser)
	}
	if cfg.SSHHost == "" {
		missing = append(missing, EnvHost)
	}
	if cfg.SSHPath == "" {
		missing = append(missing, EnvPath)
	}
	if len(missing) > 0 {
		return Config{}, &MissingVarsError{Vars: missing}
	}

	// Defaults are applied here instead of via viper.SetDefault so each
	// fallback is visible to the operator.
	folders := v.GetString("include-folders")
	if strings.TrimSpace(folders) == "" {
		folders = DefaultIncludeFolders
		fmt.Fprintf(logw, "%s not set, using default %q\n", EnvIncludeFolders, DefaultIncludeFolders)
	}
	cfg.IncludeFolders = strings.Split(folders, ",")

	cfg.Dest = strings.TrimSpace(v.GetString("backup-dest"))
	if cfg.Dest == "" {
		cfg.Dest = DefaultDest
		fmt.Fprintf(logw, "%s not set, using default %q\n", EnvDest, DefaultDest)
	}

	cfg.Tag = strings.TrimSpace(v.GetString("backup-tag"))
	return cfg, nil
}
