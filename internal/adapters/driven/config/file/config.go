// Package file loads the pipeline configuration from a TOML file into an
// explicit Config structure. The core never reads the environment or the
// config file itself; mode drivers receive Config at construction.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// DefaultWorksheet is the worksheet tab holding complaint rows.
const DefaultWorksheet = "Complaints"

// Config is the process-wide configuration for both pipeline modes.
type Config struct {
	Dropbox DropboxConfig `toml:"dropbox"`
	Sheets  SheetsConfig  `toml:"sheets"`
	SMTP    SMTPConfig    `toml:"smtp"`
	Backup  BackupConfig  `toml:"backup"`
	Mapping MappingConfig `toml:"mapping"`
	Ledger  LedgerConfig  `toml:"ledger"`
}

// DropboxConfig addresses the remote document store.
type DropboxConfig struct {
	// Token is the Dropbox API access token.
	Token string `toml:"token"`
	// BaseFolder is the folder all artifact paths are relative to.
	BaseFolder string `toml:"base_folder"`
}

// SheetsConfig addresses the complaints worksheet.
type SheetsConfig struct {
	SpreadsheetID string `toml:"spreadsheet_id"`
	Worksheet     string `toml:"worksheet"`
	// CredentialsFile is a Google service account JSON key file.
	CredentialsFile string `toml:"credentials_file"`
}

// SMTPConfig addresses the notification relay.
type SMTPConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	From     string `toml:"from"`
}

// BackupConfig holds backup-mode settings.
type BackupConfig struct {
	// EmailTo receives the admin notification after a backup run.
	EmailTo []string `toml:"email_to"`
	// OutDir is where local artifact copies are written.
	OutDir string `toml:"out_dir"`
}

// MappingConfig points at an optional question map override.
type MappingConfig struct {
	// File is a TOML question map replacing the built-in one.
	File string `toml:"file"`
	// Strict upgrades unmapped form labels to a normalisation error.
	Strict bool `toml:"strict"`
}

// LedgerConfig holds idempotency ledger settings.
type LedgerConfig struct {
	// Dir is the SQLite data directory; empty means ~/.complaints/data.
	Dir string `toml:"dir"`
}

// DefaultPath returns the default config file location,
// ~/.complaints/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".complaints", "config.toml"), nil
}

// Load reads a Config from a TOML file. A missing file yields the zero
// config with defaults applied, so flag-only invocations work.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyDefaults()
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Sheets.Worksheet == "" {
		c.Sheets.Worksheet = DefaultWorksheet
	}
	if c.Backup.OutDir == "" {
		c.Backup.OutDir = "backups"
	}
	if c.SMTP.Port == 0 {
		c.SMTP.Port = 587
	}
}

// RequireDropbox validates the document store settings.
func (c *Config) RequireDropbox() error {
	if c.Dropbox.Token == "" {
		return fmt.Errorf("missing required value: dropbox.token")
	}
	return nil
}

// RequireSheets validates the worksheet settings.
func (c *Config) RequireSheets() error {
	if c.Sheets.SpreadsheetID == "" {
		return fmt.Errorf("missing required value: sheets.spreadsheet_id")
	}
	if c.Sheets.CredentialsFile == "" {
		return fmt.Errorf("missing required value: sheets.credentials_file")
	}
	return nil
}

// RequireSMTP validates the notification settings.
func (c *Config) RequireSMTP() error {
	if c.SMTP.Host == "" {
		return fmt.Errorf("missing required value: smtp.host")
	}
	if c.SMTP.From == "" {
		return fmt.Errorf("missing required value: smtp.from")
	}
	return nil
}
