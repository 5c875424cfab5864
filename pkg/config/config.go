package config

import (
	"io"
	"os"

	"github.com/oscshift/oscshift/pkg/command"
	"github.com/oscshift/oscshift/pkg/consts"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type (
	// Connection holds the raw connection settings from the project
	// configuration. Normalization and validation happen in
	// pkg/connection; this struct only mirrors the file format.
	Connection struct {
		// Host is the database server hostname
		Host string `yaml:"host,omitempty"`

		// Port is the database server port
		Port int `yaml:"port,omitempty"`

		// Socket is a unix domain socket path, used instead of host/port
		Socket string `yaml:"socket,omitempty"`

		// Username is the user to connect as
		Username string `yaml:"username,omitempty"`

		// Password is the password to connect with. Prefer supplying it via
		// the OSCSHIFT_PASSWORD environment variable over the config file.
		Password string `yaml:"password,omitempty"`

		// Database is the schema the target tables live in
		Database string `yaml:"database"`

		// SSLCA, SSLCert and SSLKey configure mTLS for the connection
		SSLCA   string `yaml:"ssl_ca,omitempty"`
		SSLCert string `yaml:"ssl_cert,omitempty"`
		SSLKey  string `yaml:"ssl_key,omitempty"`
	}

	// Tool holds the settings for the external online-schema-change tool.
	// These are resolved into command options once at startup; the engine
	// never probes tool capabilities at runtime.
	Tool struct {
		// Binary overrides the tool binary path
		Binary string `yaml:"binary,omitempty"`

		// ChunkSize is the number of rows copied per chunk
		ChunkSize int `yaml:"chunk_size,omitempty"`

		// MaxLoad throttles copying when the server load crosses this
		// threshold (e.g. "Threads_running=25")
		MaxLoad string `yaml:"max_load,omitempty"`

		// CriticalLoad aborts the run when the server load crosses this
		// threshold
		CriticalLoad string `yaml:"critical_load,omitempty"`

		// AlterForeignKeysMethod selects how the tool rewrites foreign keys
		// referencing the altered table
		AlterForeignKeysMethod string `yaml:"alter_foreign_keys_method,omitempty"`

		// ExtraArgs are passed through to the tool verbatim, in order
		ExtraArgs []string `yaml:"extra_args,omitempty"`

		// Verbose emits every classified output line instead of only
		// warnings and errors
		Verbose bool `yaml:"verbose,omitempty"`
	}

	// Config represents the project configuration for online schema
	// changes.
	Config struct {
		// Connection contains the database connection settings
		Connection Connection `yaml:"connection"`

		// Tool contains the external tool settings
		Tool Tool `yaml:"tool"`
	}
)

// LoadConfig parses a project configuration from the provided io.Reader.
//
// The function expects YAML-formatted configuration data with a connection
// section and an optional tool section. Missing tool settings fall back to
// defaults.
//
// Example:
//
//	yamlData := `
//	connection:
//	  host: db.internal
//	  database: app_production
//	tool:
//	  chunk_size: 2000
//	`
//
//	cfg, err := config.LoadConfig(strings.NewReader(yamlData))
//	if err != nil {
//		panic(err)
//	}
func LoadConfig(r io.Reader) (*Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	if cfg.Tool.Binary == "" {
		cfg.Tool.Binary = consts.DefaultBinary
	}

	return &cfg, nil
}

// LoadConfigFile loads a project configuration from the specified file path.
// This is a convenience function that opens the file and calls LoadConfig.
func LoadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open file: %s", path)
	}
	defer func() { _ = f.Close() }()

	return LoadConfig(f)
}

// ConnectionMap flattens the connection section into the generic key-value
// mapping consumed by connection.Build.
func (c *Config) ConnectionMap() map[string]any {
	return map[string]any{
		"host":     c.Connection.Host,
		"port":     c.Connection.Port,
		"socket":   c.Connection.Socket,
		"username": c.Connection.Username,
		"password": c.Connection.Password,
		"database": c.Connection.Database,
		"ssl_ca":   c.Connection.SSLCA,
		"ssl_cert": c.Connection.SSLCert,
		"ssl_key":  c.Connection.SSLKey,
	}
}

// Options resolves the tool section into command options. This is the
// single point where tool capabilities are decided; nothing downstream
// re-inspects configuration.
func (c *Config) Options() command.Options {
	return command.Options{
		Binary:                 c.Tool.Binary,
		ChunkSize:              c.Tool.ChunkSize,
		MaxLoad:                c.Tool.MaxLoad,
		CriticalLoad:           c.Tool.CriticalLoad,
		AlterForeignKeysMethod: c.Tool.AlterForeignKeysMethod,
		ExtraArgs:              c.Tool.ExtraArgs,
	}
}
