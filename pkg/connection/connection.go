package connection

import (
	"fmt"
	"strconv"

	"github.com/oscshift/oscshift/pkg/consts"
	"github.com/pkg/errors"
)

type (
	// Details holds the normalized connection parameters needed to reach the
	// database server and to invoke the external online-schema-change tool.
	//
	// Details is built once per invocation from a generic key-value
	// configuration and is immutable thereafter. It must never be logged
	// without passing through the sanitizer in pkg/logging first.
	Details struct {
		// Host is the database server hostname or IP address
		Host string

		// Port is the database server port (defaults to 3306 when a host is set)
		Port int

		// Socket is the path to a unix domain socket, used instead of
		// host/port when set
		Socket string

		// Username is the user to connect as (defaults to "root", the
		// historical default of the external tool)
		Username string

		// Password is the password to connect with (may be empty)
		Password string

		// Database is the schema the target table lives in
		Database string

		// TLS holds optional mTLS settings for the connection
		TLS TLSSettings
	}

	// ConfigError reports a connection configuration that is structurally
	// incomplete. It names the missing field so callers can surface an
	// actionable message. ConfigError is always fatal to the current call
	// and is never retried.
	ConfigError struct {
		Field string
	}
)

func (e *ConfigError) Error() string {
	return fmt.Sprintf("connection configuration is missing required field: %s", e.Field)
}

// Build normalizes a generic key-value configuration into Details.
//
// Recognized keys: host, port, socket, username (or user), password,
// database, ssl_ca, ssl_cert, ssl_key. Values may be strings or numbers
// (port), matching what YAML and flag parsing produce.
//
// Build performs purely structural validation, no network I/O: it fails
// with a *ConfigError when neither host nor socket is present, or when the
// database name is absent.
//
// Example:
//
//	details, err := connection.Build(map[string]any{
//		"host":     "db.internal",
//		"username": "deploy",
//		"password": "secret",
//		"database": "app_production",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
func Build(config map[string]any) (*Details, error) {
	details := &Details{
		Host:     stringValue(config, "host"),
		Socket:   stringValue(config, "socket"),
		Username: stringValue(config, "username"),
		Password: stringValue(config, "password"),
		Database: stringValue(config, "database"),
		TLS: TLSSettings{
			CAFile:   stringValue(config, "ssl_ca"),
			CertFile: stringValue(config, "ssl_cert"),
			KeyFile:  stringValue(config, "ssl_key"),
		},
	}

	if details.Username == "" {
		details.Username = stringValue(config, "user")
	}
	if details.Username == "" {
		details.Username = consts.DefaultUsername
	}

	port, err := portValue(config)
	if err != nil {
		return nil, err
	}
	details.Port = port

	if details.Host == "" && details.Socket == "" {
		return nil, &ConfigError{Field: "host"}
	}
	if details.Database == "" {
		return nil, &ConfigError{Field: "database"}
	}

	if details.Host != "" && details.Port == 0 {
		details.Port = consts.DefaultPort
	}

	return details, nil
}

// Addr returns the host:port pair for TCP connections, or the empty string
// when the connection uses a unix socket only.
func (d *Details) Addr() string {
	if d.Host == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", d.Host, d.Port)
}

func stringValue(config map[string]any, key string) string {
	v, ok := config[key]
	if !ok || v == nil {
		return ""
	}

	switch s := v.(type) {
	case string:
		return s
	default:
		return fmt.Sprintf("%v", s)
	}
}

func portValue(config map[string]any) (int, error) {
	v, ok := config["port"]
	if !ok || v == nil {
		return 0, nil
	}

	switch p := v.(type) {
	case int:
		return p, nil
	case int64:
		return int(p), nil
	case float64:
		return int(p), nil
	case string:
		if p == "" {
			return 0, nil
		}
		port, err := strconv.Atoi(p)
		if err != nil {
			return 0, errors.Wrapf(err, "invalid port value: %s", p)
		}
		return port, nil
	default:
		return 0, errors.Errorf("invalid port value: %v", v)
	}
}
