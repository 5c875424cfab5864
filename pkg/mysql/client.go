package mysql

import (
	"context"
	"database/sql"

	driver "github.com/go-sql-driver/mysql"
	"github.com/oscshift/oscshift/pkg/connection"
	"github.com/pkg/errors"
)

// tlsKey names the connection's TLS settings in the driver's registry. The
// registry is process-global, so the key must be unique per endpoint or two
// clients with different TLS settings would share the last-registered
// config.
func tlsKey(details *connection.Details) string {
	if details.Socket != "" {
		return "oscshift:unix:" + details.Socket
	}
	return "oscshift:tcp:" + details.Addr()
}

// Client executes statements directly against a MySQL server. It serves the
// direct route: every statement the dispatcher does not send through the
// online-schema-change tool.
type Client struct {
	db *sql.DB
}

// NewClient opens a connection pool for the given connection details,
// preferring the unix socket when one is configured and registering mTLS
// settings with the driver when present.
//
// Example:
//
//	client, err := mysql.NewClient(details)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	if err := client.Exec(ctx, "CREATE INDEX idx_age ON users (age)"); err != nil {
//		return err
//	}
func NewClient(details *connection.Details) (*Client, error) {
	cfg := driver.NewConfig()
	cfg.User = details.Username
	cfg.Passwd = details.Password
	cfg.DBName = details.Database

	if details.Socket != "" {
		cfg.Net = "unix"
		cfg.Addr = details.Socket
	} else {
		cfg.Net = "tcp"
		cfg.Addr = details.Addr()
	}

	if details.TLS.Enabled() {
		tlsCfg, err := details.TLS.Config()
		if err != nil {
			return nil, err
		}

		key := tlsKey(details)
		if err := driver.RegisterTLSConfig(key, tlsCfg); err != nil {
			return nil, errors.Wrap(err, "failed to register TLS config")
		}
		cfg.TLSConfig = key
	}

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database connection")
	}

	return &Client{db: db}, nil
}

// NewClientWithDB wraps an existing database handle. Used by callers that
// manage their own pool, and by tests.
func NewClientWithDB(db *sql.DB) *Client {
	return &Client{db: db}
}

// Exec executes a single statement.
func (c *Client) Exec(ctx context.Context, statement string) error {
	if _, err := c.db.ExecContext(ctx, statement); err != nil {
		return errors.Wrap(err, "failed to execute statement")
	}
	return nil
}

// Ping verifies the server is reachable with the configured credentials.
func (c *Client) Ping(ctx context.Context) error {
	return errors.Wrap(c.db.PingContext(ctx), "failed to ping database")
}

// Close closes the underlying connection pool.
func (c *Client) Close() error {
	return c.db.Close()
}
