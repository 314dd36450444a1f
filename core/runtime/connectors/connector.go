package connectors

import (
	"context"
	"fmt"

	"github.com/snowdash/snowdash/core/secrets"
)

// Driver names accepted by Dial.
const (
	DriverSnowflake = "snowflake"
	DriverPostgres  = "postgres"
)

// Conn is a single warehouse connection. One connection is dialed per
// user action and closed when the action completes; connections are
// never pooled or retained.
type Conn interface {
	// Query executes a statement and returns a cursor over the result.
	// params, when non-empty, are bound as query parameters. Values are
	// never interpolated into the statement text.
	Query(ctx context.Context, statement string, params map[string]any) (Cursor, error)

	// Close closes the connection and releases resources
	Close() error
}

// Cursor is an open result set. Close is required on every path, so
// release behavior is observable with a test double.
type Cursor interface {
	Columns() []string
	Next() bool
	Scan(dest []any) error
	Err() error
	Close() error
}

// DialFunc dials a warehouse connection for the given credentials.
type DialFunc func(ctx context.Context, creds secrets.Credentials) (Conn, error)

// Dial opens a connection using the named driver.
func Dial(ctx context.Context, driver string, creds secrets.Credentials) (Conn, error) {
	switch driver {
	case DriverSnowflake:
		return dialSnowflake(ctx, creds)
	case DriverPostgres:
		return dialPostgres(ctx, creds)
	default:
		return nil, fmt.Errorf("unsupported driver '%s' (expected '%s' or '%s')", driver, DriverSnowflake, DriverPostgres)
	}
}

// Dialer returns a DialFunc bound to the named driver, validating the
// name up front.
func Dialer(driver string) (DialFunc, error) {
	switch driver {
	case DriverSnowflake, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported driver '%s' (expected '%s' or '%s')", driver, DriverSnowflake, DriverPostgres)
	}
	return func(ctx context.Context, creds secrets.Credentials) (Conn, error) {
		return Dial(ctx, driver, creds)
	}, nil
}
