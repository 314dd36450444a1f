package connectors

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	_ "github.com/lib/pq"

	"github.com/snowdash/snowdash/core/secrets"
)

// dialPostgres opens a PostgreSQL connection. This is a development
// stand-in for the warehouse: the account field is read as host[:port],
// and insecure_mode disables TLS.
func dialPostgres(ctx context.Context, creds secrets.Credentials) (Conn, error) {
	sslMode := "require"
	if creds.InsecureMode {
		sslMode = "disable"
	}

	dsn := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(creds.User, creds.Password),
		Host:   creds.Account,
		Path:   "/" + creds.Database,
	}
	query := url.Values{}
	query.Set("sslmode", sslMode)
	if creds.Schema != "" {
		query.Set("search_path", creds.Schema)
	}
	dsn.RawQuery = query.Encode()

	db, err := sql.Open("postgres", dsn.String())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	// One connection per user action.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to postgres host '%s': %w", creds.Account, err)
	}

	return &sqlConn{db: db, bind: bindPositional}, nil
}
