package connectors

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/snowflakedb/gosnowflake"

	"github.com/snowdash/snowdash/core/secrets"
)

// dialSnowflake opens a Snowflake connection for a single action.
func dialSnowflake(ctx context.Context, creds secrets.Credentials) (Conn, error) {
	cfg := &gosnowflake.Config{
		Account:      creds.Account,
		User:         creds.User,
		Password:     creds.Password,
		Warehouse:    creds.Warehouse,
		Database:     creds.Database,
		Schema:       creds.Schema,
		Role:         creds.Role,
		InsecureMode: creds.InsecureMode,
	}
	dsn, err := gosnowflake.DSN(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build snowflake DSN: %w", err)
	}

	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open snowflake connection: %w", err)
	}

	// One connection per user action.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to snowflake account '%s': %w", creds.Account, err)
	}

	return &sqlConn{db: db, bind: bindNamed}, nil
}
