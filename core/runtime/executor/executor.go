package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/snowdash/snowdash/core/infrastructure/logging"
	"github.com/snowdash/snowdash/core/runtime/connectors"
	"github.com/snowdash/snowdash/core/secrets"
	"github.com/snowdash/snowdash/core/shared/errors"
	"github.com/snowdash/snowdash/core/tabular"
)

// Row-limit control bounds for the preview query.
const (
	MinRowLimit     = 10
	MaxRowLimit     = 1000
	RowLimitStep    = 10
	DefaultRowLimit = 100
)

// DefaultQuery returns the preview statement for the given row limit.
func DefaultQuery(limit int) string {
	return fmt.Sprintf("SELECT city, region, address, country FROM v_america LIMIT %d", limit)
}

// CredentialSource yields the credentials for one action.
type CredentialSource interface {
	Resolve() (secrets.Credentials, error)
}

// Executor runs one query per call against the warehouse. Each call
// resolves credentials, dials a fresh connection, materializes the full
// result set, and releases the cursor and connection on every exit
// path. There is no pooling, caching, or retry.
type Executor struct {
	creds CredentialSource
	dial  connectors.DialFunc
	log   *logging.Logger
}

// New creates a new query executor
func New(creds CredentialSource, dial connectors.DialFunc) *Executor {
	return &Executor{
		creds: creds,
		dial:  dial,
		log:   logging.New("runtime:executor"),
	}
}

// Run executes a single statement and returns the materialized result.
// A query that returns zero rows yields a valid empty result, not an
// error.
func (e *Executor) Run(ctx context.Context, query string, params map[string]any) (*tabular.Result, error) {
	creds, err := e.creds.Resolve()
	if err != nil {
		observe(statusConfigError, 0)
		return nil, err
	}

	start := time.Now()

	conn, err := e.dial(ctx, creds)
	if err != nil {
		observe(statusConnectionError, time.Since(start))
		return nil, errors.WrapError(errors.ErrCodeConnectionFailed, "failed to connect to warehouse", err)
	}
	// Close failures are swallowed so they never mask the query error.
	defer func() { _ = conn.Close() }()

	e.log.Debugf("executing statement: %s", query)

	cursor, err := conn.Query(ctx, query, params)
	if err != nil {
		observe(statusQueryError, time.Since(start))
		return nil, errors.WrapError(errors.ErrCodeQueryFailed, "query execution failed", err)
	}
	defer func() { _ = cursor.Close() }()

	result, err := materialize(cursor)
	if err != nil {
		observe(statusQueryError, time.Since(start))
		return nil, errors.WrapError(errors.ErrCodeQueryFailed, "failed to read result set", err)
	}

	observe(statusOK, time.Since(start))
	e.log.Debugf("query returned %d row(s)", result.Len())
	return result, nil
}

// materialize reads the whole cursor into memory.
func materialize(cursor connectors.Cursor) (*tabular.Result, error) {
	columns := cursor.Columns()
	result := tabular.NewResult(columns)

	for cursor.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := cursor.Scan(valuePtrs); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(tabular.Row, len(columns))
		for i, column := range columns {
			value := values[i]
			// Convert []byte to string for rendering and JSON serialization.
			if b, ok := value.([]byte); ok {
				row[column] = string(b)
			} else {
				row[column] = value
			}
		}
		result.Append(row)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return result, nil
}
