package executor_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snowdash/snowdash/core/runtime/connectors"
	"github.com/snowdash/snowdash/core/runtime/executor"
	"github.com/snowdash/snowdash/core/secrets"
	apperrors "github.com/snowdash/snowdash/core/shared/errors"
)

// staticCreds is a CredentialSource test double.
type staticCreds struct {
	creds secrets.Credentials
	err   error
}

func (s *staticCreds) Resolve() (secrets.Credentials, error) {
	return s.creds, s.err
}

// fakeCursor yields canned rows and counts Close calls.
type fakeCursor struct {
	columns    []string
	rows       [][]any
	pos        int
	scanErr    error
	iterErr    error
	closeErr   error
	closeCount int
}

func (c *fakeCursor) Columns() []string { return c.columns }

func (c *fakeCursor) Next() bool {
	if c.pos >= len(c.rows) {
		return false
	}
	c.pos++
	return true
}

func (c *fakeCursor) Scan(dest []any) error {
	if c.scanErr != nil {
		return c.scanErr
	}
	row := c.rows[c.pos-1]
	for i := range dest {
		*(dest[i].(*any)) = row[i]
	}
	return nil
}

func (c *fakeCursor) Err() error { return c.iterErr }

func (c *fakeCursor) Close() error {
	c.closeCount++
	return c.closeErr
}

// fakeConn hands out a fakeCursor and counts Close calls.
type fakeConn struct {
	cursor     *fakeCursor
	queryErr   error
	closeErr   error
	closeCount int
	lastQuery  string
	lastParams map[string]any
}

func (c *fakeConn) Query(ctx context.Context, statement string, params map[string]any) (connectors.Cursor, error) {
	c.lastQuery = statement
	c.lastParams = params
	if c.queryErr != nil {
		return nil, c.queryErr
	}
	return c.cursor, nil
}

func (c *fakeConn) Close() error {
	c.closeCount++
	return c.closeErr
}

func dialTo(conn *fakeConn, err error) connectors.DialFunc {
	return func(ctx context.Context, creds secrets.Credentials) (connectors.Conn, error) {
		if err != nil {
			return nil, err
		}
		return conn, nil
	}
}

func validCreds() *staticCreds {
	return &staticCreds{creds: secrets.Credentials{User: "u", Password: "p", Account: "a"}}
}

func TestExecutor_Run(t *testing.T) {
	cursor := &fakeCursor{
		columns: []string{"city", "region", "address", "country"},
		rows: [][]any{
			{"Austin", "TX", []byte("600 Congress Ave"), "US"},
			{"Toronto", "ON", "100 Queen St W", "CA"},
		},
	}
	conn := &fakeConn{cursor: cursor}
	exec := executor.New(validCreds(), dialTo(conn, nil))

	result, err := exec.Run(context.Background(), "SELECT city, region, address, country FROM v_america LIMIT 2", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"city", "region", "address", "country"}, result.Columns)
	require.Equal(t, 2, result.Len())
	assert.Equal(t, "Austin", result.Rows[0]["city"])
	// []byte values come back as strings.
	assert.Equal(t, "600 Congress Ave", result.Rows[0]["address"])

	assert.Equal(t, 1, conn.closeCount)
	assert.Equal(t, 1, cursor.closeCount)
}

func TestExecutor_Run_EmptyResult(t *testing.T) {
	cursor := &fakeCursor{columns: []string{"city", "region", "address", "country"}}
	conn := &fakeConn{cursor: cursor}
	exec := executor.New(validCreds(), dialTo(conn, nil))

	result, err := exec.Run(context.Background(), "SELECT city, region, address, country FROM v_america LIMIT 0", nil)
	require.NoError(t, err)

	assert.True(t, result.Empty())
	assert.NotNil(t, result.Rows)
	assert.Equal(t, []string{"city", "region", "address", "country"}, result.Columns)
	assert.Equal(t, 1, conn.closeCount)
	assert.Equal(t, 1, cursor.closeCount)
}

func TestExecutor_Run_ParamsPassedThrough(t *testing.T) {
	cursor := &fakeCursor{columns: []string{"city"}}
	conn := &fakeConn{cursor: cursor}
	exec := executor.New(validCreds(), dialTo(conn, nil))

	params := map[string]any{"country": "MX"}
	_, err := exec.Run(context.Background(), "SELECT city FROM v_america WHERE country = :country", params)
	require.NoError(t, err)

	assert.Equal(t, params, conn.lastParams)
	assert.Equal(t, "SELECT city FROM v_america WHERE country = :country", conn.lastQuery)
}

func TestExecutor_Run_ConfigurationError(t *testing.T) {
	configErr := apperrors.NewAppError(apperrors.ErrCodeConfiguration, "no credentials", nil)
	exec := executor.New(&staticCreds{err: configErr}, dialTo(nil, nil))

	_, err := exec.Run(context.Background(), "SELECT 1", nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsConfiguration(err))
}

func TestExecutor_Run_DialFailure(t *testing.T) {
	exec := executor.New(validCreds(), dialTo(nil, fmt.Errorf("network unreachable")))

	_, err := exec.Run(context.Background(), "SELECT 1", nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeConnectionFailed, apperrors.Code(err))
	assert.Contains(t, err.Error(), "network unreachable")
}

func TestExecutor_Run_QueryFailureStillClosesConn(t *testing.T) {
	conn := &fakeConn{queryErr: fmt.Errorf("SQL compilation error")}
	exec := executor.New(validCreds(), dialTo(conn, nil))

	_, err := exec.Run(context.Background(), "SELEC broken", nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeQueryFailed, apperrors.Code(err))
	assert.Contains(t, err.Error(), "SQL compilation error")
	assert.Equal(t, 1, conn.closeCount)
}

func TestExecutor_Run_ScanFailureClosesEverything(t *testing.T) {
	cursor := &fakeCursor{
		columns: []string{"city"},
		rows:    [][]any{{"Austin"}},
		scanErr: fmt.Errorf("type mismatch"),
	}
	conn := &fakeConn{cursor: cursor}
	exec := executor.New(validCreds(), dialTo(conn, nil))

	_, err := exec.Run(context.Background(), "SELECT city FROM v_america", nil)
	require.Error(t, err)
	assert.Equal(t, 1, conn.closeCount)
	assert.Equal(t, 1, cursor.closeCount)
}

func TestExecutor_Run_IterationFailure(t *testing.T) {
	cursor := &fakeCursor{
		columns: []string{"city"},
		iterErr: fmt.Errorf("connection reset"),
	}
	conn := &fakeConn{cursor: cursor}
	exec := executor.New(validCreds(), dialTo(conn, nil))

	_, err := exec.Run(context.Background(), "SELECT city FROM v_america", nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeQueryFailed, apperrors.Code(err))
	assert.Equal(t, 1, conn.closeCount)
	assert.Equal(t, 1, cursor.closeCount)
}

func TestExecutor_Run_CloseErrorsNeverMaskResult(t *testing.T) {
	cursor := &fakeCursor{
		columns:  []string{"city"},
		rows:     [][]any{{"Austin"}},
		closeErr: errors.New("cursor close failed"),
	}
	conn := &fakeConn{cursor: cursor, closeErr: errors.New("conn close failed")}
	exec := executor.New(validCreds(), dialTo(conn, nil))

	result, err := exec.Run(context.Background(), "SELECT city FROM v_america LIMIT 1", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Len())
	assert.Equal(t, 1, conn.closeCount)
	assert.Equal(t, 1, cursor.closeCount)
}

func TestDefaultQuery(t *testing.T) {
	assert.Equal(t,
		"SELECT city, region, address, country FROM v_america LIMIT 100",
		executor.DefaultQuery(100),
	)
	assert.Equal(t,
		"SELECT city, region, address, country FROM v_america LIMIT 10",
		executor.DefaultQuery(executor.MinRowLimit),
	)
}

func TestRowLimitBounds(t *testing.T) {
	assert.Equal(t, 10, executor.MinRowLimit)
	assert.Equal(t, 1000, executor.MaxRowLimit)
	assert.Equal(t, 10, executor.RowLimitStep)
	assert.Equal(t, 100, executor.DefaultRowLimit)
}
