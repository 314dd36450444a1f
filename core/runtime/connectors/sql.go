package connectors

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// bindStyle selects how named parameters reach the driver.
type bindStyle int

const (
	// bindNamed passes parameters as sql.Named arguments, for drivers
	// that understand :name placeholders natively.
	bindNamed bindStyle = iota
	// bindPositional rewrites :name placeholders to $1..$n.
	bindPositional
)

// sqlConn adapts a database/sql handle to the Conn interface.
type sqlConn struct {
	db   *sql.DB
	bind bindStyle
}

func (c *sqlConn) Query(ctx context.Context, statement string, params map[string]any) (Cursor, error) {
	statement, args, err := bindParams(statement, params, c.bind)
	if err != nil {
		return nil, err
	}
	rows, err := c.db.QueryContext(ctx, statement, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	columns, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}
	return &sqlCursor{rows: rows, columns: columns}, nil
}

func (c *sqlConn) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// sqlCursor wraps *sql.Rows as a Cursor.
type sqlCursor struct {
	rows    *sql.Rows
	columns []string
}

func (c *sqlCursor) Columns() []string { return c.columns }

func (c *sqlCursor) Next() bool { return c.rows.Next() }

func (c *sqlCursor) Scan(dest []any) error { return c.rows.Scan(dest...) }

func (c *sqlCursor) Err() error { return c.rows.Err() }

func (c *sqlCursor) Close() error { return c.rows.Close() }

// Named parameter placeholder: :name, where a doubled colon (the
// postgres cast operator) is not a placeholder.
var namedParamPattern = regexp.MustCompile(`:([A-Za-z_][A-Za-z0-9_]*)`)

// bindParams prepares the statement and argument list for the driver's
// binding style. With bindNamed the statement is unchanged and the
// parameters become sql.Named arguments in sorted key order. With
// bindPositional every :name placeholder is rewritten to $n, reusing
// the same ordinal for repeated names.
func bindParams(statement string, params map[string]any, style bindStyle) (string, []any, error) {
	if len(params) == 0 {
		return statement, nil, nil
	}

	if style == bindNamed {
		keys := make([]string, 0, len(params))
		for key := range params {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		args := make([]any, 0, len(keys))
		for _, key := range keys {
			args = append(args, sql.Named(key, params[key]))
		}
		return statement, args, nil
	}

	var (
		out      strings.Builder
		args     []any
		ordinals = make(map[string]int)
		last     = 0
	)
	for _, match := range namedParamPattern.FindAllStringSubmatchIndex(statement, -1) {
		start, end := match[0], match[1]
		// Skip '::' casts.
		if start > 0 && statement[start-1] == ':' {
			continue
		}
		name := statement[match[2]:match[3]]
		value, ok := params[name]
		if !ok {
			return "", nil, fmt.Errorf("statement references parameter '%s' but no value was provided", name)
		}
		ordinal, seen := ordinals[name]
		if !seen {
			args = append(args, value)
			ordinal = len(args)
			ordinals[name] = ordinal
		}
		out.WriteString(statement[last:start])
		out.WriteString("$" + strconv.Itoa(ordinal))
		last = end
	}
	out.WriteString(statement[last:])
	return out.String(), args, nil
}
