package connectors

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindParams_NoParams(t *testing.T) {
	statement, args, err := bindParams("SELECT 1", nil, bindPositional)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1", statement)
	assert.Empty(t, args)
}

func TestBindParams_Named(t *testing.T) {
	statement, args, err := bindParams(
		"SELECT * FROM v_america WHERE country = :country AND city = :city",
		map[string]any{"country": "US", "city": "Austin"},
		bindNamed,
	)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM v_america WHERE country = :country AND city = :city", statement)
	// Arguments come out in sorted key order.
	require.Len(t, args, 2)
	assert.Equal(t, sql.Named("city", "Austin"), args[0])
	assert.Equal(t, sql.Named("country", "US"), args[1])
}

func TestBindParams_Positional(t *testing.T) {
	tests := []struct {
		name              string
		statement         string
		params            map[string]any
		expectedStatement string
		expectedArgs      []any
		expectedError     string
	}{
		{
			name:              "single placeholder",
			statement:         "SELECT * FROM v_america WHERE country = :country",
			params:            map[string]any{"country": "BR"},
			expectedStatement: "SELECT * FROM v_america WHERE country = $1",
			expectedArgs:      []any{"BR"},
		},
		{
			name:              "placeholders in statement order",
			statement:         "SELECT * FROM v_america WHERE city = :city AND country = :country",
			params:            map[string]any{"country": "BR", "city": "Recife"},
			expectedStatement: "SELECT * FROM v_america WHERE city = $1 AND country = $2",
			expectedArgs:      []any{"Recife", "BR"},
		},
		{
			name:              "repeated placeholder reuses ordinal",
			statement:         "SELECT * FROM v_america WHERE region = :r OR city = :r",
			params:            map[string]any{"r": "Lima"},
			expectedStatement: "SELECT * FROM v_america WHERE region = $1 OR city = $1",
			expectedArgs:      []any{"Lima"},
		},
		{
			name:              "double colon cast is not a placeholder",
			statement:         "SELECT id::text FROM v_america WHERE country = :country",
			params:            map[string]any{"country": "AR"},
			expectedStatement: "SELECT id::text FROM v_america WHERE country = $1",
			expectedArgs:      []any{"AR"},
		},
		{
			name:          "missing parameter value",
			statement:     "SELECT * FROM v_america WHERE country = :country",
			params:        map[string]any{"city": "Quito"},
			expectedError: "statement references parameter 'country'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			statement, args, err := bindParams(tt.statement, tt.params, bindPositional)
			if tt.expectedError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatement, statement)
			assert.Equal(t, tt.expectedArgs, args)
		})
	}
}

func TestDialer_UnsupportedDriver(t *testing.T) {
	_, err := Dialer("oracle")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported driver 'oracle'")

	for _, driver := range []string{DriverSnowflake, DriverPostgres} {
		dial, err := Dialer(driver)
		require.NoError(t, err)
		assert.NotNil(t, dial)
	}
}
