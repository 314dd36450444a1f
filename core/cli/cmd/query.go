package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/snowdash/snowdash/core/infrastructure/logging"
	"github.com/snowdash/snowdash/core/runtime/connectors"
	"github.com/snowdash/snowdash/core/runtime/executor"
	"github.com/snowdash/snowdash/core/secrets"
	"github.com/snowdash/snowdash/core/tabular"
)

var (
	queryLimit   int
	queryFormat  string
	queryParams  string
	queryTimeout time.Duration
)

// queryCmd runs a single statement and prints the result, covering the
// dashboard's preview behavior without a browser.
var queryCmd = &cobra.Command{
	Use:           "query [statement]",
	Short:         "Run a query against the warehouse and print the result",
	RunE:          runQuery,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().StringVarP(&secretsFile, "secrets", "s", "secrets.yaml", "Path to the secrets file")
	queryCmd.Flags().StringVar(&driver, "driver", connectors.DriverSnowflake, "Warehouse driver: snowflake or postgres")
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "l", executor.DefaultRowLimit, "Row limit for the default preview query")
	queryCmd.Flags().StringVarP(&queryFormat, "format", "o", "table", "Output format: table or csv")
	queryCmd.Flags().StringVar(&queryParams, "params", "", "Query parameters as a JSON object")
	queryCmd.Flags().DurationVar(&queryTimeout, "timeout", 60*time.Second, "Query timeout")
	queryCmd.Flags().IntVar(&logLevel, "log-level", 0, "Log level: 1=ERROR, 2=WARN, 3=INFO, 4=DEBUG")
	queryCmd.Flags().BoolVar(&verbose, "verbose", false, "Enable verbose logging (sets log level to DEBUG)")
}

func runQuery(cmd *cobra.Command, args []string) error {
	applyLogFlags()
	LoadEnvFiles(filepath.Dir(secretsFile))

	if queryLimit < executor.MinRowLimit || queryLimit > executor.MaxRowLimit {
		return fmt.Errorf("limit must be between %d and %d", executor.MinRowLimit, executor.MaxRowLimit)
	}

	statement := executor.DefaultQuery(queryLimit)
	if len(args) == 1 {
		statement = args[0]
	}

	var params map[string]any
	if queryParams != "" {
		if err := json.Unmarshal([]byte(queryParams), &params); err != nil {
			return fmt.Errorf("invalid --params JSON: %w", err)
		}
	}

	store, err := secrets.Load(secretsFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		store = secrets.NewStore()
	}

	dial, err := connectors.Dialer(driver)
	if err != nil {
		return err
	}
	exec := executor.New(secrets.NewResolver(store), dial)

	ctx, cancel := context.WithTimeout(cmd.Context(), queryTimeout)
	defer cancel()

	result, err := exec.Run(ctx, statement, params)
	if err != nil {
		return err
	}

	log := logging.New("cli")
	if result.Empty() {
		log.Warn("No results for this query.")
		return nil
	}

	switch queryFormat {
	case "csv":
		return tabular.EncodeCSV(cmd.OutOrStdout(), result)
	case "table":
		return printTable(cmd, result)
	default:
		return fmt.Errorf("unknown format '%s' (expected 'table' or 'csv')", queryFormat)
	}
}

func printTable(cmd *cobra.Command, result *tabular.Result) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
	for i, column := range result.Columns {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, column)
	}
	fmt.Fprintln(w)
	for _, row := range result.Rows {
		for i, column := range result.Columns {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			value := row[column]
			if value == nil {
				value = ""
			}
			fmt.Fprintf(w, "%v", value)
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}
