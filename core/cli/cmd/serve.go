package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/snowdash/snowdash/core/infrastructure/logging"
	"github.com/snowdash/snowdash/core/runtime"
	"github.com/snowdash/snowdash/core/runtime/connectors"
)

// serveCmd runs the dashboard HTTP server.
var serveCmd = &cobra.Command{
	Use:           "serve",
	Short:         "Serve the warehouse preview dashboard",
	RunE:          serveDashboard,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&secretsFile, "secrets", "s", "secrets.yaml", "Path to the secrets file")
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "Server port (overrides PORT env var)")
	serveCmd.Flags().StringVar(&driver, "driver", connectors.DriverSnowflake, "Warehouse driver: snowflake or postgres")
	serveCmd.Flags().IntVar(&logLevel, "log-level", 0, "Log level: 1=ERROR, 2=WARN, 3=INFO, 4=DEBUG")
	serveCmd.Flags().BoolVar(&verbose, "verbose", false, "Enable verbose logging (sets log level to DEBUG)")
}

func serveDashboard(cmd *cobra.Command, args []string) error {
	applyLogFlags()
	LoadEnvFiles(filepath.Dir(secretsFile))

	rt, err := runtime.NewRuntime(runtime.Options{
		Port:        resolvePort(),
		Driver:      driver,
		SecretsPath: secretsFile,
	})
	if err != nil {
		return err
	}
	return rt.Start()
}

func applyLogFlags() {
	if verbose {
		logging.SetLogLevel(logging.LogLevelDebug)
		return
	}
	if logLevel != 0 {
		logging.SetLogLevel(logLevel)
	}
}

// resolvePort picks the flag value, then the PORT env var, then the
// default.
func resolvePort() string {
	if port != "" {
		return port
	}
	if env := os.Getenv("PORT"); env != "" {
		return env
	}
	return "8080"
}
