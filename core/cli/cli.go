package cli

import (
	"github.com/snowdash/snowdash/core/cli/cmd"
	"github.com/snowdash/snowdash/core/infrastructure/logging"
)

// Execute runs the CLI
func Execute() error {
	if err := cmd.Execute(); err != nil {
		logging.New("cli").Error(err.Error())
		return err
	}
	return nil
}
