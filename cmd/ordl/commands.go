package main

import (
	"os"

	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath     string
	logLevel       string
	storageBackend string
	storagePath    string
}

// newRootCmd builds the command tree. Each call returns an independent tree.
func newRootCmd() *cobra.Command {
	var (
		flags rootFlags
		a     *app
	)
	root := &cobra.Command{
		Use:   "ordl",
		Short: "Put six historical events in order, one puzzle a day",
		Long: `ordl serves and plays the daily chronological ordering puzzle.

Every day at the rollover hour a new set of six events unlocks. Players get
four attempts to put them in order; correct positions lock after each try.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			a, err = loadApp(flags.configPath, flags.logLevel, flags.storageBackend, flags.storagePath)
			return err
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", os.Getenv("ORDL_CONFIG"), "YAML config file")
	pf.StringVar(&flags.logLevel, "log-level", "", "debug|info|warn|error (overrides config)")
	pf.StringVar(&flags.storageBackend, "storage", "", "fs|badger|sqlite|memory (overrides config)")
	pf.StringVar(&flags.storagePath, "data-dir", "", "storage directory (overrides config)")

	get := func() *app { return a }
	root.AddCommand(
		newServeCmd(get),
		newTodayCmd(get),
		newPlayCmd(get),
		newStatsCmd(get),
		newSolutionCmd(get),
		newValidateCmd(get),
	)
	return root
}
