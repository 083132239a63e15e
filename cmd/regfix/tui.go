package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/regfix/cmd/regfix/tui"
	"github.com/joshuapare/regfix/internal/logging"
)

func init() {
	rootCmd.AddCommand(newTUICmd())
}

func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui [hive]",
		Short: "Interactive analysis and repair",
		Long: `Opens a terminal interface showing the header report of [hive]. Select
the issues to fix with space, press f to apply them after confirming, u to
restore the backup and o to open another file. Without [hive] the interface
starts by asking for a path.`,
		Example: `  regfix tui SYSTEM
  regfix tui`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return tui.Run(path, tui.Options{
				HiveOptions: hiveOptions(),
				Logger:      logging.L,
				NoColor:     noColor,
			})
		},
	}
}
