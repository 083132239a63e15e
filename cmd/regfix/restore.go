package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/regfix/pkg/hive"
)

func init() {
	rootCmd.AddCommand(newRestoreCmd())
}

func newRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <hive>",
		Short: "Put back the copy saved before the last fix",
		Long: `Copies <hive>.backup over <hive>. The backup is left in place.`,
		Example: `  regfix restore SYSTEM`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRestore(args)
		},
	}
}

func runRestore(args []string) error {
	hivePath := args[0]
	if err := hive.RestoreBackup(hivePath, hiveOptions()...); err != nil {
		return fmt.Errorf("restore %s: %w", hivePath, err)
	}
	if jsonOut {
		return printJSON(map[string]string{"path": hivePath, "backup": hive.BackupPath(hivePath)})
	}
	printInfo("Restored %s from %s\n", hivePath, hive.BackupPath(hivePath))
	return nil
}
