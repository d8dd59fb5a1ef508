package main

import (
	"fmt"
	"os"

	"github.com/inkstream/inkstream/internal/core"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Archive every stream to the configured remote",
	Run: func(cmd *cobra.Command, args []string) {
		remote, err := core.CurrentConfig().ConfiguredRemote()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		count, err := core.CurrentRepository().BackupStreams(remote)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		fmt.Printf("Archived %d streams\n", count)
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Recreate archived streams from the configured remote",
	Long:  `Recreate archived streams from the configured remote. Existing streams are left untouched.`,
	Run: func(cmd *cobra.Command, args []string) {
		remote, err := core.CurrentConfig().ConfiguredRemote()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		count, err := core.CurrentRepository().RestoreStreams(remote)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		fmt.Printf("Restored %d streams\n", count)
	},
}
