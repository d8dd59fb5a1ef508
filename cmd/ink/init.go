package main

import (
	"fmt"
	"os"

	"github.com/inkstream/inkstream/internal/core"
	"github.com/spf13/cobra"
)

var skipTutorial bool

func init() {
	initCmd.Flags().BoolVarP(&skipTutorial, "no-tutorial", "", false, "Do not create the tutorial stream")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Init a home directory",
	Long:  `Create the Inkstream home directory with a default configuration.`,
	Run: func(cmd *cobra.Command, args []string) {
		home, err := core.InitHomeDirectory()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		if !skipTutorial {
			if _, err := core.CurrentRepository().SeedTutorialStream(); err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
		}
		fmt.Printf("Initialized %s\n", home)
	},
}
