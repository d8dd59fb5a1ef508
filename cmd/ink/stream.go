package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/inkstream/inkstream/internal/core"
	"github.com/spf13/cobra"
)

var streamDescription string
var streamTags string

func init() {
	streamNewCmd.Flags().StringVarP(&streamDescription, "description", "d", "", "Stream description")
	streamNewCmd.Flags().StringVarP(&streamTags, "tags", "", "", "Comma-separated tags")
	streamCmd.AddCommand(streamNewCmd)
	streamCmd.AddCommand(streamListCmd)
	streamCmd.AddCommand(streamRenameCmd)
	streamCmd.AddCommand(streamPinCmd)
	streamCmd.AddCommand(streamRmCmd)
	rootCmd.AddCommand(streamCmd)
}

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Manage streams",
}

var streamNewCmd = &cobra.Command{
	Use:   "new <title>",
	Short: "Create a stream",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		stream, err := core.CurrentRepository().CreateStream(args[0], streamDescription)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		if streamTags != "" {
			stream.SetTags(strings.Split(streamTags, ","))
			if err := stream.Save(); err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
		}
		fmt.Printf("Created stream %s\n", stream.ID[:8])
	},
}

var streamListCmd = &cobra.Command{
	Use:   "list",
	Short: "List streams",
	Run: func(cmd *cobra.Command, args []string) {
		streams, err := core.CurrentRepository().ListStreams()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		for _, stream := range streams {
			pin := "  "
			if stream.Pinned {
				pin = "📌"
			}
			title := stream.Title
			if stream.Pinned {
				title = color.New(color.Bold).Sprint(title)
			}
			fmt.Printf("%s %s  %s (%d entries)\n", pin, stream.ID[:8], title, stream.EntryCount)
			if stream.Description != "" {
				fmt.Printf("      %s\n", stream.Description)
			}
		}
	},
}

var streamRenameCmd = &cobra.Command{
	Use:   "rename <stream> <title>",
	Short: "Rename a stream",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		stream := mustFindStream(args[0])
		stream.Rename(args[1])
		if err := stream.Save(); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

var streamPinCmd = &cobra.Command{
	Use:   "pin <stream>",
	Short: "Toggle the pin of a stream",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		stream := mustFindStream(args[0])
		stream.SetPinned(!stream.Pinned)
		if err := stream.Save(); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

var streamRmCmd = &cobra.Command{
	Use:   "rm <stream>",
	Short: "Delete a stream and all its entries",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		stream := mustFindStream(args[0])
		if err := core.CurrentRepository().DeleteStream(stream); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		fmt.Printf("Deleted stream %q\n", stream.Title)
	},
}

// mustFindStream resolves a stream from an ID prefix or exits.
func mustFindStream(prefix string) *core.Stream {
	stream, err := core.CurrentRepository().FindStreamByPrefix(prefix)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	return stream
}
