package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "countme",
	Short: "countme tracks calories offline and syncs across devices",
	Long: "countme is an offline-first calorie and macro tracker. All data lives in a " +
		"local SQLite store; changes are queued and synchronized to a CouchDB remote " +
		"whenever the network allows, with last-write-wins conflict resolution.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(statusCmd)
}
