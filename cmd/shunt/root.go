package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "shunt",
	Short: "shunt is a Railway-Oriented workflow engine",
	Long: `shunt composes typed steps into pipelines with implicit, memory-based
argument passing and two-track success/failure semantics. This CLI runs the
built-in demonstration pipeline and inspects persisted run records.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error); overrides config")
}
