package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// runsCmd lists persisted run records.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List persisted run records",
	Long: `Lists the run records in the configured store. Only useful with a
shared store (redis.addr in the config); the in-memory store is empty in a
fresh process.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger, err := setup(cmd)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		store := newRunStore(cfg, logger)
		ctx := cmd.Context()

		ids, err := store.List(ctx)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		if len(ids) == 0 {
			fmt.Println("no run records")
			return
		}

		for _, id := range ids {
			record, err := store.Load(ctx, id)
			if err != nil {
				logger.Warn("failed to load run record", "run_id", id, "err", err)
				continue
			}
			line := fmt.Sprintf("%s  %-9s  %s  steps=%d", record.RunID, record.Status, record.Workflow, len(record.Steps))
			if record.Error != "" {
				line += "  error=" + record.Error
			}
			fmt.Println(line)
		}
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
}
