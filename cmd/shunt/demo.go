package main

import (
	"fmt"
	"os"

	"github.com/railyard/shunt"
	"github.com/railyard/shunt/examples/brewery"
	"github.com/railyard/shunt/pkg/recorder"
	"github.com/spf13/cobra"
)

// demoCmd runs the built-in cider pipeline end to end.
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the demonstration cider pipeline",
	Long: `Runs the bundled brewery pipeline (prepare, ferment, brew, bottle),
recording the run through the configured run store. Use --fail to skip
fermentation and watch the failure track in action.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger, err := setup(cmd)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		fail, _ := cmd.Flags().GetBool("fail")

		store := newRunStore(cfg, logger)
		rec := recorder.New(store, recorder.WithLogger(logger))

		wf := shunt.New("cider",
			shunt.WithLogger(logger),
			shunt.WithHooks(rec.Hooks()),
		)

		run := wf.Activate(cmd.Context(), brewery.DefaultIngredients).
			Chain(brewery.Prepare)
		if !fail {
			run.Chain(brewery.Ferment)
		}
		run.Chain(brewery.Brew).
			Chain(brewery.BottleUp)

		bottles, err := shunt.Resolve[[]brewery.Bottle](run)
		if err != nil {
			fmt.Printf("run %s failed: %v\n", run.ID(), err)
			os.Exit(1)
		}

		fmt.Printf("run %s bottled %d bottles\n", run.ID(), len(bottles))
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
	demoCmd.Flags().Bool("fail", false, "Skip fermentation so the pipeline fails at the brew step")
}
