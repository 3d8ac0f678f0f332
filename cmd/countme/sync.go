package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"countme-core/internal/config"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one sync cycle and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		ctx := context.Background()
		st, engine, err := bootstrap(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		report, err := engine.Sync(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("pushed %d, pulled %d, skipped %d, deferred %d\n",
			report.Pushed, report.Pulled, report.Skipped, report.Deferred)
		for _, failure := range report.Failures {
			fmt.Printf("failure: %v\n", failure)
		}
		if len(report.Failures) > 0 {
			return fmt.Errorf("%d operations failed", len(report.Failures))
		}
		return nil
	},
}
