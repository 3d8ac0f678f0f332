package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"countme-core/internal/config"
	"countme-core/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show entities awaiting upload",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		var loc *time.Location
		if cfg.Store.Timezone != "" {
			if loc, err = time.LoadLocation(cfg.Store.Timezone); err != nil {
				return fmt.Errorf("load timezone %q: %w", cfg.Store.Timezone, err)
			}
		}

		st, err := store.Open(cfg.Store.Path, loc)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := context.Background()

		if cfg.Sync.UserID != "" {
			printTodaySummary(ctx, st, cfg.Sync.UserID)
		}

		pending, err := st.Pending(ctx)
		if err != nil {
			return err
		}

		if len(pending) == 0 {
			fmt.Println("everything is synced")
			return nil
		}
		fmt.Printf("%d entities awaiting upload:\n", len(pending))
		for _, entry := range pending {
			fmt.Printf("  %s %s\n", entry.Entity, entry.ID)
		}
		return nil
	},
}

func printTodaySummary(ctx context.Context, st *store.Store, userID string) {
	log, err := st.DailyLogByDate(ctx, userID, time.Now())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fmt.Println("nothing logged today")
		}
		return
	}

	fmt.Printf("today: %g kcal eaten, %g kcal burned, %g kcal net\n",
		log.TotalCalories(), log.TotalExerciseCalories(), log.NetCalories())
	if remaining := log.RemainingCalories(); remaining != nil {
		fmt.Printf("goal %g kcal, %g kcal remaining\n", *log.Goal, *remaining)
	}
}
