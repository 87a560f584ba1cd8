package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/stockline/herdctl/internal/api"
	"github.com/stockline/herdctl/internal/config"
	"github.com/stockline/herdctl/internal/drafts"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check herdctl configuration and backend connectivity",
	Long: `Check that herdctl is ready to use: configuration present, the
barnyard backend reachable, the token valid and the local draft store
writable.`,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	failed := false
	check := func(name string, err error) {
		if err != nil {
			failed = true
			fmt.Printf("  ✗ %s: %v\n", name, err)
			return
		}
		fmt.Printf("  ✓ %s\n", name)
	}

	fmt.Println("herdctl doctor")
	fmt.Println()

	if !config.Exists() {
		check("config file", fmt.Errorf("not found, run 'herdctl setup'"))
	} else {
		check("config file", nil)
	}

	cfg, err := config.Load()
	if err != nil {
		check("config load", err)
		return fmt.Errorf("doctor found problems")
	}
	check("config load", nil)

	if cfg.APIURL == "" {
		check("backend URL", fmt.Errorf("api_url not set"))
	} else {
		check("backend URL", nil)

		client := api.New(cfg.APIURL, cfg.APIToken, cfg.FarmID)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		user, err := client.WhoAmI(ctx)
		if err != nil {
			check("backend auth", err)
		} else {
			check(fmt.Sprintf("backend auth (user %s, role %s)", user.Name, user.Role), nil)
		}
	}

	if cfg.FarmID == "" {
		check("farm", fmt.Errorf("farm_id not set"))
	} else {
		check("farm "+cfg.FarmID, nil)
	}

	// Draft store: open, round-trip a probe key, close.
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	store, err := drafts.Open(ctx, cfg.DataDir)
	if err != nil {
		check("draft store", err)
	} else {
		probe := []byte(`{"probe":true}`)
		err = store.Save(ctx, "doctor", "probe", probe)
		if err == nil {
			err = store.Clear(ctx, "doctor", "probe")
		}
		check("draft store", err)
		_ = store.Close()
	}

	fmt.Println()
	if failed {
		return fmt.Errorf("doctor found problems")
	}
	fmt.Println("All checks passed.")
	return nil
}
