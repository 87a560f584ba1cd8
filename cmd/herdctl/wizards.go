package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stockline/herdctl/internal/api"
	"github.com/stockline/herdctl/internal/config"
	"github.com/stockline/herdctl/internal/drafts"
	"github.com/stockline/herdctl/internal/form"
	"github.com/stockline/herdctl/internal/logger"
	"github.com/stockline/herdctl/internal/registry"
	"github.com/stockline/herdctl/internal/tui/formwizard"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new pig",
	Long: `Register a new pig with the barnyard backend.

Walks identity, origin and details through a guarded wizard. The ear-tag
code is checked for uniqueness as you type; a draft is kept locally so
an interrupted registration can be resumed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWizard("pig", nil)
	},
}

var sicknessCmd = &cobra.Command{
	Use:   "sickness",
	Short: "Open a sickness case",
	Long: `Open a sickness case for an animal, including its treatment plan.

Cases need at least one treatment unless the severity is culling;
culling cases ask for explicit confirmation before anything is sent.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWizard("sickness", nil)
	},
}

var onboardCmd = &cobra.Command{
	Use:   "onboard [farm-name]",
	Short: "Onboard a new farm",
	Long: `Onboard a new farm and its owner contact.

An optional farm name argument pre-fills the wizard and derives the farm
code from it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var prefill map[string]any
		if len(args) == 1 {
			name := strings.TrimSpace(args[0])
			prefill = map[string]any{
				"farmName": name,
				"farmCode": registry.DeriveFarmCode(name),
			}
		}
		return runWizard("onboarding", prefill)
	},
}

// runWizard wires a wizard definition to the backend client, the draft
// store and the TUI, then runs it to completion.
func runWizard(name string, prefill map[string]any) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger.Configure(cfg.LogLevel, cfg.LogFile)

	def, err := registry.Lookup(name)
	if err != nil {
		return fmt.Errorf("%w (available: %s)", err, strings.Join(registry.Names(), ", "))
	}

	if cfg.APIURL == "" {
		return fmt.Errorf("no backend configured; run 'herdctl setup' first")
	}
	if cfg.FarmID == "" {
		return fmt.Errorf("no farm configured; set farm_id in %s", config.GlobalPath())
	}

	client := api.New(cfg.APIURL, cfg.APIToken, cfg.FarmID)

	ctx := context.Background()
	user, err := client.WhoAmI(ctx)
	if err != nil {
		return fmt.Errorf("cannot identify user against %s: %w", cfg.APIURL, err)
	}

	// Draft persistence is best effort; the wizard runs without it.
	store, err := drafts.Open(ctx, cfg.DataDir)
	if err != nil {
		logger.Warn("Draft store unavailable, continuing without drafts: %v", err)
		store = nil
	} else {
		defer func() { _ = store.Close() }()
	}

	return formwizard.Run(def, formwizard.Options{
		Config:  cfg,
		Fetcher: client,
		Deps: form.WizardDeps{
			Checker:       client,
			Submitter:     client.Submitter(def.SubmitPath),
			User:          user,
			VerifyTimeout: cfg.VerifyTimeout(),
		},
		Store:   store,
		Prefill: prefill,
	})
}
