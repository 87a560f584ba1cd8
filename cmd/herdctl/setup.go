package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stockline/herdctl/internal/config"
)

var setupFlags struct {
	project bool
	force   bool
	apiURL  string
	farmID  string
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create herdctl configuration file",
	Long: `Create a herdctl configuration file with sensible defaults.

By default, creates a global config at ~/.config/herdctl/herdctl.yml.
Use --project to create a project-local config in the current directory.`,
	RunE: runSetup,
}

func init() {
	setupCmd.Flags().BoolVarP(&setupFlags.project, "project", "p", false, "Create config in current directory instead of global location")
	setupCmd.Flags().BoolVarP(&setupFlags.force, "force", "f", false, "Overwrite existing config file")
	setupCmd.Flags().StringVar(&setupFlags.apiURL, "api-url", "", "Barnyard backend base URL")
	setupCmd.Flags().StringVar(&setupFlags.farmID, "farm", "", "Default farm ID for wizard runs")
}

func runSetup(cmd *cobra.Command, args []string) error {
	// Determine target path
	targetPath := config.GlobalPath()
	if setupFlags.project {
		targetPath = config.ProjectPath()
	}

	// Check if config already exists
	if !setupFlags.force && fileExists(targetPath) {
		return fmt.Errorf("config file already exists at %s\n\nUse --force to overwrite", targetPath)
	}

	cfg := config.Defaults()
	if setupFlags.apiURL != "" {
		cfg.APIURL = setupFlags.apiURL
	}
	if setupFlags.farmID != "" {
		cfg.FarmID = setupFlags.farmID
	}

	// Write config to target location
	var err error
	if setupFlags.project {
		err = config.WriteProject(cfg)
	} else {
		err = config.WriteGlobal(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Printf("Config written to: %s\n\n", targetPath)
	fmt.Println("Run 'herdctl register' to get started.")

	return nil
}

// fileExists checks if a file exists (helper for setup command).
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
