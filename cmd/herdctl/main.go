package main

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/stockline/herdctl/internal/logger"
	"github.com/stockline/herdctl/internal/tui/theme"
)

const (
	logoText1 = "█ █ █▀▀ █▀█ █▀▄ █▀▀ ▀█▀ █  "
	logoText2 = "█▀█ ██▄ █▀▄ █▄▀ █▄▄  █  █▄▄"
)

// Version set via ldflags during build
var version = "dev"

func main() {
	// Ensure logger is closed on exit
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "herdctl",
	Short: "Terminal console for barnyard livestock operations",
}

// renderLogo creates the logo with gradient colors
func renderLogo() string {
	t := theme.NewCatppuccinMocha()
	line1 := theme.ApplyGradient(logoText1, t.Primary, t.Secondary)
	line2 := theme.ApplyGradient(logoText2, t.Primary, t.Secondary)
	return strings.Join([]string{line1, line2}, "\n")
}

func init() {
	// Set Long description with logo
	rootCmd.Long = renderLogo() + `

herdctl is the terminal console for farm staff working against the
barnyard backend. It walks registrations, sickness cases and farm
onboarding through guarded multi-step wizards with live validation,
keeps drafts in embedded NATS JetStream so interrupted work survives,
and presents a full-screen TUI using Bubbletea v2.`

	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(sicknessCmd)
	rootCmd.AddCommand(onboardCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(doctorCmd)
}
