package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voteagora/agora-tally/internal/app"
	"github.com/voteagora/agora-tally/internal/config"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	var cleanup func()

	rootCmd := &cobra.Command{
		Use:   "agora",
		Short: "Resolve DAO proposal results and statuses",
		Long: `agora resolves the result and lifecycle status of governance proposals
for the tenants it is configured with. It combines indexed votes with quorum
and block data read from each tenant's governor contract.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			// Set up viper
			v := config.SetupViper(config.FindProjectRoot(), cmd)
			if cmd.Name() == "serve" {
				v.Set("headless", true)
			}

			// Initialize app with DI
			appInstance, appCleanup, err := app.InitApp(v)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}
			cleanup = appCleanup

			// Store app in context
			ctx := context.WithValue(cmd.Context(), appKey, appInstance)

			// Add timeout if configured. serve runs until interrupted.
			if appInstance.Config.Timeout > 0 && cmd.Name() != "serve" {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				prev := cleanup
				cleanup = func() {
					cancel()
					prev()
				}
			}

			cmd.SetContext(ctx)

			return nil
		},
	}

	// Finalizers run even when a command fails
	cobra.OnFinalize(func() {
		if cleanup != nil {
			cleanup()
			cleanup = nil
		}
	})

	// Global flags
	rootCmd.PersistentFlags().StringP("tenant", "t", "", "Tenant namespace (e.g. ens, uniswap, optimism)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().String("data-dir", "", "Directory holding the proposal store (defaults to .agora)")
	rootCmd.PersistentFlags().String("redis-url", "", "Redis URL for the shared result cache")

	// Add command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	// Main commands
	resolveCmd := NewResolveCmd()
	resolveCmd.GroupID = "main"
	rootCmd.AddCommand(resolveCmd)

	listCmd := NewListCmd()
	listCmd.GroupID = "main"
	rootCmd.AddCommand(listCmd)

	quorumCmd := NewQuorumCmd()
	quorumCmd.GroupID = "main"
	rootCmd.AddCommand(quorumCmd)

	serveCmd := NewServeCmd()
	serveCmd.GroupID = "main"
	rootCmd.AddCommand(serveCmd)

	// Management commands
	tenantsCmd := NewTenantsCmd()
	tenantsCmd.GroupID = "management"
	rootCmd.AddCommand(tenantsCmd)

	importCmd := NewImportCmd()
	importCmd.GroupID = "management"
	rootCmd.AddCommand(importCmd)

	// Version command
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}
