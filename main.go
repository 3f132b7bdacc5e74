package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"rmgen/internal/api"
	"rmgen/internal/config"
	"rmgen/internal/services"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var envFile string
	root := &cobra.Command{
		Use:           "rmgen",
		Short:         "RMGen, the smart README generator",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(c *cobra.Command, _ []string) error {
			return c.Help()
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "path to a .env file (default: ./.env, then the project root)")

	root.AddCommand(newServeCommand(&envFile))
	root.AddCommand(newKeysCommand())
	root.AddCommand(newModelsCommand())
	root.AddCommand(newHealthCommand(&envFile))
	return root
}

func newServeCommand(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the README wizard and its backend API",
		RunE: func(c *cobra.Command, _ []string) error {
			cfg, err := config.Load(*envFile, services.NewKeyringService(nil))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app := NewApp(cfg)
			defer app.shutdown()
			if err := app.startup(ctx); err != nil {
				return err
			}
			return app.run(ctx)
		},
	}
}

func newKeysCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage LLM provider API keys in the OS keyring",
		RunE: func(c *cobra.Command, _ []string) error {
			return c.Help()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <provider>",
		Short: "Store an API key read from stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			keys := services.NewKeyringService(nil)
			if _, err := keys.Provider(args[0]); err != nil {
				return err
			}
			var key string
			if _, err := fmt.Fscanln(c.InOrStdin(), &key); err != nil {
				return fmt.Errorf("read key: %w", err)
			}
			stored, err := keys.Store(args[0], key)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "stored %s key\n", stored.Provider)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <provider>",
		Short: "Remove a stored API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			keys := services.NewKeyringService(nil)
			p, err := keys.Provider(args[0])
			if err != nil {
				return err
			}
			if err := keys.Delete(p.ID); err != nil {
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "deleted %s key\n", p.ID)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List providers with a stored API key",
		RunE: func(c *cobra.Command, _ []string) error {
			stored, err := services.NewKeyringService(nil).List()
			if err != nil {
				return err
			}
			if len(stored) == 0 {
				fmt.Fprintln(c.OutOrStdout(), "no keys stored")
				return nil
			}
			for _, k := range stored {
				fmt.Fprintf(c.OutOrStdout(), "%s\t%s\t(%s overrides it)\n", k.Provider, k.DisplayName, k.EnvVar)
			}
			return nil
		},
	})
	return cmd
}

func newModelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the chat models RMGen knows about",
		RunE: func(c *cobra.Command, _ []string) error {
			providers, err := services.NewModelCatalogService().Providers()
			if err != nil {
				return err
			}
			out := c.OutOrStdout()
			for _, p := range providers {
				fmt.Fprintf(out, "%s (%s, key from %s)\n", p.DisplayName, p.ID, p.APIKeyEnv)
				for _, m := range p.Models {
					fmt.Fprintf(out, "\t%s\t%s\n", m.APIName, m.DisplayName)
				}
			}
			return nil
		},
	}
}

func newHealthCommand(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the configured backend answers",
		RunE: func(c *cobra.Command, _ []string) error {
			cfg, err := config.Load(*envFile, services.NewKeyringService(nil))
			if err != nil {
				return err
			}
			res := api.New(cfg.BackendURL, nil).HealthCheck(c.Context())
			if !res.Success {
				return fmt.Errorf("backend %s: %s", cfg.BackendURL, res.Error)
			}
			fmt.Fprintf(c.OutOrStdout(), "%s: %s\n", res.Data.Service, res.Data.Status)
			return nil
		},
	}
}
