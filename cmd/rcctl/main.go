package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kingrain94/remote-config-api/internal/config"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
)

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "rcctl",
		Short:         "Remote config console",
		Long:          "rcctl manages tenants and remote configs, publishes drafts and shows integration snippets.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&a.cfg.Store, "store", a.cfg.Store, "credential store (file, redis)")
	cmd.PersistentFlags().StringVar(&a.cfg.CredentialsFile, "credentials-file", a.cfg.CredentialsFile, "credential file path for --store file")
	cmd.PersistentFlags().StringVar(&a.cfg.RedisAddr, "redis-addr", a.cfg.RedisAddr, "redis address for --store redis")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newSetupCmd(a))
	cmd.AddCommand(newLogoutCmd(a))
	cmd.AddCommand(newResetCmd(a))
	cmd.AddCommand(newForgetCmd(a))
	cmd.AddCommand(newTenantCmd(a))
	cmd.AddCommand(newConfigCmd(a))
	cmd.AddCommand(newStatsCmd(a))
	cmd.AddCommand(newTemplatesCmd(a))
	cmd.AddCommand(newEventsCmd(a))
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rcctl %s (commit: %s)\n", Version, Commit)
		},
	}
}

func execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
		return 1
	}
	return 0
}

func main() {
	_ = godotenv.Load()
	os.Exit(execute(newRootCmd(newApp(config.DefaultCLIConfig()))))
}
