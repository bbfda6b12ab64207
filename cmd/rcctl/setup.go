package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kingrain94/remote-config-api/internal/client"
)

func newSetupCmd(a *app) *cobra.Command {
	var endpointURL, apiKey string

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Connect to a deployment and save the credentials",
		Long: "Signs in with the operator account, checks the schema is installed and saves " +
			"the endpoint URL and public API key for later commands.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetup(cmd, a, endpointURL, apiKey)
		},
	}

	cmd.Flags().StringVar(&endpointURL, "url", "", "API endpoint URL (required)")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "public API key (prompted when omitted)")
	cmd.MarkFlagRequired("url")

	cmd.AddCommand(newSetupSQLCmd(a))
	cmd.AddCommand(newSetupStatusCmd(a))
	return cmd
}

func runSetup(cmd *cobra.Command, a *app, endpointURL, apiKey string) error {
	ctx := cmd.Context()
	if apiKey == "" {
		var err error
		if apiKey, err = a.promptSecret("API key: "); err != nil {
			return err
		}
	}
	if apiKey == "" {
		return fmt.Errorf("an API key is required")
	}

	c, err := a.newClient(endpointURL, apiKey)
	if err != nil {
		return err
	}
	if _, err := c.SignIn(ctx, a.cfg.OperatorEmail, a.cfg.OperatorPassword); err != nil {
		if client.IsCredentialsError(err) {
			return fmt.Errorf("sign-in failed (%w); apply the setup script (`rcctl setup sql --url %s`) and try again", err, endpointURL)
		}
		return err
	}
	if _, err := c.ListTenants(ctx); err != nil {
		return fmt.Errorf("connected, but the schema looks incomplete (%w); apply the setup script and try again", err)
	}

	session, closeFn, err := a.session()
	if err != nil {
		return err
	}
	defer closeFn()

	if err := session.SaveCredentials(ctx, c.BaseURL(), apiKey); err != nil {
		return err
	}
	if err := session.SetSignedOut(ctx, false); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Connected to %s\n", c.BaseURL())
	return nil
}

// setupTarget prefers --url, then the saved endpoint.
func setupTarget(cmd *cobra.Command, a *app, endpointURL string) (*client.Client, error) {
	if endpointURL == "" {
		session, closeFn, err := a.session()
		if err != nil {
			return nil, err
		}
		defer closeFn()
		if endpointURL, err = session.EndpointURL(cmd.Context()); err != nil {
			return nil, err
		}
	}
	if endpointURL == "" {
		return nil, fmt.Errorf("no saved endpoint, pass --url")
	}
	return a.newClient(endpointURL, "")
}

func newSetupSQLCmd(a *app) *cobra.Command {
	var endpointURL string

	cmd := &cobra.Command{
		Use:   "sql",
		Short: "Print the database setup script",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := setupTarget(cmd, a, endpointURL)
			if err != nil {
				return err
			}
			script, err := c.SetupSQL(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), script)
			if !strings.HasSuffix(script, "\n") {
				fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&endpointURL, "url", "", "API endpoint URL (defaults to the saved one)")
	return cmd
}

func newSetupStatusCmd(a *app) *cobra.Command {
	var endpointURL string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether the database is ready",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := setupTarget(cmd, a, endpointURL)
			if err != nil {
				return err
			}
			status, err := c.SetupStatus(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Database reachable: %s\n", yesNo(status.DatabaseReachable))
			tables := make([]string, 0, len(status.Tables))
			for name := range status.Tables {
				tables = append(tables, name)
			}
			sort.Strings(tables)
			for _, name := range tables {
				fmt.Fprintf(out, "Table %-12s %s\n", name+":", yesNo(status.Tables[name]))
			}
			fmt.Fprintf(out, "Default user:       %s\n", yesNo(status.DefaultUserPresent))
			fmt.Fprintf(out, "Ready:              %s\n", yesNo(status.Ready))
			return nil
		},
	}

	cmd.Flags().StringVar(&endpointURL, "url", "", "API endpoint URL (defaults to the saved one)")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out but keep the saved connection",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, closeFn, err := a.session()
			if err != nil {
				return err
			}
			defer closeFn()
			if err := session.SetSignedOut(cmd.Context(), true); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func newForgetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "forget",
		Short: "Remove the saved endpoint and API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, closeFn, err := a.session()
			if err != nil {
				return err
			}
			defer closeFn()
			if err := session.ClearCredentials(cmd.Context()); err != nil {
				return err
			}
			if err := session.SetSignedOut(cmd.Context(), true); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Credentials removed")
			return nil
		},
	}
}

func newResetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear all saved state",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, closeFn, err := a.session()
			if err != nil {
				return err
			}
			defer closeFn()
			if err := session.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All saved state cleared")
			return nil
		},
	}
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
