package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kingrain94/remote-config-api/internal/api/dto"
	"github.com/kingrain94/remote-config-api/internal/service"
	"github.com/kingrain94/remote-config-api/internal/templates"
)

func newTenantCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenant",
		Short: "Tenant management commands",
	}

	cmd.AddCommand(newTenantListCmd(a))
	cmd.AddCommand(newTenantShowCmd(a))
	cmd.AddCommand(newTenantCreateCmd(a))
	cmd.AddCommand(newTenantUpdateCmd(a))
	cmd.AddCommand(newTenantDeleteCmd(a))
	return cmd
}

func newTenantListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tenants, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			tenants, err := c.ListTenants(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(tenants) == 0 {
				fmt.Fprintln(out, "No tenants found.")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tAPI KEY\tCREATED")
			for _, t := range tenants {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.ID, t.Name, service.ObscureKey(t.APIKey), t.CreatedAt.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}
}

func newTenantShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one tenant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			t, err := c.GetTenant(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printTenant(cmd, t)
			return nil
		},
	}
}

func newTenantCreateCmd(a *app) *cobra.Command {
	var name, apiKey string
	var random bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a tenant",
		Long:  "Creates a tenant. The API key is generated when --api-key is omitted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if random && name == "" {
				name = templates.GenerateTenantName()
			}
			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			t, err := c.CreateTenant(cmd.Context(), dto.CreateTenantRequest{Name: name, APIKey: apiKey})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created tenant %s\n", t.ID)
			printTenant(cmd, t)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "tenant name")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "tenant API key (generated when empty)")
	cmd.Flags().BoolVar(&random, "random-name", false, "generate a name when --name is empty")
	return cmd
}

func newTenantUpdateCmd(a *app) *cobra.Command {
	var name, apiKey string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Rename a tenant or replace its API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			t, err := c.UpdateTenant(cmd.Context(), args[0], dto.UpdateTenantRequest{Name: name, APIKey: apiKey})
			if err != nil {
				return err
			}
			printTenant(cmd, t)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "tenant name (required)")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "new API key")
	cmd.MarkFlagRequired("name")
	return cmd
}

func newTenantDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a tenant and all of its configs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			if err := c.DeleteTenant(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted tenant %s\n", args[0])
			return nil
		},
	}
}

func printTenant(cmd *cobra.Command, t dto.TenantResponse) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:      %s\n", t.ID)
	fmt.Fprintf(out, "Name:    %s\n", t.Name)
	fmt.Fprintf(out, "API key: %s\n", t.APIKey)
}
