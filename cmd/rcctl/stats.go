package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kingrain94/remote-config-api/internal/domain"
)

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show usage statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			stats, err := c.Stats(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Configs:        %d\n", stats.TotalConfigs)
			fmt.Fprintf(out, "Requests:       %d\n", stats.TotalRequests)
			fmt.Fprintf(out, "Active tenants: %d\n", stats.ActiveTenants)
			return nil
		},
	}
}

func newTemplatesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List starter templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			list, err := c.Templates(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TYPE\tNAME\tDESCRIPTION")
			for _, t := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\n", t.Type, t.Name, t.Description)
			}
			return w.Flush()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show <type>",
		Short: "Print a template's JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			t, err := c.Template(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), prettyJSON(t.JSON))
			return nil
		},
	})
	return cmd
}

func newEventsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Config change events",
	}

	var tenantID string
	watch := &cobra.Command{
		Use:   "watch",
		Short: "Stream draft, publish and delete events for a tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			c, err := a.connect(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Watching tenant %s, Ctrl-C to stop\n", tenantID)
			return c.WatchEvents(ctx, tenantID, func(e domain.PublishEvent) {
				fmt.Fprintf(out, "%s  %-20s %s (%s)\n", e.OccurredAt.Local().Format(time.TimeOnly), e.Type, e.KeyName, e.ConfigID)
			})
		},
	}
	watch.Flags().StringVar(&tenantID, "tenant", "", "tenant ID (required)")
	watch.MarkFlagRequired("tenant")

	cmd.AddCommand(watch)
	return cmd
}
