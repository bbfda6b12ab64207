package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kingrain94/remote-config-api/internal/api/dto"
	"github.com/kingrain94/remote-config-api/internal/client"
	"github.com/kingrain94/remote-config-api/internal/templates"
	"github.com/kingrain94/remote-config-api/pkg/utils"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Remote config commands",
	}

	cmd.AddCommand(newConfigListCmd(a))
	cmd.AddCommand(newConfigShowCmd(a))
	cmd.AddCommand(newConfigCreateCmd(a))
	cmd.AddCommand(newConfigRenameCmd(a))
	cmd.AddCommand(newConfigDraftCmd(a))
	cmd.AddCommand(newConfigPublishCmd(a))
	cmd.AddCommand(newConfigDeleteCmd(a))
	cmd.AddCommand(newConfigIntegrationCmd(a))
	cmd.AddCommand(newConfigTestCmd(a))
	return cmd
}

func newConfigListCmd(a *app) *cobra.Command {
	var (
		filter    client.ConfigFilter
		published string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List configs, most recently updated first",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch published {
			case "":
			case "true", "false":
				v := published == "true"
				filter.Published = &v
			default:
				return fmt.Errorf("--published must be true or false")
			}

			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			configs, err := c.ListConfigs(cmd.Context(), filter)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(configs) == 0 {
				fmt.Fprintln(out, "No configs found.")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTENANT\tKEY\tPUBLISHED\tREQUESTS\tUPDATED")
			for _, cfg := range configs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
					cfg.ID, cfg.TenantName, cfg.KeyName, publishedLabel(cfg), cfg.RequestCount,
					cfg.UpdatedAt.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&filter.TenantID, "tenant", "", "filter by tenant ID")
	cmd.Flags().StringVar(&filter.Query, "query", "", "full-text search (needs the search index)")
	cmd.Flags().StringVar(&published, "published", "", "filter by published state (true, false)")
	cmd.Flags().IntVar(&filter.Limit, "limit", 0, "max results")
	cmd.Flags().IntVar(&filter.Offset, "offset", 0, "results to skip")
	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a config with its draft and published documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			cfg, err := c.GetConfig(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printConfig(cmd, cfg)
			return nil
		},
	}
}

func newConfigCreateCmd(a *app) *cobra.Command {
	var (
		tenantID  string
		keyName   string
		template  string
		draftText string
		random    bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a config with an empty or templated draft",
		RunE: func(cmd *cobra.Command, args []string) error {
			if random && keyName == "" {
				keyName = templates.GenerateConfigName()
			}
			if template != "" && draftText != "" {
				return errors.New("--template and --draft are mutually exclusive")
			}
			req := dto.CreateConfigRequest{TenantID: tenantID, KeyName: keyName, Template: template}
			if draftText != "" {
				req.Draft = json.RawMessage(draftText)
			}

			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			cfg, err := c.CreateConfig(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created config %s (%s)\n", cfg.ID, cfg.KeyName)
			return nil
		},
	}

	cmd.Flags().StringVar(&tenantID, "tenant", "", "owning tenant ID (required)")
	cmd.Flags().StringVar(&keyName, "key", "", "config key name")
	cmd.Flags().StringVar(&template, "template", "", "seed the draft from a starter template")
	cmd.Flags().StringVar(&draftText, "draft", "", "initial draft JSON")
	cmd.Flags().BoolVar(&random, "random-key", false, "generate a key name when --key is empty")
	cmd.MarkFlagRequired("tenant")
	return cmd
}

func newConfigRenameCmd(a *app) *cobra.Command {
	var keyName string

	cmd := &cobra.Command{
		Use:   "rename <id>",
		Short: "Change a config's key name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			cfg, err := c.UpdateConfig(cmd.Context(), args[0], keyName)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed config %s to %s\n", cfg.ID, cfg.KeyName)
			return nil
		},
	}

	cmd.Flags().StringVar(&keyName, "key", "", "new key name (required)")
	cmd.MarkFlagRequired("key")
	return cmd
}

func newConfigDraftCmd(a *app) *cobra.Command {
	var (
		file string
		text string
	)

	cmd := &cobra.Command{
		Use:   "draft <id>",
		Short: "Save the draft document",
		Long:  "Saves the draft from --json, --file, or stdin with --file -. The document must be valid JSON.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			draft, err := readDraft(cmd, file, text)
			if err != nil {
				return err
			}
			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := c.SaveDraft(cmd.Context(), args[0], draft); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Draft saved")
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "read the draft from a file (- for stdin)")
	cmd.Flags().StringVar(&text, "json", "", "draft JSON text")
	return cmd
}

func readDraft(cmd *cobra.Command, file, text string) (string, error) {
	switch {
	case file != "" && text != "":
		return "", errors.New("--file and --json are mutually exclusive")
	case text != "":
		return text, nil
	case file == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		return string(data), err
	case file != "":
		data, err := os.ReadFile(file)
		return string(data), err
	default:
		return "", errors.New("one of --file or --json is required")
	}
}

func newConfigPublishCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "publish <id>",
		Short: "Publish the current draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			cfg, err := c.Publish(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Published %s at %s\n", cfg.KeyName, publishedLabel(cfg))
			return nil
		},
	}
}

func newConfigDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			if err := c.DeleteConfig(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted config %s\n", args[0])
			return nil
		},
	}
}

func newConfigIntegrationCmd(a *app) *cobra.Command {
	var language string

	cmd := &cobra.Command{
		Use:   "integration <id>",
		Short: "Show endpoints and code snippets for reading a config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			info, err := c.Integration(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Status:         %s\n", map[bool]string{true: "published", false: "not published"}[info.Published])
			fmt.Fprintf(out, "Last published: %s\n", info.LastPublishedLabel)
			fmt.Fprintf(out, "Requests:       %d\n", info.RequestCount)
			fmt.Fprintf(out, "API key:        %s\n", info.ObscuredAPIKey)
			fmt.Fprintf(out, "REST endpoint:  %s\n", info.RestEndpoint)
			fmt.Fprintf(out, "RPC endpoint:   %s\n", info.RPCEndpoint)
			for _, snippet := range info.Snippets {
				if language != "" && snippet.Language != language {
					continue
				}
				fmt.Fprintf(out, "\n# %s (%s)\n%s\n", snippet.Language, snippet.Shape, snippet.Code)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&language, "language", "", "only show one language (curl, javascript, python, go)")
	return cmd
}

func newConfigTestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "test <id>",
		Short: "Fetch the published document the way an integrator would",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			cfg, err := c.GetConfig(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !cfg.Published {
				return fmt.Errorf("config %s has never been published, publish it before testing", cfg.KeyName)
			}

			start := time.Now()
			doc, err := c.FetchPublished(cmd.Context(), cfg.TenantID, cfg.KeyName)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "200 OK in %s\n%s\n", time.Since(start).Round(time.Millisecond), prettyJSON(doc))
			return nil
		},
	}
}

func printConfig(cmd *cobra.Command, cfg dto.ConfigResponse) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:        %s\n", cfg.ID)
	fmt.Fprintf(out, "Tenant:    %s (%s)\n", cfg.TenantName, cfg.TenantID)
	fmt.Fprintf(out, "Key:       %s\n", cfg.KeyName)
	fmt.Fprintf(out, "Published: %s\n", publishedLabel(cfg))
	fmt.Fprintf(out, "Requests:  %d\n", cfg.RequestCount)
	fmt.Fprintf(out, "\nDraft:\n%s\n", prettyJSON(cfg.DraftJSON))
	fmt.Fprintf(out, "\nPublished:\n%s\n", prettyJSON(cfg.PublishedJSON))
}

func publishedLabel(cfg dto.ConfigResponse) string {
	if !cfg.Published || cfg.LastPublishedAt == nil {
		return "never"
	}
	return cfg.LastPublishedAt.Format("2006-01-02 15:04")
}

func prettyJSON(raw []byte) string {
	return strings.TrimSpace(utils.FormatJSON(raw))
}
