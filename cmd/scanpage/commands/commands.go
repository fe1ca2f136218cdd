package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/ncobase/scanpage/client"
	"github.com/ncobase/scanpage/config"
	"github.com/ncobase/scanpage/project"
	"github.com/ncobase/scanpage/server"
	"github.com/ncobase/scanpage/version"
)

// DefaultAddr is where list looks for a server.
const DefaultAddr = "http://127.0.0.1:8080"

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "scanpage",
		Short:         "Cursor-paginated projects listing",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		NewServeCommand(),
		NewListCommand(),
		NewModesCommand(),
		NewVersionCommand(),
	)

	return rootCmd
}

// NewServeCommand creates the command that runs the HTTP API.
func NewServeCommand() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the projects API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			app, cleanup, err := server.InitializeApp(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}
			defer cleanup()

			return app.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "config file path (default: search ., /etc/scanpage, $HOME/.scanpage)")
	return cmd
}

// NewListCommand creates the command that pages through a running server.
func NewListCommand() *cobra.Command {
	var (
		addr string
		opts client.ListOptions
		all  bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects from a running server",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New(addr)
			out := cmd.OutOrStdout()
			if all {
				return c.All(cmd.Context(), &opts, func(p *client.Page) error {
					printItems(out, p)
					return nil
				})
			}

			page, err := c.List(cmd.Context(), &opts)
			if err != nil {
				return err
			}
			printItems(out, page)
			if page.NextPageToken != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "next page: --page-token %s\n", page.NextPageToken)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", DefaultAddr, "server base URL")
	cmd.Flags().StringVarP(&opts.Mode, "mode", "m", "", "scan mode of the first page")
	cmd.Flags().StringVarP(&opts.PageToken, "page-token", "t", "", "continue from a previous page")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "page size (server default when 0)")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "follow continuation tokens to the end")
	return cmd
}

func printItems(w io.Writer, p *client.Page) {
	for _, it := range p.Items {
		fmt.Fprintf(w, "%s\t%s\n", it.Name, it.Mtime.Format(time.RFC3339Nano))
	}
}

// NewModesCommand creates the command that prints the declared scan modes.
func NewModesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "modes",
		Short: "Print the declared scan modes",
		Run: func(cmd *cobra.Command, args []string) {
			for _, m := range project.ScanModes() {
				mark := ""
				if m == project.DefaultScanMode {
					mark = " (default)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s%s\n", m, m.Order(), mark)
			}
		},
	}
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.GetVersionInfo()
			if asJSON {
				s, err := info.JSON()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), s)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), info.String())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}
