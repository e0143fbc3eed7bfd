package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/skincheck/internal/client/config"
	"github.com/dmitrijs2005/skincheck/internal/logging"
	"github.com/spf13/cobra"
)

// rootState is filled by the root PersistentPreRunE and shared by subcommands.
type rootState struct {
	cfg    *config.Config
	logger logging.Logger
}

func (rt *rootState) withApp(cmd *cobra.Command, fn func(ctx context.Context, a *App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := NewApp(ctx, rt.cfg, rt.logger, cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			rt.logger.Warn(ctx, "closing database", "error", err)
		}
	}()

	return toUserError(fn(ctx, a))
}

func NewRootCmd() *cobra.Command {
	rt := &rootState{}

	cmd := &cobra.Command{
		Use:   config.AppName,
		Short: "AI-powered skin lesion screening from the command line",
		Long: `SkinCheck sends photos of skin lesions to a remote classifier and keeps
track of your past scans.

Run without a command to start the interactive shell.

Configuration is read from defaults, an optional config file (-c), SKINCHECK_*
environment variables (a .env file is honored) and flags, in that order.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel)
			if err != nil {
				return err
			}
			rt.cfg = cfg
			rt.logger = logger
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withApp(cmd, func(ctx context.Context, a *App) error {
				a.Shell(ctx)
				return nil
			})
		},
	}

	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		newLoginCmd(rt),
		newSignupCmd(rt),
		newLogoutCmd(rt),
		newWhoAmICmd(rt),
		newScanCmd(rt),
		newHistoryCmd(rt),
		newShowCmd(rt),
		newDeleteCmd(rt),
		newStatsCmd(rt),
		newExportCmd(rt),
		newShellCmd(rt),
	)

	return cmd
}

func newLoginCmd(rt *rootState) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withApp(cmd, func(ctx context.Context, a *App) error {
				return a.Login(ctx, email)
			})
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email (prompted when empty)")
	return cmd
}

func newSignupCmd(rt *rootState) *cobra.Command {
	var login bool
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withApp(cmd, func(ctx context.Context, a *App) error {
				return a.Signup(ctx, login)
			})
		},
	}
	cmd.Flags().BoolVar(&login, "login", false, "sign in right after the account is created")
	return cmd
}

func newLogoutCmd(rt *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withApp(cmd, func(ctx context.Context, a *App) error {
				return a.Logout(ctx)
			})
		},
	}
}

func newWhoAmICmd(rt *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withApp(cmd, func(ctx context.Context, a *App) error {
				return a.WhoAmI(ctx)
			})
		},
	}
}

func newScanCmd(rt *rootState) *cobra.Command {
	var area string
	cmd := &cobra.Command{
		Use:   "scan <image>",
		Short: "Analyze a photo of a skin lesion",
		Example: `  skincheck scan mole.jpg --area back
  skincheck scan mole.png -l arm --max-image-side 1024`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withApp(cmd, func(ctx context.Context, a *App) error {
				return a.Scan(ctx, args[0], area)
			})
		},
	}
	cmd.Flags().StringVarP(&area, "area", "l", "", fmt.Sprintf("body area: %s", localizationNames()))
	return cmd
}

func addViewFlags(cmd *cobra.Command, opts *HistoryOptions) {
	cmd.Flags().StringVarP(&opts.Filter, "filter", "f", "", "all, benign, malignant or pending")
	cmd.Flags().StringVarP(&opts.Sort, "sort", "s", "", "newest, oldest or confidence")
}

func newHistoryCmd(rt *rootState) *cobra.Command {
	var opts HistoryOptions
	cmd := &cobra.Command{
		Use:     "history",
		Aliases: []string{"h"},
		Short:   "List past scans",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withApp(cmd, func(ctx context.Context, a *App) error {
				return a.History(ctx, opts)
			})
		},
	}
	addViewFlags(cmd, &opts)
	cmd.Flags().BoolVar(&opts.All, "all", false, "show every page")
	return cmd
}

func newShowCmd(rt *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show details of one scan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withApp(cmd, func(ctx context.Context, a *App) error {
				return a.Show(ctx, args[0])
			})
		},
	}
}

func newDeleteCmd(rt *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a scan (on the server only with --remote-delete)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withApp(cmd, func(ctx context.Context, a *App) error {
				return a.Delete(ctx, args[0])
			})
		},
	}
}

func newStatsCmd(rt *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count scans per result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withApp(cmd, func(ctx context.Context, a *App) error {
				return a.Stats(ctx)
			})
		},
	}
}

func newExportCmd(rt *rootState) *cobra.Command {
	var (
		format string
		opts   HistoryOptions
	)
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Save history as JSON, YAML or Parquet",
		Example: `  skincheck export scans.json
  skincheck export scans.parquet --filter malignant --sort confidence`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withApp(cmd, func(ctx context.Context, a *App) error {
				return a.Export(ctx, args[0], format, opts)
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "json, yaml or parquet (default: from the file extension)")
	addViewFlags(cmd, &opts)
	return cmd
}

func newShellCmd(rt *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive shell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withApp(cmd, func(ctx context.Context, a *App) error {
				a.Shell(ctx)
				return nil
			})
		},
	}
}
