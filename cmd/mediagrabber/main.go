package main

import (
	"fmt"
	"os"
	"slices"

	"mediagrabber/internal/app"
	"mediagrabber/internal/config"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies the command-line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, map[string]string, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, nil, fmt.Errorf("getting defaults: %w", err)
	}

	path := defaults["config_path"]
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		path = p
	}
	cfg, err := config.ReadFromFile(path, config.NewConfig(defaults["base_dir"]))
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("target") {
		cfg.Archive.Target, _ = flags.GetString("target")
	}
	if flags.Changed("extensions") {
		cfg.Archive.Extensions, _ = flags.GetStringSlice("extensions")
	}
	if flags.Changed("ignore") {
		cfg.Archive.Ignore, _ = flags.GetStringArray("ignore")
	}
	if flags.Changed("sources") {
		cfg.Archive.Sources, _ = flags.GetStringArray("sources")
	}
	if flags.Changed("move") {
		cfg.Archive.Move, _ = flags.GetBool("move")
	}
	defaults["config_path"] = path
	return cfg, defaults, nil
}

// newApp reads the config and creates an MGApp. The caller must defer app.Close().
// mode identifies the CLI command being run (e.g. "import", "index").
func newApp(cmd *cobra.Command, mode string) (*app.MGApp, *config.Config, error) {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	quiet, _ := cmd.Flags().GetBool("quiet")
	debug, _ := cmd.Flags().GetBool("debug")

	a, err := app.NewMGApp(cfg, mode, app.Options{
		DryRun:  dryRun,
		Quiet:   quiet,
		Debug:   debug,
		Console: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, cfg, nil
}

var rootCmd = &cobra.Command{
	Use:          "mediagrabber",
	Short:        "Archive photos and videos into a date-structured tree",
	SilenceUsage: true,
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, defaults, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Configuration initialized at %s\n", defaults["config_path"])
		fmt.Fprintf(out, "Target:  %s\n", cfg.Archive.Target)
		fmt.Fprintf(out, "Log Dir: %s\n", cfg.LogDir)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, defaults, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "# Configuration from %s\n\n", defaults["config_path"])
		m := &config.Manager{}
		return m.Write(cmd.OutOrStdout(), cfg)
	},
}

// import command
var importCmd = &cobra.Command{
	Use:   "import [SOURCE...]",
	Short: "Archive media files from source directories",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cfg, err := newApp(cmd, "import")
		if err != nil {
			return err
		}
		defer a.Close()

		sources := append(slices.Clone(cfg.Archive.Sources), args...)

		stats, err := a.Import(sources, cfg.Archive.Move)
		if stats != nil {
			printStats(cmd, stats)
		}
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		return nil
	},
}

// index command
var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the index from the target tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, err := newApp(cmd, "index")
		if err != nil {
			return err
		}
		defer a.Close()

		stats, err := a.RebuildIndex()
		if stats != nil {
			printStats(cmd, stats)
		}
		if err != nil {
			return fmt.Errorf("rebuilding index failed: %w", err)
		}
		return nil
	},
}

// reset command
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget all source locations",
	Long: `Forget all source locations so the next import re-examines every source file.
With --all every file record is dropped as well. Files in the target tree are never touched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")

		a, _, err := newApp(cmd, "reset")
		if err != nil {
			return err
		}
		defer a.Close()

		stats, err := a.Reset(all)
		if err != nil {
			return fmt.Errorf("reset failed: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Dropped %d source record(s)\n", stats.SourcesDropped)
		if all {
			fmt.Fprintf(cmd.OutOrStdout(), "Dropped %d file record(s)\n", stats.FilesDropped)
		}
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View run history",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, _, err := newApp(cmd, "history")
		if err != nil {
			return err
		}
		defer a.Close()

		runs, err := a.History(limit)
		if err != nil {
			return err
		}

		if len(runs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
			return nil
		}
		printHistory(cmd, runs)
		return nil
	},
}

// tree command
var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Show the indexed archive tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		year, _ := cmd.Flags().GetInt("year")

		a, _, err := newApp(cmd, "tree")
		if err != nil {
			return err
		}
		defer a.Close()

		out, n, err := a.ArchiveTree(year)
		if err != nil {
			return err
		}
		if n == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No files indexed.")
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d file(s)\n", n)
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Config file (default $XDG_CONFIG_HOME/mediagrabber.toml)")
	pf.StringP("target", "t", "", "Target directory of the archive")
	pf.StringSliceP("extensions", "e", nil, "File extensions to archive (default jpg,mov,mts,mp4)")
	pf.StringArrayP("ignore", "i", nil, "Regular expression for directories to skip (repeatable)")
	pf.BoolP("dry-run", "p", false, "Simulate: change neither the index nor any file")
	pf.BoolP("quiet", "q", false, "Only print warnings and errors")
	pf.BoolP("debug", "d", false, "Write debug messages to the log file")

	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringArrayP("sources", "s", nil, "Source directory to import (repeatable)")
	importCmd.Flags().BoolP("move", "r", false, "Remove source files once archived")
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().Bool("all", false, "Also drop every file record")
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of runs to show")
	rootCmd.AddCommand(treeCmd)
	treeCmd.Flags().Int("year", 0, "Only show this year")
}
