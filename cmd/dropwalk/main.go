package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dropwalk/internal/config"
	"dropwalk/internal/drop"
	"dropwalk/internal/exclude"
	"dropwalk/internal/hostfs"
	"dropwalk/internal/logging"
	"dropwalk/internal/manifest"
	"dropwalk/internal/progress"
)

// Version is injected at build time via -ldflags
var Version = "dev"

type resolveFlags struct {
	configPath  string
	recursive   bool
	extensions  []string
	skip        []string
	pathway     string
	maxInFlight int
	batchSize   int
	output      string
	logLevel    string
	logFormat   string
}

func newRootCommand() *cobra.Command {
	flags := &resolveFlags{}

	cmd := &cobra.Command{
		Use:   "dropwalk [flags] <path>...",
		Short: "Resolve dropped files and folders into an ordered file list",
		Long: `dropwalk treats its arguments as one drag-and-drop payload and resolves
it the way a drop zone would: dropped files are listed by name, dropped
folders are expanded (with --recursive) into paths relative to the drop.

Directory contents are listed before directly dropped files.`,
		Version:       Version,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return resolve(cmd, flags, args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.configPath, "config", "c", "dropwalk.yaml", "Config file path")
	f.BoolVarP(&flags.recursive, "recursive", "r", false, "Expand dropped directories")
	f.StringSliceVarP(&flags.extensions, "ext", "e", nil, "Only list files with these extensions (e.g. txt,md)")
	f.StringSliceVar(&flags.skip, "skip", nil, "Directory name patterns to prune (replaces the config list)")
	f.StringVar(&flags.pathway, "pathway", "", "Capability offered by dropped items: auto, handle or entry")
	f.IntVar(&flags.maxInFlight, "max-in-flight", 0, "Maximum concurrent file system calls (0 = unbounded)")
	f.IntVar(&flags.batchSize, "batch-size", 0, "Directory entries per read on the entry pathway")
	f.StringVarP(&flags.output, "output", "o", "", "Save a JSON manifest of the drop to this file")
	f.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	f.StringVar(&flags.logFormat, "log-format", "", "Log format: console or json")

	cmd.AddCommand(newCompareCommand())

	return cmd
}

// loadConfig reads the config file and applies the flags that were set.
func loadConfig(cmd *cobra.Command, flags *resolveFlags) (*config.Config, error) {
	cfg, err := config.LoadConfig(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	changed := cmd.Flags().Changed
	if changed("recursive") {
		cfg.Recursive = flags.recursive
	}
	if changed("ext") {
		cfg.Extensions = make([]string, 0, len(flags.extensions))
		for _, ext := range flags.extensions {
			cfg.Extensions = append(cfg.Extensions, strings.TrimPrefix(ext, "."))
		}
	}
	if changed("skip") {
		cfg.Skip = flags.skip
	}
	if changed("pathway") {
		cfg.Pathway = flags.pathway
	}
	if changed("max-in-flight") {
		cfg.MaxInFlight = flags.maxInFlight
	}
	if changed("batch-size") {
		cfg.BatchSize = flags.batchSize
	}
	if changed("output") {
		cfg.OutputFile = flags.output
	}
	if changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if changed("log-format") {
		cfg.LogFormat = flags.logFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// dropItems turns command line paths into drop items. Each path is served
// from its own parent directory so that it is dropped under its own name.
func dropItems(args []string, mode hostfs.Mode, batchSize int) ([]drop.Item, error) {
	items := make([]drop.Item, 0, len(args))
	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path: %w", err)
		}

		item, err := hostfs.Item(os.DirFS(filepath.Dir(abs)), filepath.Base(abs), mode, batchSize)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", arg, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func resolve(cmd *cobra.Command, flags *resolveFlags, args []string) error {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		return err
	}
	defer logger.Sync()

	skip, err := exclude.New(cfg.Skip)
	if err != nil {
		return fmt.Errorf("invalid skip pattern: %w", err)
	}

	mode, err := hostfs.ParseMode(cfg.Pathway)
	if err != nil {
		return err
	}

	items, err := dropItems(args, mode, cfg.BatchSize)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	bar := progress.New()
	opts := drop.Options{
		Recursive:   cfg.Recursive,
		Extensions:  cfg.Extensions,
		MaxInFlight: cfg.MaxInFlight,
		Logger:      logger,
		Observer:    bar,
	}
	if !skip.Empty() {
		opts.SkipDirectory = skip.SkipDirectory
	}

	logger.Info("resolving drop",
		zap.Strings("paths", args),
		zap.Bool("recursive", cfg.Recursive),
		zap.String("pathway", string(mode)))

	files, err := drop.Collect(ctx, items, opts)
	bar.Finish()
	if err != nil {
		return err
	}

	printListing(cmd.OutOrStdout(), files)

	if cfg.OutputFile != "" {
		m, err := manifest.Build(files, drop.Negotiate(items).String())
		if err != nil {
			return err
		}
		if err := manifest.Save(m, cfg.OutputFile); err != nil {
			return fmt.Errorf("failed to save manifest: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Manifest saved\n")
		fmt.Fprintf(cmd.OutOrStdout(), "  Fingerprint: %s\n", m.Fingerprint)
		fmt.Fprintf(cmd.OutOrStdout(), "  Merkle root: %s\n", m.MerkleRoot)
		fmt.Fprintf(cmd.OutOrStdout(), "  Output: %s\n", cfg.OutputFile)
	}

	return nil
}

func printListing(w io.Writer, files []drop.ResolvedFile) {
	selected := color.New(color.FgGreen)
	nested := color.New(color.FgCyan)

	var total int64
	for _, f := range files {
		var size int64
		if f.Blob != nil {
			size = f.Blob.Size()
		}
		total += size

		if f.Selected() {
			fmt.Fprintf(w, "%s %s\n", selected.Sprint("*"), f.Path)
		} else if strings.Contains(f.Path, drop.Separator) {
			fmt.Fprintf(w, "  %s\n", nested.Sprint(f.Path))
		} else {
			fmt.Fprintf(w, "  %s\n", f.Path)
		}
	}

	fmt.Fprintf(w, "\n%d files, %d bytes\n", len(files), total)
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		if !errors.Is(err, errChanges) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
