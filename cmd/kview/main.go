package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/san-kum/kview/internal/config"
	"github.com/san-kum/kview/internal/exec"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

var (
	dataDir    string
	configFile string
	// params fmt
	outURI      string
	floatFormat string
	updates     []string
	// bench
	saveRun bool
	repeats int
	dims    []int
	// plot
	derivatives bool
	height      int
	width       int
	// export
	exportPath string
)

func main() {
	klog.InitFlags(nil)

	rootCmd := &cobra.Command{
		Use:           "kview",
		Short:         "multidimensional views, derivative-aware views and parameter lists",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig("")
			if err != nil {
				return err
			}
			exec.SetDefault(cfg.ExecSpace())
			if !cmd.Flags().Changed("data") && cfg.DataDir != "" {
				dataDir = cfg.DataDir
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "run data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	paramsCmd := &cobra.Command{
		Use:   "params",
		Short: "read, format and browse parameter lists",
	}

	showParamsCmd := &cobra.Command{
		Use:   "show [file|gs://bucket/key]",
		Short: "print a parameter list as a typed tree",
		Args:  cobra.ExactArgs(1),
		RunE:  showParams,
	}

	fmtCmd := &cobra.Command{
		Use:   "fmt [file|gs://bucket/key]",
		Short: "rewrite a parameter list in canonical form",
		Args:  cobra.ExactArgs(1),
		RunE:  formatParams,
	}
	fmtCmd.Flags().StringVarP(&outURI, "out", "o", "", "write to a file or gs:// URL instead of stdout")
	fmtCmd.Flags().StringVar(&floatFormat, "float", "g", "double format: g or e")
	fmtCmd.Flags().StringArrayVar(&updates, "set", nil, "yaml document merged over the list before writing (repeatable)")

	browseCmd := &cobra.Command{
		Use:   "browse [file|gs://bucket/key]",
		Short: "browse and edit a parameter list in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  browseParams,
	}

	paramsCmd.AddCommand(showParamsCmd, fmtCmd, browseCmd)

	benchCmd := &cobra.Command{
		Use:   "bench [preset]",
		Short: "time view operations",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runBench,
	}
	benchCmd.Flags().BoolVar(&saveRun, "save", false, "store the result snapshots as a run")
	benchCmd.Flags().IntVar(&repeats, "repeats", 0, "override the repeat count")
	benchCmd.Flags().IntSliceVar(&dims, "dims", nil, "override the view extents")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list bench presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id] [view]",
		Short: "plot the views of a stored run",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  plotRun,
	}
	plotCmd.Flags().BoolVar(&derivatives, "derivatives", false, "also plot each derivative component")
	plotCmd.Flags().IntVar(&height, "height", 10, "plot height")
	plotCmd.Flags().IntVar(&width, "width", 80, "plot width")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&exportPath, "out", "o", "", "output file (default stdout)")

	rootCmd.AddCommand(paramsCmd, benchCmd, presetsCmd, runsCmd, showCmd, plotCmd, exportCmd)

	ctx := klog.NewContext(context.Background(), klog.Background())
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		klog.Flush()
		os.Exit(1)
	}
	klog.Flush()
}

// loadConfig returns the --config file, else the named preset, else the
// defaults.
func loadConfig(preset string) (*config.Config, error) {
	if configFile != "" {
		return config.Load(configFile)
	}
	if preset != "" {
		cfg := config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q (see kview presets)", preset)
		}
		return cfg, nil
	}
	return config.DefaultConfig(), nil
}
