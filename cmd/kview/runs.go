package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/kview/internal/bench"
	"github.com/san-kum/kview/internal/config"
	"github.com/san-kum/kview/internal/store"
	"github.com/san-kum/kview/internal/tui"
	"github.com/san-kum/kview/internal/view"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

func runBench(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := klog.FromContext(ctx)

	name, preset := "bench", ""
	if len(args) > 0 {
		name, preset = args[0], args[0]
	}
	cfg, err := loadConfig(preset)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("repeats") {
		cfg.Bench.Repeats = repeats
	}
	if cmd.Flags().Changed("dims") {
		cfg.Bench.Dims = dims
	}

	res, err := bench.Run(ctx, cfg)
	if err != nil {
		return err
	}

	fmt.Printf("benchmarking %v, %d derivatives, layout %s, exec %s\n\n", cfg.Bench.Dims, cfg.Bench.Derivatives, cfg.Layout, cfg.ExecSpace().Name())
	if err := printMetrics(res.Metrics); err != nil {
		return err
	}

	if !saveRun {
		return nil
	}
	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(store.RunMetadata{
		Name:    name,
		Exec:    cfg.ExecSpace().Name(),
		Layout:  cfg.Layout,
		Metrics: res.Metrics,
	}, res.Snapshots)
	if err != nil {
		return err
	}
	log.V(1).Info("saved run", "id", runID, "dir", dataDir)
	fmt.Printf("\nsaved: %s\n", runID)
	return nil
}

func printMetrics(metrics map[string]float64) error {
	names := make([]string, 0, len(metrics))
	for k := range metrics {
		names = append(names, k)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE")
	for _, k := range names {
		fmt.Fprintf(w, "%s\t%.6g\n", k, metrics[k])
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tDIMS\tDERIVS\tLAYOUT\tEXEC\tREPEATS")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%v\t%d\t%s\t%s\t%d\n", name, p.Bench.Dims, p.Bench.Derivatives, p.Layout, p.Exec, p.Bench.Repeats)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tEXEC\tLAYOUT\tVIEWS")

	for _, run := range runs {
		labels := make([]string, len(run.Views))
		for i, v := range run.Views {
			labels[i] = v.Label
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Exec,
			run.Layout,
			strings.Join(labels, ","),
		)
	}

	return w.Flush()
}

// component returns slot k of every element of s: the values for k = 0,
// derivative k-1 otherwise.
func component(s view.Snapshot, k int) []float64 {
	w := s.Width()
	out := make([]float64, 0, s.Elements())
	for i := k; i < len(s.Values); i += w {
		out = append(out, s.Values[i])
	}
	return out
}

func showRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	snaps, err := st.LoadSnapshots(args[0])
	if err != nil {
		return err
	}

	rows := [][2]string{
		{"id", meta.ID},
		{"name", meta.Name},
		{"time", meta.Timestamp.Format("2006-01-02 15:04:05")},
		{"exec", meta.Exec},
		{"layout", meta.Layout},
	}
	names := make([]string, 0, len(meta.Metrics))
	for k := range meta.Metrics {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		rows = append(rows, [2]string{k, fmt.Sprintf("%.6g", meta.Metrics[k])})
	}
	fmt.Println(tui.Panel.Render(strings.TrimRight(tui.KeyValues(rows), "\n")))
	fmt.Println()

	for _, s := range snaps {
		fmt.Printf("%s %v %s\n", tui.HeaderStyle.Render(s.Label), s.Dims, tui.Subtle.Render(fmt.Sprintf("%s, %d derivatives", s.Layout, s.DerivativeSize)))
		fmt.Println("  " + tui.Sparkline(component(s, 0), 60))
	}
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	snaps, err := st.LoadSnapshots(args[0])
	if err != nil {
		return err
	}
	if len(args) > 1 {
		s, ok := store.Find(snaps, args[1])
		if !ok {
			return fmt.Errorf("run %s has no view %q", args[0], args[1])
		}
		snaps = []view.Snapshot{s}
	}

	plotted := 0
	for _, s := range snaps {
		slots := 1
		if derivatives {
			slots = s.Width()
		}
		for k := 0; k < slots; k++ {
			data := component(s, k)
			if len(data) == 0 {
				continue
			}
			caption := s.Label + " value"
			if k > 0 {
				caption = fmt.Sprintf("%s d%d", s.Label, k-1)
			}
			fmt.Println(asciigraph.Plot(data,
				asciigraph.Height(height),
				asciigraph.Width(width),
				asciigraph.Caption(caption),
			))
			fmt.Println()
			plotted++
		}
	}
	if plotted == 0 {
		return fmt.Errorf("no data to plot")
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	snaps, err := st.LoadSnapshots(args[0])
	if err != nil {
		return err
	}
	if exportPath == "" {
		return store.ExportJSONStdout(meta, snaps)
	}
	if err := store.ExportJSON(exportPath, meta, snaps); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", exportPath)
	return nil
}
