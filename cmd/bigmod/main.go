package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/bigmod"
	"github.com/san-kum/bigmod/internal/bench"
	"github.com/san-kum/bigmod/internal/config"
	"github.com/san-kum/bigmod/internal/platform"
	"github.com/san-kum/bigmod/internal/resolve"
	"github.com/san-kum/bigmod/internal/storage"
	"github.com/san-kum/bigmod/internal/tui"
)

var (
	configFile string
	dataDir    string
	verbose    bool

	// bench flags
	benchRuns int
	benchBits int
	benchMode string
	benchSeed int64
	benchSave bool

	// candidates flags
	candOS     string
	candArch   string
	candTier   string
	candARMRev int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "bigmod",
		Short: "accelerated big-integer modular arithmetic",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			bigmod.Initialize(loadConfig(), slog.Default())
		},
		Run: func(cmd *cobra.Command, args []string) {
			showInfo()
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".bigmod", "data directory for benchmark runs")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	infoCmd := &cobra.Command{
		Use:   "info",
		Short: "show backend load status",
		Run: func(cmd *cobra.Command, args []string) {
			showInfo()
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the facade against pure software",
		RunE:  runBench,
	}
	benchCmd.Flags().IntVar(&benchRuns, "runs", 100, "number of operations")
	benchCmd.Flags().IntVar(&benchBits, "bits", 2048, "operand size in bits")
	benchCmd.Flags().StringVar(&benchMode, "mode", "modpow", "modpow, modpow_ct or modinverse")
	benchCmd.Flags().Int64Var(&benchSeed, "seed", time.Now().UnixNano(), "random seed")
	benchCmd.Flags().BoolVar(&benchSave, "save", false, "save the run under the data directory")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "benchmark with a live latency view",
		RunE:  runLive,
	}
	liveCmd.Flags().IntVar(&benchRuns, "runs", 500, "number of operations")
	liveCmd.Flags().IntVar(&benchBits, "bits", 2048, "operand size in bits")
	liveCmd.Flags().StringVar(&benchMode, "mode", "modpow", "modpow, modpow_ct or modinverse")
	liveCmd.Flags().Int64Var(&benchSeed, "seed", time.Now().UnixNano(), "random seed")

	candidatesCmd := &cobra.Command{
		Use:   "candidates",
		Short: "print the library resolution order for a platform",
		RunE:  showCandidates,
	}
	candidatesCmd.Flags().StringVar(&candOS, "os", "", "GOOS value (default: host)")
	candidatesCmd.Flags().StringVar(&candArch, "arch", "", "GOARCH value (default: host)")
	candidatesCmd.Flags().StringVar(&candTier, "tier", "", "CPU tier (default: detected)")
	candidatesCmd.Flags().IntVar(&candARMRev, "arm-rev", 0, "ARM architecture revision")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list saved benchmark runs",
		RunE:  listRuns,
	}

	rootCmd.AddCommand(infoCmd, benchCmd, liveCmd, candidatesCmd, runsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() *config.Config {
	if configFile == "" {
		cfg := config.DefaultConfig()
		cfg.DataDir = dataDir
		return cfg
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config %s: %v, using defaults\n", configFile, err)
		cfg = config.DefaultConfig()
	}
	if dataDir != ".bigmod" {
		cfg.DataDir = dataDir
	}
	return cfg
}

func showInfo() {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "accelerated\t%v\n", bigmod.IsAccelerated())
	fmt.Fprintf(w, "backend version\t%d\n", bigmod.BackendVersion())
	fmt.Fprintf(w, "gmp version\t%s\n", bigmod.BackendLibVersion())
	if name := bigmod.LoadedCandidateName(); name != "" {
		fmt.Fprintf(w, "loaded candidate\t%s\n", name)
	}
	fmt.Fprintf(w, "cpu tier\t%s\n", bigmod.CPUTier())
	fmt.Fprintf(w, "cpu model\t%s\n", bigmod.CPUModel())
	fmt.Fprintf(w, "status\t%s\n", bigmod.LoadStatus())
	w.Flush()

	fmt.Println("\nresolution order:")
	for i, name := range bigmod.CandidateNames() {
		fmt.Printf("  %2d. %s\n", i+1, name)
	}
}

func runBench(cmd *cobra.Command, args []string) error {
	mode, err := bench.ParseMode(benchMode)
	if err != nil {
		return err
	}

	fmt.Printf("benchmarking %s, %d runs at %d bits (%s)\n\n",
		mode, benchRuns, benchBits, backendLabel())

	result, err := bench.Run(context.Background(), bench.Options{
		Mode: mode,
		Runs: benchRuns,
		Bits: benchBits,
		Seed: benchSeed,
	})
	if err != nil {
		return err
	}

	printResult(result)

	if benchSave {
		store := storage.New(dataDir)
		if err := store.Init(); err != nil {
			return err
		}
		runID, err := store.Save(result, bigmod.BackendVersion())
		if err != nil {
			return err
		}
		fmt.Printf("\nsaved as %s\n", runID)
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	mode, err := bench.ParseMode(benchMode)
	if err != nil {
		return err
	}
	result, err := tui.Run(bench.Options{
		Mode: mode,
		Runs: benchRuns,
		Bits: benchBits,
		Seed: benchSeed,
	})
	if err != nil {
		return err
	}
	if result != nil {
		printResult(result)
	}
	return nil
}

func printResult(r *bench.Result) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUNS\tFACADE\tREFERENCE\tPER OP\tSPEEDUP\tMISMATCHES")
	perOp := time.Duration(0)
	if len(r.Samples) > 0 {
		perOp = r.FacadeTotal / time.Duration(len(r.Samples))
	}
	fmt.Fprintf(w, "%d\t%v\t%v\t%v\t%.2fx\t%d\n",
		r.Runs, r.FacadeTotal.Round(time.Millisecond), r.RefTotal.Round(time.Millisecond),
		perOp, r.Speedup(), r.Mismatches)
	w.Flush()

	if len(r.Samples) >= 2 {
		data := make([]float64, len(r.Samples))
		for i, s := range r.Samples {
			data[i] = float64(s.Facade.Microseconds())
		}
		fmt.Println()
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("facade latency per run (µs)"))
		fmt.Println(graph)
	}

	if !bigmod.IsAccelerated() {
		fmt.Println("\nnote: no native library loaded, the facade ran in software")
	}
}

func backendLabel() string {
	if bigmod.IsAccelerated() {
		return fmt.Sprintf("native v%d, GMP %s", bigmod.BackendVersion(), bigmod.BackendLibVersion())
	}
	return "software only"
}

func showCandidates(cmd *cobra.Command, args []string) error {
	var p platform.Profile
	if candOS == "" && candArch == "" {
		p = platform.Detect()
	} else {
		goos := candOS
		goarch := candArch
		if goos == "" {
			goos = "linux"
		}
		if goarch == "" {
			goarch = "amd64"
		}
		p = platform.ForTarget(goos, goarch)
	}

	tier := platform.Tier(candTier)
	if candTier == "" {
		tier = platform.Classify(p)
	}

	names := resolve.Candidates(p, tier, candARMRev, resolve.DefaultRules())
	fmt.Printf("os=%s 64bit=%v tier=%s\n", p.OS, p.Is64Bit, tier)
	if len(names) == 0 {
		fmt.Println("no bundled candidates for this platform")
		return nil
	}
	for i, name := range names {
		fmt.Printf("  %2d. %s\n", i+1, name)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	runs, err := store.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no saved runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODE\tRUNS\tBITS\tBACKEND\tFACADE\tREFERENCE\tMISMATCHES")
	for _, r := range runs {
		backend := "software"
		if r.Accelerated {
			backend = fmt.Sprintf("native v%d", r.Backend)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%v\t%v\t%d\n",
			r.ID, r.Mode, r.Runs, r.Bits, backend,
			r.FacadeTotal.Round(time.Millisecond), r.RefTotal.Round(time.Millisecond), r.Mismatches)
	}
	return w.Flush()
}
