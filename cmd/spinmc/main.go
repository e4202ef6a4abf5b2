package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/spinmc/internal/config"
	"github.com/san-kum/spinmc/internal/ising"
	"github.com/san-kum/spinmc/internal/lattice"
	"github.com/san-kum/spinmc/internal/mc"
	"github.com/san-kum/spinmc/internal/rng"
	"github.com/san-kum/spinmc/internal/storage"
	"github.com/san-kum/spinmc/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	ensembleNo int
	frameRate  int
	nSweeps    int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "spinmc",
		Short: "Metropolis-Hastings Monte Carlo for the classical Ising model",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".spinmc", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation",
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use a built-in preset")

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a default config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "spinmc.yml"
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.Save(path, config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a run's observables",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&ensembleNo, "ensemble", 0, "ensemble number")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().IntVar(&ensembleNo, "ensemble", 0, "ensemble number")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				ensembles, err := p.Ensembles()
				if err != nil {
					return err
				}
				fmt.Printf("  %-14s %s lattice, %d ensembles\n",
					name, formatShape(p.Lattice.Shape), len(ensembles))
			}
			return nil
		},
	}

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "evolve a 2D lattice with a live terminal view",
		RunE:  runWatch,
	}
	watchCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	watchCmd.Flags().StringVar(&preset, "preset", "", "use a built-in preset")
	watchCmd.Flags().IntVar(&nSweeps, "sweeps", 500, "number of sweeps to show")
	watchCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	rootCmd.AddCommand(runCmd, initCmd, listCmd, plotCmd, exportCmd, presetsCmd, watchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfig picks the input: explicit file, named preset, or the
// defaults.
func resolveConfig() (*config.Config, error) {
	if configFile != "" && preset != "" {
		return nil, fmt.Errorf("pass either --config or --preset, not both")
	}
	if configFile != "" {
		return config.Load(configFile)
	}
	if preset != "" {
		cfg := config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q (available: %s)",
				preset, strings.Join(config.ListPresets(), ", "))
		}
		return cfg, nil
	}
	return config.DefaultConfig(), nil
}

func buildLattice(cfg *config.Config) (*lattice.Lattice, error) {
	if cfg.Measure.Correlator {
		return lattice.NewWithDistanceMap(cfg.Shape(), cfg.Measure.MaxDistance, cfg.Metric())
	}
	return lattice.New(cfg.Shape())
}

func initialConfiguration(cfg *config.Config, lat *lattice.Lattice, r *rng.Rng) (*ising.Configuration, error) {
	if cfg.HotStart() {
		return rng.RandomConfiguration(lat.Size(), r), nil
	}
	return ising.New(lat.Size(), ising.Up)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	ensembles, err := cfg.Ensembles()
	if err != nil {
		return err
	}
	lat, err := buildLattice(cfg)
	if err != nil {
		return err
	}
	r := rng.New(lat.Size(), cfg.RNG.Seed)
	spins, err := initialConfiguration(cfg, lat, r)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	run, err := st.Begin(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("lattice %s (%d sites), %d ensembles, seed %d, %s start\n",
		formatShape(cfg.Lattice.Shape), lat.Size(), len(ensembles), cfg.RNG.Seed, cfg.MC.Start)

	// The energy passed here is irrelevant: the initial thermalisation
	// performs no measurements and each ensemble recomputes it below.
	start := time.Now()
	res, err := mc.Evolve(spins, 0, ensembles[0].Params, lat, r, cfg.MC.NThermInit, nil)
	if err != nil {
		return err
	}
	spins = res.Cfg
	run.SetInitAcceptance(res.AcceptanceRate)
	fmt.Printf("initial thermalisation acceptance rate: %.4f\nrun time: %v\n",
		res.AcceptanceRate, time.Since(start).Round(time.Millisecond))

	for i, ens := range ensembles {
		fmt.Printf("running with {J/kT = %g, h/kT = %g}\n", ens.Params.JT, ens.Params.HT)
		start = time.Now()

		energy := ising.Hamiltonian(spins, ens.Params, lat)

		res, err = mc.Evolve(spins, energy, ens.Params, lat, r, ens.NTherm, nil)
		if err != nil {
			return err
		}
		spins = res.Cfg
		thermAcceptance := res.AcceptanceRate
		fmt.Printf("  thermalisation acceptance rate: %.4f\n", thermAcceptance)

		var extra []mc.Measurement
		var snapshots *storage.SnapshotWriter
		if cfg.WriteCfg {
			snapshots, err = run.NewSnapshotWriter(i)
			if err != nil {
				return err
			}
			extra = append(extra, snapshots)
		}

		obs := mc.NewObservables(lat, cfg.Measure.Correlator)
		res, err = mc.Evolve(spins, res.Energy, ens.Params, lat, r, ens.NProd, obs, extra...)
		if err != nil {
			return err
		}
		spins = res.Cfg
		if snapshots != nil {
			if err := snapshots.Close(); err != nil {
				return err
			}
		}
		elapsed := time.Since(start)
		fmt.Printf("  production acceptance rate: %.4f\n  run time: %v\n",
			res.AcceptanceRate, elapsed.Round(time.Millisecond))

		if err := run.WriteObservables(i, obs, cfg.Measure); err != nil {
			return err
		}
		run.AddEnsemble(storage.EnsembleMetadata{
			Index:             i,
			JT:                ens.Params.JT,
			HT:                ens.Params.HT,
			NTherm:            ens.NTherm,
			NProd:             ens.NProd,
			ThermAcceptance:   thermAcceptance,
			ProdAcceptance:    res.AcceptanceRate,
			MeanEnergy:        obs.MeanEnergy(),
			MeanMagnetization: obs.MeanMagnetization(),
			RunTimeMs:         elapsed.Milliseconds(),
		})
	}

	if err := run.Finish(); err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", run.ID())
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tSHAPE\tSEED\tSTART\tENSEMBLES")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			formatShape(run.Shape),
			run.Seed,
			run.Start,
			len(run.Ensembles),
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID, ensembleNo)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s  ensemble: %d\n", meta.ID, ensembleNo)
	if ensembleNo < len(meta.Ensembles) {
		ens := meta.Ensembles[ensembleNo]
		fmt.Printf("J/kT = %g  h/kT = %g  (%d production sweeps)\n",
			ens.JT, ens.HT, ens.NProd)
	}
	fmt.Println()

	var corrDistances []float64
	var corrMeans []float64
	for k, column := range series.Columns {
		if column == "sweep" {
			continue
		}
		if sqd, ok := strings.CutPrefix(column, "corr_"); ok {
			d, err := strconv.Atoi(sqd)
			if err != nil {
				return fmt.Errorf("bad correlator column %q: %w", column, err)
			}
			corrDistances = append(corrDistances, float64(d))
			corrMeans = append(corrMeans, mean(series.Data[k]))
			continue
		}

		graph := asciigraph.Plot(series.Data[k],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(column+" vs sweep"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if len(corrMeans) > 0 {
		graph := asciigraph.Plot(corrMeans,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("mean correlator vs squared distance bin %v", corrDistances)),
		)
		fmt.Println(graph)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID, ensembleNo)
	if err != nil {
		return err
	}

	columns := make(map[string][]float64, len(series.Columns))
	for k, name := range series.Columns {
		columns[name] = series.Data[k]
	}

	out := struct {
		Meta     *storage.RunMetadata `json:"meta"`
		Ensemble int                  `json:"ensemble"`
		Series   map[string][]float64 `json:"series"`
	}{meta, ensembleNo, columns}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	ensembles, err := cfg.Ensembles()
	if err != nil {
		return err
	}
	lat, err := lattice.New(cfg.Shape())
	if err != nil {
		return err
	}
	r := rng.New(lat.Size(), cfg.RNG.Seed)
	spins, err := initialConfiguration(cfg, lat, r)
	if err != nil {
		return err
	}

	recorder, err := viz.NewRecorder(lat, frameRate)
	if err != nil {
		return err
	}

	params := ensembles[0].Params
	energy := ising.Hamiltonian(spins, params, lat)

	errCh := make(chan error, 1)
	go func() {
		_, err := mc.Evolve(spins, energy, params, lat, r, nSweeps, nil, recorder)
		recorder.Close()
		errCh <- err
	}()

	title := fmt.Sprintf("ising %s  J/kT=%g h/kT=%g",
		formatShape(cfg.Lattice.Shape), params.JT, params.HT)
	if _, err := tea.NewProgram(viz.NewModel(title, recorder.Frames())).Run(); err != nil {
		return err
	}

	select {
	case err := <-errCh:
		return err
	default:
		return nil
	}
}

func formatShape(shape []int) string {
	parts := make([]string, len(shape))
	for i, ext := range shape {
		parts[i] = strconv.Itoa(ext)
	}
	return strings.Join(parts, "x")
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}
