package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ctrlkit/pid"
	"github.com/ctrlkit/pid/internal/config"
	"github.com/ctrlkit/pid/internal/export"
	"github.com/ctrlkit/pid/internal/integrators"
	"github.com/ctrlkit/pid/internal/loop"
	"github.com/ctrlkit/pid/internal/metrics"
	"github.com/ctrlkit/pid/internal/plant"
	"github.com/ctrlkit/pid/internal/store"
	"github.com/ctrlkit/pid/internal/tui"
	"github.com/ctrlkit/pid/internal/tune"
)

var (
	dataDir    string
	verbose    bool
	configFile string

	kp       float64
	ki       float64
	kd       float64
	kaw      float64
	uMin     float64
	uMax     float64
	dt       float64
	duration float64
	setpoint float64
	integ    string

	// tune ranges
	kpMax        float64
	kiMax        float64
	kdMax        float64
	gridN        int
	tuneFor      string
	effortWeight float64

	svgOut string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pidlab",
		Short: "incremental PID control lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".pidlab", "data directory")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run [plant]",
		Short: "run a closed-loop simulation",
		Args:  cobra.ExactArgs(1),
		RunE:  runLoop,
	}
	addLoopFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&svgOut, "svg", "", "also write the plot as SVG to this path")

	tuneCmd := &cobra.Command{
		Use:   "tune [plant]",
		Short: "grid-search controller gains",
		Args:  cobra.ExactArgs(1),
		RunE:  tuneGains,
	}
	addLoopFlags(tuneCmd)
	tuneCmd.Flags().Float64Var(&kpMax, "kp-max", 10.0, "upper kp bound")
	tuneCmd.Flags().Float64Var(&kiMax, "ki-max", 2.0, "upper ki bound")
	tuneCmd.Flags().Float64Var(&kdMax, "kd-max", 0.5, "upper kd bound")
	tuneCmd.Flags().IntVar(&gridN, "grid", 5, "points per gain range")
	tuneCmd.Flags().StringVar(&tuneFor, "metric", "cost", "metric to minimize")

	liveCmd := &cobra.Command{
		Use:   "live [plant]",
		Short: "live view with runtime tuning",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addLoopFlags(liveCmd)

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "write a default config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "pidlab.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			if err := config.Save(path, config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, tuneCmd, liveCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addLoopFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&kp, "kp", config.DefaultKp, "proportional gain")
	cmd.Flags().Float64Var(&ki, "ki", config.DefaultKi, "integral gain")
	cmd.Flags().Float64Var(&kd, "kd", config.DefaultKd, "derivative gain")
	cmd.Flags().Float64Var(&kaw, "kaw", 0, "anti-windup gain (0 disables)")
	cmd.Flags().Float64Var(&uMin, "u-min", config.DefaultUMin, "lower output limit")
	cmd.Flags().Float64Var(&uMax, "u-max", config.DefaultUMax, "upper output limit")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().Float64Var(&setpoint, "setpoint", config.DefaultSetpoint, "setpoint")
	cmd.Flags().StringVar(&integ, "integrator", "rk4", "integrator (euler, rk4)")
	cmd.Flags().Float64Var(&effortWeight, "effort-weight", 0.1, "actuator effort weight in the cost metric")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
}

func buildPlant(name string, pc config.PlantConfig) (loop.Plant, loop.State, error) {
	switch name {
	case "firstorder":
		p := plant.NewFirstOrder()
		p.Gain = pc.Gain
		p.Tau = pc.Tau
		return p, loop.State{0}, nil
	case "springmass":
		p := plant.NewSpringMass()
		p.Mass = pc.Mass
		p.Stiffness = pc.Stiffness
		p.Damping = pc.Damping
		return p, loop.State{0, 0}, nil
	case "pendulum":
		p := plant.NewPendulum()
		p.Mass = pc.Mass
		p.Length = pc.Length
		p.Damping = pc.Damping
		p.Gravity = pc.Gravity
		return p, loop.State{0, 0}, nil
	default:
		return nil, nil, errors.Errorf("unknown plant: %s", name)
	}
}

func buildIntegrator(name string) (loop.Integrator, error) {
	switch name {
	case "euler":
		return integrators.NewEuler(), nil
	case "rk4":
		return integrators.NewRK4(), nil
	default:
		return nil, errors.Errorf("unknown integrator: %s", name)
	}
}

func newRunner(plantName string) (*loop.Runner, *pid.Controller, loop.State, error) {
	p, x0, err := buildPlant(plantName, currentPlantConfig())
	if err != nil {
		return nil, nil, nil, err
	}
	ig, err := buildIntegrator(integ)
	if err != nil {
		return nil, nil, nil, err
	}

	ctrl, err := pid.New(pid.Config{
		Kp: kp, Ki: ki, Kd: kd, Kaw: kaw,
		UMin: uMin, UMax: uMax,
	})
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "bind controller")
	}

	r := loop.New(p, ig, ctrl)
	if verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return nil, nil, nil, err
		}
		r.SetLogger(logger.Sugar())
	}

	band := 0.02 * math.Abs(setpoint)
	if band == 0 {
		band = 0.01
	}
	r.AddMetric(metrics.NewISE())
	r.AddMetric(metrics.NewControlEffort())
	r.AddMetric(metrics.NewOvershoot())
	r.AddMetric(metrics.NewSettlingTime(band))
	r.AddMetric(metrics.NewSteadyStateError())
	r.AddMetric(metrics.NewOscillation())
	r.AddMetric(metrics.NewCost(effortWeight))

	return r, ctrl, x0, nil
}

var plantOverrides = config.DefaultConfig().Plant

func currentPlantConfig() config.PlantConfig { return plantOverrides }

func applyConfigFile(cmd *cobra.Command) error {
	if configFile == "" {
		return nil
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	// CLI flags override config values
	if !cmd.Flags().Changed("kp") {
		kp = cfg.Controller.Kp
	}
	if !cmd.Flags().Changed("ki") {
		ki = cfg.Controller.Ki
	}
	if !cmd.Flags().Changed("kd") {
		kd = cfg.Controller.Kd
	}
	if !cmd.Flags().Changed("kaw") {
		kaw = cfg.Controller.Kaw
	}
	if !cmd.Flags().Changed("u-min") {
		uMin = cfg.Controller.UMin
	}
	if !cmd.Flags().Changed("u-max") {
		uMax = cfg.Controller.UMax
	}
	if !cmd.Flags().Changed("dt") {
		dt = cfg.Loop.Dt
	}
	if !cmd.Flags().Changed("time") {
		duration = cfg.Loop.Duration
	}
	if !cmd.Flags().Changed("setpoint") {
		setpoint = cfg.Loop.Setpoint
	}
	if !cmd.Flags().Changed("integrator") {
		integ = cfg.Loop.Integrator
	}
	plantOverrides = cfg.Plant
	return nil
}

func runLoop(cmd *cobra.Command, args []string) error {
	plantName := args[0]
	if err := applyConfigFile(cmd); err != nil {
		return err
	}

	r, _, x0, err := newRunner(plantName)
	if err != nil {
		return err
	}

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	cfg := loop.Config{Dt: dt, Duration: duration, Setpoint: loop.Constant(setpoint)}

	fmt.Printf("running %s loop...\n", plantName)
	start := time.Now()
	result, err := r.Run(context.Background(), x0, cfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(store.RunMetadata{
		Plant: plantName,
		Dt:    dt, Duration: duration,
		Kp: kp, Ki: ki, Kd: kd, Kaw: kaw,
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n\n", runID)

	plotResult(result)
	printMetrics(result)
	return nil
}

func plotResult(result *loop.Result) {
	if len(result.Outputs) == 0 {
		return
	}
	fmt.Println(asciigraph.Plot(result.Outputs,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("output"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(result.Controls,
		asciigraph.Height(8),
		asciigraph.Width(80),
		asciigraph.Caption("control"),
	))
	fmt.Println()
}

func printMetrics(result *loop.Result) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE")
	for name, val := range result.Metrics {
		fmt.Fprintf(w, "%s\t%.6f\n", name, val)
	}
	w.Flush()
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
	fmt.Fprintln(w, "ID\tPLANT\tTIME\tDURATION\tDT\tKP\tKI\tKD")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%.2f\t%.2f\t%.3f\n",
			run.ID,
			run.Plant,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Kp,
			run.Ki,
			run.Kd,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	result, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("plant: %s\n", meta.Plant)
	fmt.Printf("gains: kp=%.2f ki=%.2f kd=%.3f kaw=%.2f\n", meta.Kp, meta.Ki, meta.Kd, meta.Kaw)
	fmt.Printf("samples: %d\n\n", len(result.Outputs))

	result.Metrics = meta.Metrics
	plotResult(result)
	printMetrics(result)

	if svgOut != "" {
		svg, err := export.ResultToSVG(result, 800, 400)
		if err != nil {
			return err
		}
		if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
			return errors.Wrap(err, "write svg")
		}
		fmt.Printf("wrote %s\n", svgOut)
	}
	return nil
}

func tuneGains(cmd *cobra.Command, args []string) error {
	plantName := args[0]
	if err := applyConfigFile(cmd); err != nil {
		return err
	}

	r, ctrl, x0, err := newRunner(plantName)
	if err != nil {
		return err
	}

	g := &tune.GridSearch{
		Kp: tune.Range(0, kpMax, gridN),
		Ki: tune.Range(0, kiMax, gridN),
		Kd: tune.Range(0, kdMax, gridN),
	}

	cfg := loop.Config{Dt: dt, Duration: duration, Setpoint: loop.Constant(setpoint)}

	fmt.Printf("searching %d candidates on %s...\n", gridN*gridN*gridN, plantName)
	start := time.Now()
	best, err := g.Search(context.Background(), ctrl, r, x0, cfg, tuneFor)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n\n", time.Since(start))
	fmt.Printf("best gains: kp=%.3f ki=%.3f kd=%.3f\n", best.Kp, best.Ki, best.Kd)
	fmt.Printf("%s: %.6f\n", tuneFor, best.Cost)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	plantName := args[0]
	if err := applyConfigFile(cmd); err != nil {
		return err
	}

	p, x0, err := buildPlant(plantName, currentPlantConfig())
	if err != nil {
		return err
	}
	ig, err := buildIntegrator(integ)
	if err != nil {
		return err
	}
	ctrl, err := pid.New(pid.Config{
		Kp: kp, Ki: ki, Kd: kd, Kaw: kaw,
		UMin: uMin, UMax: uMax,
	})
	if err != nil {
		return errors.Wrap(err, "bind controller")
	}

	m := tui.NewModel(plantName, p, ig, ctrl, x0, dt, setpoint)
	_, err = tea.NewProgram(m).Run()
	return err
}
