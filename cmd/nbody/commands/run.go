package commands

import (
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/orrery-sim/octree-nbody/internal/body"
	"github.com/orrery-sim/octree-nbody/internal/config"
	"github.com/orrery-sim/octree-nbody/internal/render"
	"github.com/orrery-sim/octree-nbody/internal/spatial"
	"github.com/orrery-sim/octree-nbody/internal/storage"
	"github.com/orrery-sim/octree-nbody/internal/telemetry"
)

// theta is the Barnes-Hut acceptance ratio: an internal node's centroid
// stands in for its whole subtree once (node extent)/(distance) falls
// below this.
const theta = 1.0

const secondsPerYear = 365 * 24 * 60 * 60

func runCmd() *cobra.Command {
	var (
		bodies      int
		years       float64
		stepSeconds float64
		workers     int
		integrator  string
		compact     bool
		collisions  bool
		doRender    bool
		renderDir   string
		sink        string
		sinkDir     string
		bucket      int
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Advance an N-body simulation frame by frame",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, flags.configFile)
			if err != nil {
				return err
			}
			applyChangedFlags(cmd, &cfg, map[string]func(){
				"bodies":        func() { cfg.Bodies = bodies },
				"years":         func() { cfg.Years = years },
				"step-seconds":  func() { cfg.StepSeconds = stepSeconds },
				"workers":       func() { cfg.Workers = workers },
				"integrator":    func() { cfg.Integrator = config.Integrator(integrator) },
				"compact":       func() { cfg.Compact = compact },
				"collisions":    func() { cfg.Collisions = collisions },
				"render":        func() { cfg.Render = doRender },
				"render-dir":    func() { cfg.RenderDir = renderDir },
				"sink":          func() { cfg.Sink = config.Sink(sink) },
				"sink-dir":      func() { cfg.SinkDir = sinkDir },
				"bucket-frames": func() { cfg.BucketFrames = bucket },
				"metrics-addr":  func() { cfg.MetricsAddr = metricsAddr },
				"log-format":    func() { cfg.LogFormat = flags.logFormat },
			})
			return runSimulation(cfg)
		},
	}

	cmd.Flags().IntVar(&bodies, "bodies", 0, "number of bodies to simulate")
	cmd.Flags().Float64Var(&years, "years", 0, "years of simulated time")
	cmd.Flags().Float64Var(&stepSeconds, "step-seconds", 0, "simulated seconds per step")
	cmd.Flags().IntVar(&workers, "workers", 0, "gravity pass worker count (0 = NumCPU)")
	cmd.Flags().StringVar(&integrator, "integrator", "", "euler|rk4")
	cmd.Flags().BoolVar(&compact, "compact", false, "compress the octree after each build")
	cmd.Flags().BoolVar(&collisions, "collisions", false, "resolve inelastic collisions each step")
	cmd.Flags().BoolVar(&doRender, "render", false, "rasterize a PNG per frame")
	cmd.Flags().StringVar(&renderDir, "render-dir", "", "PNG output directory")
	cmd.Flags().StringVar(&sink, "sink", "", "gob|sqlite|none")
	cmd.Flags().StringVar(&sinkDir, "sink-dir", "", "snapshot output directory")
	cmd.Flags().IntVar(&bucket, "bucket-frames", 0, "frames per compressed gob bucket")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "if set, serve Prometheus metrics on this address")

	return cmd
}

// applyChangedFlags overwrites cfg fields whose flag was explicitly set
// on the command line, leaving file/default values alone otherwise.
func applyChangedFlags(cmd *cobra.Command, cfg *config.Config, setters map[string]func()) {
	for name, set := range setters {
		if cmd.Flags().Changed(name) {
			set()
		}
	}
}

func runSimulation(cfg config.Config) error {
	log := telemetry.NewLogger(telemetry.LevelFromVerbosity(flags.verbosity), cfg.LogFormat == "json")

	reg := prometheus.NewRegistry()
	metrics := telemetry.NewMetrics(reg)
	if cfg.MetricsAddr != "" {
		go func() {
			if err := telemetry.Serve(cfg.MetricsAddr, reg); err != nil {
				log.Error("metrics server stopped", "error", err)
			}
		}()
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	stepsPerYear := secondsPerYear / cfg.StepSeconds
	frames := int(cfg.Years * stepsPerYear)

	bodies := body.MakeBodies(cfg.Bodies, []body.Core{
		{Body: body.Body{Mass: 1e10, Radius: 1.0, Pos: spatial.Vec3{X: -9000, Y: -100, Z: -2000}, Vel: spatial.Vec3{X: 0.004, Z: -0.001}}, Axis: spatial.Vec3{Y: 1}},
		{Body: body.Body{Mass: 1e10, Radius: 1.0, Pos: spatial.Vec3{X: 9000, Y: 100, Z: 2000}, Vel: spatial.Vec3{X: -0.003, Z: 0.002}}, Axis: spatial.Vec3{Z: -1}},
	})

	var integrator body.Integrator = body.EulerIntegrator{}
	if cfg.Integrator == config.IntegratorRK4 {
		integrator = body.RK4Integrator{}
	}

	const half = 0x1p16
	simBound := spatial.New(spatial.Vec3{X: -half, Y: -half, Z: -half}, spatial.Vec3{X: 2 * half, Y: 2 * half, Z: 2 * half})

	var err error
	var sink storage.Sink
	switch cfg.Sink {
	case config.SinkGob:
		s, err := storage.NewGobStore(cfg.SinkDir, frames, cfg.BucketFrames, log)
		if err != nil {
			return err
		}
		sink = s
	case config.SinkSQLite:
		s, err := storage.NewSqliteStore(fmt.Sprintf("%s/bodies.sqlite", cfg.SinkDir))
		if err != nil {
			return err
		}
		sink = s
	}

	var renderer *render.Renderer
	if cfg.Render {
		renderer, err = render.NewRenderer(simBound, cfg.RenderDir)
		if err != nil {
			return err
		}
	}

	color.Cyan("nbody: %d bodies, %d frames, integrator=%s, compact=%t, collisions=%t",
		len(bodies), frames, cfg.Integrator, cfg.Compact, cfg.Collisions)

	start := time.Now()
	for frame := 0; frame <= frames; frame++ {
		active := make([]*body.Body, 0, len(bodies))
		for _, b := range bodies {
			if !b.Discarded {
				active = append(active, b)
			}
		}

		items := make([]spatial.WithPos[*body.Body], len(active))
		for i, b := range active {
			items[i] = spatial.WithPos[*body.Body]{Value: b, Pos: b.Pos}
		}

		buildStart := time.Now()
		tree := spatial.Build(items, simBound)
		metrics.BuildDuration.Observe(time.Since(buildStart).Seconds())

		if cfg.Compact {
			totalSlots := tree.InternalCount()
			compactStart := time.Now()
			tree = tree.Compress()
			metrics.CompactDuration.Observe(time.Since(compactStart).Seconds())
			if totalSlots > 0 {
				metrics.CompactionRatio.Observe(float64(tree.InternalCount()) / float64(totalSlots))
			}
		}

		gravityPass(tree, active, workers)

		if cfg.Collisions {
			resolved := body.CollisionPass(tree)
			if resolved > 0 {
				metrics.CollisionsResolved.Add(float64(resolved))
			}
		}

		integrator.Step(active, cfg.StepSeconds)

		if renderer != nil {
			if _, err := renderer.RenderFrame(render.Job{Frame: frame, Bodies: active}); err != nil {
				log.Error("render frame", "frame", frame, "error", err)
			}
		}
		if sink != nil {
			if err := sink.WriteFrame(frame, active); err != nil {
				log.Error("write frame", "frame", frame, "error", err)
			}
		}

		if frame%50 == 0 {
			elapsed := time.Since(start)
			log.Info("progress", "frame", frame, "of", frames, "bodies", len(active), "elapsed", elapsed.Truncate(time.Second))
		}
	}

	if sink != nil {
		if err := sink.Close(); err != nil {
			return fmt.Errorf("run: close sink: %w", err)
		}
	}

	color.Green("done in %s", time.Since(start).Truncate(time.Second))
	return nil
}

// gravityPass computes gravitational force on every active body against
// tree, splitting the work evenly across a bounded worker pool.
func gravityPass(tree *spatial.Tree[*body.Body], active []*body.Body, workers int) {
	if len(active) == 0 {
		return
	}
	if workers > len(active) {
		workers = len(active)
	}
	chunk := int(math.Ceil(float64(len(active)) / float64(workers)))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if lo >= len(active) {
			break
		}
		if hi > len(active) {
			hi = len(active)
		}
		wg.Add(1)
		go func(group []*body.Body) {
			defer wg.Done()
			for _, b := range group {
				if b.Discarded {
					continue
				}
				body.GravityPass(tree, theta, b)
			}
		}(active[lo:hi])
	}
	wg.Wait()
}
