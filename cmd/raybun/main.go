// SPDX-License-Identifier: Unlicense OR MIT

// Command raybun is the CLI entrypoint: it drives standalone, master, and
// worker renders plus a self-benchmark, following gogio's
// flag.FlagSet-per-subcommand structure.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"time"

	"github.com/rayforge/raybun/imageio"
	"github.com/rayforge/raybun/internal/config"
	"github.com/rayforge/raybun/internal/progress"
	"github.com/rayforge/raybun/master"
	"github.com/rayforge/raybun/pathtrace"
	"github.com/rayforge/raybun/scene"
	"github.com/rayforge/raybun/tile"
	"github.com/rayforge/raybun/wire"
	"github.com/rayforge/raybun/worker"
)

const usage = `usage:
  raybun master <port> <scene.json> [output]
  raybun worker <master_url> [device_id]
  raybun standalone <scene.json> [output]
  raybun benchmark [scene.json]
  raybun -h | --help

The master, worker and standalone subcommands accept -seed <n> to fix the
RNG base seed; the seed otherwise falls back to $RAYBUN_SEED, then
raybun.toml's base_seed, then the current time. benchmark takes no flags
and always renders with a fixed seed.
`

const defaultBenchmarkScene = "data/benchmark.json"
const defaultTileSize = 32

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
	switch os.Args[1] {
	case "-h", "--help":
		fmt.Fprint(os.Stdout, usage)
		os.Exit(0)
	case "standalone":
		run(cmdStandalone, os.Args[2:])
	case "master":
		run(cmdMaster, os.Args[2:])
	case "worker":
		run(cmdWorker, os.Args[2:])
	case "benchmark":
		run(cmdBenchmark, os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "raybun: unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(1)
	}
}

func run(cmd func(args []string) error, args []string) {
	if err := cmd(args); err != nil {
		fmt.Fprintf(os.Stderr, "raybun: %v\n", err)
		os.Exit(1)
	}
	os.Exit(0)
}

func threadCount(defaults config.Defaults) int {
	if defaults.ThreadCount > 0 {
		return defaults.ThreadCount
	}
	n := runtime.NumCPU() - 1
	if n < 1 {
		n = 1
	}
	return n
}

func tileSize(defaults config.Defaults) int {
	if defaults.TileSize > 0 {
		return defaults.TileSize
	}
	return defaultTileSize
}

// resolveSeed applies the reproducibility precedence: an explicit -seed
// flag wins, then $RAYBUN_SEED, then raybun.toml's base_seed, then a
// time-derived seed for an unreproducible-but-unique default.
func resolveSeed(flagSeed int64, defaults config.Defaults) uint32 {
	if flagSeed != 0 {
		return uint32(flagSeed)
	}
	if env := os.Getenv("RAYBUN_SEED"); env != "" {
		if v, err := strconv.ParseInt(env, 10, 64); err == nil && v != 0 {
			return uint32(v)
		}
	}
	if defaults.BaseSeed != 0 {
		return uint32(defaults.BaseSeed)
	}
	return uint32(time.Now().UnixNano())
}

func loadDefaults() config.Defaults {
	d, err := config.Load("raybun.toml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "raybun: raybun.toml: %v, using built-in defaults\n", err)
		return config.Defaults{}
	}
	return d
}

// cmdStandalone implements `raybun standalone [-seed n] <scene.json>
// [output]`, rendering entirely in-process.
func cmdStandalone(args []string) error {
	fs := flag.NewFlagSet("standalone", flag.ContinueOnError)
	seed := fs.Int64("seed", 0, "base RNG seed (0 = derive from time)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()

	defaults := loadDefaults()

	var scenePath string
	switch {
	case len(rest) >= 1:
		scenePath = rest[0]
	case defaults.ScenePath != "":
		scenePath = defaults.ScenePath
	default:
		return fmt.Errorf("standalone: scene.json is required\n\n%s", usage)
	}
	output := "out.ppm"
	if len(rest) >= 2 {
		output = rest[1]
	}

	data, err := os.ReadFile(scenePath)
	if err != nil {
		return err
	}
	sc, st, err := scene.Load(data)
	if err != nil {
		return err
	}

	tiles := tile.Plan(st.Width, st.Height, tileSize(defaults))
	work := tile.NewWork(tiles)

	reporter := progress.NewStderrReporter()
	stopProgress := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				reporter.Update(int(work.Finished()), work.TileCount(), work.RayCount())
			case <-stopProgress:
				return
			}
		}
	}()

	pathtrace.RenderLocal(sc, st, work, threadCount(defaults), resolveSeed(*seed, defaults))
	close(stopProgress)
	<-done
	reporter.Update(work.TileCount(), work.TileCount(), work.RayCount())
	reporter.Done()

	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer f.Close()
	return imageio.WriteAuto(f, output, st.Image, st.Width, st.Height)
}

// cmdMaster implements `raybun master [-seed n] <port> <scene.json>
// [output]`: it serves the scene over HTTP and also spins up one local
// in-process worker, so the master's own render threads and any remote
// workers race to claim tiles from the same cursor.
func cmdMaster(args []string) error {
	fs := flag.NewFlagSet("master", flag.ContinueOnError)
	seed := fs.Int64("seed", 0, "base RNG seed (0 = derive from time)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()

	defaults := loadDefaults()

	var port, scenePath string
	switch {
	case len(rest) >= 2:
		port, scenePath = rest[0], rest[1]
	case len(rest) == 1 && defaults.ScenePath != "":
		port, scenePath = rest[0], defaults.ScenePath
	case len(rest) == 0 && defaults.Port > 0 && defaults.ScenePath != "":
		port, scenePath = fmt.Sprintf("%d", defaults.Port), defaults.ScenePath
	default:
		return fmt.Errorf("master: <port> and <scene.json> are required\n\n%s", usage)
	}
	output := "out.ppm"
	if len(rest) >= 3 {
		output = rest[2]
	}

	data, err := os.ReadFile(scenePath)
	if err != nil {
		return err
	}
	sc, st, err := scene.Load(data)
	if err != nil {
		return err
	}

	tiles := tile.Plan(st.Width, st.Height, tileSize(defaults))
	work := tile.NewWork(tiles)
	srv := master.New(sc, st, work)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(ctx, ":"+port) }()

	fmt.Fprintf(os.Stderr, "raybun: master listening on :%s, scene_crc=%d\n", port, sc.SceneCRC)
	pathtrace.RenderLocal(sc, st, work, threadCount(defaults), resolveSeed(*seed, defaults))

	stop()
	if err := <-serveErr; err != nil {
		return err
	}

	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer f.Close()
	return imageio.WriteAuto(f, output, st.Image, st.Width, st.Height)
}

// cmdWorker implements `raybun worker [-seed n] <master_url> [device_id]`:
// benchmark, fetch scene, register, then run the claim/render/report loop.
func cmdWorker(args []string) error {
	fs := flag.NewFlagSet("worker", flag.ContinueOnError)
	seed := fs.Int64("seed", 0, "base RNG seed (0 = derive from time)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) < 1 {
		return fmt.Errorf("worker: <master_url> is required\n\n%s", usage)
	}
	masterURL := rest[0]
	deviceID := fmt.Sprintf("worker-%d", os.Getpid())
	if len(rest) >= 2 {
		deviceID = rest[1]
	}

	defaults := loadDefaults()

	benchScene, err := os.ReadFile(defaultBenchmarkScene)
	perf := 5.0
	if err == nil {
		if score, berr := worker.Benchmark(benchScene); berr == nil {
			perf = score
		}
	}

	w := worker.New(masterURL, deviceID, resolveSeed(*seed, defaults))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := w.FetchScene(ctx); err != nil {
		return err
	}
	w.Register(ctx, wire.RegisterRequest{
		Name:        deviceID,
		Perf:        perf,
		ThreadCount: 1,
		SIMD:        false,
	})

	fmt.Fprintf(os.Stderr, "raybun: worker %q joined %s (perf=%.1f)\n", deviceID, masterURL, perf)
	_, err = w.Run(ctx)
	return err
}

// cmdBenchmark implements `raybun benchmark [scene.json]`.
func cmdBenchmark(args []string) error {
	scenePath := defaultBenchmarkScene
	if len(args) >= 1 {
		scenePath = args[0]
	}
	data, err := os.ReadFile(scenePath)
	if err != nil {
		return err
	}
	score, err := worker.Benchmark(data)
	if err != nil {
		return err
	}
	fmt.Printf("perf score: %.2f / 10\n", score)
	return nil
}
