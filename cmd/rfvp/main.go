// Command rfvp runs a game directory's bytecode: rfvp <game_dir>
// reads <game_dir>/rfvp.toml, loads the .hcb it names through a
// directory-backed VFS, and drives internal/engine.Engine.Tick in a
// loop paced by a real-time clock. Ground: teacher's cmd/emulator/
// main.go (flag parsing, ROM load, frame loop, Ctrl+C-adjacent
// lifecycle), generalized from flags to a TOML config file per
// SPEC_FULL.md §6's CLI-surface expansion.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"golang.org/x/sys/unix"

	"rfvp/internal/config"
	"rfvp/internal/engine"
	"rfvp/internal/hcb"
	"rfvp/internal/host"
	"rfvp/internal/trace"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: rfvp <game_dir>")
		fmt.Fprintln(os.Stderr, "  <game_dir>/rfvp.toml names the .hcb bytecode file to run.")
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	gameDir := flag.Arg(0)

	if err := run(gameDir); err != nil {
		fmt.Fprintf(os.Stderr, "rfvp: %v\n", err)
		os.Exit(1)
	}
}

func run(gameDir string) error {
	cfg, err := config.Load(filepath.Join(gameDir, "rfvp.toml"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	charset, err := cfg.Charset()
	if err != nil {
		return fmt.Errorf("resolve nls: %w", err)
	}

	r := trace.New(cfg.Trace.Capacity)
	for _, c := range cfg.Trace.Categories {
		r.Enable(trace.Category(c), true)
	}
	trace.ConfigureFromEnv(r)

	vfs := host.NewDirVFS(gameDir)
	data, err := vfs.Read(cfg.Bytecode)
	if err != nil {
		return fmt.Errorf("read bytecode %q: %w", cfg.Bytecode, err)
	}
	f, err := hcb.Parse(data)
	if err != nil {
		return fmt.Errorf("parse bytecode: %w", err)
	}

	surface := &host.Surface{
		Clock:    host.NewWallClock(cfg.TargetFPS),
		Input:    &host.MemoryInput{},
		VFS:      vfs,
		Audio:    &host.NoopMixer{},
		Renderer: host.NoopRenderer{},
	}

	eng, err := engine.New(f, surface, charset, cfg.StepBudget, r)
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}

	fmt.Printf("rfvp: running %q (%q, game_mode=%d)\n", eng.Title(), cfg.Bytecode, eng.GameMode())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, unix.SIGINT, unix.SIGTERM)

	savePath := filepath.Join(gameDir, "save.dat")
	for {
		select {
		case <-sigCh:
			flush(eng, r, savePath)
			return nil
		default:
		}

		dt := surface.Clock.DtMs()
		exited := eng.Tick(dt)
		if staged := eng.TakeStaged(); staged != nil {
			if err := os.WriteFile(savePath, staged, 0o644); err != nil {
				r.Logf(trace.CategoryVM, trace.LevelError, "save write failed: %v", err)
			}
		}
		if exited {
			flush(eng, r, savePath)
			return nil
		}
	}
}

// flush persists any still-staged save data on shutdown, the "SIGINT/
// SIGTERM flush" behavior named in SPEC_FULL.md's CLI-surface note.
func flush(eng *engine.Engine, r *trace.Ring, savePath string) {
	if staged := eng.TakeStaged(); staged != nil {
		_ = os.WriteFile(savePath, staged, 0o644)
	}
	for _, e := range r.Entries() {
		fmt.Fprintln(os.Stderr, e.Format())
	}
}
