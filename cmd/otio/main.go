package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"

	otiobridge "github.com/wippyai/otio-bridge"
	"github.com/wippyai/otio-bridge/bridge"
	"github.com/wippyai/otio-bridge/engine/memengine"
	"github.com/wippyai/otio-bridge/scenario"
	"github.com/wippyai/otio-bridge/wasmhost"
)

func main() {
	var (
		scenarioFile = flag.String("scenario", "", "Path to a YAML scenario")
		wasmFile     = flag.String("wasm", "", "Path to a guest module importing \"otio\"")
		funcName     = flag.String("func", "run", "Guest function to call with -wasm")
		list         = flag.Bool("list", false, "List scenario ops and host exports and exit")
		interactive  = flag.Bool("i", false, "Interactive console with TUI")
		debug        = flag.Bool("debug", false, "Log bridge activity to stderr")
		maxHandles   = flag.Int("max-handles", 0, "Cap on live handles (0 = unlimited)")
	)
	flag.Parse()

	if *scenarioFile == "" && *wasmFile == "" && !*list && !*interactive {
		fmt.Fprintln(os.Stderr, "Usage: otio -scenario <file.yaml> [-debug]")
		fmt.Fprintln(os.Stderr, "       otio -wasm <guest.wasm> [-func name]")
		fmt.Fprintln(os.Stderr, "       otio -list")
		fmt.Fprintln(os.Stderr, "       otio -i  (interactive mode)")
		os.Exit(1)
	}

	log := zap.NewNop()
	if *debug {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		log = l
	}
	defer log.Sync()
	wasmhost.SetLogger(log)

	if *list {
		listOps()
		return
	}

	b, err := otiobridge.Load(memengine.New(), otiobridge.Options{Logger: log, Name: "otio", MaxHandles: *maxHandles})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch {
	case *interactive:
		err = runInteractive(b, log)
	case *scenarioFile != "":
		err = runScenario(b, *scenarioFile, log)
	default:
		err = runWasm(b, *wasmFile, *funcName, log)
	}

	leaks := otiobridge.Unload()
	if len(leaks) > 0 {
		fmt.Printf("\n%d handle(s) leaked:\n", len(leaks))
		for _, l := range leaks {
			fmt.Printf("  %s handle %d (refcount %d)\n", l.Schema, l.Handle, l.RefCount)
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func listOps() {
	fmt.Printf("Scenario ops:\n")
	for _, op := range scenario.Ops() {
		fmt.Printf("  %s\n", op)
	}
	host := wasmhost.New(bridge.New(memengine.New()), wasmhost.Config{})
	fmt.Printf("\nHost exports (module %q):\n", host.ModuleName())
	fmt.Printf("  %s\n", strings.Join(host.Exports(), "\n  "))
}

func runScenario(b *bridge.Bridge, path string, log *zap.Logger) error {
	sc, err := scenario.Load(path)
	if err != nil {
		return err
	}

	fmt.Printf("Scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Printf("%s\n", sc.Description)
	}
	fmt.Println()

	r := scenario.NewRunner(b, scenario.Config{Logger: log})
	results, err := r.Run(context.Background(), sc)
	for _, res := range results {
		line := fmt.Sprintf("%3d  %-28s", res.Index, res.Op)
		switch {
		case res.Err != nil:
			line += " error: " + res.Err.Error()
		case res.Value != nil:
			line += " -> " + res.Rendered()
		}
		fmt.Println(line)
	}
	if err != nil {
		return fmt.Errorf("scenario %s: %w", sc.Name, err)
	}
	fmt.Printf("\nOK: %d steps\n", len(results))
	return nil
}

func runWasm(b *bridge.Bridge, path, funcName string, log *zap.Logger) error {
	ctx := context.Background()

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	host := wasmhost.New(b, wasmhost.Config{Logger: log})
	if _, err := host.Instantiate(ctx, rt); err != nil {
		return err
	}

	guest, err := rt.InstantiateWithConfig(ctx, data, wazero.NewModuleConfig().WithName("guest").WithStartFunctions())
	if err != nil {
		return fmt.Errorf("instantiate guest: %w", err)
	}
	defer guest.Close(ctx)

	fn := guest.ExportedFunction(funcName)
	if fn == nil {
		return fmt.Errorf("guest exports no function %q", funcName)
	}

	fmt.Printf("Calling %s()...\n", funcName)
	results, err := fn.Call(ctx)
	if err != nil {
		return fmt.Errorf("call %s: %w", funcName, err)
	}
	fmt.Printf("Result: %v\n", results)
	if msg := host.LastError(); msg != "" {
		fmt.Printf("Last host error: %s\n", msg)
	}
	fmt.Printf("Live handles: %d\n", b.Len())
	return nil
}
