package otiobridge

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/otio-bridge/bridge"
	"github.com/wippyai/otio-bridge/engine"
	"github.com/wippyai/otio-bridge/errors"
)

// Options configures the process-wide bridge.
type Options struct {
	// Logger is installed as the bridge package logger when set.
	Logger *zap.Logger
	// Name labels the bridge in log entries (default: "default").
	Name string
	// MaxHandles caps live handles. 0 means unlimited.
	MaxHandles int
}

var (
	mu      sync.Mutex
	current *bridge.Bridge
)

// Load creates the process-wide bridge over eng. Loading twice without an
// Unload in between fails.
func Load(eng engine.Engine, opts Options) (*bridge.Bridge, error) {
	if eng == nil {
		return nil, errors.InvalidInput(errors.PhaseRegister, "nil engine")
	}
	if opts.Name == "" {
		opts.Name = "default"
	}

	mu.Lock()
	defer mu.Unlock()
	if current != nil {
		return nil, errors.InvalidInput(errors.PhaseRegister, "bridge already loaded")
	}
	if opts.Logger != nil {
		bridge.SetLogger(opts.Logger)
	}
	current = bridge.NewWithConfig(eng, bridge.Config{
		Logger:     opts.Logger,
		Name:       opts.Name,
		MaxHandles: opts.MaxHandles,
	})
	bridge.Logger().Debug("bridge loaded", zap.String("bridge", opts.Name))
	return current, nil
}

// Default returns the loaded bridge, or nil.
func Default() *bridge.Bridge {
	mu.Lock()
	defer mu.Unlock()
	return current
}

// Unload closes the process-wide bridge and returns the handles the host
// never deleted. Unloading when nothing is loaded returns nil.
func Unload() []bridge.Leak {
	mu.Lock()
	b := current
	current = nil
	mu.Unlock()

	if b == nil {
		return nil
	}
	return b.Close()
}
