package wasmhost

import (
	"context"
	"fmt"
	"sort"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/otio-bridge/bridge"
	"github.com/wippyai/otio-bridge/errors"
)

// DefaultModuleName is the import module guests link against.
const DefaultModuleName = "otio"

// Config configures a Host.
type Config struct {
	// Logger overrides the package logger.
	Logger *zap.Logger
	// ModuleName is the host module name (default: "otio").
	ModuleName string
	// MaxStringLen bounds strings read from guest memory (default: 1 MiB).
	MaxStringLen uint32
}

// Host exports a bridge to WASM guests as a wazero host module.
//
// A Host is driven by whichever goroutine runs the guest, so like the bridge
// it must not be called from two guests at once.
type Host struct {
	b       *bridge.Bridge
	log     *zap.Logger
	exports map[string]export
	lastErr string
	cfg     Config
}

// New creates a host serving b.
func New(b *bridge.Bridge, cfg Config) *Host {
	if cfg.ModuleName == "" {
		cfg.ModuleName = DefaultModuleName
	}
	if cfg.MaxStringLen == 0 {
		cfg.MaxStringLen = 1 << 20
	}
	log := cfg.Logger
	if log == nil {
		log = Logger()
	}
	return &Host{
		b:       b,
		cfg:     cfg,
		log:     log.With(zap.String("module", cfg.ModuleName)),
		exports: exportTable(),
	}
}

// Bridge returns the bridge behind the host.
func (h *Host) Bridge() *bridge.Bridge {
	return h.b
}

// ModuleName returns the name guests import from.
func (h *Host) ModuleName() string {
	return h.cfg.ModuleName
}

// Exports returns the exported function names in sorted order.
func (h *Host) Exports() []string {
	names := make([]string, 0, len(h.exports))
	for name := range h.exports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LastError returns the message recorded by the last failing call.
func (h *Host) LastError() string {
	return h.lastErr
}

// Instantiate registers the host module in rt. Guests importing the module
// name must be instantiated afterwards.
func (h *Host) Instantiate(ctx context.Context, rt wazero.Runtime) (api.Module, error) {
	builder := rt.NewHostModuleBuilder(h.cfg.ModuleName)
	for _, name := range h.Exports() {
		e := h.exports[name]
		builder.NewFunctionBuilder().
			WithGoModuleFunction(h.wrap(name, e), e.params, []api.ValueType{api.ValueTypeI32}).
			WithParameterNames(e.paramNames()...).
			Export(name)
	}
	mod, err := builder.Instantiate(ctx)
	if err != nil {
		return nil, fmt.Errorf("wasmhost: instantiate %q: %w", h.cfg.ModuleName, err)
	}
	h.log.Debug("host module instantiated", zap.Int("exports", len(h.exports)))
	return mod, nil
}

// wrap adapts an export to wazero's calling convention. Results overwrite
// the parameter stack once every parameter has been consumed.
func (h *Host) wrap(name string, e export) api.GoModuleFunc {
	return func(ctx context.Context, mod api.Module, stack []uint64) {
		c := &call{mem: mod.Memory(), stack: stack, max: h.cfg.MaxStringLen}
		err := e.fn(h, c)
		stack[0] = api.EncodeU32(uint32(h.status(name, e, err)))
	}
}

func (h *Host) status(name string, e export, err error) errors.Code {
	if err == nil {
		return errors.CodeOK
	}
	code := errors.CodeOf(err)
	if !e.quiet {
		h.lastErr = name + ": " + err.Error()
	}
	h.log.Debug("host call failed",
		zap.String("func", name),
		zap.Stringer("code", code),
		zap.Error(err))
	return code
}

// give writes a handle the guest now owns. A handle that cannot be delivered
// is deleted so nothing leaks behind the guest's back.
func (h *Host) give(c *call, obj bridge.Handle) error {
	if err := c.putHandle(obj); err != nil {
		if obj != 0 {
			if derr := h.b.Delete(obj); derr != nil {
				h.log.Warn("undelivered handle not deleted",
					zap.Uint64("handle", uint64(obj)),
					zap.Error(derr))
			}
		}
		return err
	}
	return nil
}
