package bridge

import (
	"go.uber.org/zap"

	"github.com/wippyai/otio-bridge/engine"
	"github.com/wippyai/otio-bridge/errors"
	"github.com/wippyai/otio-bridge/resource"
	"github.com/wippyai/otio-bridge/retain"
)

// Handle is the opaque value the host holds in place of an object.
type Handle = resource.Handle

// Config tunes a Bridge.
type Config struct {
	// Logger overrides the package logger.
	Logger *zap.Logger
	// Name labels log entries when several bridges share a process.
	Name string
	// MaxHandles caps live handles. 0 means unlimited.
	MaxHandles int
}

// Bridge exposes engine objects to a host through handles.
//
// Every handle owns exactly one retain token. Operations resolve their
// handles, check the dynamic type, then call the engine. A Bridge, like the
// engine behind it, must be driven from one goroutine at a time; see Queue.
type Bridge struct {
	eng         engine.Engine
	table       *resource.Table
	log         *zap.Logger
	unsubscribe func()
}

// binding is the table value behind a handle.
type binding struct {
	tok   *retain.Token
	state State
}

// New creates a bridge over eng with default configuration.
func New(eng engine.Engine) *Bridge {
	return NewWithConfig(eng, Config{})
}

// NewWithConfig creates a bridge over eng.
func NewWithConfig(eng engine.Engine, cfg Config) *Bridge {
	log := cfg.Logger
	if log == nil {
		log = Logger()
	}
	if cfg.Name != "" {
		log = log.With(zap.String("bridge", cfg.Name))
	}

	b := &Bridge{
		eng:   eng,
		table: resource.NewTableWithConfig(resource.Config{MaxHandles: cfg.MaxHandles}),
		log:   log,
	}
	b.unsubscribe = b.table.Subscribe(resource.ObserverFunc(b.observe))
	return b
}

// Engine returns the engine behind the bridge.
func (b *Bridge) Engine() engine.Engine {
	return b.eng
}

func (b *Bridge) observe(e resource.Event) {
	if ce := b.log.Check(zap.DebugLevel, "handle "+e.Type.String()); ce != nil {
		ce.Write(
			zap.Uint64("handle", uint64(e.Handle)),
			zap.String("schema", engine.TypeTag(e.TypeID).String()),
		)
	}
}

func (b *Bridge) register(tok *retain.Token) (Handle, error) {
	obj := tok.Object()
	h, err := b.table.Register(uint32(obj.Tag()), &binding{tok: tok, state: StateLive})
	if err != nil {
		if _, rerr := tok.Release(); rerr != nil {
			b.log.Warn("release after failed register",
				zap.String("schema", obj.SchemaName()),
				zap.Error(rerr))
		}
		return 0, err
	}
	return h, nil
}

// adopt hands a freshly constructed object to a new handle.
func (b *Bridge) adopt(obj engine.Object) (Handle, error) {
	tok, err := retain.Adopt(obj)
	if err != nil {
		return 0, err
	}
	return b.register(tok)
}

// share issues a new handle for an object reached through another owner.
// A nil object yields the null handle and no error.
func (b *Bridge) share(obj engine.Object) (Handle, error) {
	if obj == nil {
		return 0, nil
	}
	tok, err := retain.Acquire(obj)
	if err != nil {
		return 0, err
	}
	return b.register(tok)
}

// lookup returns the live object behind h.
func (b *Bridge) lookup(h Handle) (*binding, engine.Object, error) {
	e, err := b.table.Lookup(h)
	if err != nil {
		return nil, nil, err
	}
	bd := e.Value.(*binding)
	obj := bd.tok.Object()
	if obj == nil || obj.RefCount() <= 0 {
		return nil, nil, errors.StaleHandle(errors.PhaseResolve, uint64(h))
	}
	return bd, obj, nil
}

// resolve returns the object behind h if its type derives from want.
func (b *Bridge) resolve(h Handle, want engine.TypeTag) (engine.Object, error) {
	_, obj, err := b.lookup(h)
	if err != nil {
		return nil, err
	}
	if !obj.Tag().IsA(want) {
		return nil, errors.TypeMismatch(errors.PhaseDispatch, uint64(h), obj.SchemaName(), want.String())
	}
	return obj, nil
}

func resolveAs[T engine.Object](b *Bridge, h Handle, want engine.TypeTag) (T, error) {
	var zero T
	obj, err := b.resolve(h, want)
	if err != nil {
		return zero, err
	}
	v, ok := obj.(T)
	if !ok {
		return zero, errors.TypeMismatch(errors.PhaseDispatch, uint64(h), obj.SchemaName(), want.String())
	}
	return v, nil
}

// get resolves h as T and reads a value from it.
func get[T engine.Object, R any](b *Bridge, h Handle, want engine.TypeTag, fn func(T) R) (R, error) {
	v, err := resolveAs[T](b, h, want)
	if err != nil {
		var zero R
		return zero, err
	}
	return fn(v), nil
}

// set resolves h as T and mutates it.
func set[T engine.Object](b *Bridge, h Handle, want engine.TypeTag, fn func(T)) error {
	v, err := resolveAs[T](b, h, want)
	if err != nil {
		return err
	}
	fn(v)
	return nil
}

// check translates an engine status into a bridge error.
func (b *Bridge) check(op string, h Handle, st *engine.Status) error {
	if st.OK() {
		return nil
	}
	b.log.Debug("engine call failed",
		zap.String("op", op),
		zap.Uint64("handle", uint64(h)),
		zap.String("outcome", st.Outcome.String()),
		zap.String("details", st.Details))

	var kind errors.Kind
	switch st.Outcome {
	case engine.ChildAlreadyParented:
		kind = errors.KindAlreadyParented
	case engine.TypeMismatch:
		kind = errors.KindTypeMismatch
	default:
		e := errors.Engine(st.Outcome.String(), op+": "+st.Details)
		e.Handle = uint64(h)
		return e
	}
	return errors.New(errors.PhaseDispatch, kind).
		Handle(uint64(h)).
		Outcome(st.Outcome.String()).
		Detail("%s: %s", op, st.Details).
		Build()
}
