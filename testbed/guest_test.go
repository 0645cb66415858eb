package testbed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/otio-bridge/bridge"
	"github.com/wippyai/otio-bridge/engine/memengine"
	"github.com/wippyai/otio-bridge/errors"
	"github.com/wippyai/otio-bridge/wasmhost"
)

// Minimal core wasm encoding, enough for guests that import host
// functions, keep strings in a data segment and export one function.

const (
	opCall     = 0x10
	opDrop     = 0x1a
	opI32Const = 0x41
	opI64Load  = 0x29
	opEnd      = 0x0b
)

func uleb(v uint64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		out = append(out, b)
		if v == 0 {
			return out
		}
	}
}

func sleb(v int64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		done := (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0)
		if !done {
			b |= 0x80
		}
		out = append(out, b)
		if done {
			return out
		}
	}
}

func vec(items ...[]byte) []byte {
	out := uleb(uint64(len(items)))
	for _, it := range items {
		out = append(out, it...)
	}
	return out
}

func name(s string) []byte {
	return append(uleb(uint64(len(s))), s...)
}

func section(id byte, payload []byte) []byte {
	return append(append([]byte{id}, uleb(uint64(len(payload)))...), payload...)
}

func valTypes(types []api.ValueType) []byte {
	out := uleb(uint64(len(types)))
	return append(out, types...)
}

// guest assembles a module importing the named otio functions, with data
// at offset 0 and a single exported "run" function returning i32.
type guest struct {
	imports []string
	data    []byte
	body    []byte
}

func (g *guest) fn(name string) byte {
	for i, n := range g.imports {
		if n == name {
			return byte(i)
		}
	}
	g.imports = append(g.imports, name)
	return byte(len(g.imports) - 1)
}

// str appends s to the data segment and returns its (ptr, len).
func (g *guest) str(s string) (int64, int64) {
	ptr := int64(len(g.data))
	g.data = append(g.data, s...)
	return ptr, int64(len(s))
}

func (g *guest) i32(vs ...int64) {
	for _, v := range vs {
		g.body = append(g.body, opI32Const)
		g.body = append(g.body, sleb(v)...)
	}
}

func (g *guest) loadHandle(ptr int64) {
	g.i32(ptr)
	g.body = append(g.body, opI64Load, 0x03, 0x00)
}

func (g *guest) call(fn string) {
	g.body = append(g.body, opCall, g.fn(fn))
}

func (g *guest) drop() {
	g.body = append(g.body, opDrop)
}

func (g *guest) encode(defs map[string]api.FunctionDefinition) []byte {
	var types, imports [][]byte
	for i, n := range g.imports {
		def := defs[n]
		types = append(types, append([]byte{0x60}, append(valTypes(def.ParamTypes()), valTypes(def.ResultTypes())...)...))
		imports = append(imports, append(append(name("otio"), name(n)...), 0x00, byte(i)))
	}
	runType := byte(len(types))
	types = append(types, []byte{0x60, 0x00, 0x01, api.ValueTypeI32})
	runIdx := byte(len(g.imports))

	body := append([]byte{0x00}, g.body...)
	body = append(body, opEnd)

	dataSeg := append([]byte{0x00, opI32Const, 0x00, opEnd}, name(string(g.data))...)

	mod := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
	mod = append(mod, section(1, vec(types...))...)
	mod = append(mod, section(2, vec(imports...))...)
	mod = append(mod, section(3, vec([]byte{runType}))...)
	mod = append(mod, section(5, vec([]byte{0x00, 0x01}))...)
	mod = append(mod, section(7, vec(
		append(name("memory"), 0x02, 0x00),
		append(name("run"), 0x00, runIdx),
	))...)
	mod = append(mod, section(10, vec(append(uleb(uint64(len(body))), body...)))...)
	mod = append(mod, section(11, vec(dataSeg))...)
	return mod
}

type env struct {
	ctx  context.Context
	rt   wazero.Runtime
	b    *bridge.Bridge
	eng  *memengine.Engine
	host *wasmhost.Host
	defs map[string]api.FunctionDefinition
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	t.Cleanup(func() { rt.Close(ctx) })

	eng := memengine.New()
	b := bridge.New(eng)
	t.Cleanup(func() { b.Close() })

	host := wasmhost.New(b, wasmhost.Config{})
	mod, err := host.Instantiate(ctx, rt)
	require.NoError(t, err)
	return &env{ctx: ctx, rt: rt, b: b, eng: eng, host: host, defs: mod.ExportedFunctionDefinitions()}
}

func (e *env) run(t *testing.T, g *guest) errors.Code {
	t.Helper()
	mod, err := e.rt.Instantiate(e.ctx, g.encode(e.defs))
	require.NoError(t, err)
	defer mod.Close(e.ctx)

	results, err := mod.ExportedFunction("run").Call(e.ctx)
	require.NoError(t, err)
	require.Len(t, results, 1)
	return errors.Code(api.DecodeU32(results[0]))
}

// Handles land in guest memory above the data segment.
const (
	trackOut = 256
	clipOut  = 264
	track2   = 272
)

func TestGuest_AlreadyParented(t *testing.T) {
	e := newEnv(t)

	g := &guest{}
	v1, v1n := g.str("V1")
	v2, v2n := g.str("V2")
	kind, kindn := g.str("Video")
	c1, c1n := g.str("C1")

	g.i32(v1, v1n, kind, kindn, trackOut)
	g.call("create_track")
	g.drop()
	g.i32(v2, v2n, kind, kindn, track2)
	g.call("create_track")
	g.drop()
	g.i32(c1, c1n, 0, clipOut)
	g.call("create_clip")
	g.drop()

	g.loadHandle(trackOut)
	g.loadHandle(clipOut)
	g.call("composition_append_child")
	g.drop()

	g.loadHandle(track2)
	g.loadHandle(clipOut)
	g.call("composition_append_child")

	code := e.run(t, g)
	assert.Equal(t, errors.CodeAlreadyParented, code)
	assert.Contains(t, e.host.LastError(), "already_parented")
	assert.Contains(t, e.host.LastError(), `"V1"`)
	assert.Equal(t, 3, e.b.Len())
	assert.Equal(t, 3, e.eng.LiveObjects())
}

func TestGuest_CreateDeleteName(t *testing.T) {
	e := newEnv(t)

	g := &guest{}
	a, an := g.str("A")
	g.i32(a, an, 0, clipOut)
	g.call("create_clip")
	g.drop()

	g.loadHandle(clipOut)
	g.call("delete_clip")
	g.drop()

	g.loadHandle(clipOut)
	g.i32(512, 64, 600)
	g.call("clip_name")

	assert.Equal(t, errors.CodeStaleHandle, e.run(t, g))
	assert.Zero(t, e.b.Len())
	assert.Zero(t, e.eng.LiveObjects())
}

func TestGuest_TypeMismatch(t *testing.T) {
	e := newEnv(t)

	g := &guest{}
	v1, v1n := g.str("V1")
	kind, kindn := g.str("Video")
	g.i32(v1, v1n, kind, kindn, trackOut)
	g.call("create_track")
	g.drop()

	g.loadHandle(trackOut)
	g.i32(clipOut)
	g.call("clip_media_reference")

	assert.Equal(t, errors.CodeTypeMismatch, e.run(t, g))
	assert.Equal(t, 1, e.b.Len(), "failed call leaves the track alive")
}

func TestGuest_LEB128(t *testing.T) {
	assert.Equal(t, []byte{0xe4, 0x00}, sleb(100))
	assert.Equal(t, []byte{0x7f}, sleb(-1))
	assert.Equal(t, []byte{0x80, 0x02}, uleb(256))
}
