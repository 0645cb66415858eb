package wasmhost

import (
	"fmt"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/otio-bridge/bridge"
	"github.com/wippyai/otio-bridge/engine"
	"github.com/wippyai/otio-bridge/errors"
)

// Signature letters describe export parameters in order. Inputs come first,
// outputs last.
//
//	h  handle            i64
//	i  int or bool       i32
//	s  string in         i32 ptr, i32 len
//	t  time in           i32 ptr to 2 x f64 (value, rate)
//	T  optional time in  as t, ptr 0 means absent
//	r  range in          i32 ptr to 4 x f64 (start value, start rate, duration value, duration rate)
//	R  optional range in as r, ptr 0 means absent
//	o  scalar out        i32 ptr
//	S  string out        i32 buf, i32 cap, i32 len_out
var sigParams = map[rune][]string{
	'h': {"handle"},
	'i': {"value"},
	's': {"ptr", "len"},
	't': {"time_ptr"},
	'T': {"time_ptr"},
	'r': {"range_ptr"},
	'R': {"range_ptr"},
	'o': {"out_ptr"},
	'S': {"buf", "cap", "len_out"},
}

func sigTypes(sig string) []api.ValueType {
	var types []api.ValueType
	for _, r := range sig {
		names, ok := sigParams[r]
		if !ok {
			panic(fmt.Sprintf("wasmhost: bad signature letter %q in %q", r, sig))
		}
		for range names {
			if r == 'h' {
				types = append(types, api.ValueTypeI64)
			} else {
				types = append(types, api.ValueTypeI32)
			}
		}
	}
	return types
}

// call decodes one invocation. Parameters are consumed strictly in
// signature order.
type call struct {
	mem   api.Memory
	stack []uint64
	pos   int
	max   uint32
}

func (c *call) next() uint64 {
	v := c.stack[c.pos]
	c.pos++
	return v
}

func (c *call) handle() bridge.Handle { return bridge.Handle(c.next()) }

func (c *call) peekHandle() bridge.Handle { return bridge.Handle(c.stack[c.pos]) }

func (c *call) u32() uint32 { return api.DecodeU32(c.next()) }

func (c *call) index() int { return int(api.DecodeI32(c.next())) }

func (c *call) flag() bool { return c.u32() != 0 }

func (c *call) memory(ptr uint32, n uint32) (api.Memory, error) {
	if c.mem == nil {
		return nil, errors.New(errors.PhaseHost, errors.KindOutOfBounds).
			Detail("guest exports no memory").
			Build()
	}
	if uint64(ptr)+uint64(n) > uint64(c.mem.Size()) {
		return nil, errors.OutOfBounds(errors.PhaseHost, ptr, n)
	}
	return c.mem, nil
}

func (c *call) str() (string, error) {
	ptr, n := c.u32(), c.u32()
	if n > c.max {
		return "", errors.InvalidInput(errors.PhaseHost,
			fmt.Sprintf("string of %d bytes exceeds limit of %d", n, c.max))
	}
	if n == 0 {
		return "", nil
	}
	mem, err := c.memory(ptr, n)
	if err != nil {
		return "", err
	}
	b, ok := mem.Read(ptr, n)
	if !ok {
		return "", errors.OutOfBounds(errors.PhaseHost, ptr, n)
	}
	return string(b), nil
}

func (c *call) floats(ptr uint32, n int) ([]float64, error) {
	mem, err := c.memory(ptr, uint32(8*n))
	if err != nil {
		return nil, err
	}
	vs := make([]float64, n)
	for i := range vs {
		v, ok := mem.ReadFloat64Le(ptr + uint32(8*i))
		if !ok {
			return nil, errors.OutOfBounds(errors.PhaseHost, ptr, uint32(8*n))
		}
		vs[i] = v
	}
	return vs, nil
}

func (c *call) putFloats(ptr uint32, vs ...float64) error {
	mem, err := c.memory(ptr, uint32(8*len(vs)))
	if err != nil {
		return err
	}
	for i, v := range vs {
		if !mem.WriteFloat64Le(ptr+uint32(8*i), v) {
			return errors.OutOfBounds(errors.PhaseHost, ptr, uint32(8*len(vs)))
		}
	}
	return nil
}

func (c *call) timeAt(ptr uint32) (engine.RationalTime, error) {
	vs, err := c.floats(ptr, 2)
	if err != nil {
		return engine.RationalTime{}, err
	}
	return engine.RationalTime{Value: vs[0], Rate: vs[1]}, nil
}

func (c *call) rangeAt(ptr uint32) (engine.TimeRange, error) {
	vs, err := c.floats(ptr, 4)
	if err != nil {
		return engine.TimeRange{}, err
	}
	return engine.TimeRange{
		Start:    engine.RationalTime{Value: vs[0], Rate: vs[1]},
		Duration: engine.RationalTime{Value: vs[2], Rate: vs[3]},
	}, nil
}

func (c *call) timeIn() (engine.RationalTime, error) { return c.timeAt(c.u32()) }

func (c *call) optTime() (*engine.RationalTime, error) {
	ptr := c.u32()
	if ptr == 0 {
		return nil, nil
	}
	t, err := c.timeAt(ptr)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *call) rangeIn() (engine.TimeRange, error) { return c.rangeAt(c.u32()) }

func (c *call) optRange() (*engine.TimeRange, error) {
	ptr := c.u32()
	if ptr == 0 {
		return nil, nil
	}
	r, err := c.rangeAt(ptr)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *call) putU32(v uint32) error {
	ptr := c.u32()
	mem, err := c.memory(ptr, 4)
	if err != nil {
		return err
	}
	mem.WriteUint32Le(ptr, v)
	return nil
}

func (c *call) putInt(v int) error { return c.putU32(uint32(int32(v))) }

func (c *call) putBool(v bool) error {
	if v {
		return c.putU32(1)
	}
	return c.putU32(0)
}

func (c *call) putHandle(h bridge.Handle) error {
	ptr := c.u32()
	mem, err := c.memory(ptr, 8)
	if err != nil {
		return err
	}
	mem.WriteUint64Le(ptr, uint64(h))
	return nil
}

func (c *call) putTime(t engine.RationalTime) error {
	return c.putFloats(c.u32(), t.Value, t.Rate)
}

func (c *call) putRange(r engine.TimeRange) error {
	return c.putFloats(c.u32(), r.Start.Value, r.Start.Rate, r.Duration.Value, r.Duration.Rate)
}

// putString writes the full length at len_out and at most cap bytes at buf.
// A truncated copy reports buffer_too_small so the guest can retry.
func (c *call) putString(s string) error {
	buf, capacity, lenOut := c.u32(), c.u32(), c.u32()
	need := uint32(len(s))

	mem, err := c.memory(lenOut, 4)
	if err != nil {
		return err
	}
	mem.WriteUint32Le(lenOut, need)

	n := min(need, capacity)
	if n > 0 {
		if _, err := c.memory(buf, n); err != nil {
			return err
		}
		mem.Write(buf, []byte(s[:n]))
	}
	if need > capacity {
		return errors.BufferTooSmall(errors.PhaseHost, need, capacity)
	}
	return nil
}
