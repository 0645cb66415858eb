package wasmhost

import (
	"github.com/wippyai/otio-bridge/bridge"
	"github.com/wippyai/otio-bridge/engine"
)

// Adapters bind bridge methods of the common shapes to signatures.

func expect(tag engine.TypeTag, next handler) handler {
	return func(h *Host, c *call) error {
		if err := h.b.Expect(c.peekHandle(), tag); err != nil {
			return err
		}
		return next(h, c)
	}
}

func unary(fn func(*bridge.Bridge, bridge.Handle) error) handler {
	return func(h *Host, c *call) error { return fn(h.b, c.handle()) }
}

func pair(fn func(*bridge.Bridge, bridge.Handle, bridge.Handle) error) handler {
	return func(h *Host, c *call) error {
		x, y := c.handle(), c.handle()
		return fn(h.b, x, y)
	}
}

func withIndex(fn func(*bridge.Bridge, bridge.Handle, int) error) handler {
	return func(h *Host, c *call) error {
		obj, i := c.handle(), c.index()
		return fn(h.b, obj, i)
	}
}

func indexedChild(fn func(*bridge.Bridge, bridge.Handle, int, bridge.Handle) error) handler {
	return func(h *Host, c *call) error {
		parent, i, child := c.handle(), c.index(), c.handle()
		return fn(h.b, parent, i, child)
	}
}

func createNamed(fn func(*bridge.Bridge, string) (bridge.Handle, error)) handler {
	return func(h *Host, c *call) error {
		name, err := c.str()
		if err != nil {
			return err
		}
		obj, err := fn(h.b, name)
		if err != nil {
			return err
		}
		return h.give(c, obj)
	}
}

func createPair(fn func(*bridge.Bridge, string, string) (bridge.Handle, error)) handler {
	return func(h *Host, c *call) error {
		first, err := c.str()
		if err != nil {
			return err
		}
		second, err := c.str()
		if err != nil {
			return err
		}
		obj, err := fn(h.b, first, second)
		if err != nil {
			return err
		}
		return h.give(c, obj)
	}
}

func createRanged(fn func(*bridge.Bridge, string, *engine.TimeRange) (bridge.Handle, error)) handler {
	return func(h *Host, c *call) error {
		s, err := c.str()
		if err != nil {
			return err
		}
		r, err := c.optRange()
		if err != nil {
			return err
		}
		obj, err := fn(h.b, s, r)
		if err != nil {
			return err
		}
		return h.give(c, obj)
	}
}

func getString(fn func(*bridge.Bridge, bridge.Handle) (string, error)) handler {
	return func(h *Host, c *call) error {
		v, err := fn(h.b, c.handle())
		if err != nil {
			return err
		}
		return c.putString(v)
	}
}

func setString(fn func(*bridge.Bridge, bridge.Handle, string) error) handler {
	return func(h *Host, c *call) error {
		obj := c.handle()
		v, err := c.str()
		if err != nil {
			return err
		}
		return fn(h.b, obj, v)
	}
}

func getBool(fn func(*bridge.Bridge, bridge.Handle) (bool, error)) handler {
	return func(h *Host, c *call) error {
		v, err := fn(h.b, c.handle())
		if err != nil {
			return err
		}
		return c.putBool(v)
	}
}

func setBool(fn func(*bridge.Bridge, bridge.Handle, bool) error) handler {
	return func(h *Host, c *call) error {
		obj, v := c.handle(), c.flag()
		return fn(h.b, obj, v)
	}
}

func getInt(fn func(*bridge.Bridge, bridge.Handle) (int, error)) handler {
	return func(h *Host, c *call) error {
		v, err := fn(h.b, c.handle())
		if err != nil {
			return err
		}
		return c.putInt(v)
	}
}

func getHandle(fn func(*bridge.Bridge, bridge.Handle) (bridge.Handle, error)) handler {
	return func(h *Host, c *call) error {
		v, err := fn(h.b, c.handle())
		if err != nil {
			return err
		}
		return h.give(c, v)
	}
}

func getHandleAt(fn func(*bridge.Bridge, bridge.Handle, int) (bridge.Handle, error)) handler {
	return func(h *Host, c *call) error {
		obj, i := c.handle(), c.index()
		v, err := fn(h.b, obj, i)
		if err != nil {
			return err
		}
		return h.give(c, v)
	}
}

func getTime(fn func(*bridge.Bridge, bridge.Handle) (engine.RationalTime, error)) handler {
	return func(h *Host, c *call) error {
		v, err := fn(h.b, c.handle())
		if err != nil {
			return err
		}
		return c.putTime(v)
	}
}

func getRange(fn func(*bridge.Bridge, bridge.Handle) (engine.TimeRange, error)) handler {
	return func(h *Host, c *call) error {
		v, err := fn(h.b, c.handle())
		if err != nil {
			return err
		}
		return c.putRange(v)
	}
}

// getOptRange writes the range, zero when absent, then the presence flag.
func getOptRange(fn func(*bridge.Bridge, bridge.Handle) (engine.TimeRange, bool, error)) handler {
	return func(h *Host, c *call) error {
		v, ok, err := fn(h.b, c.handle())
		if err != nil {
			return err
		}
		if err := c.putRange(v); err != nil {
			return err
		}
		return c.putBool(ok)
	}
}

func setOptRange(fn func(*bridge.Bridge, bridge.Handle, *engine.TimeRange) error) handler {
	return func(h *Host, c *call) error {
		obj := c.handle()
		r, err := c.optRange()
		if err != nil {
			return err
		}
		return fn(h.b, obj, r)
	}
}

func shift(fn func(*bridge.Bridge, bridge.Handle, engine.RationalTime) error) handler {
	return func(h *Host, c *call) error {
		item := c.handle()
		d, err := c.timeIn()
		if err != nil {
			return err
		}
		return fn(h.b, item, d)
	}
}
