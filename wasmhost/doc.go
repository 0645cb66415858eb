// Package wasmhost exports a bridge to WASM guests as a wazero host module.
//
// Guests import functions from the "otio" module. Handles cross the boundary
// as i64. Every export returns an i32 status that is 0 on success or an
// errors.Code otherwise; last_error copies the message of the most recent
// failure.
//
// Strings in are (ptr, len). Strings out are (buf, cap, len_out): the full
// length is stored at len_out and at most cap bytes are copied, with
// buffer_too_small reported when the copy was cut short. Scalars and handles
// are written through an out pointer. Times are two little-endian f64
// (value, rate), ranges four (start value, start rate, duration value,
// duration rate). An optional time or range pointer of 0 means absent.
//
//	host := wasmhost.New(b, wasmhost.Config{})
//	if _, err := host.Instantiate(ctx, rt); err != nil {
//	    return err
//	}
//	guest, err := rt.Instantiate(ctx, wasmBytes)
package wasmhost
