// Package scenario runs YAML-described sequences of host calls against a
// bridge.
//
//	name: second append fails
//	steps:
//	  - op: create_track
//	    args: [V1, Video]
//	    bind: v1
//	  - op: create_clip
//	    args: [C1]
//	    bind: c1
//	  - op: append_child
//	    args: [$v1, $c1]
//	  - op: append_child
//	    args: [$v1, $c1]
//	    expect:
//	      error: already_parented
//
// Times are written [value, rate] and ranges [start, duration, rate].
// Expected values compare against the rendered result: handles as decimal
// numbers, times as "48@24", ranges as "0@24+48@24", lists joined by commas.
package scenario
