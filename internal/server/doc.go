// Package server exposes the propagation engine over a WebSocket so a
// presentation layer can ask for solves and dry runs as the user types.
//
// Each connection gets its own hub: one goroutine reads requests, one
// processes them in arrival order and writes replies. The engine itself is
// shared and read-only.
//
// Protocol (JSON text frames):
//
//	→ {"type":"solve","id":"1","inputs":{"Ma_e":5,"gamma":1.3,"T_e":1500}}
//	← {"type":"solved","id":"1","trace_id":"…","derived":{"T_s":7125,"T_t":6195.65}}
//
//	→ {"type":"check","id":"2","inputs":{…}}
//	← {"type":"checked","id":"2","trace_id":"…","derivable":[…],"redundant":[…]}
//
// Failures are answered with {"type":"error","error":{"code":…,"message":…}}
// and the connection stays open.
package server
