// Package bridge exposes a call detector over HTTP and WebSocket.
//
// The bridge mirrors the library surface for remote clients: lifecycle
// commands arrive as JSON over a WebSocket connection, and every call
// state or audio focus event the detector publishes is pushed to all
// connected clients using the payload shapes the event package emits.
//
// # Protocol
//
// Clients send commands of the form {"type": "call/start"} and receive
// a {"type": "call/start_result", "success": true} envelope for each
// one. Commands that carry a body put it in "data". Events and status
// snapshots are pushed without a correlating command.
//
// Command namespaces use slash-style format:
//
//   - call/start, call/stop, call/state
//   - focus/start, focus/stop, focus/state
//   - all/start, all/stop
//   - status/get
//   - sim/call, sim/focus (only when a simulator is attached)
//
// # Endpoints
//
//   - /ws       WebSocket command and event stream
//   - /metrics  Prometheus metrics
//   - /healthz  liveness probe
package bridge
