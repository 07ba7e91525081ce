// Package server exposes the practice engine over HTTP: JSON-RPC 2.0 tool
// calls on POST /messages, server-sent events on GET /sse for streamed
// responses, a capability manifest at /.well-known/mcp.json, and a /healthz
// probe. The server is transport only; all semantics live in the engine.
package server
