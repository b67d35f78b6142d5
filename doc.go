// The logseq package is a client for the Logseq HTTP API.
//
// # Transport
//
// Every operation is executed through a single RPC primitive: an HTTP
// POST of {"method": name, "args": [...]} to the /api endpoint of a
// running Logseq instance with the HTTP server enabled. The transport
// lives in [github.com/logseq/logseq.go/pkg/connection]; it retries
// transport-layer failures with exponential backoff and classifies
// everything else into the typed errors of
// [github.com/logseq/logseq.go/pkg/errs].
//
// # Operations
//
// [Client] groups the remote API the way Logseq does: block editing
// (Editor.*), page management, DataScript queries (DB.*), and graph
// plus Git metadata (App.*, Git.*). Results are normalized into the
// typed entities of [github.com/logseq/logseq.go/pkg/entity] before
// they reach the caller.
//
// # Front ends
//
// The repository ships two front ends built on this package: the
// logseq-mcp command line tool (cmd/logseq-mcp) and an MCP tool and
// prompt server ([github.com/logseq/logseq.go/mcp]) speaking JSON-RPC
// over stdio or WebSocket.
package logseq
