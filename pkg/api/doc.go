// Package api defines the wire types and error taxonomy shared across the
// couchgm gateway: function specs, resolved function calls and their
// results, the per-query outcome, and the request/response bodies of the
// HTTP endpoints.
//
// All entities here are ephemeral; nothing outlives a single
// query/response cycle and no session state is stored.
package api
