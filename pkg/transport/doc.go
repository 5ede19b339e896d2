// Package transport provides HTTP-level middleware and error response
// helpers shared by the gateway's HTTP adapter: panic recovery, request
// ID propagation, request logging, and the mapping from gateway error
// types to HTTP status codes.
package transport
