package transport

import (
	"encoding/json"
	"net/http"

	"github.com/couchgm/couchgm/pkg/api"
)

// HTTPStatusFromError maps a GatewayError type to the corresponding HTTP
// status code. Processing failures inside a successfully accepted query
// never reach this path; they are reported in the response body with a
// 200 status.
func HTTPStatusFromError(err *api.GatewayError) int {
	switch err.Type {
	case api.ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case api.ErrorTypeNotReady:
		return http.StatusServiceUnavailable
	case api.ErrorTypeMalformedInput:
		return http.StatusBadRequest
	case api.ErrorTypeUpstreamFailure:
		return http.StatusBadGateway
	case api.ErrorTypeServerError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// WriteErrorResponse writes a JSON error response using the ErrorResponse
// wrapper format from pkg/api. It sets the Content-Type header and writes
// the HTTP status code.
func WriteErrorResponse(w http.ResponseWriter, gwErr *api.GatewayError, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(api.ErrorResponse{Error: gwErr})
}

// WriteGatewayError writes a GatewayError response, deriving the HTTP
// status code from the error type.
func WriteGatewayError(w http.ResponseWriter, gwErr *api.GatewayError) {
	WriteErrorResponse(w, gwErr, HTTPStatusFromError(gwErr))
}
