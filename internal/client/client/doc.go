// Package client talks to the ShareBox server over gRPC.
//
// GRPCClient keeps the session tokens, attaches the access token to every
// call and refreshes it once when the server reports it expired. Status
// codes are mapped to the sentinel errors in errors.go so callers can match
// them with errors.Is.
package client
