package mcp

import "github.com/logseq/logseq.go/pkg/errs"

// toRPCError converts a failure from the operation services into the
// protocol error reported to the client. Every kind keeps its
// message; nothing is silently dropped.
func toRPCError(err error) *RPCError {
	switch errs.KindOf(err) {
	case errs.KindAuthentication:
		return &RPCError{Code: CodeInternalError, Message: "Authentication failed: " + err.Error()}
	case errs.KindConnection:
		return &RPCError{Code: CodeInternalError, Message: "Connection failed: " + err.Error()}
	case errs.KindNotFound:
		return &RPCError{Code: CodeInvalidParams, Message: "Not found: " + err.Error()}
	case errs.KindValidation:
		return &RPCError{Code: CodeInvalidParams, Message: "Validation error: " + err.Error()}
	case errs.KindAPI:
		return &RPCError{Code: CodeInternalError, Message: "API error: " + err.Error()}
	default:
		return &RPCError{Code: CodeInternalError, Message: "Unexpected error: " + err.Error()}
	}
}
