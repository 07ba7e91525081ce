package server

import (
	"encoding/json"
	"errors"

	"github.com/kidlingo/kidlingo/core"
	"github.com/kidlingo/kidlingo/internal/util"
)

// JSON-RPC 2.0 error codes. The -32000 range carries domain errors.
const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32603

	codeSessionNotFound = -32001
	codeUnknownGoal     = -32002
)

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type rpcResponse struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      any       `json:"id"`
	Result  any       `json:"result,omitempty"`
	Error   *rpcError `json:"error,omitempty"`

	// Done marks the final frame of a streamed response.
	Done bool `json:"done,omitempty"`
}

func okResponse(id, result any) rpcResponse {
	return rpcResponse{JSONRPC: "2.0", ID: id, Result: result}
}

func errResponse(id any, code int, message string) rpcResponse {
	return rpcResponse{JSONRPC: "2.0", ID: id, Error: &rpcError{Code: code, Message: message}}
}

// toRPCError maps engine and validation errors onto the wire error space.
func toRPCError(id any, err error) rpcResponse {
	var vErr *util.ValidationError
	switch {
	case errors.As(err, &vErr):
		return errResponse(id, codeInvalidParams, vErr.Error())
	case errors.Is(err, core.ErrSessionNotFound):
		return errResponse(id, codeSessionNotFound, err.Error())
	case errors.Is(err, core.ErrUnknownGoal), errors.Is(err, core.ErrUnknownAgeBand):
		return errResponse(id, codeUnknownGoal, err.Error())
	default:
		return errResponse(id, codeInternalError, err.Error())
	}
}
