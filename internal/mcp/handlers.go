package mcp

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/nicolovejoy/audio-journal/internal/errors"
	"github.com/nicolovejoy/audio-journal/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	env *ops.Env
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(env *ops.Env) *Handlers {
	return &Handlers{env: env}
}

// Request types for each tool

// SearchRequest represents the arguments for journal_search.
type SearchRequest struct {
	Term         string `json:"term"`
	Year         int    `json:"year,omitempty"`
	Limit        int    `json:"limit,omitempty"`
	Verbose      bool   `json:"verbose,omitempty"`
	Context      int    `json:"context,omitempty"`
	IncludeAudio bool   `json:"include_audio,omitempty"`
}

// FetchRequest represents the arguments for journal_fetch.
type FetchRequest struct {
	Key string `json:"key"`
}

// ListRequest represents the arguments for journal_list.
type ListRequest struct {
	Year  int `json:"year,omitempty"`
	Limit int `json:"limit,omitempty"`
}

// Handler implementations

// HandleSearch handles the journal_search tool call.
func (h *Handlers) HandleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SearchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Search(h.env, ops.SearchInput{
		Term:      input.Term,
		Year:      input.Year,
		Limit:     input.Limit,
		Verbose:   input.Verbose,
		Context:   input.Context,
		WithAudio: input.IncludeAudio,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleFetch handles the journal_fetch tool call.
func (h *Handlers) HandleFetch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FetchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Show(h.env, ops.ShowInput{Key: input.Key})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleList handles the journal_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.List(h.env, ops.ListInput{
		Year:  input.Year,
		Limit: input.Limit,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleStatus handles the journal_status tool call. It takes no arguments.
func (h *Handlers) HandleStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.Status(h.env)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult converts any error into an IsError tool result. Untyped
// errors collapse to a generic INTERNAL payload, and INTERNAL errors never
// carry details.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	var jErr *errors.JournalError
	if stderrors.As(err, &jErr) {
		errorObj := map[string]any{
			"code":    jErr.Code,
			"message": jErr.Message,
			"status":  jErr.Status,
		}
		if jErr.Remedy != "" {
			errorObj["remedy"] = jErr.Remedy
		}
		if jErr.Code != errors.ErrInternal && jErr.Details != nil {
			errorObj["details"] = jErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
