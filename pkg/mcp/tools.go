package mcp

import (
	"encoding/json"
	"errors"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool name constants.
const (
	ToolNameQuery       = "segtree_query"
	ToolNameUpdate      = "segtree_update"
	ToolNameUpdateRange = "segtree_update_range"
	ToolNameEdit        = "segtree_edit"
	ToolNameFunction    = "segtree_function"
	ToolNameScene       = "segtree_scene"
)

// Edit operations accepted by segtree_edit.
const (
	EditInsert  = "insert"
	EditRemove  = "remove"
	EditExtend  = "extend"
	EditReplace = "replace"
	EditClear   = "clear"
)

// Sentinel errors for tool input validation.
var (
	// ErrUnknownEdit indicates an op that segtree_edit does not support.
	ErrUnknownEdit = errors.New("unknown edit operation")
	// ErrMissingValue indicates an edit that needs a value was called without one.
	ErrMissingValue = errors.New("value parameter is required")
	// ErrMissingIndex indicates an edit that needs an index was called without one.
	ErrMissingIndex = errors.New("index parameter is required")
	// ErrEmptyValues indicates an extend without values.
	ErrEmptyValues = errors.New("values parameter is required and must not be empty")
)

// Input types (auto-generate JSON schemas via struct tags).

// RangeInput is the input schema for the segtree_query tool.
type RangeInput struct {
	Low  int `json:"low"  jsonschema:"first index of the segment"`
	High int `json:"high" jsonschema:"last index of the segment, inclusive"`
}

// UpdateInput is the input schema for the segtree_update tool.
type UpdateInput struct {
	Index int   `json:"index" jsonschema:"array index to set"`
	Value int64 `json:"value" jsonschema:"new element value"`
}

// UpdateRangeInput is the input schema for the segtree_update_range tool.
type UpdateRangeInput struct {
	Low   int   `json:"low"   jsonschema:"first index of the segment"`
	High  int   `json:"high"  jsonschema:"last index of the segment, inclusive"`
	Value int64 `json:"value" jsonschema:"amount added to every element"`
}

// EditInput is the input schema for the segtree_edit tool.
type EditInput struct {
	Op     string  `json:"op"               jsonschema:"insert, remove, extend, replace or clear"`
	Index  *int    `json:"index,omitempty"  jsonschema:"target index; insert, extend and remove default to the end"`
	Value  *int64  `json:"value,omitempty"  jsonschema:"element value for insert and replace"`
	Values []int64 `json:"values,omitempty" jsonschema:"elements for extend"`
}

// FunctionInput is the input schema for the segtree_function tool.
type FunctionInput struct {
	Name string `json:"name,omitempty" jsonschema:"function to switch to; empty only lists"`
}

// SceneInput is the input schema for the segtree_scene tool.
type SceneInput struct {
	Format string `json:"format,omitempty" jsonschema:"json, yaml, text or html (default json)"`
}

// Output types.

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// QueryResult is the payload of segtree_query.
type QueryResult struct {
	Function string `json:"function"`
	Low      int    `json:"low"`
	High     int    `json:"high"`
	Result   int64  `json:"result"`
}

// ArrayResult is the payload of the tools that change the array.
type ArrayResult struct {
	Function string  `json:"function"`
	Array    []int64 `json:"array"`
	Root     *int64  `json:"root,omitempty"`
}

// FunctionInfo describes one query function.
type FunctionInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Invalid     int64  `json:"invalid"`
	Active      bool   `json:"active"`
}

// Result helpers.

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return textResult(string(data), value)
}

// textResult builds a CallToolResult with preformatted text content.
func textResult(text string, value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: text},
		},
	}, ToolOutput{Data: value}, nil
}
