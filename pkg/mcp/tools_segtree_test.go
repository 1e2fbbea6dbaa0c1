package mcp

import (
	"context"
	"encoding/json"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/segviz/pkg/visualizer"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	viz, err := visualizer.New(visualizer.Options{Array: []int64{1, 3, -2, 8, -7}})
	require.NoError(t, err)

	srv, err := NewServer(ServerDeps{Visualizer: viz})
	require.NoError(t, err)

	return srv
}

func resultText(t *testing.T, result *mcpsdk.CallToolResult) string {
	t.Helper()

	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok)

	return text.Text
}

func ptr[T any](v T) *T { return &v }

func TestNewServer_RegistersTools(t *testing.T) {
	t.Parallel()

	srv, err := NewServer(ServerDeps{})
	require.NoError(t, err)

	assert.Equal(t, []string{
		ToolNameEdit, ToolNameFunction, ToolNameQuery,
		ToolNameScene, ToolNameUpdate, ToolNameUpdateRange,
	}, srv.ListToolNames())
	assert.Empty(t, srv.viz.Array())
}

func TestHandleQuery(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	result, out, err := srv.handleQuery(context.Background(), &mcpsdk.CallToolRequest{}, RangeInput{Low: 0, High: 4})
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, QueryResult{Function: "add_f", Low: 0, High: 4, Result: 3}, out.Data)

	var decoded QueryResult

	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &decoded))
	assert.Equal(t, int64(3), decoded.Result)
}

func TestHandleUpdate_OutOfRange(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	result, _, err := srv.handleUpdate(context.Background(), &mcpsdk.CallToolRequest{}, UpdateInput{Index: 9, Value: 1})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "out of range")
}

func TestHandleUpdateRange(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	result, out, err := srv.handleUpdateRange(context.Background(), &mcpsdk.CallToolRequest{},
		UpdateRangeInput{Low: 1, High: 3, Value: 2})
	require.NoError(t, err)
	assert.False(t, result.IsError)

	res, ok := out.Data.(ArrayResult)
	require.True(t, ok)
	assert.Equal(t, []int64{1, 5, 0, 10, -7}, res.Array)
	require.NotNil(t, res.Root)
	assert.Equal(t, int64(9), *res.Root)
}

func TestHandleEdit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input EditInput
		want  []int64
	}{
		{"insert at end", EditInput{Op: EditInsert, Value: ptr[int64](4)}, []int64{1, 3, -2, 8, -7, 4}},
		{"insert at index", EditInput{Op: EditInsert, Value: ptr[int64](4), Index: ptr(0)}, []int64{4, 1, 3, -2, 8, -7}},
		{"remove last", EditInput{Op: EditRemove}, []int64{1, 3, -2, 8}},
		{"extend", EditInput{Op: EditExtend, Values: []int64{5, 6}, Index: ptr(1)}, []int64{1, 5, 6, 3, -2, 8, -7}},
		{"replace", EditInput{Op: EditReplace, Value: ptr[int64](0), Index: ptr(4)}, []int64{1, 3, -2, 8, 0}},
		{"clear", EditInput{Op: EditClear}, []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := newTestServer(t)

			result, out, err := srv.handleEdit(context.Background(), &mcpsdk.CallToolRequest{}, tt.input)
			require.NoError(t, err)
			require.False(t, result.IsError, resultText(t, result))

			res, ok := out.Data.(ArrayResult)
			require.True(t, ok)
			assert.Equal(t, tt.want, append([]int64{}, res.Array...))
		})
	}
}

func TestHandleEdit_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input EditInput
		want  string
	}{
		{"unknown op", EditInput{Op: "shuffle"}, ErrUnknownEdit.Error()},
		{"insert without value", EditInput{Op: EditInsert}, ErrMissingValue.Error()},
		{"replace without index", EditInput{Op: EditReplace, Value: ptr[int64](1)}, ErrMissingIndex.Error()},
		{"extend without values", EditInput{Op: EditExtend}, ErrEmptyValues.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := newTestServer(t)

			result, _, err := srv.handleEdit(context.Background(), &mcpsdk.CallToolRequest{}, tt.input)
			require.NoError(t, err)
			assert.True(t, result.IsError)
			assert.Contains(t, resultText(t, result), tt.want)
			assert.Equal(t, []int64{1, 3, -2, 8, -7}, srv.viz.Array())
		})
	}
}

func TestHandleFunction(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	result, out, err := srv.handleFunction(context.Background(), &mcpsdk.CallToolRequest{}, FunctionInput{Name: "max_f"})
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, "max_f", srv.viz.FunctionName())

	infos, ok := out.Data.([]FunctionInfo)
	require.True(t, ok)

	active := 0

	for _, info := range infos {
		if info.Active {
			active++

			assert.Equal(t, "max_f", info.Name)
		}
	}

	assert.Equal(t, 1, active)

	result, _, err = srv.handleFunction(context.Background(), &mcpsdk.CallToolRequest{}, FunctionInput{Name: "nope_f"})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleScene(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	tests := []struct {
		format string
		want   string
	}{
		{"", `"function": "add_f"`},
		{"yaml", "function: add_f"},
		{"text", "SEGMENT TREE"},
		{"html", "<!DOCTYPE html>"},
	}

	for _, tt := range tests {
		result, _, err := srv.handleScene(context.Background(), &mcpsdk.CallToolRequest{}, SceneInput{Format: tt.format})
		require.NoError(t, err)
		assert.False(t, result.IsError)
		assert.Contains(t, resultText(t, result), tt.want, tt.format)
	}

	result, _, err := srv.handleScene(context.Background(), &mcpsdk.CallToolRequest{}, SceneInput{Format: "svg"})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}
