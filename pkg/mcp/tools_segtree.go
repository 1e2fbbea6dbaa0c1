package mcp

import (
	"bytes"
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/segviz/pkg/alg/segtree"
	"github.com/Sumatoshi-tech/segviz/pkg/render/plotpage"
	"github.com/Sumatoshi-tech/segviz/pkg/render/terminal"
	"github.com/Sumatoshi-tech/segviz/pkg/scene"
)

// handleQuery processes segtree_query tool calls.
func (s *Server) handleQuery(ctx context.Context, _ *mcpsdk.CallToolRequest, input RangeInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	result := s.viz.Query(ctx, input.Low, input.High)

	return jsonResult(QueryResult{
		Function: s.viz.FunctionName(),
		Low:      input.Low,
		High:     input.High,
		Result:   result,
	})
}

// handleUpdate processes segtree_update tool calls.
func (s *Server) handleUpdate(ctx context.Context, _ *mcpsdk.CallToolRequest, input UpdateInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	err := s.viz.Update(ctx, input.Index, input.Value)
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(s.arrayResult())
}

// handleUpdateRange processes segtree_update_range tool calls.
func (s *Server) handleUpdateRange(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	input UpdateRangeInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	err := s.viz.UpdateRange(ctx, input.Low, input.High, input.Value)
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(s.arrayResult())
}

// handleEdit processes segtree_edit tool calls.
func (s *Server) handleEdit(ctx context.Context, _ *mcpsdk.CallToolRequest, input EditInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	err := s.applyEdit(ctx, input)
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(s.arrayResult())
}

func (s *Server) applyEdit(ctx context.Context, input EditInput) error {
	index := segtree.EndIndex
	if input.Index != nil {
		index = *input.Index
	}

	switch input.Op {
	case EditInsert:
		if input.Value == nil {
			return fmt.Errorf("%s: %w", input.Op, ErrMissingValue)
		}

		return s.viz.Insert(ctx, *input.Value, index)
	case EditRemove:
		return s.viz.Remove(ctx, index)
	case EditExtend:
		if len(input.Values) == 0 {
			return fmt.Errorf("%s: %w", input.Op, ErrEmptyValues)
		}

		return s.viz.Extend(ctx, input.Values, index)
	case EditReplace:
		if input.Index == nil {
			return fmt.Errorf("%s: %w", input.Op, ErrMissingIndex)
		}

		if input.Value == nil {
			return fmt.Errorf("%s: %w", input.Op, ErrMissingValue)
		}

		return s.viz.Replace(ctx, index, *input.Value)
	case EditClear:
		return s.viz.Clear(ctx)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEdit, input.Op)
	}
}

// handleFunction processes segtree_function tool calls.
func (s *Server) handleFunction(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	input FunctionInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if input.Name != "" {
		err := s.viz.SwitchFunction(ctx, input.Name)
		if err != nil {
			return errorResult(err)
		}
	}

	active := s.viz.FunctionName()
	fns := s.viz.Functions()
	infos := make([]FunctionInfo, 0, len(fns))

	for _, fn := range fns {
		infos = append(infos, FunctionInfo{
			Name:        fn.Name,
			Description: fn.Description,
			Invalid:     fn.Invalid,
			Active:      fn.Name == active,
		})
	}

	return jsonResult(infos)
}

// handleScene processes segtree_scene tool calls.
func (s *Server) handleScene(_ context.Context, _ *mcpsdk.CallToolRequest, input SceneInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	requested := input.Format
	if requested == "" {
		requested = scene.FormatJSON
	}

	format, err := scene.ValidateFormat(requested, scene.Formats())
	if err != nil {
		return errorResult(err)
	}

	snapshot := s.viz.Scene()
	if format == scene.FormatJSON {
		return jsonResult(snapshot)
	}

	var buf bytes.Buffer

	switch format {
	case scene.FormatHTML:
		err = plotpage.WriteScene(&buf, snapshot, plotpage.ThemeLight)
	case scene.FormatText:
		cfg := terminal.NewConfig()
		cfg.NoColor = true
		err = cfg.RenderScene(&buf, snapshot)
	default:
		err = scene.Encode(&buf, snapshot, format)
	}

	if err != nil {
		return errorResult(fmt.Errorf("render scene: %w", err))
	}

	return textResult(buf.String(), snapshot)
}

func (s *Server) arrayResult() ArrayResult {
	res := ArrayResult{Function: s.viz.FunctionName(), Array: s.viz.Array()}

	if root := s.viz.Node(segtree.RootID); root != nil {
		data := root.Data
		res.Root = &data
	}

	return res
}
