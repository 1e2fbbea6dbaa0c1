// Package mcp implements a Model Context Protocol server exposing one
// segment tree visualizer as MCP tools over stdio transport.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/segviz/pkg/observability"
	"github.com/Sumatoshi-tech/segviz/pkg/version"
	"github.com/Sumatoshi-tech/segviz/pkg/visualizer"
)

const (
	// serverName is the MCP server implementation name.
	serverName = "segviz"

	// toolCount is the expected number of registered tools.
	toolCount = 6
)

// ServerDeps holds injectable dependencies for the MCP server.
// Zero-value fields use production defaults.
type ServerDeps struct {
	// Visualizer is the tree the tools operate on. Nil starts from an empty array.
	Visualizer *visualizer.Visualizer

	// Logger is an optional structured logger. Nil uses slog default.
	Logger *slog.Logger

	// Metrics is an optional RED metrics recorder. Nil disables per-tool metrics.
	Metrics *observability.REDMetrics

	// Tracer is an optional OTel tracer for per-tool-call spans. Nil disables tracing.
	Tracer trace.Tracer
}

// Server wraps the MCP SDK server with segment tree tool registrations.
type Server struct {
	inner   *mcpsdk.Server
	mu      sync.RWMutex
	tools   []string
	metrics *observability.REDMetrics
	tracer  trace.Tracer

	// callMu serializes tool calls; the visualizer has a single control thread.
	callMu sync.Mutex
	viz    *visualizer.Visualizer
}

// NewServer creates a new MCP server with all segment tree tools registered.
func NewServer(deps ServerDeps) (*Server, error) {
	viz := deps.Visualizer
	if viz == nil {
		var err error

		viz, err = visualizer.New(visualizer.Options{Logger: deps.Logger, Metrics: deps.Metrics, Tracer: deps.Tracer})
		if err != nil {
			return nil, fmt.Errorf("create visualizer: %w", err)
		}
	}

	opts := &mcpsdk.ServerOptions{}
	if deps.Logger != nil {
		opts.Logger = deps.Logger
	}

	inner := mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    serverName,
			Version: version.Version,
		},
		opts,
	)

	srv := &Server{
		inner:   inner,
		tools:   make([]string, 0, toolCount),
		metrics: deps.Metrics,
		tracer:  deps.Tracer,
		viz:     viz,
	}

	srv.registerTools()

	return srv, nil
}

// ListToolNames returns the sorted names of all registered tools.
func (s *Server) ListToolNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, len(s.tools))
	copy(names, s.tools)
	sort.Strings(names)

	return names
}

// Run starts the MCP server on stdio transport. It blocks until the context
// is canceled or the connection closes.
func (s *Server) Run(ctx context.Context) error {
	return s.RunWithTransport(ctx, &mcpsdk.StdioTransport{})
}

// RunWithTransport starts the MCP server on the given transport. It blocks
// until the context is canceled or the connection closes.
func (s *Server) RunWithTransport(ctx context.Context, transport mcpsdk.Transport) error {
	err := s.inner.Run(ctx, transport)
	if err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}

	return nil
}

// registerTools adds all segment tree MCP tools to the server.
func (s *Server) registerTools() {
	addTool(s, ToolNameQuery, queryToolDescription, s.handleQuery)
	addTool(s, ToolNameUpdate, updateToolDescription, s.handleUpdate)
	addTool(s, ToolNameUpdateRange, updateRangeToolDescription, s.handleUpdateRange)
	addTool(s, ToolNameEdit, editToolDescription, s.handleEdit)
	addTool(s, ToolNameFunction, functionToolDescription, s.handleFunction)
	addTool(s, ToolNameScene, sceneToolDescription, s.handleScene)
}

func addTool[Input any](s *Server, name, description string, handler toolHandler[Input]) {
	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        name,
		Description: description,
	}, mcpsdk.ToolHandlerFor[Input, ToolOutput](
		withMetrics(s.metrics, name, withTracing(s.tracer, name, serialized(&s.callMu, handler))),
	))

	s.trackTool(name)
}

// toolHandler is the typed handler signature shared by every tool.
type toolHandler[Input any] func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error)

// serialized wraps a handler so that only one call runs at a time.
func serialized[Input any](mu *sync.Mutex, handler toolHandler[Input]) toolHandler[Input] {
	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
		mu.Lock()
		defer mu.Unlock()

		return handler(ctx, req, input)
	}
}

// mcpSpanPrefix is the prefix for MCP tool span names.
const mcpSpanPrefix = "mcp."

// traceIDMetaKey is the metadata key for trace_id in MCP tool responses.
const traceIDMetaKey = "trace_id"

// withTracing wraps an MCP tool handler to create an OTel span per invocation
// and include trace_id in the response content when sampled.
func withTracing[Input any](tracer trace.Tracer, toolName string, handler toolHandler[Input]) toolHandler[Input] {
	if tracer == nil {
		return handler
	}

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
		ctx, span := tracer.Start(ctx, mcpSpanPrefix+toolName,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attribute.String("mcp.tool", toolName)),
		)
		defer span.End()

		result, output, err := handler(ctx, req, input)

		sc := span.SpanContext()
		if sc.IsSampled() && result != nil {
			traceContent := &mcpsdk.TextContent{Text: fmt.Sprintf("%s=%s", traceIDMetaKey, sc.TraceID().String())}
			result.Content = append(result.Content, traceContent)
		}

		return result, output, err
	}
}

// withMetrics wraps an MCP tool handler to record RED metrics per invocation.
func withMetrics[Input any](metrics *observability.REDMetrics, toolName string, handler toolHandler[Input]) toolHandler[Input] {
	if metrics == nil {
		return handler
	}

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
		start := time.Now()

		decInflight := metrics.TrackInflight(ctx, mcpSpanPrefix+toolName)
		defer decInflight()

		result, output, err := handler(ctx, req, input)

		status := "ok"
		if err != nil || (result != nil && result.IsError) {
			status = "error"
		}

		metrics.RecordRequest(ctx, mcpSpanPrefix+toolName, status, time.Since(start))

		return result, output, err
	}
}

func (s *Server) trackTool(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tools = append(s.tools, name)
}

// Tool description constants.
const (
	queryToolDescription = "Aggregate array[low..high] with the active query function. " +
		"Ranges outside the array yield the function's invalid value."

	updateToolDescription = "Set the element at index to value and recompute its ancestors."

	updateRangeToolDescription = "Add value to every element of array[low..high] using lazy propagation."

	editToolDescription = "Change the array structure and rebuild the tree. " +
		"op is one of insert, remove, extend, replace, clear."

	functionToolDescription = "List the query functions, or switch to the named one and rebuild."

	sceneToolDescription = "Return the laid-out tree as json (default), yaml, text or html."
)
