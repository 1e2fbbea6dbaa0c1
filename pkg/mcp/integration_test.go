package mcp_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Sumatoshi-tech/segviz/pkg/mcp"
	"github.com/Sumatoshi-tech/segviz/pkg/observability"
	"github.com/Sumatoshi-tech/segviz/pkg/visualizer"
)

const testTimeout = 10 * time.Second

// connect starts srv on an in-memory transport and returns a client session.
func connect(t *testing.T, srv *mcp.Server) *mcpsdk.ClientSession {
	t.Helper()

	clientTransport, serverTransport := mcpsdk.NewInMemoryTransports()

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)

	serverDone := make(chan error, 1)

	go func() {
		serverDone <- srv.RunWithTransport(ctx, serverTransport)
	}()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = session.Close()

		cancel()
		<-serverDone
	})

	return session
}

func newServer(t *testing.T, deps mcp.ServerDeps) *mcp.Server {
	t.Helper()

	viz, err := visualizer.New(visualizer.Options{Array: []int64{1, 3, -2, 8, -7}})
	require.NoError(t, err)

	deps.Visualizer = viz

	srv, err := mcp.NewServer(deps)
	require.NoError(t, err)

	return srv
}

func callText(t *testing.T, session *mcpsdk.ClientSession, name string, args map[string]any) (string, bool) {
	t.Helper()

	result, err := session.CallTool(context.Background(), &mcpsdk.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok)

	return text.Text, result.IsError
}

func TestMCPServer_InMemoryTransport_ToolsList(t *testing.T) {
	t.Parallel()

	session := connect(t, newServer(t, mcp.ServerDeps{}))

	toolsResult, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)
	require.NotNil(t, toolsResult)

	toolNames := make([]string, 0, len(toolsResult.Tools))
	for _, tool := range toolsResult.Tools {
		toolNames = append(toolNames, tool.Name)
	}

	assert.ElementsMatch(t, []string{
		mcp.ToolNameQuery, mcp.ToolNameUpdate, mcp.ToolNameUpdateRange,
		mcp.ToolNameEdit, mcp.ToolNameFunction, mcp.ToolNameScene,
	}, toolNames)

	for _, tool := range toolsResult.Tools {
		assert.NotNil(t, tool.InputSchema, "tool %s missing input schema", tool.Name)
	}
}

func TestMCPServer_InMemoryTransport_UpdateThenQuery(t *testing.T) {
	t.Parallel()

	session := connect(t, newServer(t, mcp.ServerDeps{}))

	_, isErr := callText(t, session, mcp.ToolNameUpdateRange, map[string]any{"low": 0, "high": 4, "value": 1})
	require.False(t, isErr)

	text, isErr := callText(t, session, mcp.ToolNameQuery, map[string]any{"low": 0, "high": 4})
	require.False(t, isErr)

	var res mcp.QueryResult

	require.NoError(t, json.Unmarshal([]byte(text), &res))
	assert.Equal(t, int64(8), res.Result)
}

func TestMCPServer_InMemoryTransport_EditError(t *testing.T) {
	t.Parallel()

	session := connect(t, newServer(t, mcp.ServerDeps{}))

	text, isErr := callText(t, session, mcp.ToolNameEdit, map[string]any{"op": "replace", "index": 40, "value": 1})
	assert.True(t, isErr)
	assert.Contains(t, text, "out of range")
}

func TestMCPServer_InMemoryTransport_Scene(t *testing.T) {
	t.Parallel()

	session := connect(t, newServer(t, mcp.ServerDeps{}))

	text, isErr := callText(t, session, mcp.ToolNameScene, map[string]any{"format": "yml"})
	require.False(t, isErr)
	assert.Contains(t, text, "nodes:")
}

func TestMCPServer_TracingAddsTraceID(t *testing.T) {
	t.Parallel()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	deps := mcp.ServerDeps{
		Tracer:  tp.Tracer("test"),
		Metrics: observability.NoopREDMetrics(),
	}

	session := connect(t, newServer(t, deps))

	result, err := session.CallTool(context.Background(), &mcpsdk.CallToolParams{
		Name:      mcp.ToolNameQuery,
		Arguments: map[string]any{"low": 0, "high": 1},
	})
	require.NoError(t, err)
	require.Len(t, result.Content, 2)

	traceText, ok := result.Content[1].(*mcpsdk.TextContent)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(traceText.Text, "trace_id="))

	spans := exporter.GetSpans()
	require.NotEmpty(t, spans)
	assert.Equal(t, "mcp."+mcp.ToolNameQuery, spans[len(spans)-1].Name)
}

// TestMCPServer_EveryToolRecordsMetrics calls each tool through the client so
// every registered handler runs behind the metrics, tracing and lock wrappers.
func TestMCPServer_EveryToolRecordsMetrics(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	red, err := observability.NewREDMetrics(mp.Meter("test"))
	require.NoError(t, err)

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	session := connect(t, newServer(t, mcp.ServerDeps{Metrics: red, Tracer: tp.Tracer("test")}))

	calls := []struct {
		name string
		args map[string]any
	}{
		{mcp.ToolNameQuery, map[string]any{"low": 0, "high": 4}},
		{mcp.ToolNameUpdate, map[string]any{"index": 0, "value": 5}},
		{mcp.ToolNameUpdateRange, map[string]any{"low": 1, "high": 2, "value": 1}},
		{mcp.ToolNameEdit, map[string]any{"op": "insert", "value": 9}},
		{mcp.ToolNameFunction, map[string]any{"name": "max_f"}},
		{mcp.ToolNameScene, map[string]any{}},
	}

	for _, call := range calls {
		_, isErr := callText(t, session, call.name, call.args)
		require.False(t, isErr, call.name)
	}

	text, isErr := callText(t, session, mcp.ToolNameQuery, map[string]any{"low": 0, "high": 5})
	require.False(t, isErr)

	var res mcp.QueryResult

	require.NoError(t, json.Unmarshal([]byte(text), &res))
	assert.Equal(t, "max_f", res.Function)
	assert.Equal(t, int64(9), res.Result)

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(context.Background(), &rm))

	ops := make(map[string]int64)

	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != "segviz.requests.total" {
				continue
			}

			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)

			for _, dp := range sum.DataPoints {
				op, _ := dp.Attributes.Value("op")
				ops[op.AsString()] += dp.Value
			}
		}
	}

	for _, call := range calls {
		assert.Positive(t, ops["mcp."+call.name], call.name)
	}

	assert.Len(t, exporter.GetSpans(), len(calls)+1)
}
