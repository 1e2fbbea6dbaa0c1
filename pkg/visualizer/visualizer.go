// Package visualizer ties a segment tree to its layout and screen transform.
//
// Operations fall into three groups. Structural operations change the array
// and run rebuild, layout, transform and centering in that order. Point
// operations mutate node data in place and leave positions alone. View
// operations only touch the transform. Every operation is recorded as a RED
// metric and, when a tracer is configured, as a span.
package visualizer

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/segviz/pkg/alg/segtree"
	"github.com/Sumatoshi-tech/segviz/pkg/layout"
	"github.com/Sumatoshi-tech/segviz/pkg/observability"
	"github.com/Sumatoshi-tech/segviz/pkg/scene"
)

// noHighlight is the highlight bound that matches no node.
const noHighlight = -1

// Operation names used for metrics, spans and logs.
const (
	OpInsert         = "insert"
	OpExtend         = "extend"
	OpRemove         = "remove"
	OpReplace        = "replace"
	OpClear          = "clear"
	OpSwitchFunction = "switch_function"
	OpUpdate         = "update"
	OpUpdateRange    = "update_range"
	OpQuery          = "query"
	OpPropagate      = "propagate"
)

// Options configures a Visualizer. Zero-value fields use defaults.
type Options struct {
	// Array is the initial array. It is copied.
	Array []int64

	// Function is the initial aggregate function name. Empty selects add_f.
	Function string

	// Layout holds the layout spacing. The zero value selects layout.DefaultConfig.
	Layout layout.Config

	// Transform is the screen transform. Nil selects layout.NewTransform.
	Transform *layout.Transform

	// Registry resolves function names. Nil selects the built-ins.
	Registry *segtree.Registry

	// Logger receives operation logs. Nil discards them.
	Logger *slog.Logger

	// Metrics records per-operation RED metrics. Nil uses no-op instruments.
	Metrics *observability.REDMetrics

	// Tracer creates one span per operation. Nil disables tracing.
	Tracer trace.Tracer
}

// Visualizer owns a segment tree together with its layout state.
// It is not safe for concurrent use.
type Visualizer struct {
	tree      *segtree.Tree
	registry  *segtree.Registry
	engine    *layout.Engine
	transform *layout.Transform
	logger    *slog.Logger
	metrics   *observability.REDMetrics
	tracer    trace.Tracer

	highlightLow  int
	highlightHigh int
}

// New creates a visualizer, builds the tree and lays it out.
func New(opts Options) (*Visualizer, error) {
	registry := opts.Registry
	if registry == nil {
		registry = segtree.DefaultRegistry()
	}

	name := opts.Function
	if name == "" {
		name = segtree.DefaultFunctionName
	}

	fn, err := registry.Lookup(name)
	if err != nil {
		return nil, err
	}

	layoutCfg := opts.Layout
	if layoutCfg == (layout.Config{}) {
		layoutCfg = layout.DefaultConfig()
	}

	v := &Visualizer{
		tree:          segtree.New(opts.Array, fn),
		registry:      registry,
		engine:        layout.NewEngine(layoutCfg),
		transform:     opts.Transform,
		logger:        opts.Logger,
		metrics:       opts.Metrics,
		tracer:        opts.Tracer,
		highlightLow:  noHighlight,
		highlightHigh: noHighlight,
	}

	if v.transform == nil {
		v.transform = layout.NewTransform()
	}

	if v.logger == nil {
		v.logger = observability.DiscardLogger()
	}

	if v.metrics == nil {
		v.metrics = observability.NoopREDMetrics()
	}

	v.relayout()

	return v, nil
}

// Insert places value before index. segtree.EndIndex appends.
func (v *Visualizer) Insert(ctx context.Context, value int64, index int) error {
	return v.structural(ctx, OpInsert, func() error { return v.tree.Insert(value, index) })
}

// Extend splices values in before index. segtree.EndIndex appends.
func (v *Visualizer) Extend(ctx context.Context, values []int64, index int) error {
	return v.structural(ctx, OpExtend, func() error { return v.tree.Extend(values, index) })
}

// Remove deletes the element at index. segtree.EndIndex removes the last one.
func (v *Visualizer) Remove(ctx context.Context, index int) error {
	return v.structural(ctx, OpRemove, func() error { return v.tree.Remove(index) })
}

// Replace overwrites the element at index and rebuilds.
func (v *Visualizer) Replace(ctx context.Context, index int, value int64) error {
	return v.structural(ctx, OpReplace, func() error { return v.tree.Replace(index, value) })
}

// Clear empties the array.
func (v *Visualizer) Clear(ctx context.Context) error {
	return v.structural(ctx, OpClear, func() error {
		v.tree.Clear()

		return nil
	})
}

// SwitchFunction selects the aggregate function by name and rebuilds.
func (v *Visualizer) SwitchFunction(ctx context.Context, name string) error {
	return v.structural(ctx, OpSwitchFunction, func() error {
		fn, err := v.registry.Lookup(name)
		if err != nil {
			return err
		}

		v.tree.SwitchFunction(fn)
		v.tree.Rebuild()

		return nil
	})
}

// Update sets array[pos] to value.
func (v *Visualizer) Update(ctx context.Context, pos int, value int64) error {
	return v.observe(ctx, OpUpdate, func(context.Context) error { return v.tree.Update(pos, value) })
}

// UpdateRange adds value to every element of array[low..high].
func (v *Visualizer) UpdateRange(ctx context.Context, low, high int, value int64) error {
	return v.observe(ctx, OpUpdateRange, func(context.Context) error {
		return v.tree.UpdateSegmentLazy(value, low, high)
	})
}

// Query aggregates array[low..high]. Ranges outside the array yield the
// active function's sentinel.
func (v *Visualizer) Query(ctx context.Context, low, high int) int64 {
	var result int64

	_ = v.observe(ctx, OpQuery, func(context.Context) error {
		result = v.tree.Query(low, high)

		return nil
	})

	return result
}

// PropagateAll pushes every pending lazy value down to the leaves.
func (v *Visualizer) PropagateAll(ctx context.Context) {
	_ = v.observe(ctx, OpPropagate, func(context.Context) error {
		v.tree.PropagateAll()

		return nil
	})
}

// Zoom steps the zoom in (direction > 0) or out and returns the new level.
func (v *Visualizer) Zoom(direction int) float64 {
	zoom := v.transform.ZoomBy(direction)
	v.transform.Apply(v.tree.Root())

	return zoom
}

// SetZoom sets the zoom level, clamped to the transform bounds.
func (v *Visualizer) SetZoom(zoom float64) float64 {
	zoom = v.transform.SetZoom(zoom)
	v.transform.Apply(v.tree.Root())

	return zoom
}

// Pan moves the whole tree by (dx, dy) screen pixels.
func (v *Visualizer) Pan(dx, dy int) {
	v.transform.Pan(v.tree.Root(), dx, dy)
}

// Home moves the root back to the horizontal center of the viewport.
func (v *Visualizer) Home() {
	v.transform.CenterTree(v.tree.Root(), v.engine.Config().HalfWidth())
}

// Highlight marks every node whose segment lies within [low, high].
func (v *Visualizer) Highlight(low, high int) {
	v.highlightLow, v.highlightHigh = low, high
}

// ClearHighlight removes the highlight.
func (v *Visualizer) ClearHighlight() {
	v.Highlight(noHighlight, noHighlight)
}

// HighlightRange returns the current highlight bounds.
func (v *Visualizer) HighlightRange() (low, high int) { //nolint:nonamedreturns // documents order
	return v.highlightLow, v.highlightHigh
}

// IsHighlighted reports whether n lies within the highlight range.
func (v *Visualizer) IsHighlighted(n *segtree.Node) bool {
	return v.highlightLow <= n.Low && n.High <= v.highlightHigh
}

// Scene snapshots the tree for rendering.
func (v *Visualizer) Scene() *scene.Scene {
	return scene.Build(v.tree, v.transform.Zoom, v.IsHighlighted)
}

// Array returns a copy of the backing array.
func (v *Visualizer) Array() []int64 {
	return v.tree.Array()
}

// Len returns the array length.
func (v *Visualizer) Len() int {
	return v.tree.Len()
}

// FunctionName returns the active aggregate function name.
func (v *Visualizer) FunctionName() string {
	return v.tree.Function().Name
}

// Functions returns the registered aggregate functions sorted by name.
func (v *Visualizer) Functions() []segtree.AggregateFunction {
	names := v.registry.Names()
	fns := make([]segtree.AggregateFunction, 0, len(names))

	for _, name := range names {
		fn, err := v.registry.Lookup(name)
		if err != nil {
			continue
		}

		fns = append(fns, fn)
	}

	return fns
}

// Node returns the node with the given heap-style ID, or nil.
func (v *Visualizer) Node(id int) *segtree.Node {
	return v.tree.Find(id)
}

// ZoomLevel returns the current zoom level.
func (v *Visualizer) ZoomLevel() float64 {
	return v.transform.Zoom
}

// structural runs a tree edit and, when it succeeds, lays the tree out again.
func (v *Visualizer) structural(ctx context.Context, op string, edit func() error) error {
	return v.observe(ctx, op, func(ctx context.Context) error {
		err := edit()
		if err != nil {
			return err
		}

		v.relayout()

		v.logger.DebugContext(ctx, "tree rebuilt",
			slog.String("op", op),
			slog.Int("size", v.tree.Len()),
			slog.Int("nodes", v.tree.NodeCount()),
		)

		return nil
	})
}

// relayout runs layout, transform and centering over the current root.
func (v *Visualizer) relayout() {
	root := v.tree.Root()
	if root == nil {
		return
	}

	v.engine.GeneratePositions(root)
	v.transform.CenterTree(root, v.engine.Config().HalfWidth())
}

// observe wraps an operation with a span, RED metrics and an error log.
func (v *Visualizer) observe(ctx context.Context, op string, fn func(context.Context) error) error {
	var span trace.Span

	if v.tracer != nil {
		ctx, span = v.tracer.Start(ctx, "segviz."+op, trace.WithAttributes(
			attribute.String("segviz.function", v.FunctionName()),
			attribute.Int("segviz.size", v.tree.Len()),
		))
		defer span.End()
	}

	err := v.metrics.Observe(ctx, op, func() error { return fn(ctx) })
	if err != nil {
		if span != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}

		v.logger.DebugContext(ctx, "operation failed", slog.String("op", op), slog.Any("error", err))

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
