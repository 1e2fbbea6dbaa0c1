package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
)

const (
	metricRequestsTotal    = "segviz.requests.total"
	metricRequestDuration  = "segviz.request.duration.seconds"
	metricErrorsTotal      = "segviz.errors.total"
	metricInflightRequests = "segviz.inflight.requests"

	attrOp     = "op"
	attrStatus = "status"

	// StatusOK marks a successful operation.
	StatusOK = "ok"
	// StatusError marks a failed operation.
	StatusError = "error"
)

// durationBucketBoundaries covers 10µs to 5s. Tree operations on
// interactive sizes finish well under a millisecond; full layouts and HTML
// renders of large arrays reach the upper buckets.
var durationBucketBoundaries = []float64{
	0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5,
}

// REDMetrics holds the OTel instruments for Rate, Error, Duration metrics.
type REDMetrics struct {
	requestsTotal    metric.Int64Counter
	requestDuration  metric.Float64Histogram
	errorsTotal      metric.Int64Counter
	inflightRequests metric.Int64UpDownCounter
}

// NewREDMetrics creates RED metric instruments from the given meter.
func NewREDMetrics(mt metric.Meter) (*REDMetrics, error) {
	reqTotal, err := mt.Int64Counter(metricRequestsTotal,
		metric.WithDescription("Total number of operations"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRequestsTotal, err)
	}

	reqDuration, err := mt.Float64Histogram(metricRequestDuration,
		metric.WithDescription("Operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRequestDuration, err)
	}

	errTotal, err := mt.Int64Counter(metricErrorsTotal,
		metric.WithDescription("Total number of failed operations"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricErrorsTotal, err)
	}

	inflight, err := mt.Int64UpDownCounter(metricInflightRequests,
		metric.WithDescription("Number of in-flight operations"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricInflightRequests, err)
	}

	return &REDMetrics{
		requestsTotal:    reqTotal,
		requestDuration:  reqDuration,
		errorsTotal:      errTotal,
		inflightRequests: inflight,
	}, nil
}

// NoopREDMetrics returns instruments backed by a no-op meter.
func NoopREDMetrics() *REDMetrics {
	red, err := NewREDMetrics(noopmetric.NewMeterProvider().Meter(meterName))
	if err != nil {
		// The no-op meter never fails to create instruments.
		panic(err)
	}

	return red
}

// RecordRequest records a completed operation with its status and duration.
func (rm *REDMetrics) RecordRequest(ctx context.Context, op, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String(attrOp, op),
		attribute.String(attrStatus, status),
	)

	rm.requestsTotal.Add(ctx, 1, attrs)
	rm.requestDuration.Record(ctx, duration.Seconds(), attrs)

	if status == StatusError {
		rm.errorsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String(attrOp, op),
		))
	}
}

// TrackInflight increments the in-flight gauge and returns a function to decrement it.
func (rm *REDMetrics) TrackInflight(ctx context.Context, op string) func() {
	attrs := metric.WithAttributes(attribute.String(attrOp, op))
	rm.inflightRequests.Add(ctx, 1, attrs)

	return func() {
		rm.inflightRequests.Add(ctx, -1, attrs)
	}
}

// Observe runs fn as operation op, recording in-flight, duration and status.
func (rm *REDMetrics) Observe(ctx context.Context, op string, fn func() error) error {
	done := rm.TrackInflight(ctx, op)
	defer done()

	start := time.Now()
	err := fn()

	status := StatusOK
	if err != nil {
		status = StatusError
	}

	rm.RecordRequest(ctx, op, status, time.Since(start))

	return err
}
