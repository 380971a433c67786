package snapshot

import (
	"context"
	"fmt"
	"sync"

	"github.com/artuross/nifi2go/internal/defaults"
	"github.com/artuross/nifi2go/internal/flow"
	"github.com/artuross/nifi2go/internal/log/semconv"
	"github.com/artuross/nifi2go/internal/provenance"
	"github.com/artuross/nifi2go/internal/repository/nifiapi"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const tracerName = "github.com/artuross/nifi2go/internal/snapshot"

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6@v6.11.2 -o fakes . Client
type Client interface {
	Flow(ctx context.Context, groupID string) (*flow.Flow, error)
	ProvenanceEvents(ctx context.Context, processorID string, limit int) ([]nifiapi.ProvenanceEvent, error)
}

// Snapshot is a live flow together with recent executions of its processors.
type Snapshot struct {
	Flow *flow.Flow

	// Samples are keyed by processor ID.
	Samples map[string][]provenance.Sample

	// Failures holds the error of every processor whose provenance could not
	// be read, keyed by processor ID.
	Failures map[string]string
}

type Collector struct {
	client      Client
	concurrency int
	samples     int
	filter      func(flow.Processor) bool
	tracer      trace.Tracer
}

func NewCollector(client Client, options ...func(*Collector)) *Collector {
	collector := Collector{
		client:      client,
		concurrency: 4,
		samples:     10,
		filter:      func(flow.Processor) bool { return true },
		tracer:      defaults.TracerProvider.Tracer(tracerName),
	}

	for _, apply := range options {
		apply(&collector)
	}

	return &collector
}

func WithConcurrency(n int) func(*Collector) {
	return func(c *Collector) {
		c.concurrency = max(n, 1)
	}
}

// WithSamples sets how many provenance events are read per processor. Zero
// disables reading provenance.
func WithSamples(n int) func(*Collector) {
	return func(c *Collector) {
		c.samples = max(n, 0)
	}
}

// WithFilter limits provenance reads to processors for which keep is true.
func WithFilter(keep func(flow.Processor) bool) func(*Collector) {
	return func(c *Collector) {
		c.filter = keep
	}
}

func WithTracerProvider(tp trace.TracerProvider) func(*Collector) {
	return func(c *Collector) {
		c.tracer = tp.Tracer(tracerName)
	}
}

// Collect reads the flow under groupID and the provenance of its processors.
// A processor whose provenance fails is recorded in Failures.
func (c *Collector) Collect(ctx context.Context, groupID string) (*Snapshot, error) {
	ctx, span := c.tracer.Start(ctx, "Collect")
	defer span.End()

	logger := zerolog.Ctx(ctx)

	f, err := c.client.Flow(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("snapshot.Collect read flow: %w", err)
	}

	f.Sort()

	snapshot := Snapshot{
		Flow:     f,
		Samples:  make(map[string][]provenance.Sample),
		Failures: make(map[string]string),
	}

	if c.samples == 0 {
		return &snapshot, nil
	}

	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for _, processor := range f.Processors {
		if !c.filter(processor) {
			continue
		}

		g.Go(func() error {
			ctx, span := c.tracer.Start(gctx, "CollectProcessor", trace.WithAttributes(
				attribute.String(semconv.ProcessorID, processor.ID),
				attribute.String(semconv.ProcessorType, processor.ShortType()),
			))
			defer span.End()

			events, err := c.client.ProvenanceEvents(ctx, processor.ID, c.samples)
			if err != nil {
				if ctx.Err() != nil {
					return fmt.Errorf("snapshot.Collect read provenance of %s: %w", processor.ID, err)
				}

				logger.Warn().Err(err).Str(semconv.ProcessorID, processor.ID).Msg("failed to read provenance")

				mu.Lock()
				snapshot.Failures[processor.ID] = err.Error()
				mu.Unlock()

				return nil
			}

			logger.Debug().
				Str(semconv.ProcessorID, processor.ID).
				Int("events", len(events)).
				Msg("read provenance")

			mu.Lock()
			snapshot.Samples[processor.ID] = provenance.NewSamples(events)
			mu.Unlock()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &snapshot, nil
}

// Validate checks every processor of the snapshot against its samples.
func (s *Snapshot) Validate(ctx context.Context, validator *provenance.Validator) provenance.Report {
	results := make([]provenance.Result, 0, len(s.Flow.Processors))
	for _, processor := range s.Flow.Processors {
		results = append(results, validator.Validate(ctx, processor, s.Samples[processor.ID]))
	}

	return provenance.NewReport(results)
}
