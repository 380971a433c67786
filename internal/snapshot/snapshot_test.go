package snapshot_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/artuross/nifi2go/internal/flow"
	"github.com/artuross/nifi2go/internal/provenance"
	"github.com/artuross/nifi2go/internal/repository/nifiapi"
	"github.com/artuross/nifi2go/internal/snapshot"
	"github.com/artuross/nifi2go/internal/snapshot/fakes"
	"github.com/kr/pretty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(value string) *string {
	return &value
}

func liveFlow() *flow.Flow {
	return &flow.Flow{
		Name: "ingest",
		Processors: []flow.Processor{
			{
				ID:         "p2",
				Name:       "Route",
				Type:       "org.apache.nifi.processors.standard.RouteOnAttribute",
				Properties: map[string]string{"csv": "${filename:endsWith('.csv')}"},
			},
			{
				ID:         "p1",
				Name:       "Tag",
				Type:       "org.apache.nifi.processors.attributes.UpdateAttribute",
				Properties: map[string]string{"ext": "${filename:substringAfterLast('.')}"},
			},
			{
				ID:   "p3",
				Name: "Put",
				Type: "org.apache.nifi.processors.standard.PutFile",
			},
		},
	}
}

func events(processorID string) []nifiapi.ProvenanceEvent {
	switch processorID {
	case "p1":
		return []nifiapi.ProvenanceEvent{{
			EventID:   1,
			EventType: "ATTRIBUTES_MODIFIED",
			Attributes: []nifiapi.EventAttribute{
				{Name: "filename", Value: ptr("a.csv"), PreviousValue: ptr("a.csv")},
				{Name: "ext", Value: ptr("csv")},
			},
		}}

	case "p2":
		return []nifiapi.ProvenanceEvent{{
			EventID:      2,
			EventType:    "ROUTE",
			Relationship: "unmatched",
			Attributes: []nifiapi.EventAttribute{
				{Name: "filename", Value: ptr("a.csv"), PreviousValue: ptr("a.csv")},
			},
		}}
	}

	return nil
}

func TestCollect(t *testing.T) {
	client := fakes.FakeClient{}
	client.FlowReturns(liveFlow(), nil)
	client.ProvenanceEventsCalls(func(_ context.Context, processorID string, limit int) ([]nifiapi.ProvenanceEvent, error) {
		assert.Equal(t, 5, limit)
		return events(processorID), nil
	})

	validator := provenance.NewValidator()
	collector := snapshot.NewCollector(&client,
		snapshot.WithConcurrency(2),
		snapshot.WithSamples(5),
		snapshot.WithFilter(validator.Supports),
	)

	result, err := collector.Collect(context.Background(), "root")
	require.NoError(t, err)

	t.Log(pretty.Sprint(result))

	_, groupID := client.FlowArgsForCall(0)
	assert.Equal(t, "root", groupID)

	// PutFile has no validator so its provenance is never read
	assert.Equal(t, 2, client.ProvenanceEventsCallCount())

	assert.Equal(t, []string{"p1", "p2", "p3"}, []string{
		result.Flow.Processors[0].ID,
		result.Flow.Processors[1].ID,
		result.Flow.Processors[2].ID,
	})
	assert.Len(t, result.Samples["p1"], 1)
	assert.Len(t, result.Samples["p2"], 1)
	assert.Empty(t, result.Failures)

	report := result.Validate(context.Background(), validator)

	t.Log(pretty.Sprint(report))

	assert.Equal(t, 3, report.Processors)
	assert.Equal(t, 2, report.Validated)
	assert.Equal(t, 1, report.Passed)
	assert.Equal(t, 1, report.Failed)
	assert.False(t, report.OK())

	assert.Equal(t, provenance.StatusFailed, report.Results[1].Checks[0].Status)
	assert.Equal(t, "csv", report.Results[1].Checks[0].Expected)
}

func TestCollectRecordsFailures(t *testing.T) {
	client := fakes.FakeClient{}
	client.FlowReturns(liveFlow(), nil)
	client.ProvenanceEventsCalls(func(_ context.Context, processorID string, _ int) ([]nifiapi.ProvenanceEvent, error) {
		if processorID == "p2" {
			return nil, nifiapi.ErrUnauthorized
		}

		return events(processorID), nil
	})

	result, err := snapshot.NewCollector(&client).Collect(context.Background(), "root")
	require.NoError(t, err)

	assert.Equal(t, 3, client.ProvenanceEventsCallCount())
	assert.Equal(t, map[string]string{"p2": "unauthorized"}, result.Failures)
	assert.NotContains(t, result.Samples, "p2")
}

func TestCollectWithoutSamples(t *testing.T) {
	client := fakes.FakeClient{}
	client.FlowReturns(liveFlow(), nil)

	result, err := snapshot.NewCollector(&client, snapshot.WithSamples(0)).Collect(context.Background(), "g1")
	require.NoError(t, err)

	assert.Zero(t, client.ProvenanceEventsCallCount())
	assert.Len(t, result.Flow.Processors, 3)
}

func TestCollectFlowError(t *testing.T) {
	client := fakes.FakeClient{}
	client.FlowReturns(nil, nifiapi.ErrNotFound)

	_, err := snapshot.NewCollector(&client).Collect(context.Background(), "missing")
	assert.ErrorIs(t, err, nifiapi.ErrNotFound)
}

func TestCollectCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var calls atomic.Int32

	client := fakes.FakeClient{}
	client.FlowReturns(liveFlow(), nil)
	client.ProvenanceEventsCalls(func(ctx context.Context, _ string, _ int) ([]nifiapi.ProvenanceEvent, error) {
		calls.Add(1)
		cancel()

		return nil, errors.Join(errors.New("query aborted"), ctx.Err())
	})

	_, err := snapshot.NewCollector(&client, snapshot.WithConcurrency(1)).Collect(ctx, "root")
	assert.ErrorIs(t, err, context.Canceled)
	assert.GreaterOrEqual(t, calls.Load(), int32(1))
}
