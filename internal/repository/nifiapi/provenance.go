package nifiapi

import (
	"cmp"
	"context"
	"fmt"
	"net/url"
	"slices"
	"time"

	"github.com/artuross/nifi2go/internal/log/semconv"
	"github.com/rs/zerolog"
)

// requestDateLayout is the format of search dates in provenance requests.
const requestDateLayout = "01/02/2006 15:04:05 MST"

// ProvenanceRequest describes a provenance search for the events of one
// processor.
type ProvenanceRequest struct {
	ProcessorID string
	MaxResults  int
	StartDate   time.Time
	EndDate     time.Time
}

// ProvenanceQuery is the state of an asynchronous provenance search.
type ProvenanceQuery struct {
	ID               string
	Finished         bool
	PercentCompleted int
	Events           []ProvenanceEvent
}

type ProvenanceEvent struct {
	ID            string
	EventID       int64
	EventTime     time.Time
	EventType     string
	FlowFileUUID  string
	ComponentID   string
	ComponentType string
	ComponentName string
	Relationship  string
	Attributes    []EventAttribute
}

// EventAttribute is a FlowFile attribute after the event. A nil Value means
// the attribute did not exist after the event, a nil PreviousValue that it
// did not exist before.
type EventAttribute struct {
	Name          string
	Value         *string
	PreviousValue *string
}

func (r *Repository) SubmitProvenance(ctx context.Context, request ProvenanceRequest) (*ProvenanceQuery, error) {
	ctx, span := r.tracer.Start(ctx, "SubmitProvenance")
	defer span.End()

	searchRequest := provenanceSearchRequest{
		MaxResults: request.MaxResults,
		SearchTerms: map[string]provenanceSearchTerm{
			"ProcessorID": {Value: request.ProcessorID},
		},
	}

	if !request.StartDate.IsZero() {
		searchRequest.StartDate = request.StartDate.UTC().Format(requestDateLayout)
	}

	if !request.EndDate.IsZero() {
		searchRequest.EndDate = request.EndDate.UTC().Format(requestDateLayout)
	}

	in := provenanceEntity{}
	in.Provenance.Request = &searchRequest

	var out provenanceEntity
	if err := r.doRequest(ctx, "POST", "/provenance", nil, in, &out); err != nil {
		return nil, fmt.Errorf("nifiapi.SubmitProvenance do request: %w", err)
	}

	query, err := out.convert()
	if err != nil {
		return nil, fmt.Errorf("nifiapi.SubmitProvenance convert: %w", err)
	}

	return query, nil
}

func (r *Repository) Provenance(ctx context.Context, queryID string) (*ProvenanceQuery, error) {
	ctx, span := r.tracer.Start(ctx, "Provenance")
	defer span.End()

	var out provenanceEntity
	if err := r.doRequest(ctx, "GET", "/provenance/"+url.PathEscape(queryID), nil, nil, &out); err != nil {
		return nil, fmt.Errorf("nifiapi.Provenance do request: %w", err)
	}

	query, err := out.convert()
	if err != nil {
		return nil, fmt.Errorf("nifiapi.Provenance convert: %w", err)
	}

	return query, nil
}

func (r *Repository) DeleteProvenance(ctx context.Context, queryID string) error {
	ctx, span := r.tracer.Start(ctx, "DeleteProvenance")
	defer span.End()

	if err := r.doRequest(ctx, "DELETE", "/provenance/"+url.PathEscape(queryID), nil, nil, nil); err != nil {
		return fmt.Errorf("nifiapi.DeleteProvenance do request: %w", err)
	}

	return nil
}

// QueryProvenance submits a search, polls it until it finishes and deletes
// it from the server.
func (r *Repository) QueryProvenance(ctx context.Context, request ProvenanceRequest) ([]ProvenanceEvent, error) {
	ctx, span := r.tracer.Start(ctx, "QueryProvenance")
	defer span.End()

	logger := zerolog.Ctx(ctx)

	query, err := r.SubmitProvenance(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("nifiapi.QueryProvenance submit: %w", err)
	}

	defer func() {
		// the query holds server resources even when ctx was cancelled
		if err := r.DeleteProvenance(context.WithoutCancel(ctx), query.ID); err != nil {
			logger.Warn().Err(err).Str(semconv.ProvenanceQueryID, query.ID).Msg("failed to delete provenance query")
		}
	}()

	if query.Finished {
		return query.Events, nil
	}

	ticker := r.newTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("nifiapi.QueryProvenance wait: %w", context.Cause(ctx))

		case <-ticker.Chan():
		}

		query, err = r.Provenance(ctx, query.ID)
		if err != nil {
			return nil, fmt.Errorf("nifiapi.QueryProvenance poll: %w", err)
		}

		logger.Trace().
			Str(semconv.ProvenanceQueryID, query.ID).
			Int("percent_completed", query.PercentCompleted).
			Msg("polled provenance query")

		if query.Finished {
			return query.Events, nil
		}
	}
}

// ProvenanceEvents returns up to limit of the most recent events of a
// processor, newest first. Results are paged by moving the end date back to
// the oldest event seen so far.
func (r *Repository) ProvenanceEvents(ctx context.Context, processorID string, limit int) ([]ProvenanceEvent, error) {
	ctx, span := r.tracer.Start(ctx, "ProvenanceEvents")
	defer span.End()

	events := make([]ProvenanceEvent, 0, limit)
	seen := make(map[int64]struct{}, limit)

	request := ProvenanceRequest{
		ProcessorID: processorID,
		MaxResults:  r.pageSize,
	}

	for len(events) < limit {
		page, err := r.QueryProvenance(ctx, request)
		if err != nil {
			return nil, fmt.Errorf("nifiapi.ProvenanceEvents query: %w", err)
		}

		added := 0
		for _, event := range page {
			if _, ok := seen[event.EventID]; ok {
				continue
			}

			seen[event.EventID] = struct{}{}
			events = append(events, event)
			added++
		}

		if added == 0 || len(page) < request.MaxResults {
			break
		}

		// request dates have second precision so pages overlap
		oldest := slices.MinFunc(page, func(a, b ProvenanceEvent) int { return a.EventTime.Compare(b.EventTime) })
		request.EndDate = oldest.EventTime.Add(time.Second)
	}

	slices.SortFunc(events, func(a, b ProvenanceEvent) int {
		if c := b.EventTime.Compare(a.EventTime); c != 0 {
			return c
		}

		return cmp.Compare(b.EventID, a.EventID)
	})

	if len(events) > limit {
		events = events[:limit]
	}

	return events, nil
}

type provenanceSearchTerm struct {
	Value   string `json:"value"`
	Inverse bool   `json:"inverse"`
}

type provenanceSearchRequest struct {
	MaxResults  int                             `json:"maxResults"`
	SearchTerms map[string]provenanceSearchTerm `json:"searchTerms"`
	StartDate   string                          `json:"startDate,omitempty"`
	EndDate     string                          `json:"endDate,omitempty"`
}

type provenanceEntity struct {
	Provenance struct {
		ID               string                   `json:"id,omitempty"`
		Finished         bool                     `json:"finished,omitempty"`
		PercentCompleted int                      `json:"percentCompleted,omitempty"`
		Request          *provenanceSearchRequest `json:"request,omitempty"`
		Results          *struct {
			ProvenanceEvents []provenanceEventEntity `json:"provenanceEvents"`
		} `json:"results,omitempty"`
	} `json:"provenance"`
}

func (e provenanceEntity) convert() (*ProvenanceQuery, error) {
	query := ProvenanceQuery{
		ID:               e.Provenance.ID,
		Finished:         e.Provenance.Finished,
		PercentCompleted: e.Provenance.PercentCompleted,
		Events:           make([]ProvenanceEvent, 0),
	}

	if e.Provenance.Results == nil {
		return &query, nil
	}

	for _, entity := range e.Provenance.Results.ProvenanceEvents {
		event, err := entity.convert()
		if err != nil {
			return nil, err
		}

		query.Events = append(query.Events, event)
	}

	return &query, nil
}

type provenanceEventEntity struct {
	ID            string `json:"id"`
	EventID       int64  `json:"eventId"`
	EventTime     string `json:"eventTime"`
	EventType     string `json:"eventType"`
	FlowFileUUID  string `json:"flowFileUuid"`
	ComponentID   string `json:"componentId"`
	ComponentType string `json:"componentType"`
	ComponentName string `json:"componentName"`
	Relationship  string `json:"relationship"`
	Attributes    []struct {
		Name          string  `json:"name"`
		Value         *string `json:"value"`
		PreviousValue *string `json:"previousValue"`
	} `json:"attributes"`
}

func (e provenanceEventEntity) convert() (ProvenanceEvent, error) {
	eventTime, err := parseEventTime(e.EventTime)
	if err != nil {
		return ProvenanceEvent{}, fmt.Errorf("parse time of event %d: %w", e.EventID, err)
	}

	event := ProvenanceEvent{
		ID:            e.ID,
		EventID:       e.EventID,
		EventTime:     eventTime,
		EventType:     e.EventType,
		FlowFileUUID:  e.FlowFileUUID,
		ComponentID:   e.ComponentID,
		ComponentType: e.ComponentType,
		ComponentName: e.ComponentName,
		Relationship:  e.Relationship,
		Attributes:    make([]EventAttribute, 0, len(e.Attributes)),
	}

	for _, attribute := range e.Attributes {
		event.Attributes = append(event.Attributes, EventAttribute{
			Name:          attribute.Name,
			Value:         attribute.Value,
			PreviousValue: attribute.PreviousValue,
		})
	}

	return event, nil
}
