package nifiapi

import (
	"context"
	"fmt"
	"net/url"

	"github.com/artuross/nifi2go/internal/flow"
	"github.com/artuross/nifi2go/internal/log/semconv"
	"github.com/rs/zerolog"
)

// RootGroupID is the alias NiFi accepts for the root process group.
const RootGroupID = "root"

type CurrentUser struct {
	Identity  string `json:"identity"`
	Anonymous bool   `json:"anonymous"`
}

// ProcessGroup holds the components of a single process group. Child groups
// are listed by ID only.
type ProcessGroup struct {
	ID            string
	Name          string
	ParentGroupID string
	Processors    []flow.Processor
	Connections   []flow.Connection
	ChildGroupIDs []string
}

func (r *Repository) CurrentUser(ctx context.Context) (*CurrentUser, error) {
	ctx, span := r.tracer.Start(ctx, "CurrentUser")
	defer span.End()

	var user CurrentUser
	if err := r.doRequest(ctx, "GET", "/flow/current-user", nil, nil, &user); err != nil {
		return nil, fmt.Errorf("nifiapi.CurrentUser do request: %w", err)
	}

	return &user, nil
}

func (r *Repository) ProcessGroup(ctx context.Context, groupID string) (*ProcessGroup, error) {
	ctx, span := r.tracer.Start(ctx, "ProcessGroup")
	defer span.End()

	var entity processGroupFlowEntity
	path := "/flow/process-groups/" + url.PathEscape(groupID)
	if err := r.doRequest(ctx, "GET", path, nil, nil, &entity); err != nil {
		return nil, fmt.Errorf("nifiapi.ProcessGroup do request: %w", err)
	}

	groupFlow := entity.ProcessGroupFlow

	group := ProcessGroup{
		ID:            groupFlow.ID,
		Name:          groupFlow.Breadcrumb.Breadcrumb.Name,
		ParentGroupID: groupFlow.ParentGroupID,
		Processors:    make([]flow.Processor, 0, len(groupFlow.Flow.Processors)),
		Connections:   make([]flow.Connection, 0, len(groupFlow.Flow.Connections)),
		ChildGroupIDs: make([]string, 0, len(groupFlow.Flow.ProcessGroups)),
	}

	for _, processor := range groupFlow.Flow.Processors {
		group.Processors = append(group.Processors, processor.convert())
	}

	for _, connection := range groupFlow.Flow.Connections {
		group.Connections = append(group.Connections, connection.convert())
	}

	for _, child := range groupFlow.Flow.ProcessGroups {
		group.ChildGroupIDs = append(group.ChildGroupIDs, child.ID)
	}

	return &group, nil
}

// Flow walks the process group and all its descendants into a single flow
// named after the starting group.
func (r *Repository) Flow(ctx context.Context, groupID string) (*flow.Flow, error) {
	ctx, span := r.tracer.Start(ctx, "Flow")
	defer span.End()

	result := flow.Flow{
		Processors:  make([]flow.Processor, 0),
		Connections: make([]flow.Connection, 0),
	}

	if err := r.walk(ctx, groupID, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *Repository) walk(ctx context.Context, groupID string, result *flow.Flow) error {
	zerolog.Ctx(ctx).Debug().Str(semconv.ProcessGroupID, groupID).Msg("fetching process group")

	group, err := r.ProcessGroup(ctx, groupID)
	if err != nil {
		return fmt.Errorf("nifiapi.Flow fetch group %s: %w", groupID, err)
	}

	if result.Name == "" {
		result.Name = group.Name
	}

	result.Processors = append(result.Processors, group.Processors...)
	result.Connections = append(result.Connections, group.Connections...)

	for _, childID := range group.ChildGroupIDs {
		if err := r.walk(ctx, childID, result); err != nil {
			return err
		}
	}

	return nil
}

func (r *Repository) Processor(ctx context.Context, processorID string) (*flow.Processor, error) {
	ctx, span := r.tracer.Start(ctx, "Processor")
	defer span.End()

	var entity processorEntity
	if err := r.doRequest(ctx, "GET", "/processors/"+url.PathEscape(processorID), nil, nil, &entity); err != nil {
		return nil, fmt.Errorf("nifiapi.Processor do request: %w", err)
	}

	processor := entity.convert()

	return &processor, nil
}

type processGroupFlowEntity struct {
	ProcessGroupFlow struct {
		ID            string `json:"id"`
		ParentGroupID string `json:"parentGroupId"`
		Breadcrumb    struct {
			Breadcrumb struct {
				Name string `json:"name"`
			} `json:"breadcrumb"`
		} `json:"breadcrumb"`
		Flow struct {
			ProcessGroups []struct {
				ID string `json:"id"`
			} `json:"processGroups"`
			Processors  []processorEntity  `json:"processors"`
			Connections []connectionEntity `json:"connections"`
		} `json:"flow"`
	} `json:"processGroupFlow"`
}

type processorEntity struct {
	ID        string `json:"id"`
	Component struct {
		Name          string `json:"name"`
		Type          string `json:"type"`
		ParentGroupID string `json:"parentGroupId"`
		State         string `json:"state"`
		Config        struct {
			Properties map[string]*string `json:"properties"`
			Comments   string             `json:"comments"`
		} `json:"config"`
		Relationships []struct {
			Name          string `json:"name"`
			AutoTerminate bool   `json:"autoTerminate"`
		} `json:"relationships"`
	} `json:"component"`
}

func (e processorEntity) convert() flow.Processor {
	processor := flow.Processor{
		ID:            e.ID,
		Name:          e.Component.Name,
		Type:          e.Component.Type,
		GroupID:       e.Component.ParentGroupID,
		State:         e.Component.State,
		Properties:    make(map[string]string, len(e.Component.Config.Properties)),
		Relationships: make([]flow.Relationship, 0, len(e.Component.Relationships)),
		Comments:      e.Component.Config.Comments,
	}

	// unset properties are null
	for name, value := range e.Component.Config.Properties {
		if value != nil {
			processor.Properties[name] = *value
		}
	}

	for _, relationship := range e.Component.Relationships {
		processor.Relationships = append(processor.Relationships, flow.Relationship{
			Name:          relationship.Name,
			AutoTerminate: relationship.AutoTerminate,
		})
	}

	return processor
}

type connectable struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	GroupID string `json:"groupId"`
}

type connectionEntity struct {
	ID        string `json:"id"`
	Component struct {
		Name                  string      `json:"name"`
		ParentGroupID         string      `json:"parentGroupId"`
		Source                connectable `json:"source"`
		Destination           connectable `json:"destination"`
		SelectedRelationships []string    `json:"selectedRelationships"`
	} `json:"component"`
}

func (e connectionEntity) convert() flow.Connection {
	return flow.Connection{
		ID:              e.ID,
		Name:            e.Component.Name,
		GroupID:         e.Component.ParentGroupID,
		SourceID:        e.Component.Source.ID,
		SourceType:      e.Component.Source.Type,
		DestinationID:   e.Component.Destination.ID,
		DestinationType: e.Component.Destination.Type,
		Relationships:   append([]string{}, e.Component.SelectedRelationships...),
	}
}
