package nifitemplate

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/artuross/nifi2go/internal/flow"
)

var (
	ErrMissingSnippet = errors.New("template has no snippet")
	ErrMissingField   = errors.New("required element missing")
)

type (
	xmlTemplate struct {
		XMLName     xml.Name     `xml:"template"`
		Name        string       `xml:"name"`
		Description string       `xml:"description"`
		Timestamp   string       `xml:"timestamp"`
		Snippet     *xmlContents `xml:"snippet"`
	}

	xmlContents struct {
		Processors    []xmlProcessor    `xml:"processors"`
		Connections   []xmlConnection   `xml:"connections"`
		ProcessGroups []xmlProcessGroup `xml:"processGroups"`
	}

	// older templates put group children next to the group fields instead
	// of under <contents>
	xmlProcessGroup struct {
		ID       string       `xml:"id"`
		Contents *xmlContents `xml:"contents"`
		xmlContents
	}

	xmlProcessor struct {
		ID            string            `xml:"id"`
		Name          string            `xml:"name"`
		Type          string            `xml:"type"`
		ParentGroupID string            `xml:"parentGroupId"`
		State         string            `xml:"state"`
		Config        xmlConfig         `xml:"config"`
		Relationships []xmlRelationship `xml:"relationships"`
	}

	xmlConfig struct {
		Properties []xmlEntry `xml:"properties>entry"`
		Comments   string     `xml:"comments"`
	}

	xmlEntry struct {
		Key   string  `xml:"key"`
		Value *string `xml:"value"`
	}

	xmlRelationship struct {
		Name          string `xml:"name"`
		AutoTerminate string `xml:"autoTerminate"`
	}

	xmlConnection struct {
		ID                    string      `xml:"id"`
		Name                  string      `xml:"name"`
		ParentGroupID         string      `xml:"parentGroupId"`
		Source                *xmlConnEnd `xml:"source"`
		Destination           *xmlConnEnd `xml:"destination"`
		SelectedRelationships []string    `xml:"selectedRelationships"`
	}

	xmlConnEnd struct {
		ID   string `xml:"id"`
		Type string `xml:"type"`
	}
)

func ParseFile(path string) (*flow.Flow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("nifitemplate.ParseFile open: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads a NiFi template and flattens its process groups into one flow.
func Parse(r io.Reader) (*flow.Flow, error) {
	var template xmlTemplate
	if err := xml.NewDecoder(r).Decode(&template); err != nil {
		return nil, fmt.Errorf("nifitemplate.Parse decode: %w", err)
	}

	if template.Snippet == nil {
		return nil, ErrMissingSnippet
	}

	result := flow.Flow{
		Name:        strings.TrimSpace(template.Name),
		Description: strings.TrimSpace(template.Description),
		Timestamp:   strings.TrimSpace(template.Timestamp),
		Processors:  make([]flow.Processor, 0),
		Connections: make([]flow.Connection, 0),
	}

	if err := collect(&result, template.Snippet); err != nil {
		return nil, err
	}

	return &result, nil
}

func collect(result *flow.Flow, contents *xmlContents) error {
	for _, element := range contents.Processors {
		processor, err := convertProcessor(element)
		if err != nil {
			return err
		}

		result.Processors = append(result.Processors, processor)
	}

	for _, element := range contents.Connections {
		connection, err := convertConnection(element)
		if err != nil {
			return err
		}

		result.Connections = append(result.Connections, connection)
	}

	for _, group := range contents.ProcessGroups {
		children := &group.xmlContents
		if group.Contents != nil {
			children = group.Contents
		}

		if err := collect(result, children); err != nil {
			return err
		}
	}

	return nil
}

func convertProcessor(element xmlProcessor) (flow.Processor, error) {
	if element.ID == "" {
		return flow.Processor{}, fmt.Errorf("processor id: %w", ErrMissingField)
	}

	if element.Type == "" {
		return flow.Processor{}, fmt.Errorf("processor %s type: %w", element.ID, ErrMissingField)
	}

	processor := flow.Processor{
		ID:            element.ID,
		Name:          element.Name,
		Type:          element.Type,
		GroupID:       element.ParentGroupID,
		State:         element.State,
		Properties:    make(map[string]string),
		Relationships: make([]flow.Relationship, 0, len(element.Relationships)),
		Comments:      element.Config.Comments,
	}

	if processor.Name == "" {
		processor.Name = "Unnamed"
	}

	if processor.State == "" {
		processor.State = "STOPPED"
	}

	for _, entry := range element.Config.Properties {
		if entry.Value != nil {
			processor.Properties[entry.Key] = *entry.Value
		}
	}

	for _, relationship := range element.Relationships {
		if relationship.Name == "" {
			continue
		}

		processor.Relationships = append(processor.Relationships, flow.Relationship{
			Name:          relationship.Name,
			AutoTerminate: strings.EqualFold(relationship.AutoTerminate, "true"),
		})
	}

	return processor, nil
}

func convertConnection(element xmlConnection) (flow.Connection, error) {
	if element.ID == "" {
		return flow.Connection{}, fmt.Errorf("connection id: %w", ErrMissingField)
	}

	if element.Source == nil || element.Source.ID == "" {
		return flow.Connection{}, fmt.Errorf("connection %s source: %w", element.ID, ErrMissingField)
	}

	if element.Destination == nil || element.Destination.ID == "" {
		return flow.Connection{}, fmt.Errorf("connection %s destination: %w", element.ID, ErrMissingField)
	}

	relationships := make([]string, 0, len(element.SelectedRelationships))
	for _, relationship := range element.SelectedRelationships {
		if relationship != "" {
			relationships = append(relationships, relationship)
		}
	}

	return flow.Connection{
		ID:              element.ID,
		Name:            element.Name,
		GroupID:         element.ParentGroupID,
		SourceID:        element.Source.ID,
		SourceType:      endpointType(element.Source.Type),
		DestinationID:   element.Destination.ID,
		DestinationType: endpointType(element.Destination.Type),
		Relationships:   relationships,
	}, nil
}

func endpointType(value string) string {
	if value == "" {
		return flow.ComponentProcessor
	}

	return value
}
