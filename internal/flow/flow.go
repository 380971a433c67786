package flow

import (
	"cmp"
	"maps"
	"slices"
	"strings"
)

// Endpoint types of a connection.
const (
	ComponentProcessor  = "PROCESSOR"
	ComponentInputPort  = "INPUT_PORT"
	ComponentOutputPort = "OUTPUT_PORT"
	ComponentFunnel     = "FUNNEL"
)

// Flow is a NiFi dataflow flattened across nested process groups.
type Flow struct {
	Name        string
	Description string
	Timestamp   string
	Processors  []Processor
	Connections []Connection
}

type Processor struct {
	ID            string
	Name          string
	Type          string
	GroupID       string
	State         string
	Properties    map[string]string
	Relationships []Relationship
	Comments      string
}

type Relationship struct {
	Name          string
	AutoTerminate bool
}

type Connection struct {
	ID              string
	Name            string
	GroupID         string
	SourceID        string
	SourceType      string
	DestinationID   string
	DestinationType string
	Relationships   []string
}

// ShortType returns the unqualified class name, e.g. UpdateAttribute.
func (p Processor) ShortType() string {
	if p.Type == "" {
		return "Unknown"
	}

	return p.Type[strings.LastIndex(p.Type, ".")+1:]
}

// Property returns the value of a property, or "" when it is not set.
func (p Processor) Property(name string) string {
	return p.Properties[name]
}

// PropertyOr returns the value of a property, or fallback when it is unset or
// empty.
func (p Processor) PropertyOr(name, fallback string) string {
	if value := p.Properties[name]; value != "" {
		return value
	}

	return fallback
}

// DynamicProperties returns the sorted names of user-defined properties, all
// properties except settings.
func (p Processor) DynamicProperties(settings ...string) []string {
	names := make([]string, 0, len(p.Properties))
	for _, name := range slices.Sorted(maps.Keys(p.Properties)) {
		if !slices.Contains(settings, name) {
			names = append(names, name)
		}
	}

	return names
}

func (f *Flow) Processor(id string) (Processor, bool) {
	index := slices.IndexFunc(f.Processors, func(p Processor) bool { return p.ID == id })
	if index < 0 {
		return Processor{}, false
	}

	return f.Processors[index], true
}

func (f *Flow) Outgoing(processorID string) []Connection {
	return f.connections(func(c Connection) bool { return c.SourceID == processorID })
}

func (f *Flow) Incoming(processorID string) []Connection {
	return f.connections(func(c Connection) bool { return c.DestinationID == processorID })
}

func (f *Flow) connections(keep func(Connection) bool) []Connection {
	connections := make([]Connection, 0)
	for _, connection := range f.Connections {
		if keep(connection) {
			connections = append(connections, connection)
		}
	}

	return connections
}

// Sort orders processors and connections by ID so output is deterministic.
func (f *Flow) Sort() {
	slices.SortFunc(f.Processors, func(a, b Processor) int { return cmp.Compare(a.ID, b.ID) })
	slices.SortFunc(f.Connections, func(a, b Connection) int { return cmp.Compare(a.ID, b.ID) })
}
