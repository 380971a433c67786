package generator

import (
	"slices"

	"github.com/artuross/nifi2go/internal/flow"
	"github.com/artuross/nifi2go/pkg/flowrt"
)

// Connections returns the processor to processor links of a flow. Links into
// funnels and ports are followed to the processors behind them.
func Connections(f *flow.Flow) []flowrt.Connection {
	links := make([]flowrt.Connection, 0, len(f.Connections))

	for _, connection := range f.Connections {
		if connection.SourceType != flow.ComponentProcessor {
			continue
		}

		for _, destination := range processorsBehind(f, connection, make(map[string]bool)) {
			links = append(links, flowrt.Connection{
				Source:        connection.SourceID,
				Destination:   destination,
				Relationships: slices.Clone(connection.Relationships),
			})
		}
	}

	return links
}

func processorsBehind(f *flow.Flow, connection flow.Connection, visited map[string]bool) []string {
	if connection.DestinationType == flow.ComponentProcessor {
		return []string{connection.DestinationID}
	}

	// funnels may form cycles
	if visited[connection.DestinationID] {
		return nil
	}
	visited[connection.DestinationID] = true

	ids := make([]string, 0)
	for _, next := range f.Outgoing(connection.DestinationID) {
		ids = append(ids, processorsBehind(f, next, visited)...)
	}

	return ids
}
