package semconv

// NiFi components
const (
	// ID of the processor as assigned by NiFi. Stable across template exports.
	ProcessorID = "processor_id"

	// Unqualified processor class name, e.g. UpdateAttribute.
	ProcessorType = "processor_type"

	ProcessGroupID = "process_group_id"
)

// Expressions
const (
	// Name of the processor property an expression was read from.
	Property = "property"

	Expression = "expression"
)

// Provenance
const (
	// ID of an asynchronous provenance query. NiFi deletes queries once they are read.
	ProvenanceQueryID = "provenance_query_id"

	EventID = "event_id"
)
