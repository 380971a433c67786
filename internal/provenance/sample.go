package provenance

import (
	"slices"

	"github.com/artuross/nifi2go/internal/repository/nifiapi"
)

// Sample is one observed execution of a processor: the attributes a FlowFile
// had before and after the event and where it was routed.
type Sample struct {
	EventID      int64             `json:"eventId" yaml:"eventId"`
	EventType    string            `json:"eventType" yaml:"eventType"`
	FlowFileUUID string            `json:"flowFileUuid" yaml:"flowFileUuid"`
	Relationship string            `json:"relationship,omitempty" yaml:"relationship,omitempty"`
	Input        map[string]string `json:"input" yaml:"input"`
	Output       map[string]string `json:"output" yaml:"output"`
	Added        []string          `json:"added,omitempty" yaml:"added,omitempty"`
	Modified     []string          `json:"modified,omitempty" yaml:"modified,omitempty"`
	Removed      []string          `json:"removed,omitempty" yaml:"removed,omitempty"`
}

func NewSample(event nifiapi.ProvenanceEvent) Sample {
	sample := Sample{
		EventID:      event.EventID,
		EventType:    event.EventType,
		FlowFileUUID: event.FlowFileUUID,
		Relationship: event.Relationship,
		Input:        make(map[string]string, len(event.Attributes)),
		Output:       make(map[string]string, len(event.Attributes)),
	}

	for _, attribute := range event.Attributes {
		if attribute.PreviousValue != nil {
			sample.Input[attribute.Name] = *attribute.PreviousValue
		}

		if attribute.Value != nil {
			sample.Output[attribute.Name] = *attribute.Value
		}

		switch {
		case attribute.PreviousValue == nil && attribute.Value != nil:
			sample.Added = append(sample.Added, attribute.Name)

		case attribute.PreviousValue != nil && attribute.Value == nil:
			sample.Removed = append(sample.Removed, attribute.Name)

		case attribute.PreviousValue != nil && *attribute.PreviousValue != *attribute.Value:
			sample.Modified = append(sample.Modified, attribute.Name)
		}
	}

	slices.Sort(sample.Added)
	slices.Sort(sample.Modified)
	slices.Sort(sample.Removed)

	return sample
}

func NewSamples(events []nifiapi.ProvenanceEvent) []Sample {
	samples := make([]Sample, 0, len(events))
	for _, event := range events {
		samples = append(samples, NewSample(event))
	}

	return samples
}

// attributes returns what the processor saw. Events that do not record
// previous values carry the unchanged attributes only as output.
func (s Sample) attributes() map[string]string {
	if len(s.Input) > 0 {
		return s.Input
	}

	return s.Output
}
