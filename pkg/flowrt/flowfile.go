package flowrt

import (
	"errors"
	"maps"
	"slices"

	"github.com/google/uuid"
)

// Core attribute names NiFi assigns to every FlowFile.
const (
	AttributeUUID     = "uuid"
	AttributeFilename = "filename"
	AttributePath     = "path"
)

// ErrNotImplemented is returned by processors that were generated as stubs.
var ErrNotImplemented = errors.New("processor not implemented")

type FlowFile struct {
	Content    []byte
	Attributes Attributes
}

// NewFlowFile creates a FlowFile with the core attributes populated.
func NewFlowFile(content []byte) *FlowFile {
	id := uuid.NewString()

	return &FlowFile{
		Content: content,
		Attributes: Attributes{
			AttributeUUID:     id,
			AttributeFilename: id,
			AttributePath:     "./",
		},
	}
}

// Clone returns a deep copy of the FlowFile with a new uuid attribute.
func (f *FlowFile) Clone() *FlowFile {
	clone := FlowFile{
		Content:    slices.Clone(f.Content),
		Attributes: f.Attributes.Clone(),
	}

	clone.Attributes[AttributeUUID] = uuid.NewString()

	return &clone
}

// Routes maps relationship names to the FlowFiles transferred to them.
type Routes map[string][]*FlowFile

func Route(relationship string, flowFiles ...*FlowFile) Routes {
	return Routes{relationship: flowFiles}
}

func (r Routes) Add(relationship string, flowFiles ...*FlowFile) {
	r[relationship] = append(r[relationship], flowFiles...)
}

func (r Routes) Relationships() []string {
	return slices.Sorted(maps.Keys(r))
}

// ProcessorFunc is the signature of a generated processor. Source processors,
// which NiFi triggers without an incoming FlowFile, accept a nil ff; all other
// processors require one.
type ProcessorFunc func(ff *FlowFile) (Routes, error)

// Connection links the relationships of one processor to another.
type Connection struct {
	Source        string
	Destination   string
	Relationships []string
}
