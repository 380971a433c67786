package funcs

// Kind is the static type of a fragment or value.
type Kind string

const (
	KindAny     Kind = "any"
	KindBoolean Kind = "boolean"
	KindDate    Kind = "date"
	KindList    Kind = "list"
	KindNone    Kind = "none"
	KindNumber  Kind = "number"
	KindString  Kind = "string"

	// KindInt is only a coercion target for index and length arguments.
	KindInt Kind = "int"
)

// GoType returns the Go type of values of the kind.
func (k Kind) GoType() string {
	switch k {
	case KindBoolean:
		return "bool"
	case KindDate:
		return "time.Time"
	case KindInt:
		return "int"
	case KindNumber:
		return "flowrt.Number"
	default:
		return "string"
	}
}

// Aggregate tells how a list of booleans reduces to one boolean.
type Aggregate string

const (
	AggregateAll Aggregate = "all"
	AggregateAny Aggregate = "any"
)

// Import paths used by emitted code.
const (
	RuntimeImport = "github.com/artuross/nifi2go/pkg/flowrt"

	pkgFmt     = "fmt"
	pkgRand    = "math/rand"
	pkgSlices  = "slices"
	pkgStrconv = "strconv"
	pkgStrings = "strings"
	pkgTime    = "time"
	pkgURL     = "net/url"
	pkgUUID    = "github.com/google/uuid"
)
