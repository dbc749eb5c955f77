// Package category defines the closed set of event categories and the
// priority/weight/color tables used to resolve a single dominant category
// from aggregated statistics.
package category

import "strings"

// Kind identifies an event category. The set is closed so that lookups are
// array indexing instead of string-keyed maps with fallback defaults.
type Kind uint8

const (
	// KindDML covers data-manipulation operations (insert/update/delete).
	KindDML Kind = iota
	// KindSOQL covers query operations.
	KindSOQL
	// KindCodeUnit covers top-level execution units (triggers, anonymous blocks).
	KindCodeUnit
	// KindFlow covers declarative flow interviews.
	KindFlow
	// KindWorkflow covers workflow rule evaluation.
	KindWorkflow
	// KindMethod covers ordinary method invocations.
	KindMethod
	// KindSystem covers runtime-internal events.
	KindSystem
	// KindOther is the fallback for labels the parser does not recognize.
	KindOther

	numKinds
)

// NumKinds is the size of the closed category set, usable as an array bound.
const NumKinds = int(numKinds)

var kindNames = [NumKinds]string{
	KindDML:      "DML",
	KindSOQL:     "SOQL",
	KindCodeUnit: "Code Unit",
	KindFlow:     "Flow",
	KindWorkflow: "Workflow",
	KindMethod:   "Method",
	KindSystem:   "System",
	KindOther:    "Other",
}

func (k Kind) String() string {
	if int(k) >= NumKinds {
		return "Other"
	}
	return kindNames[k]
}

// Kinds returns all kinds in declaration order.
func Kinds() [NumKinds]Kind {
	var out [NumKinds]Kind
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

// Parse maps a category label from the trace source onto a Kind. Unknown
// labels degrade to KindOther rather than erroring.
func Parse(label string) Kind {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "dml":
		return KindDML
	case "soql":
		return KindSOQL
	case "code unit", "codeunit":
		return KindCodeUnit
	case "flow":
		return KindFlow
	case "workflow":
		return KindWorkflow
	case "method":
		return KindMethod
	case "system method", "system":
		return KindSystem
	default:
		return KindOther
	}
}

// Attrs holds the display and resolution attributes of one category.
type Attrs struct {
	// Priority ranks categories for dominant resolution; lower wins.
	Priority int

	// Weight multiplies a category's contribution in the density index only.
	Weight float64

	// Color is the category's base display color (hex).
	Color string
}

// Table is the fixed-size category attribute table.
type Table [NumKinds]Attrs

// DefaultTable returns the built-in attribute table. Database and query
// operations outrank generic method calls so that a mixed aggregate shows
// the expensive category.
func DefaultTable() Table {
	return Table{
		KindDML:      {Priority: 1, Weight: 2.5, Color: "#285663"},
		KindSOQL:     {Priority: 2, Weight: 2.0, Color: "#5d4963"},
		KindCodeUnit: {Priority: 3, Weight: 1.5, Color: "#88AE58"},
		KindFlow:     {Priority: 4, Weight: 1.0, Color: "#237A72"},
		KindWorkflow: {Priority: 5, Weight: 1.0, Color: "#7E5D4C"},
		KindMethod:   {Priority: 6, Weight: 1.0, Color: "#2B8F81"},
		KindSystem:   {Priority: 7, Weight: 1.0, Color: "#5C3444"},
		KindOther:    {Priority: 8, Weight: 1.0, Color: "#4B5563"},
	}
}

// Priority returns the resolution priority for k.
func (t *Table) Priority(k Kind) int { return t[k].Priority }

// Weight returns the density weight multiplier for k.
func (t *Table) Weight(k Kind) float64 { return t[k].Weight }

// Color returns the base display color for k.
func (t *Table) Color(k Kind) string { return t[k].Color }
