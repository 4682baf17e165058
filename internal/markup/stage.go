package markup

import "context"

// Phase groups stages. Phases run in PhaseOrder; stages inside a phase are
// ordered by their declared dependencies.
type Phase string

const (
	// PhaseSlug assigns identifiers other stages rely on (heading ids).
	PhaseSlug Phase = "slug"

	// PhaseStructure derives document structure from the identified tree (table of contents).
	PhaseStructure Phase = "structure"

	// PhaseDecorate adds presentation (highlighting, anchor links).
	PhaseDecorate Phase = "decorate"
)

// PhaseOrder defines the execution order of phases.
var PhaseOrder = []Phase{
	PhaseSlug,
	PhaseStructure,
	PhaseDecorate,
}

// Stage is one step of the tree-rewriting chain.
type Stage interface {
	// Name returns the unique identifier for this stage (lowercase snake_case).
	Name() string

	// Phase returns the phase the stage belongs to.
	Phase() Phase

	// Dependencies declares ordering constraints.
	Dependencies() Dependencies

	// Apply rewrites the tree in place.
	Apply(ctx context.Context, t *Tree) error
}

// Dependencies declares explicit ordering constraints between stages.
type Dependencies struct {
	// MustRunAfter lists stages that must complete before this one.
	MustRunAfter []string

	// MustRunBefore lists stages that must run after this one.
	MustRunBefore []string

	// RunAfterIfPresent orders this stage after the named stages when they
	// are part of the chain. Absent stages are not an error.
	RunAfterIfPresent []string

	// ReadsHeadingIDs marks stages that need ids on headings.
	ReadsHeadingIDs bool

	// ModifiesHeadings marks stages that change heading content.
	ModifiesHeadings bool
}

// PhaseIndex returns the position of phase in PhaseOrder, or -1.
func PhaseIndex(phase Phase) int {
	for i, p := range PhaseOrder {
		if p == phase {
			return i
		}
	}
	return -1
}

// IsValidPhase reports whether phase is defined in PhaseOrder.
func IsValidPhase(phase Phase) bool {
	return PhaseIndex(phase) >= 0
}
