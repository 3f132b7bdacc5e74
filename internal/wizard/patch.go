package wizard

import (
	"fmt"

	"rmgen/internal/models"
)

// Field is an optional patch value. The zero Field leaves the target
// untouched; Set(v) overwrites it, including with a zero or nil v.
type Field[T any] struct {
	set   bool
	value T
}

// Set returns a Field that overwrites the target with v.
func Set[T any](v T) Field[T] {
	return Field[T]{set: true, value: v}
}

// IsSet reports whether the field carries a value.
func (f Field[T]) IsSet() bool { return f.set }

// Value returns the carried value.
func (f Field[T]) Value() T { return f.value }

func (f Field[T]) applyTo(dst *T) {
	if f.set {
		*dst = f.value
	}
}

// Patch is a shallow, top-level update of the aggregate. Nested values such
// as RepositoryInput or RepositoryMetadata replace the current value whole.
// The current step is absent on purpose: only the Navigator moves it.
type Patch struct {
	RepositoryInput    Field[RepositoryInput]
	RepositoryMetadata Field[*models.RepositoryMetadata]
	ProjectType        Field[string]
	TeamContext        Field[TeamContext]
	ProjectName        Field[string]
	ProjectDescription Field[string]
	SelectedSections   Field[[]string]
	SectionContent     Field[map[string]string]
	ActiveSection      Field[string]
	GeneratedContent   Field[string]
	IsLoading          Field[bool]
	Error              Field[string]
	GitHubAccessToken  Field[string]

	step Field[Step]
}

// Validate rejects patches that would break an aggregate invariant.
func (p Patch) Validate() error {
	if p.SelectedSections.IsSet() {
		for _, id := range p.SelectedSections.Value() {
			if !IsSectionKind(id) {
				return fmt.Errorf("%w: %q", ErrUnknownSection, id)
			}
		}
	}
	if p.step.IsSet() && !p.step.Value().Valid() {
		return fmt.Errorf("unknown step %q", p.step.Value())
	}
	return nil
}

// Apply merges p into s and returns the new revision. Applying the same
// patch twice yields the same aggregate as applying it once.
func (p Patch) Apply(s State) State {
	out := s.clone()
	p.step.applyTo(&out.CurrentStep)
	p.RepositoryInput.applyTo(&out.RepositoryInput)
	p.RepositoryMetadata.applyTo(&out.RepositoryMetadata)
	p.ProjectType.applyTo(&out.ProjectType)
	p.TeamContext.applyTo(&out.TeamContext)
	p.ProjectName.applyTo(&out.ProjectName)
	p.ProjectDescription.applyTo(&out.ProjectDescription)
	if p.SelectedSections.IsSet() {
		out.SelectedSections = append([]string{}, p.SelectedSections.Value()...)
	}
	if p.SectionContent.IsSet() {
		out.SectionContent = make(map[string]string, len(p.SectionContent.Value()))
		for k, v := range p.SectionContent.Value() {
			out.SectionContent[k] = v
		}
	}
	p.ActiveSection.applyTo(&out.ActiveSection)
	p.GeneratedContent.applyTo(&out.GeneratedContent)
	p.IsLoading.applyTo(&out.IsLoading)
	p.Error.applyTo(&out.Error)
	p.GitHubAccessToken.applyTo(&out.GitHubAccessToken)
	return out
}

func (p Patch) withStep(step Step) Patch {
	p.step = Set(step)
	return p
}
