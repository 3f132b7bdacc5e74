package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rmgen/internal/models"
)

func TestPatch_ZeroFieldsLeaveStateUntouched(t *testing.T) {
	s := Initial()
	s.ProjectName = "kept"

	got := Patch{}.Apply(s)

	assert.Equal(t, s, got)
}

func TestPatch_SetOverwritesWithZeroValues(t *testing.T) {
	s := Initial()
	s.Error = "boom"
	s.RepositoryMetadata = &models.RepositoryMetadata{Name: "demo"}
	s.IsLoading = true

	got := Patch{
		Error:              Set(""),
		RepositoryMetadata: Set[*models.RepositoryMetadata](nil),
		IsLoading:          Set(false),
	}.Apply(s)

	assert.Empty(t, got.Error)
	assert.Nil(t, got.RepositoryMetadata)
	assert.False(t, got.IsLoading)
}

func TestPatch_ApplyDoesNotAliasInput(t *testing.T) {
	content := map[string]string{SectionUsage: "run it"}
	selected := []string{SectionUsage}
	s := Initial()

	got := Patch{SectionContent: Set(content), SelectedSections: Set(selected)}.Apply(s)
	content[SectionUsage] = "changed"
	selected[0] = SectionLicense

	assert.Equal(t, "run it", got.SectionContent[SectionUsage])
	assert.Equal(t, []string{SectionUsage}, got.SelectedSections)
	assert.Empty(t, s.SectionContent)
}

func TestPatch_ApplyTwiceEqualsOnce(t *testing.T) {
	p := Patch{
		ProjectType:     Set(ProjectWebApp),
		TeamContext:     Set(TeamTeam),
		RepositoryInput: Set(RepositoryInput{Method: MethodOwnerRepo, Owner: "o", RepoName: "r"}),
		ActiveSection:   Set(SectionUsage),
	}
	once := p.Apply(Initial())

	assert.Equal(t, once, p.Apply(once))
}

func TestPatch_Validate(t *testing.T) {
	assert.NoError(t, Patch{SelectedSections: Set([]string{SectionRoadmap})}.Validate())
	assert.ErrorIs(t, Patch{SelectedSections: Set([]string{"faq"})}.Validate(), ErrUnknownSection)
	assert.Error(t, Patch{}.withStep("nowhere").Validate())
}
