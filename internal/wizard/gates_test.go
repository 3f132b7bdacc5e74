package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rmgen/internal/models"
)

func TestValidateRepositoryInput(t *testing.T) {
	tests := []struct {
		name string
		in   RepositoryInput
		want string
	}{
		{name: "empty url", in: RepositoryInput{Method: MethodURL, RepoURL: "  "}, want: "Please enter a repository URL"},
		{name: "url", in: RepositoryInput{Method: MethodURL, RepoURL: "https://github.com/o/r"}},
		{name: "missing repo name", in: RepositoryInput{Method: MethodOwnerRepo, Owner: "o"}, want: "Please enter both owner and repository name"},
		{name: "missing owner", in: RepositoryInput{Method: MethodOwnerRepo, RepoName: "r"}, want: "Please enter both owner and repository name"},
		{name: "owner and repo", in: RepositoryInput{Method: MethodOwnerRepo, Owner: "o", RepoName: "r"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRepositoryInput(tt.in)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.want)
		})
	}
}

func TestSetupCanContinue(t *testing.T) {
	assert.NoError(t, SetupCanContinue(ProjectWebApp, TeamTeam))
	assert.Error(t, SetupCanContinue("Library", TeamSolo))
	assert.Error(t, SetupCanContinue(ProjectTemplate, "Crowd"))
}

func TestContentCanContinue(t *testing.T) {
	assert.Error(t, ContentCanContinue(" \n\t"))
	assert.NoError(t, ContentCanContinue("Run `make`."))
}

func TestInitialProjectTypeAndTeam(t *testing.T) {
	assert.Equal(t, ProjectTemplate, InitialProjectType(nil, ProjectTemplate))
	assert.Equal(t, ProjectWebApp, InitialProjectType(&models.RepositoryMetadata{DetectedProjectType: ProjectWebApp}, ProjectTemplate))
	assert.Equal(t, ProjectDownloadable, InitialProjectType(&models.RepositoryMetadata{DetectedProjectType: "CLI Tool"}, ProjectTemplate))

	assert.Equal(t, TeamSolo, InitialTeamContext(nil, TeamSolo))
	assert.Equal(t, TeamTeam, InitialTeamContext(&models.RepositoryMetadata{DetectedTeamContext: "Team"}, TeamSolo))
	assert.Equal(t, TeamSolo, InitialTeamContext(&models.RepositoryMetadata{DetectedTeamContext: "crowd"}, TeamSolo))
}

func TestSeedSectionContent(t *testing.T) {
	in := map[string]string{SectionLicense: "GPL-3.0"}
	meta := &models.RepositoryMetadata{Language: "Rust", License: "MIT"}

	got := SeedSectionContent(in, SectionTechStack, meta)
	assert.Equal(t, "Rust", got[SectionTechStack])
	assert.Equal(t, "GPL-3.0", got[SectionLicense])
	assert.NotContains(t, in, SectionTechStack)

	got = SeedSectionContent(got, SectionLicense, meta)
	assert.Equal(t, "GPL-3.0", got[SectionLicense])
}

func TestSectionWalk(t *testing.T) {
	selected := []string{SectionUsage, SectionInstallation, SectionLicense}

	assert.Equal(t, SectionInstallation, FirstSection(selected))
	assert.Equal(t, SectionUsage, NextSection(selected, SectionInstallation))
	assert.Equal(t, SectionLicense, NextSection(selected, SectionUsage))
	assert.Empty(t, NextSection(selected, SectionLicense))
	assert.Equal(t, SectionInstallation, PreviousSection(selected, SectionUsage))
	assert.Empty(t, PreviousSection(selected, SectionInstallation))
	assert.Empty(t, FirstSection(nil))
}

func TestGenerationRequest_ExcludesDeselectedContent(t *testing.T) {
	s := Initial()
	s.ProjectType = ProjectWebApp
	s.TeamContext = TeamTeam
	s.SelectedSections = []string{SectionUsage}
	s.SectionContent = map[string]string{
		SectionUsage:   "run it",
		SectionRoadmap: "later",
	}

	req := GenerationRequest(s)

	assert.Equal(t, ProjectWebApp, req.ProjectType)
	assert.Equal(t, "Team", req.TeamContext)
	assert.Equal(t, []string{SectionUsage}, req.SelectedSections)
	assert.Equal(t, map[string]string{SectionUsage: "run it"}, req.SectionContent)
	assert.Nil(t, req.RepoMetadata)
	assert.Equal(t, "later", s.SectionContent[SectionRoadmap])
}

func TestGenerationRequest_OverridesNameAndDescription(t *testing.T) {
	s := Initial()
	s.RepositoryMetadata = &models.RepositoryMetadata{Name: "repo", Description: "from github", Language: "Go"}
	s.ProjectName = "Shiny"

	req := GenerationRequest(s)

	require.NotNil(t, req.RepoMetadata)
	assert.Equal(t, "Shiny", req.RepoMetadata.Name)
	assert.Equal(t, "from github", req.RepoMetadata.Description)
	assert.Equal(t, "Go", req.RepoMetadata.Language)
	assert.Equal(t, "repo", s.RepositoryMetadata.Name)

	s.RepositoryMetadata = nil
	s.ProjectDescription = "tagline"
	req = GenerationRequest(s)
	require.NotNil(t, req.RepoMetadata)
	assert.Equal(t, "tagline", req.RepoMetadata.Description)
}
