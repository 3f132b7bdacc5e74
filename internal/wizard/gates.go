package wizard

import (
	"errors"
	"strings"

	"rmgen/internal/models"
)

// ValidateRepositoryInput is the landing step's local check. It runs before
// any network call and returns the message shown to the user.
func ValidateRepositoryInput(in RepositoryInput) error {
	switch in.Method {
	case MethodURL:
		if strings.TrimSpace(in.RepoURL) == "" {
			return errors.New("Please enter a repository URL")
		}
	case MethodOwnerRepo:
		if strings.TrimSpace(in.Owner) == "" || strings.TrimSpace(in.RepoName) == "" {
			return errors.New("Please enter both owner and repository name")
		}
	default:
		return errors.New("Choose a repository URL or owner and repository name to validate")
	}
	return nil
}

// SetupCanContinue is the setup step's gate: a known project type and team
// context must be chosen.
func SetupCanContinue(projectType string, team TeamContext) error {
	known := false
	for _, t := range ProjectTypes {
		if t == projectType {
			known = true
			break
		}
	}
	if !known {
		return errors.New("Please choose a project type")
	}
	if !team.Valid() {
		return errors.New("Please choose a team context")
	}
	return nil
}

// ContentCanContinue is the content step's gate for the active section.
func ContentCanContinue(body string) error {
	if strings.TrimSpace(body) == "" {
		return errors.New("Please add some content for this section before continuing")
	}
	return nil
}

// InitialProjectType maps a detected project type onto the three choices of
// the setup step, falling back to current when nothing was detected.
func InitialProjectType(meta *models.RepositoryMetadata, current string) string {
	if meta == nil || meta.DetectedProjectType == "" {
		return current
	}
	switch meta.DetectedProjectType {
	case ProjectWebApp, ProjectTemplate:
		return meta.DetectedProjectType
	default:
		return ProjectDownloadable
	}
}

// InitialTeamContext prefers the detected team context over current.
func InitialTeamContext(meta *models.RepositoryMetadata, current TeamContext) TeamContext {
	if meta != nil {
		if detected := TeamContext(meta.DetectedTeamContext); detected.Valid() {
			return detected
		}
	}
	return current
}

// SeedSectionContent returns content with a default body for id when the
// user has not written one yet. The input map is not modified.
func SeedSectionContent(content map[string]string, id string, meta *models.RepositoryMetadata) map[string]string {
	out := make(map[string]string, len(content)+1)
	for k, v := range content {
		out[k] = v
	}
	if out[id] == "" {
		out[id] = LookupSection(id).DefaultContent(meta)
	}
	return out
}

// NextSection returns the section after id in walk order, or "" when id is
// the last one.
func NextSection(selected []string, id string) string {
	ordered := OrderedSections(selected)
	for i, s := range ordered {
		if s.ID == id && i+1 < len(ordered) {
			return ordered[i+1].ID
		}
	}
	return ""
}

// PreviousSection returns the section before id in walk order, or "" when id
// is the first one.
func PreviousSection(selected []string, id string) string {
	ordered := OrderedSections(selected)
	for i, s := range ordered {
		if s.ID == id && i > 0 {
			return ordered[i-1].ID
		}
	}
	return ""
}

// FirstSection returns the first section in walk order, or "".
func FirstSection(selected []string) string {
	ordered := OrderedSections(selected)
	if len(ordered) == 0 {
		return ""
	}
	return ordered[0].ID
}

// GenerationRequest builds the generate-readme payload from s. Content kept
// for deselected sections stays in the aggregate but is left out of the
// request. The setup step's name and tagline override the repository's.
func GenerationRequest(s State) models.GenerateReadmeRequest {
	selected := filterKnownSections(s.SelectedSections)
	content := make(map[string]string, len(selected))
	for _, id := range selected {
		if body, ok := s.SectionContent[id]; ok {
			content[id] = body
		}
	}

	var meta *models.RepositoryMetadata
	if s.RepositoryMetadata != nil {
		copied := *s.RepositoryMetadata
		meta = &copied
	}
	if s.ProjectName != "" || s.ProjectDescription != "" {
		if meta == nil {
			meta = &models.RepositoryMetadata{}
		}
		if s.ProjectName != "" {
			meta.Name = s.ProjectName
		}
		if s.ProjectDescription != "" {
			meta.Description = s.ProjectDescription
		}
	}

	return models.GenerateReadmeRequest{
		ProjectType:      s.ProjectType,
		TeamContext:      string(s.TeamContext),
		SelectedSections: selected,
		SectionContent:   content,
		RepoMetadata:     meta,
	}
}
