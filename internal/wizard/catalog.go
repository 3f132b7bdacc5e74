package wizard

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"rmgen/internal/assets"
	"rmgen/internal/models"
)

// Section kinds. The set is closed; anything else is rejected.
const (
	SectionInspiration     = "inspiration"
	SectionJourney         = "journey"
	SectionInstallation    = "installation"
	SectionUsage           = "usage"
	SectionTechStack       = "tech-stack"
	SectionContributing    = "contributing"
	SectionLicense         = "license"
	SectionCredits         = "credits"
	SectionTroubleshooting = "troubleshooting"
	SectionRoadmap         = "roadmap"
)

var sectionKinds = []string{
	SectionInspiration, SectionJourney, SectionInstallation, SectionUsage,
	SectionTechStack, SectionContributing, SectionLicense, SectionCredits,
	SectionTroubleshooting, SectionRoadmap,
}

// IsSectionKind reports whether id belongs to the section catalog.
func IsSectionKind(id string) bool {
	for _, k := range sectionKinds {
		if k == id {
			return true
		}
	}
	return false
}

// Section is the display metadata of one section kind.
type Section struct {
	ID              string `yaml:"id"`
	Title           string `yaml:"title"`
	Description     string `yaml:"description"`
	Icon            string `yaml:"icon"`
	Placeholder     string `yaml:"placeholder"`
	DefaultFrom     string `yaml:"default_from"`
	DefaultFallback string `yaml:"default_fallback"`
}

// DefaultContent is the body a section starts with before the user types
// anything. Only sections backed by a repository fact have one.
func (s Section) DefaultContent(meta *models.RepositoryMetadata) string {
	var fact string
	if meta != nil {
		switch s.DefaultFrom {
		case "language":
			fact = meta.Language
		case "license":
			fact = meta.License
		}
	}
	if strings.TrimSpace(fact) != "" {
		return fact
	}
	return s.DefaultFallback
}

// fallbackSection stands in for ids missing from the catalog so callers never
// get an empty entry.
var fallbackSection = Section{Icon: "book-open"}

type catalogFile struct {
	Sections []Section `yaml:"sections"`
}

var catalog = mustLoadCatalog(assets.SectionsData)

func loadCatalog(data []byte) ([]Section, error) {
	var parsed catalogFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse sections asset: %w", err)
	}
	if len(parsed.Sections) != len(sectionKinds) {
		return nil, fmt.Errorf("sections asset lists %d sections, want %d", len(parsed.Sections), len(sectionKinds))
	}
	seen := make(map[string]bool, len(parsed.Sections))
	for _, s := range parsed.Sections {
		if !IsSectionKind(s.ID) {
			return nil, fmt.Errorf("sections asset: %w: %q", ErrUnknownSection, s.ID)
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("sections asset: duplicate section %q", s.ID)
		}
		seen[s.ID] = true
	}
	return parsed.Sections, nil
}

func mustLoadCatalog(data []byte) []Section {
	sections, err := loadCatalog(data)
	if err != nil {
		panic(err)
	}
	return sections
}

// Catalog returns every section kind in display order.
func Catalog() []Section {
	return append([]Section(nil), catalog...)
}

// LookupSection returns the display metadata for id. Unknown ids get a
// fallback entry titled with the id itself.
func LookupSection(id string) Section {
	for _, s := range catalog {
		if s.ID == id {
			return s
		}
	}
	fb := fallbackSection
	fb.ID = id
	fb.Title = id
	return fb
}

// OrderedSections returns the selected sections in catalog order, which is
// the order the content step walks them in.
func OrderedSections(selected []string) []Section {
	out := make([]Section, 0, len(selected))
	for _, s := range catalog {
		for _, id := range selected {
			if id == s.ID {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

func filterKnownSections(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if IsSectionKind(id) && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
