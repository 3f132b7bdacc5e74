package assets

import _ "embed"

// ModelsData holds the raw JSON catalog of chat model providers and their
// default models.
//
//go:embed models.json
var ModelsData []byte

// SectionsData holds the YAML catalog of README section kinds.
//
//go:embed sections.yaml
var SectionsData []byte
