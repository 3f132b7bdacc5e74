package wizard

import "strings"

// CallbackPath is the location GitHub redirects back to after authorization.
const CallbackPath = "/auth/callback"

// Location is the browser location as seen by the wizard: the path and query
// it was loaded with, and a way to replace it.
type Location interface {
	Path() string
	Query(key string) string
	// Push replaces the visible location with path.
	Push(path string)
}

// IsCallback reports whether loc is the OAuth callback target.
func IsCallback(loc Location) bool {
	return strings.TrimRight(loc.Path(), "/") == CallbackPath
}

// CallbackCode returns the authorization code carried by an OAuth redirect.
func CallbackCode(loc Location) (string, error) {
	code := strings.TrimSpace(loc.Query("code"))
	if code == "" {
		return "", ErrMissingCode
	}
	return code, nil
}

// Resolve reconciles a rehydrated aggregate with live signals: the location
// it is loaded at and the separately stored access token. persisted is nil
// when there was no parseable prior state.
func Resolve(persisted *State, loc Location, token string) State {
	state := Initial()
	if persisted != nil {
		state = persisted.clone()
		if !state.CurrentStep.Valid() {
			state.CurrentStep = StepLanding
		}
		if state.SectionContent == nil {
			state.SectionContent = map[string]string{}
		}
		state.SelectedSections = filterKnownSections(state.SelectedSections)
		state.IsLoading = false
	}
	state.GitHubAccessToken = token

	switch {
	case IsCallback(loc):
		state.CurrentStep = StepAuthCallback
	case state.CurrentStep == StepAuthCallback:
		state.CurrentStep = StepLanding
	}
	if state.CurrentStep == StepLanding && state.HasToken() {
		state.CurrentStep = StepSelectRepo
	}
	return state
}
