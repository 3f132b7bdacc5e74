package web

import "net/url"

// httpLocation is the request URL seen as the wizard's browser location.
// Push records the target; the handler turns it into a redirect.
type httpLocation struct {
	url    *url.URL
	pushed string
}

func newLocation(u *url.URL) *httpLocation {
	return &httpLocation{url: u}
}

func (l *httpLocation) Path() string            { return l.url.Path }
func (l *httpLocation) Query(key string) string { return l.url.Query().Get(key) }
func (l *httpLocation) Push(path string)        { l.pushed = path }
