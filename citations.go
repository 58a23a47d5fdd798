package llmstream

import (
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// CitationStore is the per-session, append-only citation set. It is keyed by
// exact URL with insertion order preserved, which makes "first occurrence
// wins" a property of the data structure rather than of scan logic.
// Citations are never removed; once seen, a citation is visible for the
// session's lifetime.
type CitationStore struct {
	byURL *orderedmap.OrderedMap[string, Citation]
}

// NewCitationStore creates an empty citation store.
func NewCitationStore() *CitationStore {
	return &CitationStore{
		byURL: orderedmap.New[string, Citation](),
	}
}

// Add records a citation if its URL has not been seen before.
// Returns true if the citation was newly added.
func (s *CitationStore) Add(c Citation) bool {
	if c.URL == "" {
		return false
	}
	if _, seen := s.byURL.Get(c.URL); seen {
		return false
	}
	s.byURL.Set(c.URL, c)
	return true
}

// List returns all citations in insertion order.
func (s *CitationStore) List() []Citation {
	out := make([]Citation, 0, s.byURL.Len())
	for pair := s.byURL.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// Len returns the number of distinct citations seen.
func (s *CitationStore) Len() int {
	return s.byURL.Len()
}

// Reset drops all accumulated citations.
func (s *CitationStore) Reset() {
	s.byURL = orderedmap.New[string, Citation]()
}

// CollectCitations scans the given gjson paths of a decoded provider value
// for url_citation annotations. Each path may resolve to an annotation array
// or, for "#"-style queries, an array of annotation arrays; both are
// handled. Citations with no resolvable URL are dropped.
func CollectCitations(root gjson.Result, paths ...string) []Citation {
	var out []Citation
	for _, path := range paths {
		node := root.Get(path)
		if !node.Exists() {
			continue
		}
		node.ForEach(func(_, value gjson.Result) bool {
			if value.IsArray() {
				value.ForEach(func(_, inner gjson.Result) bool {
					if c, ok := CitationFromAnnotation(inner); ok {
						out = append(out, c)
					}
					return true
				})
				return true
			}
			if c, ok := CitationFromAnnotation(value); ok {
				out = append(out, c)
			}
			return true
		})
	}
	return out
}

// CitationFromAnnotation converts one annotation value into a Citation.
// Both the flat shape ({type:'url_citation', url, title, snippet, domain})
// and the nested shape ({type:'url_citation', url_citation:{url, title,
// content, domain}}) are accepted, preferring nested fields when both are
// present. Annotations without a resolvable URL are dropped.
func CitationFromAnnotation(a gjson.Result) (Citation, bool) {
	if a.Get("type").String() != "url_citation" {
		return Citation{}, false
	}

	nested := a.Get("url_citation")

	citationURL := nested.Get("url").String()
	if citationURL == "" {
		citationURL = a.Get("url").String()
	}
	if citationURL == "" {
		return Citation{}, false
	}

	c := Citation{URL: citationURL}

	if snippet := nested.Get("content").String(); snippet != "" {
		c.Snippet = &snippet
	} else if snippet := a.Get("snippet").String(); snippet != "" {
		c.Snippet = &snippet
	}

	if domain := nested.Get("domain").String(); domain != "" {
		c.Domain = &domain
	} else if domain := a.Get("domain").String(); domain != "" {
		c.Domain = &domain
	}

	c.Title = deriveCitationTitle(a, nested, citationURL)
	return c, true
}

// deriveCitationTitle picks a non-empty title: explicit title, nested title,
// explicit domain, nested domain, the URL's hostname with a leading "www."
// stripped, or the raw URL as last resort.
func deriveCitationTitle(flat, nested gjson.Result, citationURL string) string {
	if t := flat.Get("title").String(); t != "" {
		return t
	}
	if t := nested.Get("title").String(); t != "" {
		return t
	}
	if d := flat.Get("domain").String(); d != "" {
		return d
	}
	if d := nested.Get("domain").String(); d != "" {
		return d
	}
	if u, err := url.Parse(citationURL); err == nil && u.Hostname() != "" {
		return strings.TrimPrefix(u.Hostname(), "www.")
	}
	return citationURL
}
