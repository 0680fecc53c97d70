package bot

import "strings"

type ContentFilter struct {
	keywords []string
}

func NewContentFilter(keywords []string) *ContentFilter {
	normalized := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			normalized = append(normalized, k)
		}
	}
	return &ContentFilter{keywords: normalized}
}

func (f *ContentFilter) Keywords() []string {
	return f.keywords
}

func (f *ContentFilter) IsDisallowed(body string) bool {
	return IsDisallowed(strings.ToLower(body), f.keywords)
}

// IsDisallowed reports whether body contains any keyword as a substring.
// Both are expected in lower case.
func IsDisallowed(body string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(body, k) {
			return true
		}
	}
	return false
}
