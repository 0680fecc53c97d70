package bot

import "strings"

type Classification struct {
	Matched bool
	Command string
	Args    string
}

// Classifier recognizes prefix-less commands. The vocabulary is scanned
// in order and the first match wins, so a name must come before any
// longer name it is a word-prefix of.
type Classifier struct {
	vocabulary []string
}

func NewClassifier(vocabulary []string) *Classifier {
	names := make([]string, 0, len(vocabulary))
	for _, name := range vocabulary {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			names = append(names, name)
		}
	}
	return &Classifier{vocabulary: names}
}

func (c *Classifier) Vocabulary() []string {
	return c.vocabulary
}

func (c *Classifier) Classify(body string) Classification {
	trimmed := strings.TrimSpace(body)

	for _, name := range c.vocabulary {
		if len(trimmed) < len(name) || !strings.EqualFold(trimmed[:len(name)], name) {
			continue
		}
		rest := trimmed[len(name):]
		if rest != "" && rest[0] != ' ' {
			continue
		}

		return Classification{
			Matched: true,
			Command: name,
			Args:    strings.TrimSpace(rest),
		}
	}

	return Classification{}
}
