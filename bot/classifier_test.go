package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var testVocabulary = []string{
	"bantuan", "help", "rules", "addrule", "delrule", "listspam", "addprem",
	"checkprem", "mute", "unmute", "tagall", "clearchat", "groupinfo",
}

func TestClassify(t *testing.T) {
	c := NewClassifier(testVocabulary)

	tests := []struct {
		body string
		want Classification
	}{
		{"addrule Be kind", Classification{Matched: true, Command: "addrule", Args: "Be kind"}},
		{"addruler", Classification{}},
		{"rules", Classification{Matched: true, Command: "rules"}},
		{"  RULES  ", Classification{Matched: true, Command: "rules"}},
		{"AddRule   Jangan Spam  ", Classification{Matched: true, Command: "addrule", Args: "Jangan Spam"}},
		{"mute @628111", Classification{Matched: true, Command: "mute", Args: "@628111"}},
		{"unmute 628111", Classification{Matched: true, Command: "unmute", Args: "628111"}},
		{"addrule Dilarang İklan di Grup", Classification{Matched: true, Command: "addrule", Args: "Dilarang İklan di Grup"}},
		{"TAGALL Rapat Jam 7 ÖĞLEN", Classification{Matched: true, Command: "tagall", Args: "Rapat Jam 7 ÖĞLEN"}},
		{"please help", Classification{}},
		{"help\tme", Classification{}},
		{"", Classification{}},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.body))
		})
	}
}

func TestClassifyFirstMatchWins(t *testing.T) {
	assert.Equal(t,
		Classification{Matched: true, Command: "add", Args: "rule x"},
		NewClassifier([]string{"add", "add rule"}).Classify("add rule x"),
	)
	assert.Equal(t,
		Classification{Matched: true, Command: "add rule", Args: "x"},
		NewClassifier([]string{"add rule", "add"}).Classify("add rule x"),
	)
}

func TestClassifierNormalizesVocabulary(t *testing.T) {
	c := NewClassifier([]string{" Help ", "", "RULES"})
	assert.Equal(t, []string{"help", "rules"}, c.Vocabulary())
	assert.True(t, c.Classify("rules").Matched)
}
