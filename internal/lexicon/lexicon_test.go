package lexicon

import "testing"

func TestLoadEmbeddedLexicon(t *testing.T) {
	lex, err := Load()
	if err != nil {
		t.Fatalf("failed to load embedded lexicon: %v", err)
	}
	if len(lex.Topics) != 3 {
		t.Fatalf("expected 3 topic categories, got %d", len(lex.Topics))
	}
	if len(lex.Traits) != 5 {
		t.Fatalf("expected 5 traits, got %d", len(lex.Traits))
	}
	if len(lex.Positive) == 0 || len(lex.Negative) == 0 || len(lex.Humor) == 0 {
		t.Fatal("expected non-empty tone word lists")
	}
}

func TestTopicPatternsMatch(t *testing.T) {
	lex, err := Load()
	if err != nil {
		t.Fatalf("failed to load embedded lexicon: %v", err)
	}
	samples := map[string]string{
		"technology":               "Shipping new software today",
		"professional-development": "Started a leadership course",
		"industry-insights":        "Interesting market trend this quarter",
	}
	for _, topic := range lex.Topics {
		sample, ok := samples[topic.Name]
		if !ok {
			t.Fatalf("unexpected topic %q", topic.Name)
		}
		if !topic.Pattern.MatchString(sample) {
			t.Errorf("pattern for %q did not match %q", topic.Name, sample)
		}
	}
}

func TestParseRejectsBadPattern(t *testing.T) {
	_, err := Parse([]byte(`
tone:
  positive: [good]
  negative: [bad]
topics:
  - name: broken
    pattern: "("
`))
	if err == nil {
		t.Fatal("expected error for invalid pattern")
	}
}

func TestParseRejectsEmptyToneLists(t *testing.T) {
	_, err := Parse([]byte(`
tone:
  positive: []
  negative: []
`))
	if err == nil {
		t.Fatal("expected error for empty tone lists")
	}
}
