// Package lexicon holds the immutable word lists and category patterns the
// analytical stages score against. Loaded once at process start and injected
// into stage constructors; never mutated afterwards.
package lexicon

import (
	_ "embed"
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

//go:embed lexicon.yaml
var defaultYAML []byte

// TopicCategory is one fixed topic bucket with its match pattern.
type TopicCategory struct {
	Name    string
	Pattern *regexp.Regexp
}

// Trait is one personality dimension with its keyword list and scoring weight.
type Trait struct {
	Name     string
	Weight   float64
	Keywords []string
}

// Lexicon is the full compiled configuration.
type Lexicon struct {
	Positive []string
	Negative []string
	Humor    []string
	Topics   []TopicCategory
	Traits   []Trait
}

type fileFormat struct {
	Tone struct {
		Positive []string `yaml:"positive"`
		Negative []string `yaml:"negative"`
		Humor    []string `yaml:"humor"`
	} `yaml:"tone"`
	Topics []struct {
		Name    string `yaml:"name"`
		Pattern string `yaml:"pattern"`
	} `yaml:"topics"`
	Traits []struct {
		Name     string   `yaml:"name"`
		Weight   float64  `yaml:"weight"`
		Keywords []string `yaml:"keywords"`
	} `yaml:"traits"`
}

// Load parses the embedded default lexicon.
func Load() (*Lexicon, error) {
	return Parse(defaultYAML)
}

// Parse compiles a lexicon from YAML bytes.
func Parse(data []byte) (*Lexicon, error) {
	var raw fileFormat
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse lexicon: %w", err)
	}

	lex := &Lexicon{
		Positive: raw.Tone.Positive,
		Negative: raw.Tone.Negative,
		Humor:    raw.Tone.Humor,
	}

	for _, t := range raw.Topics {
		re, err := regexp.Compile(t.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern for topic %q: %w", t.Name, err)
		}
		lex.Topics = append(lex.Topics, TopicCategory{Name: t.Name, Pattern: re})
	}

	for _, t := range raw.Traits {
		if t.Name == "" || len(t.Keywords) == 0 {
			return nil, fmt.Errorf("trait entry missing name or keywords")
		}
		lex.Traits = append(lex.Traits, Trait{Name: t.Name, Weight: t.Weight, Keywords: t.Keywords})
	}

	if len(lex.Positive) == 0 || len(lex.Negative) == 0 {
		return nil, fmt.Errorf("lexicon must define positive and negative word lists")
	}
	return lex, nil
}
