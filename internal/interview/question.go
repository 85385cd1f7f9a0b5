package interview

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Field keys the encoding rules and prediction defaults depend on.
const (
	KeyGender            = "GENDER"
	KeyAge               = "AGE"
	KeyShortnessOfBreath = "SHORTNESS_OF_BREATH"
)

// Kind is the input kind of a question.
type Kind string

const (
	KindChoice Kind = "choice" // fixed option set, rendered as a selector
	KindNumber Kind = "number" // free numeric entry
)

// QuestionSpec is the static definition of one interview prompt.
type QuestionSpec struct {
	Label   string   `yaml:"label" json:"label"`
	Key     string   `yaml:"key" json:"key"`
	Kind    Kind     `yaml:"kind" json:"kind"`
	Options []string `yaml:"options,omitempty" json:"options,omitempty"`

	// Min is the smallest value the number input accepts. Only meaningful
	// for KindNumber; zero means the default of 1.
	Min int `yaml:"min,omitempty" json:"min,omitempty"`
}

// MinValue returns the effective minimum for a number question.
func (q QuestionSpec) MinValue() int {
	if q.Min == 0 {
		return 1
	}
	return q.Min
}

// Questionnaire is the ordered, fixed question sequence of an interview.
type Questionnaire []QuestionSpec

// Keys returns the question keys in interview order.
func (qs Questionnaire) Keys() []string {
	keys := make([]string, len(qs))
	for i, q := range qs {
		keys[i] = q.Key
	}
	return keys
}

// Lookup returns the question with the given key.
func (qs Questionnaire) Lookup(key string) (QuestionSpec, bool) {
	for _, q := range qs {
		if q.Key == key {
			return q, true
		}
	}
	return QuestionSpec{}, false
}

// Validate checks the questionnaire invariants: non-empty, unique keys,
// and options present exactly for choice questions.
func (qs Questionnaire) Validate() error {
	if len(qs) == 0 {
		return errors.New("questionnaire has no questions")
	}

	seen := make(map[string]int, len(qs))
	for i, q := range qs {
		if q.Key == "" {
			return fmt.Errorf("question %d: key is required", i+1)
		}
		if q.Label == "" {
			return fmt.Errorf("question %q: label is required", q.Key)
		}
		if prev, dup := seen[q.Key]; dup {
			return fmt.Errorf("question %d: duplicate key %q (first used by question %d)", i+1, q.Key, prev+1)
		}
		seen[q.Key] = i

		switch q.Kind {
		case KindChoice:
			if len(q.Options) == 0 {
				return fmt.Errorf("question %q: choice questions need at least one option", q.Key)
			}
			for _, opt := range q.Options {
				if opt == "" {
					return fmt.Errorf("question %q: empty option", q.Key)
				}
			}
		case KindNumber:
			if len(q.Options) > 0 {
				return fmt.Errorf("question %q: number questions cannot declare options", q.Key)
			}
		default:
			return fmt.Errorf("question %q: unknown kind %q", q.Key, q.Kind)
		}
	}
	return nil
}

type questionFile struct {
	Questions Questionnaire `yaml:"questions"`
}

//go:embed questions.yaml
var defaultQuestionsYAML []byte

// ParseQuestions decodes and validates a YAML questionnaire document.
func ParseQuestions(data []byte) (Questionnaire, error) {
	var f questionFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse questions: %w", err)
	}
	if err := f.Questions.Validate(); err != nil {
		return nil, fmt.Errorf("invalid questions: %w", err)
	}
	return f.Questions, nil
}

// LoadQuestions reads a questionnaire from a YAML file.
func LoadQuestions(path string) (Questionnaire, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read questions file: %w", err)
	}
	return ParseQuestions(data)
}

// DefaultQuestions returns the built-in thirteen-question screening sequence.
func DefaultQuestions() Questionnaire {
	qs, err := ParseQuestions(defaultQuestionsYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded questionnaire: %v", err))
	}
	return qs
}
