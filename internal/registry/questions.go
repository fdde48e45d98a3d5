// Package registry provides the default focus-group discussion
// questions, loaded from an embedded YAML fixture. Callers can also
// load a custom question set from a file.
package registry

import (
	_ "embed"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed questions.yaml
var defaultQuestionsYAML []byte

// Question is one focus-group discussion prompt. Topic groups related
// questions for display; only Text is fed to the moderator prompt.
type Question struct {
	Topic string `yaml:"topic" json:"topic"`
	Text  string `yaml:"text" json:"text"`
}

// DefaultQuestions returns the built-in question set.
func DefaultQuestions() ([]Question, error) {
	return parseQuestions(defaultQuestionsYAML)
}

// LoadQuestionsFromFile reads a YAML list of questions from the given path.
func LoadQuestionsFromFile(path string) ([]Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "registry: read questions fixture")
	}
	return parseQuestions(data)
}

func parseQuestions(data []byte) ([]Question, error) {
	var questions []Question
	if err := yaml.Unmarshal(data, &questions); err != nil {
		return nil, eris.Wrap(err, "registry: unmarshal questions")
	}
	if len(questions) == 0 {
		return nil, eris.New("registry: question set is empty")
	}
	return questions, nil
}

// FirstQuestion returns the text of the first default question. It is
// the fallback when a caller starts a focus group without a question.
func FirstQuestion() string {
	questions, err := DefaultQuestions()
	if err != nil || len(questions) == 0 {
		return "What matters most to you when choosing a product in this category?"
	}
	return questions[0].Text
}
