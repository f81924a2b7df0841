package quiz

import (
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// ErrInvalidAnswer is returned when an answer does not fit its question.
var ErrInvalidAnswer = errors.New("invalid answer")

// legacyAnswer is the untagged wire shape, where the kind is implied by the fields present.
type legacyAnswer struct {
	SelectedOptionID  string   `mapstructure:"selectedOptionId"`
	SelectedValue     string   `mapstructure:"selectedValue"`
	SelectedOptionIDs []string `mapstructure:"selectedOptionIds"`
	SelectedValues    []string `mapstructure:"selectedValues"`
	Text              *string  `mapstructure:"text"`
	RankedOptionIDs   []string `mapstructure:"rankedOptionIds"`
}

// DecodeAnswer converts a loosely typed payload (decoded JSON, YAML, frontmatter)
// into an AnswerValue. Payloads carrying "kind" use the tagged shape; others are
// recognized by their field names.
func DecodeAnswer(raw map[string]any) (domain.AnswerValue, error) {
	if raw == nil {
		return domain.AnswerValue{}, fmt.Errorf("%w: empty payload", ErrInvalidAnswer)
	}

	if _, tagged := raw["kind"]; tagged {
		var v domain.AnswerValue
		if err := mapstructure.Decode(raw, &v); err != nil {
			return domain.AnswerValue{}, fmt.Errorf("%w: %v", ErrInvalidAnswer, err)
		}
		switch v.Kind {
		case domain.AnswerSingle, domain.AnswerMultiple, domain.AnswerText, domain.AnswerRanking:
			return v, nil
		default:
			return domain.AnswerValue{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidAnswer, v.Kind)
		}
	}

	var l legacyAnswer
	if err := mapstructure.Decode(raw, &l); err != nil {
		return domain.AnswerValue{}, fmt.Errorf("%w: %v", ErrInvalidAnswer, err)
	}
	switch {
	case l.SelectedOptionID != "":
		return domain.Single(l.SelectedOptionID, l.SelectedValue), nil
	case l.SelectedOptionIDs != nil || l.SelectedValues != nil:
		return domain.Multiple(l.SelectedOptionIDs, l.SelectedValues), nil
	case l.RankedOptionIDs != nil:
		return domain.Ranked(l.RankedOptionIDs), nil
	case l.Text != nil:
		return domain.Text(*l.Text), nil
	}
	return domain.AnswerValue{}, fmt.Errorf("%w: unrecognized shape", ErrInvalidAnswer)
}

// expectedKind maps a question type to the answer shape it accepts.
func expectedKind(t domain.QuestionType) (domain.AnswerKind, bool) {
	switch t {
	case domain.SingleChoice, domain.YesNo, domain.ProfileSelect:
		return domain.AnswerSingle, true
	case domain.MultipleChoice:
		return domain.AnswerMultiple, true
	case domain.FreeText:
		return domain.AnswerText, true
	case domain.Ranking:
		return domain.AnswerRanking, true
	}
	return "", false
}

// ValidateAnswer checks that v has the shape q expects and references only known options.
func ValidateAnswer(q domain.Question, v domain.AnswerValue) error {
	want, ok := expectedKind(q.Type)
	if !ok {
		return fmt.Errorf("%w: question %q has unknown type %q", ErrInvalidAnswer, q.ID, q.Type)
	}
	if v.Kind != want {
		return fmt.Errorf("%w: question %q expects %s, got %s", ErrInvalidAnswer, q.ID, want, v.Kind)
	}

	var ids []string
	switch v.Kind {
	case domain.AnswerSingle:
		ids = []string{v.OptionID}
	case domain.AnswerMultiple:
		ids = v.OptionIDs
	case domain.AnswerRanking:
		ids = v.RankedIDs
	}
	for _, id := range ids {
		if _, found := q.OptionByID(id); !found {
			return fmt.Errorf("%w: question %q has no option %q", ErrInvalidAnswer, q.ID, id)
		}
	}
	return nil
}
