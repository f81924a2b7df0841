package cli

import (
	"fmt"
	"strings"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/quiz"
)

// ParseAnswers turns "question=value" pairs into answers for survey.
// Choice questions take option ids; multiple choice and ranking take a comma list.
func ParseAnswers(survey *domain.Survey, pairs []string) (domain.Answers, error) {
	answers := make(domain.Answers, len(pairs))
	for _, pair := range pairs {
		qID, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("%w: expected question=value, got %q", quiz.ErrInvalidAnswer, pair)
		}
		q, found := findQuestion(survey, strings.TrimSpace(qID))
		if !found {
			return nil, fmt.Errorf("%w: %q", quiz.ErrUnknownQuestion, qID)
		}
		value, err := answerFor(q, strings.TrimSpace(raw))
		if err != nil {
			return nil, err
		}
		if err := quiz.ValidateAnswer(q, value); err != nil {
			return nil, fmt.Errorf("question %q: %w", q.ID, err)
		}
		answers[q.ID] = value
	}
	return answers, nil
}

func findQuestion(survey *domain.Survey, id string) (domain.Question, bool) {
	for _, q := range survey.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return domain.Question{}, false
}

func answerFor(q domain.Question, raw string) (domain.AnswerValue, error) {
	switch q.Type {
	case domain.FreeText:
		return domain.Text(raw), nil
	case domain.MultipleChoice:
		ids := splitList(raw)
		values := make([]string, 0, len(ids))
		for _, id := range ids {
			opt, _ := q.OptionByID(id)
			values = append(values, opt.Value)
		}
		return domain.Multiple(ids, values), nil
	case domain.Ranking:
		return domain.Ranked(splitList(raw)), nil
	default:
		opt, ok := q.OptionByID(raw)
		if !ok {
			return domain.AnswerValue{}, fmt.Errorf("%w: question %q has no option %q", quiz.ErrInvalidAnswer, q.ID, raw)
		}
		return domain.Single(opt.ID, opt.Value), nil
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
