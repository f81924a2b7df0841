package quiz

import (
	"fmt"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// Lint reports authoring problems in a survey. It never mutates the survey.
//
// Errors make the survey unusable (duplicate ids, dangling references).
// Warnings flag questions that can never become visible, such as a show-condition
// that depends on a later question.
func Lint(s *domain.Survey) (errs []string, warnings []string) {
	pos := make(map[string]int, len(s.Questions))
	for i, q := range s.Questions {
		if q.ID == "" {
			errs = append(errs, fmt.Sprintf("Question at position %d has no id", i))
			continue
		}
		if _, dup := pos[q.ID]; dup {
			errs = append(errs, fmt.Sprintf("Duplicate question id %q", q.ID))
			continue
		}
		pos[q.ID] = i
	}

	for i, q := range s.Questions {
		if _, ok := expectedKind(q.Type); !ok {
			errs = append(errs, fmt.Sprintf("Question %q has unknown type %q", q.ID, q.Type))
		}
		if q.Type != domain.FreeText && len(q.Options) == 0 {
			errs = append(errs, fmt.Sprintf("Question %q has no options", q.ID))
		}

		seen := make(map[string]bool, len(q.Options))
		for _, o := range q.Options {
			if seen[o.ID] {
				errs = append(errs, fmt.Sprintf("Question %q has duplicate option %q", q.ID, o.ID))
			}
			seen[o.ID] = true
			if o.NextQuestionID != "" {
				if _, ok := pos[o.NextQuestionID]; !ok {
					errs = append(errs, fmt.Sprintf("Option %q of question %q jumps to unknown question %q", o.ID, q.ID, o.NextQuestionID))
				}
			}
		}
		if q.NextQuestionID != "" {
			if _, ok := pos[q.NextQuestionID]; !ok {
				errs = append(errs, fmt.Sprintf("Question %q jumps to unknown question %q", q.ID, q.NextQuestionID))
			}
		}

		if c := q.ShowCondition; c != nil {
			ref, ok := pos[c.QuestionID]
			switch {
			case !ok:
				errs = append(errs, fmt.Sprintf("Question %q depends on unknown question %q", q.ID, c.QuestionID))
			case ref >= i:
				warnings = append(warnings, fmt.Sprintf("Question %q depends on question %q which is not asked before it", q.ID, c.QuestionID))
			}
		}
	}
	return errs, warnings
}
