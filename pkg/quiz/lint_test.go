package quiz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/quiz"
)

func TestLint(t *testing.T) {
	s := &domain.Survey{ID: "s", Questions: []domain.Question{
		{ID: "a", Type: domain.SingleChoice, Options: []domain.Option{
			{ID: "x", NextQuestionID: "ghost"},
			{ID: "x"},
		}},
		{ID: "b", Type: domain.FreeText, ShowCondition: cond("c", domain.OpEquals, "y")},
		{ID: "c", Type: domain.MultipleChoice},
		{ID: "a", Type: domain.FreeText},
		{ID: "d", Type: "slider", NextQuestionID: "nowhere", Options: []domain.Option{{ID: "o"}}},
		{ID: "e", Type: domain.FreeText, ShowCondition: cond("zzz", domain.OpEquals, "y")},
	}}

	errs, warnings := quiz.Lint(s)
	assert.ElementsMatch(t, []string{
		`Duplicate question id "a"`,
		`Question "a" has duplicate option "x"`,
		`Option "x" of question "a" jumps to unknown question "ghost"`,
		`Question "c" has no options`,
		`Question "d" has unknown type "slider"`,
		`Question "d" jumps to unknown question "nowhere"`,
		`Question "e" depends on unknown question "zzz"`,
	}, errs)
	assert.Equal(t, []string{`Question "b" depends on question "c" which is not asked before it`}, warnings)
}
