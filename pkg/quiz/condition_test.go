package quiz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/quiz"
)

func cond(q string, op domain.Operator, v any) *domain.ShowCondition {
	return &domain.ShowCondition{QuestionID: q, Operator: op, Value: v}
}

func TestEvaluateShowCondition_BooleanNormalization(t *testing.T) {
	answers := domain.Answers{"q2-work": domain.Single("yes", "true")}

	assert.True(t, quiz.EvaluateShowCondition(cond("q2-work", domain.OpEquals, "true"), answers), "q2a-activities is visible")
	assert.False(t, quiz.EvaluateShowCondition(cond("q2-work", domain.OpEquals, "false"), answers), "q2d-barriers is hidden")
	assert.True(t, quiz.EvaluateShowCondition(cond("q2-work", domain.OpEquals, true), answers))
	assert.False(t, quiz.EvaluateShowCondition(cond("q2-work", domain.OpEquals, false), answers))
}

func TestEvaluateShowCondition(t *testing.T) {
	answers := domain.Answers{
		"single": domain.Single("a", "alpha"),
		"multi":  domain.Multiple([]string{"x", "y"}, []string{"ex", "why"}),
		"text":   domain.Text("hello"),
		"score":  domain.Single("s", "7"),
		"rank":   domain.Ranked([]string{"r1", "r2"}),
	}

	tests := []struct {
		name string
		cond *domain.ShowCondition
		want bool
	}{
		{"nil condition", nil, true},
		{"missing answer", cond("absent", domain.OpEquals, "x"), false},
		{"equals single", cond("single", domain.OpEquals, "alpha"), true},
		{"equals single mismatch", cond("single", domain.OpEquals, "beta"), false},
		{"equals text", cond("text", domain.OpEquals, "hello"), true},
		{"notEquals single", cond("single", domain.OpNotEquals, "beta"), true},
		{"notEquals same", cond("single", domain.OpNotEquals, "alpha"), false},
		{"equals on multi is false", cond("multi", domain.OpEquals, "ex"), false},
		{"notEquals on multi is true", cond("multi", domain.OpNotEquals, "ex"), true},
		{"contains multi", cond("multi", domain.OpContains, "why"), true},
		{"contains multi miss", cond("multi", domain.OpContains, "zed"), false},
		{"contains on single is false", cond("single", domain.OpContains, "alpha"), false},
		{"contains with non-string value", cond("multi", domain.OpContains, 3), false},
		{"greaterThan numeric", cond("score", domain.OpGreaterThan, 5), true},
		{"greaterThan string number", cond("score", domain.OpGreaterThan, "8"), false},
		{"lessThan numeric", cond("score", domain.OpLessThan, 10.5), true},
		{"greaterThan non numeric", cond("single", domain.OpGreaterThan, 1), false},
		{"lessThan on ranking", cond("rank", domain.OpLessThan, 1), false},
		{"unknown operator", cond("single", domain.Operator("matches"), "a"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, quiz.EvaluateShowCondition(tt.cond, answers))
		})
	}
}
