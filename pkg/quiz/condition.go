package quiz

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// EvaluateShowCondition reports whether a question guarded by cond is visible.
//
// A nil condition is always visible. A condition whose referenced question has no
// answer yet is not visible. Type-mismatched comparisons are false, and unknown
// operators are visible.
func EvaluateShowCondition(cond *domain.ShowCondition, answers domain.Answers) bool {
	if cond == nil {
		return true
	}
	answer, ok := answers[cond.QuestionID]
	if !ok {
		return false
	}

	want, wantIsString := normalize(cond.Value)

	switch cond.Operator {
	case domain.OpEquals:
		got, scalar := scalarOf(answer)
		return scalar && wantIsString && got == want
	case domain.OpNotEquals:
		got, scalar := scalarOf(answer)
		return !scalar || !wantIsString || got != want
	case domain.OpContains:
		s, isString := cond.Value.(string)
		if answer.Kind != domain.AnswerMultiple || !isString {
			return false
		}
		return slices.Contains(answer.Values, s)
	case domain.OpGreaterThan, domain.OpLessThan:
		got, scalar := scalarOf(answer)
		if !scalar {
			return false
		}
		a, okA := numeric(got)
		b, okB := numericValue(cond.Value)
		if !okA || !okB {
			return false
		}
		if cond.Operator == domain.OpGreaterThan {
			return a > b
		}
		return a < b
	default:
		return true
	}
}

// normalize turns an authored condition value into its string form.
// Booleans become "true"/"false" to match yes/no answers.
func normalize(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case int, int64, float64:
		return fmt.Sprint(t), true
	default:
		return "", false
	}
}

// scalarOf extracts a comparable string from single and text answers.
func scalarOf(a domain.AnswerValue) (string, bool) {
	switch a.Kind {
	case domain.AnswerSingle:
		return a.Value, true
	case domain.AnswerText:
		return a.Text, true
	default:
		return "", false
	}
}

func numeric(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

func numericValue(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case float64:
		return t, true
	case string:
		return numeric(t)
	default:
		return 0, false
	}
}
