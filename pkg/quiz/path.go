package quiz

import (
	"math"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// indexOf returns the position of the question with id, or -1.
func indexOf(questions []domain.Question, id string) int {
	for i, q := range questions {
		if q.ID == id {
			return i
		}
	}
	return -1
}

// NextQuestion resolves where to go after questions[current].
//
// Precedence: the next-question-id of the selected option, then the question's own
// next-question-id, then a forward scan to the next visible question. A jump to an
// unknown id falls through to the scan. ok is false at the end of the list.
func NextQuestion(questions []domain.Question, current int, answers domain.Answers) (int, bool) {
	if current < 0 || current >= len(questions) {
		return -1, false
	}
	q := questions[current]

	if target := jumpTarget(q, answers); target != "" {
		if idx := indexOf(questions, target); idx != -1 {
			return idx, true
		}
	}

	for i := current + 1; i < len(questions); i++ {
		if EvaluateShowCondition(questions[i].ShowCondition, answers) {
			return i, true
		}
	}
	return -1, false
}

func jumpTarget(q domain.Question, answers domain.Answers) string {
	if answer, ok := answers[q.ID]; ok && answer.Kind == domain.AnswerSingle {
		if opt, found := q.OptionByID(answer.OptionID); found && opt.NextQuestionID != "" {
			return opt.NextQuestionID
		}
	}
	return q.NextQuestionID
}

// ComputePath returns the questions the user will traverse given the current answers.
// Jump targets are author data and may loop, so the walk stops after len(questions)
// steps or when it would revisit a question.
func ComputePath(questions []domain.Question, answers domain.Answers) []domain.Question {
	path := []domain.Question{}

	current := -1
	for i, q := range questions {
		if EvaluateShowCondition(q.ShowCondition, answers) {
			current = i
			break
		}
	}
	if current == -1 {
		return path
	}

	seen := make(map[int]bool, len(questions))
	for steps := 0; steps < len(questions); steps++ {
		if seen[current] {
			break
		}
		seen[current] = true
		path = append(path, questions[current])

		next, ok := NextQuestion(questions, current, answers)
		if !ok {
			break
		}
		current = next
	}
	return path
}

// PathIDs is a convenience returning the ids of ComputePath.
func PathIDs(questions []domain.Question, answers domain.Answers) []string {
	path := ComputePath(questions, answers)
	ids := make([]string, len(path))
	for i, q := range path {
		ids[i] = q.ID
	}
	return ids
}

// Progress is the fraction of path already answered, in [0, 1].
// The path may change shape when branch-determining answers change,
// so callers recompute it together with the path.
func Progress(path []domain.Question, answers domain.Answers) float64 {
	if len(path) == 0 {
		return 0
	}
	answered := 0
	for _, q := range path {
		if _, ok := answers[q.ID]; ok {
			answered++
		}
	}
	return float64(answered) / float64(len(path))
}

// Percent rounds Progress to an integer percentage.
func Percent(path []domain.Question, answers domain.Answers) int {
	return int(math.Round(Progress(path, answers) * 100))
}
