package domain

import "time"

// QuestionType tags how a linear question is answered.
type QuestionType string

const (
	SingleChoice   QuestionType = "single_choice"
	MultipleChoice QuestionType = "multiple_choice"
	YesNo          QuestionType = "yes_no"
	FreeText       QuestionType = "text"
	Ranking        QuestionType = "ranking"
	ProfileSelect  QuestionType = "profile_select"
)

// Operator compares a prior answer against a condition value.
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "notEquals"
	OpContains    Operator = "contains"
	OpGreaterThan Operator = "greaterThan"
	OpLessThan    Operator = "lessThan"
)

// Option is one selectable choice of a linear question.
type Option struct {
	ID          string `json:"id" yaml:"id"`
	Label       string `json:"label" yaml:"label"`
	Value       string `json:"value" yaml:"value"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// NextQuestionID jumps elsewhere when this option is chosen.
	NextQuestionID string `json:"nextQuestionId,omitempty" yaml:"next_question_id,omitempty"`
}

// ShowCondition hides a question until a prior answer matches.
// Value is a string, number or bool as authored.
type ShowCondition struct {
	QuestionID string   `json:"questionId" yaml:"question_id"`
	Operator   Operator `json:"operator" yaml:"operator"`
	Value      any      `json:"value" yaml:"value"`
}

// Question is an entry of a linear survey.
type Question struct {
	ID          string       `json:"id" yaml:"id"`
	SurveyID    string       `json:"surveyId,omitempty" yaml:"-"`
	Order       int          `json:"order" yaml:"order"`
	Type        QuestionType `json:"type" yaml:"type"`
	Text        string       `json:"text" yaml:"text"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Options     []Option     `json:"options,omitempty" yaml:"options,omitempty"`
	Required    bool         `json:"isRequired" yaml:"required"`
	// NextQuestionID skips ahead regardless of the chosen option.
	NextQuestionID string         `json:"nextQuestionId,omitempty" yaml:"next_question_id,omitempty"`
	ShowCondition  *ShowCondition `json:"showCondition,omitempty" yaml:"show_condition,omitempty"`
}

// OptionByID returns the option with the given id.
func (q Question) OptionByID(id string) (Option, bool) {
	for _, o := range q.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// Survey is a named, ordered list of questions.
type Survey struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Active      bool       `json:"isActive" yaml:"active"`
	Questions   []Question `json:"questions" yaml:"questions"`
}

// AnswerKind discriminates AnswerValue.
type AnswerKind string

const (
	AnswerSingle   AnswerKind = "single"
	AnswerMultiple AnswerKind = "multiple"
	AnswerText     AnswerKind = "text"
	AnswerRanking  AnswerKind = "ranking"
)

// AnswerValue is a tagged union over the four answer shapes.
// Only the fields matching Kind are meaningful.
type AnswerValue struct {
	Kind AnswerKind `json:"kind" mapstructure:"kind"`

	OptionID string `json:"optionId,omitempty" mapstructure:"optionId"`
	Value    string `json:"value,omitempty" mapstructure:"value"`

	OptionIDs []string `json:"optionIds,omitempty" mapstructure:"optionIds"`
	Values    []string `json:"values,omitempty" mapstructure:"values"`

	Text string `json:"text,omitempty" mapstructure:"text"`

	RankedIDs []string `json:"rankedIds,omitempty" mapstructure:"rankedIds"`
}

// Single builds a single-selection answer. Yes/no answers use "true" or "false" as value.
func Single(optionID, value string) AnswerValue {
	return AnswerValue{Kind: AnswerSingle, OptionID: optionID, Value: value}
}

// Multiple builds a multi-selection answer.
func Multiple(optionIDs, values []string) AnswerValue {
	return AnswerValue{Kind: AnswerMultiple, OptionIDs: optionIDs, Values: values}
}

// Text builds a free-text answer.
func Text(text string) AnswerValue {
	return AnswerValue{Kind: AnswerText, Text: text}
}

// Ranked builds a ranking answer, highest first.
func Ranked(ids []string) AnswerValue {
	return AnswerValue{Kind: AnswerRanking, RankedIDs: ids}
}

// Answers maps a question id to its recorded answer.
type Answers map[string]AnswerValue

// QuizSession is the server-side record of one survey attempt.
type QuizSession struct {
	ID           string     `json:"id"`
	SurveyID     string     `json:"surveyId"`
	ResumeToken  string     `json:"resumeToken"`
	StartedAt    time.Time  `json:"startedAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	CurrentIndex int        `json:"currentIndex"`
	Feedback     *Feedback  `json:"feedback,omitempty"`
}

// Completed reports whether the attempt was marked complete.
func (s *QuizSession) Completed() bool {
	return s.CompletedAt != nil
}

// QuizSnapshot is what a client receives when it creates or resumes a quiz.
type QuizSnapshot struct {
	SessionID    string     `json:"sessionId"`
	ResumeToken  string     `json:"resumeToken"`
	Questions    []Question `json:"questions"`
	CurrentIndex int        `json:"currentIndex"`
	Answers      Answers    `json:"answers,omitempty"`
	IsComplete   bool       `json:"isComplete"`
	Feedback     *Feedback  `json:"feedback,omitempty"`
}
