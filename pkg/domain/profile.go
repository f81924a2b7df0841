package domain

// AwarenessLevel summarizes prior exposure to AI tools.
type AwarenessLevel string

const (
	AwarenessNone   AwarenessLevel = "none"
	AwarenessAware  AwarenessLevel = "aware"
	AwarenessActive AwarenessLevel = "active-user"
)

// PathTaken names the survey branch the participant followed.
type PathTaken string

const (
	PathNotAware        PathTaken = "not-aware"
	PathAwareNotWorking PathTaken = "aware-not-working"
	PathAwareWorking    PathTaken = "aware-working"
)

// Severity grades a detected gap.
type Severity string

const (
	SeverityMinor       Severity = "minor"
	SeveritySignificant Severity = "significant"
)

// Gap is a mismatch between the participant's experience and course content.
type Gap struct {
	Area        string   `json:"area"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

// Profile is the structured evaluation handed to the feedback generator.
type Profile struct {
	AwarenessLevel AwarenessLevel `json:"awarenessLevel"`
	PathTaken      PathTaken      `json:"pathTaken"`

	ToolsUsed      []string `json:"toolsUsed"`
	WorkActivities []string `json:"workActivities"`
	UsageFrequency string   `json:"usageFrequency,omitempty"`
	Challenges     []string `json:"challenges"`
	Satisfaction   string   `json:"satisfaction,omitempty"`
	Barriers       []string `json:"barriers"`
	Concerns       []string `json:"concerns"`
	Priorities     []string `json:"priorities"`
	Expectations   string   `json:"expectations,omitempty"`

	Gaps []Gap `json:"gaps"`
}

// Feedback is opaque generated text plus short actionable prompts.
type Feedback struct {
	Text          string   `json:"text"`
	CoursePrompts []string `json:"coursePrompts"`
	// Fallback marks the static thank-you text used when generation was unavailable.
	Fallback bool `json:"fallback,omitempty"`
}
