package quiz

import (
	"slices"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// Well-known question ids of the screening survey read by Evaluate.
const (
	QAware         = "q1-aware"
	QTools         = "q1a-tools"
	QWhyNotAware   = "q1b-whynot-aware"
	QWork          = "q2-work"
	QActivities    = "q2a-activities"
	QFrequency     = "q2a2-frequency"
	QChallenges    = "q2a3-challenges"
	QSatisfaction  = "q2c-satisfaction"
	QBarriers      = "q2d-barriers"
	QProfile       = "q3-profile"
	QExpectations  = "q4-expectations"
	QConcerns      = "q5-concerns"
	QPriorities    = "q6-priorities"
	noneOptionItem = "none"
)

type gapRule struct {
	area        string
	severity    domain.Severity
	description string
	prompt      string
	fires       func(f facts) bool
}

type facts struct {
	notAware     bool
	working      bool
	tools        []string
	barriers     []string
	concerns     []string
	challenges   []string
	satisfaction string
	frequency    string
}

var gapRules = []gapRule{
	{
		area:        "foundational-knowledge",
		severity:    domain.SeveritySignificant,
		description: "Non ha mai provato strumenti AI. Ha bisogno di una introduzione alle basi prima di qualsiasi applicazione pratica.",
		prompt:      "Parti dalle basi: cos'è un modello linguistico e cosa può fare per uno studio legale.",
		fires:       func(f facts) bool { return f.notAware },
	},
	{
		area:        "practical-application",
		severity:    domain.SeveritySignificant,
		description: "Conosce gli strumenti AI ma non li ha mai applicati al lavoro legale. Ha bisogno di esempi concreti e casi d'uso.",
		prompt:      "Prova un caso d'uso concreto: riassumi una sentenza con un assistente AI.",
		fires:       func(f facts) bool { return !f.notAware && !f.working },
	},
	{
		area:        "risk-understanding",
		severity:    domain.SeverityMinor,
		description: "Ha paure sulla riservatezza o affidabilità dell'AI. Ha bisogno di conoscere i rischi reali e come mitigarli.",
		prompt:      "Approfondisci i rischi reali di riservatezza e affidabilità e come mitigarli.",
		fires: func(f facts) bool {
			return slices.Contains(f.barriers, "privacy") || slices.Contains(f.barriers, "reliability")
		},
	},
	{
		area:        "tool-breadth",
		severity:    domain.SeverityMinor,
		description: "Ha provato pochi strumenti AI. Beneficerebbe di vedere diversi strumenti e le loro specificità.",
		prompt:      "Confronta almeno due strumenti AI sullo stesso compito.",
		fires:       func(f facts) bool { return len(f.tools) <= 1 },
	},
	{
		area:        "ethical-framework",
		severity:    domain.SeverityMinor,
		description: "Preoccupato per le implicazioni deontologiche. Il corso copre questo tema - enfatizzarlo.",
		prompt:      "Segui il modulo sulle implicazioni deontologiche dell'AI.",
		fires:       func(f facts) bool { return slices.Contains(f.concerns, "ethics") },
	},
	{
		area:        "effective-usage",
		severity:    domain.SeveritySignificant,
		description: "Usa l'AI ma non è soddisfatto dei risultati. Ha bisogno di imparare strategie per ottenere valore.",
		prompt:      "Impara strategie per ottenere risultati utili dagli strumenti che già usi.",
		fires: func(f facts) bool {
			return f.satisfaction == "not-at-all" || f.satisfaction == "little"
		},
	},
	{
		area:        "habit-building",
		severity:    domain.SeverityMinor,
		description: "Usa l'AI raramente nel lavoro. Ha bisogno di capire come integrarlo nelle attività quotidiane.",
		prompt:      "Individua un'attività quotidiana da svolgere ogni giorno con l'AI.",
		fires:       func(f facts) bool { return f.frequency == "rarely" },
	},
	{
		area:        "prompt-skills",
		severity:    domain.SeveritySignificant,
		description: "Ha difficoltà a formulare richieste efficaci all'AI. Ha bisogno di imparare tecniche di prompting.",
		prompt:      "Esercitati con le tecniche di prompting: contesto, ruolo, formato atteso.",
		fires:       func(f facts) bool { return slices.Contains(f.challenges, "prompts") },
	},
	{
		area:        "output-verification",
		severity:    domain.SeverityMinor,
		description: "Ha riscontrato risposte imprecise o inventate. Ha bisogno di capire come verificare i risultati dell'AI.",
		prompt:      "Verifica sempre fonti e citazioni prodotte dall'AI prima di usarle.",
		fires:       func(f facts) bool { return slices.Contains(f.challenges, "hallucinations") },
	},
}

func singleValue(answers domain.Answers, id string) string {
	if a, ok := answers[id]; ok && a.Kind == domain.AnswerSingle {
		return a.Value
	}
	return ""
}

func multipleValues(answers domain.Answers, id string) []string {
	if a, ok := answers[id]; ok && a.Kind == domain.AnswerMultiple {
		return a.Values
	}
	return nil
}

// Evaluate derives the participant profile and the detected gaps from screening answers.
func Evaluate(answers domain.Answers) domain.Profile {
	rawTools := multipleValues(answers, QTools)
	tools := []string{}
	for _, t := range rawTools {
		if t != noneOptionItem {
			tools = append(tools, t)
		}
	}

	f := facts{
		notAware:     singleValue(answers, QAware) == "false" || slices.Contains(rawTools, noneOptionItem),
		working:      singleValue(answers, QWork) == "true",
		tools:        tools,
		barriers:     multipleValues(answers, QBarriers),
		concerns:     multipleValues(answers, QConcerns),
		challenges:   multipleValues(answers, QChallenges),
		satisfaction: singleValue(answers, QSatisfaction),
		frequency:    singleValue(answers, QFrequency),
	}

	p := domain.Profile{
		ToolsUsed:      tools,
		WorkActivities: orEmpty(multipleValues(answers, QActivities)),
		UsageFrequency: f.frequency,
		Challenges:     orEmpty(f.challenges),
		Satisfaction:   f.satisfaction,
		Barriers:       orEmpty(f.barriers),
		Concerns:       orEmpty(f.concerns),
		Priorities:     []string{},
		Gaps:           []domain.Gap{},
	}
	if a, ok := answers[QPriorities]; ok && a.Kind == domain.AnswerRanking {
		p.Priorities = orEmpty(a.RankedIDs)
	}
	if a, ok := answers[QExpectations]; ok && a.Kind == domain.AnswerText {
		p.Expectations = a.Text
	}

	switch {
	case f.notAware:
		p.AwarenessLevel, p.PathTaken = domain.AwarenessNone, domain.PathNotAware
	case f.working:
		p.AwarenessLevel, p.PathTaken = domain.AwarenessActive, domain.PathAwareWorking
	default:
		p.AwarenessLevel, p.PathTaken = domain.AwarenessAware, domain.PathAwareNotWorking
	}

	for _, r := range gapRules {
		if r.fires(f) {
			p.Gaps = append(p.Gaps, domain.Gap{Area: r.area, Description: r.description, Severity: r.severity})
		}
	}
	return p
}

// CoursePrompts returns one actionable prompt per detected gap, significant gaps first.
func CoursePrompts(gaps []domain.Gap) []string {
	prompts := []string{}
	for _, sev := range []domain.Severity{domain.SeveritySignificant, domain.SeverityMinor} {
		for _, g := range gaps {
			if g.Severity != sev {
				continue
			}
			for _, r := range gapRules {
				if r.area == g.Area {
					prompts = append(prompts, r.prompt)
				}
			}
		}
	}
	return prompts
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
