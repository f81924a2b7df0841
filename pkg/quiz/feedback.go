package quiz

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/wayfinder/pkg/domain"
)

const (
	fallbackOpening = "Grazie per aver completato il questionario!\n\n"
	fallbackClosing = "\n\nTi aspettiamo al corso \"AI e professione forense\" di DigiCrazy Lab!"

	// FallbackUnavailable is shown when no generator is configured.
	FallbackUnavailable = fallbackOpening +
		"Le tue risposte sono state registrate con successo. Il nostro sistema di feedback personalizzato non è attualmente disponibile, ma il team formativo analizzerà le tue risposte per personalizzare il corso in base alle tue esigenze." +
		fallbackClosing

	// FallbackFailure is shown when generation failed.
	FallbackFailure = fallbackOpening +
		"Le tue risposte sono state registrate con successo. Purtroppo si è verificato un problema tecnico nella generazione del feedback personalizzato.\n\n" +
		"Il team formativo analizzerà comunque le tue risposte per personalizzare il corso in base alle tue esigenze e aspettative." +
		fallbackClosing
)

// Fallback builds static feedback with the gap-derived course prompts.
func Fallback(text string, profile domain.Profile) domain.Feedback {
	return domain.Feedback{
		Text:          text,
		CoursePrompts: CoursePrompts(profile.Gaps),
		Fallback:      true,
	}
}

// StaticGenerator always returns FallbackUnavailable. It stands in when no model is configured.
type StaticGenerator struct{}

func (StaticGenerator) Generate(_ context.Context, profile domain.Profile) (domain.Feedback, error) {
	return Fallback(FallbackUnavailable, profile), nil
}

var awarenessLabels = map[domain.AwarenessLevel]string{
	domain.AwarenessNone:   "nessuna esperienza con strumenti AI",
	domain.AwarenessAware:  "conosce gli strumenti AI ma non li usa nel lavoro",
	domain.AwarenessActive: "usa già l'AI nel lavoro legale",
}

// Prompt renders the Italian instruction sent to the language model for profile.
func Prompt(profile domain.Profile) string {
	var b strings.Builder
	b.WriteString("Sei un assistente per un corso di formazione sull'AI per avvocati italiani.\n\n")
	b.WriteString("Basandoti sulle risposte del questionario di pre-valutazione, genera un feedback personalizzato in italiano.\n\n")
	b.WriteString("Il feedback deve:\n")
	b.WriteString("- Essere incoraggiante e professionale\n")
	b.WriteString("- Riconoscere il loro attuale livello di esperienza con l'AI\n")
	b.WriteString("- Collegare le loro aspettative con cosa impareranno nel corso\n")
	b.WriteString("- Affrontare brevemente le loro preoccupazioni rassicurandoli\n")
	b.WriteString("- Suggerire 2-3 aree specifiche su cui concentrarsi durante il corso\n")
	b.WriteString("- Essere lungo circa 200-300 parole\n")
	b.WriteString("- NON assegnare un \"livello\" - questo verrà fatto nel modulo successivo\n\n")
	b.WriteString("Profilo del partecipante:\n")
	b.WriteString(describe(profile))
	b.WriteString("\nGenera il feedback:")
	return b.String()
}

func describe(p domain.Profile) string {
	var b strings.Builder
	line := func(label string, values ...string) {
		var kept []string
		for _, v := range values {
			if v != "" {
				kept = append(kept, v)
			}
		}
		if len(kept) == 0 {
			return
		}
		fmt.Fprintf(&b, "**%s**\n%s\n\n", label, strings.Join(kept, ", "))
	}

	line("Esperienza", awarenessLabels[p.AwarenessLevel])
	line("Strumenti usati", p.ToolsUsed...)
	line("Attività svolte con l'AI", p.WorkActivities...)
	line("Frequenza d'uso", p.UsageFrequency)
	line("Difficoltà incontrate", p.Challenges...)
	line("Soddisfazione", p.Satisfaction)
	line("Ostacoli", p.Barriers...)
	line("Preoccupazioni", p.Concerns...)
	line("Priorità", p.Priorities...)
	line("Aspettative", p.Expectations)
	for _, g := range p.Gaps {
		line("Area da rafforzare ("+string(g.Severity)+")", g.Description)
	}
	return b.String()
}
