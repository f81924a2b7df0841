package text_test

import (
	"testing"

	"github.com/aretw0/wayfinder/pkg/text"
	"github.com/stretchr/testify/assert"
)

func TestSubstitute(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		userName string
		answers  map[string]string
		want     string
	}{
		{
			name:     "name and relative",
			text:     "[Nome], il tuo [Parente selezionato] è cittadino italiano?",
			userName: "Amina",
			answers:  map[string]string{"min_parenti": "nonno"},
			want:     "Amina, il tuo nonno/nonna è cittadino italiano?",
		},
		{
			name:     "every occurrence replaced",
			text:     "[Nome] [Nome]",
			userName: "Luca",
			want:     "Luca Luca",
		},
		{
			name: "missing name resolves empty",
			text: "Ciao [Nome]!",
			want: "Ciao !",
		},
		{
			name:    "unmapped relative resolves empty",
			text:    "Il tuo [Parente selezionato].",
			answers: map[string]string{"min_parenti": "vicino"},
			want:    "Il tuo .",
		},
		{
			name: "nil answers",
			text: "[Parente selezionato]",
			want: "",
		},
		{
			name:     "replacement is not rescanned",
			text:     "[Nome]",
			userName: "[Parente selezionato]",
			answers:  map[string]string{"min_parenti": "zio"},
			want:     "[Parente selezionato]",
		},
		{
			name: "plain text untouched",
			text: "Nessun segnaposto",
			want: "Nessun segnaposto",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, text.Substitute(tt.text, tt.userName, tt.answers))
		})
	}
}

func TestSelectedRelative(t *testing.T) {
	assert.Equal(t, "fratello/sorella del nonno", text.SelectedRelative(map[string]string{"min_parenti": "prozio"}))
	assert.Equal(t, "", text.SelectedRelative(map[string]string{}))
}

func TestSubstituter_CustomLookup(t *testing.T) {
	s := text.New("{name}").WithLookup("{pet}", "q_pet", map[string]string{"cat": "gatto"})

	got := s.Apply("{name} ha un {pet}", "Ada", map[string]string{"q_pet": "cat"})
	assert.Equal(t, "Ada ha un gatto", got)

	var zero text.Substituter
	assert.Equal(t, "[Nome]", zero.Apply("[Nome]", "Ada", nil))
}
