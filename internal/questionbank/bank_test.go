package questionbank

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/screening/internal/ai"
	"github.com/spigell/screening/internal/jobfamily"
)

func request(title string) ai.Request {
	return ai.Request{
		Job:       ai.JobContext{Title: title},
		Candidate: ai.CandidateContext{FirstName: "Ana", LastName: "Ruiz"},
	}
}

func TestSourceBaseQuestionsInterpolated(t *testing.T) {
	questions, err := NewSource().Generate(context.Background(), request("Desarrollador Backend"))
	require.NoError(t, err)
	require.Len(t, questions, 8)

	assert.Equal(t, "Hola Ana Ruiz, cuéntame un poco sobre ti y tu experiencia profesional.", questions[0].Question)
	assert.Equal(t, "¿Qué te motiva a aplicar para la posición de Desarrollador Backend?", questions[1].Question)

	base := Base("Ana Ruiz", "Desarrollador Backend")
	for i := range base {
		assert.Equal(t, base[i].Question, questions[i].Question, "base question %d", i)
	}

	for i, q := range questions {
		assert.Equal(t, i+1, q.ID)
		assert.True(t, q.Type.Valid(), "question %d has type %q", q.ID, q.Type)
		assert.Positive(t, q.ExpectedDuration)
	}
}

func TestSourcePicksExactlyOneBucket(t *testing.T) {
	tests := []struct {
		title  string
		family jobfamily.Family
	}{
		{title: "Senior Developer", family: jobfamily.Developer},
		{title: "programador php", family: jobfamily.Developer},
		{title: "Diseñador UX/UI", family: jobfamily.Design},
		{title: "Marketing Analyst", family: jobfamily.Marketing},
		{title: "Gerente de Ventas", family: jobfamily.Sales},
		{title: "Generic Role", family: jobfamily.Generic},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			questions, err := NewSource().Generate(context.Background(), request(tt.title))
			require.NoError(t, err)

			var specific []string
			for _, q := range questions[5:] {
				specific = append(specific, q.Question)
			}
			assert.Equal(t, specificQuestions[tt.family], specific)

			for family, bucket := range specificQuestions {
				if family == tt.family {
					continue
				}
				for _, text := range bucket {
					assert.NotContains(t, specific, text, "question from %s bucket leaked in", family)
				}
			}
		})
	}
}

func TestSourceFallsBackToCandidatePosition(t *testing.T) {
	req := ai.Request{Candidate: ai.CandidateContext{FirstName: "Luis", JobPosition: "Sales Lead"}}

	questions, err := NewSource().Generate(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(questions[1].Question, "Sales Lead?"))
	assert.Equal(t, specificQuestions[jobfamily.Sales][0], questions[5].Question)
}

func TestJobSpecificReturnsCopy(t *testing.T) {
	got := JobSpecific("developer")
	got[0] = "mutated"

	assert.NotEqual(t, "mutated", specificQuestions[jobfamily.Developer][0])
}
