// Package questionbank holds the deterministic interview questions: a fixed
// base set plus a handful tailored to the job family.
package questionbank

import (
	"context"
	"fmt"

	"github.com/spigell/screening/internal/ai"
	"github.com/spigell/screening/internal/jobfamily"
)

const (
	// SourceName is the strategy name the bank registers under.
	SourceName = "bank"

	defaultExpectedMinutes = 3
)

var specificQuestions = map[jobfamily.Family][]string{
	jobfamily.Developer: {
		"¿Cuáles son tus lenguajes de programación favoritos y por qué?",
		"Describe tu experiencia con metodologías ágiles como Scrum o Kanban.",
		"¿Cómo te mantienes actualizado con las nuevas tecnologías?",
	},
	jobfamily.Design: {
		"¿Cuál es tu proceso de diseño desde la conceptualización hasta la implementación?",
		"Describe un proyecto de diseño del que te sientas especialmente orgulloso.",
		"¿Cómo incorporas la experiencia del usuario en tus diseños?",
	},
	jobfamily.Marketing: {
		"¿Cuál ha sido tu campaña de marketing más exitosa?",
		"¿Cómo mides el éxito de una estrategia de marketing?",
		"¿Qué herramientas de marketing digital utilizas regularmente?",
	},
	jobfamily.Sales: {
		"¿Cuál es tu estrategia para generar nuevos clientes?",
		"Describe una venta difícil que hayas logrado cerrar.",
		"¿Cómo manejas las objeciones de los clientes?",
	},
	jobfamily.Generic: {
		"¿Qué habilidades técnicas consideras más importantes para este puesto?",
		"¿Cómo te adaptas a los cambios en el entorno de trabajo?",
		"¿Qué preguntas tienes sobre la empresa o el puesto?",
	},
}

var specificTypes = map[jobfamily.Family]ai.QuestionType{
	jobfamily.Developer: ai.TypeTechnical,
	jobfamily.Design:    ai.TypeTechnical,
	jobfamily.Marketing: ai.TypeSituational,
	jobfamily.Sales:     ai.TypeSituational,
	jobfamily.Generic:   ai.TypeBehavioral,
}

// JobSpecific returns the three questions for the family of jobTitle.
func JobSpecific(jobTitle string) []string {
	bucket := specificQuestions[jobfamily.Detect(jobTitle)]
	out := make([]string, len(bucket))
	copy(out, bucket)
	return out
}

// Base returns the five questions every interview starts with.
func Base(candidateName, jobTitle string) []ai.Question {
	return []ai.Question{
		{Type: ai.TypeBehavioral, Question: fmt.Sprintf("Hola %s, cuéntame un poco sobre ti y tu experiencia profesional.", candidateName)},
		{Type: ai.TypeMotivation, Question: fmt.Sprintf("¿Qué te motiva a aplicar para la posición de %s?", jobTitle)},
		{Type: ai.TypeSituational, Question: "Describe una situación desafiante que hayas enfrentado en tu trabajo anterior y cómo la resolviste."},
		{Type: ai.TypeBehavioral, Question: "¿Cuáles consideras que son tus principales fortalezas para este rol?"},
		{Type: ai.TypeMotivation, Question: "¿Dónde te ves profesionalmente en los próximos 5 años?"},
	}
}

// Source is the deterministic question strategy. It never fails and always
// returns the base set followed by the job-specific set.
type Source struct{}

func NewSource() *Source { return &Source{} }

func (s *Source) Name() string { return SourceName }

func (s *Source) Generate(_ context.Context, req ai.Request) ([]ai.Question, error) {
	title := req.Job.Title
	if title == "" {
		title = req.Candidate.JobPosition
	}

	questions := Base(req.Candidate.Name(), title)

	family := jobfamily.Detect(title)
	for _, text := range JobSpecific(title) {
		questions = append(questions, ai.Question{Type: specificTypes[family], Question: text})
	}

	for i := range questions {
		questions[i].ID = i + 1
		questions[i].ExpectedDuration = defaultExpectedMinutes
	}

	return questions, nil
}
