package scoring

import (
	"strings"

	"github.com/spigell/screening/internal/jobfamily"
)

const (
	feedbackCompleted = "Entrevista completada exitosamente. "
	feedbackDetailed  = "Las respuestas fueron detalladas y bien estructuradas. "
	feedbackAdequate  = "Las respuestas fueron adecuadas con un buen nivel de detalle. "
	feedbackBrief     = "Las respuestas podrían haberse beneficiado de más detalle. "
	feedbackClosing   = "Un análisis más detallado será generado próximamente."

	detailedAbove = 30.0
	adequateAbove = 15.0
)

var familyFeedback = map[jobfamily.Family]string{
	jobfamily.Developer: "Se recomienda revisar las competencias técnicas mencionadas. ",
	jobfamily.Design:    "Se valoró la experiencia en diseño y herramientas mencionadas. ",
}

// Feedback composes the post-interview feedback: completion notice, length
// tier, optional family note and closing sentence, in that order.
func Feedback(answers []string, jobTitle string) string {
	var sb strings.Builder

	sb.WriteString(feedbackCompleted)

	avg := AverageWords(answers)
	switch {
	case avg > detailedAbove:
		sb.WriteString(feedbackDetailed)
	case avg > adequateAbove:
		sb.WriteString(feedbackAdequate)
	default:
		sb.WriteString(feedbackBrief)
	}

	sb.WriteString(familyFeedback[jobfamily.Detect(jobTitle)])
	sb.WriteString(feedbackClosing)

	return sb.String()
}

// AverageWords is the mean word count over answers, 0 for no answers.
func AverageWords(answers []string) float64 {
	if len(answers) == 0 {
		return 0
	}

	total := 0
	for _, a := range answers {
		total += WordCount(a)
	}
	return float64(total) / float64(len(answers))
}
