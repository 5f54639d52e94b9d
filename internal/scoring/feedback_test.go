package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeedbackLengthTiers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		answers []string
		tier    string
	}{
		{name: "average 31 is detailed", answers: []string{words(31)}, tier: feedbackDetailed},
		{name: "average 30 is adequate", answers: []string{words(30)}, tier: feedbackAdequate},
		{name: "average 16 is adequate", answers: []string{words(20), words(12)}, tier: feedbackAdequate},
		{name: "average 15 needs more detail", answers: []string{words(15)}, tier: feedbackBrief},
		{name: "empty answers count as zero words", answers: []string{words(40), "", ""}, tier: feedbackBrief},
		{name: "no answers", answers: nil, tier: feedbackBrief},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			expected := feedbackCompleted + tt.tier + feedbackClosing
			assert.Equal(t, expected, Feedback(tt.answers, "Generic Role"))
		})
	}
}

func TestFeedbackFamilySentence(t *testing.T) {
	t.Parallel()

	answers := []string{words(40)}

	assert.Equal(t,
		feedbackCompleted+feedbackDetailed+familyFeedback["developer"]+feedbackClosing,
		Feedback(answers, "Backend Developer"),
	)
	assert.Equal(t,
		feedbackCompleted+feedbackDetailed+familyFeedback["design"]+feedbackClosing,
		Feedback(answers, "Product Designer"),
	)

	for _, title := range []string{"Marketing Lead", "Gerente de Ventas", "Contable"} {
		assert.Equal(t, feedbackCompleted+feedbackDetailed+feedbackClosing, Feedback(answers, title), title)
	}
}

func TestAverageWords(t *testing.T) {
	assert.InDelta(t, 0.0, AverageWords(nil), 1e-9)
	assert.InDelta(t, 5.0, AverageWords([]string{words(10), ""}), 1e-9)
}
