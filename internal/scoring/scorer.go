// Package scoring computes the preliminary interview score and the short
// feedback text shown right after answers are submitted.
package scoring

import (
	"math"
	"strings"

	"github.com/spigell/screening/internal/jobfamily"
)

const (
	// MaxScore is the upper bound of every preliminary score.
	MaxScore = 100.0

	pointsPerAnswer   = 10.0
	wordsForFullMarks = 20.0
	keywordBonus      = 2.0
)

// Positional weights; indices not listed weigh 1.0.
var positionWeights = map[int]float64{
	0: 0.8, // introduction
	1: 1.2, // motivation
	2: 1.5, // problem solving
}

// Bonus keywords per family. Sales and generic titles get no bonus.
var bonusKeywords = map[jobfamily.Family][]string{
	jobfamily.Developer: {"javascript", "python", "react", "node", "database", "api", "git", "agile"},
	jobfamily.Design:    {"user experience", "ux", "ui", "figma", "sketch", "photoshop", "prototype"},
	jobfamily.Marketing: {"campaign", "social media", "analytics", "conversion", "brand", "strategy"},
}

// Breakdown exposes the intermediate values of a score.
type Breakdown struct {
	Base         float64 `json:"base"`
	KeywordHits  int     `json:"keywordHits"`
	Bonus        float64 `json:"bonus"`
	Final        float64 `json:"final"`
	AnswersGiven int     `json:"answersGiven"`
}

// PreliminaryScore returns a value in [0, 100] for answers given in ordinal
// order to an interview for jobTitle.
func PreliminaryScore(answers []string, jobTitle string) float64 {
	return Score(answers, jobTitle).Final
}

// Score computes the preliminary score together with its breakdown.
//
// Every answer adds 10 to the denominator. A non-empty answer adds
// min(words/20, 1)*10 times its positional weight to the numerator. Keyword
// hits for the title's family add 2 points each on top of the normalised
// base, even when every answer is empty.
func Score(answers []string, jobTitle string) Breakdown {
	var (
		b           Breakdown
		numerator   float64
		denominator float64
	)

	for i, answer := range answers {
		denominator += pointsPerAnswer

		words := WordCount(answer)
		if words == 0 {
			continue
		}
		b.AnswersGiven++

		raw := RawAnswerPoints(words)
		weight, ok := positionWeights[i]
		if !ok {
			weight = 1
		}
		numerator += raw * weight
	}

	if denominator > 0 {
		b.Base = math.Min(numerator/denominator*MaxScore, MaxScore)
	}

	b.KeywordHits = keywordHits(answers, jobfamily.Detect(jobTitle))
	b.Bonus = float64(b.KeywordHits) * keywordBonus
	b.Final = math.Min(b.Base+b.Bonus, MaxScore)

	return b
}

// RawAnswerPoints returns the unweighted points for an answer of the given
// word count, capped at 10 once it reaches 20 words.
func RawAnswerPoints(words int) float64 {
	return math.Min(float64(words)/wordsForFullMarks, 1) * pointsPerAnswer
}

// WordCount counts whitespace-separated tokens.
func WordCount(answer string) int {
	return len(strings.Fields(answer))
}

func keywordHits(answers []string, family jobfamily.Family) int {
	keywords := bonusKeywords[family]
	if len(keywords) == 0 {
		return 0
	}

	all := strings.ToLower(strings.Join(answers, " "))

	hits := 0
	for _, kw := range keywords {
		if strings.Contains(all, kw) {
			hits++
		}
	}
	return hits
}
