// Package jobfamily classifies job titles into the broad families that drive
// question selection, keyword bonuses and feedback wording.
package jobfamily

import "strings"

// Family is a coarse job category derived from a job title.
type Family string

const (
	Developer Family = "developer"
	Design    Family = "design"
	Marketing Family = "marketing"
	Sales     Family = "sales"
	Generic   Family = "generic"
)

type matcher struct {
	family   Family
	keywords []string
}

// Order matters: the first family whose keywords appear in the title wins.
var matchers = []matcher{
	{family: Developer, keywords: []string{"developer", "programador"}},
	{family: Design, keywords: []string{"design", "diseñador"}},
	{family: Marketing, keywords: []string{"marketing"}},
	{family: Sales, keywords: []string{"sales", "ventas"}},
}

// Detect returns the family of the given job title. Matching is a
// case-insensitive substring test; titles matching nothing are Generic.
func Detect(title string) Family {
	lower := strings.ToLower(title)
	for _, m := range matchers {
		for _, kw := range m.keywords {
			if strings.Contains(lower, kw) {
				return m.family
			}
		}
	}
	return Generic
}
