package service

import (
	"fmt"
	"strings"

	"github.com/GenkiNakashima/systemst/internal/models"
)

// Feedback is the generated review of a submission.
type Feedback struct {
	Content string
	Score   int
	Solved  bool
}

// GenerateFeedback checks code against the scenario's required tokens. Each
// matched token adds to a base score of 60; matching all of them solves the
// scenario. Scenarios without tokens are quizzes and always pass.
func GenerateFeedback(scenario *models.Scenario, code string) Feedback {
	rule := scenario.Rule()
	if len(rule.MustContain) == 0 {
		return Feedback{
			Content: "Answer recorded. This scenario is a concept check, so there is no code to verify.",
			Score:   100,
			Solved:  true,
		}
	}

	var missing []string
	for _, token := range rule.MustContain {
		if !strings.Contains(code, token) {
			missing = append(missing, token)
		}
	}
	matched := len(rule.MustContain) - len(missing)
	score := 60 + 40*matched/len(rule.MustContain)

	if len(missing) == 0 {
		return Feedback{
			Content: fmt.Sprintf("Great work! Your fix for %q addresses the problem.\n\nEvery expected change is present.", scenario.Title),
			Score:   score,
			Solved:  true,
		}
	}
	return Feedback{
		Content: fmt.Sprintf("Reviewed your code for %q.\n\nThe issue is not resolved yet. Missing: %s.",
			scenario.Title, strings.Join(missing, ", ")),
		Score:  score,
		Solved: false,
	}
}
