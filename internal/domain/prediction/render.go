package prediction

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/okian/foundermatch/internal/domain/model"
)

// RenderText formats a report as the plain-text summary shown to users.
func RenderText(r model.PredictionReport) string {
	p := message.NewPrinter(language.English)
	var b strings.Builder

	p.Fprintf(&b, "Success Prediction for %s:\n\n", r.ProfileName)
	if r.NoMatches {
		b.WriteString("No similar profiles found. Run a match for this profile first.\n")
		return b.String()
	}
	p.Fprintf(&b, "Based on %d similar founder profiles\n\n", r.BasedOn)

	if len(r.EducationPatterns) > 0 {
		b.WriteString("Common Education Patterns:\n")
		for _, e := range r.EducationPatterns {
			b.WriteString("- " + e.Pattern + "\n")
		}
	}
	b.WriteString("\n")

	if r.ExitSuccessRate != nil {
		p.Fprintf(&b, "Exit Success Rate: %.1f%%\n", *r.ExitSuccessRate)
		p.Fprintf(&b, "Total Successful Exits: %d out of %d\n\n", r.SuccessfulExits, r.TotalExits)
	}

	if r.AverageFundingRounds != nil && r.AverageTotalFunding != nil {
		p.Fprintf(&b, "Average Funding Rounds: %.1f\n", *r.AverageFundingRounds)
		p.Fprintf(&b, "Average Total Funding: $%.2f\n\n", *r.AverageTotalFunding)
	}

	b.WriteString("Recommendations based on similar profiles:\n")
	for _, rec := range r.Recommendations {
		b.WriteString("- " + rec + "\n")
	}
	return b.String()
}
