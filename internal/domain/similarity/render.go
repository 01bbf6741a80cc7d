package similarity

import (
	"fmt"
	"math"
	"strings"

	"github.com/okian/foundermatch/internal/domain/model"
)

const separatorWidth = 50

// RenderText formats matches the way the results pane shows them.
func RenderText(degreeType string, q Query, results []model.MatchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Most Similar Profiles (showing top %d):\n\n", q.K)
	fmt.Fprintf(&b, "Your Profile: %s, Experience before starting: %d years\n", degreeType, q.Vector.ExperienceYears)
	fmt.Fprintf(&b, "Weights: Degree %.1f%% - Experience %.1f%%\n\n", q.DegreeWeight*100, (1-q.DegreeWeight)*100)
	if len(results) == 0 {
		b.WriteString("No historical data available for matching.\n")
		return b.String()
	}
	for i, r := range results {
		fmt.Fprintf(&b, "Match #%d (Distance: %.2f, Similarity: %s)\n", i+1, r.Distance, formatSimilarity(r.Similarity))
		fmt.Fprintf(&b, "Name: %s\n", r.Name)
		fmt.Fprintf(&b, "Degree: %s\n", r.DegreeType)
		fmt.Fprintf(&b, "Experience before starting: %d years\n", r.ExperienceYears)
		b.WriteString(strings.Repeat("-", separatorWidth))
		b.WriteString("\n")
	}
	return b.String()
}

func formatSimilarity(s model.Similarity) string {
	if math.IsInf(float64(s), 1) {
		return "inf"
	}
	return fmt.Sprintf("%.2f", float64(s))
}
