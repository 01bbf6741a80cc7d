package histgen

import (
	"strconv"
	"time"

	"github.com/okian/foundermatch/internal/adapters/dataset"
	"github.com/okian/foundermatch/internal/domain/model"
)

const dateLayout = "2006-01-02 15:04:05"

// rows flattens one table of t in the column order of table. Absent values
// are nil.
func rows(t *dataset.Tables, table dataset.Table) [][]any {
	var out [][]any
	switch table.Name {
	case dataset.EducationTable.Name:
		for _, r := range t.EducationRows {
			out = append(out, []any{r.ID, r.PersonID, r.DegreeType, r.Subject, r.Institution,
				date(r.GraduatedAt), date(r.CreatedAt), date(r.UpdatedAt)})
		}
	case dataset.PeopleTable.Name:
		for _, p := range t.PeopleRows {
			out = append(out, []any{p.ObjectID, p.FirstName, p.LastName, p.AffiliationName})
		}
	case dataset.RelationshipsTable.Name:
		for _, r := range t.RelationshipRows {
			out = append(out, []any{r.PersonID, r.CompanyID, r.Title})
		}
	case dataset.FundingRoundsTable.Name:
		for _, r := range t.FundingRows {
			out = append(out, []any{r.CompanyID, date(r.FundedAt), amount(r.RaisedAmountUSD),
				amount(r.RaisedAmount), amount(r.PreMoneyValuationUSD), r.RoundCode})
		}
	case dataset.AcquisitionsTable.Name:
		for _, a := range t.AcquisitionRows {
			out = append(out, []any{a.CompanyID, amount(a.Price)})
		}
	case dataset.IPOsTable.Name:
		for _, i := range t.IPORows {
			out = append(out, []any{i.CompanyID, amount(i.Valuation)})
		}
	}
	return out
}

func date(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(dateLayout)
}

func amount(a model.Amount) any {
	if !a.Valid {
		return nil
	}
	return a.Value
}

// field renders a flattened value as CSV text.
func field(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return ""
	}
}
