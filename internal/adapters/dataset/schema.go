package dataset

// Table is a historical table and the columns read from it.
type Table struct {
	Name    string
	Columns []string
}

// Historical tables. Column names are the contract every source honors.
var (
	EducationTable = Table{
		Name:    "degrees",
		Columns: []string{"id", "object_id", "degree_type", "subject", "institution", "graduated_at", "created_at", "updated_at"},
	}
	PeopleTable = Table{
		Name:    "people",
		Columns: []string{"object_id", "first_name", "last_name", "affiliation_name"},
	}
	RelationshipsTable = Table{
		Name:    "relationships",
		Columns: []string{"person_object_id", "relationship_object_id", "title"},
	}
	FundingRoundsTable = Table{
		Name:    "funding_rounds",
		Columns: []string{"object_id", "funded_at", "raised_amount_usd", "raised_amount", "pre_money_valuation_usd", "funding_round_code"},
	}
	AcquisitionsTable = Table{
		Name:    "acquisitions",
		Columns: []string{"acquired_object_id", "price_amount"},
	}
	IPOsTable = Table{
		Name:    "ipos",
		Columns: []string{"object_id", "valuation_amount"},
	}
)

// AllTables lists every historical table.
func AllTables() []Table {
	return []Table{EducationTable, PeopleTable, RelationshipsTable, FundingRoundsTable, AcquisitionsTable, IPOsTable}
}
