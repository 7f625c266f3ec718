package core

// Classification partitions a table's column names by role.
// Each list keeps table column order.
type Classification struct {
	Date        []string `json:"date"`
	Numeric     []string `json:"numeric"`
	Categorical []string `json:"categorical"`
}

// Classify groups columns by the kind assigned at ingestion, which already
// applied the categorical limit. Text columns fall in no group.
func Classify(t *Table) Classification {
	c := Classification{
		Date:        []string{},
		Numeric:     []string{},
		Categorical: []string{},
	}
	if t == nil {
		return c
	}

	for _, col := range t.Columns {
		switch col.Kind {
		case KindDate:
			c.Date = append(c.Date, col.Name)
		case KindNumeric:
			c.Numeric = append(c.Numeric, col.Name)
		case KindCategorical:
			c.Categorical = append(c.Categorical, col.Name)
		}
	}
	return c
}

// IsNumeric reports whether name is in the numeric group.
func (c Classification) IsNumeric(name string) bool {
	return contains(c.Numeric, name)
}

// IsDate reports whether name is in the date group.
func (c Classification) IsDate(name string) bool {
	return contains(c.Date, name)
}

// IsCategorical reports whether name is in the categorical group.
func (c Classification) IsCategorical(name string) bool {
	return contains(c.Categorical, name)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
