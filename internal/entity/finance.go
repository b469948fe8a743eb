package entity

// Transaction is one spending record submitted for analysis.
type Transaction struct {
	Date     string
	Category string
	Amount   float64
}

// CategoryTotal is the summed spending of one category.
type CategoryTotal struct {
	Category string
	Amount   float64
}
