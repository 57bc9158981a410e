package domain

import "time"

// Review has no natural upstream identity; reviews are rebuilt from the
// latest payload on every ingestion.
type Review struct {
	ID           int64
	HotelID      int64
	AverageScore *float64
	Country      *string
	Type         *string
	Name         *string
	ReviewDate   time.Time
	Headline     *string
	Language     *string
	Pros         *string
	Cons         *string
	Source       *string
}

// PropertyTranslation is unique per (hotel id, language). Unlike every other
// child collection it is updated in place on re-ingestion, never replaced.
type PropertyTranslation struct {
	ID                  int64
	HotelID             int64
	Lang                string
	DescriptionHTML     *string
	MarkdownDescription *string
	FetchedAt           time.Time
}
