package domain

import "time"

// Property is the root of the entity graph. Identity is the externally
// supplied hotel id; it is never regenerated locally. A property is created
// on first successful ingestion and only ever updated afterwards.
type Property struct {
	HotelID             int64
	CupidID             *int64
	Name                *string
	HotelType           *string
	HotelTypeID         *int
	Chain               *string
	ChainID             *int
	Latitude            *float64
	Longitude           *float64
	Phone               *string
	Email               *string
	Fax                 *string
	AddressJSON         *string // compact JSON sub-document
	Stars               *int
	Rating              *float64
	ReviewCount         *int
	PetsAllowed         *bool
	ChildAllowed        *bool
	AirportCode         *string
	GroupRoomMin        *int
	MainImageTh         *string
	CheckinJSON         *string // compact JSON sub-document
	Parking             *string
	DescriptionHTML     *string
	MarkdownDescription *string
	ImportantInfo       *string
	CreatedAt           time.Time
	UpdatedAt           time.Time

	Photos       []PropertyPhoto
	Facilities   []PropertyFacility
	Rooms        []Room
	Policies     []Policy
	Reviews      []Review
	Translations []PropertyTranslation
}

type PropertyPhoto struct {
	ID               int64
	HotelID          int64
	URL              *string
	HDURL            *string
	ImageDescription *string
	ImageClass1      *string
	MainPhoto        *bool
	Score            *float64
	ClassID          *int
	ClassOrder       *int
}

type PropertyFacility struct {
	ID           int64
	HotelID      int64
	FacilityID   *int
	FacilityName *string
}

type Policy struct {
	ID          int64
	HotelID     int64
	PolicyType  *string
	Name        *string
	Description *string
}
