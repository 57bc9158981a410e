package domain

// Room identity is the upstream room id, not locally generated.
type Room struct {
	ID             int64
	HotelID        int64
	RoomName       *string
	Description    *string
	RoomSizeSquare *float64
	RoomSizeUnit   *string
	MaxAdults      *int
	MaxChildren    *int
	MaxOccupancy   *int
	BedRelation    *string
	BedTypesJSON   *string // compact JSON sub-document
	ViewsJSON      *string // compact JSON sub-document

	Photos    []RoomPhoto
	Amenities []RoomAmenity
}

type RoomPhoto struct {
	ID               int64
	RoomID           int64
	URL              *string
	HDURL            *string
	ImageDescription *string
	ImageClass1      *string
	MainPhoto        *bool
	Score            *float64
	ClassID          *int
	ClassOrder       *int
}

type RoomAmenity struct {
	ID          int64
	RoomID      int64
	AmenitiesID *int
	Name        *string
	Sort        *int
}
