package app

import (
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/mohamine831/cupid-nuitee/internal/domain"
)

// Text fields are capped before storage; anything longer keeps its first
// maxTextLen characters plus the marker.
const (
	maxTextLen  = 10000
	truncMarker = "..."
)

const reviewDateLayout = "2006-01-02 15:04:05"

/********** field accessors **********/

// strField returns the string at key, trimmed-blank normalized to nil.
func strField(m map[string]any, key string) *string {
	v, ok := m[key]
	if !ok || v == nil {
		return nil
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// textField is strField plus the length cap. The cap counts characters, not
// bytes; cutting mid-rune would hand invalid UTF-8 to a utf8mb4 column.
func textField(m map[string]any, key string) *string {
	s := strField(m, key)
	if s == nil {
		return nil
	}
	if utf8.RuneCountInString(*s) > maxTextLen {
		runes := []rune(*s)
		t := string(runes[:maxTextLen]) + truncMarker
		return &t
	}
	return s
}

func i64Field(m map[string]any, key string) *int64 {
	switch v := m[key].(type) {
	case float64:
		x := int64(v)
		return &x
	case int64:
		x := v
		return &x
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return &n
		}
	}
	return nil
}

func intField(m map[string]any, key string) *int {
	if v := i64Field(m, key); v != nil {
		x := int(*v)
		return &x
	}
	return nil
}

// f64Field preserves fractional precision; no integer truncation.
func f64Field(m map[string]any, key string) *float64 {
	switch v := m[key].(type) {
	case float64:
		f := v
		return &f
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return &f
		}
	}
	return nil
}

func boolField(m map[string]any, key string) *bool {
	if v, ok := m[key].(bool); ok {
		b := v
		return &b
	}
	return nil
}

// jsonField re-serializes a nested value to a compact JSON string.
// Serialization failure yields nil, never a hard error.
func jsonField(m map[string]any, key string) *string {
	v, ok := m[key]
	if !ok || v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		log.Warn().Err(err).Str("field", key).Msg("sub-document serialization failed, storing null")
		return nil
	}
	s := string(b)
	if strings.TrimSpace(s) == "" || s == "null" {
		return nil
	}
	return &s
}

// objField is jsonField restricted to object values; scalars and arrays
// store null.
func objField(m map[string]any, key string) *string {
	if _, ok := m[key].(map[string]any); !ok {
		return nil
	}
	return jsonField(m, key)
}

func arrField(m map[string]any, key string) []map[string]any {
	raw, ok := m[key].([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(raw))
	for _, it := range raw {
		if obj, ok := it.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}

/********** property **********/

// NormalizeProperty converts one raw property payload into the canonical
// entity graph (without translations or reviews; those arrive separately).
// Child collections are built fresh; the merge step decides what they
// replace. UpdatedAt is stamped with the ingestion time on every call.
func NormalizeProperty(data map[string]any, now time.Time) *domain.Property {
	p := &domain.Property{UpdatedAt: now}

	if v := i64Field(data, "hotel_id"); v != nil {
		p.HotelID = *v
	}
	p.CupidID = i64Field(data, "cupid_id")
	p.Name = strField(data, "hotel_name")
	p.HotelType = strField(data, "hotel_type")
	p.HotelTypeID = intField(data, "hotel_type_id")
	p.Chain = strField(data, "chain")
	p.ChainID = intField(data, "chain_id")
	p.Latitude = f64Field(data, "latitude")
	p.Longitude = f64Field(data, "longitude")
	p.Phone = strField(data, "phone")
	p.Email = strField(data, "email")
	p.Fax = strField(data, "fax")
	p.AddressJSON = objField(data, "address")
	p.Stars = intField(data, "stars")
	p.Rating = f64Field(data, "rating")
	p.ReviewCount = intField(data, "review_count")
	p.PetsAllowed = boolField(data, "pets_allowed")
	p.ChildAllowed = boolField(data, "child_allowed")
	p.AirportCode = strField(data, "airport_code")
	p.GroupRoomMin = intField(data, "group_room_min")
	p.MainImageTh = strField(data, "main_image_th")
	p.CheckinJSON = jsonField(data, "checkin")
	p.Parking = strField(data, "parking")
	p.DescriptionHTML = textField(data, "description")
	p.MarkdownDescription = textField(data, "markdown_description")
	p.ImportantInfo = textField(data, "important_info")

	for _, ph := range arrField(data, "photos") {
		p.Photos = append(p.Photos, normalizePhoto(ph, p.HotelID))
	}
	for _, f := range arrField(data, "facilities") {
		p.Facilities = append(p.Facilities, domain.PropertyFacility{
			HotelID:      p.HotelID,
			FacilityID:   intField(f, "facility_id"),
			FacilityName: strField(f, "name"),
		})
	}
	for _, r := range arrField(data, "rooms") {
		p.Rooms = append(p.Rooms, normalizeRoom(r, p.HotelID))
	}
	for _, pol := range arrField(data, "policies") {
		p.Policies = append(p.Policies, domain.Policy{
			HotelID:     p.HotelID,
			PolicyType:  strField(pol, "policy_type"),
			Name:        strField(pol, "name"),
			Description: strField(pol, "description"),
		})
	}
	return p
}

func normalizePhoto(ph map[string]any, hotelID int64) domain.PropertyPhoto {
	return domain.PropertyPhoto{
		HotelID:          hotelID,
		URL:              strField(ph, "url"),
		HDURL:            strField(ph, "hd_url"),
		ImageDescription: strField(ph, "image_description"),
		ImageClass1:      strField(ph, "image_class1"),
		MainPhoto:        boolField(ph, "main_photo"),
		Score:            f64Field(ph, "score"),
		ClassID:          intField(ph, "class_id"),
		ClassOrder:       intField(ph, "class_order"),
	}
}

func normalizeRoom(rn map[string]any, hotelID int64) domain.Room {
	room := domain.Room{
		HotelID:        hotelID,
		RoomName:       strField(rn, "room_name"),
		Description:    strField(rn, "description"),
		RoomSizeSquare: f64Field(rn, "room_size_square"),
		RoomSizeUnit:   strField(rn, "room_size_unit"),
		MaxAdults:      intField(rn, "max_adults"),
		MaxChildren:    intField(rn, "max_children"),
		MaxOccupancy:   intField(rn, "max_occupancy"),
		BedRelation:    strField(rn, "bed_relation"),
		BedTypesJSON:   jsonField(rn, "bed_types"),
		ViewsJSON:      jsonField(rn, "views"),
	}
	if v := i64Field(rn, "id"); v != nil {
		room.ID = *v
	}
	for _, ph := range arrField(rn, "photos") {
		room.Photos = append(room.Photos, domain.RoomPhoto{
			RoomID:           room.ID,
			URL:              strField(ph, "url"),
			HDURL:            strField(ph, "hd_url"),
			ImageDescription: strField(ph, "image_description"),
			ImageClass1:      strField(ph, "image_class1"),
			MainPhoto:        boolField(ph, "main_photo"),
			Score:            f64Field(ph, "score"),
			ClassID:          intField(ph, "class_id"),
			ClassOrder:       intField(ph, "class_order"),
		})
	}
	for _, am := range arrField(rn, "room_amenities") {
		room.Amenities = append(room.Amenities, domain.RoomAmenity{
			RoomID:      room.ID,
			AmenitiesID: intField(am, "amenities_id"),
			Name:        strField(am, "name"),
			Sort:        intField(am, "sort"),
		})
	}
	return room
}

/********** translations **********/

func NormalizeTranslation(hotelID int64, lang string, data map[string]any, now time.Time) domain.PropertyTranslation {
	return domain.PropertyTranslation{
		HotelID:             hotelID,
		Lang:                lang,
		DescriptionHTML:     textField(data, "description"),
		MarkdownDescription: textField(data, "markdown_description"),
		FetchedAt:           now,
	}
}

/********** reviews **********/

func NormalizeReviews(hotelID int64, in []map[string]any, now time.Time) []domain.Review {
	out := make([]domain.Review, 0, len(in))
	for _, rn := range in {
		rv := domain.Review{
			HotelID:      hotelID,
			AverageScore: f64Field(rn, "average_score"),
			Country:      strField(rn, "country"),
			Type:         strField(rn, "type"),
			Name:         strField(rn, "name"),
			Headline:     strField(rn, "headline"),
			Language:     strField(rn, "language"),
			Pros:         strField(rn, "pros"),
			Cons:         strField(rn, "cons"),
			Source:       strField(rn, "source"),
			ReviewDate:   now,
		}
		// "YYYY-MM-DD HH:MM:SS" interpreted as UTC; unparsable dates keep
		// the ingestion timestamp (lossy, matches observed behavior).
		if ds, ok := rn["date"].(string); ok {
			if t, err := time.ParseInLocation(reviewDateLayout, ds, time.UTC); err == nil {
				rv.ReviewDate = t
			}
		}
		out = append(out, rv)
	}
	return out
}
