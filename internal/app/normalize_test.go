package app

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

var ingestTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestNormalizeProperty_BlankTextBecomesNil(t *testing.T) {
	p := NormalizeProperty(map[string]any{
		"hotel_id":   float64(42),
		"hotel_name": "   ",
		"phone":      "",
		"email":      "a@b.c",
		"chain":      "\t\n",
	}, ingestTime)

	if p.HotelID != 42 {
		t.Fatalf("hotel id: %d", p.HotelID)
	}
	if p.Name != nil || p.Phone != nil || p.Chain != nil {
		t.Fatalf("blank fields must normalize to nil: %+v", p)
	}
	if p.Email == nil || *p.Email != "a@b.c" {
		t.Fatalf("email: %v", p.Email)
	}
	if !p.UpdatedAt.Equal(ingestTime) {
		t.Fatalf("updatedAt: %v", p.UpdatedAt)
	}
}

func TestNormalizeProperty_LongTextTruncated(t *testing.T) {
	long := strings.Repeat("x", 10001)
	exact := strings.Repeat("y", 10000)
	p := NormalizeProperty(map[string]any{
		"hotel_id":             float64(1),
		"description":          long,
		"markdown_description": exact,
		"important_info":       "short",
	}, ingestTime)

	if p.DescriptionHTML == nil || len(*p.DescriptionHTML) != 10003 ||
		!strings.HasSuffix(*p.DescriptionHTML, "...") ||
		(*p.DescriptionHTML)[:10000] != long[:10000] {
		t.Fatalf("description not truncated with marker")
	}
	if p.MarkdownDescription == nil || *p.MarkdownDescription != exact {
		t.Fatalf("text at the cap must be stored verbatim")
	}
	if p.ImportantInfo == nil || *p.ImportantInfo != "short" {
		t.Fatalf("short text must be stored verbatim")
	}
}

func TestNormalizeProperty_MultiByteTextCountsCharacters(t *testing.T) {
	// 9000 characters but 18000 bytes; must be stored verbatim
	under := strings.Repeat("é", 9000)
	over := strings.Repeat("é", 10001)
	p := NormalizeProperty(map[string]any{
		"hotel_id":             float64(1),
		"description":          under,
		"markdown_description": over,
	}, ingestTime)

	if p.DescriptionHTML == nil || *p.DescriptionHTML != under {
		t.Fatalf("text under the character cap must be stored verbatim")
	}
	got := p.MarkdownDescription
	if got == nil || !strings.HasSuffix(*got, "...") {
		t.Fatalf("over-cap text must carry the marker: %v", got)
	}
	if n := utf8.RuneCountInString(*got); n != 10003 {
		t.Fatalf("truncation must count characters, got %d", n)
	}
	if !utf8.ValidString(*got) {
		t.Fatal("truncation must never split a rune")
	}
	if !strings.HasPrefix(*got, strings.Repeat("é", 100)) {
		t.Fatalf("truncated text must keep the original prefix")
	}
}

func TestNormalizeProperty_NonObjectAddressBecomesNil(t *testing.T) {
	p := NormalizeProperty(map[string]any{
		"hotel_id": float64(1),
		"address":  "123 Main St",
		"checkin":  "anytime",
	}, ingestTime)

	if p.AddressJSON != nil {
		t.Fatalf("scalar address must store null: %v", *p.AddressJSON)
	}
	// checkin has no object restriction; scalars serialize as-is
	if p.CheckinJSON == nil || *p.CheckinJSON != `"anytime"` {
		t.Fatalf("checkin: %v", p.CheckinJSON)
	}
}

func TestNormalizeProperty_SubDocumentsCanonicalized(t *testing.T) {
	p := NormalizeProperty(map[string]any{
		"hotel_id": float64(1),
		"address":  map[string]any{"city": "Paris", "zip": "75001"},
		"checkin":  map[string]any{"from": "14:00"},
	}, ingestTime)

	if p.AddressJSON == nil || *p.AddressJSON != `{"city":"Paris","zip":"75001"}` {
		t.Fatalf("address: %v", p.AddressJSON)
	}
	if p.CheckinJSON == nil || *p.CheckinJSON != `{"from":"14:00"}` {
		t.Fatalf("checkin: %v", p.CheckinJSON)
	}

	// absent sub-documents stay nil
	p2 := NormalizeProperty(map[string]any{"hotel_id": float64(1)}, ingestTime)
	if p2.AddressJSON != nil || p2.CheckinJSON != nil {
		t.Fatalf("absent sub-documents must be nil")
	}
}

func TestNormalizeProperty_PhotoScoresKeepFractions(t *testing.T) {
	p := NormalizeProperty(map[string]any{
		"hotel_id": float64(1),
		"photos": []any{
			map[string]any{"url": "u1", "score": 4.7},
		},
		"rooms": []any{
			map[string]any{
				"id": float64(9),
				"photos": []any{
					map[string]any{"url": "u2", "score": 3.25},
				},
				"bed_types": []any{map[string]any{"bed_type": "double"}},
				"views":     []any{"sea"},
				"room_amenities": []any{
					map[string]any{"amenities_id": float64(5), "name": "wifi", "sort": float64(1)},
				},
			},
		},
	}, ingestTime)

	if len(p.Photos) != 1 || p.Photos[0].Score == nil || *p.Photos[0].Score != 4.7 {
		t.Fatalf("property photo score truncated: %+v", p.Photos)
	}
	if len(p.Rooms) != 1 {
		t.Fatalf("rooms: %+v", p.Rooms)
	}
	room := p.Rooms[0]
	if room.ID != 9 {
		t.Fatalf("room keeps its upstream id, got %d", room.ID)
	}
	if len(room.Photos) != 1 || room.Photos[0].Score == nil || *room.Photos[0].Score != 3.25 {
		t.Fatalf("room photo score truncated: %+v", room.Photos)
	}
	if room.BedTypesJSON == nil || *room.BedTypesJSON != `[{"bed_type":"double"}]` {
		t.Fatalf("bed_types: %v", room.BedTypesJSON)
	}
	if room.ViewsJSON == nil || *room.ViewsJSON != `["sea"]` {
		t.Fatalf("views: %v", room.ViewsJSON)
	}
	if len(room.Amenities) != 1 || room.Amenities[0].Name == nil || *room.Amenities[0].Name != "wifi" {
		t.Fatalf("amenities: %+v", room.Amenities)
	}
}

func TestNormalizeReviews_DateParsingAndFallback(t *testing.T) {
	rs := NormalizeReviews(1, []map[string]any{
		{"average_score": 8.5, "date": "2024-06-01 10:30:00", "name": "Ana"},
		{"average_score": 6.0, "date": "not-a-date"},
		{"average_score": 5.0},
	}, ingestTime)

	if len(rs) != 3 {
		t.Fatalf("reviews: %d", len(rs))
	}
	want := time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)
	if !rs[0].ReviewDate.Equal(want) {
		t.Fatalf("parsed date: %v", rs[0].ReviewDate)
	}
	// unparsable or absent dates fall back to the ingestion timestamp
	if !rs[1].ReviewDate.Equal(ingestTime) || !rs[2].ReviewDate.Equal(ingestTime) {
		t.Fatalf("fallback dates: %v / %v", rs[1].ReviewDate, rs[2].ReviewDate)
	}
	if rs[0].AverageScore == nil || *rs[0].AverageScore != 8.5 {
		t.Fatalf("score: %v", rs[0].AverageScore)
	}
}

func TestNormalizeTranslation(t *testing.T) {
	tr := NormalizeTranslation(7, "fr", map[string]any{
		"description":          "Bonjour",
		"markdown_description": "  ",
	}, ingestTime)

	if tr.HotelID != 7 || tr.Lang != "fr" {
		t.Fatalf("identity: %+v", tr)
	}
	if tr.DescriptionHTML == nil || *tr.DescriptionHTML != "Bonjour" {
		t.Fatalf("description: %v", tr.DescriptionHTML)
	}
	if tr.MarkdownDescription != nil {
		t.Fatalf("blank markdown must be nil")
	}
	if !tr.FetchedAt.Equal(ingestTime) {
		t.Fatalf("fetchedAt: %v", tr.FetchedAt)
	}
}
