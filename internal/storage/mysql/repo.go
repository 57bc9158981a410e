package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mohamine831/cupid-nuitee/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

/********** arg / scan helpers **********/

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt64(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}
func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
func valBool(p *bool) any {
	if p == nil {
		return nil
	}
	return *p
}

func strPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
func int64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	i := v.Int64
	return &i
}
func f64Ptr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
func boolPtr(v sql.NullBool) *bool {
	if !v.Valid {
		return nil
	}
	b := v.Bool
	return &b
}

/********** write path **********/

// Save commits the whole graph in one transaction: property upsert, child
// collections replaced wholesale, translations upserted per (hotel_id, lang).
func (r *Repo) Save(ctx context.Context, p *domain.Property) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, upsertPropertySQL,
		p.HotelID,
		valInt64(p.CupidID),
		valStr(p.Name),
		valStr(p.HotelType),
		valInt(p.HotelTypeID),
		valStr(p.Chain),
		valInt(p.ChainID),
		valF64(p.Latitude),
		valF64(p.Longitude),
		valStr(p.Phone),
		valStr(p.Email),
		valStr(p.Fax),
		valStr(p.AddressJSON),
		valInt(p.Stars),
		valF64(p.Rating),
		valInt(p.ReviewCount),
		valBool(p.PetsAllowed),
		valBool(p.ChildAllowed),
		valStr(p.AirportCode),
		valInt(p.GroupRoomMin),
		valStr(p.MainImageTh),
		valStr(p.CheckinJSON),
		valStr(p.Parking),
		valStr(p.DescriptionHTML),
		valStr(p.MarkdownDescription),
		valStr(p.ImportantInfo),
		p.CreatedAt,
		p.UpdatedAt,
	); err != nil {
		return fmt.Errorf("upsert property: %w", err)
	}

	// grandchildren first, then rooms, then the flat collections
	for _, q := range []string{
		deleteRoomPhotosSQL, deleteRoomAmenitiesSQL, deleteRoomsSQL,
		deletePhotosSQL, deleteFacilitiesSQL, deletePoliciesSQL, deleteReviewsSQL,
	} {
		if _, err = tx.ExecContext(ctx, q, p.HotelID); err != nil {
			return fmt.Errorf("clear children: %w", err)
		}
	}

	for _, ph := range p.Photos {
		if _, err = tx.ExecContext(ctx, insertPhotoSQL,
			p.HotelID, valStr(ph.URL), valStr(ph.HDURL), valStr(ph.ImageDescription),
			valStr(ph.ImageClass1), valBool(ph.MainPhoto), valF64(ph.Score),
			valInt(ph.ClassID), valInt(ph.ClassOrder),
		); err != nil {
			return fmt.Errorf("insert photo: %w", err)
		}
	}
	for _, f := range p.Facilities {
		if _, err = tx.ExecContext(ctx, insertFacilitySQL,
			p.HotelID, valInt(f.FacilityID), valStr(f.FacilityName),
		); err != nil {
			return fmt.Errorf("insert facility: %w", err)
		}
	}
	for _, rm := range p.Rooms {
		if _, err = tx.ExecContext(ctx, insertRoomSQL,
			rm.ID, p.HotelID, valStr(rm.RoomName), valStr(rm.Description),
			valF64(rm.RoomSizeSquare), valStr(rm.RoomSizeUnit),
			valInt(rm.MaxAdults), valInt(rm.MaxChildren), valInt(rm.MaxOccupancy),
			valStr(rm.BedRelation), valStr(rm.BedTypesJSON), valStr(rm.ViewsJSON),
		); err != nil {
			return fmt.Errorf("insert room %d: %w", rm.ID, err)
		}
		for _, ph := range rm.Photos {
			if _, err = tx.ExecContext(ctx, insertRoomPhotoSQL,
				rm.ID, valStr(ph.URL), valStr(ph.HDURL), valStr(ph.ImageDescription),
				valStr(ph.ImageClass1), valBool(ph.MainPhoto), valF64(ph.Score),
				valInt(ph.ClassID), valInt(ph.ClassOrder),
			); err != nil {
				return fmt.Errorf("insert room photo: %w", err)
			}
		}
		for _, am := range rm.Amenities {
			if _, err = tx.ExecContext(ctx, insertRoomAmenitySQL,
				rm.ID, valInt(am.AmenitiesID), valStr(am.Name), valInt(am.Sort),
			); err != nil {
				return fmt.Errorf("insert room amenity: %w", err)
			}
		}
	}
	for _, pol := range p.Policies {
		if _, err = tx.ExecContext(ctx, insertPolicySQL,
			p.HotelID, valStr(pol.PolicyType), valStr(pol.Name), valStr(pol.Description),
		); err != nil {
			return fmt.Errorf("insert policy: %w", err)
		}
	}
	for _, rv := range p.Reviews {
		if _, err = tx.ExecContext(ctx, insertReviewSQL,
			p.HotelID, valF64(rv.AverageScore), valStr(rv.Country), valStr(rv.Type),
			valStr(rv.Name), rv.ReviewDate, valStr(rv.Headline), valStr(rv.Language),
			valStr(rv.Pros), valStr(rv.Cons), valStr(rv.Source),
		); err != nil {
			return fmt.Errorf("insert review: %w", err)
		}
	}
	for _, tr := range p.Translations {
		if _, err = tx.ExecContext(ctx, upsertTranslationSQL,
			p.HotelID, tr.Lang, valStr(tr.DescriptionHTML),
			valStr(tr.MarkdownDescription), tr.FetchedAt,
		); err != nil {
			return fmt.Errorf("upsert translation %s: %w", tr.Lang, err)
		}
	}

	return tx.Commit()
}

/********** read path **********/

type rowScanner interface{ Scan(dest ...any) error }

func scanProperty(row rowScanner) (domain.Property, error) {
	var p domain.Property
	var (
		cupidID                                sql.NullInt64
		name, hotelType, chain                 sql.NullString
		hotelTypeID, chainID                   sql.NullInt64
		lat, lon, rating                       sql.NullFloat64
		phone, email, fax, addressJSON         sql.NullString
		stars, reviewCount, groupRoomMin       sql.NullInt64
		petsAllowed, childAllowed              sql.NullBool
		airportCode, mainImageTh, checkinJSON sql.NullString
		parking, descHTML, markdownDesc       sql.NullString
		importantInfo                         sql.NullString
	)
	err := row.Scan(
		&p.HotelID, &cupidID, &name, &hotelType, &hotelTypeID, &chain, &chainID,
		&lat, &lon, &phone, &email, &fax, &addressJSON, &stars, &rating,
		&reviewCount, &petsAllowed, &childAllowed, &airportCode, &groupRoomMin,
		&mainImageTh, &checkinJSON, &parking, &descHTML, &markdownDesc,
		&importantInfo, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return domain.Property{}, err
	}
	p.CupidID = int64Ptr(cupidID)
	p.Name = strPtr(name)
	p.HotelType = strPtr(hotelType)
	p.HotelTypeID = intPtr(hotelTypeID)
	p.Chain = strPtr(chain)
	p.ChainID = intPtr(chainID)
	p.Latitude = f64Ptr(lat)
	p.Longitude = f64Ptr(lon)
	p.Phone = strPtr(phone)
	p.Email = strPtr(email)
	p.Fax = strPtr(fax)
	p.AddressJSON = strPtr(addressJSON)
	p.Stars = intPtr(stars)
	p.Rating = f64Ptr(rating)
	p.ReviewCount = intPtr(reviewCount)
	p.PetsAllowed = boolPtr(petsAllowed)
	p.ChildAllowed = boolPtr(childAllowed)
	p.AirportCode = strPtr(airportCode)
	p.GroupRoomMin = intPtr(groupRoomMin)
	p.MainImageTh = strPtr(mainImageTh)
	p.CheckinJSON = strPtr(checkinJSON)
	p.Parking = strPtr(parking)
	p.DescriptionHTML = strPtr(descHTML)
	p.MarkdownDescription = strPtr(markdownDesc)
	p.ImportantInfo = strPtr(importantInfo)
	return p, nil
}

// FindByID loads the full graph for one hotel.
func (r *Repo) FindByID(ctx context.Context, hotelID int64) (*domain.Property, error) {
	p, err := scanProperty(r.db.QueryRowContext(ctx, getPropertySQL, hotelID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if p.Photos, err = r.photosByHotel(ctx, hotelID); err != nil {
		return nil, err
	}
	if p.Facilities, err = r.facilitiesByHotel(ctx, hotelID); err != nil {
		return nil, err
	}
	if p.Rooms, err = r.roomsByHotel(ctx, hotelID); err != nil {
		return nil, err
	}
	if p.Policies, err = r.policiesByHotel(ctx, hotelID); err != nil {
		return nil, err
	}
	if p.Reviews, err = r.ReviewsByHotel(ctx, hotelID); err != nil {
		return nil, err
	}
	if p.Translations, err = r.TranslationsByHotel(ctx, hotelID); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) queryProperties(ctx context.Context, query string, args ...any) ([]domain.Property, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) ListAll(ctx context.Context, page, size int) ([]domain.Property, error) {
	return r.queryProperties(ctx, listPropertiesSQL, size, page*size)
}

func (r *Repo) SearchByName(ctx context.Context, name string) ([]domain.Property, error) {
	return r.queryProperties(ctx, searchByNameSQL, "%"+name+"%")
}

func (r *Repo) SearchByNameAndCity(ctx context.Context, name, city string) ([]domain.Property, error) {
	return r.queryProperties(ctx, searchByNameAndCitySQL, "%"+name+"%", "%"+city+"%")
}

/********** children **********/

func (r *Repo) photosByHotel(ctx context.Context, hotelID int64) ([]domain.PropertyPhoto, error) {
	rows, err := r.db.QueryContext(ctx, photosByHotelSQL, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PropertyPhoto
	for rows.Next() {
		var ph domain.PropertyPhoto
		var url, hd, desc, cls sql.NullString
		var main sql.NullBool
		var score sql.NullFloat64
		var clsID, clsOrder sql.NullInt64
		if err := rows.Scan(&ph.ID, &ph.HotelID, &url, &hd, &desc, &cls, &main, &score, &clsID, &clsOrder); err != nil {
			return nil, err
		}
		ph.URL, ph.HDURL, ph.ImageDescription, ph.ImageClass1 = strPtr(url), strPtr(hd), strPtr(desc), strPtr(cls)
		ph.MainPhoto, ph.Score = boolPtr(main), f64Ptr(score)
		ph.ClassID, ph.ClassOrder = intPtr(clsID), intPtr(clsOrder)
		out = append(out, ph)
	}
	return out, rows.Err()
}

func (r *Repo) facilitiesByHotel(ctx context.Context, hotelID int64) ([]domain.PropertyFacility, error) {
	rows, err := r.db.QueryContext(ctx, facilitiesByHotelSQL, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PropertyFacility
	for rows.Next() {
		var f domain.PropertyFacility
		var fid sql.NullInt64
		var name sql.NullString
		if err := rows.Scan(&f.ID, &f.HotelID, &fid, &name); err != nil {
			return nil, err
		}
		f.FacilityID, f.FacilityName = intPtr(fid), strPtr(name)
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *Repo) roomsByHotel(ctx context.Context, hotelID int64) ([]domain.Room, error) {
	rows, err := r.db.QueryContext(ctx, roomsByHotelSQL, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Room
	for rows.Next() {
		var rm domain.Room
		var name, desc, sizeUnit, bedRel, bedTypes, views sql.NullString
		var size sql.NullFloat64
		var maxA, maxC, maxO sql.NullInt64
		if err := rows.Scan(&rm.ID, &rm.HotelID, &name, &desc, &size, &sizeUnit,
			&maxA, &maxC, &maxO, &bedRel, &bedTypes, &views); err != nil {
			return nil, err
		}
		rm.RoomName, rm.Description = strPtr(name), strPtr(desc)
		rm.RoomSizeSquare, rm.RoomSizeUnit = f64Ptr(size), strPtr(sizeUnit)
		rm.MaxAdults, rm.MaxChildren, rm.MaxOccupancy = intPtr(maxA), intPtr(maxC), intPtr(maxO)
		rm.BedRelation, rm.BedTypesJSON, rm.ViewsJSON = strPtr(bedRel), strPtr(bedTypes), strPtr(views)
		out = append(out, rm)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	byID := make(map[int64]*domain.Room, len(out))
	for i := range out {
		byID[out[i].ID] = &out[i]
	}

	prows, err := r.db.QueryContext(ctx, roomPhotosByHotelSQL, hotelID)
	if err != nil {
		return nil, err
	}
	defer prows.Close()
	for prows.Next() {
		var ph domain.RoomPhoto
		var url, hd, desc, cls sql.NullString
		var main sql.NullBool
		var score sql.NullFloat64
		var clsID, clsOrder sql.NullInt64
		if err := prows.Scan(&ph.ID, &ph.RoomID, &url, &hd, &desc, &cls, &main, &score, &clsID, &clsOrder); err != nil {
			return nil, err
		}
		ph.URL, ph.HDURL, ph.ImageDescription, ph.ImageClass1 = strPtr(url), strPtr(hd), strPtr(desc), strPtr(cls)
		ph.MainPhoto, ph.Score = boolPtr(main), f64Ptr(score)
		ph.ClassID, ph.ClassOrder = intPtr(clsID), intPtr(clsOrder)
		if rm, ok := byID[ph.RoomID]; ok {
			rm.Photos = append(rm.Photos, ph)
		}
	}
	if err := prows.Err(); err != nil {
		return nil, err
	}

	arows, err := r.db.QueryContext(ctx, roomAmenitiesByHotelSQL, hotelID)
	if err != nil {
		return nil, err
	}
	defer arows.Close()
	for arows.Next() {
		var am domain.RoomAmenity
		var aid, sort sql.NullInt64
		var name sql.NullString
		if err := arows.Scan(&am.ID, &am.RoomID, &aid, &name, &sort); err != nil {
			return nil, err
		}
		am.AmenitiesID, am.Name, am.Sort = intPtr(aid), strPtr(name), intPtr(sort)
		if rm, ok := byID[am.RoomID]; ok {
			rm.Amenities = append(rm.Amenities, am)
		}
	}
	return out, arows.Err()
}

func (r *Repo) policiesByHotel(ctx context.Context, hotelID int64) ([]domain.Policy, error) {
	rows, err := r.db.QueryContext(ctx, policiesByHotelSQL, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Policy
	for rows.Next() {
		var p domain.Policy
		var ptype, name, desc sql.NullString
		if err := rows.Scan(&p.ID, &p.HotelID, &ptype, &name, &desc); err != nil {
			return nil, err
		}
		p.PolicyType, p.Name, p.Description = strPtr(ptype), strPtr(name), strPtr(desc)
		out = append(out, p)
	}
	return out, rows.Err()
}

/********** reviews **********/

func (r *Repo) queryReviews(ctx context.Context, query string, args ...any) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		var rv domain.Review
		var score sql.NullFloat64
		var country, rtype, name, headline, language, pros, cons, source sql.NullString
		if err := rows.Scan(&rv.ID, &rv.HotelID, &score, &country, &rtype, &name,
			&rv.ReviewDate, &headline, &language, &pros, &cons, &source); err != nil {
			return nil, err
		}
		rv.AverageScore = f64Ptr(score)
		rv.Country, rv.Type, rv.Name = strPtr(country), strPtr(rtype), strPtr(name)
		rv.Headline, rv.Language = strPtr(headline), strPtr(language)
		rv.Pros, rv.Cons, rv.Source = strPtr(pros), strPtr(cons), strPtr(source)
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *Repo) ReviewsByHotel(ctx context.Context, hotelID int64) ([]domain.Review, error) {
	return r.queryReviews(ctx, reviewsByHotelSQL, hotelID)
}

func (r *Repo) TopReviewsByHotel(ctx context.Context, hotelID int64, limit int) ([]domain.Review, error) {
	return r.queryReviews(ctx, topReviewsSQL, hotelID, limit)
}

func (r *Repo) RecentReviewsByHotel(ctx context.Context, hotelID int64, limit int) ([]domain.Review, error) {
	return r.queryReviews(ctx, recentReviewsSQL, hotelID, limit)
}

func (r *Repo) ReviewsByHotelPaged(ctx context.Context, hotelID int64, page, size int) ([]domain.Review, error) {
	return r.queryReviews(ctx, pagedReviewsSQL, hotelID, size, page*size)
}

/********** translations **********/

func scanTranslation(row rowScanner) (domain.PropertyTranslation, error) {
	var tr domain.PropertyTranslation
	var desc, markdown sql.NullString
	if err := row.Scan(&tr.ID, &tr.HotelID, &tr.Lang, &desc, &markdown, &tr.FetchedAt); err != nil {
		return domain.PropertyTranslation{}, err
	}
	tr.DescriptionHTML, tr.MarkdownDescription = strPtr(desc), strPtr(markdown)
	return tr, nil
}

func (r *Repo) FindTranslation(ctx context.Context, hotelID int64, lang string) (*domain.PropertyTranslation, error) {
	tr, err := scanTranslation(r.db.QueryRowContext(ctx, translationByLangSQL, hotelID, lang))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &tr, nil
}

func (r *Repo) queryTranslations(ctx context.Context, query string, args ...any) ([]domain.PropertyTranslation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PropertyTranslation
	for rows.Next() {
		tr, err := scanTranslation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tr)
	}
	return out, rows.Err()
}

func (r *Repo) TranslationsByHotel(ctx context.Context, hotelID int64) ([]domain.PropertyTranslation, error) {
	return r.queryTranslations(ctx, translationsByHotelSQL, hotelID)
}

func (r *Repo) RecentTranslationsByHotel(ctx context.Context, hotelID int64) ([]domain.PropertyTranslation, error) {
	return r.queryTranslations(ctx, recentTranslationsSQL, hotelID)
}
