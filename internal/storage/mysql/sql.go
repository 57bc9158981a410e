package mysql

// created_at is written on insert only; updates keep the original value.
const upsertPropertySQL = `
INSERT INTO property
  (hotel_id, cupid_id, name, hotel_type, hotel_type_id, chain, chain_id,
   latitude, longitude, phone, email, fax, address_json, stars, rating,
   review_count, pets_allowed, child_allowed, airport_code, group_room_min,
   main_image_th, checkin_json, parking, description_html,
   markdown_description, important_info, created_at, updated_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  cupid_id             = VALUES(cupid_id),
  name                 = VALUES(name),
  hotel_type           = VALUES(hotel_type),
  hotel_type_id        = VALUES(hotel_type_id),
  chain                = VALUES(chain),
  chain_id             = VALUES(chain_id),
  latitude             = VALUES(latitude),
  longitude            = VALUES(longitude),
  phone                = VALUES(phone),
  email                = VALUES(email),
  fax                  = VALUES(fax),
  address_json         = VALUES(address_json),
  stars                = VALUES(stars),
  rating               = VALUES(rating),
  review_count         = VALUES(review_count),
  pets_allowed         = VALUES(pets_allowed),
  child_allowed        = VALUES(child_allowed),
  airport_code         = VALUES(airport_code),
  group_room_min       = VALUES(group_room_min),
  main_image_th        = VALUES(main_image_th),
  checkin_json         = VALUES(checkin_json),
  parking              = VALUES(parking),
  description_html     = VALUES(description_html),
  markdown_description = VALUES(markdown_description),
  important_info       = VALUES(important_info),
  updated_at           = VALUES(updated_at)
`

// Child collections are replaced wholesale: delete rows for the hotel, then
// insert the freshly normalized set. Order matters for the room subtree.
const (
	deleteRoomPhotosSQL = `
DELETE rp FROM room_photo rp JOIN room r ON rp.room_id = r.id WHERE r.hotel_id = ?`
	deleteRoomAmenitiesSQL = `
DELETE ra FROM room_amenity ra JOIN room r ON ra.room_id = r.id WHERE r.hotel_id = ?`
	deleteRoomsSQL      = `DELETE FROM room WHERE hotel_id = ?`
	deletePhotosSQL     = `DELETE FROM property_photo WHERE hotel_id = ?`
	deleteFacilitiesSQL = `DELETE FROM property_facility WHERE hotel_id = ?`
	deletePoliciesSQL   = `DELETE FROM policy WHERE hotel_id = ?`
	deleteReviewsSQL    = `DELETE FROM review WHERE hotel_id = ?`
)

const (
	insertPhotoSQL = `
INSERT INTO property_photo
  (hotel_id, url, hd_url, image_description, image_class1, main_photo, score, class_id, class_order)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	insertFacilitySQL = `
INSERT INTO property_facility (hotel_id, facility_id, facility_name) VALUES (?, ?, ?)`

	insertRoomSQL = `
INSERT INTO room
  (id, hotel_id, room_name, description, room_size_square, room_size_unit,
   max_adults, max_children, max_occupancy, bed_relation, bed_types_json, views_json)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	insertRoomPhotoSQL = `
INSERT INTO room_photo
  (room_id, url, hd_url, image_description, image_class1, main_photo, score, class_id, class_order)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	insertRoomAmenitySQL = `
INSERT INTO room_amenity (room_id, amenities_id, name, sort) VALUES (?, ?, ?, ?)`

	insertPolicySQL = `
INSERT INTO policy (hotel_id, policy_type, name, description) VALUES (?, ?, ?, ?)`

	insertReviewSQL = `
INSERT INTO review
  (hotel_id, average_score, country, type, name, review_date, headline, language, pros, cons, source)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
)

// Translations are the one collection updated in place: unique (hotel_id,
// lang) row, text and fetched_at refreshed on re-ingestion.
const upsertTranslationSQL = `
INSERT INTO property_translation
  (hotel_id, lang, description_html, markdown_description, fetched_at)
VALUES (?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  description_html     = VALUES(description_html),
  markdown_description = VALUES(markdown_description),
  fetched_at           = VALUES(fetched_at)
`

const propertyColumns = `
  hotel_id, cupid_id, name, hotel_type, hotel_type_id, chain, chain_id,
  latitude, longitude, phone, email, fax, address_json, stars, rating,
  review_count, pets_allowed, child_allowed, airport_code, group_room_min,
  main_image_th, checkin_json, parking, description_html,
  markdown_description, important_info, created_at, updated_at`

const getPropertySQL = `SELECT` + propertyColumns + ` FROM property WHERE hotel_id = ?`

const listPropertiesSQL = `SELECT` + propertyColumns + ` FROM property ORDER BY hotel_id LIMIT ? OFFSET ?`

const searchByNameSQL = `SELECT` + propertyColumns + `
FROM property
WHERE name LIKE ?
ORDER BY rating DESC, hotel_id`

// City lives inside the address sub-document.
const searchByNameAndCitySQL = `SELECT` + propertyColumns + `
FROM property
WHERE name LIKE ?
  AND JSON_UNQUOTE(JSON_EXTRACT(address_json, '$.city')) LIKE ?
ORDER BY rating DESC, hotel_id`

const reviewColumns = `
  id, hotel_id, average_score, country, type, name, review_date, headline, language, pros, cons, source`

const (
	reviewsByHotelSQL = `SELECT` + reviewColumns + `
FROM review WHERE hotel_id = ? ORDER BY review_date DESC, id DESC`

	topReviewsSQL = `SELECT` + reviewColumns + `
FROM review WHERE hotel_id = ? ORDER BY average_score DESC, review_date DESC LIMIT ?`

	recentReviewsSQL = `SELECT` + reviewColumns + `
FROM review WHERE hotel_id = ? ORDER BY review_date DESC, id DESC LIMIT ?`

	pagedReviewsSQL = `SELECT` + reviewColumns + `
FROM review WHERE hotel_id = ? ORDER BY review_date DESC, id DESC LIMIT ? OFFSET ?`
)

const translationColumns = `
  id, hotel_id, lang, description_html, markdown_description, fetched_at`

const (
	translationsByHotelSQL = `SELECT` + translationColumns + `
FROM property_translation WHERE hotel_id = ? ORDER BY lang`

	translationByLangSQL = `SELECT` + translationColumns + `
FROM property_translation WHERE hotel_id = ? AND lang = ?`

	recentTranslationsSQL = `SELECT` + translationColumns + `
FROM property_translation WHERE hotel_id = ? ORDER BY fetched_at DESC`
)

const (
	photosByHotelSQL = `
SELECT id, hotel_id, url, hd_url, image_description, image_class1, main_photo, score, class_id, class_order
FROM property_photo WHERE hotel_id = ? ORDER BY id`

	facilitiesByHotelSQL = `
SELECT id, hotel_id, facility_id, facility_name FROM property_facility WHERE hotel_id = ? ORDER BY id`

	roomsByHotelSQL = `
SELECT id, hotel_id, room_name, description, room_size_square, room_size_unit,
       max_adults, max_children, max_occupancy, bed_relation, bed_types_json, views_json
FROM room WHERE hotel_id = ? ORDER BY id`

	roomPhotosByHotelSQL = `
SELECT rp.id, rp.room_id, rp.url, rp.hd_url, rp.image_description, rp.image_class1,
       rp.main_photo, rp.score, rp.class_id, rp.class_order
FROM room_photo rp JOIN room r ON rp.room_id = r.id
WHERE r.hotel_id = ? ORDER BY rp.id`

	roomAmenitiesByHotelSQL = `
SELECT ra.id, ra.room_id, ra.amenities_id, ra.name, ra.sort
FROM room_amenity ra JOIN room r ON ra.room_id = r.id
WHERE r.hotel_id = ? ORDER BY ra.id`

	policiesByHotelSQL = `
SELECT id, hotel_id, policy_type, name, description FROM policy WHERE hotel_id = ? ORDER BY id`
)
