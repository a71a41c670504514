package mysql

// -----------------------------------------------------------------------------
// PROFILES
// -----------------------------------------------------------------------------

const profileCols = `p.id, p.first_name, p.middle_name, p.last_name, p.email, p.password_hash,
  p.birth_date, p.gender, p.nationalities, p.passports, p.soft_delete, p.created_at`

const insertProfileSQL = `
INSERT INTO profile
  (first_name, middle_name, last_name, email, password_hash, birth_date, gender, nationalities, passports)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// An empty password keeps the stored hash.
const updateProfileSQL = `
UPDATE profile SET
  first_name    = ?,
  middle_name   = ?,
  last_name     = ?,
  email         = ?,
  password_hash = COALESCE(NULLIF(?, ''), password_hash),
  birth_date    = ?,
  gender        = ?,
  nationalities = ?,
  passports     = ?
WHERE id = ?
`

const insertProfileTypeSQL = `INSERT IGNORE INTO profile_traveller_type (profile_id, traveller_type_id) VALUES (?, ?)`

const deleteProfileTypesSQL = `DELETE FROM profile_traveller_type WHERE profile_id = ?`

const getProfileSQL = `SELECT ` + profileCols + ` FROM profile p WHERE p.id = ?`

const getProfileByEmailSQL = `SELECT ` + profileCols + ` FROM profile p WHERE p.email = ?`

const listProfilesSQL = `
SELECT ` + profileCols + `
FROM profile p
WHERE p.soft_delete = 0
ORDER BY p.id
LIMIT ? OFFSET ?
`

// -----------------------------------------------------------------------------
// DESTINATIONS
// -----------------------------------------------------------------------------

const destinationCols = `d.id, d.profile_id, d.name, d.type, d.country, d.district,
  d.latitude, d.longitude, d.is_public, d.soft_delete`

const insertDestinationSQL = `
INSERT INTO destination
  (profile_id, name, type, country, district, latitude, longitude, is_public)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?)
`

const updateDestinationSQL = `
UPDATE destination SET
  profile_id = ?,
  name       = ?,
  type       = ?,
  country    = ?,
  district   = ?,
  latitude   = ?,
  longitude  = ?,
  is_public  = ?
WHERE id = ?
`

const insertDestinationTypeSQL = `INSERT IGNORE INTO destination_traveller_type (destination_id, traveller_type_id) VALUES (?, ?)`

const deleteDestinationTypeSQL = `DELETE FROM destination_traveller_type WHERE destination_id = ? AND traveller_type_id = ?`

const getDestinationSQL = `SELECT ` + destinationCols + ` FROM destination d WHERE d.id = ?`

const followedDestinationsSQL = `
SELECT ` + destinationCols + `
FROM destination d
JOIN follow_destination f ON f.destination_id = d.id
WHERE f.profile_id = ? AND d.soft_delete = 0
ORDER BY d.id
`

// -----------------------------------------------------------------------------
// TRIPS
// -----------------------------------------------------------------------------

const insertTripDestinationSQL = `
INSERT INTO trip_destination
  (trip_id, destination_id, list_order, arrival_date, departure_date)
VALUES
  (?, ?, ?, ?, ?)
`

const tripStopsPrefix = `
SELECT id, trip_id, destination_id, list_order, arrival_date, departure_date
FROM trip_destination
WHERE trip_id IN (`

const stopsOfTripsVisitingSQL = `
SELECT id, trip_id, destination_id, departure_date
FROM trip_destination
WHERE trip_id IN (SELECT trip_id FROM trip_destination WHERE destination_id = ?)
ORDER BY trip_id, list_order`

// -----------------------------------------------------------------------------
// ARTISTS
// -----------------------------------------------------------------------------

const artistCols = `a.id, a.name, a.biography, a.facebook_link, a.instagram_link, a.spotify_link,
  a.twitter_link, a.website_link, a.members, a.verified, a.soft_delete`

const insertArtistSQL = `
INSERT INTO artist
  (name, biography, facebook_link, instagram_link, spotify_link, twitter_link, website_link, members)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?)
`

const updateArtistSQL = `
UPDATE artist SET
  name           = ?,
  biography      = ?,
  facebook_link  = ?,
  instagram_link = ?,
  spotify_link   = ?,
  twitter_link   = ?,
  website_link   = ?,
  members        = ?
WHERE id = ?
`

// -----------------------------------------------------------------------------
// TREASURE HUNTS
// -----------------------------------------------------------------------------

const huntCols = `h.id, h.destination_id, h.profile_id, h.riddle, h.start_date, h.end_date, h.soft_delete`

// -----------------------------------------------------------------------------
// CHANGE REQUESTS
// -----------------------------------------------------------------------------

const pendingChangesSQL = `
SELECT c.id, c.request_id, c.traveller_type_id, c.action, r.destination_id,
  COALESCE(p.email, ''), t.name,
  ` + destinationCols + `
FROM destination_changes c
JOIN destination_request r ON r.id = c.request_id
JOIN destination d ON d.id = r.destination_id
JOIN traveller_type t ON t.id = c.traveller_type_id
LEFT JOIN profile p ON p.id = r.profile_id
ORDER BY c.id
`
