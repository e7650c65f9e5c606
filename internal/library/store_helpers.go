package library

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const itemColumns = "id, parent_id, kind, name, overview, original_language, runtime_minutes, premiere_date, end_date, community_rating, official_rating, index_number, path, genres_json, tags_json, studios_json, production_locations_json, content_ratings_json, people_json, images_json, provider_ids_json, locked_fields_json, is_virtual, last_refreshed_at, created_at, updated_at"

func scanItem(scanner interface{ Scan(dest ...any) error }) (*Item, error) {
	var (
		id               string
		parentID         sql.NullString
		kind             string
		name             sql.NullString
		overview         sql.NullString
		originalLanguage sql.NullString
		runtimeMinutes   sql.NullInt64
		premiereRaw      sql.NullString
		endRaw           sql.NullString
		communityRating  sql.NullFloat64
		officialRating   sql.NullString
		indexNumber      sql.NullInt64
		path             sql.NullString
		genresJSON       sql.NullString
		tagsJSON         sql.NullString
		studiosJSON      sql.NullString
		locationsJSON    sql.NullString
		ratingsJSON      sql.NullString
		peopleJSON       sql.NullString
		imagesJSON       sql.NullString
		providerJSON     sql.NullString
		lockedJSON       sql.NullString
		isVirtual        sql.NullInt64
		refreshedRaw     sql.NullString
		createdRaw       sql.NullString
		updatedRaw       sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&parentID,
		&kind,
		&name,
		&overview,
		&originalLanguage,
		&runtimeMinutes,
		&premiereRaw,
		&endRaw,
		&communityRating,
		&officialRating,
		&indexNumber,
		&path,
		&genresJSON,
		&tagsJSON,
		&studiosJSON,
		&locationsJSON,
		&ratingsJSON,
		&peopleJSON,
		&imagesJSON,
		&providerJSON,
		&lockedJSON,
		&isVirtual,
		&refreshedRaw,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	item := &Item{
		ID:               id,
		ParentID:         parentID.String,
		Kind:             Kind(kind),
		Name:             name.String,
		Overview:         overview.String,
		OriginalLanguage: originalLanguage.String,
		RuntimeMinutes:   int(runtimeMinutes.Int64),
		CommunityRating:  communityRating.Float64,
		OfficialRating:   officialRating.String,
		IndexNumber:      int(indexNumber.Int64),
		Path:             path.String,
		IsVirtual:        isVirtual.Valid && isVirtual.Int64 != 0,
	}

	if err := decodeJSON(genresJSON.String, &item.Genres); err != nil {
		return nil, fmt.Errorf("decode genres: %w", err)
	}
	if err := decodeJSON(tagsJSON.String, &item.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	if err := decodeJSON(studiosJSON.String, &item.Studios); err != nil {
		return nil, fmt.Errorf("decode studios: %w", err)
	}
	if err := decodeJSON(locationsJSON.String, &item.ProductionLocations); err != nil {
		return nil, fmt.Errorf("decode production locations: %w", err)
	}
	if err := decodeJSON(ratingsJSON.String, &item.ContentRatings); err != nil {
		return nil, fmt.Errorf("decode content ratings: %w", err)
	}
	if err := decodeJSON(peopleJSON.String, &item.People); err != nil {
		return nil, fmt.Errorf("decode people: %w", err)
	}
	if err := decodeJSON(imagesJSON.String, &item.Images); err != nil {
		return nil, fmt.Errorf("decode images: %w", err)
	}
	if err := decodeJSON(providerJSON.String, &item.ProviderIDs); err != nil {
		return nil, fmt.Errorf("decode provider ids: %w", err)
	}
	if err := decodeJSON(lockedJSON.String, &item.LockedFields); err != nil {
		return nil, fmt.Errorf("decode locked fields: %w", err)
	}

	if premiere, err := parseTimeString(premiereRaw.String); err == nil {
		item.PremiereDate = &premiere
	}
	if end, err := parseTimeString(endRaw.String); err == nil {
		item.EndDate = &end
	}
	if refreshed, err := parseTimeString(refreshedRaw.String); err == nil {
		item.LastRefreshedAt = &refreshed
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		item.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		item.UpdatedAt = updated
	}
	return item, nil
}

func encodeJSON(value any) (any, error) {
	switch v := value.(type) {
	case []string:
		if len(v) == 0 {
			return nil, nil
		}
	case []Person:
		if len(v) == 0 {
			return nil, nil
		}
	case []Image:
		if len(v) == 0 {
			return nil, nil
		}
	case []ContentRating:
		if len(v) == 0 {
			return nil, nil
		}
	case map[string]string:
		if len(v) == 0 {
			return nil, nil
		}
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func decodeJSON(raw string, target any) error {
	if raw == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw), target)
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
