package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	relationExtra            = "extra"
	relationAlternateVersion = "alternate_version"
)

// Insert adds a new item to the index, assigning an id when the item has
// none.
func (s *Store) Insert(ctx context.Context, item *Item) error {
	if item == nil {
		return errors.New("item is nil")
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	if _, err := s.execWithRetry(ctx, `INSERT INTO library_items (`+itemColumns+`) VALUES (`+makePlaceholders(26)+`)`, itemArgs(item)...); err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// Save persists the full current state of an existing item.
func (s *Store) Save(ctx context.Context, item *Item) error {
	if item == nil {
		return errors.New("item is nil")
	}
	if item.ID == "" {
		return errors.New("item has no id")
	}
	item.UpdatedAt = time.Now().UTC()

	if err := s.execWithoutResultRetry(
		ctx,
		`UPDATE library_items
         SET parent_id = ?, kind = ?, name = ?, overview = ?, original_language = ?,
             runtime_minutes = ?, premiere_date = ?, end_date = ?, community_rating = ?,
             official_rating = ?, index_number = ?, path = ?, genres_json = ?, tags_json = ?,
             studios_json = ?, production_locations_json = ?, content_ratings_json = ?,
             people_json = ?, images_json = ?, provider_ids_json = ?, locked_fields_json = ?,
             is_virtual = ?, last_refreshed_at = ?, updated_at = ?
         WHERE id = ?`,
		nullableString(item.ParentID),
		string(item.Kind),
		nullableString(item.Name),
		nullableString(item.Overview),
		nullableString(item.OriginalLanguage),
		item.RuntimeMinutes,
		nullableTime(item.PremiereDate),
		nullableTime(item.EndDate),
		item.CommunityRating,
		nullableString(item.OfficialRating),
		item.IndexNumber,
		nullableString(item.Path),
		mustEncode(item.Genres),
		mustEncode(item.Tags),
		mustEncode(item.Studios),
		mustEncode(item.ProductionLocations),
		mustEncode(item.ContentRatings),
		mustEncode(item.People),
		mustEncode(item.Images),
		mustEncode(item.ProviderIDs),
		mustEncode(item.LockedFields),
		boolToInt(item.IsVirtual),
		nullableTime(item.LastRefreshedAt),
		item.UpdatedAt.Format(time.RFC3339Nano),
		item.ID,
	); err != nil {
		return fmt.Errorf("save item: %w", err)
	}
	return nil
}

// Get fetches an item by id. Unknown ids return (nil, nil).
func (s *Store) Get(ctx context.Context, id string) (*Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM library_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// Children returns an item's direct children ordered by index number.
func (s *Store) Children(ctx context.Context, parentID string) ([]*Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM library_items WHERE parent_id = ? ORDER BY index_number, created_at`,
		parentID,
	)
	if err != nil {
		return nil, fmt.Errorf("query children: %w", err)
	}
	return collectItems(rows)
}

// Find returns items matching the query ordered by creation time.
func (s *Store) Find(ctx context.Context, q Query) ([]*Item, error) {
	query := `SELECT ` + itemColumns + ` FROM library_items WHERE 1=1`
	var args []any
	if q.Kind != "" {
		query += ` AND kind = ?`
		args = append(args, string(q.Kind))
	}
	if !q.IncludeVirtual {
		query += ` AND is_virtual = 0`
	}
	query += ` ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find items: %w", err)
	}
	items, err := collectItems(rows)
	if err != nil {
		return nil, err
	}
	if q.ProviderScheme == "" {
		return items, nil
	}
	// Provider ids live in a JSON column; filter after the scan.
	matched := items[:0]
	for _, item := range items {
		if item.ProviderID(q.ProviderScheme) != "" {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

// Extras returns the extras linked to an owner item.
func (s *Store) Extras(ctx context.Context, ownerID string) ([]*Item, error) {
	return s.related(ctx, ownerID, relationExtra)
}

// AlternateVersions returns the alternate cuts linked to an item.
func (s *Store) AlternateVersions(ctx context.Context, id string) ([]*Item, error) {
	return s.related(ctx, id, relationAlternateVersion)
}

// LinkExtra records an extras relationship between two items.
func (s *Store) LinkExtra(ctx context.Context, ownerID, extraID string) error {
	return s.link(ctx, ownerID, extraID, relationExtra)
}

// LinkAlternateVersion records an alternate-version relationship.
func (s *Store) LinkAlternateVersion(ctx context.Context, id, versionID string) error {
	return s.link(ctx, id, versionID, relationAlternateVersion)
}

// Remove deletes an item and its link rows.
func (s *Store) Remove(ctx context.Context, id string) (bool, error) {
	if err := s.execWithoutResultRetry(ctx, `DELETE FROM item_links WHERE owner_id = ? OR related_id = ?`, id, id); err != nil {
		return false, fmt.Errorf("delete item links: %w", err)
	}
	res, err := s.execWithRetry(ctx, `DELETE FROM library_items WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

func (s *Store) related(ctx context.Context, ownerID, relation string) ([]*Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM library_items
         JOIN item_links ON library_items.id = item_links.related_id
         WHERE item_links.owner_id = ? AND item_links.relation = ?
         ORDER BY library_items.created_at`,
		ownerID, relation,
	)
	if err != nil {
		return nil, fmt.Errorf("query %s links: %w", relation, err)
	}
	return collectItems(rows)
}

func (s *Store) link(ctx context.Context, ownerID, relatedID, relation string) error {
	if err := s.execWithoutResultRetry(ctx,
		`INSERT OR IGNORE INTO item_links (owner_id, related_id, relation) VALUES (?, ?, ?)`,
		ownerID, relatedID, relation,
	); err != nil {
		return fmt.Errorf("link %s: %w", relation, err)
	}
	return nil
}

func collectItems(rows *sql.Rows) ([]*Item, error) {
	defer rows.Close()
	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func itemArgs(item *Item) []any {
	return []any{
		item.ID,
		nullableString(item.ParentID),
		string(item.Kind),
		nullableString(item.Name),
		nullableString(item.Overview),
		nullableString(item.OriginalLanguage),
		item.RuntimeMinutes,
		nullableTime(item.PremiereDate),
		nullableTime(item.EndDate),
		item.CommunityRating,
		nullableString(item.OfficialRating),
		item.IndexNumber,
		nullableString(item.Path),
		mustEncode(item.Genres),
		mustEncode(item.Tags),
		mustEncode(item.Studios),
		mustEncode(item.ProductionLocations),
		mustEncode(item.ContentRatings),
		mustEncode(item.People),
		mustEncode(item.Images),
		mustEncode(item.ProviderIDs),
		mustEncode(item.LockedFields),
		boolToInt(item.IsVirtual),
		nullableTime(item.LastRefreshedAt),
		item.CreatedAt.UTC().Format(time.RFC3339Nano),
		item.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func mustEncode(value any) any {
	encoded, err := encodeJSON(value)
	if err != nil {
		// The item field types marshal without error by construction.
		panic(fmt.Sprintf("encode item field: %v", err))
	}
	return encoded
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
