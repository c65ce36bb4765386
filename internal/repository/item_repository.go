package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/iliyamo/virtual-closet/internal/model"
)

// ItemRepo provides CRUD for clothing items. Every query is scoped by
// user_id so one user can never observe another's wardrobe.
type ItemRepo struct{ DB *sql.DB }

func NewItemRepo(db *sql.DB) *ItemRepo { return &ItemRepo{DB: db} }

// ItemFilter narrows List. Search matches the name as a case-insensitive
// substring or any tag exactly; Tags requires the item to carry every
// listed tag.
type ItemFilter struct {
	Search string
	Type   *model.ClothingType
	Color  string
	Season *model.Season
	Tags   []string
}

// ItemUpdate carries a partial update. A nil pointer with Set=false
// leaves the column untouched; Set=true with a nil pointer clears it.
type ItemUpdate struct {
	Name      *string
	ImageURL  *string
	ImageSet  bool
	Type      *model.ClothingType
	TypeSet   bool
	Color     *string
	ColorSet  bool
	Season    *model.Season
	SeasonSet bool
	Tags      []string
}

const itemCols = "id,user_id,name,image_url,type,color,season,tags,created_at,updated_at"

// Create inserts the item and populates generated fields from the stored
// row.
func (r *ItemRepo) Create(ctx context.Context, item *model.ClothingItem) error {
	tags, err := encodeTags(item.Tags)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO clothing_items (user_id, name, image_url, type, color, season, tags) VALUES (?,?,?,?,?,?,?)",
		item.UserID, item.Name, item.ImageURL, item.Type, item.Color, item.Season, tags)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	stored, err := r.GetByID(ctx, item.UserID, uint64(id))
	if err != nil {
		return err
	}
	*item = stored
	return nil
}

// List returns the user's items newest first, narrowed by the filter.
func (r *ItemRepo) List(ctx context.Context, userID uint64, f ItemFilter) ([]model.ClothingItem, error) {
	q := "SELECT " + itemCols + " FROM clothing_items WHERE user_id=?"
	args := []interface{}{userID}
	if f.Search != "" {
		q += " AND (LOWER(name) LIKE CONCAT('%', LOWER(?), '%') OR JSON_CONTAINS(tags, JSON_QUOTE(?)))"
		args = append(args, f.Search, f.Search)
	}
	if f.Type != nil {
		q += " AND type=?"
		args = append(args, *f.Type)
	}
	if f.Color != "" {
		q += " AND LOWER(color)=LOWER(?)"
		args = append(args, f.Color)
	}
	if f.Season != nil {
		q += " AND season=?"
		args = append(args, *f.Season)
	}
	for _, t := range f.Tags {
		q += " AND JSON_CONTAINS(tags, JSON_QUOTE(?))"
		args = append(args, t)
	}
	q += " ORDER BY created_at DESC, id DESC"

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.ClothingItem, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// GetByID returns one owned item or ErrItemNotFound.
func (r *ItemRepo) GetByID(ctx context.Context, userID, itemID uint64) (model.ClothingItem, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+itemCols+" FROM clothing_items WHERE id=? AND user_id=? LIMIT 1",
		itemID, userID)
	it, err := scanItemRow(row)
	if err == sql.ErrNoRows {
		return model.ClothingItem{}, ErrItemNotFound
	}
	return it, err
}

// Update applies the supplied fields only and returns the stored row.
func (r *ItemRepo) Update(ctx context.Context, userID, itemID uint64, upd ItemUpdate) (model.ClothingItem, error) {
	if _, err := r.GetByID(ctx, userID, itemID); err != nil {
		return model.ClothingItem{}, err
	}

	set := make([]string, 0, 6)
	args := make([]interface{}, 0, 8)
	if upd.Name != nil {
		set = append(set, "name=?")
		args = append(args, *upd.Name)
	}
	if upd.ImageSet {
		set = append(set, "image_url=?")
		args = append(args, upd.ImageURL)
	}
	if upd.TypeSet {
		set = append(set, "type=?")
		args = append(args, upd.Type)
	}
	if upd.ColorSet {
		set = append(set, "color=?")
		args = append(args, upd.Color)
	}
	if upd.SeasonSet {
		set = append(set, "season=?")
		args = append(args, upd.Season)
	}
	if upd.Tags != nil {
		tags, err := encodeTags(upd.Tags)
		if err != nil {
			return model.ClothingItem{}, err
		}
		set = append(set, "tags=?")
		args = append(args, tags)
	}
	if len(set) > 0 {
		args = append(args, itemID, userID)
		q := "UPDATE clothing_items SET " + strings.Join(set, ",") + " WHERE id=? AND user_id=?"
		if _, err := r.DB.ExecContext(ctx, q, args...); err != nil {
			return model.ClothingItem{}, err
		}
	}
	return r.GetByID(ctx, userID, itemID)
}

// Delete removes an owned item. ErrItemNotFound when nothing matched.
func (r *ItemRepo) Delete(ctx context.Context, userID, itemID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM clothing_items WHERE id=? AND user_id=?", itemID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrItemNotFound
	}
	return nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface{ Scan(dest ...interface{}) error }

func scanItem(rs rowScanner) (model.ClothingItem, error) {
	var (
		it       model.ClothingItem
		imageURL sql.NullString
		typ      sql.NullString
		color    sql.NullString
		season   sql.NullString
		tags     []byte
	)
	if err := rs.Scan(&it.ID, &it.UserID, &it.Name, &imageURL, &typ, &color, &season, &tags,
		&it.CreatedAt, &it.UpdatedAt); err != nil {
		return model.ClothingItem{}, err
	}
	if imageURL.Valid {
		v := imageURL.String
		it.ImageURL = &v
	}
	if typ.Valid {
		v := model.ClothingType(typ.String)
		it.Type = &v
	}
	if color.Valid {
		v := color.String
		it.Color = &v
	}
	if season.Valid {
		v := model.Season(season.String)
		it.Season = &v
	}
	it.Tags = decodeTags(tags)
	return it, nil
}

func scanItemRow(row *sql.Row) (model.ClothingItem, error) { return scanItem(row) }

// encodeTags serializes a tag list into the JSON column value. A nil
// list is stored as an empty JSON array, never NULL.
func encodeTags(tags []string) ([]byte, error) {
	if tags == nil {
		tags = []string{}
	}
	return json.Marshal(tags)
}

func decodeTags(raw []byte) []string {
	tags := []string{}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &tags)
	}
	return tags
}
