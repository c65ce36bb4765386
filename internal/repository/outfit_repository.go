package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/virtual-closet/internal/model"
)

// OutfitRepo provides CRUD for outfits and their membership rows. The
// outfit row and its outfit_items rows are always written inside one
// transaction: either all of them become visible or none do.
type OutfitRepo struct{ DB *sql.DB }

func NewOutfitRepo(db *sql.DB) *OutfitRepo { return &OutfitRepo{DB: db} }

// OutfitUpdate carries a partial update. A non-nil ItemIDs wholesale
// replaces the membership set.
type OutfitUpdate struct {
	Name        *string
	Occasion    *model.Occasion
	OccasionSet bool
	ItemIDs     []uint64
}

// Create inserts the outfit and its membership rows atomically. Every
// referenced item must belong to the same user; a missing or foreign id
// yields ErrItemNotFound and nothing is written.
func (r *OutfitRepo) Create(ctx context.Context, userID uint64, name string, occasion *model.Occasion, itemIDs []uint64) (model.Outfit, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Outfit{}, err
	}
	defer func() { _ = tx.Rollback() }()

	if err := ownedItemsTx(ctx, tx, userID, itemIDs); err != nil {
		return model.Outfit{}, err
	}
	res, err := tx.ExecContext(ctx,
		"INSERT INTO outfits (user_id, name, occasion) VALUES (?,?,?)",
		userID, name, occasion)
	if err != nil {
		return model.Outfit{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Outfit{}, err
	}
	if err := insertMembersTx(ctx, tx, uint64(id), itemIDs); err != nil {
		return model.Outfit{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Outfit{}, err
	}
	return r.GetByID(ctx, userID, uint64(id))
}

// List returns the user's outfits newest first with resolved items.
func (r *OutfitRepo) List(ctx context.Context, userID uint64) ([]model.Outfit, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,user_id,name,occasion,created_at,updated_at FROM outfits WHERE user_id=? ORDER BY created_at DESC, id DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	outfits := make([]model.Outfit, 0)
	for rows.Next() {
		o, err := scanOutfit(rows)
		if err != nil {
			return nil, err
		}
		outfits = append(outfits, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return attachItems(ctx, r.DB, outfits)
}

// GetByID returns one owned outfit with items or ErrOutfitNotFound.
func (r *OutfitRepo) GetByID(ctx context.Context, userID, outfitID uint64) (model.Outfit, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT id,user_id,name,occasion,created_at,updated_at FROM outfits WHERE id=? AND user_id=? LIMIT 1",
		outfitID, userID)
	o, err := scanOutfit(row)
	if err == sql.ErrNoRows {
		return model.Outfit{}, ErrOutfitNotFound
	}
	if err != nil {
		return model.Outfit{}, err
	}
	loaded, err := attachItems(ctx, r.DB, []model.Outfit{o})
	if err != nil {
		return model.Outfit{}, err
	}
	return loaded[0], nil
}

// Exists reports whether the user owns an outfit with this id.
func (r *OutfitRepo) Exists(ctx context.Context, userID, outfitID uint64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM outfits WHERE id=? AND user_id=? LIMIT 1", outfitID, userID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

// Update applies supplied fields; a non-nil item-id list replaces the
// membership set in the same transaction as the outfit row.
func (r *OutfitRepo) Update(ctx context.Context, userID, outfitID uint64, upd OutfitUpdate) (model.Outfit, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Outfit{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var one int
	err = tx.QueryRowContext(ctx,
		"SELECT 1 FROM outfits WHERE id=? AND user_id=? LIMIT 1", outfitID, userID).Scan(&one)
	if err == sql.ErrNoRows {
		return model.Outfit{}, ErrOutfitNotFound
	}
	if err != nil {
		return model.Outfit{}, err
	}

	set := make([]string, 0, 2)
	args := make([]interface{}, 0, 4)
	if upd.Name != nil {
		set = append(set, "name=?")
		args = append(args, *upd.Name)
	}
	if upd.OccasionSet {
		set = append(set, "occasion=?")
		args = append(args, upd.Occasion)
	}
	if len(set) > 0 {
		args = append(args, outfitID, userID)
		q := "UPDATE outfits SET " + strings.Join(set, ",") + " WHERE id=? AND user_id=?"
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return model.Outfit{}, err
		}
	}
	if upd.ItemIDs != nil {
		if err := ownedItemsTx(ctx, tx, userID, upd.ItemIDs); err != nil {
			return model.Outfit{}, err
		}
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM outfit_items WHERE outfit_id=?", outfitID); err != nil {
			return model.Outfit{}, err
		}
		if err := insertMembersTx(ctx, tx, outfitID, upd.ItemIDs); err != nil {
			return model.Outfit{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return model.Outfit{}, err
	}
	return r.GetByID(ctx, userID, outfitID)
}

// Delete removes an owned outfit; membership rows cascade.
func (r *OutfitRepo) Delete(ctx context.Context, userID, outfitID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM outfits WHERE id=? AND user_id=?", outfitID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrOutfitNotFound
	}
	return nil
}

func scanOutfit(rs rowScanner) (model.Outfit, error) {
	var (
		o        model.Outfit
		occasion sql.NullString
	)
	if err := rs.Scan(&o.ID, &o.UserID, &o.Name, &occasion, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return model.Outfit{}, err
	}
	if occasion.Valid {
		v := model.Occasion(occasion.String)
		o.Occasion = &v
	}
	o.Items = []model.ClothingItem{}
	return o, nil
}

// attachItems populates Items for each outfit with a single batched
// query over the join table. Shared with the schedule repository, which
// embeds resolved outfits in its responses.
func attachItems(ctx context.Context, db *sql.DB, outfits []model.Outfit) ([]model.Outfit, error) {
	if len(outfits) == 0 {
		return outfits, nil
	}
	index := make(map[uint64]int, len(outfits))
	ids := make([]interface{}, 0, len(outfits))
	placeholders := make([]string, 0, len(outfits))
	for i, o := range outfits {
		index[o.ID] = i
		ids = append(ids, o.ID)
		placeholders = append(placeholders, "?")
	}
	q := `SELECT oi.outfit_id, ` + prefixCols("ci", itemCols) + `
	      FROM outfit_items oi
	      JOIN clothing_items ci ON ci.id = oi.clothing_item_id
	      WHERE oi.outfit_id IN (` + strings.Join(placeholders, ",") + `)
	      ORDER BY oi.outfit_id, ci.id`
	rows, err := db.QueryContext(ctx, q, ids...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var outfitID uint64
		it, err := scanJoinedItem(rows, &outfitID)
		if err != nil {
			return nil, err
		}
		if i, ok := index[outfitID]; ok {
			outfits[i].Items = append(outfits[i].Items, it)
		}
	}
	return outfits, rows.Err()
}

func scanJoinedItem(rows *sql.Rows, outfitID *uint64) (model.ClothingItem, error) {
	var (
		it       model.ClothingItem
		imageURL sql.NullString
		typ      sql.NullString
		color    sql.NullString
		season   sql.NullString
		tags     []byte
	)
	if err := rows.Scan(outfitID, &it.ID, &it.UserID, &it.Name, &imageURL, &typ, &color, &season,
		&tags, &it.CreatedAt, &it.UpdatedAt); err != nil {
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

// prefixCols qualifies a comma-separated column list with a table alias.
func prefixCols(alias, cols string) string {
	parts := strings.Split(cols, ",")
	for i, p := range parts {
		parts[i] = alias + "." + p
	}
	return strings.Join(parts, ",")
}

// ownedItemsTx verifies that every id refers to a clothing item owned by
// the user. Duplicate ids are counted once.
func ownedItemsTx(ctx context.Context, tx *sql.Tx, userID uint64, itemIDs []uint64) error {
	if len(itemIDs) == 0 {
		return nil
	}
	uniq := make(map[uint64]bool, len(itemIDs))
	args := make([]interface{}, 0, len(itemIDs)+1)
	args = append(args, userID)
	placeholders := make([]string, 0, len(itemIDs))
	for _, id := range itemIDs {
		if uniq[id] {
			continue
		}
		uniq[id] = true
		args = append(args, id)
		placeholders = append(placeholders, "?")
	}
	var count int
	q := "SELECT COUNT(*) FROM clothing_items WHERE user_id=? AND id IN (" +
		strings.Join(placeholders, ",") + ")"
	if err := tx.QueryRowContext(ctx, q, args...).Scan(&count); err != nil {
		return err
	}
	if count != len(uniq) {
		return ErrItemNotFound
	}
	return nil
}

// insertMembersTx bulk-inserts membership rows for one outfit.
func insertMembersTx(ctx context.Context, tx *sql.Tx, outfitID uint64, itemIDs []uint64) error {
	if len(itemIDs) == 0 {
		return nil
	}
	seen := make(map[uint64]bool, len(itemIDs))
	q := "INSERT INTO outfit_items (outfit_id, clothing_item_id) VALUES "
	args := make([]interface{}, 0, len(itemIDs)*2)
	for _, id := range itemIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if len(args) > 0 {
			q += ","
		}
		q += "(?,?)"
		args = append(args, outfitID, id)
	}
	_, err := tx.ExecContext(ctx, q, args...)
	return err
}
