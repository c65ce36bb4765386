package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/virtual-closet/internal/model"
)

// ScheduleRepo provides CRUD for outfit schedules. The uniqueness of
// (user_id, wear_date) is enforced by the table's unique index; two
// near-simultaneous writes for the same date resolve there, not in any
// application-level existence check. The duplicate-key violation is
// translated into ErrDateTaken.
type ScheduleRepo struct{ DB *sql.DB }

func NewScheduleRepo(db *sql.DB) *ScheduleRepo { return &ScheduleRepo{DB: db} }

// ScheduleUpdate carries a partial update. Note uses NoteSet so an
// explicit null clears it while an omitted field leaves it untouched.
type ScheduleUpdate struct {
	OutfitID *uint64
	Date     *model.DateOnly
	Note     *string
	NoteSet  bool
}

const scheduleCols = "id,user_id,outfit_id,wear_date,note,created_at,updated_at"

// Create persists a schedule for an owned outfit and returns it joined
// with the outfit and its items.
func (r *ScheduleRepo) Create(ctx context.Context, userID, outfitID uint64, date model.DateOnly, note *string) (model.OutfitSchedule, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM outfits WHERE id=? AND user_id=? LIMIT 1", outfitID, userID).Scan(&one)
	if err == sql.ErrNoRows {
		return model.OutfitSchedule{}, ErrOutfitNotFound
	}
	if err != nil {
		return model.OutfitSchedule{}, err
	}

	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO outfit_schedules (user_id, outfit_id, wear_date, note) VALUES (?,?,?,?)",
		userID, outfitID, date.Time(), note)
	if err != nil {
		if isDuplicateKey(err) {
			return model.OutfitSchedule{}, ErrDateTaken
		}
		return model.OutfitSchedule{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.OutfitSchedule{}, err
	}
	return r.GetByID(ctx, userID, uint64(id))
}

// GetByID returns one owned schedule joined with its outfit and items,
// or ErrScheduleNotFound.
func (r *ScheduleRepo) GetByID(ctx context.Context, userID, scheduleID uint64) (model.OutfitSchedule, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+scheduleCols+" FROM outfit_schedules WHERE id=? AND user_id=? LIMIT 1",
		scheduleID, userID)
	s, err := scanSchedule(row)
	if err == sql.ErrNoRows {
		return model.OutfitSchedule{}, ErrScheduleNotFound
	}
	if err != nil {
		return model.OutfitSchedule{}, err
	}
	loaded, err := r.attachOutfits(ctx, []model.OutfitSchedule{s})
	if err != nil {
		return model.OutfitSchedule{}, err
	}
	return loaded[0], nil
}

// List returns the user's schedules ordered by date ascending, bounded
// by the optional inclusive range.
func (r *ScheduleRepo) List(ctx context.Context, userID uint64, from, to *model.DateOnly) ([]model.OutfitSchedule, error) {
	q := "SELECT " + scheduleCols + " FROM outfit_schedules WHERE user_id=?"
	args := []interface{}{userID}
	if from != nil {
		q += " AND wear_date>=?"
		args = append(args, from.Time())
	}
	if to != nil {
		q += " AND wear_date<=?"
		args = append(args, to.Time())
	}
	q += " ORDER BY wear_date ASC"

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	schedules := make([]model.OutfitSchedule, 0)
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return r.attachOutfits(ctx, schedules)
}

// Update applies the supplied fields, re-validating outfit ownership and
// date uniqueness. Moving a schedule onto its own current date is not a
// conflict because the unique index excludes the row being updated.
func (r *ScheduleRepo) Update(ctx context.Context, userID, scheduleID uint64, upd ScheduleUpdate) (model.OutfitSchedule, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM outfit_schedules WHERE id=? AND user_id=? LIMIT 1", scheduleID, userID).Scan(&one)
	if err == sql.ErrNoRows {
		return model.OutfitSchedule{}, ErrScheduleNotFound
	}
	if err != nil {
		return model.OutfitSchedule{}, err
	}

	set := make([]string, 0, 3)
	args := make([]interface{}, 0, 5)
	if upd.OutfitID != nil {
		err := r.DB.QueryRowContext(ctx,
			"SELECT 1 FROM outfits WHERE id=? AND user_id=? LIMIT 1", *upd.OutfitID, userID).Scan(&one)
		if err == sql.ErrNoRows {
			return model.OutfitSchedule{}, ErrOutfitNotFound
		}
		if err != nil {
			return model.OutfitSchedule{}, err
		}
		set = append(set, "outfit_id=?")
		args = append(args, *upd.OutfitID)
	}
	if upd.Date != nil {
		set = append(set, "wear_date=?")
		args = append(args, upd.Date.Time())
	}
	if upd.NoteSet {
		set = append(set, "note=?")
		args = append(args, upd.Note)
	}
	if len(set) > 0 {
		args = append(args, scheduleID, userID)
		q := "UPDATE outfit_schedules SET " + strings.Join(set, ",") + " WHERE id=? AND user_id=?"
		if _, err := r.DB.ExecContext(ctx, q, args...); err != nil {
			if isDuplicateKey(err) {
				return model.OutfitSchedule{}, ErrDateTaken
			}
			return model.OutfitSchedule{}, err
		}
	}
	return r.GetByID(ctx, userID, scheduleID)
}

// Delete removes an owned schedule unconditionally.
func (r *ScheduleRepo) Delete(ctx context.Context, userID, scheduleID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM outfit_schedules WHERE id=? AND user_id=?", scheduleID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrScheduleNotFound
	}
	return nil
}

func scanSchedule(rs rowScanner) (model.OutfitSchedule, error) {
	var (
		s    model.OutfitSchedule
		date time.Time
		note sql.NullString
	)
	// parseTime=true in the DSN scans DATE columns into time.Time.
	if err := rs.Scan(&s.ID, &s.UserID, &s.OutfitID, &date, &note, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return model.OutfitSchedule{}, err
	}
	s.Date = model.DateOf(date)
	if note.Valid {
		v := note.String
		s.Note = &v
	}
	return s, nil
}

// attachOutfits resolves each schedule's outfit with its items in two
// batched queries.
func (r *ScheduleRepo) attachOutfits(ctx context.Context, schedules []model.OutfitSchedule) ([]model.OutfitSchedule, error) {
	if len(schedules) == 0 {
		return schedules, nil
	}
	uniq := make(map[uint64]bool, len(schedules))
	ids := make([]interface{}, 0, len(schedules))
	placeholders := make([]string, 0, len(schedules))
	for _, s := range schedules {
		if uniq[s.OutfitID] {
			continue
		}
		uniq[s.OutfitID] = true
		ids = append(ids, s.OutfitID)
		placeholders = append(placeholders, "?")
	}
	q := "SELECT id,user_id,name,occasion,created_at,updated_at FROM outfits WHERE id IN (" +
		strings.Join(placeholders, ",") + ")"
	rows, err := r.DB.QueryContext(ctx, q, ids...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	outfits := make([]model.Outfit, 0, len(uniq))
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
	outfits, err = attachItems(ctx, r.DB, outfits)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint64]model.Outfit, len(outfits))
	for _, o := range outfits {
		byID[o.ID] = o
	}
	for i := range schedules {
		if o, ok := byID[schedules[i].OutfitID]; ok {
			oc := o
			schedules[i].Outfit = &oc
		}
	}
	return schedules, nil
}
