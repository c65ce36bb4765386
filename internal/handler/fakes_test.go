package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/virtual-closet/internal/model"
	"github.com/iliyamo/virtual-closet/internal/repository"
	"github.com/iliyamo/virtual-closet/internal/utils"
)

// newTestContext builds an echo context carrying an authenticated user.
func newTestContext(t *testing.T, method, target, body string, uid uint64) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	if uid != 0 {
		c.Set("user_id", uid)
	}
	return c, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, into interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), into); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

// ----- user / token fakes -----

type fakeUserStore struct {
	nextID  uint64
	byEmail map[string]repository.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: map[string]repository.User{}}
}

func (f *fakeUserStore) Create(_ context.Context, email, name, password string, cost int) (uint64, error) {
	if _, ok := f.byEmail[email]; ok {
		return 0, repository.ErrEmailExists
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	f.nextID++
	f.byEmail[email] = repository.User{ID: f.nextID, Email: email, Name: name, PasswordHash: hash}
	return f.nextID, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (repository.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return repository.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id uint64) (repository.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return repository.User{}, sql.ErrNoRows
}

type tokenRow struct {
	userID uint64
	exp    time.Time
}

type fakeTokenStore struct {
	byHash    map[string]tokenRow
	deleteErr error
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{byHash: map[string]tokenRow{}}
}

func (f *fakeTokenStore) StoreRefresh(_ context.Context, userID uint64, hash string, exp time.Time) error {
	f.byHash[hash] = tokenRow{userID: userID, exp: exp}
	return nil
}

func (f *fakeTokenStore) ValidateRefresh(_ context.Context, hash string) (uint64, error) {
	row, ok := f.byHash[hash]
	if !ok || time.Now().After(row.exp) {
		return 0, sql.ErrNoRows
	}
	return row.userID, nil
}

func (f *fakeTokenStore) DeleteByHash(_ context.Context, hash string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.byHash, hash)
	return nil
}

func (f *fakeTokenStore) DeleteAllForUser(_ context.Context, userID uint64) error {
	for h, row := range f.byHash {
		if row.userID == userID {
			delete(f.byHash, h)
		}
	}
	return nil
}

// ----- item fake -----

type fakeItemStore struct {
	items      map[uint64]model.ClothingItem
	nextID     uint64
	lastFilter repository.ItemFilter
	lastUpdate repository.ItemUpdate
	err        error
}

func newFakeItemStore() *fakeItemStore {
	return &fakeItemStore{items: map[uint64]model.ClothingItem{}}
}

func (f *fakeItemStore) Create(_ context.Context, item *model.ClothingItem) error {
	if f.err != nil {
		return f.err
	}
	f.nextID++
	item.ID = f.nextID
	f.items[item.ID] = *item
	return nil
}

func (f *fakeItemStore) List(_ context.Context, userID uint64, flt repository.ItemFilter) ([]model.ClothingItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastFilter = flt
	out := []model.ClothingItem{}
	for _, it := range f.items {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeItemStore) GetByID(_ context.Context, userID, itemID uint64) (model.ClothingItem, error) {
	it, ok := f.items[itemID]
	if !ok || it.UserID != userID {
		return model.ClothingItem{}, repository.ErrItemNotFound
	}
	return it, nil
}

func (f *fakeItemStore) Update(ctx context.Context, userID, itemID uint64, upd repository.ItemUpdate) (model.ClothingItem, error) {
	it, err := f.GetByID(ctx, userID, itemID)
	if err != nil {
		return model.ClothingItem{}, err
	}
	f.lastUpdate = upd
	if upd.Name != nil {
		it.Name = *upd.Name
	}
	if upd.ImageSet {
		it.ImageURL = upd.ImageURL
	}
	if upd.TypeSet {
		it.Type = upd.Type
	}
	if upd.ColorSet {
		it.Color = upd.Color
	}
	if upd.SeasonSet {
		it.Season = upd.Season
	}
	if upd.Tags != nil {
		it.Tags = upd.Tags
	}
	f.items[itemID] = it
	return it, nil
}

func (f *fakeItemStore) Delete(ctx context.Context, userID, itemID uint64) error {
	if _, err := f.GetByID(ctx, userID, itemID); err != nil {
		return err
	}
	delete(f.items, itemID)
	return nil
}

// ----- outfit fake -----

type fakeOutfitStore struct {
	outfits    []model.Outfit
	nextID     uint64
	lastUpdate repository.OutfitUpdate
	createErr  error
	updateErr  error
	listErr    error
}

func (f *fakeOutfitStore) Create(_ context.Context, userID uint64, name string, occasion *model.Occasion, itemIDs []uint64) (model.Outfit, error) {
	if f.createErr != nil {
		return model.Outfit{}, f.createErr
	}
	f.nextID++
	o := model.Outfit{ID: f.nextID, UserID: userID, Name: name, Occasion: occasion, Items: []model.ClothingItem{}}
	f.outfits = append(f.outfits, o)
	return o, nil
}

func (f *fakeOutfitStore) List(_ context.Context, userID uint64) ([]model.Outfit, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []model.Outfit{}
	for _, o := range f.outfits {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOutfitStore) GetByID(_ context.Context, userID, outfitID uint64) (model.Outfit, error) {
	for _, o := range f.outfits {
		if o.ID == outfitID && o.UserID == userID {
			return o, nil
		}
	}
	return model.Outfit{}, repository.ErrOutfitNotFound
}

func (f *fakeOutfitStore) Update(ctx context.Context, userID, outfitID uint64, upd repository.OutfitUpdate) (model.Outfit, error) {
	if f.updateErr != nil {
		return model.Outfit{}, f.updateErr
	}
	o, err := f.GetByID(ctx, userID, outfitID)
	if err != nil {
		return model.Outfit{}, err
	}
	f.lastUpdate = upd
	if upd.Name != nil {
		o.Name = *upd.Name
	}
	if upd.OccasionSet {
		o.Occasion = upd.Occasion
	}
	for i := range f.outfits {
		if f.outfits[i].ID == o.ID {
			f.outfits[i] = o
		}
	}
	return o, nil
}

func (f *fakeOutfitStore) Delete(ctx context.Context, userID, outfitID uint64) error {
	if _, err := f.GetByID(ctx, userID, outfitID); err != nil {
		return err
	}
	kept := f.outfits[:0]
	for _, o := range f.outfits {
		if o.ID != outfitID {
			kept = append(kept, o)
		}
	}
	f.outfits = kept
	return nil
}

// ----- schedule fake -----

type fakeScheduleStore struct {
	schedules  map[uint64]model.OutfitSchedule
	nextID     uint64
	lastUpdate repository.ScheduleUpdate
	createErr  error
	updateErr  error
}

func newFakeScheduleStore() *fakeScheduleStore {
	return &fakeScheduleStore{schedules: map[uint64]model.OutfitSchedule{}}
}

func (f *fakeScheduleStore) Create(_ context.Context, userID, outfitID uint64, date model.DateOnly, note *string) (model.OutfitSchedule, error) {
	if f.createErr != nil {
		return model.OutfitSchedule{}, f.createErr
	}
	for _, s := range f.schedules {
		if s.UserID == userID && s.Date.Equal(date) {
			return model.OutfitSchedule{}, repository.ErrDateTaken
		}
	}
	f.nextID++
	s := model.OutfitSchedule{
		ID: f.nextID, UserID: userID, OutfitID: outfitID, Date: date, Note: note,
		Outfit: &model.Outfit{ID: outfitID, UserID: userID, Name: "outfit"},
	}
	f.schedules[s.ID] = s
	return s, nil
}

func (f *fakeScheduleStore) GetByID(_ context.Context, userID, scheduleID uint64) (model.OutfitSchedule, error) {
	s, ok := f.schedules[scheduleID]
	if !ok || s.UserID != userID {
		return model.OutfitSchedule{}, repository.ErrScheduleNotFound
	}
	return s, nil
}

func (f *fakeScheduleStore) List(_ context.Context, userID uint64, from, to *model.DateOnly) ([]model.OutfitSchedule, error) {
	out := []model.OutfitSchedule{}
	for _, s := range f.schedules {
		if s.UserID != userID {
			continue
		}
		if from != nil && s.Date.Time().Before(from.Time()) {
			continue
		}
		if to != nil && s.Date.Time().After(to.Time()) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeScheduleStore) Update(ctx context.Context, userID, scheduleID uint64, upd repository.ScheduleUpdate) (model.OutfitSchedule, error) {
	if f.updateErr != nil {
		return model.OutfitSchedule{}, f.updateErr
	}
	s, err := f.GetByID(ctx, userID, scheduleID)
	if err != nil {
		return model.OutfitSchedule{}, err
	}
	f.lastUpdate = upd
	if upd.OutfitID != nil {
		s.OutfitID = *upd.OutfitID
	}
	if upd.Date != nil {
		s.Date = *upd.Date
	}
	if upd.NoteSet {
		s.Note = upd.Note
	}
	f.schedules[scheduleID] = s
	return s, nil
}

func (f *fakeScheduleStore) Delete(ctx context.Context, userID, scheduleID uint64) error {
	if _, err := f.GetByID(ctx, userID, scheduleID); err != nil {
		return err
	}
	delete(f.schedules, scheduleID)
	return nil
}

func statusOf(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, want, rec.Body.String())
	}
}
