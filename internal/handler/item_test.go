package handler

import (
	"net/http"
	"testing"

	"github.com/iliyamo/virtual-closet/internal/model"
)

func TestItemCreate(t *testing.T) {
	store := newFakeItemStore()
	h := NewItemHandler(store)

	c, rec := newTestContext(t, http.MethodPost, "/items",
		`{"name":"Blue Jeans","type":"bottom","color":"blue","season":"ALL","tags":["denim"," casual "]}`, 7)
	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	statusOf(t, rec, http.StatusCreated)

	var item model.ClothingItem
	decodeBody(t, rec, &item)
	if item.UserID != 7 || item.Name != "Blue Jeans" {
		t.Fatalf("item = %+v", item)
	}
	if item.Type == nil || *item.Type != model.TypeBottom {
		t.Fatalf("type = %v", item.Type)
	}
	if item.Season == nil || *item.Season != model.SeasonAll {
		t.Fatalf("season = %v", item.Season)
	}
	if len(item.Tags) != 2 || item.Tags[1] != "casual" {
		t.Fatalf("tags = %v", item.Tags)
	}
}

func TestItemCreateMissingName(t *testing.T) {
	h := NewItemHandler(newFakeItemStore())
	for _, body := range []string{`{}`, `{"name":"  "}`, `{"color":"red"}`} {
		c, rec := newTestContext(t, http.MethodPost, "/items", body, 7)
		if err := h.Create(c); err != nil {
			t.Fatalf("Create(%s): %v", body, err)
		}
		statusOf(t, rec, http.StatusUnprocessableEntity)
	}
}

func TestItemCreateUnknownEnumIgnored(t *testing.T) {
	store := newFakeItemStore()
	h := NewItemHandler(store)

	c, rec := newTestContext(t, http.MethodPost, "/items",
		`{"name":"Hat","type":"headwear","season":"monsoon"}`, 7)
	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	statusOf(t, rec, http.StatusCreated)

	var item model.ClothingItem
	decodeBody(t, rec, &item)
	if item.Type != nil || item.Season != nil {
		t.Fatalf("unknown enums should be dropped, got type=%v season=%v", item.Type, item.Season)
	}
}

func TestItemCreateTagsAsString(t *testing.T) {
	store := newFakeItemStore()
	h := NewItemHandler(store)

	c, rec := newTestContext(t, http.MethodPost, "/items",
		`{"name":"Scarf","tags":"wool, winter"}`, 7)
	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	statusOf(t, rec, http.StatusCreated)

	var item model.ClothingItem
	decodeBody(t, rec, &item)
	if len(item.Tags) != 2 || item.Tags[0] != "wool" || item.Tags[1] != "winter" {
		t.Fatalf("tags = %v", item.Tags)
	}
}

func TestItemListFilters(t *testing.T) {
	store := newFakeItemStore()
	h := NewItemHandler(store)

	c, rec := newTestContext(t, http.MethodGet,
		"/items?search=jean&type=bottom&color=blue&season=winter&tags=denim,casual", "", 7)
	if err := h.List(c); err != nil {
		t.Fatalf("List: %v", err)
	}
	statusOf(t, rec, http.StatusOK)

	f := store.lastFilter
	if f.Search != "jean" || f.Color != "blue" {
		t.Fatalf("filter = %+v", f)
	}
	if f.Type == nil || *f.Type != model.TypeBottom {
		t.Fatalf("filter type = %v", f.Type)
	}
	if f.Season == nil || *f.Season != model.SeasonWinter {
		t.Fatalf("filter season = %v", f.Season)
	}
	if len(f.Tags) != 2 {
		t.Fatalf("filter tags = %v", f.Tags)
	}
}

func TestItemListUnknownEnumFilterIgnored(t *testing.T) {
	store := newFakeItemStore()
	h := NewItemHandler(store)

	c, rec := newTestContext(t, http.MethodGet, "/items?type=headwear&season=monsoon", "", 7)
	if err := h.List(c); err != nil {
		t.Fatalf("List: %v", err)
	}
	statusOf(t, rec, http.StatusOK)
	if store.lastFilter.Type != nil || store.lastFilter.Season != nil {
		t.Fatalf("unknown enum filters should be absent, got %+v", store.lastFilter)
	}
}

func TestItemOwnershipIsolation(t *testing.T) {
	store := newFakeItemStore()
	h := NewItemHandler(store)
	store.items[1] = model.ClothingItem{ID: 1, UserID: 7, Name: "Jeans"}

	c, rec := newTestContext(t, http.MethodGet, "/items/1", "", 8)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.Get(c); err != nil {
		t.Fatalf("Get: %v", err)
	}
	statusOf(t, rec, http.StatusNotFound)

	c, rec = newTestContext(t, http.MethodDelete, "/items/1", "", 8)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.Delete(c); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	statusOf(t, rec, http.StatusNotFound)
	if _, ok := store.items[1]; !ok {
		t.Fatal("foreign delete must not remove the item")
	}
}

func TestItemPartialUpdate(t *testing.T) {
	store := newFakeItemStore()
	h := NewItemHandler(store)
	blue := "blue"
	season := model.SeasonWinter
	store.items[1] = model.ClothingItem{ID: 1, UserID: 7, Name: "Jeans", Color: &blue, Season: &season}

	// Omitted fields stay; explicit null clears.
	c, rec := newTestContext(t, http.MethodPut, "/items/1",
		`{"name":"Old Jeans","color":null}`, 7)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.Update(c); err != nil {
		t.Fatalf("Update: %v", err)
	}
	statusOf(t, rec, http.StatusOK)

	upd := store.lastUpdate
	if upd.Name == nil || *upd.Name != "Old Jeans" {
		t.Fatalf("name update = %v", upd.Name)
	}
	if !upd.ColorSet || upd.Color != nil {
		t.Fatalf("explicit null should clear color, got set=%v val=%v", upd.ColorSet, upd.Color)
	}
	if upd.SeasonSet || upd.ImageSet || upd.TypeSet || upd.Tags != nil {
		t.Fatalf("omitted fields must stay untouched: %+v", upd)
	}

	got := store.items[1]
	if got.Name != "Old Jeans" || got.Color != nil {
		t.Fatalf("stored item = %+v", got)
	}
	if got.Season == nil || *got.Season != model.SeasonWinter {
		t.Fatal("omitted season must survive the update")
	}
}

func TestItemUpdateEmptyName(t *testing.T) {
	store := newFakeItemStore()
	h := NewItemHandler(store)
	store.items[1] = model.ClothingItem{ID: 1, UserID: 7, Name: "Jeans"}

	c, rec := newTestContext(t, http.MethodPut, "/items/1", `{"name":""}`, 7)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.Update(c); err != nil {
		t.Fatalf("Update: %v", err)
	}
	statusOf(t, rec, http.StatusUnprocessableEntity)
}

func TestItemUpdateReplacesTags(t *testing.T) {
	store := newFakeItemStore()
	h := NewItemHandler(store)
	store.items[1] = model.ClothingItem{ID: 1, UserID: 7, Name: "Jeans", Tags: []string{"old"}}

	c, rec := newTestContext(t, http.MethodPut, "/items/1", `{"tags":[]}`, 7)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.Update(c); err != nil {
		t.Fatalf("Update: %v", err)
	}
	statusOf(t, rec, http.StatusOK)
	if store.lastUpdate.Tags == nil || len(store.lastUpdate.Tags) != 0 {
		t.Fatalf("empty tag list should clear tags, got %v", store.lastUpdate.Tags)
	}
}

func TestItemGetInvalidID(t *testing.T) {
	h := NewItemHandler(newFakeItemStore())
	c, rec := newTestContext(t, http.MethodGet, "/items/abc", "", 7)
	c.SetParamNames("id")
	c.SetParamValues("abc")
	if err := h.Get(c); err != nil {
		t.Fatalf("Get: %v", err)
	}
	statusOf(t, rec, http.StatusBadRequest)
}
