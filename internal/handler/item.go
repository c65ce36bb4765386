package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/virtual-closet/internal/model"
	"github.com/iliyamo/virtual-closet/internal/repository"
)

// ItemStore is the slice of the item repository the handlers use.
type ItemStore interface {
	Create(ctx context.Context, item *model.ClothingItem) error
	List(ctx context.Context, userID uint64, f repository.ItemFilter) ([]model.ClothingItem, error)
	GetByID(ctx context.Context, userID, itemID uint64) (model.ClothingItem, error)
	Update(ctx context.Context, userID, itemID uint64, upd repository.ItemUpdate) (model.ClothingItem, error)
	Delete(ctx context.Context, userID, itemID uint64) error
}

// ItemHandler serves the /items endpoints.
type ItemHandler struct{ Items ItemStore }

func NewItemHandler(s ItemStore) *ItemHandler { return &ItemHandler{Items: s} }

// itemReq is shared by create and update. RawMessage fields tell an
// absent key apart from an explicit null.
type itemReq struct {
	Name     *string         `json:"name"`
	ImageURL json.RawMessage `json:"imageUrl"`
	Type     json.RawMessage `json:"type"`
	Color    json.RawMessage `json:"color"`
	Season   json.RawMessage `json:"season"`
	Tags     json.RawMessage `json:"tags"`
}

// Create adds an item to the caller's wardrobe. Only the name is
// required; enum fields with values outside the known sets are treated
// as absent.
func (h *ItemHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req itemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "name is required"})
	}

	item := model.ClothingItem{
		UserID: uid,
		Name:   strings.TrimSpace(*req.Name),
		Tags:   tagList(req.Tags),
	}
	if _, v, err := optionalString(req.ImageURL); err == nil && v != nil {
		item.ImageURL = v
	}
	if _, v, err := optionalString(req.Type); err == nil && v != nil {
		if t, ok := model.ParseClothingType(*v); ok {
			item.Type = &t
		}
	}
	if _, v, err := optionalString(req.Color); err == nil && v != nil {
		item.Color = v
	}
	if _, v, err := optionalString(req.Season); err == nil && v != nil {
		if s, ok := model.ParseSeason(*v); ok {
			item.Season = &s
		}
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Items.Create(ctx, &item); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create item failed"})
	}
	return c.JSON(http.StatusCreated, item)
}

// List returns the caller's items, optionally narrowed by search, type,
// color, season and tags query parameters.
func (h *ItemHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	f := repository.ItemFilter{
		Search: strings.TrimSpace(c.QueryParam("search")),
		Color:  strings.TrimSpace(c.QueryParam("color")),
		Tags:   model.SplitTags(c.QueryParam("tags")),
	}
	if t, ok := model.ParseClothingType(c.QueryParam("type")); ok {
		f.Type = &t
	}
	if s, ok := model.ParseSeason(c.QueryParam("season")); ok {
		f.Season = &s
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Items.List(ctx, uid, f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list items failed"})
	}
	return c.JSON(http.StatusOK, items)
}

// Get returns one owned item.
func (h *ItemHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	item, err := h.Items.GetByID(ctx, uid, id)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load item failed"})
	}
	return c.JSON(http.StatusOK, item)
}

// Update applies a partial update. Omitted fields keep their value; an
// explicit null clears the column.
func (h *ItemHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item id"})
	}
	var req itemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	var upd repository.ItemUpdate
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "name cannot be empty"})
		}
		upd.Name = &name
	}
	if set, v, err := optionalString(req.ImageURL); err == nil && set {
		upd.ImageSet = true
		upd.ImageURL = v
	}
	if set, v, err := optionalString(req.Type); err == nil && set {
		if v == nil {
			upd.TypeSet = true
		} else if t, ok := model.ParseClothingType(*v); ok {
			upd.TypeSet = true
			upd.Type = &t
		}
	}
	if set, v, err := optionalString(req.Color); err == nil && set {
		upd.ColorSet = true
		upd.Color = v
	}
	if set, v, err := optionalString(req.Season); err == nil && set {
		if v == nil {
			upd.SeasonSet = true
		} else if s, ok := model.ParseSeason(*v); ok {
			upd.SeasonSet = true
			upd.Season = &s
		}
	}
	if req.Tags != nil {
		upd.Tags = tagList(req.Tags)
		if upd.Tags == nil {
			upd.Tags = []string{}
		}
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	item, err := h.Items.Update(ctx, uid, id, upd)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update item failed"})
	}
	return c.JSON(http.StatusOK, item)
}

// Delete removes one owned item.
func (h *ItemHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Items.Delete(ctx, uid, id); err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete item failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "item deleted"})
}
