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

// OutfitStore is the slice of the outfit repository the handlers use.
// The suggestion handler shares it for loading candidates.
type OutfitStore interface {
	Create(ctx context.Context, userID uint64, name string, occasion *model.Occasion, itemIDs []uint64) (model.Outfit, error)
	List(ctx context.Context, userID uint64) ([]model.Outfit, error)
	GetByID(ctx context.Context, userID, outfitID uint64) (model.Outfit, error)
	Update(ctx context.Context, userID, outfitID uint64, upd repository.OutfitUpdate) (model.Outfit, error)
	Delete(ctx context.Context, userID, outfitID uint64) error
}

// OutfitHandler serves the /outfits endpoints.
type OutfitHandler struct{ Outfits OutfitStore }

func NewOutfitHandler(s OutfitStore) *OutfitHandler { return &OutfitHandler{Outfits: s} }

type outfitCreateReq struct {
	Name     string   `json:"name"`
	Occasion *string  `json:"occasion"`
	ItemIDs  []uint64 `json:"itemIds"`
}

type outfitUpdateReq struct {
	Name     *string         `json:"name"`
	Occasion json.RawMessage `json:"occasion"`
	ItemIDs  []uint64        `json:"itemIds"`
}

// Create builds an outfit from owned items. Name and a non-empty item
// list are required; an unknown occasion value is silently dropped.
func (h *OutfitHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req outfitCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || len(req.ItemIDs) == 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "name and itemIds are required"})
	}
	var occasion *model.Occasion
	if req.Occasion != nil {
		if o, ok := model.ParseOccasion(*req.Occasion); ok {
			occasion = &o
		}
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	outfit, err := h.Outfits.Create(ctx, uid, req.Name, occasion, req.ItemIDs)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "one or more items not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create outfit failed"})
	}
	return c.JSON(http.StatusCreated, outfit)
}

// List returns the caller's outfits with resolved items, newest first.
func (h *OutfitHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	outfits, err := h.Outfits.List(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list outfits failed"})
	}
	return c.JSON(http.StatusOK, outfits)
}

// Get returns one owned outfit with its items.
func (h *OutfitHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid outfit id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	outfit, err := h.Outfits.GetByID(ctx, uid, id)
	if err != nil {
		if errors.Is(err, repository.ErrOutfitNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "outfit not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load outfit failed"})
	}
	return c.JSON(http.StatusOK, outfit)
}

// Update applies a partial update; a present itemIds list replaces the
// membership wholesale.
func (h *OutfitHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid outfit id"})
	}
	var req outfitUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	var upd repository.OutfitUpdate
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "name cannot be empty"})
		}
		upd.Name = &name
	}
	if set, v, err := optionalString(req.Occasion); err == nil && set {
		if v == nil {
			upd.OccasionSet = true
		} else if o, ok := model.ParseOccasion(*v); ok {
			upd.OccasionSet = true
			upd.Occasion = &o
		}
	}
	if req.ItemIDs != nil {
		if len(req.ItemIDs) == 0 {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "itemIds cannot be empty"})
		}
		upd.ItemIDs = req.ItemIDs
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	outfit, err := h.Outfits.Update(ctx, uid, id, upd)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrOutfitNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "outfit not found"})
		case errors.Is(err, repository.ErrItemNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "one or more items not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update outfit failed"})
	}
	return c.JSON(http.StatusOK, outfit)
}

// Delete removes one owned outfit.
func (h *OutfitHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid outfit id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Outfits.Delete(ctx, uid, id); err != nil {
		if errors.Is(err, repository.ErrOutfitNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "outfit not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete outfit failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "outfit deleted"})
}
