package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/virtual-closet/internal/model"
	"github.com/iliyamo/virtual-closet/internal/suggest"
)

// SuggestionHandler serves GET /suggestions. It loads the caller's
// outfits and hands them to the ranking engine; the date parameter is
// accepted for client convenience but carries no criterion today.
type SuggestionHandler struct{ Outfits OutfitStore }

func NewSuggestionHandler(s OutfitStore) *SuggestionHandler { return &SuggestionHandler{Outfits: s} }

type suggestionResp struct {
	Count       int            `json:"count"`
	Suggestions []model.Outfit `json:"suggestions"`
}

// Suggest returns the caller's outfits that satisfy every supplied
// criterion, best dressed first.
func (h *SuggestionHandler) Suggest(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	q := suggest.Query{
		Occasion: c.QueryParam("occasion"),
		Season:   c.QueryParam("season"),
		Color:    c.QueryParam("color"),
		Tags:     model.SplitTags(c.QueryParam("tags")),
	}
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			q.Limit = n
		}
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	outfits, err := h.Outfits.List(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load outfits failed"})
	}
	ranked := suggest.Rank(outfits, q)
	return c.JSON(http.StatusOK, suggestionResp{Count: len(ranked), Suggestions: ranked})
}
