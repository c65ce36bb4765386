package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/virtual-closet/internal/model"
	"github.com/iliyamo/virtual-closet/internal/queue"
	"github.com/iliyamo/virtual-closet/internal/repository"
)

// ScheduleStore is the slice of the schedule repository the handlers
// use.
type ScheduleStore interface {
	Create(ctx context.Context, userID, outfitID uint64, date model.DateOnly, note *string) (model.OutfitSchedule, error)
	GetByID(ctx context.Context, userID, scheduleID uint64) (model.OutfitSchedule, error)
	List(ctx context.Context, userID uint64, from, to *model.DateOnly) ([]model.OutfitSchedule, error)
	Update(ctx context.Context, userID, scheduleID uint64, upd repository.ScheduleUpdate) (model.OutfitSchedule, error)
	Delete(ctx context.Context, userID, scheduleID uint64) error
}

// ScheduleHandler serves the /schedules endpoints. Publish, when set,
// emits an event after a schedule is created; publish failures never
// fail the request.
type ScheduleHandler struct {
	Schedules ScheduleStore
	Publish   func(ctx context.Context, event queue.OutfitScheduledEvent) error
}

func NewScheduleHandler(s ScheduleStore, publish func(ctx context.Context, event queue.OutfitScheduledEvent) error) *ScheduleHandler {
	return &ScheduleHandler{Schedules: s, Publish: publish}
}

type scheduleCreateReq struct {
	OutfitID uint64  `json:"outfitId"`
	Date     string  `json:"date"`
	Note     *string `json:"note"`
}

type scheduleUpdateReq struct {
	OutfitID *uint64         `json:"outfitId"`
	Date     *string         `json:"date"`
	Note     json.RawMessage `json:"note"`
}

// Create assigns an owned outfit to a calendar date. One schedule per
// user per date; the second write for a date conflicts.
func (h *ScheduleHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req scheduleCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.OutfitID == 0 || strings.TrimSpace(req.Date) == "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "outfitId and date are required"})
	}
	date, err := model.ParseDateOnly(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	sched, err := h.Schedules.Create(ctx, uid, req.OutfitID, date, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrOutfitNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "outfit not found"})
		case errors.Is(err, repository.ErrDateTaken):
			return c.JSON(http.StatusConflict, echo.Map{"error": "an outfit is already scheduled for this date"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create schedule failed"})
	}

	if h.Publish != nil {
		event := queue.OutfitScheduledEvent{
			ScheduleID:  sched.ID,
			UserID:      sched.UserID,
			OutfitID:    sched.OutfitID,
			WearDate:    sched.Date.String(),
			ScheduledAt: time.Now().UTC().Format(time.RFC3339),
		}
		if sched.Outfit != nil {
			event.OutfitName = sched.Outfit.Name
		}
		if sched.Note != nil {
			event.Note = *sched.Note
		}
		go func() {
			pctx, pcancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer pcancel()
			_ = h.Publish(pctx, event)
		}()
	}
	return c.JSON(http.StatusCreated, sched)
}

// List returns the caller's schedules ordered by date, bounded by the
// optional inclusive from/to query parameters.
func (h *ScheduleHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var from, to *model.DateOnly
	if v := strings.TrimSpace(c.QueryParam("from")); v != "" {
		d, err := model.ParseDateOnly(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from date"})
		}
		from = &d
	}
	if v := strings.TrimSpace(c.QueryParam("to")); v != "" {
		d, err := model.ParseDateOnly(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid to date"})
		}
		to = &d
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	schedules, err := h.Schedules.List(ctx, uid, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list schedules failed"})
	}
	return c.JSON(http.StatusOK, schedules)
}

// Get returns one owned schedule with its outfit.
func (h *ScheduleHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	sched, err := h.Schedules.GetByID(ctx, uid, id)
	if err != nil {
		if errors.Is(err, repository.ErrScheduleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load schedule failed"})
	}
	return c.JSON(http.StatusOK, sched)
}

// Update moves a schedule to another outfit, date or note. Moving onto
// an occupied date conflicts the same way Create does.
func (h *ScheduleHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}
	var req scheduleUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	var upd repository.ScheduleUpdate
	upd.OutfitID = req.OutfitID
	if req.Date != nil {
		d, err := model.ParseDateOnly(*req.Date)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
		}
		upd.Date = &d
	}
	if set, v, err := optionalString(req.Note); err == nil && set {
		upd.NoteSet = true
		upd.Note = v
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	sched, err := h.Schedules.Update(ctx, uid, id, upd)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrScheduleNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
		case errors.Is(err, repository.ErrOutfitNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "outfit not found"})
		case errors.Is(err, repository.ErrDateTaken):
			return c.JSON(http.StatusConflict, echo.Map{"error": "an outfit is already scheduled for this date"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update schedule failed"})
	}
	return c.JSON(http.StatusOK, sched)
}

// Delete removes one owned schedule.
func (h *ScheduleHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Schedules.Delete(ctx, uid, id); err != nil {
		if errors.Is(err, repository.ErrScheduleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete schedule failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "schedule deleted"})
}
