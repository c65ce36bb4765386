// Package handler contains the HTTP handlers. Handlers are thin: they
// parse and validate input, call a store or the suggestion engine, and
// map sentinel errors onto HTTP statuses.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/virtual-closet/internal/model"
)

// dbTimeout bounds every database call made on behalf of a request.
const dbTimeout = 5 * time.Second

// getUserID extracts the user_id placed in context by the JWT
// middleware.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// reqCtx derives a bounded context from the request.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// optionalString decodes a field that distinguishes three states:
// absent (set=false), explicit null (set=true, val=nil) and a string
// value. Absent fields leave the column untouched; null clears it.
func optionalString(raw json.RawMessage) (set bool, val *string, err error) {
	if raw == nil {
		return false, nil, nil
	}
	if string(raw) == "null" {
		return true, nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return false, nil, err
	}
	return true, &s, nil
}

// tagList decodes a tags field that may be a pre-split array or a
// comma-separated string. nil means the field was absent.
func tagList(raw json.RawMessage) []string {
	if raw == nil || string(raw) == "null" {
		return nil
	}
	var arr []string
	if err := json.Unmarshal(raw, &arr); err == nil {
		return model.CleanTags(arr)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return model.SplitTags(s)
	}
	return nil
}
