package handlers

import (
	"net/http"
	"strconv"

	"github.com/aieng/conversations-api/internal/api"
	"github.com/aieng/conversations-api/internal/services"
	"github.com/aieng/conversations-api/internal/validation"
)

const (
	defaultListLimit = 50
	maxListLimit     = 100
)

// parseListQuery parses and validates the shared limit/offset/order_by
// query parameters. Violations collect into field-level issues and the
// request fails with 422 before any repository call. Returns false after
// writing the error response.
func parseListQuery(w http.ResponseWriter, r *http.Request, allowedOrderBy []string) (services.ListParams, bool) {
	params := services.ListParams{
		Limit:   defaultListLimit,
		Offset:  0,
		OrderBy: "created_at_desc",
	}
	issues := make([]api.ValidationIssue, 0)

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxListLimit {
			issues = append(issues, api.ValidationIssue{
				Field:   "limit",
				Message: "must be an integer between 1 and 100",
			})
		} else {
			params.Limit = limit
		}
	}

	if raw := r.URL.Query().Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			issues = append(issues, api.ValidationIssue{
				Field:   "offset",
				Message: "must be a non-negative integer",
			})
		} else {
			params.Offset = offset
		}
	}

	if raw := r.URL.Query().Get("order_by"); raw != "" {
		if !validation.IsAllowedOrderBy(raw, allowedOrderBy) {
			issues = append(issues, api.ValidationIssue{
				Field:   "order_by",
				Message: "unrecognized sort order",
			})
		} else {
			params.OrderBy = raw
		}
	}

	if len(issues) > 0 {
		api.WriteError(w, http.StatusUnprocessableEntity, "Request validation failed", issues)
		return services.ListParams{}, false
	}
	return params, true
}
