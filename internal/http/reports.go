package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/jobpulse/jobpulse/internal/model"
	"github.com/jobpulse/jobpulse/internal/repository"
)

func listAttemptsHandler(attempts repository.AttemptsRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		limit := 50
		offset := 0
		if v := c.QueryParam("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
				limit = n
			}
		}
		if v := c.QueryParam("offset"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				offset = n
			}
		}

		kind := ""
		if raw := strings.TrimSpace(c.QueryParam("kind")); raw != "" {
			if k, ok := model.ParseKind(raw); ok {
				kind = k.String()
			}
		}

		status := strings.TrimSpace(c.QueryParam("status"))
		if status != "sent" && status != "failed" {
			status = ""
		}

		rows, err := attempts.List(c.Request().Context(), kind, status, limit, offset)
		if err != nil {
			c.Logger().Errorf("attempts list failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "query failed"})
		}

		return c.JSON(http.StatusOK, map[string]any{
			"limit":   limit,
			"offset":  offset,
			"count":   len(rows),
			"results": rows,
		})
	}
}
