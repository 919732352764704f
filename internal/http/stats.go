package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jobpulse/jobpulse/internal/quota"
	"github.com/jobpulse/jobpulse/internal/store"
)

func statsHandler(st *store.Store, qt *quota.Tracker) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"records": st.Statistics(),
			"quota":   qt.Statistics(),
		})
	}
}
