package handler // handler defines http handlers

import (
	"errors"  // errors provides sentinel values used in getStaffID
	"strconv" // strconv converts strings to numeric types

	"github.com/iliyamo/arcade-wallet/internal/ledger" // ledger defines the actor identity recorded on txns
	"github.com/labstack/echo/v4"                      // echo defines request context types
)

// getStaffID extracts the staff_id set by the JWT middleware and
// converts it to uint64.  JWT numeric claims arrive as float64.
func getStaffID(c echo.Context) (uint64, error) {
	v := c.Get("staff_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid staff_id in context")
}

// getStaffUsername extracts the username claim stored by the JWT
// middleware.  Returns an empty string when absent.
func getStaffUsername(c echo.Context) string {
	if v, ok := c.Get("username").(string); ok {
		return v
	}
	return ""
}

// staffActor builds the actor identity recorded on ledger rows from
// whatever the authentication middleware stored in the context.
func staffActor(c echo.Context) (ledger.Actor, error) {
	id, err := getStaffID(c)
	if err != nil {
		return ledger.Actor{}, err
	}
	username := getStaffUsername(c)
	actor := ledger.Actor{Type: "STAFF", ID: &id}
	if username != "" {
		actor.Username = &username
	}
	return actor, nil
}
