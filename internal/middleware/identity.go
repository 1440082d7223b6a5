package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// currentUserID returns a string identifier for the authenticated user, or
// "anon" when the request carries no token.  JWTAuth stores the subject
// claim untyped, so numeric and string subjects are both handled.
func currentUserID(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return fmt.Sprintf("%.0f", v)
	}
	return "anon"
}
