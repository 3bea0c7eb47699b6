package params

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// QueryParams holds common list parameters parsed from the query string.
type QueryParams struct {
	Page  int
	Limit int
	Sort  string
	Order string
}

func FromContext(c echo.Context) QueryParams {
	p := QueryParams{
		Page:  1,
		Limit: 50,
		Sort:  c.QueryParam("sort"),
		Order: c.QueryParam("order"),
	}
	if page, err := strconv.Atoi(c.QueryParam("page")); err == nil && page > 0 {
		p.Page = page
	}
	if limit, err := strconv.Atoi(c.QueryParam("limit")); err == nil && limit > 0 && limit <= 200 {
		p.Limit = limit
	}
	if p.Order != "asc" && p.Order != "desc" {
		p.Order = "asc"
	}
	return p
}

func (p QueryParams) Offset() int {
	return (p.Page - 1) * p.Limit
}
