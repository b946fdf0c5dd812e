package utils

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// Pagination carries the parsed page/limit/sort parameters of a list request.
type Pagination struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// ParsePagination reads page, limit, sortBy and sortOrder query parameters.
// sortBy is matched against the allowed column whitelist; anything else falls
// back to defaultSort so user input never reaches the ORDER BY clause raw.
func ParsePagination(c *gin.Context, allowedSort map[string]bool, defaultSort string) Pagination {
	p := Pagination{
		Page:      parsePositive(c.Query("page"), 1),
		Limit:     parsePositive(c.Query("limit"), 20),
		SortBy:    defaultSort,
		SortOrder: "DESC",
	}
	if p.Limit > 100 {
		p.Limit = 100
	}

	sortBy := strings.ToLower(strings.TrimSpace(c.Query("sortBy")))
	if allowedSort[sortBy] {
		p.SortBy = sortBy
	}

	if strings.ToUpper(strings.TrimSpace(c.Query("sortOrder"))) == "ASC" {
		p.SortOrder = "ASC"
	}

	return p
}

// Offset returns the row offset for the current page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Order returns the SQL ORDER BY expression.
func (p Pagination) Order() string {
	return p.SortBy + " " + p.SortOrder
}

func parsePositive(q string, def int) int {
	if q == "" {
		return def
	}
	n, err := strconv.Atoi(q)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
