package validation

import (
	"strconv"
	"strings"

	"github.com/florify/florify/internal/server/models"
)

// ParsePage coerces raw page and limit query values. Absent, non-numeric,
// zero and negative values fall back to the defaults; limit is capped at
// models.MaxLimit. Page is capped at models.MaxPage so the offset never
// overflows.
func ParsePage(pageRaw, limitRaw string) models.Page {
	p := models.Page{
		Page:  positiveOr(pageRaw, models.DefaultPage),
		Limit: positiveOr(limitRaw, models.DefaultLimit),
	}
	if p.Limit > models.MaxLimit {
		p.Limit = models.MaxLimit
	}
	if maxPage := models.MaxPage(p.Limit); p.Page > maxPage {
		p.Page = maxPage
	}
	return p
}

func positiveOr(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
