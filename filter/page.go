// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package filter

import (
	"errors"
	"math"
	"net/url"
	"strconv"
)

// MaxOffset bounds the row offset a page number can reach. Pages past it
// are clamped to the last page under it, which is empty on any real roll.
const MaxOffset = math.MaxInt32

// Page is a resolved page/limit pair.
type Page struct {
	Page   int
	Limit  int
	Offset int
}

// ParsePage reads page and limit. Missing or invalid values fall back to
// page 1 and defaultLimit; limit is clamped to maxLimit and the offset to
// MaxOffset.
func ParsePage(values url.Values, defaultLimit, maxLimit int) Page {
	page, err := strconv.Atoi(values.Get("page"))
	if errors.Is(err, strconv.ErrRange) && page > 0 {
		page = math.MaxInt
	} else if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(values.Get("limit"))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if lastPage := MaxOffset/limit + 1; page > lastPage {
		page = lastPage
	}
	return Page{Page: page, Limit: limit, Offset: (page - 1) * limit}
}

// TotalPages is ceil(total/limit).
func TotalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
