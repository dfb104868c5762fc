package controllers

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-foodorder/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	maxSearchLength = 100
)

// menuQuery is a parsed, validated catalog listing request.
type menuQuery struct {
	Page       int
	Limit      int
	Search     string
	Type       string
	Categories []string
}

// parseMenuQuery validates and clamps the listing parameters. Type and
// category values outside their enums are rejected; page, limit, and search
// are clamped rather than rejected.
func parseMenuQuery(values url.Values) (menuQuery, error) {
	q := menuQuery{Page: 1, Limit: defaultPageSize}

	if raw := values.Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 1 {
			q.Page = n
		}
	}
	if raw := values.Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			switch {
			case n < 1:
				q.Limit = 1
			case n > maxPageSize:
				q.Limit = maxPageSize
			default:
				q.Limit = n
			}
		}
	}

	q.Search = strings.TrimSpace(values.Get("search"))
	if len(q.Search) > maxSearchLength {
		q.Search = q.Search[:maxSearchLength]
	}

	if raw := values.Get("type"); raw != "" {
		t := strings.ToLower(strings.TrimSpace(raw))
		if !models.ValidFoodType(t) {
			return q, fmt.Errorf("unknown type: %s", raw)
		}
		q.Type = t
	}

	if raw := values.Get("category"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			c := models.NormalizeCategory(part)
			if c == "" {
				continue
			}
			if !models.ValidCategory(c) {
				return q, fmt.Errorf("unknown category: %s", strings.TrimSpace(part))
			}
			q.Categories = append(q.Categories, c)
		}
	}
	return q, nil
}

// filter builds the mongo filter for this query. Search is a literal
// case-insensitive substring match; categories are conjunctive, so an item
// must carry every requested category.
func (q menuQuery) filter(deleted bool) bson.M {
	m := bson.M{"is_deleted": deleted}
	if q.Search != "" {
		m["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
	}
	if q.Type != "" {
		m["type"] = q.Type
	}
	if len(q.Categories) > 0 {
		m["categories"] = bson.M{"$all": q.Categories}
	}
	return m
}

// clampPage pulls an out-of-range page back to the last real page instead of
// erroring. totalPages of zero leaves page 1 so an empty listing is returned.
func (q *menuQuery) clampPage(totalPages int) {
	if totalPages > 0 && q.Page > totalPages {
		q.Page = totalPages
	}
}

// totalPages computes the page count for a result set of the given size.
func (q menuQuery) totalPages(totalItems int64) int {
	return int((totalItems + int64(q.Limit) - 1) / int64(q.Limit))
}
