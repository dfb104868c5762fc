package controllers

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseMenuQuery_Defaults(t *testing.T) {
	q, err := parseMenuQuery(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, defaultPageSize, q.Limit)
	assert.Empty(t, q.Search)
	assert.Empty(t, q.Type)
	assert.Empty(t, q.Categories)
}

func TestParseMenuQuery_ClampsLimit(t *testing.T) {
	q, err := parseMenuQuery(url.Values{"limit": {"500"}})
	require.NoError(t, err)
	assert.Equal(t, maxPageSize, q.Limit)

	q, err = parseMenuQuery(url.Values{"limit": {"0"}})
	require.NoError(t, err)
	assert.Equal(t, 1, q.Limit)

	q, err = parseMenuQuery(url.Values{"limit": {"-3"}})
	require.NoError(t, err)
	assert.Equal(t, 1, q.Limit)
}

func TestParseMenuQuery_IgnoresBadPage(t *testing.T) {
	q, err := parseMenuQuery(url.Values{"page": {"0"}})
	require.NoError(t, err)
	assert.Equal(t, 1, q.Page)

	q, err = parseMenuQuery(url.Values{"page": {"banana"}})
	require.NoError(t, err)
	assert.Equal(t, 1, q.Page)
}

func TestParseMenuQuery_CapsSearchLength(t *testing.T) {
	long := strings.Repeat("a", 250)
	q, err := parseMenuQuery(url.Values{"search": {long}})
	require.NoError(t, err)
	assert.Len(t, q.Search, maxSearchLength)
}

func TestParseMenuQuery_TypeValidation(t *testing.T) {
	q, err := parseMenuQuery(url.Values{"type": {"VEG"}})
	require.NoError(t, err)
	assert.Equal(t, "veg", q.Type)

	_, err = parseMenuQuery(url.Values{"type": {"vegan"}})
	assert.Error(t, err)
}

func TestParseMenuQuery_CategoryListValidation(t *testing.T) {
	q, err := parseMenuQuery(url.Values{"category": {"snack, beverage"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Snack", "Beverage"}, q.Categories)

	_, err = parseMenuQuery(url.Values{"category": {"Snack,Midnight"}})
	assert.Error(t, err)
}

func TestMenuFilter_EscapesRegexMetacharacters(t *testing.T) {
	q := menuQuery{Page: 1, Limit: 20, Search: "a.c*"}
	filter := q.filter(false)

	re, ok := filter["name"].(primitive.Regex)
	require.True(t, ok)
	assert.Equal(t, `a\.c\*`, re.Pattern)
	assert.Equal(t, "i", re.Options)
}

func TestMenuFilter_ConjunctiveCategories(t *testing.T) {
	q := menuQuery{Page: 1, Limit: 20, Categories: []string{"Snack", "Beverage"}}
	filter := q.filter(false)

	cats, ok := filter["categories"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, []string{"Snack", "Beverage"}, cats["$all"])
}

func TestMenuFilter_DeletedScope(t *testing.T) {
	q := menuQuery{Page: 1, Limit: 20}
	assert.Equal(t, false, q.filter(false)["is_deleted"])
	assert.Equal(t, true, q.filter(true)["is_deleted"])
}

func TestMenuQuery_PageClamping(t *testing.T) {
	q := menuQuery{Page: 10, Limit: 20}
	total := q.totalPages(45) // 3 pages of 20
	assert.Equal(t, 3, total)

	q.clampPage(total)
	assert.Equal(t, 3, q.Page)

	// An empty result set has no last page to clamp to; the page passes
	// through and the listing comes back empty.
	q = menuQuery{Page: 7, Limit: 20}
	q.clampPage(q.totalPages(0))
	assert.Equal(t, 7, q.Page)
}
