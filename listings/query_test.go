package listings

import (
	"net/url"
	"testing"

	"nguza/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func compileQuery(t *testing.T, raw string) Query {
	t.Helper()
	values, err := url.ParseQuery(raw)
	require.NoError(t, err)
	return Compile(values)
}

// clauses flattens the compiled filter back into its predicate list so
// assertions do not depend on whether $and was needed.
func clauses(f bson.M) []bson.M {
	if and, ok := f["$and"].([]bson.M); ok {
		return and
	}
	if len(f) == 0 {
		return nil
	}
	return []bson.M{f}
}

func findClause(f bson.M, key string) (interface{}, bool) {
	for _, c := range clauses(f) {
		if v, ok := c[key]; ok {
			return v, true
		}
	}
	return nil, false
}

func TestCompileDefaults(t *testing.T) {
	q := compileQuery(t, "")

	// An empty query still filters to active listings.
	v, ok := findClause(q.Filter, "status")
	require.True(t, ok)
	assert.Equal(t, models.StatusActive, v)

	assert.Equal(t, int64(defaultLimit), q.Limit)
	assert.Equal(t, int64(0), q.Skip)
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, q.Sort)
}

func TestCompileEqualityParams(t *testing.T) {
	q := compileQuery(t, "category=Crops&subCategory=Cereals&district=Mbale&cropType=Maize")

	for key, want := range map[string]string{
		"category":          "Crops",
		"subCategory":       "Cereals",
		"location.district": "Mbale",
		"details.cropType":  "Maize",
	} {
		v, ok := findClause(q.Filter, key)
		require.True(t, ok, key)
		assert.Equal(t, want, v, key)
	}
}

func TestCompileStatus(t *testing.T) {
	t.Run("explicit status", func(t *testing.T) {
		q := compileQuery(t, "status=sold")
		v, ok := findClause(q.Filter, "status")
		require.True(t, ok)
		assert.Equal(t, "sold", v)
	})

	t.Run("all drops the clause", func(t *testing.T) {
		q := compileQuery(t, "status=all")
		_, ok := findClause(q.Filter, "status")
		assert.False(t, ok)
	})
}

func TestPublicStatusOverrideForcedActive(t *testing.T) {
	// Public responses are cached by URL alone, so the compiled query must
	// not depend on the caller: every status override collapses to active.
	for _, raw := range []string{"status=suspended", "status=sold", "status=all"} {
		values, err := url.ParseQuery(raw)
		require.NoError(t, err)
		q := Compile(forceActiveStatus(values))
		v, ok := findClause(q.Filter, "status")
		require.True(t, ok, raw)
		assert.Equal(t, models.StatusActive, v, raw)
	}

	t.Run("absent status untouched, still defaults to active", func(t *testing.T) {
		q := Compile(forceActiveStatus(url.Values{}))
		v, ok := findClause(q.Filter, "status")
		require.True(t, ok)
		assert.Equal(t, models.StatusActive, v)
	})
}

func TestCompilePriceRange(t *testing.T) {
	t.Run("both bounds in one clause", func(t *testing.T) {
		q := compileQuery(t, "minPrice=100&maxPrice=500")
		v, ok := findClause(q.Filter, "regularPrice")
		require.True(t, ok)
		rangeClause, ok := v.(bson.M)
		require.True(t, ok)
		assert.Equal(t, float64(100), rangeClause["$gte"])
		assert.Equal(t, float64(500), rangeClause["$lte"])
	})

	t.Run("single bound", func(t *testing.T) {
		q := compileQuery(t, "minPrice=250")
		v, ok := findClause(q.Filter, "regularPrice")
		require.True(t, ok)
		rangeClause := v.(bson.M)
		assert.Equal(t, float64(250), rangeClause["$gte"])
		_, hasLte := rangeClause["$lte"]
		assert.False(t, hasLte)
	})

	t.Run("malformed bound is a no-op", func(t *testing.T) {
		q := compileQuery(t, "minPrice=cheap")
		_, ok := findClause(q.Filter, "regularPrice")
		assert.False(t, ok)
	})
}

func TestCompileOrganic(t *testing.T) {
	q := compileQuery(t, "organic=true")
	v, ok := findClause(q.Filter, "details.organic")
	require.True(t, ok)
	assert.Equal(t, true, v)

	// Anything but the literal "true" means no organic clause at all.
	for _, raw := range []string{"organic=false", "organic=1", "organic=yes"} {
		q := compileQuery(t, raw)
		_, ok := findClause(q.Filter, "details.organic")
		assert.False(t, ok, raw)
	}
}

func TestCompileBrandAliases(t *testing.T) {
	q := compileQuery(t, "brand=Yara")
	v, ok := findClause(q.Filter, "$or")
	require.True(t, ok)
	ors, ok := v.([]bson.M)
	require.True(t, ok)
	require.Len(t, ors, len(brandAliasFields))

	fields := make([]string, 0, len(ors))
	for _, clause := range ors {
		for field := range clause {
			fields = append(fields, field)
		}
	}
	assert.ElementsMatch(t, brandAliasFields, fields)
}

func TestCompileBrandNeverClobbersOtherClauses(t *testing.T) {
	// The brand OR-group and every other predicate must all survive in the
	// combined filter.
	q := compileQuery(t, "brand=Yara&category=Inputs&district=Gulu&organic=true&minPrice=100")

	for _, key := range []string{"$or", "category", "location.district", "details.organic", "regularPrice", "status"} {
		_, ok := findClause(q.Filter, key)
		assert.True(t, ok, key)
	}
	// Six predicates means the combiner had to use $and.
	assert.Len(t, clauses(q.Filter), 6)
}

func TestCompileSearchRelevance(t *testing.T) {
	t.Run("search adds text clause and relevance sort", func(t *testing.T) {
		q := compileQuery(t, "search=maize")
		v, ok := findClause(q.Filter, "$text")
		require.True(t, ok)
		assert.Equal(t, bson.M{"$search": "maize"}, v)

		require.Len(t, q.Sort, 1)
		assert.Equal(t, "score", q.Sort[0].Key)
		assert.NotNil(t, q.Projection)
	})

	t.Run("explicit sort wins over relevance", func(t *testing.T) {
		q := compileQuery(t, "search=maize&sort=-regularPrice")
		assert.Equal(t, bson.D{{Key: "regularPrice", Value: -1}}, q.Sort)
		assert.Nil(t, q.Projection)
	})
}

func TestCompileSort(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "regularPrice", Value: 1}}, compileQuery(t, "sort=regularPrice").Sort)
	assert.Equal(t, bson.D{{Key: "views", Value: -1}}, compileQuery(t, "sort=-views").Sort)
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, compileQuery(t, "sort=-").Sort)
}

func TestCompilePagination(t *testing.T) {
	q := compileQuery(t, "limit=50&skip=100")
	assert.Equal(t, int64(50), q.Limit)
	assert.Equal(t, int64(100), q.Skip)

	q = compileQuery(t, "limit=5000")
	assert.Equal(t, int64(maxLimit), q.Limit)

	q = compileQuery(t, "limit=abc&skip=-3")
	assert.Equal(t, int64(defaultLimit), q.Limit)
	assert.Equal(t, int64(0), q.Skip)
}

func TestCompileDeterministic(t *testing.T) {
	raw := "category=Crops&district=Mbale&minPrice=100&organic=true&brand=Yara&search=maize&limit=20"
	a := compileQuery(t, raw)
	b := compileQuery(t, raw)
	assert.Equal(t, a, b)
}

func TestRegexEscape(t *testing.T) {
	assert.Equal(t, `John Deere`, regexEscape("John Deere"))
	assert.Equal(t, `N\.P\.K \(50kg\)`, regexEscape("N.P.K (50kg)"))
	assert.Equal(t, `a\+b\*c`, regexEscape("a+b*c"))
}
