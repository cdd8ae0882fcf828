package listings

import (
	"net/url"
	"strconv"
	"strings"

	"nguza/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Query is a compiled listing search: a Mongo filter, a sort spec, an
// optional projection, and pagination offsets.
type Query struct {
	Filter     bson.M
	Sort       bson.D
	Projection bson.M
	Skip       int64
	Limit      int64
}

const (
	defaultLimit = 12
	maxLimit     = 100
)

// brand matches across the alias fields used by the different categories.
var brandAliasFields = []string{
	"details.brand",
	"details.variety",
	"details.breed",
	"details.productName",
}

// Compile deterministically maps the flat query parameters onto a Query.
// The filter is built as a list of predicate clauses combined with AND; a
// clause needing internal OR-semantics (brand aliases) is one opaque
// predicate in that list, so clauses never clobber each other's operators.
// Malformed numeric parameters degrade to no-ops, never errors.
func Compile(values url.Values) Query {
	var preds []bson.M
	add := func(p bson.M) { preds = append(preds, p) }

	eq := func(param, field string) {
		if v := values.Get(param); v != "" {
			add(bson.M{field: v})
		}
	}

	eq("category", "category")
	eq("subCategory", "subCategory")
	eq("district", "location.district")
	eq("subcounty", "location.subcounty")
	eq("parish", "location.parish")
	eq("cropType", "details.cropType")
	eq("animalType", "details.animalType")
	eq("unit", "details.unit")

	// Only the literal "true" selects organic listings; anything else is
	// ignored rather than meaning "not organic".
	if values.Get("organic") == "true" {
		add(bson.M{"details.organic": true})
	}

	priceRange := bson.M{}
	if v, ok := parseFloat(values.Get("minPrice")); ok {
		priceRange["$gte"] = v
	}
	if v, ok := parseFloat(values.Get("maxPrice")); ok {
		priceRange["$lte"] = v
	}
	if len(priceRange) > 0 {
		add(bson.M{"regularPrice": priceRange})
	}

	if v, ok := parseFloat(values.Get("minQuantity")); ok {
		add(bson.M{"details.quantity": bson.M{"$gte": v}})
	}

	if brand := values.Get("brand"); brand != "" {
		ors := make([]bson.M, 0, len(brandAliasFields))
		for _, field := range brandAliasFields {
			ors = append(ors, bson.M{field: bson.M{
				"$regex": primitive.Regex{Pattern: regexEscape(brand), Options: "i"},
			}})
		}
		add(bson.M{"$or": ors})
	}

	search := values.Get("search")
	if search != "" {
		add(bson.M{"$text": bson.M{"$search": search}})
	}

	// Status defaults to active; admin views override it explicitly, and
	// "all" drops the predicate entirely.
	status := values.Get("status")
	switch status {
	case "":
		add(bson.M{"status": models.StatusActive})
	case "all":
	default:
		add(bson.M{"status": status})
	}

	q := Query{Filter: combine(preds)}

	sortParam := values.Get("sort")
	if search != "" && (sortParam == "" || sortParam == "relevance") {
		// Text search without an explicit sort falls back to relevance.
		q.Sort = bson.D{{Key: "score", Value: bson.M{"$meta": "textScore"}}}
		q.Projection = bson.M{"score": bson.M{"$meta": "textScore"}}
	} else {
		q.Sort = parseSort(sortParam)
	}

	q.Limit = defaultLimit
	if l, err := strconv.ParseInt(values.Get("limit"), 10, 64); err == nil && l > 0 {
		q.Limit = l
	}
	if q.Limit > maxLimit {
		q.Limit = maxLimit
	}
	if s, err := strconv.ParseInt(values.Get("skip"), 10, 64); err == nil && s > 0 {
		q.Skip = s
	}

	return q
}

// combine ANDs the predicate clauses without ever mutating a clause's own
// operators. Zero clauses means match-all; one clause is used as-is.
func combine(preds []bson.M) bson.M {
	switch len(preds) {
	case 0:
		return bson.M{}
	case 1:
		return preds[0]
	default:
		return bson.M{"$and": preds}
	}
}

func parseSort(sortParam string) bson.D {
	field := strings.TrimSpace(sortParam)
	dir := 1
	if strings.HasPrefix(field, "-") {
		dir = -1
		field = field[1:]
	}
	if field == "" || field == "relevance" {
		return bson.D{{Key: "createdAt", Value: -1}}
	}
	return bson.D{{Key: field, Value: dir}}
}

func parseFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

var regexSpecials = "\\.+*?()|[]{}^$"

// regexEscape quotes user input so a brand filter is a substring match, not
// an arbitrary pattern.
func regexEscape(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(regexSpecials, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
