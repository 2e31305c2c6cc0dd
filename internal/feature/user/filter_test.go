package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"go-gin-mongo-users/internal/domain"
)

func intPtr(n int) *int    { return &n }
func boolPtr(b bool) *bool { return &b }

func TestBuildFilter(t *testing.T) {
	tests := []struct {
		name           string
		preds          Predicates
		includeDeleted bool
		want           bson.M
	}{
		{
			name:  "no predicates defaults to active records",
			preds: Predicates{},
			want:  bson.M{"isDeleted": false},
		},
		{
			name:           "includeDeleted lifts the delete restriction",
			preds:          Predicates{},
			includeDeleted: true,
			want:           bson.M{},
		},
		{
			name:  "email substring is case-insensitive",
			preds: Predicates{Email: "x.com"},
			want: bson.M{
				"isDeleted": false,
				"email":     bson.M{"$regex": "x.com", "$options": "i"},
			},
		},
		{
			name:  "nameRegex wins over name substring",
			preds: Predicates{Name: NamePredicate{Regex: "^Jo.*n$", Substring: "john"}},
			want: bson.M{
				"isDeleted": false,
				"name":      bson.M{"$regex": "^Jo.*n$", "$options": "i"},
			},
		},
		{
			name:  "ageIn wins over ageNin and age",
			preds: Predicates{Age: AgePredicate{In: "18,25,40", NotIn: "30", Equals: intPtr(30)}},
			want: bson.M{
				"isDeleted": false,
				"age":       bson.M{"$in": []int{18, 25, 40}},
			},
		},
		{
			name:  "ageNin wins over age",
			preds: Predicates{Age: AgePredicate{NotIn: "1, 2", Equals: intPtr(30)}},
			want: bson.M{
				"isDeleted": false,
				"age":       bson.M{"$nin": []int{1, 2}},
			},
		},
		{
			name:  "plain age equality",
			preds: Predicates{Age: AgePredicate{Equals: intPtr(42)}},
			want:  bson.M{"isDeleted": false, "age": 42},
		},
		{
			name:  "hasPhone true wins over phone substring",
			preds: Predicates{Phone: PhonePredicate{Has: boolPtr(true), Substring: "555"}},
			want: bson.M{
				"isDeleted": false,
				"phone":     bson.M{"$exists": true, "$nin": bson.A{nil, ""}},
			},
		},
		{
			name:  "hasPhone false matches absent null or empty",
			preds: Predicates{Phone: PhonePredicate{Has: boolPtr(false)}},
			want: bson.M{
				"isDeleted": false,
				"$or": bson.A{
					bson.M{"phone": bson.M{"$exists": false}},
					bson.M{"phone": nil},
					bson.M{"phone": ""},
				},
			},
		},
		{
			name:  "phone substring when hasPhone absent",
			preds: Predicates{Phone: PhonePredicate{Substring: "555"}},
			want: bson.M{
				"isDeleted": false,
				"phone":     bson.M{"$regex": "555", "$options": "i"},
			},
		},
		{
			name:  "free text goes through $text",
			preds: Predicates{Text: "alice"},
			want: bson.M{
				"isDeleted": false,
				"$text":     bson.M{"$search": "alice"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildFilter(tt.preds, tt.includeDeleted)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildFilterRejectsBadIntegerLists(t *testing.T) {
	for _, spec := range []string{"18,abc,40", "x", "1,,3"} {
		_, err := BuildFilter(Predicates{Age: AgePredicate{In: spec}}, false)
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve, "ageIn=%q", spec)
		assert.NotEmpty(t, ve.Invalid)
	}

	_, err := BuildFilter(Predicates{Age: AgePredicate{NotIn: "5,five"}}, false)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Invalid, "five")
}
