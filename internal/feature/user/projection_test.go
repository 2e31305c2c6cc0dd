package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"go-gin-mongo-users/internal/domain"
)

func TestBuildProjectionBasic(t *testing.T) {
	for _, mode := range []Visibility{VisibilityBasic, ""} {
		proj, err := BuildProjection(mode, "")
		require.NoError(t, err)
		for _, f := range hiddenFields {
			assert.Equal(t, 0, proj[f], "mode %q must exclude %s", mode, f)
		}
		assert.Len(t, proj, len(hiddenFields))
	}
}

func TestBuildProjectionAdmin(t *testing.T) {
	proj, err := BuildProjection(VisibilityAdmin, "")
	require.NoError(t, err)
	assert.Equal(t, bson.M{"__v": 0}, proj, "admin sees everything but the version marker")
}

func TestBuildProjectionCustom(t *testing.T) {
	proj, err := BuildProjection(VisibilityCustom, "name, email")
	require.NoError(t, err)

	assert.Equal(t, 1, proj["name"])
	assert.Equal(t, 1, proj["email"])
	// 未请求的隐藏字段保持排除
	assert.Equal(t, 0, proj["__v"])
	assert.Equal(t, 0, proj["emailLower"])
}

func TestBuildProjectionCustomFallsBackWithoutFields(t *testing.T) {
	proj, err := BuildProjection(VisibilityCustom, "")
	require.NoError(t, err)
	for _, f := range hiddenFields {
		assert.Equal(t, 0, proj[f])
	}
}

func TestBuildProjectionCustomRejectsUnknownFields(t *testing.T) {
	_, err := BuildProjection(VisibilityCustom, "name,passwordHash,secret")

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.ElementsMatch(t, []string{"passwordHash", "secret"}, ve.Invalid)
	assert.Contains(t, ve.Allowed, "name")
	assert.Contains(t, ve.Allowed, "emailLower", "allowed set is basic ∪ admin")
	assert.NotContains(t, ve.Allowed, "__v")
}

func TestBuildProjectionRejectsUnknownMode(t *testing.T) {
	_, err := BuildProjection("owner", "")
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"owner"}, ve.Invalid)
}
