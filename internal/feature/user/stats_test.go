package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestStatsPipelineShape(t *testing.T) {
	p := statsPipeline()
	require.Len(t, p, 2, "one $match followed by one $facet")

	assert.Equal(t, bson.M{"isDeleted": false}, p[0]["$match"])

	facet, ok := p[1]["$facet"].(bson.M)
	require.True(t, ok)
	assert.Contains(t, facet, "summary")
	assert.Contains(t, facet, "byAgeRange")
	assert.Contains(t, facet, "byCreatedMonth")

	bucket := facet["byAgeRange"].([]bson.M)[0]["$bucket"].(bson.M)
	assert.Equal(t, bson.A{0, 18, 25, 35, 50, 120}, bucket["boundaries"])
	assert.Equal(t, "Others", bucket["default"])

	monthStages := facet["byCreatedMonth"].([]bson.M)
	require.Len(t, monthStages, 2)
	assert.Equal(t, bson.M{"_id": 1}, monthStages[1]["$sort"], "months come back chronologically ascending")
}
