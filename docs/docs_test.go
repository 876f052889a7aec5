package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwaggerInfo(t *testing.T) {
	require.NotNil(t, SwaggerInfo)
	assert.NotEmpty(t, SwaggerInfo.Title)

	var doc struct {
		Paths map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(SwaggerInfo.ReadDoc()), &doc))
	assert.Contains(t, doc.Paths, "/bookings")
	assert.Contains(t, doc.Paths, "/gym/subscriptions")
}
