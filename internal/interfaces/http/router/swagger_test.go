package router

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMountSwagger_ServesDocs(t *testing.T) {
	engine := gin.New()
	MountSwagger(engine)

	w := serve(engine, http.MethodGet, "/swagger/doc.json", "")
	require.Equal(t, http.StatusOK, w.Code)

	var doc struct {
		BasePath string                                `json:"basePath"`
		Info     struct{ Title string }                `json:"info"`
		Paths    map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, APIPrefix, doc.BasePath)
	assert.Equal(t, "Library Lending API", doc.Info.Title)

	documented := []struct{ path, method string }{
		{"/auth/login", "post"},
		{"/items/{id}/availability", "get"},
		{"/members", "post"},
		{"/loans", "post"},
		{"/loans/overdue", "get"},
		{"/loans/{id}/return", "put"},
		{"/loans/{id}/fines", "get"},
		{"/fines/{id}", "delete"},
	}
	for _, d := range documented {
		assert.Contains(t, doc.Paths[d.path], d.method, "%s %s", d.method, d.path)
	}
}
