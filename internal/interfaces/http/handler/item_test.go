package handler_test

import (
	"net/http"
	"testing"

	catalogapp "github.com/library/backend/internal/application/catalog"
	"github.com/library/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemHandler_CRUD(t *testing.T) {
	api := testutil.NewTestAPI(t)

	created := api.CreateItem(t, "B-001")
	assert.Equal(t, "B-001", created.Code)
	assert.Equal(t, "available", created.State)

	w := api.Do(t, http.MethodGet, "/api/v1/items/"+created.ID.String(), nil)
	testutil.RequireStatus(t, w, http.StatusOK)
	assert.Equal(t, created.ID, testutil.Decode[catalogapp.ItemResponse](t, w).Data.ID)

	w = api.Do(t, http.MethodPut, "/api/v1/items/"+created.ID.String(), catalogapp.UpdateItemRequest{
		Code:    "B-001",
		Title:   "Dune",
		Creator: "Frank Herbert",
	})
	testutil.RequireStatus(t, w, http.StatusOK)
	updated := testutil.Decode[catalogapp.ItemResponse](t, w).Data
	assert.Equal(t, "Dune", updated.Title)
	assert.Equal(t, "Frank Herbert", updated.Creator)

	w = api.Do(t, http.MethodDelete, "/api/v1/items/"+created.ID.String(), nil)
	testutil.RequireStatus(t, w, http.StatusNoContent)

	w = api.Do(t, http.MethodGet, "/api/v1/items/"+created.ID.String(), nil)
	testutil.AssertErrorResponse(t, w, http.StatusNotFound, "NOT_FOUND")
}

func TestItemHandler_List(t *testing.T) {
	api := testutil.NewTestAPI(t)
	api.CreateItem(t, "C-003")
	api.CreateItem(t, "A-001")
	api.CreateItem(t, "B-002")

	w := api.Do(t, http.MethodGet, "/api/v1/items", nil)
	testutil.RequireStatus(t, w, http.StatusOK)
	env := testutil.Decode[[]catalogapp.ItemResponse](t, w)
	require.Len(t, env.Data, 3)
	assert.Equal(t, "A-001", env.Data[0].Code)
	assert.Nil(t, env.Meta)

	w = api.Do(t, http.MethodGet, "/api/v1/items?page=2&page_size=2", nil)
	testutil.RequireStatus(t, w, http.StatusOK)
	env = testutil.Decode[[]catalogapp.ItemResponse](t, w)
	require.Len(t, env.Data, 1)
	assert.Equal(t, "C-003", env.Data[0].Code)
	require.NotNil(t, env.Meta)
	assert.Equal(t, 2, env.Meta.Page)
	assert.Equal(t, 2, env.Meta.PageSize)
	assert.Equal(t, 1, env.Meta.Count)

	w = api.Do(t, http.MethodGet, "/api/v1/items?page_size=0&page=-1", nil)
	errInfo := testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "VALIDATION_ERROR")
	assert.Equal(t, "page", errInfo.Details[0].Field)
}

func TestItemHandler_Errors(t *testing.T) {
	api := testutil.NewTestAPI(t)
	api.CreateItem(t, "B-001")

	t.Run("duplicate code", func(t *testing.T) {
		w := api.Do(t, http.MethodPost, "/api/v1/items", catalogapp.CreateItemRequest{
			Code: "B-001", Title: "Other", Creator: "Someone",
		})
		testutil.AssertErrorResponse(t, w, http.StatusConflict, "DUPLICATE_CODE")
	})

	t.Run("missing fields", func(t *testing.T) {
		w := api.Do(t, http.MethodPost, "/api/v1/items", map[string]string{"code": "X"})
		errInfo := testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "VALIDATION_ERROR")
		fields := make([]string, 0, len(errInfo.Details))
		for _, d := range errInfo.Details {
			fields = append(fields, d.Field)
		}
		assert.ElementsMatch(t, []string{"title", "creator"}, fields)
		assert.NotEmpty(t, errInfo.RequestID)
	})

	t.Run("malformed json", func(t *testing.T) {
		w := api.Do(t, http.MethodPost, "/api/v1/items", `{"code":`)
		testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "INVALID_JSON")
	})

	t.Run("id that is not a uuid", func(t *testing.T) {
		w := api.Do(t, http.MethodGet, "/api/v1/items/42", nil)
		testutil.AssertErrorResponse(t, w, http.StatusNotFound, "NOT_FOUND")
	})

	t.Run("unknown id", func(t *testing.T) {
		w := api.Do(t, http.MethodDelete, "/api/v1/items/"+testutil.NewTestUUID("missing").String(), nil)
		testutil.AssertErrorResponse(t, w, http.StatusNotFound, "NOT_FOUND")
	})
}

func TestItemHandler_AvailabilityAndInUse(t *testing.T) {
	api := testutil.NewTestAPI(t)
	item := api.CreateItem(t, "B-001")
	member := api.RegisterMember(t, "Ada", "P-1")

	availability := func() bool {
		w := api.Do(t, http.MethodGet, "/api/v1/items/"+item.ID.String()+"/availability", nil)
		testutil.RequireStatus(t, w, http.StatusOK)
		return testutil.Decode[catalogapp.AvailabilityResponse](t, w).Data.Available
	}

	assert.True(t, availability())
	api.CreateLoan(t, item, member, "2024-03-01", "2024-03-15")
	assert.False(t, availability())

	w := api.Do(t, http.MethodDelete, "/api/v1/items/"+item.ID.String(), nil)
	testutil.AssertErrorResponse(t, w, http.StatusConflict, "ITEM_IN_USE")

	w = api.Do(t, http.MethodGet, "/api/v1/items/"+testutil.NewTestUUID("missing").String()+"/availability", nil)
	testutil.AssertErrorResponse(t, w, http.StatusNotFound, "NOT_FOUND")
}
