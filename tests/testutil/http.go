package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	catalogapp "github.com/library/backend/internal/application/catalog"
	lendingapp "github.com/library/backend/internal/application/lending"
	membershipapp "github.com/library/backend/internal/application/membership"
	"github.com/library/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Envelope is dto.Response with a typed data field
type Envelope[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data"`
	Error   *dto.ErrorInfo `json:"error"`
	Meta    *dto.Meta      `json:"meta"`
}

// Do sends a request as the librarian. body is encoded as JSON unless nil.
func (a *TestAPI) Do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return a.DoWithToken(t, a.Token, method, path, body)
}

// DoAnonymous sends a request without a bearer token
func (a *TestAPI) DoAnonymous(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return a.DoWithToken(t, "", method, path, body)
}

// DoWithToken sends a request with the given bearer token
func (a *TestAPI) DoWithToken(t *testing.T, token, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		if raw, ok := body.(string); ok {
			reader = bytes.NewBufferString(raw)
		} else {
			data, err := json.Marshal(body)
			require.NoError(t, err, "Failed to marshal request body")
			reader = bytes.NewReader(data)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.Engine.ServeHTTP(w, req)
	return w
}

// Decode parses a response envelope
func Decode[T any](t *testing.T, w *httptest.ResponseRecorder) Envelope[T] {
	t.Helper()

	var env Envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "Failed to parse JSON response: %s", w.Body.String())
	return env
}

// RequireStatus fails the test when the response status differs
func RequireStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, w.Code, "Unexpected status code, body: %s", w.Body.String())
}

// AssertErrorResponse asserts the response is an error API response with the
// given status and code
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, status int, code string) *dto.ErrorInfo {
	t.Helper()

	RequireStatus(t, w, status)
	env := Decode[json.RawMessage](t, w)
	assert.False(t, env.Success, "Expected success to be false")
	require.NotNil(t, env.Error, "Expected error object in response")
	assert.Equal(t, code, env.Error.Code, "Unexpected error code")
	return env.Error
}

// CreateItem adds an item through the API
func (a *TestAPI) CreateItem(t *testing.T, code string) catalogapp.ItemResponse {
	t.Helper()

	w := a.Do(t, http.MethodPost, "/api/v1/items", catalogapp.CreateItemRequest{
		Code:    code,
		Title:   "Title " + code,
		Creator: "Author " + code,
	})
	RequireStatus(t, w, http.StatusCreated)
	return Decode[catalogapp.ItemResponse](t, w).Data
}

// RegisterMember registers a member through the API
func (a *TestAPI) RegisterMember(t *testing.T, name, personalID string) membershipapp.MemberResponse {
	t.Helper()

	w := a.Do(t, http.MethodPost, "/api/v1/members", membershipapp.RegisterMemberRequest{
		Name:       name,
		PersonalID: personalID,
	})
	RequireStatus(t, w, http.StatusCreated)
	return Decode[membershipapp.MemberResponse](t, w).Data
}

// CreateLoan lends item to member through the API
func (a *TestAPI) CreateLoan(t *testing.T, item catalogapp.ItemResponse, member membershipapp.MemberResponse, start, due string) lendingapp.LoanResponse {
	t.Helper()

	w := a.Do(t, http.MethodPost, "/api/v1/loans", lendingapp.CreateLoanRequest{
		MemberID:  member.ID,
		ItemID:    item.ID,
		StartDate: start,
		DueDate:   due,
	})
	RequireStatus(t, w, http.StatusCreated)
	return Decode[lendingapp.LoanResponse](t, w).Data
}
