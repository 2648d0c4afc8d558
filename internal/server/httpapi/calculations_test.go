package httpapi

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createCalculation(t *testing.T, f *fixture, token string, calcType string, inputs []float64) calculationResponse {
	t.Helper()
	w := f.do(t, http.MethodPost, "/calculations", map[string]any{
		"type": calcType, "inputs": inputs,
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp calculationResponse
	decodeBody(t, w, &resp)
	return resp
}

func TestCreateCalculation_Success(t *testing.T) {
	f := newFixture(t)
	_, token := f.seedUser(t)

	resp := createCalculation(t, f, token, "division", []float64{100, 4, 5})

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "division", resp.Type)
	assert.Equal(t, 5.0, resp.Result)
}

func TestCreateCalculation_Rejections(t *testing.T) {
	f := newFixture(t)
	_, token := f.seedUser(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"unknown type", map[string]any{"type": "exponentiation", "inputs": []float64{1, 2}}},
		{"single input", map[string]any{"type": "addition", "inputs": []float64{1}}},
		{"division by zero", map[string]any{"type": "division", "inputs": []float64{10, 0}}},
		{"modulus by zero", map[string]any{"type": "modulus", "inputs": []float64{10, 0}}},
		{"missing inputs", map[string]any{"type": "addition"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(t, http.MethodPost, "/calculations", tt.body, token)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestCreateCalculation_RequiresAuth(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/calculations", map[string]any{
		"type": "addition", "inputs": []float64{1, 2},
	}, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListCalculations_OwnerScoped(t *testing.T) {
	f := newFixture(t)
	_, token := f.seedUser(t)
	createCalculation(t, f, token, "addition", []float64{1, 2})
	createCalculation(t, f, token, "multiplication", []float64{3, 4})

	// a second user sees nothing of the first
	w := f.do(t, http.MethodPost, "/auth/register", map[string]string{
		"username": "bob", "email": "bob@example.com",
		"password": "Sup3rSecret", "confirm_password": "Sup3rSecret",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	var bob userResponse
	decodeBody(t, w, &bob)
	bobToken, err := f.codec.Issue(bob.ID, "access", 0)
	require.NoError(t, err)

	mine := f.do(t, http.MethodGet, "/calculations", nil, token)
	require.Equal(t, http.StatusOK, mine.Code)
	var mineList []calculationResponse
	decodeBody(t, mine, &mineList)
	assert.Len(t, mineList, 2)

	theirs := f.do(t, http.MethodGet, "/calculations", nil, bobToken)
	require.Equal(t, http.StatusOK, theirs.Code)
	var theirsList []calculationResponse
	decodeBody(t, theirs, &theirsList)
	assert.Empty(t, theirsList)
}

func TestGetCalculation(t *testing.T) {
	f := newFixture(t)
	_, token := f.seedUser(t)
	created := createCalculation(t, f, token, "subtraction", []float64{10, 4})

	w := f.do(t, http.MethodGet, "/calculations/"+created.ID, nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	var resp calculationResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, created.ID, resp.ID)
	assert.Equal(t, 6.0, resp.Result)
}

func TestGetCalculation_BadID(t *testing.T) {
	f := newFixture(t)
	_, token := f.seedUser(t)

	w := f.do(t, http.MethodGet, "/calculations/not-a-uuid", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetCalculation_MissingAndForeignAreBothNotFound(t *testing.T) {
	f := newFixture(t)
	_, token := f.seedUser(t)
	created := createCalculation(t, f, token, "addition", []float64{1, 2})

	missing := f.do(t, http.MethodGet, "/calculations/"+uuid.NewString(), nil, token)
	assert.Equal(t, http.StatusNotFound, missing.Code)

	w := f.do(t, http.MethodPost, "/auth/register", map[string]string{
		"username": "bob", "email": "bob@example.com",
		"password": "Sup3rSecret", "confirm_password": "Sup3rSecret",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	var bob userResponse
	decodeBody(t, w, &bob)
	bobToken, err := f.codec.Issue(bob.ID, "access", 0)
	require.NoError(t, err)

	foreign := f.do(t, http.MethodGet, "/calculations/"+created.ID, nil, bobToken)
	assert.Equal(t, http.StatusNotFound, foreign.Code)
	assert.Equal(t, missing.Body.String(), foreign.Body.String())
}

func TestUpdateCalculation_RecomputesResult(t *testing.T) {
	f := newFixture(t)
	_, token := f.seedUser(t)
	created := createCalculation(t, f, token, "multiplication", []float64{2, 3})

	// the update runs in a transaction on the real db handle
	f.dbmock.ExpectBegin()
	f.dbmock.ExpectCommit()

	w := f.do(t, http.MethodPut, "/calculations/"+created.ID, map[string]any{
		"inputs": []float64{5, 6},
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp calculationResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, "multiplication", resp.Type)
	assert.Equal(t, 30.0, resp.Result)
}

func TestUpdateCalculation_ZeroDivisorRejected(t *testing.T) {
	f := newFixture(t)
	_, token := f.seedUser(t)
	created := createCalculation(t, f, token, "division", []float64{10, 2})

	f.dbmock.ExpectBegin()
	f.dbmock.ExpectRollback()

	w := f.do(t, http.MethodPut, "/calculations/"+created.ID, map[string]any{
		"inputs": []float64{10, 0},
	}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// record unchanged
	get := f.do(t, http.MethodGet, "/calculations/"+created.ID, nil, token)
	var resp calculationResponse
	decodeBody(t, get, &resp)
	assert.Equal(t, 5.0, resp.Result)
}

func TestDeleteCalculation(t *testing.T) {
	f := newFixture(t)
	_, token := f.seedUser(t)
	created := createCalculation(t, f, token, "addition", []float64{1, 2})

	w := f.do(t, http.MethodDelete, "/calculations/"+created.ID, nil, token)
	assert.Equal(t, http.StatusNoContent, w.Code)

	gone := f.do(t, http.MethodGet, "/calculations/"+created.ID, nil, token)
	assert.Equal(t, http.StatusNotFound, gone.Code)

	again := f.do(t, http.MethodDelete, "/calculations/"+created.ID, nil, token)
	assert.Equal(t, http.StatusNotFound, again.Code)
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthDB(t *testing.T) {
	f := newFixture(t)

	f.dbmock.ExpectPing()
	ok := f.do(t, http.MethodGet, "/health/db", nil, "")
	assert.Equal(t, http.StatusOK, ok.Code)

	f.dbmock.ExpectPing().WillReturnError(fmt.Errorf("connection refused"))
	down := f.do(t, http.MethodGet, "/health/db", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, down.Code)
}

func TestSecurityHeadersAndCORS(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-referrer", w.Header().Get("Referrer-Policy"))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}
