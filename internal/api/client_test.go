package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockline/herdctl/internal/form"
)

func TestFetchOptions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/options/breeds", r.URL.Path)
		assert.Equal(t, "farm-9", r.URL.Query().Get("farm"))
		assert.Equal(t, "Bearer sekrit", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"options": []form.Option{{ID: "b1", Label: "Duroc"}, {ID: "b2", Label: "Berkshire"}},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "sekrit", "farm-9")
	opts, err := c.FetchOptions(context.Background(), "breeds", nil)
	require.NoError(t, err)
	require.Len(t, opts, 2)
	assert.Equal(t, "Duroc", opts[0].Label)
}

func TestFetchOptionsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"options":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "", "farm-9")
	opts, err := c.FetchOptions(context.Background(), "medications", map[string]string{"in_stock": "true"})
	require.NoError(t, err, "empty results must not be an error")
	assert.Empty(t, opts)
}

func TestCheckUnique(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/unique/pig_code", r.URL.Path)
		exists := r.URL.Query().Get("value") == "PIG-001"
		_ = json.NewEncoder(w).Encode(map[string]bool{"exists": exists})
	}))
	defer srv.Close()

	c := New(srv.URL, "", "farm-9")

	exists, err := c.CheckUnique(context.Background(), "pig_code", "PIG-001")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = c.CheckUnique(context.Background(), "pig_code", "PIG-002")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCheckUniqueTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, "", "farm-9")
	_, err := c.CheckUnique(context.Background(), "pig_code", "PIG-001")
	assert.Error(t, err, "a failing check must surface as an error, never as a clean answer")
}

func TestWhoAmI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/me", r.URL.Path)
		_ = json.NewEncoder(w).Encode(form.User{ID: "u-3", Name: "Maria Vos", Role: "veterinarian"})
	}))
	defer srv.Close()

	c := New(srv.URL, "", "farm-9")
	user, err := c.WhoAmI(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Maria Vos", user.Name)
	assert.Equal(t, "veterinarian", user.Role)
}

func TestSubmitSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/pigs", r.URL.Path)

		var body struct {
			Farm   string         `json:"farm"`
			Record map[string]any `json:"record"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "farm-9", body.Farm)
		assert.Equal(t, "PIG-001", body.Record["code"])

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"entity": map[string]any{"id": "p-88"}})
	}))
	defer srv.Close()

	c := New(srv.URL, "", "farm-9")
	out, err := c.Submitter("/v1/pigs").Submit(context.Background(), map[string]any{"code": "PIG-001"})
	require.NoError(t, err)
	require.True(t, out.OK)
	assert.Equal(t, "p-88", out.Entity["id"])
}

func TestSubmitBusinessRuleRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"kind": "business_rule",
			"details": []form.RejectionDetail{
				{Resource: "medication", ID: "med-7", Label: "Amoxicillin 250mg", Reason: "insufficient stock"},
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "", "farm-9")
	out, err := c.Submitter("/v1/sickness-cases").Submit(context.Background(), map[string]any{})
	require.NoError(t, err, "a structured rejection is a classified outcome, not an error")
	require.True(t, out.BusinessRule())
	require.Len(t, out.Details, 1)
	assert.Equal(t, "insufficient stock", out.Details[0].Reason)
}

func TestSubmitGenericFailure(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, "boom"},
		{"unparseable 422", http.StatusUnprocessableEntity, "not json"},
		{"422 without business kind", http.StatusUnprocessableEntity, `{"kind":"validation"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := New(srv.URL, "", "farm-9")
			out, err := c.Submitter("/v1/pigs").Submit(context.Background(), map[string]any{})
			require.NoError(t, err)
			assert.False(t, out.OK)
			assert.Equal(t, form.KindError, out.Kind)
			assert.False(t, out.BusinessRule(), "generic failures must never take the business-rule path")
		})
	}
}
