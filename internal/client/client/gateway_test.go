package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/dmitrijs2005/farmdash/internal/client/models"
	"github.com/dmitrijs2005/farmdash/internal/common"
	"github.com/dmitrijs2005/farmdash/internal/logging"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGateway(t *testing.T, h http.HandlerFunc, token string) *HTTPGateway {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	b, err := NewRequestBuilder(srv.URL+"/api", TokenFunc(func(context.Context) (string, error) {
		return token, nil
	}), logging.Nop())
	require.NoError(t, err)
	return NewHTTPGateway(srv.Client(), b, logging.Nop())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestGateway_Login(t *testing.T) {
	var got map[string]string
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		_ = json.NewDecoder(r.Body).Decode(&got)
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "token": "tok-1"})
	}, "")

	token, err := g.Login(context.Background(), "9990001111", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
	assert.Equal(t, map[string]string{"mobile": "9990001111", "password": "pw"}, got)
}

func TestGateway_Login_TokenInsideData(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"token": "tok-2"}})
	}, "")

	token, err := g.Login(context.Background(), "m", "p")
	require.NoError(t, err)
	assert.Equal(t, "tok-2", token)
}

func TestGateway_Login_Rejected(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Invalid credentials"})
	}, "")

	_, err := g.Login(context.Background(), "m", "bad")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	assert.ErrorIs(t, err, common.ErrServer)
	assert.Equal(t, "Invalid credentials", UserMessage(err))
}

func TestGateway_ListCategories_SendsBearer(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get(common.RequestIDHeaderName))
		assert.Equal(t, "/api/categories", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data": map[string]any{"categories": []map[string]any{
				{"id": 1, "name": "Fruits", "description": "d", "display_order": "2", "is_active": true},
				{"id": "b", "name": "Greens", "description": "d", "isActive": false},
			}},
		})
	}, "secret")

	got, err := g.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	cs := models.NormalizeCategories(got)
	assert.Equal(t, "1", cs[0].ID)
	assert.Equal(t, 2, cs[0].DisplayOrder)
	assert.False(t, cs[1].IsActive)
	assert.Equal(t, models.DefaultDisplayOrder, cs[1].DisplayOrder)
}

func TestGateway_ListCategories_EmptyData(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}, "")

	got, err := g.ListCategories(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestGateway_GetCategory_BothShapes(t *testing.T) {
	tests := []struct {
		name string
		data any
	}{
		{"flat", map[string]any{"id": "c1", "name": "Fruits"}},
		{"wrapped", map[string]any{"category": map[string]any{"id": "c1", "name": "Fruits"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/categories/c1", r.URL.Path)
				writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": tt.data})
			}, "")

			c, err := g.GetCategory(context.Background(), "c1")
			require.NoError(t, err)
			require.NotNil(t, c)
			assert.Equal(t, "Fruits", c.Name)
		})
	}
}

func TestGateway_UpdateCategoryStatus(t *testing.T) {
	var body map[string]any
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/categories/c1/status", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}, "t")

	require.NoError(t, g.UpdateCategoryStatus(context.Background(), "c1", false))
	assert.Equal(t, map[string]any{"is_active": false}, body)
}

func TestGateway_ListProducts_SuccessFalseIsEmpty(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "nothing"})
	}, "")

	got, err := g.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestGateway_GetProduct_SuccessFalseIsNil(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": false})
	}, "")

	got, err := g.GetProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGateway_CreateProduct_SendsNumericPrice(t *testing.T) {
	var raw map[string]json.RawMessage
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&raw)
		writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": map[string]any{
			"id": "p9", "name": "Mango", "price": 120.5, "unit": "kg",
		}})
	}, "t")

	in := models.ProductInput{Name: "Mango", Category: "Fruits", Description: "sweet",
		Price: decimal.RequireFromString("120.50"), Unit: models.UnitKg}
	p, err := g.CreateProduct(context.Background(), in)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "p9", p.ID.String())
	assert.True(t, p.Price.Equal(decimal.RequireFromString("120.5")))
	assert.Equal(t, "120.5", string(raw["price"]))
}

func TestGateway_ListFarmers_Pagination(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/farmers", r.URL.Path)
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		assert.Equal(t, "0", r.URL.Query().Get("offset"))
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": []map[string]any{
			{"id": 7, "farmer_name": "Ravi", "mobile": 9876543210, "experience_years": "12"},
		}})
	}, "t")

	got, err := g.ListFarmers(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	f := models.NormalizeFarmer(got[0])
	assert.Equal(t, "7", f.ID)
	assert.Equal(t, "9876543210", f.Mobile)
	assert.Equal(t, 12, f.ExperienceYears)
}

func TestGateway_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		is     []error
		msg    string
	}{
		{"not found", http.StatusNotFound, `{"message":"Product not found"}`, []error{common.ErrorNotFound, common.ErrServer}, "Product not found"},
		{"forbidden", http.StatusForbidden, `{"error":"no access"}`, []error{common.ErrorUnauthorized}, "no access"},
		{"nested error", http.StatusBadRequest, `{"error":{"message":"bad unit"}}`, []error{common.ErrServer}, "bad unit"},
		{"no body", http.StatusInternalServerError, ``, []error{common.ErrServer}, "server error (500)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}, "t")

			err := g.DeleteProduct(context.Background(), "p1")
			require.Error(t, err)
			for _, target := range tt.is {
				assert.ErrorIs(t, err, target)
			}
			assert.NotErrorIs(t, err, common.ErrNetwork)
			assert.Equal(t, tt.msg, UserMessage(err))

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, "/api/products/p1", apiErr.Path)
		})
	}
}

func TestGateway_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	b, err := NewRequestBuilder(url, nil, logging.Nop())
	require.NoError(t, err)
	g := NewHTTPGateway(nil, b, logging.Nop())

	_, err = g.ListCategories(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNetwork)
	assert.True(t, IsNetworkError(err))
	assert.NotErrorIs(t, err, common.ErrServer)
}

func TestGateway_MalformedBody(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<html>oops</html>")
	}, "")

	_, err := g.ListProducts(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrServer)
}

func TestGateway_ReadsTokenPerRequest(t *testing.T) {
	var calls atomic.Int32
	var mu sync.Mutex
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Header.Get("Authorization"))
		mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}))
	defer srv.Close()

	tokens := []string{"", "a", "b"}
	b, err := NewRequestBuilder(srv.URL, TokenFunc(func(context.Context) (string, error) {
		return tokens[calls.Add(1)-1], nil
	}), logging.Nop())
	require.NoError(t, err)
	g := NewHTTPGateway(srv.Client(), b, logging.Nop())

	for range tokens {
		require.NoError(t, g.DeleteFarmer(context.Background(), "f1"))
	}
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"", "Bearer a", "Bearer b"}, seen)
}

func TestGateway_MalformedDataNamesRequest(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": "not an object"})
	}, "t")

	_, err := g.ListCategories(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrServer)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.MethodGet, apiErr.Method)
	assert.Equal(t, "/api/categories", apiErr.Path)
	assert.Equal(t, http.StatusOK, apiErr.Status)
	assert.Equal(t, "malformed response data", apiErr.Message)
}
