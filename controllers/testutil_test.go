package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-storefront/controllers"
	"go-storefront/models"
	"go-storefront/routes"
	"go-storefront/store"
	"go-storefront/utils"
)

type routerWithStore struct {
	router *mux.Router
	store  *store.Memory
}

// newTestServer wires the full router over an in-memory store, the same way
// main does over Mongo.
func newTestServer(t *testing.T) (*mux.Router, *store.Memory) {
	t.Helper()
	utils.JwtKey = []byte("test-secret")

	st := store.NewMemory()
	logger := zap.NewNop()

	upload, err := controllers.NewUploadController(t.TempDir(), "http://localhost:8000", logger)
	require.NoError(t, err)

	router := mux.NewRouter()
	routes.RegisterRoutes(router, routes.Controllers{
		Users:    controllers.NewUserController(st, utils.NewEmailService(), logger),
		Products: controllers.NewProductController(st, logger),
		Cart:     controllers.NewCartController(st, logger),
		Checkout: controllers.NewCheckoutController("http://localhost:5173", logger),
		Upload:   upload,
	})
	return router, st
}

// doJSON performs a request with an optional JSON body and bearer token.
func doJSON(t *testing.T, router *mux.Router, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(w.Body).Decode(out))
}

// signupUser registers a user through the API and returns their session token.
func signupUser(t *testing.T, router *mux.Router, name, email, password string) string {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/signup", "", map[string]string{
		"name": name, "email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
	}
	decodeBody(t, w, &resp)
	require.True(t, resp.Success)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// seedProduct inserts a product directly into the store.
func seedProduct(t *testing.T, st *store.Memory, p models.Product) {
	t.Helper()
	require.NoError(t, st.InsertProduct(context.Background(), &p))
}

type cartResponse struct {
	Success bool           `json:"success"`
	Cart    map[string]int `json:"cart"`
}

// productQuantity reads a product's current stock straight from the store.
func productQuantity(t *testing.T, st *store.Memory, id int) int {
	t.Helper()
	p, err := st.ProductByID(context.Background(), id)
	require.NoError(t, err)
	return p.Quantity
}
