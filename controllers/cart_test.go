package controllers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-storefront/models"
)

func seededCartServer(t *testing.T) (router routerWithStore, token string) {
	r, st := newTestServer(t)
	seedProduct(t, st, models.Product{
		ID: 40, Name: "Teak Chair", Category: "furniture",
		NewPrice: 120, OldPrice: 150, Date: time.Now(),
		Available: true, Quantity: 5,
	})
	tok := signupUser(t, r, "A", "a@x.com", "p1")
	return routerWithStore{r, st}, tok
}

func TestAddToCart(t *testing.T) {
	t.Run("ReservesStockAndUpdatesCart", func(t *testing.T) {
		env, token := seededCartServer(t)

		w := doJSON(t, env.router, http.MethodPost, "/cart/add", token,
			map[string]int{"productId": 40, "quantity": 3})
		require.Equal(t, http.StatusOK, w.Code)

		var resp cartResponse
		decodeBody(t, w, &resp)
		require.True(t, resp.Success)
		require.Equal(t, 3, resp.Cart["40"])
		require.Equal(t, 2, productQuantity(t, env.store, 40))
	})

	t.Run("InsufficientStockLeavesEverythingUnchanged", func(t *testing.T) {
		env, token := seededCartServer(t)

		w := doJSON(t, env.router, http.MethodPost, "/cart/add", token,
			map[string]int{"productId": 40, "quantity": 6})
		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp struct {
			Message string `json:"message"`
		}
		decodeBody(t, w, &resp)
		require.Equal(t, "Not enough stock available", resp.Message)
		require.Equal(t, 5, productQuantity(t, env.store, 40))

		w = doJSON(t, env.router, http.MethodGet, "/cart", token, nil)
		var cart cartResponse
		decodeBody(t, w, &cart)
		require.Equal(t, 0, cart.Cart["40"])
	})

	t.Run("MissingProductIs404", func(t *testing.T) {
		env, token := seededCartServer(t)

		w := doJSON(t, env.router, http.MethodPost, "/cart/add", token,
			map[string]int{"productId": 999, "quantity": 1})
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("MissingTokenIs401", func(t *testing.T) {
		env, _ := seededCartServer(t)

		w := doJSON(t, env.router, http.MethodPost, "/cart/add", "",
			map[string]int{"productId": 40, "quantity": 1})
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRemoveFromCart(t *testing.T) {
	t.Run("RoundTripRestoresStockAndCart", func(t *testing.T) {
		env, token := seededCartServer(t)

		doJSON(t, env.router, http.MethodPost, "/cart/add", token,
			map[string]int{"productId": 40, "quantity": 2})
		w := doJSON(t, env.router, http.MethodPost, "/cart/remove", token,
			map[string]int{"productId": 40, "quantity": 2})
		require.Equal(t, http.StatusOK, w.Code)

		var resp cartResponse
		decodeBody(t, w, &resp)
		// Reducing an entry to zero deletes the key rather than storing 0.
		_, present := resp.Cart["40"]
		require.False(t, present)
		require.Equal(t, 5, productQuantity(t, env.store, 40))
	})

	t.Run("OverRemovalRestocksFullRequestedAmount", func(t *testing.T) {
		env, token := seededCartServer(t)

		doJSON(t, env.router, http.MethodPost, "/cart/add", token,
			map[string]int{"productId": 40, "quantity": 3})
		require.Equal(t, 2, productQuantity(t, env.store, 40))

		w := doJSON(t, env.router, http.MethodPost, "/cart/remove", token,
			map[string]int{"productId": 40, "quantity": 5})
		require.Equal(t, http.StatusOK, w.Code)

		var resp cartResponse
		decodeBody(t, w, &resp)
		_, present := resp.Cart["40"]
		require.False(t, present)
		// The product is restocked by the full requested removal amount, so
		// removing more than the cart held over-restocks it: 2 + 5 = 7.
		require.Equal(t, 7, productQuantity(t, env.store, 40))
	})

	t.Run("PartialRemovalKeepsEntry", func(t *testing.T) {
		env, token := seededCartServer(t)

		doJSON(t, env.router, http.MethodPost, "/cart/add", token,
			map[string]int{"productId": 40, "quantity": 3})
		w := doJSON(t, env.router, http.MethodPost, "/cart/remove", token,
			map[string]int{"productId": 40, "quantity": 1})
		require.Equal(t, http.StatusOK, w.Code)

		var resp cartResponse
		decodeBody(t, w, &resp)
		require.Equal(t, 2, resp.Cart["40"])
		require.Equal(t, 3, productQuantity(t, env.store, 40))
	})

	t.Run("MissingProductIs404AndCartUntouched", func(t *testing.T) {
		env, token := seededCartServer(t)

		doJSON(t, env.router, http.MethodPost, "/cart/add", token,
			map[string]int{"productId": 40, "quantity": 2})
		w := doJSON(t, env.router, http.MethodPost, "/cart/remove", token,
			map[string]int{"productId": 999, "quantity": 1})
		require.Equal(t, http.StatusNotFound, w.Code)

		w = doJSON(t, env.router, http.MethodGet, "/cart", token, nil)
		var cart cartResponse
		decodeBody(t, w, &cart)
		require.Equal(t, 2, cart.Cart["40"])
	})
}

func TestGetCart(t *testing.T) {
	env, token := seededCartServer(t)

	w := doJSON(t, env.router, http.MethodGet, "/cart", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp cartResponse
	decodeBody(t, w, &resp)
	require.True(t, resp.Success)
	// Signup seeds entries "1".."300", all zero.
	require.Len(t, resp.Cart, 300)
	require.Equal(t, 0, resp.Cart["1"])
	require.Equal(t, 0, resp.Cart["300"])
}

// Stock conservation: without concurrent interleaving, the initial stock always
// equals current stock plus what sits in carts for that product.
func TestStockConservation(t *testing.T) {
	env, token := seededCartServer(t)
	const initialStock = 5

	steps := []struct {
		path string
		qty  int
	}{
		{"/cart/add", 2},
		{"/cart/add", 1},
		{"/cart/remove", 1},
		{"/cart/add", 2},
	}
	for _, step := range steps {
		w := doJSON(t, env.router, http.MethodPost, step.path, token,
			map[string]int{"productId": 40, "quantity": step.qty})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doJSON(t, env.router, http.MethodGet, "/cart", token, nil)
	var resp cartResponse
	decodeBody(t, w, &resp)
	require.Equal(t, initialStock, productQuantity(t, env.store, 40)+resp.Cart["40"])
}
