// routes/routes.go
package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go-storefront/controllers"
	"go-storefront/middleware"
)

// Controllers bundles everything RegisterRoutes wires up.
type Controllers struct {
	Users    *controllers.UserController
	Products *controllers.ProductController
	Cart     *controllers.CartController
	Checkout *controllers.CheckoutController
	Upload   *controllers.UploadController
}

// RegisterRoutes sets up all the routes for the application.
func RegisterRoutes(router *mux.Router, c Controllers) {
	router.Use(middleware.Metrics)

	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Storefront API is running"))
	}).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Auth
	router.HandleFunc("/signup", c.Users.Signup).Methods("POST")
	router.HandleFunc("/login", c.Users.Login).Methods("POST")

	// Catalog
	router.HandleFunc("/allproduct", c.Products.AllProducts).Methods("GET")
	router.HandleFunc("/product/{id}", c.Products.ProductByID).Methods("GET")
	router.HandleFunc("/addproduct", c.Products.AddProduct).Methods("POST")
	router.HandleFunc("/removeproduct", c.Products.RemoveProduct).Methods("POST")
	router.HandleFunc("/updateproduct", c.Products.UpdateProduct).Methods("POST")
	router.HandleFunc("/togglePopular", c.Products.TogglePopular).Methods("POST")
	router.HandleFunc("/update-all-products", c.Products.UpdateAllPopular).Methods("POST")
	router.HandleFunc("/product/update-quantity", c.Products.UpdateAllQuantity).Methods("POST")
	router.HandleFunc("/allproduct/{id}", c.Products.PatchQuantity).Methods("PATCH")
	router.HandleFunc("/newcollections", c.Products.NewCollections).Methods("GET")
	router.HandleFunc("/popular-products", c.Products.PopularProducts).Methods("GET")

	// Cart (bearer token required)
	router.Handle("/cart", middleware.Auth(http.HandlerFunc(c.Cart.GetCart))).Methods("GET")
	router.Handle("/cart/add", middleware.Auth(http.HandlerFunc(c.Cart.AddToCart))).Methods("POST")
	router.Handle("/cart/remove", middleware.Auth(http.HandlerFunc(c.Cart.RemoveFromCart))).Methods("POST")

	// Profile
	router.Handle("/user/profile", middleware.Auth(http.HandlerFunc(c.Users.Profile))).Methods("GET")
	router.Handle("/user/update", middleware.Auth(http.HandlerFunc(c.Users.UpdateProfile))).Methods("POST")
	router.HandleFunc("/user/check-email", c.Users.CheckEmail).Methods("POST")
	router.HandleFunc("/admin/registration-data", c.Users.RegistrationData).Methods("GET")

	// Checkout
	router.HandleFunc("/create-checkout-session", c.Checkout.CreateSession).Methods("POST")

	// Images
	router.HandleFunc("/Upload", c.Upload.Upload).Methods("POST")
	router.PathPrefix("/Images/").Handler(
		http.StripPrefix("/Images/", http.FileServer(http.Dir(c.Upload.Dir))))
}
