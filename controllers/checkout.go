package controllers

import (
	"encoding/json"
	"math"
	"net/http"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"go.uber.org/zap"

	"go-storefront/utils"
)

// CheckoutController creates hosted Stripe checkout sessions from the line
// items the client sends. The server-held cart is not consulted.
type CheckoutController struct {
	FrontendURL string
	Logger      *zap.Logger
}

// NewCheckoutController creates a new CheckoutController. The Stripe API key
// is expected to be set on the stripe package at startup.
func NewCheckoutController(frontendURL string, logger *zap.Logger) *CheckoutController {
	return &CheckoutController{FrontendURL: frontendURL, Logger: logger}
}

type checkoutItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// CreateSession requests a hosted checkout session and returns its id.
func (cc *CheckoutController) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Items []checkoutItem `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid input")
		return
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          checkoutLineItems(req.Items),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(cc.FrontendURL + "/success"),
		CancelURL:          stripe.String(cc.FrontendURL + "/cancel"),
	}

	s, err := session.New(params)
	if err != nil {
		cc.Logger.Error("create checkout session failed", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"sessionId": s.ID})
}

// checkoutLineItems converts cart line items to Stripe's shape, with prices in
// minor currency units.
func checkoutLineItems(items []checkoutItem) []*stripe.CheckoutSessionLineItemParams {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(items))
	for _, item := range items {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String("usd"),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
				UnitAmount: stripe.Int64(int64(math.Round(item.Price * 100))),
			},
			Quantity: stripe.Int64(int64(item.Quantity)),
		})
	}
	return lineItems
}
