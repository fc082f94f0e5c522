package shiprocket

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"jumboprint/internal/models"
)

// Shipment is the provider's record of an accepted order.
type Shipment struct {
	ShipmentID string `json:"shipment_id"`
	OrderID    string `json:"order_id"`
}

// AWB is the airway bill the courier assigns to a shipment.
type AWB struct {
	Code        string `json:"awb_code"`
	CourierName string `json:"courier_name"`
}

// Options configures the shipping client. TestMode selects the sandbox
// transport, which answers every call with mocks and performs no network I/O.
type Options struct {
	BaseURL        string
	Email          string
	Password       string
	TestMode       bool
	PickupLocation string
	SupportEmail   string

	// Parcel dimensions/weight sent with every order. The provider only
	// needs an estimate for adhoc print shipments.
	ParcelLength  float64
	ParcelBreadth float64
	ParcelHeight  float64
	ParcelWeight  float64
}

// Client drives the provider's order-creation and courier-assignment flow and
// owns the bearer-token lifecycle.
type Client struct {
	opts Options
	tr   transport

	// The token is shared across calls. Refresh happens under the mutex and
	// bumps generation, so concurrent 401s trigger a single re-authentication.
	mu         sync.Mutex
	token      string
	generation uint64
}

// NewClient builds a client for the given options, choosing the live or
// sandbox transport once up front.
func NewClient(opts Options) *Client {
	var tr transport
	if opts.TestMode {
		tr = sandboxTransport{}
	} else {
		tr = newLiveTransport(opts.BaseURL)
	}
	return &Client{opts: opts, tr: tr}
}

// Authenticate obtains a fresh bearer token from the provider and caches it
// for subsequent calls. In sandbox mode it returns the fixed test token.
func (c *Client) Authenticate(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.refreshLocked(ctx); err != nil {
		return "", err
	}
	return c.token, nil
}

// currentToken returns the cached token and its generation, authenticating
// first if no token is held yet.
func (c *Client) currentToken(ctx context.Context) (string, uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token == "" {
		if err := c.refreshLocked(ctx); err != nil {
			return "", 0, err
		}
	}
	return c.token, c.generation, nil
}

// invalidate re-authenticates unless another caller already refreshed past
// the generation this caller observed.
func (c *Client) invalidate(ctx context.Context, seen uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != seen {
		return nil
	}
	return c.refreshLocked(ctx)
}

func (c *Client) refreshLocked(ctx context.Context) error {
	token, err := c.tr.login(ctx, c.opts.Email, c.opts.Password)
	if err != nil {
		log.Printf("shiprocket auth error: %v", err)
		return &AuthenticationError{Message: err.Error()}
	}
	c.token = token
	c.generation++
	return nil
}

// CreateOrder submits the order to the provider and returns the resulting
// shipment. On a 401 it re-authenticates and retries exactly once; any
// further failure surfaces as a ShippingError.
func (c *Client) CreateOrder(ctx context.Context, order *models.Order, user *models.User) (*Shipment, error) {
	if err := validateShippable(order, user); err != nil {
		return nil, err
	}
	payload := c.buildPayload(order, user)

	for attempt := 0; attempt < 2; attempt++ {
		token, generation, err := c.currentToken(ctx)
		if err != nil {
			return nil, err
		}

		shipment, err := c.tr.createOrder(ctx, token, payload)
		if err == nil {
			return shipment, nil
		}
		if errors.Is(err, errUnauthorized) && attempt == 0 {
			if refreshErr := c.invalidate(ctx, generation); refreshErr != nil {
				return nil, refreshErr
			}
			continue
		}

		log.Printf("shiprocket order error for %s: %v", order.ID, err)
		return nil, &ShippingError{Message: err.Error()}
	}
	return nil, &ShippingError{Message: "order creation failed"}
}

// GenerateAWB requests courier assignment for a shipment. Provider detail on
// failure is logged here only; the caller sees a generic AWBGenerationError.
func (c *Client) GenerateAWB(ctx context.Context, shipmentID string) (*AWB, error) {
	if shipmentID == "" {
		return nil, &AWBGenerationError{}
	}

	token, _, err := c.currentToken(ctx)
	if err != nil {
		return nil, err
	}

	awb, err := c.tr.assignAWB(ctx, token, shipmentID)
	if err != nil {
		log.Printf("shiprocket AWB error for shipment %s: %v", shipmentID, err)
		return nil, &AWBGenerationError{}
	}
	return awb, nil
}

// validateShippable enforces the preconditions for submission: a complete
// shipping address and a customer phone number.
func validateShippable(order *models.Order, user *models.User) error {
	addr := order.ShippingAddress
	if addr.Street == "" || addr.City == "" || addr.State == "" || addr.Pincode == "" {
		return &ShippingError{Message: fmt.Sprintf("order %s has an incomplete shipping address", order.ID)}
	}
	if user == nil || user.Phone == "" {
		return &ShippingError{Message: fmt.Sprintf("order %s has no customer phone number", order.ID)}
	}
	return nil
}

// orderPayload is the wire format of POST /orders/create/adhoc.
type orderPayload struct {
	OrderID        string `json:"order_id"`
	OrderDate      string `json:"order_date"`
	PickupLocation string `json:"pickup_location"`

	BillingCustomerName string `json:"billing_customer_name"`
	BillingLastName     string `json:"billing_last_name"`
	BillingAddress      string `json:"billing_address"`
	BillingAddress2     string `json:"billing_address_2"`
	BillingCity         string `json:"billing_city"`
	BillingPincode      string `json:"billing_pincode"`
	BillingState        string `json:"billing_state"`
	BillingCountry      string `json:"billing_country"`
	BillingEmail        string `json:"billing_email"`
	BillingPhone        string `json:"billing_phone"`

	ShippingIsBilling    bool   `json:"shipping_is_billing"`
	ShippingCustomerName string `json:"shipping_customer_name"`
	ShippingLastName     string `json:"shipping_last_name"`
	ShippingAddress      string `json:"shipping_address"`
	ShippingAddress2     string `json:"shipping_address_2"`
	ShippingCity         string `json:"shipping_city"`
	ShippingPincode      string `json:"shipping_pincode"`
	ShippingCountry      string `json:"shipping_country"`
	ShippingState        string `json:"shipping_state"`
	ShippingEmail        string `json:"shipping_email"`
	ShippingPhone        string `json:"shipping_phone"`

	OrderItems    []orderItem `json:"order_items"`
	PaymentMethod string      `json:"payment_method"`
	SubTotal      float64     `json:"sub_total"`
	Length        float64     `json:"length"`
	Breadth       float64     `json:"breadth"`
	Height        float64     `json:"height"`
	Weight        float64     `json:"weight"`
}

type orderItem struct {
	Name         string  `json:"name"`
	SKU          string  `json:"sku"`
	Units        int     `json:"units"`
	SellingPrice float64 `json:"selling_price"`
}

// buildPayload maps the internal order onto the provider's schema, applying
// the normalization rules the provider is picky about.
func (c *Client) buildPayload(order *models.Order, user *models.User) *orderPayload {
	name := titleCase(user.Name)
	street := titleCase(order.ShippingAddress.Street)
	city := titleCase(normalizeCity(order.ShippingAddress.City))
	state := titleCase(order.ShippingAddress.State)
	phone := normalizePhone(user.Phone)

	email := user.Email
	if email == "" {
		email = c.opts.SupportEmail
	}

	return &orderPayload{
		OrderID:        order.ID,
		OrderDate:      order.CreatedAt.UTC().Format("2006-01-02"),
		PickupLocation: c.opts.PickupLocation,

		BillingCustomerName: name,
		BillingAddress:      street,
		BillingCity:         city,
		BillingPincode:      order.ShippingAddress.Pincode,
		BillingState:        state,
		BillingCountry:      "India",
		BillingEmail:        email,
		BillingPhone:        phone,

		ShippingIsBilling:    true,
		ShippingCustomerName: name,
		ShippingAddress:      street,
		ShippingCity:         city,
		ShippingPincode:      order.ShippingAddress.Pincode,
		ShippingCountry:      "India",
		ShippingState:        state,
		ShippingEmail:        email,
		ShippingPhone:        phone,

		OrderItems: []orderItem{
			{
				Name:         "Print Service",
				SKU:          "PRINT_SRV",
				Units:        1,
				SellingPrice: order.TotalAmount,
			},
		},
		PaymentMethod: paymentMethod(order.PaymentStatus),
		SubTotal:      order.TotalAmount,
		Length:        c.opts.ParcelLength,
		Breadth:       c.opts.ParcelBreadth,
		Height:        c.opts.ParcelHeight,
		Weight:        c.opts.ParcelWeight,
	}
}
