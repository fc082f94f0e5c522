package shiprocket

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"strings"
)

// TestToken is the sentinel bearer token returned by the sandbox transport.
const TestToken = "TEST_TOKEN"

// errUnauthorized signals a 401 from the provider so the client can refresh
// its token and retry once.
var errUnauthorized = errors.New("unauthorized")

// transport is the strategy behind the client's three provider calls. It is
// selected once at construction: live HTTP against the provider, or sandbox
// mocks with no network access.
type transport interface {
	login(ctx context.Context, email, password string) (string, error)
	createOrder(ctx context.Context, token string, payload *orderPayload) (*Shipment, error)
	assignAWB(ctx context.Context, token, shipmentID string) (*AWB, error)
}

// liveTransport talks to the real Shiprocket REST API.
type liveTransport struct {
	baseURL string
	client  *http.Client
}

func newLiveTransport(baseURL string) *liveTransport {
	return &liveTransport{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
	}
}

func (t *liveTransport) login(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{"email": email, "password": password}
	resp, err := t.post(ctx, "/auth/login", "", body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", errors.New(providerMessage(resp))
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding login response: %w", err)
	}
	if result.Token == "" {
		return "", errors.New("login response contained no token")
	}
	return result.Token, nil
}

func (t *liveTransport) createOrder(ctx context.Context, token string, payload *orderPayload) (*Shipment, error) {
	resp, err := t.post(ctx, "/orders/create/adhoc", token, payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, errUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.New(providerMessage(resp))
	}

	var result struct {
		ShipmentID json.Number `json:"shipment_id"`
		OrderID    json.Number `json:"order_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding order response: %w", err)
	}
	return &Shipment{
		ShipmentID: result.ShipmentID.String(),
		OrderID:    result.OrderID.String(),
	}, nil
}

func (t *liveTransport) assignAWB(ctx context.Context, token, shipmentID string) (*AWB, error) {
	body := map[string]string{"shipment_id": shipmentID}
	resp, err := t.post(ctx, "/courier/assign/awb", token, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.New(providerMessage(resp))
	}

	var result struct {
		Response struct {
			Data struct {
				AWBCode     string `json:"awb_code"`
				CourierName string `json:"courier_name"`
			} `json:"data"`
		} `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding AWB response: %w", err)
	}
	return &AWB{
		Code:        result.Response.Data.AWBCode,
		CourierName: result.Response.Data.CourierName,
	}, nil
}

// post sends a JSON body to the given provider path, attaching the bearer
// token when one is supplied.
func (t *liveTransport) post(ctx context.Context, path, token string, body interface{}) (*http.Response, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return t.client.Do(req)
}

// providerMessage extracts the provider's error detail from a failed
// response: the "message" field if present, otherwise the raw body, otherwise
// the HTTP status.
func providerMessage(resp *http.Response) string {
	raw, err := io.ReadAll(resp.Body)
	if err != nil || len(raw) == 0 {
		return resp.Status
	}
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		return body.Message
	}
	return strings.TrimSpace(string(raw))
}

// sandboxTransport satisfies every provider call with randomized mock
// responses and never touches the network.
type sandboxTransport struct{}

func (sandboxTransport) login(ctx context.Context, email, password string) (string, error) {
	return TestToken, nil
}

func (sandboxTransport) createOrder(ctx context.Context, token string, payload *orderPayload) (*Shipment, error) {
	log.Printf("[shiprocket-sandbox] creating mock shipment for order %s", payload.OrderID)
	return &Shipment{
		ShipmentID: fmt.Sprintf("MOCK_SHIP_%d", rand.Intn(100000)),
		OrderID:    fmt.Sprintf("MOCK_ORDER_%d", rand.Intn(100000)),
	}, nil
}

func (sandboxTransport) assignAWB(ctx context.Context, token, shipmentID string) (*AWB, error) {
	log.Printf("[shiprocket-sandbox] generating mock AWB for shipment %s", shipmentID)
	return &AWB{
		Code:        fmt.Sprintf("MOCK_AWB_%d", rand.Intn(1000000000)),
		CourierName: "Test Courier Service",
	}, nil
}
