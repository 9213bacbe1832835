package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"shopcore/internal/domain"
)

type stubOrderService struct {
	order      *domain.Order
	orders     []domain.Order
	err        error
	lastUser   string
	lastNumber string
	purged     []string
}

func (s *stubOrderService) Checkout(_ context.Context, userID string, _ domain.Receiver) (*domain.Order, error) {
	s.lastUser = userID
	return s.order, s.err
}

func (s *stubOrderService) Pay(_ context.Context, userID, number string) (*domain.Order, error) {
	s.lastUser, s.lastNumber = userID, number
	return s.order, s.err
}

func (s *stubOrderService) Ship(_ context.Context, number string) (*domain.Order, error) {
	s.lastNumber = number
	return s.order, s.err
}

func (s *stubOrderService) Receive(_ context.Context, userID, number string) (*domain.Order, error) {
	s.lastUser, s.lastNumber = userID, number
	return s.order, s.err
}

func (s *stubOrderService) Cancel(_ context.Context, userID, number string) (*domain.Order, error) {
	s.lastUser, s.lastNumber = userID, number
	return s.order, s.err
}

func (s *stubOrderService) UpdateReceiver(_ context.Context, userID, number string, _ domain.Receiver) (*domain.Order, error) {
	s.lastUser, s.lastNumber = userID, number
	return s.order, s.err
}

func (s *stubOrderService) Get(_ context.Context, userID, number string) (*domain.Order, error) {
	s.lastUser, s.lastNumber = userID, number
	return s.order, s.err
}

func (s *stubOrderService) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	s.lastUser = userID
	return s.orders, s.err
}

func (s *stubOrderService) ListAll(_ context.Context) ([]domain.Order, error) {
	return s.orders, s.err
}

func (s *stubOrderService) Purge(_ context.Context, id string) error {
	s.purged = append(s.purged, id)
	return s.err
}

type stubCartService struct {
	lines []domain.CartLine
	line  *domain.CartLine
	err   error
}

func (s *stubCartService) Get(_ context.Context, _ string) ([]domain.CartLine, error) {
	return s.lines, s.err
}

func (s *stubCartService) AddItem(_ context.Context, _ string, _ string, _ int) (*domain.CartLine, error) {
	return s.line, s.err
}

func (s *stubCartService) ChangeItem(_ context.Context, _ string, _ string, _ int) error {
	return s.err
}

func (s *stubCartService) Clear(_ context.Context, _ string) error {
	return s.err
}

type stubProductService struct {
	products []domain.Availability
	product  *domain.Availability
	err      error
}

func (s *stubProductService) List(_ context.Context) ([]domain.Availability, error) {
	return s.products, s.err
}

func (s *stubProductService) Get(_ context.Context, _ string) (*domain.Availability, error) {
	return s.product, s.err
}

func testRouter(orders *stubOrderService, carts *stubCartService, products *stubProductService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	if orders == nil {
		orders = &stubOrderService{}
	}
	if carts == nil {
		carts = &stubCartService{}
	}
	if products == nil {
		products = &stubProductService{}
	}
	return buildRouter(zerolog.Nop(), nil, Deps{Orders: orders, Carts: carts, Products: products}, []string{"*"})
}

func doJSON(t *testing.T, router *gin.Engine, method, path, user, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-User-ID", user)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func sampleOrder() *domain.Order {
	return &domain.Order{
		ID:          "order-1",
		OrderNumber: "20240101000000-ABCD1234",
		UserID:      "user-1",
		TotalAmount: decimal.RequireFromString("25.00"),
		Status:      domain.StatusPendingPayment,
		Receiver:    domain.Receiver{Name: "Ann", Phone: "555-0100", Address: "1 Main St"},
	}
}

func TestIdentityRequired(t *testing.T) {
	router := testRouter(nil, nil, nil)

	rec := doJSON(t, router, http.MethodGet, "/v1/cart", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/v1/cart", "user-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with identity, got %d", rec.Code)
	}
}

func TestProductsArePublic(t *testing.T) {
	products := &stubProductService{products: []domain.Availability{
		{Product: domain.Product{ID: "prod-1", SKU: "SKU-1", Name: "Widget"}, InStock: 4},
	}}
	router := testRouter(nil, nil, products)

	rec := doJSON(t, router, http.MethodGet, "/v1/products", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Products []domain.Availability `json:"products"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Products) != 1 || body.Products[0].InStock != 4 {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestCheckout_Created(t *testing.T) {
	orders := &stubOrderService{order: sampleOrder()}
	router := testRouter(orders, nil, nil)

	rec := doJSON(t, router, http.MethodPost, "/v1/checkout", "user-1",
		`{"receiver":{"name":"Ann","phone":"555-0100","address":"1 Main St"}}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if orders.lastUser != "user-1" {
		t.Fatalf("expected the identity header to reach the service, got %q", orders.lastUser)
	}
	var body domain.Order
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.OrderNumber != "20240101000000-ABCD1234" || body.Status != domain.StatusPendingPayment {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestCheckout_BadJSON(t *testing.T) {
	router := testRouter(&stubOrderService{}, nil, nil)

	rec := doJSON(t, router, http.MethodPost, "/v1/checkout", "user-1", `{"receiver":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCheckout_EmptyCart(t *testing.T) {
	router := testRouter(&stubOrderService{err: domain.ErrEmptyCart}, nil, nil)

	rec := doJSON(t, router, http.MethodPost, "/v1/checkout", "user-1", `{"receiver":{"name":"A","phone":"1","address":"x"}}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestCheckout_InsufficientStock(t *testing.T) {
	orders := &stubOrderService{err: &domain.InsufficientStockError{ProductID: "prod-1", Requested: 3, Available: 1}}
	router := testRouter(orders, nil, nil)

	rec := doJSON(t, router, http.MethodPost, "/v1/checkout", "user-1", `{"receiver":{"name":"A","phone":"1","address":"x"}}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	var body struct {
		ProductID string `json:"productId"`
		Requested int    `json:"requested"`
		Available int    `json:"available"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.ProductID != "prod-1" || body.Requested != 3 || body.Available != 1 {
		t.Fatalf("the conflict body must say what ran short, got %s", rec.Body.String())
	}
}

func TestCheckout_Validation(t *testing.T) {
	router := testRouter(&stubOrderService{err: domain.ValidationError("receiver name required")}, nil, nil)

	rec := doJSON(t, router, http.MethodPost, "/v1/checkout", "user-1", `{"receiver":{"phone":"1","address":"x"}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPay_InvalidTransition(t *testing.T) {
	orders := &stubOrderService{err: &domain.InvalidTransitionError{
		OrderID: "order-1", From: domain.StatusCancelled, Event: domain.EventPay,
	}}
	router := testRouter(orders, nil, nil)

	rec := doJSON(t, router, http.MethodPost, "/v1/orders/20240101000000-ABCD1234/pay", "user-1", "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if orders.lastNumber != "20240101000000-ABCD1234" {
		t.Fatalf("expected the path order number to reach the service, got %q", orders.lastNumber)
	}
	if !strings.Contains(rec.Body.String(), string(domain.StatusCancelled)) {
		t.Fatalf("the conflict body must name the blocking status, got %s", rec.Body.String())
	}
}

func TestGetOrder_NotFound(t *testing.T) {
	router := testRouter(&stubOrderService{err: domain.ErrNotFound}, nil, nil)

	rec := doJSON(t, router, http.MethodGet, "/v1/orders/no-such", "user-1", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAddCartItem(t *testing.T) {
	carts := &stubCartService{line: &domain.CartLine{
		ID: "line-1", ProductID: "prod-1", Quantity: 2, UnitPrice: decimal.RequireFromString("10.00"),
	}}
	router := testRouter(nil, carts, nil)

	rec := doJSON(t, router, http.MethodPost, "/v1/cart/items", "user-1", `{"sku":"SKU-1","quantity":2}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	carts.err = domain.ErrNotFound
	rec = doJSON(t, router, http.MethodPost, "/v1/cart/items", "user-1", `{"sku":"SKU-404","quantity":2}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for an unknown product, got %d", rec.Code)
	}
}

func TestShipIsAdminScoped(t *testing.T) {
	orders := &stubOrderService{order: sampleOrder()}
	router := testRouter(orders, nil, nil)

	// No identity header; fulfilment calls come from the back office.
	rec := doJSON(t, router, http.MethodPost, "/v1/admin/orders/20240101000000-ABCD1234/ship", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if orders.lastNumber != "20240101000000-ABCD1234" {
		t.Fatalf("expected the path order number to reach the service, got %q", orders.lastNumber)
	}
}

func TestPurgeOrder(t *testing.T) {
	orders := &stubOrderService{}
	router := testRouter(orders, nil, nil)

	rec := doJSON(t, router, http.MethodDelete, "/v1/admin/orders/order-1", "", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if len(orders.purged) != 1 || orders.purged[0] != "order-1" {
		t.Fatalf("unexpected purge calls %+v", orders.purged)
	}
}

func TestMalformedPathIDsReadAsNotFound(t *testing.T) {
	orders := &stubOrderService{}
	products := &stubProductService{product: &domain.Availability{}}
	router := testRouter(orders, &stubCartService{}, products)

	rec := doJSON(t, router, http.MethodGet, "/v1/products/not-a-uuid", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for a malformed product id, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodDelete, "/v1/admin/orders/abc", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for a malformed order id, got %d", rec.Code)
	}
	if len(orders.purged) != 0 {
		t.Fatalf("a malformed id must never reach the service, got %+v", orders.purged)
	}

	rec = doJSON(t, router, http.MethodPatch, "/v1/cart/items/abc", "user-1", `{"quantity":2}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for a malformed line id, got %d", rec.Code)
	}

	// A well-formed uuid still goes through.
	rec = doJSON(t, router, http.MethodGet, "/v1/products/0d9c33b5-6a1f-4a6e-9f5b-8a2d3f4e5a6b", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for a valid product id, got %d", rec.Code)
	}
}

func TestInternalErrorIsOpaque(t *testing.T) {
	router := testRouter(&stubOrderService{err: errors.New("pool exhausted")}, nil, nil)

	rec := doJSON(t, router, http.MethodGet, "/v1/orders", "user-1", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "pool exhausted") {
		t.Fatalf("internal detail must not leak, got %s", rec.Body.String())
	}
}
