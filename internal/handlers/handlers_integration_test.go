package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"shopinpocket/internal/handlers"
	"shopinpocket/internal/middleware"
	"shopinpocket/internal/models"
	"shopinpocket/internal/repositories"
	"shopinpocket/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testBaseURL = "https://shopinpocket.example"

// setupApp builds a Fiber app wired against an in-memory SQLite database.
// Each test gets its own named database so state never leaks between tests.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Shop{}, &models.Product{}, &models.Order{}); err != nil {
		t.Fatalf("failed to auto-migrate database: %v", err)
	}

	userRepo := repositories.NewGORMUserRepository(db)
	shopRepo := repositories.NewGORMShopRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	statsRepo := repositories.NewGORMStatsRepository(db)

	authService := services.NewAuthService(userRepo, "test_jwt_secret", []string{"admin@sip.co.tz"})
	shopService := services.NewShopService(shopRepo, testBaseURL)
	productService := services.NewProductService(productRepo)
	orderService := services.NewOrderService(orderRepo, productRepo, shopRepo, nil, testBaseURL) // nil publisher: no broker in tests
	adminService := services.NewAdminService(statsRepo, shopRepo, productRepo, orderRepo)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")

	handlers.NewAuthHandler(authService).RegisterRoutes(apiV1)
	handlers.NewCustomerHandler(shopService, productService, orderService).RegisterRoutes(apiV1)

	protected := apiV1.Group("", middleware.AuthRequired(authService))
	handlers.NewShopHandler(shopService).RegisterRoutes(protected)
	handlers.NewProductHandler(productService, shopService).RegisterRoutes(protected)
	handlers.NewOrderHandler(orderService, shopService).RegisterRoutes(protected)
	handlers.NewAdminHandler(adminService).RegisterRoutes(protected.Group("", middleware.AdminRequired()))

	return app
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// doJSON performs a request with an optional JSON body and bearer token.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1) // -1 for no timeout
	assert.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	resp.Body.Close()
}

// registerAndLogin creates an account and returns its JWT token.
func registerAndLogin(t *testing.T, app *fiber.App, username, email string) string {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": "password123",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username,
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var loginResp map[string]string
	decodeBody(t, resp, &loginResp)
	assert.NotEmpty(t, loginResp["token"])
	return loginResp["token"]
}

// createShopAndProduct saves the seller's shop and lists one product,
// returning the shop slug and the product.
func createShopAndProduct(t *testing.T, app *fiber.App, token string) (string, models.Product) {
	t.Helper()

	resp := doJSON(t, app, http.MethodPut, "/api/v1/shop", token, map[string]string{
		"name":         "Duka Bora",
		"description":  "Everything under one roof",
		"contact_info": "0712000000",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var shopResp struct {
		Shop models.Shop `json:"shop"`
	}
	decodeBody(t, resp, &shopResp)
	assert.Equal(t, "duka-bora", shopResp.Shop.Slug)

	resp = doJSON(t, app, http.MethodPost, "/api/v1/products", token, map[string]interface{}{
		"name":  "Kanga",
		"price": 15000,
		"stock": 5,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var product models.Product
	decodeBody(t, resp, &product)
	assert.NotEmpty(t, product.ID)

	return shopResp.Shop.Slug, product
}

// placeTestOrder places an anonymous order and returns it.
func placeTestOrder(t *testing.T, app *fiber.App, slug, productID string, quantity int) models.Order {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/api/v1/shops/"+slug+"/orders", "", map[string]interface{}{
		"product_id":       productID,
		"customer_name":    "Asha Juma",
		"customer_contact": "0712345678",
		"delivery_address": "Kariakoo, Dar es Salaam",
		"quantity":         quantity,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var order models.Order
	decodeBody(t, resp, &order)
	assert.Equal(t, models.StatusPending, order.Status)
	return order
}

func TestOrderLifecycle(t *testing.T) {
	app := setupApp(t)
	token := registerAndLogin(t, app, "seller", "seller@example.com")
	slug, product := createShopAndProduct(t, app, token)

	// Public storefront lists the product.
	resp := doJSON(t, app, http.MethodGet, "/api/v1/shops/"+slug, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var storefront struct {
		Shop     models.Shop      `json:"shop"`
		Products []models.Product `json:"products"`
	}
	decodeBody(t, resp, &storefront)
	assert.Equal(t, "Duka Bora", storefront.Shop.Name)
	assert.Len(t, storefront.Products, 1)

	// Anonymous customer places an order; the contact is normalized.
	order := placeTestOrder(t, app, slug, product.ID, 2)
	assert.Equal(t, "255712345678", order.CustomerContact)

	// Seller sees the order in their list.
	resp = doJSON(t, app, http.MethodGet, "/api/v1/orders?status=Pending", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var orders []models.Order
	decodeBody(t, resp, &orders)
	assert.Len(t, orders, 1)

	// Accept reduces stock by the order quantity.
	resp = doJSON(t, app, http.MethodPatch, "/api/v1/orders/"+order.ID+"/status", token, map[string]string{"status": "Accepted"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var accepted models.Order
	decodeBody(t, resp, &accepted)
	assert.Equal(t, models.StatusAccepted, accepted.Status)

	resp = doJSON(t, app, http.MethodGet, "/api/v1/products", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var products []models.Product
	decodeBody(t, resp, &products)
	assert.Len(t, products, 1)
	assert.Equal(t, 3, products[0].Stock)

	// Mark delivered.
	resp = doJSON(t, app, http.MethodPatch, "/api/v1/orders/"+order.ID+"/status", token, map[string]string{"status": "Delivered"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var delivered models.Order
	decodeBody(t, resp, &delivered)
	assert.Equal(t, models.StatusDelivered, delivered.Status)
	assert.NotNil(t, delivered.DeliveredAt)

	// The wrong phone number reads as not found.
	resp = doJSON(t, app, http.MethodGet, "/api/v1/confirm-order?order_id="+order.ID+"&phone=0788888888", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// The seller fetches the capability link to share with the customer.
	resp = doJSON(t, app, http.MethodGet, "/api/v1/orders/"+order.ID+"/confirmation-link", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var linkResp map[string]string
	decodeBody(t, resp, &linkResp)
	assert.Equal(t, testBaseURL+"/confirm-order?order_id="+order.ID+"&phone=255712345678", linkResp["link"])

	// The customer opens the link (the local form of the number works too).
	resp = doJSON(t, app, http.MethodGet, "/api/v1/confirm-order?order_id="+order.ID+"&phone=0712345678", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var viewed models.Order
	decodeBody(t, resp, &viewed)
	assert.Equal(t, models.StatusDelivered, viewed.Status)

	// The customer confirms receipt.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/confirm-order", "", map[string]string{
		"order_id": order.ID,
		"phone":    "0712345678",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var confirmResp struct {
		Order models.Order `json:"order"`
	}
	decodeBody(t, resp, &confirmResp)
	assert.Equal(t, models.StatusReceived, confirmResp.Order.Status)
	assert.NotNil(t, confirmResp.Order.ReceivedAt)

	// A second confirmation changes nothing.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/confirm-order", "", map[string]string{
		"order_id": order.ID,
		"phone":    "0712345678",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()

	// And the seller cannot move a Received order anywhere.
	resp = doJSON(t, app, http.MethodPatch, "/api/v1/orders/"+order.ID+"/status", token, map[string]string{"status": "Accepted"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()
}

func TestOrderStatusSkippingRejected(t *testing.T) {
	app := setupApp(t)
	token := registerAndLogin(t, app, "seller", "seller@example.com")
	slug, product := createShopAndProduct(t, app, token)
	order := placeTestOrder(t, app, slug, product.ID, 1)

	// A Pending order cannot jump straight to Delivered or Received.
	for _, target := range []string{"Delivered", "Received"} {
		resp := doJSON(t, app, http.MethodPatch, "/api/v1/orders/"+order.ID+"/status", token, map[string]string{"status": target})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, "Pending -> %s must be rejected", target)
		resp.Body.Close()
	}

	// The customer cannot confirm an order that was never delivered.
	resp := doJSON(t, app, http.MethodPost, "/api/v1/confirm-order", "", map[string]string{
		"order_id": order.ID,
		"phone":    "0712345678",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()

	// An unknown status is a 422 too.
	resp = doJSON(t, app, http.MethodPatch, "/api/v1/orders/"+order.ID+"/status", token, map[string]string{"status": "Shipped"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()
}

func TestOrderRejectIsFinal(t *testing.T) {
	app := setupApp(t)
	token := registerAndLogin(t, app, "seller", "seller@example.com")
	slug, product := createShopAndProduct(t, app, token)
	order := placeTestOrder(t, app, slug, product.ID, 1)

	resp := doJSON(t, app, http.MethodPatch, "/api/v1/orders/"+order.ID+"/status", token, map[string]string{"status": "Rejected"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var rejected models.Order
	decodeBody(t, resp, &rejected)
	assert.Equal(t, models.StatusRejected, rejected.Status)

	// Rejection does not touch stock.
	resp = doJSON(t, app, http.MethodGet, "/api/v1/products", token, nil)
	var products []models.Product
	decodeBody(t, resp, &products)
	assert.Equal(t, 5, products[0].Stock)

	resp = doJSON(t, app, http.MethodPatch, "/api/v1/orders/"+order.ID+"/status", token, map[string]string{"status": "Accepted"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()
}

func TestPlaceOrderValidation(t *testing.T) {
	app := setupApp(t)
	token := registerAndLogin(t, app, "seller", "seller@example.com")
	slug, product := createShopAndProduct(t, app, token)

	// Unknown shop slug.
	resp := doJSON(t, app, http.MethodPost, "/api/v1/shops/no-such-shop/orders", "", map[string]interface{}{
		"product_id":       product.ID,
		"customer_name":    "Asha Juma",
		"customer_contact": "0712345678",
		"delivery_address": "Kariakoo",
		"quantity":         1,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// More than the available stock.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/shops/"+slug+"/orders", "", map[string]interface{}{
		"product_id":       product.ID,
		"customer_name":    "Asha Juma",
		"customer_contact": "0712345678",
		"delivery_address": "Kariakoo",
		"quantity":         99,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Missing required fields.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/shops/"+slug+"/orders", "", map[string]interface{}{
		"product_id": product.ID,
		"quantity":   1,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestSellerIsolation(t *testing.T) {
	app := setupApp(t)
	tokenA := registerAndLogin(t, app, "sellera", "sellera@example.com")
	slugA, productA := createShopAndProduct(t, app, tokenA)
	order := placeTestOrder(t, app, slugA, productA.ID, 1)

	tokenB := registerAndLogin(t, app, "sellerb", "sellerb@example.com")
	resp := doJSON(t, app, http.MethodPut, "/api/v1/shop", tokenB, map[string]string{
		"name":         "Shop B",
		"contact_info": "0713000000",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Seller B cannot see, transition, or delete seller A's order.
	resp = doJSON(t, app, http.MethodGet, "/api/v1/orders/"+order.ID, tokenB, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPatch, "/api/v1/orders/"+order.ID+"/status", tokenB, map[string]string{"status": "Accepted"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodDelete, "/api/v1/orders/"+order.ID, tokenB, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// Nor can B edit A's product.
	resp = doJSON(t, app, http.MethodPut, "/api/v1/products/"+productA.ID, tokenB, map[string]interface{}{
		"name":  "Hijacked",
		"price": 1,
		"stock": 1,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestShopSlugConflict(t *testing.T) {
	app := setupApp(t)
	tokenA := registerAndLogin(t, app, "sellera", "sellera@example.com")
	createShopAndProduct(t, app, tokenA)

	tokenB := registerAndLogin(t, app, "sellerb", "sellerb@example.com")
	resp := doJSON(t, app, http.MethodPut, "/api/v1/shop", tokenB, map[string]string{
		"name":         "Duka Bora",
		"contact_info": "0713000000",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestYourOrders(t *testing.T) {
	app := setupApp(t)
	token := registerAndLogin(t, app, "seller", "seller@example.com")
	slug, product := createShopAndProduct(t, app, token)
	placeTestOrder(t, app, slug, product.ID, 1)
	placeTestOrder(t, app, slug, product.ID, 2)

	resp := doJSON(t, app, http.MethodGet, "/api/v1/your-orders?phone=0712345678", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var orders []models.Order
	decodeBody(t, resp, &orders)
	assert.Len(t, orders, 2)

	resp = doJSON(t, app, http.MethodGet, "/api/v1/your-orders?phone=0788888888", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var none []models.Order
	decodeBody(t, resp, &none)
	assert.Empty(t, none)
}

func TestAdminEndpoints(t *testing.T) {
	app := setupApp(t)
	sellerToken := registerAndLogin(t, app, "seller", "seller@example.com")
	slug, product := createShopAndProduct(t, app, sellerToken)
	order := placeTestOrder(t, app, slug, product.ID, 2)

	// Walk the order to Received so it counts towards revenue.
	resp := doJSON(t, app, http.MethodPatch, "/api/v1/orders/"+order.ID+"/status", sellerToken, map[string]string{"status": "Accepted"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	resp = doJSON(t, app, http.MethodPatch, "/api/v1/orders/"+order.ID+"/status", sellerToken, map[string]string{"status": "Delivered"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	resp = doJSON(t, app, http.MethodPost, "/api/v1/confirm-order", "", map[string]string{
		"order_id": order.ID,
		"phone":    "0712345678",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// An ordinary seller is not an admin.
	resp = doJSON(t, app, http.MethodGet, "/api/v1/admin/stats", sellerToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// The allowlisted email is.
	adminToken := registerAndLogin(t, app, "admin", "admin@sip.co.tz")
	resp = doJSON(t, app, http.MethodGet, "/api/v1/admin/stats", adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var stats services.PlatformStats
	decodeBody(t, resp, &stats)
	assert.Equal(t, int64(1), stats.Shops)
	assert.Equal(t, int64(1), stats.Products)
	assert.Equal(t, int64(1), stats.Orders)
	assert.Equal(t, int64(1), stats.OrdersByStatus[models.StatusReceived])
	assert.Equal(t, float64(30000), stats.Revenue)

	resp = doJSON(t, app, http.MethodGet, "/api/v1/admin/shops", adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var shops []models.Shop
	decodeBody(t, resp, &shops)
	assert.Len(t, shops, 1)

	resp = doJSON(t, app, http.MethodGet, "/api/v1/admin/orders", adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var orders []models.Order
	decodeBody(t, resp, &orders)
	assert.Len(t, orders, 1)
}

func TestProtectedEndpointsWithoutAuth(t *testing.T) {
	app := setupApp(t)

	for _, path := range []string{"/api/v1/shop", "/api/v1/products", "/api/v1/orders", "/api/v1/admin/stats"} {
		resp := doJSON(t, app, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "GET %s without token", path)
		resp.Body.Close()
	}
}
