package routes_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rpradhan/stockroom/app/models"
	"github.com/rpradhan/stockroom/internal/server"
	"github.com/rpradhan/stockroom/pkg/auth"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Supplier{}, &models.Stock{}, &models.StockHistory{},
	))

	hash, err := auth.HashPassword("supersecret")
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.User{
		Name: "Admin", Email: "admin@example.com", Password: hash, Role: models.RoleAdmin,
	}).Error)

	r, _, err := server.NewRouter(db)
	require.NoError(t, err)

	ts := httptest.NewServer(r.Handler())
	t.Cleanup(ts.Close)
	return ts
}

type apiClient struct {
	t     *testing.T
	base  string
	token string
}

func (c *apiClient) do(method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, c.base+path, &buf)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func login(t *testing.T, ts *httptest.Server) *apiClient {
	t.Helper()
	c := &apiClient{t: t, base: ts.URL}

	resp, body := c.do(http.MethodPost, "/api/login", map[string]string{
		"email": "admin@example.com", "password": "supersecret",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	token, ok := data["token"].(string)
	require.True(t, ok)
	c.token = token
	return c
}

func TestLoginAndProtectedAccess(t *testing.T) {
	ts := newTestServer(t)

	anon := &apiClient{t: t, base: ts.URL}
	resp, _ := anon.do(http.MethodGet, "/api/stocks", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	c := login(t, ts)
	resp, _ = c.do(http.MethodGet, "/api/stocks", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := c.do(http.MethodGet, "/api/me", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "admin@example.com", data["email"])
}

func TestStockAndMovementFlow(t *testing.T) {
	ts := newTestServer(t)
	c := login(t, ts)

	resp, body := c.do(http.MethodPost, "/api/stocks", map[string]interface{}{
		"name":             "Hex Bolt M8",
		"part_number":      "HB-M8",
		"reorder_level":    5,
		"opening_quantity": 10,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	stock := body["data"].(map[string]interface{})
	stockID := int(stock["id"].(float64))
	assert.Equal(t, float64(10), stock["quantity"])

	// Record an outgoing movement.
	resp, _ = c.do(http.MethodPost, "/api/reports", map[string]interface{}{
		"stock_id":         stockID,
		"quantity_change":  -4,
		"transaction_type": "outgoing",
		"transaction_date": "2026-08-30",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body = c.do(http.MethodGet, fmt.Sprintf("/api/stocks/%d", stockID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(6), body["data"].(map[string]interface{})["quantity"])

	// Overdraw is refused with 409 and changes nothing.
	resp, _ = c.do(http.MethodPost, "/api/reports", map[string]interface{}{
		"stock_id":         stockID,
		"quantity_change":  -7,
		"transaction_type": "outgoing",
		"transaction_date": "2026-08-30",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = c.do(http.MethodGet, fmt.Sprintf("/api/stocks/%d", stockID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(6), body["data"].(map[string]interface{})["quantity"])
}

func TestValidationAndNotFoundMapping(t *testing.T) {
	ts := newTestServer(t)
	c := login(t, ts)

	// Wrong sign for the declared type → 422 with a field error.
	resp, body := c.do(http.MethodPost, "/api/reports", map[string]interface{}{
		"stock_id":         1,
		"quantity_change":  5,
		"transaction_type": "outgoing",
		"transaction_date": "2026-08-30",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	errs, ok := body["errors"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, errs, "quantity_change")

	resp, _ = c.do(http.MethodGet, "/api/stocks/9999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = c.do(http.MethodDelete, "/api/reports/9999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDashboardAndGraphQL(t *testing.T) {
	ts := newTestServer(t)
	c := login(t, ts)

	resp, _ := c.do(http.MethodPost, "/api/stocks", map[string]interface{}{
		"name":             "Bearing",
		"part_number":      "BRG-1",
		"reorder_level":    5,
		"opening_quantity": 3,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := c.do(http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["total_items"])
	assert.Equal(t, float64(3), data["total_quantity"])

	resp, body = c.do(http.MethodPost, "/api/graphql", map[string]interface{}{
		"query": `{ stocks { name quantity status } }`,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	gdata := body["data"].(map[string]interface{})
	stocks := gdata["stocks"].([]interface{})
	require.Len(t, stocks, 1)
	first := stocks[0].(map[string]interface{})
	assert.Equal(t, "Bearing", first["name"])
	assert.Equal(t, "LowStock", first["status"])
}

func TestUsersRequireAdminRole(t *testing.T) {
	ts := newTestServer(t)
	c := login(t, ts)

	// Admin may create a manager account.
	resp, _ := c.do(http.MethodPost, "/api/users", map[string]interface{}{
		"name":     "Picker",
		"email":    "picker@example.com",
		"password": "supersecret",
		"role":     "manager",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// The manager must not reach user management.
	manager := &apiClient{t: t, base: ts.URL}
	resp, body := manager.do(http.MethodPost, "/api/login", map[string]string{
		"email": "picker@example.com", "password": "supersecret",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	manager.token = body["data"].(map[string]interface{})["token"].(string)

	resp, _ = manager.do(http.MethodGet, "/api/users", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
