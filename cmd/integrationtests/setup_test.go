package integrationtests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"marketplace-api/internal/auth"
	market "marketplace-api/internal/marketService"
	model "marketplace-api/internal/models"
	"marketplace-api/internal/repository"
	"marketplace-api/internal/server"
	"marketplace-api/services/market/helpers"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const testSecret = "integration-secret"

// Seeded user IDs
const (
	alice uint = 1
	bob   uint = 2
	carol uint = 3
	admin uint = 4
)

// testApp bundles a router with the store behind it
type testApp struct {
	router *gin.Engine
	repo   *repository.MemoryRepo
}

// SetupTestApp initializes the router with a seeded in-memory repository for integration testing.
func SetupTestApp(policy market.BidPolicy) *testApp {
	gin.SetMode(gin.TestMode)

	repo := repository.NewMemoryRepo()
	repo.AddUser(model.User{ID: alice, Username: "alice", Email: "alice@example.com"})
	repo.AddUser(model.User{ID: bob, Username: "bob", Email: "bob@example.com"})
	repo.AddUser(model.User{ID: carol, Username: "carol", Email: "carol@example.com"})
	repo.AddUser(model.User{ID: admin, Username: "admin", Email: "admin@example.com", Admin: true})

	service := market.NewMarketService(repo, policy)
	gate := auth.NewGate(testSecret, repo)
	router := server.SetupRouter(service, gate, helpers.DefaultExpand())
	return &testApp{router: router, repo: repo}
}

// Token issues a bearer token for userID
func Token(t *testing.T, userID uint) string {
	t.Helper()
	token, err := auth.IssueToken(testSecret, userID, time.Hour)
	require.NoError(t, err)
	return token
}

// ExecuteRequest executes an HTTP request as userID (0 for anonymous) and returns the response recorder.
func (a *testApp) ExecuteRequest(t *testing.T, userID uint, method, url string, body any) *httptest.ResponseRecorder {
	t.Helper()

	header := ""
	if userID != 0 {
		header = "Bearer " + Token(t, userID)
	}
	return a.ExecuteRequestWithAuth(t, header, method, url, body)
}

// ExecuteRequestWithAuth executes an HTTP request with a raw Authorization header, omitted when empty.
func (a *testApp) ExecuteRequestWithAuth(t *testing.T, authHeader, method, url string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody []byte
	switch v := body.(type) {
	case nil:
	case string:
		reqBody = []byte(v)
	case []byte:
		reqBody = v
	default:
		var err error
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// ExecuteRequestAndParse executes an HTTP request and parses the JSON object in the response
func (a *testApp) ExecuteRequestAndParse(t *testing.T, userID uint, method, url string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	w := a.ExecuteRequest(t, userID, method, url, body)

	var resp map[string]any
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
	}
	return resp, w
}

// CreateProduct posts a valid product as sellerID and returns its path
func (a *testApp) CreateProduct(t *testing.T, sellerID uint, name string, price float64) string {
	t.Helper()

	resp, w := a.ExecuteRequestAndParse(t, sellerID, "POST", "/api/products", ProductBody(name, price))
	require.Equal(t, 201, w.Code, w.Body.String())
	return fmt.Sprintf("/api/products/%d", uint(resp["id"].(float64)))
}

// PlaceBid posts a bid as bidderID and returns the new bid's path
func (a *testApp) PlaceBid(t *testing.T, bidderID uint, productPath string, amount float64) string {
	t.Helper()

	resp, w := a.ExecuteRequestAndParse(t, bidderID, "POST", productPath+"/bids", map[string]any{"amount": amount})
	require.Equal(t, 201, w.Code, w.Body.String())
	return fmt.Sprintf("/api/bids/%d", uint(resp["id"].(float64)))
}

// ProductBody is a complete, valid product payload
func ProductBody(name string, price float64) map[string]any {
	return map[string]any{
		"name":          name,
		"description":   name + " description",
		"category":      "furniture",
		"originalPrice": price,
		"pictureUrl":    "http://x/y.png",
		"endDate":       "2025-01-01",
	}
}
