package helpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
)

// RegisterUser registers a user through the API and returns the access
// token and user ID.
func (ts *TestServer) RegisterUser(t *testing.T, email, role string) (token, userID string) {
	resp, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"email":    email,
		"password": "test-password-123",
		"name":     "Test " + role,
		"role":     role,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("registration failed for %s: status %d, body %s", email, resp.StatusCode, body)
	}

	var parsed struct {
		AccessToken string `json:"access_token"`
		User        struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		t.Fatalf("failed to parse registration response: %v", err)
	}

	return parsed.AccessToken, parsed.User.ID
}

// CreateLoad posts a load and returns its ID.
func (ts *TestServer) CreateLoad(t *testing.T, token, loadType, zip string) string {
	resp, body := ts.SendRequest(t, http.MethodPost, "/api/v1/loads", token, map[string]interface{}{
		"type":          loadType,
		"pickup_city":   "Chicago",
		"pickup_zip":    zip,
		"delivery_city": "Detroit",
		"rate":          1200.50,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("load creation failed: status %d, body %s", resp.StatusCode, body)
	}

	var parsed struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		t.Fatalf("failed to parse load response: %v", err)
	}
	return parsed.ID
}

// CreateRequest bids on a load and returns the request ID.
func (ts *TestServer) CreateRequest(t *testing.T, token, loadID string) string {
	resp, body := ts.SendRequest(t, http.MethodPost,
		fmt.Sprintf("/api/v1/loads/%s/requests", loadID), token, map[string]interface{}{
			"message": "Available for this lane",
		})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("request creation failed: status %d, body %s", resp.StatusCode, body)
	}

	var parsed struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		t.Fatalf("failed to parse request response: %v", err)
	}
	return parsed.ID
}
