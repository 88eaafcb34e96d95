package integration

import (
	"encoding/json"
	"net/http"
	"testing"

	"loadlink_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLoginRefresh(t *testing.T) {
	ts := helpers.NewTestServer(t)
	defer ts.Close()
	ts.ClearTables(t)

	resp, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", "",
		map[string]interface{}{
			"email":        "dispatch@example.com",
			"password":     "test-password-123",
			"name":         "Dispatch Desk",
			"company_name": "Acme Freight",
			"role":         "carrier",
		})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", body)

	var registered struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		User         struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &registered))
	assert.NotEmpty(t, registered.AccessToken)
	assert.Equal(t, "carrier", registered.User.Role)

	// Duplicate emails are refused.
	resp, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", "",
		map[string]interface{}{
			"email":        "dispatch@example.com",
			"password":     "test-password-123",
			"name":         "Dispatch Desk",
			"company_name": "Acme Freight",
			"role":         "carrier",
		})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "",
		map[string]interface{}{"email": "dispatch@example.com", "password": "test-password-123"})
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", body)

	var loggedIn struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &loggedIn))

	resp, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "",
		map[string]interface{}{"email": "dispatch@example.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = ts.SendRequest(t, http.MethodGet, "/api/v1/auth/me", loggedIn.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me struct {
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &me))
	assert.Equal(t, "dispatch@example.com", me.Email)

	// Refresh rotates the token: the old one stops working.
	resp, body = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/refresh", "",
		map[string]interface{}{"refresh_token": loggedIn.RefreshToken})
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", body)

	resp, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/refresh", "",
		map[string]interface{}{"refresh_token": loggedIn.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAlertPreferencesAndServiceAreas(t *testing.T) {
	ts := helpers.NewTestServer(t)
	defer ts.Close()
	ts.ClearTables(t)

	token, _ := ts.RegisterUser(t, "carrier@example.com", "carrier")

	// Defaults apply before anything is saved.
	resp, body := ts.SendRequest(t, http.MethodGet, "/api/v1/alerts/preferences", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pref struct {
		EmailEnabled    bool `json:"email_enabled"`
		RfpAlerts       bool `json:"rfp_alerts"`
		OpenTruckAlerts bool `json:"open_truck_alerts"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &pref))
	assert.True(t, pref.EmailEnabled)
	assert.True(t, pref.RfpAlerts)
	assert.False(t, pref.OpenTruckAlerts)

	resp, body = ts.SendRequest(t, http.MethodPut, "/api/v1/alerts/preferences", token,
		map[string]interface{}{"open_truck_alerts": true, "email_enabled": false})
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", body)
	require.NoError(t, json.Unmarshal([]byte(body), &pref))
	assert.False(t, pref.EmailEnabled)
	assert.True(t, pref.RfpAlerts)
	assert.True(t, pref.OpenTruckAlerts)

	resp, body = ts.SendRequest(t, http.MethodPost, "/api/v1/alerts/service-areas", token,
		map[string]interface{}{"zip_code": "60601", "radius": 100})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", body)
	var area struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &area))

	// Exact duplicates are refused.
	resp, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/alerts/service-areas", token,
		map[string]interface{}{"zip_code": "60601", "radius": 100})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/alerts/service-areas", token,
		map[string]interface{}{"zip_code": "bad-zip", "radius": 100})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = ts.SendRequest(t, http.MethodGet, "/api/v1/alerts/service-areas", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listed struct {
		ServiceAreas []struct {
			ZipCode string  `json:"zip_code"`
			Radius  float64 `json:"radius"`
		} `json:"service_areas"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &listed))
	require.Len(t, listed.ServiceAreas, 1)
	assert.Equal(t, "60601", listed.ServiceAreas[0].ZipCode)

	resp, _ = ts.SendRequest(t, http.MethodDelete, "/api/v1/alerts/service-areas/"+area.ID, token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = ts.SendRequest(t, http.MethodDelete, "/api/v1/alerts/service-areas/"+area.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
