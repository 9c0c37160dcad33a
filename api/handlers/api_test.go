package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

var a App

func executeRequest(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	a.Router.ServeHTTP(rr, req)
	return rr
}

func checkResponseCode(t *testing.T, expected, actual int) {
	if expected != actual {
		t.Errorf("Expected response code %d. Got %d\n", expected, actual)
	}
}

func TestUnknownRoute(t *testing.T) {
	a.Router = a.New()
	req, _ := http.NewRequest("GET", "/asdf", nil)
	response := executeRequest(req)

	checkResponseCode(t, http.StatusNotFound, response.Code)
}

func TestHealthCheckRoute(t *testing.T) {
	a.Router = a.New()
	req, _ := http.NewRequest("GET", "/health", nil)
	response := executeRequest(req)

	checkResponseCode(t, http.StatusOK, response.Code)

	if !strings.Contains(response.Body.String(), "alive") {
		t.Errorf("Expected 'alive' in the reponse. Got '%s'", response.Body.String())
	}
}

func TestApp_TeamHandlerUnauthorized(t *testing.T) {
	a.Router = a.New()
	req, _ := http.NewRequest("GET", "/api/v1/team/1234", nil)
	response := executeRequest(req)

	checkResponseCode(t, http.StatusUnauthorized, response.Code)
}

func TestApp_InventoryCreateRequiresAdmin(t *testing.T) {
	a.Router = a.New()
	req, _ := http.NewRequest("POST", "/api/v1/inventory", nil)
	response := executeRequest(req)

	checkResponseCode(t, http.StatusUnauthorized, response.Code)
}

func TestGetLimitDefaultsAndCaps(t *testing.T) {
	req, _ := http.NewRequest("GET", "/api/v1/inventory", nil)
	if got := getLimit(req); got != 25 {
		t.Errorf("Expected default limit 25. Got %d", got)
	}

	req, _ = http.NewRequest("GET", "/api/v1/inventory?limit=5000", nil)
	if got := getLimit(req); got != 100 {
		t.Errorf("Expected capped limit 100. Got %d", got)
	}

	req, _ = http.NewRequest("GET", "/api/v1/inventory?page=-3", nil)
	if got := getPage(req); got != 0 {
		t.Errorf("Expected negative page to default to 0. Got %d", got)
	}
}
