package acceptance

import (
	"net/http"
	"net/http/httptest"
)

func (s *Suite) TestHealth() {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.App.Router().ServeHTTP(rec, req)

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"status": "pass"}`, rec.Body.String())
}

func (s *Suite) TestMetricsEndpoint() {
	// drive at least one request through the pipeline first
	s.Platform.SeedAccount("son@example.com", "Password123", "sonny", "Son Heungmin")
	s.login("sonny")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.App.Router().ServeHTTP(rec, req)

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "client_requests_total")
}
