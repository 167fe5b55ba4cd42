package server

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v3"

	"github.com/mkgstf/DocRP-Backend/internal/config"
)

func testServer() *Server {
	return New(&config.Config{
		Env:        "development",
		ServerAddr: ":0",
		BaseURL:    "http://localhost:3000",
	})
}

func TestErrorHandlerReturnsJSONEnvelope(t *testing.T) {
	s := testServer()

	req, _ := http.NewRequest("GET", "/does-not-exist", nil)
	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	var body struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	raw, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("response is not JSON: %v (%s)", err, raw)
	}
	if body.Status != "error" || body.Error == "" {
		t.Errorf("unexpected error envelope: %s", raw)
	}
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	s := New(&config.Config{
		Env:         "development",
		ServerAddr:  ":0",
		BaseURL:     "http://localhost:3000",
		CORSOrigins: "https://clinic.example.com",
	})
	s.App.Get("/ping", func(c fiber.Ctx) error { return c.SendString("pong") })

	req, _ := http.NewRequest("OPTIONS", "/ping", nil)
	req.Header.Set("Origin", "https://clinic.example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")

	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatalf("preflight failed: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://clinic.example.com" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}
