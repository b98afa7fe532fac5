package handlers

import (
	"net/http"
)

// Endpoints lists the routes advertised by GET /
var Endpoints = map[string]string{
	"metrics":   "/metrics",
	"quality":   "/quality",
	"ingest":    "/ingest",
	"runs":      "/runs",
	"health":    "/health",
	"ws_events": "/ws/events",
}

// Root returns the service discovery document
// GET /
func Root(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "Employee Data Pipeline API",
		"endpoints": Endpoints,
	})
}

// Health returns server health status
// GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"service": "roster-api",
	})
}
