package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the console.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>platefront admin console — Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Minimal OpenAPI document describing the console's HTTP surface.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "platefront-admin-console", "version": "v0.1.0" },
  "paths": {
    "/auth/login": {
      "post": {
        "summary": "Sign an administrator in and set the session cookie",
        "requestBody": { "content": { "application/x-www-form-urlencoded": { "schema": {"type":"object","properties":{"email":{"type":"string"},"password":{"type":"string"}}}}}},
        "responses": { "303": { "description": "redirect to /dashboard" }, "401": { "description": "credentials rejected" } }
      }
    },
    "/auth/logout": {
      "post": { "summary": "Revoke the session and clear the cookie", "responses": { "303": { "description": "redirect to login" } } }
    },
    "/dashboard": {
      "get": { "summary": "Dashboard page", "responses": { "200": { "description": "HTML shell with current snapshot" }, "303": { "description": "no session, redirect to login" } } }
    },
    "/dashboard/stream": {
      "get": { "summary": "Roster snapshots over server-sent events", "responses": { "200": { "description": "text/event-stream of snapshot and signout events" } } }
    },
    "/api/users": {
      "get": { "summary": "Current roster snapshot", "responses": { "200": { "description": "snapshot JSON" } } }
    },
    "/api/users/{id}": {
      "delete": { "summary": "Delete a user record (requires ?confirm=true)", "parameters": [ {"name":"id","in":"path","required":true,"schema":{"type":"string"}}, {"name":"confirm","in":"query","required":true,"schema":{"type":"string","enum":["true"]}} ], "responses": { "204": { "description": "deleted" }, "400": { "description": "confirmation missing" }, "404": { "description": "unknown user" } } }
    },
    "/api/exports": {
      "post": { "summary": "Archive the roster as CSV and return a download link", "responses": { "201": { "description": "export created" }, "503": { "description": "object storage not configured" } } },
      "get": { "summary": "Recent export records", "responses": { "200": { "description": "export list" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
