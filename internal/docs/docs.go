// Package docs registers the OpenAPI description served at /swagger.
// Regenerate with: swag init -g cmd/api/main.go -o internal/docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/register": {
            "post": {"tags": ["auth"], "summary": "Register a new user", "responses": {"201": {"description": "User registered and tokens generated"}}}
        },
        "/auth/login": {
            "post": {"tags": ["auth"], "summary": "Login user", "responses": {"200": {"description": "User authenticated and tokens generated"}}}
        },
        "/auth/refresh": {
            "post": {"tags": ["auth"], "summary": "Refresh tokens", "responses": {"200": {"description": "New tokens"}}}
        },
        "/profile": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["user"], "summary": "Get user profile", "responses": {"200": {"description": "User profile"}}}
        },
        "/advisors": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["advisors"], "summary": "List advisors", "responses": {"200": {"description": "Paginated advisors"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["advisors"], "summary": "Create an advisor", "responses": {"201": {"description": "Advisor created"}}}
        },
        "/advisors/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["advisors"], "summary": "Get an advisor", "responses": {"200": {"description": "Advisor"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["advisors"], "summary": "Update an advisor", "responses": {"200": {"description": "Updated advisor"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["advisors"], "summary": "Deactivate an advisor", "responses": {"200": {"description": "Advisor deactivated"}}}
        },
        "/advisors/{id}/performance": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["performance"], "summary": "Get advisor performance", "responses": {"200": {"description": "Metrics"}}}
        },
        "/advisors/{id}/performance/trend": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["performance"], "summary": "Get advisor trend", "responses": {"200": {"description": "Trend buckets"}}}
        },
        "/me/performance": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["performance"], "summary": "Get my performance", "responses": {"200": {"description": "Metrics"}}}
        },
        "/me/performance/trend": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["performance"], "summary": "Get my trend", "responses": {"200": {"description": "Trend buckets"}}}
        },
        "/recommendations": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["recommendations"], "summary": "List recommendations", "responses": {"200": {"description": "Paginated recommendations"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["recommendations"], "summary": "Create a recommendation", "responses": {"201": {"description": "Recommendation created"}}}
        },
        "/recommendations/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["recommendations"], "summary": "Get a recommendation", "responses": {"200": {"description": "Recommendation"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["recommendations"], "summary": "Update a recommendation", "responses": {"200": {"description": "Updated recommendation"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["recommendations"], "summary": "Delete a recommendation", "responses": {"200": {"description": "Recommendation deleted"}}}
        },
        "/timeframes": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["recommendations"], "summary": "List timeframes", "responses": {"200": {"description": "Timeframes"}}}
        },
        "/dashboard": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["performance"], "summary": "Get dashboard", "responses": {"200": {"description": "Dashboard"}}}
        },
        "/leaderboard": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["performance"], "summary": "Get leaderboard", "responses": {"200": {"description": "Ranked advisors"}}}
        },
        "/performance": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["performance"], "summary": "Get roster performance", "responses": {"200": {"description": "Per-advisor metrics"}}}
        },
        "/performance/trend": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["performance"], "summary": "Get network trend", "responses": {"200": {"description": "Trend buckets"}}}
        },
        "/performance/snapshots": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["performance"], "summary": "Get performance snapshots", "responses": {"200": {"description": "Paginated snapshots"}}}
        },
        "/search": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["search"], "summary": "Search", "responses": {"200": {"description": "Results"}}}
        },
        "/search/export": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["search"], "summary": "Export search results", "produces": ["text/csv"], "responses": {"200": {"description": "CSV file"}}}
        },
        "/pipeline/snapshots": {
            "post": {"tags": ["pipeline"], "summary": "Compute performance snapshots", "responses": {"200": {"description": "Snapshots recorded count"}}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "AdvisorIQ API",
	Description:      "Advisor performance analytics: roster, recommendations, metrics, trends, leaderboards and the operations dashboard.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
