// Package docs registers the swagger document served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "Roy Situmorang",
            "email": "roy.situmorang@gmail.com"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/v1/jwt": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["jwt"],
                "summary": "List the current user's tokens",
                "parameters": [
                    {"type": "integer", "description": "limit", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "zero-based page", "name": "page", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/helper.Response"}}}
            }
        },
        "/v1/jwt/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["jwt"],
                "summary": "Revoke one of the current user's tokens",
                "parameters": [
                    {"type": "string", "description": "token id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/helper.Response"}}
                }
            }
        },
        "/v1/transactions": {
            "get": {
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "List transactions",
                "parameters": [
                    {"type": "string", "description": "status", "name": "status", "in": "query"},
                    {"type": "string", "description": "buyer ids separated by |", "name": "buyer", "in": "query"},
                    {"type": "string", "description": "racket ids separated by |", "name": "racket", "in": "query"},
                    {"type": "boolean", "description": "count only", "name": "count_only", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/helper.Response"}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "Create a transaction",
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/helper.Response"}}}
            }
        },
        "/v1/transactions/autocomplete": {
            "get": {
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "Autocomplete transactions by id or transaction date",
                "parameters": [
                    {"type": "string", "description": "keyword", "name": "query", "in": "query"},
                    {"type": "integer", "description": "limit", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/helper.Response"}}}
            }
        },
        "/v1/transactions/bulk": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "Import transactions in one batch, buyer and racket are not linked",
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/helper.Response"}}}
            }
        },
        "/v1/transactions/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "Find a transaction with its buyer and racket",
                "parameters": [
                    {"type": "string", "description": "transaction id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/helper.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/helper.Response"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "Overwrite transaction date, status, buyer and racket",
                "parameters": [
                    {"type": "string", "description": "transaction id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/helper.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/helper.Response"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "Delete a transaction",
                "parameters": [
                    {"type": "string", "description": "transaction id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/helper.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/helper.Response"}}
                }
            }
        }
    },
    "definitions": {
        "helper.Response": {
            "type": "object",
            "properties": {
                "app": {"type": "string", "example": "raket"},
                "data": {},
                "latency": {"type": "string", "example": "7.746177ms"},
                "message": {"type": "string", "example": ""},
                "request_id": {"type": "string", "example": "6ba3451b-ac73-483e-8481-2ac53f5e75a2"},
                "request_url": {"type": "string", "example": "GET http://localhost:8080/ping"},
                "status": {"type": "string", "example": "OK"},
                "status_code": {"type": "integer", "example": 200},
                "timestamp": {"type": "string", "example": "2025-02-05T12:22:47.608963985+07:00"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Bearer access token issued by the token command",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Raket API",
	Description:      "Racket sales transactions.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
