// Package docs registers the OpenAPI description served at /swagger.
//
// The paths mirror the annotations on the handlers in internal/api/handler;
// regenerate with `swag init -g cmd/authsvc/main.go` after changing them.
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
        "/api/auth/signin": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign in",
                "parameters": [{"description": "Login credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.signinRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.response"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/handler.response"}}
                }
            }
        },
        "/api/auth/signup": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign up",
                "parameters": [{"description": "Registration details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.signupRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.response"}}
                }
            }
        },
        "/api/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current principal",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.response"}}
                }
            }
        },
        "/api/auth/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Auth health",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.response"}}}
            }
        },
        "/api/test/all": {
            "get": {"produces": ["application/json"], "tags": ["boards"], "summary": "Public board",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.response"}}}}
        },
        "/api/test/user": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["boards"], "summary": "User board",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.response"}}, "403": {"description": "Forbidden"}}}
        },
        "/api/test/instructor": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["boards"], "summary": "Instructor board",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.response"}}, "403": {"description": "Forbidden"}}}
        },
        "/api/test/admin": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["boards"], "summary": "Admin board",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.response"}}, "403": {"description": "Forbidden"}}}
        }
    },
    "definitions": {
        "handler.response": {
            "type": "object",
            "properties": {"success": {"type": "boolean"}, "message": {"type": "string"}, "data": {}}
        },
        "handler.signinRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {"username": {"type": "string"}, "password": {"type": "string"}}
        },
        "handler.signupRequest": {
            "type": "object",
            "required": ["username", "email", "password", "firstName", "lastName"],
            "properties": {
                "username": {"type": "string", "minLength": 3, "maxLength": 50},
                "email": {"type": "string", "maxLength": 100},
                "password": {"type": "string", "minLength": 6, "maxLength": 40},
                "firstName": {"type": "string", "maxLength": 50},
                "lastName": {"type": "string", "maxLength": 50},
                "roles": {"type": "array", "items": {"type": "string"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Auth Service API",
	Description:      "Identity issuance and role-based access control.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
