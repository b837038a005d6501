// Package docs holds the OpenAPI description served under /swagger.
// Regenerate with: swag init -g cmd/burgerd/main.go
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
        "/health": {
            "get": {
                "tags": ["health"],
                "summary": "Health check",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/ingredients": {
            "get": {
                "tags": ["ingredients"],
                "summary": "Get the ingredient catalog",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.IngredientsResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/api/orders/all": {
            "get": {
                "tags": ["orders"],
                "summary": "Get the public order feed",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.FeedResponse"}}
                }
            }
        },
        "/api/orders": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["orders"],
                "summary": "Get my orders",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.FeedResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "403": {"description": "jwt expired", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["orders"],
                "summary": "Place an order",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "order", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.CreateOrderRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.NewOrderResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/api/orders/{number}": {
            "get": {
                "tags": ["orders"],
                "summary": "Get order by number",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "name": "number", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.OrdersResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/api/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Create an account",
                "parameters": [
                    {"name": "user", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.RegisterRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.AuthResponse"}},
                    "403": {"description": "User already exists", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/api/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Log in",
                "parameters": [
                    {"name": "credentials", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.AuthResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/api/auth/token": {
            "post": {
                "tags": ["auth"],
                "summary": "Refresh the token pair",
                "parameters": [
                    {"name": "token", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.TokenRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.RefreshResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/api/auth/logout": {
            "post": {
                "tags": ["auth"],
                "summary": "Log out",
                "parameters": [
                    {"name": "token", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.TokenRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.MessageResponse"}}
                }
            }
        },
        "/api/auth/user": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Get my profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.UserResponse"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Update my profile",
                "parameters": [
                    {"name": "user", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.UpdateUserRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.UserResponse"}}
                }
            }
        },
        "/api/password-reset": {
            "post": {
                "tags": ["auth"],
                "summary": "Request a password reset",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.ForgotPasswordRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.MessageResponse"}}
                }
            }
        },
        "/api/password-reset/reset": {
            "post": {
                "tags": ["auth"],
                "summary": "Reset the password",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.ResetPasswordRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.MessageResponse"}},
                    "403": {"description": "Incorrect reset token", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/oauth/token": {
            "post": {
                "tags": ["OAuth2"],
                "summary": "OAuth2 token endpoint",
                "consumes": ["application/x-www-form-urlencoded"],
                "parameters": [
                    {"type": "string", "name": "grant_type", "in": "formData", "required": true},
                    {"type": "string", "name": "client_id", "in": "formData", "required": true},
                    {"type": "string", "name": "client_secret", "in": "formData", "required": true},
                    {"type": "string", "name": "username", "in": "formData"},
                    {"type": "string", "name": "password", "in": "formData"},
                    {"type": "string", "name": "refresh_token", "in": "formData"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "models.ErrorResponse": {
            "type": "object",
            "properties": {"success": {"type": "boolean"}, "message": {"type": "string"}}
        },
        "models.Ingredient": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "name": {"type": "string"},
                "type": {"type": "string", "enum": ["bun", "main", "sauce"]},
                "proteins": {"type": "integer"},
                "fat": {"type": "integer"},
                "carbohydrates": {"type": "integer"},
                "calories": {"type": "integer"},
                "price": {"type": "integer"},
                "image": {"type": "string"},
                "image_mobile": {"type": "string"},
                "image_large": {"type": "string"}
            }
        },
        "models.Order": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "status": {"type": "string"},
                "name": {"type": "string"},
                "number": {"type": "integer"},
                "ingredients": {"type": "array", "items": {"type": "string"}},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "models.Profile": {
            "type": "object",
            "properties": {"email": {"type": "string"}, "name": {"type": "string"}}
        },
        "api.IngredientsResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {"type": "array", "items": {"$ref": "#/definitions/models.Ingredient"}}
            }
        },
        "api.FeedResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "orders": {"type": "array", "items": {"$ref": "#/definitions/models.Order"}},
                "total": {"type": "integer"},
                "totalToday": {"type": "integer"}
            }
        },
        "api.OrdersResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "orders": {"type": "array", "items": {"$ref": "#/definitions/models.Order"}}
            }
        },
        "api.NewOrderResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "name": {"type": "string"},
                "order": {"$ref": "#/definitions/models.Order"}
            }
        },
        "api.CreateOrderRequest": {
            "type": "object",
            "required": ["ingredients"],
            "properties": {"ingredients": {"type": "array", "items": {"type": "string"}}}
        },
        "api.AuthResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "accessToken": {"type": "string"},
                "refreshToken": {"type": "string"},
                "user": {"$ref": "#/definitions/models.Profile"}
            }
        },
        "api.RefreshResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "accessToken": {"type": "string"},
                "refreshToken": {"type": "string"}
            }
        },
        "api.UserResponse": {
            "type": "object",
            "properties": {"success": {"type": "boolean"}, "user": {"$ref": "#/definitions/models.Profile"}}
        },
        "api.MessageResponse": {
            "type": "object",
            "properties": {"success": {"type": "boolean"}, "message": {"type": "string"}}
        },
        "api.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "api.RegisterRequest": {
            "type": "object",
            "required": ["email", "name", "password"],
            "properties": {"email": {"type": "string"}, "name": {"type": "string"}, "password": {"type": "string"}}
        },
        "api.UpdateUserRequest": {
            "type": "object",
            "properties": {"email": {"type": "string"}, "name": {"type": "string"}, "password": {"type": "string"}}
        },
        "api.TokenRequest": {
            "type": "object",
            "required": ["token"],
            "properties": {"token": {"type": "string"}}
        },
        "api.ForgotPasswordRequest": {
            "type": "object",
            "required": ["email"],
            "properties": {"email": {"type": "string"}}
        },
        "api.ResetPasswordRequest": {
            "type": "object",
            "required": ["password", "token"],
            "properties": {"password": {"type": "string"}, "token": {"type": "string"}}
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
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Burger API",
	Description:      "Catalog, orders and accounts for the burger constructor",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
