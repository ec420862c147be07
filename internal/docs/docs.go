// Package docs holds the OpenAPI description served at /swagger. The
// template mirrors the swag generator's output format so gin-swagger can
// serve it; regenerate with `swag init` after changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "termsOfService": "http://swagger.io/terms/",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Register a new user",
                "responses": {
                    "201": {"description": "User registered and tokens generated"},
                    "400": {"description": "Invalid input"},
                    "409": {"description": "Email already registered"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Login user",
                "responses": {
                    "200": {"description": "User authenticated and tokens generated"},
                    "401": {"description": "Invalid credentials"},
                    "423": {"description": "Account locked"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["auth"],
                "summary": "Refresh tokens",
                "responses": {
                    "200": {"description": "New token pair"},
                    "401": {"description": "Invalid or expired refresh token"}
                }
            }
        },
        "/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["user"],
                "summary": "Get user profile",
                "responses": {"200": {"description": "User profile"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["user"],
                "summary": "Update user profile",
                "responses": {"200": {"description": "Updated profile"}}
            }
        },
        "/properties": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["properties"],
                "summary": "Get properties",
                "responses": {"200": {"description": "Paginated properties"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["properties"],
                "summary": "Create a property",
                "responses": {"201": {"description": "Property created"}}
            }
        },
        "/tenants": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["tenants"],
                "summary": "Get tenants",
                "responses": {"200": {"description": "Paginated tenants"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["tenants"],
                "summary": "Create a tenant",
                "responses": {"201": {"description": "Tenant created"}}
            }
        },
        "/payments": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["payments"],
                "summary": "Get payments",
                "responses": {"200": {"description": "Paginated payments"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["payments"],
                "summary": "Create a payment",
                "responses": {"201": {"description": "Payment created"}}
            }
        },
        "/payments/{id}/record": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["payments"],
                "summary": "Record a payment amount",
                "responses": {
                    "200": {"description": "Updated payment"},
                    "409": {"description": "Payment already settled"}
                }
            }
        },
        "/payments/{id}/invoice": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["payments"],
                "summary": "Get payment invoice",
                "responses": {"200": {"description": "Derived invoice"}}
            }
        },
        "/maintenance": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["maintenance"],
                "summary": "Get maintenance requests",
                "responses": {"200": {"description": "Paginated requests"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["maintenance"],
                "summary": "Create a maintenance request",
                "responses": {"201": {"description": "Request created"}}
            }
        },
        "/expenses": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["expenses"],
                "summary": "Get expenses",
                "responses": {"200": {"description": "Paginated expenses"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["expenses"],
                "summary": "Create an expense",
                "responses": {"201": {"description": "Expense created"}}
            }
        },
        "/dashboard/metrics": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["dashboard"],
                "summary": "Get dashboard metrics",
                "responses": {"200": {"description": "Dashboard metrics"}}
            }
        },
        "/notifications": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["notifications"],
                "summary": "Get notifications",
                "responses": {"200": {"description": "Notification feed"}}
            }
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
	Title:            "Rentflow API",
	Description:      "Rentflow is a property management service for landlords: properties, tenants and leases, rent payments with derived invoices, maintenance, and expenses.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
