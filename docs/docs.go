// Package docs is generated by swag init from the handler annotations.
// Regenerate with: swag init -g cmd/main.go
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
        "/riders": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["riders"], "summary": "List riders", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["riders"], "summary": "Create rider", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}
        },
        "/riders/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["riders"], "summary": "Get rider", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["riders"], "summary": "Update rider", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["riders"], "summary": "Deactivate rider", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}}
        },
        "/bikes": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["bikes"], "summary": "List bikes", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["bikes"], "summary": "Register bike", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}
        },
        "/bikes/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["bikes"], "summary": "Get bike", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["bikes"], "summary": "Update bike", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["bikes"], "summary": "Retire bike", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}}
        },
        "/assignments": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["assignments"], "summary": "List assignments", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["assignments"], "summary": "Create assignment", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["assignments"], "summary": "Terminate assignment", "parameters": [{"type": "string", "name": "id", "in": "query", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}
        },
        "/assignments/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["assignments"], "summary": "Get assignment", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/assignments/{id}/complete": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["assignments"], "summary": "Complete assignment", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/payments": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["payments"], "summary": "List payments", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["payments"], "summary": "Record payment", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}
        },
        "/payments/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["payments"], "summary": "Get payment", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/payments/{id}/pay": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["payments"], "summary": "Settle payment", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}
        },
        "/payments/{id}/refund": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["payments"], "summary": "Refund payment", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}}
        },
        "/payments/assess-late-fees": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["payments"], "summary": "Assess late fees", "responses": {"200": {"description": "OK"}}}
        },
        "/maintenance": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["maintenance"], "summary": "List maintenance jobs", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["maintenance"], "summary": "Schedule maintenance", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}}
        },
        "/maintenance/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["maintenance"], "summary": "Get maintenance job", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/maintenance/{id}/status": {
            "patch": {"security": [{"BearerAuth": []}], "tags": ["maintenance"], "summary": "Move maintenance job", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}
        },
        "/dashboard": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["reports"], "summary": "Dashboard", "parameters": [{"type": "integer", "name": "top", "in": "query"}], "responses": {"200": {"description": "OK"}}}
        },
        "/analytics": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["reports"], "summary": "Analytics", "parameters": [{"type": "string", "name": "period", "in": "query"}, {"type": "integer", "name": "top", "in": "query"}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/admin/reconcile": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Reconcile", "parameters": [{"type": "boolean", "name": "dry_run", "in": "query"}], "responses": {"200": {"description": "OK"}}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8081",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Webike Rental Manager API",
	Description:      "Back-office API for riders, bikes, rental assignments, payments and maintenance.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
