// Package docs holds the OpenAPI description of the portal served under
// /swagger. Keep it in step with the route annotations in internal/api/handler.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Login",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Register a new user",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["auth"],
                "summary": "Logout",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/session": {
            "get": {
                "tags": ["session"],
                "summary": "Current session",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/session/refresh": {
            "post": {
                "tags": ["session"],
                "summary": "Refresh the current user",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/profile": {
            "get": {
                "tags": ["profile"],
                "summary": "Own profile",
                "responses": {"200": {"description": "OK"}}
            },
            "patch": {
                "tags": ["profile"],
                "summary": "Update own profile",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/projects": {
            "get": {
                "tags": ["projects"],
                "summary": "List projects",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["projects"],
                "summary": "Create project",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/projects/{id}": {
            "get": {
                "tags": ["projects"],
                "summary": "Get project",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            },
            "patch": {
                "tags": ["projects"],
                "summary": "Update project",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/projects/{id}/publish": {
            "post": {
                "tags": ["projects"],
                "summary": "Publish project",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/projects/{id}/complete": {
            "post": {
                "tags": ["projects"],
                "summary": "Complete project",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/projects/{id}/request-review": {
            "post": {
                "tags": ["projects"],
                "summary": "Request review",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/projects/{id}/assign": {
            "post": {
                "tags": ["projects"],
                "summary": "Assign project",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/projects/{id}/tasks": {
            "get": {
                "tags": ["tasks"],
                "summary": "List tasks",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["tasks"],
                "summary": "Create task",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/projects/{id}/tasks/{task_id}": {
            "patch": {
                "tags": ["tasks"],
                "summary": "Update task",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}, {"name": "task_id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["tasks"],
                "summary": "Delete task",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}, {"name": "task_id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/projects/{id}/applications": {
            "get": {
                "tags": ["applications"],
                "summary": "List applications",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/projects/{id}/apply": {
            "post": {
                "tags": ["applications"],
                "summary": "Apply to project",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/students": {
            "get": {
                "tags": ["users"],
                "summary": "List students",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/users/{id}": {
            "get": {
                "tags": ["users"],
                "summary": "Get user",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/users/{id}/ratings": {
            "get": {
                "tags": ["ratings"],
                "summary": "User ratings",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/ratings": {
            "post": {
                "tags": ["ratings"],
                "summary": "Create rating",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/estimator": {
            "post": {
                "tags": ["estimator"],
                "summary": "Estimate a project",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/theme": {
            "get": {
                "tags": ["theme"],
                "summary": "Theme preference",
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "tags": ["theme"],
                "summary": "Set theme preference",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/health": {
            "get": {
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/health/ready": {
            "get": {
                "tags": ["health"],
                "summary": "Readiness probe",
                "responses": {"200": {"description": "OK"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "WORK21 Portal API",
	Description:      "Browser-facing API of the WORK21 student freelance marketplace.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
