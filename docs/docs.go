package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "description": "Taskboard API Documentation",
        "title": "Taskboard API",
        "version": "1.0"
    },
    "host": "localhost:8080",
    "basePath": "/api/v1",
    "schemes": ["http"],
    "paths": {
        "/session/login": {
            "post": {
                "tags": ["Session"],
                "summary": "Login",
                "description": "Start a session for a username and receive a bearer token",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {
                        "in": "body",
                        "name": "credentials",
                        "required": true,
                        "schema": {
                            "type": "object",
                            "properties": {
                                "username": {
                                    "type": "string",
                                    "example": "alice"
                                }
                            }
                        }
                    }
                ],
                "responses": {
                    "200": {"description": "Session token issued"},
                    "400": {"description": "Missing username"}
                }
            }
        },
        "/session/logout": {
            "post": {
                "tags": ["Session"],
                "summary": "Logout",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Session discarded"}
                }
            }
        },
        "/boards": {
            "get": {
                "tags": ["Boards"],
                "summary": "Rendered hierarchy",
                "description": "Boards with folders and priority-ordered tasks, each task carrying countdown text, overdue flag and remaining edits. Optional q parameter filters the hierarchy.",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "query", "name": "q", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Board views"}
                }
            },
            "post": {
                "tags": ["Boards"],
                "summary": "Create board",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Board created"},
                    "409": {"description": "Duplicate board name"}
                }
            }
        },
        "/boards/{boardId}/folders/{folderId}/tasks": {
            "post": {
                "tags": ["Tasks"],
                "summary": "Create task",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Task created"},
                    "400": {"description": "Missing field or start date after due date"},
                    "404": {"description": "Board or folder not found"}
                }
            }
        },
        "/tasks/{id}": {
            "put": {
                "tags": ["Tasks"],
                "summary": "Update task",
                "description": "Counts against the per-task quota of 5 edits",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Task updated"},
                    "409": {"description": "Edit limit exceeded"}
                }
            }
        },
        "/search": {
            "get": {
                "tags": ["Views"],
                "summary": "Search hierarchy",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "query", "name": "q", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Filtered hierarchy"}
                }
            }
        },
        "/stats": {
            "get": {
                "tags": ["Views"],
                "summary": "Task statistics",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Counts by status plus overdue"}
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "Type 'Bearer' followed by a space and the session token"
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http"},
	Title:            "Taskboard API",
	Description:      "Taskboard API Documentation",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
