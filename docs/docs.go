// Package docs registers the HTTP API description with swag.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "schemes": {{ marshal .Schemes }},
    "securityDefinitions": {
        "ConnectionToken": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/rooms": {
            "get": {
                "tags": ["rooms"],
                "summary": "List open rooms",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/rooms/{code}": {
            "get": {
                "tags": ["rooms"],
                "summary": "Room and session snapshot",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "code", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "RoomNotFound"}}
            }
        },
        "/rooms/{code}/start": {
            "post": {
                "tags": ["rooms"],
                "summary": "Start the game (host only)",
                "security": [{"ConnectionToken": []}],
                "parameters": [{"type": "string", "name": "code", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "403": {"description": "NotHost"}, "409": {"description": "Rejected"}}
            }
        },
        "/rooms/{code}/resolve": {
            "post": {
                "tags": ["rooms"],
                "summary": "Close the open auction round (host only)",
                "security": [{"ConnectionToken": []}],
                "parameters": [{"type": "string", "name": "code", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "403": {"description": "NotHost"}, "409": {"description": "Rejected"}}
            }
        },
        "/rooms/{code}/results": {
            "get": {
                "tags": ["results"],
                "summary": "Archived games played under a room code",
                "parameters": [{"type": "string", "name": "code", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "503": {"description": "Archive disabled"}}
            }
        },
        "/rooms/{code}/standings": {
            "get": {
                "tags": ["results"],
                "summary": "Final standings of the last game in a room",
                "parameters": [{"type": "string", "name": "code", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "503": {"description": "Archive disabled"}}
            }
        },
        "/leaderboard": {
            "get": {
                "tags": ["results"],
                "summary": "Usernames with the most won games",
                "parameters": [{"type": "integer", "name": "top", "in": "query"}],
                "responses": {"200": {"description": "OK"}, "503": {"description": "Archive disabled"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "Lowbid Auction API",
	Description:      "Lowest-unique-bid card auction rooms",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
