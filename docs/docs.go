// Package docs registers the swagger document served by gin-swagger.
// Regenerate with: swag init -g cmd/blog/main.go
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
        "/posts": {
            "get": {
                "description": "Home page listing as JSON. Invalid page values fall back to page 1; numeric pages outside the range return an empty page with out_of_range=true.",
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "List posts",
                "parameters": [
                    {"type": "string", "description": "Page number (1-based)", "name": "page", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.PagePostDTO"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponseDTO"}}
                }
            }
        },
        "/posts/{slug}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Get post by slug",
                "parameters": [
                    {"type": "string", "description": "Post slug", "name": "slug", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.PostDTO"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponseDTO"}}
                }
            }
        }
    },
    "definitions": {
        "dto.ErrorResponseDTO": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "not_found"}
            }
        },
        "dto.HealthDTO": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "ok"},
                "database": {"type": "string", "example": "up"},
                "error": {"type": "string"}
            }
        },
        "dto.PagePostDTO": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/dto.PostDTO"}},
                "page": {"type": "integer", "example": 1},
                "page_size": {"type": "integer", "example": 3},
                "last_page": {"type": "integer", "example": 4},
                "prev": {"type": "string", "example": "#"},
                "next": {"type": "string", "example": "/?page=2"},
                "out_of_range": {"type": "boolean"}
            }
        },
        "dto.PostDTO": {
            "type": "object",
            "properties": {
                "sno": {"type": "integer", "example": 1},
                "title": {"type": "string", "example": "Hello"},
                "sub_title": {"type": "string"},
                "slug": {"type": "string", "example": "hello"},
                "content": {"type": "string"},
                "img_file": {"type": "string"},
                "date": {"type": "string"}
            }
        },
        "dto.UploadResponseDTO": {
            "type": "object",
            "properties": {
                "ref": {"type": "string", "example": "1a2b3c4d-photo.png"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "techblog API",
	Description:      "Read-only JSON view of the blog posts",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
