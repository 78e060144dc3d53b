// Package docs registers the OpenAPI document served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "url": "https://github.com/guttosm/fertilizer-service"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/fertilizer-prescription": {
            "post": {
                "tags": ["Recommendations"],
                "summary": "Recommend fertilizers for one crop",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/RecommendationRequest"}}
                ],
                "responses": {
                    "200": {"description": "Recommendation", "schema": {"$ref": "#/definitions/SuccessResponse"}},
                    "400": {"description": "Invalid input or unsupported crop", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "500": {"description": "Upstream unavailable", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "504": {"description": "Timeout", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/fertilizer-prescription/test": {
            "get": {
                "tags": ["Recommendations"],
                "summary": "Recommendation for the default crop on the farm profile",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Recommendation", "schema": {"$ref": "#/definitions/SuccessResponse"}}
                }
            }
        },
        "/fertilizer-prescription/multiple": {
            "post": {
                "tags": ["Recommendations"],
                "summary": "Recommend fertilizers for up to 3 crops",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/MultiRecommendationRequest"}}
                ],
                "responses": {
                    "200": {"description": "Batch result", "schema": {"$ref": "#/definitions/SuccessResponse"}},
                    "400": {"description": "Empty or too many crops", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/fertilizer-recommendation": {
            "get": {
                "tags": ["Recommendations"],
                "summary": "Compact recommendation for one crop",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "query", "name": "crop_name", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Compact recommendation", "schema": {"$ref": "#/definitions/SuccessResponse"}},
                    "400": {"description": "Unsupported crop", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/fertilizer-prescription/user-crops": {
            "get": {
                "tags": ["Tracking"],
                "summary": "List tracked crops",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Tracked crops and summary", "schema": {"$ref": "#/definitions/SuccessResponse"}}
                }
            },
            "post": {
                "tags": ["Tracking"],
                "summary": "Replace the tracked crop set and recommend for it",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/TrackedCropsRequest"}}
                ],
                "responses": {
                    "200": {"description": "Updated set with recommendations", "schema": {"$ref": "#/definitions/SuccessResponse"}},
                    "400": {"description": "Invalid crop list", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/fertilizer-prescription/user-crops/{crop}": {
            "get": {
                "tags": ["Tracking"],
                "summary": "Last recommendation for a tracked crop",
                "produces": ["application/json"],
                "parameters": [{"in": "path", "name": "crop", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "Recommendation", "schema": {"$ref": "#/definitions/SuccessResponse"}},
                    "404": {"description": "Crop not tracked", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["Tracking"],
                "summary": "Stop tracking a crop",
                "produces": ["application/json"],
                "parameters": [{"in": "path", "name": "crop", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "Remaining tracked crops", "schema": {"$ref": "#/definitions/SuccessResponse"}},
                    "404": {"description": "Crop not tracked", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/crops": {
            "get": {
                "tags": ["Reference"],
                "summary": "List supported crops",
                "produces": ["application/json"],
                "parameters": [{"in": "query", "name": "category", "type": "string"}],
                "responses": {
                    "200": {"description": "Crops", "schema": {"$ref": "#/definitions/SuccessResponse"}}
                }
            }
        },
        "/fertilizers": {
            "get": {
                "tags": ["Reference"],
                "summary": "List the fertilizer catalog",
                "produces": ["application/json"],
                "parameters": [{"in": "query", "name": "phase", "type": "string", "enum": ["base", "topdress"]}],
                "responses": {
                    "200": {"description": "Catalog", "schema": {"$ref": "#/definitions/SuccessResponse"}},
                    "400": {"description": "Unknown phase", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/farm": {
            "get": {
                "tags": ["Reference"],
                "summary": "Farm profile",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Farm profile", "schema": {"$ref": "#/definitions/SuccessResponse"}}
                }
            }
        },
        "/reference/reload": {
            "post": {
                "tags": ["Reference"],
                "summary": "Reload reference data from CATALOG_DIR",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Reloaded", "schema": {"$ref": "#/definitions/SuccessResponse"}},
                    "500": {"description": "Reload failed, previous data kept", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/weather/current": {
            "get": {
                "tags": ["Weather"],
                "summary": "Cached surface observation",
                "produces": ["application/json"],
                "parameters": [{"in": "query", "name": "station", "type": "string"}],
                "responses": {
                    "200": {"description": "Observation", "schema": {"$ref": "#/definitions/SuccessResponse"}},
                    "503": {"description": "No observation available", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/weather/update": {
            "post": {
                "tags": ["Weather"],
                "summary": "Refresh the surface observation",
                "produces": ["application/json"],
                "parameters": [{"in": "query", "name": "station", "type": "string"}],
                "responses": {
                    "200": {"description": "Observation", "schema": {"$ref": "#/definitions/SuccessResponse"}},
                    "503": {"description": "Observation API unavailable", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/chat": {
            "post": {
                "tags": ["Chat"],
                "summary": "Ask the farm assistant",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/ChatRequest"}}
                ],
                "responses": {
                    "200": {"description": "Answer", "schema": {"$ref": "#/definitions/SuccessResponse"}},
                    "429": {"description": "Rate limit exceeded", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "503": {"description": "Assistant unavailable", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/logs": {
            "get": {
                "tags": ["Logs"],
                "summary": "Query request and audit logs",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "query", "name": "request_id", "type": "string"},
                    {"in": "query", "name": "level", "type": "string"},
                    {"in": "query", "name": "action_type", "type": "string"},
                    {"in": "query", "name": "path", "type": "string"},
                    {"in": "query", "name": "start", "type": "string", "format": "date-time"},
                    {"in": "query", "name": "end", "type": "string", "format": "date-time"},
                    {"in": "query", "name": "limit", "type": "integer"},
                    {"in": "query", "name": "skip", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Log entries", "schema": {"$ref": "#/definitions/SuccessResponse"}},
                    "503": {"description": "Log store unavailable", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "SoilInput": {
            "type": "object",
            "properties": {
                "ph": {"type": "number", "example": 6.5},
                "organic_matter": {"type": "number", "example": 22},
                "available_phosphate": {"type": "number", "example": 10},
                "potassium": {"type": "number", "example": 4},
                "calcium": {"type": "number", "example": 6},
                "magnesium": {"type": "number", "example": 13},
                "electrical_conductivity": {"type": "number", "example": 6}
            }
        },
        "RecommendationRequest": {
            "type": "object",
            "required": ["crop_name"],
            "properties": {
                "crop_name": {"type": "string", "example": "맥주보리"},
                "soil": {"$ref": "#/definitions/SoilInput"},
                "farm_area_m2": {"type": "number", "example": 25000}
            }
        },
        "MultiRecommendationRequest": {
            "type": "object",
            "required": ["crop_names"],
            "properties": {
                "crop_names": {"type": "array", "items": {"type": "string"}, "example": ["맥주보리", "감자"]},
                "soil": {"$ref": "#/definitions/SoilInput"},
                "farm_area_m2": {"type": "number", "example": 25000}
            }
        },
        "TrackedCropsRequest": {
            "type": "object",
            "required": ["crop_names"],
            "properties": {
                "crop_names": {"type": "array", "items": {"type": "string"}, "example": ["맥주보리", "콩"]}
            }
        },
        "ChatRequest": {
            "type": "object",
            "required": ["message"],
            "properties": {
                "message": {"type": "string", "example": "보리 웃거름은 언제 주나요?"}
            }
        },
        "SuccessResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "data": {},
                "request_id": {"type": "string"},
                "timestamp": {"type": "string"}
            }
        },
        "ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "unsupported_crop"},
                "message": {"type": "string"},
                "details": {"type": "object", "additionalProperties": {"type": "string"}},
                "request_id": {"type": "string"},
                "timestamp": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Fertilizer Service API",
	Description:      "Fertilizer prescriptions and product recommendations for a Korean farm.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
