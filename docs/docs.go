// Package docs registers the OpenAPI description served at /swagger.
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
        "/locations": {
            "get": {
                "summary": "Resolve a city, county, state or ZIP code",
                "parameters": [
                    {"type": "string", "description": "search text", "name": "q", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Location"}}}
                }
            }
        },
        "/agencies": {
            "get": {
                "summary": "List agencies one page at a time",
                "parameters": [
                    {"type": "string", "description": "state code or name", "name": "state", "in": "query"},
                    {"type": "integer", "description": "page number, clamped to the available range", "name": "page", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Page"}}
                }
            }
        },
        "/agencies/{id}": {
            "get": {
                "summary": "Get one agency",
                "parameters": [
                    {"type": "string", "description": "agency id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Agency"}}
                }
            }
        },
        "/sessions": {
            "post": {
                "summary": "Start a browsing session over the full agency list",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/service.SessionView"}},
                    "502": {"description": "agency source failed"},
                    "504": {"description": "agency source timed out"}
                }
            }
        },
        "/sessions/{id}": {
            "get": {
                "summary": "Current state and map commands queued since the last request",
                "parameters": [
                    {"type": "string", "description": "session id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.SessionView"}},
                    "404": {"description": "unknown session"}
                }
            },
            "delete": {
                "summary": "End a session",
                "parameters": [
                    {"type": "string", "description": "session id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "unknown session"}
                }
            }
        },
        "/sessions/{id}/filter": {
            "put": {
                "summary": "Filter by a state, county or city and return to page 1",
                "parameters": [
                    {"type": "string", "description": "session id", "name": "id", "in": "path", "required": true},
                    {"description": "location", "name": "location", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.Location"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.SessionView"}},
                    "404": {"description": "unknown session"}
                }
            },
            "delete": {
                "summary": "Remove the location filter",
                "parameters": [
                    {"type": "string", "description": "session id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.SessionView"}},
                    "404": {"description": "unknown session"}
                }
            }
        },
        "/sessions/{id}/search": {
            "get": {
                "summary": "Resolve text to location candidates; only the latest search returns",
                "parameters": [
                    {"type": "string", "description": "session id", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "search text", "name": "q", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Location"}}}, "409": {"description": "superseded by a newer search"},
                    "404": {"description": "unknown session"}
                }
            }
        },
        "/sessions/{id}/page": {
            "put": {
                "summary": "Move to a page, clamped to the available range",
                "parameters": [
                    {"type": "string", "description": "session id", "name": "id", "in": "path", "required": true},
                    {"description": "page", "name": "page", "in": "body", "required": true, "schema": {"type": "object", "properties": {"page": {"type": "integer"}}}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.SessionView"}},
                    "404": {"description": "unknown session"}
                }
            }
        },
        "/sessions/{id}/refresh": {
            "post": {
                "summary": "Refetch the agency list and re-apply the filter",
                "parameters": [
                    {"type": "string", "description": "session id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.SessionView"}}, "409": {"description": "superseded by a newer refresh"}, "502": {"description": "agency source failed; previous state kept"},
                    "404": {"description": "unknown session"}
                }
            }
        },
        "/sessions/{id}/selection": {
            "put": {
                "summary": "Select an agency from the list or a map marker",
                "parameters": [
                    {"type": "string", "description": "session id", "name": "id", "in": "path", "required": true},
                    {"description": "agency", "name": "selection", "in": "body", "required": true, "schema": {"type": "object", "properties": {"agency_id": {"type": "string"}}}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.SessionView"}},
                    "404": {"description": "unknown session"}
                }
            },
            "delete": {
                "summary": "Clear the selection and reset the map view",
                "parameters": [
                    {"type": "string", "description": "session id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.SessionView"}},
                    "404": {"description": "unknown session"}
                }
            }
        }
    },
    "definitions": {
        "models.Coordinates": {
            "type": "object",
            "properties": {
                "lat": {"type": "number"},
                "lon": {"type": "number"}
            }
        },
        "models.Location": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "type": {"type": "string", "enum": ["state", "city", "county"]},
                "state_code": {"type": "string"},
                "center": {"$ref": "#/definitions/models.Coordinates"},
                "radius_miles": {"type": "number"}
            }
        },
        "models.Agency": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "address": {"type": "string"},
                "phone": {"type": "string"},
                "email": {"type": "string"},
                "program_type": {"type": "string"},
                "latitude": {"type": "number"},
                "longitude": {"type": "number"}
            }
        },
        "models.Bounds": {
            "type": "object",
            "properties": {
                "south": {"type": "number"},
                "west": {"type": "number"},
                "north": {"type": "number"},
                "east": {"type": "number"}
            }
        },
        "models.MapCommand": {
            "type": "object",
            "properties": {
                "kind": {"type": "string", "enum": ["focus", "show_markers", "reset_view"]},
                "focus": {"$ref": "#/definitions/models.Coordinates"},
                "bounds": {"$ref": "#/definitions/models.Bounds"},
                "agency_ids": {"type": "array", "items": {"type": "string"}}
            }
        },
        "service.SessionView": {
            "type": "object",
            "properties": {
                "session_id": {"type": "string"},
                "filter": {"type": "object", "properties": {"active_location": {"$ref": "#/definitions/models.Location"}}},
                "filter_label": {"type": "string"},
                "has_filter": {"type": "boolean"},
                "page": {
                    "type": "object",
                    "properties": {
                        "current_page": {"type": "integer"},
                        "page_size": {"type": "integer"},
                        "total_count": {"type": "integer"},
                        "total_pages": {"type": "integer"}
                    }
                },
                "has_prev": {"type": "boolean"},
                "has_next": {"type": "boolean"},
                "selection": {"type": "object", "properties": {"selected_agency_id": {"type": "string"}}},
                "items": {"type": "array", "items": {"$ref": "#/definitions/models.Agency"}},
                "map_commands": {"type": "array", "items": {"$ref": "#/definitions/models.MapCommand"}},
                "highlight": {"type": "string"}
            }
        },
        "models.Page": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/models.Agency"}},
                "total_count": {"type": "integer"},
                "total_pages": {"type": "integer"},
                "page": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "PHA Locator API",
	Description:      "Find housing-assistance offices by state, county, city or ZIP code.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
