package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Wedding Seating API",
        "description": "Guest list, floor plan, and auto-seating engine for wedding events",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Planner authentication"},
        {"name": "Guests", "description": "Invited guest units and seat locks"},
        {"name": "Tables", "description": "Floor plan tables"},
        {"name": "Preferences", "description": "Pairwise together/apart rules"},
        {"name": "Groups", "description": "Guest groups and their processing priority"},
        {"name": "Settings", "description": "Per-event seating settings"},
        {"name": "Seating", "description": "Auto-seating engine and plan views"},
        {"name": "Export", "description": "Printable seating charts"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate a planner account",
                "responses": {
                    "200": {"description": "Access token issued"},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/events/{eventId}/guests": {
            "get": {
                "tags": ["Guests"],
                "summary": "List an event's guests",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Guests"],
                "summary": "Add a guest unit",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/guests/{id}": {
            "get": {
                "tags": ["Guests"],
                "summary": "Fetch one guest",
                "responses": {"200": {"description": "OK"}}
            },
            "patch": {
                "tags": ["Guests"],
                "summary": "Partially update a guest",
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Guests"],
                "summary": "Remove a guest",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/guests/{id}/lock": {
            "post": {
                "tags": ["Guests"],
                "summary": "Pin a guest to a table",
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Guests"],
                "summary": "Release a guest's seat lock",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/events/{eventId}/tables": {
            "get": {
                "tags": ["Tables"],
                "summary": "List an event's tables",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Tables"],
                "summary": "Add a manual table",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/tables/{id}": {
            "get": {
                "tags": ["Tables"],
                "summary": "Fetch one table",
                "responses": {"200": {"description": "OK"}}
            },
            "patch": {
                "tags": ["Tables"],
                "summary": "Partially update a table",
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Tables"],
                "summary": "Remove a table",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/events/{eventId}/preferences": {
            "get": {
                "tags": ["Preferences"],
                "summary": "List an event's seating rules",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Preferences"],
                "summary": "Record a together/apart rule",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/events/{eventId}/group-priorities": {
            "get": {
                "tags": ["Groups"],
                "summary": "List the event's group ranking",
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "tags": ["Groups"],
                "summary": "Replace the event's group ranking",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/events/{eventId}/seating-settings": {
            "get": {
                "tags": ["Settings"],
                "summary": "Fetch the event's seating settings",
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "tags": ["Settings"],
                "summary": "Store the event's seating settings",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/events/{eventId}/seating/run": {
            "post": {
                "tags": ["Seating"],
                "summary": "Run the auto-seating engine",
                "responses": {"200": {"description": "Run result with conflicts"}}
            }
        },
        "/events/{eventId}/seating/plan": {
            "get": {
                "tags": ["Seating"],
                "summary": "Fetch the seating plan of one channel",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/events/{eventId}/export/seating.csv": {
            "get": {
                "tags": ["Export"],
                "summary": "Download the seating chart as CSV",
                "responses": {"200": {"description": "CSV document"}}
            }
        },
        "/events/{eventId}/export/seating.pdf": {
            "get": {
                "tags": ["Export"],
                "summary": "Download the seating chart as PDF",
                "responses": {"200": {"description": "PDF document"}}
            }
        }
    },
    "definitions": {
        "SeatingConflict": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "enum": ["apart_cannot_satisfy", "together_cannot_satisfy", "no_available_table"]},
                "guest_a_id": {"type": "string"},
                "guest_b_id": {"type": "string"},
                "guest_a_name": {"type": "string"},
                "guest_b_name": {"type": "string"},
                "table_id": {"type": "string"},
                "message": {"type": "string"},
                "suggested_action": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
