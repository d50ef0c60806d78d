// Package docs registra la especificación OpenAPI servida en /swagger.
// Regenerar con: swag init -g cmd/api/main.go -o docs
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
        "/requests": {
            "post": {
                "tags": ["requests"],
                "summary": "Crear solicitud de adopción",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Bearer token", "name": "Authorization", "in": "header"},
                    {"description": "Solicitud", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/adoptions.createRequestRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/adoptions.createdResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/offer": {
            "post": {
                "tags": ["requests"],
                "summary": "Ofrecer una mascota en adopción",
                "description": "Crea el animal (in_review) y la solicitud offer que lo acompaña.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Bearer token", "name": "Authorization", "in": "header"},
                    {"description": "Animal y hogar", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/adoptions.createOfferRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/adoptions.createdResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/requests/mine": {
            "get": {
                "tags": ["requests"],
                "summary": "Mis solicitudes",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Bearer token", "name": "Authorization", "in": "header"},
                    {"type": "string", "description": "Filtrar por estado", "name": "state", "in": "query"},
                    {"type": "string", "description": "adopt | offer", "name": "kind", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/adoptions.requestResponse"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/requests/mine/{requestID}": {
            "get": {
                "tags": ["requests"],
                "summary": "Detalle de mi solicitud",
                "description": "Incluye historial y mensajes no internos.",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Bearer token", "name": "Authorization", "in": "header"},
                    {"type": "string", "description": "ID de la solicitud", "name": "requestID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/adoptions.detailResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/requests/{requestID}/cancel": {
            "put": {
                "tags": ["requests"],
                "summary": "Cancelar mi solicitud",
                "description": "Solo desde pending, in_review o info_requested.",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Bearer token", "name": "Authorization", "in": "header"},
                    {"type": "string", "description": "ID de la solicitud", "name": "requestID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/adoptions.messageOnlyResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/requests/{requestID}/messages": {
            "post": {
                "tags": ["requests"],
                "summary": "Enviar mensaje en una solicitud",
                "description": "El admin escribe al solicitante; el solicitante al revisor asignado. internal solo admins.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Bearer token", "name": "Authorization", "in": "header"},
                    {"type": "string", "description": "ID de la solicitud", "name": "requestID", "in": "path", "required": true},
                    {"description": "Mensaje", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/adoptions.addMessageRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/adoptions.messageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/requests/{requestID}/approve-offer": {
            "put": {
                "tags": ["admin"],
                "summary": "Aprobar oferta (admin)",
                "description": "Aprueba una solicitud offer y publica el animal.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Bearer token", "name": "Authorization", "in": "header"},
                    {"type": "string", "description": "ID de la solicitud", "name": "requestID", "in": "path", "required": true},
                    {"description": "Nota opcional", "name": "body", "in": "body", "schema": {"$ref": "#/definitions/adoptions.approveOfferRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/adoptions.changeStateResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/requests/admin/all": {
            "get": {
                "tags": ["admin"],
                "summary": "Listar solicitudes (admin)",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Bearer token", "name": "Authorization", "in": "header"},
                    {"type": "string", "description": "Estado", "name": "state", "in": "query"},
                    {"type": "string", "description": "adopt | offer", "name": "kind", "in": "query"},
                    {"type": "string", "description": "ID del animal", "name": "animalId", "in": "query"},
                    {"type": "string", "description": "Nombre/email del solicitante o nombre del animal", "name": "search", "in": "query"},
                    {"type": "string", "description": "YYYY-MM-DD", "name": "from", "in": "query"},
                    {"type": "string", "description": "YYYY-MM-DD (inclusive)", "name": "to", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/adoptions.requestResponse"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/requests/admin/stats": {
            "get": {
                "tags": ["admin"],
                "summary": "Estadísticas (admin)",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Bearer token", "name": "Authorization", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/adoptions.statsResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/requests/admin/{requestID}": {
            "get": {
                "tags": ["admin"],
                "summary": "Detalle de solicitud (admin)",
                "description": "Incluye mensajes internos.",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Bearer token", "name": "Authorization", "in": "header"},
                    {"type": "string", "description": "ID de la solicitud", "name": "requestID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/adoptions.detailResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/requests/admin/{requestID}/state": {
            "put": {
                "tags": ["admin"],
                "summary": "Cambiar estado (admin)",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Bearer token", "name": "Authorization", "in": "header"},
                    {"type": "string", "description": "ID de la solicitud", "name": "requestID", "in": "path", "required": true},
                    {"description": "Nuevo estado", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/adoptions.changeStateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/adoptions.changeStateResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/me/notifications": {
            "get": {
                "tags": ["notifications"],
                "summary": "Mis notificaciones",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Bearer token", "name": "Authorization", "in": "header"},
                    {"type": "boolean", "description": "solo no leídas", "name": "unread", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/notifications.notificationResponse"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/me/notifications/{notificationID}/read": {
            "post": {
                "tags": ["notifications"],
                "summary": "Marcar notificación como leída",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Bearer token", "name": "Authorization", "in": "header"},
                    {"type": "string", "description": "ID de la notificación", "name": "notificationID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/notifications.notificationResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/animals": {
            "get": {
                "tags": ["animals"],
                "summary": "Listar animales",
                "description": "Catálogo público. Por defecto solo animales available.",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "available | in_review | adopted | unavailable", "name": "availability", "in": "query"},
                    {"type": "string", "description": "dog | cat | other", "name": "species", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/animals.animalResponse"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/animals/{animalID}": {
            "get": {
                "tags": ["animals"],
                "summary": "Obtener animal",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "ID del animal", "name": "animalID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/animals.animalResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "tags": ["system"],
                "summary": "Health check",
                "produces": ["text/plain"],
                "responses": {
                    "200": {"description": "ok", "schema": {"type": "string"}},
                    "503": {"description": "db unavailable", "schema": {"type": "string"}}
                }
            }
        }
    },
    "definitions": {
        "errorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "fields": {"type": "object", "additionalProperties": {"type": "string"}},
                "detail": {"type": "string"}
            }
        },
        "adoptions.household": {
            "type": "object",
            "required": ["housing_type", "motivation"],
            "properties": {
                "housing_type": {"type": "string"},
                "has_yard": {"type": "boolean"},
                "has_other_pets": {"type": "boolean"},
                "other_pets_description": {"type": "string"},
                "motivation": {"type": "string"},
                "experience": {"type": "string"}
            }
        },
        "adoptions.createRequestRequest": {
            "type": "object",
            "required": ["animal_id", "housing_type", "motivation"],
            "properties": {
                "animal_id": {"type": "string"},
                "housing_type": {"type": "string"},
                "has_yard": {"type": "boolean"},
                "has_other_pets": {"type": "boolean"},
                "other_pets_description": {"type": "string"},
                "motivation": {"type": "string"},
                "experience": {"type": "string"}
            }
        },
        "adoptions.offerAnimal": {
            "type": "object",
            "required": ["name", "species"],
            "properties": {
                "name": {"type": "string"},
                "species": {"type": "string", "enum": ["dog", "cat", "other"]},
                "breed": {"type": "string"},
                "sex": {"type": "string", "enum": ["male", "female", "unknown"]},
                "size": {"type": "string", "enum": ["small", "medium", "large"]},
                "age_years": {"type": "integer"},
                "age_months": {"type": "integer"},
                "description": {"type": "string"},
                "health_status": {"type": "string"},
                "vaccinated": {"type": "boolean"},
                "sterilized": {"type": "boolean"},
                "image_url": {"type": "string"}
            }
        },
        "adoptions.createOfferRequest": {
            "type": "object",
            "properties": {
                "animal": {"$ref": "#/definitions/adoptions.offerAnimal"},
                "household": {"$ref": "#/definitions/adoptions.household"}
            }
        },
        "adoptions.changeStateRequest": {
            "type": "object",
            "required": ["state"],
            "properties": {
                "state": {"type": "string", "enum": ["pending", "in_review", "info_requested", "visit_scheduled", "approved", "rejected"]},
                "note": {"type": "string"},
                "reason": {"type": "string"},
                "visit": {"$ref": "#/definitions/adoptions.visitRequest"}
            }
        },
        "adoptions.visitRequest": {
            "type": "object",
            "properties": {
                "scheduled_for": {"type": "string", "format": "date-time"},
                "volunteer_id": {"type": "string"},
                "notes": {"type": "string"}
            }
        },
        "adoptions.visitResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "scheduled_for": {"type": "string", "format": "date-time"},
                "volunteer_id": {"type": "string"},
                "volunteer_name": {"type": "string"},
                "scheduled_by": {"type": "string"},
                "scheduled_by_name": {"type": "string"},
                "notes": {"type": "string"},
                "created_at": {"type": "string", "format": "date-time"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "adoptions.approveOfferRequest": {
            "type": "object",
            "properties": {"note": {"type": "string"}}
        },
        "adoptions.addMessageRequest": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "internal": {"type": "boolean"}
            }
        },
        "adoptions.createdResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "id": {"type": "string"},
                "animal_id": {"type": "string"}
            }
        },
        "adoptions.messageOnlyResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "adoptions.changeStateResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "previous_state": {"type": "string"},
                "new_state": {"type": "string"},
                "state_nuevo": {"type": "string"}
            }
        },
        "adoptions.requestResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "kind": {"type": "string", "enum": ["adopt", "offer"]},
                "state": {"type": "string"},
                "applicant_id": {"type": "string"},
                "applicant_name": {"type": "string"},
                "applicant_email": {"type": "string"},
                "reviewer_id": {"type": "string"},
                "reviewer_name": {"type": "string"},
                "animal": {"type": "object"},
                "household": {"$ref": "#/definitions/adoptions.household"},
                "approved_by": {"type": "string"},
                "approved_at": {"type": "string", "format": "date-time"},
                "rejected_by": {"type": "string"},
                "rejected_at": {"type": "string", "format": "date-time"},
                "rejection_reason": {"type": "string"},
                "created_at": {"type": "string", "format": "date-time"},
                "reviewed_at": {"type": "string", "format": "date-time"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "adoptions.historyResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "from_state": {"type": "string"},
                "to_state": {"type": "string"},
                "actor_id": {"type": "string"},
                "actor_name": {"type": "string"},
                "note": {"type": "string"},
                "created_at": {"type": "string", "format": "date-time"}
            }
        },
        "adoptions.messageResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "sender_id": {"type": "string"},
                "sender_name": {"type": "string"},
                "recipient_id": {"type": "string"},
                "message": {"type": "string"},
                "internal": {"type": "boolean"},
                "created_at": {"type": "string", "format": "date-time"}
            }
        },
        "adoptions.detailResponse": {
            "type": "object",
            "properties": {
                "request": {"$ref": "#/definitions/adoptions.requestResponse"},
                "history": {"type": "array", "items": {"$ref": "#/definitions/adoptions.historyResponse"}},
                "messages": {"type": "array", "items": {"$ref": "#/definitions/adoptions.messageResponse"}},
                "visit": {"$ref": "#/definitions/adoptions.visitResponse"}
            }
        },
        "adoptions.statsResponse": {
            "type": "object",
            "properties": {
                "by_state": {"type": "object", "additionalProperties": {"type": "integer"}},
                "total": {"type": "integer"},
                "requests_this_week": {"type": "integer"},
                "approval_rate": {"type": "number"},
                "avg_review_days": {"type": "integer"},
                "approved_this_month": {"type": "integer"}
            }
        },
        "animals.animalResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "species": {"type": "string"},
                "breed": {"type": "string"},
                "sex": {"type": "string"},
                "size": {"type": "string"},
                "age_years": {"type": "integer"},
                "age_months": {"type": "integer"},
                "description": {"type": "string"},
                "health_status": {"type": "string"},
                "vaccinated": {"type": "boolean"},
                "sterilized": {"type": "boolean"},
                "image_url": {"type": "string"},
                "availability": {"type": "string"},
                "intake_date": {"type": "string", "format": "date-time"}
            }
        },
        "notifications.notificationResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "body": {"type": "string"},
                "category": {"type": "string"},
                "request_id": {"type": "string"},
                "read": {"type": "boolean"},
                "created_at": {"type": "string", "format": "date-time"},
                "read_at": {"type": "string", "format": "date-time"}
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
	Title:            "NewLife Adoptions API",
	Description:      "Solicitudes de adopción: alta, revisión, mensajes y notificaciones.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
