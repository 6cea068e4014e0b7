package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "EduIT Results API",
        "description": "Grading, ranking and promotion computation service",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Results", "description": "Result marks, component scores and report cards"},
        {"name": "Positions", "description": "Cohort ranking and class statistics"},
        {"name": "Promotions", "description": "Annual promotion eligibility"},
        {"name": "Configuration", "description": "Grade scale and result configuration"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/results/{id}": {
            "put": {
                "tags": ["Results"],
                "summary": "Update a result's marks",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateResultRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/results/scores": {
            "post": {
                "tags": ["Results"],
                "summary": "Record component scores for a result",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EnterScoresRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/results/{id}/publish": {
            "post": {
                "tags": ["Results"],
                "summary": "Toggle result publication and approval",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PublishResultRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/results/report": {
            "get": {
                "tags": ["Results"],
                "summary": "Student report card for a period",
                "parameters": [
                    {"name": "studentId", "in": "query", "required": true, "type": "string"},
                    {"name": "periodId", "in": "query", "required": true, "type": "string"},
                    {"name": "sessionId", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/results/positions": {
            "get": {
                "tags": ["Positions"],
                "summary": "Cohort positions and class statistics",
                "parameters": [
                    {"name": "periodId", "in": "query", "required": true, "type": "string"},
                    {"name": "sessionId", "in": "query", "required": true, "type": "string"},
                    {"name": "classId", "in": "query", "type": "string"},
                    {"name": "studentId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/results/broadsheet": {
            "get": {
                "tags": ["Positions"],
                "summary": "Ranked class broadsheet as CSV",
                "parameters": [
                    {"name": "classId", "in": "query", "required": true, "type": "string"},
                    {"name": "periodId", "in": "query", "required": true, "type": "string"},
                    {"name": "sessionId", "in": "query", "required": true, "type": "string"}
                ],
                "produces": ["text/csv"],
                "responses": {
                    "200": {"description": "CSV broadsheet"}
                }
            }
        },
        "/schools/{schoolId}/promotions/eligibility": {
            "get": {
                "tags": ["Promotions"],
                "summary": "Promotion eligibility for a class",
                "parameters": [
                    {"name": "schoolId", "in": "path", "required": true, "type": "string"},
                    {"name": "classId", "in": "query", "required": true, "type": "string"},
                    {"name": "sessionId", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schools/{schoolId}/grade-scale": {
            "get": {
                "tags": ["Configuration"],
                "summary": "School grade scale",
                "parameters": [
                    {"name": "schoolId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Configuration"],
                "summary": "Replace the school grade scale",
                "parameters": [
                    {"name": "schoolId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReplaceScaleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schools/{schoolId}/configurations": {
            "get": {
                "tags": ["Configuration"],
                "summary": "Result configuration bundle for a session",
                "parameters": [
                    {"name": "schoolId", "in": "path", "required": true, "type": "string"},
                    {"name": "sessionId", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "UpdateResultRequest": {
            "type": "object",
            "properties": {
                "marks": {"type": "number"},
                "totalMarks": {"type": "number"},
                "remarks": {"type": "string"},
                "isApproved": {"type": "boolean"}
            }
        },
        "ComponentScoreEntry": {
            "type": "object",
            "properties": {
                "componentKey": {"type": "string"},
                "score": {"type": "number"}
            },
            "required": ["componentKey", "score"]
        },
        "EnterScoresRequest": {
            "type": "object",
            "properties": {
                "resultId": {"type": "string"},
                "scores": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/ComponentScoreEntry"}
                }
            },
            "required": ["resultId", "scores"]
        },
        "PublishResultRequest": {
            "type": "object",
            "properties": {
                "published": {"type": "boolean"},
                "isApproved": {"type": "boolean"}
            }
        },
        "GradeScaleEntryRequest": {
            "type": "object",
            "properties": {
                "minScore": {"type": "number"},
                "maxScore": {"type": "number"},
                "grade": {"type": "string"},
                "remark": {"type": "string"}
            },
            "required": ["grade"]
        },
        "ReplaceScaleRequest": {
            "type": "object",
            "properties": {
                "entries": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/GradeScaleEntryRequest"}
                }
            },
            "required": ["entries"]
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
