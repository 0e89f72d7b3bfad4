package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Titan Online Registrar API",
        "description": "Course catalog, enrollment and waitlist management for Titan Online.",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Catalog", "description": "Courses, sections and the class catalog"},
        {"name": "Enrollments", "description": "Enrollment attempts and admission"},
        {"name": "Waitlist", "description": "Waitlist positions, self-drops and exports"},
        {"name": "Professors", "description": "Professor rosters and administrative drops"},
        {"name": "Configuration", "description": "Global automatic enrollment toggle"}
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
                    "200": {"description": "Ready"},
                    "503": {"description": "Degraded"}
                }
            }
        },
        "/classes/": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List all available classes",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/": {
            "post": {
                "tags": ["Catalog"],
                "summary": "Register a catalog course",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateCourseRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Course already exists", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sections/": {
            "post": {
                "tags": ["Catalog"],
                "summary": "Schedule a course section",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSectionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sections/{id}": {
            "patch": {
                "tags": ["Catalog"],
                "summary": "Partially update a section",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PatchSectionRequest"}}
                ],
                "responses": {
                    "200": {"description": "Updated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Section not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Catalog"],
                "summary": "Remove a section from the catalog",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Section not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Section still has enrollments", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/enrollments/": {
            "post": {
                "tags": ["Enrollments"],
                "summary": "Attempt to enroll a student in a section",
                "description": "Admits the student if a seat is free, otherwise places them on the waitlist in request order.",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EnrollRequest"}}
                ],
                "responses": {
                    "201": {"description": "Enrolled or waitlisted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Window closed, duplicate, or section and waitlist full", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Section not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/student/waitlist/{section_id}/{student_id}": {
            "get": {
                "tags": ["Waitlist"],
                "summary": "Get a student's waitlist position",
                "parameters": [
                    {"name": "section_id", "in": "path", "required": true, "type": "integer"},
                    {"name": "student_id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Position, -1 when absent", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/student/waitlist/{section_id}": {
            "delete": {
                "tags": ["Waitlist"],
                "summary": "Remove oneself from a section's waitlist",
                "parameters": [
                    {"name": "section_id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SelfDropRequest"}}
                ],
                "responses": {
                    "200": {"description": "Removed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No such waitlist entry", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/professor/waitlist/{section_id}": {
            "get": {
                "tags": ["Waitlist"],
                "summary": "List a section's waitlist in promotion order",
                "parameters": [
                    {"name": "section_id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Student IDs in FIFO order", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/professor/waitlist/{section_id}/export": {
            "get": {
                "tags": ["Waitlist"],
                "summary": "Export a section's waitlist as CSV or PDF",
                "parameters": [
                    {"name": "section_id", "in": "path", "required": true, "type": "integer"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "default": "csv"}
                ],
                "produces": ["text/csv", "application/pdf"],
                "responses": {
                    "200": {"description": "Waitlist file"}
                }
            }
        },
        "/professors/{prof_id}/enrollments": {
            "get": {
                "tags": ["Professors"],
                "summary": "List enrollments across a professor's sections",
                "parameters": [
                    {"name": "prof_id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Professor not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/professors/{prof_id}/droplists": {
            "get": {
                "tags": ["Professors"],
                "summary": "List drop audit entries across a professor's sections",
                "parameters": [
                    {"name": "prof_id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Professor not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/professors/{prof_id}/course_section/{section_id}/student/{student_id}/drop": {
            "delete": {
                "tags": ["Professors"],
                "summary": "Administratively drop a student from a section",
                "description": "Removes the student's enrollment and waitlist presence, records the drop, and backfills the seat from the waitlist when automatic enrollment is on.",
                "parameters": [
                    {"name": "prof_id", "in": "path", "required": true, "type": "integer"},
                    {"name": "section_id", "in": "path", "required": true, "type": "integer"},
                    {"name": "student_id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Drop recorded", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Professor not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/freezeenrollment": {
            "get": {
                "tags": ["Configuration"],
                "summary": "Get the registrar configuration",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/freezeenrollment/{flag}": {
            "post": {
                "tags": ["Configuration"],
                "summary": "Set the automatic enrollment flag",
                "description": "Enabling the flag triggers a promotion sweep over sections that still accept students.",
                "parameters": [
                    {"name": "flag", "in": "path", "required": true, "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "Updated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "CreateCourseRequest": {
            "type": "object",
            "required": ["department_code", "course_no", "title"],
            "properties": {
                "department_code": {"type": "string"},
                "course_no": {"type": "integer"},
                "title": {"type": "string"},
                "description": {"type": "string"}
            }
        },
        "CreateSectionRequest": {
            "type": "object",
            "required": ["dept_code", "course_num", "section_no", "semester", "year", "prof_id", "room_num", "course_start_date", "enrollment_start", "enrollment_end"],
            "properties": {
                "dept_code": {"type": "string"},
                "course_num": {"type": "integer"},
                "section_no": {"type": "integer"},
                "semester": {"type": "string", "enum": ["SP", "SU", "FA", "WI"]},
                "year": {"type": "integer"},
                "prof_id": {"type": "integer"},
                "room_num": {"type": "integer"},
                "room_capacity": {"type": "integer"},
                "course_start_date": {"type": "string", "format": "date"},
                "enrollment_start": {"type": "string", "format": "date"},
                "enrollment_end": {"type": "string", "format": "date"}
            }
        },
        "PatchSectionRequest": {
            "type": "object",
            "properties": {
                "section_no": {"type": "integer"},
                "prof_id": {"type": "integer"},
                "room_num": {"type": "integer"},
                "room_capacity": {"type": "integer"},
                "course_start_date": {"type": "string", "format": "date"},
                "enrollment_start": {"type": "string", "format": "date"},
                "enrollment_end": {"type": "string", "format": "date"}
            }
        },
        "EnrollRequest": {
            "type": "object",
            "required": ["student_id", "section_id"],
            "properties": {
                "student_id": {"type": "integer"},
                "section_id": {"type": "integer"}
            }
        },
        "SelfDropRequest": {
            "type": "object",
            "required": ["student_id"],
            "properties": {
                "student_id": {"type": "integer"}
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
