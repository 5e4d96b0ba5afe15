package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "ScholarSync API",
        "description": "Question and answer forum for university courses",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Auth", "description": "Registration and sign in"},
        {"name": "Questions", "description": "Questions asked within a course"},
        {"name": "Answers", "description": "Answers to questions"},
        {"name": "Courses", "description": "Course catalogue and membership"},
        {"name": "Users", "description": "Public user directory and own profile"},
        {"name": "Search", "description": "Cross-entity search"},
        {"name": "Admin", "description": "Maintenance operations"}
    ],
    "paths": {
        "/register": {
            "post": {
                "tags": ["Auth"],
                "summary": "Register a student account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AuthResponse"}},
                    "400": {"description": "Validation failed or duplicate", "schema": {"$ref": "#/definitions/AuthResult"}}
                }
            }
        },
        "/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Sign in",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AuthResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/AuthResult"}}
                }
            }
        },
        "/questions": {
            "get": {
                "tags": ["Questions"],
                "summary": "List questions, newest first",
                "parameters": [
                    {"name": "forYou", "in": "query", "type": "boolean"},
                    {"name": "courseId", "in": "query", "type": "string"},
                    {"name": "userId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Question"}}}
                }
            },
            "post": {
                "tags": ["Questions"],
                "summary": "Ask a question",
                "consumes": ["application/json", "multipart/form-data"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "title", "in": "formData", "type": "string", "required": true},
                    {"name": "content", "in": "formData", "type": "string", "required": true},
                    {"name": "courseId", "in": "formData", "type": "string", "required": true},
                    {"name": "attachment", "in": "formData", "type": "file"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Question"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/Message"}},
                    "404": {"description": "Course not found", "schema": {"$ref": "#/definitions/Message"}}
                }
            }
        },
        "/questions/{id}": {
            "get": {
                "tags": ["Questions"],
                "summary": "Get question",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Question"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Message"}}
                }
            },
            "patch": {
                "tags": ["Questions"],
                "summary": "Mark question completed",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateQuestionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Question"}},
                    "403": {"description": "Not the author", "schema": {"$ref": "#/definitions/Message"}}
                }
            },
            "delete": {
                "tags": ["Questions"],
                "summary": "Delete question with its answers",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AuthResult"}},
                    "403": {"description": "Not the author or an admin", "schema": {"$ref": "#/definitions/Message"}}
                }
            }
        },
        "/questions/{id}/like": {
            "post": {
                "tags": ["Questions"],
                "summary": "Like or unlike a question",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Question"}}
                }
            }
        },
        "/answers": {
            "get": {
                "tags": ["Answers"],
                "summary": "List answers of a question, oldest first",
                "parameters": [{"name": "questionId", "in": "query", "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Answer"}}}
                }
            },
            "post": {
                "tags": ["Answers"],
                "summary": "Answer a question",
                "consumes": ["application/json", "multipart/form-data"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "content", "in": "formData", "type": "string", "required": true},
                    {"name": "questionId", "in": "formData", "type": "string", "required": true},
                    {"name": "attachment", "in": "formData", "type": "file"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Answer"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/Message"}}
                }
            }
        },
        "/answers/{id}": {
            "get": {
                "tags": ["Answers"],
                "summary": "Get answer",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Answer"}}
                }
            },
            "patch": {
                "tags": ["Answers"],
                "summary": "Edit answer",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateAnswerRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Answer"}},
                    "403": {"description": "Not the author", "schema": {"$ref": "#/definitions/Message"}}
                }
            },
            "delete": {
                "tags": ["Answers"],
                "summary": "Delete answer",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AuthResult"}}
                }
            }
        },
        "/answers/{id}/like": {
            "post": {
                "tags": ["Answers"],
                "summary": "Like or unlike an answer",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Answer"}}
                }
            }
        },
        "/courses": {
            "get": {
                "tags": ["Courses"],
                "summary": "List courses",
                "parameters": [
                    {"name": "program", "in": "query", "type": "string"},
                    {"name": "year", "in": "query", "type": "integer"},
                    {"name": "type", "in": "query", "type": "string", "enum": ["obavezni", "izborni"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Course"}}}
                }
            }
        },
        "/courses/{id}": {
            "get": {
                "tags": ["Courses"],
                "summary": "Get course",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Course"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Message"}}
                }
            }
        },
        "/courses/{id}/join": {
            "post": {
                "tags": ["Courses"],
                "summary": "Join course",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/User"}},
                    "400": {"description": "Already joined", "schema": {"$ref": "#/definitions/Message"}}
                }
            }
        },
        "/courses/{id}/unjoin": {
            "post": {
                "tags": ["Courses"],
                "summary": "Leave course",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/User"}}
                }
            }
        },
        "/users": {
            "get": {
                "tags": ["Users"],
                "summary": "List users",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/User"}}}
                }
            }
        },
        "/users/{id}": {
            "get": {
                "tags": ["Users"],
                "summary": "Get user",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/User"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Message"}}
                }
            }
        },
        "/profile": {
            "get": {
                "tags": ["Users"],
                "summary": "Own profile",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AuthResult"}}
                }
            },
            "patch": {
                "tags": ["Users"],
                "summary": "Update own profile",
                "consumes": ["application/json", "multipart/form-data"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "username", "in": "formData", "type": "string"},
                    {"name": "email", "in": "formData", "type": "string"},
                    {"name": "bio", "in": "formData", "type": "string"},
                    {"name": "password", "in": "formData", "type": "string"},
                    {"name": "profilePicture", "in": "formData", "type": "file"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AuthResponse"}},
                    "400": {"description": "Validation failed or duplicate", "schema": {"$ref": "#/definitions/AuthResult"}}
                }
            },
            "delete": {
                "tags": ["Users"],
                "summary": "Delete own account with its questions and answers",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AuthResult"}}
                }
            }
        },
        "/search": {
            "get": {
                "tags": ["Search"],
                "summary": "Search questions, users and courses",
                "parameters": [{"name": "q", "in": "query", "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SearchResult"}}
                }
            }
        },
        "/admin/answer-counts/reconcile": {
            "post": {
                "tags": ["Admin"],
                "summary": "Repair drifted answer counters",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ReconcileResponse"}},
                    "403": {"description": "Admin only", "schema": {"$ref": "#/definitions/Message"}}
                }
            }
        }
    },
    "definitions": {
        "Message": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "AuthResult": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "user": {"$ref": "#/definitions/User"}
            }
        },
        "RegisterRequest": {
            "type": "object",
            "required": ["username", "email", "password"],
            "properties": {
                "username": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 6}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "AuthResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "user": {"$ref": "#/definitions/User"},
                "token": {"type": "string"}
            }
        },
        "User": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "username": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string", "enum": ["student", "admin"]},
                "bio": {"type": "string"},
                "profilePicture": {"type": "string"},
                "joinedCourses": {"type": "array", "items": {"type": "string"}},
                "createdAt": {"type": "string", "format": "date-time"},
                "updatedAt": {"type": "string", "format": "date-time"}
            }
        },
        "Author": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "role": {"type": "string"}
            }
        },
        "Attachment": {
            "type": "object",
            "properties": {
                "filename": {"type": "string"},
                "originalName": {"type": "string"},
                "path": {"type": "string"},
                "size": {"type": "integer"},
                "mimetype": {"type": "string"}
            }
        },
        "Question": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "title": {"type": "string"},
                "content": {"type": "string"},
                "courseId": {"type": "string"},
                "userId": {"type": "string"},
                "author": {"$ref": "#/definitions/Author"},
                "answersCount": {"type": "integer"},
                "isCompleted": {"type": "boolean"},
                "likes": {"type": "array", "items": {"type": "string"}},
                "attachment": {"$ref": "#/definitions/Attachment"},
                "createdAt": {"type": "string", "format": "date-time"}
            }
        },
        "UpdateQuestionRequest": {
            "type": "object",
            "required": ["isCompleted"],
            "properties": {"isCompleted": {"type": "boolean"}}
        },
        "Answer": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "content": {"type": "string"},
                "questionId": {"type": "string"},
                "userId": {"type": "string"},
                "author": {"$ref": "#/definitions/Author"},
                "isHighlighted": {"type": "boolean"},
                "likes": {"type": "array", "items": {"type": "string"}},
                "attachment": {"type": "string"},
                "createdAt": {"type": "string", "format": "date-time"},
                "updatedAt": {"type": "string", "format": "date-time"}
            }
        },
        "UpdateAnswerRequest": {
            "type": "object",
            "required": ["content"],
            "properties": {"content": {"type": "string", "minLength": 10, "maxLength": 5000}}
        },
        "Course": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "title": {"type": "string"},
                "type": {"type": "string", "enum": ["obavezni", "izborni"]},
                "year": {"type": "integer"},
                "description": {"type": "string"},
                "programs": {"type": "array", "items": {"type": "string"}},
                "programYears": {"type": "object", "additionalProperties": {"type": "integer"}}
            }
        },
        "SearchResult": {
            "type": "object",
            "properties": {
                "questions": {"type": "array", "items": {"$ref": "#/definitions/Question"}},
                "users": {"type": "array", "items": {"$ref": "#/definitions/User"}},
                "courses": {"type": "array", "items": {"$ref": "#/definitions/Course"}}
            }
        },
        "ReconcileResponse": {
            "type": "object",
            "properties": {
                "fixed": {"type": "integer"},
                "corrections": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "questionId": {"type": "string"},
                            "stored": {"type": "integer"},
                            "actual": {"type": "integer"}
                        }
                    }
                }
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
