// Package docs serves the OpenAPI document for the swagger UI.
// Regenerate with: swag init -g cmd/web/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "Job Board Support",
            "email": "support@jobboard.local"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/api/v1/jobs": {
            "get": {
                "tags": ["jobs"],
                "summary": "List open jobs",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "page_size", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/jobs/{jobId}/publish": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["jobs"],
                "summary": "Publish a draft job",
                "description": "Spends one job_post credit.",
                "parameters": [{"type": "string", "name": "jobId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "402": {"description": "Not enough credits"}
                }
            }
        },
        "/api/v1/jobs/{jobId}/applications": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["applications"],
                "summary": "Apply to an open job",
                "parameters": [{"type": "string", "name": "jobId", "in": "path", "required": true}],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Already applied or job not open"}
                }
            }
        },
        "/api/v1/applications/{applicationId}/status": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["applications"],
                "summary": "Move an application forward",
                "parameters": [{"type": "string", "name": "applicationId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Transition not allowed"}
                }
            }
        },
        "/api/v1/applications/{applicationId}/interviews": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["applications"],
                "summary": "Schedule an interview",
                "parameters": [{"type": "string", "name": "applicationId", "in": "path", "required": true}],
                "responses": {
                    "201": {"description": "Created"},
                    "207": {"description": "Interview saved, status not updated"}
                }
            }
        },
        "/api/v1/companies/{companyId}/credits": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["ledger"],
                "summary": "Credit balance",
                "parameters": [{"type": "string", "name": "companyId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/companies/{companyId}/talent/search": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["ledger"],
                "summary": "Search past applicants",
                "description": "Requires a paid plan and spends one talent_search credit.",
                "parameters": [{"type": "string", "name": "companyId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "402": {"description": "Plan or credits missing"}
                }
            }
        },
        "/api/v1/billing/webhook": {
            "post": {
                "tags": ["billing"],
                "summary": "Payment provider webhook",
                "parameters": [{"type": "string", "name": "Stripe-Signature", "in": "header", "required": true}],
                "responses": {
                    "200": {"description": "Received"},
                    "400": {"description": "Invalid signature"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Job Board API",
	Description:      "Hiring pipeline, company credits and subscriptions.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
