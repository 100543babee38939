// Package docs registers the OpenAPI document served at /swagger/doc.json.
// It is maintained by hand alongside the handler annotations; keep both in
// step when routes or payloads change.
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
        "/auth/login": {
            "post": {
                "description": "Requests a nonce, signs it with the local wallet and exchanges the signature for a desk session",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign in with the configured wallet",
                "parameters": [
                    {
                        "description": "Expected wallet address",
                        "name": "request",
                        "in": "body",
                        "schema": {"$ref": "#/definitions/model.LoginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.SessionResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign out",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.SessionResponse"}}
                }
            }
        },
        "/auth/session": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current desk session",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.SessionResponse"}}
                }
            }
        },
        "/desk/compliance": {
            "get": {
                "produces": ["application/json"],
                "tags": ["compliance"],
                "summary": "Compliance outcome of the last orchestration",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.ComplianceResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/desk/intents": {
            "post": {
                "description": "Encrypts and signs both plain intents, submits them as one settlement orchestration and starts proof tracking",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["dealer"],
                "summary": "Submit a matched pair of intents",
                "parameters": [
                    {
                        "description": "Both parties of the trade",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/model.SubmitRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.SubmitResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/desk/proof": {
            "get": {
                "description": "GET returns the live tracker view, DELETE stops tracking and returns the last view",
                "produces": ["application/json"],
                "tags": ["ops"],
                "summary": "Proof job tracker",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/tracker.View"}}
                }
            },
            "delete": {
                "description": "GET returns the live tracker view, DELETE stops tracking and returns the last view",
                "produces": ["application/json"],
                "tags": ["ops"],
                "summary": "Proof job tracker",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/tracker.View"}}
                }
            }
        },
        "/wallet": {
            "get": {
                "description": "Returns the wallet kind, address and a base64 PNG QR code of the address",
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Configured wallet",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.WalletResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "model.ComplianceResponse": {
            "type": "object",
            "properties": {
                "attestation_hash": {"type": "string"},
                "attestation_id": {"type": "string"},
                "policy_hash": {"type": "string"},
                "policy_version": {"type": "string"},
                "results": {"type": "array", "items": {"$ref": "#/definitions/model.ComplianceResult"}},
                "summary": {"type": "string"},
                "workflow_run_id": {"type": "string"}
            }
        },
        "model.ComplianceResult": {
            "type": "object",
            "properties": {
                "decision": {"type": "string"},
                "passed": {"type": "boolean"},
                "reason_code": {"type": "string"},
                "subject_id": {"type": "string"}
            }
        },
        "model.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "model.IntentSubmission": {
            "type": "object",
            "properties": {
                "accepted": {"type": "boolean"},
                "commitment_hashes": {"type": "array", "items": {"type": "string"}},
                "error_code": {"type": "string"},
                "intent_ids": {"type": "array", "items": {"type": "string"}},
                "reason": {"type": "string"},
                "workflow_run_id": {"type": "string"}
            }
        },
        "model.LoginRequest": {
            "type": "object",
            "properties": {
                "wallet_address": {"type": "string"}
            }
        },
        "model.OrchestrationResult": {
            "type": "object",
            "properties": {
                "accepted": {"type": "boolean"},
                "attestation_hash": {"type": "string"},
                "attestation_id": {"type": "string"},
                "compliance_results": {"type": "array", "items": {"$ref": "#/definitions/model.ComplianceResult"}},
                "error_code": {"type": "string"},
                "intent_submissions": {"type": "array", "items": {"$ref": "#/definitions/model.IntentSubmission"}},
                "policy_hash": {"type": "string"},
                "policy_version": {"type": "string"},
                "proof_job": {"$ref": "#/definitions/model.ProofJobAdmission"},
                "reason": {"type": "string"},
                "workflow_run_id": {"type": "string"}
            }
        },
        "model.PartyOrder": {
            "type": "object",
            "properties": {
                "country": {"type": "string"},
                "intent": {"$ref": "#/definitions/model.PlainIntent"},
                "wallet_address": {"type": "string"}
            }
        },
        "model.PlainIntent": {
            "type": "object",
            "properties": {
                "amount": {"type": "string"},
                "asset_pair": {"type": "string"},
                "counterparty_id": {"type": "string"},
                "limit_price": {"type": "string"},
                "settlement_currency": {"type": "string"},
                "side": {"type": "string", "enum": ["buy", "sell"]}
            }
        },
        "model.ProofJob": {
            "type": "object",
            "properties": {
                "attempt_count": {"type": "integer"},
                "job_id": {"type": "string"},
                "last_error_code": {"type": "string"},
                "last_error_message": {"type": "string"},
                "policy_version": {"type": "string"},
                "proof_type": {"type": "string"},
                "prove_duration_ms": {"type": "integer"},
                "queue_latency_ms": {"type": "integer"},
                "retry_count": {"type": "integer"},
                "retry_scheduled": {"type": "boolean"},
                "status": {"type": "string", "enum": ["QUEUED", "PROVING", "PUBLISHING", "PUBLISHED", "FAILED"]},
                "transitions": {"type": "array", "items": {"$ref": "#/definitions/model.Transition"}},
                "workflow_run_id": {"type": "string"}
            }
        },
        "model.ProofJobAdmission": {
            "type": "object",
            "properties": {
                "accepted": {"type": "boolean"},
                "error_code": {"type": "string"},
                "idempotent": {"type": "boolean"},
                "job_id": {"type": "string"},
                "policy_version": {"type": "string"},
                "proof_type": {"type": "string"},
                "reason": {"type": "string"},
                "replayed": {"type": "boolean"},
                "workflow_run_id": {"type": "string"}
            }
        },
        "model.RolePanels": {
            "type": "object",
            "properties": {
                "compliance": {"type": "boolean"},
                "dealer": {"type": "boolean"},
                "ops": {"type": "boolean"}
            }
        },
        "model.SessionResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "expires_at": {"type": "integer"},
                "panels": {"$ref": "#/definitions/model.RolePanels"},
                "role": {"type": "string", "enum": ["dealer", "ops", "compliance"]},
                "state": {"type": "string"},
                "wallet_address": {"type": "string"}
            }
        },
        "model.SubmitRequest": {
            "type": "object",
            "properties": {
                "left": {"$ref": "#/definitions/model.PartyOrder"},
                "right": {"$ref": "#/definitions/model.PartyOrder"}
            }
        },
        "model.SubmitResponse": {
            "type": "object",
            "properties": {
                "intake_summary": {"type": "string"},
                "proof_tracking": {"type": "boolean"},
                "rejection_reason": {"type": "string"},
                "result": {"$ref": "#/definitions/model.OrchestrationResult"}
            }
        },
        "model.Transition": {
            "type": "object",
            "properties": {
                "error_code": {"type": "string"},
                "from_status": {"type": "string"},
                "to_status": {"type": "string"},
                "transitioned_at": {"type": "integer"}
            }
        },
        "model.WalletResponse": {
            "type": "object",
            "properties": {
                "QR": {"type": "string"},
                "address": {"type": "string"},
                "kind": {"type": "string"}
            }
        },
        "tracker.View": {
            "type": "object",
            "properties": {
                "done": {"type": "boolean"},
                "error": {"type": "string"},
                "job": {"$ref": "#/definitions/model.ProofJob"},
                "job_count": {"type": "integer"},
                "job_id": {"type": "string"},
                "loading": {"type": "boolean"},
                "polls": {"type": "integer"},
                "started": {"type": "boolean"},
                "timeline": {"type": "array", "items": {"$ref": "#/definitions/model.Transition"}},
                "updated_at": {"type": "string"},
                "workflow_run_id": {"type": "string"}
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
	Title:            "OTC Desk Agent API",
	Description:      "Local desk agent: wallet session, encrypted intent submission and proof job tracking.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
