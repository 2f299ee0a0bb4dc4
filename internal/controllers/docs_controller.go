package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type DocsController struct{}

// OpenAPI serves the API document for the public surface. Served as plain
// JSON; no UI is bundled.
func (d *DocsController) OpenAPI(c *gin.Context) {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	baseURL := scheme + "://" + c.Request.Host

	errorResponse := gin.H{
		"type":       "object",
		"properties": gin.H{"error": gin.H{"type": "string"}},
	}
	messageResponse := gin.H{
		"type":       "object",
		"properties": gin.H{"message": gin.H{"type": "string"}},
	}
	bearer := []gin.H{{"BearerAuth": []string{}}}

	spec := gin.H{
		"openapi": "3.0.3",
		"info": gin.H{
			"title":       "Multiplayer Game Backend API",
			"version":     "1.0.0",
			"description": "Auth, parent, gameplay, server registry and teacher dashboard endpoints.",
		},
		"servers": []gin.H{{"url": baseURL}},
		"components": gin.H{
			"securitySchemes": gin.H{
				"BearerAuth": gin.H{
					"type":         "http",
					"scheme":       "bearer",
					"bearerFormat": "JWT",
					"description":  "Provide JWT token as: Bearer <token>",
				},
			},
			"schemas": gin.H{
				"ErrorResponse":   errorResponse,
				"MessageResponse": messageResponse,
			},
		},
		"paths": gin.H{
			"/auth/register": gin.H{"post": gin.H{
				"summary":   "Create a user account",
				"responses": gin.H{"201": gin.H{"description": "registered"}, "400": gin.H{"description": "validation error or duplicate"}},
			}},
			"/auth/login": gin.H{"post": gin.H{
				"summary":   "Issue a bearer token",
				"responses": gin.H{"200": gin.H{"description": "token issued"}, "401": gin.H{"description": "invalid credentials"}},
			}},
			"/parent/link_child": gin.H{"post": gin.H{
				"summary":   "Attach a student to the calling parent by username",
				"security":  bearer,
				"responses": gin.H{"200": gin.H{"description": "linked"}, "404": gin.H{"description": "child not found"}},
			}},
			"/parent/stats": gin.H{"get": gin.H{
				"summary":   "Playtime and mission scores for each linked child",
				"security":  bearer,
				"responses": gin.H{"200": gin.H{"description": "per-child stats"}},
			}},
			"/mission/update": gin.H{"post": gin.H{
				"summary":   "Upsert mission progress (score kept at running max)",
				"security":  bearer,
				"responses": gin.H{"200": gin.H{"description": "progress saved"}, "400": gin.H{"description": "unknown mission"}},
			}},
			"/server/register": gin.H{"post": gin.H{
				"summary":   "Game server heartbeat (upsert by ip:port)",
				"responses": gin.H{"200": gin.H{"description": "OK"}},
			}},
			"/server/list": gin.H{"get": gin.H{
				"summary":   "Servers with a heartbeat in the last 15 seconds",
				"responses": gin.H{"200": gin.H{"description": "active servers"}},
			}},
			"/teacher/class/overview": gin.H{"get": gin.H{
				"summary":   "Owned classes with aggregated per-student performance",
				"security":  bearer,
				"responses": gin.H{"200": gin.H{"description": "roster with zero-defaulted aggregates"}, "403": gin.H{"description": "not a teacher"}},
			}},
			"/teacher/student/{public_id}": gin.H{"get": gin.H{
				"summary":  "Detail summary for one of the teacher's students",
				"security": bearer,
				"parameters": []gin.H{{
					"name": "public_id", "in": "path", "required": true,
					"schema": gin.H{"type": "string"},
				}},
				"responses": gin.H{"200": gin.H{"description": "detail"}, "403": gin.H{"description": "not your student"}, "404": gin.H{"description": "student not found"}},
			}},
			"/teacher/quiz": gin.H{"post": gin.H{
				"summary":   "Create a quiz",
				"security":  bearer,
				"responses": gin.H{"201": gin.H{"description": "created"}, "400": gin.H{"description": "validation error"}},
			}},
			"/teacher/message": gin.H{"post": gin.H{
				"summary":   "Send a message to a related Student or Parent",
				"security":  bearer,
				"responses": gin.H{"201": gin.H{"description": "sent"}, "403": gin.H{"description": "no relationship to receiver"}},
			}},
			"/teacher/lobby/create": gin.H{"post": gin.H{
				"summary":   "Create or refresh a game lobby tied to a class",
				"security":  bearer,
				"responses": gin.H{"201": gin.H{"description": "created"}, "200": gin.H{"description": "updated"}},
			}},
		},
	}

	c.JSON(http.StatusOK, spec)
}
