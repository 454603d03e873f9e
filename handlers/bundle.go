package handlers

import (
	"booknest/services/session"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all your endpoint handlers into one struct.
type HandlerBundle struct {
	Registry *session.Registry

	// Session endpoints
	CreateSessionHandler  gin.HandlerFunc
	GetStateHandler       gin.HandlerFunc
	StreamEventsHandler   gin.HandlerFunc
	DispatchIntentHandler gin.HandlerFunc
	VerifyOtpHandler      gin.HandlerFunc
	GetAccountHandler     gin.HandlerFunc
	GetSelectionHandler   gin.HandlerFunc
	CheckoutHandler       gin.HandlerFunc
	DeleteSessionHandler  gin.HandlerFunc

	HealthHandler gin.HandlerFunc
}

// NewHandlerBundle wires the session handlers for registry.
func NewHandlerBundle(registry *session.Registry) *HandlerBundle {
	sh := NewSessionHandler(registry)
	return &HandlerBundle{
		Registry:              registry,
		CreateSessionHandler:  sh.CreateSessionHandler,
		GetStateHandler:       sh.GetStateHandler,
		StreamEventsHandler:   sh.StreamEventsHandler,
		DispatchIntentHandler: sh.DispatchIntentHandler,
		VerifyOtpHandler:      sh.VerifyOtpHandler,
		GetAccountHandler:     sh.GetAccountHandler,
		GetSelectionHandler:   sh.GetSelectionHandler,
		CheckoutHandler:       sh.CheckoutHandler,
		DeleteSessionHandler:  sh.DeleteSessionHandler,
		HealthHandler:         HealthHandler,
	}
}
