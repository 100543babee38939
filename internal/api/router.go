package api

import (
	"net/http"

	_ "github.com/AlexZinkM/otc-desk/internal/docs"
	"github.com/AlexZinkM/otc-desk/internal/handler"
	"github.com/AlexZinkM/otc-desk/internal/model"

	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRouter sets up router with handlers
func SetupRouter(authHandler *handler.AuthHandler, deskHandler *handler.DeskHandler) http.Handler {
	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Wallet session endpoints
	mux.HandleFunc("/auth/login", authHandler.Login)
	mux.HandleFunc("/auth/session", authHandler.Session)
	mux.HandleFunc("/auth/logout", authHandler.Logout)
	mux.HandleFunc("/wallet", authHandler.Wallet)

	// Panels, gated by role
	mux.HandleFunc("/desk/intents", authHandler.Gate(model.PanelDealer, deskHandler.SubmitIntents))
	mux.HandleFunc("/desk/compliance", authHandler.Gate(model.PanelCompliance, deskHandler.Compliance))
	mux.HandleFunc("/desk/proof", authHandler.Gate(model.PanelOps, deskHandler.Proof))

	return mux
}
