package api

import (
	"github.com/gorilla/mux"
)

// SetupRoutes configures all API routes
func SetupRoutes(handler *Handler) *mux.Router {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()

	// Auth routes
	api.HandleFunc("/auth/register", handler.Register).Methods("POST")
	api.HandleFunc("/auth/login", handler.Login).Methods("POST")

	// Ledger routes
	users := api.PathPrefix("/users/{userID}").Subrouter()
	users.HandleFunc("/transactions", handler.AddTransaction).Methods("POST")
	users.HandleFunc("/transactions", handler.GetTransactions).Methods("GET")
	users.HandleFunc("/transactions/{id}", handler.DeleteTransaction).Methods("DELETE")
	users.HandleFunc("/withdrawals", handler.AddWithdrawal).Methods("POST")
	users.HandleFunc("/withdrawals", handler.GetWithdrawals).Methods("GET")
	users.HandleFunc("/withdrawals/{id}", handler.DeleteWithdrawal).Methods("DELETE")

	// Portfolio views
	users.HandleFunc("/portfolio/holdings", handler.GetHoldings).Methods("GET")
	users.HandleFunc("/portfolio/summary", handler.GetSummary).Methods("GET")
	users.HandleFunc("/portfolio/history", handler.GetHistory).Methods("GET")

	return r
}
