package api

import (
	"net/http"

	"github.com/splitbill/billsplitter/internal/auth"
	"github.com/splitbill/billsplitter/internal/middleware"
)

// Routes registers all handlers on mux. Everything under /api/v1 except the
// auth endpoints requires a valid Bearer token.
func (s *Server) Routes(mux *http.ServeMux, jwtManager *auth.JWTManager) {
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /api/v1/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/v1/auth/login", s.handleLogin)

	protected := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireAuth(jwtManager, h)
	}
	mux.Handle("POST /api/v1/receipts/upload", protected(s.handleUpload))
	mux.Handle("POST /api/v1/receipts", protected(s.handleSaveReceipt))
	mux.Handle("GET /api/v1/receipts", protected(s.handleHistory))
	mux.Handle("GET /api/v1/receipts/{id}", protected(s.handleReceiptDetails))
	mux.Handle("PUT /api/v1/receipts/{id}/items", protected(s.handleReplaceItems))
	mux.Handle("DELETE /api/v1/receipts/{id}", protected(s.handleDeleteReceipt))
	mux.Handle("GET /api/v1/balances", protected(s.handleBalances))
	mux.Handle("POST /api/v1/settlements", protected(s.handleRecordSettlement))
}
