package api

import (
	"net/http"

	"github.com/splitbill/billsplitter/internal/service"
)

func (s *Server) handleSaveReceipt(w http.ResponseWriter, r *http.Request) {
	var req service.SaveReceiptRequest
	if !decodeBody(w, r, &req) {
		return
	}

	receipt, err := s.receipts.Save(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, receipt)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.receipts.History(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleReceiptDetails(w http.ResponseWriter, r *http.Request) {
	receipt, err := s.receipts.Details(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

type replaceItemsRequest struct {
	Items []service.SaveItem `json:"items"`
}

func (s *Server) handleReplaceItems(w http.ResponseWriter, r *http.Request) {
	var req replaceItemsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	receipt, err := s.receipts.ReplaceItems(r.Context(), r.PathValue("id"), req.Items)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

func (s *Server) handleDeleteReceipt(w http.ResponseWriter, r *http.Request) {
	if err := s.receipts.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBalances(w http.ResponseWriter, r *http.Request) {
	report, err := s.ledger.Balances(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type settlementRequest struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
	Note   string  `json:"note"`
}

func (s *Server) handleRecordSettlement(w http.ResponseWriter, r *http.Request) {
	var req settlementRequest
	if !decodeBody(w, r, &req) {
		return
	}

	receipt, err := s.receipts.RecordSettlement(r.Context(), req.From, req.To, req.Amount, req.Note)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, receipt)
}
