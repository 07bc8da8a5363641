package api

import (
	"net/http"

	"github.com/Fi44er/usdt_topup/internal/models"
	"github.com/Fi44er/usdt_topup/internal/service"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

type depositRequest struct {
	Amount decimal.Decimal `json:"amount"`
	TxHash string          `json:"tx_hash"`
}

type notificationsResponse struct {
	Notifications []*models.Notification `json:"notifications"`
	Unread        int64                  `json:"unread"`
}

func (s *Server) DepositAddressHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"address": s.service.DepositAddress()})
}

// RegisterUserHandler returns the caller's account. userAuth has already
// created it on first contact.
func (s *Server) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, userFrom(r.Context()))
}

func (s *Server) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	dash, err := s.service.GetDashboard(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, dash)
}

func (s *Server) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	filter := service.HistoryFilter(r.URL.Query().Get("filter"))
	switch filter {
	case "":
		filter = service.HistoryAll
	case service.HistoryAll, service.HistoryActive, service.HistoryFinished:
	default:
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "filter must be all, active or finished"})
		return
	}

	entries, err := s.service.GetHistory(r.Context(), mux.Vars(r)["id"], filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, entries)
}

func (s *Server) CreateDepositHandler(w http.ResponseWriter, r *http.Request) {
	var req depositRequest
	if !s.decode(w, r, &req) {
		return
	}

	deposit, err := s.service.CreateDeposit(r.Context(), mux.Vars(r)["id"], req.Amount, req.TxHash)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, deposit)
}

func (s *Server) SubmitPaymentRequestHandler(w http.ResponseWriter, r *http.Request) {
	var req service.PaymentRequestInput
	if !s.decode(w, r, &req) {
		return
	}

	created, err := s.service.SubmitPaymentRequest(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) CancelPaymentRequestHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	req, err := s.service.CancelPaymentRequest(r.Context(), vars["id"], vars["rid"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, req)
}

func (s *Server) NotificationsHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]
	items, err := s.service.ListNotifications(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	unread, err := s.service.UnreadCount(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, notificationsResponse{Notifications: items, Unread: unread})
}

func (s *Server) MarkNotificationReadHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := s.service.MarkNotificationRead(r.Context(), vars["id"], vars["nid"]); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
