package api

import (
	"net/http"

	"github.com/Fi44er/usdt_topup/internal/models"
	"github.com/Fi44er/usdt_topup/internal/service"
	"github.com/gorilla/mux"
)

type createOperatorRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type updateOperatorRequest struct {
	IsActive *bool `json:"is_active"`
}

func (s *Server) AdminUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := s.service.ListUsers(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, users)
}

func (s *Server) AdminPendingDepositsHandler(w http.ResponseWriter, r *http.Request) {
	deposits, err := s.service.ListPendingDeposits(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, deposits)
}

func (s *Server) AdminConfirmDepositHandler(w http.ResponseWriter, r *http.Request) {
	op := operatorFrom(r.Context())
	deposit, err := s.service.ConfirmDeposit(r.Context(), op.ID, mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, deposit)
}

func (s *Server) AdminRejectDepositHandler(w http.ResponseWriter, r *http.Request) {
	op := operatorFrom(r.Context())
	deposit, err := s.service.RejectDeposit(r.Context(), op.ID, mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, deposit)
}

// AdminPaymentRequestsHandler lists all requests, optionally narrowed by
// ?status=.
func (s *Server) AdminPaymentRequestsHandler(w http.ResponseWriter, r *http.Request) {
	requests, err := s.service.ListPaymentRequests(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if status := models.PaymentRequestStatus(r.URL.Query().Get("status")); status != "" {
		if !status.Valid() {
			s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown status"})
			return
		}
		filtered := make([]*models.PaymentRequest, 0, len(requests))
		for _, req := range requests {
			if req.Status == status {
				filtered = append(filtered, req)
			}
		}
		requests = filtered
	}
	s.writeJSON(w, http.StatusOK, requests)
}

func (s *Server) AdminReviewHandler(w http.ResponseWriter, r *http.Request) {
	var in service.ReviewInput
	if !s.decode(w, r, &in) {
		return
	}

	op := operatorFrom(r.Context())
	req, err := s.service.ReviewPaymentRequest(r.Context(), op.ID, mux.Vars(r)["id"], in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, req)
}

func (s *Server) AdminOperatorsHandler(w http.ResponseWriter, r *http.Request) {
	ops, err := s.service.ListOperators(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ops)
}

func (s *Server) AdminCreateOperatorHandler(w http.ResponseWriter, r *http.Request) {
	var req createOperatorRequest
	if !s.decode(w, r, &req) {
		return
	}

	op, err := s.service.CreateOperator(r.Context(), req.Login, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, op)
}

func (s *Server) AdminUpdateOperatorHandler(w http.ResponseWriter, r *http.Request) {
	var req updateOperatorRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.IsActive == nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "is_active is required"})
		return
	}

	op, err := s.service.SetOperatorActive(r.Context(), mux.Vars(r)["id"], *req.IsActive)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, op)
}

func (s *Server) AdminDeleteOperatorHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteOperator(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
