package api

import (
	"net/http"
	"time"

	"github.com/Fi44er/usdt_topup/internal/service"
	"github.com/Fi44er/usdt_topup/utils"
	"github.com/gorilla/mux"
)

type Server struct {
	service *service.Service
	// verifies Mini App launch data on user routes
	botToken string
	logger   *utils.Logger
}

func NewServer(service *service.Service, botToken string, logger *utils.Logger) *Server {
	return &Server{service: service, botToken: botToken, logger: logger}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/deposit-address", s.DepositAddressHandler).Methods(http.MethodGet)

	users := api.NewRoute().Subrouter()
	users.Use(s.userAuth)
	users.HandleFunc("/users", s.RegisterUserHandler).Methods(http.MethodPost)
	users.HandleFunc("/users/{id}/dashboard", s.DashboardHandler).Methods(http.MethodGet)
	users.HandleFunc("/users/{id}/history", s.HistoryHandler).Methods(http.MethodGet)
	users.HandleFunc("/users/{id}/deposits", s.CreateDepositHandler).Methods(http.MethodPost)
	users.HandleFunc("/users/{id}/payment-requests", s.SubmitPaymentRequestHandler).Methods(http.MethodPost)
	users.HandleFunc("/users/{id}/payment-requests/{rid}/cancel", s.CancelPaymentRequestHandler).Methods(http.MethodPost)
	users.HandleFunc("/users/{id}/notifications", s.NotificationsHandler).Methods(http.MethodGet)
	users.HandleFunc("/users/{id}/notifications/{nid}/read", s.MarkNotificationReadHandler).Methods(http.MethodPost)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(s.operatorAuth)
	admin.HandleFunc("/users", s.AdminUsersHandler).Methods(http.MethodGet)
	admin.HandleFunc("/deposits/pending", s.AdminPendingDepositsHandler).Methods(http.MethodGet)
	admin.HandleFunc("/deposits/{id}/confirm", s.AdminConfirmDepositHandler).Methods(http.MethodPost)
	admin.HandleFunc("/deposits/{id}/reject", s.AdminRejectDepositHandler).Methods(http.MethodPost)
	admin.HandleFunc("/payment-requests", s.AdminPaymentRequestsHandler).Methods(http.MethodGet)
	admin.HandleFunc("/payment-requests/{id}/review", s.AdminReviewHandler).Methods(http.MethodPost)
	admin.HandleFunc("/operators", s.AdminOperatorsHandler).Methods(http.MethodGet)
	admin.HandleFunc("/operators", s.AdminCreateOperatorHandler).Methods(http.MethodPost)
	admin.HandleFunc("/operators/{id}", s.AdminUpdateOperatorHandler).Methods(http.MethodPatch)
	admin.HandleFunc("/operators/{id}", s.AdminDeleteOperatorHandler).Methods(http.MethodDelete)

	return r
}

func (s *Server) MakeServer(addr string) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
