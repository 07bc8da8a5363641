package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Fi44er/usdt_topup/internal/models"
	"github.com/Fi44er/usdt_topup/internal/service"
	"github.com/Fi44er/usdt_topup/utils"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type ctxKey int

const (
	operatorKey ctxKey = iota
	userKey
)

const initDataMaxAge = 24 * time.Hour

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start),
		}).Debug("http request")
	})
}

// operatorAuth checks HTTP Basic credentials against the operators table.
func (s *Server) operatorAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		login, password, ok := r.BasicAuth()
		if !ok {
			w.Header().Set("WWW-Authenticate", `Basic realm="operators"`)
			s.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
			return
		}

		op, err := s.service.Authenticate(r.Context(), login, password)
		if err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				w.Header().Set("WWW-Authenticate", `Basic realm="operators"`)
			}
			s.writeError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), operatorKey, op)))
	})
}

func operatorFrom(ctx context.Context) *models.Operator {
	op, _ := ctx.Value(operatorKey).(*models.Operator)
	return op
}

// userAuth accepts Telegram Mini App launch data sent as
// "Authorization: tma <initData>" and resolves it to a registered user. A
// route with an {id} only serves that user.
func (s *Server) userAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		initData, ok := strings.CutPrefix(r.Header.Get("Authorization"), "tma ")
		if !ok {
			w.Header().Set("WWW-Authenticate", "tma")
			s.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
			return
		}

		account, err := utils.ValidateInitData(initData, s.botToken, initDataMaxAge, time.Now())
		if err != nil {
			s.logger.Debugf("Rejected init data: %v", err)
			w.Header().Set("WWW-Authenticate", "tma")
			s.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
			return
		}

		user, err := s.service.RegisterUser(r.Context(), strconv.FormatInt(account.ID, 10), account.Username)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if id, ok := mux.Vars(r)["id"]; ok && id != user.ID {
			s.writeError(w, r, service.ErrForbidden)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	})
}

func userFrom(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}
