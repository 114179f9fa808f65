package rest

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/metrics"
)

const (
	msgDuplicateEmail  = "Email already registered"
	msgBadCredentials  = "Incorrect email or password"
	msgBadRefreshToken = "Invalid refresh token"
	msgUnauthorized    = "Unauthorized"
	msgInternal        = "Internal server error"
	msgPasswordTooLong = "password must be at most 72 bytes"
)

func (s *HTTPServer) signup(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	pair, err := s.users.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorAlreadyExists):
			metrics.ObserveAuth("signup", metrics.ResultRejected)
			writeError(w, http.StatusConflict, msgDuplicateEmail)
		case errors.Is(err, common.ErrorValidation):
			metrics.ObserveAuth("signup", metrics.ResultRejected)
			writeError(w, http.StatusBadRequest, msgPasswordTooLong)
		default:
			metrics.ObserveAuth("signup", metrics.ResultError)
			writeError(w, http.StatusInternalServerError, msgInternal)
		}
		return
	}

	metrics.ObserveAuth("signup", metrics.ResultSuccess)
	if claims, err := s.users.Authenticate(pair.AccessToken); err == nil {
		s.logger.Info(r.Context(), "Registered", "user_id", claims.UserID)
	}
	writeJSON(w, http.StatusCreated, pair)
}

func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	pair, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			metrics.ObserveAuth("login", metrics.ResultRejected)
			writeError(w, http.StatusUnauthorized, msgBadCredentials)
			return
		}
		metrics.ObserveAuth("login", metrics.ResultError)
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	metrics.ObserveAuth("login", metrics.ResultSuccess)
	writeJSON(w, http.StatusOK, pair)
}

func (s *HTTPServer) refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	pair, err := s.users.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			metrics.ObserveAuth("refresh", metrics.ResultRejected)
			writeError(w, http.StatusUnauthorized, msgBadRefreshToken)
			return
		}
		metrics.ObserveAuth("refresh", metrics.ResultError)
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	metrics.ObserveAuth("refresh", metrics.ResultSuccess)
	writeJSON(w, http.StatusOK, pair)
}

func (s *HTTPServer) me(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, MeResponse{UserID: claims.UserID, Email: claims.Email})
}

func (s *HTTPServer) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("OK"))
}

// validationMessage strips the sentinel prefix so clients see only the
// field-level reason.
func validationMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), common.ErrorValidation.Error()+": ")
	if msg == "" {
		return "invalid request"
	}
	return msg
}
