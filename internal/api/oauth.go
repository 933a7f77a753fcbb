package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

func isAny(err error, targets ...error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// handleWhoopAuthURL returns the Whoop authorization URL for the client to
// open in a browser.
func (s *Server) handleWhoopAuthURL(w http.ResponseWriter, r *http.Request) {
	state := fmt.Sprintf("readyday-whoop-%d", time.Now().UnixNano())
	s.respondJSON(w, http.StatusOK, map[string]string{
		"url":   s.whoopOAuth.GetAuthURL(state),
		"state": state,
	})
}

// handleWhoopCallback exchanges the authorization code and stores the token.
func (s *Server) handleWhoopCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		s.respondError(w, http.StatusBadRequest, "missing code")
		return
	}

	token, err := s.whoopOAuth.ExchangeCode(r.Context(), code)
	if err != nil {
		s.respondError(w, http.StatusBadGateway, fmt.Sprintf("code exchange failed: %v", err))
		return
	}

	if err := s.whoopRepo.SaveToken(token); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.logger.Info("Whoop connected")
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "connected", "provider": "whoop"})
}

// handleGoogleAuthURL returns the Google authorization URL.
func (s *Server) handleGoogleAuthURL(w http.ResponseWriter, r *http.Request) {
	state := fmt.Sprintf("readyday-google-%d", time.Now().UnixNano())
	s.respondJSON(w, http.StatusOK, map[string]string{
		"url":   s.googleOAuth.GetAuthURL(state),
		"state": state,
	})
}

// handleGoogleCallback exchanges the authorization code and stores the token.
func (s *Server) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		s.respondError(w, http.StatusBadRequest, "missing code")
		return
	}

	token, err := s.googleOAuth.ExchangeCode(r.Context(), code)
	if err != nil {
		s.respondError(w, http.StatusBadGateway, fmt.Sprintf("code exchange failed: %v", err))
		return
	}

	if err := s.calSource.SaveToken(token); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.logger.Info("Google Calendar connected")
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "connected", "provider": "google"})
}
