package server

import (
	"encoding/json"
	"net/http"
	"time"
)

// DefaultClientID names tokens requested without a client id.
const DefaultClientID = "default"

// TokenRequest is the body of POST /token.
type TokenRequest struct {
	APIKey   string `json:"apiKey" validate:"required"`
	ClientID string `json:"clientId,omitempty" validate:"omitempty,max=64"`
}

// TokenResponse carries a bearer token for the fill endpoints.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// handleToken exchanges the configured API key for a bearer token.
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		verr := validationError(err)
		s.errorResponse(w, HTTPStatus(verr), verr.Error())
		return
	}

	if !s.apiKey.Verify(req.APIKey) {
		err := &ErrInvalidAPIKey{}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	clientID := req.ClientID
	if clientID == "" {
		clientID = DefaultClientID
	}
	token, expiresAt, err := s.jwtService.GenerateToken(clientID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	s.jsonResponse(w, http.StatusOK, TokenResponse{Token: token, ExpiresAt: expiresAt})
}
