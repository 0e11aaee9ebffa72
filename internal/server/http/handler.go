package http

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/handlekeeper/internal/common"
	"github.com/dmitrijs2005/handlekeeper/internal/server/services"
)

// Client-visible messages.
const (
	msgRunning            = "Backend Server is running"
	msgMissingFields      = "Missing required fields"
	msgHandleExists       = "User handle already exists"
	msgEmailExists        = "Email already registered"
	msgRegistered         = "User registered successfully"
	msgSignUpFailed       = "Unable to sign up user"
	msgMissingCredentials = "Provide credentials and password"
	msgInvalidCredentials = "Invalid credentials"
	msgSignedIn           = "Signed in successfully"
	msgSignInFailed       = "Unable to sign in"
	msgSecretMissing      = "JWT_SECRET is not configured"
	msgProfileFailed      = "Unable to load profile"
	msgAccountNotFound    = "Account not found"
)

func (s *HTTPServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, indexResponse{Message: msgRunning, Success: true})
}

func (s *HTTPServer) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var in services.SignUpInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.logger.Warn(r.Context(), "signup: malformed body", "error", err)
		errorJSON(w, http.StatusBadRequest, msgMissingFields)
		return
	}

	result, err := s.accounts.SignUp(r.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrValidation):
			errorJSON(w, http.StatusBadRequest, msgMissingFields)
		case errors.Is(err, common.ErrHandleTaken):
			errorJSON(w, http.StatusConflict, msgHandleExists)
		case errors.Is(err, common.ErrEmailTaken):
			errorJSON(w, http.StatusConflict, msgEmailExists)
		case errors.Is(err, common.ErrSecretNotConfigured):
			errorJSON(w, http.StatusInternalServerError, msgSecretMissing)
		default:
			errorJSON(w, http.StatusInternalServerError, msgSignUpFailed)
		}
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{
		Message: msgRegistered,
		Token:   result.Token,
		User:    toUser(result.Account),
	})
}

func (s *HTTPServer) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var in services.SignInInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.logger.Warn(r.Context(), "signin: malformed body", "error", err)
		errorJSON(w, http.StatusBadRequest, msgMissingCredentials)
		return
	}

	result, err := s.accounts.SignIn(r.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrValidation):
			errorJSON(w, http.StatusBadRequest, msgMissingCredentials)
		case errors.Is(err, common.ErrInvalidCredentials):
			errorJSON(w, http.StatusUnauthorized, msgInvalidCredentials)
		case errors.Is(err, common.ErrSecretNotConfigured):
			errorJSON(w, http.StatusInternalServerError, msgSecretMissing)
		default:
			errorJSON(w, http.StatusInternalServerError, msgSignInFailed)
		}
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Message: msgSignedIn,
		Token:   result.Token,
		User:    toUser(result.Account),
	})
}

func (s *HTTPServer) handleMe(w http.ResponseWriter, r *http.Request) {
	handle, _ := HandleFromContext(r.Context())

	account, err := s.accounts.Profile(r.Context(), handle)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			errorJSON(w, http.StatusUnauthorized, msgAccountNotFound)
			return
		}
		errorJSON(w, http.StatusInternalServerError, msgProfileFailed)
		return
	}

	writeJSON(w, http.StatusOK, meResponse{User: toUser(account)})
}
