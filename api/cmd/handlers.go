package main

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ezalahmad/account-service/app/dto"
	appErrors "github.com/ezalahmad/account-service/app/errors"
)

// signupHandler handles account registration from form fields.
func (app *application) signupHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeErrorResponse(w, appErrors.NewInvalidInput("invalid form body"))
		return
	}

	req := dto.SignupRequest{
		Username: sanitizeUsername(r.PostFormValue("username"), 50),
		Email:    sanitizeEmail(r.PostFormValue("email"), 255),
		// Passwords keep their special characters; trim and cap only.
		Password: sanitizeInput(r.PostFormValue("password"), 128, true),
	}

	if err := validateRequest(&req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	resp, appErr := app.accounts.Signup(r.Context(), req)
	if appErr != nil {
		writeErrorResponse(w, appErr)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// signinHandler checks credentials submitted as form fields.
func (app *application) signinHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeErrorResponse(w, appErrors.NewInvalidInput("invalid form body"))
		return
	}

	req := dto.SigninRequest{
		Username: sanitizeUsername(r.PostFormValue("username"), 50),
		Password: sanitizeInput(r.PostFormValue("password"), 128, true),
	}

	if err := validateRequest(&req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	resp, appErr := app.accounts.Signin(r.Context(), req)
	if appErr != nil {
		writeErrorResponse(w, appErr)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// verifyHandler activates the account named by the token in the URL and
// redirects to the signin entry point.
func (app *application) verifyHandler(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		writeErrorResponse(w, appErrors.NewUnauthorized("missing verification token"))
		return
	}

	outcome, appErr := app.accounts.Verify(r.Context(), token)
	if appErr != nil {
		writeErrorResponse(w, appErr)
		return
	}

	if outcome.AlreadyVerified {
		writeJSON(w, http.StatusOK, map[string]string{"message": "already verified"})
		return
	}

	http.Redirect(w, r, outcome.RedirectTo, http.StatusSeeOther)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeErrorResponse writes an error response in a consistent format
func writeErrorResponse(w http.ResponseWriter, appErr *appErrors.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.Status)

	errResp := dto.ErrorResponse{
		Error: appErr.Message,
		Code:  string(appErr.Code),
	}

	json.NewEncoder(w).Encode(errResp)
}
