package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// Handler exposes the login flow under /api/auth. All responses carry
// an "ok" field so the client can branch without inspecting status
// codes.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"ok": false, "error": msg})
}

func decodeJSON(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}

// statusForAuthErr maps service errors onto HTTP status codes. Unknown
// errors fall through to 500 so internal failures never leak detail.
func statusForAuthErr(err error) int {
	switch {
	case errors.Is(err, ErrInvalidEmail), errors.Is(err, ErrInvalidOTPFormat):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidOTP), errors.Is(err, ErrOTPExpired):
		return http.StatusUnauthorized
	case errors.Is(err, ErrTooManyOTPAttempts):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func userPayload(u User) map[string]any {
	return map[string]any{
		"id":    u.ID,
		"email": u.Email,
	}
}

// sessionPayload mirrors the claims baked into the session JWT: the
// tokenId is the jti, issuedAt the iat, expiresAt the exp. lastSeen is
// server-side only.
func sessionPayload(sess Session) map[string]any {
	return map[string]any{
		"tokenId":   sess.ID,
		"issuer":    tokenIssuer,
		"issuedAt":  sess.CreatedAt.Format(time.RFC3339),
		"expiresAt": sess.ExpiresAt.Format(time.RFC3339),
		"lastSeen":  sess.LastSeen.Format(time.RFC3339),
	}
}

// POST /api/auth/request-otp
func (h *Handler) RequestOTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var in struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}

	exp, code, err := h.service.RequestOTP(in.Email, time.Now())
	if err != nil {
		if status := statusForAuthErr(err); status < http.StatusInternalServerError {
			writeErr(w, status, err.Error())
		} else {
			writeErr(w, http.StatusInternalServerError, "could not request otp")
		}
		return
	}

	// No mail transport wired up; the code goes to the server log.
	h.service.logger.Printf("[auth] OTP code for %s is %s (expires %s)", in.Email, code, exp.Format(time.RFC3339))

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":        true,
		"expiresAt": exp.Format(time.RFC3339),
	})
}

// POST /api/auth/verify-otp
func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var in struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}

	u, token, exp, err := h.service.VerifyOTP(in.Email, in.Code, time.Now())
	if err != nil {
		if status := statusForAuthErr(err); status < http.StatusInternalServerError {
			writeErr(w, status, err.Error())
		} else {
			writeErr(w, http.StatusInternalServerError, "could not verify otp")
		}
		return
	}

	h.service.SetSessionCookie(w, r, token, exp)

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":        true,
		"user":      userPayload(u),
		"expiresAt": exp.Format(time.RFC3339),
	})
}

// GET /api/auth/session
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	u, sess, ok := h.service.AuthenticateRequest(r, time.Now())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"user":    userPayload(u),
		"session": sessionPayload(sess),
	})
}

// POST /api/auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	h.service.RevokeSessionForRequest(r, time.Now())
	h.service.ClearSessionCookie(w, r)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
