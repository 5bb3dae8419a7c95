package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestSessionEndpointMirrorsTokenClaims(t *testing.T) {
	svc := newTestService(t)
	h := NewHandler(svc)

	_, code, err := svc.RequestOTP("alice@example.com", time.Now())
	if err != nil {
		t.Fatalf("RequestOTP: %v", err)
	}

	verifyReq := httptest.NewRequest(http.MethodPost, "/api/auth/verify-otp",
		strings.NewReader(`{"email":"alice@example.com","code":"`+code+`"}`))
	verifyRec := httptest.NewRecorder()
	h.VerifyOTP(verifyRec, verifyReq)
	if verifyRec.Code != http.StatusOK {
		t.Fatalf("verify status = %d, body %s", verifyRec.Code, verifyRec.Body)
	}
	cookies := verifyRec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("verify-otp set no session cookie")
	}

	sessionReq := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	for _, c := range cookies {
		sessionReq.AddCookie(c)
	}
	sessionRec := httptest.NewRecorder()
	h.Session(sessionRec, sessionReq)
	if sessionRec.Code != http.StatusOK {
		t.Fatalf("session status = %d, body %s", sessionRec.Code, sessionRec.Body)
	}

	body := decodeBody(t, sessionRec)
	sess, ok := body["session"].(map[string]any)
	if !ok {
		t.Fatalf("no session object in %v", body)
	}
	if sess["issuer"] != tokenIssuer {
		t.Fatalf("issuer = %v, want %q", sess["issuer"], tokenIssuer)
	}

	// The advertised tokenId must be the jti of the cookie's JWT, so a
	// client can correlate its session with server-side records.
	_, serverSess, authOK := svc.AuthenticateRequest(sessionReq, time.Now())
	if !authOK {
		t.Fatal("AuthenticateRequest rejected the issued cookie")
	}
	if sess["tokenId"] != serverSess.ID {
		t.Fatalf("tokenId = %v, want %q", sess["tokenId"], serverSess.ID)
	}
	if _, err := time.Parse(time.RFC3339, sess["issuedAt"].(string)); err != nil {
		t.Fatalf("issuedAt not RFC3339: %v", err)
	}
}

func TestSessionEndpointRejectsMissingCookie(t *testing.T) {
	h := NewHandler(newTestService(t))

	rec := httptest.NewRecorder()
	h.Session(rec, httptest.NewRequest(http.MethodGet, "/api/auth/session", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["ok"] != false {
		t.Fatalf("ok = %v, want false", body["ok"])
	}
}

func TestChallengeLifecycleHelpers(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	ch := OTPChallenge{ExpiresAt: now.Add(10 * time.Minute), Attempts: 4}

	if ch.Expired(now) {
		t.Fatal("challenge expired before its deadline")
	}
	if !ch.Expired(now.Add(11 * time.Minute)) {
		t.Fatal("challenge not expired after its deadline")
	}
	if ch.Locked(5) {
		t.Fatal("challenge locked below the attempt cap")
	}
	ch.Attempts++
	if !ch.Locked(5) {
		t.Fatal("challenge not locked at the attempt cap")
	}

	sess := Session{ExpiresAt: now.Add(time.Hour)}
	if sess.Expired(now) || !sess.Expired(now.Add(2*time.Hour)) {
		t.Fatal("session expiry does not track its deadline")
	}
}
