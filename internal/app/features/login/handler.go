// internal/app/features/login/handler.go
package login

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/vocabhub/internal/app/features/errors"
	"github.com/dalemusser/vocabhub/internal/app/features/shell"
	userstore "github.com/dalemusser/vocabhub/internal/app/store/users"
	"github.com/dalemusser/vocabhub/internal/app/system/auditlog"
	"github.com/dalemusser/vocabhub/internal/app/system/auth"
	"github.com/dalemusser/vocabhub/internal/app/system/normalize"
	"github.com/dalemusser/vocabhub/internal/app/system/ratelimit"
	"github.com/dalemusser/vocabhub/internal/app/system/timeouts"
	"github.com/dalemusser/vocabhub/internal/app/system/viewdata"
	"github.com/dalemusser/vocabhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// stateCookie carries the OAuth state across the Google round trip,
// signed so it cannot be forged.
const stateCookie = "vocabhub-oauth-state"

// Handler owns the sign-in page and the Google OAuth flow.
type Handler struct {
	Users      *userstore.Store
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Shell      *shell.Handler
	Codec      *securecookie.SecureCookie
	Limiter    *ratelimit.SignInLimiter
	Log        *zap.Logger

	ClientID     string
	ClientSecret string
	RedirectURL  string
}

func NewHandler(
	users *userstore.Store,
	sessionMgr *auth.SessionManager,
	errLog *uierrors.ErrorLogger,
	audit *auditlog.Logger,
	sh *shell.Handler,
	codec *securecookie.SecureCookie,
	limiter *ratelimit.SignInLimiter,
	clientID, clientSecret, baseURL string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Users:        users,
		SessionMgr:   sessionMgr,
		ErrLog:       errLog,
		AuditLog:     audit,
		Shell:        sh,
		Codec:        codec,
		Limiter:      limiter,
		Log:          logger,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  baseURL + "/auth/google/callback",
	}
}

func (h *Handler) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.ClientID,
		ClientSecret: h.ClientSecret,
		RedirectURL:  h.RedirectURL,
		Scopes: []string{
			"openid",
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

// IsConfigured reports whether Google OAuth credentials are present.
func (h *Handler) IsConfigured() bool {
	return h.ClientID != "" && h.ClientSecret != ""
}

type loginPageData struct {
	viewdata.BaseVM
	Error         string
	ReturnTo      string
	GoogleEnabled bool
}

// errorMessages maps ?error codes to user-facing text.
var errorMessages = map[string]string{
	"google_denied":         "Google sign-in was cancelled.",
	"google_not_configured": "Google sign-in is not available right now.",
	"invalid_state":         "The sign-in link expired. Please try again.",
	"token_exchange":        "We couldn't complete sign-in with Google. Please try again.",
	"user_info":             "We couldn't complete sign-in with Google. Please try again.",
	"account_disabled":      "Your account has been disabled. Contact an administrator.",
	"session":               "We couldn't start your session. Please try again.",
	"internal":              "Something went wrong. Please try again.",
}

// ServeLoginPage renders the sign-in page.
func (h *Handler) ServeLoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	data := loginPageData{
		BaseVM:        viewdata.NewBaseVM(r, "Sign In", "/"),
		Error:         errorMessages[r.URL.Query().Get("error")],
		ReturnTo:      r.URL.Query().Get("return"),
		GoogleEnabled: h.IsConfigured(),
	}
	templates.Render(w, r, "login_page", data)
}

// ServeGoogleStart begins the OAuth flow: signs a fresh state value into
// a cookie, remembers the requested return view, and bounces to Google.
func (h *Handler) ServeGoogleStart(w http.ResponseWriter, r *http.Request) {
	if !h.IsConfigured() {
		h.Log.Warn("google oauth not configured")
		http.Redirect(w, r, "/login?error=google_not_configured", http.StatusSeeOther)
		return
	}

	state, err := generateState()
	if err != nil {
		h.Log.Error("generate oauth state failed", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}

	encoded, err := h.Codec.Encode(stateCookie, state)
	if err != nil {
		h.Log.Error("encode oauth state failed", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    encoded,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	if ret := r.URL.Query().Get("return"); ret != "" {
		h.Shell.RememberReturnTarget(w, ret)
	}

	http.Redirect(w, r, h.oauth2Config().AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// ServeGoogleCallback finishes the OAuth flow: validates state, exchanges
// the code, fetches the Google profile, and signs the user in. First-time
// visitors get an account created on the spot.
func (h *Handler) ServeGoogleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.Log.Warn("google oauth error",
			zap.String("error", errParam),
			zap.String("description", r.URL.Query().Get("error_description")))
		http.Redirect(w, r, "/login?error=google_denied", http.StatusSeeOther)
		return
	}

	if !h.validState(w, r) {
		http.Redirect(w, r, "/login?error=invalid_state", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Redirect(w, r, "/login?error=invalid_state", http.StatusSeeOther)
		return
	}

	token, err := h.oauth2Config().Exchange(ctx, code)
	if err != nil {
		h.Log.Error("oauth code exchange failed", zap.Error(err))
		http.Redirect(w, r, "/login?error=token_exchange", http.StatusSeeOther)
		return
	}

	info, err := fetchGoogleUserInfo(ctx, token)
	if err != nil {
		h.Log.Error("fetch google user info failed", zap.Error(err))
		http.Redirect(w, r, "/login?error=user_info", http.StatusSeeOther)
		return
	}

	dbCtx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	u, err := h.findOrCreateUser(dbCtx, info)
	if err != nil {
		if errors.Is(err, errUserDisabled) {
			h.AuditLog.LoginFailedUserDisabled(ctx, u.ID, u.Email)
			http.Redirect(w, r, "/login?error=account_disabled", http.StatusSeeOther)
			return
		}
		h.Log.Error("user lookup during login failed", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}

	su := &auth.SessionUser{
		ID:    u.ID.Hex(),
		Name:  u.DisplayName,
		Email: u.Email,
		Role:  u.Role,
	}
	if err := h.SessionMgr.SignIn(w, r, su); err != nil {
		h.Log.Error("save session failed", zap.Error(err),
			zap.String("user_id", u.ID.Hex()))
		http.Redirect(w, r, "/login?error=session", http.StatusSeeOther)
		return
	}

	if h.Limiter != nil {
		h.Limiter.ResetClient(r)
	}
	h.AuditLog.LoginSuccess(ctx, u.ID, u.Email)
	h.Log.Info("user signed in",
		zap.String("user_id", u.ID.Hex()),
		zap.String("email", u.Email))

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

var errUserDisabled = errors.New("user disabled")

// findOrCreateUser resolves the Google profile to a local account,
// creating one on first sign-in. Disabled accounts never sign in.
func (h *Handler) findOrCreateUser(ctx context.Context, info *googleUserInfo) (*models.User, error) {
	email := normalize.Email(info.Email)
	if email == "" {
		return nil, fmt.Errorf("google profile has no email")
	}

	u, err := h.Users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if !u.IsActive() {
			return u, errUserDisabled
		}
		return u, nil
	case errors.Is(err, userstore.ErrNotFound):
		created, err := h.Users.Create(ctx, models.User{
			Email:         email,
			DisplayName:   normalize.Name(info.Name),
			Role:          models.RoleUser,
			Status:        models.StatusActive,
			EmailVerified: info.EmailVerified,
		})
		if err != nil {
			if errors.Is(err, userstore.ErrDuplicateEmail) {
				// Lost a create race with a concurrent first login.
				return h.Users.GetByEmail(ctx, email)
			}
			return nil, err
		}
		h.Log.Info("created account on first google sign-in",
			zap.String("user_id", created.ID.Hex()),
			zap.String("email", created.Email))
		return &created, nil
	default:
		return nil, err
	}
}

// validState checks the callback state against the signed cookie and
// clears the cookie either way.
func (h *Handler) validState(w http.ResponseWriter, r *http.Request) bool {
	state := r.URL.Query().Get("state")
	if state == "" {
		return false
	}

	c, err := r.Cookie(stateCookie)
	if err != nil {
		return false
	}
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	var want string
	if err := h.Codec.Decode(stateCookie, c.Value, &want); err != nil {
		h.Log.Warn("decode oauth state cookie failed", zap.Error(err))
		return false
	}
	return state == want
}

type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"verified_email"`
	Name          string `json:"name"`
}

func fetchGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
	client.Timeout = 10 * time.Second

	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo endpoint returned %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}
	return &info, nil
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
