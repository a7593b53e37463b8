package handler

import (
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/contactsmgr/contacts/internal/handler/dto"
	"github.com/contactsmgr/contacts/internal/middleware"
	"github.com/contactsmgr/contacts/internal/model"
	"github.com/contactsmgr/contacts/internal/service"
)

// CookieConfig controls the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
}

// AccountHandler handles registration, login and logout.
type AccountHandler struct {
	svc    *service.AccountsService
	cookie CookieConfig
	logger *slog.Logger
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(svc *service.AccountsService, cookie CookieConfig, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		svc:    svc,
		cookie: cookie,
		logger: logger,
	}
}

// RegisterForm handles GET /Account/Register.
func (h *AccountHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, registerView(nil, nil))
}

// Register handles POST /Account/Register.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	req, bindErrs, err := bindRegister(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}
	if len(bindErrs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, registerView(req, bindErrs))
		return
	}

	session, err := h.svc.Register(r.Context(), req)
	if err != nil {
		if errs, ok := formErrors(err); ok {
			writeJSON(w, http.StatusUnprocessableEntity, registerView(req, errs))
			return
		}
		handleServiceError(w, h.logger, err)
		return
	}

	h.setSessionCookie(w, session)
	redirect(w, r, personsIndexPath)
}

// LoginForm handles GET /Account/Login.
func (h *AccountHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.LoginFormView{
		ReturnURL: localReturnURL(r.URL.Query().Get(middleware.ReturnURLParam)),
	})
}

// Login handles POST /Account/Login. ReturnUrl is followed only when it
// points inside this site.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := bindLogin(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}
	rawReturn := r.URL.Query().Get(middleware.ReturnURLParam)
	if rawReturn == "" && !isJSON(r) {
		rawReturn = r.PostFormValue(middleware.ReturnURLParam)
	}
	returnURL := localReturnURL(rawReturn)

	session, err := h.svc.Login(r.Context(), req, clientIP(r))
	if err != nil {
		view := dto.LoginFormView{Email: req.Email, ReturnURL: returnURL}
		if errs, ok := formErrors(err); ok {
			view.Errors = errs
			writeJSON(w, http.StatusUnprocessableEntity, view)
			return
		}
		if errors.Is(err, service.ErrInvalidCredentials) {
			view.Errors = []dto.FormError{{Message: "Invalid Email or Password"}}
			writeJSON(w, http.StatusUnprocessableEntity, view)
			return
		}
		handleServiceError(w, h.logger, err)
		return
	}

	h.setSessionCookie(w, session)
	if returnURL != "" {
		redirect(w, r, returnURL)
		return
	}
	redirect(w, r, personsIndexPath)
}

// Logout handles GET /Account/Logout.
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.cookie.Name); err == nil {
		if err := h.svc.Logout(r.Context(), cookie.Value); err != nil {
			h.logger.Warn("failed to drop session", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	redirect(w, r, personsIndexPath)
}

// IsEmailAlreadyRegistered handles GET /Account/IsEmailAlreadyRegistered?Email=.
// Despite the name it answers true when the email is still free, which is
// what remote form validation expects.
func (h *AccountHandler) IsEmailAlreadyRegistered(w http.ResponseWriter, r *http.Request) {
	available, err := h.svc.IsEmailAvailable(r.Context(), r.URL.Query().Get("Email"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, available)
}

func (h *AccountHandler) setSessionCookie(w http.ResponseWriter, session *model.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(time.Until(session.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func registerView(req *model.RegisterRequest, errs []dto.FormError) dto.RegisterFormView {
	view := dto.RegisterFormView{
		UserType: model.RoleUser,
		UserTypes: []dto.SelectOption{
			{Text: model.RoleUser, Value: model.RoleUser},
			{Text: model.RoleAdmin, Value: model.RoleAdmin},
		},
		Errors: errs,
	}
	if req != nil {
		view.PersonName = req.PersonName
		view.Email = req.Email
		view.Phone = req.Phone
		if req.UserType != "" {
			view.UserType = req.UserType
		}
	}
	return view
}

func localReturnURL(raw string) string {
	if middleware.IsLocalURL(raw) {
		return raw
	}
	return ""
}

// clientIP returns the host part of RemoteAddr. chi's RealIP middleware
// has already applied X-Forwarded-For when the router uses it.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
