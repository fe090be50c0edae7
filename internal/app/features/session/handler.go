// internal/app/features/session/handler.go
package session

import (
	"errors"
	"net/http"

	apperrors "github.com/automaatje/automaatje/internal/app/features/errors"
	"github.com/automaatje/automaatje/internal/app/system/auth"
	"go.uber.org/zap"
)

// Handler exposes the session cookie. Sign-in is owned by the school's
// identity system in production; the POST route only exists in dev so the
// API can be driven locally.
type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	DevSignIn  bool
}

func NewHandler(sessionMgr *auth.SessionManager, devSignIn bool, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		DevSignIn:  devSignIn,
	}
}

type signInInput struct {
	ID      string `json:"id" validate:"notblank,max=64"`
	Name    string `json:"name" validate:"notblank,max=120"`
	ClassID string `json:"class_id" validate:"notblank,max=64"`
}

// ServeCurrent handles GET /session.
func (h *Handler) ServeCurrent(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		apperrors.JSON(w, http.StatusUnauthorized, apperrors.Body{Error: apperrors.Detail{
			Code: "unauthorized", Message: "sign in required",
		}})
		return
	}
	apperrors.JSON(w, http.StatusOK, map[string]string{
		"id":       u.ID,
		"name":     u.Name,
		"class_id": u.ClassID,
	})
}

// HandleSignIn handles POST /session (dev only).
func (h *Handler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	var in signInInput
	if err := apperrors.Decode(r, &in); err != nil {
		apperrors.Write(w, r, h.Log, err)
		return
	}
	u := auth.SessionUser{ID: in.ID, Name: in.Name, ClassID: in.ClassID}
	if err := h.SessionMgr.SignIn(w, r, u); err != nil {
		h.Log.Error("dev sign-in: save session", zap.Error(err))
		apperrors.Write(w, r, h.Log, err)
		return
	}
	h.Log.Info("dev sign-in", zap.String("user_id", u.ID), zap.String("class_id", u.ClassID))
	w.WriteHeader(http.StatusNoContent)
}

// HandleSignOut handles DELETE /session.
func (h *Handler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.SessionMgr.SignOut(w, r); err != nil && !errors.Is(err, auth.ErrNoUser) {
		// We still answer 204; the cookie is dropped client-side on expiry.
		h.Log.Warn("sign-out: save session", zap.Error(err))
	}
	w.WriteHeader(http.StatusNoContent)
}
