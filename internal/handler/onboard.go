package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/csight/reportd/internal/onboard"
)

// OnboardHandler activates optional features for callers that present the
// feature's onboarding key.
type OnboardHandler struct {
	BaseHandler
	keys *onboard.Keyring
}

func NewOnboardHandler(logger *slog.Logger, keys *onboard.Keyring) *OnboardHandler {
	return &OnboardHandler{BaseHandler: BaseHandler{Logger: logger}, keys: keys}
}

// Activate checks the key fields of the request body against the keyring.
func (h *OnboardHandler) Activate(w http.ResponseWriter, r *http.Request) {
	var req onboard.Request
	if err := h.readJSON(w, r, &req); err != nil {
		h.onboardResponse(w, r, http.StatusBadRequest, "error", err.Error(), envelope{})
		return
	}

	feature, err := h.keys.Check(req)
	switch {
	case err == nil:
		h.Logger.Info("onboard: feature enabled", "feature", feature)
		h.onboardResponse(w, r, http.StatusOK, "success", feature.DisplayName()+" enabled for onboard",
			envelope{"msg": "Enable for onboarding"})
	case errors.Is(err, onboard.ErrNoKey):
		h.onboardResponse(w, r, http.StatusBadRequest, "error", "No onboarding key supplied",
			envelope{"msg": "App does not exist"})
	case errors.Is(err, onboard.ErrKeyMismatch):
		h.Logger.Warn("onboard: key mismatch", "remote_addr", r.RemoteAddr)
		h.onboardResponse(w, r, http.StatusForbidden, "error", "Does not exist",
			envelope{"msg": "App does not exist"})
	default:
		h.serverErrorResponse(w, r, err)
	}
}

func (h *OnboardHandler) onboardResponse(w http.ResponseWriter, r *http.Request, status int, result, message string, data envelope) {
	env := envelope{"status": result, "message": message, "data": data}
	if err := h.writeJSON(w, status, env, nil); err != nil {
		h.logError(r, err)
	}
}
