package api

import (
	"net/http"

	"github.com/mergington/signup/pkg/logger"
)

// ActivitiesHandler serves the activity listing and registration routes.
type ActivitiesHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewActivitiesHandler creates a new activities handler.
func NewActivitiesHandler(deps Dependencies, log logger.Logger) *ActivitiesHandler {
	if log == nil {
		log = logger.Get().Named("api")
	}
	return &ActivitiesHandler{deps: deps, logger: log}
}

// HandleList handles GET /activities.
func (h *ActivitiesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_activities"

	catalog, err := h.deps.Activities(r.Context())
	if err != nil {
		h.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, catalog)
}

// HandleSignup handles POST /activities/{name}/signup?email=.
func (h *ActivitiesHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	const op = "api.signup"

	name, email, err := registrationParams(r)
	if err != nil {
		h.fail(w, r, WrapKind(op, ErrMissingEmail, err))
		return
	}
	msg, err := h.deps.Signup(r.Context(), name, email)
	if err != nil {
		h.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: msg})
}

// HandleUnregister handles DELETE /activities/{name}/unregister?email=.
func (h *ActivitiesHandler) HandleUnregister(w http.ResponseWriter, r *http.Request) {
	const op = "api.unregister"

	name, email, err := registrationParams(r)
	if err != nil {
		h.fail(w, r, WrapKind(op, ErrMissingEmail, err))
		return
	}
	msg, err := h.deps.Unregister(r.Context(), name, email)
	if err != nil {
		h.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: msg})
}

// registrationParams returns the decoded activity name and email.
// PathValue and Query both percent-decode.
func registrationParams(r *http.Request) (name, email string, err error) {
	name = r.PathValue("name")
	query := r.URL.Query()
	if !query.Has("email") {
		return name, "", ErrMissingEmail
	}
	return name, query.Get("email"), nil
}

func (h *ActivitiesHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := writeError(w, err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed",
			logger.String("request_id", RequestIDFromContext(r.Context())),
			logger.Error(err),
		)
		return
	}
	h.logger.Debug(r.Context(), "request rejected",
		logger.String("request_id", RequestIDFromContext(r.Context())),
		logger.Int("status", status),
		logger.Error(err),
	)
}
