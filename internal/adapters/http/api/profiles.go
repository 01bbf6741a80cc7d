package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/foundermatch/internal/domain/model"
)

// ProfileDependencies defines the interface for saved profile operations.
type ProfileDependencies interface {
	QueryDefaults() (weight, neighbors int)
	ProfileSummaries(ctx context.Context) ([]model.ProfileSummary, error)
	Profile(ctx context.Context, name string) (model.SavedProfile, error)
	SaveProfile(ctx context.Context, q model.QueryProfile) (model.SavedProfile, error)
}

// ProfilesHandler handles saved profile requests.
type ProfilesHandler struct {
	deps ProfileDependencies
}

// NewProfilesHandler creates a new profiles handler.
func NewProfilesHandler(deps ProfileDependencies) *ProfilesHandler {
	return &ProfilesHandler{deps: deps}
}

type profileListResponse struct {
	Profiles []profileListItem `json:"profiles"`
}

type profileListItem struct {
	model.ProfileSummary
	Label string `json:"label"`
}

// HandleList handles GET /profiles.
func (h *ProfilesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	sums, err := h.deps.ProfileSummaries(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := profileListResponse{Profiles: make([]profileListItem, 0, len(sums))}
	for _, s := range sums {
		resp.Profiles = append(resp.Profiles, profileListItem{ProfileSummary: s, Label: s.String()})
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleGet handles GET /profiles/{name}.
func (h *ProfilesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.deps.Profile(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandlePut handles PUT /profiles/{name}. The path name wins over a name in
// the body.
func (h *ProfilesHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_profile"

	req, ok, err := decodeProfileRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	q := req.toQuery(h.deps.QueryDefaults())
	q.Name = chi.URLParam(r, "name")
	p, err := h.deps.SaveProfile(r.Context(), q)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
