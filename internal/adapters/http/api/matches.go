package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	service "github.com/okian/foundermatch/internal/app"
	"github.com/okian/foundermatch/internal/domain/features"
	"github.com/okian/foundermatch/internal/domain/model"
	"github.com/okian/foundermatch/internal/domain/similarity"
)

// MatchDependencies defines the interface for similarity searches.
type MatchDependencies interface {
	QueryDefaults() (weight, neighbors int)
	Profile(ctx context.Context, name string) (model.SavedProfile, error)
	FindMatches(ctx context.Context, q model.QueryProfile) (service.MatchOutcome, error)
	Match(ctx context.Context, q model.QueryProfile) (service.MatchOutcome, error)
	MatchStored(ctx context.Context, name string) (service.MatchOutcome, error)
}

// MatchesHandler handles match requests.
type MatchesHandler struct {
	deps MatchDependencies
}

// NewMatchesHandler creates a new matches handler.
func NewMatchesHandler(deps MatchDependencies) *MatchesHandler {
	return &MatchesHandler{deps: deps}
}

// HandleMatch handles POST /matches: an ad-hoc search that is not saved.
func (h *MatchesHandler) HandleMatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_matches"

	req, ok, err := decodeProfileRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	out, err := h.deps.FindMatches(r.Context(), req.toQuery(h.deps.QueryDefaults()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.respond(w, r, out)
}

// HandleMatchStored handles POST /profiles/{name}/matches. Without a body the
// saved inputs are reused; fields present in the body override them. The
// new matches replace the saved ones.
func (h *MatchesHandler) HandleMatchStored(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_profile_matches"
	name := chi.URLParam(r, "name")

	req, ok, err := decodeProfileRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	var out service.MatchOutcome
	if !ok {
		out, err = h.deps.MatchStored(r.Context(), name)
	} else {
		var p model.SavedProfile
		if p, err = h.deps.Profile(r.Context(), name); err == nil {
			q := req.overlay(p.QueryProfile)
			q.Name = name
			out, err = h.deps.Match(r.Context(), q)
		}
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.respond(w, r, out)
}

func (h *MatchesHandler) respond(w http.ResponseWriter, r *http.Request, out service.MatchOutcome) {
	if !wantsText(r) {
		writeJSON(w, http.StatusOK, out)
		return
	}
	grad, created, _ := out.Profile.Years()
	q := similarity.Query{
		Vector:       features.QueryVector(out.Profile.DegreeType, grad, created),
		DegreeWeight: out.Profile.DegreeWeight(),
		K:            out.Profile.NumNeighbors,
	}
	writeText(w, http.StatusOK, similarity.RenderText(out.Profile.DegreeType, q, out.Matches))
}
