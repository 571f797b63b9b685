package controllers

import (
	"net/http"
	"strings"

	"github.com/melodex/melodex-backend/api/responses"
	"github.com/melodex/melodex-backend/api/validators"
	"github.com/melodex/melodex-backend/internal/recommend"
	pkgerrors "github.com/melodex/melodex-backend/pkg/errors"
	"github.com/melodex/melodex-backend/pkg/enums"
	"github.com/melodex/melodex-backend/pkg/logger"
)

type recommendPayload struct {
	Prompt string `json:"prompt" validate:"required,min=1,max=500"`
	Type   string `json:"type" validate:"required,oneof=track album artist"`
}

// AIRecommend turns a free-form prompt into enriched catalog picks of one type.
func AIRecommend(svc recommend.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "recommendation service unavailable"))
			return
		}

		var payload recommendPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		favoriteType, err := enums.ParseFavoriteType(payload.Type)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid favorite type"))
			return
		}

		picks, err := svc.Recommend(ctx, validators.SanitizeString(payload.Prompt, 500), favoriteType)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, picks)
	}
}

// AIHome produces the mixed home-screen picks for a seed phrase.
func AIHome(svc recommend.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "recommendation service unavailable"))
			return
		}

		seed := strings.TrimSpace(r.URL.Query().Get("seed"))
		if seed == "" {
			seed = "surprise me with a fresh mix"
		}

		picks, err := svc.HomePicks(ctx, validators.SanitizeString(seed, 200))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, picks)
	}
}
