package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/pickemgo/pickem-backend/internal/draft"
	"github.com/pickemgo/pickem-backend/internal/hub"
	"github.com/pickemgo/pickem-backend/internal/ws"
)

func SetupRoutes(h *hub.Hub, svc *draft.Service, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", Healthz)
	r.Get("/standings", Standings(svc, log))

	r.Route("/weeks/{week}", func(r chi.Router) {
		r.Get("/draft", GetDraft(svc, log))
		r.Get("/games", ListGames(svc, log))
		r.Get("/picks", ListPicks(svc, log))
		r.Post("/picks", SubmitPick(svc, log))
		r.Get("/scores", WeekScores(svc, log))
		r.Post("/grade", GradeWeek(svc, log))
	})

	r.Get("/ws", ws.Handler(h, svc, log))
	return r
}
