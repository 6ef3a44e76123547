package app

import (
	"github.com/vancomm/hexmines/internal/config"
	"github.com/vancomm/hexmines/internal/handlers"
)

func (a *App) loadRoutes(defaults config.Game, ws *config.WebSocket, records handlers.RecordStore) {
	game := handlers.NewGameHandler(a.log, a.sessions, defaults, ws)

	a.router.HandleFunc("POST /game", game.NewGame)
	a.router.HandleFunc("GET /game/{id}", game.Fetch)
	a.router.HandleFunc("DELETE /game/{id}", game.Delete)
	a.router.HandleFunc("POST /game/{id}/action", game.Action)
	a.router.HandleFunc("POST /game/{id}/pause", game.Pause())
	a.router.HandleFunc("POST /game/{id}/resume", game.Resume())
	a.router.HandleFunc("POST /game/{id}/forfeit", game.Forfeit())
	a.router.HandleFunc("GET /game/{id}/snapshot", game.Snapshot)
	a.router.HandleFunc("/game/{id}/connect", game.Connect)

	rec := handlers.NewRecordsHandler(a.log, records, defaults)

	a.router.HandleFunc("GET /records", rec.List)
	a.router.HandleFunc("GET /records/{id}", rec.Fetch)
	a.router.HandleFunc("GET /records/{id}/snapshot", rec.Snapshot)
}
