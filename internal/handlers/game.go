package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/hexmines/internal/config"
	"github.com/vancomm/hexmines/internal/mines"
	"github.com/vancomm/hexmines/internal/sessions"
)

var (
	ErrBadSessionId = errors.New("malformed game session id")
	ErrGameNotOver  = errors.New("the board is only shown once the game is over")
)

type GameHandler struct {
	log      *logrus.Logger
	sessions *sessions.Registry
	defaults config.Game
	ws       *config.WebSocket
}

func NewGameHandler(
	log *logrus.Logger,
	registry *sessions.Registry,
	defaults config.Game,
	ws *config.WebSocket,
) *GameHandler {
	handler := &GameHandler{
		log:      log,
		sessions: registry,
		defaults: defaults,
		ws:       ws,
	}

	return handler
}

func (h GameHandler) sessionId(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		sendErrorOrLog(w, h.log, http.StatusBadRequest, ErrBadSessionId)
		return id, false
	}
	return id, true
}

// sendResult writes the outcome of a registry call.
func (h GameHandler) sendResult(w http.ResponseWriter, err error, v any) {
	switch {
	case err == nil:
		sendJSONOrLog(w, h.log, http.StatusOK, v)
	case errors.Is(err, sessions.ErrNotFound):
		sendErrorOrLog(w, h.log, http.StatusNotFound, err)
	case badRequest(err):
		sendErrorOrLog(w, h.log, http.StatusBadRequest, err)
	default:
		h.log.WithError(err).Error("unable to handle game request")
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (h GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		sendErrorOrLog(w, h.log, http.StatusBadRequest, err)
		return
	}

	dto, err := ParseNewGameDTO(r.Form)
	if err != nil {
		sendErrorOrLog(w, h.log, http.StatusBadRequest, err)
		return
	}

	params, err := dto.Params(h.defaults)
	if err != nil {
		sendErrorOrLog(w, h.log, http.StatusBadRequest, err)
		return
	}

	session, err := h.sessions.Create(params)
	if err != nil {
		h.sendResult(w, err, nil)
		return
	}

	var view mines.GameView
	session.Do(func(g *mines.Game) error {
		g.DrainChanged()
		view = g.View()
		return nil
	})
	sendJSONOrLog(w, h.log, http.StatusCreated, NewGameSessionDTO(session.ID, nil, view))
}

func (h GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionId(w, r)
	if !ok {
		return
	}

	var dto *GameSessionDTO
	err := h.sessions.Do(id, func(g *mines.Game) error {
		dto = NewGameSessionDTO(id, nil, g.View())
		return nil
	})
	h.sendResult(w, err, dto)
}

func (h GameHandler) execute(id uuid.UUID, cmd command) (*GameSessionDTO, error) {
	var dto *GameSessionDTO
	err := h.sessions.Do(id, func(g *mines.Game) error {
		accepted, err := cmd.apply(g)
		if err != nil {
			return err
		}
		dto = NewGameSessionDTO(id, &accepted, cmd.reply(g))
		return nil
	})
	return dto, err
}

func (h GameHandler) Action(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionId(w, r)
	if !ok {
		return
	}

	dto, err := ParseActionDTO(r.URL.Query())
	if err != nil {
		sendErrorOrLog(w, h.log, http.StatusBadRequest, err)
		return
	}

	res, err := h.execute(id, actionCommand(dto))
	h.sendResult(w, err, res)
}

func (h GameHandler) command(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.sessionId(w, r)
		if !ok {
			return
		}
		res, err := h.execute(id, command{name: name})
		h.sendResult(w, err, res)
	}
}

func (h GameHandler) Pause() http.HandlerFunc   { return h.command("p") }
func (h GameHandler) Resume() http.HandlerFunc  { return h.command("r") }
func (h GameHandler) Forfeit() http.HandlerFunc { return h.command("q") }

func (h GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionId(w, r)
	if !ok {
		return
	}
	if err := h.sessions.Delete(id); err != nil {
		h.sendResult(w, err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Snapshot returns the board of an ended game as YAML.
func (h GameHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionId(w, r)
	if !ok {
		return
	}

	var snapshot *mines.BoardSnapshot
	err := h.sessions.Do(id, func(g *mines.Game) error {
		if !g.Status().Ended() {
			return ErrGameNotOver
		}
		snapshot = g.Snapshot()
		return nil
	})
	if errors.Is(err, ErrGameNotOver) {
		sendErrorOrLog(w, h.log, http.StatusConflict, err)
		return
	}
	if err != nil {
		h.sendResult(w, err, nil)
		return
	}
	sendSnapshotOrLog(w, h.log, snapshot)
}

func sendSnapshotOrLog(w http.ResponseWriter, log logrus.FieldLogger, snapshot *mines.BoardSnapshot) {
	out, err := snapshot.Serialize()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.WithError(err).Error("unable to serialize snapshot")
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.Write([]byte(out))
}
