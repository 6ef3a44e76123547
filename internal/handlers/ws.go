package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/hexmines/internal/mines"
	"github.com/vancomm/hexmines/internal/sessions"
)

const writeWait = 10 * time.Second

// Connect upgrades to a websocket that accepts one command per line and
// answers each with a JSON view. While the game runs, the elapsed time is
// pushed on every tick.
func (h GameHandler) Connect(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionId(w, r)
	if !ok {
		return
	}
	if _, ok := h.sessions.Get(id); !ok {
		sendErrorOrLog(w, h.log, http.StatusNotFound, sessions.ErrNotFound)
		return
	}

	c, err := h.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("upgrade")
		return
	}
	defer c.Close()

	log := h.log.WithField("session", id)
	log.Debug("websocket connected")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := make(chan any)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer c.Close()
		return h.writeLoop(gCtx, c, id, out)
	})
	g.Go(func() error {
		defer cancel()
		return h.readLoop(gCtx, c, id, out, log)
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Warn("websocket closed")
		return
	}
	log.Debug("websocket closed")
}

func (h GameHandler) readLoop(
	ctx context.Context,
	c *websocket.Conn,
	id uuid.UUID,
	out chan<- any,
	log logrus.FieldLogger,
) error {
	send := func(v any) bool {
		select {
		case out <- v:
			return true
		case <-ctx.Done():
			return false
		}
	}

	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return err
			}
			return nil
		}
		if mt != websocket.TextMessage {
			return nil
		}

		text := strings.TrimSpace(string(message))
		log.Debug("\t> ", text)
		for _, line := range strings.Split(text, "\n") {
			cmd, err := parseCommand(line)
			if err != nil {
				if !send(wrapError(err)) {
					return nil
				}
				continue
			}
			res, err := h.execute(id, cmd)
			if errors.Is(err, sessions.ErrNotFound) {
				send(wrapError(err))
				return nil
			}
			if err != nil {
				if !send(wrapError(err)) {
					return nil
				}
				continue
			}
			if !send(res) {
				return nil
			}
		}
	}
}

func (h GameHandler) writeLoop(
	ctx context.Context,
	c *websocket.Conn,
	id uuid.UUID,
	out <-chan any,
) error {
	ticker := time.NewTicker(h.ws.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.SetWriteDeadline(time.Now().Add(writeWait))
			c.WriteMessage(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			)
			return nil

		case v := <-out:
			c.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.WriteJSON(v); err != nil {
				return err
			}

		case <-ticker.C:
			// ticks read the game through the session so an open socket
			// alone does not keep the session from being reaped
			s, ok := h.sessions.Get(id)
			if !ok {
				c.SetWriteDeadline(time.Now().Add(writeWait))
				c.WriteMessage(
					websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, sessions.ErrNotFound.Error()),
				)
				return nil
			}
			var tick *TickDTO
			s.Do(func(g *mines.Game) error {
				if g.Status() == mines.InProgress && !g.Paused() {
					tick = &TickDTO{
						SessionId:      id.String(),
						ElapsedSeconds: g.Summary().ElapsedSeconds,
					}
				}
				return nil
			})
			if tick == nil {
				continue
			}
			c.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.WriteJSON(tick); err != nil {
				return err
			}
		}
	}
}
