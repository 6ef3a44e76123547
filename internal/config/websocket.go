package config

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"
)

const defaultTick = time.Second

type WebSocket struct {
	Upgrader websocket.Upgrader
	// Tick is the interval of elapsed time pushes to a live game.
	Tick time.Duration
}

func NewWebSocket() (*WebSocket, error) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	tick := defaultTick
	if tickStr, ok := os.LookupEnv("WS_TICK"); ok {
		var err error
		if tick, err = time.ParseDuration(tickStr); err != nil {
			return nil, fmt.Errorf("unable to parse WS_TICK: %w", err)
		}
		if tick <= 0 {
			return nil, fmt.Errorf("WS_TICK must be positive, got %s", tick)
		}
	}

	ws := &WebSocket{
		Upgrader: upgrader,
		Tick:     tick,
	}

	return ws, nil
}
