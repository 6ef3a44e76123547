package app

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/hexmines/internal/mines"
	"github.com/vancomm/hexmines/internal/repository"
)

const recordTimeout = 5 * time.Second

type recordCreator interface {
	CreateRecord(ctx context.Context, params repository.CreateRecordParams) (*repository.GameRecord, error)
}

// recordEnded returns a session hook that stores won and lost games. The
// game is read while its session is locked; the insert runs in the
// background.
func (a *App) recordEnded(repo recordCreator) func(uuid.UUID, *mines.Game) {
	return func(id uuid.UUID, g *mines.Game) {
		if status := g.Status(); status != mines.Won && status != mines.Lost {
			return
		}
		params := repository.NewCreateRecordParams(id.String(), g)

		a.pending.Add(1)
		go func() {
			defer a.pending.Done()
			ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
			defer cancel()

			log := a.log.WithFields(logrus.Fields{
				"session": id,
				"status":  params.Status,
			})
			_, err := repo.CreateRecord(ctx, params)
			switch {
			case errors.Is(err, repository.ErrDuplicateRecord):
				log.Warn("game already recorded")
			case err != nil:
				log.WithError(err).Error("unable to record game")
			default:
				log.Debug("recorded game")
			}
		}()
	}
}
