package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/hexmines/internal/config"
	"github.com/vancomm/hexmines/internal/mines"
	"github.com/vancomm/hexmines/internal/repository"
)

var ErrRecordsDisabled = errors.New("records are disabled: no database configured")

type RecordStore interface {
	GetRecords(ctx context.Context, filter repository.RecordFilter) ([]repository.GameRecord, error)
	GetRecord(ctx context.Context, sessionId string) (*repository.GameRecord, error)
}

type RecordsHandler struct {
	log      *logrus.Logger
	repo     RecordStore
	defaults config.Game
}

// NewRecordsHandler serves finished games from repo. A nil repo answers
// every request with 503.
func NewRecordsHandler(log *logrus.Logger, repo RecordStore, defaults config.Game) *RecordsHandler {
	return &RecordsHandler{log: log, repo: repo, defaults: defaults}
}

func (dto RecordsDTO) Filter(defaults config.Game) (repository.RecordFilter, error) {
	filter := repository.RecordFilter{Limit: dto.Limit}

	switch dto.Status {
	case "all":
	case "":
		won := mines.Won
		filter.Status = &won
	default:
		status, err := mines.ParseGameStatus(dto.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	if dto.NewGameDTO == (NewGameDTO{}) {
		return filter, nil
	}
	params, err := dto.NewGameDTO.Params(defaults)
	if err != nil {
		return filter, err
	}
	filter.Params = &params
	return filter, nil
}

func (h RecordsHandler) available(w http.ResponseWriter) bool {
	if h.repo == nil {
		sendErrorOrLog(w, h.log, http.StatusServiceUnavailable, ErrRecordsDisabled)
		return false
	}
	return true
}

func (h RecordsHandler) List(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	dto, err := ParseRecordsDTO(r.URL.Query())
	if err != nil {
		sendErrorOrLog(w, h.log, http.StatusBadRequest, err)
		return
	}
	filter, err := dto.Filter(h.defaults)
	if err != nil {
		sendErrorOrLog(w, h.log, http.StatusBadRequest, err)
		return
	}

	records, err := h.repo.GetRecords(r.Context(), filter)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.WithError(err).Error("unable to fetch records")
		return
	}
	sendJSONOrLog(w, h.log, http.StatusOK, records)
}

func (h RecordsHandler) fetch(w http.ResponseWriter, r *http.Request) (*repository.GameRecord, bool) {
	if !h.available(w) {
		return nil, false
	}
	record, err := h.repo.GetRecord(r.Context(), r.PathValue("id"))
	if errors.Is(err, repository.ErrRecordNotFound) {
		sendErrorOrLog(w, h.log, http.StatusNotFound, err)
		return nil, false
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.WithError(err).Error("unable to fetch record")
		return nil, false
	}
	return record, true
}

func (h RecordsHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	if record, ok := h.fetch(w, r); ok {
		sendJSONOrLog(w, h.log, http.StatusOK, record)
	}
}

func (h RecordsHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	if record, ok := h.fetch(w, r); ok {
		sendSnapshotOrLog(w, h.log, &mines.BoardSnapshot{Seed: record.Seed, Board: record.Board})
	}
}
