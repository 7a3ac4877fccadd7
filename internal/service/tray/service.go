package tray

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/hatchery/internal/domain/models"
	"github.com/mamadbah2/hatchery/internal/repository"
	"github.com/mamadbah2/hatchery/internal/repository/sheets"
	"github.com/mamadbah2/hatchery/internal/service/notify"
	"github.com/mamadbah2/hatchery/internal/status"
)

// Service orchestrates tray lifecycle operations against the store and
// triggers notifications on state changes. Notification failures never fail
// the operation that caused them; the store write always wins.
type Service struct {
	store      repository.TrayStore
	dispatcher *notify.Dispatcher
	hatchLog   sheets.HatchLog
	policy     status.DeletePolicy
	logger     *zap.Logger
	now        func() time.Time
}

// NewService wires a new tray service. hatchLog may be nil when the archive
// is not configured.
func NewService(store repository.TrayStore, dispatcher *notify.Dispatcher, hatchLog sheets.HatchLog, policy status.DeletePolicy, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:      store,
		dispatcher: dispatcher,
		hatchLog:   hatchLog,
		policy:     policy,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateInput carries the caller-supplied fields for a new tray.
type CreateInput struct {
	Door      models.Door
	Row       int
	Position  models.Position
	EggType   models.EggType
	AddedDate *time.Time
	Notes     string
}

// UpdateInput carries the mutable tray fields. Nil fields are left untouched.
type UpdateInput struct {
	Notes            *string
	NotificationSent *bool
}

// ClearHistoryResult reports the outcome of a history prune.
type ClearHistoryResult struct {
	Deleted   int           `json:"deleted"`
	Remaining []models.Tray `json:"remaining"`
}

// ListAll returns every tray, most recently added first.
func (s *Service) ListAll(ctx context.Context) ([]models.Tray, error) {
	return s.store.FindMany(ctx, repository.Filter{}, repository.SortAddedDesc)
}

// ListActive returns trays still in the incubator, oldest first so the
// longest-incubating appear at the top.
func (s *Service) ListActive(ctx context.Context) ([]models.Tray, error) {
	return s.store.FindMany(ctx, repository.Filter{Removed: repository.Bool(false)}, repository.SortAddedAsc)
}

// ListAwaitingNotification returns active trays whose overdue alert has not
// been sent yet and whose incubation period has elapsed.
func (s *Service) ListAwaitingNotification(ctx context.Context, now time.Time) ([]models.Tray, error) {
	candidates, err := s.store.FindMany(ctx, repository.Filter{
		Removed:          repository.Bool(false),
		NotificationSent: repository.Bool(false),
	}, repository.SortAddedAsc)
	if err != nil {
		return nil, err
	}

	due := make([]models.Tray, 0, len(candidates))
	for _, tray := range candidates {
		if notify.ShouldNotify(tray, now) {
			due = append(due, tray)
		}
	}
	return due, nil
}

// Get returns a single tray by id.
func (s *Service) Get(ctx context.Context, id string) (models.Tray, error) {
	return s.store.FindByID(ctx, id)
}

// Status returns a tray together with its computed incubation status.
func (s *Service) Status(ctx context.Context, id string) (models.Tray, status.Report, error) {
	tray, err := s.store.FindByID(ctx, id)
	if err != nil {
		return models.Tray{}, status.Report{}, err
	}
	return tray, status.Compute(tray, s.now()), nil
}

// Create validates the input, enforces slot uniqueness and persists a new
// tray. A "tray added" confirmation is sent best-effort after the write.
func (s *Service) Create(ctx context.Context, input CreateInput) (models.Tray, error) {
	now := s.now()

	if input.EggType == "" {
		input.EggType = models.EggTypeChicken
	}
	if err := validateInput(input, now); err != nil {
		return models.Tray{}, err
	}

	addedDate := now
	if input.AddedDate != nil {
		addedDate = *input.AddedDate
	}

	slot := models.Slot{Door: input.Door, Row: input.Row, Position: input.Position}
	if _, err := s.store.FindOne(ctx, repository.Filter{
		Slot:    &slot,
		Removed: repository.Bool(false),
	}); err == nil {
		return models.Tray{}, &models.SlotConflictError{Slot: slot}
	}

	tray := models.Tray{
		ID:        uuid.NewString(),
		Door:      input.Door,
		Row:       input.Row,
		Position:  input.Position,
		EggType:   input.EggType,
		AddedDate: addedDate,
		Notes:     input.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.store.Insert(ctx, tray)
	if err != nil {
		return models.Tray{}, err
	}

	s.logger.Info("tray created",
		zap.String("tray_id", created.ID),
		zap.String("door", string(created.Door)),
		zap.Int("row", created.Row),
		zap.String("position", string(created.Position)))

	// Best-effort confirmation; the record is already persisted.
	_ = s.dispatcher.Dispatch(ctx, notify.ComposeAdded(created))

	return created, nil
}

// MarkRemoved marks a tray as taken out of the incubator. The operation is
// idempotent: a second call returns the record unchanged and sends nothing.
func (s *Service) MarkRemoved(ctx context.Context, id string) (models.Tray, error) {
	tray, err := s.store.FindByID(ctx, id)
	if err != nil {
		return models.Tray{}, err
	}

	if tray.Removed {
		return tray, nil
	}

	updated, err := s.store.UpdateByID(ctx, id, repository.Update{
		Removed:     repository.Bool(true),
		RemovedDate: repository.Time(s.now()),
	})
	if err != nil {
		return models.Tray{}, err
	}

	s.logger.Info("tray marked removed", zap.String("tray_id", id))

	_ = s.dispatcher.Dispatch(ctx, notify.ComposeRemoved(updated))

	return updated, nil
}

// Update applies the whitelisted mutable fields to a tray.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (models.Tray, error) {
	return s.store.UpdateByID(ctx, id, repository.Update{
		Notes:            input.Notes,
		NotificationSent: input.NotificationSent,
	})
}

// MarkNotificationSent flags the tray so the sweep never alerts it again.
func (s *Service) MarkNotificationSent(ctx context.Context, id string) (models.Tray, error) {
	return s.store.UpdateByID(ctx, id, repository.Update{
		NotificationSent: repository.Bool(true),
	})
}

// Delete removes a tray record permanently. The retention policy is enforced
// here as well as in the UI: an active tray short of its warning threshold
// stays.
func (s *Service) Delete(ctx context.Context, id string) error {
	tray, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !status.CanDelete(tray, s.now(), s.policy) {
		return &models.DeleteForbiddenError{ID: id}
	}

	return s.store.DeleteByID(ctx, id)
}

// ClearHistory deletes every tray the retention policy permits. Each delete
// is independent: a failure on one tray is logged and does not block the
// others. Trays are archived to the hatch log first when one is configured;
// an archive failure keeps the tray so its history is not lost.
func (s *Service) ClearHistory(ctx context.Context) (ClearHistoryResult, error) {
	trays, err := s.store.FindMany(ctx, repository.Filter{}, repository.SortAddedDesc)
	if err != nil {
		return ClearHistoryResult{}, err
	}

	now := s.now()
	deleted := 0

	for _, tray := range trays {
		if !status.CanDelete(tray, now, s.policy) {
			continue
		}

		if s.hatchLog != nil {
			if err := s.hatchLog.Archive(ctx, tray); err != nil {
				s.logger.Warn("hatch log archive failed, keeping tray",
					zap.String("tray_id", tray.ID), zap.Error(err))
				continue
			}
		}

		if err := s.store.DeleteByID(ctx, tray.ID); err != nil {
			s.logger.Warn("failed to delete tray during history prune",
				zap.String("tray_id", tray.ID), zap.Error(err))
			continue
		}
		deleted++
	}

	remaining, err := s.store.FindMany(ctx, repository.Filter{}, repository.SortAddedDesc)
	if err != nil {
		return ClearHistoryResult{}, err
	}

	s.logger.Info("history cleared", zap.Int("deleted", deleted), zap.Int("remaining", len(remaining)))

	return ClearHistoryResult{Deleted: deleted, Remaining: remaining}, nil
}

func validateInput(input CreateInput, now time.Time) error {
	if !input.Door.Valid() {
		return &models.ValidationError{Field: "door", Reason: "must be left or right"}
	}
	if input.Row < 1 || input.Row > 3 {
		return &models.ValidationError{Field: "row", Reason: "must be between 1 and 3"}
	}
	if !input.Position.Valid() {
		return &models.ValidationError{Field: "position", Reason: "must be left or right"}
	}
	if !input.EggType.Valid() {
		return &models.ValidationError{Field: "eggType", Reason: "must be chicken or duck"}
	}
	if input.AddedDate != nil && input.AddedDate.After(now) {
		return &models.ValidationError{Field: "addedDate", Reason: "must not be in the future"}
	}
	return nil
}
