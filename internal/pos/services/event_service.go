package services

import (
	"context"
	"fmt"

	"restopos/internal/pos/core"
	"restopos/internal/pos/domain/models"
	"restopos/internal/xpkg/logger"
)

// EventService manages scheduled restaurant events and fans changes out to
// connected dashboards.
type EventService struct {
	eventRepo core.EventRepo
	notifier  core.Notifier
	mylog     logger.Logger
}

func NewEventService(eventRepo core.EventRepo, notifier core.Notifier, mylog logger.Logger) *EventService {
	return &EventService{eventRepo: eventRepo, notifier: notifier, mylog: mylog}
}

func (s *EventService) notify(ctx context.Context, event string, payload any) {
	if err := s.notifier.Publish(ctx, event, payload); err != nil {
		s.mylog.Action("publish_failed").Error("failed to publish notification", err)
	}
}

func (s *EventService) List(ctx context.Context) ([]models.Event, error) {
	return s.eventRepo.List(ctx)
}

func (s *EventService) Create(ctx context.Context, e models.Event) (models.Event, error) {
	mylog := s.mylog.Action("create_event")

	if e.Name == "" {
		return models.Event{}, fmt.Errorf("%w: event name is required", core.ErrValidation)
	}
	if e.EventDate.IsZero() {
		return models.Event{}, fmt.Errorf("%w: event date is required", core.ErrValidation)
	}
	if e.Status == "" {
		e.Status = "scheduled"
	}

	event, err := s.eventRepo.Create(ctx, e)
	if err != nil {
		mylog.Error("failed to create event", err)
		return models.Event{}, err
	}

	s.notify(ctx, core.EventEventCreated, event)
	mylog.With("event_id", event.ID).Info("event created")
	return event, nil
}

func (s *EventService) Delete(ctx context.Context, id int64) error {
	mylog := s.mylog.Action("delete_event").With("event_id", id)

	event, err := s.eventRepo.Delete(ctx, id)
	if err != nil {
		mylog.Error("failed to delete event", err)
		return err
	}

	s.notify(ctx, core.EventEventDeleted, event)
	mylog.Info("event deleted")
	return nil
}
