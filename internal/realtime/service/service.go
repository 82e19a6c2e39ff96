// Package service provides the realtime command-center service: live
// watchable collections for panic alerts, geofence events, officer
// locations, and the activity feed, with bus notifications for new items.
//
// Two consumption models are part of the contract. Components that need
// the current list (the dashboard map, the alert panel) use a Subscribe*
// live query and receive the full result set on every change. Components
// that only care about "something new happened" subscribe to the bus by
// event type. The service keeps one internal watch per collection to
// synthesize bus events, so an event is emitted exactly once per new item
// regardless of how many list subscribers exist.
package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"guardhq/internal/platform/config"
	"guardhq/internal/realtime/bus"
	"guardhq/internal/realtime/livestore"
	"guardhq/internal/realtime/metrics"
	"guardhq/internal/realtime/models"
	"guardhq/internal/realtime/store/locationcache"
	id "guardhq/pkg/domain"
	dErrors "guardhq/pkg/domain-errors"
	"guardhq/pkg/requestcontext"
)

// ActivityPublisher forwards activity entries to an external stream.
type ActivityPublisher interface {
	Publish(ctx context.Context, key, value []byte) error
}

// Service owns the live collections and the bus synthesis loop.
type Service struct {
	bus *bus.Bus

	panicAlerts *livestore.Collection[models.PanicAlert]
	geofence    *livestore.Collection[models.GeofenceEvent]
	locations   *livestore.Collection[models.OfficerLocation]
	activity    *livestore.Collection[models.ActivityEntry]

	locationCache *locationcache.Cache
	publisher     ActivityPublisher
	logger        *slog.Logger
	metrics       *metrics.Metrics
	tracer        trace.Tracer

	internalCancels []func()
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithLocationCache(cache *locationcache.Cache) Option {
	return func(s *Service) {
		s.locationCache = cache
	}
}

func WithActivityPublisher(publisher ActivityPublisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

// New constructs the Service and starts the internal bus-synthesis
// watches. Callers own the bus; the service never creates one implicitly.
func New(eventBus *bus.Bus, cfg config.RealtimeConfig, opts ...Option) *Service {
	s := &Service{
		bus:    eventBus,
		logger: slog.Default(),
		tracer: otel.Tracer("guardhq/realtime"),
		panicAlerts: livestore.New(
			func(a models.PanicAlert) string { return a.ID.String() },
			func(a, b models.PanicAlert) bool { return a.Timestamp.After(b.Timestamp) },
			livestore.WithCap[models.PanicAlert](cfg.PanicAlertLimit),
		),
		geofence: livestore.New(
			func(e models.GeofenceEvent) string { return e.ID.String() },
			func(a, b models.GeofenceEvent) bool { return a.Timestamp.After(b.Timestamp) },
			livestore.WithCap[models.GeofenceEvent](cfg.GeofenceLimit),
		),
		locations: livestore.New(
			func(l models.OfficerLocation) string { return l.OfficerID.String() },
			func(a, b models.OfficerLocation) bool { return a.UpdatedAt.After(b.UpdatedAt) },
		),
		activity: livestore.New(
			func(e models.ActivityEntry) string { return e.ID.String() },
			func(a, b models.ActivityEntry) bool { return a.Timestamp.After(b.Timestamp) },
			livestore.WithCap[models.ActivityEntry](cfg.ActivityLimit),
		),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.internalCancels = []func(){
		s.panicAlerts.Watch(nil, 0, synthesize(s, models.EventPanicAlert, func(a models.PanicAlert) (id.OfficerID, id.SiteID, any) {
			return a.OfficerID, id.SiteID{}, a
		})),
		s.geofence.Watch(nil, 0, synthesize(s, models.EventGeofenceBreach, func(e models.GeofenceEvent) (id.OfficerID, id.SiteID, any) {
			return e.OfficerID, e.SiteID, e
		})),
		s.locations.Watch(nil, 0, synthesize(s, models.EventLocationUpdate, func(l models.OfficerLocation) (id.OfficerID, id.SiteID, any) {
			return l.OfficerID, id.SiteID{}, l
		})),
		s.activity.Watch(nil, 0, synthesize(s, models.EventActivity, func(e models.ActivityEntry) (id.OfficerID, id.SiteID, any) {
			return e.OfficerID, e.SiteID, e
		})),
	}
	return s
}

// synthesize builds the internal watcher that maps added changes to bus
// events, preserving the change order within each snapshot.
func synthesize[T any](s *Service, eventType string, describe func(T) (id.OfficerID, id.SiteID, any)) livestore.Watcher[T] {
	return func(snapshot livestore.Snapshot[T]) {
		for _, change := range snapshot.Changes {
			if change.Type != livestore.ChangeAdded {
				continue
			}
			officerID, siteID, payload := describe(change.Item)
			s.emit(models.RealtimeEvent{
				ID:        id.NewEventID(),
				Type:      eventType,
				Payload:   payload,
				Timestamp: time.Now(),
				OfficerID: officerID,
				SiteID:    siteID,
			})
		}
	}
}

func errClosed() error {
	return dErrors.New(dErrors.CodeUnavailable, "realtime service is closed")
}

func (s *Service) emit(event models.RealtimeEvent) {
	s.bus.Emit(event)
	if s.metrics != nil {
		s.metrics.EventsEmitted.WithLabelValues(event.Type).Inc()
	}
}

// SubscribeToPanicAlerts delivers the full current alert list, newest
// first, on every change.
func (s *Service) SubscribeToPanicAlerts(onUpdate func(alerts []models.PanicAlert)) func() {
	return watchCollection(s, s.panicAlerts, nil, 0, onUpdate)
}

// SubscribeToGeofenceEvents delivers the full current geofence event list,
// newest first, on every change.
func (s *Service) SubscribeToGeofenceEvents(onUpdate func(events []models.GeofenceEvent)) func() {
	return watchCollection(s, s.geofence, nil, 0, onUpdate)
}

// SubscribeToOfficerLocations delivers every officer's latest position on
// every change.
func (s *Service) SubscribeToOfficerLocations(onUpdate func(locations []models.OfficerLocation)) func() {
	return watchCollection(s, s.locations, nil, 0, onUpdate)
}

// SubscribeToActivityFeed delivers the newest limit feed entries on every
// change; limit 0 means the full capped feed.
func (s *Service) SubscribeToActivityFeed(limit int, onUpdate func(entries []models.ActivityEntry)) func() {
	return watchCollection(s, s.activity, nil, limit, onUpdate)
}

func watchCollection[T any](s *Service, c *livestore.Collection[T], filter func(T) bool, limit int, onUpdate func([]T)) func() {
	if s.metrics != nil {
		s.metrics.ActiveWatches.Inc()
	}
	cancel := c.Watch(filter, limit, func(snapshot livestore.Snapshot[T]) {
		onUpdate(snapshot.Items)
	})
	return func() {
		cancel()
		if s.metrics != nil {
			s.metrics.ActiveWatches.Dec()
		}
	}
}

// CreatePanicAlert registers a new distress signal in active state.
func (s *Service) CreatePanicAlert(ctx context.Context, officerID id.OfficerID, location models.Location, notes string) (*models.PanicAlert, error) {
	ctx, span := s.tracer.Start(ctx, "realtime.CreatePanicAlert")
	defer span.End()

	if officerID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "officer_id is required")
	}
	alert := models.PanicAlert{
		ID:        id.NewAlertID(),
		OfficerID: officerID,
		Location:  location,
		Timestamp: requestcontext.Now(ctx),
		Status:    models.PanicActive,
		Notes:     notes,
	}
	if !s.panicAlerts.Upsert(alert) {
		return nil, errClosed()
	}
	if s.metrics != nil {
		s.metrics.PanicAlertsOpen.Inc()
	}
	s.logger.WarnContext(ctx, "panic alert created",
		"alert_id", alert.ID.String(),
		"officer_id", officerID.String(),
	)
	s.RecordActivity(ctx, "panic_created", "Panic alert raised", officerID, id.SiteID{})
	return &alert, nil
}

// AcknowledgePanicAlert stamps the acting user and server time and moves
// the alert to acknowledged. No transition guard is enforced; callers own
// the ordering.
func (s *Service) AcknowledgePanicAlert(ctx context.Context, alertID id.AlertID) (*models.PanicAlert, error) {
	ctx, span := s.tracer.Start(ctx, "realtime.AcknowledgePanicAlert")
	defer span.End()

	alert, ok := s.panicAlerts.Get(alertID.String())
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "panic alert not found")
	}
	now := requestcontext.Now(ctx)
	alert.Status = models.PanicAcknowledged
	alert.AcknowledgedBy = requestcontext.ActorID(ctx)
	alert.AcknowledgedAt = &now
	if !s.panicAlerts.Upsert(alert) {
		return nil, errClosed()
	}
	s.RecordActivity(ctx, "panic_acknowledged", "Panic alert acknowledged", alert.OfficerID, id.SiteID{})
	return &alert, nil
}

// ResolvePanicAlert stamps the resolution time and closes the alert.
func (s *Service) ResolvePanicAlert(ctx context.Context, alertID id.AlertID) (*models.PanicAlert, error) {
	ctx, span := s.tracer.Start(ctx, "realtime.ResolvePanicAlert")
	defer span.End()

	alert, ok := s.panicAlerts.Get(alertID.String())
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "panic alert not found")
	}
	now := requestcontext.Now(ctx)
	alert.Status = models.PanicResolved
	alert.ResolvedAt = &now
	if !s.panicAlerts.Upsert(alert) {
		return nil, errClosed()
	}
	if s.metrics != nil {
		s.metrics.PanicAlertsOpen.Dec()
	}
	s.RecordActivity(ctx, "panic_resolved", "Panic alert resolved", alert.OfficerID, id.SiteID{})
	return &alert, nil
}

// RecordGeofenceEvent registers a perimeter crossing.
func (s *Service) RecordGeofenceEvent(ctx context.Context, event *models.GeofenceEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}
	if event.ID.IsNil() {
		event.ID = id.NewEventID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	event.Acknowledged = false
	if !s.geofence.Upsert(*event) {
		return errClosed()
	}
	return nil
}

// AcknowledgeGeofenceEvent marks an event as seen. One-way: there is no
// way to un-acknowledge.
func (s *Service) AcknowledgeGeofenceEvent(ctx context.Context, eventID id.EventID) (*models.GeofenceEvent, error) {
	event, ok := s.geofence.Get(eventID.String())
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "geofence event not found")
	}
	event.Acknowledged = true
	if !s.geofence.Upsert(event) {
		return nil, errClosed()
	}
	s.RecordActivity(ctx, "geofence_acknowledged", "Geofence event acknowledged", event.OfficerID, event.SiteID)
	return &event, nil
}

// UpdateOfficerLocation replaces the officer's last known position and
// writes through to the Redis cache when configured.
func (s *Service) UpdateOfficerLocation(ctx context.Context, location models.OfficerLocation) error {
	if location.OfficerID.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "officer_id is required")
	}
	if location.UpdatedAt.IsZero() {
		location.UpdatedAt = requestcontext.Now(ctx)
	}
	if !s.locations.Upsert(location) {
		return errClosed()
	}
	if err := s.locationCache.Set(ctx, location); err != nil {
		s.logger.WarnContext(ctx, "location cache write failed",
			"officer_id", location.OfficerID.String(),
			"error", err.Error(),
		)
	}
	return nil
}

// LastKnownLocation reads through the Redis cache, falling back to the
// in-process collection.
func (s *Service) LastKnownLocation(ctx context.Context, officerID id.OfficerID) (*models.OfficerLocation, error) {
	if cached, err := s.locationCache.Get(ctx, officerID); err == nil {
		return cached, nil
	}
	location, ok := s.locations.Get(officerID.String())
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "no location for officer")
	}
	return &location, nil
}

// RecordActivity appends a feed entry and forwards it to the external
// stream when a publisher is configured. Implements the schedule service's
// ActivityRecorder.
func (s *Service) RecordActivity(ctx context.Context, activityType, message string, officerID id.OfficerID, siteID id.SiteID) {
	entry := models.ActivityEntry{
		ID:        id.NewEventID(),
		Type:      activityType,
		Message:   message,
		OfficerID: officerID,
		SiteID:    siteID,
		Timestamp: requestcontext.Now(ctx),
	}
	if !s.activity.Upsert(entry) {
		return
	}

	if s.publisher == nil {
		return
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := s.publisher.Publish(ctx, []byte(entry.Type), payload); err != nil {
		s.logger.WarnContext(ctx, "activity publish failed",
			"type", activityType,
			"error", err.Error(),
		)
	}
}

// ListPanicAlerts returns all alerts newest first, optionally narrowed to
// one status.
func (s *Service) ListPanicAlerts(status models.PanicAlertStatus) []models.PanicAlert {
	var filter func(models.PanicAlert) bool
	if status != "" {
		filter = func(a models.PanicAlert) bool { return a.Status == status }
	}
	return s.panicAlerts.List(filter, 0)
}

// ListGeofenceEvents returns geofence events newest first; unackedExits
// narrows to the command center's working set.
func (s *Service) ListGeofenceEvents(unackedExits bool) []models.GeofenceEvent {
	var filter func(models.GeofenceEvent) bool
	if unackedExits {
		filter = func(e models.GeofenceEvent) bool {
			return e.EventType == models.GeofenceExit && !e.Acknowledged
		}
	}
	return s.geofence.List(filter, 0)
}

// ListLocations returns every officer's latest position, newest first.
func (s *Service) ListLocations() []models.OfficerLocation {
	return s.locations.List(nil, 0)
}

// ActivityFeed returns the newest limit entries; limit 0 means the whole
// capped feed.
func (s *Service) ActivityFeed(limit int) []models.ActivityEntry {
	return s.activity.List(nil, limit)
}

// Summary aggregates the live state for the command-center overview. The
// critical count is active panic alerts plus unacknowledged geofence
// exits.
func (s *Service) Summary(ctx context.Context) models.CommandCenterSummary {
	active := s.ListPanicAlerts(models.PanicActive)
	unacked := s.ListGeofenceEvents(true)
	return models.CommandCenterSummary{
		ActivePanicAlerts:  active,
		UnackedGeofence:    unacked,
		OfficerLocations:   s.ListLocations(),
		CriticalAlertCount: len(active) + len(unacked),
		GeneratedAt:        requestcontext.Now(ctx),
	}
}

// Close stops the internal watches and every live query. Callers that
// skip Close leak watches for the process lifetime.
func (s *Service) Close() {
	for _, cancel := range s.internalCancels {
		cancel()
	}
	s.panicAlerts.Close()
	s.geofence.Close()
	s.locations.Close()
	s.activity.Close()
}
