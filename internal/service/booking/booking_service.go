package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/deeptimaan-k/radiantgo-sub000/internal/cache"
	"github.com/deeptimaan-k/radiantgo-sub000/internal/domain"
	"github.com/deeptimaan-k/radiantgo-sub000/internal/kafka"
	"github.com/deeptimaan-k/radiantgo-sub000/internal/lock"
	"github.com/deeptimaan-k/radiantgo-sub000/internal/observe"
	"github.com/deeptimaan-k/radiantgo-sub000/internal/repository"
	"github.com/deeptimaan-k/radiantgo-sub000/internal/service/flights"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	DefaultCacheTTL = 5 * time.Minute
	maxRefAttempts  = 3
)

type BookingUseCase interface {
	// CreateBooking reports replayed=true when the response came from the
	// idempotency ledger.
	CreateBooking(ctx context.Context, input CreateBookingInput, idempotencyKey string) (booking *domain.Booking, replayed bool, err error)
	GetBooking(ctx context.Context, refID string) (*domain.Booking, error)
	Depart(ctx context.Context, refID string, input UpdateInput) (*domain.Booking, error)
	Arrive(ctx context.Context, refID string, input UpdateInput) (*domain.Booking, error)
	Deliver(ctx context.Context, refID string, input UpdateInput) (*domain.Booking, error)
	Cancel(ctx context.Context, refID string, input UpdateInput) (*domain.Booking, error)
}

type Locker interface {
	Acquire(ctx context.Context, key string) (lock.Lease, bool, error)
	Release(ctx context.Context, lease lock.Lease) (bool, error)
}

type Ledger interface {
	Lookup(ctx context.Context, key string) ([]byte, bool)
	Remember(ctx context.Context, key string, response []byte)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	flights            repository.FlightCatalog
	cache              cache.Store
	locks              Locker
	ledger             Ledger
	log                logrus.FieldLogger
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	cacheTTL           time.Duration
	minConnection      time.Duration
	now                func() time.Time
	newRef             func() string
}

type BookingServiceOption func(*BookingService)

// WithProducer publishes every timeline entry to topic.
func WithProducer(producer Producer, topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = producer
		s.bookingTopic = topic
	}
}

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithCacheTTL(ttl time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithMinConnection sets the shortest layover accepted between transit legs.
func WithMinConnection(d time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		if d > 0 {
			s.minConnection = d
		}
	}
}

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func WithRefGenerator(gen func() string) BookingServiceOption {
	return func(s *BookingService) {
		s.newRef = gen
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	catalog repository.FlightCatalog,
	store cache.Store,
	locks Locker,
	ledger Ledger,
	log logrus.FieldLogger,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:      bookings,
		flights:       catalog,
		cache:         store,
		locks:         locks,
		ledger:        ledger,
		log:           log,
		cacheTTL:      DefaultCacheTTL,
		minConnection: flights.DefaultMinConnection,
		now:           time.Now,
		newRef:        NewRefID,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput, idempotencyKey string) (*domain.Booking, bool, error) {
	if stored, ok := s.ledger.Lookup(ctx, idempotencyKey); ok {
		var replay domain.Booking
		if err := json.Unmarshal(stored, &replay); err == nil {
			return &replay, true, nil
		}
		s.log.WithField("idempotency_key", idempotencyKey).Warn("stored idempotent response is unreadable, creating anew")
	}

	var event domain.BookingEvent
	created, err := observe.Measure(s.log, "booking.create", func() (*domain.Booking, error) {
		b, ev, err := s.create(ctx, input)
		event = ev
		return b, err
	})
	if err != nil {
		return nil, false, err
	}

	// remember before publishing so a retry during a slow publish replays
	if data, err := json.Marshal(created); err == nil {
		s.ledger.Remember(ctx, idempotencyKey, data)
	}
	s.publish(ctx, created, event)
	return created, false, nil
}

func (s *BookingService) create(ctx context.Context, input CreateBookingInput) (*domain.Booking, domain.BookingEvent, error) {
	input = input.normalized()
	if err := input.validate(); err != nil {
		return nil, domain.BookingEvent{}, err
	}

	routeType, flightIDs, err := domain.ParseRouteID(input.RouteID)
	if err != nil {
		return nil, domain.BookingEvent{}, err
	}
	if err := s.checkRoute(ctx, input, flightIDs); err != nil {
		return nil, domain.BookingEvent{}, err
	}

	now := s.now().UTC()
	created := domain.BookingEvent{
		ID:        uuid.NewString(),
		Type:      domain.EventTypeBookingCreated,
		Status:    domain.BookingStatusBooked,
		Location:  input.Origin,
		Timestamp: now,
		Description: domain.Describe(domain.BookingStatusBooked, domain.EventDetails{
			Pieces:    input.Pieces,
			WeightKg:  input.WeightKg,
			RouteType: routeType,
		}),
		Meta: map[string]any{
			"pieces":     input.Pieces,
			"weight_kg":  input.WeightKg,
			"route_type": string(routeType),
			"route_id":   input.RouteID,
		},
	}
	day, _ := domain.ParseDate(input.DepartureDate)
	booking := domain.Booking{
		Origin:        input.Origin,
		Destination:   input.Destination,
		DepartureDate: day.Format(domain.DateLayout),
		Pieces:        input.Pieces,
		WeightKg:      input.WeightKg,
		FlightIDs:     flightIDs,
		CreatedAt:     now,
	}.WithEvent(created)

	if err := s.insert(ctx, &booking); err != nil {
		return nil, domain.BookingEvent{}, err
	}

	s.cacheBooking(ctx, &booking)
	return &booking, created, nil
}

// checkRoute resolves the route's flights and makes sure they still connect
// the requested origin and destination.
func (s *BookingService) checkRoute(ctx context.Context, input CreateBookingInput, flightIDs []string) error {
	flights, err := s.flights.FindByIDs(ctx, flightIDs)
	if err != nil {
		return domain.InternalError{Msg: "failed to resolve route flights", Err: err}
	}
	if len(flights) != len(flightIDs) {
		return invalidField("route_id", fmt.Sprintf("route references %d flight(s), found %d", len(flightIDs), len(flights)))
	}

	first, last := flights[0], flights[len(flights)-1]
	if domain.NormalizeCode(first.Origin) != input.Origin {
		return invalidField("origin", fmt.Sprintf("route departs from %s, not %s", first.Origin, input.Origin))
	}
	if domain.NormalizeCode(last.Destination) != input.Destination {
		return invalidField("destination", fmt.Sprintf("route arrives at %s, not %s", last.Destination, input.Destination))
	}
	for i := 1; i < len(flights); i++ {
		prev, next := flights[i-1], flights[i]
		if prev.Destination != next.Origin {
			return invalidField("route_id", "route legs do not connect")
		}
		if gap := next.Departure.Sub(prev.Arrival); gap < s.minConnection {
			return invalidField("route_id", fmt.Sprintf("connection at %s is %s, minimum is %s", prev.Destination, gap, s.minConnection))
		}
	}
	return nil
}

func (s *BookingService) insert(ctx context.Context, booking *domain.Booking) error {
	var err error
	for attempt := 0; attempt < maxRefAttempts; attempt++ {
		booking.RefID = s.newRef()
		err = s.bookings.Insert(ctx, booking)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrDuplicateRef) {
			return domain.InternalError{Msg: "failed to save booking", Err: err}
		}
		s.log.WithField("ref_id", booking.RefID).Debug("booking reference collision, regenerating")
	}
	return domain.InternalError{Msg: "failed to allocate a unique booking reference", Err: err}
}

// GetBooking reads through the booking cache.
func (s *BookingService) GetBooking(ctx context.Context, refID string) (*domain.Booking, error) {
	refID = strings.TrimSpace(refID)
	if cached, ok := s.cachedBooking(ctx, refID); ok {
		return cached, nil
	}

	booking, err := s.bookings.FindByRef(ctx, refID)
	if err != nil {
		return nil, s.storeError(err, "failed to load booking")
	}
	s.cacheBooking(ctx, booking)
	return booking, nil
}

func (s *BookingService) Depart(ctx context.Context, refID string, input UpdateInput) (*domain.Booking, error) {
	return s.transition(ctx, refID, domain.BookingStatusDeparted, input)
}

func (s *BookingService) Arrive(ctx context.Context, refID string, input UpdateInput) (*domain.Booking, error) {
	return s.transition(ctx, refID, domain.BookingStatusArrived, input)
}

func (s *BookingService) Deliver(ctx context.Context, refID string, input UpdateInput) (*domain.Booking, error) {
	return s.transition(ctx, refID, domain.BookingStatusDelivered, input)
}

func (s *BookingService) Cancel(ctx context.Context, refID string, input UpdateInput) (*domain.Booking, error) {
	return s.transition(ctx, refID, domain.BookingStatusCancelled, input)
}

// transition runs one status update under the per-booking lock. Contention
// fails fast with a ConflictError; the caller is expected to retry. The event
// is published once the lock is released.
func (s *BookingService) transition(ctx context.Context, refID string, to domain.BookingStatus, input UpdateInput) (*domain.Booking, error) {
	refID = strings.TrimSpace(refID)

	updated, event, err := s.locked(ctx, refID, to, input)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, updated, event)
	return updated, nil
}

func (s *BookingService) locked(ctx context.Context, refID string, to domain.BookingStatus, input UpdateInput) (*domain.Booking, domain.BookingEvent, error) {
	lease, ok, err := s.locks.Acquire(ctx, cache.BookingLockKey(refID))
	if err != nil {
		return nil, domain.BookingEvent{}, domain.InternalError{Msg: "failed to acquire booking lock", Err: err}
	}
	if !ok {
		return nil, domain.BookingEvent{}, domain.ConflictError{
			Resource: "booking",
			Msg:      fmt.Sprintf("booking %s is being updated by another request", refID),
		}
	}
	defer s.release(ctx, lease)

	var event domain.BookingEvent
	updated, err := observe.Measure(s.log, "booking."+strings.ToLower(string(to)), func() (*domain.Booking, error) {
		b, ev, err := s.apply(ctx, refID, to, input)
		event = ev
		return b, err
	})
	return updated, event, err
}

func (s *BookingService) apply(ctx context.Context, refID string, to domain.BookingStatus, input UpdateInput) (*domain.Booking, domain.BookingEvent, error) {
	current, err := s.bookings.FindByRef(ctx, refID)
	if err != nil {
		return nil, domain.BookingEvent{}, s.storeError(err, "failed to load booking")
	}

	if !domain.CanTransition(current.Status, to) {
		return nil, domain.BookingEvent{}, domain.ValidationError{
			Code:  domain.CodeInvalidTransition,
			Field: "status",
			Msg:   fmt.Sprintf("cannot move booking %s from %s to %s", refID, current.Status, to),
			Err:   domain.ErrInvalidTransition,
		}
	}

	event := s.statusEvent(current, to, input)
	updated, err := s.bookings.AppendEvent(ctx, refID, current.Status, event)
	if err != nil {
		return nil, domain.BookingEvent{}, s.storeError(err, "failed to save booking event")
	}

	s.invalidate(ctx, refID)
	return updated, event, nil
}

func (s *BookingService) statusEvent(current *domain.Booking, to domain.BookingStatus, input UpdateInput) domain.BookingEvent {
	location := strings.TrimSpace(input.Location)
	if location == "" {
		location = current.Destination
	}

	timestamp := s.now().UTC()
	if last, ok := current.LastEvent(); ok && timestamp.Before(last.Timestamp) {
		timestamp = last.Timestamp
	}

	var info *domain.FlightInfo
	if input.FlightInfo != nil {
		copied := *input.FlightInfo
		info = &copied
	}

	return domain.BookingEvent{
		ID:        uuid.NewString(),
		Type:      domain.StatusEventType(to),
		Status:    to,
		Location:  location,
		Timestamp: timestamp,
		Description: domain.Describe(to, domain.EventDetails{
			Location:   location,
			FlightInfo: info,
			Reason:     input.Reason,
		}),
		FlightInfo: info,
		Meta:       input.meta(),
	}
}

// release runs detached from the request context so that a cancelled
// request still frees its lock.
func (s *BookingService) release(ctx context.Context, lease lock.Lease) {
	released, err := s.locks.Release(context.WithoutCancel(ctx), lease)
	switch {
	case err != nil:
		s.log.WithError(err).WithField("lock", lease.Key).Warn("failed to release booking lock")
	case !released:
		s.log.WithField("lock", lease.Key).Warn("booking lock expired before release")
	}
}

// storeError passes domain errors through and wraps everything else.
func (s *BookingService) storeError(err error, msg string) error {
	if domain.IsNotFound(err) || domain.IsConflict(err) || domain.IsValidation(err) {
		return err
	}
	return domain.InternalError{Msg: msg, Err: err}
}

func (s *BookingService) cachedBooking(ctx context.Context, refID string) (*domain.Booking, bool) {
	data, err := s.cache.Get(ctx, cache.BookingKey(refID))
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			s.log.WithError(err).WithField("ref_id", refID).Warn("booking cache read failed")
		}
		return nil, false
	}
	var booking domain.Booking
	if err := json.Unmarshal(data, &booking); err != nil {
		s.log.WithError(err).WithField("ref_id", refID).Warn("booking cache entry is corrupt")
		return nil, false
	}
	return &booking, true
}

func (s *BookingService) cacheBooking(ctx context.Context, booking *domain.Booking) {
	data, err := json.Marshal(booking)
	if err != nil {
		return
	}
	if err := s.cache.SetWithTTL(ctx, cache.BookingKey(booking.RefID), data, s.cacheTTL); err != nil {
		s.log.WithError(err).WithField("ref_id", booking.RefID).Warn("booking cache write failed")
	}
}

func (s *BookingService) invalidate(ctx context.Context, refID string) {
	if err := s.cache.Delete(ctx, cache.BookingKey(refID)); err != nil {
		s.log.WithError(err).WithField("ref_id", refID).Warn("booking cache invalidation failed")
	}
}

func (s *BookingService) publish(ctx context.Context, booking *domain.Booking, event domain.BookingEvent) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	message := kafka.BookingEvent{
		Type:        event.Type,
		RefID:       booking.RefID,
		Status:      string(event.Status),
		Origin:      booking.Origin,
		Destination: booking.Destination,
		Location:    event.Location,
		Description: event.Description,
		Timestamp:   event.Timestamp,
	}
	for _, topic := range []string{s.bookingTopic, s.notificationsTopic} {
		if topic == "" {
			continue
		}
		if err := s.producer.Publish(ctx, topic, booking.RefID, message); err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{"ref_id": booking.RefID, "topic": topic}).Warn("failed to publish booking event")
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
