package flights

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/deeptimaan-k/radiantgo-sub000/internal/cache"
	"github.com/deeptimaan-k/radiantgo-sub000/internal/domain"
	"github.com/deeptimaan-k/radiantgo-sub000/internal/observe"
	"github.com/deeptimaan-k/radiantgo-sub000/internal/repository"
	"github.com/sirupsen/logrus"
)

const (
	DefaultMaxTransitOptions = 5
	DefaultMinConnection     = 60 * time.Minute
	DefaultRoutesCacheTTL    = 5 * time.Minute
	secondLegWindow          = 24 * time.Hour
)

type FlightUseCase interface {
	GetByID(ctx context.Context, id string) (*domain.Flight, error)
	FindRoutes(ctx context.Context, origin, destination, date string) ([]domain.RouteOption, error)
}

type FlightService struct {
	catalog       repository.FlightCatalog
	cache         cache.Store
	log           logrus.FieldLogger
	pricing       Pricing
	maxTransit    int
	minConnection time.Duration
	cacheTTL      time.Duration
}

type FlightServiceOption func(*FlightService)

func WithPremiumMarker(marker string) FlightServiceOption {
	return func(s *FlightService) {
		s.pricing.PremiumMarker = marker
	}
}

func WithMaxTransitOptions(n int) FlightServiceOption {
	return func(s *FlightService) {
		if n > 0 {
			s.maxTransit = n
		}
	}
}

func WithMinConnection(d time.Duration) FlightServiceOption {
	return func(s *FlightService) {
		if d > 0 {
			s.minConnection = d
		}
	}
}

func WithRoutesCacheTTL(ttl time.Duration) FlightServiceOption {
	return func(s *FlightService) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// NewFlightService builds the route finder. store may be nil to disable the
// route cache.
func NewFlightService(catalog repository.FlightCatalog, store cache.Store, log logrus.FieldLogger, opts ...FlightServiceOption) *FlightService {
	s := &FlightService{
		catalog:       catalog,
		cache:         store,
		log:           log,
		maxTransit:    DefaultMaxTransitOptions,
		minConnection: DefaultMinConnection,
		cacheTTL:      DefaultRoutesCacheTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FlightService) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	return s.catalog.FindByID(ctx, id)
}

// FindRoutes lists direct and one-transit options for the day, cheapest first.
func (s *FlightService) FindRoutes(ctx context.Context, origin, destination, date string) ([]domain.RouteOption, error) {
	origin = domain.NormalizeCode(origin)
	destination = domain.NormalizeCode(destination)
	day, err := domain.ParseDate(date)
	if err != nil {
		return nil, err
	}

	key := cache.RoutesKey(origin, destination, day.Format(domain.DateLayout))
	if cached, ok := s.cachedRoutes(ctx, key); ok {
		return cached, nil
	}

	options, err := observe.Measure(s.log, "routes.find", func() ([]domain.RouteOption, error) {
		return s.search(ctx, origin, destination, day)
	})
	if err != nil {
		return nil, err
	}

	s.storeRoutes(ctx, key, options)
	return options, nil
}

func (s *FlightService) search(ctx context.Context, origin, destination string, day time.Time) ([]domain.RouteOption, error) {
	window := domain.DayWindow(day)

	direct, err := s.catalog.FindByRoute(ctx, origin, destination, window)
	if err != nil {
		return nil, err
	}

	transit, err := s.transitOptions(ctx, origin, destination, window)
	if err != nil {
		return nil, err
	}
	sortByCost(transit)
	if len(transit) > s.maxTransit {
		transit = transit[:s.maxTransit]
	}

	options := make([]domain.RouteOption, 0, len(direct)+len(transit))
	for _, f := range direct {
		options = append(options, s.pricing.Direct(f))
	}
	options = append(options, transit...)
	sortByCost(options)
	return options, nil
}

func (s *FlightService) transitOptions(ctx context.Context, origin, destination string, window domain.TimeWindow) ([]domain.RouteOption, error) {
	intermediates, err := s.catalog.DistinctDestinations(ctx, origin, window)
	if err != nil {
		return nil, err
	}

	var options []domain.RouteOption
	for _, via := range intermediates {
		if via == destination || via == origin {
			continue
		}
		firstLegs, err := s.catalog.FindByRoute(ctx, origin, via, window)
		if err != nil {
			return nil, err
		}
		for _, first := range firstLegs {
			secondLegs, err := s.catalog.FindByRoute(ctx, via, destination, domain.TimeWindow{
				From: first.Arrival,
				To:   first.Arrival.Add(secondLegWindow),
			})
			if err != nil {
				return nil, err
			}
			for _, second := range secondLegs {
				if second.Departure.Sub(first.Arrival) < s.minConnection {
					continue
				}
				options = append(options, s.pricing.Transit(first, second))
			}
		}
	}
	return options, nil
}

func (s *FlightService) cachedRoutes(ctx context.Context, key string) ([]domain.RouteOption, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			s.log.WithError(err).WithField("key", key).Warn("routes cache read failed")
		}
		return nil, false
	}
	var options []domain.RouteOption
	if err := json.Unmarshal(data, &options); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("routes cache entry is corrupt")
		return nil, false
	}
	return options, true
}

func (s *FlightService) storeRoutes(ctx context.Context, key string, options []domain.RouteOption) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(options)
	if err != nil {
		return
	}
	if err := s.cache.SetWithTTL(ctx, key, data, s.cacheTTL); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("routes cache write failed")
	}
}

// sortByCost orders ascending by total cost; ties keep their input order.
func sortByCost(options []domain.RouteOption) {
	sort.SliceStable(options, func(i, j int) bool {
		return options[i].TotalCost < options[j].TotalCost
	})
}

var _ FlightUseCase = (*FlightService)(nil)
