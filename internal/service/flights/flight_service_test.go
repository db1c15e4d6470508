package flights

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/deeptimaan-k/radiantgo-sub000/internal/cache"
	"github.com/deeptimaan-k/radiantgo-sub000/internal/cache/cachetest"
	"github.com/deeptimaan-k/radiantgo-sub000/internal/domain"
	"github.com/deeptimaan-k/radiantgo-sub000/internal/observe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fakeCatalog answers catalog queries from an in-memory schedule.
type fakeCatalog struct {
	flights []domain.Flight
	calls   int
}

func (c *fakeCatalog) FindByID(_ context.Context, id string) (*domain.Flight, error) {
	for _, f := range c.flights {
		if f.FlightID == id {
			f := f
			return &f, nil
		}
	}
	return nil, domain.NotFoundError{Resource: "flight", ID: id}
}

func (c *fakeCatalog) FindByIDs(_ context.Context, ids []string) ([]domain.Flight, error) {
	var out []domain.Flight
	for _, id := range ids {
		for _, f := range c.flights {
			if f.FlightID == id {
				out = append(out, f)
			}
		}
	}
	return out, nil
}

func (c *fakeCatalog) FindByRoute(_ context.Context, origin, destination string, w domain.TimeWindow) ([]domain.Flight, error) {
	c.calls++
	var out []domain.Flight
	for _, f := range c.flights {
		if f.Origin == origin && f.Destination == destination && inWindow(f.Departure, w) {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Departure.Before(out[j].Departure) })
	return out, nil
}

func (c *fakeCatalog) DistinctDestinations(_ context.Context, origin string, w domain.TimeWindow) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, f := range c.flights {
		if f.Origin == origin && inWindow(f.Departure, w) && !seen[f.Destination] {
			seen[f.Destination] = true
			out = append(out, f.Destination)
		}
	}
	sort.Strings(out)
	return out, nil
}

func inWindow(t time.Time, w domain.TimeWindow) bool {
	return !t.Before(w.From) && !t.After(w.To)
}

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) FindByID(ctx context.Context, id string) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockCatalog) FindByIDs(ctx context.Context, ids []string) ([]domain.Flight, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockCatalog) FindByRoute(ctx context.Context, origin, destination string, w domain.TimeWindow) ([]domain.Flight, error) {
	args := m.Called(ctx, origin, destination, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockCatalog) DistinctDestinations(ctx context.Context, origin string, w domain.TimeWindow) ([]string, error) {
	args := m.Called(ctx, origin, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

var day = time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)

func flight(id, airline, origin, dest string, dep time.Duration, block time.Duration) domain.Flight {
	return domain.Flight{
		FlightID:     id,
		FlightNumber: "FN" + id,
		Airline:      airline,
		Origin:       origin,
		Destination:  dest,
		Departure:    day.Add(dep),
		Arrival:      day.Add(dep + block),
	}
}

func TestFindRoutes_DirectCost(t *testing.T) {
	catalog := &fakeCatalog{flights: []domain.Flight{
		flight("f1", "IndiGo", "DEL", "BOM", 8*time.Hour, 150*time.Minute),
	}}
	svc := NewFlightService(catalog, nil, observe.Discard())

	routes, err := svc.FindRoutes(context.Background(), "DEL", "BOM", "2026-10-20")
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, "direct-f1", routes[0].ID)
	assert.Equal(t, domain.RouteTypeDirect, routes[0].Type)
	assert.Equal(t, 150, routes[0].TotalDuration)
	assert.Equal(t, int64(400), routes[0].TotalCost)
}

func TestFindRoutes_PremiumCarrier(t *testing.T) {
	catalog := &fakeCatalog{flights: []domain.Flight{
		flight("f1", "Premium Cargo Air", "DEL", "BOM", 8*time.Hour, 150*time.Minute),
	}}
	svc := NewFlightService(catalog, nil, observe.Discard(), WithPremiumMarker("Premium"))

	routes, err := svc.FindRoutes(context.Background(), "del", " bom ", "2026-10-20")
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, int64(480), routes[0].TotalCost)
}

func TestFindRoutes_TransitConnection(t *testing.T) {
	first := flight("a1", "IndiGo", "DEL", "HYD", 3*time.Hour, 120*time.Minute)
	tooTight := flight("b1", "SpiceJet", "HYD", "BOM", 5*time.Hour+25*time.Minute, 85*time.Minute)
	ok := flight("b2", "SpiceJet", "HYD", "BOM", 6*time.Hour, 85*time.Minute)

	catalog := &fakeCatalog{flights: []domain.Flight{first, tooTight, ok}}
	svc := NewFlightService(catalog, nil, observe.Discard())

	routes, err := svc.FindRoutes(context.Background(), "DEL", "BOM", "2026-10-20")
	require.NoError(t, err)
	require.Len(t, routes, 1)

	r := routes[0]
	assert.Equal(t, "transit-a1-b2", r.ID)
	assert.Equal(t, domain.RouteTypeOneTransit, r.Type)
	// 03:00 → 07:25 wall clock, layover included.
	assert.Equal(t, 265, r.TotalDuration)
	// 340 + 270 + 50
	assert.Equal(t, int64(660), r.TotalCost)
	require.Len(t, r.Flights, 2)
	assert.Equal(t, "a1", r.Flights[0].FlightID)
	assert.Equal(t, "b2", r.Flights[1].FlightID)
}

func TestFindRoutes_ExactMinimumConnectionIsAllowed(t *testing.T) {
	catalog := &fakeCatalog{flights: []domain.Flight{
		flight("a1", "IndiGo", "DEL", "HYD", 3*time.Hour, 120*time.Minute),
		flight("b1", "SpiceJet", "HYD", "BOM", 6*time.Hour, 60*time.Minute),
	}}
	svc := NewFlightService(catalog, nil, observe.Discard())

	routes, err := svc.FindRoutes(context.Background(), "DEL", "BOM", "2026-10-20")
	require.NoError(t, err)
	assert.Len(t, routes, 1)
}

func TestFindRoutes_SecondLegNextDay(t *testing.T) {
	catalog := &fakeCatalog{flights: []domain.Flight{
		flight("a1", "IndiGo", "DEL", "HYD", 22*time.Hour, 120*time.Minute),
		flight("b1", "SpiceJet", "HYD", "BOM", 26*time.Hour, 60*time.Minute),
	}}
	svc := NewFlightService(catalog, nil, observe.Discard())

	routes, err := svc.FindRoutes(context.Background(), "DEL", "BOM", "2026-10-20")
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, "transit-a1-b1", routes[0].ID)
}

func TestFindRoutes_CapsTransitAndSortsByCost(t *testing.T) {
	flights := []domain.Flight{
		flight("d1", "IndiGo", "DEL", "BOM", 20*time.Hour, 300*time.Minute),
	}
	// seven hubs, each with one valid connection of increasing length
	for i := 0; i < 7; i++ {
		hub := fmt.Sprintf("H%02d", i)
		flights = append(flights,
			flight(fmt.Sprintf("x%d", i), "IndiGo", "DEL", hub, time.Hour, time.Duration(60+10*i)*time.Minute),
			flight(fmt.Sprintf("y%d", i), "IndiGo", hub, "BOM", 5*time.Hour, 60*time.Minute),
		)
	}
	catalog := &fakeCatalog{flights: flights}
	svc := NewFlightService(catalog, nil, observe.Discard())

	routes, err := svc.FindRoutes(context.Background(), "DEL", "BOM", "2026-10-20")
	require.NoError(t, err)

	transit := 0
	for i, r := range routes {
		if r.Type == domain.RouteTypeOneTransit {
			transit++
		}
		if i > 0 {
			assert.LessOrEqual(t, routes[i-1].TotalCost, r.TotalCost)
		}
	}
	assert.Equal(t, 5, transit)
	assert.Len(t, routes, 6)
	assert.Equal(t, "transit-x0-y0", routes[0].ID)
	for _, r := range routes {
		assert.NotEqual(t, "transit-x5-y5", r.ID)
		assert.NotEqual(t, "transit-x6-y6", r.ID)
	}
}

func TestFindRoutes_StableOrderOnEqualCost(t *testing.T) {
	catalog := &fakeCatalog{flights: []domain.Flight{
		flight("f1", "IndiGo", "DEL", "BOM", 8*time.Hour, 150*time.Minute),
		flight("f2", "IndiGo", "DEL", "BOM", 10*time.Hour, 150*time.Minute),
	}}
	svc := NewFlightService(catalog, nil, observe.Discard())

	routes, err := svc.FindRoutes(context.Background(), "DEL", "BOM", "2026-10-20")
	require.NoError(t, err)
	require.Len(t, routes, 2)
	assert.Equal(t, "direct-f1", routes[0].ID)
	assert.Equal(t, "direct-f2", routes[1].ID)
}

func TestFindRoutes_NoFlights(t *testing.T) {
	svc := NewFlightService(&fakeCatalog{}, nil, observe.Discard())

	routes, err := svc.FindRoutes(context.Background(), "DEL", "BOM", "2026-10-20")
	require.NoError(t, err)
	assert.NotNil(t, routes)
	assert.Empty(t, routes)
}

func TestFindRoutes_InvalidDate(t *testing.T) {
	catalog := &MockCatalog{}
	svc := NewFlightService(catalog, nil, observe.Discard())

	_, err := svc.FindRoutes(context.Background(), "DEL", "BOM", "20-10-2026")
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Equal(t, domain.CodeInvalidDate, domain.ValidationCode(err))
	catalog.AssertNotCalled(t, "FindByRoute", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFindRoutes_CatalogError(t *testing.T) {
	catalog := &MockCatalog{}
	catalog.On("FindByRoute", mock.Anything, "DEL", "BOM", mock.Anything).Return(nil, errors.New("db down"))
	svc := NewFlightService(catalog, nil, observe.Discard())

	_, err := svc.FindRoutes(context.Background(), "DEL", "BOM", "2026-10-20")
	assert.EqualError(t, err, "db down")
}

func TestFindRoutes_ServedFromCache(t *testing.T) {
	catalog := &fakeCatalog{flights: []domain.Flight{
		flight("f1", "IndiGo", "DEL", "BOM", 8*time.Hour, 150*time.Minute),
	}}
	store := cachetest.NewStore(t)
	svc := NewFlightService(catalog, store, observe.Discard())
	ctx := context.Background()

	first, err := svc.FindRoutes(ctx, "DEL", "BOM", "2026-10-20")
	require.NoError(t, err)
	calls := catalog.calls

	_, err = store.Get(ctx, cache.RoutesKey("DEL", "BOM", "2026-10-20"))
	require.NoError(t, err)

	second, err := svc.FindRoutes(ctx, "DEL", "BOM", "2026-10-20")
	require.NoError(t, err)
	assert.Equal(t, calls, catalog.calls)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, first[0].TotalCost, second[0].TotalCost)
}

func TestFlightService_GetByID(t *testing.T) {
	catalog := &MockCatalog{}
	f := flight("f1", "IndiGo", "DEL", "BOM", 8*time.Hour, 150*time.Minute)
	catalog.On("FindByID", mock.Anything, "f1").Return(&f, nil)
	catalog.On("FindByID", mock.Anything, "nope").Return(nil, domain.NotFoundError{Resource: "flight", ID: "nope"})

	svc := NewFlightService(catalog, nil, observe.Discard())

	got, err := svc.GetByID(context.Background(), "f1")
	require.NoError(t, err)
	assert.Equal(t, "DEL", got.Origin)

	_, err = svc.GetByID(context.Background(), "nope")
	assert.True(t, domain.IsNotFound(err))
	catalog.AssertExpectations(t)
}

func TestPricing_LegCost(t *testing.T) {
	tests := []struct {
		name    string
		airline string
		block   time.Duration
		want    int64
	}{
		{"standard", "IndiGo", 150 * time.Minute, 400},
		{"premium", "Premium Cargo Air", 150 * time.Minute, 480},
		{"premium case-insensitive", "PREMIUM freight", 60 * time.Minute, 264},
		{"zero length", "IndiGo", 0, 100},
	}
	p := Pricing{PremiumMarker: "Premium"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := flight("f", tt.airline, "DEL", "BOM", 0, tt.block)
			assert.Equal(t, tt.want, p.LegCost(f))
		})
	}
}
