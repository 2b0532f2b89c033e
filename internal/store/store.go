// Package store owns the application state and the actions that change it.
//
// Actions never return errors: failures end up in State.Error and in the
// log. Observers receive a copy of the state after every change.
package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrCroatia/weatherapp/internal/geolocation"
	"github.com/MrCroatia/weatherapp/internal/logger"
	"github.com/MrCroatia/weatherapp/internal/weather"
)

// DefaultSearchDebounce is the delay used by SetSearchQuery.
const DefaultSearchDebounce = 500 * time.Millisecond

// Observer is called with a snapshot after each mutation. It must not call
// store actions synchronously.
type Observer func(State)

// Store is the single application state controller.
type Store struct {
	client  weather.Client
	locator weather.Locator

	mu    sync.RWMutex
	state State

	// Sequence numbers of the latest coordinate fetch and search. A request
	// whose number is no longer current drops its results.
	coordSeq  uint64
	searchSeq uint64

	// notifyMu keeps mutations and their notifications in the same order.
	notifyMu  sync.Mutex
	obsMu     sync.RWMutex
	observers map[uuid.UUID]Observer

	debounce  time.Duration
	timerMu   sync.Mutex
	timer     *time.Timer
	closed    bool
	searchCtx context.Context
	cancel    context.CancelFunc
}

// Option configures a Store.
type Option func(*Store)

// WithSearchDebounce sets the SetSearchQuery delay.
func WithSearchDebounce(d time.Duration) Option {
	return func(s *Store) {
		if d >= 0 {
			s.debounce = d
		}
	}
}

// WithUnit sets the initial display unit.
func WithUnit(u weather.Unit) Option {
	return func(s *Store) {
		s.state.Unit = u
	}
}

// New creates a store. A nil locator behaves like a host without geolocation.
func New(client weather.Client, locator weather.Locator, opts ...Option) *Store {
	if locator == nil {
		locator = geolocation.New(nil)
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		client:    client,
		locator:   locator,
		state:     initialState(weather.UnitMetric),
		observers: make(map[uuid.UUID]Observer),
		debounce:  DefaultSearchDebounce,
		searchCtx: ctx,
		cancel:    cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state = initialState(s.state.Unit)
	return s
}

// State returns a snapshot.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Observer) func() {
	id := uuid.New()
	s.obsMu.Lock()
	s.observers[id] = fn
	s.obsMu.Unlock()

	return func() {
		s.obsMu.Lock()
		delete(s.observers, id)
		s.obsMu.Unlock()
	}
}

// update applies fn under the lock. fn reports whether it changed anything;
// observers are only notified when it did.
func (s *Store) update(fn func(st *State) bool) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	changed := fn(&s.state)
	var snap State
	if changed {
		snap = s.state.clone()
	}
	s.mu.Unlock()

	if !changed {
		return
	}

	s.obsMu.RLock()
	observers := make([]Observer, 0, len(s.observers))
	for _, o := range s.observers {
		observers = append(observers, o)
	}
	s.obsMu.RUnlock()

	for _, o := range observers {
		o(snap)
	}
}

// setError records err on st and logs it.
func setError(st *State, action string, err error) {
	msg := weather.Describe(err)
	st.Error = &msg
	logger.Errorf("%s: %s", action, msg)
}

// GetWeatherForCurrentLocation locates the device and loads its weather.
func (s *Store) GetWeatherForCurrentLocation(ctx context.Context) {
	id := uuid.NewString()
	logger.Debugf("store[%s]: locating device", id)

	s.update(func(st *State) bool {
		st.Loading.Location = true
		st.Error = nil
		return true
	})
	defer s.update(func(st *State) bool {
		st.Loading.Location = false
		return true
	})

	pos, err := s.locator.GetCurrentPosition(ctx)
	if err != nil {
		s.update(func(st *State) bool {
			setError(st, "current location", err)
			return true
		})
		return
	}

	s.GetWeatherForCoordinates(ctx, pos.Latitude, pos.Longitude, "")
}

// GetWeatherForCoordinates loads current weather and forecast together.
// The location is published before the data arrives. If a newer call starts
// before this one finishes, this call's results are discarded.
func (s *Store) GetWeatherForCoordinates(ctx context.Context, lat, lon float64, name string) {
	id := uuid.NewString()
	var seq uint64

	s.update(func(st *State) bool {
		s.coordSeq++
		seq = s.coordSeq
		st.Loading.Weather = true
		st.Loading.Forecast = true
		st.Error = nil
		st.CurrentLocation = &weather.GeoLocation{Lat: lat, Lon: lon, Name: name}
		return true
	})
	logger.Debugf("store[%s]: fetching weather for %.4f,%.4f (seq %d)", id, lat, lon, seq)

	var (
		wg          sync.WaitGroup
		current     weather.CurrentWeather
		forecast    weather.WeatherForecast
		currentErr  error
		forecastErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		current, currentErr = s.client.GetCurrentWeather(ctx, lat, lon)
	}()
	go func() {
		defer wg.Done()
		forecast, forecastErr = s.client.GetWeatherForecast(ctx, lat, lon)
	}()
	wg.Wait()

	s.update(func(st *State) bool {
		if seq != s.coordSeq {
			logger.Debugf("store[%s]: dropping stale weather result (seq %d, latest %d)", id, seq, s.coordSeq)
			return false
		}
		st.Loading.Weather = false
		st.Loading.Forecast = false

		if err := firstError(currentErr, forecastErr); err != nil {
			setError(st, "weather", err)
			return true
		}

		st.CurrentWeather = &current
		st.Forecast = &forecast
		if name == "" && current.Name != "" && st.CurrentLocation != nil {
			st.CurrentLocation.Name = current.Name
		}
		return true
	})
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// SearchLocations geocodes query into State.SearchResults. A blank query
// clears the results without a request. A pending debounced search is
// cancelled.
func (s *Store) SearchLocations(ctx context.Context, query string) {
	s.stopPendingSearch()
	s.search(ctx, query)
}

func (s *Store) search(ctx context.Context, query string) {
	if strings.TrimSpace(query) == "" {
		s.update(func(st *State) bool {
			// Supersede any search still in flight.
			s.searchSeq++
			st.SearchResults = []weather.GeoLocation{}
			st.Loading.Search = false
			return true
		})
		return
	}

	id := uuid.NewString()
	var seq uint64
	s.update(func(st *State) bool {
		s.searchSeq++
		seq = s.searchSeq
		st.Loading.Search = true
		st.Error = nil
		return true
	})
	logger.Debugf("store[%s]: searching %q (seq %d)", id, query, seq)

	locs, err := s.client.GeocodeLocation(ctx, query)

	s.update(func(st *State) bool {
		if seq != s.searchSeq {
			logger.Debugf("store[%s]: dropping stale search result for %q", id, query)
			return false
		}
		st.Loading.Search = false
		if err != nil {
			setError(st, "search", err)
			st.SearchResults = []weather.GeoLocation{}
			return true
		}
		st.SearchResults = locs
		return true
	})
}

// SelectLocation loads weather for loc, then clears the search whatever the
// outcome.
func (s *Store) SelectLocation(ctx context.Context, loc weather.GeoLocation) {
	s.stopPendingSearch()
	s.GetWeatherForCoordinates(ctx, loc.Lat, loc.Lon, loc.Name)
	s.update(func(st *State) bool {
		s.searchSeq++
		st.SearchResults = []weather.GeoLocation{}
		st.SearchQuery = ""
		st.Loading.Search = false
		return true
	})
}

// SetSearchQuery records the query and runs SearchLocations once the query
// has been stable for the debounce delay.
func (s *Store) SetSearchQuery(query string) {
	s.update(func(st *State) bool {
		if st.SearchQuery == query {
			return false
		}
		st.SearchQuery = query
		return true
	})

	s.timerMu.Lock()
	defer s.timerMu.Unlock()
	if s.closed {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, func() {
		s.search(s.searchCtx, query)
	})
}

// stopPendingSearch cancels a debounced search that has not fired yet.
func (s *Store) stopPendingSearch() {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// ClearError drops the current error message.
func (s *Store) ClearError() {
	s.update(func(st *State) bool {
		if st.Error == nil {
			return false
		}
		st.Error = nil
		return true
	})
}

// ToggleUnit switches between metric and imperial display. Stored values are
// untouched.
func (s *Store) ToggleUnit() {
	s.update(func(st *State) bool {
		st.Unit = st.Unit.Toggle()
		return true
	})
}

// Close cancels a pending debounced search and any search it started.
func (s *Store) Close() {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.cancel()
}
