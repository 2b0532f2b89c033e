package httpapi

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/MrCroatia/weatherapp/internal/logger"
	"github.com/MrCroatia/weatherapp/internal/store"
	"github.com/MrCroatia/weatherapp/internal/weather"
)

var validate = validator.New()

// heartbeat keeps idle event streams alive and detects gone clients.
const heartbeat = 15 * time.Second

// RegisterRoutes wires the HTTP handlers into the Fiber app.
// Action failures are reported through the returned state, not the status
// code; only malformed requests get a 400.
func RegisterRoutes(app *fiber.App, st *store.Store) {
	v1 := app.Group("/api/v1")

	v1.Get("/state", func(c *fiber.Ctx) error {
		return c.JSON(NewStateView(st.State()))
	})

	v1.Get("/events", func(c *fiber.Ctx) error {
		return streamState(c, st)
	})

	v1.Post("/search", func(c *fiber.Ctx) error {
		st.SearchLocations(c.UserContext(), c.Query("q"))
		return c.JSON(NewStateView(st.State()))
	})

	v1.Post("/search/query", func(c *fiber.Ctx) error {
		st.SetSearchQuery(c.Query("q"))
		return c.Status(fiber.StatusAccepted).JSON(NewStateView(st.State()))
	})

	v1.Post("/locations/select", func(c *fiber.Ctx) error {
		var loc weather.GeoLocation
		if err := c.BodyParser(&loc); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid location body")
		}
		if err := validate.Struct(loc); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		st.SelectLocation(c.UserContext(), loc)
		return c.JSON(NewStateView(st.State()))
	})

	v1.Post("/weather/coordinates", func(c *fiber.Ctx) error {
		q, err := parseCoordinatesQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		st.GetWeatherForCoordinates(c.UserContext(), q.Lat, q.Lon, q.Name)
		return c.JSON(NewStateView(st.State()))
	})

	v1.Post("/weather/current-location", func(c *fiber.Ctx) error {
		st.GetWeatherForCurrentLocation(c.UserContext())
		return c.JSON(NewStateView(st.State()))
	})

	v1.Post("/unit/toggle", func(c *fiber.Ctx) error {
		st.ToggleUnit()
		return c.JSON(NewStateView(st.State()))
	})

	v1.Delete("/error", func(c *fiber.Ctx) error {
		st.ClearError()
		return c.JSON(NewStateView(st.State()))
	})
}

// coordinatesQuery holds query parameters for a coordinate lookup.
type coordinatesQuery struct {
	Lat  float64 `validate:"gte=-90,lte=90"`
	Lon  float64 `validate:"gte=-180,lte=180"`
	Name string  `validate:"max=200"`
}

func parseCoordinatesQuery(c *fiber.Ctx) (coordinatesQuery, error) {
	var q coordinatesQuery

	latStr, lonStr := c.Query("lat"), c.Query("lon")
	if latStr == "" || lonStr == "" {
		return q, errors.New("lat and lon query parameters are required")
	}

	var err error
	if q.Lat, err = strconv.ParseFloat(latStr, 64); err != nil {
		return q, fmt.Errorf("invalid lat: %w", err)
	}
	if q.Lon, err = strconv.ParseFloat(lonStr, 64); err != nil {
		return q, fmt.Errorf("invalid lon: %w", err)
	}
	q.Name = c.Query("name")

	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

// streamState sends the current state, then one event per change, as
// server-sent events. Updates are dropped for a client that falls behind.
func streamState(c *fiber.Ctx, st *store.Store) error {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	updates := make(chan store.State, 16)
	unsubscribe := st.Subscribe(func(s store.State) {
		select {
		case updates <- s:
		default:
		}
	})
	initial := st.State()

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer unsubscribe()

		if err := writeEvent(w, initial); err != nil {
			return
		}

		ticker := time.NewTicker(heartbeat)
		defer ticker.Stop()

		for {
			select {
			case s := <-updates:
				if err := writeEvent(w, s); err != nil {
					logger.Debugf("events: client gone: %v", err)
					return
				}
			case <-ticker.C:
				if _, err := w.WriteString(": ping\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))
	return nil
}

func writeEvent(w *bufio.Writer, s store.State) error {
	payload, err := json.Marshal(NewStateView(s))
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: state\ndata: %s\n\n", payload); err != nil {
		return err
	}
	return w.Flush()
}
