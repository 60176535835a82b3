package httpapi

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/flight-weather-insights/internal/pipeline"
	"github.com/i474232898/flight-weather-insights/internal/reference"
	"github.com/i474232898/flight-weather-insights/internal/store"
	"github.com/i474232898/flight-weather-insights/internal/table"
)

var validate = validator.New()

// LocationSearcher answers free-text location searches.
type LocationSearcher interface {
	Search(ctx context.Context, query string) ([]reference.Candidate, error)
}

// SearchRunner executes a search run.
type SearchRunner interface {
	Run(ctx context.Context, req pipeline.Request) (*pipeline.Result, error)
}

// ExportStore serves previously saved tables.
type ExportStore interface {
	GetLatest(name string) (store.Export, error)
	GetRange(name string, from, to time.Time) ([]store.Export, error)
}

// Deps are the services behind the routes.
type Deps struct {
	Locations LocationSearcher
	Searches  SearchRunner
	Exports   ExportStore
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	v1 := app.Group("/api/v1")

	v1.Get("/locations", func(c *fiber.Ctx) error {
		q := strings.TrimSpace(c.Query("q"))
		if q == "" {
			return fiber.NewError(fiber.StatusBadRequest, "q query parameter is required")
		}

		candidates, err := deps.Locations.Search(c.UserContext(), q)
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "location search failed")
		}
		if candidates == nil {
			candidates = []reference.Candidate{}
		}
		return c.JSON(fiber.Map{"query": q, "locations": candidates})
	})

	v1.Post("/searches", func(c *fiber.Ctx) error {
		var body searchRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		req, err := body.toRequest()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		res, err := deps.Searches.Run(c.UserContext(), req)
		switch {
		case errors.Is(err, pipeline.ErrInvalidRequest):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case errors.Is(err, context.DeadlineExceeded):
			return fiber.NewError(fiber.StatusGatewayTimeout, "search timed out")
		case err != nil && res == nil:
			return fiber.NewError(fiber.StatusInternalServerError, "search failed")
		case err != nil:
			return fiber.NewError(fiber.StatusInternalServerError, "search completed but saving results failed")
		}

		return c.Status(fiber.StatusCreated).JSON(newSearchResponse(res, c.QueryBool("rows")))
	})

	v1.Get("/exports/:name", func(c *fiber.Ctx) error {
		name := c.Params("name")
		exp, err := deps.Exports.GetLatest(name)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no export stored under "+name)
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch export")
		}

		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+exp.Name+`"`)
		c.Set(fiber.HeaderLastModified, exp.SavedAt.UTC().Format(time.RFC1123))
		return c.Send(exp.CSV)
	})

	v1.Get("/exports/:name/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		exports, err := deps.Exports.GetRange(req.Name, req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no exports for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch export history")
		}

		items := make([]exportSummary, 0, len(exports))
		for _, exp := range exports {
			items = append(items, exportSummary{Name: exp.Name, SavedAt: exp.SavedAt, Rows: exp.Rows})
		}
		return c.JSON(fiber.Map{
			"name":    req.Name,
			"from":    req.From,
			"to":      req.To,
			"exports": items,
		})
	})
}

// searchRequest is the body of POST /searches.
type searchRequest struct {
	Origin        string `json:"origin" validate:"required,len=3,alpha"`
	Destination   string `json:"destination" validate:"required,len=3,alpha,nefield=Origin"`
	DepartureDate string `json:"departureDate" validate:"required,datetime=2006-01-02"`
}

func (r searchRequest) toRequest() (pipeline.Request, error) {
	r.Origin = strings.ToUpper(strings.TrimSpace(r.Origin))
	r.Destination = strings.ToUpper(strings.TrimSpace(r.Destination))
	if err := validate.Struct(r); err != nil {
		return pipeline.Request{}, err
	}
	date, err := time.Parse(time.DateOnly, r.DepartureDate)
	if err != nil {
		return pipeline.Request{}, err
	}
	return pipeline.Request{Origin: r.Origin, Destination: r.Destination, DepartureDate: date}, nil
}

type tableSummary struct {
	File    string     `json:"file"`
	Rows    int        `json:"rows"`
	Columns []string   `json:"columns,omitempty"`
	Data    [][]string `json:"data,omitempty"`
}

type searchResponse struct {
	Origin          string       `json:"origin"`
	Destination     string       `json:"destination"`
	Dates           []string     `json:"dates"`
	RouteDistanceKm string       `json:"routeDistanceKm"`
	Flights         tableSummary `json:"flights"`
	Weather         tableSummary `json:"weather"`
	Warnings        []string     `json:"warnings"`
}

func newSearchResponse(res *pipeline.Result, withRows bool) searchResponse {
	summarize := func(t *table.Table) tableSummary {
		s := tableSummary{File: store.FileName(t), Rows: t.Len()}
		if withRows {
			s.Columns = t.Columns()
			s.Data = t.Rows()
		}
		return s
	}
	warnings := res.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return searchResponse{
		Origin:          res.Origin,
		Destination:     res.Destination,
		Dates:           res.Dates,
		RouteDistanceKm: res.RouteDistanceKm,
		Flights:         summarize(res.Flights),
		Weather:         summarize(res.Weather),
		Warnings:        warnings,
	}
}

type exportSummary struct {
	Name    string    `json:"name"`
	SavedAt time.Time `json:"savedAt"`
	Rows    int       `json:"rows"`
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	Name string    `validate:"required"`
	From time.Time `validate:"required"`
	To   time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	h.Name = c.Params("name")

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
