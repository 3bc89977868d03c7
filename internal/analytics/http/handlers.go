package analytichttp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/insightboard/insightboard/internal/analytics"
	"github.com/insightboard/insightboard/internal/analytics/ui"
	"github.com/insightboard/insightboard/internal/insight"
	"github.com/insightboard/insightboard/internal/platform/httpx"
	"github.com/insightboard/insightboard/internal/view"
)

const requestTimeout = 5 * time.Second

// DashboardService defines the data contract used by the handler.
type DashboardService interface {
	Loaded() bool
	Filtered(filters insight.FilterState) []insight.Insight
	Dashboard(ctx context.Context, filters insight.FilterState, colorBy analytics.ColorBy) (analytics.Dashboard, error)
	Summary(ctx context.Context, filters insight.FilterState) (analytics.Summary, error)
	Options(ctx context.Context) (insight.FilterOptions, error)
	Chart(ctx context.Context, id analytics.ChartID, filters insight.FilterState) ([]analytics.Group, error)
	Scatter(ctx context.Context, filters insight.FilterState, colorBy analytics.ColorBy) (analytics.ScatterData, error)
}

// Handler serves the insights dashboard and its JSON API.
type Handler struct {
	logger    *slog.Logger
	service   DashboardService
	templates *view.Engine
	charts    ui.ChartRenderer
	validate  *validator.Validate
}

// NewHandler constructs the dashboard HTTP handler.
func NewHandler(logger *slog.Logger, service DashboardService, templates *view.Engine, charts ui.ChartRenderer) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:    logger,
		service:   service,
		templates: templates,
		charts:    charts,
		validate:  newValidator(),
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type dashboardRequest struct {
	filters insight.FilterState
	colorBy analytics.ColorBy
	view    ui.MapView
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	req, err := h.parseRequest(r)
	if err != nil {
		h.handleFilterError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	dash, err := h.service.Dashboard(ctx, req.filters, req.colorBy)
	if err != nil {
		h.handleServerError(w, "load dashboard", err)
		return
	}

	vm, err := h.buildViewModel(ctx, dash, req.view)
	if err != nil {
		h.handleServerError(w, "render charts", err)
		return
	}

	viewData := view.TemplateData{
		Title:       "Insights Dashboard",
		CurrentPath: r.URL.Path,
		Data:        vm,
	}
	if err := h.templates.Render(w, "pages/dashboard.html", viewData); err != nil {
		h.handleServerError(w, "render template", err)
	}
}

func (h *Handler) handleChartSVG(w http.ResponseWriter, r *http.Request) {
	id, err := analytics.ParseChartID(chi.URLParam(r, "chart"))
	if err != nil {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}
	req, err := h.parseRequest(r)
	if err != nil {
		h.handleFilterError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	dash, err := h.service.Dashboard(ctx, req.filters, req.colorBy)
	if err != nil {
		h.handleServerError(w, "load dashboard", err)
		return
	}
	out, err := h.charts.Render(ctx, id, dash, req.view)
	if err != nil {
		h.handleServerError(w, "render chart", err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-cache")
	if _, err := w.Write([]byte(xmlProlog + string(out))); err != nil {
		h.logError("stream svg", err)
	}
}

const xmlProlog = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

type insightsResponse struct {
	Loaded bool              `json:"loaded"`
	Count  int               `json:"count"`
	Items  []insight.Insight `json:"items"`
}

func (h *Handler) handleAPIInsights(w http.ResponseWriter, r *http.Request) {
	filters, err := h.parseFilters(r.URL.Query())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	items := h.service.Filtered(filters)
	if items == nil {
		items = []insight.Insight{}
	}
	httpx.JSON(w, http.StatusOK, insightsResponse{
		Loaded: h.service.Loaded(),
		Count:  len(items),
		Items:  items,
	})
}

func (h *Handler) handleAPISummary(w http.ResponseWriter, r *http.Request) {
	filters, err := h.parseFilters(r.URL.Query())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	summary, err := h.service.Summary(ctx, filters)
	if err != nil {
		h.respondAPIError(w, "load summary", err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) handleAPIFilters(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	options, err := h.service.Options(ctx)
	if err != nil {
		h.respondAPIError(w, "load filter options", err)
		return
	}
	httpx.JSON(w, http.StatusOK, options)
}

type chartResponse struct {
	Chart   analytics.ChartID      `json:"chart"`
	Groups  []analytics.Group      `json:"groups,omitempty"`
	Scatter *analytics.ScatterData `json:"scatter,omitempty"`
}

func (h *Handler) handleAPIChart(w http.ResponseWriter, r *http.Request) {
	id, err := analytics.ParseChartID(chi.URLParam(r, "chart"))
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrNotFound, err))
		return
	}
	req, err := h.parseRequest(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	resp := chartResponse{Chart: id}
	if id == analytics.ChartScatter {
		data, err := h.service.Scatter(ctx, req.filters, req.colorBy)
		if err != nil {
			h.respondAPIError(w, "load scatter", err)
			return
		}
		resp.Scatter = &data
	} else {
		groups, err := h.service.Chart(ctx, id, req.filters)
		if err != nil {
			h.respondAPIError(w, "load chart", err)
			return
		}
		resp.Groups = groups
		if resp.Groups == nil {
			resp.Groups = []analytics.Group{}
		}
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) parseRequest(r *http.Request) (dashboardRequest, error) {
	q := r.URL.Query()
	filters, err := h.parseFilters(q)
	if err != nil {
		return dashboardRequest{}, err
	}
	colorBy, err := analytics.ParseColorBy(q.Get("colorBy"))
	if err != nil {
		return dashboardRequest{}, validationError{field: "colorBy", err: err}
	}
	mapView, err := h.parseMapView(q)
	if err != nil {
		return dashboardRequest{}, err
	}
	return dashboardRequest{filters: filters, colorBy: colorBy, view: mapView}, nil
}

func (h *Handler) parseFilters(q url.Values) (insight.FilterState, error) {
	filters := insight.FilterStateFromQuery(q)
	if err := h.validate.Struct(filters); err != nil {
		return insight.FilterState{}, toValidationError(err)
	}
	return filters, nil
}

func (h *Handler) parseMapView(q url.Values) (ui.MapView, error) {
	mapView := ui.DefaultMapView
	fields := []struct {
		key  string
		dest *float64
	}{
		{"zoom", &mapView.Zoom},
		{"panX", &mapView.PanX},
		{"panY", &mapView.PanY},
	}
	for _, f := range fields {
		raw := strings.TrimSpace(q.Get(f.key))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return ui.MapView{}, validationError{field: f.key, err: err}
		}
		*f.dest = v
	}
	if err := h.validate.Struct(mapView); err != nil {
		return ui.MapView{}, toValidationError(err)
	}
	return mapView, nil
}

func (h *Handler) buildViewModel(ctx context.Context, dash analytics.Dashboard, mapView ui.MapView) (ui.DashboardViewModel, error) {
	if h.charts == nil {
		return ui.DashboardViewModel{}, errors.New("chart renderer missing")
	}
	vm := ui.ToViewModel(dash, mapView)
	vm.Charts = make([]ui.ChartPanel, len(ui.Panels))

	g, ctx := errgroup.WithContext(ctx)
	for i, meta := range ui.Panels {
		g.Go(func() error {
			out, err := h.charts.Render(ctx, meta.ID, dash, mapView)
			if err != nil {
				return fmt.Errorf("chart %s: %w", meta.ID, err)
			}
			vm.Charts[i] = ui.ChartPanel{
				ID:          meta.ID,
				Title:       meta.Title,
				Description: meta.Description,
				SVG:         out,
				Wide:        meta.Wide,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ui.DashboardViewModel{}, err
	}
	return vm, nil
}

func (h *Handler) handleFilterError(w http.ResponseWriter, err error) {
	var vErr validationError
	if errors.As(err, &vErr) {
		http.Error(w, "Invalid parameter: "+vErr.field, http.StatusBadRequest)
		return
	}
	h.handleServerError(w, "parse filters", err)
}

func (h *Handler) respondAPIError(w http.ResponseWriter, context string, err error) {
	if httpx.StatusFor(err) >= http.StatusInternalServerError {
		h.logError(context, err)
	}
	httpx.RespondError(w, err)
}

func (h *Handler) handleServerError(w http.ResponseWriter, context string, err error) {
	h.logError(context, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (h *Handler) logError(context string, err error) {
	if h.logger != nil {
		h.logger.Error(context, slog.Any("error", err))
	}
}

type validationError struct {
	field string
	err   error
}

func (v validationError) Error() string {
	return fmt.Sprintf("invalid %s", v.field)
}

func (v validationError) Unwrap() []error {
	if v.err == nil {
		return []error{httpx.ErrValidation}
	}
	return []error{httpx.ErrValidation, v.err}
}

func toValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return validationError{field: fieldErrs[0].Field(), err: err}
	}
	return validationError{field: "query", err: err}
}

// HandleDashboardForTest exposes the dashboard handler for tests.
func (h *Handler) HandleDashboardForTest(w http.ResponseWriter, r *http.Request) {
	h.handleDashboard(w, r)
}
