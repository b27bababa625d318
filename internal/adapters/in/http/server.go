// Package http exposes the route and scan use cases over a REST API built on
// the echo framework.
package http

import (
	"errors"
	"net/http"
	"strconv"

	"routesync/internal/core/application/usecases/commands"
	"routesync/internal/core/application/usecases/queries"
	"routesync/internal/core/domain/model/kernel"
	"routesync/internal/core/domain/model/scan"
	"routesync/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	recordScanHandler    commands.RecordScanCommandHandler
	optimizeRouteHandler commands.OptimizeRouteCommandHandler
	resetRouteHandler    commands.ResetRouteCommandHandler

	// Query handlers
	getRouteHandler       *queries.GetRouteQueryHandler
	getScanHistoryHandler queries.GetScanHistoryQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	recordScanHandler commands.RecordScanCommandHandler,
	optimizeRouteHandler commands.OptimizeRouteCommandHandler,
	resetRouteHandler commands.ResetRouteCommandHandler,
	getRouteHandler *queries.GetRouteQueryHandler,
	getScanHistoryHandler queries.GetScanHistoryQueryHandler,
) *Server {
	return &Server{
		recordScanHandler:     recordScanHandler,
		optimizeRouteHandler:  optimizeRouteHandler,
		resetRouteHandler:     resetRouteHandler,
		getRouteHandler:       getRouteHandler,
		getScanHistoryHandler: getScanHistoryHandler,
	}
}

// RegisterRoutes binds all endpoints onto the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.GET("/drivers/:driverId/route", s.GetRoute)
	api.POST("/drivers/:driverId/route/optimize", s.OptimizeRoute)
	api.POST("/drivers/:driverId/route/reset", s.ResetRoute)
	api.GET("/drivers/:driverId/scans", s.GetScanHistory)
	api.POST("/scans", s.RecordScan)
}

// GetRoute handles GET /api/v1/drivers/:driverId/route - the reconciled route view.
func (s *Server) GetRoute(ctx echo.Context) error {
	driverID, err := kernel.UUIDFromString(ctx.Param("driverId"))
	if err != nil {
		return badRequest(ctx, "Invalid driver ID")
	}

	query, err := queries.NewGetRouteQuery(driverID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	view, err := s.getRouteHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, routeResponseFrom(view))
}

// OptimizeRoute handles POST /api/v1/drivers/:driverId/route/optimize.
func (s *Server) OptimizeRoute(ctx echo.Context) error {
	driverID, err := kernel.UUIDFromString(ctx.Param("driverId"))
	if err != nil {
		return badRequest(ctx, "Invalid driver ID")
	}

	// The body is optional: drivers without a GPS fix optimize from the depot.
	var req OptimizeRequest
	if ctx.Request().ContentLength > 0 {
		if err = ctx.Bind(&req); err != nil {
			return badRequest(ctx, "Invalid request body")
		}
	}

	origin, err := locationFrom(req.Lat, req.Lng)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewOptimizeRouteCommand(driverID, origin)
	if err != nil {
		return writeError(ctx, err)
	}

	result, err := s.optimizeRouteHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	// Reuse the reconciled view shape so clients render planned and stored
	// routes identically.
	query, err := queries.NewGetRouteQuery(driverID)
	if err != nil {
		return writeError(ctx, err)
	}
	view, err := s.getRouteHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	resp := routeResponseFrom(view)
	for _, skipped := range result.Skipped {
		resp.Skipped = append(resp.Skipped, SkippedStop{
			OrderID: skipped.OrderID.String(),
			Reason:  skipped.Reason,
		})
	}

	return ctx.JSON(http.StatusOK, resp)
}

// ResetRoute handles POST /api/v1/drivers/:driverId/route/reset.
func (s *Server) ResetRoute(ctx echo.Context) error {
	driverID, err := kernel.UUIDFromString(ctx.Param("driverId"))
	if err != nil {
		return badRequest(ctx, "Invalid driver ID")
	}

	cmd, err := commands.NewResetRouteCommand(driverID)
	if err != nil {
		return writeError(ctx, err)
	}

	result, err := s.resetRouteHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	stops := make([]RouteStop, 0, len(result.RemainingOrders))
	for _, o := range result.RemainingOrders {
		stop := RouteStop{
			OrderID:         o.ID().String(),
			OrderNumber:     o.OrderNumber(),
			CustomerName:    o.CustomerName(),
			DeliveryAddress: o.DeliveryAddress(),
			Priority:        o.Priority().String(),
			Status:          o.Status().String(),
			CanStart:        o.CanStart(),
			CanDeliver:      o.CanDeliver(),
			CanComplete:     o.CanComplete(),
		}
		if loc := o.Location(); loc != nil {
			lat, lng := loc.Latitude(), loc.Longitude()
			stop.Lat, stop.Lng = &lat, &lng
		}
		stops = append(stops, stop)
	}

	return ctx.JSON(http.StatusOK, RouteResponse{
		Optimized: false,
		Stops:     stops,
	})
}

// RecordScan handles POST /api/v1/scans.
func (s *Server) RecordScan(ctx echo.Context) error {
	var req ScanRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	driverID, err := kernel.UUIDFromString(req.DriverID)
	if err != nil {
		return badRequest(ctx, "Invalid driver ID")
	}

	location, err := locationFrom(req.Lat, req.Lng)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewRecordScanCommand(
		driverID, req.OrderReference, scan.Type(req.ScanType), location, req.Notes)
	if err != nil {
		return writeError(ctx, err)
	}

	result, err := s.recordScanHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	if result.AlreadyScanned {
		return ctx.JSON(http.StatusConflict, scanResponseFrom(result))
	}

	return ctx.JSON(http.StatusCreated, scanResponseFrom(result))
}

// GetScanHistory handles GET /api/v1/drivers/:driverId/scans.
func (s *Server) GetScanHistory(ctx echo.Context) error {
	driverID, err := kernel.UUIDFromString(ctx.Param("driverId"))
	if err != nil {
		return badRequest(ctx, "Invalid driver ID")
	}

	limit := 0
	if raw := ctx.QueryParam("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			return badRequest(ctx, "Invalid limit")
		}
	}

	query, err := queries.NewGetScanHistoryQuery(driverID, limit)
	if err != nil {
		return writeError(ctx, err)
	}

	scans, err := s.getScanHistoryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, scanHistoryFrom(scans))
}

func locationFrom(lat, lng *float64) (*kernel.Location, error) {
	if lat == nil || lng == nil {
		return nil, nil
	}
	loc, err := kernel.NewLocation(*lat, *lng)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// writeError maps application errors onto HTTP status codes.
func writeError(ctx echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		status = http.StatusNotFound
	case errors.Is(err, commands.ErrNothingToOptimize):
		status = http.StatusConflict
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, commands.ErrOrderReferenceIsRequired):
		status = http.StatusUnprocessableEntity
	}

	return ctx.JSON(status, Error{
		Code:    status,
		Message: err.Error(),
	})
}
