package http

import (
	"context"
	"net/http"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Server exposes the fleet and the delivery journal over HTTP.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// drainCtx outlives requests; couriers started by PlaceOrders run under it
	drainCtx context.Context

	// Command handlers
	placeOrdersHandler commands.PlaceOrdersCommandHandler

	// Query handlers
	getCouriersHandler   queries.GetCouriersQueryHandler
	getDeliveriesHandler queries.GetDeliveriesQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
// Drain routines launched through PlaceOrders are bound to drainCtx, not to the request.
func NewServer(
	drainCtx context.Context,
	placeOrdersHandler commands.PlaceOrdersCommandHandler,
	getCouriersHandler queries.GetCouriersQueryHandler,
	getDeliveriesHandler queries.GetDeliveriesQueryHandler,
) *Server {
	return &Server{
		drainCtx:             drainCtx,
		placeOrdersHandler:   placeOrdersHandler,
		getCouriersHandler:   getCouriersHandler,
		getDeliveriesHandler: getDeliveriesHandler,
	}
}

// RegisterHandlers mounts every route on e.
func RegisterHandlers(e *echo.Echo, s *Server) {
	e.GET("/health", s.Health)
	e.GET("/api/v1/couriers", s.GetCouriers)
	e.GET("/api/v1/deliveries", s.GetDeliveries)
	e.POST("/api/v1/orders", s.PlaceOrders)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

// GetCouriers handles GET /api/v1/couriers - reports the state of every courier.
func (s *Server) GetCouriers(ctx echo.Context) error {
	couriers, err := s.getCouriersHandler.Handle(ctx.Request().Context(), queries.NewGetCouriersQuery())
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve couriers",
		})
	}

	response := make([]Courier, len(couriers))
	for i, c := range couriers {
		response[i] = Courier{
			Id:      c.ID.Bytes(),
			Name:    c.Name,
			Number:  c.Number,
			Pending: c.Pending,
			Busy:    c.Busy,
			State:   c.State,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetDeliveries handles GET /api/v1/deliveries[?courier=<name>] - lists recorded deliveries.
func (s *Server) GetDeliveries(ctx echo.Context) error {
	query := queries.NewGetDeliveriesQuery(ctx.QueryParam("courier"))

	deliveries, err := s.getDeliveriesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve deliveries",
		})
	}

	response := make([]Delivery, len(deliveries))
	for i, d := range deliveries {
		response[i] = Delivery{
			OrderId:     d.OrderID.Bytes(),
			CourierName: d.CourierName,
			Customer:    d.Customer,
			Food:        d.Food,
			Drink:       d.Drink,
			Dessert:     d.Dessert,
			CreatedAt:   d.CreatedAt,
			DeliveredAt: d.DeliveredAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// PlaceOrders handles POST /api/v1/orders - assigns a batch of new orders.
func (s *Server) PlaceOrders(ctx echo.Context) error {
	var newOrders []NewOrder
	if err := ctx.Bind(&newOrders); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	requests := make([]commands.OrderRequest, len(newOrders))
	for i, o := range newOrders {
		requests[i] = commands.OrderRequest{
			Customer: o.Customer,
			Food:     o.Food,
			Drink:    o.Drink,
			Dessert:  o.Dessert,
		}
	}

	result, err := s.placeOrdersHandler.Handle(s.drainCtx, commands.NewPlaceOrdersCommand(requests))
	if err != nil {
		return ctx.JSON(http.StatusConflict, Error{
			Code:    http.StatusConflict,
			Message: "Failed to place orders: " + err.Error(),
		})
	}

	return ctx.JSON(http.StatusCreated, PlacedOrders{
		Accepted: orderIDs(result.Accepted),
		Dropped:  orderIDs(result.Dropped),
		Launched: result.Launched,
	})
}

func orderIDs(orders []*order.Order) []uuid.UUID {
	ids := make([]uuid.UUID, len(orders))
	for i, o := range orders {
		ids[i] = o.ID().Bytes()
	}
	return ids
}
