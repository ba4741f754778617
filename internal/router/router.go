package router

import (
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	"legalbooking/internal/config"
	"legalbooking/internal/handler"
	"legalbooking/internal/metrics"
	authmw "legalbooking/internal/middleware"
	"legalbooking/internal/model"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Users         *handler.UserHandler
	Auth          *handler.AuthHandler
	Lawyers       *handler.LawyerHandler
	Slots         *handler.SlotHandler
	Reservations  *handler.ReservationHandler
	Conversations *handler.ConversationHandler
	Assistant     *handler.AssistantHandler
	Health        *handler.HealthHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, jwtSecret []byte, logger *slog.Logger, h Handlers) {
	e.HideBanner = true
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins(),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(metrics.Middleware())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", h.Health.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/users", h.Users.Signup)
	api.POST("/users/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)
	api.POST("/auth/logout", h.Auth.Logout)
	api.GET("/reservations/track/:trackingCode", h.Reservations.TrackReservation)

	// Secured routes (require JWT authentication)
	secured := api.Group("", authmw.JWT(jwtSecret))
	admin := authmw.RequireRole(model.RoleAdmin)

	secured.GET("/users", h.Users.ListUsers)
	secured.GET("/users/:id", h.Users.GetUser)
	secured.PATCH("/users/:id", h.Users.UpdateUser)
	secured.DELETE("/users/:id", h.Users.DeleteUser)

	secured.GET("/lawyers", h.Lawyers.ListLawyers)
	secured.GET("/lawyers/:id", h.Lawyers.GetLawyer)
	secured.POST("/lawyers", h.Lawyers.CreateLawyer, admin)
	secured.PATCH("/lawyers/:id", h.Lawyers.UpdateLawyer, admin)
	secured.DELETE("/lawyers/:id", h.Lawyers.DeleteLawyer, admin)

	secured.GET("/slots", h.Slots.ListSlots)
	secured.GET("/slots/search", h.Slots.SearchSlots)
	secured.GET("/slots/group-by-date", h.Slots.GroupSlotsByDate)
	secured.GET("/slots/:id", h.Slots.GetSlot)
	secured.POST("/slots", h.Slots.CreateSlot, admin)
	secured.POST("/slots/create-multiple", h.Slots.CreateMultipleSlots, admin)
	secured.PATCH("/slots/:id", h.Slots.UpdateSlot, admin)
	secured.DELETE("/slots/:id", h.Slots.DeleteSlot, admin)

	secured.POST("/reservations", h.Reservations.CreateReservation)
	secured.GET("/reservations", h.Reservations.ListReservations)
	secured.GET("/reservations/:id", h.Reservations.GetReservation)
	secured.PATCH("/reservations/:id", h.Reservations.UpdateReservation)
	secured.DELETE("/reservations/:id", h.Reservations.DeleteReservation)

	secured.POST("/conversations", h.Conversations.CreateConversation)
	secured.GET("/conversations", h.Conversations.ListConversations)
	secured.GET("/conversations/:id", h.Conversations.GetConversation)
	secured.PATCH("/conversations/:id", h.Conversations.UpdateConversation)
	secured.DELETE("/conversations/:id", h.Conversations.DeleteConversation)

	secured.POST("/interactions", h.Conversations.CreateInteraction)
	secured.GET("/interactions", h.Conversations.ListInteractions)
	secured.GET("/interactions/:id", h.Conversations.GetInteraction)
	secured.PATCH("/interactions/:id", h.Conversations.UpdateInteraction)
	secured.DELETE("/interactions/:id", h.Conversations.DeleteInteraction)

	secured.POST("/ai/generate-response", h.Assistant.GenerateResponse)
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
				logger.LogAttrs(c.Request().Context(), slog.LevelWarn, "request", attrs...)
				return nil
			}
			logger.LogAttrs(c.Request().Context(), slog.LevelInfo, "request", attrs...)
			return nil
		},
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
