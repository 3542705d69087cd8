package middleware

import (
	"log/slog"

	deliverycontext "dinein/internal/delivery/context"
	"dinein/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequestIDMiddleware assigns every request an ID and a request-scoped logger
// that also names the customer and table of the current session.
type RequestIDMiddleware struct {
	logger  *slog.Logger
	session usecase.SessionUsecase
}

// NewRequestIDMiddleware creates a new Request ID middleware
func NewRequestIDMiddleware(logger *slog.Logger, session usecase.SessionUsecase) *RequestIDMiddleware {
	return &RequestIDMiddleware{
		logger:  logger,
		session: session,
	}
}

// Process extracts or generates the Request ID and stores it with the logger
// in both the echo and the request context.
func (m *RequestIDMiddleware) Process(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get(deliverycontext.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		deliverycontext.SetRequestID(c, requestID)
		c.Response().Header().Set(deliverycontext.HeaderXRequestID, requestID)

		attrs := []any{slog.String("request_id", requestID)}
		if state := m.session.State(); state.Established() {
			if state.Customer != nil {
				attrs = append(attrs, slog.String("customer_id", state.Customer.ID))
			}
			if state.Table != nil {
				attrs = append(attrs, slog.String("table_id", state.Table.Table.ID))
			}
		}

		ctx := c.Request().Context()
		ctx = deliverycontext.WithRequestID(ctx, requestID)
		ctx = deliverycontext.WithLogger(ctx, m.logger.With(attrs...))
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}
