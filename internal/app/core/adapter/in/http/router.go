package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JoeShih716/go-savings-ledger/internal/appcontext"
)

// Router 建立 gin engine 並註冊所有路由
//
//	POST /api/v1/customers
//	GET  /api/v1/customers
//	GET  /api/v1/customers/:id
//	POST /api/v1/customers/:id/deposits
//	POST /api/v1/customers/:id/withdrawals
//	GET  /api/v1/customers/:id/transactions
func (h *Handler) Router(logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	r.GET("/health", h.health)

	v1 := r.Group("/api/v1")
	v1.POST("/customers", h.addCustomer)
	v1.GET("/customers", h.listCustomers)
	v1.GET("/customers/:id", h.getCustomer)
	v1.POST("/customers/:id/deposits", h.deposit)
	v1.POST("/customers/:id/withdrawals", h.withdraw)
	v1.GET("/customers/:id/transactions", h.listTransactions)

	return r
}

// requestLogger 以 slog 取代 gin 預設的 Logger middleware，並把 logger 放進 request context
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqLogger := logger.With("method", c.Request.Method, "path", c.FullPath())
		c.Request = c.Request.WithContext(appcontext.WithLogger(c.Request.Context(), reqLogger))

		c.Next()

		reqLogger.DebugContext(c.Request.Context(), "http request finished",
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
