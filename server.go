package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/hooperp/franchise_backend/config"
	"github.com/hooperp/franchise_backend/models"
	"github.com/hooperp/franchise_backend/models/reports"
	"github.com/hooperp/franchise_backend/utils"
	"github.com/sirupsen/logrus"
)

const defaultPort = "8080"

func respondBindError(c *gin.Context, err error) {
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "invalid request",
			"fields": utils.ProcessValidationErrors(err),
		})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
}

func pathId(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func createSalesOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.NewSalesOrder
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		order, shortages, err := models.CreateSalesOrder(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if order == nil {
			// Stock cannot cover the request; nothing was written.
			c.JSON(http.StatusConflict, gin.H{
				"error":     "insufficient stock",
				"shortages": shortages,
			})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"sales_order": order, "shortages": shortages})
	}
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func updateSalesOrderStatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var req updateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		order, err := models.UpdateSalesOrderStatus(c.Request.Context(), id, req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"sales_order": order})
	}
}

type updateWorkflowRequest struct {
	WorkflowStage  string  `json:"workflow_stage" binding:"required"`
	Carrier        *string `json:"carrier"`
	TrackingNumber *string `json:"tracking_number"`
}

func updateSalesOrderWorkflowHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var req updateWorkflowRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		order, err := models.UpdateSalesOrderWorkflow(c.Request.Context(), id, req.WorkflowStage, &models.WorkflowOptions{
			Carrier:        req.Carrier,
			TrackingNumber: req.TrackingNumber,
		})
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"sales_order": order})
	}
}

func resolveBackordersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := models.ResolveBackorders(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func listSalesOrdersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := models.GetSalesOrders(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"sales_orders": orders})
	}
}

func getSalesOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		order, err := models.GetSalesOrder(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"sales_order": order})
	}
}

func listStoresHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		stores, err := models.GetRetailStores(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"stores": stores})
	}
}

func listItemsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := models.GetMerchItems(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

type updateMinimumLevelRequest struct {
	MinimumLevel int `json:"minimum_level"`
}

func updateItemMinimumLevelHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var req updateMinimumLevelRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		item, err := models.UpdateItemMinimumLevel(c.Request.Context(), id, req.MinimumLevel)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"item": item})
	}
}

func createProcurementRequestsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Requests []models.NewProcurementRequest `json:"requests" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		created, err := models.CreateProcurementRequests(c.Request.Context(), req.Requests)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"procurement_requests": created})
	}
}

func approveProcurementRequestHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		order, err := models.ApproveProcurementRequest(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"procurement_order": order})
	}
}

func denyProcurementRequestHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		if err := models.DenyProcurementRequest(c.Request.Context(), id); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func listProcurementRequestsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		requests, err := models.GetProcurementRequests(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"procurement_requests": requests})
	}
}

func updateProcurementStatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var req updateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		order, err := models.UpdateProcurementStatus(c.Request.Context(), id, req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"procurement_order": order})
	}
}

func listProcurementOrdersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := models.GetProcurementOrders(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"procurement_orders": orders})
	}
}

type updateShipmentStatusRequest struct {
	Status             string `json:"status" binding:"required"`
	ActualDeliveryWeek *int   `json:"actual_delivery_week"`
}

func updateShipmentStatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var req updateShipmentStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		shipment, err := models.UpdateShipmentStatus(c.Request.Context(), id, req.Status, req.ActualDeliveryWeek)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"shipment": shipment})
	}
}

func listShipmentsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		shipments, err := models.GetShipments(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"shipments": shipments})
	}
}

func updateInvoiceStatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var req updateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		invoice, err := models.UpdateInvoiceStatus(c.Request.Context(), id, req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"invoice": invoice})
	}
}

type invoicePaymentRequest struct {
	Amount string `json:"amount" binding:"required"`
}

func recordInvoicePaymentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var req invoicePaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		amount, err := utils.ParseDecimal(req.Amount)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
			return
		}
		invoice, err := models.RecordInvoicePayment(c.Request.Context(), id, amount)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"invoice": invoice})
	}
}

func listInvoicesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		invoices, err := models.GetInvoices(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"invoices": invoices})
	}
}

func invoiceAgingHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := models.GetInvoiceAgingSummary(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

func createJournalHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.NewJournal
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		entry, err := models.CreateJournal(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"journal_entry": entry})
	}
}

func listJournalsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := models.GetJournals(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"journal_entries": entries})
	}
}

func listAccountsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		accounts, err := models.GetAccounts(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"accounts": accounts})
	}
}

func snapshotHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		snapshot, err := models.GetSnapshot(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, snapshot)
	}
}

func snapshotExportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", `attachment; filename="accounting_snapshot.xlsx"`)
		if err := reports.WriteSnapshotExcel(c.Request.Context(), c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
}

func listTicketGamesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		games, err := models.GetTicketGames(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"games": games})
	}
}

type updateAttendanceRequest struct {
	AttendancePercentage float64 `json:"attendance_percentage"`
}

func updateGameAttendanceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var req updateAttendanceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		sales, err := models.UpdateGameAttendance(c.Request.Context(), id, req.AttendancePercentage)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ticket_sales": sales})
	}
}

type finalizeWeekRequest struct {
	Week int `json:"week" binding:"required"`
}

func finalizeTicketWeekHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req finalizeWeekRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		result, err := models.FinalizeTicketWeek(c.Request.Context(), req.Week)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func getTimelineHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		timeline, err := models.GetTimeline(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"timeline":   timeline,
			"week_label": utils.FormatWeekLabel(timeline.CurrentWeek),
		})
	}
}

func advanceWeekHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		timeline, err := models.AdvanceWeek(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"timeline":   timeline,
			"week_label": utils.FormatWeekLabel(timeline.CurrentWeek),
		})
	}
}

func getRosterHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		roster, err := models.GetRoster(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		payroll, err := models.TotalPayroll(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"roster": roster, "total_payroll": payroll})
	}
}

func customNotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
}

// timelineMiddleware loads the persisted week once per request so every
// operation downstream sees the same clock.
func timelineMiddleware(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		week, err := models.CurrentWeek(c.Request.Context())
		if err != nil {
			config.LogError(logger, "server.go", "timelineMiddleware", "models.CurrentWeek", nil, err)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "timeline unavailable"})
			return
		}
		c.Request = c.Request.WithContext(utils.SetCurrentWeekInContext(c.Request.Context(), week))
		c.Next()
	}
}

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	// Start the HTTP server before the DB is ready; app endpoints return
	// 503 until the connection is established.
	r := gin.New()
	// Correlation IDs: generate once per request and attach to context.
	r.Use(func(c *gin.Context) {
		cid := c.GetHeader("x-correlation-id")
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Request = c.Request.WithContext(utils.SetCorrelationIdInContext(c.Request.Context(), cid))
		c.Next()
	})
	r.Use(func(c *gin.Context) {
		if c.Request.URL.Path == "/healthz" {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		if config.GetDB() == nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	corsConfig := cors.DefaultConfig()
	// In production require an explicit allowlist; elsewhere allow all.
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("token", "Origin", "Content-Type", "Authorization")
	corsConfig.AddExposeHeaders("Content-Length", "Content-Disposition")
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	r.Use(timelineMiddleware(logger))
	r.Use(customErrorLogger(logger))
	r.Use(gin.Recovery())

	r.GET("/stores", listStoresHandler())
	r.GET("/items", listItemsHandler())
	r.PUT("/items/:id/minimum-level", updateItemMinimumLevelHandler())

	r.GET("/sales-orders", listSalesOrdersHandler())
	r.GET("/sales-orders/:id", getSalesOrderHandler())
	r.POST("/sales-orders", createSalesOrderHandler())
	r.PUT("/sales-orders/:id/status", updateSalesOrderStatusHandler())
	r.PUT("/sales-orders/:id/workflow", updateSalesOrderWorkflowHandler())
	r.POST("/sales-orders/resolve-backorders", resolveBackordersHandler())

	r.GET("/procurement-requests", listProcurementRequestsHandler())
	r.POST("/procurement-requests", createProcurementRequestsHandler())
	r.POST("/procurement-requests/:id/approve", approveProcurementRequestHandler())
	r.POST("/procurement-requests/:id/deny", denyProcurementRequestHandler())
	r.GET("/procurement-orders", listProcurementOrdersHandler())
	r.PUT("/procurement-orders/:id/status", updateProcurementStatusHandler())

	r.GET("/shipments", listShipmentsHandler())
	r.PUT("/shipments/:id/status", updateShipmentStatusHandler())

	r.GET("/invoices", listInvoicesHandler())
	r.GET("/invoices/aging", invoiceAgingHandler())
	r.PUT("/invoices/:id/status", updateInvoiceStatusHandler())
	r.POST("/invoices/:id/payments", recordInvoicePaymentHandler())

	r.GET("/accounts", listAccountsHandler())
	r.GET("/journals", listJournalsHandler())
	r.POST("/journals", createJournalHandler())
	r.GET("/snapshot", snapshotHandler())
	r.GET("/snapshot/export", snapshotExportHandler())

	r.GET("/ticketing/games", listTicketGamesHandler())
	r.PUT("/ticketing/games/:id/attendance", updateGameAttendanceHandler())
	r.POST("/ticketing/finalize-week", finalizeTicketWeekHandler())

	r.GET("/timeline", getTimelineHandler())
	r.POST("/timeline/advance", advanceWeekHandler())

	r.GET("/roster", getRosterHandler())

	r.NoRoute(customNotFoundHandler)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		// ListenAndServe returns http.ErrServerClosed on graceful shutdown.
		serverErrCh <- srv.ListenAndServe()
	}()

	// Connect the database after the port is open.
	config.ConnectDatabaseWithRetry()

	db := config.GetDB()
	sqlDB, _ := db.DB()
	defer func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()
	// AutoMigrate can run DDL that blocks tables; allow running migrations
	// as a separate job instead.
	if !strings.EqualFold(strings.TrimSpace(os.Getenv("SKIP_MIGRATIONS")), "true") {
		models.MigrateTable()
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping AutoMigrate on startup")
	}

	if err := models.SeedDefaults(context.Background()); err != nil {
		logger.WithFields(logrus.Fields{"field": "seed"}).Error("seeding defaults failed: " + err.Error())
	}

	logger.WithFields(logrus.Fields{
		"info": "Connection Established",
	}).Info(fmt.Sprintf("listening on http://localhost:%s/", port))
	log.Println("Server started successfully")

	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	shutdownTimeout := 30 * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}
}

// customErrorLogger is a custom Gin middleware that logs only errors
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			logger.Error(c.Errors.String())
		}
	}
}

func splitAndTrim(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
