package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"inventory-service/internal/service"
	"inventory-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	items  *service.ItemService
	forms  *service.FormService
	firms  *service.FirmService
	ledger *service.LedgerService
}

// NewHandler creates a new HTTP handler
func NewHandler(items *service.ItemService, forms *service.FormService, firms *service.FirmService, ledger *service.LedgerService) *Handler {
	return &Handler{
		items:  items,
		forms:  forms,
		firms:  firms,
		ledger: ledger,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/items", h.createItem)
		v1.GET("/items", h.listItems)
		v1.GET("/items/search", h.searchItems)
		v1.GET("/items/find", h.findItem)
		v1.GET("/items/stock", h.itemStock)
		v1.PATCH("/items", h.updateItem)
		v1.DELETE("/items", h.deleteItem)

		v1.POST("/forms", h.submitForm)
		v1.GET("/forms", h.listForms)
		v1.PATCH("/forms", h.updateForm)
		v1.DELETE("/forms", h.deleteForm)

		v1.POST("/firms", h.createFirm)
		v1.GET("/firms", h.listFirms)
		v1.GET("/firms/find", h.findFirm)
		v1.PATCH("/firms", h.updateFirm)
		v1.DELETE("/firms", h.deleteFirm)

		v1.GET("/consumed", h.syncConsumed)
		v1.GET("/consumed/records", h.listConsumedRecords)
	}
}

// ok writes the uniform success envelope with the entity under key
func ok(c *gin.Context, status int, key string, entity interface{}, message string) {
	c.JSON(status, gin.H{
		"success": true,
		key:       entity,
		"message": message,
	})
}

// fail translates a service error into the uniform failure envelope
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "Unexpected server error"

	var validation *service.ValidationError
	var notFound *service.NotFoundError
	var conflict *service.ConflictError
	var unavailable *service.UnavailableError
	var insufficient *service.InsufficientStockError

	switch {
	case errors.As(err, &validation),
		errors.As(err, &unavailable),
		errors.As(err, &insufficient):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.As(err, &notFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.As(err, &conflict):
		status = http.StatusConflict
		message = err.Error()
	default:
		util.GetLogger().Error("request failed: " + err.Error())
	}

	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// idOrName reads the id-or-name selector from query parameters
func idOrName(c *gin.Context) (int64, string) {
	id, _ := strconv.ParseInt(c.Query("id"), 10, 64)
	return id, c.Query("name")
}

func (h *Handler) createItem(c *gin.Context) {
	var req service.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, &service.ValidationError{Message: "Invalid request body"})
		return
	}

	item, err := h.items.CreateItem(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, "item", item, "Item created successfully")
}

func (h *Handler) listItems(c *gin.Context) {
	items, err := h.items.ListItems(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "items", items, "Items fetched successfully")
}

func (h *Handler) searchItems(c *gin.Context) {
	items, err := h.items.SearchItems(c.Request.Context(), c.Query("name"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "items", items, "Items fetched successfully")
}

func (h *Handler) findItem(c *gin.Context) {
	id, name := idOrName(c)
	item, err := h.items.FindItem(c.Request.Context(), id, name)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "item", item, "Item fetched successfully")
}

func (h *Handler) itemStock(c *gin.Context) {
	id, name := idOrName(c)
	item, quantity, err := h.items.GetStock(c.Request.Context(), id, name)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"itemId":      item.ID,
		"name":        item.Name,
		"quantity":    quantity,
		"isAvailable": item.IsAvailable,
		"message":     "Stock fetched successfully",
	})
}

func (h *Handler) updateItem(c *gin.Context) {
	var req service.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, &service.ValidationError{Message: "Invalid request body"})
		return
	}

	item, err := h.items.UpdateItem(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "item", item, "Item updated successfully")
}

func (h *Handler) deleteItem(c *gin.Context) {
	var req struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, &service.ValidationError{Message: "Invalid request body"})
		return
	}

	item, err := h.items.DeleteItem(c.Request.Context(), req.ID, req.Name)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "item", item, "Item deleted successfully")
}

func (h *Handler) submitForm(c *gin.Context) {
	var req service.SubmitFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, &service.ValidationError{Message: "Invalid request body"})
		return
	}

	form, err := h.forms.SubmitForm(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, "form", form, "Form created successfully")
}

func (h *Handler) listForms(c *gin.Context) {
	forms, err := h.forms.ListForms(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "forms", forms, "Forms fetched successfully")
}

func (h *Handler) updateForm(c *gin.Context) {
	var req service.UpdateFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, &service.ValidationError{Message: "Invalid request body"})
		return
	}

	form, err := h.forms.UpdateForm(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "form", form, "Form updated successfully")
}

func (h *Handler) deleteForm(c *gin.Context) {
	var req struct {
		FormID  int64 `json:"formId"`
		Restock bool  `json:"restock"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, &service.ValidationError{Message: "Invalid request body"})
		return
	}

	form, err := h.forms.DeleteForm(c.Request.Context(), req.FormID, req.Restock)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "form", form, "Form deleted successfully")
}

func (h *Handler) createFirm(c *gin.Context) {
	var req service.CreateFirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, &service.ValidationError{Message: "Invalid request body"})
		return
	}

	firm, err := h.firms.CreateFirm(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, "firm", firm, "Firm created successfully")
}

func (h *Handler) listFirms(c *gin.Context) {
	firms, err := h.firms.ListFirms(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "firms", firms, "Firms fetched successfully")
}

func (h *Handler) findFirm(c *gin.Context) {
	id, name := idOrName(c)
	firm, err := h.firms.FindFirm(c.Request.Context(), id, name)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "firm", firm, "Firm fetched successfully")
}

func (h *Handler) updateFirm(c *gin.Context) {
	var req service.UpdateFirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, &service.ValidationError{Message: "Invalid request body"})
		return
	}

	firm, err := h.firms.UpdateFirm(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "firm", firm, "Firm updated successfully")
}

func (h *Handler) deleteFirm(c *gin.Context) {
	var req struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, &service.ValidationError{Message: "Invalid request body"})
		return
	}

	firm, err := h.firms.DeleteFirm(c.Request.Context(), req.ID, req.Name)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "firm", firm, "Firm deleted successfully")
}

func (h *Handler) syncConsumed(c *gin.Context) {
	records, err := h.ledger.SyncConsumed(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "records", records, "Consumed items recorded successfully")
}

func (h *Handler) listConsumedRecords(c *gin.Context) {
	records, err := h.ledger.ListRecords(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "records", records, "Consumed records fetched successfully")
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
