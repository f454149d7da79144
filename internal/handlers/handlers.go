package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"portfolioboard/internal/models"
	"portfolioboard/internal/pipeline"
	"portfolioboard/internal/service"
)

type Handler struct {
	svc service.Provider
	log *logrus.Logger
}

func NewHandler(svc service.Provider, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) Register(r gin.IRouter) {
	r.GET("/dashboard", h.GetDashboard)
	r.GET("/summary", h.GetSummary)
	r.GET("/holdings/:market", h.GetHoldings)
	r.GET("/brokers/:market", h.GetBrokers)
	r.GET("/top-gainers/:market", h.GetTopGainers)
	r.POST("/refresh", h.PostRefresh)
}

// latest writes the error response itself when no snapshot can be served.
func (h *Handler) latest(c *gin.Context) (*models.Dashboard, bool) {
	d, err := h.svc.Latest()
	if err != nil {
		h.log.Warnf("no dashboard to serve: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "data unavailable"})
		return nil, false
	}
	return d, true
}

func (h *Handler) market(c *gin.Context) (models.Market, bool) {
	m, err := models.ParseMarket(c.Param("market"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return m, true
}

func (h *Handler) GetDashboard(c *gin.Context) {
	d, ok := h.latest(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) GetSummary(c *gin.Context) {
	d, ok := h.latest(c)
	if !ok {
		return
	}
	res := []models.MarketSummary{}
	for _, m := range models.Markets() {
		res = append(res, d.Summaries[m])
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) GetHoldings(c *gin.Context) {
	m, ok := h.market(c)
	if !ok {
		return
	}
	d, ok := h.latest(c)
	if !ok {
		return
	}
	items := d.ByMarket(m)
	status := "ok"
	if len(items) == 0 {
		status = "no_data"
	}
	c.JSON(http.StatusOK, gin.H{"market": m, "status": status, "items": items})
}

func (h *Handler) GetBrokers(c *gin.Context) {
	m, ok := h.market(c)
	if !ok {
		return
	}
	d, ok := h.latest(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, d.BrokersFor(m))
}

func (h *Handler) GetTopGainers(c *gin.Context) {
	m, ok := h.market(c)
	if !ok {
		return
	}
	n := 0
	if v := c.Query("n"); v != "" {
		iv, err := strconv.Atoi(v)
		if err != nil || iv <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "n must be a positive integer"})
			return
		}
		n = iv
	}
	d, ok := h.latest(c)
	if !ok {
		return
	}
	if n == 0 {
		c.JSON(http.StatusOK, d.TopGainers[m])
		return
	}
	c.JSON(http.StatusOK, pipeline.TopGainers(d.ByMarket(m), n))
}

func (h *Handler) PostRefresh(c *gin.Context) {
	d, err := h.svc.Refresh(c.Request.Context())
	if err != nil {
		h.log.Errorf("refresh failed: %v", err)
		if errors.Is(err, pipeline.ErrSchema) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "schema violation"})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "data unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshot_id": d.ID, "holdings": len(d.Holdings)})
}
