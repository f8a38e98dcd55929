package stubapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"github.com/luki/airguard/internal/logger"
	"github.com/luki/airguard/internal/sensor"
)

// BasePath mirrors the upstream API prefix.
const BasePath = "/iot/api"

const (
	errInvalidBody  = "invalid body: "
	errUnknownRange = "no range configured for sensor/room"
)

// Handler wires HTTP routes to the in-memory store.
type Handler struct {
	store *Store
	log   *logger.Logger
}

// NewHandler constructs a handler over store.
func NewHandler(store *Store, log *logger.Logger) *Handler {
	return &Handler{store: store, log: log}
}

type registroDTO struct {
	IDCuarto  int     `json:"id_cuarto"`
	FechaGMT6 string  `json:"fecha_gmt6"`
	Temp      float64 `json:"temp"`
	Humedad   float64 `json:"humedad"`
	Calidad   float64 `json:"calidad"`
}

type rangeDTO struct {
	Minimum float64 `json:"minimum"`
	Maximum float64 `json:"maximum"`
}

type rangeRequest struct {
	Sensor   string `json:"sensor" binding:"required"`
	IDCuarto int    `json:"id_cuarto" binding:"required"`
}

type changeRangeRequest struct {
	Sensor   string   `json:"sensor" binding:"required"`
	IDCuarto int      `json:"id_cuarto" binding:"required"`
	Minimum  *float64 `json:"minimum" binding:"required"`
	Maximum  *float64 `json:"maximum" binding:"required"`
}

// InitRoutes builds the gin router wrapped in a permissive CORS handler
// so browser dashboards can call it cross-origin.
func (h *Handler) InitRoutes() http.Handler {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", h.health)

	api := router.Group(BasePath)
	{
		api.GET("/getRegistros", h.getRegistros)
		api.POST("/getRange", h.getRange)
		api.POST("/changeRange", h.changeRange)
	}

	return cors.AllowAll().Handler(router)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) getRegistros(c *gin.Context) {
	readings := h.store.Readings()
	out := make([]registroDTO, 0, len(readings))
	for _, r := range readings {
		out = append(out, registroDTO{
			IDCuarto:  int(r.Room),
			FechaGMT6: r.Timestamp,
			Temp:      r.Temperature,
			Humedad:   r.Humidity,
			Calidad:   r.AirQuality,
		})
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (h *Handler) getRange(c *gin.Context) {
	var req rangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBody + err.Error()})
		return
	}
	r, ok := h.store.Range(sensor.Kind(req.Sensor), sensor.Room(req.IDCuarto))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": errUnknownRange})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": []rangeDTO{{Minimum: r.Min, Maximum: r.Max}}})
}

func (h *Handler) changeRange(c *gin.Context) {
	var req changeRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBody + err.Error()})
		return
	}
	tr := sensor.ThresholdRange{
		Sensor: sensor.Kind(req.Sensor),
		Room:   sensor.Room(req.IDCuarto),
		Range:  sensor.Range{Min: *req.Minimum, Max: *req.Maximum},
	}
	if err := h.store.SetRange(tr); err != nil {
		if h.log != nil {
			h.log.Warnw("change_range_rejected", "err", err, "sensor", req.Sensor, "room", req.IDCuarto)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if h.log != nil {
		h.log.Infow("change_range", "sensor", req.Sensor, "room", req.IDCuarto, "min", tr.Min, "max", tr.Max)
	}
	c.JSON(http.StatusOK, gin.H{"message": "range updated"})
}
