package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gullyscore/cricket-scoring-service/internal/repository"
	"github.com/gullyscore/cricket-scoring-service/internal/service"
	"github.com/gullyscore/cricket-scoring-service/pkg/response"
)

type PlayerHandler struct {
	svc service.PlayerService
}

func NewPlayerHandler(svc service.PlayerService) *PlayerHandler { return &PlayerHandler{svc: svc} }

func (h *PlayerHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/players")
	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.GET("/:id/stats", h.careerStats)
}

type createPlayerRequest struct {
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
	PhotoURL  string `json:"photo_url"`
	InGroup   bool   `json:"in_group"`
}

func (h *PlayerHandler) create(c *gin.Context) {
	var req createPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	p, err := h.svc.CreatePlayer(c.Request.Context(), req.Name, req.ShortName, req.PhotoURL, req.InGroup)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, p)
}

func (h *PlayerHandler) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	p, err := h.svc.GetPlayer(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, p)
}

func (h *PlayerHandler) list(c *gin.Context) {
	page := pageFromQuery(c)
	res, err := h.svc.ListPlayers(c.Request.Context(), page)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}

type careerStatsResponse struct {
	PlayerID int64 `json:"player_id"`
	Stats    any   `json:"stats"`
	Rates    any   `json:"rates"`
}

func (h *PlayerHandler) careerStats(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	s, rates, err := h.svc.CareerStats(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, careerStatsResponse{PlayerID: id, Stats: s, Rates: rates})
}

// parseID pulls the :id path parameter; on failure it writes the error
// response itself and reports false.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{Field: "id", Message: "must be a valid integer > 0"}}))
		return 0, false
	}
	return id, true
}

func pageFromQuery(c *gin.Context) repository.Page {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	return repository.Page{Limit: limit, Offset: offset}
}
