package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gullyscore/cricket-scoring-service/internal/live"
	"github.com/gullyscore/cricket-scoring-service/internal/service"
	"github.com/gullyscore/cricket-scoring-service/pkg/response"
)

type MatchHandler struct {
	svc service.MatchService
	hub *live.Hub
}

func NewMatchHandler(svc service.MatchService, hub *live.Hub) *MatchHandler {
	return &MatchHandler{svc: svc, hub: hub}
}

func (h *MatchHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/matches")
	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.GET("/:id/summary", h.summary)
	g.GET("/:id/bowlers/available", h.availableBowlers)
	g.GET("/:id/live", h.liveFeed)
	g.POST("/:id/deliveries", h.recordDelivery)
	g.DELETE("/:id/deliveries/last", h.undoDelivery)
	g.POST("/:id/innings/continue", h.continueInnings)
	g.PUT("/:id/batsmen", h.setOpeners)
	g.PUT("/:id/batsman", h.setNewBatsman)
	g.PUT("/:id/bowler", h.setBowler)
}

type createMatchRequest struct {
	TeamAName    string  `json:"team_a_name"`
	TeamBName    string  `json:"team_b_name"`
	TeamARoster  []int64 `json:"team_a_roster"`
	TeamBRoster  []int64 `json:"team_b_roster"`
	TotalOvers   int     `json:"total_overs"`
	TossWinner   string  `json:"toss_winner"`
	TossDecision string  `json:"toss_decision"`
}

func (h *MatchHandler) create(c *gin.Context) {
	var req createMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	m, err := h.svc.CreateMatch(c.Request.Context(), service.NewMatchParams{
		TeamAName:    req.TeamAName,
		TeamBName:    req.TeamBName,
		TeamARoster:  req.TeamARoster,
		TeamBRoster:  req.TeamBRoster,
		TotalOvers:   req.TotalOvers,
		TossWinner:   req.TossWinner,
		TossDecision: req.TossDecision,
	})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, m)
}

func (h *MatchHandler) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	m, err := h.svc.GetMatch(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, m)
}

func (h *MatchHandler) list(c *gin.Context) {
	res, err := h.svc.ListMatches(c.Request.Context(), pageFromQuery(c))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}

func (h *MatchHandler) summary(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	sum, err := h.svc.Summary(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, sum)
}

func (h *MatchHandler) availableBowlers(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	bowlers, err := h.svc.AvailableBowlers(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, bowlers)
}

func (h *MatchHandler) recordDelivery(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in service.BallInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	res, err := h.svc.RecordDelivery(c.Request.Context(), id, in)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}

func (h *MatchHandler) undoDelivery(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	m, err := h.svc.UndoDelivery(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, m)
}

func (h *MatchHandler) continueInnings(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	m, err := h.svc.ContinueToSecondInnings(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, m)
}

type setOpenersRequest struct {
	StrikerID    int64 `json:"striker_id"`
	NonStrikerID int64 `json:"non_striker_id"`
}

func (h *MatchHandler) setOpeners(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req setOpenersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	m, err := h.svc.SetOpeners(c.Request.Context(), id, req.StrikerID, req.NonStrikerID)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, m)
}

type setBatsmanRequest struct {
	BatsmanID int64 `json:"batsman_id"`
}

func (h *MatchHandler) setNewBatsman(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req setBatsmanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	m, err := h.svc.SetNewBatsman(c.Request.Context(), id, req.BatsmanID)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, m)
}

type setBowlerRequest struct {
	BowlerID int64 `json:"bowler_id"`
}

func (h *MatchHandler) setBowler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req setBowlerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	m, err := h.svc.SetBowler(c.Request.Context(), id, req.BowlerID)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, m)
}

// liveFeed upgrades to WebSocket and streams score updates until the
// client disconnects.
func (h *MatchHandler) liveFeed(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	// Ensure the match exists before upgrading.
	if _, err := h.svc.GetMatch(c.Request.Context(), id); err != nil {
		response.WriteError(c, err)
		return
	}
	if err := h.hub.Subscribe(c.Writer, c.Request, id); err != nil {
		// Upgrade failures already wrote an HTTP error.
		return
	}
}
