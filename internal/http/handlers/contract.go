package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainagg "github.com/yungbote/collab-backend/internal/domain/aggregates"
	"github.com/yungbote/collab-backend/internal/http/response"
	"github.com/yungbote/collab-backend/internal/services"
)

type ContractHandler struct {
	lifecycle services.LifecycleService
}

func NewContractHandler(lifecycle services.LifecycleService) *ContractHandler {
	return &ContractHandler{lifecycle: lifecycle}
}

type escrowReq struct {
	GatewayRef string `json:"gateway_ref"`
}

// POST /api/contracts/:id/fund
func (h *ContractHandler) Fund(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	contractID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req escrowReq
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	res, err := h.lifecycle.FundEscrow(c.Request.Context(), actor, contractID, req.GatewayRef)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, escrowBody(res))
}

// POST /api/contracts/:id/release
func (h *ContractHandler) Release(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	contractID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req escrowReq
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	res, err := h.lifecycle.ReleaseEscrow(c.Request.Context(), actor, contractID, req.GatewayRef)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, escrowBody(res))
}

func escrowBody(res domainagg.EscrowResult) gin.H {
	return gin.H{
		"contract_id":     res.ContractID,
		"transaction":     res.Transaction,
		"contract_status": res.ContractStatus,
		"status":          res.RelationshipStatus,
		"totals":          res.Totals,
		"already_funded":  res.AlreadyFunded,
	}
}

type directHireReq struct {
	CampaignID  uuid.UUID  `json:"campaign_id" binding:"required"`
	CreatorID   uuid.UUID  `json:"creator_id" binding:"required"`
	Amount      *float64   `json:"amount" binding:"required"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Terms       string     `json:"terms"`
	DueDate     *time.Time `json:"due_date"`
}

// POST /api/direct-hires
func (h *ContractHandler) DirectHire(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req directHireReq
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.lifecycle.DirectHire(c.Request.Context(), actor, services.DirectHireRequest{
		CampaignID:  req.CampaignID,
		CreatorID:   req.CreatorID,
		Amount:      *req.Amount,
		Title:       req.Title,
		Description: req.Description,
		Terms:       req.Terms,
		DueDate:     req.DueDate,
	})
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	body := contractBody(res.Contract, res.Escrow, res.Deliverables, res.RelationshipStatus)
	body["relationship_id"] = res.Parties.RelationshipID
	body["relationship_created"] = res.RelationshipCreated
	response.RespondCreated(c, body)
}
