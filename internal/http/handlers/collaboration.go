package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/collab-backend/internal/domain/collab"
	"github.com/yungbote/collab-backend/internal/http/response"
	"github.com/yungbote/collab-backend/internal/services"
)

type CollaborationHandler struct {
	lifecycle services.LifecycleService
}

func NewCollaborationHandler(lifecycle services.LifecycleService) *CollaborationHandler {
	return &CollaborationHandler{lifecycle: lifecycle}
}

type inviteReq struct {
	CreatorID uuid.UUID `json:"creator_id" binding:"required"`
}

// POST /api/campaigns/:id/candidates
func (h *CollaborationHandler) Invite(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	campaignID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req inviteReq
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.lifecycle.Invite(c.Request.Context(), actor, campaignID, req.CreatorID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{
		"relationship_id": res.Parties.RelationshipID,
		"status":          res.Status,
	})
}

// GET /api/campaigns/:id/candidates?status=HIRED
func (h *CollaborationHandler) ListForCampaign(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	campaignID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	rows, err := h.lifecycle.ListForCampaign(c.Request.Context(), actor, campaignID, queryStatuses(c))
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"collaborations": rows})
}

// GET /api/creators/:id/collaborations
func (h *CollaborationHandler) ListForCreator(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	creatorID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	rows, err := h.lifecycle.ListForCreator(c.Request.Context(), actor, creatorID, queryStatuses(c))
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"collaborations": rows})
}

// GET /api/collaborations/:id
func (h *CollaborationHandler) Get(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	relID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	view, err := h.lifecycle.GetCollaboration(c.Request.Context(), actor, relID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, view)
}

type respondReq struct {
	Action string `json:"action" binding:"required"`
}

// POST /api/collaborations/:id/respond
func (h *CollaborationHandler) Respond(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	relID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req respondReq
	if !bindJSON(c, &req) {
		return
	}
	action, valid := collab.ParseInvitationAction(req.Action)
	if !valid {
		response.RespondError(c, http.StatusBadRequest, "invalid_action", errors.New("action must be ACCEPT or DECLINE"))
		return
	}
	res, err := h.lifecycle.RespondToInvitation(c.Request.Context(), actor, relID, action)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"relationship_id": relID, "status": res.Status})
}

type offerReq struct {
	Amount      *float64 `json:"amount" binding:"required"`
	Description string   `json:"deliverables_description"`
}

// PUT /api/collaborations/:id/offer
func (h *CollaborationHandler) UpsertOffer(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	relID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req offerReq
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.lifecycle.CreateOrUpdateOffer(c.Request.Context(), actor, relID, *req.Amount, req.Description)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	body := gin.H{"offer": res.Offer, "created": res.Created, "status": res.RelationshipStatus}
	if res.Created {
		response.RespondCreated(c, body)
		return
	}
	response.RespondOK(c, body)
}

// POST /api/collaborations/:id/offer/finalize
func (h *CollaborationHandler) FinalizeOffer(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	relID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	res, err := h.lifecycle.FinalizeOffer(c.Request.Context(), actor, relID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondCreated(c, contractBody(res.Contract, res.Escrow, res.Deliverables, res.RelationshipStatus))
}

// POST /api/collaborations/:id/reject
func (h *CollaborationHandler) Reject(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	relID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	res, err := h.lifecycle.RejectCandidate(c.Request.Context(), actor, relID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"relationship_id": relID, "status": res.Status})
}

type statusReq struct {
	Status string `json:"status" binding:"required"`
}

// PUT /api/collaborations/:id/status
func (h *CollaborationHandler) UpdateStatus(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	relID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req statusReq
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.lifecycle.UpdateStatus(c.Request.Context(), actor, relID, collab.CandidateStatus(strings.ToUpper(strings.TrimSpace(req.Status))))
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"relationship_id": relID, "previous_status": res.PreviousStatus, "status": res.Status})
}

type submitReq struct {
	DeliverableID *uuid.UUID `json:"deliverable_id"`
	URL           string     `json:"url"`
	Notes         string     `json:"notes"`
}

// POST /api/collaborations/:id/deliverables/submit
func (h *CollaborationHandler) SubmitDeliverable(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	relID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req submitReq
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.lifecycle.SubmitDeliverable(c.Request.Context(), actor, services.SubmitDeliverableRequest{
		RelationshipID: relID,
		DeliverableID:  req.DeliverableID,
		URL:            req.URL,
		Notes:          req.Notes,
	})
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, deliverableBody(res.Deliverable, res.Progress, res.RelationshipStatus))
}

// POST /api/collaborations/:id/deliverables/:deliverableId/approve
func (h *CollaborationHandler) ApproveDeliverable(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	relID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	deliverableID, ok := uuidParam(c, "deliverableId")
	if !ok {
		return
	}
	res, err := h.lifecycle.ApproveDeliverable(c.Request.Context(), actor, relID, deliverableID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, deliverableBody(res.Deliverable, res.Progress, res.RelationshipStatus))
}

type revisionReq struct {
	Reason string `json:"reason"`
}

// POST /api/collaborations/:id/deliverables/:deliverableId/revision
func (h *CollaborationHandler) RequestRevision(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	relID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	deliverableID, ok := uuidParam(c, "deliverableId")
	if !ok {
		return
	}
	var req revisionReq
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	res, err := h.lifecycle.RequestRevision(c.Request.Context(), actor, relID, deliverableID, strings.TrimSpace(req.Reason))
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, deliverableBody(res.Deliverable, res.Progress, res.RelationshipStatus))
}

// POST /api/collaborations/:id/complete
func (h *CollaborationHandler) Complete(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	relID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	res, err := h.lifecycle.MarkComplete(c.Request.Context(), actor, relID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"relationship_id": relID, "status": res.Status, "contract_id": res.ContractID})
}

func contractBody(contract collab.Contract, escrow collab.EscrowTransaction, deliverables []collab.Deliverable, status collab.CandidateStatus) gin.H {
	return gin.H{
		"contract":     contract,
		"escrow":       escrow,
		"deliverables": deliverables,
		"status":       status,
	}
}

func deliverableBody(d collab.Deliverable, progress int, status collab.CandidateStatus) gin.H {
	return gin.H{"deliverable": d, "progress": progress, "status": status}
}
