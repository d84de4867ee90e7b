package handler

import (
	"encoding/json"
	"strconv"
	"time"

	"campuscoin-ledger/internal/adapter/http/dto"
	"campuscoin-ledger/internal/core/ports"
	"campuscoin-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// QueryHandler handles the public read-only endpoints.
type QueryHandler struct {
	querySvc ports.QueryService
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(querySvc ports.QueryService) *QueryHandler {
	return &QueryHandler{querySvc: querySvc}
}

// GetTokenInfo handles GET /api/v1/ledger.
func (h *QueryHandler) GetTokenInfo(c *gin.Context) {
	info, err := h.querySvc.TokenInfo(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.TokenInfoResponse{
		Name:        info.Name,
		Symbol:      info.Symbol,
		TotalSupply: info.TotalSupply,
		Admin:       info.Admin.String(),
		University:  info.University.String(),
	})
}

// GetAccount handles GET /api/v1/accounts/:address.
func (h *QueryHandler) GetAccount(c *gin.Context) {
	addr, err := pathAddress(c, "address")
	if err != nil {
		response.Error(c, err)
		return
	}

	balance, err := h.querySvc.BalanceOf(c.Request.Context(), addr)
	if err != nil {
		response.Error(c, err)
		return
	}
	spent, err := h.querySvc.TotalSpentOf(c.Request.Context(), addr)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.AccountResponse{
		Address:    addr.String(),
		Balance:    balance,
		TotalSpent: spent,
	})
}

// GetAllowance handles GET /api/v1/accounts/:address/allowances/:spender.
func (h *QueryHandler) GetAllowance(c *gin.Context) {
	owner, err := pathAddress(c, "address")
	if err != nil {
		response.Error(c, err)
		return
	}
	spender, err := pathAddress(c, "spender")
	if err != nil {
		response.Error(c, err)
		return
	}

	allowance, err := h.querySvc.AllowanceOf(c.Request.Context(), owner, spender)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.AllowanceResponse{
		Owner:     owner.String(),
		Spender:   spender.String(),
		Allowance: allowance,
	})
}

// GetAudit handles GET /api/v1/ledger/audit.
func (h *QueryHandler) GetAudit(c *gin.Context) {
	report, err := h.querySvc.Audit(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.AuditResponse{
		TotalSupply: report.TotalSupply,
		SumBalances: report.SumBalances,
		Balanced:    report.Balanced,
	})
}

// ListEvents handles GET /api/v1/events.
func (h *QueryHandler) ListEvents(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	events, err := h.querySvc.ListEvents(c.Request.Context(), limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.EventResponse, 0, len(events))
	for _, evt := range events {
		var attrs interface{}
		if err := json.Unmarshal(evt.Attributes, &attrs); err != nil {
			attrs = string(evt.Attributes)
		}
		items = append(items, dto.EventResponse{
			ID:         evt.ID.String(),
			Type:       string(evt.Type),
			Attributes: attrs,
			CreatedAt:  evt.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	response.OK(c, dto.EventListResponse{
		Items:  items,
		Limit:  limit,
		Offset: offset,
	})
}
