package handler

import (
	"campuscoin-ledger/internal/adapter/http/dto"
	"campuscoin-ledger/internal/core/ports"
	"campuscoin-ledger/pkg/apperror"
	"campuscoin-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// LedgerHandler handles value-moving endpoints. All routes require a JWT;
// the caller address comes from the token, never from the body.
type LedgerHandler struct {
	ledgerSvc ports.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerSvc ports.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerSvc: ledgerSvc}
}

// Mint handles POST /api/v1/ledger/mint.
func (h *LedgerHandler) Mint(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.MintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	student, ok := bodyAddress(c, req.Student)
	if !ok {
		return
	}

	if err := h.ledgerSvc.Mint(c.Request.Context(), ports.MintRequest{
		Caller:  caller,
		Student: student,
		Amount:  req.Amount,
	}); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"student": req.Student, "amount": req.Amount})
}

// Burn handles POST /api/v1/ledger/burn.
func (h *LedgerHandler) Burn(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.BurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	if err := h.ledgerSvc.Burn(c.Request.Context(), ports.BurnRequest{
		Caller: caller,
		Amount: req.Amount,
	}); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"amount": req.Amount})
}

// Transfer handles POST /api/v1/ledger/transfer.
func (h *LedgerHandler) Transfer(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	to, ok := bodyAddress(c, req.To)
	if !ok {
		return
	}

	if err := h.ledgerSvc.Transfer(c.Request.Context(), ports.TransferRequest{
		Caller: caller,
		To:     to,
		Amount: req.Amount,
	}); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"to": req.To, "amount": req.Amount})
}

// Approve handles POST /api/v1/ledger/approve.
func (h *LedgerHandler) Approve(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	spender, ok := bodyAddress(c, req.Spender)
	if !ok {
		return
	}

	if err := h.ledgerSvc.Approve(c.Request.Context(), ports.ApproveRequest{
		Caller:  caller,
		Spender: spender,
		Amount:  *req.Amount,
	}); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"spender": req.Spender, "amount": *req.Amount})
}

// TransferFrom handles POST /api/v1/ledger/transfer-from.
func (h *LedgerHandler) TransferFrom(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.TransferFromRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	from, ok := bodyAddress(c, req.From)
	if !ok {
		return
	}
	to, ok := bodyAddress(c, req.To)
	if !ok {
		return
	}

	if err := h.ledgerSvc.TransferFrom(c.Request.Context(), ports.TransferFromRequest{
		Caller: caller,
		From:   from,
		To:     to,
		Amount: req.Amount,
	}); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"from": req.From, "to": req.To, "amount": req.Amount})
}

// PayService handles POST /api/v1/ledger/pay.
func (h *LedgerHandler) PayService(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.PayServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	provider, ok := bodyAddress(c, req.Provider)
	if !ok {
		return
	}

	receipt, err := h.ledgerSvc.PayService(c.Request.Context(), ports.PayServiceRequest{
		Caller:   caller,
		Provider: provider,
		Amount:   req.Amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.PaymentReceiptResponse{
		Student:       receipt.Student.String(),
		Provider:      receipt.Provider.String(),
		Amount:        receipt.Amount,
		Fee:           receipt.Fee,
		ProviderShare: receipt.ProviderShare,
	})
}
