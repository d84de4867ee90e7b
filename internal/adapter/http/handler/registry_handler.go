package handler

import (
	"campuscoin-ledger/internal/adapter/http/dto"
	"campuscoin-ledger/internal/core/ports"
	"campuscoin-ledger/pkg/apperror"
	"campuscoin-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// RegistryHandler handles the student and provider registries. Mutations
// require a JWT; the service layer enforces the admin-only rule.
type RegistryHandler struct {
	registrySvc ports.RegistryService
}

// NewRegistryHandler creates a new RegistryHandler.
func NewRegistryHandler(registrySvc ports.RegistryService) *RegistryHandler {
	return &RegistryHandler{registrySvc: registrySvc}
}

// AddStudent handles POST /api/v1/students.
func (h *RegistryHandler) AddStudent(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.AddStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	student, ok := bodyAddress(c, req.Student)
	if !ok {
		return
	}

	if err := h.registrySvc.AddStudent(c.Request.Context(), caller, student); err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.StudentResponse{Address: student.String(), IsStudent: true})
}

// RemoveStudent handles DELETE /api/v1/students/:address.
func (h *RegistryHandler) RemoveStudent(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	student, err := pathAddress(c, "address")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.registrySvc.RemoveStudent(c.Request.Context(), caller, student); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.StudentResponse{Address: student.String(), IsStudent: false})
}

// GetStudent handles GET /api/v1/students/:address.
func (h *RegistryHandler) GetStudent(c *gin.Context) {
	addr, err := pathAddress(c, "address")
	if err != nil {
		response.Error(c, err)
		return
	}

	isStudent, err := h.registrySvc.IsStudent(c.Request.Context(), addr)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.StudentResponse{Address: addr.String(), IsStudent: isStudent})
}

// AddProvider handles POST /api/v1/providers.
func (h *RegistryHandler) AddProvider(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.AddProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	provider, ok := bodyAddress(c, req.Provider)
	if !ok {
		return
	}

	if err := h.registrySvc.AddServiceProvider(c.Request.Context(), ports.AddProviderRequest{
		Caller:   caller,
		Provider: provider,
		Name:     req.Name,
		Category: req.Category,
	}); err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ProviderResponse{
		Address:  provider.String(),
		Name:     req.Name,
		Category: req.Category,
		Active:   true,
	})
}

// RemoveProvider handles DELETE /api/v1/providers/:address.
func (h *RegistryHandler) RemoveProvider(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	provider, err := pathAddress(c, "address")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.registrySvc.RemoveServiceProvider(c.Request.Context(), caller, provider); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"address": provider.String(), "active": false})
}

// UpdateProvider handles PUT /api/v1/providers/:address.
func (h *RegistryHandler) UpdateProvider(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	provider, err := pathAddress(c, "address")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.UpdateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	if err := h.registrySvc.UpdateServiceProvider(c.Request.Context(), ports.UpdateProviderRequest{
		Caller:   caller,
		Provider: provider,
		Name:     req.Name,
		Category: req.Category,
		Active:   *req.Active,
	}); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ProviderResponse{
		Address:  provider.String(),
		Name:     req.Name,
		Category: req.Category,
		Active:   *req.Active,
	})
}

// GetProvider handles GET /api/v1/providers/:address.
func (h *RegistryHandler) GetProvider(c *gin.Context) {
	addr, err := pathAddress(c, "address")
	if err != nil {
		response.Error(c, err)
		return
	}

	provider, err := h.registrySvc.ServiceProviderOf(c.Request.Context(), addr)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ProviderResponse{
		Address:  provider.Address.String(),
		Name:     provider.Name,
		Category: provider.Category,
		Active:   provider.Active,
	})
}
