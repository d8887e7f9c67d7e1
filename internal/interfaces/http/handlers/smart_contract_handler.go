package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"artmarket.backoffice/internal/domain/entities"
	domainerrors "artmarket.backoffice/internal/domain/errors"
	"artmarket.backoffice/internal/interfaces/http/response"
	"artmarket.backoffice/pkg/utils"
)

// SmartContractService is the contract registry as seen by the HTTP layer
type SmartContractService interface {
	CreateSmartContract(ctx context.Context, input *entities.CreateSmartContractInput) (*entities.SmartContract, error)
	GetSmartContract(ctx context.Context, id int64) (*entities.SmartContract, error)
	ListSmartContracts(ctx context.Context, pagination utils.PaginationParams) ([]*entities.SmartContract, utils.PaginationMeta, error)
	UpdateSmartContract(ctx context.Context, id int64, input *entities.UpdateSmartContractInput) (*entities.SmartContract, error)
	DeleteSmartContract(ctx context.Context, id int64) error
}

// SmartContractHandler handles smart contract endpoints
type SmartContractHandler struct {
	service SmartContractService
}

// NewSmartContractHandler creates a new smart contract handler
func NewSmartContractHandler(service SmartContractService) *SmartContractHandler {
	return &SmartContractHandler{service: service}
}

// CreateSmartContract creates a new smart contract record
// POST /api/v1/contracts
func (h *SmartContractHandler) CreateSmartContract(c *gin.Context) {
	var input entities.CreateSmartContractInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	contract, err := h.service.CreateSmartContract(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"contract": contract})
}

// GetSmartContract gets a smart contract by ID
// GET /api/v1/contracts/:id
func (h *SmartContractHandler) GetSmartContract(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		response.Error(c, domainerrors.BadRequest("Invalid contract ID"))
		return
	}

	contract, err := h.service.GetSmartContract(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"contract": contract})
}

// ListSmartContracts lists all smart contracts
// GET /api/v1/contracts
func (h *SmartContractHandler) ListSmartContracts(c *gin.Context) {
	contracts, meta, err := h.service.ListSmartContracts(c.Request.Context(), paginationFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"items": contracts,
		"meta":  meta,
	})
}

// UpdateSmartContract updates a smart contract
// PUT /api/v1/contracts/:id
func (h *SmartContractHandler) UpdateSmartContract(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		response.Error(c, domainerrors.BadRequest("Invalid contract ID"))
		return
	}

	var input entities.UpdateSmartContractInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	contract, err := h.service.UpdateSmartContract(c.Request.Context(), id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Contract updated", "contract": contract})
}

// DeleteSmartContract soft deletes a smart contract
// DELETE /api/v1/contracts/:id
func (h *SmartContractHandler) DeleteSmartContract(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		response.Error(c, domainerrors.BadRequest("Invalid contract ID"))
		return
	}

	if err := h.service.DeleteSmartContract(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Contract deleted successfully"})
}
