package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"artmarket.backoffice/internal/domain/entities"
	domainerrors "artmarket.backoffice/internal/domain/errors"
	"artmarket.backoffice/internal/interfaces/http/middleware"
	"artmarket.backoffice/internal/interfaces/http/response"
	"artmarket.backoffice/pkg/utils"
)

// CollectionService is the collection usecase as seen by the HTTP layer
type CollectionService interface {
	CreateCollection(ctx context.Context, input *entities.CreateCollectionInput) (*entities.Collection, error)
	GetCollection(ctx context.Context, id int64) (*entities.Collection, error)
	ListCollections(ctx context.Context, status *entities.CollectionStatus, pagination utils.PaginationParams) ([]*entities.Collection, utils.PaginationMeta, error)
	UpdateCollection(ctx context.Context, id int64, input *entities.UpdateCollectionInput) (*entities.Collection, error)
	SyncCollection(ctx context.Context, id int64) *entities.SyncCollectionResult
	SyncPendingCollections(ctx context.Context, limit int) ([]*entities.SyncCollectionResult, error)
}

// CollectionHandler handles collection endpoints
type CollectionHandler struct {
	service CollectionService
}

// NewCollectionHandler creates a new collection handler
func NewCollectionHandler(service CollectionService) *CollectionHandler {
	return &CollectionHandler{service: service}
}

// CreateCollection registers a collection awaiting deployment
// POST /api/v1/collections
func (h *CollectionHandler) CreateCollection(c *gin.Context) {
	var input entities.CreateCollectionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	collection, err := h.service.CreateCollection(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"collection": collection})
}

// GetCollection gets a collection by ID
// GET /api/v1/collections/:id
func (h *CollectionHandler) GetCollection(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		response.Error(c, domainerrors.BadRequest("Invalid collection ID"))
		return
	}

	collection, err := h.service.GetCollection(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"collection": collection})
}

// ListCollections lists collections, optionally filtered by ?status=
// GET /api/v1/collections
func (h *CollectionHandler) ListCollections(c *gin.Context) {
	pagination := paginationFromQuery(c)

	var status *entities.CollectionStatus
	if raw := c.Query("status"); raw != "" {
		s := entities.CollectionStatus(raw)
		status = &s
	}

	items, meta, err := h.service.ListCollections(c.Request.Context(), status, pagination)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"items": items,
		"meta":  meta,
	})
}

// UpdateCollection applies a partial update
// PATCH /api/v1/collections/:id
func (h *CollectionHandler) UpdateCollection(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		response.Error(c, domainerrors.BadRequest("Invalid collection ID"))
		return
	}

	var input entities.UpdateCollectionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	collection, err := h.service.UpdateCollection(c.Request.Context(), id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"collection": collection})
}

// SyncCollection reconciles one collection with its deployment receipt.
// The outcome is always returned in the body; only a missing collection changes the status code.
// POST /api/v1/collections/:id/sync
func (h *CollectionHandler) SyncCollection(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		response.Error(c, domainerrors.BadRequest("Invalid collection ID"))
		return
	}

	result := h.service.SyncCollection(c.Request.Context(), id)
	status := http.StatusOK
	if result.Code == domainerrors.CodeNotFound {
		status = http.StatusNotFound
	}
	// a retry must reach the reconciler again
	if !result.Success || result.Code == domainerrors.CodePendingConfirmation {
		middleware.SkipIdempotentStore(c)
	}
	response.Success(c, status, result)
}

// SyncPendingCollections reconciles a batch of pending collections
// POST /api/v1/collections/sync-pending?limit=N
func (h *CollectionHandler) SyncPendingCollections(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil || limit < 0 {
		response.Error(c, domainerrors.BadRequest("Invalid limit"))
		return
	}

	results, err := h.service.SyncPendingCollections(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	updated := 0
	for _, r := range results {
		if r.Updated {
			updated++
		}
	}
	response.Success(c, http.StatusOK, gin.H{
		"results": results,
		"total":   len(results),
		"updated": updated,
	})
}
