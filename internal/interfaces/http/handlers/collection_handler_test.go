package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"artmarket.backoffice/internal/domain/entities"
	domainerrors "artmarket.backoffice/internal/domain/errors"
	"artmarket.backoffice/internal/interfaces/http/middleware"
	redispkg "artmarket.backoffice/pkg/redis"
	"artmarket.backoffice/pkg/utils"
)

const validTxHash = "0xabababababababababababababababababababababababababababababababab"

type collectionServiceStub struct {
	createFn      func(ctx context.Context, input *entities.CreateCollectionInput) (*entities.Collection, error)
	getFn         func(ctx context.Context, id int64) (*entities.Collection, error)
	listFn        func(ctx context.Context, status *entities.CollectionStatus, pagination utils.PaginationParams) ([]*entities.Collection, utils.PaginationMeta, error)
	updateFn      func(ctx context.Context, id int64, input *entities.UpdateCollectionInput) (*entities.Collection, error)
	syncFn        func(ctx context.Context, id int64) *entities.SyncCollectionResult
	syncPendingFn func(ctx context.Context, limit int) ([]*entities.SyncCollectionResult, error)
}

func (s *collectionServiceStub) CreateCollection(ctx context.Context, input *entities.CreateCollectionInput) (*entities.Collection, error) {
	if s.createFn != nil {
		return s.createFn(ctx, input)
	}
	return &entities.Collection{ID: 1, Status: entities.CollectionStatusPending}, nil
}

func (s *collectionServiceStub) GetCollection(ctx context.Context, id int64) (*entities.Collection, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return nil, domainerrors.NotFound("Collection introuvable")
}

func (s *collectionServiceStub) ListCollections(ctx context.Context, status *entities.CollectionStatus, pagination utils.PaginationParams) ([]*entities.Collection, utils.PaginationMeta, error) {
	if s.listFn != nil {
		return s.listFn(ctx, status, pagination)
	}
	return []*entities.Collection{}, utils.PaginationMeta{}, nil
}

func (s *collectionServiceStub) UpdateCollection(ctx context.Context, id int64, input *entities.UpdateCollectionInput) (*entities.Collection, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, id, input)
	}
	return &entities.Collection{ID: id}, nil
}

func (s *collectionServiceStub) SyncCollection(ctx context.Context, id int64) *entities.SyncCollectionResult {
	if s.syncFn != nil {
		return s.syncFn(ctx, id)
	}
	return &entities.SyncCollectionResult{CollectionID: id, Success: true, Message: "Aucune mise à jour nécessaire"}
}

func (s *collectionServiceStub) SyncPendingCollections(ctx context.Context, limit int) ([]*entities.SyncCollectionResult, error) {
	if s.syncPendingFn != nil {
		return s.syncPendingFn(ctx, limit)
	}
	return nil, nil
}

func newCollectionRouter(h *CollectionHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/collections", h.CreateCollection)
	r.GET("/collections", h.ListCollections)
	r.POST("/collections/sync-pending", h.SyncPendingCollections)
	r.GET("/collections/:id", h.GetCollection)
	r.PATCH("/collections/:id", h.UpdateCollection)
	r.POST("/collections/:id/sync", h.SyncCollection)
	return r
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCollectionHandler_Create(t *testing.T) {
	var got *entities.CreateCollectionInput
	r := newCollectionRouter(NewCollectionHandler(&collectionServiceStub{
		createFn: func(_ context.Context, input *entities.CreateCollectionInput) (*entities.Collection, error) {
			got = input
			return &entities.Collection{ID: 42, Symbol: input.Symbol, Status: entities.CollectionStatusPending}, nil
		},
	}))

	w := doJSON(r, http.MethodPost, "/collections",
		`{"name":"Nocturnes","symbol":"NOCT","artistId":1,"smartContractId":5,"transactionHash":"`+validTxHash+`"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Contains(t, w.Body.String(), `"status":"pending"`)
	require.Equal(t, validTxHash, got.TransactionHash)
}

func TestCollectionHandler_CreateValidation(t *testing.T) {
	r := newCollectionRouter(NewCollectionHandler(&collectionServiceStub{}))

	for _, body := range []string{
		`{`,
		`{"symbol":"NOCT","artistId":1,"smartContractId":5}`,
		`{"name":"Nocturnes","symbol":"NOCT","artistId":0,"smartContractId":5}`,
		`{"name":"Nocturnes","symbol":"NOCT","artistId":1,"smartContractId":5,"transactionHash":"0xabc"}`,
		`{"name":"Nocturnes","symbol":"NOCT","artistId":1,"smartContractId":5,"transactionHash":"0xzzababababababababababababababababababababababababababababababab"}`,
	} {
		w := doJSON(r, http.MethodPost, "/collections", body)
		require.Equal(t, http.StatusBadRequest, w.Code, body)
		require.Contains(t, w.Body.String(), domainerrors.CodeInvalidInput, body)
	}
}

func TestCollectionHandler_CreateConflict(t *testing.T) {
	r := newCollectionRouter(NewCollectionHandler(&collectionServiceStub{
		createFn: func(context.Context, *entities.CreateCollectionInput) (*entities.Collection, error) {
			return nil, domainerrors.SymbolContractConflict("ce symbole est déjà utilisé pour ce smart contract")
		},
	}))

	w := doJSON(r, http.MethodPost, "/collections", `{"name":"Nocturnes","symbol":"NOCT","artistId":1,"smartContractId":5}`)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Contains(t, w.Body.String(), domainerrors.CodeSymbolContractConflict)
}

func TestCollectionHandler_GetAndList(t *testing.T) {
	var listed *entities.CollectionStatus
	var page utils.PaginationParams
	r := newCollectionRouter(NewCollectionHandler(&collectionServiceStub{
		getFn: func(_ context.Context, id int64) (*entities.Collection, error) {
			if id == 7 {
				return &entities.Collection{ID: 7, Symbol: "NOCT"}, nil
			}
			return nil, domainerrors.NotFound("Collection introuvable")
		},
		listFn: func(_ context.Context, status *entities.CollectionStatus, pagination utils.PaginationParams) ([]*entities.Collection, utils.PaginationMeta, error) {
			listed = status
			page = pagination
			return []*entities.Collection{{ID: 7}}, utils.CalculateMeta(1, pagination.Page, pagination.Limit), nil
		},
	}))

	w := doJSON(r, http.MethodGet, "/collections/7", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"symbol":"NOCT"`)

	w = doJSON(r, http.MethodGet, "/collections/8", "")
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodGet, "/collections/abc", "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/collections?status=pending&page=2&limit=10", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, listed)
	require.Equal(t, entities.CollectionStatusPending, *listed)
	require.Equal(t, utils.PaginationParams{Page: 2, Limit: 10}, page)
	require.Contains(t, w.Body.String(), `"meta"`)
}

func TestCollectionHandler_Update(t *testing.T) {
	r := newCollectionRouter(NewCollectionHandler(&collectionServiceStub{
		updateFn: func(_ context.Context, id int64, input *entities.UpdateCollectionInput) (*entities.Collection, error) {
			if input.Status != nil && *input.Status == entities.CollectionStatusPending {
				return nil, domainerrors.InvalidTransition("transition de statut interdite: failed -> pending")
			}
			return &entities.Collection{ID: id, Status: *input.Status}, nil
		},
	}))

	w := doJSON(r, http.MethodPatch, "/collections/3", `{"status":"failed"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"status":"failed"`)

	w = doJSON(r, http.MethodPatch, "/collections/3", `{"status":"pending"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPatch, "/collections/3", `{"contractAddress":"not-an-address"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCollectionHandler_Sync(t *testing.T) {
	r := newCollectionRouter(NewCollectionHandler(&collectionServiceStub{
		syncFn: func(_ context.Context, id int64) *entities.SyncCollectionResult {
			if id == 404 {
				return &entities.SyncCollectionResult{CollectionID: id, Code: domainerrors.CodeNotFound, Message: "Collection introuvable"}
			}
			return &entities.SyncCollectionResult{
				CollectionID:    id,
				Success:         true,
				Updated:         true,
				ContractAddress: "0x1234567890AbcdEF1234567890aBcdef12345678",
				Message:         "Collection synchronisée avec succès",
			}
		},
	}))

	w := doJSON(r, http.MethodPost, "/collections/42/sync", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"collectionId":42,"success":true,"updated":true,"contractAddress":"0x1234567890AbcdEF1234567890aBcdef12345678","message":"Collection synchronisée avec succès"}`, w.Body.String())

	w = doJSON(r, http.MethodPost, "/collections/404/sync", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "Collection introuvable")

	w = doJSON(r, http.MethodPost, "/collections/0/sync", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCollectionHandler_SyncRetriesUntilSuccessUnderIdempotencyKey(t *testing.T) {
	srv, err := miniredis.Run()
	if err != nil {
		t.Skipf("skip: miniredis unavailable in this environment: %v", err)
	}
	t.Cleanup(srv.Close)
	cli := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	redispkg.SetClient(cli)
	t.Cleanup(func() { _ = cli.Close() })

	outcomes := []*entities.SyncCollectionResult{
		{Code: domainerrors.CodeUnknownError, Message: "Erreur lors de la synchronisation: dial tcp: connection refused"},
		{Success: true, Code: domainerrors.CodePendingConfirmation, Message: "Transaction en attente de confirmation"},
		{Success: true, Updated: true, ContractAddress: "0x1234567890AbcdEF1234567890aBcdef12345678", Message: "Collection synchronisée avec succès"},
	}
	calls := 0
	h := NewCollectionHandler(&collectionServiceStub{
		syncFn: func(_ context.Context, id int64) *entities.SyncCollectionResult {
			result := *outcomes[calls]
			result.CollectionID = id
			calls++
			return &result
		},
	})
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/collections/:id/sync", middleware.IdempotencyMiddleware(), h.SyncCollection)

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/collections/42/sync", nil)
		req.Header.Set(middleware.IdempotencyHeader, "sync-42")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	require.Contains(t, send().Body.String(), domainerrors.CodeUnknownError)
	require.Contains(t, send().Body.String(), domainerrors.CodePendingConfirmation)
	require.Contains(t, send().Body.String(), "Collection synchronisée avec succès")
	require.Equal(t, 3, calls)

	replay := send()
	require.Equal(t, "true", replay.Header().Get(middleware.IdempotencyHitHeader))
	require.Contains(t, replay.Body.String(), "Collection synchronisée avec succès")
	require.Equal(t, 3, calls)
}

func TestCollectionHandler_SyncPending(t *testing.T) {
	var gotLimit int
	r := newCollectionRouter(NewCollectionHandler(&collectionServiceStub{
		syncPendingFn: func(_ context.Context, limit int) ([]*entities.SyncCollectionResult, error) {
			gotLimit = limit
			if limit == 99 {
				return nil, domainerrors.InternalError(errors.New("db down"))
			}
			return []*entities.SyncCollectionResult{
				{CollectionID: 1, Success: true, Updated: true},
				{CollectionID: 2, Success: true, Code: domainerrors.CodePendingConfirmation},
			}, nil
		},
	}))

	w := doJSON(r, http.MethodPost, "/collections/sync-pending?limit=10", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 10, gotLimit)
	require.Contains(t, w.Body.String(), `"total":2`)
	require.Contains(t, w.Body.String(), `"updated":1`)

	w = doJSON(r, http.MethodPost, "/collections/sync-pending?limit=-1", "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/collections/sync-pending?limit=99", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
}
