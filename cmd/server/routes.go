package main

import (
	"github.com/gin-gonic/gin"

	"artmarket.backoffice/internal/interfaces/http/handlers"
)

type routeDeps struct {
	collectionHandler     *handlers.CollectionHandler
	smartContractHandler  *handlers.SmartContractHandler
	idempotencyMiddleware gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	idempotent := d.idempotencyMiddleware
	if idempotent == nil {
		idempotent = func(c *gin.Context) { c.Next() }
	}

	v1 := r.Group("/api/v1")
	{
		collections := v1.Group("/collections")
		{
			collections.POST("", idempotent, d.collectionHandler.CreateCollection)
			collections.GET("", d.collectionHandler.ListCollections)
			collections.POST("/sync-pending", d.collectionHandler.SyncPendingCollections)
			collections.GET("/:id", d.collectionHandler.GetCollection)
			collections.PATCH("/:id", d.collectionHandler.UpdateCollection)
			collections.POST("/:id/sync", idempotent, d.collectionHandler.SyncCollection)
		}

		contracts := v1.Group("/contracts")
		{
			contracts.GET("", d.smartContractHandler.ListSmartContracts)
			contracts.GET("/:id", d.smartContractHandler.GetSmartContract)
			contracts.POST("", d.smartContractHandler.CreateSmartContract)
			contracts.PUT("/:id", d.smartContractHandler.UpdateSmartContract)
			contracts.DELETE("/:id", d.smartContractHandler.DeleteSmartContract)
		}
	}
}
