package main

import (
	"net/http"
	"time"

	"github.com/ali01/vault-lsp/internal/vault"
	"github.com/gin-gonic/gin"
)

// newDebugServer builds the operational side-channel named in
// SPEC_FULL §6.5: a small gin HTTP surface for health checks and vault
// introspection, kept entirely separate from the stdio editor-protocol
// transport — the same separation of concerns the teacher keeps
// between its git sync manager and its gin API layer.
func newDebugServer(addr string, v *vault.Vault) *http.Server {
	router := gin.Default()

	router.GET("/healthz", healthCheck)
	router.GET("/debug/vault/stats", func(c *gin.Context) {
		paths := v.Referenceables(vault.AllScope())
		c.JSON(http.StatusOK, gin.H{
			"root_dir":       v.RootDir(),
			"referenceables": len(paths),
		})
	})

	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
