package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fifostock/internal/infrastructure/storage/postgres"
)

// AdminHandler handles maintenance endpoints. Admin only.
type AdminHandler struct {
	*BaseHandler
	snapshots *postgres.SnapshotService
}

// NewAdminHandler creates a new admin handler. snapshots may be nil in
// memory-store mode, in which case export returns 503.
func NewAdminHandler(base *BaseHandler, snapshots *postgres.SnapshotService) *AdminHandler {
	return &AdminHandler{BaseHandler: base, snapshots: snapshots}
}

// ExportSnapshot handles GET /api/v1/admin/snapshot. Streams a
// zstd-compressed JSON export of the full ledger.
func (h *AdminHandler) ExportSnapshot(c *gin.Context) {
	if h.snapshots == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"code":    "SNAPSHOT_UNAVAILABLE",
			"message": "snapshot export requires a database-backed store",
		})
		return
	}

	data, err := h.snapshots.Export(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	filename := fmt.Sprintf("ledger-%s.json.zst", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/zstd", data)
}
