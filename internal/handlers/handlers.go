// Package handlers implements the HTTP surface: login by e-mail list,
// table dump, delivery marking, dashboard aggregates and the raw download.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tne-registro/tne-backend/internal/config"
	"github.com/tne-registro/tne-backend/internal/roles"
	"github.com/tne-registro/tne-backend/internal/sheet"
	"github.com/tne-registro/tne-backend/internal/stats"
	"github.com/tne-registro/tne-backend/internal/storage"
)

const (
	// blobTimeout bounds every blob-store round trip.
	blobTimeout = 30 * time.Second

	contentTypeXLSX  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	downloadFilename = "Reporte_TNE_Completo.xlsx"
)

// Handler holds the request dependencies: one blob client built at startup,
// the static config, the Chilean zone, and an injectable clock for tests.
type Handler struct {
	Store storage.Store
	Cfg   config.Config
	Loc   *time.Location
	Now   func() time.Time
}

// New wires a handler set with the real clock.
func New(store storage.Store, cfg config.Config, loc *time.Location) *Handler {
	return &Handler{Store: store, Cfg: cfg, Loc: loc, Now: time.Now}
}

// Register mounts every route on the engine.
func (h *Handler) Register(r *gin.Engine) {
	r.POST("/login", h.Login)
	r.GET("/alumnos", h.Alumnos)
	r.POST("/entregar", h.Entregar)
	r.GET("/dashboard/stats", h.DashboardStats)
	r.GET("/download-excel", h.DownloadExcel)
}

type loginRequest struct {
	Email string `json:"email"`
}

type entregaRequest struct {
	Folio       string `json:"folio"`
	Rut         string `json:"rut"`
	Responsable string `json:"responsable"`
}

// Login checks the e-mail against the role workbook, which is re-read on
// every call so list edits take effect immediately.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Cuerpo inválido"})
		return
	}

	ctx, cancel := h.blobCtx(c)
	defer cancel()

	lists := roles.Load(ctx, h.Store, h.Cfg.AuthObject, h.Cfg.LocalAuthFile)
	role, ok := lists.RoleFor(req.Email)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Correo no autorizado."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "role": role})
}

// Alumnos dumps the whole normalized table.
func (h *Handler) Alumnos(c *gin.Context) {
	ctx, cancel := h.blobCtx(c)
	defer cancel()

	t, _, err := h.loadTable(ctx)
	if err != nil {
		h.upstreamError(c, "Error cargando datos", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": t.Len(), "rows": t.Records()})
}

// Entregar marks one row delivered and writes the table back. The upload
// carries the generation seen at download time, so a concurrent writer turns
// into a 409 instead of being silently overwritten.
func (h *Handler) Entregar(c *gin.Context) {
	var req entregaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Cuerpo inválido"})
		return
	}
	if req.Folio == "" && req.Rut == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Falta folio o rut"})
		return
	}

	ctx, cancel := h.blobCtx(c)
	defer cancel()

	t, generation, err := h.loadTable(ctx)
	if err != nil {
		h.upstreamError(c, "Error entrega", err)
		return
	}

	idx, err := sheet.Locate(t, req.Folio, req.Rut)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "No encontrado"})
		return
	}
	updated := sheet.MarkDelivered(t, idx, req.Responsable, h.Now().In(h.Loc))

	data, err := sheet.Serialize(t)
	if err != nil {
		h.upstreamError(c, "Error entrega", err)
		return
	}
	if err := h.Store.Upload(ctx, h.Cfg.DataObject, data, generation); err != nil {
		if errors.Is(err, storage.ErrPreconditionFailed) {
			c.JSON(http.StatusConflict, gin.H{"detail": "El archivo fue modificado por otra entrega, reintente"})
			return
		}
		h.upstreamError(c, "Error entrega", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "updated": updated})
}

// DashboardStats computes the aggregate payload.
func (h *Handler) DashboardStats(c *gin.Context) {
	ctx, cancel := h.blobCtx(c)
	defer cancel()

	t, _, err := h.loadTable(ctx)
	if err != nil {
		h.upstreamError(c, "Error stats", err)
		return
	}
	c.JSON(http.StatusOK, stats.Compute(t, h.Now().In(h.Loc)))
}

// DownloadExcel streams the stored workbook verbatim as an attachment.
func (h *Handler) DownloadExcel(c *gin.Context) {
	ctx, cancel := h.blobCtx(c)
	defer cancel()

	data, _, err := h.Store.Download(ctx, h.Cfg.DataObject)
	if err != nil {
		h.upstreamError(c, "No se pudo descargar el archivo", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename=`+downloadFilename)
	c.Data(http.StatusOK, contentTypeXLSX, data)
}

// loadTable downloads, parses and normalizes the master table, returning the
// blob generation alongside for the write path.
func (h *Handler) loadTable(ctx context.Context) (*sheet.Table, int64, error) {
	data, generation, err := h.Store.Download(ctx, h.Cfg.DataObject)
	if err != nil {
		return nil, 0, err
	}
	t, err := sheet.Parse(data)
	if err != nil {
		return nil, 0, err
	}
	return sheet.Normalize(t), generation, nil
}

func (h *Handler) blobCtx(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), blobTimeout)
}

// upstreamError turns a data-layer failure into a 500 with the underlying
// message, the only retry policy being the caller re-issuing the request.
func (h *Handler) upstreamError(c *gin.Context, prefix string, err error) {
	slog.Error(prefix, "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"detail": prefix + ": " + err.Error()})
}
