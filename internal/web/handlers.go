package web

import (
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/gduverger/instapack/internal/batch"
	"github.com/gduverger/instapack/internal/credentials"
	"github.com/gduverger/instapack/internal/domain"
	"github.com/gduverger/instapack/internal/packager"
	"github.com/gduverger/instapack/internal/shortcode"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const formPage = `<!doctype html>
<html lang="fr">
<head>
<meta charset="utf-8">
<title>Instapack</title>
<style>
body { font-family: sans-serif; max-width: 40rem; margin: 3rem auto; padding: 0 1rem; }
textarea { width: 100%%; height: 8rem; font-family: monospace; }
button { margin-top: 0.5rem; padding: 0.5rem 1.5rem; }
.err { color: #b00; }
</style>
</head>
<body>
<h1>Instapack</h1>
<p>Collez un ou plusieurs liens de publications Instagram (un par ligne) pour
recevoir les médias dans une archive ZIP.</p>
%s
<form method="post" action="/download">
<textarea name="urls" placeholder="https://www.instagram.com/p/..."></textarea>
<button type="submit">Télécharger</button>
</form>
<p><small>Connexion Instagram : %s</small></p>
</body>
</html>`

func (s *Server) registerRoutes(engine *gin.Engine) {
	engine.GET("/", s.handleIndex)
	engine.POST("/download", s.handleDownload)
	engine.GET("/batch/:id", s.handleBatchHistory)
	engine.GET("/healthz", s.handleHealthz)
}

func (s *Server) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(fmt.Sprintf(formPage, "", s.connectionState())))
}

func (s *Server) connectionState() string {
	if s.Credentials.Scope() != credentials.AnonymousScope {
		return "session configurée"
	}
	return "anonyme"
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleBatchHistory exposes the recorded outcomes of one batch run, so a
// caller can check what happened to each link after the download.
func (s *Server) handleBatchHistory(c *gin.Context) {
	retrievals, err := s.HistoryRepo.GetByBatchID(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.Logger.Error("Failed to load batch history", "batch_id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "history unavailable"})
		return
	}
	if len(retrievals) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown batch"})
		return
	}
	c.JSON(http.StatusOK, retrievals)
}

func (s *Server) handleDownload(c *gin.Context) {
	urls := shortcode.SplitList(c.PostForm("urls"))
	if len(urls) == 0 {
		s.renderError(c, http.StatusBadRequest, "Aucun lien fourni.")
		return
	}

	batchID := uuid.NewString()
	ctx := c.Request.Context()

	result := s.Retriever.RetrieveAll(ctx, urls, batch.Options{
		BatchID:            batchID,
		MinDelay:           time.Duration(s.Config.Downloader.ThrottleSeconds * float64(time.Second)),
		MaxJitter:          time.Duration(s.Config.Downloader.JitterSeconds * float64(time.Second)),
		MaxAttemptsPerPost: s.Config.Downloader.MaxAttempts,
	})

	s.recordOutcomes(c, batchID, urls, result)

	if len(result.Bundles) == 0 {
		s.renderError(c, http.StatusUnprocessableEntity, failureSummary(result.Failures))
		return
	}

	data, err := s.Packager.Pack(ctx, result.Bundles)
	if err != nil {
		s.Logger.Error("Packaging failed", "batch_id", batchID, "error", err)
		s.renderError(c, http.StatusInternalServerError, "Échec de la création de l'archive.")
		return
	}

	name := packager.ArchiveName(result.Bundles)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Header("X-Batch-Id", batchID)
	c.Header("X-Failed-Count", fmt.Sprintf("%d", len(result.Failures)))
	c.Data(http.StatusOK, "application/zip", data)
}

func (s *Server) recordOutcomes(c *gin.Context, batchID string, urls []string, result batch.Result) {
	ctx := c.Request.Context()
	now := time.Now()

	failed := make(map[string]string, len(result.Failures))
	for _, f := range result.Failures {
		failed[f.URL] = f.Reason
	}
	resolved := make(map[string]*domain.PostBundle, len(result.Bundles))
	for _, b := range result.Bundles {
		for _, u := range urls {
			if sc, err := shortcode.Extract(u); err == nil && sc == b.Shortcode {
				resolved[u] = b
			}
		}
	}

	for _, u := range urls {
		rec := domain.Retrieval{
			BatchID:   batchID,
			URL:       u,
			CreatedAt: now,
		}
		if b, ok := resolved[u]; ok {
			rec.Shortcode = b.Shortcode
			rec.Status = domain.RetrievalStatusOK
			rec.MediaCount = len(b.Media)
		} else {
			rec.Status = domain.RetrievalStatusFailed
			rec.Reason = failed[u]
		}
		if err := s.HistoryRepo.Record(ctx, rec); err != nil {
			s.Logger.Warn("Failed to record retrieval", "url", u, "error", err)
		}
	}
}

func (s *Server) renderError(c *gin.Context, status int, msg string) {
	block := fmt.Sprintf(`<p class="err">%s</p>`, html.EscapeString(msg))
	c.Data(status, "text/html; charset=utf-8", []byte(fmt.Sprintf(formPage, block, s.connectionState())))
}

func failureSummary(failures []domain.FailedURL) string {
	var b strings.Builder
	b.WriteString("Aucun média n'a pu être récupéré. ")
	for i, f := range failures {
		if i > 0 {
			b.WriteString(" ; ")
		}
		b.WriteString(fmt.Sprintf("%s (%s)", f.URL, f.Reason))
	}
	return b.String()
}
