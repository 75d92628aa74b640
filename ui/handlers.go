package ui

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"edalens/app"
	"edalens/internal/errors"
	"edalens/internal/report"
	"edalens/internal/session"
	"edalens/ui/middleware"
)

// EmptyMessage prompts for an upload when the session holds no table
const EmptyMessage = "Please upload a CSV file to begin analysis"

// pageData is everything index.html renders
type pageData struct {
	Title       string
	State       session.State
	FileName    string
	Error       string
	Info        string
	Success     string
	Dashboard   *app.Dashboard
	MaxUploadMB int64
}

func (s *Server) newPage(sess session.Session) pageData {
	return pageData{
		Title:       "Automated EDA & Insights Generator",
		State:       sess.State,
		FileName:    sess.FileName,
		MaxUploadMB: s.cfg.Server.MaxUploadMB,
	}
}

// handleIndex renders whichever of the three page states the session is in
func (s *Server) handleIndex(c *gin.Context) {
	sess := s.sessions.Touch(middleware.SessionID(c))
	s.renderSession(c, http.StatusOK, sess)
}

func (s *Server) renderSession(c *gin.Context, status int, sess session.Session) {
	page := s.newPage(sess)

	switch sess.State {
	case session.StateError:
		page.Error = sess.Err
	case session.StateLoaded:
		dashboard, err := s.dashboards.Build(sess.Table)
		if err != nil {
			s.logger.Error("[Dashboard] Build failed for %s: %v", sess.FileName, err)
			page.State = session.StateError
			page.Error = app.ErrorBanner(err)
			status = errors.HTTPStatus(err)
			break
		}
		page.Dashboard = dashboard
		page.Success = dashboard.LoadedMessage
	default:
		page.Info = EmptyMessage
	}

	s.renderTemplate(c, status, "index.html", page)
}

// handleUpload parses the multipart "file" field and replaces the session's table
func (s *Server) handleUpload(c *gin.Context) {
	id := middleware.SessionID(c)
	limit := s.cfg.Server.UploadLimitBytes()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+(1<<20))

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			err = errors.UploadTooLarge(limit)
		} else {
			err = errors.InvalidInput("no file was uploaded")
		}
		sess := s.sessions.Fail(id, "", app.ErrorBanner(err))
		s.renderSession(c, errors.HTTPStatus(err), sess)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		sess := s.sessions.Fail(id, fileHeader.Filename, app.ErrorBanner(err))
		s.renderSession(c, http.StatusInternalServerError, sess)
		return
	}
	defer file.Close()

	sess, err := s.uploads.Upload(id, fileHeader.Filename, file)
	if err != nil {
		s.renderSession(c, errors.HTTPStatus(err), sess)
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}

// handleReport streams the PDF export as an attachment
func (s *Server) handleReport(c *gin.Context) {
	sess := s.sessions.Touch(middleware.SessionID(c))
	if !sess.HasTable() {
		err := errors.NoDataset()
		page := s.newPage(sess)
		page.Error = errors.UserMessage(err)
		s.renderTemplate(c, errors.HTTPStatus(err), "index.html", page)
		return
	}

	rep, err := s.dashboards.Report(sess.Table)
	if err != nil {
		s.recordReport(false)
		_ = c.Error(err)
		c.String(errors.HTTPStatus(err), errors.UserMessage(err))
		return
	}

	var buf bytes.Buffer
	if err := report.RenderPDF(rep, &buf, report.PDFOptions{Compress: true}); err != nil {
		s.recordReport(false)
		s.logger.Error("[Report] PDF generation failed for %s: %v", sess.FileName, err)
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, errors.UserMessage(err))
		return
	}

	s.recordReport(true)
	s.logger.Info("[Report] Exported %s for %s (%d bytes)", rep.FileName(), sess.FileName, buf.Len())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, rep.FileName()))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// handleReset drops the session and returns to the empty page
func (s *Server) handleReset(c *gin.Context) {
	s.sessions.Reset(middleware.SessionID(c))
	c.Redirect(http.StatusSeeOther, "/")
}

// handleDashboardAPI returns the view model as JSON
func (s *Server) handleDashboardAPI(c *gin.Context) {
	sess := s.sessions.Touch(middleware.SessionID(c))

	switch sess.State {
	case session.StateError:
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"state": sess.State,
			"error": sess.Err,
		})
		return
	case session.StateEmpty:
		err := errors.NoDataset()
		c.JSON(errors.HTTPStatus(err), gin.H{
			"state": sess.State,
			"code":  errors.GetCode(err),
			"error": EmptyMessage,
		})
		return
	}

	dashboard, err := s.dashboards.Build(sess.Table)
	if err != nil {
		c.JSON(errors.HTTPStatus(err), gin.H{
			"state": sess.State,
			"code":  errors.GetCode(err),
			"error": errors.UserMessage(err),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"state":       sess.State,
		"fingerprint": sess.Fingerprint,
		"loaded_at":   sess.LoadedAt,
		"dashboard":   dashboard,
	})
}

// handleHealth reports liveness and the number of held sessions
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"sessions": s.sessions.Len(),
	})
}

func (s *Server) recordReport(success bool) {
	if s.metrics != nil {
		s.metrics.RecordReport(success)
	}
}
