package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/goliatone/go-resumegen/pkg/export"
	"github.com/goliatone/go-resumegen/pkg/formdata"
	"github.com/goliatone/go-resumegen/pkg/orchestrator"
	"github.com/goliatone/go-resumegen/pkg/render"
	"github.com/goliatone/go-resumegen/pkg/renderers/vanilla"
	"github.com/goliatone/go-resumegen/pkg/storage"
	"github.com/goliatone/go-resumegen/pkg/themes"
)

const htmlContentType = "text/html; charset=utf-8"

type sessionHandler func(c *gin.Context, o *orchestrator.Orchestrator)

func (s *Server) session(h sessionHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := s.sessions.Resolve(c)
		if err != nil {
			s.fail(c, fmt.Errorf("server: start session: %w", err))
			return
		}
		h(c, o)
	}
}

func (s *Server) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(statusFor(err), gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, orchestrator.ErrUnknownTemplate),
		errors.Is(err, orchestrator.ErrNameRequired),
		errors.Is(err, themes.ErrUnknownTheme):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, render.ErrRendererNotFound):
		return http.StatusNotFound
	case errors.Is(err, export.ErrExportInProgress),
		errors.Is(err, orchestrator.ErrNoTemplate):
		return http.StatusConflict
	case errors.Is(err, export.ErrEmptyMarkup):
		return http.StatusUnprocessableEntity
	case errors.Is(err, storage.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) getBuilder(c *gin.Context, o *orchestrator.Orchestrator) {
	s.writeEditor(c, o, nil)
}

// postBuilder applies a submitted editor form. Field values go first so a
// template switch carries them over; then the pressed button runs.
func (s *Server) postBuilder(c *gin.Context, o *orchestrator.Orchestrator) {
	if err := c.Request.ParseForm(); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	o.ApplyForm(c.GetPostForm)

	var messages []string
	switched := false
	if id := c.PostForm("template"); id != "" {
		if current := o.Template(); current == nil || current.ID != id {
			if err := o.SelectTemplate(id); err != nil {
				messages = append(messages, err.Error())
			} else {
				switched = true
			}
		}
	}
	if theme := c.PostForm("theme"); theme != "" && !switched && theme != o.Theme() {
		if err := o.SetTheme(theme); err != nil {
			messages = append(messages, err.Error())
		}
	}

	switch {
	case c.PostForm(vanilla.ActionAdd) != "":
		o.AddItem(c.PostForm(vanilla.ActionAdd))
	case c.PostForm(vanilla.ActionRemove) != "":
		if section, index, ok := vanilla.ParseRemoveValue(c.PostForm(vanilla.ActionRemove)); ok {
			o.RemoveItem(section, index)
		}
	case c.PostForm(vanilla.ActionToggle) != "":
		o.Toggle(c.PostForm(vanilla.ActionToggle))
	case c.PostForm("action") == "save":
		messages = append(messages, s.saveMessages(c, o)...)
	}
	s.writeEditor(c, o, messages)
}

func (s *Server) saveMessages(c *gin.Context, o *orchestrator.Orchestrator) []string {
	result := o.Validate()
	if !result.IsValid {
		return result.Errors
	}
	ctx := c.Request.Context()
	var err error
	if o.CurrentID() != "" {
		err = o.Save(ctx)
	} else {
		_, err = o.SaveAs(ctx, o.SuggestName(ctx))
	}
	if err != nil {
		s.logger.Warn("server: save failed", zap.Error(err))
		return []string{"Could not save resume: " + err.Error()}
	}
	return []string{"Resume saved."}
}

func (s *Server) writeEditor(c *gin.Context, o *orchestrator.Orchestrator, messages []string) {
	page, err := o.EditorPage(c.Request.Context(), "/builder", messages)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, htmlContentType, page)
}

func (s *Server) getPreview(c *gin.Context, o *orchestrator.Orchestrator) {
	c.Data(http.StatusOK, htmlContentType, []byte(o.Preview()))
}

func (s *Server) getDocument(c *gin.Context, o *orchestrator.Orchestrator) {
	out, err := o.Document(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, htmlContentType, out)
}

func (s *Server) render(c *gin.Context, o *orchestrator.Orchestrator) {
	out, contentType, err := o.Render(c.Request.Context(), c.Param("renderer"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, contentType, out)
}

func (s *Server) listTemplates(c *gin.Context, o *orchestrator.Orchestrator) {
	current := o.Template()
	out := make([]gin.H, 0)
	for _, tpl := range o.Templates() {
		out = append(out, gin.H{
			"id":          tpl.ID,
			"name":        tpl.Name,
			"description": tpl.Description,
			"theme":       tpl.Theme,
			"selected":    current != nil && current.ID == tpl.ID,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) listThemes(c *gin.Context, o *orchestrator.Orchestrator) {
	c.JSON(http.StatusOK, gin.H{"themes": o.Themes(), "selected": o.Theme()})
}

func (s *Server) getResume(c *gin.Context, o *orchestrator.Orchestrator) {
	c.JSON(http.StatusOK, gin.H{
		"id":       o.CurrentID(),
		"template": templateID(o),
		"theme":    o.Theme(),
		"data":     o.Data(),
	})
}

func templateID(o *orchestrator.Orchestrator) string {
	if tpl := o.Template(); tpl != nil {
		return tpl.ID
	}
	return ""
}

type resumeRequest struct {
	Data formdata.Data `json:"data"`
}

func (s *Server) putResume(c *gin.Context, o *orchestrator.Orchestrator) {
	var req resumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	o.SetData(req.Data)
	s.getResume(c, o)
}

type choiceRequest struct {
	ID string `json:"id" binding:"required"`
}

func (s *Server) putTemplate(c *gin.Context, o *orchestrator.Orchestrator) {
	var req choiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := o.SelectTemplate(req.ID); err != nil {
		s.fail(c, err)
		return
	}
	s.getResume(c, o)
}

func (s *Server) putTheme(c *gin.Context, o *orchestrator.Orchestrator) {
	var req choiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := o.SetTheme(req.ID); err != nil {
		s.fail(c, err)
		return
	}
	s.getResume(c, o)
}

type fieldUpdate struct {
	Section string `json:"section" binding:"required"`
	Item    *int   `json:"item"`
	Field   string `json:"field" binding:"required"`
	Value   any    `json:"value"`
}

type fieldsRequest struct {
	Fields []fieldUpdate `json:"fields" binding:"required,dive"`
}

func (s *Server) patchFields(c *gin.Context, o *orchestrator.Orchestrator) {
	var req fieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	values := make(map[formdata.Key]any, len(req.Fields))
	for _, f := range req.Fields {
		key := formdata.Field(f.Section, f.Field)
		if f.Item != nil {
			key = formdata.ItemField(f.Section, *f.Item, f.Field)
		}
		values[key] = f.Value
	}
	o.UpdateFields(values)
	s.getResume(c, o)
}

func (s *Server) addItem(c *gin.Context, o *orchestrator.Orchestrator) {
	o.AddItem(c.Param("section"))
	s.getResume(c, o)
}

func (s *Server) removeItem(c *gin.Context, o *orchestrator.Orchestrator) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid item index"})
		return
	}
	o.RemoveItem(c.Param("section"), index)
	s.getResume(c, o)
}

func (s *Server) toggleSection(c *gin.Context, o *orchestrator.Orchestrator) {
	c.JSON(http.StatusOK, gin.H{"section": c.Param("section"), "expanded": o.Toggle(c.Param("section"))})
}

func (s *Server) validate(c *gin.Context, o *orchestrator.Orchestrator) {
	c.JSON(http.StatusOK, o.Validate())
}

func (s *Server) listResumes(c *gin.Context, o *orchestrator.Orchestrator) {
	list := o.List(c.Request.Context())
	if list == nil {
		list = []storage.Summary{}
	}
	c.JSON(http.StatusOK, list)
}

type saveRequest struct {
	Name string `json:"name"`
}

func (s *Server) saveResume(c *gin.Context, o *orchestrator.Orchestrator) {
	var req saveRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	ctx := c.Request.Context()
	if req.Name == "" {
		req.Name = o.SuggestName(ctx)
	}
	id, err := o.SaveAs(ctx, req.Name)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "name": req.Name})
}

func (s *Server) updateResume(c *gin.Context, o *orchestrator.Orchestrator) {
	if err := o.Save(c.Request.Context()); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": o.CurrentID()})
}

func (s *Server) openResume(c *gin.Context, o *orchestrator.Orchestrator) {
	if err := o.Open(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	s.getResume(c, o)
}

func (s *Server) deleteResume(c *gin.Context, o *orchestrator.Orchestrator) {
	removed, err := o.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	if !removed {
		s.fail(c, storage.ErrNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) getSettings(c *gin.Context, o *orchestrator.Orchestrator) {
	c.JSON(http.StatusOK, o.Settings())
}

func (s *Server) patchSettings(c *gin.Context, o *orchestrator.Orchestrator) {
	var patch map[string]any
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	settings, err := o.SaveSettings(c.Request.Context(), patch)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

type exportRequest struct {
	Filename    string  `json:"filename"`
	PageFormat  string  `json:"pageFormat"`
	Orientation string  `json:"orientation"`
	MarginMm    float64 `json:"marginMm"`
}

func (s *Server) exportPDF(c *gin.Context, o *orchestrator.Orchestrator) {
	var req exportRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	opts := s.exportDefaults
	opts.Filename = req.Filename
	if req.PageFormat != "" {
		opts.PageFormat = export.PageFormat(req.PageFormat)
	}
	if req.Orientation != "" {
		opts.Orientation = export.Orientation(req.Orientation)
	}
	if req.MarginMm > 0 {
		opts.MarginMm = req.MarginMm
	}

	result, err := o.Export(c.Request.Context(), opts, func(percent int, step string) {
		s.logger.Debug("server: export progress", zap.Int("percent", percent), zap.String("step", step))
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, "application/pdf", result.PDF)
}

func (s *Server) storageInfo(c *gin.Context, o *orchestrator.Orchestrator) {
	c.JSON(http.StatusOK, o.Store().Info(c.Request.Context()))
}

func (s *Server) exportBackup(c *gin.Context, o *orchestrator.Orchestrator) {
	bundle := o.Store().ExportAll(c.Request.Context())
	c.Header("Content-Disposition", `attachment; filename="resume-builder-backup.json"`)
	c.JSON(http.StatusOK, bundle)
}

func (s *Server) importBackup(c *gin.Context, o *orchestrator.Orchestrator) {
	var bundle storage.Bundle
	if err := c.ShouldBindJSON(&bundle); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := o.Store().ImportAll(c.Request.Context(), bundle); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"imported": len(bundle.Resumes)})
}

func (s *Server) clearStorage(c *gin.Context, o *orchestrator.Orchestrator) {
	if err := o.Store().ClearAll(c.Request.Context()); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
