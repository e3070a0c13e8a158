package templates

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/template-dispatch-service/internal/handlers"
)

type Handler struct {
	engine Renderer
}

func NewHandler(engine Renderer) *Handler {
	return &Handler{engine: engine}
}

func (h *Handler) RegisterTemplateRoutes(r chi.Router) {
	r.Post("/render", h.render)
}

// RenderRequest is the body of a render preview. A null binding value is
// bound as null.
type RenderRequest struct {
	Template string             `json:"template"`
	Bindings map[string]*string `json:"bindings"`
}

// RenderResponse is returned for a successful preview
type RenderResponse struct {
	RenderedMessage string   `json:"rendered_message"`
	UsedTemplate    string   `json:"used_template"`
	Placeholders    []string `json:"placeholders"`
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondWithError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body: "+err.Error())
		return
	}

	if req.Template == "" {
		handlers.RespondWithError(w, http.StatusBadRequest, "MISSING_TEMPLATE", "template is required")
		return
	}

	tmpl := New(req.Template)
	for name, value := range req.Bindings {
		if value == nil {
			tmpl.AddNullBinding(name)
			continue
		}
		tmpl.AddBinding(name, *value)
	}

	rendered, err := h.engine.Render(tmpl)
	if err != nil {
		log.Debug().Err(err).Msg("template preview rejected")
		handlers.RespondWithDetail(w, http.StatusUnprocessableEntity, handlers.ErrorDetail{
			Code:         errorCode(err),
			Message:      err.Error(),
			Placeholders: FailedPlaceholders(err),
		})
		return
	}

	handlers.RespondWithJSON(w, http.StatusOK, RenderResponse{
		RenderedMessage: rendered,
		UsedTemplate:    req.Template,
		Placeholders:    tmpl.Placeholders(),
	})
}

// errorCode picks the response code for a render error. Name format problems
// are reported first since they make the other checks moot.
func errorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidPlaceholder):
		return "INVALID_PLACEHOLDER"
	case errors.Is(err, ErrNullValue):
		return "NULL_VALUE"
	case errors.Is(err, ErrMissingValue):
		return "MISSING_VALUE"
	default:
		return "RENDER_FAILED"
	}
}
