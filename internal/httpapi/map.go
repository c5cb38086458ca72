package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"choropleth/core-go/internal/legend"
	"choropleth/core-go/internal/style"
	"choropleth/core-go/internal/widget"
)

type mapStats struct {
	InstanceID string           `json:"instance_id"`
	Join       widget.JoinStats `json:"join"`
}

type legendResponse struct {
	Entries []legend.Entry `json:"entries"`
	NoData  legend.Entry   `json:"no_data"`
}

type regionStyleResponse struct {
	Code        string           `json:"code"`
	Name        string           `json:"name"`
	Matched     bool             `json:"matched"`
	Highlighted bool             `json:"highlighted"`
	Style       style.Descriptor `json:"style"`
}

type pointerEnterRequest struct {
	Code string `json:"code"`
}

func (h *Handler) handleGetMap(w http.ResponseWriter, r *http.Request) {
	if !h.ensureWidget(w) {
		return
	}
	h.writeJSON(w, http.StatusOK, h.widget.FeatureCollection())
}

func (h *Handler) handleGetMapStats(w http.ResponseWriter, r *http.Request) {
	if !h.ensureWidget(w) {
		return
	}
	h.writeJSON(w, http.StatusOK, mapStats{
		InstanceID: h.widget.ID().String(),
		Join:       h.widget.Stats(),
	})
}

func (h *Handler) handleGetRegionStyle(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(chi.URLParam(r, "code"))
	if !h.ensureWidget(w) {
		return
	}

	s, err := h.widget.StyleFor(code)
	if err != nil {
		h.writeMapError(w, err, code)
		return
	}

	name := code
	for _, reg := range h.widget.Regions() {
		if reg.Code == code {
			name = reg.DisplayName
			break
		}
	}
	_, matched := h.widget.Record(code)
	h.writeJSON(w, http.StatusOK, regionStyleResponse{
		Code:        code,
		Name:        name,
		Matched:     matched,
		Highlighted: h.widget.Highlight().Highlights(code),
		Style:       s,
	})
}

func (h *Handler) handleGetLegend(w http.ResponseWriter, r *http.Request) {
	if !h.ensureWidget(w) {
		return
	}
	h.writeJSON(w, http.StatusOK, legendResponse{
		Entries: h.widget.Legend(),
		NoData:  h.widget.NoDataEntry(),
	})
}

func (h *Handler) handleGetHighlight(w http.ResponseWriter, r *http.Request) {
	if !h.ensureWidget(w) {
		return
	}
	h.writeJSON(w, http.StatusOK, h.widget.Highlight())
}

func (h *Handler) handleGetTooltip(w http.ResponseWriter, r *http.Request) {
	if !h.ensureWidget(w) {
		return
	}
	h.writeJSON(w, http.StatusOK, h.widget.Tooltip())
}

func (h *Handler) handlePointerEnter(w http.ResponseWriter, r *http.Request) {
	var req pointerEnterRequest
	if err := decodeJSONStrict(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "validation_failed", "invalid json body", map[string]any{"error": err.Error()})
		return
	}
	code := strings.TrimSpace(req.Code)
	if code == "" {
		h.writeError(w, http.StatusBadRequest, "validation_failed", "code is required", nil)
		return
	}
	if !h.ensureWidget(w) {
		return
	}

	ch, err := h.widget.PointerEnter(code)
	if err != nil {
		h.writeMapError(w, err, code)
		return
	}
	h.log.Debug().Str("code", code).Str("kind", string(ch.Transition.Kind)).Msg("pointer enter")
	h.writeJSON(w, http.StatusOK, ch)
}

func (h *Handler) handlePointerLeave(w http.ResponseWriter, r *http.Request) {
	if !h.ensureWidget(w) {
		return
	}
	ch, err := h.widget.PointerLeave()
	if err != nil {
		h.writeMapError(w, err, "")
		return
	}
	h.log.Debug().Str("kind", string(ch.Transition.Kind)).Msg("pointer leave")
	h.writeJSON(w, http.StatusOK, ch)
}

func (h *Handler) writeMapError(w http.ResponseWriter, err error, code string) {
	switch {
	case errors.Is(err, widget.ErrUnknownRegion):
		h.writeError(w, http.StatusNotFound, "not_found", "region not found", map[string]any{"code": code})
	case errors.Is(err, widget.ErrClosed):
		h.writeError(w, http.StatusConflict, "map_closed", "map instance has been closed", nil)
	default:
		h.log.Error().Err(err).Str("code", code).Msg("map operation failed")
		h.writeError(w, http.StatusInternalServerError, "internal", "map operation failed", nil)
	}
}
