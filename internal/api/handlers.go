package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/alexanderramin/gantry/internal/domain"
	gerrors "github.com/alexanderramin/gantry/internal/errors"
	"github.com/alexanderramin/gantry/internal/scheduler"
)

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.projects.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]projectDTO, 0, len(projects))
	for _, p := range projects {
		out = append(out, toProjectDTO(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	p, ok := s.resolveProject(w, r)
	if !ok {
		return
	}
	width, ok := s.width(w, r)
	if !ok {
		return
	}
	c, err := s.schedule.Chart(r.Context(), p.ID, width)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toChartDTO(p, c))
}

func (s *Server) handleChartSVG(w http.ResponseWriter, r *http.Request) {
	p, ok := s.resolveProject(w, r)
	if !ok {
		return
	}
	width, ok := s.width(w, r)
	if !ok {
		return
	}
	svg, err := s.schedule.ChartSVG(r.Context(), p.ID, width, s.opts.Style)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg)
}

func (s *Server) handleConflicts(w http.ResponseWriter, r *http.Request) {
	p, ok := s.resolveProject(w, r)
	if !ok {
		return
	}
	conflicts, err := s.schedule.Conflicts(r.Context(), p.ID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]dependencyDTO, 0, len(conflicts))
	for _, c := range conflicts {
		out = append(out, toDependencyDTO(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleFix(w http.ResponseWriter, r *http.Request) {
	p, ok := s.resolveProject(w, r)
	if !ok {
		return
	}
	dryRun := false
	if v := r.URL.Query().Get("dry_run"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			s.writeError(w, gerrors.New(gerrors.ErrCodeInvalidInput, "dry_run must be a boolean"))
			return
		}
		dryRun = b
	}
	res, err := s.schedule.FixDates(r.Context(), p.ID, dryRun)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toFixDTO(res, dryRun))
}

func (s *Server) resolveProject(w http.ResponseWriter, r *http.Request) (*domain.Project, bool) {
	p, err := s.projects.Resolve(r.Context(), chi.URLParam(r, "project"))
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	return p, true
}

func (s *Server) width(w http.ResponseWriter, r *http.Request) (float64, bool) {
	v := r.URL.Query().Get("width")
	if v == "" {
		return s.opts.DefaultWidth, true
	}
	width, err := strconv.ParseFloat(v, 64)
	if err != nil || width <= 0 || width > 20000 {
		s.writeError(w, gerrors.New(gerrors.ErrCodeInvalidInput, "width must be a positive number up to 20000"))
		return 0, false
	}
	return width, true
}

type errorResponse struct {
	Error       string   `json:"error"`
	Code        string   `json:"code,omitempty"`
	ActivityIDs []string `json:"activity_ids,omitempty"`
}

// statusFor maps error codes onto HTTP statuses.
func statusFor(err error) int {
	switch gerrors.GetCode(err) {
	case gerrors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case gerrors.ErrCodeNotFound:
		return http.StatusNotFound
	case gerrors.ErrCodeCycle:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	resp := errorResponse{
		Error: gerrors.UserMessage(err),
		Code:  string(gerrors.GetCode(err)),
	}
	var cycle *scheduler.CycleError
	if errors.As(err, &cycle) {
		resp.Error = cycle.Error()
		resp.ActivityIDs = cycle.ActivityIDs
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
		resp.Error = "internal error"
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
