package api

import (
	"encoding/json"
	"net/http"

	"github.com/darmiel/sitegate/internal/api/presenter"
	"github.com/darmiel/sitegate/internal/service"
)

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req service.CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		presenter.Error(w, r, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Person.ID == "" && req.Person.Name == "" {
		presenter.Error(w, r, "person is required", http.StatusBadRequest)
		return
	}

	resp, err := s.checkService.Check(r.Context(), req)
	if err != nil {
		presenter.Err(w, r, err, "check failed")
		return
	}

	presenter.JSON(w, r, resp, http.StatusOK)
}

func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	var req service.ExplainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		presenter.Error(w, r, "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := s.checkService.Explain(r.Context(), req)
	if err != nil {
		presenter.Err(w, r, err, "explain failed")
		return
	}

	presenter.JSON(w, r, resp, http.StatusOK)
}
