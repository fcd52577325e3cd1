package api

import (
	"net/http"
	"strconv"

	"github.com/darmiel/sitegate/internal/api/presenter"
	"github.com/darmiel/sitegate/internal/core"
)

const defaultAuditLimit = 100

func (s *Server) handleAdminAudit(w http.ResponseWriter, r *http.Request) {
	limit := defaultAuditLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			presenter.Error(w, r, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	action := r.URL.Query().Get("action")
	filter := func(entry core.AuditEntry) bool {
		return action == "" || entry.Action == action
	}

	entries, err := s.auditor.Find(filter, limit)
	if err != nil {
		presenter.Err(w, r, err, "cannot read audit log")
		return
	}
	if entries == nil {
		entries = []core.AuditEntry{}
	}

	presenter.JSON(w, r, entries, http.StatusOK)
}

func (s *Server) handleAdminPasses(w http.ResponseWriter, r *http.Request) {
	if s.passStore == nil {
		presenter.Error(w, r, "pass issuing is not configured", http.StatusNotImplemented)
		return
	}

	active, err := s.passStore.ListActive(r.Context())
	if err != nil {
		presenter.Err(w, r, err, "cannot list passes")
		return
	}
	if active == nil {
		active = []core.PassMetadata{}
	}

	presenter.JSON(w, r, active, http.StatusOK)
}
