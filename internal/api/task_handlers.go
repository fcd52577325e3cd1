package api

import (
	"errors"
	"net/http"

	"github.com/darmiel/sitegate/internal/api/presenter"
	"github.com/darmiel/sitegate/internal/tasks"
)

type TriggerTaskResponse struct {
	Status string `json:"status"`
	Task   string `json:"task"`
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	list := s.taskManager.ListStatus()
	if list == nil {
		list = []tasks.TaskStatus{}
	}
	presenter.JSON(w, r, list, http.StatusOK)
}

func (s *Server) handleTriggerTask(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := s.taskManager.Trigger(name); err != nil {
		status := http.StatusInternalServerError
		var notFound tasks.TaskNotFoundError
		if errors.As(err, &notFound) {
			status = http.StatusNotFound
		}
		presenter.Error(w, r, err.Error(), status)
		return
	}
	presenter.JSON(w, r, TriggerTaskResponse{Status: "triggered", Task: name}, http.StatusAccepted)
}

func (s *Server) handleTaskLogs(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	logs, err := s.taskManager.GetLogs(name)
	if err != nil {
		status := http.StatusInternalServerError
		var notFound tasks.TaskNotFoundError
		if errors.As(err, &notFound) {
			status = http.StatusNotFound
		}
		presenter.Error(w, r, err.Error(), status)
		return
	}
	if logs == nil {
		logs = []tasks.LogEntry{}
	}
	presenter.JSON(w, r, logs, http.StatusOK)
}
