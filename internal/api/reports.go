package api

import (
	"net/http"

	"github.com/npezzotti/campus-connect/internal/database"
	"github.com/npezzotti/campus-connect/internal/social"
)

type CreateReportRequest struct {
	ReportedUserId *int    `json:"reported_user_id"`
	ReportedRoomId *string `json:"reported_room_id"`
	Reason         string  `json:"reason"`
	Description    string  `json:"description"`
}

type UpdateReportStatusRequest struct {
	Status string `json:"status"`
}

func (s *CampusApp) createReport(w http.ResponseWriter, r *http.Request) {
	userId, _ := UserId(r.Context())

	var req CreateReportRequest
	if !s.decodeJson(w, r, &req) {
		return
	}

	report, err := s.svc.CreateReport(r.Context(), userId, social.NewReport{
		ReportedUserId: req.ReportedUserId,
		ReportedRoomId: req.ReportedRoomId,
		Reason:         req.Reason,
		Description:    req.Description,
	})
	if err != nil {
		s.writeError(w, errorFromService(err))
		return
	}

	s.writeJson(w, http.StatusCreated, toReport(report))
}

func (s *CampusApp) listReports(w http.ResponseWriter, r *http.Request) {
	reports, err := s.svc.ListReports(r.Context())
	if err != nil {
		s.writeError(w, errorFromService(err))
		return
	}

	s.writeJson(w, http.StatusOK, mapSlice(reports, toReport))
}

func (s *CampusApp) updateReportStatus(w http.ResponseWriter, r *http.Request) {
	reportId, ok := s.pathInt(w, r, "reportId")
	if !ok {
		return
	}

	var req UpdateReportStatusRequest
	if !s.decodeJson(w, r, &req) {
		return
	}

	report, err := s.svc.UpdateReportStatus(r.Context(), reportId, database.ReportStatus(req.Status))
	if err != nil {
		s.writeError(w, errorFromService(err))
		return
	}

	s.writeJson(w, http.StatusOK, toReport(report))
}
