package social

import (
	"context"
	"strings"

	"github.com/npezzotti/campus-connect/internal/database"
	"go.uber.org/zap"
)

type NewReport struct {
	ReportedUserId *int
	ReportedRoomId *string
	Reason         string `validate:"required,max=100"`
	Description    string `validate:"required,max=1000"`
}

// CreateReport files a pending report. Any referenced user or room must exist.
func (s *Service) CreateReport(ctx context.Context, reporterId int, in NewReport) (database.Report, error) {
	in.Reason = strings.TrimSpace(in.Reason)
	in.Description = strings.TrimSpace(in.Description)
	if err := s.check(in); err != nil {
		return database.Report{}, err
	}

	params := database.CreateReportParams{
		ReporterId:  reporterId,
		Reason:      in.Reason,
		Description: in.Description,
	}

	if in.ReportedUserId != nil {
		if _, err := s.db.GetUserById(ctx, *in.ReportedUserId); err != nil {
			return database.Report{}, storeErr("get reported user", err)
		}
		params.ReportedUserId = in.ReportedUserId
	}

	if in.ReportedRoomId != nil {
		room, err := s.GetRoom(ctx, *in.ReportedRoomId)
		if err != nil {
			return database.Report{}, err
		}
		params.ReportedRoomId = &room.Id
	}

	report, err := s.db.CreateReport(ctx, params)
	if err != nil {
		return database.Report{}, storeErr("create report", err)
	}

	s.log.Info("report filed", zap.Int("report_id", report.Id), zap.Int("reporter_id", reporterId))
	return report, nil
}

func (s *Service) ListReports(ctx context.Context) ([]database.Report, error) {
	reports, err := s.db.ListReports(ctx)
	if err != nil {
		return nil, storeErr("list reports", err)
	}
	return reports, nil
}

// UpdateReportStatus sets a report's status. There is no role check: any
// verified user may change any report.
// TODO: restrict to moderators once user roles exist.
func (s *Service) UpdateReportStatus(ctx context.Context, reportId int, status database.ReportStatus) (database.Report, error) {
	switch status {
	case database.ReportPending, database.ReportResolved, database.ReportDismissed:
	default:
		return database.Report{}, validationErr("status must be one of: pending, resolved, dismissed")
	}

	report, err := s.db.UpdateReportStatus(ctx, reportId, status)
	if err != nil {
		return database.Report{}, storeErr("update report status", err)
	}
	return report, nil
}
