package service

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/markkent-max/schedease/internal/dto"
	"github.com/markkent-max/schedease/internal/model"
	"github.com/markkent-max/schedease/internal/repository"
)

// ExportService timetable export.
//
// The workbook has two sheets: "Timetable" is a grid of published schedules
// with one row per distinct time window and one column per weekday, and
// "Schedules" is a flat list of published and conflicting schedules carrying
// their status and conflict descriptions.
type ExportService interface {
	ExportTimetable(ctx context.Context, req *dto.TimetableExportRequest) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService creates an ExportService
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

const (
	gridSheet = "Timetable"
	listSheet = "Schedules"
)

// ═══════════════════════════════════════════════════════════
// ExportTimetable
// ═══════════════════════════════════════════════════════════
//
// Drafts and canceled schedules are left out. Returns the xlsx content and a
// suggested file name.

func (s *exportService) ExportTimetable(ctx context.Context, req *dto.TimetableExportRequest) (*bytes.Buffer, string, error) {
	if err := validateStruct(req); err != nil {
		return nil, "", err
	}
	var published, all []model.Schedule
	for _, status := range []model.ScheduleStatus{model.SchedulePublished, model.ScheduleConflict} {
		list, _, err := s.repo.Schedule.List(ctx, repository.ScheduleFilter{
			Semester: req.Semester,
			Year:     req.Year,
			Status:   string(status),
		})
		if err != nil {
			s.logger.Error("list schedules for export", zap.String("status", string(status)), zap.Error(err))
			return nil, "", err
		}
		if status == model.SchedulePublished {
			published = list
		}
		all = append(all, list...)
	}
	if len(all) == 0 {
		return nil, "", ErrNothingToExport
	}
	sortTimetable(published)
	sortTimetable(all)

	f := excelize.NewFile()
	defer f.Close()

	idx, _ := f.NewSheet(gridSheet)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	title := fmt.Sprintf("Timetable %s semester %d", req.Semester, req.Year)
	if err := writeGrid(f, title, published); err != nil {
		s.logger.Error("write timetable grid", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	if err := writeList(f, all); err != nil {
		s.logger.Error("write schedule list", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("write workbook", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	return buf, fmt.Sprintf("timetable_%d_%s.xlsx", req.Year, req.Semester), nil
}

func writeGrid(f *excelize.File, title string, list []model.Schedule) error {
	days := model.Weekdays

	// rows: distinct windows in start order
	type window struct{ start, end string }
	var windows []window
	seen := make(map[window]bool)
	cells := make(map[window]map[model.DayOfWeek][]string)
	for i := range list {
		sc := &list[i]
		w := window{sc.StartTime, sc.EndTime}
		if !seen[w] {
			seen[w] = true
			windows = append(windows, w)
			cells[w] = make(map[model.DayOfWeek][]string)
		}
		cells[w][sc.DayOfWeek] = append(cells[w][sc.DayOfWeek], cellText(sc))
	}
	sort.Slice(windows, func(i, j int) bool {
		if windows[i].start != windows[j].start {
			return windows[i].start < windows[j].start
		}
		return windows[i].end < windows[j].end
	})

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	bodyStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return err
	}

	f.SetColWidth(gridSheet, "A", "A", 14)
	f.SetColWidth(gridSheet, colName(1), colName(len(days)), 28)

	f.SetCellValue(gridSheet, "A1", title)
	f.MergeCell(gridSheet, "A1", cell(colName(len(days)), 1))
	f.SetCellStyle(gridSheet, "A1", "A1", headerStyle)

	f.SetCellValue(gridSheet, cell("A", 2), "Time")
	for i, d := range days {
		f.SetCellValue(gridSheet, cell(colName(1+i), 2), string(d))
	}
	f.SetCellStyle(gridSheet, "A2", cell(colName(len(days)), 2), headerStyle)

	row := 3
	for _, w := range windows {
		f.SetCellValue(gridSheet, cell("A", row), w.start+"-"+w.end)
		for i, d := range days {
			text := "-"
			if entries := cells[w][d]; len(entries) > 0 {
				text = strings.Join(entries, "\n\n")
			}
			f.SetCellValue(gridSheet, cell(colName(1+i), row), text)
		}
		row++
	}
	if row > 3 {
		return f.SetCellStyle(gridSheet, "B3", cell(colName(len(days)), row-1), bodyStyle)
	}
	return nil
}

func writeList(f *excelize.File, list []model.Schedule) error {
	if _, err := f.NewSheet(listSheet); err != nil {
		return err
	}
	header := []interface{}{"Day", "Start", "End", "Course code", "Course", "Instructor", "Room", "Enrolled", "Academic year", "Status", "Conflicts"}
	if err := f.SetSheetRow(listSheet, "A1", &header); err != nil {
		return err
	}
	for i := range list {
		sc := &list[i]
		row := []interface{}{
			string(sc.DayOfWeek), sc.StartTime, sc.EndTime, sc.CourseCode, sc.CourseName,
			sc.InstructorName, sc.RoomName, sc.StudentsEnrolled, sc.AcademicYear,
			string(sc.Status), strings.Join(sc.Conflicts, "\n"),
		}
		if err := f.SetSheetRow(listSheet, cell("A", i+2), &row); err != nil {
			return err
		}
	}
	return f.AutoFilter(listSheet, fmt.Sprintf("A1:%s", cell(colName(len(header)-1), len(list)+1)), nil)
}

// sortTimetable orders by weekday, then start time, then course code.
func sortTimetable(list []model.Schedule) {
	order := make(map[model.DayOfWeek]int)
	for i, d := range model.Weekdays {
		order[d] = i
	}
	sort.SliceStable(list, func(i, j int) bool {
		a, b := &list[i], &list[j]
		if order[a.DayOfWeek] != order[b.DayOfWeek] {
			return order[a.DayOfWeek] < order[b.DayOfWeek]
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.CourseCode < b.CourseCode
	})
}

func cellText(sc *model.Schedule) string {
	label := sc.CourseCode
	if label == "" {
		label = sc.CourseID
	}
	text := label
	if sc.InstructorName != "" {
		text += "\n" + sc.InstructorName
	}
	if sc.RoomName != "" {
		text += "\n" + sc.RoomName
	}
	return text
}

// ── helpers ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
