package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/fengzishiyi/campus-radio/internal/model"
	"github.com/fengzishiyi/campus-radio/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoSchedules  = errors.New("该周暂无日程")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
// 导出以 bytes.Buffer 返回，由 Handler 层设置响应头后写入 Response
type ExportService interface {
	// ExportWeek 导出从起始日期起 7 天的播音安排为 Excel
	ExportWeek(ctx context.Context, startDate time.Time) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

var weekdayNames = map[int]string{
	1: "周一", 2: "周二", 3: "周三", 4: "周四", 5: "周五", 6: "周六", 7: "周日",
}

// ExportWeek 导出周播音表
//
// 输出格式：
//   - 单 Sheet，行头为日期（7 行），列：日期 | 星期 | 主播 | 节目单 | 歌单 | 直播
//   - 主播列多人以顿号分隔；节目单按排序号逐行列出
func (s *exportService) ExportWeek(ctx context.Context, startDate time.Time) (*bytes.Buffer, string, error) {
	endDate := startDate.AddDate(0, 0, 6)
	schedules, err := s.repo.Schedule.ListByDateRange(ctx, startDate, endDate)
	if err != nil {
		s.logger.Error("查询周日程失败", zap.Error(err))
		return nil, "", err
	}
	if len(schedules) == 0 {
		return nil, "", ErrExportNoSchedules
	}

	// 按日期索引；列表查询不带节目/歌曲，逐日补全
	byDate := make(map[string]*model.DailySchedule, len(schedules))
	for i := range schedules {
		full, err := s.repo.Schedule.GetByID(ctx, schedules[i].ScheduleID)
		if err != nil {
			s.logger.Warn("补全日程明细失败", zap.Error(err))
			full = &schedules[i]
		}
		byDate[full.Date.Format(model.DateLayout)] = full
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "周播音表"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 8)
	f.SetColWidth(sheetName, "C", "C", 24)
	f.SetColWidth(sheetName, "D", "D", 36)
	f.SetColWidth(sheetName, "E", "E", 36)
	f.SetColWidth(sheetName, "F", "F", 8)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("播音安排 %s ~ %s",
		startDate.Format(model.DateLayout), endDate.Format(model.DateLayout)))
	f.MergeCell(sheetName, "A1", "F1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	headers := []string{"日期", "星期", "主播", "节目单", "歌单", "直播"}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(sheetName, cell(col, 2), h)
		f.SetCellStyle(sheetName, cell(col, 2), cell(col, 2), headerStyle)
	}

	// 数据行：连续 7 天，缺日程的日期留空
	row := 3
	for i := 0; i < 7; i++ {
		date := startDate.AddDate(0, 0, i)
		dateStr := date.Format(model.DateLayout)

		f.SetCellValue(sheetName, cell("A", row), dateStr)
		f.SetCellValue(sheetName, cell("B", row), weekdayNames[isoWeekday(date)])

		if sch, ok := byDate[dateStr]; ok {
			names := make([]string, 0, len(sch.Anchors))
			for j := range sch.Anchors {
				names = append(names, sch.Anchors[j].RealName)
			}
			f.SetCellValue(sheetName, cell("C", row), strings.Join(names, "、"))

			programs := make([]string, 0, len(sch.Programs))
			for _, p := range sch.Programs {
				programs = append(programs, fmt.Sprintf("%s %s", p.TimeSlot, p.Name))
			}
			f.SetCellValue(sheetName, cell("D", row), strings.Join(programs, "\n"))

			songs := make([]string, 0, len(sch.Songs))
			for _, song := range sch.Songs {
				line := song.Title
				if song.Artist != "" {
					line += " - " + song.Artist
				}
				songs = append(songs, line)
			}
			f.SetCellValue(sheetName, cell("E", row), strings.Join(songs, "\n"))

			if sch.IsLive {
				f.SetCellValue(sheetName, cell("F", row), "是")
			}
		}
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("播音安排_%s.xlsx", startDate.Format(model.DateLayout))
	return buf, filename, nil
}

// ── 辅助函数 ──

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
