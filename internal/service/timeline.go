package service

import (
	"fmt"

	"github.com/fengzishiyi/campus-radio/internal/dto"
	"github.com/fengzishiyi/campus-radio/internal/model"
)

// 时间轴渲染配色
var timelineColors = map[string]string{
	model.BookingStatusPending:   "#f0ad4e",
	model.BookingStatusConfirmed: "#5cb85c",
	model.BookingStatusCompleted: "#999999",
}

const timelineLiveColor = "#d9534f"

// parseMinutes 把 "HH:MM" 转为当日分钟数；格式非法返回 -1
func parseMinutes(hhmm string) int {
	var h, m int
	if _, err := fmt.Sscanf(hhmm, "%d:%d", &h, &m); err != nil {
		return -1
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return -1
	}
	return h*60 + m
}

// formatMinutes 把当日分钟数转回 "HH:MM"
func formatMinutes(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

// ComputeTimeline 把当日活跃预约换算成相对营业窗口的渲染块
// 偏移与宽度为窗口百分比，越界区间被截断到可见范围；
// 完全在窗口外的预约压成贴边零宽块，保留原始起止时刻供前端提示；
// isLive 为 true 时追加直播伪块，不对应任何预约行
func ComputeTimeline(bookings []model.StudioBooking, isLive bool, openHour, closeHour, liveStartHour, liveEndHour int) []dto.TimelineBlock {
	windowStart := openHour * 60
	windowEnd := closeHour * 60
	windowLen := float64(windowEnd - windowStart)

	blocks := make([]dto.TimelineBlock, 0, len(bookings)+1)
	for i := range bookings {
		b := &bookings[i]
		start := parseMinutes(b.StartTime)
		end := parseMinutes(b.EndTime)
		if start < 0 || end < 0 || end <= start {
			continue
		}
		origStart, origEnd := start, end

		// 截断到营业窗口；无任何可见部分时贴到最近的边缘，宽度为零
		outOfWindow := false
		if start < windowStart {
			start = windowStart
		}
		if end > windowEnd {
			end = windowEnd
		}
		if end <= start {
			outOfWindow = true
			if origEnd <= windowStart {
				start, end = windowStart, windowStart
			} else {
				start, end = windowEnd, windowEnd
			}
		}

		color, ok := timelineColors[b.Status]
		if !ok {
			color = timelineColors[model.BookingStatusConfirmed]
		}

		title := b.Purpose
		if b.User != nil {
			title = b.User.RealName + " · " + b.Purpose
		}

		startLabel, endLabel := formatMinutes(start), formatMinutes(end)
		if outOfWindow {
			startLabel, endLabel = formatMinutes(origStart), formatMinutes(origEnd)
		}

		blocks = append(blocks, dto.TimelineBlock{
			BookingID:   b.BookingID,
			Title:       title,
			StartTime:   startLabel,
			EndTime:     endLabel,
			Status:      b.Status,
			OutOfWindow: outOfWindow,
			OffsetPct:   round2(float64(start-windowStart) / windowLen * 100),
			WidthPct:    round2(float64(end-start) / windowLen * 100),
			Color:       color,
		})
	}

	if isLive {
		start := liveStartHour * 60
		end := liveEndHour * 60
		if start < windowStart {
			start = windowStart
		}
		if end > windowEnd {
			end = windowEnd
		}
		if end > start {
			blocks = append(blocks, dto.TimelineBlock{
				Title:     "直播时段",
				StartTime: formatMinutes(start),
				EndTime:   formatMinutes(end),
				IsLive:    true,
				OffsetPct: round2(float64(start-windowStart) / windowLen * 100),
				WidthPct:  round2(float64(end-start) / windowLen * 100),
				Color:     timelineLiveColor,
			})
		}
	}

	return blocks
}

// round2 保留两位小数，避免浮点尾数噪声进入响应
func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
