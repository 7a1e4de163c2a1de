package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/fengzishiyi/campus-radio/internal/dto"
	"github.com/fengzishiyi/campus-radio/internal/model"
	"github.com/fengzishiyi/campus-radio/internal/repository"
)

func setupScheduleService() (ScheduleService, *repository.Repository, *mockScheduleRepo, *mockGroupRepo) {
	repo, userRepo, scheduleRepo, _, groupRepo := testRepository()
	userRepo.put(&model.User{UserID: "leader-1", Username: "leader", RealName: "组长", StudentID: "2023001"})
	userRepo.put(&model.User{UserID: "member-1", Username: "m1", RealName: "甲", StudentID: "2023002"})
	userRepo.put(&model.User{UserID: "member-2", Username: "m2", RealName: "乙", StudentID: "2023003"})
	svc := NewScheduleService(testConfig(), repo, nil, zap.NewNop())
	return svc, repo, scheduleRepo, groupRepo
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(model.DateLayout, s)
	if err != nil {
		t.Fatalf("日期解析失败: %v", err)
	}
	return d
}

// 预置周一分组：组长 leader-1，组员 member-1、member-2、leader-1（与组长重合）
func seedMondayGroup(groupRepo *mockGroupRepo) {
	leaderID := "leader-1"
	groupRepo.groups["group-mon"] = &model.BroadcastGroup{
		GroupID:  "group-mon",
		Name:     "周一组",
		Weekday:  1,
		LeaderID: &leaderID,
		Members: []model.User{
			{UserID: "member-1"},
			{UserID: "member-2"},
			{UserID: "leader-1"},
		},
	}
}

// ── 查无则建 ──

func TestGetOrCreateByDate_Idempotent(t *testing.T) {
	svc, _, scheduleRepo, _ := setupScheduleService()
	date := mustDate(t, "2026-09-07")

	first, err := svc.GetOrCreateByDate(context.Background(), date, "user-a")
	if err != nil {
		t.Fatalf("首次取日程应成功: %v", err)
	}
	second, err := svc.GetOrCreateByDate(context.Background(), date, "user-b")
	if err != nil {
		t.Fatalf("再次取日程应成功: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("同一日期应复用同一行: %s vs %s", first.ID, second.ID)
	}
	if len(scheduleRepo.schedules) != 1 {
		t.Errorf("期望仅 1 行日程，实际=%d", len(scheduleRepo.schedules))
	}
}

// ── 分组填充 ──

func TestFillFromGroup_LeaderFirstDeduped(t *testing.T) {
	svc, _, scheduleRepo, groupRepo := setupScheduleService()
	seedMondayGroup(groupRepo)
	date := mustDate(t, "2026-09-07") // 周一

	result, err := svc.FillFromGroup(context.Background(), date, "admin-1")
	if err != nil {
		t.Fatalf("FillFromGroup 应成功: %v", err)
	}
	if result.Outcome != dto.FillOutcomeFilled {
		t.Fatalf("期望 outcome=filled，实际=%s", result.Outcome)
	}
	if result.AnchorCount != 3 {
		t.Errorf("组长与组员重合应去重，期望 3 人，实际=%d", result.AnchorCount)
	}

	schedule, err := scheduleRepo.GetByDate(context.Background(), date)
	if err != nil {
		t.Fatalf("日程应已创建: %v", err)
	}
	if len(schedule.Anchors) != 3 {
		t.Fatalf("期望 3 名主播，实际=%d", len(schedule.Anchors))
	}
	if schedule.Anchors[0].UserID != "leader-1" {
		t.Errorf("组长应排第一位，实际=%s", schedule.Anchors[0].UserID)
	}
}

func TestFillFromGroup_ReplacesExistingAnchors(t *testing.T) {
	svc, _, scheduleRepo, groupRepo := setupScheduleService()
	seedMondayGroup(groupRepo)
	date := mustDate(t, "2026-09-07")

	// 预置手工指定的主播
	if _, err := svc.ReplaceAnchors(context.Background(), date, []string{"member-2"}, "admin-1"); err != nil {
		t.Fatalf("预置主播失败: %v", err)
	}

	if _, err := svc.FillFromGroup(context.Background(), date, "admin-1"); err != nil {
		t.Fatalf("FillFromGroup 应成功: %v", err)
	}

	schedule, _ := scheduleRepo.GetByDate(context.Background(), date)
	if len(schedule.Anchors) != 3 {
		t.Errorf("填充应整体替换而非追加，期望 3 人，实际=%d", len(schedule.Anchors))
	}
}

func TestFillFromGroup_NoGroupSoftResult(t *testing.T) {
	svc, _, scheduleRepo, _ := setupScheduleService()
	date := mustDate(t, "2026-09-08") // 周二，无分组

	result, err := svc.FillFromGroup(context.Background(), date, "admin-1")
	if err != nil {
		t.Fatalf("缺分组不应报错: %v", err)
	}
	if result.Outcome != dto.FillOutcomeNoGroup {
		t.Errorf("期望 outcome=no_group_for_weekday，实际=%s", result.Outcome)
	}
	if result.Weekday != 2 {
		t.Errorf("期望 weekday=2，实际=%d", result.Weekday)
	}
	// 缺分组时不应建日程行
	if _, err := scheduleRepo.GetByDate(context.Background(), date); err == nil {
		t.Error("缺分组时不应隐式创建日程")
	}
}

// ── 跨日复制 ──

func TestCopyPreviousDay_CopiesAllButAudio(t *testing.T) {
	svc, _, scheduleRepo, _ := setupScheduleService()
	source := mustDate(t, "2026-09-07")
	target := mustDate(t, "2026-09-08")

	// 预置源日：主播 + 节目 + 带音频的歌曲
	if _, err := svc.ReplaceAnchors(context.Background(), source, []string{"member-1"}, "admin-1"); err != nil {
		t.Fatalf("预置源日主播失败: %v", err)
	}
	if _, err := svc.AddProgram(context.Background(), source, &dto.AddProgramRequest{
		Name: "早间新闻", TimeSlot: "07:00-07:30",
	}, "admin-1"); err != nil {
		t.Fatalf("预置节目失败: %v", err)
	}
	song, err := svc.AddSong(context.Background(), source, &dto.AddSongRequest{Title: "晴天", Artist: "周杰伦"}, "admin-1")
	if err != nil {
		t.Fatalf("预置歌曲失败: %v", err)
	}
	if _, err := svc.AttachSongAudio(context.Background(), song.ID, "/tmp/radio-media/qingtian.mp3"); err != nil {
		t.Fatalf("挂音频失败: %v", err)
	}

	result, err := svc.CopyPreviousDay(context.Background(), target, "admin-1")
	if err != nil {
		t.Fatalf("CopyPreviousDay 应成功: %v", err)
	}
	if result.Outcome != dto.CopyOutcomeCopied {
		t.Fatalf("期望 outcome=copied，实际=%s", result.Outcome)
	}
	if result.AnchorCount != 1 || result.ProgramCount != 1 || result.SongCount != 1 {
		t.Errorf("复制计数不符: %+v", result)
	}

	copied, err := scheduleRepo.GetByDate(context.Background(), target)
	if err != nil {
		t.Fatalf("目标日应已创建: %v", err)
	}
	if len(copied.Songs) != 1 {
		t.Fatalf("期望 1 首歌，实际=%d", len(copied.Songs))
	}
	if copied.Songs[0].AudioFile != nil {
		t.Error("音频文件不应跨日复制")
	}
	if copied.Songs[0].Title != "晴天" {
		t.Errorf("歌曲元数据应复制，实际 title=%s", copied.Songs[0].Title)
	}
}

func TestCopyPreviousDay_OverwritesTarget(t *testing.T) {
	svc, _, scheduleRepo, _ := setupScheduleService()
	source := mustDate(t, "2026-09-07")
	target := mustDate(t, "2026-09-08")

	if _, err := svc.AddProgram(context.Background(), source, &dto.AddProgramRequest{
		Name: "早间新闻", TimeSlot: "07:00-07:30",
	}, "admin-1"); err != nil {
		t.Fatal(err)
	}
	// 目标日已有不同内容
	if _, err := svc.AddProgram(context.Background(), target, &dto.AddProgramRequest{
		Name: "午间点歌", TimeSlot: "12:00-13:00",
	}, "admin-1"); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.CopyPreviousDay(context.Background(), target, "admin-1"); err != nil {
		t.Fatalf("CopyPreviousDay 应成功: %v", err)
	}

	copied, _ := scheduleRepo.GetByDate(context.Background(), target)
	if len(copied.Programs) != 1 {
		t.Fatalf("复制应整体覆盖目标日，期望 1 个节目，实际=%d", len(copied.Programs))
	}
	if copied.Programs[0].Name != "早间新闻" {
		t.Errorf("目标日节目应被源日替换，实际=%s", copied.Programs[0].Name)
	}
}

func TestCopyPreviousDay_NoSourceSoftResult(t *testing.T) {
	svc, _, _, _ := setupScheduleService()
	target := mustDate(t, "2026-09-08")

	result, err := svc.CopyPreviousDay(context.Background(), target, "admin-1")
	if err != nil {
		t.Fatalf("缺源日不应报错: %v", err)
	}
	if result.Outcome != dto.CopyOutcomeNoSource {
		t.Errorf("期望 outcome=no_source_schedule，实际=%s", result.Outcome)
	}
	if result.SourceDate != "2026-09-07" {
		t.Errorf("期望 source_date=2026-09-07，实际=%s", result.SourceDate)
	}
}

func TestCopyPreviousDay_FailureKeepsTarget(t *testing.T) {
	svc, _, scheduleRepo, _ := setupScheduleService()
	source := mustDate(t, "2026-09-07")
	target := mustDate(t, "2026-09-08")

	if _, err := svc.AddProgram(context.Background(), source, &dto.AddProgramRequest{
		Name: "早间新闻", TimeSlot: "07:00-07:30",
	}, "admin-1"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AddProgram(context.Background(), target, &dto.AddProgramRequest{
		Name: "午间点歌", TimeSlot: "12:00-13:00",
	}, "admin-1"); err != nil {
		t.Fatal(err)
	}

	scheduleRepo.failReplaceDay = true
	if _, err := svc.CopyPreviousDay(context.Background(), target, "admin-1"); err == nil {
		t.Fatal("整体替换失败时应返回错误")
	}

	// 目标日维持原状
	after, _ := scheduleRepo.GetByDate(context.Background(), target)
	if len(after.Programs) != 1 || after.Programs[0].Name != "午间点歌" {
		t.Error("替换失败后目标日内容不应被半写")
	}
}

// ── 批量建周 ──

func TestCreateWeek_CountsOnlyNew(t *testing.T) {
	svc, _, _, groupRepo := setupScheduleService()
	seedMondayGroup(groupRepo)
	start := mustDate(t, "2026-09-07") // 周一

	// 周三已有日程
	if _, err := svc.GetOrCreateByDate(context.Background(), mustDate(t, "2026-09-09"), "admin-1"); err != nil {
		t.Fatal(err)
	}

	result, err := svc.CreateWeek(context.Background(), start, "admin-1")
	if err != nil {
		t.Fatalf("CreateWeek 应成功: %v", err)
	}
	if result.CreatedCount != 6 {
		t.Errorf("既有日程不计入新建数，期望 6，实际=%d", result.CreatedCount)
	}
	if len(result.Days) != 7 {
		t.Fatalf("期望 7 天结果，实际=%d", len(result.Days))
	}

	// 周一有分组 → filled；其余 → no_group_for_weekday
	if result.Days[0].Outcome != dto.WeekDayOutcomeCreated || result.Days[0].FillResult != dto.FillOutcomeFilled {
		t.Errorf("周一结果不符: %+v", result.Days[0])
	}
	if result.Days[2].Outcome != dto.WeekDayOutcomeExisted {
		t.Errorf("周三应为 existed，实际=%s", result.Days[2].Outcome)
	}
	if result.Days[1].FillResult != dto.FillOutcomeNoGroup {
		t.Errorf("周二应为 no_group_for_weekday，实际=%s", result.Days[1].FillResult)
	}
}

func TestCreateWeek_Idempotent(t *testing.T) {
	svc, _, scheduleRepo, groupRepo := setupScheduleService()
	seedMondayGroup(groupRepo)
	start := mustDate(t, "2026-09-07")

	if _, err := svc.CreateWeek(context.Background(), start, "admin-1"); err != nil {
		t.Fatal(err)
	}
	second, err := svc.CreateWeek(context.Background(), start, "admin-1")
	if err != nil {
		t.Fatalf("重复建周应成功: %v", err)
	}
	if second.CreatedCount != 0 {
		t.Errorf("二次建周不应新建任何行，实际=%d", second.CreatedCount)
	}
	if len(scheduleRepo.schedules) != 7 {
		t.Errorf("期望共 7 行日程，实际=%d", len(scheduleRepo.schedules))
	}
}

// ── 直播标记 ──

func TestToggleLive(t *testing.T) {
	svc, _, _, _ := setupScheduleService()
	date := mustDate(t, "2026-09-07")

	on, err := svc.ToggleLive(context.Background(), date, "admin-1")
	if err != nil {
		t.Fatalf("ToggleLive 应成功: %v", err)
	}
	if !on.IsLive {
		t.Error("首次切换应置为直播")
	}

	off, err := svc.ToggleLive(context.Background(), date, "admin-1")
	if err != nil {
		t.Fatalf("二次切换应成功: %v", err)
	}
	if off.IsLive {
		t.Error("二次切换应取消直播")
	}
}

// ── 歌曲 ──

func TestAddSong_AppendsToEnd(t *testing.T) {
	svc, _, _, _ := setupScheduleService()
	date := mustDate(t, "2026-09-07")

	s1, err := svc.AddSong(context.Background(), date, &dto.AddSongRequest{Title: "第一首"}, "admin-1")
	if err != nil {
		t.Fatal(err)
	}
	s2, err := svc.AddSong(context.Background(), date, &dto.AddSongRequest{Title: "第二首"}, "admin-1")
	if err != nil {
		t.Fatal(err)
	}

	if s1.SortOrder != 1 {
		t.Errorf("首曲期望排序号 1，实际=%d", s1.SortOrder)
	}
	if s2.SortOrder != 2 {
		t.Errorf("次曲期望排序号 2，实际=%d", s2.SortOrder)
	}
}

func TestDeleteSong_NotFound(t *testing.T) {
	svc, _, _, _ := setupScheduleService()

	if err := svc.DeleteSong(context.Background(), "nonexistent"); !errors.Is(err, ErrSongNotFound) {
		t.Errorf("期望 ErrSongNotFound，实际: %v", err)
	}
}

// ── 今日歌单 ──

func TestTodayPlaylist_EmptyWithoutSchedule(t *testing.T) {
	svc, _, _, _ := setupScheduleService()

	now := mustDate(t, "2026-09-07")
	playlist, err := svc.TodayPlaylist(context.Background(), now)
	if err != nil {
		t.Fatalf("无日程时歌单应为空而非报错: %v", err)
	}
	if len(playlist.Songs) != 0 {
		t.Errorf("期望空歌单，实际=%d", len(playlist.Songs))
	}
	if playlist.Date != "2026-09-07" {
		t.Errorf("期望 date=2026-09-07，实际=%s", playlist.Date)
	}
}

func TestTodayPlaylist_ReturnsSongs(t *testing.T) {
	svc, _, _, _ := setupScheduleService()
	date := mustDate(t, "2026-09-07")

	if _, err := svc.AddSong(context.Background(), date, &dto.AddSongRequest{Title: "晴天", Artist: "周杰伦"}, "admin-1"); err != nil {
		t.Fatal(err)
	}

	playlist, err := svc.TodayPlaylist(context.Background(), date)
	if err != nil {
		t.Fatalf("TodayPlaylist 应成功: %v", err)
	}
	if len(playlist.Songs) != 1 || playlist.Songs[0].Title != "晴天" {
		t.Errorf("歌单内容不符: %+v", playlist.Songs)
	}
}
