package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/fengzishiyi/campus-radio/internal/model"
	pkgerrors "github.com/fengzishiyi/campus-radio/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User // key: user_id / username / student_id
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) put(user *model.User) {
	m.users[user.UserID] = user
	m.users["name:"+user.Username] = user
	m.users["sid:"+user.StudentID] = user
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%d", m.seq)
	}
	if _, ok := m.users["name:"+user.Username]; ok {
		return gorm.ErrDuplicatedKey
	}
	m.put(user)
	return nil
}

func (m *mockUserRepo) CreateWithInvite(ctx context.Context, user *model.User, inviteCodeID string) error {
	return m.Create(ctx, user)
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	if u, ok := m.users["name:"+username]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByStudentID(_ context.Context, studentID string) (*model.User, error) {
	if u, ok := m.users["sid:"+studentID]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByIDs(_ context.Context, ids []string) ([]model.User, error) {
	var result []model.User
	seen := make(map[string]bool)
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if u, ok := m.users[id]; ok {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (m *mockUserRepo) List(_ context.Context, role, department string, offset, limit int) ([]model.User, int64, error) {
	var all []model.User
	seen := make(map[string]bool)
	for _, u := range m.users {
		if seen[u.UserID] {
			continue
		}
		seen[u.UserID] = true
		if role != "" && u.Role != role {
			continue
		}
		if department != "" && u.Department != department {
			continue
		}
		all = append(all, *u)
	}
	total := int64(len(all))
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	if offset > len(all) {
		return nil, total, nil
	}
	return all[offset:end], total, nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.put(user)
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	u, ok := m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.users, u.UserID)
	delete(m.users, "name:"+u.Username)
	delete(m.users, "sid:"+u.StudentID)
	return nil
}

// ── Mock InviteCodeRepository ──

type mockInviteCodeRepo struct {
	codes map[string]*model.InviteCode
	seq   int
}

func newMockInviteCodeRepo() *mockInviteCodeRepo {
	return &mockInviteCodeRepo{codes: make(map[string]*model.InviteCode)}
}

func (m *mockInviteCodeRepo) Create(_ context.Context, code *model.InviteCode) error {
	if code.InviteCodeID == "" {
		m.seq++
		code.InviteCodeID = fmt.Sprintf("invite-%d", m.seq)
	}
	code.CreatedAt = time.Now()
	m.codes[code.Code] = code
	return nil
}

func (m *mockInviteCodeRepo) GetByCode(_ context.Context, code string) (*model.InviteCode, error) {
	if c, ok := m.codes[code]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockInviteCodeRepo) List(_ context.Context, offset, limit int) ([]model.InviteCode, int64, error) {
	var all []model.InviteCode
	for _, c := range m.codes {
		all = append(all, *c)
	}
	return all, int64(len(all)), nil
}

// ── Mock GroupRepository ──

type mockGroupRepo struct {
	groups map[string]*model.BroadcastGroup
	seq    int
}

func newMockGroupRepo() *mockGroupRepo {
	return &mockGroupRepo{groups: make(map[string]*model.BroadcastGroup)}
}

func (m *mockGroupRepo) Create(_ context.Context, group *model.BroadcastGroup) error {
	for _, g := range m.groups {
		if g.Weekday == group.Weekday {
			return gorm.ErrDuplicatedKey
		}
	}
	if group.GroupID == "" {
		m.seq++
		group.GroupID = fmt.Sprintf("group-%d", m.seq)
	}
	m.groups[group.GroupID] = group
	return nil
}

func (m *mockGroupRepo) GetByID(_ context.Context, id string) (*model.BroadcastGroup, error) {
	if g, ok := m.groups[id]; ok {
		return g, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGroupRepo) GetByWeekday(_ context.Context, weekday int) (*model.BroadcastGroup, error) {
	for _, g := range m.groups {
		if g.Weekday == weekday {
			return g, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGroupRepo) List(_ context.Context) ([]model.BroadcastGroup, error) {
	var result []model.BroadcastGroup
	for _, g := range m.groups {
		result = append(result, *g)
	}
	return result, nil
}

func (m *mockGroupRepo) Update(_ context.Context, group *model.BroadcastGroup) error {
	if _, ok := m.groups[group.GroupID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.groups[group.GroupID] = group
	return nil
}

func (m *mockGroupRepo) ReplaceMembers(_ context.Context, groupID string, userIDs []string) error {
	g, ok := m.groups[groupID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	g.Members = g.Members[:0]
	for _, id := range userIDs {
		g.Members = append(g.Members, model.User{UserID: id})
	}
	return nil
}

// ── Mock ScheduleRepository ──

type mockScheduleRepo struct {
	schedules map[string]*model.DailySchedule // key: schedule_id
	byDate    map[string]string               // date → schedule_id
	programs  map[string]*model.Program
	songs     map[string]*model.Song
	seq       int

	failReplaceDay bool // 注入 ReplaceDay 失败，验证目标日不被半写
}

func newMockScheduleRepo() *mockScheduleRepo {
	return &mockScheduleRepo{
		schedules: make(map[string]*model.DailySchedule),
		byDate:    make(map[string]string),
		programs:  make(map[string]*model.Program),
		songs:     make(map[string]*model.Song),
	}
}

func dateKey(d time.Time) string { return d.Format(model.DateLayout) }

func (m *mockScheduleRepo) GetOrCreate(ctx context.Context, date time.Time, createdBy *string) (*model.DailySchedule, bool, error) {
	if id, ok := m.byDate[dateKey(date)]; ok {
		s, err := m.GetByID(ctx, id)
		return s, false, err
	}
	m.seq++
	schedule := &model.DailySchedule{
		ScheduleID: fmt.Sprintf("sched-%d", m.seq),
		Date:       date,
		CreatedBy:  createdBy,
	}
	m.schedules[schedule.ScheduleID] = schedule
	m.byDate[dateKey(date)] = schedule.ScheduleID
	out := *schedule
	return &out, true, nil
}

// GetByID 返回带节目/歌曲的副本
func (m *mockScheduleRepo) GetByID(_ context.Context, id string) (*model.DailySchedule, error) {
	s, ok := m.schedules[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *s
	out.Programs = nil
	out.Songs = nil
	for _, p := range m.programs {
		if p.ScheduleID == id {
			out.Programs = append(out.Programs, *p)
		}
	}
	for _, song := range m.songs {
		if song.ScheduleID == id {
			out.Songs = append(out.Songs, *song)
		}
	}
	return &out, nil
}

func (m *mockScheduleRepo) GetByDate(ctx context.Context, date time.Time) (*model.DailySchedule, error) {
	id, ok := m.byDate[dateKey(date)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m.GetByID(ctx, id)
}

func (m *mockScheduleRepo) ListByDateRange(ctx context.Context, from, to time.Time) ([]model.DailySchedule, error) {
	var result []model.DailySchedule
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if s, err := m.GetByDate(ctx, d); err == nil {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockScheduleRepo) ReplaceAnchors(_ context.Context, scheduleID string, userIDs []string) error {
	s, ok := m.schedules[scheduleID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.Anchors = s.Anchors[:0]
	for _, id := range userIDs {
		s.Anchors = append(s.Anchors, model.User{UserID: id})
	}
	return nil
}

func (m *mockScheduleRepo) SetLive(_ context.Context, scheduleID string, isLive bool) error {
	s, ok := m.schedules[scheduleID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.IsLive = isLive
	return nil
}

func (m *mockScheduleRepo) ReplaceDay(ctx context.Context, scheduleID string, anchorIDs []string, programs []model.Program, songs []model.Song) error {
	if m.failReplaceDay {
		return errors.New("模拟事务失败")
	}
	if _, ok := m.schedules[scheduleID]; !ok {
		return gorm.ErrRecordNotFound
	}
	if err := m.ReplaceAnchors(ctx, scheduleID, anchorIDs); err != nil {
		return err
	}
	for id, p := range m.programs {
		if p.ScheduleID == scheduleID {
			delete(m.programs, id)
		}
	}
	for id, song := range m.songs {
		if song.ScheduleID == scheduleID {
			delete(m.songs, id)
		}
	}
	for i := range programs {
		p := programs[i]
		p.ScheduleID = scheduleID
		_ = m.AddProgram(ctx, &p)
	}
	for i := range songs {
		song := songs[i]
		song.ScheduleID = scheduleID
		_ = m.AddSong(ctx, &song)
	}
	return nil
}

func (m *mockScheduleRepo) AddProgram(_ context.Context, program *model.Program) error {
	if program.ProgramID == "" {
		m.seq++
		program.ProgramID = fmt.Sprintf("prog-%d", m.seq)
	}
	p := *program
	m.programs[p.ProgramID] = &p
	return nil
}

func (m *mockScheduleRepo) GetProgram(_ context.Context, programID string) (*model.Program, error) {
	if p, ok := m.programs[programID]; ok {
		out := *p
		return &out, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleRepo) DeleteProgram(_ context.Context, programID string) error {
	if _, ok := m.programs[programID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.programs, programID)
	return nil
}

func (m *mockScheduleRepo) AddSong(_ context.Context, song *model.Song) error {
	if song.SongID == "" {
		m.seq++
		song.SongID = fmt.Sprintf("song-%d", m.seq)
	}
	s := *song
	m.songs[s.SongID] = &s
	return nil
}

func (m *mockScheduleRepo) GetSong(_ context.Context, songID string) (*model.Song, error) {
	if s, ok := m.songs[songID]; ok {
		out := *s
		return &out, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleRepo) UpdateSong(_ context.Context, song *model.Song) error {
	if _, ok := m.songs[song.SongID]; !ok {
		return gorm.ErrRecordNotFound
	}
	s := *song
	m.songs[s.SongID] = &s
	return nil
}

func (m *mockScheduleRepo) DeleteSong(_ context.Context, songID string) error {
	if _, ok := m.songs[songID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.songs, songID)
	return nil
}

func (m *mockScheduleRepo) MaxSongOrder(_ context.Context, scheduleID string) (int, error) {
	max := 0
	for _, s := range m.songs {
		if s.ScheduleID == scheduleID && s.SortOrder > max {
			max = s.SortOrder
		}
	}
	return max, nil
}

func (m *mockScheduleRepo) ListSongsWithAudioByDate(_ context.Context, before time.Time) ([]model.Song, error) {
	var result []model.Song
	for _, song := range m.songs {
		if song.AudioFile == nil {
			continue
		}
		sched, ok := m.schedules[song.ScheduleID]
		if !ok {
			continue
		}
		if sched.Date.Before(before) {
			result = append(result, *song)
		}
	}
	return result, nil
}

func (m *mockScheduleRepo) ClearSongAudio(_ context.Context, songIDs []string) error {
	for _, id := range songIDs {
		if s, ok := m.songs[id]; ok {
			s.AudioFile = nil
		}
	}
	return nil
}

// ── Mock BookingRepository ──

type mockBookingRepo struct {
	bookings map[string]*model.StudioBooking
	users    *mockUserRepo // 非 nil 时模拟 Preload("User")
	seq      int

	// 排他约束兜底模拟：Create 前重查重叠
	enforceExclusion bool
}

func newMockBookingRepo() *mockBookingRepo {
	return &mockBookingRepo{bookings: make(map[string]*model.StudioBooking), enforceExclusion: true}
}

func (m *mockBookingRepo) withUser(b model.StudioBooking) model.StudioBooking {
	if b.User == nil && m.users != nil {
		if u, ok := m.users.users[b.UserID]; ok {
			b.User = u
		}
	}
	return b
}

func (m *mockBookingRepo) Create(_ context.Context, booking *model.StudioBooking) error {
	if m.enforceExclusion {
		for _, b := range m.bookings {
			if b.IsActive() && dateKey(b.Date) == dateKey(booking.Date) &&
				b.Overlaps(booking.StartTime, booking.EndTime) {
				return pkgerrors.ErrExclusionViolation
			}
		}
	}
	if booking.BookingID == "" {
		m.seq++
		booking.BookingID = fmt.Sprintf("booking-%d", m.seq)
	}
	booking.CreatedAt = time.Now()
	b := *booking
	m.bookings[b.BookingID] = &b
	return nil
}

func (m *mockBookingRepo) GetByID(_ context.Context, id string) (*model.StudioBooking, error) {
	if b, ok := m.bookings[id]; ok {
		out := m.withUser(*b)
		return &out, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBookingRepo) ListActiveByDate(_ context.Context, date time.Time) ([]model.StudioBooking, error) {
	var result []model.StudioBooking
	for _, b := range m.bookings {
		if b.IsActive() && dateKey(b.Date) == dateKey(date) {
			result = append(result, m.withUser(*b))
		}
	}
	return result, nil
}

func (m *mockBookingRepo) ListActiveByDateRange(_ context.Context, from, to time.Time) ([]model.StudioBooking, error) {
	var result []model.StudioBooking
	for _, b := range m.bookings {
		if b.IsActive() && !b.Date.Before(from) && !b.Date.After(to) {
			result = append(result, m.withUser(*b))
		}
	}
	return result, nil
}

func (m *mockBookingRepo) ListByUser(_ context.Context, userID string) ([]model.StudioBooking, error) {
	var result []model.StudioBooking
	for _, b := range m.bookings {
		if b.UserID == userID {
			result = append(result, *b)
		}
	}
	return result, nil
}

func (m *mockBookingRepo) UpdateStatus(_ context.Context, id, status string) error {
	b, ok := m.bookings[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	b.Status = status
	return nil
}

// ── Mock ModulePermissionRepository ──

type mockPermissionRepo struct {
	perms map[string]*model.ModulePermission
}

func newMockPermissionRepo() *mockPermissionRepo {
	return &mockPermissionRepo{perms: make(map[string]*model.ModulePermission)}
}

func (m *mockPermissionRepo) GetByModuleName(_ context.Context, moduleName string) (*model.ModulePermission, error) {
	if p, ok := m.perms[moduleName]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPermissionRepo) List(_ context.Context) ([]model.ModulePermission, error) {
	var result []model.ModulePermission
	for _, p := range m.perms {
		result = append(result, *p)
	}
	return result, nil
}

func (m *mockPermissionRepo) Update(_ context.Context, perm *model.ModulePermission) error {
	if _, ok := m.perms[perm.ModuleName]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.perms[perm.ModuleName] = perm
	return nil
}
