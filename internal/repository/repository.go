package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User             UserRepository
	InviteCode       InviteCodeRepository
	Group            GroupRepository
	Schedule         ScheduleRepository
	Booking          BookingRepository
	ModulePermission ModulePermissionRepository
	Announcement     AnnouncementRepository
	Album            AlbumRepository
	News             NewsRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:             NewUserRepo(db),
		InviteCode:       NewInviteCodeRepo(db),
		Group:            NewGroupRepo(db),
		Schedule:         NewScheduleRepo(db),
		Booking:          NewBookingRepo(db),
		ModulePermission: NewModulePermissionRepo(db),
		Announcement:     NewAnnouncementRepo(db),
		Album:            NewAlbumRepo(db),
		News:             NewNewsRepo(db),
	}
}
