package model

import "time"

// 音频来源
const (
	AudioSourceHimalaya = "himalaya"
	AudioSourceNetease  = "netease"
	AudioSourceQQ       = "qq"
	AudioSourceBilibili = "bilibili"
	AudioSourceYoutube  = "youtube"
	AudioSourceOther    = "other"
)

// Album 长音频专辑表 — 对应 albums
type Album struct {
	AlbumID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"album_id"`
	Title         string `gorm:"type:varchar(200);not null"                     json:"title"`
	Description   string `gorm:"type:text;not null;default:''"                  json:"description,omitempty"`
	CoverImageURL string `gorm:"type:varchar(500);not null;default:''"          json:"cover_image_url,omitempty"`
	CreatedBy     string `gorm:"type:uuid;not null"                             json:"created_by"`
	BaseModel

	// 关联
	Tracks []AudioTrack `gorm:"foreignKey:AlbumID" json:"tracks,omitempty"`
}

// TableName 指定表名
func (Album) TableName() string { return "albums" }

// AudioTrack 音频轨道表 — 对应 audio_tracks
// 音频为外链（喜马拉雅/网易云等），站内不存文件
type AudioTrack struct {
	TrackID     string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"track_id"`
	AlbumID     string    `gorm:"type:uuid;not null"                             json:"album_id"`
	Title       string    `gorm:"type:varchar(200);not null"                     json:"title"`
	AudioSource string    `gorm:"type:varchar(20);not null;default:'other'"      json:"audio_source"`
	AudioURL    string    `gorm:"type:varchar(500);not null"                     json:"audio_url"`
	Duration    string    `gorm:"type:varchar(20);not null;default:''"           json:"duration,omitempty"` // 如 "05:30"
	SortOrder   int       `gorm:"column:sort_order;not null;default:0"           json:"sort_order"`
	UploadedBy  string    `gorm:"type:uuid;not null"                             json:"uploaded_by"`
	UploadedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"uploaded_at"`
	PlayCount   int       `gorm:"not null;default:0"                             json:"play_count"`

	// 关联
	Script *Script `gorm:"foreignKey:TrackID;references:TrackID" json:"script,omitempty"`
}

// TableName 指定表名
func (AudioTrack) TableName() string { return "audio_tracks" }

// Script 文稿表 — 对应 scripts（与 audio_tracks 1:1）
type Script struct {
	ScriptID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"script_id"`
	TrackID  string `gorm:"type:uuid;not null;uniqueIndex"                 json:"track_id"`
	Title    string `gorm:"type:varchar(200);not null"                     json:"title"`
	Content  string `gorm:"type:text;not null"                             json:"content"`
	AuthorID string `gorm:"type:uuid;not null"                             json:"author_id"`
	BaseModel
}

// TableName 指定表名
func (Script) TableName() string { return "scripts" }
