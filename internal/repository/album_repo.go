package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/fengzishiyi/campus-radio/internal/model"
)

// AlbumRepository 长音频专辑数据访问接口
type AlbumRepository interface {
	Create(ctx context.Context, album *model.Album) error
	GetByID(ctx context.Context, id string) (*model.Album, error)
	List(ctx context.Context, offset, limit int) ([]model.Album, int64, error)
	Update(ctx context.Context, album *model.Album) error
	Delete(ctx context.Context, id string) error

	AddTrack(ctx context.Context, track *model.AudioTrack) error
	GetTrack(ctx context.Context, trackID string) (*model.AudioTrack, error)
	DeleteTrack(ctx context.Context, trackID string) error
	MaxTrackOrder(ctx context.Context, albumID string) (int, error)
	IncrementPlayCount(ctx context.Context, trackID string) error

	UpsertScript(ctx context.Context, script *model.Script) error
	GetScriptByTrack(ctx context.Context, trackID string) (*model.Script, error)
}

type albumRepo struct {
	db *gorm.DB
}

// NewAlbumRepo 创建 AlbumRepository 实例
func NewAlbumRepo(db *gorm.DB) AlbumRepository {
	return &albumRepo{db: db}
}

func (r *albumRepo) Create(ctx context.Context, album *model.Album) error {
	return r.db.WithContext(ctx).Create(album).Error
}

func (r *albumRepo) GetByID(ctx context.Context, id string) (*model.Album, error) {
	var album model.Album
	err := r.db.WithContext(ctx).
		Preload("Tracks", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Preload("Tracks.Script").
		Where("album_id = ?", id).
		First(&album).Error
	if err != nil {
		return nil, err
	}
	return &album, nil
}

func (r *albumRepo) List(ctx context.Context, offset, limit int) ([]model.Album, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Album{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var albums []model.Album
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&albums).Error
	return albums, total, err
}

func (r *albumRepo) Update(ctx context.Context, album *model.Album) error {
	return r.db.WithContext(ctx).
		Model(album).
		Where("album_id = ?", album.AlbumID).
		Updates(map[string]interface{}{
			"title":           album.Title,
			"description":     album.Description,
			"cover_image_url": album.CoverImageURL,
		}).Error
}

func (r *albumRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("album_id = ?", id).
		Delete(&model.Album{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ── 音频轨道 ──

func (r *albumRepo) AddTrack(ctx context.Context, track *model.AudioTrack) error {
	return r.db.WithContext(ctx).Create(track).Error
}

func (r *albumRepo) GetTrack(ctx context.Context, trackID string) (*model.AudioTrack, error) {
	var track model.AudioTrack
	err := r.db.WithContext(ctx).
		Preload("Script").
		Where("track_id = ?", trackID).
		First(&track).Error
	if err != nil {
		return nil, err
	}
	return &track, nil
}

func (r *albumRepo) DeleteTrack(ctx context.Context, trackID string) error {
	result := r.db.WithContext(ctx).
		Where("track_id = ?", trackID).
		Delete(&model.AudioTrack{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MaxTrackOrder 专辑内轨道的最大排序号，无轨道时为 0
func (r *albumRepo) MaxTrackOrder(ctx context.Context, albumID string) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).
		Model(&model.AudioTrack{}).
		Where("album_id = ?", albumID).
		Select("MAX(sort_order)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

func (r *albumRepo) IncrementPlayCount(ctx context.Context, trackID string) error {
	return r.db.WithContext(ctx).
		Model(&model.AudioTrack{}).
		Where("track_id = ?", trackID).
		Update("play_count", gorm.Expr("play_count + 1")).Error
}

// ── 文稿 ──

// UpsertScript 写入或覆盖轨道文稿（track_id 唯一，1:1）
func (r *albumRepo) UpsertScript(ctx context.Context, script *model.Script) error {
	return r.db.WithContext(ctx).
		Exec(`INSERT INTO scripts (track_id, title, content, author_id)
		      VALUES (?, ?, ?, ?)
		      ON CONFLICT (track_id) DO UPDATE
		      SET title = EXCLUDED.title, content = EXCLUDED.content,
		          author_id = EXCLUDED.author_id, updated_at = CURRENT_TIMESTAMP`,
			script.TrackID, script.Title, script.Content, script.AuthorID).Error
}

func (r *albumRepo) GetScriptByTrack(ctx context.Context, trackID string) (*model.Script, error) {
	var script model.Script
	err := r.db.WithContext(ctx).
		Where("track_id = ?", trackID).
		First(&script).Error
	if err != nil {
		return nil, err
	}
	return &script, nil
}
