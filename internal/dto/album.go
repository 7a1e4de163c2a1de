package dto

// ── 长音频目录 DTO ──

// CreateAlbumRequest 创建专辑请求
type CreateAlbumRequest struct {
	Title         string `json:"title"           binding:"required,min=1,max=200"`
	Description   string `json:"description"     binding:"omitempty,max=2000"`
	CoverImageURL string `json:"cover_image_url" binding:"omitempty,url,max=500"`
}

// UpdateAlbumRequest 更新专辑请求
type UpdateAlbumRequest struct {
	Title         *string `json:"title"           binding:"omitempty,min=1,max=200"`
	Description   *string `json:"description"     binding:"omitempty,max=2000"`
	CoverImageURL *string `json:"cover_image_url" binding:"omitempty,url,max=500"`
}

// AddTrackRequest 添加音频轨道请求
type AddTrackRequest struct {
	Title       string `json:"title"        binding:"required,min=1,max=200"`
	AudioSource string `json:"audio_source" binding:"required,oneof=himalaya netease qq bilibili youtube other"`
	AudioURL    string `json:"audio_url"    binding:"required,url,max=500"`
	Duration    string `json:"duration"     binding:"omitempty,max=20"`
	SortOrder   int    `json:"sort_order"   binding:"omitempty,min=0"`
}

// SaveScriptRequest 保存文稿请求（新建或覆盖）
type SaveScriptRequest struct {
	Title   string `json:"title"   binding:"required,min=1,max=200"`
	Content string `json:"content" binding:"required"`
}

// AlbumResponse 专辑信息响应
type AlbumResponse struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description,omitempty"`
	CoverImageURL string          `json:"cover_image_url,omitempty"`
	TrackCount    int             `json:"track_count"`
	Tracks        []TrackResponse `json:"tracks,omitempty"`
	CreatedAt     string          `json:"created_at"`
}

// TrackResponse 音频轨道响应
type TrackResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	AudioSource string          `json:"audio_source"`
	AudioURL    string          `json:"audio_url"`
	Duration    string          `json:"duration,omitempty"`
	SortOrder   int             `json:"sort_order"`
	PlayCount   int             `json:"play_count"`
	Script      *ScriptResponse `json:"script,omitempty"`
}

// ScriptResponse 文稿响应
type ScriptResponse struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}
