package dto

// ── 新闻播报 DTO ──

// CreateNewsRequest 创建新闻请求
type CreateNewsRequest struct {
	Date       string `json:"date"        binding:"required"` // "2006-01-02"
	Title      string `json:"title"       binding:"required,min=1,max=200"`
	AudioURL   string `json:"audio_url"   binding:"omitempty,url,max=500"`
	ScriptText string `json:"script_text" binding:"omitempty"`
}

// UpdateNewsRequest 更新新闻请求
type UpdateNewsRequest struct {
	Title      *string `json:"title"       binding:"omitempty,min=1,max=200"`
	AudioURL   *string `json:"audio_url"   binding:"omitempty,url,max=500"`
	ScriptText *string `json:"script_text"`
}

// NewsListRequest 新闻列表查询参数
type NewsListRequest struct {
	Page     int    `form:"page"      binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Start    string `form:"start"`
	End      string `form:"end"`
}

// NewsResponse 新闻信息响应
type NewsResponse struct {
	ID         string     `json:"id"`
	Date       string     `json:"date"`
	Title      string     `json:"title"`
	AudioURL   string     `json:"audio_url,omitempty"`
	ScriptText string     `json:"script_text,omitempty"`
	Reporter   *UserBrief `json:"reporter,omitempty"`
	CreatedAt  string     `json:"created_at"`
}
