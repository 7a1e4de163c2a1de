package model

// BroadcastGroup 周轮值分组表 — 对应 broadcast_groups
// 每个 weekday 至多一个分组；周六（6）无分组，属于固定业务规则
type BroadcastGroup struct {
	GroupID  string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"group_id"`
	Name     string  `gorm:"type:varchar(50);not null"                      json:"name"`
	Weekday  int     `gorm:"type:smallint;not null;uniqueIndex"             json:"weekday"` // 1-5, 7
	LeaderID *string `gorm:"type:uuid;column:leader_id"                     json:"leader_id,omitempty"`
	BaseModel

	// 关联
	Leader  *User  `gorm:"foreignKey:LeaderID;references:UserID"                                json:"leader,omitempty"`
	Members []User `gorm:"many2many:broadcast_group_members;joinForeignKey:GroupID;joinReferences:UserID" json:"members,omitempty"`
}

// TableName 指定表名
func (BroadcastGroup) TableName() string { return "broadcast_groups" }
