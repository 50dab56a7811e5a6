package model

import (
	"time"
)

// ProjectMetadataModel 项目元数据，每个 name 只有一行，先写入者生效
type ProjectMetadataModel struct {
	Name        string    `json:"name" gorm:"primaryKey;type:varchar(255)"`
	Category    string    `json:"category" gorm:"type:varchar(32)"`
	GrantDate   string    `json:"grant_date" gorm:"type:varchar(32)"` // 审核后由运营填写
	LlamaSlug   string    `json:"llama_slug"`
	LlamaName   string    `json:"llama_name"`
	Chain       string    `json:"chain" gorm:"type:varchar(32)"`
	Description string    `json:"description" gorm:"type:varchar(250)"`
	Logo        string    `json:"logo"` // 公开访问 URL
	Website     string    `json:"website"`
	Twitter     string    `json:"twitter"`
	Github      string    `json:"github"`
	Dune        string    `json:"dune"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName 自定义表名
func (ProjectMetadataModel) TableName() string {
	return "arbigrants_labels_project_metadata"
}
