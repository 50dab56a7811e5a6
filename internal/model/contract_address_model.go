package model

import (
	"time"
)

// ContractAddressModel 项目合约地址，(name, contract_address) 唯一
type ContractAddressModel struct {
	Name            string    `json:"name" gorm:"primaryKey;type:varchar(255)"`
	ContractAddress string    `json:"contract_address" gorm:"primaryKey;type:varchar(42)"` // 小写 0x 地址
	CreatedAt       time.Time `json:"created_at"`
}

// TableName 自定义表名
func (ContractAddressModel) TableName() string {
	return "arbigrants_labels_project_contracts"
}
