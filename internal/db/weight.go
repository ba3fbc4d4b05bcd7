package db

import "gorm.io/gorm"

// WeightEntry 是体重时间序列中的一条采样，只追加不修改。
type WeightEntry struct {
	gorm.Model
	Date   string  `gorm:"size:10;index" json:"date"`
	Weight float64 `json:"weight"`
}

// TableName 自定义表名以保持命名一致。
func (WeightEntry) TableName() string {
	return "weight_entries"
}
