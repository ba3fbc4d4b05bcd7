package service

import (
	"time"

	"github.com/google/uuid"
)

const dateFormat = "2006-01-02"

// newEntryID 生成随机唯一标识，用作台账记录与聊天消息的主键。
func newEntryID() string {
	return uuid.NewString()
}

// Today 返回本地时区下的当前日期（YYYY-MM-DD）。
func Today() string {
	return time.Now().In(time.Local).Format(dateFormat)
}
