package db

import "time"

// 聊天角色常量
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage 是聊天记录中的一条消息。
// FoodJSON 存放模型返回的结构化食物估算（FoodItem 的 JSON 序列化），
// 为空表示纯对话消息；Logged 在食物被确认写入台账后置位。
// 消息写入台账时复制数据，这里保留的是历史快照。
type ChatMessage struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Role      string    `gorm:"size:12" json:"role"`
	Text      string    `gorm:"type:text" json:"text"`
	Image     string    `gorm:"type:text" json:"image,omitempty"`
	FoodJSON  string    `gorm:"type:text" json:"-"`
	Logged    bool      `json:"isLogged"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName 自定义表名以保持命名一致。
func (ChatMessage) TableName() string {
	return "chat_messages"
}
