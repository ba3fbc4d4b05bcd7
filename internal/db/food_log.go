package db

import "time"

// 餐次类别常量，与前端展示顺序保持一致
const (
	MealBreakfast = "Breakfast"
	MealLunch     = "Lunch"
	MealDinner    = "Dinner"
	MealSnack     = "Snack"
)

// MealTypes 按固定顺序列出全部餐次。
var MealTypes = []string{MealBreakfast, MealLunch, MealDinner, MealSnack}

// MicroNutrients 记录可选的微量营养素估算（%DV）。
type MicroNutrients struct {
	VitaminA *float64 `json:"vitaminA,omitempty"`
	VitaminC *float64 `json:"vitaminC,omitempty"`
	Calcium  *float64 `json:"calcium,omitempty"`
	Iron     *float64 `json:"iron,omitempty"`
}

// FoodItem 描述一份食物的营养数据。
// Calories 与三大营养素相互独立，不做 4/4/9 的交叉校验。
// Image 存储 base64 编码的 JPEG；AIGenerated 标记数据来自模型估算。
type FoodItem struct {
	Name        string         `json:"name"`
	Portion     string         `json:"portion"`
	Calories    float64        `json:"calories"`
	Protein     float64        `json:"protein"`
	Carbs       float64        `json:"carbs"`
	Fat         float64        `json:"fat"`
	Micros      MicroNutrients `gorm:"embedded;embeddedPrefix:micro_" json:"micros"`
	Image       string         `gorm:"type:text" json:"image,omitempty"`
	AIGenerated bool           `json:"isAiGenerated,omitempty"`
}

// FoodLogEntry 是营养台账中的一条记录。
// ID 由调用方生成（UUID），创建后不可修改，修正只能删除后重建。
// Date 为 YYYY-MM-DD 字符串，按精确匹配查询，不建模时区。
type FoodLogEntry struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Date      string    `gorm:"size:10;index" json:"date"`
	MealType  string    `gorm:"size:16" json:"mealType"`
	Food      FoodItem  `gorm:"embedded;embeddedPrefix:food_" json:"food"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName 自定义表名以保持命名一致。
func (FoodLogEntry) TableName() string {
	return "food_log_entries"
}
