package model

// Category — категория товаров, принадлежащая одному пользователю.
type Category struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Icon  string `json:"icon"`
	// OwnerID — ссылка на User.ID, может не разрешаться
	OwnerID int `json:"ownerId"`
}

// Label возвращает подпись категории в формате "icon - title".
func (c *Category) Label() string {
	return c.Icon + " - " + c.Title
}
