package model

// Product — товар из базовой коллекции.
type Product struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	// CategoryID — ссылка на Category.ID, может не разрешаться
	CategoryID int `json:"categoryId"`
}

// EnrichedProduct — товар с разрешёнными категорией и владельцем категории.
// nil означает, что ссылка не разрешилась.
type EnrichedProduct struct {
	Product
	Category *Category `json:"category"`
	User     *User     `json:"user"`
}

// CategoryLabel возвращает "icon - title" и true, если категория разрешилась.
func (p EnrichedProduct) CategoryLabel() (string, bool) {
	if p.Category == nil {
		return "", false
	}
	return p.Category.Label(), true
}

// OwnerName возвращает имя владельца и true, если владелец разрешился.
func (p EnrichedProduct) OwnerName() (string, bool) {
	if p.User == nil {
		return "", false
	}
	return p.User.Name, true
}

// Dataset — три базовые коллекции, загружаемые один раз при старте.
type Dataset struct {
	Users      []User     `json:"users"`
	Categories []Category `json:"categories"`
	Products   []Product  `json:"products"`
}
