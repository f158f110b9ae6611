// Пакет model — доменные модели каталога: пользователи, категории, товары
// и производная (обогащённая) запись товара.
package model

// Sex — пол пользователя. Используется только для цвета имени в таблице.
type Sex string

const (
	// SexMale — мужской
	SexMale Sex = "m"
	// SexFemale — женский
	SexFemale Sex = "f"
)

// User — владелец категорий.
type User struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Sex  Sex    `json:"sex"`
}

// IsMale сообщает, отображается ли пользователь цветом для SexMale.
func (u *User) IsMale() bool {
	return u != nil && u.Sex == SexMale
}
