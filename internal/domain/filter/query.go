// query.go — представление состояния фильтров в query string.
package filter

import "net/url"

// Имена параметров запроса.
const (
	ParamSearch = "q"
	ParamUser   = "user"
	ParamAction = "action"
)

// FromQuery восстанавливает состояние из параметров запроса.
func FromQuery(values url.Values) State {
	return New(values.Get(ParamSearch), values.Get(ParamUser))
}

// Values кодирует состояние в параметры запроса.
// Неактивные фильтры в запрос не попадают.
func (s State) Values() url.Values {
	s = s.Normalize()
	values := url.Values{}
	if s.HasSearch() {
		values.Set(ParamSearch, s.Search)
	}
	if !s.AllUsersSelected() {
		values.Set(ParamUser, s.User)
	}
	return values
}

// Encode возвращает query string состояния (без "?").
func (s State) Encode() string {
	return s.Values().Encode()
}
