// Пакет filter — состояние фильтров таблицы товаров и переходы между состояниями.
//
// Состояние — неизменяемое значение из двух независимых измерений:
//   - Search — строка поиска по названию товара ("" — фильтр не применяется)
//   - User — имя выбранного владельца или AllUsers ("all" — фильтр не применяется)
//
// Все переходы выполняются чистой функцией Reduce: (State, Action) → State.
// Видимая коллекция всегда пересчитывается из полного текущего состояния.
package filter

import (
	"errors"
	"fmt"
)

// AllUsers — зарезервированное значение User: фильтр по владельцу не применяется.
const AllUsers = "all"

// ErrUnknownAction — неизвестное действие.
var ErrUnknownAction = errors.New("неизвестное действие фильтра")

// State — текущее состояние фильтров.
type State struct {
	Search string `json:"search"`
	User   string `json:"user"`
}

// Initial возвращает состояние без фильтров.
func Initial() State {
	return State{Search: "", User: AllUsers}
}

// New создаёт нормализованное состояние. Пустой user трактуется как AllUsers.
func New(search, user string) State {
	return State{Search: search, User: user}.Normalize()
}

// Normalize приводит пустое значение User к AllUsers.
func (s State) Normalize() State {
	if s.User == "" {
		s.User = AllUsers
	}
	return s
}

// HasSearch сообщает, задан ли поисковый запрос.
func (s State) HasSearch() bool {
	return s.Search != ""
}

// AllUsersSelected сообщает, что фильтр по владельцу не применяется.
func (s State) AllUsersSelected() bool {
	return s.User == AllUsers
}

// ActionKind — тип перехода состояния.
type ActionKind string

const (
	// ActionSetSearch — установить строку поиска
	ActionSetSearch ActionKind = "set-search"
	// ActionSelectUser — выбрать владельца (или AllUsers)
	ActionSelectUser ActionKind = "select-user"
	// ActionClearSearch — очистить строку поиска
	ActionClearSearch ActionKind = "clear-search"
	// ActionClearUser — сбросить владельца в AllUsers
	ActionClearUser ActionKind = "clear-user"
	// ActionResetAll — сбросить все фильтры
	ActionResetAll ActionKind = "reset"
)

// Action — действие, отправляемое из обработчика взаимодействия.
type Action struct {
	Kind ActionKind
	// Value — аргумент для set-search и select-user
	Value string
}

// SetSearch возвращает действие установки строки поиска.
func SetSearch(text string) Action { return Action{Kind: ActionSetSearch, Value: text} }

// SelectUser возвращает действие выбора владельца.
func SelectUser(name string) Action { return Action{Kind: ActionSelectUser, Value: name} }

// ClearSearch возвращает действие очистки строки поиска.
func ClearSearch() Action { return Action{Kind: ActionClearSearch} }

// ClearUser возвращает действие сброса владельца.
func ClearUser() Action { return Action{Kind: ActionClearUser} }

// ResetAll возвращает действие сброса всех фильтров.
func ResetAll() Action { return Action{Kind: ActionResetAll} }

// Reduce применяет действие к состоянию и возвращает новое состояние.
// Исходное состояние не изменяется. Неизвестное действие оставляет состояние как есть.
func Reduce(s State, a Action) State {
	s = s.Normalize()

	switch a.Kind {
	case ActionSetSearch:
		s.Search = a.Value
	case ActionSelectUser:
		s.User = a.Value
	case ActionClearSearch:
		s.Search = ""
	case ActionClearUser:
		s.User = AllUsers
	case ActionResetAll:
		return Initial()
	}

	return s.Normalize()
}

// ParseAction преобразует имя действия из запроса (параметр action) в Action.
// Поддерживаются действия без аргумента: clear-search, clear-user, reset.
// Пустая строка — отсутствие действия (ok=false, err=nil).
func ParseAction(name string) (action Action, ok bool, err error) {
	switch ActionKind(name) {
	case "":
		return Action{}, false, nil
	case ActionClearSearch:
		return ClearSearch(), true, nil
	case ActionClearUser:
		return ClearUser(), true, nil
	case ActionResetAll:
		return ResetAll(), true, nil
	default:
		return Action{}, false, fmt.Errorf("%w: %q, допустимые: clear-search, clear-user, reset", ErrUnknownAction, name)
	}
}
