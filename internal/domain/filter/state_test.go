package filter

import (
	"errors"
	"net/url"
	"testing"
)

func TestNew_NormalizesEmptyUser(t *testing.T) {
	s := New("milk", "")
	if s.User != AllUsers {
		t.Errorf("User = %q, ожидается %q", s.User, AllUsers)
	}
	if s.Search != "milk" {
		t.Errorf("Search = %q, ожидается milk", s.Search)
	}
}

func TestReduce_Transitions(t *testing.T) {
	start := State{Search: "ap", User: "Roma"}

	tests := []struct {
		name   string
		action Action
		want   State
	}{
		{"set-search", SetSearch("mi"), State{Search: "mi", User: "Roma"}},
		{"select-user", SelectUser("Anna"), State{Search: "ap", User: "Anna"}},
		{"select-all", SelectUser(AllUsers), State{Search: "ap", User: AllUsers}},
		{"select-empty", SelectUser(""), State{Search: "ap", User: AllUsers}},
		{"clear-search", ClearSearch(), State{Search: "", User: "Roma"}},
		{"clear-user", ClearUser(), State{Search: "ap", User: AllUsers}},
		{"reset", ResetAll(), Initial()},
		{"unknown", Action{Kind: "sort"}, start},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reduce(start, tt.action)
			if got != tt.want {
				t.Errorf("Reduce(%+v, %s) = %+v, ожидается %+v", start, tt.action.Kind, got, tt.want)
			}
		})
	}

	// Исходное значение не изменилось
	if start.Search != "ap" || start.User != "Roma" {
		t.Errorf("Reduce изменил исходное состояние: %+v", start)
	}
}

func TestReduce_ResetFromAnyState(t *testing.T) {
	states := []State{
		{},
		{Search: "x"},
		{User: "Max"},
		{Search: "Bread", User: "Anna"},
	}
	for _, s := range states {
		if got := Reduce(s, ResetAll()); got != Initial() {
			t.Errorf("Reduce(%+v, reset) = %+v, ожидается начальное состояние", s, got)
		}
	}
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		input  string
		want   ActionKind
		wantOK bool
	}{
		{"", "", false},
		{"clear-search", ActionClearSearch, true},
		{"clear-user", ActionClearUser, true},
		{"reset", ActionResetAll, true},
	}
	for _, tt := range tests {
		a, ok, err := ParseAction(tt.input)
		if err != nil {
			t.Errorf("ParseAction(%q): неожиданная ошибка %v", tt.input, err)
			continue
		}
		if ok != tt.wantOK || a.Kind != tt.want {
			t.Errorf("ParseAction(%q) = (%q, %v), ожидается (%q, %v)", tt.input, a.Kind, ok, tt.want, tt.wantOK)
		}
	}

	_, _, err := ParseAction("sort-by-name")
	if !errors.Is(err, ErrUnknownAction) {
		t.Errorf("ожидалась ErrUnknownAction, получено %v", err)
	}
}

func TestQueryRoundTrip(t *testing.T) {
	tests := []struct {
		state State
		query string
	}{
		{Initial(), ""},
		{State{Search: "apple pie", User: AllUsers}, "q=apple+pie"},
		{State{User: "Roma"}, "user=Roma"},
		{State{Search: "ap", User: "Roma"}, "q=ap&user=Roma"},
	}

	for _, tt := range tests {
		if got := tt.state.Encode(); got != tt.query {
			t.Errorf("Encode(%+v) = %q, ожидается %q", tt.state, got, tt.query)
		}

		values, err := url.ParseQuery(tt.query)
		if err != nil {
			t.Fatalf("ParseQuery(%q): %v", tt.query, err)
		}
		if got := FromQuery(values); got != tt.state.Normalize() {
			t.Errorf("FromQuery(%q) = %+v, ожидается %+v", tt.query, got, tt.state.Normalize())
		}
	}
}
