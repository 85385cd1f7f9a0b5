package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lungchat/internal/screen"
)

type fakeScreen struct {
	name    string
	inits   int
	resumes int
	got     []tea.Msg
}

func (s *fakeScreen) Init() tea.Cmd {
	s.inits++
	return nil
}

func (s *fakeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.got = append(s.got, msg)
	return s, nil
}

func (s *fakeScreen) View(int, int) string { return s.name }
func (s *fakeScreen) Title() string        { return s.name }

// resumable adds screen.Resumer to fakeScreen.
type resumable struct{ *fakeScreen }

func (r resumable) Resume() tea.Cmd {
	r.resumes++
	return nil
}

func titles(r *Router) []string {
	out := make([]string, len(r.stack))
	for i, s := range r.stack {
		out[i] = s.Title()
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRouter_Navigation(t *testing.T) {
	tests := []struct {
		name string
		msgs func(home, chat, history *fakeScreen) []tea.Msg
		want []string
	}{
		{
			name: "push",
			msgs: func(_, chat, _ *fakeScreen) []tea.Msg {
				return []tea.Msg{PushScreenMsg{Screen: chat}}
			},
			want: []string{"home", "chat"},
		},
		{
			name: "push then pop",
			msgs: func(_, chat, _ *fakeScreen) []tea.Msg {
				return []tea.Msg{PushScreenMsg{Screen: chat}, PopScreenMsg{}}
			},
			want: []string{"home"},
		},
		{
			name: "pop at root",
			msgs: func(*fakeScreen, *fakeScreen, *fakeScreen) []tea.Msg {
				return []tea.Msg{PopScreenMsg{}, PopScreenMsg{}}
			},
			want: []string{"home"},
		},
		{
			name: "replace keeps depth",
			msgs: func(_, chat, history *fakeScreen) []tea.Msg {
				return []tea.Msg{PushScreenMsg{Screen: chat}, ReplaceScreenMsg{Screen: history}}
			},
			want: []string{"home", "history"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := &fakeScreen{name: "home"}
			chat := &fakeScreen{name: "chat"}
			history := &fakeScreen{name: "history"}
			r := New(home)
			for _, msg := range tt.msgs(home, chat, history) {
				r.Update(msg)
			}
			if got := titles(r); !equal(got, tt.want) {
				t.Fatalf("stack = %v, want %v", got, tt.want)
			}
			if r.Depth() != len(tt.want) || r.View(80, 24) != tt.want[len(tt.want)-1] {
				t.Fatalf("active = %q, depth %d", r.View(80, 24), r.Depth())
			}
		})
	}
}

func TestRouter_InitRunsOnPushAndReplace(t *testing.T) {
	chat := &fakeScreen{name: "chat"}
	next := &fakeScreen{name: "chat"}
	r := New(&fakeScreen{name: "home"})

	r.Push(chat)
	r.Replace(next)
	if chat.inits != 1 || next.inits != 1 {
		t.Fatalf("inits = %d, %d; want 1, 1", chat.inits, next.inits)
	}
}

func TestRouter_ForwardsToActiveOnly(t *testing.T) {
	home := &fakeScreen{name: "home"}
	chat := &fakeScreen{name: "chat"}
	r := New(home)
	r.Push(chat)

	r.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if len(chat.got) != 1 || len(home.got) != 0 {
		t.Fatalf("home got %d, chat got %d", len(home.got), len(chat.got))
	}
}

func TestRouter_PopResumesScreenBelow(t *testing.T) {
	home := resumable{&fakeScreen{name: "home"}}
	r := New(home)

	r.Update(PushScreenMsg{Screen: &fakeScreen{name: "chat"}})
	r.Update(PopScreenMsg{})
	if home.resumes != 1 {
		t.Fatalf("resumes = %d, want 1", home.resumes)
	}

	r.Pop()
	if home.resumes != 1 {
		t.Fatalf("pop at root resumed: %d", home.resumes)
	}
}
