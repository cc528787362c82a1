package session

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

type Mode string

const (
	ModeLogin       Mode = "login"
	ModeRegister    Mode = "register"
	ModeProfile     Mode = "profile"
	ModeLeaderboard Mode = "leaderboard"
	ModeCalendar    Mode = "calendar"
	ModeGallery     Mode = "gallery"
)

var ErrUnknownScreen = errors.New("unknown screen")

// Screen is a tagged union on Mode. MemberID is only carried by the
// profile screen.
type Screen struct {
	Mode     Mode   `json:"mode"`
	MemberID string `json:"member_id,omitempty"`
}

func LoginScreen() Screen       { return Screen{Mode: ModeLogin} }
func RegisterScreen() Screen    { return Screen{Mode: ModeRegister} }
func LeaderboardScreen() Screen { return Screen{Mode: ModeLeaderboard} }
func CalendarScreen() Screen    { return Screen{Mode: ModeCalendar} }
func GalleryScreen() Screen     { return Screen{Mode: ModeGallery} }

func ProfileScreen(memberID string) Screen {
	return Screen{Mode: ModeProfile, MemberID: memberID}
}

func (s Screen) valid() bool {
	switch s.Mode {
	case ModeLogin, ModeRegister, ModeLeaderboard, ModeCalendar, ModeGallery:
		return s.MemberID == ""
	case ModeProfile:
		return s.MemberID != ""
	}
	return false
}

// State is the whole per-visitor application state. It is passed into each
// handler and the updated value is returned with the response.
type State struct {
	Screen   Screen `json:"screen"`
	MemberID string `json:"member_id,omitempty"`
}

func Default() State {
	return State{Screen: LoginScreen()}
}

func (s State) Authenticated() bool { return s.MemberID != "" }

// Navigate moves to target. The profile screen needs a logged-in member;
// anonymous visitors asking for it land on the login screen.
func Navigate(s State, target Mode) (State, error) {
	switch target {
	case ModeLogin, ModeRegister:
		if s.Authenticated() {
			s.Screen = ProfileScreen(s.MemberID)
			return s, nil
		}
		s.Screen = Screen{Mode: target}
	case ModeLeaderboard, ModeCalendar, ModeGallery:
		s.Screen = Screen{Mode: target}
	case ModeProfile:
		if !s.Authenticated() {
			s.Screen = LoginScreen()
			return s, nil
		}
		s.Screen = ProfileScreen(s.MemberID)
	default:
		return s, fmt.Errorf("%w: %q", ErrUnknownScreen, target)
	}
	return s, nil
}

func LogIn(s State, memberID string) State {
	return State{Screen: ProfileScreen(memberID), MemberID: memberID}
}

func LogOut(State) State {
	return Default()
}

// Reconcile makes the state agree with the authenticated member (empty for
// anonymous requests). The state itself is never trusted for identity.
func Reconcile(s State, memberID string) State {
	if !s.Screen.valid() {
		s.Screen = LoginScreen()
	}
	if s.MemberID == memberID {
		if s.Screen.Mode == ModeProfile && s.Screen.MemberID != memberID {
			s.Screen = ProfileScreen(memberID)
		}
		return s
	}
	if memberID == "" {
		return Default()
	}
	return LogIn(s, memberID)
}

func Encode(s State) string {
	b, _ := json.Marshal(s)
	return base64.RawURLEncoding.EncodeToString(b)
}

func Decode(raw string) (State, error) {
	b, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return Default(), err
	}
	var s State
	if err := json.Unmarshal(b, &s); err != nil {
		return Default(), err
	}
	if !s.Screen.valid() {
		return Default(), ErrUnknownScreen
	}
	return s, nil
}
