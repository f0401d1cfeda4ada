package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/player/internal/player"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgSessionLoaded MsgKind = iota
	MsgSearchDone
)

type sessionResult struct {
	session *player.Session
	err     error
}

type searchResult struct {
	query string
	hits  []player.Hit
	err   error
}

// sessionLoadedMsg is the constructor for [MsgSessionLoaded]
func sessionLoadedMsg(s *player.Session, err error) Msg {
	return Msg{kind: MsgSessionLoaded, data: sessionResult{s, err}}
}

// searchDoneMsg is the constructor for [MsgSearchDone]
func searchDoneMsg(query string, hits []player.Hit, err error) Msg {
	return Msg{kind: MsgSearchDone, data: searchResult{query, hits, err}}
}
