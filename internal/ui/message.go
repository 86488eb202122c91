package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/hookx/internal/cart"
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
	MsgCartChanged MsgKind = iota
)

type cartChanged struct {
	snapshot cart.Snapshot
	status   string
}

// cartChangedMsg is the constructor for [MsgCartChanged]
func cartChangedMsg(snapshot cart.Snapshot, status string) Msg {
	return Msg{kind: MsgCartChanged, data: cartChanged{snapshot: snapshot, status: status}}
}
