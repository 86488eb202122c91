package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/hookx/internal/cart"
	"github.com/desertthunder/hookx/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	CartView ViewState = iota
	ConfirmClearView
)

// Model represents the TUI application state.
type Model struct {
	store    *cart.Store
	view     ViewState
	width    int
	height   int
	list     list.Model
	snapshot cart.Snapshot
	status   string
	help     help.Model
	keys     keyMap
}

// NewModel creates a TUI model for the cart provided by ctx.
func NewModel(ctx context.Context) (*Model, error) {
	store, err := cart.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	snap := store.Snapshot()
	l := list.New(toListItems(snap.Items), list.NewDefaultDelegate(), 0, 0)
	l.Title = "Cart"
	l.SetShowHelp(false)

	return &Model{
		store:    store,
		view:     CartView,
		list:     l,
		snapshot: snap,
		help:     help.New(),
		keys:     newKeyMap(),
	}, nil
}

// Init has nothing to load; the cart is read when the model is built.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case CartView:
			return m.handleCartKeys(msg)
		case ConfirmClearView:
			return m.handleConfirmKeys(msg)
		}

	case Msg:
		if msg.kind == MsgCartChanged {
			changed := msg.data.(cartChanged)
			m.snapshot = changed.snapshot
			m.status = changed.status
			cmd := m.list.SetItems(toListItems(changed.snapshot.Items))
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case ConfirmClearView:
		return m.renderConfirm()
	default:
		return m.renderCart()
	}
}

func (m *Model) handleCartKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.remove):
		return m, m.removeSelected()
	case key.Matches(msg, m.keys.clear):
		if m.snapshot.ItemCount > 0 {
			m.view = ConfirmClearView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.yes):
		m.view = CartView
		return m, m.clearCart()
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.quit):
		m.view = CartView
		return m, nil
	}
	return m, nil
}

func (m *Model) removeSelected() tea.Cmd {
	selected, ok := m.list.SelectedItem().(cartItem)
	if !ok {
		return nil
	}
	store := m.store
	return func() tea.Msg {
		status := ""
		if store.Remove(selected.item.HookID, selected.item.LicenseType) {
			status = fmt.Sprintf("Removed %s (%s)", selected.Title(), selected.item.LicenseType.Label())
		}
		return cartChangedMsg(store.Snapshot(), status)
	}
}

func (m *Model) clearCart() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		store.Clear()
		return cartChangedMsg(store.Snapshot(), "Cart cleared")
	}
}

func (m *Model) header() string {
	noun := "items"
	if m.snapshot.ItemCount == 1 {
		noun = "item"
	}
	return fmt.Sprintf("%d %s • %s", m.snapshot.ItemCount, noun, shared.FormatPrice(m.snapshot.TotalPrice))
}

func (m *Model) renderCart() string {
	header := styles.title.Render(m.header())
	helpView := m.help.ShortHelpView(m.keys.ShortHelp())

	body := m.list.View()
	if m.snapshot.ItemCount == 0 {
		body = styles.help.Render("Your cart is empty.")
	}

	status := ""
	if m.status != "" {
		status = "\n" + styles.ok.Render(m.status)
	}

	return fmt.Sprintf("%s\n%s%s\n\n%s", header, body, status, helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.warn.Render(fmt.Sprintf("Remove all %d items from the cart?", m.snapshot.ItemCount))
	info := fmt.Sprintf("\nTotal: %s\n", shared.FormatPrice(m.snapshot.TotalPrice))

	helpKeys := []key.Binding{m.keys.yes, m.keys.no}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}
