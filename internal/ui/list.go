package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/hookx/internal/models"
	"github.com/desertthunder/hookx/internal/shared"
)

var _ list.Item = cartItem{}

// cartItem wraps [models.CartItem] to implement [list.Item].
type cartItem struct {
	item models.CartItem
}

func (i cartItem) FilterValue() string { return i.item.HookTitle + " " + i.item.ArtistName }
func (i cartItem) Title() string {
	if i.item.HookTitle == "" {
		return i.item.HookID
	}
	return i.item.HookTitle
}
func (i cartItem) Description() string {
	desc := fmt.Sprintf("%s • %s", i.item.LicenseType.Label(), shared.FormatPrice(i.item.Price))
	if i.item.ArtistName != "" {
		desc = fmt.Sprintf("%s • %s", i.item.ArtistName, desc)
	}
	return desc
}

func toListItems(items []models.CartItem) []list.Item {
	out := make([]list.Item, len(items))
	for i, item := range items {
		out[i] = cartItem{item: item}
	}
	return out
}
