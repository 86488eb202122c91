// Package ui implements an interactive cart browser using bubbletea's Elm architecture.
//
// The TUI has two views:
//  1. [CartView] : Browse the cart, with item count and total in the header
//  2. [ConfirmClearView] : Confirm emptying the cart
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// The cart comes from the context passed to [NewModel]; building a model outside a cart provider fails.
//
// Keyboard navigation uses vim-style bindings (j/k, d, c, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
