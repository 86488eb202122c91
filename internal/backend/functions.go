package backend

import (
	"context"
	"fmt"

	"github.com/desertthunder/hookx/internal/cart"
	"github.com/desertthunder/hookx/internal/models"
	"github.com/desertthunder/hookx/internal/shared"
)

// Serverless function names.
const (
	FnCreateSubscription = "create-subscription"
	FnBillingPortal      = "manage-billing-portal"
	FnInviteCollaborator = "invite-playlist-collaborator"
)

// Collaborator permissions accepted by [Client.InviteCollaborator].
const (
	PermissionView = "view"
	PermissionEdit = "edit"
)

type SubscriptionRequest struct {
	PriceID   string `json:"priceId"`
	UserID    string `json:"userId"`
	UserEmail string `json:"userEmail"`
}

type SubscriptionResponse struct {
	URL       string `json:"url"`
	SessionID string `json:"sessionId"`
}

type BillingPortalRequest struct {
	CustomerID string `json:"customerId"`
}

type BillingPortalResponse struct {
	URL string `json:"url"`
}

type InviteRequest struct {
	PlaylistID      string `json:"playlistId"`
	EmailOrUsername string `json:"emailOrUsername"`
	Permission      string `json:"permission"`
}

type InviteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CreateSubscription starts a checkout session for a subscription price.
func (c *Client) CreateSubscription(ctx context.Context, req SubscriptionRequest) (*SubscriptionResponse, error) {
	if err := required("priceId", req.PriceID, "userId", req.UserID, "userEmail", req.UserEmail); err != nil {
		return nil, err
	}

	var resp SubscriptionResponse
	if err := c.Invoke(ctx, FnCreateSubscription, req, &resp); err != nil {
		return nil, err
	}
	if resp.URL == "" {
		return nil, fmt.Errorf("%w: %s returned no url", shared.ErrAPIRequest, FnCreateSubscription)
	}
	return &resp, nil
}

// BillingPortal returns the url of the customer's billing portal.
func (c *Client) BillingPortal(ctx context.Context, req BillingPortalRequest) (*BillingPortalResponse, error) {
	if err := required("customerId", req.CustomerID); err != nil {
		return nil, err
	}

	var resp BillingPortalResponse
	if err := c.Invoke(ctx, FnBillingPortal, req, &resp); err != nil {
		return nil, err
	}
	if resp.URL == "" {
		return nil, fmt.Errorf("%w: %s returned no url", shared.ErrAPIRequest, FnBillingPortal)
	}
	return &resp, nil
}

// InviteCollaborator invites a user to a playlist. An empty permission defaults to view.
func (c *Client) InviteCollaborator(ctx context.Context, req InviteRequest) (*InviteResponse, error) {
	if err := required("playlistId", req.PlaylistID, "emailOrUsername", req.EmailOrUsername); err != nil {
		return nil, err
	}
	switch req.Permission {
	case "":
		req.Permission = PermissionView
	case PermissionView, PermissionEdit:
	default:
		return nil, fmt.Errorf("%w: permission %q", shared.ErrInvalidArgument, req.Permission)
	}

	var resp InviteResponse
	if err := c.Invoke(ctx, FnInviteCollaborator, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// required takes name/value pairs and reports the first empty value.
func required(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			return fmt.Errorf("%w: %s", shared.ErrMissingArgument, pairs[i])
		}
	}
	return nil
}

// CheckoutRequest is the body a checkout flow sends for the current cart.
type CheckoutRequest struct {
	Items      []models.CartItem `json:"items"`
	TotalPrice float64           `json:"totalPrice"`
}

// NewCheckoutRequest builds a checkout body from a cart snapshot. An empty cart cannot be checked out.
func NewCheckoutRequest(snap cart.Snapshot) (CheckoutRequest, error) {
	if len(snap.Items) == 0 {
		return CheckoutRequest{}, fmt.Errorf("%w: cart is empty", shared.ErrInvalidInput)
	}
	return CheckoutRequest{Items: snap.Items, TotalPrice: snap.TotalPrice}, nil
}
