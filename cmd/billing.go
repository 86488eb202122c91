package main

import (
	"context"

	"github.com/desertthunder/hookx/internal/backend"
	"github.com/desertthunder/hookx/internal/shared"
	"github.com/urfave/cli/v3"
)

var openBrowser = shared.OpenBrowser

func billingCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "billing",
		Usage:  "Subscriptions and the billing portal",
		Before: r.OpenStorage,
		After:  r.CloseStorage,
		Commands: []*cli.Command{
			{
				Name:  "subscribe",
				Usage: "Start a subscription checkout session",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "price-id", Usage: "Subscription price ID", Required: true},
					&cli.StringFlag{Name: "user-id", Usage: "User ID", Required: true},
					&cli.StringFlag{Name: "email", Usage: "User email", Required: true},
					&cli.BoolFlag{Name: "open", Usage: "Open the returned url in the browser"},
				},
				Action: r.BillingSubscribe,
			},
			{
				Name:  "portal",
				Usage: "Get the billing portal url for a customer",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "customer-id", Usage: "Customer ID", Required: true},
					&cli.BoolFlag{Name: "open", Usage: "Open the returned url in the browser"},
				},
				Action: r.BillingPortal,
			},
		},
	}
}

func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "playlist",
		Usage:  "Playlist collaboration",
		Before: r.OpenStorage,
		After:  r.CloseStorage,
		Commands: []*cli.Command{
			{
				Name:  "invite",
				Usage: "Invite a collaborator to a playlist",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "playlist-id", Usage: "Playlist ID", Required: true},
					&cli.StringFlag{Name: "user", Usage: "Email or username to invite", Required: true},
					&cli.StringFlag{
						Name:  "permission",
						Usage: "Permission to grant (view or edit)",
						Value: backend.PermissionView,
					},
				},
				Action: r.PlaylistInvite,
			},
		},
	}
}

// BillingSubscribe creates a subscription checkout session and prints its url.
func (r *Runner) BillingSubscribe(ctx context.Context, cmd *cli.Command) error {
	client, err := r.backendClient(ctx)
	if err != nil {
		return err
	}

	resp, err := client.CreateSubscription(ctx, backend.SubscriptionRequest{
		PriceID:   cmd.String("price-id"),
		UserID:    cmd.String("user-id"),
		UserEmail: cmd.String("email"),
	})
	if err != nil {
		return err
	}

	r.logger.Info("checkout session created", "session", resp.SessionID)
	r.writePlain("Checkout: %s\n", resp.URL)
	return r.maybeOpen(cmd, resp.URL)
}

// BillingPortal prints the customer's billing portal url.
func (r *Runner) BillingPortal(ctx context.Context, cmd *cli.Command) error {
	client, err := r.backendClient(ctx)
	if err != nil {
		return err
	}

	resp, err := client.BillingPortal(ctx, backend.BillingPortalRequest{CustomerID: cmd.String("customer-id")})
	if err != nil {
		return err
	}

	r.writePlain("Billing portal: %s\n", resp.URL)
	return r.maybeOpen(cmd, resp.URL)
}

// PlaylistInvite invites a collaborator and prints the backend's message.
func (r *Runner) PlaylistInvite(ctx context.Context, cmd *cli.Command) error {
	client, err := r.backendClient(ctx)
	if err != nil {
		return err
	}

	resp, err := client.InviteCollaborator(ctx, backend.InviteRequest{
		PlaylistID:      cmd.String("playlist-id"),
		EmailOrUsername: cmd.String("user"),
		Permission:      cmd.String("permission"),
	})
	if err != nil {
		return err
	}

	if !resp.Success {
		return r.writePlain("Invitation not sent: %s\n", resp.Message)
	}
	return r.writePlain("✓ %s\n", resp.Message)
}

func (r *Runner) maybeOpen(cmd *cli.Command, url string) error {
	if !cmd.Bool("open") {
		return nil
	}
	return openBrowser(url)
}
