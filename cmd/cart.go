package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/hookx/internal/backend"
	"github.com/desertthunder/hookx/internal/cart"
	"github.com/desertthunder/hookx/internal/formatter"
	"github.com/desertthunder/hookx/internal/models"
	"github.com/desertthunder/hookx/internal/shared"
	"github.com/urfave/cli/v3"
)

func cartCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "cart",
		Usage:  "Manage the shopping cart",
		Before: r.ProvideCart,
		After:  r.CloseStorage,
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Add a hook license to the cart",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "hook-id", Usage: "Hook ID", Required: true},
					&cli.StringFlag{Name: "title", Usage: "Hook title"},
					&cli.StringFlag{Name: "artist", Usage: "Artist name"},
					&cli.FloatFlag{Name: "price", Usage: "License price", Required: true},
					&cli.StringFlag{
						Name:  "license",
						Usage: "License type (non_exclusive or exclusive)",
						Value: string(models.NonExclusive),
					},
					&cli.StringFlag{Name: "seller-id", Usage: "Seller ID"},
					&cli.StringFlag{Name: "image-url", Usage: "Cover image url"},
				},
				Action: r.CartAdd,
			},
			{
				Name:  "remove",
				Usage: "Remove a hook license from the cart",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "hook-id", Usage: "Hook ID", Required: true},
					&cli.StringFlag{
						Name:  "license",
						Usage: "License type (non_exclusive or exclusive)",
						Value: string(models.NonExclusive),
					},
				},
				Action: r.CartRemove,
			},
			{
				Name:   "clear",
				Usage:  "Empty the cart",
				Action: r.CartClear,
			},
			{
				Name:  "list",
				Usage: "List cart items with count and total",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"},
				},
				Action: r.CartList,
			},
			{
				Name:  "export",
				Usage: "Export the cart to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (csv, markdown, text, json, yaml)",
						Value:   string(formatter.CSV),
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
					},
				},
				Action: r.CartExport,
			},
			{
				Name:   "checkout",
				Usage:  "Print the checkout request for the current cart",
				Action: r.CartCheckout,
			},
		},
	}
}

// CartAdd adds an item built from flags. Adding an existing hook/license pair is a no-op.
func (r *Runner) CartAdd(ctx context.Context, cmd *cli.Command) error {
	store, err := cart.FromContext(ctx)
	if err != nil {
		return err
	}

	license, err := models.ParseLicenseType(cmd.String("license"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidLicense, err)
	}

	item := models.CartItem{
		HookID:      cmd.String("hook-id"),
		HookTitle:   cmd.String("title"),
		ArtistName:  cmd.String("artist"),
		Price:       cmd.Float("price"),
		LicenseType: license,
		SellerID:    cmd.String("seller-id"),
		ImageURL:    cmd.String("image-url"),
	}

	added, err := store.Add(item)
	if err != nil {
		return err
	}
	if !added {
		return r.writePlain("%s (%s) is already in the cart\n", item.HookID, license.Label())
	}
	return r.writePlain("✓ Added %s (%s) for %s. Cart total: %s\n",
		item.HookID, license.Label(), shared.FormatPrice(item.Price), shared.FormatPrice(store.TotalPrice()))
}

// CartRemove removes the item matching --hook-id and --license.
func (r *Runner) CartRemove(ctx context.Context, cmd *cli.Command) error {
	store, err := cart.FromContext(ctx)
	if err != nil {
		return err
	}

	license, err := models.ParseLicenseType(cmd.String("license"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidLicense, err)
	}

	hookID := cmd.String("hook-id")
	if !store.Remove(hookID, license) {
		return r.writePlain("%s (%s) is not in the cart\n", hookID, license.Label())
	}
	return r.writePlain("✓ Removed %s (%s)\n", hookID, license.Label())
}

// CartClear empties the cart.
func (r *Runner) CartClear(ctx context.Context, cmd *cli.Command) error {
	store, err := cart.FromContext(ctx)
	if err != nil {
		return err
	}
	store.Clear()
	return r.writePlain("✓ Cart cleared\n")
}

// CartList prints the cart as a table or JSON.
func (r *Runner) CartList(ctx context.Context, cmd *cli.Command) error {
	store, err := cart.FromContext(ctx)
	if err != nil {
		return err
	}

	snap := store.Snapshot()
	if cmd.Bool("json") {
		return r.writeJSON(snap, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Cart: %d items, %s", snap.ItemCount, shared.FormatPrice(snap.TotalPrice)))
	if snap.ItemCount == 0 {
		return r.writePlain("The cart is empty.\n")
	}
	for i, item := range snap.Items {
		r.writePlain("%2d. %-24s %-14s %10s  %s\n",
			i+1, item.HookID, item.LicenseType.Label(), shared.FormatPrice(item.Price), item.HookTitle)
	}
	return nil
}

// CartExport writes the cart in the requested format.
func (r *Runner) CartExport(ctx context.Context, cmd *cli.Command) error {
	store, err := cart.FromContext(ctx)
	if err != nil {
		return err
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	path, err := formatter.WriteExport(store.Snapshot(), format, cmd.String("output"))
	if err != nil {
		return err
	}

	r.logger.Info("cart exported", "format", format, "path", path)
	return r.writePlain("✓ Cart exported to %s\n", path)
}

// CartCheckout prints the request body a checkout would send for the current cart.
func (r *Runner) CartCheckout(ctx context.Context, cmd *cli.Command) error {
	store, err := cart.FromContext(ctx)
	if err != nil {
		return err
	}

	req, err := backend.NewCheckoutRequest(store.Snapshot())
	if err != nil {
		return err
	}
	return r.writeJSON(req, true)
}
