package main

import (
	"context"
	"time"

	"github.com/desertthunder/tagsync/internal/services"
	"github.com/urfave/cli/v3"
)

// AuthCheck verifies the configured refresh token exchanges cleanly.
//
// Exercises the same token provider the pipeline uses, so a green check here
// means the webhook won't fail on credentials.
func (r *Runner) AuthCheck(ctx context.Context, cmd *cli.Command) error {
	yt := r.config.Credentials.YouTube
	provider, err := services.NewTokenProvider(yt.ClientID, yt.ClientSecret, yt.RefreshToken)
	if err != nil {
		return err
	}

	r.logger.Info("exchanging refresh token at the Google token endpoint")

	token, err := provider.Token()
	if err != nil {
		return err
	}

	r.writePlain("✓ Refresh token exchanged successfully\n")
	r.writePlain("Access token expires: %s (in %s)\n",
		token.Expiry.Format(time.RFC1123),
		time.Until(token.Expiry).Round(time.Second),
	)

	return nil
}

// authCommand manages platform credentials.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage YouTube API credentials",
		Commands: []*cli.Command{
			{
				Name:   "check",
				Usage:  "Verify the refresh token exchanges for an access token",
				Action: r.AuthCheck,
			},
		},
	}
}
