package main

import (
	"context"
	"fmt"

	"github.com/kvothesson/chat-saas-gateway/internal/domain"
	"github.com/kvothesson/chat-saas-gateway/internal/infra/client"
	"github.com/kvothesson/chat-saas-gateway/internal/offer"
	"github.com/kvothesson/chat-saas-gateway/internal/prompt"
	"github.com/kvothesson/chat-saas-gateway/internal/service"

	"github.com/spf13/cobra"
)

var (
	profileFile   string
	toolLocale    string
	promptMessage string
)

var offersCmd = &cobra.Command{
	Use:   "offers",
	Short: "Print the computed offers for a business profile file",
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := loadProfile(cmd.Context())
		if err != nil {
			return err
		}
		loc := toolLocale
		if loc == "" {
			loc = profile.DefaultLocale
		}

		out := cmd.OutOrStdout()
		for _, o := range offer.Compute(profile, loc).All() {
			fmt.Fprintf(out, "%s · %s\n", o.SKU, o.Title)
			fmt.Fprintf(out, "  base: %s\n", o.FormattedBase)
			for _, d := range o.Discounts {
				fmt.Fprintf(out, "  %s (%s): %s\n", d.Label, d.Key, d.Formatted)
			}
			if o.Installments != nil {
				fmt.Fprintf(out, "  %s: %d x %s\n", o.Installments.Label, o.Installments.Count, o.Installments.FormattedEach)
			}
		}
		return nil
	},
}

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print the grounding prompt a chat message would be answered with",
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := loadProfile(cmd.Context())
		if err != nil {
			return err
		}
		loc := service.Locale(&domain.ChatRequest{Message: promptMessage, Locale: toolLocale}, profile)

		fmt.Fprintln(cmd.OutOrStdout(), prompt.Build(profile, loc, offer.Compute(profile, loc)))
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a business profile file against the catalog and payment rules",
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := loadProfile(cmd.Context())
		if err != nil {
			return err
		}
		if err := profile.Validate(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d products)\n", profile.ID, len(profile.Catalog))
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{offersCmd, promptCmd, validateCmd} {
		c.Flags().StringVarP(&profileFile, "file", "f", "data/business.json", "business profile JSON file")
		rootCmd.AddCommand(c)
	}
	offersCmd.Flags().StringVarP(&toolLocale, "locale", "l", "", "reply locale (default: profile defaultLocale)")
	promptCmd.Flags().StringVarP(&toolLocale, "locale", "l", "", "reply locale (default: detected from --message)")
	promptCmd.Flags().StringVarP(&promptMessage, "message", "m", "", "customer message used for locale detection")
}

func loadProfile(ctx context.Context) (*domain.BusinessProfile, error) {
	profile, err := client.NewFileProfileSource(profileFile).Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return profile.WithDefaults(), nil
}
