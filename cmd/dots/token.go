package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/farhandwi/dots/internal/domain/entity"
	"github.com/farhandwi/dots/internal/infrastructure/auth"
	"github.com/farhandwi/dots/pkg/utils"
)

func tokenCmd() *cobra.Command {
	var (
		email   string
		partner string
		bp      string
		roles   []string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development bearer token",
		Long: `Sign a token with the configured secret, shaped like the ones BPMS issues.

Roles are USER_TYPE or USER_TYPE:COST_CENTER, e.g.
  dots token --email dh@example.com --role VD001:CC100 --role V0001`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := utils.ValidateEmail(email); err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			user, err := buildUser(email, partner, bp, roles)
			if err != nil {
				return err
			}

			if ttl <= 0 {
				ttl = cfg.Auth.TokenTTL
			}
			token, err := auth.NewIssuer(auth.Config{
				Secret: cfg.Auth.JWTSecret,
				Issuer: cfg.Auth.Issuer,
				TTL:    ttl,
			}).Issue(user)
			if err != nil {
				return fmt.Errorf("failed to sign token: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "user email (required)")
	cmd.Flags().StringVar(&partner, "partner", "", "BPMS partner number")
	cmd.Flags().StringVar(&bp, "bp", "", "business partner stamped on every role")
	cmd.Flags().StringArrayVar(&roles, "role", nil, "DOTS role as USER_TYPE[:COST_CENTER], repeatable")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default auth.token_ttl)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

// buildUser assembles a user holding roles in the DOTS application
func buildUser(email, partner, bp string, specs []string) (*entity.User, error) {
	roles := make([]entity.Role, 0, len(specs))
	for _, spec := range specs {
		userType, costCenter, hasCostCenter := strings.Cut(strings.TrimSpace(spec), ":")
		if userType == "" {
			return nil, fmt.Errorf("invalid role %q: user type is required", spec)
		}

		role := entity.Role{BP: bp, UserType: strings.ToUpper(userType)}
		if hasCostCenter && costCenter != "" {
			cc := costCenter
			role.CostCenter = &cc
		}
		roles = append(roles, role)
	}

	user := &entity.User{Email: email, Partner: partner}
	if len(roles) > 0 {
		user.Applications = []entity.Application{{AppName: entity.ApplicationDOTS, Role: roles}}
	}
	return user, nil
}
