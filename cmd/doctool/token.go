package main

import (
	"fmt"
	"time"

	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/auth"

	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a development bearer token",
	Long:  `Signs an HS256 token for the given subject. The role comes from the subject's profile, not from the token.`,
	RunE:  runToken,
}

var (
	tokenSub    string
	tokenSecret string
	tokenIssuer string
	tokenTTL    time.Duration
)

func init() {
	tokenCmd.Flags().StringVar(&tokenSub, "sub", "", "Subject user id")
	tokenCmd.Flags().StringVar(&tokenSecret, "secret", "", "HS256 secret (auth.jwt_secret)")
	tokenCmd.Flags().StringVar(&tokenIssuer, "issuer", "", "Issuer claim")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", time.Hour, "Token lifetime")
	_ = tokenCmd.MarkFlagRequired("sub")
	_ = tokenCmd.MarkFlagRequired("secret")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	token, err := auth.MintToken(tokenSecret, tokenIssuer, tokenSub, tokenTTL)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
