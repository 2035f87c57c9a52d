package main

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mehran-shabani/llm-workspace-api/internal/auth"
	"github.com/mehran-shabani/llm-workspace-api/internal/store/model"
)

func newSeedCommand() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create an admin user and an API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			defer e.repo.Close()

			ctx := cmd.Context()

			passwordHash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}

			user := &model.User{
				ID:           uuid.NewString(),
				Username:     username,
				PasswordHash: passwordHash,
				Role:         "admin",
				CreatedAt:    time.Now().UTC(),
				UpdatedAt:    time.Now().UTC(),
			}
			if err := e.repo.Users().Create(ctx, user); err != nil {
				return fmt.Errorf("create user (may already exist): %w", err)
			}

			rawKey := "sk-ws-" + randomHex(24)
			sum := sha256.Sum256([]byte(rawKey))

			key := &model.APIKey{
				ID:        uuid.NewString(),
				UserID:    user.ID,
				Name:      "seed key",
				KeyHash:   hex.EncodeToString(sum[:]),
				KeyPrefix: rawKey[:10],
				IsActive:  true,
				CreatedAt: time.Now().UTC(),
				UpdatedAt: time.Now().UTC(),
			}
			if err := e.repo.APIKeys().Create(ctx, key); err != nil {
				return err
			}

			fmt.Printf("Created user %q (id %s)\n", username, user.ID)
			fmt.Printf("API key (shown once): %s\n", rawKey)
			fmt.Printf("Use it as: Authorization: Bearer %s\n", rawKey)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "admin", "username for the seeded account")
	cmd.Flags().StringVar(&password, "password", "", "password for the seeded account")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func randomHex(n int) string {
	buf := make([]byte, n)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
