package server

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"datarw/internal/config"
	"datarw/internal/model"
	"datarw/pkg/util"
)

// PopulateInitialData ensures the system user exists. It owns records
// created by background jobs and has no password login.
func PopulateInitialData(cfg *config.Config, repos *Repositories, log zerolog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	existing, err := repos.User.FindByEmail(ctx, cfg.SystemUser.Email)
	if err != nil {
		return fmt.Errorf("failed to look up system user: %w", err)
	}
	if existing != nil {
		return nil
	}

	// Random password that is never shared; the account cannot log in
	password, err := util.GenerateTempPassword()
	if err != nil {
		return err
	}
	hash, err := util.HashPassword(password)
	if err != nil {
		return err
	}

	user := &model.User{
		Name:         cfg.SystemUser.Name,
		Email:        cfg.SystemUser.Email,
		Role:         model.RoleSystem,
		PasswordHash: hash,
		Active:       true,
		System:       true,
	}
	created, err := repos.User.Create(ctx, user)
	if err != nil {
		return fmt.Errorf("failed to create system user: %w", err)
	}

	log.Info().Str("id", created.ID.Hex()).Msg("system user created")
	return nil
}
