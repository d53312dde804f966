package database

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/ourmemories/memoriesbackend/config"
	"github.com/ourmemories/memoriesbackend/models"
)

func ensureUser(db *gorm.DB, email, password, role string) error {
	email = models.NormalizeEmail(email)

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up user %s: %w", email, err)
	}

	user := models.User{Email: email, Role: role}
	if err := user.SetPassword(password); err != nil {
		return fmt.Errorf("failed to hash password for %s: %w", email, err)
	}
	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("failed to create user %s: %w", email, err)
	}
	log.Printf("Seeded %s account: %s", role, email)
	return nil
}

// SeedUsers provisions the admin account and the privileged viewer accounts
// on startup. Existing accounts are left untouched.
func SeedUsers(db *gorm.DB, cfg config.Config) error {
	if err := ensureUser(db, cfg.AdminEmail, cfg.AdminPassword, models.RoleAdmin); err != nil {
		return err
	}
	for _, acct := range cfg.PrivilegedAccounts {
		// viewer role on purpose: elevated access comes from the allowlist
		if err := ensureUser(db, acct.Email, acct.Password, models.RoleViewer); err != nil {
			return err
		}
	}
	return nil
}
