package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/school-lms/internal/models"
)

// DefaultAccount is a seeded login.
type DefaultAccount struct {
	Username string
	Password string
	Role     string
}

// DefaultAccounts are inserted on every start unless the username already exists.
var DefaultAccounts = []DefaultAccount{
	{Username: "student1", Password: "pass123", Role: models.RoleStudent},
	{Username: "teacher1", Password: "pass456", Role: models.RoleTeacher},
	{Username: "admin1", Password: "pass789", Role: models.RoleAdmin},
}

// SeedDefaultUsers inserts the default accounts, leaving existing usernames untouched.
func SeedDefaultUsers(ctx context.Context, db *gorm.DB, hash func(string) (string, error)) error {
	for _, account := range DefaultAccounts {
		digest, err := hash(account.Password)
		if err != nil {
			return fmt.Errorf("failed to hash password for %s: %w", account.Username, err)
		}

		user := models.User{Username: account.Username, PasswordDigest: digest, Role: account.Role}
		if err := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&user).Error; err != nil {
			return fmt.Errorf("failed to seed %s: %w", account.Username, err)
		}
	}
	return nil
}
