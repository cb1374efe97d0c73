package cmd

import (
	"fmt"
	"log"

	"github.com/danuarta/hr-portal/internal/accesspolicy"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with the permission catalog and an admin account",
	Long:  `Seed the fixed permission catalog, the Admin role holding every permission, and an initial administrator account.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlxDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		// Permission catalog. Seeding is idempotent; existing rows are
		// left alone.
		for _, name := range accesspolicy.PermissionCatalog {
			var pid int64
			if err := db.Raw("SELECT id FROM permissions WHERE name = ?", name).Row().Scan(&pid); err == nil {
				continue
			}
			if err := db.Exec("INSERT INTO permissions (name, created_at) VALUES (?, now())", name).Error; err != nil {
				log.Fatalf("failed to insert permission %s: %v", name, err)
			}
		}
		fmt.Println("Seeded permission catalog")

		// Admin role with every permission.
		var roleID int64
		if err := db.Raw("SELECT id FROM roles WHERE name = ?", accesspolicy.AdminRole).Row().Scan(&roleID); err != nil {
			if err := db.Exec("INSERT INTO roles (name, created_at) VALUES (?, now())", accesspolicy.AdminRole).Error; err != nil {
				log.Fatalf("failed to insert Admin role: %v", err)
			}
			if err := db.Raw("SELECT id FROM roles WHERE name = ?", accesspolicy.AdminRole).Row().Scan(&roleID); err != nil {
				log.Fatalf("failed to look up Admin role: %v", err)
			}
		}

		for _, name := range accesspolicy.PermissionCatalog {
			var pid int64
			if err := db.Raw("SELECT id FROM permissions WHERE name = ?", name).Row().Scan(&pid); err != nil {
				log.Fatalf("permission not found after insert %s: %v", name, err)
			}
			var exists int
			if err := db.Raw("SELECT 1 FROM role_has_permissions WHERE role_id = ? AND permission_id = ?", roleID, pid).Row().Scan(&exists); err == nil {
				continue
			}
			if err := db.Exec("INSERT INTO role_has_permissions (role_id, permission_id) VALUES (?, ?)", roleID, pid).Error; err != nil {
				log.Fatalf("failed to grant permission %s to Admin: %v", name, err)
			}
		}
		fmt.Println("Granted full catalog to Admin role")

		// Initial administrator account.
		adminEmail := "admin@hr-portal.local"
		var adminID string
		if err := db.Raw("SELECT id FROM users WHERE email = ?", adminEmail).Row().Scan(&adminID); err != nil {
			hash, err := bcrypt.GenerateFromPassword([]byte("password"), cfg.Security.BCryptCost)
			if err != nil {
				log.Fatalf("failed to hash admin password: %v", err)
			}
			adminID = uuid.NewString()
			if err := db.Exec(
				"INSERT INTO users (id, name, email, password_hash, employment_type, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, 'manager', true, now(), now())",
				adminID, "Administrator", adminEmail, string(hash),
			).Error; err != nil {
				log.Fatalf("failed to insert admin user: %v", err)
			}
			fmt.Println("Seeded admin user:", adminEmail)
		}

		var exists int
		if err := db.Raw("SELECT 1 FROM model_has_roles WHERE principal_id = ? AND role_id = ?", adminID, roleID).Row().Scan(&exists); err != nil {
			if err := db.Exec("INSERT INTO model_has_roles (principal_id, role_id) VALUES (?, ?)", adminID, roleID).Error; err != nil {
				log.Fatalf("failed to assign Admin role: %v", err)
			}
		}
		fmt.Println("Admin role assigned to:", adminEmail)

		// Sample employee accounts for local development. No roles: they
		// exercise the non-admin paths.
		samples := []struct {
			name           string
			email          string
			employmentType string
		}{
			{"Dina Employee", "dina@hr-portal.local", "employee"},
			{"Raka Intern", "raka@hr-portal.local", "intern"},
		}
		for _, s := range samples {
			var id string
			if err := db.Raw("SELECT id FROM users WHERE email = ?", s.email).Row().Scan(&id); err == nil {
				continue
			}
			hash, err := bcrypt.GenerateFromPassword([]byte("password"), cfg.Security.BCryptCost)
			if err != nil {
				log.Fatalf("failed to hash sample password: %v", err)
			}
			if err := db.Exec(
				"INSERT INTO users (id, name, email, password_hash, employment_type, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, true, now(), now())",
				uuid.NewString(), s.name, s.email, string(hash), s.employmentType,
			).Error; err != nil {
				log.Fatalf("failed to insert sample user %s: %v", s.email, err)
			}
			fmt.Println("Seeded sample user:", s.email)
		}
	},
}
