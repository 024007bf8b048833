package migration

import (
	"fmt"

	"github.com/damoang/angple-notes/internal/domain"
	"gorm.io/gorm"
)

// FulltextIndexName is the MySQL FULLTEXT index over (title, content) used by note search
const FulltextIndexName = "ft_title_content"

// Run creates the users and notes tables if absent. It is idempotent and meant to be
// called once at startup, before the router accepts requests.
//
// notes gets: FK user_id → users.id ON DELETE CASCADE, idx_user_archived (user_id, is_archived)
// for the common active-notes scan, and on MySQL the FULLTEXT index for search.
func Run(db *gorm.DB) error {
	if db.Dialector.Name() == "mysql" {
		db = db.Set("gorm:table_options", "ENGINE=InnoDB DEFAULT CHARSET=utf8mb4")
	}

	// 1. AutoMigrate - 테이블 없으면 생성, 있으면 컬럼/인덱스만 보강
	if err := db.AutoMigrate(&domain.User{}, &domain.Note{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	// 2. FULLTEXT index (MySQL only)
	if err := ensureFulltextIndex(db); err != nil {
		return fmt.Errorf("fulltext index: %w", err)
	}
	return nil
}

func ensureFulltextIndex(db *gorm.DB) error {
	if db.Dialector.Name() != "mysql" {
		return nil
	}
	if db.Migrator().HasIndex(&domain.Note{}, FulltextIndexName) {
		return nil
	}
	return db.Exec("CREATE FULLTEXT INDEX " + FulltextIndexName + " ON notes (title, content)").Error
}
