package db

import (
	"context"
	"fmt"

	"storefront/internal/domain/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Migrate creates tables and then the foreign keys listed in model.ReferentialPolicies.
func Migrate(ctx context.Context, db *gorm.DB) error {
	tx := db.WithContext(ctx)
	if err := tx.AutoMigrate(model.AllModels()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	for _, ref := range model.ReferentialPolicies {
		if err := ensureForeignKey(tx, ref); err != nil {
			return err
		}
	}
	return nil
}

func ensureForeignKey(tx *gorm.DB, ref model.Reference) error {
	if tx.Migrator().HasConstraint(ref.ChildTable, ref.Name) {
		return nil
	}

	stmt := fmt.Sprintf("ALTER TABLE ? ADD CONSTRAINT ? FOREIGN KEY (?) REFERENCES ? (?) ON DELETE %s", ref.OnDelete)
	err := tx.Exec(stmt,
		clause.Table{Name: ref.ChildTable},
		clause.Column{Name: ref.Name},
		clause.Column{Name: ref.Column},
		clause.Table{Name: ref.ParentTable},
		clause.Column{Name: "id"},
	).Error
	if err != nil {
		return fmt.Errorf("add %s: %w", ref.Name, err)
	}
	return nil
}
