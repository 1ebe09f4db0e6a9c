package postgres

import (
	"context"

	"github.com/SAP-F-2025/teacher-portal/internal/repositories"
	"gorm.io/gorm"
)

type repository struct {
	db         *gorm.DB
	assignment repositories.AssignmentRepository
	class      repositories.ClassRepository
	catalog    repositories.CatalogRepository
}

// NewRepository wires the PostgreSQL implementations over db.
func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{
		db:         db,
		assignment: NewAssignmentPostgreSQL(db),
		class:      NewClassPostgreSQL(db),
		catalog:    NewCatalogPostgreSQL(db),
	}
}

func (r *repository) Assignment() repositories.AssignmentRepository { return r.assignment }
func (r *repository) Class() repositories.ClassRepository           { return r.class }
func (r *repository) Catalog() repositories.CatalogRepository       { return r.catalog }

func (r *repository) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// base carries the shared connection and picks the transaction when given one.
type base struct {
	db *gorm.DB
}

func (b base) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return b.db
}
