package repos

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/pagecraft/doctree-backend/internal/apperr"
	"github.com/pagecraft/doctree-backend/internal/logger"
	"github.com/pagecraft/doctree-backend/internal/types"
)

type DocumentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, doc *types.Document) (*types.Document, error)
	GetByID(ctx context.Context, tx *gorm.DB, id int) (*types.Document, error)
	Save(ctx context.Context, tx *gorm.DB, doc *types.Document) error
	ListIDs(ctx context.Context, tx *gorm.DB, limit int) ([]int, error)
}

type documentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDocumentRepo(db *gorm.DB, baseLog *logger.Logger) DocumentRepo {
	return &documentRepo{db: db, log: baseLog.With("repo", "DocumentRepo")}
}

func (r *documentRepo) Create(ctx context.Context, tx *gorm.DB, doc *types.Document) (*types.Document, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(doc).Error; err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	return doc, nil
}

func (r *documentRepo) GetByID(ctx context.Context, tx *gorm.DB, id int) (*types.Document, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var doc types.Document
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("document %d: %w", id, apperr.ErrNotFound)
		}
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepo) Save(ctx context.Context, tx *gorm.DB, doc *types.Document) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Save(doc).Error; err != nil {
		return fmt.Errorf("save document %d: %w", doc.ID, err)
	}
	return nil
}

func (r *documentRepo) ListIDs(ctx context.Context, tx *gorm.DB, limit int) ([]int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	ids := []int{}
	q := transaction.WithContext(ctx).
		Model(&types.Document{}).
		Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
