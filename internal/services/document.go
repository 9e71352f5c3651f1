package services

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/pagecraft/doctree-backend/internal/apperr"
	"github.com/pagecraft/doctree-backend/internal/classes"
	"github.com/pagecraft/doctree-backend/internal/clients/redis"
	"github.com/pagecraft/doctree-backend/internal/doctree"
	"github.com/pagecraft/doctree-backend/internal/logger"
	"github.com/pagecraft/doctree-backend/internal/repos"
	"github.com/pagecraft/doctree-backend/internal/types"
	"github.com/pagecraft/doctree-backend/internal/validate"
)

// DocumentService is the engine's caller-facing surface: whole-tree
// read-modify-write over the persisted document plus read-side
// projections. Concurrency is caller-serialized; concurrent writers to
// the same document id are last-writer-wins at the storage layer.
type DocumentService interface {
	Create(ctx context.Context) (*types.Document, map[string]interface{}, error)
	Get(ctx context.Context, id int) (map[string]interface{}, error)
	Save(ctx context.Context, id int, raw interface{}) (validate.Result, error)
	Validate(raw interface{}) validate.Result

	Flatten(ctx context.Context, id int) ([]doctree.FlatElement, error)
	Count(ctx context.Context, id int) (int, error)
	DistinctTypes(ctx context.Context, id int) ([]string, error)

	ElementClasses(ctx context.Context, id int, nodeID doctree.NodeID) (builtin, custom []string, err error)
	SetElementClasses(ctx context.Context, id int, nodeID doctree.NodeID, list []string) error
	AddElementClass(ctx context.Context, id int, nodeID doctree.NodeID, cls string) error
	RemoveElementClass(ctx context.Context, id int, nodeID doctree.NodeID, cls string) error
}

type documentService struct {
	db          *gorm.DB
	log         *logger.Logger
	docRepo     repos.DocumentRepo
	invalidator redis.CacheInvalidator
	mode        doctree.BuilderMode
	keyPrefix   string
}

// NewDocumentService wires the engine to its collaborators. The
// invalidator may be nil; saves then skip cache signaling. The mode's key
// prefix is computed once here and reused.
func NewDocumentService(db *gorm.DB, log *logger.Logger, docRepo repos.DocumentRepo, invalidator redis.CacheInvalidator, mode doctree.BuilderMode) DocumentService {
	return &documentService{
		db:          db,
		log:         log.With("service", "DocumentService"),
		docRepo:     docRepo,
		invalidator: invalidator,
		mode:        mode,
		keyPrefix:   mode.KeyPrefix(),
	}
}

func (s *documentService) Create(ctx context.Context) (*types.Document, map[string]interface{}, error) {
	tree := doctree.EnsureTreeIntegrity(doctree.CreateEmptyTree())
	blob, err := json.Marshal(tree)
	if err != nil {
		return nil, nil, fmt.Errorf("encode tree: %w", err)
	}

	doc := &types.Document{Mode: s.keyPrefix, Tree: datatypes.JSON(blob)}
	doc, err = s.docRepo.Create(ctx, nil, doc)
	if err != nil {
		return nil, nil, err
	}
	s.log.Info("Created document", "document_id", doc.ID)
	s.signalInvalidation(ctx, doc.ID)
	return doc, tree, nil
}

func (s *documentService) Get(ctx context.Context, id int) (map[string]interface{}, error) {
	tree, err := s.loadTree(ctx, id)
	if err != nil {
		return nil, err
	}
	return doctree.EnsureTreeIntegrity(tree), nil
}

// Save validates the supplied value and persists its canonical form.
// Validation errors come back as data with nothing written; warnings are
// surfaced alongside the successful save.
func (s *documentService) Save(ctx context.Context, id int, raw interface{}) (validate.Result, error) {
	result := validate.Validate(raw)
	if !result.Valid {
		s.log.Debug("Rejected tree", "document_id", id, "error_count", result.ErrorCount)
		return result, nil
	}

	tree, ok := doctree.ParseDocument(raw)
	if !ok {
		// Validate passed, so this only happens for values that are not
		// maps at all; keep the caller on the validation-result path.
		return result, fmt.Errorf("tree: %w", apperr.ErrInvalidArgument)
	}
	if err := s.persist(ctx, id, doctree.EnsureTreeIntegrity(tree)); err != nil {
		return result, err
	}
	return result, nil
}

func (s *documentService) Validate(raw interface{}) validate.Result {
	return validate.Validate(raw)
}

func (s *documentService) Flatten(ctx context.Context, id int) ([]doctree.FlatElement, error) {
	root, err := s.loadRoot(ctx, id)
	if err != nil {
		return nil, err
	}
	return doctree.Flatten(doctree.Children(root), "root", 0), nil
}

func (s *documentService) Count(ctx context.Context, id int) (int, error) {
	root, err := s.loadRoot(ctx, id)
	if err != nil {
		return 0, err
	}
	return doctree.Count(doctree.Children(root)), nil
}

func (s *documentService) DistinctTypes(ctx context.Context, id int) ([]string, error) {
	root, err := s.loadRoot(ctx, id)
	if err != nil {
		return nil, err
	}
	return doctree.DistinctTypes(doctree.Children(root)), nil
}

func (s *documentService) ElementClasses(ctx context.Context, id int, nodeID doctree.NodeID) ([]string, []string, error) {
	tree, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	node, err := findElement(tree, nodeID)
	if err != nil {
		return nil, nil, err
	}
	return classes.BuiltinClasses(node), classes.CustomClasses(node), nil
}

func (s *documentService) SetElementClasses(ctx context.Context, id int, nodeID doctree.NodeID, list []string) error {
	return s.mutateElement(ctx, id, nodeID, func(node map[string]interface{}) error {
		classes.SetClasses(node, list)
		return nil
	})
}

func (s *documentService) AddElementClass(ctx context.Context, id int, nodeID doctree.NodeID, cls string) error {
	return s.mutateElement(ctx, id, nodeID, func(node map[string]interface{}) error {
		classes.AddClass(node, cls)
		return nil
	})
}

func (s *documentService) RemoveElementClass(ctx context.Context, id int, nodeID doctree.NodeID, cls string) error {
	return s.mutateElement(ctx, id, nodeID, func(node map[string]interface{}) error {
		return classes.RemoveClass(node, cls)
	})
}

// mutateElement runs the read-modify-write cycle for a single node:
// load, locate by id, apply, re-canonicalize, persist, invalidate.
func (s *documentService) mutateElement(ctx context.Context, id int, nodeID doctree.NodeID, fn func(node map[string]interface{}) error) error {
	tree, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	node, err := findElement(tree, nodeID)
	if err != nil {
		return err
	}
	if err := fn(node); err != nil {
		return err
	}
	return s.persist(ctx, id, doctree.EnsureTreeIntegrity(tree))
}

func (s *documentService) persist(ctx context.Context, id int, tree map[string]interface{}) error {
	blob, err := json.Marshal(tree)
	if err != nil {
		return fmt.Errorf("encode tree: %w", err)
	}

	doc, err := s.docRepo.GetByID(ctx, nil, id)
	if err != nil {
		return err
	}
	doc.Tree = datatypes.JSON(blob)
	doc.Mode = s.keyPrefix
	if err := s.docRepo.Save(ctx, nil, doc); err != nil {
		return err
	}
	s.signalInvalidation(ctx, id)
	return nil
}

// signalInvalidation is fire-and-observe: a failed signal is logged and
// the save still counts.
func (s *documentService) signalInvalidation(ctx context.Context, id int) {
	if s.invalidator == nil {
		return
	}
	if !s.invalidator.Invalidate(ctx, id) {
		s.log.Warn("Cache invalidation failed", "document_id", id)
	}
}

func (s *documentService) loadTree(ctx context.Context, id int) (map[string]interface{}, error) {
	doc, err := s.docRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	tree, ok := doctree.DecodeDocument(doc.Tree)
	if !ok {
		return nil, fmt.Errorf("document %d tree: %w", id, apperr.ErrInvalidArgument)
	}
	return tree, nil
}

func (s *documentService) loadRoot(ctx context.Context, id int) (map[string]interface{}, error) {
	tree, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	root, _ := tree[doctree.KeyRoot].(map[string]interface{})
	return root, nil
}

// findElement locates a node by id anywhere in the tree, root included.
func findElement(tree map[string]interface{}, nodeID doctree.NodeID) (map[string]interface{}, error) {
	root, ok := tree[doctree.KeyRoot].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("element %s: %w", nodeID, apperr.ErrElementNotFound)
	}
	if rootID, ok := doctree.ParseNodeID(root["id"]); ok && rootID.Equal(nodeID) {
		return root, nil
	}
	node := doctree.FindByID(doctree.Children(root), nodeID)
	if node == nil {
		return nil, fmt.Errorf("element %s: %w", nodeID, apperr.ErrElementNotFound)
	}
	return node, nil
}
