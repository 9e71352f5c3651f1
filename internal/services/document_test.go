package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/pagecraft/doctree-backend/internal/apperr"
	"github.com/pagecraft/doctree-backend/internal/doctree"
	"github.com/pagecraft/doctree-backend/internal/logger"
	"github.com/pagecraft/doctree-backend/internal/types"
)

// fakeDocumentRepo keeps documents in memory; the engine only ever does
// whole-tree read-modify-write, so a map is enough.
type fakeDocumentRepo struct {
	nextID int
	docs   map[int]*types.Document
}

func newFakeRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{nextID: 1, docs: map[int]*types.Document{}}
}

func (r *fakeDocumentRepo) Create(_ context.Context, _ *gorm.DB, doc *types.Document) (*types.Document, error) {
	doc.ID = r.nextID
	r.nextID++
	stored := *doc
	r.docs[doc.ID] = &stored
	return doc, nil
}

func (r *fakeDocumentRepo) GetByID(_ context.Context, _ *gorm.DB, id int) (*types.Document, error) {
	doc, ok := r.docs[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	copied := *doc
	return &copied, nil
}

func (r *fakeDocumentRepo) Save(_ context.Context, _ *gorm.DB, doc *types.Document) error {
	stored := *doc
	r.docs[doc.ID] = &stored
	return nil
}

func (r *fakeDocumentRepo) ListIDs(_ context.Context, _ *gorm.DB, limit int) ([]int, error) {
	ids := []int{}
	for id := range r.docs {
		ids = append(ids, id)
	}
	return ids, nil
}

type fakeInvalidator struct {
	calls []int
	ok    bool
}

func (f *fakeInvalidator) Invalidate(_ context.Context, documentID int) bool {
	f.calls = append(f.calls, documentID)
	return f.ok
}

func (f *fakeInvalidator) Close() error { return nil }

func newTestService(t *testing.T) (DocumentService, *fakeDocumentRepo, *fakeInvalidator) {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	repo := newFakeRepo()
	inv := &fakeInvalidator{ok: true}
	return NewDocumentService(nil, log, repo, inv, doctree.ModeBreakdance), repo, inv
}

func decodeRaw(t *testing.T, raw string) interface{} {
	t.Helper()
	var v interface{}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return v
}

const savedTree = `{
	"root": {
		"id": 1,
		"data": {"type": "root", "properties": null},
		"children": [
			{"id": 100, "data": {"type": "EssentialElements\\Heading", "properties": {"content": {"content": {"text": "Hi"}}}}, "children": [], "parentId": 1},
			{"id": 101, "data": {"type": "EssentialElements\\Section", "properties": null}, "children": [
				{"id": 102, "data": {"type": "EssentialElements\\Text", "properties": null}, "children": [], "parentId": 101}
			], "parentId": 1}
		]
	},
	"status": "exported"
}`

func TestCreateAndGet(t *testing.T) {
	svc, _, inv := newTestService(t)
	ctx := context.Background()

	doc, tree, err := svc.Create(ctx)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if doc.ID == 0 {
		t.Error("created document has no id")
	}
	if tree[doctree.KeyStatus] != doctree.StatusExported {
		t.Errorf("created tree status = %v", tree[doctree.KeyStatus])
	}
	if len(inv.calls) != 1 {
		t.Errorf("invalidator calls = %v, want one", inv.calls)
	}

	got, err := svc.Get(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	root := got[doctree.KeyRoot].(map[string]interface{})
	if root["id"] != doctree.RootElementID {
		t.Errorf("root id = %v", root["id"])
	}
}

func TestGetNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)
	if _, err := svc.Get(context.Background(), 12345); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Get(absent) = %v, want ErrNotFound", err)
	}
}

func TestSaveValidTree(t *testing.T) {
	svc, repo, inv := newTestService(t)
	ctx := context.Background()

	doc, _, err := svc.Create(ctx)
	if err != nil {
		t.Fatal(err)
	}
	inv.calls = nil

	result, err := svc.Save(ctx, doc.ID, decodeRaw(t, savedTree))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !result.Valid {
		t.Fatalf("Save rejected valid tree: %v", result.Errors)
	}
	if len(inv.calls) != 1 || inv.calls[0] != doc.ID {
		t.Errorf("invalidator calls = %v", inv.calls)
	}

	var stored map[string]interface{}
	if err := json.Unmarshal(repo.docs[doc.ID].Tree, &stored); err != nil {
		t.Fatal(err)
	}
	if stored[doctree.KeyNextNodeID] != float64(103) {
		t.Errorf("stored nextNodeId = %v, want 103", stored[doctree.KeyNextNodeID])
	}
}

func TestSaveInvalidTreeDoesNotPersist(t *testing.T) {
	svc, repo, inv := newTestService(t)
	ctx := context.Background()

	doc, _, err := svc.Create(ctx)
	if err != nil {
		t.Fatal(err)
	}
	before := string(repo.docs[doc.ID].Tree)
	inv.calls = nil

	bad := decodeRaw(t, savedTree).(map[string]interface{})
	delete(bad, "status")
	result, err := svc.Save(ctx, doc.ID, bad)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if result.Valid {
		t.Fatal("invalid tree accepted")
	}
	if string(repo.docs[doc.ID].Tree) != before {
		t.Error("rejected save still wrote to storage")
	}
	if len(inv.calls) != 0 {
		t.Errorf("rejected save signaled invalidation: %v", inv.calls)
	}
}

func TestSaveMissingDocument(t *testing.T) {
	svc, _, _ := newTestService(t)
	if _, err := svc.Save(context.Background(), 999, decodeRaw(t, savedTree)); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Save(absent) = %v, want ErrNotFound", err)
	}
}

func TestReadProjections(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	doc, _, _ := svc.Create(ctx)
	if _, err := svc.Save(ctx, doc.ID, decodeRaw(t, savedTree)); err != nil {
		t.Fatal(err)
	}

	count, err := svc.Count(ctx, doc.ID)
	if err != nil || count != 3 {
		t.Errorf("Count = (%d, %v), want 3", count, err)
	}

	flat, err := svc.Flatten(ctx, doc.ID)
	if err != nil || len(flat) != 3 {
		t.Fatalf("Flatten = (%d records, %v), want 3", len(flat), err)
	}
	if flat[0].ID.String() != "100" || flat[2].Depth != 1 {
		t.Errorf("flatten order wrong: %+v", flat)
	}

	distinct, err := svc.DistinctTypes(ctx, doc.ID)
	if err != nil || len(distinct) != 3 {
		t.Errorf("DistinctTypes = (%v, %v)", distinct, err)
	}
}

func TestElementClassRoundTrip(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	doc, _, _ := svc.Create(ctx)
	if _, err := svc.Save(ctx, doc.ID, decodeRaw(t, savedTree)); err != nil {
		t.Fatal(err)
	}

	target := doctree.IntID(100)
	if err := svc.SetElementClasses(ctx, doc.ID, target, []string{"foo", "bar"}); err != nil {
		t.Fatalf("SetElementClasses: %v", err)
	}

	builtin, custom, err := svc.ElementClasses(ctx, doc.ID, target)
	if err != nil {
		t.Fatalf("ElementClasses: %v", err)
	}
	if len(builtin) != 1 || builtin[0] != "bde-heading" {
		t.Errorf("builtin = %v", builtin)
	}
	if len(custom) != 2 || custom[0] != "foo" || custom[1] != "bar" {
		t.Errorf("custom = %v", custom)
	}

	if err := svc.RemoveElementClass(ctx, doc.ID, target, "foo"); err != nil {
		t.Fatalf("RemoveElementClass: %v", err)
	}
	_, custom, err = svc.ElementClasses(ctx, doc.ID, target)
	if err != nil {
		t.Fatal(err)
	}
	if len(custom) != 1 || custom[0] != "bar" {
		t.Errorf("custom after remove = %v", custom)
	}

	if err := svc.RemoveElementClass(ctx, doc.ID, target, "bde-heading"); !errors.Is(err, apperr.ErrBuiltinClass) {
		t.Errorf("removing builtin = %v, want ErrBuiltinClass", err)
	}
	if err := svc.RemoveElementClass(ctx, doc.ID, target, "gone"); !errors.Is(err, apperr.ErrClassNotFound) {
		t.Errorf("removing absent = %v, want ErrClassNotFound", err)
	}
	if err := svc.AddElementClass(ctx, doc.ID, doctree.IntID(4242), "x"); !errors.Is(err, apperr.ErrElementNotFound) {
		t.Errorf("mutating absent element = %v, want ErrElementNotFound", err)
	}
}
