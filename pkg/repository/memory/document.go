package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/seamark-lab/quartermaster/pkg/domain/model"
)

type documentRepository struct {
	mu     sync.RWMutex
	docs   map[string]map[int64]*model.Document
	nextID map[string]int64
}

func newDocumentRepository() *documentRepository {
	return &documentRepository{
		docs:   make(map[string]map[int64]*model.Document),
		nextID: make(map[string]int64),
	}
}

func (r *documentRepository) ensureYacht(yachtID string) {
	if _, exists := r.docs[yachtID]; !exists {
		r.docs[yachtID] = make(map[int64]*model.Document)
	}
	if _, exists := r.nextID[yachtID]; !exists {
		r.nextID[yachtID] = 1
	}
}

func copyDocument(d *model.Document) *model.Document {
	cp := *d
	return &cp
}

func (r *documentRepository) Create(ctx context.Context, yachtID string, doc *model.Document) (*model.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ensureYacht(yachtID)

	created := copyDocument(doc)
	created.ID = r.nextID[yachtID]
	created.CreatedAt = time.Now().UTC()
	r.nextID[yachtID]++

	r.docs[yachtID][created.ID] = created
	return copyDocument(created), nil
}

func (r *documentRepository) Get(ctx context.Context, yachtID string, id int64) (*model.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	yacht, exists := r.docs[yachtID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "document not found", goerr.V("id", id))
	}

	doc, exists := yacht[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "document not found", goerr.V("id", id))
	}

	return copyDocument(doc), nil
}

func (r *documentRepository) List(ctx context.Context, yachtID string) ([]*model.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	yacht, exists := r.docs[yachtID]
	if !exists {
		return []*model.Document{}, nil
	}

	docs := make([]*model.Document, 0, len(yacht))
	for _, doc := range yacht {
		docs = append(docs, copyDocument(doc))
	}

	return docs, nil
}
