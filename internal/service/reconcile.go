package service

import (
	"context"
	"sort"

	"vaultcast/internal/content"
	"vaultcast/internal/model"
)

// ReconcileResult partitions filenames between the catalog and the content tree.
type ReconcileResult struct {
	Kind          string   `json:"kind"`
	Directory     string   `json:"directory"`
	Matched       []string `json:"matched"`
	MissingInDB   []string `json:"missing_in_db"`
	MissingOnDisk []string `json:"missing_on_disk"`
}

// Reconciler compares content listings against catalog records.
type Reconciler interface {
	Reconcile(ctx context.Context, kind, dir string) (*ReconcileResult, error)
}

type reconciler struct {
	catalog CatalogService
	lister  content.Lister
	dirs    map[string]string
}

// NewReconciler constructs a Reconciler. dirs maps each kind to its default directory.
func NewReconciler(catalog CatalogService, lister content.Lister, dirs map[string]string) Reconciler {
	return &reconciler{catalog: catalog, lister: lister, dirs: dirs}
}

func (r *reconciler) Reconcile(ctx context.Context, kind, dir string) (*ReconcileResult, error) {
	if !model.ValidKind(kind) {
		return nil, ErrInvalidKind
	}
	if dir == "" {
		dir = r.dirs[kind]
	}

	listing, err := r.lister.List(ctx, dir, true)
	if err != nil {
		return nil, err
	}
	videos, err := r.catalog.All(ctx, kind)
	if err != nil {
		return nil, err
	}

	onDisk := make(map[string]bool, len(listing.Files))
	for _, f := range listing.Files {
		onDisk[f.Name] = true
	}
	inDB := make(map[string]bool, len(videos))
	for _, v := range videos {
		inDB[v.Filename] = true
	}

	res := &ReconcileResult{
		Kind:          kind,
		Directory:     dir,
		Matched:       []string{},
		MissingInDB:   []string{},
		MissingOnDisk: []string{},
	}
	for name := range onDisk {
		if inDB[name] {
			res.Matched = append(res.Matched, name)
		} else {
			res.MissingInDB = append(res.MissingInDB, name)
		}
	}
	for name := range inDB {
		if !onDisk[name] {
			res.MissingOnDisk = append(res.MissingOnDisk, name)
		}
	}
	sort.Strings(res.Matched)
	sort.Strings(res.MissingInDB)
	sort.Strings(res.MissingOnDisk)
	return res, nil
}
