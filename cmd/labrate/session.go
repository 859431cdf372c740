package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"craftlab.ai/internal/crafting/catalogs"
	"craftlab.ai/internal/crafting/lab"
	"craftlab.ai/internal/crafting/resources"
	"craftlab.ai/internal/crafting/tuning"
	"craftlab.ai/internal/inventory"
)

// session is the read-only snapshot a matching pass runs against.
type session struct {
	reg  *catalogs.Registry
	pool []*resources.KnownResource
	inv  inventory.Index
}

func openSession(ctx context.Context, cfg tuning.Tuning, logger *log.Logger) (*session, error) {
	reg, err := loadRegistry(cfg.Taxonomy)
	if err != nil {
		return nil, fmt.Errorf("taxonomy: %w", err)
	}
	s := &session{reg: reg, inv: inventory.Empty}

	var spawning []*resources.KnownResource
	if cfg.Pool != "" {
		spawning, err = resources.LoadPool(cfg.Pool, reg)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			logger.Printf("pool %s not found; matching stock only", cfg.Pool)
		case err != nil:
			return nil, err
		}
	}

	var stocked []*resources.KnownResource
	if cfg.InventoryDB != "" {
		if _, err := os.Stat(cfg.InventoryDB); err != nil {
			logger.Printf("inventory %s not found; nothing is stocked", cfg.InventoryDB)
		} else {
			store, err := inventory.OpenSQLite(cfg.InventoryDB, logger)
			if err != nil {
				return nil, fmt.Errorf("inventory: %w", err)
			}
			defer store.Close()
			if d, err := store.TaxonomyDigest(ctx); err == nil && d != "" && d != reg.Digest() {
				logger.Printf("inventory was written against taxonomy %.12s, loaded %.12s", d, reg.Digest())
			}
			snap, err := store.Snapshot(ctx)
			if err != nil {
				return nil, fmt.Errorf("inventory: %w", err)
			}
			s.inv = snap
			if stocked, err = store.Resources(ctx, reg); err != nil {
				return nil, fmt.Errorf("inventory: %w", err)
			}
		}
	}

	s.pool = resources.Union(spawning, stocked)
	return s, nil
}

func (s *session) matcher(cfg tuning.Tuning) *lab.Matcher {
	m := &lab.Matcher{Limit: cfg.ResLimit}
	if cfg.ClassFilter {
		m.Eligible = lab.ByClass
	}
	return m
}

func (s *session) jobs(list []lab.Schematic) ([]lab.Job, error) {
	var errs []error
	jobs := make([]lab.Job, 0, len(list))
	for _, sc := range list {
		lines, err := sc.Resolve(s.reg)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		jobs = append(jobs, lab.Job{Name: sc.Name, Lines: lines, Pool: s.pool, Inventory: s.inv})
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return jobs, nil
}
