// Package reconciler implements the import engine: it reads raw spreadsheet
// rows, normalizes them into canonical unit and owner data, and merges them
// into the store without creating duplicate owner entries or contact numbers.
// Re-running an import over the same or overlapping rows is idempotent.
package reconciler

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/unitbook/unitbook/pkg/errors"
	"github.com/unitbook/unitbook/pkg/fields"
	"github.com/unitbook/unitbook/pkg/logging"
	"github.com/unitbook/unitbook/pkg/normalize"
	"github.com/unitbook/unitbook/pkg/sources"
	"github.com/unitbook/unitbook/pkg/store"
	"github.com/unitbook/unitbook/pkg/units"
)

// Reconciler merges raw spreadsheet rows into the unit record store.
type Reconciler interface {
	// Run imports every row of the source. Malformed values and rows missing
	// identifiers are absorbed per policy; a store failure aborts the run.
	// On abort the returned Result still reflects the progress committed
	// before the failure.
	Run(ctx context.Context, src sources.Source) (*Result, error)
}

// reconciler is the default implementation of Reconciler.
type reconciler struct {
	store   store.Store
	aliases fields.Aliases
	dryRun  bool
}

// New creates a Reconciler writing to the given store.
func New(st store.Store, opts ...Option) (Reconciler, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}

	return &reconciler{
		store:   st,
		aliases: options.aliases,
		dryRun:  options.dryRun,
	}, nil
}

// runContext holds shared state for one import run.
type runContext struct {
	source string
	cache  map[units.Key][]units.Owner
	logger *zerolog.Logger
	result *Result
}

// Run implements Reconciler.
func (r *reconciler) Run(ctx context.Context, src sources.Source) (*Result, error) {
	result := NewResult(uuid.NewString(), src.Name(), r.dryRun)

	ctx = logging.WithRun(ctx, result.RunID)
	logger := logging.FromContext(ctx)
	logger.Info().
		Str("source", src.Name()).
		Bool("dry_run", r.dryRun).
		Msg("Starting import run")

	// Seed the in-memory mirror once so per-row lookups never round-trip to
	// the store.
	rctx, err := r.initialize(ctx, src.Name(), result, logger)
	if err != nil {
		result.Finalize()
		return result, err
	}

	rows, err := src.Rows(ctx)
	if err != nil {
		result.Finalize()
		return result, err
	}

	for i, row := range rows {
		if ctx.Err() != nil {
			result.Finalize()
			return result, errors.ErrCanceled
		}
		rctx.result.RowsRead++
		if err := r.processRow(ctx, rctx, i+1, row); err != nil {
			// Only store failures surface; row-level problems are counted.
			result.Finalize()
			return result, err
		}
	}

	result.Finalize()
	logger.Info().
		Int("rows", result.RowsRead).
		Int("inserted", result.Inserted).
		Int("updated", result.Updated).
		Int("skipped", result.Skipped).
		Dur("duration", result.Duration).
		Msg("Import run finished")

	return result, nil
}

// initialize seeds the owner cache from the store.
func (r *reconciler) initialize(ctx context.Context, source string, result *Result, logger *zerolog.Logger) (*runContext, error) {
	projections, err := r.store.Seed(ctx)
	if err != nil {
		return nil, err
	}

	cache := make(map[units.Key][]units.Owner, len(projections))
	for _, p := range projections {
		cache[p.Key()] = p.Owners
	}
	logger.Debug().Int("records", len(cache)).Msg("Seeded record cache")

	return &runContext{source: source, cache: cache, logger: logger, result: result}, nil
}

// processRow runs the per-row pipeline: extract, resolve identity, decide the
// owner mutation, apply it to store and cache.
func (r *reconciler) processRow(ctx context.Context, rctx *runContext, num int, row fields.Row) error {
	unit, owner := r.extract(row)

	// Rows without the minimal identifiers are skipped, not errors.
	key := units.NewKey(unit.BuildingName, unit.UnitNumber)
	if !key.Valid() || owner.OwnerName == "" {
		rctx.result.Skipped++
		rctx.logger.Debug().
			Err(&errors.RowError{
				Source:  rctx.source,
				Row:     num,
				Message: "missing building, unit number or owner name",
			}).
			Msg("Skipping row")
		return nil
	}

	cached, exists := rctx.cache[key]
	if !exists {
		return r.insert(ctx, rctx, key, unit, owner)
	}
	return r.update(ctx, rctx, key, unit, owner, cached)
}

// insert stores a brand-new unit carrying the row's owner entry.
func (r *reconciler) insert(ctx context.Context, rctx *runContext, key units.Key, unit *units.Unit, owner units.Owner) error {
	unit.Owners = []units.Owner{owner}

	if !r.dryRun {
		if err := r.store.Insert(ctx, unit); err != nil {
			return err
		}
	}

	rctx.cache[key] = []units.Owner{owner}
	rctx.result.Inserted++
	return nil
}

// update refreshes known attribute fields and applies the owner-matching
// decision to an existing record.
func (r *reconciler) update(ctx context.Context, rctx *runContext, key units.Key, unit *units.Unit, owner units.Owner, cached []units.Owner) error {
	if patch := unit.Patch(); len(patch) > 0 && !r.dryRun {
		if err := r.store.SetFields(ctx, key, patch); err != nil {
			return err
		}
	}

	switch d := decide(cached, owner); d.kind {
	case decisionSameEntry:
		if len(d.newContacts) > 0 {
			if !r.dryRun {
				err := r.store.MergeContacts(ctx, key, owner.OwnerName, owner.Role, owner.RegistrationDate, d.newContacts)
				if err != nil {
					return err
				}
			}
			cached[d.index].Contacts = append(cached[d.index].Contacts, d.newContacts...)
			rctx.cache[key] = cached
			rctx.result.ContactsMerged++
		}

	case decisionNewDate:
		if !r.dryRun {
			if err := r.store.AppendOwner(ctx, key, owner); err != nil {
				return err
			}
		}
		rctx.cache[key] = append(cached, owner)
		rctx.result.OwnersNewDate++

	case decisionNewOwner:
		if !r.dryRun {
			if err := r.store.AppendOwner(ctx, key, owner); err != nil {
				return err
			}
		}
		rctx.cache[key] = append(cached, owner)
		rctx.result.OwnersNew++
	}

	rctx.result.Updated++
	return nil
}

// extract normalizes one raw row into a canonical unit and owner candidate.
// Unparseable values come back nil or empty and are never applied over known
// data.
func (r *reconciler) extract(row fields.Row) (*units.Unit, units.Owner) {
	pick := func(field string) string {
		return row.Pick(r.aliases.Candidates(field)...)
	}

	priceRaw := pick(fields.Price)

	unit := &units.Unit{
		BuildingName:          pick(fields.Building),
		UnitNumber:            pick(fields.UnitNumber),
		AreaSqft:              normalize.ParseNumber(pick(fields.Area)),
		Price:                 normalize.ParseMoney(priceRaw),
		PriceRaw:              priceRaw,
		PropertyType:          pick(fields.PropertyType),
		SubType:               pick(fields.SubType),
		Beds:                  normalize.ParseNumber(pick(fields.Beds)),
		City:                  pick(fields.City),
		Community:             pick(fields.Community),
		SubCommunity:          pick(fields.SubCommunity),
		MunicipalityNumber:    pick(fields.MunicipalityNumber),
		MunicipalitySubNumber: pick(fields.MunicipalitySubNumber),
	}

	owner := units.Owner{
		OwnerName:        pick(fields.OwnerName),
		Role:             pick(fields.Role),
		RegistrationDate: normalize.ParseDate(pick(fields.RegistrationDate)),
		Contacts:         normalize.SplitContacts(pick(fields.Contact)),
	}

	return unit, owner
}
