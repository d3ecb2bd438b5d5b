// Package usecase implements the business logic for instrument listing.
package usecase

import (
	"context"
	"strings"

	"stock_analyzer/internal/feature/instrument/domain/entity"
)

// InstrumentRepository abstracts the aggregate queries over stored bars.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type InstrumentRepository interface {
	ListSummaries(ctx context.Context) ([]entity.Instrument, error)
}

// InstrumentUsecase provides business logic for instrument operations.
type InstrumentUsecase struct {
	repo InstrumentRepository
}

// NewInstrumentUsecase creates a new InstrumentUsecase with the given repository.
func NewInstrumentUsecase(r InstrumentRepository) *InstrumentUsecase {
	return &InstrumentUsecase{repo: r}
}

// ListInstruments returns every instrument that has at least one stored bar.
// prefix が空でなければ大文字小文字を区別せず前方一致で絞り込みます。
func (u *InstrumentUsecase) ListInstruments(ctx context.Context, prefix string) ([]entity.Instrument, error) {
	all, err := u.repo.ListSummaries(ctx)
	if err != nil {
		return nil, err
	}
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		return all, nil
	}
	out := make([]entity.Instrument, 0, len(all))
	for _, in := range all {
		if strings.HasPrefix(strings.ToUpper(in.Code), prefix) {
			out = append(out, in)
		}
	}
	return out, nil
}
