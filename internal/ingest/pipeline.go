package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/vanshika/venmito/backend/internal/domain"
)

// Sink is the narrow persistence contract the pipeline hands its output to.
// The sink replaces each logical table's prior contents for the run; the
// pipeline is agnostic to the physical representation behind it.
type Sink interface {
	ReplaceDataset(ctx context.Context, ds domain.Dataset) error
}

// Sources carries the five raw input artifacts for one batch run.
type Sources struct {
	PeopleJSON   io.Reader
	PeopleYAML   io.Reader
	Transactions io.Reader
	Promotions   io.Reader
	Transfers    io.Reader
}

// Result is the outcome of a successful run: the normalized dataset as it was
// persisted, plus the validation report accumulated along the way.
type Result struct {
	Dataset domain.Dataset
	Report  *domain.ValidationReport
}

// Pipeline reconciles the five sources into one consistent dataset keyed by
// the canonical person identity. Each Run owns its own lookup indices and
// validation accumulator, so independent runs never share state.
type Pipeline struct {
	logger   *slog.Logger
	sink     Sink
	newRunID func() string
}

// New constructs a Pipeline writing to the provided sink.
func New(logger *slog.Logger, sink Sink) *Pipeline {
	return &Pipeline{
		logger:   logger,
		sink:     sink,
		newRunID: uuid.NewString,
	}
}

// Run executes one batch: read and normalize all five sources, reconcile the
// two person sources, resolve the dependent streams against the canonical
// people, validate, then persist through the sink. An unparsable source
// aborts the run before anything is persisted; every other finding is
// aggregated into the validation report.
func (p *Pipeline) Run(ctx context.Context, src Sources) (Result, error) {
	runID := p.newRunID()
	report := domain.NewValidationReport(runID)
	logger := p.logger.With("runId", runID)

	var (
		wg sync.WaitGroup

		peopleA, peopleB        []RawPerson
		transactions            []domain.TransactionLineItem
		promotions              []domain.Promotion
		transfers               []domain.Transfer
		skippedA, skippedB      int
		skippedTx, skippedPromo int
		skippedTransfers        int
		errA, errB, errTx       error
		errPromo, errTransfers  error
	)

	// The readers share no state; each writes only to its own slot.
	wg.Add(5)
	go func() {
		defer wg.Done()
		peopleA, skippedA, errA = ReadPeopleJSON(src.PeopleJSON)
	}()
	go func() {
		defer wg.Done()
		peopleB, skippedB, errB = ReadPeopleYAML(src.PeopleYAML)
	}()
	go func() {
		defer wg.Done()
		transactions, skippedTx, errTx = ReadTransactionsXML(src.Transactions)
	}()
	go func() {
		defer wg.Done()
		promotions, skippedPromo, errPromo = ReadPromotionsCSV(src.Promotions)
	}()
	go func() {
		defer wg.Done()
		transfers, skippedTransfers, errTransfers = ReadTransfersCSV(src.Transfers)
	}()
	wg.Wait()

	if err := errors.Join(errA, errB, errTx, errPromo, errTransfers); err != nil {
		return Result{}, fmt.Errorf("read sources: %w", err)
	}

	skipped := skippedA + skippedB + skippedTx + skippedPromo + skippedTransfers
	report.AddN(domain.ViolationRowMalformed, skipped)
	if skipped > 0 {
		logger.Warn("malformed rows skipped",
			"peopleJson", skippedA,
			"peopleYaml", skippedB,
			"transactions", skippedTx,
			"promotions", skippedPromo,
			"transfers", skippedTransfers,
		)
	}

	people := MergePeople(peopleA, peopleB, report)
	logger.Info("people reconciled",
		"sourceA", len(peopleA),
		"sourceB", len(peopleB),
		"canonical", len(people),
	)

	idx := buildContactIndex(people, report)
	resolvePromotions(promotions, idx, report)
	resolveTransactions(transactions, idx, report)

	ds := domain.Dataset{
		People:       people,
		Promotions:   promotions,
		Transactions: transactions,
		Transfers:    transfers,
	}
	validateDataset(ds, idx, report)

	if err := p.sink.ReplaceDataset(ctx, ds); err != nil {
		return Result{}, fmt.Errorf("persist dataset: %w", err)
	}

	logger.Info("ingestion run complete",
		"people", len(ds.People),
		"promotions", len(ds.Promotions),
		"transactionLineItems", len(ds.Transactions),
		"transfers", len(ds.Transfers),
		"violations", report.Total(),
	)
	return Result{Dataset: ds, Report: report}, nil
}
