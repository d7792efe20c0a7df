package graphexport

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/vanshika/venmito/backend/internal/domain"
)

const (
	upsertPersonCypher = `
MERGE (p:Person {id: $id})
SET p += $props`

	upsertTransferCypher = `
MERGE (s:Person {id: $senderId})
MERGE (r:Person {id: $recipientId})
MERGE (s)-[t:TRANSFERRED {transferId: $transferId}]->(r)
SET t.amount = $amount, t.date = $date`
)

// ExportError accumulates the individual failures of a bulk export.
type ExportError struct {
	Errors []error
}

func (e *ExportError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := "multiple errors:"
	for _, err := range e.Errors {
		msg += " " + err.Error() + ";"
	}
	return msg
}

func (e *ExportError) append(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

func (e *ExportError) asError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// Exporter mirrors a reconciled dataset into a graph database as a transfer
// network: one node per canonical person, one TRANSFERRED edge per transfer.
// The export is additive to the pipeline's primary sink and is idempotent
// thanks to MERGE semantics.
type Exporter struct {
	client  Client
	workers int
}

// NewExporter creates an Exporter with the provided concurrency.
func NewExporter(client Client, workers int) *Exporter {
	if workers <= 0 {
		workers = 4
	}
	return &Exporter{
		client:  client,
		workers: workers,
	}
}

// Export writes all person nodes, then all transfer edges. Edges wait for
// nodes so MERGE never races a half-written person.
func (e *Exporter) Export(ctx context.Context, ds domain.Dataset) error {
	if err := e.run(ctx, len(ds.People), func(idx int) error {
		return e.exportPerson(ctx, ds.People[idx])
	}); err != nil {
		return err
	}
	return e.run(ctx, len(ds.Transfers), func(idx int) error {
		return e.exportTransfer(ctx, ds.Transfers[idx])
	})
}

func (e *Exporter) exportPerson(ctx context.Context, p domain.Person) error {
	props := map[string]any{
		"firstName": p.FirstName,
		"surname":   p.Surname,
	}
	if p.Email != nil {
		props["email"] = *p.Email
	}
	if p.Phone != nil {
		props["phone"] = *p.Phone
	}
	if p.City != nil {
		props["city"] = *p.City
	}
	if p.Country != nil {
		props["country"] = *p.Country
	}

	return e.client.ExecuteWrite(ctx, upsertPersonCypher, map[string]any{
		"id":    p.ID,
		"props": props,
	})
}

func (e *Exporter) exportTransfer(ctx context.Context, transfer domain.Transfer) error {
	return e.client.ExecuteWrite(ctx, upsertTransferCypher, map[string]any{
		"transferId":  transfer.TransferID,
		"senderId":    transfer.SenderID,
		"recipientId": transfer.RecipientID,
		"amount":      transfer.Amount,
		"date":        transfer.Date.Format(time.DateOnly),
	})
}

func (e *Exporter) run(ctx context.Context, total int, workerFn func(idx int) error) error {
	if total == 0 {
		return nil
	}
	indexCh := make(chan int)
	errCh := make(chan error, total)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for idx := range indexCh {
			if err := workerFn(idx); err != nil {
				select {
				case errCh <- err:
				case <-ctx.Done():
					return
				}
			}
		}
	}

	for i := 0; i < e.workers; i++ {
		wg.Add(1)
		go worker()
	}

Loop:
	for i := 0; i < total; i++ {
		select {
		case indexCh <- i:
		case <-ctx.Done():
			break Loop
		}
	}
	close(indexCh)
	wg.Wait()
	close(errCh)

	var exportErr ExportError
	for err := range errCh {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		exportErr.append(err)
	}
	return exportErr.asError()
}
