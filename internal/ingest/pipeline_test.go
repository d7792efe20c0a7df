package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/vanshika/venmito/backend/internal/domain"
)

type stubSink struct {
	datasets []domain.Dataset
	err      error
}

func (s *stubSink) ReplaceDataset(_ context.Context, ds domain.Dataset) error {
	if s.err != nil {
		return s.err
	}
	s.datasets = append(s.datasets, ds)
	return nil
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSources() Sources {
	peopleJSON := `[
  {"id": "1", "first_name": "Ann", "email": "a@x.com", "devices": ["Android"],
   "location": {"City": "Berlin", "Country": "Germany"}},
  {"id": "3", "first_name": "Cara", "last_name": "Diaz", "telephone": "555-3",
   "devices": [], "location": {"City": "Oslo", "Country": "Norway"}}
]`
	peopleYAML := `- id: 1
  name: Ann Lee
  phone: 555-1
  city: Berlin, Germany
  Android: 0
  Iphone: 1
  Desktop: 0
- id: 2
  name: Bob Ray
  email: b@x.com
  phone: 555-2
  city: Madrid, Spain
  Android: 0
  Iphone: 0
  Desktop: 1
`
	transactionsXML := `<transactions>
  <transaction id="1001">
    <phone>555-1</phone>
    <store>CentralPerk</store>
    <items>
      <item><item>Coffee 1lb</item><quantity>2</quantity><price_per_item>9.50</price_per_item><price>19.00</price></item>
      <item><item>Tea Sampler</item><quantity>1</quantity><price_per_item>12.00</price_per_item><price>12.00</price></item>
    </items>
  </transaction>
  <transaction id="1002">
    <phone>555-404</phone>
    <store>QuickStop</store>
    <items>
      <item><item>Notebook</item><quantity>1</quantity><price_per_item>3.00</price_per_item><price>5.00</price></item>
    </items>
  </transaction>
</transactions>`
	promotionsCSV := strings.Join([]string{
		"id,client_email,telephone,promotion,responded",
		"1,,555-1,SpringCashback,Yes",
		"2,nobody@x.com,,ReferralBonus,No",
	}, "\n")
	transfersCSV := strings.Join([]string{
		"sender_id,recipient_id,amount,date",
		"1,2,25.50,2024-03-01",
		"99,2,10.00,2024-03-02",
	}, "\n")

	return Sources{
		PeopleJSON:   strings.NewReader(peopleJSON),
		PeopleYAML:   strings.NewReader(peopleYAML),
		Transactions: strings.NewReader(transactionsXML),
		Promotions:   strings.NewReader(promotionsCSV),
		Transfers:    strings.NewReader(transfersCSV),
	}
}

func TestPipelineRun(t *testing.T) {
	sink := &stubSink{}
	pipeline := New(testLogger(), sink)

	result, err := pipeline.Run(context.Background(), testSources())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(sink.datasets) != 1 {
		t.Fatalf("expected 1 persisted dataset, got %d", len(sink.datasets))
	}

	ds := result.Dataset
	if len(ds.People) != 3 {
		t.Fatalf("expected 3 canonical people, got %d", len(ds.People))
	}

	ann := ds.People[0]
	if ann.ID != 1 {
		t.Fatalf("expected person 1 first, got %d", ann.ID)
	}
	if ann.Email == nil || *ann.Email != "a@x.com" {
		t.Errorf("expected email from the document source, got %v", ann.Email)
	}
	if ann.Phone == nil || *ann.Phone != "555-1" {
		t.Errorf("expected phone filled from the yaml source, got %v", ann.Phone)
	}
	if ann.Surname != "Lee" {
		t.Errorf("expected surname from the yaml source, got %q", ann.Surname)
	}
	// The document source reported Android without the other flags; its
	// presence wins over the yaml source's explicit zero.
	if !ann.Android || !ann.IPhone || ann.Desktop {
		t.Errorf("unexpected device flags: %+v", ann)
	}

	if len(ds.Transactions) != 3 {
		t.Fatalf("expected 3 transaction line items, got %d", len(ds.Transactions))
	}
	if ds.Transactions[0].TransactionID != 1001 || ds.Transactions[1].TransactionID != 1001 {
		t.Error("expected both rows of the two-item node to share a transaction id")
	}
	if ds.Transactions[0].CustomerID == nil || *ds.Transactions[0].CustomerID != 1 {
		t.Errorf("expected line item resolved to customer 1, got %v", ds.Transactions[0].CustomerID)
	}
	if ds.Transactions[2].CustomerID != nil {
		t.Error("expected unmatched phone to leave CustomerID nil")
	}

	if len(ds.Promotions) != 2 {
		t.Fatalf("expected 2 promotions, got %d", len(ds.Promotions))
	}
	if ds.Promotions[0].ClientEmail == nil || *ds.Promotions[0].ClientEmail != "a@x.com" {
		t.Errorf("expected promotion email back-filled via phone match, got %v", ds.Promotions[0].ClientEmail)
	}

	report := result.Report
	if report.RunID == "" {
		t.Error("expected a run id on the report")
	}
	if report.Counts[domain.ViolationPromotionUnresolved] != 1 {
		t.Errorf("expected 1 unresolved promotion, got %d", report.Counts[domain.ViolationPromotionUnresolved])
	}
	if report.Counts[domain.ViolationTxPhoneUnresolved] != 1 {
		t.Errorf("expected 1 unresolved transaction phone, got %d", report.Counts[domain.ViolationTxPhoneUnresolved])
	}
	if report.Counts[domain.ViolationUnknownSenderID] != 1 {
		t.Errorf("expected 1 unknown transfer sender, got %d", report.Counts[domain.ViolationUnknownSenderID])
	}
	if report.Counts[domain.ViolationLineTotalMismatch] != 1 {
		t.Errorf("expected 1 line total mismatch, got %d", report.Counts[domain.ViolationLineTotalMismatch])
	}
}

func TestPipelineRunUnreadableSourceAborts(t *testing.T) {
	sink := &stubSink{}
	pipeline := New(testLogger(), sink)

	src := testSources()
	src.Transactions = failingReader{}

	if _, err := pipeline.Run(context.Background(), src); err == nil {
		t.Fatal("expected error for unreadable source")
	}
	if len(sink.datasets) != 0 {
		t.Fatal("expected nothing persisted after an aborted run")
	}
}

func TestPipelineRunSinkFailure(t *testing.T) {
	sinkErr := errors.New("sink unavailable")
	pipeline := New(testLogger(), &stubSink{err: sinkErr})

	_, err := pipeline.Run(context.Background(), testSources())
	if !errors.Is(err, sinkErr) {
		t.Fatalf("expected sink error, got %v", err)
	}
}
