package generator

import (
	"context"
	"reflect"
	"testing"
)

func TestGenerateDeterministicForSeed(t *testing.T) {
	cfg := Config{NumPeople: 20, NumTransactions: 30, NumPromotions: 15, NumTransfers: 10, Seed: 7}

	first, err := New(cfg).Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	second, err := New(cfg).Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("expected identical datasets for the same seed")
	}
}

func TestGenerateCounts(t *testing.T) {
	cfg := Config{NumPeople: 25, NumTransactions: 40, NumPromotions: 12, NumTransfers: 8, Seed: 1}

	ds, err := New(cfg).Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if len(ds.People) != 25 || len(ds.Transactions) != 40 || len(ds.Promotions) != 12 || len(ds.Transfers) != 8 {
		t.Fatalf("unexpected sizes: %d people, %d transactions, %d promotions, %d transfers",
			len(ds.People), len(ds.Transactions), len(ds.Promotions), len(ds.Transfers))
	}

	for _, p := range ds.People {
		if !p.InJSON && !p.InYAML {
			t.Fatalf("person %d belongs to neither source", p.ID)
		}
	}
	for _, tx := range ds.Transactions {
		if len(tx.Items) == 0 {
			t.Fatalf("transaction %d has no items", tx.ID)
		}
	}
}

func TestGenerateSourceOverlap(t *testing.T) {
	cfg := Config{NumPeople: 200, NumTransactions: 1, NumPromotions: 1, NumTransfers: 1,
		BothSourcesChance: 0.5, Seed: 3}

	ds, err := New(cfg).Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	both, single := 0, 0
	for _, p := range ds.People {
		if p.InJSON && p.InYAML {
			both++
		} else {
			single++
		}
	}
	if both == 0 || single == 0 {
		t.Fatalf("expected a mix of shared and single-source people, got both=%d single=%d", both, single)
	}
}

func TestGenerateHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New(DefaultConfig()).Generate(ctx); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
