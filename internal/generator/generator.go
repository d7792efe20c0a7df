package generator

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// PersonSeed is the ground-truth identity a generated batch is built around.
// Membership flags decide which person source(s) the row is serialized into.
type PersonSeed struct {
	ID        int
	FirstName string
	Surname   string
	Email     string
	Phone     string
	City      string
	Country   string
	Devices   []string
	InJSON    bool
	InYAML    bool
}

// ItemSeed is one purchased item inside a generated transaction.
type ItemSeed struct {
	Name         string
	Quantity     int
	PricePerItem float64
	Price        float64
}

// TransactionSeed is one transaction node with its nested items.
type TransactionSeed struct {
	ID    int
	Phone string
	Store string
	Items []ItemSeed
}

// PromotionSeed is one flat promotion row; Email or Phone may be empty.
type PromotionSeed struct {
	ID        int
	Email     string
	Phone     string
	Promotion string
	Responded string
}

// TransferSeed is one flat transfer row.
type TransferSeed struct {
	SenderID    int
	RecipientID int
	Amount      float64
	Date        string
}

// Dataset contains the generated raw-source content before serialization.
type Dataset struct {
	People       []PersonSeed
	Transactions []TransactionSeed
	Promotions   []PromotionSeed
	Transfers    []TransferSeed
}

// Generator produces synthetic raw sources aligned with the ingestion
// pipeline's five input shapes.
type Generator struct {
	cfg       Config
	rand      *rand.Rand
	fragments nameFragments
}

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	def := DefaultConfig()
	if cfg.NumPeople <= 0 {
		cfg.NumPeople = def.NumPeople
	}
	if cfg.NumTransactions <= 0 {
		cfg.NumTransactions = def.NumTransactions
	}
	if cfg.NumPromotions <= 0 {
		cfg.NumPromotions = def.NumPromotions
	}
	if cfg.NumTransfers <= 0 {
		cfg.NumTransfers = def.NumTransfers
	}
	if cfg.BothSourcesChance <= 0 {
		cfg.BothSourcesChance = def.BothSourcesChance
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return &Generator{
		cfg:       cfg,
		rand:      rand.New(rand.NewSource(cfg.Seed)),
		fragments: defaultNameFragments(),
	}
}

// Generate synthesises the batch. It respects context cancellation.
func (g *Generator) Generate(ctx context.Context) (Dataset, error) {
	people := make([]PersonSeed, g.cfg.NumPeople)
	for i := 0; i < g.cfg.NumPeople; i++ {
		if err := ctx.Err(); err != nil {
			return Dataset{}, err
		}

		id := i + 1
		first := g.pick(g.fragments.first)
		last := g.pick(g.fragments.last)
		both := g.rand.Float64() < g.cfg.BothSourcesChance
		inJSON := both || g.rand.Intn(2) == 0
		inYAML := both || !inJSON

		people[i] = PersonSeed{
			ID:        id,
			FirstName: first,
			Surname:   last,
			Email:     fmt.Sprintf("%s.%s%d@%s", first, last, id, g.pick(g.fragments.domains)),
			Phone:     fmt.Sprintf("%03d-%03d-%04d", g.rand.Intn(900)+100, g.rand.Intn(900)+100, g.rand.Intn(10000)),
			City:      g.pick(g.fragments.cities),
			Country:   g.pick(g.fragments.countries),
			Devices:   g.randomDevices(),
			InJSON:    inJSON,
			InYAML:    inYAML,
		}
	}

	transactions := make([]TransactionSeed, g.cfg.NumTransactions)
	for i := 0; i < g.cfg.NumTransactions; i++ {
		if err := ctx.Err(); err != nil {
			return Dataset{}, err
		}

		phone := people[g.rand.Intn(len(people))].Phone
		if g.rand.Float64() < g.cfg.UnknownRefChance {
			phone = fmt.Sprintf("999-%03d-%04d", g.rand.Intn(900)+100, g.rand.Intn(10000))
		}

		itemCount := 1 + g.rand.Intn(3)
		items := make([]ItemSeed, itemCount)
		for j := range items {
			quantity := 1 + g.rand.Intn(5)
			unitPrice := float64(g.rand.Intn(9900)+100) / 100
			total := float64(quantity) * unitPrice
			if g.rand.Float64() < g.cfg.TotalMismatchChance {
				total += float64(g.rand.Intn(500)+100) / 100
			}
			items[j] = ItemSeed{
				Name:         g.pick(g.fragments.items),
				Quantity:     quantity,
				PricePerItem: unitPrice,
				Price:        total,
			}
		}

		transactions[i] = TransactionSeed{
			ID:    i + 1,
			Phone: phone,
			Store: g.pick(g.fragments.stores),
			Items: items,
		}
	}

	promotions := make([]PromotionSeed, g.cfg.NumPromotions)
	for i := 0; i < g.cfg.NumPromotions; i++ {
		person := people[g.rand.Intn(len(people))]
		promo := PromotionSeed{
			ID:        i + 1,
			Email:     person.Email,
			Phone:     person.Phone,
			Promotion: g.pick(g.fragments.promotions),
			Responded: g.pickResponse(),
		}
		// Drop one contact key so resolution has to fall back and
		// back-fill the other.
		switch g.rand.Intn(3) {
		case 0:
			promo.Email = ""
		case 1:
			promo.Phone = ""
		}
		promotions[i] = promo
	}

	transfers := make([]TransferSeed, g.cfg.NumTransfers)
	baseDate := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < g.cfg.NumTransfers; i++ {
		senderID := people[g.rand.Intn(len(people))].ID
		recipientID := people[g.rand.Intn(len(people))].ID
		if recipientID == senderID {
			recipientID = people[(recipientID)%len(people)].ID
		}
		if g.rand.Float64() < g.cfg.UnknownRefChance {
			senderID = g.cfg.NumPeople + 1 + g.rand.Intn(100)
		}

		transfers[i] = TransferSeed{
			SenderID:    senderID,
			RecipientID: recipientID,
			Amount:      float64(g.rand.Intn(99000)+1000) / 100,
			Date:        baseDate.AddDate(0, 0, g.rand.Intn(365)).Format(time.DateOnly),
		}
	}

	return Dataset{
		People:       people,
		Transactions: transactions,
		Promotions:   promotions,
		Transfers:    transfers,
	}, nil
}

func (g *Generator) pick(values []string) string {
	return values[g.rand.Intn(len(values))]
}

func (g *Generator) pickResponse() string {
	if g.rand.Intn(2) == 0 {
		return "Yes"
	}
	return "No"
}

func (g *Generator) randomDevices() []string {
	all := []string{"Android", "Iphone", "Desktop"}
	var devices []string
	for _, device := range all {
		if g.rand.Intn(2) == 0 {
			devices = append(devices, device)
		}
	}
	return devices
}

// dropContact reports whether a serialized contact field should be omitted.
func (g *Generator) dropContact() bool {
	return g.rand.Float64() < g.cfg.MissingContactChance
}

type nameFragments struct {
	first      []string
	last       []string
	domains    []string
	cities     []string
	countries  []string
	stores     []string
	items      []string
	promotions []string
}

func defaultNameFragments() nameFragments {
	return nameFragments{
		first:      []string{"Jane", "John", "Alex", "Priya", "Liu", "Maria", "Omar", "Sofia", "Noah", "Emma", "Lucas", "Mia", "Ava", "Ethan", "Zara"},
		last:       []string{"Doe", "Smith", "Chen", "Patel", "Garcia", "Khan", "Kim", "Ivanov", "Nguyen", "Silva", "Brown", "Lee"},
		domains:    []string{"example.com", "mail.com", "venmito.io", "payments.net", "securepay.org"},
		cities:     []string{"San Francisco", "New York", "Toronto", "London", "Berlin", "Madrid", "Lisbon", "Dublin", "Oslo"},
		countries:  []string{"USA", "Canada", "UK", "Germany", "Spain", "Portugal", "Ireland", "Norway"},
		stores:     []string{"CentralPerk", "BullsEyeMarket", "QuickStop", "MegaMall", "CornerShop", "FreshMart"},
		items:      []string{"Coffee 1lb", "Tea Sampler", "Notebook", "Water Bottle", "Granola Bar", "Headphones", "Phone Case", "Desk Lamp"},
		promotions: []string{"SpringCashback", "ReferralBonus", "HolidayDeal", "PremiumUpgrade", "WelcomeOffer"},
	}
}
