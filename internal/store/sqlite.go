package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vanshika/venmito/backend/internal/domain"
)

const sqliteDateLayout = "2006-01-02"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS people (
	id INTEGER PRIMARY KEY,
	email TEXT,
	phone TEXT,
	first_name TEXT NOT NULL,
	surname TEXT NOT NULL,
	city TEXT,
	country TEXT,
	android INTEGER NOT NULL DEFAULT 0,
	iphone INTEGER NOT NULL DEFAULT 0,
	desktop INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS promotions (
	id INTEGER PRIMARY KEY,
	client_email TEXT,
	phone TEXT,
	promotion TEXT NOT NULL,
	responded TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS transactions (
	rowid_alias INTEGER PRIMARY KEY AUTOINCREMENT,
	transaction_id INTEGER NOT NULL,
	customer_id INTEGER,
	phone TEXT NOT NULL,
	store TEXT NOT NULL,
	item_name TEXT NOT NULL,
	quantity INTEGER NOT NULL,
	price_per_item REAL NOT NULL,
	total_price REAL NOT NULL
);
CREATE TABLE IF NOT EXISTS transfers (
	transfer_id INTEGER PRIMARY KEY,
	sender_id INTEGER NOT NULL,
	recipient_id INTEGER NOT NULL,
	amount REAL NOT NULL,
	date TEXT NOT NULL
);
`

// SQLiteStore persists the dataset in a SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if necessary) the database at path and ensures
// the schema exists.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// modernc.org/sqlite serializes writes itself; a single connection
	// avoids SQLITE_BUSY during the replace transaction.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// ReplaceDataset installs the run's rows inside one transaction: every table
// is cleared and refilled, so a failed run leaves the previous contents
// intact.
func (s *SQLiteStore) ReplaceDataset(ctx context.Context, ds domain.Dataset) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"people", "promotions", "transactions", "transfers"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear table %s: %w", table, err)
		}
	}

	for _, p := range ds.People {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO people (id, email, phone, first_name, surname, city, country, android, iphone, desktop)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, optText(p.Email), optText(p.Phone), p.FirstName, p.Surname,
			optText(p.City), optText(p.Country), boolInt(p.Android), boolInt(p.IPhone), boolInt(p.Desktop))
		if err != nil {
			return fmt.Errorf("insert person %d: %w", p.ID, err)
		}
	}

	for _, promo := range ds.Promotions {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO promotions (id, client_email, phone, promotion, responded)
			 VALUES (?, ?, ?, ?, ?)`,
			promo.ID, optText(promo.ClientEmail), optText(promo.Phone), promo.Promotion, string(promo.Responded))
		if err != nil {
			return fmt.Errorf("insert promotion %d: %w", promo.ID, err)
		}
	}

	for _, item := range ds.Transactions {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO transactions (transaction_id, customer_id, phone, store, item_name, quantity, price_per_item, total_price)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			item.TransactionID, optInt(item.CustomerID), item.Phone, item.Store,
			item.ItemName, item.Quantity, item.PricePerItem, item.TotalPrice)
		if err != nil {
			return fmt.Errorf("insert transaction line item %d: %w", item.TransactionID, err)
		}
	}

	for _, transfer := range ds.Transfers {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO transfers (transfer_id, sender_id, recipient_id, amount, date)
			 VALUES (?, ?, ?, ?, ?)`,
			transfer.TransferID, transfer.SenderID, transfer.RecipientID,
			transfer.Amount, transfer.Date.Format(sqliteDateLayout))
		if err != nil {
			return fmt.Errorf("insert transfer %d: %w", transfer.TransferID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace transaction: %w", err)
	}
	return nil
}

// ListPeople returns people matching the filter.
func (s *SQLiteStore) ListPeople(ctx context.Context, filter PersonFilter) ([]domain.Person, error) {
	query := `SELECT id, email, phone, first_name, surname, city, country, android, iphone, desktop FROM people`
	var clauses []string
	var args []any

	addLike(&clauses, &args, "first_name", filter.FirstName)
	addLike(&clauses, &args, "surname", filter.Surname)
	addLike(&clauses, &args, "city", filter.City)
	addLike(&clauses, &args, "country", filter.Country)
	for _, device := range filter.Devices {
		switch strings.ToLower(strings.TrimSpace(device)) {
		case "android":
			clauses = append(clauses, "android = 1")
		case "iphone":
			clauses = append(clauses, "iphone = 1")
		case "desktop":
			clauses = append(clauses, "desktop = 1")
		}
	}
	query += whereClause(clauses) + " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	defer rows.Close()

	var results []domain.Person
	for rows.Next() {
		var (
			p                        domain.Person
			email, phone             sql.NullString
			city, country            sql.NullString
			android, iphone, desktop int
		)
		if err := rows.Scan(&p.ID, &email, &phone, &p.FirstName, &p.Surname, &city, &country, &android, &iphone, &desktop); err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		p.Email = nullText(email)
		p.Phone = nullText(phone)
		p.City = nullText(city)
		p.Country = nullText(country)
		p.Android = android != 0
		p.IPhone = iphone != 0
		p.Desktop = desktop != 0
		results = append(results, p)
	}
	return results, rows.Err()
}

// ListPromotions returns promotions matching the filter.
func (s *SQLiteStore) ListPromotions(ctx context.Context, filter PromotionFilter) ([]domain.Promotion, error) {
	query := `SELECT id, client_email, phone, promotion, responded FROM promotions`
	var clauses []string
	var args []any

	addLike(&clauses, &args, "promotion", filter.Promotion)
	addLike(&clauses, &args, "client_email", filter.Email)
	if len(filter.Responded) > 0 {
		placeholders := make([]string, len(filter.Responded))
		for i, response := range filter.Responded {
			placeholders[i] = "?"
			args = append(args, string(response))
		}
		clauses = append(clauses, "responded IN ("+strings.Join(placeholders, ", ")+")")
	}
	query += whereClause(clauses) + " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list promotions: %w", err)
	}
	defer rows.Close()

	var results []domain.Promotion
	for rows.Next() {
		var (
			promo        domain.Promotion
			email, phone sql.NullString
			responded    string
		)
		if err := rows.Scan(&promo.ID, &email, &phone, &promo.Promotion, &responded); err != nil {
			return nil, fmt.Errorf("scan promotion: %w", err)
		}
		promo.ClientEmail = nullText(email)
		promo.Phone = nullText(phone)
		promo.Responded = domain.Response(responded)
		results = append(results, promo)
	}
	return results, rows.Err()
}

// ListTransactions returns transaction line items matching the filter.
func (s *SQLiteStore) ListTransactions(ctx context.Context, filter TransactionFilter) ([]domain.TransactionLineItem, error) {
	query := `SELECT transaction_id, customer_id, phone, store, item_name, quantity, price_per_item, total_price FROM transactions`
	var clauses []string
	var args []any

	if filter.TransactionID != nil {
		clauses = append(clauses, "transaction_id = ?")
		args = append(args, *filter.TransactionID)
	}
	if filter.CustomerID != nil {
		clauses = append(clauses, "customer_id = ?")
		args = append(args, *filter.CustomerID)
	}
	addLike(&clauses, &args, "store", filter.Store)
	addLike(&clauses, &args, "item_name", filter.ItemName)
	query += whereClause(clauses) + " ORDER BY rowid_alias"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var results []domain.TransactionLineItem
	for rows.Next() {
		var (
			item       domain.TransactionLineItem
			customerID sql.NullInt64
		)
		if err := rows.Scan(&item.TransactionID, &customerID, &item.Phone, &item.Store,
			&item.ItemName, &item.Quantity, &item.PricePerItem, &item.TotalPrice); err != nil {
			return nil, fmt.Errorf("scan transaction line item: %w", err)
		}
		item.CustomerID = nullInt(customerID)
		results = append(results, item)
	}
	return results, rows.Err()
}

// ListTransfers returns transfers matching the filter.
func (s *SQLiteStore) ListTransfers(ctx context.Context, filter TransferFilter) ([]domain.Transfer, error) {
	query := `SELECT transfer_id, sender_id, recipient_id, amount, date FROM transfers`
	var clauses []string
	var args []any

	if filter.SenderID != nil {
		clauses = append(clauses, "sender_id = ?")
		args = append(args, *filter.SenderID)
	}
	if filter.RecipientID != nil {
		clauses = append(clauses, "recipient_id = ?")
		args = append(args, *filter.RecipientID)
	}
	if filter.DateAfter != nil {
		clauses = append(clauses, "date >= ?")
		args = append(args, filter.DateAfter.Format(sqliteDateLayout))
	}
	if filter.DateBefore != nil {
		clauses = append(clauses, "date <= ?")
		args = append(args, filter.DateBefore.Format(sqliteDateLayout))
	}
	query += whereClause(clauses) + " ORDER BY transfer_id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()

	var results []domain.Transfer
	for rows.Next() {
		var (
			transfer domain.Transfer
			rawDate  string
		)
		if err := rows.Scan(&transfer.TransferID, &transfer.SenderID, &transfer.RecipientID, &transfer.Amount, &rawDate); err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		date, err := time.Parse(sqliteDateLayout, rawDate)
		if err != nil {
			return nil, fmt.Errorf("parse transfer date %q: %w", rawDate, err)
		}
		transfer.Date = date
		results = append(results, transfer)
	}
	return results, rows.Err()
}

// SpendByCountry sums transaction totals per customer country.
func (s *SQLiteStore) SpendByCountry(ctx context.Context) ([]CountrySpend, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT people.country, SUM(transactions.total_price) AS total_spent
		FROM transactions
		JOIN people ON transactions.customer_id = people.id
		WHERE people.country IS NOT NULL
		GROUP BY people.country
		ORDER BY total_spent DESC, people.country`)
	if err != nil {
		return nil, fmt.Errorf("spend by country: %w", err)
	}
	defer rows.Close()

	var results []CountrySpend
	for rows.Next() {
		var entry CountrySpend
		if err := rows.Scan(&entry.Country, &entry.TotalSpent); err != nil {
			return nil, fmt.Errorf("scan country spend: %w", err)
		}
		results = append(results, entry)
	}
	return results, rows.Err()
}

// PromotionResponseStats counts response states per promotion name.
func (s *SQLiteStore) PromotionResponseStats(ctx context.Context) ([]PromotionResponseStat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT promotion,
			SUM(CASE WHEN responded = 'Yes' THEN 1 ELSE 0 END),
			SUM(CASE WHEN responded = 'No' THEN 1 ELSE 0 END),
			SUM(CASE WHEN responded NOT IN ('Yes', 'No') THEN 1 ELSE 0 END)
		FROM promotions
		GROUP BY promotion
		ORDER BY promotion`)
	if err != nil {
		return nil, fmt.Errorf("promotion response stats: %w", err)
	}
	defer rows.Close()

	var results []PromotionResponseStat
	for rows.Next() {
		var stat PromotionResponseStat
		if err := rows.Scan(&stat.Promotion, &stat.Yes, &stat.No, &stat.Unknown); err != nil {
			return nil, fmt.Errorf("scan promotion stat: %w", err)
		}
		results = append(results, stat)
	}
	return results, rows.Err()
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close(context.Context) error {
	return s.db.Close()
}

func addLike(clauses *[]string, args *[]any, column, filter string) {
	if filter == "" {
		return
	}
	*clauses = append(*clauses, "LOWER("+column+") LIKE ?")
	*args = append(*args, "%"+strings.ToLower(filter)+"%")
}

func whereClause(clauses []string) string {
	if len(clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(clauses, " AND ")
}

func optText(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func optInt(n *int) any {
	if n == nil {
		return nil
	}
	return *n
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullText(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
