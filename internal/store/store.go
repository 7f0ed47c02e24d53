// Package store persists created properties in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/imamik/rentwise/internal/property"
)

// DefaultPageSize is the number of properties per listing page.
const DefaultPageSize = 10

// ErrNotFound is returned when a property does not exist.
var ErrNotFound = errors.New("property not found")

// Status is a property's listing status.
type Status string

// Listing statuses. New properties start active.
const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusDraft    Status = "draft"
)

// ParseStatus accepts a status name, or "" / "all" for no filter.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(s) {
	case "", "all":
		return "", nil
	case string(StatusActive), string(StatusInactive), string(StatusDraft):
		return Status(strings.ToLower(s)), nil
	default:
		return "", fmt.Errorf("unknown status %q (want all, active, inactive or draft)", s)
	}
}

// PhotoRef is a stored photo belonging to a property.
type PhotoRef struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// Record is a persisted property.
type Record struct {
	ID        string         `json:"id"`
	OwnerID   string         `json:"ownerId,omitempty"`
	Status    Status         `json:"status"`
	Draft     property.Draft `json:"property"`
	Photos    []PhotoRef     `json:"photos"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Filter selects a page of properties.
type Filter struct {
	Query    string // case-insensitive match on name or address
	Status   Status // "" for all
	Page     int    // 1-based
	PageSize int
}

// Page is one page of a listing.
type Page struct {
	Items      []Record `json:"items"`
	Total      int      `json:"total"`
	Page       int      `json:"page"`
	PageSize   int      `json:"pageSize"`
	TotalPages int      `json:"totalPages"`
}

// Store is a SQLite-backed property repository.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS properties (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			street TEXT NOT NULL,
			city TEXT NOT NULL,
			state TEXT NOT NULL,
			zip TEXT NOT NULL,
			country TEXT NOT NULL,
			bedrooms INTEGER NOT NULL,
			bathrooms INTEGER NOT NULL,
			max_guests INTEGER NOT NULL,
			description TEXT NOT NULL,
			house_rules TEXT NOT NULL,
			base_rate REAL NOT NULL,
			cleaning_fee REAL NOT NULL,
			min_nights INTEGER NOT NULL,
			max_nights INTEGER,
			created_at TIMESTAMP NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS property_amenities (
			property_id TEXT NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
			amenity TEXT NOT NULL,
			PRIMARY KEY (property_id, amenity)
		);`,
		`CREATE TABLE IF NOT EXISTS property_photos (
			property_id TEXT NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			key TEXT NOT NULL,
			url TEXT NOT NULL,
			name TEXT NOT NULL,
			content_type TEXT NOT NULL,
			size INTEGER NOT NULL,
			PRIMARY KEY (property_id, position)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_properties_created ON properties(created_at DESC);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// CreateProperty inserts rec with its amenities and photos in one
// transaction. Status defaults to active and CreatedAt to now.
func (s *Store) CreateProperty(ctx context.Context, rec *Record) error {
	if rec.ID == "" {
		return errors.New("property id is required")
	}
	if rec.Status == "" {
		rec.Status = StatusActive
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	d := rec.Draft

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.ExecContext(ctx, `INSERT INTO properties (
			id, owner_id, status, name, type, street, city, state, zip, country,
			bedrooms, bathrooms, max_guests, description, house_rules,
			base_rate, cleaning_fee, min_nights, max_nights, created_at
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		rec.ID, rec.OwnerID, string(rec.Status), d.Name, string(d.Type),
		d.Street, d.City, d.State, d.Zip, d.Country,
		intOrZero(d.Bedrooms), intOrZero(d.Bathrooms), intOrZero(d.MaxGuests),
		d.Description, d.HouseRules,
		floatOrZero(d.BaseRate), d.CleaningFee, d.MinNights, nullInt(d.MaxNights),
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert property: %w", err)
	}

	for _, id := range d.Amenities.IDs() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO property_amenities (property_id, amenity) VALUES (?, ?)`, rec.ID, id); err != nil {
			return fmt.Errorf("failed to insert amenity %s: %w", id, err)
		}
	}

	for i, p := range rec.Photos {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO property_photos (property_id, position, key, url, name, content_type, size)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, i, p.Key, p.URL, p.Name, p.ContentType, p.Size); err != nil {
			return fmt.Errorf("failed to insert photo %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit property: %w", err)
	}
	return nil
}

const selectColumns = `id, owner_id, status, name, type, street, city, state, zip, country,
	bedrooms, bathrooms, max_guests, description, house_rules,
	base_rate, cleaning_fee, min_nights, max_nights, created_at`

// GetProperty returns the property with id, or ErrNotFound.
func (s *Store) GetProperty(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM properties WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get property %s: %w", id, err)
	}
	if err := s.loadChildren(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// ListProperties returns one page of properties, newest first.
func (s *Store) ListProperties(ctx context.Context, f Filter) (*Page, error) {
	if f.PageSize <= 0 {
		f.PageSize = DefaultPageSize
	}
	if f.Page < 1 {
		f.Page = 1
	}

	where, args := f.where()

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM properties`+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count properties: %w", err)
	}

	page := &Page{
		Items:      []Record{},
		Total:      total,
		Page:       f.Page,
		PageSize:   f.PageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(f.PageSize))),
	}
	if total == 0 {
		return page, nil
	}

	query := `SELECT ` + selectColumns + ` FROM properties` + where +
		` ORDER BY created_at DESC, id LIMIT ? OFFSET ?`
	rows, err := s.db.QueryContext(ctx, query, append(args, f.PageSize, (f.Page-1)*f.PageSize)...)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		page.Items = append(page.Items, *rec)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	rows.Close()

	for i := range page.Items {
		if err := s.loadChildren(ctx, &page.Items[i]); err != nil {
			return nil, err
		}
	}
	return page, nil
}

// SetStatus changes a property's listing status.
func (s *Store) SetStatus(ctx context.Context, id string, status Status) error {
	res, err := s.db.ExecContext(ctx, `UPDATE properties SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update status of %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update status of %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func (f Filter) where() (string, []interface{}) {
	var (
		clauses []string
		args    []interface{}
	)
	if q := strings.TrimSpace(f.Query); q != "" {
		pattern := "%" + escapeLike(strings.ToLower(q)) + "%"
		clauses = append(clauses, `(lower(name) LIKE ? ESCAPE '\' OR lower(street || ', ' || city || ', ' || state || ' ' || zip || ', ' || country) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}
	if f.Status != "" {
		clauses = append(clauses, `status = ?`)
		args = append(args, string(f.Status))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(sc scanner) (*Record, error) {
	var (
		rec                            Record
		status, typ                    string
		bedrooms, bathrooms, maxGuests int
		baseRate                       float64
		maxNights                      sql.NullInt64
	)
	d := &rec.Draft
	err := sc.Scan(
		&rec.ID, &rec.OwnerID, &status, &d.Name, &typ,
		&d.Street, &d.City, &d.State, &d.Zip, &d.Country,
		&bedrooms, &bathrooms, &maxGuests, &d.Description, &d.HouseRules,
		&baseRate, &d.CleaningFee, &d.MinNights, &maxNights, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.Status = Status(status)
	d.Type = property.Type(typ)
	d.Bedrooms = property.Int(bedrooms)
	d.Bathrooms = property.Int(bathrooms)
	d.MaxGuests = property.Int(maxGuests)
	d.BaseRate = property.Float(baseRate)
	if maxNights.Valid {
		d.MaxNights = property.Int(int(maxNights.Int64))
	}
	d.Amenities = property.AmenitySet{}
	return &rec, nil
}

func (s *Store) loadChildren(ctx context.Context, rec *Record) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT amenity FROM property_amenities WHERE property_id = ?`, rec.ID)
	if err != nil {
		return fmt.Errorf("failed to load amenities: %w", err)
	}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan amenity: %w", err)
		}
		rec.Draft.Amenities[id] = struct{}{}
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx,
		`SELECT key, url, name, content_type, size FROM property_photos
		 WHERE property_id = ? ORDER BY position`, rec.ID)
	if err != nil {
		return fmt.Errorf("failed to load photos: %w", err)
	}
	defer rows.Close()
	rec.Photos = []PhotoRef{}
	for rows.Next() {
		var p PhotoRef
		if err := rows.Scan(&p.Key, &p.URL, &p.Name, &p.ContentType, &p.Size); err != nil {
			return fmt.Errorf("failed to scan photo: %w", err)
		}
		rec.Photos = append(rec.Photos, p)
	}
	return rows.Err()
}

func intOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func floatOrZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}
