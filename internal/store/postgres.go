package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/utahdevs/utah-dev-events/internal/event"
)

// Postgres is the production Store backed by PostgreSQL via sqlx.
type Postgres struct {
	db *sqlx.DB
}

// NewPostgres connects to the database at dsn and verifies the connection.
func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return &Postgres{db: db}, nil
}

// Close releases the connection pool.
func (p *Postgres) Close() error {
	return p.db.Close()
}

// EnsureSchema creates the events and groups tables if they do not exist.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS groups (
		id           text PRIMARY KEY,
		name         text NOT NULL,
		status       text NOT NULL,
		tags         text[] NOT NULL DEFAULT '{}',
		meetup_link  text NOT NULL DEFAULT '',
		luma_link    text NOT NULL DEFAULT '',
		location     text NOT NULL DEFAULT '',
		website      text NOT NULL DEFAULT '',
		banner_image text NOT NULL DEFAULT '',
		created_at   timestamptz NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS events (
		id             text PRIMARY KEY,
		title          text NOT NULL,
		description    text NOT NULL DEFAULT '',
		event_date     text NOT NULL,
		start_time     text NOT NULL DEFAULT '',
		end_time       text NOT NULL DEFAULT '',
		location       text NOT NULL DEFAULT '',
		venue_name     text NOT NULL DEFAULT '',
		address_line_1 text NOT NULL DEFAULT '',
		address_line_2 text NOT NULL DEFAULT '',
		city           text NOT NULL DEFAULT '',
		state_province text NOT NULL DEFAULT '',
		postal_code    text NOT NULL DEFAULT '',
		country        text NOT NULL DEFAULT '',
		link           text NOT NULL DEFAULT '',
		image          text NOT NULL DEFAULT '',
		tags           text[] NOT NULL DEFAULT '{}',
		group_id       text REFERENCES groups(id),
		status         text NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS events_link_idx ON events (link) WHERE link <> '';
	CREATE INDEX IF NOT EXISTS events_date_idx ON events (event_date);
	`
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}

type eventRow struct {
	ID            string         `db:"id"`
	Title         string         `db:"title"`
	Description   string         `db:"description"`
	Date          string         `db:"event_date"`
	StartTime     string         `db:"start_time"`
	EndTime       string         `db:"end_time"`
	Location      string         `db:"location"`
	VenueName     string         `db:"venue_name"`
	AddressLine1  string         `db:"address_line_1"`
	AddressLine2  string         `db:"address_line_2"`
	City          string         `db:"city"`
	StateProvince string         `db:"state_province"`
	PostalCode    string         `db:"postal_code"`
	Country       string         `db:"country"`
	Link          string         `db:"link"`
	Image         string         `db:"image"`
	Tags          pq.StringArray `db:"tags"`
	GroupID       sql.NullString `db:"group_id"`
	Status        string         `db:"status"`
}

func toEventRow(evt *event.Event) eventRow {
	row := eventRow{
		ID:            evt.ID,
		Title:         evt.Title,
		Description:   evt.Description,
		Date:          evt.Date,
		StartTime:     evt.StartTime,
		EndTime:       evt.EndTime,
		Location:      evt.Location,
		VenueName:     evt.VenueName,
		AddressLine1:  evt.AddressLine1,
		AddressLine2:  evt.AddressLine2,
		City:          evt.City,
		StateProvince: evt.StateProvince,
		PostalCode:    evt.PostalCode,
		Country:       evt.Country,
		Link:          evt.Link,
		Image:         evt.Image,
		Tags:          pq.StringArray(evt.Tags),
		Status:        string(evt.Status),
	}
	if evt.GroupID != "" {
		row.GroupID = sql.NullString{String: evt.GroupID, Valid: true}
	}
	return row
}

func (r eventRow) toEvent() *event.Event {
	return &event.Event{
		ID:            r.ID,
		Title:         r.Title,
		Description:   r.Description,
		Date:          r.Date,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		Location:      r.Location,
		VenueName:     r.VenueName,
		AddressLine1:  r.AddressLine1,
		AddressLine2:  r.AddressLine2,
		City:          r.City,
		StateProvince: r.StateProvince,
		PostalCode:    r.PostalCode,
		Country:       r.Country,
		Link:          r.Link,
		Image:         r.Image,
		Tags:          []string(r.Tags),
		GroupID:       r.GroupID.String,
		Status:        event.Status(r.Status),
	}
}

const eventColumns = `id, title, description, event_date, start_time, end_time,
	location, venue_name, address_line_1, address_line_2, city,
	state_province, postal_code, country, link, image, tags, group_id, status`

// CreateEvent inserts the event under a fresh id and returns it.
func (p *Postgres) CreateEvent(ctx context.Context, evt *event.Event) (string, error) {
	row := toEventRow(evt)
	row.ID = uuid.NewString()

	const query = `
		INSERT INTO events (` + eventColumns + `)
		VALUES (:id, :title, :description, :event_date, :start_time, :end_time,
			:location, :venue_name, :address_line_1, :address_line_2, :city,
			:state_province, :postal_code, :country, :link, :image, :tags,
			:group_id, :status)
	`
	if _, err := p.db.NamedExecContext(ctx, query, row); err != nil {
		return "", fmt.Errorf("inserting event: %w", err)
	}
	return row.ID, nil
}

// UpdateEvent overwrites the row with the event's id. Link is never updated:
// it is the event's scrape identity.
func (p *Postgres) UpdateEvent(ctx context.Context, evt *event.Event) error {
	row := toEventRow(evt)

	const query = `
		UPDATE events SET
			title = :title, description = :description,
			event_date = :event_date, start_time = :start_time,
			end_time = :end_time, location = :location,
			venue_name = :venue_name, address_line_1 = :address_line_1,
			address_line_2 = :address_line_2, city = :city,
			state_province = :state_province, postal_code = :postal_code,
			country = :country, image = :image, tags = :tags,
			group_id = :group_id, status = :status
		WHERE id = :id
	`
	result, err := p.db.NamedExecContext(ctx, query, row)
	if err != nil {
		return fmt.Errorf("updating event: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating event: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("updating event %s: %w", evt.ID, ErrNotFound)
	}
	return nil
}

// GetEvent returns the event with the given id.
func (p *Postgres) GetEvent(ctx context.Context, id string) (*event.Event, error) {
	var row eventRow
	err := p.db.GetContext(ctx, &row, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting event: %w", err)
	}
	return row.toEvent(), nil
}

// GetEventByLink returns the event with the given link.
func (p *Postgres) GetEventByLink(ctx context.Context, link string) (*event.Event, error) {
	var row eventRow
	err := p.db.GetContext(ctx, &row, `SELECT `+eventColumns+` FROM events WHERE link = $1`, link)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting event by link: %w", err)
	}
	return row.toEvent(), nil
}

// ListEventsFrom returns events with date >= fromDate ordered by
// (date, start time).
func (p *Postgres) ListEventsFrom(ctx context.Context, fromDate string) ([]*event.Event, error) {
	var rows []eventRow
	err := p.db.SelectContext(ctx, &rows,
		`SELECT `+eventColumns+` FROM events WHERE event_date >= $1 ORDER BY event_date, start_time, id`,
		fromDate)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	out := make([]*event.Event, len(rows))
	for i, row := range rows {
		out[i] = row.toEvent()
	}
	return out, nil
}

// ListEventsOn returns events on the exact date ordered by start time.
func (p *Postgres) ListEventsOn(ctx context.Context, date string) ([]*event.Event, error) {
	var rows []eventRow
	err := p.db.SelectContext(ctx, &rows,
		`SELECT `+eventColumns+` FROM events WHERE event_date = $1 ORDER BY start_time, id`,
		date)
	if err != nil {
		return nil, fmt.Errorf("listing events by date: %w", err)
	}
	out := make([]*event.Event, len(rows))
	for i, row := range rows {
		out[i] = row.toEvent()
	}
	return out, nil
}

type groupRow struct {
	ID          string         `db:"id"`
	Name        string         `db:"name"`
	Status      string         `db:"status"`
	Tags        pq.StringArray `db:"tags"`
	MeetupLink  string         `db:"meetup_link"`
	LumaLink    string         `db:"luma_link"`
	Location    string         `db:"location"`
	Website     string         `db:"website"`
	BannerImage string         `db:"banner_image"`
	CreatedAt   time.Time      `db:"created_at"`
}

func (r groupRow) toGroup() *event.Group {
	return &event.Group{
		ID:          r.ID,
		Name:        r.Name,
		Status:      event.Status(r.Status),
		Tags:        []string(r.Tags),
		MeetupLink:  r.MeetupLink,
		LumaLink:    r.LumaLink,
		Location:    r.Location,
		Website:     r.Website,
		BannerImage: r.BannerImage,
		CreatedAt:   r.CreatedAt,
	}
}

const groupColumns = `id, name, status, tags, meetup_link, luma_link,
	location, website, banner_image, created_at`

// CreateGroup inserts the group under a fresh id and returns it.
func (p *Postgres) CreateGroup(ctx context.Context, group *event.Group) (string, error) {
	row := groupRow{
		ID:          uuid.NewString(),
		Name:        group.Name,
		Status:      string(group.Status),
		Tags:        pq.StringArray(group.Tags),
		MeetupLink:  group.MeetupLink,
		LumaLink:    group.LumaLink,
		Location:    group.Location,
		Website:     group.Website,
		BannerImage: group.BannerImage,
		CreatedAt:   group.CreatedAt,
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}

	const query = `
		INSERT INTO groups (` + groupColumns + `)
		VALUES (:id, :name, :status, :tags, :meetup_link, :luma_link,
			:location, :website, :banner_image, :created_at)
	`
	if _, err := p.db.NamedExecContext(ctx, query, row); err != nil {
		return "", fmt.Errorf("inserting group: %w", err)
	}
	return row.ID, nil
}

// GetGroup returns the group with the given id.
func (p *Postgres) GetGroup(ctx context.Context, id string) (*event.Group, error) {
	var row groupRow
	err := p.db.GetContext(ctx, &row, `SELECT `+groupColumns+` FROM groups WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting group: %w", err)
	}
	return row.toGroup(), nil
}

// GetGroupByName returns the group with the exact name.
func (p *Postgres) GetGroupByName(ctx context.Context, name string) (*event.Group, error) {
	var row groupRow
	err := p.db.GetContext(ctx, &row, `SELECT `+groupColumns+` FROM groups WHERE name = $1 ORDER BY created_at LIMIT 1`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting group by name: %w", err)
	}
	return row.toGroup(), nil
}

// ListGroups returns all groups ordered by creation time.
func (p *Postgres) ListGroups(ctx context.Context) ([]*event.Group, error) {
	var rows []groupRow
	err := p.db.SelectContext(ctx, &rows, `SELECT `+groupColumns+` FROM groups ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("listing groups: %w", err)
	}
	out := make([]*event.Group, len(rows))
	for i, row := range rows {
		out[i] = row.toGroup()
	}
	return out, nil
}

// MergeGroups reparents the duplicates' events onto keepID and deletes the
// duplicate groups in a single transaction, so the reparenting for a
// duplicate set completes before any deletion in that set.
func (p *Postgres) MergeGroups(ctx context.Context, keepID string, duplicateIDs []string) error {
	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting merge transaction: %w", err)
	}
	defer tx.Rollback()

	ids := pq.Array(duplicateIDs)
	if _, err := tx.ExecContext(ctx,
		`UPDATE events SET group_id = $1 WHERE group_id = ANY($2)`, keepID, ids); err != nil {
		return fmt.Errorf("reparenting events: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM groups WHERE id = ANY($1)`, ids); err != nil {
		return fmt.Errorf("deleting duplicate groups: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing merge: %w", err)
	}
	return nil
}
