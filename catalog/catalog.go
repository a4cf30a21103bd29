// Package catalog holds the race identity store. Races are created and
// updated only by slug upsert, never deleted.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/uptrace/bun"

	"github.com/artlurun/api/models"
)

// ErrNotFound means no race exists for the given slug or id.
var ErrNotFound = errors.New("race not found")

// Catalog provides race storage on top of bun.
type Catalog struct {
	db *bun.DB
}

// New creates a Catalog backed by the given database.
func New(db *bun.DB) *Catalog {
	return &Catalog{db: db}
}

// RaceFields is the upsert payload. Pointer fields distinguish "absent" from
// "set to zero": on update, only non-nil fields are written, so a caller can
// patch a single field without clobbering the rest.
type RaceFields struct {
	Slug             string          `json:"slug"`
	Name             *string         `json:"name"`
	Distance         *string         `json:"distance"`
	DistanceMiles    *float64        `json:"distanceMiles"`
	ElevationGain    *string         `json:"elevationGain"`
	ElevationGainFt  *int            `json:"elevationGainFt"`
	Location         *string         `json:"location"`
	State            *string         `json:"state"`
	Country          *string         `json:"country"`
	Description      *string         `json:"description"`
	Month            *string         `json:"month"`
	CutoffTime       *string         `json:"cutoffTime"`
	Difficulty       *string         `json:"difficulty"`
	ImageURL         *string         `json:"imageUrl"`
	TrainingLocation *string         `json:"trainingLocation"`
	Content          json.RawMessage `json:"content"`
	ElevationProfile json.RawMessage `json:"elevationProfile"`
}

// BySlug returns a single race by its URL slug.
func (c *Catalog) BySlug(ctx context.Context, slug string) (*models.Race, error) {
	race := &models.Race{}
	err := c.db.NewSelect().Model(race).
		Where("slug = ?", slug).
		Scan(ctx)
	return found(race, err)
}

// ByID returns a single race by its numeric id.
func (c *Catalog) ByID(ctx context.Context, id int) (*models.Race, error) {
	race := &models.Race{}
	err := c.db.NewSelect().Model(race).
		Where("r.id = ?", id).
		Scan(ctx)
	return found(race, err)
}

// All returns every race ordered by name.
func (c *Catalog) All(ctx context.Context) ([]models.Race, error) {
	var races []models.Race
	err := c.db.NewSelect().Model(&races).
		OrderExpr("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return races, nil
}

// Sections returns the course breakdown for a race, ordered by section number.
func (c *Catalog) Sections(ctx context.Context, raceID int) ([]models.RaceSection, error) {
	var sections []models.RaceSection
	err := c.db.NewSelect().Model(&sections).
		Where("race_id = ?", raceID).
		OrderExpr("section_number ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return sections, nil
}

// SaveContent overwrites the race's free content bundle, matched by slug.
// Content can only be attached to a race that already exists.
func (c *Catalog) SaveContent(ctx context.Context, slug string, doc json.RawMessage) error {
	res, err := c.db.NewUpdate().
		Model((*models.Race)(nil)).
		Set("content = ?", string(doc)).
		Where("slug = ?", slug).
		Exec(ctx)
	return updated(res, err)
}

// SaveElevationProfile stores a derived elevation profile and the distance and
// gain stats that came out of the same track log, and flags gpx availability.
func (c *Catalog) SaveElevationProfile(ctx context.Context, slug string, profile json.RawMessage, distanceMiles float64, gainFt int) error {
	res, err := c.db.NewUpdate().
		Model((*models.Race)(nil)).
		Set("elevation_profile = ?", string(profile)).
		Set("distance_miles = ?", distanceMiles).
		Set("elevation_gain_ft = ?", gainFt).
		Set("gpx_available = true").
		Where("slug = ?", slug).
		Exec(ctx)
	return updated(res, err)
}

// Upsert creates or updates a race keyed by slug and returns the race id.
// Existing rows are patched field by field; new rows get defaults for any
// omitted display fields.
func (c *Catalog) Upsert(ctx context.Context, f RaceFields) (int, error) {
	var id int
	err := c.db.NewSelect().
		Model((*models.Race)(nil)).
		Column("id").
		Where("slug = ?", f.Slug).
		Scan(ctx, &id)
	switch {
	case err == nil:
		return id, c.patch(ctx, f)
	case errors.Is(err, sql.ErrNoRows):
		return c.insert(ctx, f)
	default:
		return 0, err
	}
}

type setClause struct {
	column string
	value  interface{}
}

// setClauses lists the column writes this payload implies. Absent fields
// produce no clause, so a single-field patch touches a single column; a field
// explicitly set to its zero value is still written.
func (f RaceFields) setClauses() []setClause {
	var out []setClause
	add := func(col string, v interface{}) {
		out = append(out, setClause{column: col, value: v})
	}
	if f.Name != nil {
		add("name", *f.Name)
	}
	if f.Distance != nil {
		add("distance", *f.Distance)
	}
	if f.DistanceMiles != nil {
		add("distance_miles", *f.DistanceMiles)
	}
	if f.ElevationGain != nil {
		add("elevation_gain", *f.ElevationGain)
	}
	if f.ElevationGainFt != nil {
		add("elevation_gain_ft", *f.ElevationGainFt)
	}
	if f.Location != nil {
		add("location", *f.Location)
	}
	if f.State != nil {
		add("state", *f.State)
	}
	if f.Country != nil {
		add("country", *f.Country)
	}
	if f.Description != nil {
		add("description", *f.Description)
	}
	if f.Month != nil {
		add("month", *f.Month)
	}
	if f.CutoffTime != nil {
		add("cutoff_time", *f.CutoffTime)
	}
	if f.Difficulty != nil {
		add("difficulty", *f.Difficulty)
	}
	if f.ImageURL != nil {
		add("image_url", *f.ImageURL)
	}
	if f.TrainingLocation != nil {
		add("training_location", *f.TrainingLocation)
	}
	if len(f.Content) > 0 {
		add("content", string(f.Content))
	}
	if len(f.ElevationProfile) > 0 {
		add("elevation_profile", string(f.ElevationProfile))
	}
	return out
}

func (c *Catalog) patch(ctx context.Context, f RaceFields) error {
	clauses := f.setClauses()
	if len(clauses) == 0 {
		return nil
	}

	q := c.db.NewUpdate().
		Model((*models.Race)(nil)).
		Where("slug = ?", f.Slug)
	for _, sc := range clauses {
		q = q.Set(sc.column+" = ?", sc.value)
	}

	_, err := q.Exec(ctx)
	return err
}

func (c *Catalog) insert(ctx context.Context, f RaceFields) (int, error) {
	race := &models.Race{
		Slug:             f.Slug,
		Name:             orDefault(f.Name, f.Slug),
		Distance:         orDefault(f.Distance, "100 miles"),
		DistanceMiles:    f.DistanceMiles,
		ElevationGain:    f.ElevationGain,
		ElevationGainFt:  f.ElevationGainFt,
		Location:         f.Location,
		State:            f.State,
		Country:          orDefault(f.Country, "USA"),
		Description:      f.Description,
		Month:            f.Month,
		CutoffTime:       f.CutoffTime,
		Difficulty:       orDefault(f.Difficulty, "Hard"),
		ImageURL:         f.ImageURL,
		TrainingLocation: f.TrainingLocation,
		Content:          f.Content,
		ElevationProfile: f.ElevationProfile,
	}

	if _, err := c.db.NewInsert().Model(race).Exec(ctx); err != nil {
		return 0, err
	}
	return race.ID, nil
}

// CreateRequest records a user-submitted race request.
func (c *Catalog) CreateRequest(ctx context.Context, req *models.RaceRequest) error {
	_, err := c.db.NewInsert().Model(req).Exec(ctx)
	return err
}

func found(race *models.Race, err error) (*models.Race, error) {
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return race, nil
}

func updated(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func orDefault(v *string, def string) string {
	if v == nil || *v == "" {
		return def
	}
	return *v
}
