package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shawnadoherty9/travelogie-sub001/dto"
	"github.com/shawnadoherty9/travelogie-sub001/model"
	"github.com/shawnadoherty9/travelogie-sub001/shared"
	log "github.com/sirupsen/logrus"
)

// ImportStore is the persistence the importer needs. CreateCity and
// CreateCategory must return the existing row when the name is already taken.
type ImportStore interface {
	FindCityByName(ctx context.Context, name string) (*model.City, error)
	CreateCity(ctx context.Context, name, country string) (*model.City, error)
	FindCategoryByName(ctx context.Context, name string) (*model.Category, error)
	CreateCategory(ctx context.Context, name, icon string) (*model.Category, error)
	BulkInsertPointsOfInterest(ctx context.Context, records []model.PointOfInterest) error
}

var categoryIcons = map[string]string{
	"temple":        "🛕",
	"religious":     "🛕",
	"museum":        "🏛️",
	"history":       "🏯",
	"culture":       "🎭",
	"art":           "🎨",
	"food":          "🍜",
	"restaurant":    "🍽️",
	"cafe":          "☕",
	"market":        "🛍️",
	"shopping":      "🛍️",
	"nature":        "🌿",
	"park":          "🌳",
	"beach":         "🏖️",
	"viewpoint":     "🌄",
	"nightlife":     "🌙",
	"music":         "🎵",
	"tour":          "🧭",
	"entertainment": "🎡",
}

// CategoryIcon maps a category name to its icon, falling back to a pin.
func CategoryIcon(name string) string {
	if icon, ok := categoryIcons[strings.ToLower(strings.TrimSpace(name))]; ok {
		return icon
	}
	return shared.DefaultCategoryIcon
}

// TransformRow builds the point of interest for a source row. City and
// category references are resolved separately.
func TransformRow(row dto.ImportSourceRow) (model.PointOfInterest, error) {
	name := strings.TrimSpace(row.Name)
	if name == "" {
		return model.PointOfInterest{}, errors.New("missing name")
	}
	if math.IsNaN(row.Latitude) || row.Latitude < -90 || row.Latitude > 90 {
		return model.PointOfInterest{}, fmt.Errorf("latitude %v out of range", row.Latitude)
	}
	if math.IsNaN(row.Longitude) || row.Longitude < -180 || row.Longitude > 180 {
		return model.PointOfInterest{}, fmt.Errorf("longitude %v out of range", row.Longitude)
	}

	tags := model.StringArray{}
	for _, tag := range strings.Split(row.InterestTags, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}

	imageURLs := model.StringArray{}
	if url := strings.TrimSpace(row.ImageURL); url != "" {
		imageURLs = append(imageURLs, url)
	}

	dwell := row.DwellTimeMin
	if dwell <= 0 {
		dwell = shared.DefaultDwellTimeMin
	}
	durationHours := dwell / 60
	if durationHours < 1 {
		durationHours = 1
	}

	address := strings.TrimSpace(row.Address)
	if address == "" {
		address = fmt.Sprintf("%s, %s", row.Neighborhood, row.City)
	}

	description := row.DescriptionShort
	if description == "" {
		description = fmt.Sprintf("%s in %s", name, address)
	}

	return model.PointOfInterest{
		Name:             name,
		ShortDescription: row.DescriptionShort,
		Description:      description,
		PriceFrom:        0,
		DurationHours:    durationHours,
		Rating:           shared.DefaultRating,
		ReviewCount:      0,
		ImageURLs:        imageURLs,
		Tags:             tags,
		Currency:         shared.DefaultCurrency,
		Address:          address,
		Region:           row.Region,
		Neighborhood:     row.Neighborhood,
		TicketURL:        row.TicketURL,
		Latitude:         row.Latitude,
		Longitude:        row.Longitude,
		IsActive:         true,
	}, nil
}

type ImporterOpts struct {
	BatchSize int
	Logger    *log.Logger
}

// Importer turns source rows into points of interest and writes them in
// fixed size batches. It does not deduplicate against existing rows, so
// importing the same dataset twice creates duplicates.
type Importer struct {
	store     ImportStore
	batchSize int
	logger    *log.Logger
}

// ClampBatchSize returns size bounded to [1, MaxImportBatchSize], using the
// default for non-positive values.
func ClampBatchSize(size int) int {
	if size <= 0 {
		return shared.DefaultImportBatchSize
	}
	if size > shared.MaxImportBatchSize {
		return shared.MaxImportBatchSize
	}
	return size
}

func NewImporter(store ImportStore, opts *ImporterOpts) *Importer {
	im := &Importer{
		store:     store,
		batchSize: shared.DefaultImportBatchSize,
		logger:    log.StandardLogger(),
	}
	if opts != nil {
		im.batchSize = ClampBatchSize(opts.BatchSize)
		if opts.Logger != nil {
			im.logger = opts.Logger
		}
	}
	return im
}

// importRun holds the state of one ImportRows call. The memo maps are never
// shared between runs; an empty id records a failed resolution.
type importRun struct {
	country    string
	cities     map[string]string
	categories map[string]string
	batch      []model.PointOfInterest
	summary    *dto.ImportSummary
}

// ImportRows processes rows in order. A row that fails to transform is
// logged and skipped. A failed bulk insert aborts the run and is returned
// together with the summary of what was written before it.
func (im *Importer) ImportRows(ctx context.Context, rows []dto.ImportSourceRow, country string) (*dto.ImportSummary, error) {
	run := &importRun{
		country:    country,
		cities:     make(map[string]string),
		categories: make(map[string]string),
		batch:      make([]model.PointOfInterest, 0, im.batchSize),
		summary: &dto.ImportSummary{
			Country:   country,
			TotalRows: len(rows),
		},
	}

	for i, row := range rows {
		poi, err := TransformRow(row)
		if err != nil {
			im.skipRow(run, i, row, err)
			continue
		}

		poi.CityID = im.resolveCity(ctx, run, strings.TrimSpace(row.City))
		poi.CategoryID = im.resolveCategory(ctx, run, strings.TrimSpace(row.Category))

		run.batch = append(run.batch, poi)
		if len(run.batch) >= im.batchSize {
			if err := im.flush(ctx, run); err != nil {
				return run.summary, err
			}
			if err := ctx.Err(); err != nil {
				return run.summary, fmt.Errorf("import cancelled after %d rows: %w", i+1, err)
			}
		}
	}

	if err := im.flush(ctx, run); err != nil {
		return run.summary, err
	}

	importRowsTotal.WithLabelValues("imported").Add(float64(run.summary.ImportedRows))
	importRowsTotal.WithLabelValues("skipped").Add(float64(run.summary.SkippedRows))

	im.logger.WithFields(log.Fields{
		"country":  country,
		"total":    run.summary.TotalRows,
		"imported": run.summary.ImportedRows,
		"skipped":  run.summary.SkippedRows,
		"batches":  run.summary.Batches,
	}).Info("POI import completed")

	return run.summary, nil
}

func (im *Importer) skipRow(run *importRun, index int, row dto.ImportSourceRow, err error) {
	run.summary.SkippedRows++
	run.summary.Errors = append(run.summary.Errors, fmt.Sprintf("row %d (%s): %v", index+1, row.Name, err))

	im.logger.WithFields(log.Fields{
		"row":  index + 1,
		"name": row.Name,
	}).WithError(err).Warn("Skipping POI row")
}

func (im *Importer) flush(ctx context.Context, run *importRun) error {
	if len(run.batch) == 0 {
		return nil
	}

	if err := im.store.BulkInsertPointsOfInterest(ctx, run.batch); err != nil {
		importBatchesTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("bulk insert of %d points of interest: %w", len(run.batch), err)
	}

	importBatchesTotal.WithLabelValues("ok").Inc()
	run.summary.Batches++
	run.summary.ImportedRows += len(run.batch)
	run.batch = make([]model.PointOfInterest, 0, im.batchSize)
	return nil
}

func (im *Importer) resolveCity(ctx context.Context, run *importRun, name string) *string {
	if name == "" {
		return nil
	}
	if id, ok := run.cities[name]; ok {
		return optionalID(id)
	}

	id := ""
	city, err := im.store.FindCityByName(ctx, name)
	if err == nil && city == nil {
		city, err = im.store.CreateCity(ctx, name, run.country)
		if err == nil {
			run.summary.CitiesCreated++
		}
	}
	if err != nil {
		im.logger.WithField("city", name).WithError(err).Error("Failed to resolve city")
	} else if city != nil {
		id = city.ID
	}

	run.cities[name] = id
	return optionalID(id)
}

func (im *Importer) resolveCategory(ctx context.Context, run *importRun, name string) *string {
	if name == "" {
		return nil
	}
	if id, ok := run.categories[name]; ok {
		return optionalID(id)
	}

	id := ""
	category, err := im.store.FindCategoryByName(ctx, name)
	if err == nil && category == nil {
		category, err = im.store.CreateCategory(ctx, name, CategoryIcon(name))
		if err == nil {
			run.summary.CategoriesCreated++
		}
	}
	if err != nil {
		im.logger.WithField("category", name).WithError(err).Error("Failed to resolve category")
	} else if category != nil {
		id = category.ID
	}

	run.categories[name] = id
	return optionalID(id)
}

func optionalID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}
