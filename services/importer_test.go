package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/shawnadoherty9/travelogie-sub001/dto"
	"github.com/shawnadoherty9/travelogie-sub001/model"
	"github.com/shawnadoherty9/travelogie-sub001/shared"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeImportStore struct {
	mu sync.Mutex

	cities     map[string]*model.City
	categories map[string]*model.Category

	findCityCalls     map[string]int
	findCategoryCalls map[string]int
	createdCountries  []string
	createdIcons      map[string]string
	batches           [][]model.PointOfInterest

	findCityErr       error
	createCityErr     error
	createCategoryErr error
	insertErrAt       int
}

func newFakeImportStore() *fakeImportStore {
	return &fakeImportStore{
		cities:            make(map[string]*model.City),
		categories:        make(map[string]*model.Category),
		findCityCalls:     make(map[string]int),
		findCategoryCalls: make(map[string]int),
		createdIcons:      make(map[string]string),
		insertErrAt:       -1,
	}
}

func (s *fakeImportStore) FindCityByName(_ context.Context, name string) (*model.City, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.findCityCalls[name]++
	if s.findCityErr != nil {
		return nil, s.findCityErr
	}
	return s.cities[name], nil
}

func (s *fakeImportStore) CreateCity(_ context.Context, name, country string) (*model.City, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createCityErr != nil {
		return nil, s.createCityErr
	}
	city := &model.City{ID: "city-" + name, Name: name, Country: country}
	s.cities[name] = city
	s.createdCountries = append(s.createdCountries, country)
	return city, nil
}

func (s *fakeImportStore) FindCategoryByName(_ context.Context, name string) (*model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.findCategoryCalls[name]++
	return s.categories[name], nil
}

func (s *fakeImportStore) CreateCategory(_ context.Context, name, icon string) (*model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createCategoryErr != nil {
		return nil, s.createCategoryErr
	}
	category := &model.Category{ID: "cat-" + name, Name: name, Icon: icon}
	s.categories[name] = category
	s.createdIcons[name] = icon
	return category, nil
}

func (s *fakeImportStore) BulkInsertPointsOfInterest(_ context.Context, records []model.PointOfInterest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErrAt == len(s.batches) {
		return errors.New("insert failed")
	}
	batch := make([]model.PointOfInterest, len(records))
	copy(batch, records)
	s.batches = append(s.batches, batch)
	return nil
}

func (s *fakeImportStore) batchSizes() []int {
	sizes := make([]int, 0, len(s.batches))
	for _, b := range s.batches {
		sizes = append(sizes, len(b))
	}
	return sizes
}

func newTestImporter(store ImportStore, batchSize int) (*Importer, *test.Hook) {
	logger, hook := test.NewNullLogger()
	return NewImporter(store, &ImporterOpts{BatchSize: batchSize, Logger: logger}), hook
}

func sourceRows(n int, city, category string) []dto.ImportSourceRow {
	rows := make([]dto.ImportSourceRow, n)
	for i := range rows {
		rows[i] = dto.ImportSourceRow{
			Name:     fmt.Sprintf("Place %d", i+1),
			City:     city,
			Category: category,
		}
	}
	return rows
}

func TestTransformRow(t *testing.T) {
	row := dto.ImportSourceRow{
		Region:           "Kansai",
		City:             "Kyoto",
		Neighborhood:     "Gion",
		Name:             " Yasaka Shrine ",
		Category:         "temple",
		InterestTags:     " history, ,culture ,",
		Latitude:         35.0037,
		Longitude:        135.7785,
		TicketURL:        "https://t.example",
		ImageURL:         "https://img.example/y.jpg",
		DescriptionShort: "Shrine in Gion",
		DwellTimeMin:     150,
	}

	poi, err := TransformRow(row)
	require.NoError(t, err)

	assert.Equal(t, "Yasaka Shrine", poi.Name)
	assert.Equal(t, model.StringArray{"history", "culture"}, poi.Tags)
	assert.Equal(t, model.StringArray{"https://img.example/y.jpg"}, poi.ImageURLs)
	assert.Equal(t, 2, poi.DurationHours)
	assert.Equal(t, "Gion, Kyoto", poi.Address)
	assert.Equal(t, "Shrine in Gion", poi.ShortDescription)
	assert.Equal(t, "Shrine in Gion", poi.Description)
	assert.Equal(t, 4.5, poi.Rating)
	assert.Zero(t, poi.ReviewCount)
	assert.Zero(t, poi.PriceFrom)
	assert.Equal(t, "USD", poi.Currency)
	assert.True(t, poi.IsActive)
	assert.Equal(t, "Kansai", poi.Region)
	assert.Equal(t, "https://t.example", poi.TicketURL)
	assert.Nil(t, poi.CityID)
	assert.Nil(t, poi.CategoryID)
}

func TestTransformRow_Defaults(t *testing.T) {
	poi, err := TransformRow(dto.ImportSourceRow{Name: "Lookout", Address: "1 Hill Rd"})
	require.NoError(t, err)

	assert.Equal(t, 1, poi.DurationHours)
	assert.Empty(t, poi.Tags)
	assert.NotNil(t, poi.Tags)
	assert.Empty(t, poi.ImageURLs)
	assert.Equal(t, "1 Hill Rd", poi.Address)
	assert.NotEmpty(t, poi.Description)

	short, err := TransformRow(dto.ImportSourceRow{Name: "Quick stop", DwellTimeMin: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, short.DurationHours)

	long, err := TransformRow(dto.ImportSourceRow{Name: "Day trip", DwellTimeMin: 480})
	require.NoError(t, err)
	assert.Equal(t, 8, long.DurationHours)
}

func TestTransformRow_TagsAndDuration(t *testing.T) {
	poi, err := TransformRow(dto.ImportSourceRow{Name: "Night market", InterestTags: "culture, food ,art", DwellTimeMin: 185})
	require.NoError(t, err)
	assert.Equal(t, model.StringArray{"culture", "food", "art"}, poi.Tags)
	assert.Equal(t, 3, poi.DurationHours)

	parsed := ParseCSV("name,dwell_time_min\nNight market,\n")
	require.Len(t, parsed, 1)
	poi, err = TransformRow(parsed[0])
	require.NoError(t, err)
	assert.Equal(t, 1, poi.DurationHours)
}

func TestTransformRow_Rejects(t *testing.T) {
	_, err := TransformRow(dto.ImportSourceRow{Name: "  "})
	assert.Error(t, err)

	_, err = TransformRow(dto.ImportSourceRow{Name: "X", Latitude: 91})
	assert.Error(t, err)

	_, err = TransformRow(dto.ImportSourceRow{Name: "X", Longitude: -181})
	assert.Error(t, err)
}

func TestCategoryIcon(t *testing.T) {
	assert.Equal(t, "🛕", CategoryIcon("Temple"))
	assert.Equal(t, "🍜", CategoryIcon(" food "))
	assert.Equal(t, "📍", CategoryIcon("unknown"))
}

func TestImporter_BatchesOfFifty(t *testing.T) {
	store := newFakeImportStore()
	importer, _ := newTestImporter(store, 0)

	summary, err := importer.ImportRows(context.Background(), sourceRows(123, "Lima", "food"), "Peru")
	require.NoError(t, err)

	assert.Equal(t, []int{50, 50, 23}, store.batchSizes())
	assert.Equal(t, 123, summary.TotalRows)
	assert.Equal(t, 123, summary.ImportedRows)
	assert.Equal(t, 3, summary.Batches)
	assert.Zero(t, summary.SkippedRows)
}

func TestImporter_ExactMultipleHasNoEmptyBatch(t *testing.T) {
	store := newFakeImportStore()
	importer, _ := newTestImporter(store, 10)

	_, err := importer.ImportRows(context.Background(), sourceRows(20, "", ""), "Peru")
	require.NoError(t, err)
	assert.Equal(t, []int{10, 10}, store.batchSizes())

	empty := newFakeImportStore()
	importer, _ = newTestImporter(empty, 10)
	summary, err := importer.ImportRows(context.Background(), nil, "Peru")
	require.NoError(t, err)
	assert.Empty(t, empty.batches)
	assert.Zero(t, summary.Batches)
}

func TestImporter_ResolvesEachNameOnce(t *testing.T) {
	store := newFakeImportStore()
	store.cities["Cusco"] = &model.City{ID: "existing-cusco", Name: "Cusco"}
	importer, _ := newTestImporter(store, 50)

	rows := append(sourceRows(4, "Lima", "food"), sourceRows(3, "Cusco", "history")...)
	rows = append(rows, sourceRows(3, "Lima", "temple")...)

	summary, err := importer.ImportRows(context.Background(), rows, "Peru")
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"Lima": 1, "Cusco": 1}, store.findCityCalls)
	assert.Equal(t, map[string]int{"food": 1, "history": 1, "temple": 1}, store.findCategoryCalls)
	assert.Equal(t, []string{"Peru"}, store.createdCountries)
	assert.Equal(t, 1, summary.CitiesCreated)
	assert.Equal(t, 3, summary.CategoriesCreated)
	assert.Equal(t, "🛕", store.createdIcons["temple"])

	require.Len(t, store.batches, 1)
	batch := store.batches[0]
	require.NotNil(t, batch[0].CityID)
	assert.Equal(t, "city-Lima", *batch[0].CityID)
	require.NotNil(t, batch[4].CityID)
	assert.Equal(t, "existing-cusco", *batch[4].CityID)
	require.NotNil(t, batch[9].CategoryID)
	assert.Equal(t, "cat-temple", *batch[9].CategoryID)
}

func TestImporter_MemoDoesNotLeakAcrossRuns(t *testing.T) {
	store := newFakeImportStore()
	importer, _ := newTestImporter(store, 50)

	_, err := importer.ImportRows(context.Background(), sourceRows(2, "Lima", ""), "Peru")
	require.NoError(t, err)
	_, err = importer.ImportRows(context.Background(), sourceRows(2, "Lima", ""), "Peru")
	require.NoError(t, err)

	assert.Equal(t, 2, store.findCityCalls["Lima"])
	assert.Len(t, store.createdCountries, 1)
}

func TestImporter_EmptyNamesGetNoReference(t *testing.T) {
	store := newFakeImportStore()
	importer, _ := newTestImporter(store, 50)

	_, err := importer.ImportRows(context.Background(), sourceRows(2, "", ""), "Peru")
	require.NoError(t, err)

	assert.Empty(t, store.findCityCalls)
	assert.Empty(t, store.findCategoryCalls)
	assert.Nil(t, store.batches[0][0].CityID)
	assert.Nil(t, store.batches[0][0].CategoryID)
}

func TestImporter_LookupFailureLeavesReferenceEmpty(t *testing.T) {
	store := newFakeImportStore()
	store.findCityErr = errors.New("db down")
	importer, hook := newTestImporter(store, 50)

	summary, err := importer.ImportRows(context.Background(), sourceRows(3, "Lima", "food"), "Peru")
	require.NoError(t, err)

	assert.Equal(t, 3, summary.ImportedRows)
	assert.Equal(t, 1, store.findCityCalls["Lima"])
	for _, poi := range store.batches[0] {
		assert.Nil(t, poi.CityID)
		assert.NotNil(t, poi.CategoryID)
	}

	var logged bool
	for _, entry := range hook.AllEntries() {
		if entry.Level == log.ErrorLevel && entry.Data["city"] == "Lima" {
			logged = true
		}
	}
	assert.True(t, logged)
}

func TestImporter_SkipsFailingRows(t *testing.T) {
	store := newFakeImportStore()
	importer, hook := newTestImporter(store, 50)

	rows := sourceRows(10, "Lima", "food")
	rows[3].Latitude = 120
	rows[7].Name = ""

	summary, err := importer.ImportRows(context.Background(), rows, "Peru")
	require.NoError(t, err)

	assert.Equal(t, 8, summary.ImportedRows)
	assert.Equal(t, 2, summary.SkippedRows)
	assert.Len(t, summary.Errors, 2)
	require.Len(t, store.batches, 1)
	assert.Len(t, store.batches[0], 8)

	var skipped []interface{}
	for _, entry := range hook.AllEntries() {
		if entry.Level == log.WarnLevel {
			skipped = append(skipped, entry.Data["name"])
		}
	}
	assert.Equal(t, []interface{}{"Place 4", ""}, skipped)
}

func TestImporter_BulkInsertFailureAborts(t *testing.T) {
	store := newFakeImportStore()
	store.insertErrAt = 1
	importer, _ := newTestImporter(store, 50)

	summary, err := importer.ImportRows(context.Background(), sourceRows(123, "Lima", "food"), "Peru")
	require.Error(t, err)

	assert.Equal(t, []int{50}, store.batchSizes())
	require.NotNil(t, summary)
	assert.Equal(t, 50, summary.ImportedRows)
	assert.Equal(t, 1, summary.Batches)
}

func TestImporter_StopsBetweenBatchesWhenCancelled(t *testing.T) {
	store := newFakeImportStore()
	importer, _ := newTestImporter(store, 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := importer.ImportRows(ctx, sourceRows(25, "", ""), "Peru")
	require.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, []int{10}, store.batchSizes())
	assert.Equal(t, 10, summary.ImportedRows)
}

func TestImporter_ReferenceWriteFailureKeepsRows(t *testing.T) {
	store := newFakeImportStore()
	store.createCityErr = errors.New("city insert failed")
	store.createCategoryErr = errors.New("category insert failed")
	importer, hook := newTestImporter(store, 50)

	summary, err := importer.ImportRows(context.Background(), sourceRows(3, "Bangkok", "temple"), "Thailand")
	require.NoError(t, err)

	assert.Equal(t, 3, summary.ImportedRows)
	assert.Zero(t, summary.CitiesCreated)
	assert.Zero(t, summary.CategoriesCreated)
	assert.Empty(t, store.createdCountries)

	require.Len(t, store.batches, 1)
	for _, poi := range store.batches[0] {
		assert.Nil(t, poi.CityID)
		assert.Nil(t, poi.CategoryID)
	}

	assert.Equal(t, 1, store.findCityCalls["Bangkok"])
	assert.Equal(t, 1, store.findCategoryCalls["temple"])

	var cityLogged, categoryLogged bool
	for _, entry := range hook.AllEntries() {
		if entry.Level != log.ErrorLevel {
			continue
		}
		if entry.Data["city"] == "Bangkok" && entry.Data[log.ErrorKey] == store.createCityErr {
			cityLogged = true
		}
		if entry.Data["category"] == "temple" && entry.Data[log.ErrorKey] == store.createCategoryErr {
			categoryLogged = true
		}
	}
	assert.True(t, cityLogged)
	assert.True(t, categoryLogged)
}

func TestClampBatchSize(t *testing.T) {
	assert.Equal(t, shared.DefaultImportBatchSize, ClampBatchSize(0))
	assert.Equal(t, shared.DefaultImportBatchSize, ClampBatchSize(-3))
	assert.Equal(t, 200, ClampBatchSize(200))
	assert.Equal(t, shared.MaxImportBatchSize, ClampBatchSize(shared.MaxImportBatchSize))
	assert.Equal(t, shared.MaxImportBatchSize, ClampBatchSize(5000))
}

func TestImporter_OversizedBatchIsClamped(t *testing.T) {
	store := newFakeImportStore()
	importer, _ := newTestImporter(store, 5000)

	_, err := importer.ImportRows(context.Background(), sourceRows(2500, "", ""), "Peru")
	require.NoError(t, err)
	assert.Equal(t, []int{1000, 1000, 500}, store.batchSizes())
}
