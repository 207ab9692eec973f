package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	appcontext "github.com/alphabatem/common/context"
	"github.com/google/uuid"
	"github.com/shawnadoherty9/travelogie-sub001/dto"
	"github.com/shawnadoherty9/travelogie-sub001/services/repositories"
	"github.com/shawnadoherty9/travelogie-sub001/shared"
	log "github.com/sirupsen/logrus"
)

// ImportService exposes the POI importer to the HTTP layer. Posted CSV
// bodies are archived to dataset storage when it is enabled.
type ImportService struct {
	appcontext.DefaultService

	dbSvc    DatabaseService
	minioSvc *MinIOService

	batchSize int
	importer  *Importer
}

const IMPORT_SVC = "import_svc"

func (svc ImportService) Id() string {
	return IMPORT_SVC
}

func (svc *ImportService) Configure(ctx *appcontext.Context) error {
	svc.batchSize = shared.GetEnvInt("IMPORT_BATCH_SIZE", shared.DefaultImportBatchSize)
	if clamped := ClampBatchSize(svc.batchSize); clamped != svc.batchSize {
		log.WithFields(log.Fields{
			"requested": svc.batchSize,
			"using":     clamped,
		}).Warn("IMPORT_BATCH_SIZE out of range")
		svc.batchSize = clamped
	}
	return svc.DefaultService.Configure(ctx)
}

func (svc *ImportService) Start() error {
	svc.dbSvc = svc.Service(DATABASE_SVC).(DatabaseService)
	if minioSvc, ok := svc.Service(MINIO_SVC).(*MinIOService); ok {
		svc.minioSvc = minioSvc
	}

	svc.importer = NewImporter(repositories.NewPlaceRepository(svc.dbSvc.Db()), &ImporterOpts{
		BatchSize: svc.batchSize,
	})
	return nil
}

// ImportRows imports already structured rows.
func (svc *ImportService) ImportRows(ctx context.Context, rows []dto.ImportSourceRow, country string) (*dto.ImportSummary, error) {
	return svc.importRows(ctx, rows, country, "")
}

// importRows runs the importer and stamps archiveKey on the summary, which a
// failed run returns as the error data.
func (svc *ImportService) importRows(ctx context.Context, rows []dto.ImportSourceRow, country, archiveKey string) (*dto.ImportSummary, error) {
	summary, err := svc.importer.ImportRows(ctx, rows, country)
	if summary != nil {
		summary.ArchiveKey = archiveKey
	}
	if err != nil {
		return nil, shared.NewAppError(http.StatusInternalServerError, err, "Import failed", summary)
	}
	return summary, nil
}

// ImportCSV parses and imports a CSV dataset.
func (svc *ImportService) ImportCSV(ctx context.Context, text, country string) (*dto.ImportSummary, error) {
	if strings.TrimSpace(text) == "" {
		return nil, shared.NewBadRequestError(nil, "CSV body is empty")
	}

	archiveKey := svc.archive(ctx, text, country)

	return svc.importRows(ctx, ParseCSV(text), country, archiveKey)
}

// ImportObject imports a CSV dataset already stored under objectKey.
func (svc *ImportService) ImportObject(ctx context.Context, objectKey, country string) (*dto.ImportSummary, error) {
	if svc.minioSvc == nil || !svc.minioSvc.Enabled() {
		return nil, shared.NewServiceUnavailableError(nil, "Dataset storage is not configured")
	}

	text, err := svc.minioSvc.GetObjectText(ctx, objectKey)
	if err != nil {
		return nil, shared.NewNotFoundError(err, fmt.Sprintf("Dataset %s could not be read", objectKey))
	}

	return svc.importRows(ctx, ParseCSV(text), country, objectKey)
}

// archive stores the posted dataset; a failure only costs the archive copy.
func (svc *ImportService) archive(ctx context.Context, text, country string) string {
	if svc.minioSvc == nil || !svc.minioSvc.Enabled() {
		return ""
	}

	key := ArchiveKey(country, time.Now().UTC())
	if _, err := svc.minioSvc.PutText(ctx, key, text, "text/csv"); err != nil {
		log.WithField("key", key).WithError(err).Warn("Failed to archive POI dataset")
		return ""
	}
	return key
}

// ArchiveKey names an archived upload: imports/<country>/<date>/<uuid>.csv.
func ArchiveKey(country string, now time.Time) string {
	slug := strings.ToLower(strings.Join(strings.Fields(country), "-"))
	if slug == "" {
		slug = "unknown"
	}
	return fmt.Sprintf("imports/%s/%s/%s.csv", slug, now.Format("2006-01-02"), uuid.NewString())
}
