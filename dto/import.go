package dto

// ImportSourceRow is one raw point-of-interest record from a CSV dataset.
// DwellTimeMin of zero means the source row did not provide one.
type ImportSourceRow struct {
	Country          string  `json:"country"`
	Region           string  `json:"region"`
	City             string  `json:"city"`
	Neighborhood     string  `json:"neighborhood"`
	Name             string  `json:"name"`
	Category         string  `json:"category"`
	InterestTags     string  `json:"interest_tags"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	Address          string  `json:"address"`
	TicketURL        string  `json:"ticket_url,omitempty"`
	ImageURL         string  `json:"image_url,omitempty"`
	DescriptionShort string  `json:"description_short,omitempty"`
	DwellTimeMin     int     `json:"dwell_time_min,omitempty"`
}

type ImportRowsRequest struct {
	Country string            `json:"country" validate:"required,max=255"`
	Rows    []ImportSourceRow `json:"rows" validate:"required,min=1,max=10000"`
}

func (r ImportRowsRequest) Validate() error {
	return validate.Struct(r)
}

type ImportObjectRequest struct {
	ObjectKey string `json:"object_key" validate:"required,max=1024"`
	Country   string `json:"country" validate:"required,max=255"`
}

func (r ImportObjectRequest) Validate() error {
	return validate.Struct(r)
}

type ImportSummary struct {
	Country           string   `json:"country"`
	TotalRows         int      `json:"total_rows"`
	ImportedRows      int      `json:"imported_rows"`
	SkippedRows       int      `json:"skipped_rows"`
	Batches           int      `json:"batches"`
	CitiesCreated     int      `json:"cities_created"`
	CategoriesCreated int      `json:"categories_created"`
	Errors            []string `json:"errors,omitempty"`
	ArchiveKey        string   `json:"archive_key,omitempty"`
}
