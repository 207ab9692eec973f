package shared

const (
	UserID   = "user_id"
	UserRole = "user_role"

	RoleAdmin = "admin"

	AnonymousIdentifier = "anonymous"

	// Rate limited operations
	EndpointTextToSpeech = "text_to_speech"
	EndpointSendEmail    = "send_email"
	EndpointMapboxToken  = "mapbox_token"
	EndpointPlacesSearch = "places_search"
	EndpointEventScrape  = "event_scrape"
	EndpointPOIImport    = "poi_import"
	EndpointAPIGeneral   = "api_general"

	DefaultImportBatchSize = 50
	// MaxImportBatchSize keeps one bulk insert under the Postgres bind
	// parameter limit.
	MaxImportBatchSize = 1000
	DefaultDwellTimeMin    = 60
	DefaultCurrency        = "USD"
	DefaultRating          = 4.5
	DefaultCategoryIcon    = "📍"
	DefaultCityTimezone    = "UTC"
)
