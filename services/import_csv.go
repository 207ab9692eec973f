package services

import (
	"strconv"
	"strings"

	"github.com/shawnadoherty9/travelogie-sub001/dto"
	"github.com/shawnadoherty9/travelogie-sub001/shared"
)

// ParseCSV splits a POI dataset into rows. The first line is the header.
// Fields are split on every comma, so quoted fields cannot contain commas;
// double quotes are simply removed. Coordinates that do not parse become 0
// and an unparseable dwell time becomes 60.
func ParseCSV(text string) []dto.ImportSourceRow {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if len(lines) == 0 {
		return nil
	}

	header := splitCSVLine(lines[0])
	for i, name := range header {
		header[i] = strings.ToLower(name)
	}

	var rows []dto.ImportSourceRow
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}

		values := splitCSVLine(line)
		fields := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(values) {
				fields[name] = values[i]
			}
		}

		rows = append(rows, dto.ImportSourceRow{
			Country:          fields["country"],
			Region:           fields["region"],
			City:             fields["city"],
			Neighborhood:     fields["neighborhood"],
			Name:             fields["name"],
			Category:         fields["category"],
			InterestTags:     fields["interest_tags"],
			Latitude:         parseFloatOrDefault(fields["latitude"], 0),
			Longitude:        parseFloatOrDefault(fields["longitude"], 0),
			Address:          fields["address"],
			TicketURL:        fields["ticket_url"],
			ImageURL:         fields["image_url"],
			DescriptionShort: fields["description_short"],
			DwellTimeMin:     parseIntOrDefault(fields["dwell_time_min"], shared.DefaultDwellTimeMin),
		})
	}

	return rows
}

func splitCSVLine(line string) []string {
	parts := strings.Split(line, ",")
	for i, part := range parts {
		parts[i] = strings.TrimSpace(strings.ReplaceAll(part, `"`, ""))
	}
	return parts
}

func parseFloatOrDefault(value string, def float64) float64 {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return v
}

func parseIntOrDefault(value string, def int) int {
	v, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return v
}
