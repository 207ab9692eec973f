package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = "Country,Region,City,Neighborhood,Name,Category,Interest_Tags,Latitude,Longitude,Address,Ticket_URL,Image_URL,Description_Short,Dwell_Time_Min\r\n" +
	"Japan,Kansai,Kyoto,Higashiyama,\"Kiyomizu-dera\",temple,\"history\",34.9949,135.7850,1-294 Kiyomizu,https://tickets.example/kiyomizu,https://img.example/k.jpg,Wooden stage temple,90\r\n" +
	"\r\n" +
	"Japan,Kansai,Kyoto,Nakagyo,Nishiki Market,food,street food,abc,,,,,,\n"

func TestParseCSV(t *testing.T) {
	rows := ParseCSV(sampleCSV)
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, "Japan", first.Country)
	assert.Equal(t, "Kansai", first.Region)
	assert.Equal(t, "Kyoto", first.City)
	assert.Equal(t, "Higashiyama", first.Neighborhood)
	assert.Equal(t, "Kiyomizu-dera", first.Name)
	assert.Equal(t, "temple", first.Category)
	assert.Equal(t, "history", first.InterestTags)
	assert.Equal(t, 34.9949, first.Latitude)
	assert.Equal(t, 135.7850, first.Longitude)
	assert.Equal(t, "1-294 Kiyomizu", first.Address)
	assert.Equal(t, "https://tickets.example/kiyomizu", first.TicketURL)
	assert.Equal(t, "https://img.example/k.jpg", first.ImageURL)
	assert.Equal(t, "Wooden stage temple", first.DescriptionShort)
	assert.Equal(t, 90, first.DwellTimeMin)

	second := rows[1]
	assert.Equal(t, "Nishiki Market", second.Name)
	assert.Zero(t, second.Latitude)
	assert.Zero(t, second.Longitude)
	assert.Equal(t, 60, second.DwellTimeMin)
	assert.Empty(t, second.Address)
}

func TestParseCSV_NumericDefaults(t *testing.T) {
	rows := ParseCSV("name,latitude,longitude,dwell_time_min\nA,north,,soon\nB,1.5,-2.25,45")
	require.Len(t, rows, 2)

	assert.Zero(t, rows[0].Latitude)
	assert.Zero(t, rows[0].Longitude)
	assert.Equal(t, 60, rows[0].DwellTimeMin)

	assert.Equal(t, 1.5, rows[1].Latitude)
	assert.Equal(t, -2.25, rows[1].Longitude)
	assert.Equal(t, 45, rows[1].DwellTimeMin)
}

func TestParseCSV_ShortRowsAndMissingColumns(t *testing.T) {
	rows := ParseCSV("name,city,category\nOnly Name\n")
	require.Len(t, rows, 1)
	assert.Equal(t, "Only Name", rows[0].Name)
	assert.Empty(t, rows[0].City)
	assert.Empty(t, rows[0].Category)
	assert.Equal(t, 60, rows[0].DwellTimeMin)
}

func TestParseCSV_QuotedCommaSplitsField(t *testing.T) {
	rows := ParseCSV("name,city\n\"Tokyo, Tower\",Tokyo\n")
	require.Len(t, rows, 1)
	assert.Equal(t, "Tokyo", rows[0].Name)
	assert.Equal(t, "Tower", rows[0].City)
}

func TestParseCSV_HeaderOnly(t *testing.T) {
	assert.Empty(t, ParseCSV("name,city\n"))
	assert.Empty(t, ParseCSV(""))
}

func TestParseCSV_SingleRowRoundTrip(t *testing.T) {
	rows := ParseCSV("name,latitude,longitude,dwell_time_min\nTemple,13.75,100.50,90")
	require.Len(t, rows, 1)

	assert.Equal(t, "Temple", rows[0].Name)
	assert.Equal(t, 13.75, rows[0].Latitude)
	assert.Equal(t, 100.50, rows[0].Longitude)
	assert.Equal(t, 90, rows[0].DwellTimeMin)

	rows = ParseCSV("name,latitude,longitude,dwell_time_min\nTemple,abc,100.50,90")
	require.Len(t, rows, 1)
	assert.Zero(t, rows[0].Latitude)
	assert.Equal(t, 100.50, rows[0].Longitude)
}
