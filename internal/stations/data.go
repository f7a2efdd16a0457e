package stations

import "station-walk-router/internal/models"

// Default returns the curated Kuala Lumpur city-centre station directory.
// Exit coordinates were traced by hand from satellite imagery; treat them as
// street-level accurate, not survey-grade.
func Default() *Directory {
	return NewDirectory(klStations)
}

var klStations = []models.Station{
	{
		Name:  "Muzium Negara MRT",
		Mode:  "mrt",
		Lines: []string{"Kajang Line"},
		Exits: []models.StationExit{
			{Name: "Entrance A", Coords: models.Coordinates{Lng: 101.6873, Lat: 3.1372}, Description: "National Museum, via underpass"},
			{Name: "Entrance B", Coords: models.Coordinates{Lng: 101.6868, Lat: 3.1366}, Description: "KL Sentral pedestrian link"},
		},
	},
	{
		Name:  "KL Sentral",
		Mode:  "lrt",
		Lines: []string{"Kelana Jaya Line", "KLIA Ekspres", "KTM Komuter"},
		Exits: []models.StationExit{
			{Name: "Main Concourse", Coords: models.Coordinates{Lng: 101.6864, Lat: 3.1344}, Description: "Stesen Sentral main hall"},
			{Name: "NU Sentral", Coords: models.Coordinates{Lng: 101.6857, Lat: 3.1337}, Description: "NU Sentral mall entrance"},
			{Name: "Jalan Tun Sambanthan", Coords: models.Coordinates{Lng: 101.6872, Lat: 3.1330}, Description: "Monorail side, Little India"},
		},
	},
	{
		Name:  "Pasar Seni MRT",
		Mode:  "mrt",
		Lines: []string{"Kajang Line", "Kelana Jaya Line"},
		Exits: []models.StationExit{
			{Name: "Entrance A", Coords: models.Coordinates{Lng: 101.6955, Lat: 3.1423}, Description: "Central Market"},
			{Name: "Entrance B", Coords: models.Coordinates{Lng: 101.6961, Lat: 3.1416}, Description: "Jalan Sultan, Chinatown"},
			{Name: "Entrance C", Coords: models.Coordinates{Lng: 101.6948, Lat: 3.1429}, Description: "Klang bus stand"},
		},
	},
	{
		Name:  "Masjid Jamek LRT",
		Mode:  "lrt",
		Lines: []string{"Kelana Jaya Line", "Ampang Line", "Sri Petaling Line"},
		Exits: []models.StationExit{
			{Name: "Entrance A", Coords: models.Coordinates{Lng: 101.6964, Lat: 3.1485}, Description: "Jamek Mosque, river confluence"},
			{Name: "Entrance B", Coords: models.Coordinates{Lng: 101.6971, Lat: 3.1490}, Description: "Jalan Tun Perak"},
		},
	},
	{
		Name:  "Merdeka MRT",
		Mode:  "mrt",
		Lines: []string{"Kajang Line", "Putrajaya Line"},
		Exits: []models.StationExit{
			{Name: "Entrance A", Coords: models.Coordinates{Lng: 101.7021, Lat: 3.1419}, Description: "Merdeka 118 tower"},
			{Name: "Entrance B", Coords: models.Coordinates{Lng: 101.7013, Lat: 3.1412}, Description: "Stadium Merdeka"},
		},
	},
	{
		Name:  "Bukit Bintang MRT",
		Mode:  "mrt",
		Lines: []string{"Kajang Line"},
		Exits: []models.StationExit{
			{Name: "Entrance A", Coords: models.Coordinates{Lng: 101.7108, Lat: 3.1461}, Description: "Jalan Bukit Bintang, Lot 10"},
			{Name: "Entrance B", Coords: models.Coordinates{Lng: 101.7115, Lat: 3.1455}, Description: "Jalan Sultan Ismail junction"},
			{Name: "Entrance C", Coords: models.Coordinates{Lng: 101.7122, Lat: 3.1466}, Description: "Pavilion KL, via underpass"},
		},
	},
	{
		Name:  "Bukit Bintang Monorail",
		Mode:  "monorail",
		Lines: []string{"KL Monorail"},
		Exits: []models.StationExit{
			{Name: "East Exit", Coords: models.Coordinates{Lng: 101.7119, Lat: 3.1452}, Description: "Sungei Wang Plaza"},
			{Name: "West Exit", Coords: models.Coordinates{Lng: 101.7111, Lat: 3.1449}, Description: "Jalan Bukit Bintang walkway"},
		},
	},
	{
		Name:  "Raja Chulan Monorail",
		Mode:  "monorail",
		Lines: []string{"KL Monorail"},
		Exits: []models.StationExit{
			{Name: "North Exit", Coords: models.Coordinates{Lng: 101.7103, Lat: 3.1508}, Description: "Jalan Raja Chulan"},
			{Name: "South Exit", Coords: models.Coordinates{Lng: 101.7100, Lat: 3.1501}, Description: "Pavilion elevated walkway"},
		},
	},
	{
		Name:  "Tun Razak Exchange MRT",
		Mode:  "mrt",
		Lines: []string{"Kajang Line", "Putrajaya Line"},
		Exits: []models.StationExit{
			{Name: "Entrance A", Coords: models.Coordinates{Lng: 101.7180, Lat: 3.1421}, Description: "TRX tower plaza"},
			{Name: "Entrance B", Coords: models.Coordinates{Lng: 101.7174, Lat: 3.1413}, Description: "The Exchange TRX mall"},
		},
	},
	{
		Name:  "KLCC LRT",
		Mode:  "lrt",
		Lines: []string{"Kelana Jaya Line"},
		Exits: []models.StationExit{
			{Name: "Avenue K", Coords: models.Coordinates{Lng: 101.7134, Lat: 3.1588}, Description: "Avenue K mall, Jalan Ampang"},
			{Name: "Suria KLCC", Coords: models.Coordinates{Lng: 101.7124, Lat: 3.1579}, Description: "Suria KLCC concourse"},
		},
	},
}
