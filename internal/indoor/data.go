package indoor

import "station-walk-router/internal/models"

// Default returns the curated Kuala Lumpur indoor-walkway catalog.
func Default() *Catalog {
	return NewCatalog(klConnections)
}

var klConnections = []models.IndoorConnection{
	{
		Name:           "Muzium Negara underpass to National Museum",
		From:           "Muzium Negara MRT Entrance A",
		To:             "Muzium Negara",
		FromCoords:     models.Coordinates{Lng: 101.6873, Lat: 3.1372},
		ToCoords:       models.Coordinates{Lng: 101.6878, Lat: 3.1375},
		DistanceMeters: 220,
		DurationSecs:   300,
		Category:       models.CategoryUnderground,
		Features:       []string{"air-conditioned", "wheelchair-accessible"},
		Instructions:   "Take the escalator down at Entrance A and follow the underpass signed Muzium Negara. The museum steps are directly ahead at the far end.",
		Bidirectional:  true,
	},
	{
		Name:           "KL Sentral to NU Sentral mall",
		From:           "KL Sentral Main Concourse",
		To:             "NU Sentral",
		FromCoords:     models.Coordinates{Lng: 101.6864, Lat: 3.1344},
		ToCoords:       models.Coordinates{Lng: 101.6856, Lat: 3.1336},
		DistanceMeters: 180,
		DurationSecs:   210,
		Category:       models.CategoryMall,
		Features:       []string{"air-conditioned", "wheelchair-accessible", "escalators"},
		Instructions:   "From the main concourse follow the NU Sentral signage past the KTM gates; the mall link bridge is on level 1.",
		Bidirectional:  true,
	},
	{
		Name:           "Bukit Bintang underpass to Pavilion KL",
		From:           "Bukit Bintang MRT Entrance C",
		To:             "Pavilion KL",
		FromCoords:     models.Coordinates{Lng: 101.7122, Lat: 3.1466},
		ToCoords:       models.Coordinates{Lng: 101.7129, Lat: 3.1473},
		DistanceMeters: 190,
		DurationSecs:   240,
		Category:       models.CategoryUnderground,
		Features:       []string{"air-conditioned", "wheelchair-accessible"},
		Instructions:   "Exit the fare gates toward Entrance C and keep left into the Pavilion underpass. Lifts to the mall concourse are at the end.",
		Bidirectional:  true,
	},
	{
		Name:           "Bukit Bintang walkway to Sungei Wang",
		From:           "Bukit Bintang Monorail East Exit",
		To:             "Sungei Wang Plaza",
		FromCoords:     models.Coordinates{Lng: 101.7119, Lat: 3.1452},
		ToCoords:       models.Coordinates{Lng: 101.7125, Lat: 3.1447},
		DistanceMeters: 90,
		DurationSecs:   120,
		Category:       models.CategoryCoveredWalkway,
		Features:       []string{"covered", "escalators"},
		Instructions:   "The covered walkway runs from the monorail platform level straight into Sungei Wang level 2.",
		Bidirectional:  true,
	},
	{
		Name:           "Pavilion skybridge to KLCC",
		From:           "Raja Chulan Monorail South Exit",
		To:             "Suria KLCC",
		FromCoords:     models.Coordinates{Lng: 101.7100, Lat: 3.1501},
		ToCoords:       models.Coordinates{Lng: 101.7124, Lat: 3.1579},
		DistanceMeters: 1100,
		DurationSecs:   840,
		Category:       models.CategorySkybridge,
		Features:       []string{"air-conditioned", "wheelchair-accessible", "covered"},
		Instructions:   "Join the elevated walkway at the Raja Chulan end and follow it over Jalan Perak all the way to the Suria KLCC entrance. Open 06:00 to 23:00.",
		Bidirectional:  true,
	},
	{
		Name:           "TRX mall link to exchange plaza",
		From:           "Tun Razak Exchange MRT Entrance B",
		To:             "The Exchange TRX",
		FromCoords:     models.Coordinates{Lng: 101.7174, Lat: 3.1413},
		ToCoords:       models.Coordinates{Lng: 101.7169, Lat: 3.1406},
		DistanceMeters: 140,
		DurationSecs:   180,
		Category:       models.CategoryMall,
		Features:       []string{"air-conditioned", "wheelchair-accessible", "escalators"},
		Instructions:   "The station concourse connects directly into the mall basement; follow the Exchange TRX signs past the lifts.",
		Bidirectional:  true,
	},
	{
		Name:           "Pasar Seni bridge to Central Market",
		From:           "Pasar Seni MRT Entrance A",
		To:             "Central Market",
		FromCoords:     models.Coordinates{Lng: 101.6955, Lat: 3.1423},
		ToCoords:       models.Coordinates{Lng: 101.6958, Lat: 3.1430},
		DistanceMeters: 110,
		DurationSecs:   150,
		Category:       models.CategoryCoveredWalkway,
		Features:       []string{"covered"},
		Instructions:   "Cross the pedestrian bridge over Jalan Sultan from Entrance A; Central Market's annexe door is at the bridge landing.",
		Bidirectional:  false,
	},
}
