// Package indoor holds the curated indoor-walkway catalog. These are
// shortcuts (malls, underpasses, skybridges) that routing providers cannot
// see, so they are authored by hand and matched by proximity.
package indoor

import (
	"fmt"
	"log"

	"station-walk-router/internal/geo"
	"station-walk-router/internal/models"
)

// DefaultMaxDetourMeters is how far an endpoint may be from a connection's
// start or end for the connection to count as usable
const DefaultMaxDetourMeters = 150

// Catalog is a read-only set of authored indoor connections
type Catalog struct {
	connections []models.IndoorConnection
}

// NewCatalog creates a catalog over the given connections
func NewCatalog(connections []models.IndoorConnection) *Catalog {
	log.Printf("[INDOOR] Catalog loaded: connections=%d", len(connections))
	return &Catalog{connections: connections}
}

// All returns every authored connection in catalog order
func (c *Catalog) All() []models.IndoorConnection {
	return c.connections
}

// reversed derives the opposite direction of a bidirectional connection.
// The authored entry stays the single source of truth; the reverse is a
// query-time view with swapped endpoints and a reversed name.
func reversed(conn models.IndoorConnection) models.IndoorConnection {
	rev := conn
	rev.Name = fmt.Sprintf("%s to %s", conn.To, conn.From)
	rev.From, rev.To = conn.To, conn.From
	rev.FromCoords, rev.ToCoords = conn.ToCoords, conn.FromCoords
	return rev
}

// FindUsable returns every connection (including synthesized reverses of
// bidirectional entries) whose start is within maxDetourMeters of from and
// whose end is within maxDetourMeters of to. Results come back in catalog
// order, not distance order; callers wanting the best match take index 0.
func (c *Catalog) FindUsable(from, to models.Coordinates, maxDetourMeters float64) []models.IndoorConnection {
	var usable []models.IndoorConnection
	for _, conn := range c.connections {
		if connects(conn, from, to, maxDetourMeters) {
			usable = append(usable, conn)
		}
		if conn.Bidirectional {
			if rev := reversed(conn); connects(rev, from, to, maxDetourMeters) {
				usable = append(usable, rev)
			}
		}
	}
	return usable
}

func connects(conn models.IndoorConnection, from, to models.Coordinates, maxDetourMeters float64) bool {
	return geo.Haversine(from, conn.FromCoords) <= maxDetourMeters &&
		geo.Haversine(conn.ToCoords, to) <= maxDetourMeters
}
