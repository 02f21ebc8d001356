package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"housevalue/server/config"
)

// ListZones returns every zone with a map center as a GeoJSON point feature
func (h *Handler) ListZones(c *gin.Context) {
	fc := geojson.NewFeatureCollection()
	for _, zone := range h.zones.Zones() {
		if f, ok := zoneFeature(zone); ok {
			fc.Append(f)
		}
	}
	c.JSON(http.StatusOK, fc)
}

// GetZone returns a single zone feature
func (h *Handler) GetZone(c *gin.Context) {
	zone, ok := h.zones.Lookup(c.Param("name"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Zone not found"})
		return
	}

	f, ok := zoneFeature(zone)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Zone has no map center"})
		return
	}
	c.JSON(http.StatusOK, f)
}

func zoneFeature(zone config.Zone) (*geojson.Feature, bool) {
	if len(zone.Center) != 2 {
		return nil, false
	}

	// GeoJSON orders coordinates as [lng, lat]
	f := geojson.NewFeature(orb.Point{zone.Center[1], zone.Center[0]})
	f.ID = config.NormalizeZone(zone.Name)
	f.Properties["name"] = zone.Name
	f.Properties["multiplier"] = zone.Multiplier
	return f, true
}
