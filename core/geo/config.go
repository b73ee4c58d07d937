package geo

// Config holds configuration for the geospatial layer.
type Config struct {
	// CRS is the EPSG code of the planar reference system.
	CRS int `mapstructure:"crs" default:"5514"`
	// PolygonObject is the storage object holding the polygon layer.
	PolygonObject string `mapstructure:"polygon_object" default:"polygons/districts.geojson"`
	// PolygonID is the identifier of the filter polygon within the layer.
	PolygonID string `mapstructure:"polygon_id" default:""`
	// PolygonIDProperty is the feature property carrying the identifier.
	PolygonIDProperty string `mapstructure:"polygon_id_property" default:"NAZEV"`
	// CacheTTLSeconds is the polygon cache TTL; 0 disables caching.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" default:"300"`
	// XColumn is the record column holding the easting.
	XColumn string `mapstructure:"x_column" default:"x"`
	// YColumn is the record column holding the northing.
	YColumn string `mapstructure:"y_column" default:"y"`
}
