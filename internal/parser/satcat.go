package parser

// SatcatSchema is the CelesTrak SATCAT column layout. The offsets are a
// compatibility contract with the published feed.
var SatcatSchema = Schema{
	{Name: "international_designator", Start: 0, End: 12},
	{Name: "norad_catalog_number", Start: 13, End: 18},
	{Name: "multiple_flag", Start: 19, End: 20},
	{Name: "has_payload", Start: 20, End: 21},
	{Name: "operational_status", Start: 21, End: 22},
	{Name: "names", Start: 23, End: 47},
	{Name: "owner", Start: 49, End: 54},
	{Name: "launch_date", Start: 56, End: 66},
	{Name: "launch_site", Start: 68, End: 73},
	{Name: "decay_date", Start: 75, End: 85},
	{Name: "orbital_period", Start: 87, End: 94},
	{Name: "inclination", Start: 96, End: 101},
	{Name: "apogee", Start: 103, End: 109},
	{Name: "perigee", Start: 111, End: 117},
	{Name: "radar_cross_section", Start: 119, End: 127},
	{Name: "orbital_status", Start: 129, End: 132},
}

// SatcatFields is one exploded SATCAT line. Values are the literal column
// text; dates and numbers are interpreted by the ingestion layer.
type SatcatFields struct {
	InternationalDesignator Field[string]
	NoradCatalogNumber      Field[string]
	MultipleFlag            Field[string]
	HasPayload              Field[string]
	OperationalStatus       Field[string]
	Names                   Field[string]
	Owner                   Field[string]
	LaunchDate              Field[string]
	LaunchSite              Field[string]
	DecayDate               Field[string]
	OrbitalPeriod           Field[string]
	Inclination             Field[string]
	Apogee                  Field[string]
	Perigee                 Field[string]
	RadarCrossSection       Field[string]
	OrbitalStatus           Field[string]
}

// ExplodeSatcat splits a SATCAT line into its columns.
func ExplodeSatcat(line string) SatcatFields {
	m := Explode(line, SatcatSchema)
	return SatcatFields{
		InternationalDesignator: m["international_designator"],
		NoradCatalogNumber:      m["norad_catalog_number"],
		MultipleFlag:            m["multiple_flag"],
		HasPayload:              m["has_payload"],
		OperationalStatus:       m["operational_status"],
		Names:                   m["names"],
		Owner:                   m["owner"],
		LaunchDate:              m["launch_date"],
		LaunchSite:              m["launch_site"],
		DecayDate:               m["decay_date"],
		OrbitalPeriod:           m["orbital_period"],
		Inclination:             m["inclination"],
		Apogee:                  m["apogee"],
		Perigee:                 m["perigee"],
		RadarCrossSection:       m["radar_cross_section"],
		OrbitalStatus:           m["orbital_status"],
	}
}
