package parser

import "testing"

const satcatLine = "1957-001A    00001   D SL-1 R/B                  CIS    1957-10-04  TYMSC  1957-12-01     96.2   65.1     938     214   20.4200     "

func TestExplodeSatcat_SimpleLine(t *testing.T) {
	f := ExplodeSatcat(satcatLine)

	want := map[string]Field[string]{
		"international_designator": Some("1957-001A"),
		"norad_catalog_number":     Some("00001"),
		"multiple_flag":            None[string](),
		"has_payload":              None[string](),
		"operational_status":       Some("D"),
		"names":                    Some("SL-1 R/B"),
		"owner":                    Some("CIS"),
		"launch_date":              Some("1957-10-04"),
		"launch_site":              Some("TYMSC"),
		"decay_date":               Some("1957-12-01"),
		"orbital_period":           Some("96.2"),
		"inclination":              Some("65.1"),
		"apogee":                   Some("938"),
		"perigee":                  Some("214"),
		"radar_cross_section":      Some("20.4200"),
		"orbital_status":           None[string](),
	}
	got := map[string]Field[string]{
		"international_designator": f.InternationalDesignator,
		"norad_catalog_number":     f.NoradCatalogNumber,
		"multiple_flag":            f.MultipleFlag,
		"has_payload":              f.HasPayload,
		"operational_status":       f.OperationalStatus,
		"names":                    f.Names,
		"owner":                    f.Owner,
		"launch_date":              f.LaunchDate,
		"launch_site":              f.LaunchSite,
		"decay_date":               f.DecayDate,
		"orbital_period":           f.OrbitalPeriod,
		"inclination":              f.Inclination,
		"apogee":                   f.Apogee,
		"perigee":                  f.Perigee,
		"radar_cross_section":      f.RadarCrossSection,
		"orbital_status":           f.OrbitalStatus,
	}
	for name, w := range want {
		if got[name] != w {
			t.Errorf("%s = %+v, want %+v", name, got[name], w)
		}
	}
}

func TestExplodeSatcat_NotAvailableRadarCrossSection(t *testing.T) {
	line := "1957-001A    00001   D SL-1 R/B                  CIS    1957-10-04  TYMSC  1957-12-01     96.2   65.1     938     214   N/A     "
	f := ExplodeSatcat(line)
	if f.RadarCrossSection.Valid {
		t.Errorf("radar cross section = %q, want absent", f.RadarCrossSection.Value)
	}
	if f.Perigee.Value != "214" {
		t.Errorf("perigee = %q", f.Perigee.Value)
	}
}

func TestExplodeSatcat_PayloadFlag(t *testing.T) {
	line := "1958-002B    00005  *+ VANGUARD 1                US     1958-03-17  AFETR                132.7   34.3    3832     650    0.1220     "
	f := ExplodeSatcat(line)
	if f.HasPayload != Some("*") {
		t.Errorf("has_payload = %+v, want *", f.HasPayload)
	}
	if f.OperationalStatus != Some("+") {
		t.Errorf("operational_status = %+v, want +", f.OperationalStatus)
	}
	if f.DecayDate.Valid {
		t.Errorf("decay_date = %q, want absent", f.DecayDate.Value)
	}
	if f.Apogee != Some("3832") || f.RadarCrossSection != Some("0.1220") {
		t.Errorf("apogee = %+v, rcs = %+v", f.Apogee, f.RadarCrossSection)
	}
}

func TestExplodeSatcat_ColumnOffsets(t *testing.T) {
	want := map[string][2]int{
		"international_designator": {0, 12},
		"norad_catalog_number":     {13, 18},
		"multiple_flag":            {19, 20},
		"has_payload":              {20, 21},
		"operational_status":       {21, 22},
		"names":                    {23, 47},
		"owner":                    {49, 54},
		"launch_date":              {56, 66},
		"launch_site":              {68, 73},
		"decay_date":               {75, 85},
		"orbital_period":           {87, 94},
		"inclination":              {96, 101},
		"apogee":                   {103, 109},
		"perigee":                  {111, 117},
		"radar_cross_section":      {119, 127},
		"orbital_status":           {129, 132},
	}
	if len(SatcatSchema) != len(want) {
		t.Fatalf("schema has %d spans, want %d", len(SatcatSchema), len(want))
	}
	for _, s := range SatcatSchema {
		w, ok := want[s.Name]
		if !ok {
			t.Errorf("unexpected span %q", s.Name)
			continue
		}
		if s.Start != w[0] || s.End != w[1] {
			t.Errorf("%s = [%d,%d), want [%d,%d)", s.Name, s.Start, s.End, w[0], w[1])
		}
	}
}

func TestExplodeSatcat_EmptyLine(t *testing.T) {
	f := ExplodeSatcat("")
	if f.NoradCatalogNumber.Valid || f.InternationalDesignator.Valid {
		t.Error("empty line should yield absent fields")
	}
}
