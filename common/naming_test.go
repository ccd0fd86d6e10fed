package common

import (
	"testing"
	"time"
)

func TestAcquisitionDate(t *testing.T) {
	date := time.Date(2020, 6, 15, 0, 0, 0, 0, time.UTC)

	if d, err := AcquisitionDate("S1A_IW_GRDH_1SDV_20200615T034412_20200615T034437_032986_03D2C6_D2F1"); err != nil {
		t.Error(err)
	} else if !d.Equal(date) {
		t.Errorf("expected %v, got %v", date, d)
	}

	if d, err := AcquisitionDate("RS2-20200615-ab12cd34"); err != nil {
		t.Error(err)
	} else if !d.Equal(date) {
		t.Errorf("expected %v, got %v", date, d)
	}

	for _, name := range []string{"", "plainname", "A_B_C", "RS2", "S1A_IW_GRDH_1SDV_junk_x"} {
		if _, err := AcquisitionDate(name); err == nil {
			t.Errorf("expected error for %q", name)
		}
	}
}

func TestDetectNameFormat(t *testing.T) {
	if DetectNameFormat("S1A_IW_GRDH_1SDV_20200615T034412") != FormatUnderscore {
		t.Error("expected underscore format")
	}
	if DetectNameFormat("RS2-20200615-ab12cd34") != FormatHyphen {
		t.Error("expected hyphen format")
	}
	// underscores win when both delimiters are present
	if DetectNameFormat("S1A_IW-20200615") != FormatUnderscore {
		t.Error("expected underscore format")
	}
	if DetectNameFormat("plainname") != FormatUnknown {
		t.Error("expected unknown format")
	}
}

func TestGranulePrefix(t *testing.T) {
	if g := GranulePrefix("S1A_IW_GRDH-20200615-vv-rtc"); g != "S1A_IW_GRDH" {
		t.Errorf("unexpected granule prefix %s", g)
	}
	if g := GranulePrefix("nohyphen"); g != "nohyphen" {
		t.Errorf("unexpected granule prefix %s", g)
	}
}

func TestFlightDirectionValid(t *testing.T) {
	for _, d := range []FlightDirection{"A", "ASC", "ASCENDING", "D", "DESC", "DESCENDING"} {
		if !d.Valid() {
			t.Errorf("expected %s to be valid", d)
		}
	}
	for _, d := range []FlightDirection{"asc", "East", "", "Ascending"} {
		if d.Valid() {
			t.Errorf("expected %s to be invalid", d)
		}
	}
}
