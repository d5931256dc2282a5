package domain

import (
	"strings"
	"time"
)

// ScanResult is the outcome of one barcode scan
type ScanResult struct {
	Code            string
	Expected        string
	MatchesExpected bool
	ScannedAt       time.Time
}

// ScanVerification pairs the item and location scans for a pick. It is
// never persisted.
type ScanVerification struct {
	ItemScan     ScanResult
	LocationScan ScanResult
	Verified     bool
}

// ExpectedLocationCode returns the barcode printed on a pick location
func ExpectedLocationCode(locationID string) string {
	return "LOC-" + locationID
}

// VerifyScans compares scanned codes with the item's SKU and location
func VerifyScans(item PickTaskItem, itemCode, locationCode string) ScanVerification {
	now := time.Now()
	itemScan := scan(itemCode, item.SKU, now)
	locationScan := scan(locationCode, ExpectedLocationCode(item.LocationID), now)

	return ScanVerification{
		ItemScan:     itemScan,
		LocationScan: locationScan,
		Verified:     itemScan.MatchesExpected && locationScan.MatchesExpected,
	}
}

// SimulateScans fabricates matching scans for an item
func SimulateScans(item PickTaskItem) ScanVerification {
	return VerifyScans(item, item.SKU, ExpectedLocationCode(item.LocationID))
}

func scan(code, expected string, at time.Time) ScanResult {
	code = strings.TrimSpace(code)
	return ScanResult{
		Code:            code,
		Expected:        expected,
		MatchesExpected: code != "" && strings.EqualFold(code, strings.TrimSpace(expected)),
		ScannedAt:       at,
	}
}
