package csv

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/agriplan/procure/pkg/domain/entities"
)

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write fixture %s: %v", name, err)
	}
	return path
}

func TestLoadSeasonAssemblesCropsTiersAndApplications(t *testing.T) {
	dir := t.TempDir()
	crops := writeFixture(t, dir, "crops.csv",
		"crop_id,name,total_acres\n"+
			"C-CORN,Corn,132\n"+
			"C-SOY,Soybeans,88\n")
	tiers := writeFixture(t, dir, "tiers.csv",
		"tier_id,crop_id,name,percent\n"+
			"T-CORE,C-CORN,Core Program,100\n"+
			"T-TRIAL,C-SOY,Trial Acres,25\n")
	apps := writeFixture(t, dir, "applications.csv",
		"application_id,crop_id,product_id,rate,rate_unit,timing_id,tier_id\n"+
			"A-1,C-CORN,P-AMS,100,lbs,pre,T-CORE\n"+
			"A-2,C-CORN,P-HERB,32,oz,post,T-CORE\n"+
			"A-3,C-SOY,P-HERB,24,oz,post,T-TRIAL\n")

	loader := NewLoader()
	season, err := loader.LoadSeason(2026, crops, tiers, apps)
	if err != nil {
		t.Fatalf("LoadSeason failed: %v", err)
	}

	if season.Year != 2026 {
		t.Errorf("Expected year 2026, got %d", season.Year)
	}
	if len(season.Crops) != 2 {
		t.Fatalf("Expected 2 crops, got %d", len(season.Crops))
	}

	corn := season.Crops[0]
	if corn.ID != "C-CORN" {
		t.Fatalf("Expected first crop C-CORN, got %s", corn.ID)
	}
	if !corn.TotalAcres.Equal(decimal.NewFromInt(132)) {
		t.Errorf("Expected 132 acres, got %s", corn.TotalAcres)
	}
	if len(corn.Tiers) != 1 || corn.Tiers[0].ID != "T-CORE" {
		t.Errorf("Expected corn to carry tier T-CORE, got %+v", corn.Tiers)
	}
	if len(corn.Applications) != 2 {
		t.Errorf("Expected 2 corn applications, got %d", len(corn.Applications))
	}

	soy := season.Crops[1]
	if len(soy.Applications) != 1 || soy.Applications[0].ProductID != "P-HERB" {
		t.Errorf("Expected soy application for P-HERB, got %+v", soy.Applications)
	}
	if !soy.Tiers[0].Percent.Equal(decimal.NewFromInt(25)) {
		t.Errorf("Expected 25 percent tier, got %s", soy.Tiers[0].Percent)
	}
}

func TestLoadSeasonRejectsDanglingTier(t *testing.T) {
	dir := t.TempDir()
	crops := writeFixture(t, dir, "crops.csv",
		"crop_id,name,total_acres\nC-CORN,Corn,132\n")
	tiers := writeFixture(t, dir, "tiers.csv",
		"tier_id,crop_id,name,percent\nT-X,C-WHEAT,Ghost,50\n")
	apps := writeFixture(t, dir, "applications.csv",
		"application_id,crop_id,product_id,rate,rate_unit,timing_id,tier_id\n")

	loader := NewLoader()
	_, err := loader.LoadSeason(2026, crops, tiers, apps)
	if err == nil {
		t.Fatal("Expected error for tier referencing unknown crop")
	}
	if !strings.Contains(err.Error(), "unknown crop C-WHEAT") {
		t.Errorf("Expected unknown crop error, got: %v", err)
	}
}

func TestLoadProductsParsesAllFields(t *testing.T) {
	dir := t.TempDir()
	products := writeFixture(t, dir, "products.csv",
		"product_id,name,form,category,spec_id,bid_eligible,estimated_price,est_price_unit\n"+
			"P-AMS,AMS 21-0-0-24S,dry,fertilizer,SPEC-AMS,true,415,ton\n"+
			"P-HERB,Glyphosate 4.5,liquid,herbicide,,false,,\n")

	loader := NewLoader()
	loaded, err := loader.LoadProducts(products)
	if err != nil {
		t.Fatalf("LoadProducts failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("Expected 2 products, got %d", len(loaded))
	}

	ams := loaded[0]
	if ams.SpecID != "SPEC-AMS" || !ams.BidEligible {
		t.Errorf("Expected bid-eligible product tied to SPEC-AMS, got %+v", ams)
	}
	if !ams.EstimatedPrice.Equal(decimal.NewFromInt(415)) || ams.EstPriceUnit != "ton" {
		t.Errorf("Expected estimated price 415/ton, got %s/%s", ams.EstimatedPrice, ams.EstPriceUnit)
	}

	herb := loaded[1]
	if herb.BidEligible {
		t.Error("Expected herbicide to not be bid eligible")
	}
	if !herb.EstimatedPrice.IsZero() {
		t.Errorf("Expected zero estimated price when column is empty, got %s", herb.EstimatedPrice)
	}
}

func TestLoadProductsReportsRowNumberOnBadForm(t *testing.T) {
	dir := t.TempDir()
	products := writeFixture(t, dir, "products.csv",
		"product_id,name,form,category,spec_id,bid_eligible,estimated_price,est_price_unit\n"+
			"P-AMS,AMS,dry,fertilizer,,true,,\n"+
			"P-BAD,Mystery,granular,fertilizer,,true,,\n")

	loader := NewLoader()
	_, err := loader.LoadProducts(products)
	if err == nil {
		t.Fatal("Expected error for invalid form")
	}
	if !strings.Contains(err.Error(), "row 3") {
		t.Errorf("Expected error to name row 3, got: %v", err)
	}
	if !strings.Contains(err.Error(), "invalid form: granular") {
		t.Errorf("Expected invalid form detail, got: %v", err)
	}
}

func TestReadRecordsRejectsHeaderMismatch(t *testing.T) {
	dir := t.TempDir()
	vendors := writeFixture(t, dir, "vendors.csv",
		"vendor_id,vendor_name\nV-1,Helena\n")

	loader := NewLoader()
	_, err := loader.LoadVendors(vendors)
	if err == nil {
		t.Fatal("Expected error for header mismatch")
	}
	if !strings.Contains(err.Error(), "vendors CSV") {
		t.Errorf("Expected vendors CSV context in error, got: %v", err)
	}
}

func TestReadRecordsAcceptsHeaderCaseAndWhitespace(t *testing.T) {
	dir := t.TempDir()
	vendors := writeFixture(t, dir, "vendors.csv",
		"Vendor_ID, Name\nV-1,Helena\n")

	loader := NewLoader()
	loaded, err := loader.LoadVendors(vendors)
	if err != nil {
		t.Fatalf("LoadVendors failed: %v", err)
	}
	if len(loaded) != 1 || loaded[0].Name != "Helena" {
		t.Errorf("Expected vendor Helena, got %+v", loaded)
	}
}

func TestLoadAssignmentsAssemblesApplications(t *testing.T) {
	dir := t.TempDir()
	assignments := writeFixture(t, dir, "assignments.csv",
		"assignment_id,crop_id,field_name,planned_acres\n"+
			"FA-1,C-CORN,North 80,80\n"+
			"FA-2,C-CORN,Home 52,52\n")
	apps := writeFixture(t, dir, "assignment_applications.csv",
		"assignment_id,product_id,rate,rate_unit,excluded\n"+
			"FA-1,P-AMS,100,lbs,false\n"+
			"FA-2,P-AMS,110,lbs,false\n"+
			"FA-2,P-HERB,32,oz,true\n")

	loader := NewLoader()
	loaded, err := loader.LoadAssignments(assignments, apps)
	if err != nil {
		t.Fatalf("LoadAssignments failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("Expected 2 assignments, got %d", len(loaded))
	}

	north := loaded[0]
	if north.FieldName != "North 80" || !north.PlannedAcres.Equal(decimal.NewFromInt(80)) {
		t.Errorf("Expected North 80 at 80 acres, got %s at %s", north.FieldName, north.PlannedAcres)
	}
	if len(north.Applications) != 1 {
		t.Fatalf("Expected 1 application on FA-1, got %d", len(north.Applications))
	}

	home := loaded[1]
	if len(home.Applications) != 2 {
		t.Fatalf("Expected 2 applications on FA-2, got %d", len(home.Applications))
	}
	if !home.Applications[0].Rate.Equal(decimal.NewFromInt(110)) {
		t.Errorf("Expected override rate 110, got %s", home.Applications[0].Rate)
	}
	if !home.Applications[1].IsExcluded {
		t.Error("Expected herbicide row on FA-2 to be excluded")
	}
}

func TestLoadAssignmentsRejectsDuplicateAndUnknownIDs(t *testing.T) {
	dir := t.TempDir()
	emptyApps := writeFixture(t, dir, "empty_apps.csv",
		"assignment_id,product_id,rate,rate_unit,excluded\n")

	t.Run("duplicate assignment id", func(t *testing.T) {
		assignments := writeFixture(t, dir, "dup.csv",
			"assignment_id,crop_id,field_name,planned_acres\n"+
				"FA-1,C-CORN,North 80,80\n"+
				"FA-1,C-CORN,South 40,40\n")

		_, err := NewLoader().LoadAssignments(assignments, emptyApps)
		if err == nil {
			t.Fatal("Expected error for duplicate assignment id")
		}
		if !strings.Contains(err.Error(), "duplicate assignment id FA-1") {
			t.Errorf("Expected duplicate id error, got: %v", err)
		}
	})

	t.Run("unknown assignment id in applications", func(t *testing.T) {
		assignments := writeFixture(t, dir, "ok.csv",
			"assignment_id,crop_id,field_name,planned_acres\n"+
				"FA-1,C-CORN,North 80,80\n")
		apps := writeFixture(t, dir, "dangling.csv",
			"assignment_id,product_id,rate,rate_unit,excluded\n"+
				"FA-9,P-AMS,100,lbs,false\n")

		_, err := NewLoader().LoadAssignments(assignments, apps)
		if err == nil {
			t.Fatal("Expected error for unknown assignment id")
		}
		if !strings.Contains(err.Error(), "unknown assignment id FA-9") {
			t.Errorf("Expected unknown id error, got: %v", err)
		}
	})
}

func TestLoadAwardsTreatsEmptyPriceAsUnset(t *testing.T) {
	dir := t.TempDir()
	awards := writeFixture(t, dir, "awards.csv",
		"award_id,bid_event_id,spec_id,vendor_id,quantity,unit,awarded_price\n"+
			"AW-1,EV-1,SPEC-AMS,V-HELENA,6.6,ton,415\n"+
			"AW-2,EV-1,SPEC-UREA,V-NUTRIEN,4,ton,\n")

	loaded, err := NewLoader().LoadAwards(awards)
	if err != nil {
		t.Fatalf("LoadAwards failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("Expected 2 awards, got %d", len(loaded))
	}

	if loaded[0].AwardedPrice == nil || !loaded[0].AwardedPrice.Equal(decimal.NewFromInt(415)) {
		t.Errorf("Expected awarded price 415, got %v", loaded[0].AwardedPrice)
	}
	if loaded[1].AwardedPrice != nil {
		t.Errorf("Expected nil awarded price for empty column, got %s", *loaded[1].AwardedPrice)
	}
}

func TestLoadOrdersAssemblesLines(t *testing.T) {
	dir := t.TempDir()
	orders := writeFixture(t, dir, "orders.csv",
		"order_id,order_number,vendor_id,season_year,status,bid_event_id,version,created_at\n"+
			"ORDER-1,ORD-2026-001,V-HELENA,2026,ordered,EV-1,2,2026-02-01\n")
	lines := writeFixture(t, dir, "order_lines.csv",
		"line_id,order_id,spec_id,product_id,description,ordered_qty,received_qty,unit,unit_price\n"+
			"OL-1,ORDER-1,SPEC-AMS,P-AMS,AMS 21-0-0-24S,6.6,2.2,ton,415\n")

	loaded, err := NewLoader().LoadOrders(orders, lines)
	if err != nil {
		t.Fatalf("LoadOrders failed: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("Expected 1 order, got %d", len(loaded))
	}

	order := loaded[0]
	if order.Version != 2 {
		t.Errorf("Expected version 2, got %d", order.Version)
	}
	if order.Status != entities.OrderOrdered {
		t.Errorf("Expected ordered status, got %s", order.Status)
	}
	if len(order.Lines) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(order.Lines))
	}

	line := order.Lines[0]
	if !line.OrderedQty.Equal(decimal.NewFromFloat(6.6)) || line.Unit != "ton" {
		t.Errorf("Expected 6.6 ton ordered, got %s %s", line.OrderedQty, line.Unit)
	}
	if !line.RemainingQty.Equal(decimal.NewFromFloat(4.4)) {
		t.Errorf("Expected remaining 4.4 after partial receipt, got %s", line.RemainingQty)
	}
	if line.Status != entities.LinePartial {
		t.Errorf("Expected partial line status, got %s", line.Status)
	}
}
