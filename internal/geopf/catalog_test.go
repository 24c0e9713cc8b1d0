package geopf

import "testing"

func TestDescribeLayer(t *testing.T) {
	entry, ok := DescribeLayer("BDTOPO_V3:batiment")
	if !ok {
		t.Fatal("DescribeLayer() did not find BDTOPO_V3:batiment")
	}
	if entry.Service != "WFS" {
		t.Errorf("Service = %q, want WFS", entry.Service)
	}
	if entry.MaxFeatures != 5000 {
		t.Errorf("MaxFeatures = %d, want 5000", entry.MaxFeatures)
	}

	if _, ok := DescribeLayer("UNKNOWN:layer"); ok {
		t.Error("DescribeLayer() found an unknown layer")
	}
}

func TestSearchCatalog(t *testing.T) {
	t.Run("by keyword", func(t *testing.T) {
		matches := SearchCatalog("cadastre", "all")
		if len(matches) == 0 {
			t.Fatal("no matches for cadastre")
		}
		for _, entry := range matches {
			if entry.Category != "Cadastre" {
				t.Errorf("unexpected match %s in category %s", entry.ID, entry.Category)
			}
		}
	})

	t.Run("scoped to wfs", func(t *testing.T) {
		for _, entry := range SearchCatalog("cadastre", "wfs") {
			if entry.Service != "WFS" {
				t.Errorf("entry %s has service %s, want WFS", entry.ID, entry.Service)
			}
		}
	})

	t.Run("wms mirrors wmts", func(t *testing.T) {
		matches := SearchCatalog("Plan IGN", "wms")
		if len(matches) != 1 || matches[0].Service != "WMS" {
			t.Errorf("matches = %+v, want the Plan IGN layer as WMS", matches)
		}
	})
}

func TestLayersByCategory(t *testing.T) {
	matches := LayersByCategory("Hydrographie", "wfs")
	if len(matches) != 2 {
		t.Fatalf("len(matches) = %d, want 2", len(matches))
	}
}

func TestCategories(t *testing.T) {
	categories := Categories()
	if len(categories) == 0 {
		t.Fatal("no categories")
	}
	seen := make(map[string]bool)
	for _, category := range categories {
		if seen[category] {
			t.Errorf("duplicate category %q", category)
		}
		seen[category] = true
	}
	if !seen["Découpage administratif"] {
		t.Error("missing category Découpage administratif")
	}
}
