package geopf

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nikoko107/mcp-datagouv-ign/internal/platform/httpclient"
)

const wmtsCapabilitiesFixture = `<?xml version="1.0" encoding="UTF-8"?>
<Capabilities xmlns="http://www.opengis.net/wmts/1.0" xmlns:ows="http://www.opengis.net/ows/1.1" version="1.0.0">
  <Contents>
    <Layer>
      <ows:Title>Plan IGN V2</ows:Title>
      <ows:Abstract>Carte topographique multi-échelles</ows:Abstract>
      <ows:Identifier>GEOGRAPHICALGRIDSYSTEMS.PLANIGNV2</ows:Identifier>
    </Layer>
    <Layer>
      <ows:Title>Photographies aériennes</ows:Title>
      <ows:Abstract>Orthophotographies IGN</ows:Abstract>
      <ows:Identifier>ORTHOIMAGERY.ORTHOPHOTOS</ows:Identifier>
    </Layer>
  </Contents>
</Capabilities>`

const wmsCapabilitiesFixture = `<?xml version="1.0" encoding="UTF-8"?>
<WMS_Capabilities xmlns="http://www.opengis.net/wms" version="1.3.0">
  <Capability>
    <Layer>
      <Title>Racine</Title>
      <Layer>
        <Name>ORTHOIMAGERY.ORTHOPHOTOS</Name>
        <Title>Photographies aériennes</Title>
        <Abstract>Orthophotographies IGN</Abstract>
      </Layer>
    </Layer>
  </Capability>
</WMS_Capabilities>`

const wfsCapabilitiesFixture = `<?xml version="1.0" encoding="UTF-8"?>
<wfs:WFS_Capabilities xmlns:wfs="http://www.opengis.net/wfs/2.0" version="2.0.0">
  <wfs:FeatureTypeList>
    <wfs:FeatureType>
      <wfs:Name>BDTOPO_V3:batiment</wfs:Name>
      <wfs:Title>Bâtiments</wfs:Title>
      <wfs:Abstract>Emprises bâties BD TOPO</wfs:Abstract>
    </wfs:FeatureType>
    <wfs:FeatureType>
      <wfs:Name>ADMINEXPRESS-COG-CARTO.LATEST:commune</wfs:Name>
      <wfs:Title>Communes</wfs:Title>
      <wfs:Abstract>Limites communales</wfs:Abstract>
    </wfs:FeatureType>
  </wfs:FeatureTypeList>
</wfs:WFS_Capabilities>`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := New(httpclient.New(0))
	c.wmtsURL = srv.URL + "/wmts"
	c.wmsURL = srv.URL + "/wms-r"
	c.wfsURL = srv.URL + "/wfs"
	c.routeURL = srv.URL + "/navigation/itineraire"
	c.isochroneURL = srv.URL + "/navigation/isochrone"
	c.navCapsURL = srv.URL + "/navigation/getcapabilities"
	c.altiResourcesURL = srv.URL + "/altimetrie/resources"
	c.elevationURL = srv.URL + "/elevation.json"
	c.elevationLineURL = srv.URL + "/elevationLine.json"
	return c
}

func TestListWMTSLayers(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("REQUEST"); got != "GetCapabilities" {
			t.Errorf("REQUEST = %q, want GetCapabilities", got)
		}
		w.Write([]byte(wmtsCapabilitiesFixture))
	})

	got, err := c.ListWMTSLayers(context.Background())
	if err != nil {
		t.Fatalf("ListWMTSLayers() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(layers) = %d, want 2", len(got))
	}
	if got[0].Name != "GEOGRAPHICALGRIDSYSTEMS.PLANIGNV2" {
		t.Errorf("Name = %q, want GEOGRAPHICALGRIDSYSTEMS.PLANIGNV2", got[0].Name)
	}
	if got[0].Title != "Plan IGN V2" {
		t.Errorf("Title = %q, want Plan IGN V2", got[0].Title)
	}
}

func TestListWMSLayers(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(wmsCapabilitiesFixture))
	})

	got, err := c.ListWMSLayers(context.Background())
	if err != nil {
		t.Fatalf("ListWMSLayers() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(layers) = %d, want 1", len(got))
	}
	if got[0].Name != "ORTHOIMAGERY.ORTHOPHOTOS" {
		t.Errorf("Name = %q, want ORTHOIMAGERY.ORTHOPHOTOS", got[0].Name)
	}
}

func TestListWFSFeatureTypes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(wfsCapabilitiesFixture))
	})

	got, err := c.ListWFSFeatureTypes(context.Background())
	if err != nil {
		t.Fatalf("ListWFSFeatureTypes() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(feature types) = %d, want 2", len(got))
	}
	if got[1].Name != "ADMINEXPRESS-COG-CARTO.LATEST:commune" {
		t.Errorf("Name = %q", got[1].Name)
	}
}

func TestSearchLayers(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(wmtsCapabilitiesFixture))
	})

	got, err := c.SearchLayers(context.Background(), "wmts", "ortho")
	if err != nil {
		t.Fatalf("SearchLayers() error = %v", err)
	}
	if len(got) != 1 || got[0].Name != "ORTHOIMAGERY.ORTHOPHOTOS" {
		t.Errorf("matches = %+v, want the orthophoto layer", got)
	}

	if _, err := c.SearchLayers(context.Background(), "tms", "ortho"); err == nil {
		t.Error("SearchLayers() accepted an unknown service")
	}
}

func TestGetWFSFeatures(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("typename") != "BDTOPO_V3:batiment" {
			t.Errorf("typename = %q", q.Get("typename"))
		}
		if q.Get("count") != "100" {
			t.Errorf("count = %q, want 100", q.Get("count"))
		}
		if q.Get("bbox") != "5.7,45.1,5.8,45.2" {
			t.Errorf("bbox = %q", q.Get("bbox"))
		}
		w.Write([]byte(`{"type":"FeatureCollection","features":[]}`))
	})

	raw, err := c.GetWFSFeatures(context.Background(), "BDTOPO_V3:batiment", "5.7,45.1,5.8,45.2", 0)
	if err != nil {
		t.Fatalf("GetWFSFeatures() error = %v", err)
	}
	if string(raw) != `{"type":"FeatureCollection","features":[]}` {
		t.Errorf("raw body altered: %s", raw)
	}
}

func TestWMTSTileURL(t *testing.T) {
	c := New(httpclient.New(0))
	got := c.WMTSTileURL("ORTHOIMAGERY.ORTHOPHOTOS", 14, 8392, 5958)
	want := "https://data.geopf.fr/wmts?SERVICE=WMTS&VERSION=1.0.0&REQUEST=GetTile&LAYER=ORTHOIMAGERY.ORTHOPHOTOS&STYLE=normal&FORMAT=image/png&TILEMATRIXSET=PM&TILEMATRIX=14&TILEROW=5958&TILECOL=8392"
	if got != want {
		t.Errorf("WMTSTileURL() = %q, want %q", got, want)
	}
}

func TestWMSMapURL(t *testing.T) {
	c := New(httpclient.New(0))
	got := c.WMSMapURL("ORTHOIMAGERY.ORTHOPHOTOS", "45.1,5.7,45.2,5.8", 0, 0, "")
	want := "https://data.geopf.fr/wms-r?SERVICE=WMS&VERSION=1.3.0&REQUEST=GetMap&LAYERS=ORTHOIMAGERY.ORTHOPHOTOS&STYLES=&FORMAT=image/png&CRS=EPSG:4326&BBOX=45.1,5.7,45.2,5.8&WIDTH=800&HEIGHT=600"
	if got != want {
		t.Errorf("WMSMapURL() = %q, want %q", got, want)
	}
}
