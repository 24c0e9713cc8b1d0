package geopf

import (
	"sort"
	"strings"
)

// CatalogEntry documents one curated Géoplateforme layer: the layers worth
// knowing about among the thousands the capabilities documents list.
// Source: https://geoservices.ign.fr/documentation/donnees
type CatalogEntry struct {
	ID              string   `json:"id"`
	Service         string   `json:"service"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Category        string   `json:"category"`
	Formats         []string `json:"formats,omitempty"`
	MinZoom         int      `json:"min_zoom,omitempty"`
	MaxZoom         int      `json:"max_zoom,omitempty"`
	CRS             []string `json:"crs,omitempty"`
	GeometryType    string   `json:"geometry_type,omitempty"`
	FeatureCount    string   `json:"feature_count,omitempty"`
	Attributes      []string `json:"attributes,omitempty"`
	Usage           string   `json:"usage,omitempty"`
	UpdateFrequency string   `json:"update_frequency,omitempty"`
	BBoxRecommended bool     `json:"bbox_recommended,omitempty"`
	MaxFeatures     int      `json:"max_features_recommended,omitempty"`
}

var wmtsCatalog = []CatalogEntry{
	{
		ID:              "GEOGRAPHICALGRIDSYSTEMS.PLANIGNV2",
		Title:           "Plan IGN V2",
		Description:     "Carte topographique vectorielle multi-échelles, style moderne",
		Category:        "Cartes topographiques",
		Formats:         []string{"image/png"},
		MinZoom:         0,
		MaxZoom:         18,
		CRS:             []string{"PM", "LAMB93", "WGS84"},
		Usage:           "Fond de carte général, navigation, contexte cartographique",
		UpdateFrequency: "Mensuelle",
	},
	{
		ID:              "ORTHOIMAGERY.ORTHOPHOTOS",
		Title:           "Photographies aériennes",
		Description:     "Orthophotographies IGN récentes, résolution 20cm à 5m selon zones",
		Category:        "Imagerie",
		Formats:         []string{"image/jpeg", "image/png"},
		MinZoom:         0,
		MaxZoom:         20,
		CRS:             []string{"PM", "LAMB93", "WGS84"},
		Usage:           "Fond de carte réaliste, reconnaissance terrain, urbanisme",
		UpdateFrequency: "Annuelle",
	},
	{
		ID:              "CADASTRALPARCELS.PARCELLAIRE_EXPRESS",
		Title:           "Parcelles cadastrales",
		Description:     "Plan cadastral informatisé vecteur (PCI), parcelles et bâtiments",
		Category:        "Cadastre",
		Formats:         []string{"image/png"},
		MinZoom:         0,
		MaxZoom:         20,
		CRS:             []string{"PM", "LAMB93", "WGS84"},
		Usage:           "Cadastre, urbanisme, foncier, immobilier",
		UpdateFrequency: "Trimestrielle",
	},
	{
		ID:              "GEOGRAPHICALGRIDSYSTEMS.MAPS",
		Title:           "Cartes IGN",
		Description:     "Cartes topographiques IGN 1:25000 (scan), style classique",
		Category:        "Cartes topographiques",
		Formats:         []string{"image/jpeg", "image/png"},
		MinZoom:         0,
		MaxZoom:         18,
		CRS:             []string{"PM", "LAMB93", "WGS84"},
		Usage:           "Randonnée, cartographie traditionnelle, relief",
		UpdateFrequency: "Annuelle",
	},
	{
		ID:              "GEOGRAPHICALGRIDSYSTEMS.MAPS.SCAN25TOUR",
		Title:           "Carte IGN Série Bleue (1:25000)",
		Description:     "Scan 25 Touristique, cartes détaillées pour randonnée",
		Category:        "Cartes topographiques",
		Formats:         []string{"image/jpeg"},
		MinZoom:         6,
		MaxZoom:         16,
		CRS:             []string{"PM", "LAMB93"},
		Usage:           "Randonnée, trails, sports outdoor",
		UpdateFrequency: "Annuelle",
	},
	{
		ID:              "ELEVATION.ELEVATIONGRIDCOVERAGE",
		Title:           "Altitudes (MNT)",
		Description:     "Modèle Numérique de Terrain colorisé par tranches d'altitude",
		Category:        "Altimétrie",
		Formats:         []string{"image/png"},
		MinZoom:         6,
		MaxZoom:         14,
		CRS:             []string{"PM", "LAMB93"},
		Usage:           "Visualisation relief, analyses altimétriques",
		UpdateFrequency: "Stable",
	},
	{
		ID:              "ELEVATION.SLOPES",
		Title:           "Pentes du terrain",
		Description:     "Visualisation des pentes en degrés (0-90°)",
		Category:        "Altimétrie",
		Formats:         []string{"image/png"},
		MinZoom:         6,
		MaxZoom:         14,
		CRS:             []string{"PM", "LAMB93"},
		Usage:           "Analyses de pentes, risques naturels, aménagement",
		UpdateFrequency: "Stable",
	},
	{
		ID:              "TRANSPORTNETWORKS.ROADS",
		Title:           "Réseau routier",
		Description:     "Graphe routier avec classification (autoroutes, nationales, etc.)",
		Category:        "Réseaux",
		Formats:         []string{"image/png"},
		MinZoom:         6,
		MaxZoom:         18,
		CRS:             []string{"PM", "LAMB93"},
		Usage:           "Navigation, analyses de réseaux, transport",
		UpdateFrequency: "Trimestrielle",
	},
	{
		ID:              "LANDUSE.AGRICULTURE2020",
		Title:           "Occupation du sol agricole",
		Description:     "Registre Parcellaire Graphique (RPG), cultures déclarées",
		Category:        "Occupation du sol",
		Formats:         []string{"image/png"},
		MinZoom:         6,
		MaxZoom:         16,
		CRS:             []string{"PM", "LAMB93"},
		Usage:           "Agriculture, environnement, études territoriales",
		UpdateFrequency: "Annuelle",
	},
	{
		ID:              "LANDCOVER.CORINELANDCOVER",
		Title:           "Corine Land Cover",
		Description:     "Occupation du sol européenne, nomenclature CLC",
		Category:        "Occupation du sol",
		Formats:         []string{"image/png"},
		MinZoom:         0,
		MaxZoom:         14,
		CRS:             []string{"PM", "LAMB93"},
		Usage:           "Environnement, aménagement, études européennes",
		UpdateFrequency: "Tous les 6 ans",
	},
}

var wfsCatalog = []CatalogEntry{
	{
		ID:              "ADMINEXPRESS-COG-CARTO.LATEST:commune",
		Title:           "Communes",
		Description:     "Limites communales françaises (Code Officiel Géographique)",
		Category:        "Découpage administratif",
		GeometryType:    "Polygon",
		FeatureCount:    "~36000",
		Attributes:      []string{"nom", "code_insee", "population", "superficie", "code_postal"},
		CRS:             []string{"EPSG:4326", "EPSG:2154", "EPSG:3857"},
		Usage:           "Analyses territoriales, statistiques, cartographie administrative",
		BBoxRecommended: true,
		UpdateFrequency: "Annuelle",
	},
	{
		ID:              "ADMINEXPRESS-COG-CARTO.LATEST:departement",
		Title:           "Départements",
		Description:     "Limites départementales françaises",
		Category:        "Découpage administratif",
		GeometryType:    "Polygon",
		FeatureCount:    "101",
		Attributes:      []string{"nom", "code_insee", "nom_region", "superficie"},
		CRS:             []string{"EPSG:4326", "EPSG:2154", "EPSG:3857"},
		Usage:           "Cartographie départementale, analyses régionales",
		UpdateFrequency: "Annuelle",
	},
	{
		ID:              "ADMINEXPRESS-COG-CARTO.LATEST:region",
		Title:           "Régions",
		Description:     "Limites régionales françaises (nouvelles régions)",
		Category:        "Découpage administratif",
		GeometryType:    "Polygon",
		FeatureCount:    "18",
		Attributes:      []string{"nom", "code_insee", "chef_lieu", "superficie"},
		CRS:             []string{"EPSG:4326", "EPSG:2154", "EPSG:3857"},
		Usage:           "Cartographie nationale, analyses macro-régionales",
		UpdateFrequency: "Stable",
	},
	{
		ID:              "ADMINEXPRESS-COG-CARTO.LATEST:epci",
		Title:           "EPCI (Intercommunalités)",
		Description:     "Établissements Publics de Coopération Intercommunale",
		Category:        "Découpage administratif",
		GeometryType:    "Polygon",
		FeatureCount:    "~1260",
		Attributes:      []string{"nom", "code_siren", "nature", "population"},
		CRS:             []string{"EPSG:4326", "EPSG:2154", "EPSG:3857"},
		Usage:           "Gouvernance locale, intercommunalité",
		BBoxRecommended: true,
		UpdateFrequency: "Annuelle",
	},
	{
		ID:              "BDTOPO_V3:batiment",
		Title:           "Bâtiments",
		Description:     "Emprises bâties BD TOPO, bâtiments remarquables identifiés",
		Category:        "Bâti",
		GeometryType:    "Polygon",
		FeatureCount:    "~50 millions",
		Attributes:      []string{"nature", "usage_1", "usage_2", "hauteur", "nombre_etages", "etat"},
		CRS:             []string{"EPSG:4326", "EPSG:2154", "EPSG:3857"},
		Usage:           "Urbanisme, 3D, analyses urbaines, accessibilité",
		BBoxRecommended: true,
		MaxFeatures:     5000,
		UpdateFrequency: "Continue (mise à jour glissante)",
	},
	{
		ID:              "BDTOPO_V3:troncon_de_route",
		Title:           "Tronçons de route",
		Description:     "Réseau routier BD TOPO avec attributs (importance, largeur, nom)",
		Category:        "Réseaux",
		GeometryType:    "LineString",
		FeatureCount:    "~3 millions",
		Attributes:      []string{"importance", "nature", "nom_voie", "largeur", "nb_voies", "sens"},
		CRS:             []string{"EPSG:4326", "EPSG:2154", "EPSG:3857"},
		Usage:           "Analyses de réseaux, navigation, accessibilité routière",
		BBoxRecommended: true,
		MaxFeatures:     1000,
		UpdateFrequency: "Continue",
	},
	{
		ID:              "BDTOPO_V3:surface_hydrographique",
		Title:           "Plans d'eau",
		Description:     "Surfaces en eau (lacs, étangs, bassins)",
		Category:        "Hydrographie",
		GeometryType:    "Polygon",
		FeatureCount:    "~150000",
		Attributes:      []string{"nature", "nom", "superficie"},
		CRS:             []string{"EPSG:4326", "EPSG:2154", "EPSG:3857"},
		Usage:           "Hydrologie, environnement, risques inondation",
		BBoxRecommended: true,
		UpdateFrequency: "Continue",
	},
	{
		ID:              "BDTOPO_V3:troncon_de_cours_d_eau",
		Title:           "Cours d'eau",
		Description:     "Réseau hydrographique linéaire (rivières, fleuves)",
		Category:        "Hydrographie",
		GeometryType:    "LineString",
		FeatureCount:    "~500000",
		Attributes:      []string{"nom", "classe", "largeur", "position_par_rapport_au_sol"},
		CRS:             []string{"EPSG:4326", "EPSG:2154", "EPSG:3857"},
		Usage:           "Bassins versants, hydrologie, environnement",
		BBoxRecommended: true,
		UpdateFrequency: "Continue",
	},
	{
		ID:              "BDTOPO_V3:zone_de_vegetation",
		Title:           "Zones de végétation",
		Description:     "Zones arborées, forêts, haies",
		Category:        "Végétation",
		GeometryType:    "Polygon",
		FeatureCount:    "~2 millions",
		Attributes:      []string{"nature"},
		CRS:             []string{"EPSG:4326", "EPSG:2154", "EPSG:3857"},
		Usage:           "Environnement, biodiversité, foresterie",
		BBoxRecommended: true,
		UpdateFrequency: "Continue",
	},
	{
		ID:              "CADASTRALPARCELS.PARCELLAIRE_EXPRESS:parcelle",
		Title:           "Parcelles cadastrales",
		Description:     "Parcelles cadastrales Plan Cadastral Informatisé (PCI)",
		Category:        "Cadastre",
		GeometryType:    "Polygon",
		FeatureCount:    "~100 millions",
		Attributes:      []string{"numero", "section", "prefixe", "commune", "contenance"},
		CRS:             []string{"EPSG:4326", "EPSG:2154", "EPSG:3857"},
		Usage:           "Foncier, urbanisme, immobilier, fiscalité",
		BBoxRecommended: true,
		MaxFeatures:     500,
		UpdateFrequency: "Trimestrielle",
	},
}

// catalogEntries returns the curated entries for a service type: "wmts",
// "wfs", "wms" or "all". The WMS catalog mirrors the WMTS one, the same
// layers are served both ways.
func catalogEntries(serviceType string) []CatalogEntry {
	var entries []CatalogEntry
	appendService := func(source []CatalogEntry, service string) {
		for _, entry := range source {
			entry.Service = service
			entries = append(entries, entry)
		}
	}
	switch serviceType {
	case "wmts":
		appendService(wmtsCatalog, "WMTS")
	case "wfs":
		appendService(wfsCatalog, "WFS")
	case "wms":
		appendService(wmtsCatalog, "WMS")
	default:
		appendService(wmtsCatalog, "WMTS")
		appendService(wfsCatalog, "WFS")
		appendService(wmtsCatalog, "WMS")
	}
	return entries
}

// DescribeLayer looks up one curated layer by its identifier across all
// services.
func DescribeLayer(layerID string) (CatalogEntry, bool) {
	for _, entry := range catalogEntries("all") {
		if entry.ID == layerID {
			return entry, true
		}
	}
	return CatalogEntry{}, false
}

// SearchCatalog filters curated layers by a case-insensitive keyword over
// identifier, title, description and category.
func SearchCatalog(query, serviceType string) []CatalogEntry {
	needle := strings.ToLower(query)
	var matches []CatalogEntry
	for _, entry := range catalogEntries(serviceType) {
		searchable := strings.ToLower(entry.ID + " " + entry.Title + " " + entry.Description + " " + entry.Category)
		if strings.Contains(searchable, needle) {
			matches = append(matches, entry)
		}
	}
	return matches
}

// LayersByCategory returns the curated layers of one category.
func LayersByCategory(category, serviceType string) []CatalogEntry {
	var matches []CatalogEntry
	for _, entry := range catalogEntries(serviceType) {
		if entry.Category == category {
			matches = append(matches, entry)
		}
	}
	return matches
}

// Categories lists the catalog categories in sorted order.
func Categories() []string {
	seen := make(map[string]bool)
	var categories []string
	for _, entry := range catalogEntries("all") {
		if !seen[entry.Category] {
			seen[entry.Category] = true
			categories = append(categories, entry.Category)
		}
	}
	sort.Strings(categories)
	return categories
}
