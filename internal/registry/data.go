package registry

import "rdhub/pkg/domain"

// countries is the fixed reporting table. The 47 WHO AFRO member states carry
// Member=true; a handful of frequently co-reported African countries from
// other WHO regions are listed as non-members so their rows resolve and are
// then dropped by the membership filter instead of looking like typos.
var countries = []Country{
	{ID: "AGO", Name: "Angola", ISO3: "AGO", Member: true},
	{ID: "DZA", Name: "Algeria", ISO3: "DZA", Member: true},
	{ID: "BEN", Name: "Benin", ISO3: "BEN", Member: true},
	{ID: "BWA", Name: "Botswana", ISO3: "BWA", Member: true},
	{ID: "BFA", Name: "Burkina Faso", ISO3: "BFA", Member: true},
	{ID: "BDI", Name: "Burundi", ISO3: "BDI", Member: true},
	{ID: "CPV", Name: "Cabo Verde", ISO3: "CPV", Member: true},
	{ID: "CMR", Name: "Cameroon", ISO3: "CMR", Member: true},
	{ID: "CAF", Name: "Central African Republic", ISO3: "CAF", Member: true},
	{ID: "TCD", Name: "Chad", ISO3: "TCD", Member: true},
	{ID: "COM", Name: "Comoros", ISO3: "COM", Member: true},
	{ID: "COG", Name: "Congo", ISO3: "COG", Member: true},
	{ID: "CIV", Name: "Côte d'Ivoire", ISO3: "CIV", Member: true},
	{ID: "COD", Name: "Democratic Republic of the Congo", ISO3: "COD", Member: true},
	{ID: "GNQ", Name: "Equatorial Guinea", ISO3: "GNQ", Member: true},
	{ID: "ERI", Name: "Eritrea", ISO3: "ERI", Member: true},
	{ID: "SWZ", Name: "Eswatini", ISO3: "SWZ", Member: true},
	{ID: "ETH", Name: "Ethiopia", ISO3: "ETH", Member: true},
	{ID: "GAB", Name: "Gabon", ISO3: "GAB", Member: true},
	{ID: "GMB", Name: "Gambia", ISO3: "GMB", Member: true},
	{ID: "GHA", Name: "Ghana", ISO3: "GHA", Member: true},
	{ID: "GIN", Name: "Guinea", ISO3: "GIN", Member: true},
	{ID: "GNB", Name: "Guinea-Bissau", ISO3: "GNB", Member: true},
	{ID: "KEN", Name: "Kenya", ISO3: "KEN", Member: true},
	{ID: "LSO", Name: "Lesotho", ISO3: "LSO", Member: true},
	{ID: "LBR", Name: "Liberia", ISO3: "LBR", Member: true},
	{ID: "MDG", Name: "Madagascar", ISO3: "MDG", Member: true},
	{ID: "MWI", Name: "Malawi", ISO3: "MWI", Member: true},
	{ID: "MLI", Name: "Mali", ISO3: "MLI", Member: true},
	{ID: "MRT", Name: "Mauritania", ISO3: "MRT", Member: true},
	{ID: "MUS", Name: "Mauritius", ISO3: "MUS", Member: true},
	{ID: "MOZ", Name: "Mozambique", ISO3: "MOZ", Member: true},
	{ID: "NAM", Name: "Namibia", ISO3: "NAM", Member: true},
	{ID: "NER", Name: "Niger", ISO3: "NER", Member: true},
	{ID: "NGA", Name: "Nigeria", ISO3: "NGA", Member: true},
	{ID: "RWA", Name: "Rwanda", ISO3: "RWA", Member: true},
	{ID: "STP", Name: "Sao Tome and Principe", ISO3: "STP", Member: true},
	{ID: "SEN", Name: "Senegal", ISO3: "SEN", Member: true},
	{ID: "SYC", Name: "Seychelles", ISO3: "SYC", Member: true},
	{ID: "SLE", Name: "Sierra Leone", ISO3: "SLE", Member: true},
	{ID: "ZAF", Name: "South Africa", ISO3: "ZAF", Member: true},
	{ID: "SSD", Name: "South Sudan", ISO3: "SSD", Member: true},
	{ID: "TZA", Name: "United Republic of Tanzania", ISO3: "TZA", Member: true},
	{ID: "TGO", Name: "Togo", ISO3: "TGO", Member: true},
	{ID: "UGA", Name: "Uganda", ISO3: "UGA", Member: true},
	{ID: "ZMB", Name: "Zambia", ISO3: "ZMB", Member: true},
	{ID: "ZWE", Name: "Zimbabwe", ISO3: "ZWE", Member: true},

	// African countries reported in the same source files but belonging to
	// other WHO regions (EMRO). Resolvable, never aggregated.
	{ID: "EGY", Name: "Egypt", ISO3: "EGY", Member: false},
	{ID: "LBY", Name: "Libya", ISO3: "LBY", Member: false},
	{ID: "MAR", Name: "Morocco", ISO3: "MAR", Member: false},
	{ID: "SDN", Name: "Sudan", ISO3: "SDN", Member: false},
	{ID: "SOM", Name: "Somalia", ISO3: "SOM", Member: false},
	{ID: "TUN", Name: "Tunisia", ISO3: "TUN", Member: false},
	{ID: "DJI", Name: "Djibouti", ISO3: "DJI", Member: false},
}

// aliases maps the raw spellings seen in source files to canonical IDs.
// One declarative table, validated for ambiguity in New; never patched at
// runtime.
var aliases = map[string]domain.CountryID{
	"Cote d'Ivoire":                    "CIV",
	"Cote dIvoire":                     "CIV",
	"Ivory Coast":                      "CIV",
	"Cape Verde":                       "CPV",
	"Congo (Brazzaville)":              "COG",
	"Republic of the Congo":            "COG",
	"Congo, Rep.":                      "COG",
	"Congo (Kinshasa)":                 "COD",
	"Democratic Republic of Congo":     "COD",
	"DR Congo":                         "COD",
	"Congo, Dem. Rep.":                 "COD",
	"Central African Rep.":             "CAF",
	"Swaziland":                        "SWZ",
	"Tanzania":                         "TZA",
	"Tanzania (United Republic of)":    "TZA",
	"The Gambia":                       "GMB",
	"Gambia, The":                      "GMB",
	"Guinea Bissau":                    "GNB",
	"Sao Tome & Principe":              "STP",
	"São Tomé and Príncipe":            "STP",
	"Sao Tome and Principe (the)":      "STP",
	"South Sudan (Republic of)":        "SSD",
	"United Republic of Tanzania (the)": "TZA",
}
