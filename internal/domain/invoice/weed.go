package invoice

const (
	WeedCuttingSiteRate            = 47000.0
	WeedCuttingLocalManagementRate = 13000.0
)

// KarakBlockSites are the well sites covered by the three year weed and grass cutting contract.
var KarakBlockSites = []string{
	"Makori West-1 Well Site",
	"Makori East-2 Well Site",
	"Makori East-3 Well Site",
	"Manzalia-5 Well Site",
	"Makori East-5 Well Site",
	"Makori East-6 Well Site",
	"Makori East-VA",
	"Makori-3 Well Site",
	"Makori Deep-1 Well Site",
	"Makori Deep-2 Well Site",
	"Makori Deep-1 VA (Tie Point)",
	"Makori Deep-2 VA (Tie Point)",
}

// WeedCuttingInput is a project invoice with one line per well site. Zero rates and an
// empty site list take the contract defaults.
type WeedCuttingInput struct {
	Round               string   `json:"round,omitempty"`
	Sites               []string `json:"sites,omitempty"`
	SiteRate            float64  `json:"siteRate,omitempty"`
	LocalManagementRate float64  `json:"localManagementRate,omitempty"`
	GSTPercent          *float64 `json:"gstPercent,omitempty"`
}

func (in WeedCuttingInput) Project() ProjectInput {
	sites := in.Sites
	if len(sites) == 0 {
		sites = KarakBlockSites
	}
	siteRate := in.SiteRate
	if siteRate == 0 {
		siteRate = WeedCuttingSiteRate
	}
	mgmtRate := in.LocalManagementRate
	if mgmtRate == 0 {
		mgmtRate = WeedCuttingLocalManagementRate
	}
	round := in.Round
	if round == "" {
		round = "Round-1"
	}

	items := make([]ProjectItem, 0, len(sites))
	for _, site := range sites {
		items = append(items, ProjectItem{Description: "Cutting wild grass and weed removal: " + site, Quantity: 1, Rate: siteRate})
	}
	return ProjectInput{
		Type:            ProjectWeedGrassCutting,
		Round:           round,
		Items:           items,
		LocalManagement: ProjectItem{Description: "Local Management", Quantity: float64(len(sites)), Rate: mgmtRate},
		GSTPercent:      in.GSTPercent,
	}
}
