package invoice

import "strings"

type ProjectType string

const (
	ProjectWeedGrassCutting     ProjectType = "weed-grass-cutting"
	ProjectDrainChannelCleaning ProjectType = "drain-channel-cleaning"
	ProjectPPESupply            ProjectType = "ppe-supply"
	ProjectGeneralConstruction  ProjectType = "general-construction"
	ProjectSecurityServices     ProjectType = "security-services"
)

var projectTitles = map[ProjectType]string{
	ProjectWeedGrassCutting:     "Weed and Grass Cutting",
	ProjectDrainChannelCleaning: "Drain Channel Cleaning",
	ProjectPPESupply:            "PPE's Supply",
	ProjectGeneralConstruction:  "General Construction",
	ProjectSecurityServices:     "Security Services",
}

func (t ProjectType) Valid() bool {
	_, ok := projectTitles[t]
	return ok
}

func (t ProjectType) Title() string {
	return projectTitles[t]
}

// ProjectTypes lists the supported project types in display order.
func ProjectTypes() []ProjectType {
	return []ProjectType{
		ProjectWeedGrassCutting,
		ProjectDrainChannelCleaning,
		ProjectPPESupply,
		ProjectGeneralConstruction,
		ProjectSecurityServices,
	}
}

type ProjectItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Rate        float64 `json:"rate"`
	Amount      float64 `json:"amount"`
}

type ProjectInput struct {
	Type            ProjectType   `json:"projectType"`
	Round           string        `json:"round,omitempty"`
	Items           []ProjectItem `json:"items"`
	LocalManagement ProjectItem   `json:"localManagement"`
	GSTPercent      *float64      `json:"gstPercent,omitempty"`
}

type ProjectBreakdown struct {
	Items           []ProjectItem `json:"items"`
	ItemsTotal      float64       `json:"itemsTotal"`
	LocalManagement ProjectItem   `json:"localManagement"`
	GSTPercent      float64       `json:"gstPercent"`
	Settlement
}

func (in ProjectInput) Validate() error {
	if !in.Type.Valid() {
		return invalid("projectType", "is not a supported project type")
	}
	if len(in.Items) == 0 {
		return invalid("items", "must contain at least one item")
	}
	for i, item := range in.Items {
		if strings.TrimSpace(item.Description) == "" {
			return invalid(indexed("items", i, "description"), "is required")
		}
		if err := checkAmount(indexed("items", i, "quantity"), item.Quantity); err != nil {
			return err
		}
		if err := checkAmount(indexed("items", i, "rate"), item.Rate); err != nil {
			return err
		}
	}
	if err := checkAmount("localManagement.quantity", in.LocalManagement.Quantity); err != nil {
		return err
	}
	if err := checkAmount("localManagement.rate", in.LocalManagement.Rate); err != nil {
		return err
	}
	return checkGSTPercent(in.GSTPercent)
}

// Project prices a project invoice: items plus a local management line, no EOBI.
func (c Calculator) Project(in ProjectInput) ProjectBreakdown {
	out := ProjectBreakdown{
		Items:      make([]ProjectItem, len(in.Items)),
		GSTPercent: c.rates.GSTPercent(in.GSTPercent),
	}
	for i, item := range in.Items {
		item.Amount = item.Quantity * item.Rate
		out.Items[i] = item
		out.ItemsTotal += item.Amount
	}
	out.LocalManagement = in.LocalManagement
	if out.LocalManagement.Description == "" {
		out.LocalManagement.Description = "Local Management"
	}
	out.LocalManagement.Amount = in.LocalManagement.Quantity * in.LocalManagement.Rate

	subTotal := out.ItemsTotal + out.LocalManagement.Amount
	out.Settlement = c.Settle(subTotal, 0, c.rates.GSTFraction(in.GSTPercent))
	return out
}

// ServiceDescription is the stored service line for a project invoice, e.g.
// "Weed and Grass Cutting (Round-1)".
func (in ProjectInput) ServiceDescription() string {
	title := in.Type.Title()
	if round := strings.TrimSpace(in.Round); round != "" {
		return title + " (" + round + ")"
	}
	return title
}
