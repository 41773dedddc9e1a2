package invoice

import "strings"

const (
	EOBIByAttendance = "attendance"
	EOBIByHeadcount  = "pob"
)

// KPKLine is one row of a KPK sales tax invoice. When Rate and Attendance are both set the
// amount is derived from them, otherwise Amount is taken as entered.
type KPKLine struct {
	Description string   `json:"description"`
	Rate        *float64 `json:"rate,omitempty"`
	Attendance  *int     `json:"attendance,omitempty"`
	POB         *int     `json:"pob,omitempty"`
	Amount      float64  `json:"amount"`
}

func (l KPKLine) amount() float64 {
	if l.Rate != nil && l.Attendance != nil {
		return *l.Rate * float64(*l.Attendance)
	}
	return l.Amount
}

type KPKInput struct {
	Lines      []KPKLine `json:"lines"`
	ServiceFee float64   `json:"serviceFee"`
	EOBIBasis  string    `json:"eobiBasis,omitempty"`
	POB        int       `json:"pob,omitempty"`
	GSTPercent *float64  `json:"gstPercent,omitempty"`
}

// KPKBreakdown carries POB only on the headcount basis.
type KPKBreakdown struct {
	Lines      []KPKLine `json:"lines"`
	LaborTotal float64   `json:"laborTotal"`
	ServiceFee float64   `json:"serviceFee"`
	Attendance int       `json:"attendance"`
	EOBIBasis  string    `json:"eobiBasis"`
	EOBIRate   float64   `json:"eobiRate"`
	POB        int       `json:"pob,omitempty"`
	GSTPercent float64   `json:"gstPercent"`
	Settlement
}

// LaborLines builds the canonical skilled and unskilled rows for the given attendance.
func LaborLines(rates RateTable, skilled, unskilled int) []KPKLine {
	skilledRate, unskilledRate := rates.SkilledRate, rates.UnskilledRate
	return []KPKLine{
		{Description: "Skilled Labors", Rate: &skilledRate, Attendance: &skilled},
		{Description: "Unskilled Labors", Rate: &unskilledRate, Attendance: &unskilled},
	}
}

func (in KPKInput) Validate() error {
	if len(in.Lines) == 0 {
		return invalid("lines", "must contain at least one line")
	}
	for i, line := range in.Lines {
		if strings.TrimSpace(line.Description) == "" {
			return invalid(indexed("lines", i, "description"), "is required")
		}
		if line.Rate != nil {
			if err := checkAmount(indexed("lines", i, "rate"), *line.Rate); err != nil {
				return err
			}
		}
		if line.Attendance != nil && *line.Attendance < 0 {
			return invalid(indexed("lines", i, "attendance"), "must not be negative")
		}
		if line.POB != nil && *line.POB < 0 {
			return invalid(indexed("lines", i, "pob"), "must not be negative")
		}
		if err := checkAmount(indexed("lines", i, "amount"), line.Amount); err != nil {
			return err
		}
	}
	if err := checkAmount("serviceFee", in.ServiceFee); err != nil {
		return err
	}
	switch in.EOBIBasis {
	case "", EOBIByAttendance:
	case EOBIByHeadcount:
		if in.POB < 0 {
			return invalid("pob", "must not be negative")
		}
	default:
		return invalid("eobiBasis", "must be attendance or pob")
	}
	return checkGSTPercent(in.GSTPercent)
}

// KPK prices a KPK sales tax invoice. The sub total is the service fee followed by each line
// in order, which for LaborLines reproduces CalculateInvoiceTotal exactly.
func (c Calculator) KPK(in KPKInput) KPKBreakdown {
	out := KPKBreakdown{
		Lines:      make([]KPKLine, len(in.Lines)),
		ServiceFee: in.ServiceFee,
		EOBIBasis:  in.EOBIBasis,
		EOBIRate:   c.rates.EOBIRate,
		GSTPercent: c.rates.GSTPercent(in.GSTPercent),
	}
	if out.EOBIBasis == "" {
		out.EOBIBasis = EOBIByAttendance
	}

	subTotal := in.ServiceFee
	for i, line := range in.Lines {
		line.Amount = line.amount()
		out.Lines[i] = line
		out.LaborTotal += line.Amount
		subTotal += line.Amount
		if line.Attendance != nil {
			out.Attendance += *line.Attendance
		}
	}

	var eobi float64
	if out.EOBIBasis == EOBIByHeadcount {
		out.POB = in.POB
		eobi = c.EOBIForHeadcount(in.POB)
	} else {
		eobi = c.EOBIForAttendance(out.Attendance)
	}

	out.Settlement = c.Settle(subTotal, eobi, c.rates.GSTFraction(in.GSTPercent))
	return out
}
