package invoice

import (
	"encoding/json"
	"strconv"
	"strings"
)

type FieldType string

const (
	FieldText       FieldType = "text"
	FieldNumber     FieldType = "number"
	FieldSelect     FieldType = "select"
	FieldCalculated FieldType = "calculated"
)

type Op string

const (
	OpMultiply Op = "multiply"
	OpAdd      Op = "add"
	OpSubtract Op = "subtract"
	OpDivide   Op = "divide"
)

// Formula combines two other fields of the same line. Operands that are missing or not
// numeric count as zero, and division by zero yields zero.
type Formula struct {
	Op    Op     `json:"op"`
	Left  string `json:"left"`
	Right string `json:"right"`
}

func (f Formula) Apply(left, right float64) float64 {
	switch f.Op {
	case OpMultiply:
		return left * right
	case OpAdd:
		return left + right
	case OpSubtract:
		return left - right
	case OpDivide:
		if right == 0 {
			return 0
		}
		return left / right
	}
	return 0
}

type Field struct {
	ID      string    `json:"id"`
	Label   string    `json:"label"`
	Type    FieldType `json:"type"`
	Default any       `json:"default,omitempty"`
	Options []string  `json:"options,omitempty"`
	Formula *Formula  `json:"formula,omitempty"`
}

type DynamicLine struct {
	Values map[string]any `json:"values"`
}

type DynamicInput struct {
	ContractType        string        `json:"contractType"`
	Fields              []Field       `json:"fields"`
	Lines               []DynamicLine `json:"lines"`
	LocalManagementRate float64       `json:"localManagementRate"`
	GSTPercent          *float64      `json:"gstPercent,omitempty"`
}

type DynamicLineResult struct {
	Values      map[string]any `json:"values"`
	Description string         `json:"description"`
	Amount      float64        `json:"amount"`
}

type DynamicBreakdown struct {
	Fields              []Field             `json:"fields"`
	Lines               []DynamicLineResult `json:"lines"`
	LinesTotal          float64             `json:"linesTotal"`
	LocalManagementRate float64             `json:"localManagementRate"`
	LocalManagement     float64             `json:"localManagement"`
	GSTPercent          float64             `json:"gstPercent"`
	Settlement
}

func (in DynamicInput) Validate() error {
	if strings.TrimSpace(in.ContractType) == "" {
		return invalid("contractType", "is required")
	}
	if len(in.Fields) == 0 {
		return invalid("fields", "must contain at least one field")
	}
	ids := make(map[string]bool, len(in.Fields))
	calculated := 0
	for i, field := range in.Fields {
		if strings.TrimSpace(field.ID) == "" {
			return invalid(indexed("fields", i, "id"), "is required")
		}
		if ids[field.ID] {
			return invalid(indexed("fields", i, "id"), "is duplicated")
		}
		ids[field.ID] = true
		switch field.Type {
		case FieldText, FieldNumber, FieldSelect:
		case FieldCalculated:
			calculated++
			if field.Formula == nil {
				return invalid(indexed("fields", i, "formula"), "is required for calculated fields")
			}
			switch field.Formula.Op {
			case OpMultiply, OpAdd, OpSubtract, OpDivide:
			default:
				return invalid(indexed("fields", i, "formula.op"), "must be multiply, add, subtract or divide")
			}
		default:
			return invalid(indexed("fields", i, "type"), "must be text, number, select or calculated")
		}
	}
	if calculated == 0 {
		return invalid("fields", "must include a calculated amount field")
	}
	for _, field := range in.Fields {
		if field.Formula == nil {
			continue
		}
		for _, operand := range []string{field.Formula.Left, field.Formula.Right} {
			if !ids[operand] {
				return invalid("fields."+field.ID+".formula", "references unknown field "+strconv.Quote(operand))
			}
		}
	}
	if len(in.Lines) == 0 {
		return invalid("lines", "must contain at least one line")
	}
	for i, line := range in.Lines {
		for _, field := range in.Fields {
			if field.Type != FieldNumber {
				continue
			}
			raw, ok := line.Values[field.ID]
			if !ok {
				continue
			}
			value, ok := numeric(raw)
			if !ok {
				return invalid(indexed("lines", i, field.ID), "must be a number")
			}
			if err := checkAmount(indexed("lines", i, field.ID), value); err != nil {
				return err
			}
		}
	}
	if err := checkAmount("localManagementRate", in.LocalManagementRate); err != nil {
		return err
	}
	return checkGSTPercent(in.GSTPercent)
}

// Dynamic prices a contract invoice with user defined columns. The amount of a line is its
// first calculated field; local management is charged once per line.
func (c Calculator) Dynamic(in DynamicInput) DynamicBreakdown {
	out := DynamicBreakdown{
		Fields:              in.Fields,
		Lines:               make([]DynamicLineResult, len(in.Lines)),
		LocalManagementRate: in.LocalManagementRate,
		GSTPercent:          c.rates.GSTPercent(in.GSTPercent),
	}
	amountField := ""
	for _, field := range in.Fields {
		if field.Type == FieldCalculated {
			amountField = field.ID
			break
		}
	}

	for i, line := range in.Lines {
		values := evaluateLine(in.Fields, line.Values)
		amount, _ := numeric(values[amountField])
		out.Lines[i] = DynamicLineResult{Values: values, Description: describeLine(in.Fields, values), Amount: amount}
		out.LinesTotal += amount
	}

	out.LocalManagement = in.LocalManagementRate * float64(len(in.Lines))
	subTotal := out.LinesTotal + out.LocalManagement
	out.Settlement = c.Settle(subTotal, 0, c.rates.GSTFraction(in.GSTPercent))
	return out
}

// evaluateLine fills calculated fields in declaration order so later formulas can use
// earlier results.
func evaluateLine(fields []Field, input map[string]any) map[string]any {
	values := make(map[string]any, len(fields))
	for _, field := range fields {
		if raw, ok := input[field.ID]; ok {
			values[field.ID] = raw
		} else if field.Default != nil {
			values[field.ID] = field.Default
		}
	}
	for _, field := range fields {
		if field.Type != FieldCalculated || field.Formula == nil {
			continue
		}
		left, _ := numeric(values[field.Formula.Left])
		right, _ := numeric(values[field.Formula.Right])
		values[field.ID] = field.Formula.Apply(left, right)
	}
	return values
}

func describeLine(fields []Field, values map[string]any) string {
	var parts []string
	for _, field := range fields {
		switch field.Type {
		case FieldText, FieldSelect:
			if text, ok := values[field.ID].(string); ok && strings.TrimSpace(text) != "" {
				parts = append(parts, strings.TrimSpace(text))
			}
		case FieldNumber:
			if number, ok := numeric(values[field.ID]); ok {
				parts = append(parts, field.Label+": "+strconv.FormatFloat(number, 'f', -1, 64))
			}
		}
	}
	return strings.Join(parts, " | ")
}

func numeric(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	return 0, false
}

// ContractPreset is the starting column layout offered for a contract type.
type ContractPreset struct {
	ContractType        string  `json:"contractType"`
	Fields              []Field `json:"fields"`
	LocalManagementRate float64 `json:"localManagementRate"`
}

func defaultFields() []Field {
	return []Field{
		{ID: "description", Label: "Description", Type: FieldText, Default: ""},
		{ID: "quantity", Label: "Quantity", Type: FieldNumber, Default: 1.0},
		{ID: "rate", Label: "Rate (PKR)", Type: FieldNumber, Default: 0.0},
		{ID: "amount", Label: "Amount", Type: FieldCalculated, Formula: &Formula{Op: OpMultiply, Left: "quantity", Right: "rate"}},
	}
}

// ContractPresets returns fresh copies so callers may edit the fields.
func ContractPresets() []ContractPreset {
	weed := defaultFields()
	weed[0].Label = "Location/Description"
	weed[2].Default = WeedCuttingSiteRate

	return []ContractPreset{
		{ContractType: ProjectWeedGrassCutting.Title(), Fields: weed, LocalManagementRate: WeedCuttingLocalManagementRate},
		{ContractType: ProjectDrainChannelCleaning.Title(), Fields: []Field{
			{ID: "location", Label: "Channel Location", Type: FieldText, Default: ""},
			{ID: "length", Label: "Length (meters)", Type: FieldNumber, Default: 0.0},
			{ID: "rate_per_meter", Label: "Rate per Meter", Type: FieldNumber, Default: 500.0},
			{ID: "total_cost", Label: "Total Cost", Type: FieldCalculated, Formula: &Formula{Op: OpMultiply, Left: "length", Right: "rate_per_meter"}},
		}, LocalManagementRate: WeedCuttingLocalManagementRate},
		{ContractType: ProjectPPESupply.Title(), Fields: []Field{
			{ID: "equipment_name", Label: "Equipment Name", Type: FieldText, Default: ""},
			{ID: "quantity", Label: "Quantity", Type: FieldNumber, Default: 1.0},
			{ID: "unit_price", Label: "Unit Price", Type: FieldNumber, Default: 0.0},
			{ID: "total_amount", Label: "Total Amount", Type: FieldCalculated, Formula: &Formula{Op: OpMultiply, Left: "quantity", Right: "unit_price"}},
		}, LocalManagementRate: WeedCuttingLocalManagementRate},
		{ContractType: ProjectGeneralConstruction.Title(), Fields: defaultFields(), LocalManagementRate: WeedCuttingLocalManagementRate},
		{ContractType: ProjectSecurityServices.Title(), Fields: defaultFields(), LocalManagementRate: WeedCuttingLocalManagementRate},
	}
}
