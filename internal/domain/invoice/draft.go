package invoice

import "time"

func settled(inv Invoice, s Settlement) Invoice {
	inv.SubTotal = s.SubTotal
	inv.EOBIAmount = s.EOBIAmount
	inv.TotalSum = s.TotalSum
	inv.GSTAmount = s.GSTAmount
	inv.TotalAmount = s.TotalAmount
	return inv
}

func KPKInvoice(header Header, b KPKBreakdown, now time.Time) Invoice {
	inv := Invoice{
		Kind:        KindKPK,
		Header:      header.withDefaults(now),
		LineItems:   make([]LineItem, 0, len(b.Lines)+1),
		ServiceFee:  b.ServiceFee,
		EOBIRate:    b.EOBIRate,
		GSTRate:     b.GSTPercent,
		GeneratedAt: now,
		UpdatedAt:   now,
	}
	if b.EOBIBasis == EOBIByHeadcount {
		pob := b.POB
		inv.EOBIPOB = &pob
	}
	for _, line := range b.Lines {
		inv.LineItems = append(inv.LineItems, LineItem{
			Description: line.Description,
			Rate:        line.Rate,
			Attendance:  line.Attendance,
			POB:         line.POB,
			Amount:      line.Amount,
		})
	}
	inv.LineItems = append(inv.LineItems, LineItem{Description: "Service Fee", Amount: b.ServiceFee})
	return settled(inv, b.Settlement)
}

func ProjectInvoice(kind Kind, header Header, in ProjectInput, b ProjectBreakdown, now time.Time) Invoice {
	header = header.withDefaults(now)
	if header.ServiceDescription == "" {
		header.ServiceDescription = in.ServiceDescription()
	}
	if header.Department == "" {
		header.Department = "Environmental Services"
	}
	inv := Invoice{
		Kind:            kind,
		Header:          header,
		LineItems:       make([]LineItem, 0, len(b.Items)+1),
		LocalManagement: b.LocalManagement.Amount,
		GSTRate:         b.GSTPercent,
		GeneratedAt:     now,
		UpdatedAt:       now,
	}
	for _, item := range append(append([]ProjectItem{}, b.Items...), b.LocalManagement) {
		quantity, rate := item.Quantity, item.Rate
		inv.LineItems = append(inv.LineItems, LineItem{
			Description: item.Description,
			Quantity:    &quantity,
			Rate:        &rate,
			Amount:      item.Amount,
		})
	}
	return settled(inv, b.Settlement)
}

func DynamicInvoice(header Header, in DynamicInput, b DynamicBreakdown, now time.Time) Invoice {
	header = header.withDefaults(now)
	if header.ServiceDescription == "" {
		header.ServiceDescription = in.ContractType
	}
	inv := Invoice{
		Kind:            KindDynamic,
		Header:          header,
		LineItems:       make([]LineItem, 0, len(b.Lines)+1),
		LocalManagement: b.LocalManagement,
		GSTRate:         b.GSTPercent,
		GeneratedAt:     now,
		UpdatedAt:       now,
	}
	for _, line := range b.Lines {
		inv.LineItems = append(inv.LineItems, LineItem{Description: line.Description, Amount: line.Amount})
	}
	count, rate := float64(len(b.Lines)), b.LocalManagementRate
	inv.LineItems = append(inv.LineItems, LineItem{
		Description: "Local Management",
		Quantity:    &count,
		Rate:        &rate,
		Amount:      b.LocalManagement,
	})
	return settled(inv, b.Settlement)
}
