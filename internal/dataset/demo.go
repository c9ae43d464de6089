package dataset

// DemoName is the display name of the bundled demo dataset.
const DemoName = "SaaS Sales Q3-Q4"

// DemoRows returns the bundled demo rows: 15 days of SaaS sales across
// three regions and three plans. Callers run these through the analyzer to
// obtain a full Dataset.
func DemoRows() []DataRow {
	raw := []struct {
		date    string
		region  string
		product string
		sales   float64
		units   float64
	}{
		{"2023-09-01", "North America", "Enterprise Plan", 12000, 4},
		{"2023-09-02", "Europe", "Pro Plan", 4500, 15},
		{"2023-09-03", "Asia", "Basic Plan", 800, 20},
		{"2023-09-04", "North America", "Enterprise Plan", 15000, 5},
		{"2023-09-05", "Europe", "Pro Plan", 5200, 18},
		{"2023-09-06", "Asia", "Pro Plan", 3000, 10},
		{"2023-09-07", "North America", "Basic Plan", 1200, 30},
		{"2023-09-08", "Europe", "Enterprise Plan", 11000, 3},
		{"2023-09-09", "Asia", "Basic Plan", 900, 22},
		{"2023-09-10", "North America", "Pro Plan", 6000, 20},
		{"2023-09-11", "Europe", "Enterprise Plan", 13500, 4},
		{"2023-09-12", "Asia", "Enterprise Plan", 9500, 3},
		{"2023-09-13", "North America", "Pro Plan", 7200, 24},
		{"2023-09-14", "Europe", "Basic Plan", 1500, 35},
		{"2023-09-15", "Asia", "Basic Plan", 1100, 24},
	}
	rows := make([]DataRow, len(raw))
	for i, r := range raw {
		rows[i] = DataRow{
			"date":    r.date,
			"region":  r.region,
			"product": r.product,
			"sales":   r.sales,
			"units":   r.units,
		}
	}
	return rows
}

// DemoColumns returns the demo column order as it appears in the source
// file. Maps do not preserve insertion order, so the order travels
// alongside the rows.
func DemoColumns() []string {
	return []string{"date", "region", "product", "sales", "units"}
}
