package inventory

// Profile describes the column layout of an inventory spreadsheet export.
// Adding a new layout is just adding a new Profile to the profiles slice.
type Profile struct {
	Name        string
	DescCol     string
	TypeCol     string // optional; empty means the type is inferred from the description
	LocationCol string // optional
	ValueCol    string
}

// requiredCols returns the column names that must be present for this profile to match.
func (p Profile) requiredCols() []string {
	cols := []string{p.DescCol, p.ValueCol}

	if p.TypeCol != "" {
		cols = append(cols, p.TypeCol)
	}

	return cols
}

// profiles is the ordered list of inventory layouts to try during auto-detection.
// More specific profiles should come first to avoid false matches.
var profiles = []Profile{
	{
		Name:        "worksheet",
		DescCol:     "Description",
		TypeCol:     "Type",
		LocationCol: "Location",
		ValueCol:    "Estimated Value",
	},
	{
		Name:     "appraisal",
		DescCol:  "Item",
		TypeCol:  "Category",
		ValueCol: "Appraised Value",
	},
	{
		Name:     "schedule",
		DescCol:  "Asset Description",
		ValueCol: "Value",
	},
}
