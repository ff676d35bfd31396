package core

const (
	CategoryHousing   SystemCategory = "HOUSING"
	CategoryGroceries SystemCategory = "GROCERIES"
	CategoryTransport SystemCategory = "TRANSPORT"
	CategoryHealth    SystemCategory = "HEALTH"
	CategoryLeisure   SystemCategory = "LEISURE"
	CategorySalary    SystemCategory = "SALARY"
	CategoryUtilities SystemCategory = "UTILITIES"
	CategoryEducation SystemCategory = "EDUCATION"
	CategoryOther     SystemCategory = "OTHER"
)

// UncategorizedLabel is the label reported for transactions with no category.
const UncategorizedLabel = "uncategorized"

type (
	SystemCategory string

	// Category is either a built-in system category or a reference to a
	// user-defined one, resolved through a CategoryLabels table. Exactly
	// one of the two fields is set; the zero value means uncategorized.
	Category struct {
		System SystemCategory `json:"system,omitempty"`
		Custom string         `json:"custom,omitempty"`
	}

	// CategoryLabels maps custom category IDs to display labels.
	CategoryLabels map[string]string
)

var systemCategoryLabels = map[SystemCategory]string{
	CategoryHousing:   "Housing",
	CategoryGroceries: "Groceries",
	CategoryTransport: "Transport",
	CategoryHealth:    "Health",
	CategoryLeisure:   "Leisure",
	CategorySalary:    "Salary",
	CategoryUtilities: "Utilities",
	CategoryEducation: "Education",
	CategoryOther:     "Other",
}

// SystemCategoryOf returns the system category for a raw value, if known.
func SystemCategoryOf(v string) (SystemCategory, bool) {
	sc := SystemCategory(v)
	_, ok := systemCategoryLabels[sc]
	return sc, ok
}

func (c Category) IsZero() bool {
	return c.System == "" && c.Custom == ""
}

// Key returns a stable grouping key. System and custom categories live in
// disjoint keyspaces so a custom ID can never shadow a system category.
func (c Category) Key() string {
	switch {
	case c.System != "":
		return "sys:" + string(c.System)
	case c.Custom != "":
		return "cus:" + c.Custom
	default:
		return UncategorizedLabel
	}
}

// Label resolves the display label. Custom categories missing from the
// table fall back to their raw ID rather than disappearing.
func (c Category) Label(labels CategoryLabels) string {
	switch {
	case c.System != "":
		if l, ok := systemCategoryLabels[c.System]; ok {
			return l
		}
		return string(c.System)
	case c.Custom != "":
		if l, ok := labels[c.Custom]; ok && l != "" {
			return l
		}
		return c.Custom
	default:
		return UncategorizedLabel
	}
}
