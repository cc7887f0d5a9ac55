package domain

// Category is one of the fixed causes a donation can be allocated to.
type Category struct {
	ID          int    `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Short       string `json:"short" yaml:"short"`
	Description string `json:"description" yaml:"description"`
	Icon        string `json:"icon" yaml:"icon"`
}

// OverallFilter selects every category on the leaderboard.
const OverallFilter = "Overall"

// FindCategory returns the category with the given id.
func FindCategory(categories []Category, id int) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// FindCategoryByName returns the category with the given display name.
func FindCategoryByName(categories []Category, name string) (Category, bool) {
	for _, c := range categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}
