package tui

// Category is one section of the configuration file, edited by its own form
type Category struct {
	ID          string
	Name        string
	Description string
}

// Categories lists the editor menu entries in display order
var Categories = []Category{
	{ID: "builder", Name: "Builder", Description: "TreeFileBuilder location, arguments and workers"},
	{ID: "resolver", Name: "Resolver", Description: "Overrides and exclude patterns"},
	{ID: "output", Name: "Output", Description: "Output directory, base name and compression"},
	{ID: "cache", Name: "Cache", Description: "Capability cache behavior and TTL"},
	{ID: "logging", Name: "Logging", Description: "Log level and format"},
	{ID: "display", Name: "Display", Description: "Tree view limits"},
}

// GetCategoryByID returns the category with the given ID, or nil
func GetCategoryByID(id string) *Category {
	for i := range Categories {
		if Categories[i].ID == id {
			return &Categories[i]
		}
	}
	return nil
}
