package form

import "github.com/farhandwi/dots/internal/domain/entity"

const defaultTypeColor = "bg-gray-100 text-gray-800"

var typeColors = map[string]string{
	entity.MaterialTypeInventory:    "bg-blue-100 text-blue-800",
	entity.MaterialTypeNonInventory: "bg-green-100 text-green-800",
	entity.MaterialTypeNonValuated:  "bg-yellow-100 text-yellow-800",
	entity.MaterialTypeService:      "bg-purple-100 text-purple-800",
}

// TypeColor returns the badge classes for a material type
func TypeColor(materialType string) string {
	if color, ok := typeColors[materialType]; ok {
		return color
	}
	return defaultTypeColor
}
