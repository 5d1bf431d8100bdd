package models

// Route is a catalog entry as exposed by the API.
type Route struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Difficulty string `json:"difficulty"`
	Style      string `json:"style"`
}

// RouteList wraps the full catalog.
type RouteList struct {
	Items []Route `json:"items"`
	Total int     `json:"total"`
}

// Enums lists the accepted values for difficulty and style.
type Enums struct {
	Difficulties []string `json:"difficulties"`
	Styles       []string `json:"styles"`
}
