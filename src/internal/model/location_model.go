package model

type LocationRequest struct {
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Address   string  `json:"address" validate:"max=255"`
}

type PlaceRequest struct {
	City string `json:"city" validate:"required,max=100"`
	LocationRequest
}

type PlaceResponse struct {
	City      string  `json:"city"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Route struct {
	Origin      LocationRequest `json:"origin"`
	Destination LocationRequest `json:"destination"`
}

type PriceSuggestionRequest struct {
	UserID      string          `json:"-" validate:"required"`
	Origin      LocationRequest `json:"origin" validate:"required"`
	Destination LocationRequest `json:"destination" validate:"required"`
}

type RouteSummary struct {
	Route             Route   `json:"route"`
	MinPrice          float64 `json:"minPrice"`
	MaxPrice          float64 `json:"maxPrice"`
	BestRouteKm       float64 `json:"bestRouteKm"`
	BestRoutePrice    float64 `json:"bestRoutePrice"`
	BestRouteDuration string  `json:"bestRouteDuration"`
	Duration          int     `json:"duration"`
}
