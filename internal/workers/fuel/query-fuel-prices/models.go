package queryfuelprices

import "driveup-workers/internal/models"

type Input struct {
	City     string     `json:"city"`
	FuelType string     `json:"fuelType"`
	Days     int        `json:"days,omitempty"`
	Trip     *TripInput `json:"trip,omitempty"`
}

type TripInput struct {
	DistanceKm  float64 `json:"distanceKm"`
	CarType     string  `json:"carType"`
	DrivingType string  `json:"drivingType"`
	Mileage     float64 `json:"mileage,omitempty"`
}

type Output struct {
	City         string                  `json:"city"`
	FuelType     string                  `json:"fuelType"`
	Prices       []models.FuelPricePoint `json:"prices"`
	LatestPrice  *float64                `json:"latestPrice"`
	Change       *float64                `json:"change"`
	TripEstimate *TripEstimate           `json:"tripEstimate,omitempty"`
}

type TripEstimate struct {
	MileageKmpl float64 `json:"mileageKmpl"`
	Litres      float64 `json:"litres"`
	Cost        float64 `json:"cost"`
}
