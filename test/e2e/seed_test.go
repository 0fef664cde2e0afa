//go:build e2e

package e2e

import (
	"testing"
)

// Seed rows use an e2e- prefix so they can live next to real catalogue data.

func seedCatalogue(t testing.TB) {
	t.Helper()
	exec(t, pg.DB,
		`CREATE TABLE IF NOT EXISTS car_model_variants (
			variant_id TEXT PRIMARY KEY,
			model_id TEXT NOT NULL,
			brand TEXT, model TEXT, variant TEXT, body_type TEXT,
			performance_and_fuel_economy_fuel_type TEXT,
			engine_and_transmission_transmission TEXT,
			engine_and_transmission_drive_type TEXT,
			engine_and_transmission_10000_power TEXT,
			interior_dimensions_seating_capacity TEXT,
			interior_dimensions_boot_space TEXT,
			safety_and_security_global_ncap_safety_rating TEXT,
			safety_and_security_no_of_airbags TEXT,
			adas_feature_automatic_emergency_braking TEXT,
			safety_and_security_blind_spot_monitor TEXT,
			adas_feature_blind_spot_collision_avoidance_assist TEXT,
			safety_and_security_electronic_stability_program_esp TEXT,
			safety_and_security_anti_lock_braking_system_abs TEXT,
			comfort_and_convenience_sunroof TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS car_model_variants_prices (
			variant_id TEXT NOT NULL,
			city TEXT,
			ex_showroom_price TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS car_final (
			model_id TEXT NOT NULL,
			model TEXT, brand TEXT, body_type TEXT,
			primary_image_url TEXT, secondary_image_urls TEXT, brochure_url TEXT,
			color_options TEXT, color_image_urls TEXT, brief_info TEXT,
			rating NUMERIC, fuel_options TEXT, fuel TEXT, hp TEXT, cc TEXT,
			starting_price NUMERIC,
			variant_id TEXT, variant TEXT,
			specifications JSONB, prices JSONB
		)`,
		`DELETE FROM car_model_variants WHERE variant_id LIKE 'e2e-%'`,
		`DELETE FROM car_model_variants_prices WHERE variant_id LIKE 'e2e-%'`,
		`DELETE FROM car_final WHERE model_id LIKE 'e2e-%'`,
		`INSERT INTO car_model_variants VALUES
			('e2e-creta-sx', 'e2e-creta', 'Hyundai', 'Creta', 'SX', 'SUV', 'Petrol', 'Automatic', 'FWD',
			 '113.18bhp@6300rpm', '5', '433 Litres', '5 Star', '6', 'Yes', 'Yes', 'No', 'Yes', 'Yes', 'Panoramic'),
			('e2e-verna-sx', 'e2e-verna', 'Hyundai', 'Verna', 'SX', 'Sedan', 'Petrol', 'Manual', 'FWD',
			 '113.18bhp@6300rpm', '5', '528 Litres', '5 Star', '6', 'No', 'No', 'No', 'Yes', 'Yes', 'No')`,
		`INSERT INTO car_model_variants_prices VALUES
			('e2e-creta-sx', 'pune', 'Rs. 15.5 Lakh'),
			('e2e-creta-sx', 'delhi', 'Rs.15,20,000'),
			('e2e-verna-sx', 'pune', 'Rs. 13 Lakh')`,
		`INSERT INTO car_final VALUES
			('e2e-creta', 'Creta', 'Hyundai', 'SUV', '', '', '', 'White', '', 'Mid-size SUV',
			 4.5, 'Petrol, Diesel', 'Petrol', '113', '1497', 1100000,
			 'e2e-creta-sx', 'SX', '{"engine": "1497 cc"}', '{"pune": "Rs. 15.5 Lakh"}')`,
	)
	t.Cleanup(func() {
		exec(t, pg.DB,
			`DELETE FROM car_model_variants WHERE variant_id LIKE 'e2e-%'`,
			`DELETE FROM car_model_variants_prices WHERE variant_id LIKE 'e2e-%'`,
			`DELETE FROM car_final WHERE model_id LIKE 'e2e-%'`,
		)
	})
}

func seedDriveBot(t testing.TB) {
	t.Helper()
	exec(t, pg.DB,
		`CREATE TABLE IF NOT EXISTS car_drivebot (
			brand TEXT, model TEXT, variant TEXT, body_type TEXT, fuel_type TEXT, price NUMERIC
		)`,
		`DELETE FROM car_drivebot WHERE variant = 'e2e'`,
		`INSERT INTO car_drivebot VALUES ('Hyundai', 'Creta', 'e2e', 'SUV', 'Petrol', 1100000)`,
	)
	t.Cleanup(func() {
		exec(t, pg.DB, `DELETE FROM car_drivebot WHERE variant = 'e2e'`)
	})
}

func seedFuelPrices(t testing.TB) {
	t.Helper()
	exec(t, pg.DB,
		`CREATE TABLE IF NOT EXISTS fuel_prices (
			city TEXT NOT NULL,
			fuel_type TEXT NOT NULL,
			price_date DATE NOT NULL,
			price NUMERIC(8,2) NOT NULL,
			PRIMARY KEY (city, fuel_type, price_date)
		)`,
		`DELETE FROM fuel_prices WHERE city = 'e2ecity'`,
		`INSERT INTO fuel_prices VALUES
			('e2ecity', 'petrol', CURRENT_DATE - 3, 103.9),
			('e2ecity', 'petrol', CURRENT_DATE - 2, 104.1),
			('e2ecity', 'petrol', CURRENT_DATE - 1, 104.3),
			('e2ecity', 'petrol', CURRENT_DATE, 104.5),
			('e2ecity', 'diesel', CURRENT_DATE, 90.2)`,
	)
	t.Cleanup(func() {
		exec(t, pg.DB, `DELETE FROM fuel_prices WHERE city = 'e2ecity'`)
	})
}

func ensureConsultationsTable(t testing.TB) {
	t.Helper()
	exec(t, pg.DB,
		`CREATE TABLE IF NOT EXISTS consultations (
			id UUID PRIMARY KEY,
			user_id TEXT,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			phone TEXT,
			mode TEXT NOT NULL,
			concern TEXT NOT NULL,
			budget TEXT,
			brands TEXT,
			usage TEXT,
			timeline TEXT,
			transmission TEXT,
			payment_status TEXT NOT NULL,
			payment_reference TEXT,
			created_at TIMESTAMPTZ NOT NULL
		)`,
	)
}
