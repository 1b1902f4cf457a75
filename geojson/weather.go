package geojson

import "bmkg-weather-api/models"

// BuildWeatherData normalizes a raw station payload into the typed
// observation variant for its instrument class. Unknown types get the
// full aws treatment, matching the portal's own default rendering.
func BuildWeatherData(rec Record, stationType string) models.Observation {
	battery := rec.float("batt_volt")

	switch stationType {
	case models.TypeARG:
		return models.RainObservation{
			Battery:  battery,
			Rainfall: rec.float("rr"),
		}

	case models.TypeSoil:
		return models.SoilObservation{
			Battery: battery,
			SWC:     rec.float("swc"),
			SoilMoisture: models.SoilMoisture{
				// Older loggers report sm10..sm100 without the underscore.
				SM10:  rec.float("sm_10", "sm10"),
				SM20:  rec.float("sm_20", "sm20"),
				SM30:  rec.float("sm_30", "sm30"),
				SM40:  rec.float("sm_40", "sm40"),
				SM60:  rec.float("sm_60", "sm60"),
				SM100: rec.float("sm_100", "sm100"),
			},
			SoilTemperature: models.SoilTemperature{
				TS10:  rec.float("ts10"),
				TS20:  rec.float("ts20"),
				TS30:  rec.float("ts30"),
				TS40:  rec.float("ts40"),
				TS60:  rec.float("ts60"),
				TS100: rec.float("ts100"),
			},
		}

	case models.TypeIklimmikro:
		return models.MicroClimateObservation{
			Battery:  battery,
			Level4m:  buildClimateLevel(rec, "4m"),
			Level7m:  buildClimateLevel(rec, "7m"),
			Level10m: buildClimateLevel(rec, "10m"),
		}

	case models.TypeASRS:
		return models.SolarObservation{
			Battery:                battery,
			DiffuseRadiation:       rec.float("diffuse_rad_round"),
			GlobalRadiation:        rec.float("global_rad_round"),
			DirectNormalIrradiance: rec.float("dni_rad_round"),
			ReflectedRadiation:     rec.float("reflected_rad_round"),
			NetRadiation:           rec.float("nett_rad_round"),
			SunshineMinutes:        rec.float("sunshine_minutes"),
		}
	}

	// aws and aaws share the full sensor set; aaws additionally
	// reports PAR and 2m wind, null on plain aws stations.
	return models.AWSObservation{
		Battery:           battery,
		Temperature:       rec.float("tt_air_avg", "t"),
		TemperatureMax:    rec.float("tt_air_max", "tx"),
		TemperatureMin:    rec.float("tt_air_min", "tn"),
		Humidity:          rec.float("rh_avg", "rh"),
		Rainfall:          rec.float("rr"),
		Pressure:          rec.float("pp_air"),
		SolarRadiation:    rec.float("sr_avg"),
		SolarRadiationMax: rec.float("sr_max"),
		WindSpeed:         rec.float("ws_avg"),
		WindSpeedMax:      rec.float("ws_max", "ff_x"),
		WindDirection:     rec.float("wd_avg"),
		WaterLevel:        rec.float("wl"),
		PAR:               rec.float("par"),
		WindSpeed2m:       rec.float("ws_2m"),
	}
}

// buildClimateLevel extracts one measurement level (4m, 7m, or 10m) of
// a micro climate mast; the three levels are structurally identical.
func buildClimateLevel(rec Record, level string) models.ClimateLevel {
	return models.ClimateLevel{
		Temperature:    rec.float("tt_" + level),
		TemperatureMin: rec.float("tt_min_" + level),
		TemperatureAvg: rec.float("tt_avg_" + level),
		TemperatureMax: rec.float("tt_max_" + level),
		Humidity:       rec.float("rh_" + level),
		HumidityMin:    rec.float("rh_min_" + level),
		HumidityAvg:    rec.float("rh_avg_" + level),
		HumidityMax:    rec.float("rh_max_" + level),
		WindSpeed:      rec.float("ws_" + level),
		WindSpeedMin:   rec.float("ws_min_" + level),
		WindSpeedAvg:   rec.float("ws_avg_" + level),
		WindSpeedMax:   rec.float("ws_max_" + level),
		WindDirection:  rec.float("wd_"+level, "wd_avg_"+level),
	}
}
