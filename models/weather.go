package models

// Observation is the normalized weather reading of one station. The
// concrete variant depends on the station's instrument class. Every
// numeric field is a *float64: a missing, empty, or non-numeric source
// value marshals as JSON null, never as zero and never as NaN.
type Observation interface {
	observation()
}

// AWSObservation holds the full sensor set of aws and aaws stations.
// PAR and WindSpeed2m are populated for aaws stations only.
type AWSObservation struct {
	Battery           *float64 `json:"battery"`
	Temperature       *float64 `json:"temperature"`
	TemperatureMax    *float64 `json:"temperatureMax"`
	TemperatureMin    *float64 `json:"temperatureMin"`
	Humidity          *float64 `json:"humidity"`
	Rainfall          *float64 `json:"rainfall"`
	Pressure          *float64 `json:"pressure"`
	SolarRadiation    *float64 `json:"solarRadiation"`
	SolarRadiationMax *float64 `json:"solarRadiationMax"`
	WindSpeed         *float64 `json:"windSpeed"`
	WindSpeedMax      *float64 `json:"windSpeedMax"`
	WindDirection     *float64 `json:"windDirection"`
	WaterLevel        *float64 `json:"waterLevel"`
	PAR               *float64 `json:"par"`
	WindSpeed2m       *float64 `json:"windSpeed2m"`
}

// RainObservation is the reading of an arg (rain gauge only) station.
type RainObservation struct {
	Battery  *float64 `json:"battery"`
	Rainfall *float64 `json:"rainfall"`
}

// SoilMoisture holds volumetric soil moisture at fixed depths (cm).
type SoilMoisture struct {
	SM10  *float64 `json:"sm10"`
	SM20  *float64 `json:"sm20"`
	SM30  *float64 `json:"sm30"`
	SM40  *float64 `json:"sm40"`
	SM60  *float64 `json:"sm60"`
	SM100 *float64 `json:"sm100"`
}

// SoilTemperature holds soil temperature at fixed depths (cm).
type SoilTemperature struct {
	TS10  *float64 `json:"ts10"`
	TS20  *float64 `json:"ts20"`
	TS30  *float64 `json:"ts30"`
	TS40  *float64 `json:"ts40"`
	TS60  *float64 `json:"ts60"`
	TS100 *float64 `json:"ts100"`
}

// SoilObservation is the reading of a soil station.
type SoilObservation struct {
	Battery         *float64        `json:"battery"`
	SWC             *float64        `json:"swc"`
	SoilMoisture    SoilMoisture    `json:"soilMoisture"`
	SoilTemperature SoilTemperature `json:"soilTemperature"`
}

// ClimateLevel is one measurement level of a micro climate mast.
type ClimateLevel struct {
	Temperature    *float64 `json:"temperature"`
	TemperatureMin *float64 `json:"temperatureMin"`
	TemperatureAvg *float64 `json:"temperatureAvg"`
	TemperatureMax *float64 `json:"temperatureMax"`
	Humidity       *float64 `json:"humidity"`
	HumidityMin    *float64 `json:"humidityMin"`
	HumidityAvg    *float64 `json:"humidityAvg"`
	HumidityMax    *float64 `json:"humidityMax"`
	WindSpeed      *float64 `json:"windSpeed"`
	WindSpeedMin   *float64 `json:"windSpeedMin"`
	WindSpeedAvg   *float64 `json:"windSpeedAvg"`
	WindSpeedMax   *float64 `json:"windSpeedMax"`
	WindDirection  *float64 `json:"windDirection"`
}

// MicroClimateObservation is the reading of an iklimmikro station,
// three structurally identical levels at 4m, 7m and 10m.
type MicroClimateObservation struct {
	Battery  *float64     `json:"battery"`
	Level4m  ClimateLevel `json:"level4m"`
	Level7m  ClimateLevel `json:"level7m"`
	Level10m ClimateLevel `json:"level10m"`
}

// SolarObservation is the reading of an asrs station.
type SolarObservation struct {
	Battery                *float64 `json:"battery"`
	DiffuseRadiation       *float64 `json:"diffuseRadiation"`
	GlobalRadiation        *float64 `json:"globalRadiation"`
	DirectNormalIrradiance *float64 `json:"directNormalIrradiance"`
	ReflectedRadiation     *float64 `json:"reflectedRadiation"`
	NetRadiation           *float64 `json:"netRadiation"`
	SunshineMinutes        *float64 `json:"sunshineMinutes"`
}

func (AWSObservation) observation()          {}
func (RainObservation) observation()         {}
func (SoilObservation) observation()         {}
func (MicroClimateObservation) observation() {}
func (SolarObservation) observation()        {}
