package device

// Sensor and actuator boundaries.
//
// The raw measurement routines live outside this core; the interfaces here
// are the contract the firmware holds against whatever drivers the build
// wires in (real I2C/GPIO drivers on the appliance, simulated ones on a
// development host). Units are defined by the underlying sensor.

// LightSensor reads ambient light intensity in lux.
type LightSensor interface {
	ReadLight() (float64, error)
}

// ClimateSensor reads air temperature (°C) and relative humidity (%).
// Combined because the appliance's climate chip reports both.
type ClimateSensor interface {
	ReadTemperature() (float64, error)
	ReadHumidity() (float64, error)
}

// MoistureSensor reads soil moisture. The scale is sensor-defined; the
// moisture threshold is expressed on the same scale.
type MoistureSensor interface {
	ReadMoisture() (float64, error)
}

// Output drives a binary actuator (lamp relay, pump relay).
//
// Writes are synchronous: when Write returns, the output level is set and
// immediately observable. No task ever sees a pending actuator state.
type Output interface {
	Write(on bool)
}
