package bem

// EvaluateActuatorDisk applies one-dimensional actuator disk theory for
// axial induction a, disk area, air density rho and upstream speed vu.
func EvaluateActuatorDisk(a, area, rho, vu float64) ActuatorDiskOutput {
	q := 0.5 * rho * area * vu * vu

	ct := 4 * a * (1 - a)
	cp := ct * (1 - a)

	return ActuatorDiskOutput{
		Ct:     ct,
		Thrust: ct * q,
		Cp:     cp,
		Power:  cp * q * area,
		Vr:     vu * (1 - a),
		Vd:     vu * (1 - 2*a),
	}
}
